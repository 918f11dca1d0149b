package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/servicecore/internal/app"
	"github.com/vk/servicecore/internal/cli"
	"github.com/vk/servicecore/internal/hcl"
	"github.com/vk/servicecore/internal/inmemory"
	"github.com/vk/servicecore/internal/manifest"
	"github.com/vk/servicecore/internal/yaml"
)

// main is the entrypoint for the servicecore application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) (err error) {
	// The app panics on critical config errors, so we recover here to turn
	// them into a clean error for the caller.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Accept both manifest formats side by side; each loader only picks up
	// its own file extensions.
	loader := manifest.Multi(yaml.NewLoader(), hcl.NewLoader())

	// The CLI runs without an external topology; an empty in-memory
	// registry keeps targeted schemas loadable for inspection.
	topology := inmemory.New()

	coreApp := app.NewApp(outW, appConfig, loader, topology.Registries())
	return coreApp.Run(context.Background())
}
