package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/servicecore/internal/service"
)

// Run prints the loaded service catalog to the application's output writer.
// It is the CLI's default action: load the manifests, validate them against
// the registered handlers and show what the instance exposes.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("App.Run method started.")

	fmt.Fprintf(a.outW, "Services registered: %d\n", a.store.Len())
	for def := range a.store.All() {
		fmt.Fprintf(a.outW, "\n%s", def.Key)
		if def.Name != "" {
			fmt.Fprintf(a.outW, "  (%s)", def.Name)
		}
		fmt.Fprintln(a.outW)
		if def.Description != "" {
			fmt.Fprintf(a.outW, "  %s\n", def.Description)
		}

		for _, field := range def.Fields {
			var notes []string
			if field.Required {
				notes = append(notes, "required")
			}
			if field.Advanced {
				notes = append(notes, "advanced")
			}
			suffix := ""
			if len(notes) > 0 {
				suffix = fmt.Sprintf(" [%s]", strings.Join(notes, ", "))
			}
			fmt.Fprintf(a.outW, "  - %s: %s%s\n", field.Key, field.Selector.Kind, suffix)
		}

		if def.Target != nil {
			fmt.Fprintf(a.outW, "  targets: %s\n", strings.Join(targetCategories(def.Target), ", "))
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func targetCategories(spec *service.TargetSpec) []string {
	var categories []string
	if spec.Entity != nil {
		categories = append(categories, "entity")
	}
	if spec.Device != nil {
		categories = append(categories, "device")
	}
	if spec.Area != nil {
		categories = append(categories, "area")
	}
	if spec.Label != nil {
		categories = append(categories, "label")
	}
	return categories
}
