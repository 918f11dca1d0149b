package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ManifestPath points to a single manifest file or a directory of
	// manifest files.
	ManifestPath string

	LogFormat   string
	LogLevel    string
	WorkerCount int

	// StrictTargets makes resolution fail on the first unknown entity or
	// device instead of collecting warnings.
	StrictTargets bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
