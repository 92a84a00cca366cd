package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/knadh/koanf/v2"
)

// MissingPropertyError reports a required configuration key that is unset.
type MissingPropertyError struct {
	Key string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("the property %q must be set", e.Key)
}

// RequireSolution checks the analysis preconditions. It must pass before any
// file is parsed or inspectcode is started.
func (c *Config) RequireSolution() error {
	if strings.TrimSpace(c.SolutionFile) == "" {
		return &MissingPropertyError{Key: "solution-file"}
	}
	return nil
}

var (
	validLogFormats    = []string{"console", "text", "json"}
	validOutputFormats = []string{"text", "json", "sarif", "github-actions", "markdown"}
)

func decodeConfig(k *koanf.Koanf) (*Config, error) {
	normalizeOutputAliases(k)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// normalizeOutputAliases accepts top-level "format" and "output-path" as
// shorthands for the output table.
func normalizeOutputAliases(k *koanf.Koanf) {
	aliases := map[string]string{
		"format":      "output.format",
		"output-path": "output.path",
	}
	for from, to := range aliases {
		if !k.Exists(from) {
			continue
		}
		_ = k.Set(to, k.Get(from))
		k.Delete(from)
	}
}

// Validate checks value ranges and the language table.
func (c *Config) Validate() error {
	var errs []error

	if c.TimeoutMinutes <= 0 {
		errs = append(errs, fmt.Errorf("timeout-minutes must be positive, got %d", c.TimeoutMinutes))
	}
	if c.Log.Format != "" && !slices.Contains(validLogFormats, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format %q is not one of %s", c.Log.Format, strings.Join(validLogFormats, ", ")))
	}
	if c.Output.Format != "" && !slices.Contains(validOutputFormats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format %q is not one of %s", c.Output.Format, strings.Join(validOutputFormats, ", ")))
	}
	if len(c.Languages) == 0 {
		errs = append(errs, errors.New("at least one language must be configured"))
	}

	seen := make(map[string]bool, len(c.Languages))
	for i, l := range c.Languages {
		switch {
		case l.Key == "":
			errs = append(errs, fmt.Errorf("languages[%d]: key must be set", i))
		case seen[l.Key]:
			errs = append(errs, fmt.Errorf("languages[%d]: duplicate language %q", i, l.Key))
		}
		seen[l.Key] = true
		if l.Repository == "" {
			errs = append(errs, fmt.Errorf("languages[%d]: repository must be set", i))
		}
		if len(l.Patterns) == 0 {
			errs = append(errs, fmt.Errorf("languages[%d]: at least one pattern is required", i))
		}
	}

	return errors.Join(errs...)
}
