package cmd

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wharflab/rsbridge/internal/config"
	"github.com/wharflab/rsbridge/internal/logging"
)

// configFlags are shared by every command that loads the configuration.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file (default: auto-discover)",
		},
		&cli.StringFlag{
			Name:    "solution",
			Aliases: []string{"s"},
			Usage:   "Solution file to analyse",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: console, json",
		},
		&cli.StringFlag{
			Name:  "severities-file",
			Usage: "DotSettings file with custom rule severities",
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "Quality profile name",
		},
	}
}

// languageFlag selects the language of single-language commands.
func languageFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "language",
		Aliases: []string{"l"},
		Usage:   "Language key",
		Value:   "cs",
	}
}

// loadConfig loads the configuration closest to target and applies the flags
// that were set on cmd, plus extra.
func loadConfig(cmd *cli.Command, target string, extra map[string]any) (*config.Config, error) {
	overrides := make(map[string]any, len(extra)+4)
	for k, v := range extra {
		overrides[k] = v
	}

	if cmd.IsSet("solution") {
		abs, err := filepath.Abs(cmd.String("solution"))
		if err != nil {
			return nil, err
		}
		overrides["solution-file"] = abs
	}
	if cmd.IsSet("severities-file") {
		overrides["custom-severities"] = map[string]any{"path": cmd.String("severities-file")}
	}
	if cmd.IsSet("profile") {
		overrides["profile-name"] = cmd.String("profile")
	}

	logOverrides := map[string]any{}
	if cmd.IsSet("log-level") {
		logOverrides["level"] = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		logOverrides["format"] = cmd.String("log-format")
	}
	if len(logOverrides) > 0 {
		overrides["log"] = logOverrides
	}

	return config.LoadWithOverrides(target, cmd.String("config"), overrides)
}

// newLogger builds the logger configured by cfg.
func newLogger(cfg *config.Config) (*zap.SugaredLogger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.Format)
}

// selectLanguages returns the configured languages, restricted to wanted when
// it is not empty.
func selectLanguages(cfg *config.Config, wanted []string) ([]string, error) {
	all := cfg.LanguageKeys()
	if len(wanted) == 0 {
		return all, nil
	}
	for _, key := range wanted {
		if !slices.Contains(all, key) {
			return nil, fmt.Errorf("language %q is not configured (configured: %v)", key, all)
		}
	}
	return wanted, nil
}

// targetArg returns the first positional argument, or the working directory.
func targetArg(cmd *cli.Command) string {
	if cmd.Args().Len() > 0 {
		return cmd.Args().First()
	}
	return "."
}
