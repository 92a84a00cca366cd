package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/urfave/cli/v3"

	"github.com/wharflab/rsbridge/internal/config"
	"github.com/wharflab/rsbridge/internal/diag"
	"github.com/wharflab/rsbridge/internal/rules"
)

func rulesCommand() *cli.Command {
	return &cli.Command{
		Name:      "rules",
		Usage:     "List the rules of a language repository",
		ArgsUsage: "[DIR]",
		Flags: append(configFlags(), languageFlag(),
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only list rules of this category",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output rules as JSON",
			},
		),
		Action: runRules,
	}
}

func runRules(_ context.Context, cmd *cli.Command) error {
	errOut := cmd.Root().ErrWriter

	cfg, err := loadConfig(cmd, targetArg(cmd), nil)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	repo, err := loadRepository(cfg, cmd.String("language"))
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	list := repo.All()
	if category := cmd.String("category"); category != "" {
		list = repo.ByCategory(category)
	}

	w := cmd.Root().Writer
	if cmd.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("KEY", "SEVERITY", "PRIORITY", "ENABLED", "CATEGORY")
	for _, r := range list {
		t.Row(r.Key(), r.Severity.String(), r.Priority().String(), enabledLabel(r.Enabled), r.Category)
	}
	_, err = fmt.Fprintf(w, "%s\n%d rules in repository %s (%s)\n", t.String(), len(list), repo.Key, strings.ToUpper(repo.Language))
	return err
}

// loadRepository loads the rule repository of a configured language,
// logging diagnostics with the configured logger.
func loadRepository(cfg *config.Config, language string) (*rules.Repository, error) {
	lang, ok := cfg.Language(language)
	if !ok {
		return nil, fmt.Errorf("language %q is not configured (configured: %v)", language, cfg.LanguageKeys())
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return rules.LoadRepository(lang.Repository, lang.Key, lang.Catalog, cfg.CustomSeverities.Definition, diag.New(log))
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "yes"
	}
	return "no"
}
