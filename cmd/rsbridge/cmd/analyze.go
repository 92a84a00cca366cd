package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wharflab/rsbridge/internal/analysis"
	"github.com/wharflab/rsbridge/internal/config"
	"github.com/wharflab/rsbridge/internal/diag"
	"github.com/wharflab/rsbridge/internal/reporter"
	"github.com/wharflab/rsbridge/internal/rules"
	"github.com/wharflab/rsbridge/internal/version"
)

func analyzeCommand() *cli.Command {
	flags := append(configFlags(),
		&cli.StringFlag{
			Name:  "report-file",
			Usage: "Read an existing inspectcode report instead of running inspectcode",
		},
		&cli.StringFlag{
			Name:    "inspectcode",
			Usage:   "Path to the inspectcode executable",
			Sources: cli.EnvVars("RSBRIDGE_INSPECTCODE_PATH"),
		},
		&cli.StringFlag{
			Name:  "build-configuration",
			Usage: "Build configuration passed to inspectcode (e.g. Release)",
		},
		&cli.StringFlag{
			Name:  "build-platform",
			Usage: "Build platform passed to inspectcode (e.g. Any CPU)",
		},
		&cli.StringSliceFlag{
			Name:    "language",
			Aliases: []string{"l"},
			Usage:   "Only analyse these languages (can be repeated)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, sarif, github-actions, markdown",
			Sources: cli.EnvVars("RSBRIDGE_FORMAT", "RSBRIDGE_OUTPUT_FORMAT"),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output path: stdout, stderr, or file path",
			Sources: cli.EnvVars("RSBRIDGE_OUTPUT_PATH"),
		},
		&cli.BoolFlag{
			Name:    "no-color",
			Usage:   "Disable colored output",
			Sources: cli.EnvVars("NO_COLOR"),
		},
		&cli.BoolFlag{
			Name:  "hide-source",
			Usage: "Hide source code snippets",
		},
		&cli.StringFlag{
			Name:  "fail-level",
			Usage: "Minimum priority to cause non-zero exit: blocker, critical, major, minor, info, none",
			Value: "info",
		},
		&cli.IntFlag{
			Name:  "jobs",
			Usage: "Number of languages analysed concurrently",
			Value: 1,
		},
	)

	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"analyse"},
		Usage:     "Analyse a solution and report the issues of the quality profile",
		ArgsUsage: "[DIR]",
		Flags:     flags,
		Action:    runAnalyze,
	}
}

// languageRun is the outcome of one language.
type languageRun struct {
	result       *analysis.Result
	rulesEnabled int
	msgs         *diag.Messages
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	errOut := cmd.Root().ErrWriter

	cfg, err := loadConfig(cmd, targetArg(cmd), analyzeOverrides(cmd))
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	if err := cfg.RequireSolution(); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	defer func() { _ = log.Sync() }()

	languages, err := selectLanguages(cfg, cmd.StringSlice("language"))
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	runs, err := analyseLanguages(ctx, cfg, languages, max(1, cmd.Int("jobs")), log)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	var (
		findings []reporter.Finding
		metadata reporter.ReportMetadata
	)
	for _, run := range runs {
		if run.result == nil {
			continue
		}
		findings = append(findings, run.result.Findings...)
		metadata.FilesScanned += run.result.FilesScanned
		metadata.RulesEnabled += run.rulesEnabled
		metadata.Languages = append(metadata.Languages, run.result.Language)
	}
	if len(metadata.Languages) == 0 {
		fmt.Fprintln(errOut, "Error: no language has files and active rules to analyse")
		return cli.Exit("", ExitNoFiles)
	}

	return writeReport(cmd, cfg, findings, metadata)
}

// analyzeOverrides maps the analyze flags onto config keys.
func analyzeOverrides(cmd *cli.Command) map[string]any {
	overrides := map[string]any{}
	if cmd.IsSet("report-file") {
		if abs, err := filepath.Abs(cmd.String("report-file")); err == nil {
			overrides["report-file"] = abs
		}
	}
	if cmd.IsSet("inspectcode") {
		overrides["inspectcode-path"] = cmd.String("inspectcode")
	}

	build := map[string]any{}
	if cmd.IsSet("build-configuration") {
		build["configuration"] = cmd.String("build-configuration")
	}
	if cmd.IsSet("build-platform") {
		build["platform"] = cmd.String("build-platform")
	}
	if len(build) > 0 {
		overrides["build"] = build
	}

	output := map[string]any{}
	if cmd.IsSet("format") {
		output["format"] = cmd.String("format")
	}
	if cmd.IsSet("output") {
		output["path"] = cmd.String("output")
	}
	if len(output) > 0 {
		overrides["output"] = output
	}
	return overrides
}

// analyseLanguages runs one sensor per language, at most jobs at a time.
// Runs keep the order of languages; skipped languages have no result.
func analyseLanguages(
	ctx context.Context, cfg *config.Config, languages []string, jobs int, log *zap.SugaredLogger,
) ([]languageRun, error) {
	runs := make([]languageRun, len(languages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, lang := range languages {
		g.Go(func() error {
			msgs := diag.New(log.With("language", lang))
			runs[i].msgs = msgs

			sensor, err := analysis.New(cfg, lang, msgs)
			if err != nil {
				return fmt.Errorf("%s: %w", lang, err)
			}
			ok, err := sensor.ShouldExecute()
			if err != nil {
				return fmt.Errorf("%s: %w", lang, err)
			}
			if !ok {
				return nil
			}
			res, err := sensor.Analyse(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", lang, err)
			}
			runs[i].result = res
			runs[i].rulesEnabled = len(sensor.Profile.ActiveRulesByRepository(sensor.Language.Repository))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

func writeReport(cmd *cli.Command, cfg *config.Config, findings []reporter.Finding, metadata reporter.ReportMetadata) error {
	errOut := cmd.Root().ErrWriter

	formatType, err := reporter.ParseFormat(cfg.Output.Format)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	writer, closeWriter := cmd.Root().Writer, func() error { return nil }
	if cfg.Output.Path != "" && cfg.Output.Path != "stdout" {
		writer, closeWriter, err = reporter.GetWriter(cfg.Output.Path)
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
			return cli.Exit("", ExitConfigError)
		}
	}
	defer func() {
		if err := closeWriter(); err != nil {
			fmt.Fprintf(errOut, "Warning: failed to close output: %v\n", err)
		}
	}()

	opts := reporter.Options{
		Format:      formatType,
		Writer:      writer,
		HideSource:  cmd.Bool("hide-source"),
		ToolName:    "rsbridge",
		ToolVersion: version.RawVersion(),
		ToolURI:     "https://github.com/wharflab/rsbridge",
	}
	if cmd.IsSet("no-color") && cmd.Bool("no-color") {
		noColor := false
		opts.Color = &noColor
	}

	rep, err := reporter.New(opts)
	if err != nil {
		fmt.Fprintf(errOut, "Error: failed to create reporter: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	if err := rep.Report(findings, metadata); err != nil {
		fmt.Fprintf(errOut, "Error: failed to write output: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	exitCode, err := determineExitCode(findings, cmd.String("fail-level"))
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	if exitCode != ExitSuccess {
		return cli.Exit("", exitCode)
	}
	return nil
}

var errInvalidFailLevel = errors.New("invalid --fail-level")

// determineExitCode returns ExitIssues when a finding is at least as severe
// as failLevel.
func determineExitCode(findings []reporter.Finding, failLevel string) (int, error) {
	if failLevel == "none" {
		return ExitSuccess, nil
	}
	threshold, err := rules.ParsePriority(failLevel)
	if err != nil {
		return ExitConfigError, fmt.Errorf("%w %q", errInvalidFailLevel, failLevel)
	}
	for _, f := range findings {
		if f.Priority <= threshold {
			return ExitIssues, nil
		}
	}
	return ExitSuccess, nil
}
