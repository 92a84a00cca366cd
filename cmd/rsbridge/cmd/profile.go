package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/rsbridge/internal/diag"
	"github.com/wharflab/rsbridge/internal/profile"
	"github.com/wharflab/rsbridge/internal/reporter"
)

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Export or import quality profiles as ReSharper IssueType catalogs",
		Commands: []*cli.Command{
			{
				Name:      "export",
				Usage:     "Export the default profile of a language, with custom severities applied",
				ArgsUsage: "[DIR]",
				Flags: append(configFlags(), languageFlag(),
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path: stdout, stderr, or file path",
					},
				),
				Action: runProfileExport,
			},
			{
				Name:      "import",
				Usage:     "Import an IssueType catalog as a profile and list its active rules",
				ArgsUsage: "FILE",
				Flags: append(configFlags(), languageFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output active rules as JSON",
					},
				),
				Action: runProfileImport,
			},
		},
	}
}

func runProfileExport(_ context.Context, cmd *cli.Command) error {
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
	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	prof, err := profile.BuildDefault(repo, cfg, diag.New(log))
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	writer, closeWriter := cmd.Root().Writer, func() error { return nil }
	if path := cmd.String("output"); path != "" && path != "stdout" {
		writer, closeWriter, err = reporter.GetWriter(path)
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

	if err := profile.ExportProfile(writer, prof, repo.Key); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	return nil
}

func runProfileImport(_ context.Context, cmd *cli.Command) error {
	errOut := cmd.Root().ErrWriter

	if cmd.Args().Len() != 1 {
		fmt.Fprintln(errOut, "Error: expected exactly one catalog file")
		return cli.Exit("", ExitConfigError)
	}
	path := cmd.Args().First()

	cfg, err := loadConfig(cmd, path, nil)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	repo, err := loadRepository(cfg, cmd.String("language"))
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	defer f.Close()

	msgs := diag.New(log)
	prof, err := profile.Importer{Language: repo.Language, Repository: repo}.Import(f, path, msgs)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	prof.Name = profile.Name(cfg, msgs)

	w := cmd.Root().Writer
	if cmd.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(prof.ActiveRules())
	}
	for _, a := range prof.ActiveRules() {
		if _, err := fmt.Fprintf(w, "%-10s %s\n", a.Priority, a.Key()); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "%d rules activated in profile %q (%d warnings)\n", prof.Len(), prof.Name, len(msgs.Warnings()))
	return err
}
