package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/rsbridge/internal/version"
)

// Exit codes
const (
	ExitSuccess     = 0 // No issues at or above fail-level
	ExitIssues      = 1 // Issues found at or above fail-level
	ExitConfigError = 2 // Config, parse or execution error
	ExitNoFiles     = 3 // No language had files or active rules to analyse
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "rsbridge",
		Usage:   "Run ReSharper inspectcode and translate its results into quality profile issues",
		Version: version.Version(),
		Description: `rsbridge runs the ReSharper command line inspector on a .NET solution,
resolves the severity of every rule against a quality profile and reports
the issues found in tracked C# and VB.NET files.

Examples:
  rsbridge analyze --solution App.sln
  rsbridge analyze --report-file inspectcode.xml --format sarif .
  rsbridge profile export --language cs > profile.xml
  rsbridge rules --language vbnet`,
		Commands: []*cli.Command{
			analyzeCommand(),
			rulesCommand(),
			profileCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
