// Package inspectcode builds and runs the JetBrains inspectcode command line.
package inspectcode

import (
	"path/filepath"
	"strings"

	"github.com/wharflab/rsbridge/internal/config"
)

// Command is one inspectcode invocation.
type Command struct {
	// Executable is the inspectcode binary.
	Executable string
	// Project restricts the analysis to matching projects.
	Project string
	// ReportFile receives the XML report.
	ReportFile string
	// CachesHome is the cache directory.
	CachesHome string
	// Profile is a .DotSettings file with custom settings.
	Profile string
	// Properties are MSBuild properties, e.g. "Configuration=Release".
	Properties []string
	// Solution is the .sln to analyse.
	Solution string
	// TimeoutMinutes bounds the run; zero means no limit.
	TimeoutMinutes int
}

// NewCommand builds the invocation described by cfg, writing its report to
// reportFile.
func NewCommand(cfg *config.Config, reportFile string) Command {
	cmd := Command{
		Executable:     cfg.InspectCodePath,
		Project:        cfg.ProjectName,
		ReportFile:     reportFile,
		CachesHome:     cfg.CachesHome,
		Profile:        cfg.SettingsProfile,
		Solution:       cfg.SolutionFile,
		TimeoutMinutes: cfg.TimeoutMinutes,
	}
	cmd.Properties = appendProperty(cmd.Properties, "Platform", cfg.Build.Platform)
	cmd.Properties = appendProperty(cmd.Properties, "Configuration", cfg.Build.Configuration)
	return cmd
}

// appendProperty adds name=value with spaces removed from value, when value
// is set. "Any CPU" becomes "AnyCPU", the name MSBuild expects.
func appendProperty(props []string, name, value string) []string {
	if value == "" {
		return props
	}
	return append(props, name+"="+strings.ReplaceAll(value, " ", ""))
}

// Args returns the command line arguments, the solution path last.
func (c Command) Args() []string {
	var args []string
	if c.Project != "" {
		args = append(args, "/project="+c.Project)
	}
	args = append(args, "/output="+absPath(c.ReportFile))
	if c.CachesHome != "" {
		args = append(args, "/caches-home="+c.CachesHome)
	}
	if c.Profile != "" {
		args = append(args, "/profile="+absPath(c.Profile))
	}
	if len(c.Properties) > 0 {
		args = append(args, "/properties:"+strings.Join(c.Properties, ";"))
	}
	return append(args, absPath(c.Solution))
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Executable}, c.Args()...), " ")
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
