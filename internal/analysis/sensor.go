// Package analysis runs inspectcode for one language and maps its report to
// host issue records.
package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wharflab/rsbridge/internal/config"
	"github.com/wharflab/rsbridge/internal/diag"
	"github.com/wharflab/rsbridge/internal/inspectcode"
	"github.com/wharflab/rsbridge/internal/mapper"
	"github.com/wharflab/rsbridge/internal/profile"
	"github.com/wharflab/rsbridge/internal/project"
	"github.com/wharflab/rsbridge/internal/report"
	"github.com/wharflab/rsbridge/internal/reporter"
	"github.com/wharflab/rsbridge/internal/rules"
)

// Files is the view of the analysed sources the sensor needs.
type Files interface {
	mapper.FileResolver
	HasFiles(language string) (bool, error)
	Files(language string) ([]mapper.TrackedFile, error)
}

// Sensor analyses one language of a solution.
type Sensor struct {
	Config     *config.Config
	Language   config.LanguageConfig
	Repository *rules.Repository
	Profile    *profile.Profile
	Files      Files
	Runner     inspectcode.Runner
	Messages   *diag.Messages
}

// Result is the outcome of Analyse.
type Result struct {
	Language   string          `json:"language"`
	ReportFile string          `json:"reportFile"`
	Issues     int             `json:"issues"`
	Records    []mapper.Record `json:"records"`
	ExitCode   int             `json:"exitCode"`
	// Findings are Records with their profile priority.
	Findings []reporter.Finding `json:"-"`
	// FilesScanned is the number of tracked files of the language.
	FilesScanned int `json:"filesScanned"`
}

// New prepares the sensor of language: its repository, default profile and
// project files. The runner is an inspectcode Executor logging to msgs.
func New(cfg *config.Config, language string, msgs *diag.Messages) (*Sensor, error) {
	lang, ok := cfg.Language(language)
	if !ok {
		return nil, fmt.Errorf("language %q is not configured", language)
	}
	repo, err := rules.LoadRepository(lang.Repository, lang.Key, lang.Catalog, cfg.CustomSeverities.Definition, msgs)
	if err != nil {
		return nil, err
	}
	prof, err := profile.BuildDefault(repo, cfg, msgs)
	if err != nil {
		return nil, err
	}
	files, err := project.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Sensor{
		Config:     cfg,
		Language:   lang,
		Repository: repo,
		Profile:    prof,
		Files:      files,
		Runner:     &inspectcode.Executor{Log: msgs.Logger()},
		Messages:   msgs,
	}, nil
}

// ShouldExecute reports whether the language has files to analyse and at
// least one active rule.
func (s *Sensor) ShouldExecute() (bool, error) {
	has, err := s.Files.HasFiles(s.Language.Key)
	if err != nil {
		return false, err
	}
	if !has {
		s.Messages.Infof("No %s files to analyse, skipping ReSharper execution.", s.Language.Key)
		return false, nil
	}
	if len(s.Profile.ActiveRulesByRepository(s.Language.Repository)) == 0 {
		s.Messages.Infof("All ReSharper rules are disabled, skipping its execution.")
		return false, nil
	}
	return true, nil
}

// ReportFile is where the report of the language is read from: the
// configured report file, or a per-language file in the work directory.
func (s *Sensor) ReportFile() string {
	if s.Config.ReportFile != "" {
		return s.Config.ReportFile
	}
	return filepath.Join(s.Config.WorkDir, "resharper-report-"+s.Language.Key+".xml")
}

// Analyse checks the configuration, runs inspectcode unless a report file is
// configured, then parses and maps the report.
func (s *Sensor) Analyse(ctx context.Context) (*Result, error) {
	if err := s.Config.RequireSolution(); err != nil {
		return nil, err
	}

	res := &Result{Language: s.Language.Key, ReportFile: s.ReportFile()}
	if s.Config.ReportFile == "" {
		if err := os.MkdirAll(s.Config.WorkDir, 0o750); err != nil {
			return nil, fmt.Errorf("create work directory: %w", err)
		}
		run, err := s.Runner.Run(ctx, inspectcode.NewCommand(s.Config, res.ReportFile))
		if err != nil {
			return nil, err
		}
		res.ExitCode = run.ExitCode
		if run.ExitCode != 0 {
			s.Messages.Warnf("inspectcode exited with code %d:\n%s", run.ExitCode, run.Output)
		}
	}

	f, err := os.Open(res.ReportFile)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	issues, err := report.Parse(f, res.ReportFile)
	if err != nil {
		return nil, err
	}
	res.Issues = len(issues)

	m := &mapper.Mapper{
		Language:        s.Language.Key,
		RepositoryKey:   s.Language.Repository,
		EnabledRuleKeys: s.Profile.EnabledRuleKeys(s.Language.Repository),
		Files:           s.Files,
		Messages:        s.Messages,
	}
	res.Records = m.Map(issues)
	res.Findings = reporter.NewFindings(res.Records, s.Repository, s.Profile)
	if files, err := s.Files.Files(s.Language.Key); err == nil {
		res.FilesScanned = len(files)
	}
	s.Messages.Debugf("%s: %d issues in report, %d mapped", s.Language.Key, res.Issues, len(res.Records))
	return res, nil
}
