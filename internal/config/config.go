// Package config provides configuration loading and discovery for rsbridge.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (RSBRIDGE_* prefix)
//  3. Config file (closest .rsbridge.toml or rsbridge.toml)
//  4. Built-in defaults
//
// Config file discovery walks up the filesystem from the target directory
// until a config file is found. The closest config wins (no merging).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".rsbridge.toml", "rsbridge.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "RSBRIDGE_"

// DefaultInspectCodePath is where the JetBrains command line tools are
// usually unpacked on build agents.
const DefaultInspectCodePath = "C:/jetbrains-commandline-tools/inspectcode.exe"

// Config represents the complete rsbridge configuration.
type Config struct {
	// ProjectName is passed to inspectcode as /project=.
	ProjectName string `json:"project-name,omitempty" koanf:"project-name"`

	// SolutionFile is the .sln to analyse. Required by analyze.
	SolutionFile string `json:"solution-file,omitempty" koanf:"solution-file"`

	// ReportFile, when set, is an existing inspectcode report. Analysis then
	// maps it instead of running inspectcode.
	ReportFile string `json:"report-file,omitempty" koanf:"report-file"`

	// InspectCodePath is the inspectcode executable.
	InspectCodePath string `json:"inspectcode-path,omitempty" koanf:"inspectcode-path"`

	// TimeoutMinutes bounds a single inspectcode run.
	TimeoutMinutes int `json:"timeout-minutes,omitempty" koanf:"timeout-minutes"`

	// CachesHome is passed to inspectcode as /caches-home=.
	CachesHome string `json:"caches-home,omitempty" koanf:"caches-home"`

	// SettingsProfile is a .DotSettings file passed as /profile=.
	SettingsProfile string `json:"settings-profile,omitempty" koanf:"settings-profile"`

	// Build selects the MSBuild platform and configuration.
	Build BuildConfig `json:"build" koanf:"build"`

	// CustomSeverities configures severity overrides.
	CustomSeverities CustomSeveritiesConfig `json:"custom-severities" koanf:"custom-severities"`

	// ProfileName names the default profile.
	ProfileName string `json:"profile-name,omitempty" koanf:"profile-name"`

	// WorkDir receives generated reports.
	WorkDir string `json:"work-dir,omitempty" koanf:"work-dir"`

	// Log configures the zap logger.
	Log LogConfig `json:"log" koanf:"log"`

	// Output configures how mapped issues are reported.
	Output OutputConfig `json:"output" koanf:"output"`

	// Exclude lists glob patterns of files that are never tracked.
	Exclude []string `json:"exclude,omitempty" koanf:"exclude"`

	// Languages lists the analysed languages.
	Languages []LanguageConfig `json:"languages" koanf:"languages"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `json:"-" koanf:"-"`
}

// BuildConfig holds the /properties: values.
//
// Example TOML configuration:
//
//	[build]
//	platform = "Any CPU"
//	configuration = "Release"
type BuildConfig struct {
	Platform      string `json:"platform,omitempty" koanf:"platform"`
	Configuration string `json:"configuration,omitempty" koanf:"configuration"`
}

// CustomSeveritiesConfig holds the two override sources.
//
// Example TOML configuration:
//
//	[custom-severities]
//	path = "build/Team.DotSettings"
//	definition = '''
//	<s:String x:Key="/Default/CodeInspection/Highlighting/InspectionSeverities/=InvertIf/@EntryIndexedValue">ERROR</s:String>
//	'''
type CustomSeveritiesConfig struct {
	// Definition is an inline settings fragment.
	Definition string `json:"definition,omitempty" koanf:"definition"`

	// Path is a settings file on disk.
	Path string `json:"path,omitempty" koanf:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is a zap level name.
	Level string `json:"level,omitempty" koanf:"level"`

	// Format is "console" or "json".
	Format string `json:"format,omitempty" koanf:"format"`
}

// OutputConfig configures output formatting and destination.
type OutputConfig struct {
	// Format specifies the output format.
	Format string `json:"format,omitempty" koanf:"format"`

	// Path specifies where to write output.
	Path string `json:"path,omitempty" koanf:"path"`
}

// LanguageConfig binds a host language to its repository and files.
//
// Example TOML configuration:
//
//	[[languages]]
//	key = "cs"
//	repository = "resharper-cs"
//	patterns = ["**/*.cs"]
type LanguageConfig struct {
	// Key is the host language key.
	Key string `json:"key" koanf:"key"`

	// Repository is the rule repository key.
	Repository string `json:"repository" koanf:"repository"`

	// Catalog names the bundled catalog, empty for the default.
	Catalog string `json:"catalog,omitempty" koanf:"catalog"`

	// Patterns are doublestar globs relative to the solution directory.
	Patterns []string `json:"patterns" koanf:"patterns"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		InspectCodePath: DefaultInspectCodePath,
		TimeoutMinutes:  60,
		WorkDir:         ".rsbridge",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Format: "text",
			Path:   "stdout",
		},
		Exclude: []string{"**/bin/**", "**/obj/**"},
		Languages: []LanguageConfig{
			{Key: "cs", Repository: "resharper-cs", Patterns: []string{"**/*.cs"}},
			{Key: "vbnet", Repository: "resharper-vbnet", Patterns: []string{"**/*.vb"}},
		},
	}
}

// Language returns the configuration of the given language key.
func (c *Config) Language(key string) (LanguageConfig, bool) {
	for _, l := range c.Languages {
		if l.Key == key {
			return l, true
		}
	}
	return LanguageConfig{}, false
}

// LanguageKeys returns the configured language keys in order.
func (c *Config) LanguageKeys() []string {
	keys := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		keys = append(keys, l.Key)
	}
	return keys
}

// SolutionDir is the directory holding the solution file, made absolute.
// Empty when no solution is configured.
func (c *Config) SolutionDir() string {
	if c.SolutionFile == "" {
		return ""
	}
	abs, err := filepath.Abs(c.SolutionFile)
	if err != nil {
		return filepath.Dir(c.SolutionFile)
	}
	return filepath.Dir(abs)
}

// Load loads configuration for a target path.
// It discovers the closest config file, loads it, and applies
// environment variable overrides.
func Load(targetPath string) (*Config, error) {
	return loadWithConfigPath(Discover(targetPath))
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return loadWithConfigPath(configPath)
}

func loadWithConfigPath(configPath string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	// 2. Load config file if provided
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, err
		}
	}

	// 3. Load environment variables (RSBRIDGE_* prefix)
	// RSBRIDGE_CUSTOM_SEVERITIES_PATH -> custom-severities.path
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil); err != nil {
		return nil, err
	}

	cfg, err := decodeConfig(k)
	if err != nil {
		return nil, err
	}

	cfg.ConfigFile = configPath
	return cfg, nil
}

// knownHyphenatedKeys maps dot-separated patterns to their hyphenated equivalents.
// Add new entries here when adding hyphenated keys.
var knownHyphenatedKeys = [][2]string{
	{"project.name", "project-name"},
	{"solution.file", "solution-file"},
	{"report.file", "report-file"},
	{"inspectcode.path", "inspectcode-path"},
	{"timeout.minutes", "timeout-minutes"},
	{"caches.home", "caches-home"},
	{"settings.profile", "settings-profile"},
	{"custom.severities", "custom-severities"},
	{"profile.name", "profile-name"},
	{"work.dir", "work-dir"},
	{"output.path", "output-path"},
}

var allowedEnvTopLevelKeys = map[string]struct{}{
	"project-name":      {},
	"solution-file":     {},
	"report-file":       {},
	"inspectcode-path":  {},
	"timeout-minutes":   {},
	"caches-home":       {},
	"settings-profile":  {},
	"build":             {},
	"custom-severities": {},
	"profile-name":      {},
	"work-dir":          {},
	"log":               {},
	"output":            {},
	// Compatibility aliases normalized in normalizeOutputAliases.
	"format":      {},
	"output-path": {},
}

// envKeyTransform converts environment variable names to config keys.
// RSBRIDGE_SOLUTION_FILE -> solution-file
// RSBRIDGE_BUILD_CONFIGURATION -> build.configuration
func envKeyTransform(k, v string) (string, any) {
	s := strings.TrimPrefix(k, EnvPrefix)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for _, pair := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pair[0], pair[1])
	}

	topLevel := s
	if before, _, ok := strings.Cut(s, "."); ok {
		topLevel = before
	}
	if _, ok := allowedEnvTopLevelKeys[topLevel]; !ok {
		return "", nil
	}

	return s, v
}

// Discover finds the closest config file for a target path.
// It walks up the directory tree from the target's directory,
// checking for config files at each level.
// Returns empty string if no config file is found.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	dir := absPath
	if !isDir(absPath) {
		dir = filepath.Dir(absPath)
	}

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
