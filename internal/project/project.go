// Package project resolves inspectcode report paths to the source files of a
// solution and discovers those files by language with glob patterns.
package project

import (
	"cmp"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/wharflab/rsbridge/internal/config"
	"github.com/wharflab/rsbridge/internal/mapper"
)

// Project is the set of source files under a solution directory.
type Project struct {
	// SolutionDir is the absolute directory holding the solution file.
	SolutionDir string

	// Languages assigns files to languages. The first matching language wins.
	Languages []config.LanguageConfig

	// ExcludePatterns are glob patterns of files that are never tracked.
	ExcludePatterns []string
}

var _ mapper.FileResolver = (*Project)(nil)

// New returns the project rooted at solutionDir.
func New(solutionDir string, languages []config.LanguageConfig, exclude []string) (*Project, error) {
	abs, err := filepath.Abs(solutionDir)
	if err != nil {
		return nil, err
	}
	return &Project{SolutionDir: abs, Languages: languages, ExcludePatterns: exclude}, nil
}

// FromConfig returns the project of the configured solution.
func FromConfig(cfg *config.Config) (*Project, error) {
	return New(cfg.SolutionDir(), cfg.Languages, cfg.Exclude)
}

// Locate turns a report path into an absolute path. Report paths use
// Windows separators and are relative to the solution directory.
func (p *Project) Locate(reportPath string) string {
	slashed := strings.ReplaceAll(reportPath, `\`, "/")
	native := filepath.FromSlash(slashed)
	if filepath.IsAbs(native) {
		return filepath.Clean(native)
	}
	return filepath.Join(p.SolutionDir, native)
}

// Lookup returns the tracked file at an absolute path. The file must exist
// inside the solution directory, not be excluded and match a language.
func (p *Project) Lookup(absPath string) (mapper.TrackedFile, bool) {
	rel, ok := p.relPath(absPath)
	if !ok {
		return mapper.TrackedFile{}, false
	}
	info, err := os.Stat(absPath)
	if err != nil || info.IsDir() {
		return mapper.TrackedFile{}, false
	}
	if isExcluded(rel, p.ExcludePatterns) {
		return mapper.TrackedFile{}, false
	}
	lang, ok := p.Language(rel)
	if !ok {
		return mapper.TrackedFile{}, false
	}
	return mapper.TrackedFile{Path: absPath, RelPath: rel, Language: lang}, true
}

// Language returns the key of the first language whose patterns match the
// slash-separated path relative to the solution directory.
func (p *Project) Language(rel string) (string, bool) {
	for _, l := range p.Languages {
		for _, pattern := range l.Patterns {
			if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
				return l.Key, true
			}
		}
	}
	return "", false
}

// Files returns the tracked files of a language, sorted by path.
func (p *Project) Files(language string) ([]mapper.TrackedFile, error) {
	lang, ok := p.languageConfig(language)
	if !ok {
		return nil, nil
	}

	root := os.DirFS(p.SolutionDir)
	seen := make(map[string]bool)
	var results []mapper.TrackedFile
	for _, pattern := range lang.Patterns {
		matches, err := doublestar.Glob(root, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, err
		}
		for _, rel := range matches {
			if seen[rel] || isExcluded(rel, p.ExcludePatterns) {
				continue
			}
			seen[rel] = true
			// A file claimed by an earlier language belongs to that one.
			if owner, _ := p.Language(rel); owner != language {
				continue
			}
			results = append(results, mapper.TrackedFile{
				Path:     filepath.Join(p.SolutionDir, filepath.FromSlash(rel)),
				RelPath:  rel,
				Language: language,
			})
		}
	}

	slices.SortFunc(results, func(a, b mapper.TrackedFile) int {
		return cmp.Compare(a.RelPath, b.RelPath)
	})
	return results, nil
}

// HasFiles reports whether any file of language is tracked.
func (p *Project) HasFiles(language string) (bool, error) {
	files, err := p.Files(language)
	return len(files) > 0, err
}

func (p *Project) languageConfig(key string) (config.LanguageConfig, bool) {
	for _, l := range p.Languages {
		if l.Key == key {
			return l, true
		}
	}
	return config.LanguageConfig{}, false
}

// relPath returns absPath relative to the solution directory with forward
// slashes, or false when it lies outside.
func (p *Project) relPath(absPath string) (string, bool) {
	rel, err := filepath.Rel(p.SolutionDir, absPath)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, fs.ValidPath(rel)
}

// isExcluded matches a relative slash path against the exclusion patterns,
// first as a whole, then by basename, then by each suffix subpath so that
// "vendor/*" matches a vendor directory at any depth.
func isExcluded(rel string, excludePatterns []string) bool {
	base := path.Base(rel)
	parts := strings.Split(rel, "/")

	for _, pattern := range excludePatterns {
		pattern = filepath.ToSlash(pattern)

		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
		for i := 1; i < len(parts); i++ {
			if matched, err := doublestar.Match(pattern, strings.Join(parts[i:], "/")); err == nil && matched {
				return true
			}
		}
	}
	return false
}
