package customseverity

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/wharflab/rsbridge/internal/config"
	"github.com/wharflab/rsbridge/internal/rules"
)

// Source is an opened settings document.
type Source struct {
	// Name describes the document in diagnostics.
	Name string

	r      io.Reader
	closer io.Closer
}

// NewSource wraps r. The closer may be nil.
func NewSource(name string, r io.Reader, closer io.Closer) *Source {
	return &Source{Name: name, r: r, closer: closer}
}

// Read implements io.Reader.
func (s *Source) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

// Close releases the underlying resource, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Provider yields one settings document from the configuration.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// Source opens the document. ok is false when the provider is not
	// configured; the provider is then skipped without error.
	Source(cfg *config.Config) (src *Source, ok bool, err error)
}

// FileProvider reads the settings file at custom-severities.path.
type FileProvider struct{}

// Name implements Provider.
func (FileProvider) Name() string { return "custom-severities.path" }

// Source implements Provider. A UTF-8 or UTF-16 byte order mark is removed and
// UTF-16 content is converted to UTF-8.
func (FileProvider) Source(cfg *config.Config) (*Source, bool, error) {
	path := strings.TrimSpace(cfg.CustomSeverities.Path)
	if path == "" {
		return nil, false, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, true, fmt.Errorf("could not open %s defined in %s: %w", path, FileProvider{}.Name(), err)
	}
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return NewSource(path, transform.NewReader(f, decoder), f), true, nil
}

// InlineProvider reads the fragment at custom-severities.definition.
type InlineProvider struct{}

// Name implements Provider.
func (InlineProvider) Name() string { return "custom-severities.definition" }

// Source implements Provider. The fragment is wrapped into a document root.
func (InlineProvider) Source(cfg *config.Config) (*Source, bool, error) {
	definition := cfg.CustomSeverities.Definition
	if strings.TrimSpace(definition) == "" {
		return nil, false, nil
	}
	doc := rules.WrapFragment(definition)
	return NewSource(InlineProvider{}.Name(), strings.NewReader(doc), nil), true, nil
}
