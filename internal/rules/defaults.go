package rules

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"github.com/wharflab/rsbridge/internal/diag"
)

// DefaultCatalogName is the bundled catalog every language uses unless
// configured otherwise.
const DefaultCatalogName = "DefaultRules.ReSharper"

//go:embed catalogs/*.ReSharper
var catalogs embed.FS

// Catalog returns the content of a bundled catalog. The data is shared and
// must not be modified.
func Catalog(name string) ([]byte, error) {
	data, err := fs.ReadFile(catalogs, "catalogs/"+name)
	if err != nil {
		return nil, fmt.Errorf("bundled catalog %q: %w", name, err)
	}
	return data, nil
}

// CatalogNames lists the bundled catalogs.
func CatalogNames() []string {
	entries, err := fs.ReadDir(catalogs, "catalogs")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

var xmlDeclaration = regexp.MustCompile(`^\s*<\?xml[^>]*\?>`)

// WrapFragment wraps a raw settings or IssueType fragment into the catalog
// document shape, dropping a leading XML declaration.
func WrapFragment(fragment string) string {
	fragment = xmlDeclaration.ReplaceAllString(fragment, "")
	return "<Report><IssueTypes>" + fragment + "</IssueTypes></Report>"
}

// LoadRepository builds the repository of a language from a bundled catalog
// plus the custom IssueType rules found in definition, the inline custom
// severities setting. A broken definition is logged and ignored.
func LoadRepository(key, language, catalog, definition string, msgs *diag.Messages) (*Repository, error) {
	if catalog == "" {
		catalog = DefaultCatalogName
	}
	data, err := Catalog(catalog)
	if err != nil {
		return nil, err
	}
	defaults, err := ParseCatalog(bytes.NewReader(data), catalog, msgs)
	if err != nil {
		return nil, err
	}

	repo := NewRepository(key, language)
	repo.RegisterAll(defaults, msgs)

	if strings.TrimSpace(definition) == "" {
		return repo, nil
	}
	custom, err := ParseCatalog(strings.NewReader(WrapFragment(definition)), "custom rules definition", diag.Discard())
	if err != nil {
		msgs.Warnf("Error parsing ReSharper custom rules: %v", err)
		return repo, nil
	}
	added := repo.RegisterAll(custom, msgs)
	msgs.Debugf("added %d custom rules to repository %s", added, key)
	return repo, nil
}
