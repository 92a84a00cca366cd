package profile

import (
	"bytes"
	"strings"

	"github.com/wharflab/rsbridge/internal/config"
	"github.com/wharflab/rsbridge/internal/customseverity"
	"github.com/wharflab/rsbridge/internal/diag"
	"github.com/wharflab/rsbridge/internal/rules"
)

// BuildDefault builds the default profile of repo's language: the bundled
// catalog imported against repo, with custom severities merged in.
func BuildDefault(repo *rules.Repository, cfg *config.Config, msgs *diag.Messages) (*Profile, error) {
	catalog := rules.DefaultCatalogName
	if lang, ok := cfg.Language(repo.Language); ok && lang.Catalog != "" {
		catalog = lang.Catalog
	}
	data, err := rules.Catalog(catalog)
	if err != nil {
		return nil, err
	}

	p, err := Importer{Language: repo.Language, Repository: repo}.Import(bytes.NewReader(data), catalog, msgs)
	if err != nil {
		return nil, err
	}

	customseverity.NewResolver(msgs).Merge(cfg, p)
	p.Name = Name(cfg, msgs)
	msgs.Debugf("Using profile %s", p.Name)
	return p, nil
}

// Name returns the configured profile name, or DefaultProfileName with a
// warning when none is set.
func Name(cfg *config.Config, msgs *diag.Messages) string {
	if name := strings.TrimSpace(cfg.ProfileName); name != "" {
		return name
	}
	msgs.Warnf("No profile defined for ReSharper, using default %q", DefaultProfileName)
	return DefaultProfileName
}
