package customseverity

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/wharflab/rsbridge/internal/config"
	"github.com/wharflab/rsbridge/internal/diag"
	"github.com/wharflab/rsbridge/internal/rules"
)

const overridePrefix = "/Default/CodeInspection/Highlighting/InspectionSeverities/="

func entry(key, severity string) string {
	return `<s:String x:Key="` + overridePrefix + key + `/@EntryIndexedValue">` + severity + `</s:String>`
}

// priorities is a minimal Target.
type priorities map[string]rules.Priority

func (p priorities) SetPriority(key string, priority rules.Priority) bool {
	if _, ok := p[key]; !ok {
		return false
	}
	p[key] = priority
	return true
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestResolver_Providers(t *testing.T) {
	t.Parallel()
	r := NewResolver(nil)
	names := make([]string, 0, 2)
	for _, p := range r.Providers() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"custom-severities.path", "custom-severities.definition"}, names)
}

func TestResolver_SuggestionOverriddenToError(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.CustomSeverities.Definition = entry("ClassNeverInstantiated.Global", "ERROR")

	target := priorities{"ClassNeverInstantiated.Global": rules.SeveritySuggestion.Priority()}
	require.Equal(t, rules.PriorityMinor, target["ClassNeverInstantiated.Global"])

	changed := NewResolver(diag.Discard()).Merge(cfg, target)
	assert.Equal(t, 1, changed)
	assert.Equal(t, rules.PriorityBlocker, target["ClassNeverInstantiated.Global"])
}

func TestResolver_Idempotent(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.CustomSeverities.Definition = entry("InvertIf", "ERROR") + entry("RedundantCast", "SUGGESTION")

	r := NewResolver(diag.Discard())
	once := priorities{"InvertIf": rules.PriorityInfo, "RedundantCast": rules.PriorityCritical, "Other": rules.PriorityMajor}
	r.Merge(cfg, once)
	twice := priorities{"InvertIf": rules.PriorityInfo, "RedundantCast": rules.PriorityCritical, "Other": rules.PriorityMajor}
	r.Merge(cfg, twice)
	r.Merge(cfg, twice)

	assert.Equal(t, once, twice)
	assert.Equal(t, rules.PriorityMajor, twice["Other"])
}

func TestResolver_FileBeatsInline(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "team.DotSettings", []byte(`<wpf:ResourceDictionary xmlns:x="x" xmlns:s="s" xmlns:wpf="w">`+
		entry("InvertIf", "ERROR")+`</wpf:ResourceDictionary>`))

	cfg := config.Default()
	cfg.CustomSeverities.Path = path
	cfg.CustomSeverities.Definition = entry("InvertIf", "HINT") + entry("RedundantCast", "WARNING")

	msgs := diag.Discard()
	got := NewResolver(msgs).Resolve(cfg)
	assert.Equal(t, []string{"InvertIf", "RedundantCast"}, got.Keys())
	sev, _ := got.Get("InvertIf")
	assert.Equal(t, rules.SeverityError, sev)
	assert.Len(t, msgs.Warnings(), 1)
}

func TestFileProvider_ByteOrderMark(t *testing.T) {
	t.Parallel()
	body := `<?xml version="1.0" encoding="utf-8"?><Root>` + entry("InvertIf", "ERROR") + `</Root>`

	t.Run("utf-8", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, "bom8.DotSettings", append([]byte{0xEF, 0xBB, 0xBF}, body...))
		cfg := config.Default()
		cfg.CustomSeverities.Path = path

		msgs := diag.Discard()
		got := NewResolver(msgs).Resolve(cfg)
		assert.Empty(t, msgs.Errors())
		assert.Equal(t, []string{"InvertIf"}, got.Keys())
	})

	t.Run("utf-16le", func(t *testing.T) {
		t.Parallel()
		encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(body)
		require.NoError(t, err)
		path := writeFile(t, "bom16.DotSettings", []byte(encoded))
		cfg := config.Default()
		cfg.CustomSeverities.Path = path

		msgs := diag.Discard()
		got := NewResolver(msgs).Resolve(cfg)
		assert.Empty(t, msgs.Errors())
		assert.Equal(t, []string{"InvertIf"}, got.Keys())
	})
}

func TestResolver_MissingFile(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.CustomSeverities.Path = filepath.Join(t.TempDir(), "absent.DotSettings")
	cfg.CustomSeverities.Definition = entry("InvertIf", "ERROR")

	msgs := diag.Discard()
	got := NewResolver(msgs).Resolve(cfg)
	assert.Equal(t, []string{"InvertIf"}, got.Keys(), "inline provider still contributes")
	require.Len(t, msgs.Errors(), 1)
	assert.Contains(t, msgs.Errors()[0], "could not open")

	_, ok, err := FileProvider{}.Source(cfg)
	assert.True(t, ok)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestResolver_MalformedContributesNothing(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.CustomSeverities.Definition = entry("InvertIf", "ERROR") + `<s:String x:Key="`

	msgs := diag.Discard()
	got := NewResolver(msgs).Resolve(cfg)
	assert.Zero(t, got.Len())
	require.Len(t, msgs.Errors(), 1)
	assert.Contains(t, msgs.Errors()[0], "Error parsing custom severities")
}

func TestResolver_Unconfigured(t *testing.T) {
	t.Parallel()
	msgs := diag.Discard()
	target := priorities{"InvertIf": rules.PriorityInfo}
	assert.Zero(t, NewResolver(msgs).Merge(config.Default(), target))
	assert.Zero(t, msgs.Len())
	assert.Equal(t, rules.PriorityInfo, target["InvertIf"])
}
