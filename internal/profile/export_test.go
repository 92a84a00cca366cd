package profile

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/rsbridge/internal/diag"
	"github.com/wharflab/rsbridge/internal/rules"
	"github.com/wharflab/rsbridge/internal/testutil"
)

func TestExport_Snapshot(t *testing.T) {
	t.Parallel()
	activations := []ActiveRule{
		{
			Repository: "resharper-cs",
			Rule: rules.Rule{
				ID:          "ClassNeverInstantiated.Global",
				Enabled:     true,
				Category:    "Potential Code Quality Issues",
				Description: "Class is never instantiated: Non-private accessibility",
			},
			Priority: rules.PriorityMinor,
		},
		{
			Repository: "resharper-cs",
			Rule:       rules.Rule{ID: "CSharpWarnings::CS0618", WikiLink: "https://example.com/?a=1&b=2"},
			Priority:   rules.PriorityMajor,
		},
		{
			Repository: "resharper-cs",
			Rule:       rules.Rule{ID: `Odd"<Id>`, Category: "  ", Description: "It's & more"},
			Priority:   rules.PriorityBlocker,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, activations))
	testutil.MatchTextSnapshot(t, buf.String(), "xml")
}

func TestExport_Empty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, nil))
	assert.Equal(t, "<Report>\n  <IssueTypes>\n  </IssueTypes>\n</Report>", buf.String())
}

func TestExport_UnmappedPriority(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := Export(&buf, []ActiveRule{
		{Rule: rules.Rule{ID: "A"}, Priority: rules.PriorityInfo},
		{Rule: rules.Rule{ID: "B"}, Priority: rules.Priority(9)},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, rules.ErrUnmappedPriority))
	assert.Contains(t, err.Error(), "rule B")
	assert.Zero(t, buf.Len(), "nothing is written on failure")
}

func TestExportProfile_SelectsRepository(t *testing.T) {
	t.Parallel()
	p := New("Team way", "cs")
	p.Activate("resharper-cs", rules.Rule{ID: "InvertIf", Enabled: true}, rules.PriorityInfo)
	p.Activate("other", rules.Rule{ID: "Foreign", Enabled: true}, rules.PriorityInfo)

	var buf bytes.Buffer
	require.NoError(t, ExportProfile(&buf, p, "resharper-cs"))
	assert.Contains(t, buf.String(), `Id="InvertIf"`)
	assert.NotContains(t, buf.String(), "Foreign")
	assert.Contains(t, buf.String(), `Severity="HINT"`)
}

func TestExportImport_RoundTrip(t *testing.T) {
	t.Parallel()
	repo, err := rules.LoadRepository("resharper-cs", "cs", "", "", diag.Discard())
	require.NoError(t, err)

	want := map[string]rules.Priority{
		"ClassNeverInstantiated.Global": rules.PriorityMinor,
		"CSharpWarnings__CS0618":        rules.PriorityBlocker,
		"InvertIf":                      rules.PriorityInfo,
		"RedundantCast":                 rules.PriorityCritical,
		"LocalizableElement":            rules.PriorityInfo,
	}
	original := New("Team way", "cs")
	for _, rule := range repo.All() {
		if p, ok := want[rule.Key()]; ok {
			original.Activate(repo.Key, rule, p)
		}
	}
	require.Equal(t, len(want), original.Len())

	var buf bytes.Buffer
	require.NoError(t, ExportProfile(&buf, original, repo.Key))

	msgs := diag.Discard()
	imported, err := Importer{Language: "cs", Repository: repo}.Import(&buf, "exported", msgs)
	require.NoError(t, err)
	assert.Empty(t, msgs.Warnings())

	require.Equal(t, original.Len(), imported.Len())
	for i, a := range imported.ActiveRules() {
		orig := original.ActiveRules()[i]
		assert.Equal(t, orig.Key(), a.Key())
		assert.Equal(t, orig.Priority, a.Priority, a.Key())
		assert.Equal(t, orig.Rule, a.Rule)
	}
}

func TestExport_MajorBecomesWarning(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, []ActiveRule{{Rule: rules.Rule{ID: "A"}, Priority: rules.PriorityMajor}}))
	assert.True(t, strings.Contains(buf.String(), `Severity="WARNING"`))
}
