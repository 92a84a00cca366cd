package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/rsbridge/internal/diag"
)

func TestRepository_Register(t *testing.T) {
	t.Parallel()
	repo := NewRepository("resharper-cs", "cs")
	require.NoError(t, repo.Register(Rule{ID: "b"}))
	require.NoError(t, repo.Register(Rule{ID: "a:x"}))
	require.Error(t, repo.Register(Rule{ID: "b"}))
	require.Error(t, repo.Register(Rule{}))

	assert.Equal(t, 2, repo.Len())
	assert.Equal(t, []string{"a_x", "b"}, repo.Keys())

	all := repo.All()
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID, "registration order is kept")

	rule, ok := repo.Find("a_x")
	require.True(t, ok)
	assert.Equal(t, "a:x", rule.ID)
	assert.False(t, repo.Has("a:x"), "lookup is by key, not id")
	assert.Equal(t, RepositoryName, repo.Name)
}

func TestRepository_RegisterAllKeepsFirst(t *testing.T) {
	t.Parallel()
	repo := NewRepository("resharper-cs", "cs")
	msgs := diag.Discard()
	added := repo.RegisterAll([]Rule{
		{ID: "A", Severity: SeverityError},
		{ID: "A", Severity: SeverityHint},
		{ID: "B", Category: "Cat"},
	}, msgs)

	assert.Equal(t, 2, added)
	rule, _ := repo.Find("A")
	assert.Equal(t, SeverityError, rule.Severity)
	assert.Len(t, msgs.Warnings(), 1)
	assert.Len(t, repo.ByCategory("cat"), 1)
}

func TestLoadRepository(t *testing.T) {
	t.Parallel()

	t.Run("bundled only", func(t *testing.T) {
		t.Parallel()
		repo, err := LoadRepository("resharper-cs", "cs", "", "", diag.Discard())
		require.NoError(t, err)
		assert.True(t, repo.Has("ClassNeverInstantiated.Global"))
		assert.Equal(t, "cs", repo.Language)
	})

	t.Run("custom rules appended", func(t *testing.T) {
		t.Parallel()
		def := `<IssueType Id="MyCompany.NoRegions" Enabled="True" Description="No regions" Severity="ERROR"/>
<s:String x:Key="/Default/CodeInspection/Highlighting/InspectionSeverities/=InvertIf/@EntryIndexedValue">ERROR</s:String>`
		msgs := diag.Discard()
		repo, err := LoadRepository("resharper-cs", "cs", DefaultCatalogName, def, msgs)
		require.NoError(t, err)
		rule, ok := repo.Find("MyCompany.NoRegions")
		require.True(t, ok)
		assert.Equal(t, SeverityError, rule.Severity)
		assert.Empty(t, msgs.Warnings())
	})

	t.Run("custom rule clashing with bundled one", func(t *testing.T) {
		t.Parallel()
		msgs := diag.Discard()
		repo, err := LoadRepository("resharper-cs", "cs", "", `<IssueType Id="InvertIf" Severity="ERROR"/>`, msgs)
		require.NoError(t, err)
		rule, _ := repo.Find("InvertIf")
		assert.Equal(t, SeverityHint, rule.Severity)
		assert.Len(t, msgs.Warnings(), 1)
	})

	t.Run("broken custom definition is ignored", func(t *testing.T) {
		t.Parallel()
		msgs := diag.Discard()
		repo, err := LoadRepository("resharper-cs", "cs", "", `<IssueType Id="x"`, msgs)
		require.NoError(t, err)
		assert.False(t, repo.Has("x"))
		require.Len(t, msgs.Warnings(), 1)
		assert.Contains(t, msgs.Warnings()[0], "custom rules")
	})

	t.Run("unknown catalog", func(t *testing.T) {
		t.Parallel()
		_, err := LoadRepository("resharper-cs", "cs", "nope.ReSharper", "", diag.Discard())
		require.Error(t, err)
	})
}
