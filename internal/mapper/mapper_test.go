package mapper

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/rsbridge/internal/diag"
	"github.com/wharflab/rsbridge/internal/report"
)

// fakeFiles tracks files by absolute slash path.
type fakeFiles map[string]string

func (f fakeFiles) Locate(reportPath string) string {
	return path.Join("/sln", strings.ReplaceAll(reportPath, `\`, "/"))
}

func (f fakeFiles) Lookup(p string) (TrackedFile, bool) {
	lang, ok := f[p]
	if !ok {
		return TrackedFile{}, false
	}
	return TrackedFile{Path: p, RelPath: strings.TrimPrefix(p, "/sln/"), Language: lang}, true
}

func newMapper(msgs *diag.Messages) *Mapper {
	return &Mapper{
		Language:        "cs",
		RepositoryKey:   "resharper-cs",
		EnabledRuleKeys: map[string]struct{}{"InvertIf": {}, "RedundantCast": {}},
		Files:           fakeFiles{"/sln/src/A.cs": "cs", "/sln/src/B.vb": "vbnet"},
		Messages:        msgs,
	}
}

func issue(typeID, file string, line int, hasLine bool, reportLine int) report.Issue {
	return report.Issue{
		TypeID: typeID, File: file, Line: line, HasLine: hasLine,
		Message: typeID + " message", ReportLine: reportLine,
	}
}

func TestMap(t *testing.T) {
	t.Parallel()
	msgs := diag.Discard()
	got := newMapper(msgs).Map([]report.Issue{
		issue("InvertIf", `src\A.cs`, 3, true, 5),
		issue("InvertIf", "", 0, false, 6),
		issue("InvertIf", `src\Missing.cs`, 1, true, 7),
		issue("InvertIf", `src\B.vb`, 1, true, 8),
		issue("UnusedVariable", `src\A.cs`, 9, true, 9),
		issue("RedundantCast", `src\A.cs`, 1, true, 10),
	})

	require.Len(t, got, 2)
	assert.Equal(t, Record{
		RepositoryKey: "resharper-cs",
		RuleKey:       "InvertIf",
		File:          TrackedFile{Path: "/sln/src/A.cs", RelPath: "src/A.cs", Language: "cs"},
		Line:          3,
		Message:       "InvertIf message",
	}, got[0])
	assert.Equal(t, "RedundantCast", got[1].RuleKey)

	assert.Equal(t, []string{
		"Skipping the ReSharper issue at line 6 which has no associated file.",
		`Skipping the ReSharper issue at line 7 whose file "/sln/src/Missing.cs" is not tracked.`,
		`Skipping the ReSharper issue at line 9 because the rule "UnusedVariable" is either missing or inactive in the quality profile.`,
	}, msgs.Texts(diag.LevelInfo), "the other-language issue is dropped silently")
}

func TestMap_FileWithoutLine(t *testing.T) {
	t.Parallel()
	msgs := diag.Discard()
	got := newMapper(msgs).Map([]report.Issue{issue("InvertIf", `src\A.cs`, 0, false, 4)})
	assert.Empty(t, got)
	assert.Equal(t, []string{"Skipping the ReSharper issue at line 4 which has no associated file."}, msgs.Texts(diag.LevelInfo))
}

func TestMap_NilMessages(t *testing.T) {
	t.Parallel()
	m := newMapper(nil)
	assert.Empty(t, m.Map([]report.Issue{issue("InvertIf", "", 0, false, 1)}))
}

func TestMap_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	in := []report.Issue{issue("InvertIf", `src\A.cs`, 3, true, 5)}
	before := in[0]
	newMapper(diag.Discard()).Map(in)
	assert.Equal(t, before, in[0])
}
