package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/rsbridge/internal/rules"
)

func TestJSONReporter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := NewJSONReporter(&buf).Report(sampleFindings(), ReportMetadata{
		FilesScanned: 7,
		RulesEnabled: 40,
		Languages:    []string{"cs"},
	})
	require.NoError(t, err)

	var output JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	require.Len(t, output.Files, 2)
	assert.Equal(t, "a/Class1.cs", output.Files[0].File)
	assert.Equal(t, "cs", output.Files[0].Language)
	require.Len(t, output.Files[0].Issues, 2)
	assert.Equal(t, 4, output.Files[0].Issues[0].Line)
	assert.Equal(t, "CSharpErrors", output.Files[0].Issues[1].RuleKey)
	assert.Equal(t, rules.PriorityBlocker, output.Files[0].Issues[1].Priority)
	assert.Equal(t, "b/Program.cs", output.Files[1].File)

	assert.Equal(t, Summary{Total: 3, Blocker: 1, Critical: 1, Info: 1, Files: 2}, output.Summary)
	assert.Equal(t, 7, output.FilesScanned)
	assert.Equal(t, 40, output.RulesEnabled)
	assert.Equal(t, []string{"cs"}, output.Languages)
}

func TestJSONReporter_FieldNames(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewJSONReporter(&buf).Report(sampleFindings()[:1], ReportMetadata{}))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	files := raw["files"].([]any)
	issue := files[0].(map[string]any)["issues"].([]any)[0].(map[string]any)

	assert.Equal(t, "resharper-cs", issue["repository"])
	assert.Equal(t, "RedundantUsingDirective", issue["rule"])
	assert.Equal(t, "CRITICAL", issue["priority"])
	assert.Equal(t, "WARNING", issue["severity"])
	assert.InDelta(t, 3, issue["line"], 0)
	assert.Equal(t, "b/Program.cs", issue["file"].(map[string]any)["relPath"])
}

func TestJSONReporter_Empty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewJSONReporter(&buf).Report(nil, ReportMetadata{}))

	var output JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Empty(t, output.Files)
	assert.Equal(t, 0, output.Summary.Total)
	assert.Contains(t, buf.String(), `"files": []`)
}
