package project

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/rsbridge/internal/config"
	"github.com/wharflab/rsbridge/internal/testutil"
)

func newTestProject(t *testing.T) *Project {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"App.sln":                            "",
		"src/App/Program.cs":                 "class Program {}",
		"src/App/Util.cs":                    "class Util {}",
		"src/App/obj/Debug/Generated.cs":     "class Generated {}",
		"src/Legacy/Module1.vb":              "Module Module1\nEnd Module",
		"src/App/Properties/AssemblyInfo.cs": "",
		"README.md":                          "# App",
	})
	p, err := New(dir, config.Default().Languages, config.Default().Exclude)
	require.NoError(t, err)
	return p
}

func TestLocate(t *testing.T) {
	t.Parallel()
	p := &Project{SolutionDir: filepath.FromSlash("/work/sln")}

	assert.Equal(t, filepath.FromSlash("/work/sln/src/App/Program.cs"), p.Locate(`src\App\Program.cs`))
	assert.Equal(t, filepath.FromSlash("/work/sln/src/App/Program.cs"), p.Locate("src/App/Program.cs"))
	assert.Equal(t, filepath.FromSlash("/work/other/A.cs"), p.Locate(`..\other\A.cs`))
}

func TestLookup(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)

	file, ok := p.Lookup(p.Locate(`src\App\Program.cs`))
	require.True(t, ok)
	assert.Equal(t, "cs", file.Language)
	assert.Equal(t, "src/App/Program.cs", file.RelPath)
	assert.Equal(t, filepath.Join(p.SolutionDir, "src", "App", "Program.cs"), file.Path)

	vb, ok := p.Lookup(p.Locate(`src\Legacy\Module1.vb`))
	require.True(t, ok)
	assert.Equal(t, "vbnet", vb.Language)

	for _, rel := range []string{
		`src\App\Missing.cs`,
		`src\App\obj\Debug\Generated.cs`,
		`README.md`,
		`src\App`,
		`..\Outside.cs`,
	} {
		_, ok := p.Lookup(p.Locate(rel))
		assert.False(t, ok, rel)
	}
}

func TestFiles(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)

	cs, err := p.Files("cs")
	require.NoError(t, err)
	rels := make([]string, 0, len(cs))
	for _, f := range cs {
		rels = append(rels, f.RelPath)
		assert.Equal(t, "cs", f.Language)
	}
	assert.Equal(t, []string{"src/App/Program.cs", "src/App/Properties/AssemblyInfo.cs", "src/App/Util.cs"}, rels)

	has, err := p.HasFiles("vbnet")
	require.NoError(t, err)
	assert.True(t, has)

	none, err := p.Files("fsharp")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFiles_FirstLanguageWins(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"a/Shared.cs": ""})

	p, err := New(dir, []config.LanguageConfig{
		{Key: "cs", Repository: "resharper-cs", Patterns: []string{"**/*.cs"}},
		{Key: "other", Repository: "resharper-other", Patterns: []string{"a/*"}},
	}, nil)
	require.NoError(t, err)

	other, err := p.Files("other")
	require.NoError(t, err)
	assert.Empty(t, other)

	lang, ok := p.Language("a/Shared.cs")
	require.True(t, ok)
	assert.Equal(t, "cs", lang)
}

func TestIsExcluded(t *testing.T) {
	t.Parallel()
	tests := []struct {
		rel      string
		patterns []string
		want     bool
	}{
		{"src/App/bin/Release/App.cs", []string{"**/bin/**"}, true},
		{"bin/App.cs", []string{"**/bin/**"}, true},
		{"src/binary/App.cs", []string{"**/bin/**"}, false},
		{"src/App/Generated.g.cs", []string{"*.g.cs"}, true},
		{"src/vendor/Lib.cs", []string{"vendor/*"}, true},
		{"src/App/Program.cs", nil, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, isExcluded(tc.rel, tc.patterns), tc.rel)
	}
}
