// Package testutil provides test helpers shared by the rsbridge packages.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFiles creates files under dir. Keys are slash-separated paths relative
// to dir; parent directories are created as needed.
func WriteFiles(tb testing.TB, dir string, files map[string]string) {
	tb.Helper()

	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			tb.Fatalf("write %s: %v", path, err)
		}
	}
}

// Issue is one <Issue> line of a report built by ReportXML.
type Issue struct {
	TypeID  string
	File    string
	Line    string
	Message string
}

// ReportXML renders an inspectcode report with a single project.
// Empty File and Line values are left out.
func ReportXML(project string, issues ...Issue) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString(`<Report ToolsVersion="8.0">` + "\n")
	b.WriteString("  <Issues>\n")
	b.WriteString(`    <Project Name="` + project + `">` + "\n")
	for _, is := range issues {
		b.WriteString(`      <Issue TypeId="` + is.TypeID + `"`)
		if is.File != "" {
			b.WriteString(` File="` + is.File + `"`)
		}
		if is.Line != "" {
			b.WriteString(` Line="` + is.Line + `"`)
		}
		b.WriteString(` Message="` + is.Message + `" />` + "\n")
	}
	b.WriteString("    </Project>\n")
	b.WriteString("  </Issues>\n")
	b.WriteString("</Report>\n")
	return b.String()
}
