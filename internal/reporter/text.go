package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/wharflab/rsbridge/internal/rules"
)

// Styles for different parts of the output
var (
	// Color detection using termenv (respects NO_COLOR, CLICOLOR_FORCE, terminal detection)
	useColors = termenv.EnvColorProfile() != termenv.Ascii

	ruleKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	fileLocStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	lineNumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	markerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	summaryStyle = lipgloss.NewStyle().Bold(true)

	priorityStyles = map[rules.Priority]lipgloss.Style{
		rules.PriorityBlocker:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		rules.PriorityCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("202")),
		rules.PriorityMajor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		rules.PriorityMinor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		rules.PriorityInfo:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245")),
	}
)

// contextLines is the number of source lines printed around an issue line.
const contextLines = 2

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// HideSource disables source snippets.
	HideSource bool
}

// TextReporter formats findings as styled text output.
type TextReporter struct {
	writer io.Writer
	opts   TextOptions
	color  bool
	// readFile loads the source of a finding's file.
	readFile func(path string) ([]byte, error)
}

// NewTextReporter creates a new text reporter writing to w.
func NewTextReporter(w io.Writer, opts TextOptions) *TextReporter {
	color := useColors && isTerminal(w)
	if opts.Color != nil {
		color = *opts.Color
	}
	return &TextReporter{writer: w, opts: opts, color: color, readFile: os.ReadFile}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Report implements Reporter.
func (r *TextReporter) Report(findings []Finding, metadata ReportMetadata) error {
	sources := make(map[string][]string)
	for _, f := range SortFindings(findings) {
		if err := r.printFinding(f); err != nil {
			return err
		}
		if r.opts.HideSource {
			continue
		}
		lines, ok := sources[f.File.Path]
		if !ok {
			lines = r.loadLines(f.File.Path)
			sources[f.File.Path] = lines
		}
		if err := r.printSource(f, lines); err != nil {
			return err
		}
	}
	return r.printSummary(findings, metadata)
}

func (r *TextReporter) loadLines(path string) []string {
	if path == "" {
		return nil
	}
	data, err := r.readFile(path)
	if err != nil {
		return nil
	}
	return strings.Split(string(data), "\n")
}

func (r *TextReporter) render(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

// printFinding writes the header and message of a finding.
func (r *TextReporter) printFinding(f Finding) error {
	style, ok := priorityStyles[f.Priority]
	if !ok {
		style = priorityStyles[rules.PriorityMajor]
	}

	header := fmt.Sprintf("\n%s %s", r.render(style, f.Priority.String()+":"), r.render(ruleKeyStyle, f.RuleKey))
	if f.WikiLink != "" {
		header += " - " + r.render(urlStyle, f.WikiLink)
	}
	if _, err := fmt.Fprintln(r.writer, header); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.writer, r.render(messageStyle, f.Message))
	return err
}

// printSource writes the file location and the lines around the finding.
func (r *TextReporter) printSource(f Finding, lines []string) error {
	loc := fmt.Sprintf("%s:%d", f.File.RelPath, f.Line)
	if len(lines) == 0 || f.Line < 1 || f.Line > len(lines) {
		_, err := fmt.Fprintln(r.writer, r.render(fileLocStyle, loc))
		return err
	}

	sep := "--------------------"
	if r.color {
		sep = separatorStyle.Render("────────────────────")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(r.render(fileLocStyle, loc))
	b.WriteString("\n")
	b.WriteString(sep)
	b.WriteString("\n")

	start := max(1, f.Line-contextLines)
	end := min(len(lines), f.Line+contextLines)
	for i := start; i <= end; i++ {
		bar := "|"
		if r.color {
			bar = "│"
		}
		marker := "   "
		if i == f.Line {
			marker = r.render(markerStyle, ">>>")
		}
		content := strings.TrimSuffix(lines[i-1], "\r")
		fmt.Fprintf(&b, "%s %s %s\n", r.render(lineNumStyle, fmt.Sprintf(" %3d %s", i, bar)), marker, content)
	}
	b.WriteString(sep)
	b.WriteString("\n")

	_, err := io.WriteString(r.writer, b.String())
	return err
}

func (r *TextReporter) printSummary(findings []Finding, metadata ReportMetadata) error {
	files := make(map[string]struct{})
	for _, f := range findings {
		files[f.File.RelPath] = struct{}{}
	}
	line := fmt.Sprintf("\n%d %s in %d %s (%d files scanned, %d rules enabled)",
		len(findings), pluralize(len(findings), "issue", "issues"),
		len(files), pluralize(len(files), "file", "files"),
		metadata.FilesScanned, metadata.RulesEnabled)
	_, err := fmt.Fprintln(r.writer, r.render(summaryStyle, line))
	return err
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
