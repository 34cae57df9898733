// Package errors renders the diagnostics a builder.Builder collects
// during a parse. It separates formatting from detection the same way
// the teacher corpus splits a Formatter interface out from the code that
// actually finds problems: nothing in this package decides whether
// something is an error, it only decides how one is shown.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/ledgerparse/ledgerparse/ast"
	"github.com/ledgerparse/ledgerparse/builder"
	"github.com/ledgerparse/ledgerparse/output"
)

// Formatter renders one or many builder.Diagnostic values as text.
type Formatter interface {
	Format(d builder.Diagnostic) string
	FormatAll(diags []builder.Diagnostic) string
}

// TextFormatter renders diagnostics for a terminal, with an optional
// snippet of the original source around each diagnostic's location.
type TextFormatter struct {
	styles *output.Styles
	source []byte
}

// TextFormatterOption configures a TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource attaches the original source so Format can show the
// offending line with a caret under the column.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) { tf.source = source }
}

// NewTextFormatter returns a TextFormatter whose colors are tuned to w
// (colors are dropped automatically when w isn't a terminal).
func NewTextFormatter(w io.Writer, opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{styles: output.NewStyles(w)}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format renders a single diagnostic as "file:line:column: message",
// followed by a source snippet when one is available.
func (tf *TextFormatter) Format(d builder.Diagnostic) string {
	var buf bytes.Buffer

	loc := tf.styles.FilePath(fmt.Sprintf("%s:%d:%d", d.Loc.Filename, d.Loc.Line, d.Loc.Column))
	fmt.Fprintf(&buf, "%s: %s", loc, tf.styles.Error(d.Message))

	if tf.source != nil {
		buf.WriteString("\n\n")
		buf.WriteString(tf.sourceSnippet(d.Loc))
	}

	return buf.String()
}

// FormatAll renders every diagnostic, sorted by (line, column) so output
// reads top-to-bottom even when the parser's recovery loop reported them
// out of order across nested posting/transaction recovery.
func (tf *TextFormatter) FormatAll(diags []builder.Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}

	sorted := append([]builder.Diagnostic(nil), diags...)
	slices.SortFunc(sorted, func(a, b builder.Diagnostic) int {
		if a.Loc.Line != b.Loc.Line {
			return a.Loc.Line - b.Loc.Line
		}
		return a.Loc.Column - b.Loc.Column
	})

	var buf bytes.Buffer
	for i, d := range sorted {
		buf.WriteString(tf.Format(d))
		if i < len(sorted)-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String()
}

func (tf *TextFormatter) sourceSnippet(loc ast.Loc) string {
	var buf bytes.Buffer

	lines := strings.Split(string(tf.source), "\n")
	startLine := loc.Line - 3
	endLine := loc.Line + 1
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		if i >= len(lines) {
			break
		}
		buf.WriteString("   ")
		buf.WriteString(lines[i])
		buf.WriteByte('\n')

		if i == loc.Line-1 && loc.Column > 0 {
			buf.WriteString("   ")
			for j := 0; j < loc.Column-1; j++ {
				buf.WriteByte(' ')
			}
			buf.WriteString(tf.styles.Warning("^"))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// JSONFormatter renders diagnostics as JSON for non-terminal consumers.
type JSONFormatter struct{}

// NewJSONFormatter returns a JSONFormatter.
func NewJSONFormatter() *JSONFormatter { return &JSONFormatter{} }

// DiagnosticJSON is the wire shape a JSONFormatter produces.
type DiagnosticJSON struct {
	Message  string       `json:"message"`
	Position PositionJSON `json:"position"`
}

// PositionJSON is a file location in JSON form.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

func toJSON(d builder.Diagnostic) DiagnosticJSON {
	return DiagnosticJSON{
		Message: d.Message,
		Position: PositionJSON{
			Filename: d.Loc.Filename,
			Line:     d.Loc.Line,
			Column:   d.Loc.Column,
		},
	}
}

// Format renders a single diagnostic as a JSON object.
func (jf *JSONFormatter) Format(d builder.Diagnostic) string {
	data, _ := json.Marshal(toJSON(d))
	return string(data)
}

// FormatAll renders every diagnostic as a JSON array.
func (jf *JSONFormatter) FormatAll(diags []builder.Diagnostic) string {
	out := make([]DiagnosticJSON, 0, len(diags))
	for _, d := range diags {
		out = append(out, toJSON(d))
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	return string(data)
}

var (
	_ Formatter = (*TextFormatter)(nil)
	_ Formatter = (*JSONFormatter)(nil)
)
