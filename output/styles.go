// Package output provides styling helpers for terminal output shared by
// the CLI and the telemetry report renderer.
package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Styles provides styled output helpers. Colors degrade automatically
// when the destination isn't a terminal, since lipgloss checks the color
// profile of the renderer it's built against.
type Styles struct {
	success  lipgloss.Style
	errorS   lipgloss.Style
	filePath lipgloss.Style
	account  lipgloss.Style
	amount   lipgloss.Style
	keyword  lipgloss.Style
	dim      lipgloss.Style
	warning  lipgloss.Style
}

// NewStyles creates a Styles for w, disabling color outright when w isn't
// an interactive terminal.
func NewStyles(w io.Writer) *Styles {
	profile := lipgloss.ColorProfile()
	if f, ok := w.(interface{ Fd() uintptr }); !ok || !term.IsTerminal(int(f.Fd())) {
		profile = termenv.Ascii
	}
	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(profile)

	return &Styles{
		success:  renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		errorS:   renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		filePath: renderer.NewStyle().Foreground(lipgloss.Color("6")),
		account:  renderer.NewStyle().Foreground(lipgloss.Color("3")),
		amount:   renderer.NewStyle().Foreground(lipgloss.Color("5")),
		keyword:  renderer.NewStyle().Bold(true),
		dim:      renderer.NewStyle().Faint(true),
		warning:  renderer.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	}
}

func (s *Styles) Success(text string) string  { return s.success.Render(text) }
func (s *Styles) Error(text string) string    { return s.errorS.Render(text) }
func (s *Styles) FilePath(text string) string { return s.filePath.Render(text) }
func (s *Styles) Account(text string) string  { return s.account.Render(text) }
func (s *Styles) Amount(text string) string   { return s.amount.Render(text) }
func (s *Styles) Keyword(text string) string  { return s.keyword.Render(text) }
func (s *Styles) Dim(text string) string      { return s.dim.Render(text) }
func (s *Styles) Warning(text string) string  { return s.warning.Render(text) }

// Timing styles a duration string, highlighting slow operations.
func (s *Styles) Timing(text string, isSlowOperation bool) string {
	if isSlowOperation {
		return s.errorS.Render(text)
	}
	return s.Dim(text)
}
