package view

import (
	"io"
	"os"
	"strconv"

	"botpanel/internal/format"
	"botpanel/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorOptions chooses between forced and detected color output.
type ColorOptions struct {
	ForceColor   bool
	ForceNoColor bool
}

func resolveColorChoice(opts ColorOptions, out io.Writer) bool {
	if opts.ForceColor {
		return true
	}
	if opts.ForceNoColor {
		return false
	}
	return shouldUseColorAuto(out)
}

func shouldUseColorAuto(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(out)
}

func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func determineWidth(out io.Writer) int {
	if file, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(file.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if colsStr := os.Getenv("COLUMNS"); colsStr != "" {
		if v, err := strconv.Atoi(colsStr); err == nil && v > 0 {
			return v
		}
	}
	return 80
}

// palette styles log lines. A disabled palette leaves text untouched.
type palette struct {
	enabled bool
	time    lipgloss.Style
	levels  map[model.Level]lipgloss.Style
	errText lipgloss.Style
}

func newPalette(out io.Writer, enabled bool) palette {
	r := lipgloss.NewRenderer(out)
	if enabled {
		r.SetColorProfile(termenv.ANSI256)
	}
	return palette{
		enabled: enabled,
		time:    r.NewStyle().Foreground(lipgloss.Color("245")),
		levels: map[model.Level]lipgloss.Style{
			model.LevelInfo:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("44")),
			model.LevelWarn:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
			model.LevelError: r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
			model.LevelDebug: r.NewStyle().Foreground(lipgloss.Color("240")),
		},
		errText: r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// levelWidth fits the widest tag, "[ERROR]".
const levelWidth = 7

// line renders a record for live display. Without color it is exactly the
// export layout so piped output can be parsed back.
func (p palette) line(rec model.LogRecord) string {
	if !p.enabled {
		return format.LogLine(rec)
	}
	tag := runewidth.FillRight("["+string(rec.Level)+"]", levelWidth)
	style, ok := p.levels[rec.Level]
	if !ok {
		style = p.time
	}
	return p.time.Render(rec.Timestamp) + " " + style.Render(tag) + " " + rec.Message
}

func (p palette) errorText(s string) string {
	if !p.enabled {
		return s
	}
	return p.errText.Render(s)
}
