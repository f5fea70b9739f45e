package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/graveyard/internal/core"
)

// palette holds the lipgloss style of every screen colour. Bright red marks
// pursuing threats and is the only bold style.
var palette = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          fg("1"),
	core.ColorGreen:        fg("2"),
	core.ColorYellow:       fg("3"),
	core.ColorBlue:         fg("4"),
	core.ColorMagenta:      fg("5"),
	core.ColorCyan:         fg("6"),
	core.ColorWhite:        fg("7"),
	core.ColorBrightRed:    fg("9").Bold(true),
	core.ColorBrightYellow: fg("11"),
	core.ColorOrange:       fg("208"),
	core.ColorGray:         fg("245"),
	core.ColorDarkGray:     fg("238"),
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// styleOf returns the style for c, falling back to the terminal default.
func styleOf(c core.Color) lipgloss.Style {
	if style, ok := palette[c]; ok {
		return style
	}
	return palette[core.ColorDefault]
}

// RenderScreen turns the game's screen buffer into terminal output, one line
// per row. Each same-coloured run is styled once, which keeps long wall and
// floor stretches to a single escape sequence.
func RenderScreen(s *core.Screen) string {
	rows := make([]string, s.Height())
	for y := range rows {
		rows[y] = renderRow(s, y)
	}
	return strings.Join(rows, "\n")
}

func renderRow(s *core.Screen, y int) string {
	var line, run strings.Builder
	color := core.ColorDefault

	flush := func() {
		if run.Len() > 0 {
			line.WriteString(styleOf(color).Render(run.String()))
			run.Reset()
		}
	}

	for x := range s.Width() {
		cell := s.GetCell(x, y)
		if cell.Color != color {
			flush()
			color = cell.Color
		}
		run.WriteRune(cell.Rune)
	}
	flush()
	return line.String()
}

// centerText pads text on the left so it sits in the middle of width
// columns. Styled text is measured without its escape codes.
func centerText(text string, width int) string {
	pad := (width - lipgloss.Width(text)) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}
