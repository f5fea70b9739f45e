package core

// Color represents a foreground color for a screen cell.
type Color uint8

// Palette used by the graveyard renderer.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightYellow
	ColorOrange
	ColorGray
	ColorDarkGray
)
