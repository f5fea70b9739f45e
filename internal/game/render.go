package game

import (
	"fmt"
	"time"

	"github.com/vovakirdan/graveyard/internal/actor"
	"github.com/vovakirdan/graveyard/internal/core"
	"github.com/vovakirdan/graveyard/internal/session"
)

const hudHeight = 2

// Glyphs
const (
	glyphWall   = '▓'
	glyphCoin   = '$'
	glyphPlayer = '@'
	glyphZombie = 'Z'
	glyphMummy  = 'M'
)

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.orch == nil {
		return
	}

	g.renderHUD(dst)

	if dst.Width() < 20 || dst.Height() < hudHeight+5 {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	if g.setupErr != nil {
		g.renderOverlay(dst, "The graveyard would not open", "R: try again  Esc: menu")
		return
	}

	g.renderLevel(dst)

	switch {
	case g.orch.Stage() == session.StageTerminated:
		rec, _ := g.orch.Result()
		detail := fmt.Sprintf("%s with %d coins after %s", rec.Cause, rec.Coins, formatClock(rec.Duration))
		if g.persistErr != nil {
			detail += " (not saved)"
		}
		g.renderOverlay(dst, "Game Over", detail)
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" Graveyard | Coins: %d  Time: %s  Threats: %d  %s",
		g.counter.Current(),
		formatClock(g.orch.Elapsed()),
		len(g.orch.Threats()),
		g.stageLabel(),
	)
	dst.DrawText(0, 0, hud, core.ColorWhite)

	// Draw separator
	for x := range dst.Width() {
		dst.SetColored(x, 1, '─', core.ColorDarkGray)
	}
}

func (g *Game) stageLabel() string {
	switch g.orch.Stage() {
	case session.StagePursuing:
		return "THEY SEE YOU"
	case session.StageEscalating:
		return "..."
	default:
		return ""
	}
}

// renderLevel draws walls, coins and actors through the camera.
func (g *Game) renderLevel(dst *core.Screen) {
	level := g.orch.Level()
	if level == nil {
		return
	}

	viewW, viewH := dst.Width(), dst.Height()-hudHeight
	off := g.camera.Offset(viewW, viewH, level.Width(), level.Height())

	put := func(p core.Point, r rune, c core.Color) {
		x, y := off.X+p.X, off.Y+p.Y
		if x < 0 || x >= viewW || y < 0 || y >= viewH {
			return
		}
		dst.SetColored(x, y+hudHeight, r, c)
	}

	for y := range level.Height() {
		for x := range level.Width() {
			p := core.Point{X: x, Y: y}
			if !level.IsGround(p) {
				put(p, glyphWall, core.ColorGray)
			}
		}
	}

	for _, c := range g.coins.Coins() {
		put(c, glyphCoin, core.ColorBrightYellow)
	}

	if player := g.orch.Player(); player != nil {
		put(player.Cell(), glyphPlayer, core.ColorCyan)
	}

	for _, t := range g.orch.Threats() {
		r, c := glyphZombie, core.ColorGreen
		if t.Kind() == actor.KindMummy {
			r, c = glyphMummy, core.ColorOrange
		}
		if t.Mode() == actor.ModePursue {
			c = core.ColorBrightRed
		}
		put(t.Cell(), r, c)
	}
}

// renderOverlay draws a centred message box.
func (g *Game) renderOverlay(dst *core.Screen, title, subtitle string) {
	w := max(len(title), len(subtitle)) + 6
	h := 5
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCentered(box.Y+1, title, core.ColorBrightYellow)
	dst.DrawTextCentered(box.Y+3, subtitle, core.ColorWhite)
}

// formatClock renders d as mm:ss.
func formatClock(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
