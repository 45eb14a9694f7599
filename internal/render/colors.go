package render

import (
	"dungeoncrawl/internal/gamemap"

	"github.com/gdamore/tcell/v2"
)

// TileStyle is how one tile kind is drawn while in view and once merely
// remembered.
type TileStyle struct {
	Glyph  rune
	Lit    tcell.Color
	Dimmed tcell.Color
}

// TileStyles maps each tile kind to its look.
var TileStyles = map[gamemap.TileKind]TileStyle{
	gamemap.TileWall:  {Glyph: '#', Lit: tcell.ColorGreen, Dimmed: tcell.ColorDarkGray},
	gamemap.TileFloor: {Glyph: '.', Lit: tcell.ColorTeal, Dimmed: tcell.ColorDimGray},
}

var (
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHP      = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleHPEmpty = tcell.StyleDefault.Foreground(tcell.ColorMaroon)
	styleLog     = tcell.StyleDefault.Foreground(tcell.ColorLightYellow)
	styleDead    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleMenu    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleChosen  = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCursor  = tcell.StyleDefault.Background(tcell.ColorDarkCyan)
)
