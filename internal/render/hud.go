package render

import (
	"fmt"

	"dungeoncrawl/internal/engine"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const logLines = HUDRows - 2

// DrawHUD renders the status bar and message log at the bottom of the screen.
func (r *Renderer) DrawHUD(s *engine.State) {
	screenW, screenH := r.screen.Size()
	hudY := screenH - HUDRows

	r.drawHLine(hudY, tcell.ColorGray)

	if stats, ok := s.PlayerStats(); ok {
		hpText := fmt.Sprintf(" HP: %d / %d ", stats.HP, stats.MaxHP)
		r.drawText(1, hudY, hpText, styleHUD)
		x := 2 + runewidth.StringWidth(hpText)
		r.drawBar(x, hudY, min(30, screenW-x-1), stats.HP, stats.MaxHP)
	}
	turn := fmt.Sprintf(" Turn %d ", s.Turn())
	r.drawText(screenW-runewidth.StringWidth(turn)-1, hudY, turn, styleHUD)

	row := hudY + 1
	if s.PlayerDead() {
		r.drawText(1, row, "You are dead!", styleDead)
		row++
	}
	for _, msg := range s.Log().Recent(screenH - row) {
		if row >= screenH {
			break
		}
		r.drawText(1, row, msg, styleLog)
		row++
	}
}

func (r *Renderer) drawBar(x, y, width, value, maxValue int) {
	if width <= 0 || maxValue <= 0 {
		return
	}
	filled := clamp(value*width/maxValue, 0, width)
	for i := 0; i < width; i++ {
		style := styleHPEmpty
		if i < filled {
			style = styleHP
		}
		r.screen.SetContent(x+i, y, '█', nil, style)
	}
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

// drawText writes text starting at column x, advancing by each rune's
// display width.
func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += max(1, runewidth.RuneWidth(ch))
	}
}

func (r *Renderer) drawBox(x, y, w, h int) {
	for i := 1; i < w-1; i++ {
		r.screen.SetContent(x+i, y, '─', nil, styleBorder)
		r.screen.SetContent(x+i, y+h-1, '─', nil, styleBorder)
	}
	for j := 1; j < h-1; j++ {
		r.screen.SetContent(x, y+j, '│', nil, styleBorder)
		r.screen.SetContent(x+w-1, y+j, '│', nil, styleBorder)
	}
	r.screen.SetContent(x, y, '┌', nil, styleBorder)
	r.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	r.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	r.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)
}

func (r *Renderer) fill(x, y, w, h int) {
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			r.screen.SetContent(x+i, y+j, ' ', nil, tcell.StyleDefault)
		}
	}
}
