package render

import (
	"dungeoncrawl/internal/engine"
	"dungeoncrawl/internal/gamemap"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// HUDRows is the number of screen rows reserved below the map.
const HUDRows = 7

// Renderer draws the game world onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	r := &Renderer{screen: screen, camera: &Camera{}}
	r.Resize()
	return r
}

// Resize recomputes the viewport after the terminal changed size.
func (r *Renderer) Resize() {
	w, h := r.screen.Size()
	r.camera.ViewWidth = w
	r.camera.ViewHeight = max(0, h-HUDRows)
}

// WorldToScreen converts world coordinates to screen coordinates.
// visible is false when the position falls outside the viewport.
func (r *Renderer) WorldToScreen(wx, wy int) (sx, sy int, visible bool) {
	return r.camera.WorldToScreen(wx, wy)
}

// DrawFrame renders tiles, entities, and the HUD for a game in progress.
func (r *Renderer) DrawFrame(s *engine.State) {
	r.screen.Clear()
	m := s.Map()
	if pos, ok := s.PlayerPos(); ok {
		r.camera.Center(pos.X, pos.Y)
	}
	r.camera.Fit(m.Width, m.Height)
	r.drawMap(m)
	r.drawEntities(s.RenderCommands())
	r.DrawHUD(s)
	r.screen.Show()
}

// drawMap renders every revealed tile, dimmed when out of view.
func (r *Renderer) drawMap(m *gamemap.Map) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			idx := m.XYIdx(x, y)
			if !m.Revealed[idx] {
				continue
			}
			sx, sy, onScreen := r.camera.WorldToScreen(x, y)
			if !onScreen {
				continue
			}
			ts := TileStyles[m.Tiles[idx]]
			fg := ts.Dimmed
			if m.Visible[idx] {
				fg = ts.Lit
			}
			r.screen.SetContent(sx, sy, ts.Glyph, nil, tcell.StyleDefault.Foreground(fg))
		}
	}
}

// drawEntities renders commands in the order given; later ones win a cell.
func (r *Renderer) drawEntities(cmds []engine.RenderCommand) {
	for _, c := range cmds {
		sx, sy, onScreen := r.camera.WorldToScreen(c.Pos.X, c.Pos.Y)
		if !onScreen {
			continue
		}
		r.putGlyph(sx, sy, c.Glyph, tcell.StyleDefault.Foreground(c.FG).Background(c.BG))
	}
}

// putGlyph draws a single glyph (ASCII or multi-rune) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	r.screen.SetContent(x, y, runes[0], runes[1:], style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}

// DrawMenu renders the main menu with the current selection highlighted.
func (r *Renderer) DrawMenu(s *engine.State) {
	r.screen.Clear()
	w, h := r.screen.Size()
	title := "Dungeon Crawl"
	top := h/2 - 4
	r.drawText((w-runewidth.StringWidth(title))/2, top, title, styleTitle)

	for i, entry := range engine.MenuEntries() {
		if entry == engine.MenuLoadGame && !s.HasSave() {
			continue
		}
		label := entry.String()
		style := styleMenu
		if entry == s.Menu() {
			label = "> " + label + " <"
			style = styleChosen
		}
		r.drawText((w-runewidth.StringWidth(label))/2, top+2+i, label, style)
	}
	if msg := s.Log().Last(); msg != "" {
		r.drawText((w-runewidth.StringWidth(msg))/2, top+7, msg, styleLog)
	}
	r.screen.Show()
}

// InventoryView is an open backpack overlay.
type InventoryView struct {
	Title   string
	Entries []engine.InventoryEntry
}

// DrawInventory overlays a lettered item list on the current frame.
func (r *Renderer) DrawInventory(v InventoryView) {
	width := runewidth.StringWidth(v.Title) + 4
	for _, e := range v.Entries {
		width = max(width, runewidth.StringWidth(e.Name)+8)
	}
	height := len(v.Entries) + 3
	sw, sh := r.screen.Size()
	x0 := max(0, (sw-width)/2)
	y0 := max(0, (sh-HUDRows-height)/2)

	r.fill(x0, y0, width, height)
	r.drawBox(x0, y0, width, height)
	r.drawText(x0+2, y0, v.Title, styleTitle)
	for i, e := range v.Entries {
		r.drawText(x0+2, y0+1+i, "("+string(rune('a'+i))+") "+e.Name, styleMenu)
	}
	r.drawText(x0+2, y0+height-1, "ESCAPE to cancel", styleBorder)
	r.screen.Show()
}

// DrawTargeting highlights every cell in range and the cursor cell.
func (r *Renderer) DrawTargeting(cells []gamemap.Point, cursor gamemap.Point) {
	for _, p := range cells {
		sx, sy, ok := r.camera.WorldToScreen(p.X, p.Y)
		if !ok {
			continue
		}
		mainc, comb, _, _ := r.screen.GetContent(sx, sy)
		r.screen.SetContent(sx, sy, mainc, comb, tcell.StyleDefault.Background(tcell.ColorNavy))
	}
	if sx, sy, ok := r.camera.WorldToScreen(cursor.X, cursor.Y); ok {
		mainc, comb, _, _ := r.screen.GetContent(sx, sy)
		r.screen.SetContent(sx, sy, mainc, comb, styleCursor)
	}
	r.drawText(1, 0, "Select target, ENTER to confirm", styleTitle)
	r.screen.Show()
}
