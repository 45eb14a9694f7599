package render

// Camera translates between world coordinates and screen coordinates. Each
// world tile is one terminal column wide.
type Camera struct {
	OffsetX    int
	OffsetY    int
	ViewWidth  int // in terminal columns
	ViewHeight int // in terminal rows
}

// NewCamera creates a camera centered on (cx, cy).
func NewCamera(cx, cy, viewW, viewH int) *Camera {
	c := &Camera{ViewWidth: viewW, ViewHeight: viewH}
	c.Center(cx, cy)
	return c
}

// Center repositions the camera so that world position (cx, cy) is in the
// middle. A map that fits the viewport is pinned to the top-left corner.
func (c *Camera) Center(cx, cy int) {
	c.OffsetX = cx - c.ViewWidth/2
	c.OffsetY = cy - c.ViewHeight/2
}

// Fit pins the camera to the origin when a w×h map fits the viewport, and
// otherwise clamps the offsets so no space beyond the map edge is shown.
func (c *Camera) Fit(w, h int) {
	c.OffsetX = clamp(c.OffsetX, 0, max(0, w-c.ViewWidth))
	c.OffsetY = clamp(c.OffsetY, 0, max(0, h-c.ViewHeight))
}

// WorldToScreen converts world (wx, wy) to screen (sx, sy).
// visible is false when the result falls outside the viewport.
func (c *Camera) WorldToScreen(wx, wy int) (sx, sy int, visible bool) {
	sx = wx - c.OffsetX
	sy = wy - c.OffsetY
	visible = sx >= 0 && sx < c.ViewWidth && sy >= 0 && sy < c.ViewHeight
	return
}

// ScreenToWorld converts screen (sx, sy) to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy int) (int, int) {
	return sx + c.OffsetX, sy + c.OffsetY
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
