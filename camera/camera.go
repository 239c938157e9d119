// Package camera provides a 2D camera for viewing the robot workspace.
package camera

// Camera controls the viewport into the world.
// World coordinates are in pixels, centered on the origin, with y pointing up;
// screen coordinates have y pointing down.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions; the world spans [-W/2, W/2] x [-H/2, H/2]
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	// FollowRate is the fraction of the remaining distance covered per Follow call.
	FollowRate float32
}

// New creates a camera centered on the origin with 1:1 zoom.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		Zoom:       1.0,
		ViewportW:  viewportW,
		ViewportH:  viewportH,
		WorldW:     worldW,
		WorldH:     worldH,
		MaxZoom:    4.0,
		FollowRate: 0.1,
	}
	c.MinZoom = c.minZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	return c
}

// minZoom is the zoom at which the viewport exactly covers the world
// in its limiting dimension.
func (c *Camera) minZoom() float32 {
	minZoom := c.ViewportW / c.WorldW
	if z := c.ViewportH / c.WorldH; z > minZoom {
		minZoom = z
	}
	return minZoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 - (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y - (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// WorldAngleToScreen converts a counter-clockwise world angle in radians
// to a clockwise screen rotation in degrees, as raylib expects.
func WorldAngleToScreen(angle float32) float32 {
	return -angle * 180 / 3.14159265
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.minZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	c.clampPosition()
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y -= dy / c.Zoom
	c.clampPosition()
}

// Follow moves the camera part of the way toward a world position.
func (c *Camera) Follow(wx, wy float32) {
	c.X += (wx - c.X) * c.FollowRate
	c.Y += (wy - c.Y) * c.FollowRate
	c.clampPosition()
}

// CenterOn moves the camera to a world position.
func (c *Camera) CenterOn(wx, wy float32) {
	c.X, c.Y = wx, wy
	c.clampPosition()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampPosition()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the origin at 1:1 zoom.
func (c *Camera) Reset() {
	c.X, c.Y = 0, 0
	c.SetZoom(1.0)
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampPosition keeps the visible area inside the world.
func (c *Camera) clampPosition() {
	limX := c.WorldW/2 - c.ViewportW/(2*c.Zoom)
	limY := c.WorldH/2 - c.ViewportH/(2*c.Zoom)
	c.X = clamp(c.X, -max(limX, 0), max(limX, 0))
	c.Y = clamp(c.Y, -max(limY, 0), max(limY, 0))
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
