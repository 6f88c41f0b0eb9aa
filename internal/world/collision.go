package world

import "warcamp/server/internal/state"

// blockedLocked reports whether the point (x, y) falls inside any colliding
// footprint other than the mover's own. Callers hold objectsMu.
func (w *World) blockedLocked(self *state.MapObject, x, y float64) bool {
	for _, o := range w.objects {
		if o == nil || o == self || o.Collision == nil {
			continue
		}
		if pointInFootprint(x, y, o.X, o.Y, o.Collision) {
			return true
		}
	}
	return false
}

// pointInFootprint tests a point against a footprint centered at (ox+cx,
// oy+cy).
func pointInFootprint(x, y, ox, oy float64, fp *state.Footprint) bool {
	cx := ox + fp.CX
	cy := oy + fp.CY
	halfW := fp.CW / 2
	halfH := fp.CH / 2
	return x >= cx-halfW && x <= cx+halfW && y >= cy-halfH && y <= cy+halfH
}
