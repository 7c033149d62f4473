package world

import "math"

// ============================================================================
// GEOMETRY
// ============================================================================

func Dist(a, b Vec2) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Overlaps reports whether p lies strictly inside r grown by pad on every side.
func Overlaps(p Vec2, r Rect, pad float64) bool {
	return p.X > r.X-pad &&
		p.X < r.X+r.W+pad &&
		p.Y > r.Y-pad &&
		p.Y < r.Y+r.H+pad
}

// RayBlocked reports whether any wall's box intersects the bounding box of
// the segment a-b. Walls whose centre is more than cull away from the segment
// midpoint on the x axis are skipped. This is a box-vs-box test, not a true
// segment intersection, so it over-reports near corners.
func RayBlocked(a, b Vec2, walls []Rect, cull float64) bool {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	midX := (a.X + b.X) / 2

	for _, s := range walls {
		if math.Abs(s.X+s.W/2-midX) > cull {
			continue
		}
		if maxX < s.X || minX > s.X+s.W || maxY < s.Y || minY > s.Y+s.H {
			continue
		}
		return true
	}
	return false
}

func (w *World) hitsWall(p Vec2) bool {
	for _, s := range w.Structures {
		if Overlaps(p, s, w.Cfg.WallPadding) {
			return true
		}
	}
	return false
}

// ============================================================================
// SLICE HELPERS
// ============================================================================

func (w *World) removeEnemyAt(idx int) {
	last := len(w.Enemies) - 1

	if idx != last {
		w.Enemies[idx] = w.Enemies[last]
	}

	w.Enemies = w.Enemies[:last]
}

func (w *World) activeFragments() int {
	n := 0
	for _, f := range w.Fragments {
		if f.Active {
			n++
		}
	}
	return n
}

// ============================================================================
// NUMBERS
// ============================================================================

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
