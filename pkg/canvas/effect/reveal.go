package effect

import (
	"math"

	"collectivecanvas/pkg/engine/geom"
)

// Reveal describes how much of an effect's element list is visible at a
// given progress. Count elements are fully revealed; the element at index
// Count (if any) is entering with interpolation factor Entering.
type Reveal struct {
	Total    int
	Count    int
	Entering float64
}

// RevealAt computes the reveal state for progress p over total elements.
func RevealAt(p float64, total int) Reveal {
	if total <= 0 {
		return Reveal{}
	}
	scaled := geom.Clamp01(p) * float64(total)
	count := int(math.Floor(scaled))
	if count >= total {
		return Reveal{Total: total, Count: total}
	}
	return Reveal{Total: total, Count: count, Entering: scaled - float64(count)}
}

// RevealOf is RevealAt for the effect's current draw progress.
func RevealOf(e Effect) Reveal {
	return RevealAt(DrawProgress(e), e.Elements())
}

// ElementProgress returns the interpolation factor in [0,1] of element i:
// 1 for revealed elements, Entering for the entering one, 0 after it.
func (r Reveal) ElementProgress(i int) float64 {
	return geom.Clamp01(float64(r.Count) + r.Entering - float64(i))
}

// Visible returns the number of elements that should be drawn, counting the
// entering one when it has started to appear.
func (r Reveal) Visible() int {
	if r.Count < r.Total && r.Entering > 0 {
		return r.Count + 1
	}
	return r.Count
}

// Polyline returns the visible prefix of points, with the final point pulled
// towards its successor by the entering factor so lines grow smoothly.
func (r Reveal) Polyline(points []geom.Point) []geom.Point {
	if r.Count == 0 {
		return nil
	}
	out := make([]geom.Point, r.Count, r.Count+1)
	copy(out, points[:r.Count])
	if r.Count < len(points) && r.Entering > 0 {
		out = append(out, points[r.Count-1].Lerp(points[r.Count], r.Entering))
	}
	return out
}

// VisibleArms distributes the reveal across the arms in order: the first arm
// fills completely before the second one starts.
func (s *Swirl) VisibleArms(r Reveal) [][]geom.Point {
	remaining := r.Count
	var out [][]geom.Point
	for _, arm := range s.Arms {
		if remaining <= 0 {
			break
		}
		take := min(len(arm), remaining)
		out = append(out, arm[:take])
		remaining -= take
	}
	return out
}
