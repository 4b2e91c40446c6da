package planner

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/CakeCut/internal/model"
)

// perimeterParam maps a boundary point to its distance along the perimeter,
// walking counter-clockwise from the origin: bottom, right, top, left.
func perimeterParam(s model.Surface, p model.Point) (float64, error) {
	w, l := s.Width, s.Length
	switch {
	case math.Abs(p.Y) <= eps:
		return p.X, nil
	case math.Abs(p.X-w) <= eps:
		return w + p.Y, nil
	case math.Abs(p.Y-l) <= eps:
		return w + l + (w - p.X), nil
	case math.Abs(p.X) <= eps:
		return 2*w + l + (l - p.Y), nil
	}
	return 0, fmt.Errorf("position %s is not on the %.2f x %.2f boundary: %w", p, w, l, model.ErrInvalidGeometry)
}

// sneakPath returns the boundary-hugging positions leading from one boundary
// point to another: every corner passed on the shorter way round, then the
// target itself. The knife never crosses the interior on this path.
func sneakPath(s model.Surface, from, to model.Point) ([]model.Point, error) {
	if !s.Contains(from, eps) || !s.Contains(to, eps) {
		return nil, fmt.Errorf("sneak %s -> %s: %w", from, to, model.ErrInvalidGeometry)
	}
	t0, err := perimeterParam(s, from)
	if err != nil {
		return nil, err
	}
	t1, err := perimeterParam(s, to)
	if err != nil {
		return nil, err
	}

	w, l := s.Width, s.Length
	perimeter := 2 * (w + l)
	cornerParams := []float64{0, w, w + l, 2*w + l}

	forward := math.Mod(t1-t0+perimeter, perimeter)
	backward := perimeter - forward
	walk, direction := forward, 1.0
	if backward < forward {
		walk, direction = backward, -1.0
	}

	type stop struct {
		corner model.Point
		dist   float64
	}
	var stops []stop
	for k, corner := range s.Corners() {
		d := math.Mod(direction*(cornerParams[k]-t0)+perimeter, perimeter)
		if d > eps && d < walk-eps {
			stops = append(stops, stop{corner: corner, dist: d})
		}
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].dist < stops[j].dist })

	path := make([]model.Point, 0, len(stops)+1)
	for _, st := range stops {
		path = append(path, st.corner)
	}
	return append(path, to), nil
}
