package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/CakeCut/internal/model"
)

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start model.Point
	end   model.Point
}

// ImportDXF reads cut pieces from a DXF file. Each closed LWPOLYLINE or
// CIRCLE becomes a piece in cake coordinates. Loose LINEs and ARCs are only
// chained into pieces when the drawing has no polylines, so outline and
// knife strokes written next to the pieces are ignored.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []model.Outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := lwPolylineToOutline(e)
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			outlines = append(outlines, circleToOutline(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: model.Point{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point{X: e.End[0], Y: e.End[1]},
			})
		}
	}

	if len(outlines) == 0 {
		for _, co := range chainSegments(segments, 0.01) {
			if len(co) >= 3 {
				outlines = append(outlines, co)
			}
		}
	} else if len(segments) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Ignored %d loose segments next to closed pieces", len(segments)))
	}

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for i, outline := range outlines {
		if area := outline.Area(); area < 1e-6 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape %d (%.6f cm2)", i+1, area))
			continue
		}
		result.Pieces = append(result.Pieces, model.Piece{Outline: outline})
	}

	return result
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an Outline. A
// vertex with a non-zero bulge starts an arc to the following vertex.
func lwPolylineToOutline(lw *entity.LwPolyline) model.Outline {
	n := len(lw.Vertices)
	outline := make(model.Outline, 0, n)
	for i, v := range lw.Vertices {
		from := model.Point{X: v[0], Y: v[1]}
		if i >= len(lw.Bulges) || math.Abs(lw.Bulges[i]) < 1e-9 {
			outline = append(outline, from)
			continue
		}
		w := lw.Vertices[(i+1)%n]
		arc := bulgeArcPoints(from, model.Point{X: w[0], Y: w[1]}, lw.Bulges[i], 32)
		outline = append(outline, arc[:len(arc)-1]...)
	}
	return outline
}

// bulgeArcPoints samples the arc from p1 to p2 described by a DXF bulge, the
// tangent of a quarter of the signed included angle. Positive bulges turn
// counter-clockwise. The result holds segments+1 points including both ends.
func bulgeArcPoints(p1, p2 model.Point, bulge float64, segments int) model.Outline {
	chord := p1.Dist(p2)
	if chord < 1e-9 {
		return model.Outline{p1, p2}
	}
	sweep := 4 * math.Atan(bulge)
	radius := chord / (2 * math.Sin(math.Abs(sweep)/2))

	// The center sits on the chord's left normal, signed by the sweep.
	offset := (chord / 2) / math.Tan(sweep/2)
	center := model.Point{
		X: (p1.X+p2.X)/2 - (p2.Y-p1.Y)/chord*offset,
		Y: (p1.Y+p2.Y)/2 + (p2.X-p1.X)/chord*offset,
	}
	start := math.Atan2(p1.Y-center.Y, p1.X-center.X)
	return arcPoints(center, radius, start, sweep, segments)
}

// arcPoints samples segments+1 points on a circle, from angle start through
// start+sweep (radians).
func arcPoints(center model.Point, radius, start, sweep float64, segments int) model.Outline {
	pts := make(model.Outline, segments+1)
	for i := range pts {
		a := start + sweep*float64(i)/float64(segments)
		pts[i] = model.Point{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
	}
	return pts
}

// circleToOutline approximates a circle as a regular polygon.
func circleToOutline(c *entity.Circle, segments int) model.Outline {
	center := model.Point{X: c.Center[0], Y: c.Center[1]}
	full := arcPoints(center, c.Radius, 0, 2*math.Pi, segments)
	return full[:segments]
}

// arcToPoints samples a DXF ARC, whose angles are counter-clockwise degrees.
func arcToPoints(a *entity.Arc, segments int) []model.Point {
	start := a.Angle[0] * math.Pi / 180
	sweep := a.Angle[1]*math.Pi/180 - start
	if sweep <= 0 {
		sweep += 2 * math.Pi
	}
	center := model.Point{X: a.Circle.Center[0], Y: a.Circle.Center[1]}
	return arcPoints(center, a.Circle.Radius, start, sweep, segments)
}

// pointsToSegments joins consecutive points into segments.
func pointsToSegments(pts []model.Point) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		segs = append(segs, segment{start: pts[i-1], end: pts[i]})
	}
	return segs
}

// chainSegments walks segments end to end into outlines, flipping segments
// drawn the other way round. Endpoints closer than tolerance are joined. A
// closed chain drops its repeated first point. Outlines come back largest
// first.
func chainSegments(segs []segment, tolerance float64) []model.Outline {
	if len(segs) == 0 {
		return nil
	}

	remaining := append([]segment(nil), segs...)
	var outlines []model.Outline

	// next removes and returns the far end of a segment touching p.
	next := func(p model.Point) (model.Point, bool) {
		for i, seg := range remaining {
			var far model.Point
			switch {
			case pointsClose(p, seg.start, tolerance):
				far = seg.end
			case pointsClose(p, seg.end, tolerance):
				far = seg.start
			default:
				continue
			}
			remaining = append(remaining[:i], remaining[i+1:]...)
			return far, true
		}
		return model.Point{}, false
	}

	for len(remaining) > 0 {
		first := remaining[0]
		remaining = remaining[1:]
		chain := model.Outline{first.start, first.end}

		for p, ok := next(first.end); ok; p, ok = next(p) {
			chain = append(chain, p)
		}

		if len(chain) >= 3 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
		}
		if len(chain) >= 3 {
			outlines = append(outlines, chain)
		}
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return outlines[i].Area() > outlines[j].Area()
	})
	return outlines
}

func pointsClose(a, b model.Point, tolerance float64) bool {
	return a.Dist(b) <= tolerance
}
