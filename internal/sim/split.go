package sim

import (
	"github.com/piwi3910/CakeCut/internal/model"
)

// minPieceArea drops degenerate slivers produced by cuts through a vertex.
const minPieceArea = 1e-9

// side returns the signed area of (a, b, p): positive when p is left of a->b.
func side(a, b, p model.Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// splitConvex cuts a convex outline by the line through a and b. It returns
// the outline unchanged (and false) when the line does not cross its interior.
func splitConvex(o model.Outline, a, b model.Point) (left, right model.Outline, split bool) {
	const eps = 1e-9
	d := make([]float64, len(o))
	var hasLeft, hasRight bool
	for i, p := range o {
		d[i] = side(a, b, p)
		if d[i] > eps {
			hasLeft = true
		} else if d[i] < -eps {
			hasRight = true
		}
	}
	if !hasLeft || !hasRight {
		return o, nil, false
	}

	for i := range o {
		j := (i + 1) % len(o)
		p, q := o[i], o[j]
		dp, dq := d[i], d[j]

		if dp >= -eps {
			left = append(left, p)
		}
		if dp <= eps {
			right = append(right, p)
		}
		if (dp > eps && dq < -eps) || (dp < -eps && dq > eps) {
			t := dp / (dp - dq)
			x := model.Point{X: p.X + t*(q.X-p.X), Y: p.Y + t*(q.Y-p.Y)}
			left = append(left, x)
			right = append(right, x)
		}
	}
	return left, right, true
}

// cutPieces splits every piece the chord a->b crosses.
func cutPieces(pieces []model.Piece, a, b model.Point) []model.Piece {
	out := make([]model.Piece, 0, len(pieces)+1)
	for _, pc := range pieces {
		left, right, split := splitConvex(pc.Outline, a, b)
		if !split {
			out = append(out, pc)
			continue
		}
		for _, o := range []model.Outline{left, right} {
			if o.Area() > minPieceArea {
				out = append(out, model.Piece{Outline: o})
			}
		}
	}
	return out
}
