// Package plate decides whether a cake piece can be served on a round plate.
package plate

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/piwi3910/CakeCut/internal/model"
)

const eps = 1e-9

// Circle is a center and radius in cake units.
type Circle struct {
	Center model.Point
	Radius float64
}

func (c Circle) contains(p model.Point) bool {
	return c.Center.Dist(p) <= c.Radius+eps*math.Max(1, c.Radius)
}

// FitsOnPlate reports whether the minimum enclosing circle of the piece's
// boundary points has a radius no larger than radius.
func FitsOnPlate(piece model.Piece, radius float64) (bool, error) {
	c, err := MinEnclosingCircle(piece.Outline)
	if err != nil {
		return false, err
	}
	return c.Radius <= radius, nil
}

// FeasibleSet evaluates FitsOnPlate for every piece. Degenerate pieces count as
// not servable.
func FeasibleSet(pieces []model.Piece, radius float64) []bool {
	fits := make([]bool, len(pieces))
	for i, p := range pieces {
		ok, err := FitsOnPlate(p, radius)
		fits[i] = err == nil && ok
	}
	return fits
}

// MinEnclosingCircle computes the smallest circle containing every point
// using Welzl's incremental algorithm. The input order is shuffled with a fixed
// seed so the expected running time is linear and results are reproducible.
func MinEnclosingCircle(points []model.Point) (Circle, error) {
	if len(points) < 3 {
		return Circle{}, fmt.Errorf("enclosing circle of %d points: %w", len(points), model.ErrInvalidGeometry)
	}
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return Circle{}, fmt.Errorf("enclosing circle: non-finite point %v: %w", p, model.ErrInvalidGeometry)
		}
	}

	pts := make([]model.Point, len(points))
	copy(pts, points)
	rng := rand.New(rand.NewSource(int64(len(pts))))
	rng.Shuffle(len(pts), func(i, j int) { pts[i], pts[j] = pts[j], pts[i] })

	c := Circle{Center: pts[0]}
	for i := 1; i < len(pts); i++ {
		if c.contains(pts[i]) {
			continue
		}
		c = Circle{Center: pts[i]}
		for j := 0; j < i; j++ {
			if c.contains(pts[j]) {
				continue
			}
			c = circleFrom2(pts[i], pts[j])
			for k := 0; k < j; k++ {
				if !c.contains(pts[k]) {
					c = circleFrom3(pts[i], pts[j], pts[k])
				}
			}
		}
	}
	return c, nil
}

// circleFrom2 returns the circle with segment ab as its diameter.
func circleFrom2(a, b model.Point) Circle {
	center := model.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	return Circle{Center: center, Radius: a.Dist(b) / 2}
}

// circleFrom3 returns the circumcircle of a, b, c. Collinear points fall back
// to the circle over the farthest pair.
func circleFrom3(a, b, c model.Point) Circle {
	bx, by := b.X-a.X, b.Y-a.Y
	cx, cy := c.X-a.X, c.Y-a.Y
	d := 2 * (bx*cy - by*cx)
	if math.Abs(d) < eps {
		best := circleFrom2(a, b)
		for _, cand := range []Circle{circleFrom2(a, c), circleFrom2(b, c)} {
			if cand.Radius > best.Radius {
				best = cand
			}
		}
		return best
	}
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	ux := (cy*b2 - by*c2) / d
	uy := (bx*c2 - cx*b2) / d
	center := model.Point{X: a.X + ux, Y: a.Y + uy}
	return Circle{Center: center, Radius: math.Hypot(ux, uy)}
}
