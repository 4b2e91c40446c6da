package gcode

import (
	"fmt"
	"math"

	"github.com/piwi3910/CakeCut/internal/model"
)

// CollisionKind names what went wrong with a knife move.
type CollisionKind int

const (
	RapidThroughCake CollisionKind = iota // G0 with the knife below the surface
	KnifeOffCake                          // Knife down outside the cake rectangle
)

// Collision is one unsafe move found in a toolpath.
type Collision struct {
	Kind      CollisionKind
	MoveIndex int
	X, Y      float64 // machine coordinates at the end of the move
	Overshoot float64 // distance outside the cake, for KnifeOffCake
}

// CheckKnifeCollisions scans parsed moves for rapids that drag the knife
// through the cake and for knife-down moves that leave the cake. scale is
// machine units per cake cm. At most one collision is reported per move.
func CheckKnifeCollisions(moves []GCodeMove, surface model.Surface, scale float64) []Collision {
	if scale <= 0 {
		scale = 1
	}
	const tolerance = 0.01
	w, l := surface.Width*scale, surface.Length*scale

	var collisions []Collision
	for i, m := range moves {
		hasXY := m.FromX != m.ToX || m.FromY != m.ToY
		if m.Type == MoveRapid && hasXY && (m.FromZ < 0 || m.ToZ < 0) {
			collisions = append(collisions, Collision{Kind: RapidThroughCake, MoveIndex: i, X: m.ToX, Y: m.ToY})
			continue
		}
		if m.ToZ >= 0 {
			continue
		}
		if d := distanceOutside(m.ToX, m.ToY, w, l); d > tolerance*scale {
			collisions = append(collisions, Collision{Kind: KnifeOffCake, MoveIndex: i, X: m.ToX, Y: m.ToY, Overshoot: d})
		}
	}
	return collisions
}

// distanceOutside returns how far (px, py) lies outside the rectangle
// [0,w]x[0,l]; zero when inside.
func distanceOutside(px, py, w, l float64) float64 {
	nearestX := math.Max(0, math.Min(px, w))
	nearestY := math.Max(0, math.Min(py, l))
	return math.Hypot(px-nearestX, py-nearestY)
}

// FormatCollisionWarnings produces human-readable warning messages from collision data.
func FormatCollisionWarnings(collisions []Collision) []string {
	var warnings []string
	for _, c := range collisions {
		var msg string
		switch c.Kind {
		case RapidThroughCake:
			msg = fmt.Sprintf("Move %d: rapid to (%.1f, %.1f) with the knife in the cake", c.MoveIndex+1, c.X, c.Y)
		case KnifeOffCake:
			msg = fmt.Sprintf("Move %d: knife down at (%.1f, %.1f), %.1f outside the cake", c.MoveIndex+1, c.X, c.Y, c.Overshoot)
		}
		warnings = append(warnings, msg)
	}
	return warnings
}
