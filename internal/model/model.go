package model

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Point represents a 2D coordinate on the cake in cm.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// Dist returns the Euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point) {
	if len(o) == 0 {
		return Point{}, Point{}
	}
	min = o[0]
	max = o[0]
	for _, p := range o[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Area computes the absolute area using the shoelace formula.
func (o Outline) Area() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return math.Abs(area) / 2
}

// Centroid returns the vertex average, which is enough for label placement.
func (o Outline) Centroid() Point {
	if len(o) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range o {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(o))
	return Point{X: c.X / n, Y: c.Y / n}
}

// Piece is a polygon produced by prior cuts. The planner and engine only read pieces.
type Piece struct {
	Outline Outline `json:"outline"`
}

// NewRectPiece builds an axis-aligned rectangular piece.
func NewRectPiece(x, y, w, h float64) Piece {
	return Piece{Outline: Outline{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}}
}

// Area returns the piece area.
func (p Piece) Area() float64 {
	return p.Outline.Area()
}

// Surface is the rectangular cake being subdivided.
type Surface struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
}

// Validate fails fast on non-positive dimensions.
func (s Surface) Validate() error {
	if !(s.Width > 0 && s.Length > 0) || math.IsInf(s.Width, 0) || math.IsInf(s.Length, 0) {
		return fmt.Errorf("surface %.2f x %.2f: %w", s.Width, s.Length, ErrInvalidGeometry)
	}
	return nil
}

// Area returns Width * Length.
func (s Surface) Area() float64 {
	return s.Width * s.Length
}

// Contains reports whether p lies within [0,W]x[0,L] up to eps.
func (s Surface) Contains(p Point, eps float64) bool {
	return p.X >= -eps && p.X <= s.Width+eps && p.Y >= -eps && p.Y <= s.Length+eps
}

// OnBoundary reports whether p lies on one of the four cake edges up to eps.
func (s Surface) OnBoundary(p Point, eps float64) bool {
	if !s.Contains(p, eps) {
		return false
	}
	return math.Abs(p.X) <= eps || math.Abs(p.X-s.Width) <= eps ||
		math.Abs(p.Y) <= eps || math.Abs(p.Y-s.Length) <= eps
}

// Clamp pulls p into the surface rectangle.
func (s Surface) Clamp(p Point) Point {
	return Point{
		X: math.Min(math.Max(p.X, 0), s.Width),
		Y: math.Min(math.Max(p.Y, 0), s.Length),
	}
}

// Corners returns the four cake corners in clockwise order starting at the origin.
func (s Surface) Corners() Outline {
	return Outline{
		{X: 0, Y: 0},
		{X: s.Width, Y: 0},
		{X: s.Width, Y: s.Length},
		{X: 0, Y: s.Length},
	}
}

// Unassigned marks a request that receives no piece.
const Unassigned = -1

// Assignment maps each request index to a piece index or Unassigned.
type Assignment []int

// NewAssignment returns an all-unassigned vector for n requests.
func NewAssignment(n int) Assignment {
	a := make(Assignment, n)
	for i := range a {
		a[i] = Unassigned
	}
	return a
}

// AssignedCount returns how many requests received a piece.
func (a Assignment) AssignedCount() int {
	count := 0
	for _, idx := range a {
		if idx != Unassigned {
			count++
		}
	}
	return count
}

// MoveKind tags the variant held by a Move.
type MoveKind int

const (
	MoveInit   MoveKind = iota // Place the knife at the starting position
	MoveCut                    // Move the knife to a new boundary position
	MoveAssign                 // Hand out pieces to requests
)

func (k MoveKind) String() string {
	switch k {
	case MoveInit:
		return "init"
	case MoveCut:
		return "cut"
	case MoveAssign:
		return "assign"
	default:
		return "unknown"
	}
}

// Move is the single action produced per turn.
type Move struct {
	Kind       MoveKind   `json:"kind"`
	Position   Point      `json:"position"`
	Assignment Assignment `json:"assignment,omitempty"`
}

func InitMove(p Point) Move { return Move{Kind: MoveInit, Position: p} }

func CutMove(p Point) Move { return Move{Kind: MoveCut, Position: p} }

func AssignMove(a Assignment) Move { return Move{Kind: MoveAssign, Assignment: a} }

func (m Move) String() string {
	if m.Kind == MoveAssign {
		return fmt.Sprintf("assign %v", []int(m.Assignment))
	}
	return fmt.Sprintf("%s %s", m.Kind, m.Position)
}

// Snapshot is the per-turn view of the game handed over by the host.
type Snapshot struct {
	Pieces     []Piece   `json:"pieces"`
	TurnNumber int       `json:"turn_number"`
	Position   Point     `json:"position"`
	Requests   []float64 `json:"requests"`
	Surface    Surface   `json:"surface"`
}

// Game identifies one game instance.
type Game struct {
	ID       string    `json:"id"`
	Surface  Surface   `json:"surface"`
	Requests []float64 `json:"requests"`
	Behavior string    `json:"behavior"`
}

func NewGame(surface Surface, requests []float64, behavior string) Game {
	return Game{
		ID:       uuid.New().String()[:8],
		Surface:  surface,
		Requests: requests,
		Behavior: behavior,
	}
}
