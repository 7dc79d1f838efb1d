package physics

import "math"

// Vec2 is a point or direction on the platform plane.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{X: v.X * f, Y: v.Y * f} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3-D cross product v × o.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// spin returns the linear velocity of a point at offset r on a body rotating at w rad/s.
func spin(w float64, r Vec2) Vec2 {
	return Vec2{X: -w * r.Y, Y: w * r.X}
}

// Input is one participant's push for a round: a direction in radians
// (0 points right, π/2 points down) and a power in [0, 100].
type Input struct {
	Angle float64
	Power float64
}

// Sanitize clamps power to [0, 100] and replaces a non-finite angle with 0.
func (in Input) Sanitize() Input {
	if math.IsNaN(in.Angle) || math.IsInf(in.Angle, 0) {
		in.Angle = 0
	}
	in.Power = ClampPower(in.Power)
	return in
}
