package physics

import (
	"math"
)

// Body is the simulated representation of one participant during a round.
type Body struct {
	ID string

	Pos    Vec2
	Vel    Vec2 // px/s
	Angle  float64
	AngVel float64 // rad/s

	Radius      float64
	Mass        float64
	Inertia     float64
	Restitution float64
	Friction    float64
	AirFriction float64

	Alive bool
}

func newBody(id string, pos Vec2, radius float64) *Body {
	return &Body{
		ID:          id,
		Pos:         pos,
		Radius:      radius,
		Mass:        BodyMass,
		Inertia:     0.5 * BodyMass * radius * radius,
		Restitution: Restitution,
		Friction:    Friction,
		AirFriction: AirFriction,
		Alive:       true,
	}
}

// DinoState is a point-in-time snapshot of one body.
type DinoState struct {
	ID       string
	Position Vec2
	Velocity Vec2
	Alive    bool
}

// Simulation advances the bodies of one round. It is not safe for concurrent use.
type Simulation struct {
	platformRadius float64
	bodyRadius     float64

	bodies []*Body // placement order
	index  map[string]*Body
	fallen []string
}

// NewSimulation creates an empty simulation for a platform of the given size.
func NewSimulation(platformRadius, bodyRadius float64) *Simulation {
	return &Simulation{
		platformRadius: platformRadius,
		bodyRadius:     bodyRadius,
		index:          map[string]*Body{},
	}
}

// Place replaces every body with one per id, spaced evenly on a ring around the
// platform center. Body i of n sits at angle i·2π/n − π/2.
func (s *Simulation) Place(ids []string) {
	s.bodies = make([]*Body, 0, len(ids))
	s.index = make(map[string]*Body, len(ids))
	s.fallen = nil

	n := float64(len(ids))
	ring := s.platformRadius * PlacementFactor
	for i, id := range ids {
		angle := 2*math.Pi*float64(i)/n - math.Pi/2
		pos := Vec2{X: math.Cos(angle) * ring, Y: math.Sin(angle) * ring}

		b := newBody(id, pos, s.bodyRadius)
		s.bodies = append(s.bodies, b)
		s.index[id] = b
	}
}

// ApplyForce pushes the body once with an impulse of (power/100)·MaxImpulse along
// angle. Power is clamped to [0, 100]. Returns false if the body is unknown or has fallen.
func (s *Simulation) ApplyForce(id string, angle, power float64) bool {
	b, ok := s.index[id]
	if !ok || !b.Alive {
		return false
	}

	mag := (ClampPower(power) / 100) * MaxImpulse
	impulse := Vec2{X: math.Cos(angle) * mag, Y: math.Sin(angle) * mag}
	b.Vel = b.Vel.Add(impulse.Scale(1 / b.Mass))
	return true
}

// Step advances every live body by dt seconds and returns the ids of bodies that
// left the platform during this step.
func (s *Simulation) Step(dt float64) []string {
	for _, b := range s.bodies {
		if !b.Alive {
			continue
		}

		damp := math.Max(0, 1-b.AirFriction*dt/baseDelta)
		b.Vel = b.Vel.Scale(damp)
		b.AngVel *= damp

		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
		b.Angle += b.AngVel * dt
	}

	s.resolveContacts()

	return s.checkBounds()
}

func (s *Simulation) resolveContacts() {
	for i, a := range s.bodies {
		if !a.Alive {
			continue
		}
		for _, b := range s.bodies[i+1:] {
			if !b.Alive {
				continue
			}
			collide(a, b)
		}
	}
}

// collide separates two overlapping bodies and exchanges a restitution impulse along
// the contact normal plus a Coulomb-clamped friction impulse along the tangent.
func collide(a, b *Body) {
	d := b.Pos.Sub(a.Pos)
	dist := d.Len()
	minDist := a.Radius + b.Radius
	if dist >= minDist {
		return
	}

	n := Vec2{X: 1}
	if dist > 0 {
		n = d.Scale(1 / dist)
	}

	invA := 1 / a.Mass
	invB := 1 / b.Mass
	invSum := invA + invB

	corr := n.Scale((minDist - dist) / invSum)
	a.Pos = a.Pos.Sub(corr.Scale(invA))
	b.Pos = b.Pos.Add(corr.Scale(invB))

	ra := n.Scale(a.Radius)
	rb := n.Scale(-b.Radius)
	rel := b.Vel.Add(spin(b.AngVel, rb)).Sub(a.Vel.Add(spin(a.AngVel, ra)))

	vn := rel.Dot(n)
	if vn > 0 {
		return
	}

	e := math.Max(a.Restitution, b.Restitution)
	jn := -(1 + e) * vn / invSum
	impulse := n.Scale(jn)
	a.Vel = a.Vel.Sub(impulse.Scale(invA))
	b.Vel = b.Vel.Add(impulse.Scale(invB))

	t := rel.Sub(n.Scale(vn))
	tl := t.Len()
	if tl < 1e-9 {
		return
	}
	t = t.Scale(1 / tl)

	raT := ra.Cross(t)
	rbT := rb.Cross(t)
	denom := invSum + raT*raT/a.Inertia + rbT*rbT/b.Inertia

	mu := math.Min(a.Friction, b.Friction)
	jt := -rel.Dot(t) / denom
	jt = math.Max(-mu*jn, math.Min(mu*jn, jt))

	ft := t.Scale(jt)
	a.Vel = a.Vel.Sub(ft.Scale(invA))
	a.AngVel -= raT * jt / a.Inertia
	b.Vel = b.Vel.Add(ft.Scale(invB))
	b.AngVel += rbT * jt / b.Inertia
}

func (s *Simulation) checkBounds() []string {
	var out []string
	limit := s.platformRadius + s.bodyRadius
	for _, b := range s.bodies {
		if !b.Alive {
			continue
		}
		if b.Pos.Len() > limit {
			b.Alive = false
			b.Vel = Vec2{}
			b.AngVel = 0
			s.fallen = append(s.fallen, b.ID)
			out = append(out, b.ID)
		}
	}
	return out
}

// Remove drops a body from the world entirely. It no longer appears in states and
// is not reported as eliminated.
func (s *Simulation) Remove(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)

	for i, b := range s.bodies {
		if b.ID == id {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			break
		}
	}
	for i, f := range s.fallen {
		if f == id {
			s.fallen = append(s.fallen[:i], s.fallen[i+1:]...)
			break
		}
	}
	return true
}

// States returns a snapshot of every tracked body in placement order.
func (s *Simulation) States() []DinoState {
	out := make([]DinoState, 0, len(s.bodies))
	for _, b := range s.bodies {
		out = append(out, DinoState{
			ID:       b.ID,
			Position: b.Pos,
			Velocity: b.Vel,
			Alive:    b.Alive,
		})
	}
	return out
}

// Remaining returns the ids of bodies still on the platform, in placement order.
func (s *Simulation) Remaining() []string {
	var out []string
	for _, b := range s.bodies {
		if b.Alive {
			out = append(out, b.ID)
		}
	}
	return out
}

// Eliminated returns the ids of bodies that fell, in the order they fell.
func (s *Simulation) Eliminated() []string {
	out := make([]string, len(s.fallen))
	copy(out, s.fallen)
	return out
}

// Body returns a copy of the body with the given id.
func (s *Simulation) Body(id string) (Body, bool) {
	b, ok := s.index[id]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// ClampPower limits power to [0, 100]. NaN becomes 0.
func ClampPower(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(100, p))
}
