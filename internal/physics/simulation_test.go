package physics

import (
	"math"
	"slices"
	"testing"

	"github.com/pixil98/go-testutil"
)

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s: got %f, want %f", name, got, want)
	}
}

func TestSimulation_Place(t *testing.T) {
	s := NewSimulation(PlatformRadius, BodyRadius)
	s.Place([]string{"a", "b", "c", "d"})

	ring := PlatformRadius * PlacementFactor
	exp := map[string]Vec2{
		"a": {X: 0, Y: -ring},
		"b": {X: ring, Y: 0},
		"c": {X: 0, Y: ring},
		"d": {X: -ring, Y: 0},
	}

	states := s.States()
	testutil.AssertEqual(t, "state count", len(states), 4)
	for i, id := range []string{"a", "b", "c", "d"} {
		testutil.AssertEqual(t, "order", states[i].ID, id)
		assertNear(t, id+" x", states[i].Position.X, exp[id].X)
		assertNear(t, id+" y", states[i].Position.Y, exp[id].Y)
		testutil.AssertEqual(t, id+" alive", states[i].Alive, true)
	}
}

func TestSimulation_ApplyForce(t *testing.T) {
	full := MaxImpulse / BodyMass

	tests := map[string]struct {
		id     string
		angle  float64
		power  float64
		expOk  bool
		expVel Vec2
	}{
		"half power right": {
			id:     "a",
			angle:  0,
			power:  50,
			expOk:  true,
			expVel: Vec2{X: full / 2},
		},
		"full power down": {
			id:     "a",
			angle:  math.Pi / 2,
			power:  100,
			expOk:  true,
			expVel: Vec2{Y: full},
		},
		"power clamped high": {
			id:     "a",
			angle:  math.Pi,
			power:  250,
			expOk:  true,
			expVel: Vec2{X: -full},
		},
		"power clamped low": {
			id:     "a",
			angle:  0,
			power:  -20,
			expOk:  true,
			expVel: Vec2{},
		},
		"nan power": {
			id:     "a",
			angle:  0,
			power:  math.NaN(),
			expOk:  true,
			expVel: Vec2{},
		},
		"unknown body": {
			id:    "zzz",
			angle: 0,
			power: 100,
			expOk: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := NewSimulation(PlatformRadius, BodyRadius)
			s.Place([]string{"a", "b"})

			ok := s.ApplyForce(tt.id, tt.angle, tt.power)
			testutil.AssertEqual(t, "ok", ok, tt.expOk)
			if !tt.expOk {
				return
			}

			b, _ := s.Body(tt.id)
			assertNear(t, "vx", b.Vel.X, tt.expVel.X)
			assertNear(t, "vy", b.Vel.Y, tt.expVel.Y)
		})
	}
}

func TestSimulation_StepWithoutForceStaysPut(t *testing.T) {
	s := NewSimulation(PlatformRadius, BodyRadius)
	s.Place([]string{"a", "b", "c", "d", "e"})
	before := s.States()

	for range TickRate * 3 {
		fell := s.Step(TickDT)
		testutil.AssertEqual(t, "fell", len(fell), 0)
	}

	after := s.States()
	for i := range before {
		testutil.AssertEqual(t, "position", after[i].Position, before[i].Position)
	}
}

func TestSimulation_FallsOffExactlyOnce(t *testing.T) {
	s := NewSimulation(PlatformRadius, BodyRadius)
	s.Place([]string{"a"})

	// Body a starts at the top of the ring; push it straight up and off the edge.
	s.ApplyForce("a", -math.Pi/2, 100)

	reported := 0
	for range TickRate * 3 {
		for _, id := range s.Step(TickDT) {
			testutil.AssertEqual(t, "fallen id", id, "a")
			reported++
		}
	}

	testutil.AssertEqual(t, "times reported", reported, 1)
	if got := s.Eliminated(); !slices.Equal(got, []string{"a"}) {
		t.Errorf("eliminated: got %v, want [a]", got)
	}
	testutil.AssertEqual(t, "remaining", len(s.Remaining()), 0)

	states := s.States()
	testutil.AssertEqual(t, "state count", len(states), 1)
	testutil.AssertEqual(t, "alive", states[0].Alive, false)

	// A fallen body ignores further pushes and never comes back.
	testutil.AssertEqual(t, "apply after fall", s.ApplyForce("a", math.Pi/2, 100), false)
	for range 10 {
		testutil.AssertEqual(t, "fell again", len(s.Step(TickDT)), 0)
	}
	testutil.AssertEqual(t, "still dead", s.States()[0].Alive, false)
}

func TestSimulation_AirFrictionSlowsBody(t *testing.T) {
	s := NewSimulation(PlatformRadius, BodyRadius)
	s.Place([]string{"a"})
	s.ApplyForce("a", 0, 10)

	b, _ := s.Body("a")
	v0 := b.Vel.Len()
	s.Step(TickDT)
	b, _ = s.Body("a")

	if b.Vel.Len() >= v0 {
		t.Errorf("expected damping, speed went from %f to %f", v0, b.Vel.Len())
	}
}

func TestCollide_HeadOn(t *testing.T) {
	a := newBody("a", Vec2{X: 0}, BodyRadius)
	b := newBody("b", Vec2{X: 39}, BodyRadius)
	a.Vel = Vec2{X: 100}

	collide(a, b)

	// Equal masses, restitution 0.8: closing speed 100 becomes separating speed 80.
	assertNear(t, "a vx", a.Vel.X, 10)
	assertNear(t, "b vx", b.Vel.X, 90)
	assertNear(t, "momentum", a.Vel.X*a.Mass+b.Vel.X*b.Mass, 100*BodyMass)

	if d := b.Pos.Sub(a.Pos).Len(); d < a.Radius+b.Radius-1e-9 {
		t.Errorf("bodies still overlap: distance %f", d)
	}
}

func TestCollide_GlancingContactSpins(t *testing.T) {
	a := newBody("a", Vec2{X: 0}, BodyRadius)
	b := newBody("b", Vec2{X: 39}, BodyRadius)
	a.Vel = Vec2{X: 100, Y: 100}

	collide(a, b)

	if a.AngVel == 0 || b.AngVel == 0 {
		t.Errorf("expected friction to spin both bodies, got %f and %f", a.AngVel, b.AngVel)
	}
	if b.Vel.Y <= 0 {
		t.Errorf("expected friction to drag b along, got vy %f", b.Vel.Y)
	}
	assertNear(t, "momentum y", a.Vel.Y*a.Mass+b.Vel.Y*b.Mass, 100*BodyMass)
}

func TestCollide_SeparatingBodiesKeepVelocity(t *testing.T) {
	a := newBody("a", Vec2{X: 0}, BodyRadius)
	b := newBody("b", Vec2{X: 39}, BodyRadius)
	a.Vel = Vec2{X: -50}

	collide(a, b)

	assertNear(t, "a vx", a.Vel.X, -50)
	assertNear(t, "b vx", b.Vel.X, 0)
}

func TestSimulation_Deterministic(t *testing.T) {
	run := func() []DinoState {
		s := NewSimulation(PlatformRadius, BodyRadius)
		s.Place([]string{"a", "b", "c"})
		s.ApplyForce("a", math.Pi/2, 90)
		s.ApplyForce("b", math.Pi, 75)
		s.ApplyForce("c", -math.Pi/3, 60)
		for range TickRate * 3 {
			s.Step(TickDT)
		}
		return s.States()
	}

	first, second := run(), run()
	testutil.AssertEqual(t, "state count", len(second), len(first))
	for i := range first {
		testutil.AssertEqual(t, first[i].ID, second[i], first[i])
	}
}

func TestSimulation_Remove(t *testing.T) {
	s := NewSimulation(PlatformRadius, BodyRadius)
	s.Place([]string{"a", "b", "c"})

	testutil.AssertEqual(t, "removed", s.Remove("b"), true)
	testutil.AssertEqual(t, "removed twice", s.Remove("b"), false)

	states := s.States()
	testutil.AssertEqual(t, "state count", len(states), 2)
	testutil.AssertEqual(t, "first", states[0].ID, "a")
	testutil.AssertEqual(t, "second", states[1].ID, "c")
	testutil.AssertEqual(t, "apply removed", s.ApplyForce("b", 0, 100), false)
}
