package rigid

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func newBox(t *testing.T, w, h float64, opts ...BodyOption) *Body {
	t.Helper()
	body, err := NewBody(Rectangle(w, h), opts...)
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func checkReciprocal(t *testing.T, body *Body) {
	t.Helper()
	if body.IsStatic() {
		if body.InverseMass() != 0 || body.InverseInertia() != 0 {
			t.Errorf("Static body must have zero inverses, got %v %v", body.InverseMass(), body.InverseInertia())
		}
		return
	}
	if !scalar.EqualWithinRel(body.Mass()*body.InverseMass(), 1, 1e-12) {
		t.Errorf("Mass %v and inverse %v are not reciprocal", body.Mass(), body.InverseMass())
	}
	if !scalar.EqualWithinRel(body.Inertia()*body.InverseInertia(), 1, 1e-12) {
		t.Errorf("Inertia %v and inverse %v are not reciprocal", body.Inertia(), body.InverseInertia())
	}
}

func TestNewBody_Errors(t *testing.T) {
	if _, err := NewBody(nil); !errors.Is(err, ErrEmptyVertices) {
		t.Errorf("Expected ErrEmptyVertices, got %v", err)
	}
	bad := []Vector{{0, 0}, {math.NaN(), 1}, {1, 1}}
	if _, err := NewBody(bad); !errors.Is(err, ErrInvalidVertex) {
		t.Errorf("Expected ErrInvalidVertex, got %v", err)
	}
	if _, err := NewBody(Rectangle(1, 1), WithPosition(Vector{math.Inf(1), 0})); !errors.Is(err, ErrInvalidVertex) {
		t.Errorf("Expected ErrInvalidVertex for position, got %v", err)
	}
}

func TestNewBody_Defaults(t *testing.T) {
	body := newBox(t, 40, 20)
	if !scalar.EqualWithinAbs(body.Area(), 800, tol) {
		t.Errorf("Expected area 800 got %v", body.Area())
	}
	if !scalar.EqualWithinRel(body.Mass(), 0.8, 1e-12) {
		t.Errorf("Expected mass 0.8 got %v", body.Mass())
	}
	wantInertia := inertiaScale * 0.8 * (40*40 + 20*20) / 12
	if !scalar.EqualWithinRel(body.Inertia(), wantInertia, 1e-9) {
		t.Errorf("Expected inertia %v got %v", wantInertia, body.Inertia())
	}
	if body.Friction != 0.1 || body.FrictionStatic != 0.5 || body.FrictionAir != 0.01 || body.Slop != 0.05 {
		t.Error("Unexpected material defaults")
	}
	if body.ID() != 0 {
		t.Error("Detached bodies have no id")
	}
	if body.Parts()[0] != body || body.Parent() != body {
		t.Error("A simple body is its own only part")
	}
	checkReciprocal(t, body)
}

func TestNewBody_Placement(t *testing.T) {
	body := newBox(t, 40, 20, WithPosition(Vector{100, 50}), WithAngle(math.Pi/2))
	if c := Centre(body.Vertices()); !near(c, Vector{100, 50}, 1e-9) {
		t.Errorf("Expected vertices centred on position, got %v", c)
	}
	b := body.Bounds()
	if !scalar.EqualWithinAbs(b.Width(), 20, 1e-9) || !scalar.EqualWithinAbs(b.Height(), 40, 1e-9) {
		t.Errorf("Expected rotated bounds, got %v", b)
	}
	if body.Velocity() != (Vector{}) || body.AngularVelocity() != 0 {
		t.Error("Placement must not create velocity")
	}
}

func TestNewBody_Winding(t *testing.T) {
	reversed := Rectangle(10, 10)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	body, err := NewBody(reversed)
	if err != nil {
		t.Fatal(err)
	}
	if Area(body.Vertices(), true) <= 0 {
		t.Error("Expected the ring to be rewound")
	}

	l := []Vector{{0, 0}, {20, 0}, {20, 10}, {10, 10}, {10, 20}, {0, 20}}
	body, err = NewBody(l)
	if err != nil {
		t.Fatal(err)
	}
	if IsConvex(body.Vertices()) != Convex {
		t.Error("Expected concave input to be replaced by its hull")
	}
}

func TestBody_SetVertices(t *testing.T) {
	body := newBox(t, 10, 10, WithPosition(Vector{30, 40}))
	ring := Rectangle(20, 20)
	TranslateVertices(ring, Vector{500, 500})
	body.SetVertices(ring)

	if c := Centre(body.Vertices()); !near(c, body.Position(), 1e-9) {
		t.Errorf("Expected centroid %v to equal position %v", c, body.Position())
	}
	if !scalar.EqualWithinRel(body.Mass(), 0.4, 1e-12) {
		t.Errorf("Expected density derived mass 0.4, got %v", body.Mass())
	}
	checkReciprocal(t, body)

	body.SetMass(2)
	body.SetVertices(Rectangle(40, 40))
	if body.Mass() != 2 {
		t.Errorf("Expected explicit mass to survive, got %v", body.Mass())
	}
	if !scalar.EqualWithinRel(body.Density(), 2.0/1600, 1e-12) {
		t.Errorf("Expected density to follow the new area, got %v", body.Density())
	}
	checkReciprocal(t, body)
}

func TestBody_MassSetters(t *testing.T) {
	body := newBox(t, 20, 20)

	inertia := body.Inertia()
	body.SetMass(body.Mass() * 2)
	if !scalar.EqualWithinRel(body.Inertia(), inertia*2, 1e-12) {
		t.Errorf("Expected inertia to scale with mass, got %v", body.Inertia())
	}
	checkReciprocal(t, body)

	body.SetDensity(0.002)
	if !scalar.EqualWithinRel(body.Mass(), 0.8, 1e-12) {
		t.Errorf("Expected mass 0.8 got %v", body.Mass())
	}
	checkReciprocal(t, body)

	body.SetInertia(10)
	if body.Inertia() != 10 {
		t.Errorf("Expected inertia 10 got %v", body.Inertia())
	}
	checkReciprocal(t, body)

	body.SetMass(0)
	if body.Mass() <= 0 || math.IsInf(body.InverseMass(), 0) {
		t.Errorf("Expected zero mass to be clamped, got %v", body.Mass())
	}
	checkReciprocal(t, body)

	body.Scale(2, 2, nil)
	checkReciprocal(t, body)
}

func TestBody_SetStatic(t *testing.T) {
	body := newBox(t, 20, 20, WithVelocity(Vector{5, 0}), WithFriction(0.3))
	mass := body.Mass()

	body.SetStatic(true)
	if !math.IsInf(body.Mass(), 1) || !math.IsInf(body.Inertia(), 1) {
		t.Error("Expected infinite mass and inertia")
	}
	checkReciprocal(t, body)
	if body.Velocity() != (Vector{}) || body.PositionPrev() != body.Position() {
		t.Error("Expected static body to stop")
	}

	body.SetMass(3)
	checkReciprocal(t, body)
	body.SetVelocity(Vector{1, 1})
	if body.Velocity() != (Vector{}) {
		t.Error("Static bodies ignore velocity")
	}

	body.SetStatic(false)
	if body.Mass() != 3 {
		t.Errorf("Expected mass set while static to be restored, got %v (was %v)", body.Mass(), mass)
	}
	if body.Friction != 0.3 {
		t.Errorf("Expected friction restored, got %v", body.Friction)
	}
	checkReciprocal(t, body)
}

func TestBody_Velocity(t *testing.T) {
	body := newBox(t, 10, 10, WithPosition(Vector{10, 10}))
	body.SetVelocity(Vector{3, 4})
	if body.Speed() != 5 {
		t.Errorf("Expected speed 5 got %v", body.Speed())
	}
	if body.PositionPrev() != (Vector{7, 6}) {
		t.Errorf("Expected positionPrev 7,6 got %v", body.PositionPrev())
	}

	body.SetSpeed(10)
	if !near(body.Velocity(), Vector{6, 8}, 1e-12) {
		t.Errorf("Expected 6,8 got %v", body.Velocity())
	}

	body.SetAngularVelocity(-0.5)
	body.SetAngularSpeed(0.25)
	if body.AngularVelocity() != -0.25 {
		t.Errorf("Expected -0.25 got %v", body.AngularVelocity())
	}
}

func TestBody_Update(t *testing.T) {
	body := newBox(t, 10, 10, WithFrictionAir(0), WithVelocity(Vector{1, 0}))
	body.Update(DefaultDelta, 1, 1)
	if !near(body.Position(), Vector{1, 0}, 1e-12) {
		t.Errorf("Expected position 1,0 got %v", body.Position())
	}
	if c := Centre(body.Vertices()); !near(c, body.Position(), 1e-9) {
		t.Errorf("Expected vertices to follow, got %v", c)
	}

	body = newBox(t, 10, 10, WithFrictionAir(0))
	body.ApplyForce(body.Position(), Vector{0, body.Mass()})
	body.Update(10, 1, 1)
	if !near(body.Position(), Vector{0, 100}, 1e-9) {
		t.Errorf("Expected force to move the body 100, got %v", body.Position())
	}
}

func TestBody_ApplyForce(t *testing.T) {
	body := newBox(t, 10, 10)
	body.ApplyForce(Vector{10, 0}, Vector{0, 1})
	if body.Force() != (Vector{0, 1}) {
		t.Errorf("Expected force 0,1 got %v", body.Force())
	}
	if body.Torque() != 10 {
		t.Errorf("Expected torque 10 got %v", body.Torque())
	}
}

func TestBody_Rotate(t *testing.T) {
	body := newBox(t, 10, 10, WithPosition(Vector{10, 0}))
	origin := Vector{}
	body.Rotate(math.Pi/2, &origin, false)
	if !near(body.Position(), Vector{0, 10}, 1e-9) {
		t.Errorf("Expected 0,10 got %v", body.Position())
	}
	if !scalar.EqualWithinAbs(body.Angle(), math.Pi/2, 1e-12) {
		t.Errorf("Expected quarter turn, got %v", body.Angle())
	}
}

func TestBody_Scale(t *testing.T) {
	body := newBox(t, 10, 10, WithPosition(Vector{5, 5}))
	body.Scale(2, 3, nil)
	if !scalar.EqualWithinAbs(body.Area(), 600, 1e-9) {
		t.Errorf("Expected area 600 got %v", body.Area())
	}
	if !near(body.Position(), Vector{5, 5}, 1e-12) {
		t.Errorf("Scaling about the centre must not move the body, got %v", body.Position())
	}
	if !scalar.EqualWithinRel(body.Mass(), 0.6, 1e-12) {
		t.Errorf("Expected mass 0.6 got %v", body.Mass())
	}
}

func TestBody_SetCentre(t *testing.T) {
	body := newBox(t, 10, 10)
	body.SetCentre(Vector{1, 2}, true)
	if body.Position() != (Vector{1, 2}) || body.Velocity() != (Vector{}) {
		t.Errorf("Unexpected state after SetCentre: %v", body.Position())
	}
	if c := Centre(body.Vertices()); !near(c, Vector{}, 1e-12) {
		t.Error("SetCentre must not move vertices")
	}
}

func TestNewCompoundBody(t *testing.T) {
	left := newBox(t, 10, 10, WithPosition(Vector{-10, 0}))
	right := newBox(t, 10, 10, WithPosition(Vector{10, 0}))
	partMass := left.Mass()
	partInertia := left.Inertia()

	body, err := NewCompoundBody([]*Body{left, right}, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(body.Parts()) != 3 || body.Parts()[0] != body {
		t.Fatalf("Expected the body followed by two parts, got %d", len(body.Parts()))
	}
	if left.Parent() != body || right.Parent() != body {
		t.Error("Expected parts to point at the compound")
	}
	if !near(body.Position(), Vector{}, 1e-12) {
		t.Errorf("Expected centre of mass at origin, got %v", body.Position())
	}
	if !scalar.EqualWithinRel(body.Mass(), 2*partMass, 1e-12) {
		t.Errorf("Expected mass %v got %v", 2*partMass, body.Mass())
	}
	want := 2*partInertia + 2*partMass*100
	if !scalar.EqualWithinRel(body.Inertia(), want, 1e-12) {
		t.Errorf("Expected inertia %v got %v", want, body.Inertia())
	}
	if !scalar.EqualWithinAbs(body.Area(), 200, 1e-9) {
		t.Errorf("Expected area 200 got %v", body.Area())
	}
	checkReciprocal(t, body)

	body.SetPosition(Vector{0, 50}, false)
	if !near(left.Position(), Vector{-10, 50}, 1e-12) {
		t.Errorf("Expected part to move with the body, got %v", left.Position())
	}

	if _, err := NewCompoundBody(nil, true); !errors.Is(err, ErrEmptyVertices) {
		t.Errorf("Expected ErrEmptyVertices, got %v", err)
	}
}
