package rigid

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestNewConstraint_Errors(t *testing.T) {
	a := newBox(t, 10, 10)
	b := newBox(t, 10, 10, WithPosition(Vector{50, 0}))

	tests := []struct {
		name string
		opts []ConstraintOption
		pa   Vector
		want error
	}{
		{"stiffness", []ConstraintOption{WithStiffness(2)}, Vector{}, ErrInvalidStiffness},
		{"negative stiffness", []ConstraintOption{WithStiffness(-0.5)}, Vector{}, ErrInvalidStiffness},
		{"damping", []ConstraintOption{WithDamping(-1)}, Vector{}, ErrInvalidDamping},
		{"angular", []ConstraintOption{WithAngularStiffness(1.5)}, Vector{}, ErrInvalidStiffness},
		{"point", nil, Vector{math.NaN(), 0}, ErrInvalidVertex},
		{"length", []ConstraintOption{WithLength(-1)}, Vector{}, ErrInvalidVertex},
	}
	for _, test := range tests {
		_, err := NewConstraint(a, b, test.pa, Vector{}, test.opts...)
		if !errors.Is(err, test.want) {
			t.Errorf("%v: expected %v got %v", test.name, test.want, err)
		}
	}
}

func TestNewConstraint_Defaults(t *testing.T) {
	a := newBox(t, 10, 10)
	b := newBox(t, 10, 10, WithPosition(Vector{30, 40}))

	c, err := NewConstraint(a, b, Vector{}, Vector{})
	if err != nil {
		t.Fatal(err)
	}
	if c.Length() != 50 {
		t.Errorf("Expected length 50 got %v", c.Length())
	}
	if c.Stiffness() != 1 {
		t.Errorf("Expected stiffness 1 got %v", c.Stiffness())
	}

	pin, err := NewConstraint(a, nil, Vector{}, Vector{})
	if err != nil {
		t.Fatal(err)
	}
	if pin.Length() != 0 || pin.Stiffness() != 0.7 {
		t.Errorf("Expected a soft pin, got length %v stiffness %v", pin.Length(), pin.Stiffness())
	}
	if pin.PointBWorld() != (Vector{}) {
		t.Error("A nil body means a world point")
	}

	if err := c.SetStiffness(0); !errors.Is(err, ErrInvalidStiffness) {
		t.Errorf("Expected ErrInvalidStiffness got %v", err)
	}
	if err := c.SetDamping(2); !errors.Is(err, ErrInvalidDamping) {
		t.Errorf("Expected ErrInvalidDamping got %v", err)
	}
	if err := c.SetDamping(0.1); err != nil || c.Damping() != 0.1 {
		t.Errorf("Expected damping 0.1, got %v %v", c.Damping(), err)
	}
}

func TestConstraint_Solve(t *testing.T) {
	engine := NewEngine(WithGravity(Gravity{}))
	a := newBox(t, 10, 10)
	b := newBox(t, 10, 10, WithPosition(Vector{100, 0}), WithDensity(0.004))
	c, err := NewConstraint(a, b, Vector{}, Vector{}, WithLength(50))
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.World().Add(a, b, c); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 30; i++ {
		engine.Update(DefaultDelta)
		if !scalar.EqualWithinAbs(c.CurrentLength(), 50, 1e-6) {
			t.Fatalf("Step %d: expected length 50 got %v", i, c.CurrentLength())
		}
		momentum := a.Velocity().Mult(a.Mass()).Add(b.Velocity().Mult(b.Mass()))
		if momentum.Length() > 1e-9 {
			t.Fatalf("Step %d: expected no net momentum, got %v", i, momentum)
		}
	}
	if a.Position().X <= 0 || b.Position().X >= 100 {
		t.Errorf("Expected bodies to be pulled together, got %v %v", a.Position(), b.Position())
	}
	if a.Position().X-0 <= 100-b.Position().X {
		t.Error("Expected the lighter body to move further")
	}
}

func TestConstraint_Pendulum(t *testing.T) {
	engine := NewEngine()
	bob := newBox(t, 10, 10, WithPosition(Vector{0, 100}), WithVelocity(Vector{5, 0}))
	c, err := NewConstraint(nil, bob, Vector{}, Vector{})
	if err != nil {
		t.Fatal(err)
	}
	if err := engine.World().Add(bob, c); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		engine.Update(DefaultDelta)
		if !scalar.EqualWithinAbs(c.CurrentLength(), 100, 1e-6) {
			t.Fatalf("Step %d: expected length 100 got %v", i, c.CurrentLength())
		}
	}
	if bob.Position().X <= 0 {
		t.Errorf("Expected the bob to swing, got %v", bob.Position())
	}
}

func TestConstraint_AnchorTurnsWithBody(t *testing.T) {
	body := newBox(t, 10, 10)
	c, err := NewConstraint(body, nil, Vector{10, 0}, Vector{10, 0})
	if err != nil {
		t.Fatal(err)
	}
	body.SetAngle(math.Pi/2, false)
	solveConstraints([]*Constraint{c}, 1)
	if !near(c.PointA(), Vector{0, 10}, 1e-9) {
		t.Errorf("Expected anchor 0,10 got %v", c.PointA())
	}
}

func TestConstraint_BothEndsFixed(t *testing.T) {
	ground := newBox(t, 10, 10, WithStatic())
	c, err := NewConstraint(ground, nil, Vector{}, Vector{100, 0})
	if err != nil {
		t.Fatal(err)
	}
	solveConstraints([]*Constraint{c}, 1)
	if ground.Position() != (Vector{}) || ground.constraintImpulse != (Vector{}) {
		t.Error("A constraint between fixed ends must do nothing")
	}
}
