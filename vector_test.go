package rigid

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-9

func near(a, b Vector, eps float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, eps) && scalar.EqualWithinAbs(a.Y, b.Y, eps)
}

func TestVector_Normalize(t *testing.T) {
	v := Vector{}
	u := v.Normalize()
	if u.X != 0.0 || u.Y != 0.0 {
		t.Errorf("Expected zero vector, got %v", u)
	}

	u = Vector{3, 4}.Normalize()
	if !scalar.EqualWithinAbs(u.Length(), 1, tol) {
		t.Errorf("Expected unit length, got %v", u.Length())
	}
}

func TestVector_Rotate(t *testing.T) {
	v := Vector{1, 0}.Rotate(math.Pi / 2)
	if !near(v, Vector{0, 1}, tol) {
		t.Errorf("Expected 0,1 got %v", v)
	}

	v = Vector{2, 0}.RotateAbout(math.Pi, Vector{1, 0})
	if !near(v, Vector{0, 0}, tol) {
		t.Errorf("Expected origin got %v", v)
	}
}

func TestVector_CrossAndPerp(t *testing.T) {
	x := Vector{1, 0}
	y := Vector{0, 1}
	if x.Cross(y) != 1 {
		t.Errorf("Expected 1 got %v", x.Cross(y))
	}
	if x.Perp() != y {
		t.Errorf("Expected %v got %v", y, x.Perp())
	}
	if x.Perp().ReversePerp() != x {
		t.Errorf("ReversePerp should undo Perp")
	}
	if Cross3(Vector{}, x, y) != 1 {
		t.Errorf("Expected counter clockwise triangle")
	}
}

func TestVector_ToAngle(t *testing.T) {
	for _, a := range []float64{0, 0.5, 1, -2, 3} {
		got := ForAngle(a).ToAngle()
		if !scalar.EqualWithinAbs(got, a, tol) {
			t.Errorf("Expected %v got %v", a, got)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 1) != 1 || Clamp(-5, 0, 1) != 0 || Clamp(0.5, 0, 1) != 0.5 {
		t.Error("Clamp out of range")
	}
}
