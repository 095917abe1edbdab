package rigid

import (
	"math"
	"testing"
)

func TestTransform_RotateAbout(t *testing.T) {
	tr := NewTransformRotateAbout(math.Pi/2, Vector{10, 10})
	if p := tr.Point(Vector{20, 10}); !near(p, Vector{10, 20}, 1e-9) {
		t.Errorf("Expected 10,20 got %v", p)
	}
	if v := tr.Vect(Vector{1, 0}); !near(v, Vector{0, 1}, 1e-9) {
		t.Errorf("Expected 0,1 got %v", v)
	}
}

func TestTransform_ScaleAbout(t *testing.T) {
	tr := NewTransformScaleAbout(2, 3, Vector{1, 1})
	if p := tr.Point(Vector{2, 2}); !near(p, Vector{3, 4}, 1e-9) {
		t.Errorf("Expected 3,4 got %v", p)
	}
}

func TestTransform_FitInverse(t *testing.T) {
	from := Bounds{Min: Vector{-100, 50}, Max: Vector{300, 250}}
	to := Bounds{Max: Vector{80, 40}}
	tr := NewTransformFit(from, to)
	if p := tr.Point(from.Min); !near(p, to.Min, 1e-9) {
		t.Errorf("Expected %v got %v", to.Min, p)
	}
	if p := tr.Point(from.Max); !near(p, to.Max, 1e-9) {
		t.Errorf("Expected %v got %v", to.Max, p)
	}
	back := tr.Inverse().Point(tr.Point(Vector{17, 99}))
	if !near(back, Vector{17, 99}, 1e-9) {
		t.Errorf("Expected a round trip, got %v", back)
	}

	flat := NewTransformFit(Bounds{Min: Vector{5, 5}, Max: Vector{5, 5}}, to)
	if p := flat.Point(Vector{6, 7}); p != (Vector{1, 2}) {
		t.Errorf("Expected an empty view to translate only, got %v", p)
	}
}

func TestTransform_Identity(t *testing.T) {
	tr := NewTransformIdentity().Mult(NewTransformTranslate(Vector{1, 2}))
	if p := tr.Point(Vector{3, 4}); p != (Vector{4, 6}) {
		t.Errorf("Expected 4,6 got %v", p)
	}
}
