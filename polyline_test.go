package rigid

import (
	"math"
	"testing"
)

func TestSimplifyPath(t *testing.T) {
	var path []Vector
	for i := 0; i <= 100; i++ {
		x := float64(i)
		path = append(path, Vector{x, 10 * math.Sin(x/100*math.Pi)})
	}
	reduced := SimplifyPath(path, 0.5)
	if len(reduced) >= len(path) || len(reduced) < 3 {
		t.Fatalf("Expected a shorter path, got %d points", len(reduced))
	}
	if reduced[0] != path[0] || reduced[len(reduced)-1] != path[len(path)-1] {
		t.Error("Expected the end points to be kept")
	}
	for _, p := range path {
		best := math.Inf(1)
		for i := 0; i < len(reduced)-1; i++ {
			best = math.Min(best, segmentDistance(p, reduced[i], reduced[i+1]))
		}
		if best > 0.5+1e-9 {
			t.Errorf("Point %v is %v from the simplified path", p, best)
		}
	}
}

func TestSimplifyPath_Straight(t *testing.T) {
	path := []Vector{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	reduced := SimplifyPath(path, 0.1)
	if len(reduced) != 2 {
		t.Errorf("Expected a straight path to collapse to 2 points, got %v", reduced)
	}
}

func TestMergeCollinear(t *testing.T) {
	path := []Vector{{0, 0}, {1, 0}, {2, 0.001}, {3, 0}, {3, 5}}
	reduced := MergeCollinear(path, 0.01)
	want := []Vector{{0, 0}, {3, 0}, {3, 5}}
	if len(reduced) != len(want) {
		t.Fatalf("Expected %v got %v", want, reduced)
	}
	for i := range want {
		if reduced[i] != want[i] {
			t.Errorf("Expected %v got %v", want, reduced)
		}
	}
}

func segmentDistance(p, a, b Vector) float64 {
	ab := b.Sub(a)
	t := Clamp(p.Sub(a).Dot(ab)/ab.LengthSq(), 0, 1)
	return p.Distance(a.Add(ab.Mult(t)))
}
