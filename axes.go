package rigid

import "math"

const verticalEpsilon = 1e-9

// Axes returns the unique outward edge normals of the ring. Parallel edges share an
// axis, keyed by the edge gradient rounded to three decimal places. Near vertical edges
// all share the infinite gradient.
func Axes(vertices []Vector) []Vector {
	n := len(vertices)
	axes := make([]Vector, 0, n)
	seen := make(map[float64]struct{}, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		normal := Vector{vertices[j].Y - vertices[i].Y, vertices[i].X - vertices[j].X}.Normalize()
		gradient := math.Inf(1)
		if math.Abs(normal.Y) > verticalEpsilon {
			gradient = math.Round(normal.X/normal.Y*1000) / 1000
		}
		if _, ok := seen[gradient]; ok {
			continue
		}
		seen[gradient] = struct{}{}
		axes = append(axes, normal)
	}
	return axes
}

func rotateAxes(axes []Vector, angle float64) {
	if angle == 0 {
		return
	}
	c, s := math.Cos(angle), math.Sin(angle)
	for i, a := range axes {
		axes[i] = Vector{a.X*c - a.Y*s, a.X*s + a.Y*c}
	}
}
