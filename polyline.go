package rigid

import "math"

// sharpness is the cosine of the angle at b. Straight runs give -1.
func sharpness(a, b, c Vector) float64 {
	return a.Sub(b).Normalize().Dot(c.Sub(b).Normalize())
}

// MergeCollinear drops interior points of an open path where the path bends by less
// than tol radians.
func MergeCollinear(path []Vector, tol float64) []Vector {
	if len(path) < 3 {
		return append([]Vector(nil), path...)
	}
	reduced := []Vector{path[0], path[1]}
	minSharp := -math.Cos(tol)
	for _, v := range path[2:] {
		n := len(reduced)
		if sharpness(reduced[n-2], reduced[n-1], v) <= minSharp {
			reduced[n-1] = v
		} else {
			reduced = append(reduced, v)
		}
	}
	return reduced
}

// SimplifyPath reduces an open path with Douglas-Peucker. No point of the original path
// lies farther than tol from the result, and the end points are kept.
func SimplifyPath(path []Vector, tol float64) []Vector {
	if len(path) < 3 {
		return append([]Vector(nil), path...)
	}
	reduced := []Vector{path[0]}
	reduced = douglasPeucker(path, reduced, 0, len(path)-1, tol)
	return append(reduced, path[len(path)-1])
}

func douglasPeucker(path, reduced []Vector, start, end int, tol float64) []Vector {
	if end-start < 2 {
		return reduced
	}

	a, b := path[start], path[end]
	var maxDist float64
	split := start
	if a.Near(b, 1e-9) {
		for i := start + 1; i < end; i++ {
			if d := path[i].Distance(a); d > maxDist {
				maxDist, split = d, i
			}
		}
	} else {
		n := b.Sub(a).Perp().Normalize()
		d := n.Dot(a)
		for i := start + 1; i < end; i++ {
			if dist := math.Abs(n.Dot(path[i]) - d); dist > maxDist {
				maxDist, split = dist, i
			}
		}
	}

	if maxDist > tol {
		reduced = douglasPeucker(path, reduced, start, split, tol)
		reduced = append(reduced, path[split])
		reduced = douglasPeucker(path, reduced, split, end, tol)
	}
	return reduced
}
