package rigid

import (
	"math"
	"sort"
)

// Vertex rings are ordered, closed, convex polygons. Functions in this file are pure
// and accept degenerate input (fewer than three points, zero area).

// Area is the shoelace area of the ring. Signed area is positive for rings wound
// clockwise in screen space (y down).
func Area(vertices []Vector, signed bool) float64 {
	n := len(vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	j := n - 1
	for i := 0; i < n; i++ {
		area += (vertices[j].X - vertices[i].X) * (vertices[j].Y + vertices[i].Y)
		j = i
	}
	if signed {
		return area / 2
	}
	return math.Abs(area) / 2
}

// Mean is the average of the points.
func Mean(vertices []Vector) Vector {
	if len(vertices) == 0 {
		return Vector{}
	}
	var sum Vector
	for _, v := range vertices {
		sum = sum.Add(v)
	}
	return sum.Div(float64(len(vertices)))
}

// Centre is the area-weighted centroid. Zero area rings fall back to the mean.
func Centre(vertices []Vector) Vector {
	area := Area(vertices, true)
	if area == 0 {
		return Mean(vertices)
	}
	var centre Vector
	n := len(vertices)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := vertices[i].Cross(vertices[j])
		centre = centre.Add(vertices[i].Add(vertices[j]).Mult(cross))
	}
	return centre.Div(6 * area)
}

// Inertia is the second moment of area of the ring about the origin for the given mass.
// Rings are expected to be centred on their centroid first.
func Inertia(vertices []Vector, mass float64) float64 {
	var numerator, denominator float64
	n := len(vertices)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := math.Abs(vertices[j].Cross(vertices[i]))
		numerator += cross * (vertices[j].Dot(vertices[j]) + vertices[j].Dot(vertices[i]) + vertices[i].Dot(vertices[i]))
		denominator += cross
	}
	if denominator == 0 {
		return 0
	}
	return (mass / 6) * (numerator / denominator)
}

func TranslateVertices(vertices []Vector, translation Vector) {
	for i := range vertices {
		vertices[i] = vertices[i].Add(translation)
	}
}

func RotateVertices(vertices []Vector, angle float64, point Vector) {
	if angle == 0 {
		return
	}
	c, s := math.Cos(angle), math.Sin(angle)
	for i, v := range vertices {
		dx := v.X - point.X
		dy := v.Y - point.Y
		vertices[i] = Vector{point.X + (dx*c - dy*s), point.Y + (dx*s + dy*c)}
	}
}

func ScaleVertices(vertices []Vector, scaleX, scaleY float64, point Vector) {
	if scaleX == 1 && scaleY == 1 {
		return
	}
	for i, v := range vertices {
		delta := v.Sub(point)
		vertices[i] = Vector{point.X + delta.X*scaleX, point.Y + delta.Y*scaleY}
	}
}

// Contains reports whether point lies inside (or on) the convex ring.
func Contains(vertices []Vector, point Vector) bool {
	n := len(vertices)
	if n == 0 {
		return false
	}
	vertex := vertices[n-1]
	for i := 0; i < n; i++ {
		next := vertices[i]
		if (point.X-vertex.X)*(next.Y-vertex.Y)+(point.Y-vertex.Y)*(vertex.X-next.X) > 0 {
			return false
		}
		vertex = next
	}
	return true
}

// Chamfer rounds every corner with an arc of the given radius. radius holds one value
// per vertex; the last value repeats for the remaining corners. quality < 0 picks the
// arc precision from the radius.
func Chamfer(vertices []Vector, radius []float64, quality, qualityMin, qualityMax float64) []Vector {
	if len(radius) == 0 {
		radius = []float64{8}
	}
	if qualityMin == 0 {
		qualityMin = 2
	}
	if qualityMax == 0 {
		qualityMax = 14
	}

	n := len(vertices)
	out := make([]Vector, 0, n*4)
	for i := 0; i < n; i++ {
		prev := vertices[(i-1+n)%n]
		vertex := vertices[i]
		next := vertices[(i+1)%n]
		r := radius[len(radius)-1]
		if i < len(radius) {
			r = radius[i]
		}
		if r == 0 {
			out = append(out, vertex)
			continue
		}

		prevNormal := Vector{vertex.Y - prev.Y, prev.X - vertex.X}.Normalize()
		nextNormal := Vector{next.Y - vertex.Y, vertex.X - next.X}.Normalize()
		diagonal := math.Sqrt(2 * r * r)
		radiusVector := prevNormal.Mult(r)
		midNormal := prevNormal.Add(nextNormal).Mult(0.5).Normalize()
		scaled := vertex.Sub(midNormal.Mult(diagonal))

		precision := quality
		if quality < 0 {
			precision = math.Pow(r, 0.32) * 1.75
		}
		precision = math.Floor(Clamp(precision, qualityMin, qualityMax))
		if math.Mod(precision, 2) == 1 {
			precision++
		}

		alpha := math.Acos(Clamp(prevNormal.Dot(nextNormal), -1, 1))
		theta := alpha / precision
		for j := 0.0; j <= precision; j++ {
			out = append(out, radiusVector.Rotate(theta*j).Add(scaled))
		}
	}
	return out
}

// ClockwiseSort sorts the points in place by angle about their mean.
func ClockwiseSort(vertices []Vector) []Vector {
	centre := Mean(vertices)
	sort.SliceStable(vertices, func(i, j int) bool {
		return centre.Angle(vertices[i]) < centre.Angle(vertices[j])
	})
	return vertices
}

// Convexity describes the shape of a vertex ring.
type Convexity int

const (
	Degenerate Convexity = iota
	Convex
	Concave
)

func IsConvex(vertices []Vector) Convexity {
	n := len(vertices)
	if n < 3 {
		return Degenerate
	}
	flag := 0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		k := (i + 2) % n
		z := (vertices[j].X - vertices[i].X) * (vertices[k].Y - vertices[j].Y)
		z -= (vertices[j].Y - vertices[i].Y) * (vertices[k].X - vertices[j].X)
		if z < 0 {
			flag |= 1
		} else if z > 0 {
			flag |= 2
		}
		if flag == 3 {
			return Concave
		}
	}
	if flag == 0 {
		return Degenerate
	}
	return Convex
}

// Hull returns the convex hull of the points using the monotone chain algorithm.
func Hull(vertices []Vector) []Vector {
	if len(vertices) < 3 {
		return append([]Vector(nil), vertices...)
	}
	sorted := append([]Vector(nil), vertices...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	var lower, upper []Vector
	for _, v := range sorted {
		for len(lower) >= 2 && Cross3(lower[len(lower)-2], lower[len(lower)-1], v) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, v)
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		v := sorted[i]
		for len(upper) >= 2 && Cross3(upper[len(upper)-2], upper[len(upper)-1], v) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, v)
	}

	upper = upper[:len(upper)-1]
	lower = lower[:len(lower)-1]
	return append(upper, lower...)
}

// RemoveCollinear drops vertices that are collinear with their neighbours within tol
// (as a sine of the turn angle). Rings that would fall below three points are returned
// unchanged.
func RemoveCollinear(vertices []Vector, tol float64) []Vector {
	n := len(vertices)
	if n <= 3 {
		return vertices
	}
	out := make([]Vector, 0, n)
	for i := 0; i < n; i++ {
		prev := vertices[(i-1+n)%n]
		v := vertices[i]
		next := vertices[(i+1)%n]
		a := v.Sub(prev)
		b := next.Sub(v)
		la, lb := a.Length(), b.Length()
		if la == 0 {
			continue
		}
		if lb != 0 && math.Abs(a.Cross(b))/(la*lb) <= tol && a.Dot(b) > 0 {
			continue
		}
		out = append(out, v)
	}
	if len(out) < 3 {
		return vertices
	}
	return out
}
