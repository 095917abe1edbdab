package rigid

import "math"

// Vertex ring helpers for common convex shapes. Every ring is centred on the origin and
// wound the same way as Hull output, so it can be passed straight to NewBody.

// Rectangle returns a width x height box.
func Rectangle(width, height float64) []Vector {
	hw, hh := width/2, height/2
	return []Vector{
		{-hw, -hh},
		{hw, -hh},
		{hw, hh},
		{-hw, hh},
	}
}

// Trapezoid narrows the top edge by slope (0 is a rectangle, 1 is a triangle).
func Trapezoid(width, height, slope float64) []Vector {
	slope *= 0.5
	roof := (1 - slope*2) * width
	x1 := width * slope
	x2 := x1 + roof
	x3 := x2 + x1
	verts := []Vector{{0, 0}, {x1, -height}, {x2, -height}, {x3, 0}}
	if roof <= 0 {
		verts = []Vector{{0, 0}, {x2, -height}, {x3, 0}}
	}
	TranslateVertices(verts, Centre(verts).Neg())
	return verts
}

// RegularPolygon returns a ring with the given number of sides inscribed in radius.
// Fewer than three sides yields a circle approximation.
func RegularPolygon(sides int, radius float64) []Vector {
	if sides < 3 {
		return Circle(radius, 0)
	}
	theta := 2 * math.Pi / float64(sides)
	offset := theta * 0.5
	verts := make([]Vector, sides)
	for i := range verts {
		angle := offset + float64(i)*theta
		verts[i] = Vector{math.Cos(angle) * radius, math.Sin(angle) * radius}
	}
	return verts
}

// Circle approximates a circle with a regular polygon. The side count grows with the
// radius and is capped by maxSides (25 when zero).
func Circle(radius float64, maxSides int) []Vector {
	if maxSides <= 0 {
		maxSides = 25
	}
	sides := int(math.Ceil(math.Max(10, math.Min(float64(maxSides), radius))))
	if sides%2 == 1 {
		sides++
	}
	return RegularPolygon(sides, radius)
}
