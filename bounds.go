package rigid

import "math"

// Bounds is an axis aligned bounding box.
type Bounds struct {
	Min, Max Vector
}

func NewBounds(vertices []Vector) Bounds {
	var b Bounds
	b.Update(vertices, Vector{})
	return b
}

func NewBoundsForExtents(c Vector, hw, hh float64) Bounds {
	return Bounds{
		Min: Vector{c.X - hw, c.Y - hh},
		Max: Vector{c.X + hw, c.Y + hh},
	}
}

// Update recomputes the box from vertices and then extends it along velocity, so a
// body about to move is already covered by the cells it is moving into.
func (b *Bounds) Update(vertices []Vector, velocity Vector) {
	b.Min = Vector{math.Inf(1), math.Inf(1)}
	b.Max = Vector{math.Inf(-1), math.Inf(-1)}

	for _, v := range vertices {
		b.Min.X = math.Min(b.Min.X, v.X)
		b.Max.X = math.Max(b.Max.X, v.X)
		b.Min.Y = math.Min(b.Min.Y, v.Y)
		b.Max.Y = math.Max(b.Max.Y, v.Y)
	}

	if velocity.X > 0 {
		b.Max.X += velocity.X
	} else {
		b.Min.X += velocity.X
	}

	if velocity.Y > 0 {
		b.Max.Y += velocity.Y
	} else {
		b.Min.Y += velocity.Y
	}
}

func (a Bounds) Overlaps(b Bounds) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X && a.Max.Y >= b.Min.Y && a.Min.Y <= b.Max.Y
}

func (b Bounds) Contains(point Vector) bool {
	return point.X >= b.Min.X && point.X <= b.Max.X && point.Y >= b.Min.Y && point.Y <= b.Max.Y
}

func (b Bounds) ContainsBounds(other Bounds) bool {
	return b.Min.X <= other.Min.X && b.Max.X >= other.Max.X && b.Min.Y <= other.Min.Y && b.Max.Y >= other.Max.Y
}

func (b Bounds) Translate(v Vector) Bounds {
	return Bounds{b.Min.Add(v), b.Max.Add(v)}
}

// Shift moves the box so that its minimum corner is at position.
func (b Bounds) Shift(position Vector) Bounds {
	return b.Translate(position.Sub(b.Min))
}

func (a Bounds) Merge(b Bounds) Bounds {
	return Bounds{
		Vector{math.Min(a.Min.X, b.Min.X), math.Min(a.Min.Y, b.Min.Y)},
		Vector{math.Max(a.Max.X, b.Max.X), math.Max(a.Max.Y, b.Max.Y)},
	}
}

func (b Bounds) Width() float64 {
	return b.Max.X - b.Min.X
}

func (b Bounds) Height() float64 {
	return b.Max.Y - b.Min.Y
}

func (b Bounds) Centre() Vector {
	return b.Min.Lerp(b.Max, 0.5)
}

// Outside reports whether the two boxes are fully disjoint.
func (a Bounds) Outside(b Bounds) bool {
	return a.Max.X < b.Min.X || a.Min.X > b.Max.X || a.Max.Y < b.Min.Y || a.Min.Y > b.Max.Y
}
