package rigid

import "math"

// reuse the previous separating axis while the pair moves less than this
const axisReuseMotion = 0.2

// Support is a contact point, identified by the part and vertex it came from.
type Support struct {
	Point Vector
	Body  *Body
	Index int
}

// Collision is the manifold of two overlapping parts. Normal points from B towards A
// and Penetration is Normal scaled by Depth.
type Collision struct {
	Collided bool

	// BodyA and BodyB are the colliding parts, ordered by id. ParentA and ParentB are
	// the bodies that own them.
	BodyA, BodyB     *Body
	ParentA, ParentB *Body

	Depth       float64
	Normal      Vector
	Tangent     Vector
	Penetration Vector
	Supports    []Support

	AxisBody   *Body
	AxisNumber int
	Reused     bool

	// combined material of the two parents
	Friction       float64
	FrictionStatic float64
	Restitution    float64
	Slop           float64
}

type overlap struct {
	overlap    float64
	axis       Vector
	axisNumber int
}

// Collides runs the separating axis test between two convex parts. prev is the last
// collision of the same pair, if any; its axis is tried alone while the bodies are
// nearly still. The result always has BodyA and BodyB set; Collided reports overlap.
func Collides(bodyA, bodyB *Body, prev *Collision) *Collision {
	collision := &Collision{BodyA: bodyA, BodyB: bodyB}
	if !bodyA.bounds.Overlaps(bodyB.bounds) {
		return collision
	}

	canReuse := false
	if prev != nil && prev.Collided && prev.AxisBody != nil {
		parentA, parentB := bodyA.parent, bodyB.parent
		motion := parentA.speed*parentA.speed + parentA.angularSpeed*parentA.angularSpeed +
			parentB.speed*parentB.speed + parentB.angularSpeed*parentB.angularSpeed
		canReuse = motion < axisReuseMotion && prev.AxisNumber < len(prev.AxisBody.axes)
	}

	var minOverlap overlap
	if canReuse {
		axisBodyA := prev.AxisBody
		axisBodyB := bodyA
		if axisBodyA == bodyA {
			axisBodyB = bodyB
		}
		minOverlap = overlapAxes(axisBodyA.vertices, axisBodyB.vertices, axisBodyA.axes[prev.AxisNumber:prev.AxisNumber+1])
		minOverlap.axisNumber = prev.AxisNumber
		collision.AxisBody = axisBodyA
		collision.AxisNumber = prev.AxisNumber
		collision.Reused = true
		if minOverlap.overlap <= 0 {
			return collision
		}
	} else {
		overlapAB := overlapAxes(bodyA.vertices, bodyB.vertices, bodyA.axes)
		if overlapAB.overlap <= 0 {
			return collision
		}
		overlapBA := overlapAxes(bodyB.vertices, bodyA.vertices, bodyB.axes)
		if overlapBA.overlap <= 0 {
			return collision
		}
		if overlapAB.overlap < overlapBA.overlap {
			minOverlap = overlapAB
			collision.AxisBody = bodyA
		} else {
			minOverlap = overlapBA
			collision.AxisBody = bodyB
		}
		collision.AxisNumber = minOverlap.axisNumber
	}

	if bodyB.id < bodyA.id {
		bodyA, bodyB = bodyB, bodyA
	}
	collision.BodyA, collision.BodyB = bodyA, bodyB
	collision.ParentA, collision.ParentB = bodyA.parent, bodyB.parent
	collision.Collided = true
	collision.Depth = minOverlap.overlap

	if minOverlap.axis.Dot(bodyB.position.Sub(bodyA.position)) < 0 {
		collision.Normal = minOverlap.axis
	} else {
		collision.Normal = minOverlap.axis.Neg()
	}
	collision.Tangent = collision.Normal.Perp()
	collision.Penetration = collision.Normal.Mult(collision.Depth)

	collision.Supports = findContacts(bodyA, bodyB, collision.Normal)
	combineMaterials(collision)
	return collision
}

func combineMaterials(c *Collision) {
	a, b := c.ParentA, c.ParentB
	c.Friction = math.Min(a.Friction, b.Friction)
	c.FrictionStatic = math.Sqrt(a.FrictionStatic * b.FrictionStatic)
	c.Restitution = math.Max(a.Restitution, b.Restitution)
	c.Slop = math.Max(a.Slop, b.Slop)
}

func overlapAxes(verticesA, verticesB, axes []Vector) overlap {
	result := overlap{overlap: math.MaxFloat64}
	for i, axis := range axes {
		minA, maxA := projectToAxis(verticesA, axis)
		minB, maxB := projectToAxis(verticesB, axis)
		o := math.Min(maxA-minB, maxB-minA)
		if o <= 0 {
			result.overlap = o
			return result
		}
		if o < result.overlap {
			result.overlap = o
			result.axis = axis
			result.axisNumber = i
		}
	}
	return result
}

func projectToAxis(vertices []Vector, axis Vector) (min, max float64) {
	min = vertices[0].Dot(axis)
	max = min
	for _, v := range vertices[1:] {
		d := v.Dot(axis)
		if d > max {
			max = d
		} else if d < min {
			min = d
		}
	}
	return min, max
}

// findContacts picks one or two support points. B's vertices inside A are preferred,
// then A's inside B, then B's deepest vertex.
func findContacts(bodyA, bodyB *Body, normal Vector) []Support {
	supports := make([]Support, 0, 2)
	verticesB := findSupports(bodyA, bodyB, normal)
	for _, s := range verticesB {
		if Contains(bodyA.vertices, s.Point) {
			supports = append(supports, s)
		}
	}
	if len(supports) < 2 {
		verticesA := findSupports(bodyB, bodyA, normal.Neg())
		for _, s := range verticesA {
			if len(supports) < 2 && Contains(bodyB.vertices, s.Point) {
				supports = append(supports, s)
			}
		}
	}
	if len(supports) < 1 {
		supports = append(supports, verticesB[0])
	}
	return supports
}

// findSupports returns the vertex of bodyB furthest along normal relative to bodyA,
// then the nearer of its two neighbours.
func findSupports(bodyA, bodyB *Body, normal Vector) [2]Support {
	vertices := bodyB.vertices
	n := len(vertices)
	position := bodyA.position

	nearest := math.MaxFloat64
	index := 0
	for i, v := range vertices {
		distance := -normal.Dot(v.Sub(position))
		if distance < nearest {
			nearest = distance
			index = i
		}
	}

	prev := (index - 1 + n) % n
	next := (index + 1) % n
	second := prev
	if -normal.Dot(vertices[next].Sub(position)) < -normal.Dot(vertices[prev].Sub(position)) {
		second = next
	}
	return [2]Support{
		{Point: vertices[index], Body: bodyB, Index: index},
		{Point: vertices[second], Body: bodyB, Index: second},
	}
}
