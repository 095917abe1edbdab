package rigid

import "math"

type massProps struct {
	mass, invMass       float64
	inertia, invInertia float64
	density             float64
}

// bodyOriginal holds the properties a static body gives up, restored when it is made
// dynamic again.
type bodyOriginal struct {
	massProps
	restitution float64
	friction    float64
}

func (m *massProps) setMass(mass, area float64) {
	if !(mass > minMass) {
		mass = minMass
	}
	if m.mass > 0 && !math.IsInf(m.mass, 0) && m.inertia > 0 && !math.IsInf(m.inertia, 0) {
		m.setInertia(m.inertia / m.mass * mass)
	}
	m.mass = mass
	m.invMass = 1 / mass
	if area > 0 {
		m.density = mass / area
	}
}

func (m *massProps) setInertia(inertia float64) {
	if !(inertia > minInertia) {
		inertia = minInertia
	}
	m.inertia = inertia
	m.invInertia = 1 / inertia
}

// live returns the properties setters should write to. A static body keeps its real
// values in the original cache and exposes infinite mass.
func (body *Body) live() *massProps {
	if body.isStatic && body.original != nil {
		return &body.original.massProps
	}
	return &body.massProps
}

func (body *Body) Mass() float64 {
	return body.mass
}

func (body *Body) InverseMass() float64 {
	return body.invMass
}

func (body *Body) Inertia() float64 {
	return body.inertia
}

func (body *Body) InverseInertia() float64 {
	return body.invInertia
}

func (body *Body) Density() float64 {
	return body.density
}

// SetMass sets the mass, rescales inertia by the same ratio and updates density. Non
// positive masses are clamped to a tiny positive value.
func (body *Body) SetMass(mass float64) {
	body.live().setMass(mass, body.area)
	body.massFromDensity = false
}

func (body *Body) SetInertia(inertia float64) {
	body.live().setInertia(inertia)
	body.explicitInertia = true
}

// SetDensity sets the mass from density times area.
func (body *Body) SetDensity(density float64) {
	m := body.live()
	m.setMass(density*body.area, body.area)
	m.density = density
	body.massFromDensity = true
}

// SetVertices replaces the ring. The ring is re-centred on its centroid and placed at
// the current body position; area, axes and bounds are always recomputed, mass and
// inertia only when they were derived from density.
func (body *Body) SetVertices(vertices []Vector) {
	if len(vertices) == 0 {
		return
	}
	ring := append([]Vector(nil), vertices...)
	body.vertices = ring
	body.axes = Axes(ring)
	body.area = Area(ring, false)

	m := body.live()
	if body.massFromDensity {
		m.setMass(m.density*body.area, body.area)
	} else if body.area > 0 {
		m.density = m.mass / body.area
	}

	centre := Centre(ring)
	TranslateVertices(ring, centre.Neg())
	if !body.explicitInertia {
		m.setInertia(inertiaScale * Inertia(ring, m.mass))
	}
	TranslateVertices(ring, body.position)
	body.bounds.Update(ring, body.velocity)
	body.updateCompoundBounds()
}

// SetParts makes body a compound of parts. Parts are re-parented to body and the
// compound mass, area, centre and inertia are summed from them; inertia includes each
// part's offset from the compound centre.
func (body *Body) SetParts(parts []*Body, autoHull bool) {
	body.parts = []*Body{body}
	body.parent = body
	for _, part := range parts {
		if part == body || part == nil {
			continue
		}
		part.parent = body
		part.parts = []*Body{part}
		body.parts = append(body.parts, part)
	}
	if len(body.parts) == 1 {
		return
	}

	if autoHull {
		var all []Vector
		for _, part := range body.parts[1:] {
			all = append(all, part.vertices...)
		}
		hull := Hull(all)
		hullCentre := Centre(hull)
		body.SetVertices(hull)
		TranslateVertices(body.vertices, hullCentre.Sub(body.position))
	}

	mass, area, inertia, centre := body.compoundTotals()

	body.area = area
	body.position = centre
	body.positionPrev = centre
	m := body.live()
	m.setMass(mass, area)
	m.setInertia(inertia)
	body.massFromDensity = false
	body.explicitInertia = true
	body.bounds.Update(body.vertices, body.velocity)
	body.updateCompoundBounds()
}

// SetStatic pins the body in place. Static bodies have infinite mass and inertia and
// zero inverse mass; their previous values are restored when made dynamic again.
func (body *Body) SetStatic(isStatic bool) {
	for _, part := range body.parts {
		part.setStatic(isStatic)
	}
}

func (part *Body) setStatic(isStatic bool) {
	if isStatic == part.isStatic {
		return
	}
	if isStatic {
		part.original = &bodyOriginal{
			massProps:   part.massProps,
			restitution: part.Restitution,
			friction:    part.Friction,
		}
		part.Restitution = 0
		part.Friction = 1
		part.mass = math.Inf(1)
		part.inertia = math.Inf(1)
		part.density = math.Inf(1)
		part.invMass = 0
		part.invInertia = 0

		part.positionPrev = part.position
		part.anglePrev = part.angle
		part.velocity = Vector{}
		part.angularVelocity = 0
		part.speed = 0
		part.angularSpeed = 0
		part.motion = 0
		part.isSleeping = false
		part.sleepCounter = 0
		part.isStatic = true
		return
	}

	part.isStatic = false
	if part.original != nil {
		part.massProps = part.original.massProps
		part.Restitution = part.original.restitution
		part.Friction = part.original.friction
		part.original = nil
	}
}

// Scale stretches the body about point (the body position when nil). Mass and inertia
// are recomputed from the new shape at the current density.
func (body *Body) Scale(scaleX, scaleY float64, point *Vector) {
	origin := body.position
	if point != nil {
		origin = *point
	}
	density := body.live().density
	velocity := body.position.Sub(body.positionPrev)

	for i, part := range body.parts {
		centre := Vector{
			origin.X + (part.position.X-origin.X)*scaleX,
			origin.Y + (part.position.Y-origin.Y)*scaleY,
		}
		ScaleVertices(part.vertices, scaleX, scaleY, origin)
		part.axes = Axes(part.vertices)
		part.area = Area(part.vertices, false)

		pm := part.live()
		pm.setMass(density*part.area, part.area)
		pm.density = density

		TranslateVertices(part.vertices, centre.Neg())
		pm.setInertia(inertiaScale * Inertia(part.vertices, pm.mass))
		TranslateVertices(part.vertices, centre)

		part.position = centre
		if i > 0 {
			part.positionPrev = centre
		}
		part.bounds.Update(part.vertices, body.velocity)
	}
	body.positionPrev = body.position.Sub(velocity)

	if len(body.parts) > 1 {
		mass, area, inertia, _ := body.compoundTotals()
		body.area = area
		m := body.live()
		m.setMass(mass, area)
		m.setInertia(inertia)
	}
	body.updateCompoundBounds()
	body.disturb()
}

// SetCentre moves the reference point of the body without moving its vertices.
func (body *Body) SetCentre(centre Vector, relative bool) {
	if relative {
		body.positionPrev = body.positionPrev.Add(centre)
		body.position = body.position.Add(centre)
		return
	}
	body.positionPrev = centre.Sub(body.position.Sub(body.positionPrev))
	body.position = centre
}

// compoundTotals sums the parts of a compound body. Static parts count with unit mass.
func (body *Body) compoundTotals() (mass, area, inertia float64, centre Vector) {
	partMass := func(part *Body) float64 {
		m := part.live().mass
		if math.IsInf(m, 0) {
			return 1
		}
		return m
	}
	for _, part := range body.parts[1:] {
		m := partMass(part)
		mass += m
		area += part.area
		centre = centre.Add(part.position.Mult(m))
	}
	centre = centre.Div(mass)
	for _, part := range body.parts[1:] {
		inertia += part.live().inertia + partMass(part)*part.position.DistanceSq(centre)
	}
	return mass, area, inertia, centre
}
