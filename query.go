package rigid

const defaultRayWidth = 1e-6

// QueryCollides returns the collisions between body and each of bodies. Compound bodies
// are tested part against part.
func QueryCollides(body *Body, bodies []*Body) []*Collision {
	var collisions []*Collision
	for _, other := range bodies {
		if other == body || !body.bounds.Overlaps(other.bounds) {
			continue
		}
		for i := firstPart(other); i < len(other.parts); i++ {
			part := other.parts[i]
			if !part.bounds.Overlaps(body.bounds) {
				continue
			}
			collision := Collides(part, body, nil)
			if collision.Collided {
				collisions = append(collisions, collision)
				break
			}
		}
	}
	return collisions
}

// QueryRay casts a ray of the given width from start to end and returns a collision for
// every body it touches. In each result BodyA is the ray and BodyB the part hit.
func QueryRay(bodies []*Body, start, end Vector, width float64) []*Collision {
	if width <= 0 {
		width = defaultRayWidth
	}
	ray, err := NewBody(Rectangle(start.Distance(end), width),
		WithPosition(start.Lerp(end, 0.5)),
		WithAngle(end.Sub(start).ToAngle()),
		WithLabel("Ray"))
	if err != nil {
		return nil
	}

	collisions := QueryCollides(ray, bodies)
	for _, c := range collisions {
		if c.BodyA != ray {
			c.BodyA, c.BodyB = c.BodyB, c.BodyA
			c.ParentA, c.ParentB = c.ParentB, c.ParentA
			c.Normal = c.Normal.Neg()
			c.Tangent = c.Normal.Perp()
			c.Penetration = c.Penetration.Neg()
		}
	}
	return collisions
}

// QueryRegion returns the bodies whose bounds overlap region, or with outside those
// whose bounds do not.
func QueryRegion(bodies []*Body, region Bounds, outside bool) []*Body {
	var result []*Body
	for _, body := range bodies {
		overlaps := body.bounds.Overlaps(region)
		if overlaps != outside {
			result = append(result, body)
		}
	}
	return result
}

// QueryPoint returns the bodies containing point.
func QueryPoint(bodies []*Body, point Vector) []*Body {
	var result []*Body
	for _, body := range bodies {
		if !body.bounds.Contains(point) {
			continue
		}
		for i := firstPart(body); i < len(body.parts); i++ {
			part := body.parts[i]
			if part.bounds.Contains(point) && Contains(part.vertices, point) {
				result = append(result, body)
				break
			}
		}
	}
	return result
}
