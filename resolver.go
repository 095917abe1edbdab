package rigid

import "math"

const (
	positionDampen           = 0.9
	positionWarming          = 0.8
	restingThresh            = 4.0
	restingThreshTangent     = 6.0
	frictionNormalMultiplier = 5.0
)

func solvable(pair *Pair) bool {
	return pair.IsActive && !pair.IsSensor
}

func movable(body *Body) bool {
	return !(body.isStatic || body.isSleeping)
}

// preSolvePosition counts the contacts each body takes part in, so the position
// correction can be shared between them.
func preSolvePosition(pairs []*Pair) {
	for _, pair := range pairs {
		if !pair.IsActive {
			continue
		}
		n := len(pair.ActiveContacts)
		pair.Collision.ParentA.totalContacts += n
		pair.Collision.ParentB.totalContacts += n
	}
}

// solvePosition accumulates position impulses that push overlapping bodies apart,
// leaving slop of overlap so resting contacts stay in contact.
func solvePosition(pairs []*Pair, timeScale float64) {
	for _, pair := range pairs {
		if !solvable(pair) {
			continue
		}
		collision := pair.Collision
		bodyA, bodyB := collision.ParentA, collision.ParentB
		bodyBtoA := bodyB.positionImpulse.Sub(bodyA.positionImpulse).Add(collision.Penetration)
		pair.Separation = collision.Normal.Dot(bodyBtoA)
	}

	for _, pair := range pairs {
		if !solvable(pair) {
			continue
		}
		collision := pair.Collision
		bodyA, bodyB := collision.ParentA, collision.ParentB
		normal := collision.Normal

		impulse := (pair.Separation - pair.Slop) * timeScale
		if bodyA.isStatic || bodyB.isStatic {
			impulse *= 2
		}

		if movable(bodyA) && bodyA.totalContacts > 0 {
			share := positionDampen / float64(bodyA.totalContacts)
			bodyA.positionImpulse = bodyA.positionImpulse.Add(normal.Mult(impulse * share))
		}
		if movable(bodyB) && bodyB.totalContacts > 0 {
			share := positionDampen / float64(bodyB.totalContacts)
			bodyB.positionImpulse = bodyB.positionImpulse.Sub(normal.Mult(impulse * share))
		}
	}
}

// postSolvePosition moves every body by its position impulse without changing its
// velocity, then keeps part of the impulse unless the body is already moving away.
func postSolvePosition(bodies []*Body) {
	for _, body := range bodies {
		body.totalContacts = 0
		impulse := body.positionImpulse
		if impulse == (Vector{}) {
			continue
		}

		body.position = body.position.Add(impulse)
		body.positionPrev = body.positionPrev.Add(impulse)
		body.shiftParts(impulse, 0)

		if impulse.Dot(body.velocity) < 0 {
			body.positionImpulse = Vector{}
		} else {
			body.positionImpulse = impulse.Mult(positionWarming)
		}
	}
}

// preSolveVelocity warm starts contacts with the impulses cached last step.
func preSolveVelocity(pairs []*Pair) {
	for _, pair := range pairs {
		if !solvable(pair) {
			continue
		}
		collision := pair.Collision
		bodyA, bodyB := collision.ParentA, collision.ParentB
		normal, tangent := collision.Normal, collision.Tangent

		for _, contact := range pair.ActiveContacts {
			if contact.NormalImpulse == 0 && contact.TangentImpulse == 0 {
				continue
			}
			vertex := contact.Vertex()
			impulse := normal.Mult(contact.NormalImpulse).Add(tangent.Mult(contact.TangentImpulse))

			if movable(bodyA) {
				offset := vertex.Sub(bodyA.position)
				bodyA.positionPrev = bodyA.positionPrev.Add(impulse.Mult(bodyA.invMass))
				bodyA.anglePrev += offset.Cross(impulse) * bodyA.invInertia
			}
			if movable(bodyB) {
				offset := vertex.Sub(bodyB.position)
				bodyB.positionPrev = bodyB.positionPrev.Sub(impulse.Mult(bodyB.invMass))
				bodyB.anglePrev -= offset.Cross(impulse) * bodyB.invInertia
			}
		}
	}
}

// solveVelocity applies restitution and Coulomb friction impulses at every contact.
// Impulses change positionPrev, which the next integration reads as velocity.
func solveVelocity(pairs []*Pair, timeScale float64) {
	timeScaleSquared := timeScale * timeScale

	for _, pair := range pairs {
		if !solvable(pair) || len(pair.ActiveContacts) == 0 {
			continue
		}
		collision := pair.Collision
		bodyA, bodyB := collision.ParentA, collision.ParentB
		normal, tangent := collision.Normal, collision.Tangent
		contactShare := 1 / float64(len(pair.ActiveContacts))

		bodyA.velocity = bodyA.position.Sub(bodyA.positionPrev)
		bodyB.velocity = bodyB.position.Sub(bodyB.positionPrev)
		bodyA.angularVelocity = bodyA.angle - bodyA.anglePrev
		bodyB.angularVelocity = bodyB.angle - bodyB.anglePrev

		for _, contact := range pair.ActiveContacts {
			vertex := contact.Vertex()
			offsetA := vertex.Sub(bodyA.position)
			offsetB := vertex.Sub(bodyB.position)
			velocityPointA := bodyA.velocity.Add(offsetA.Perp().Mult(bodyA.angularVelocity))
			velocityPointB := bodyB.velocity.Add(offsetB.Perp().Mult(bodyB.angularVelocity))
			relativeVelocity := velocityPointA.Sub(velocityPointB)
			normalVelocity := normal.Dot(relativeVelocity)

			tangentVelocity := tangent.Dot(relativeVelocity)
			tangentSpeed := math.Abs(tangentVelocity)
			tangentDirection := sign(tangentVelocity)

			normalImpulse := (1 + pair.Restitution) * normalVelocity
			normalForce := Clamp(pair.Separation+normalVelocity, 0, 1) * frictionNormalMultiplier

			tangentImpulse := tangentVelocity
			maxFriction := math.Inf(1)
			if tangentSpeed > pair.Friction*pair.FrictionStatic*normalForce*timeScaleSquared {
				maxFriction = tangentSpeed
				tangentImpulse = Clamp(pair.Friction*tangentDirection*timeScaleSquared, -maxFriction, maxFriction)
			}

			oAcN := offsetA.Cross(normal)
			oBcN := offsetB.Cross(normal)
			share := contactShare / (bodyA.invMass + bodyB.invMass + bodyA.invInertia*oAcN*oAcN + bodyB.invInertia*oBcN*oBcN)
			normalImpulse *= share
			tangentImpulse *= share

			if normalVelocity < 0 && normalVelocity*normalVelocity > restingThresh*timeScaleSquared {
				contact.NormalImpulse = 0
			} else {
				cached := contact.NormalImpulse
				contact.NormalImpulse = math.Min(contact.NormalImpulse+normalImpulse, 0)
				normalImpulse = contact.NormalImpulse - cached
			}

			if tangentVelocity*tangentVelocity > restingThreshTangent*timeScaleSquared {
				contact.TangentImpulse = 0
			} else {
				cached := contact.TangentImpulse
				contact.TangentImpulse = Clamp(contact.TangentImpulse+tangentImpulse, -maxFriction, maxFriction)
				tangentImpulse = contact.TangentImpulse - cached
			}

			impulse := normal.Mult(normalImpulse).Add(tangent.Mult(tangentImpulse))
			if movable(bodyA) {
				bodyA.positionPrev = bodyA.positionPrev.Add(impulse.Mult(bodyA.invMass))
				bodyA.anglePrev += offsetA.Cross(impulse) * bodyA.invInertia
			}
			if movable(bodyB) {
				bodyB.positionPrev = bodyB.positionPrev.Sub(impulse.Mult(bodyB.invMass))
				bodyB.anglePrev -= offsetB.Cross(impulse) * bodyB.invInertia
			}
		}
	}
}
