package rigid

func firstPart(body *Body) int {
	if len(body.parts) > 1 {
		return 1
	}
	return 0
}

// detectCollisions runs the narrowphase over broadphase candidates. Compound bodies are
// tested part against part.
func detectCollisions(candidates []*GridPair, pairs *Pairs) []*Collision {
	var collisions []*Collision
	for _, candidate := range candidates {
		bodyA, bodyB := candidate.A, candidate.B

		if (bodyA.isStatic || bodyA.isSleeping) && (bodyB.isStatic || bodyB.isSleeping) {
			continue
		}
		if !CanCollide(bodyA.Filter, bodyB.Filter) {
			continue
		}
		if !bodyA.bounds.Overlaps(bodyB.bounds) {
			continue
		}

		for j := firstPart(bodyA); j < len(bodyA.parts); j++ {
			partA := bodyA.parts[j]
			for k := firstPart(bodyB); k < len(bodyB.parts); k++ {
				partB := bodyB.parts[k]
				if (partA == bodyA && partB == bodyB) || partA.bounds.Overlaps(partB.bounds) {
					var prev *Collision
					if pair := pairs.Get(NewPairID(partA, partB)); pair != nil && pair.IsActive {
						prev = pair.Collision
					}
					collision := Collides(partA, partB, prev)
					if collision.Collided {
						collisions = append(collisions, collision)
					}
				}
			}
		}
	}
	return collisions
}
