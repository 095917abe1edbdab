package rigid

import "math"

const (
	motionWakeThreshold  = 0.18
	motionSleepThreshold = 0.08
	minBias              = 0.9
)

// SetSleeping puts a body to sleep or wakes it. It reports whether the state changed.
// A sleeping body is frozen: it is not integrated, carries no velocity and receives no
// impulses until something wakes it.
func SetSleeping(body *Body, isSleeping bool) bool {
	wasSleeping := body.isSleeping
	if isSleeping {
		if body.isStatic {
			return false
		}
		body.isSleeping = true
		body.sleepCounter = body.SleepThreshold
		body.positionImpulse = Vector{}
		body.positionPrev = body.position
		body.anglePrev = body.angle
		body.velocity = Vector{}
		body.angularVelocity = 0
		body.speed = 0
		body.angularSpeed = 0
		body.motion = 0
		body.disturbed = false
		return !wasSleeping
	}
	body.isSleeping = false
	body.sleepCounter = 0
	body.motion = 0
	body.disturbed = false
	return wasSleeping
}

type sleepNotify func(body *Body, isSleeping bool)

func setSleeping(body *Body, isSleeping bool, notify sleepNotify) {
	if SetSleeping(body, isSleeping) && notify != nil {
		notify(body, isSleeping)
	}
}

// updateSleeping tracks a biased average of each body's motion and puts bodies to sleep
// once it has stayed low for SleepThreshold steps.
func updateSleeping(bodies []*Body, timeScale float64, notify sleepNotify) {
	timeFactor := timeScale * timeScale * timeScale

	for _, body := range bodies {
		if body.isStatic {
			continue
		}
		if body.force != (Vector{}) || body.disturbed {
			setSleeping(body, false, notify)
			continue
		}

		motion := body.speed*body.speed + body.angularSpeed*body.angularSpeed
		minMotion := math.Min(body.motion, motion)
		maxMotion := math.Max(body.motion, motion)
		body.motion = minBias*minMotion + (1-minBias)*maxMotion

		if body.SleepThreshold > 0 && body.motion < motionSleepThreshold*timeFactor {
			body.sleepCounter++
			if body.sleepCounter >= body.SleepThreshold {
				setSleeping(body, true, notify)
			}
		} else if body.sleepCounter > 0 {
			body.sleepCounter--
		}
	}
}

// afterCollisions wakes sleeping bodies hit by a body that is moving fast enough.
func afterCollisions(pairs []*Pair, timeScale float64, notify sleepNotify) {
	timeFactor := timeScale * timeScale * timeScale

	for _, pair := range pairs {
		if !pair.IsActive {
			continue
		}
		bodyA, bodyB := pair.Collision.ParentA, pair.Collision.ParentB
		if (bodyA.isSleeping && bodyB.isSleeping) || bodyA.isStatic || bodyB.isStatic {
			continue
		}
		if !bodyA.isSleeping && !bodyB.isSleeping {
			continue
		}

		sleeping, moving := bodyA, bodyB
		if !bodyA.isSleeping {
			sleeping, moving = bodyB, bodyA
		}
		if moving.motion > motionWakeThreshold*timeFactor {
			setSleeping(sleeping, false, notify)
		}
	}
}
