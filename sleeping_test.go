package rigid

import "testing"

type sleepLog struct {
	started, ended []*Body
}

func (l *sleepLog) notify(body *Body, isSleeping bool) {
	if isSleeping {
		l.started = append(l.started, body)
	} else {
		l.ended = append(l.ended, body)
	}
}

func TestSetSleeping(t *testing.T) {
	body := newBox(t, 10, 10, WithVelocity(Vector{3, 0}), WithAngularVelocity(0.1))
	if !SetSleeping(body, true) {
		t.Fatal("Expected the state to change")
	}
	if SetSleeping(body, true) {
		t.Error("Sleeping twice must report no change")
	}
	if body.Velocity() != (Vector{}) || body.AngularVelocity() != 0 || body.Motion() != 0 {
		t.Error("Expected a sleeping body to be frozen")
	}
	if body.PositionPrev() != body.Position() {
		t.Error("Expected positionPrev to be reset")
	}
	if body.SleepCounter() != body.SleepThreshold {
		t.Errorf("Expected sleep counter %v got %v", body.SleepThreshold, body.SleepCounter())
	}
	body.motion = 1
	if !SetSleeping(body, false) || body.IsSleeping() {
		t.Error("Expected the body to wake")
	}
	if body.Motion() != 0 || body.SleepCounter() != 0 {
		t.Errorf("Expected waking to reset motion and counter, got %v %v", body.Motion(), body.SleepCounter())
	}

	ground := newBox(t, 10, 10, WithStatic())
	if SetSleeping(ground, true) || ground.IsSleeping() {
		t.Error("Static bodies never sleep")
	}
}

func TestUpdateSleeping(t *testing.T) {
	body := newBox(t, 10, 10)
	body.SleepThreshold = 5
	log := &sleepLog{}

	for i := 0; i < 4; i++ {
		updateSleeping([]*Body{body}, 1, log.notify)
	}
	if body.IsSleeping() {
		t.Fatal("Expected the body to stay awake below the threshold")
	}
	updateSleeping([]*Body{body}, 1, log.notify)
	if !body.IsSleeping() || len(log.started) != 1 {
		t.Fatal("Expected the body to fall asleep")
	}

	body.Translate(Vector{1, 0}, false)
	updateSleeping([]*Body{body}, 1, log.notify)
	if body.IsSleeping() || len(log.ended) != 1 {
		t.Error("Expected a disturbed body to wake")
	}

	SetSleeping(body, true)
	body.ApplyForce(body.Position(), Vector{0, 1})
	updateSleeping([]*Body{body}, 1, log.notify)
	if body.IsSleeping() {
		t.Error("Expected a force to wake the body")
	}
}

func TestUpdateSleeping_Moving(t *testing.T) {
	body := newBox(t, 10, 10, WithVelocity(Vector{2, 0}))
	body.SleepThreshold = 2
	for i := 0; i < 10; i++ {
		updateSleeping([]*Body{body}, 1, nil)
	}
	if body.IsSleeping() {
		t.Error("A moving body must not sleep")
	}

	body.SleepThreshold = 0
	body.SetVelocity(Vector{})
	for i := 0; i < 100; i++ {
		updateSleeping([]*Body{body}, 1, nil)
	}
	if body.IsSleeping() {
		t.Error("A zero threshold disables sleeping")
	}
}

func TestAfterCollisions(t *testing.T) {
	sleeper := newBox(t, 10, 10)
	mover := newBox(t, 10, 10)
	SetSleeping(sleeper, true)
	mover.motion = 1

	pair := &Pair{IsActive: true, Collision: &Collision{ParentA: sleeper, ParentB: mover}}
	log := &sleepLog{}
	afterCollisions([]*Pair{pair}, 1, log.notify)
	if sleeper.IsSleeping() || len(log.ended) != 1 {
		t.Error("Expected the sleeper to be woken")
	}

	SetSleeping(sleeper, true)
	mover.motion = 0.01
	afterCollisions([]*Pair{pair}, 1, log.notify)
	if !sleeper.IsSleeping() {
		t.Error("A slow body must not wake a sleeper")
	}
}
