package rigid

import (
	"log/slog"
	"math"
)

const DefaultDelta = 1000.0 / 60.0

type Timing struct {
	// TimeScale slows (< 1), speeds up (> 1) or freezes (0) the simulation.
	TimeScale float64
	// Timestamp is the simulated time in milliseconds.
	Timestamp float64

	lastDelta float64
}

// Engine advances a World. It is not safe for concurrent use; Update runs the whole
// step synchronously and observers are called from inside it.
type Engine struct {
	PositionIterations   int
	VelocityIterations   int
	ConstraintIterations int
	EnableSleeping       bool

	Timing Timing

	world      *World
	pairs      *Pairs
	broadphase Broadphase
	logger     *slog.Logger

	collisionObservers []CollisionObserver
	sleepObservers     []SleepObserver
	updateObservers    []UpdateObserver

	removals *CompositeHandler
}

type EngineOption func(*Engine)

func WithIterations(position, velocity int) EngineOption {
	return func(e *Engine) {
		e.PositionIterations = position
		e.VelocityIterations = velocity
	}
}

func WithConstraintIterations(n int) EngineOption {
	return func(e *Engine) { e.ConstraintIterations = n }
}

func WithSleeping(enabled bool) EngineOption {
	return func(e *Engine) { e.EnableSleeping = enabled }
}

func WithEngineTimeScale(scale float64) EngineOption {
	return func(e *Engine) { e.Timing.TimeScale = scale }
}

func WithGravity(g Gravity) EngineOption {
	return func(e *Engine) { e.world.Gravity = g }
}

func WithBroadphase(b Broadphase) EngineOption {
	return func(e *Engine) { e.broadphase = b }
}

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithWorld runs the engine on an existing world instead of a fresh one.
func WithWorld(w *World) EngineOption {
	return func(e *Engine) { e.world = w }
}

func NewEngine(opts ...EngineOption) *Engine {
	engine := &Engine{
		PositionIterations:   6,
		VelocityIterations:   4,
		ConstraintIterations: 2,
		Timing:               Timing{TimeScale: 1},
		world:                NewWorld(),
		pairs:                NewPairs(),
		broadphase:           NewGrid(),
		logger:               slog.Default(),
	}
	for _, opt := range opts {
		opt(engine)
	}

	engine.removals = &CompositeHandler{AfterRemoveFunc: engine.forgetRemoved}
	engine.world.observe(engine.removals)
	engine.world.SetModified(true, false, false)
	return engine
}

func (engine *Engine) World() *World {
	return engine.world
}

func (engine *Engine) Pairs() *Pairs {
	return engine.pairs
}

func (engine *Engine) Broadphase() Broadphase {
	return engine.broadphase
}

// SetBroadphase swaps the broadphase; it is rebuilt on the next step.
func (engine *Engine) SetBroadphase(b Broadphase) {
	engine.broadphase = b
	engine.world.SetModified(true, false, false)
}

func (engine *Engine) IDs() *IDs {
	return engine.world.ids
}

func (engine *Engine) Logger() *slog.Logger {
	return engine.logger
}

func (engine *Engine) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	engine.logger = logger
}

// Observe registers o for every observer interface it implements.
func (engine *Engine) Observe(o any) {
	if c, ok := o.(CollisionObserver); ok {
		engine.collisionObservers = append(engine.collisionObservers, c)
	}
	if s, ok := o.(SleepObserver); ok {
		engine.sleepObservers = append(engine.sleepObservers, s)
	}
	if u, ok := o.(UpdateObserver); ok {
		engine.updateObservers = append(engine.updateObservers, u)
	}
	if c, ok := o.(CompositeObserver); ok {
		engine.world.observe(c)
	}
}

func (engine *Engine) Forget(o any) {
	if c, ok := o.(CollisionObserver); ok {
		for i, existing := range engine.collisionObservers {
			if existing == c {
				engine.collisionObservers = append(engine.collisionObservers[:i], engine.collisionObservers[i+1:]...)
				break
			}
		}
	}
	if s, ok := o.(SleepObserver); ok {
		for i, existing := range engine.sleepObservers {
			if existing == s {
				engine.sleepObservers = append(engine.sleepObservers[:i], engine.sleepObservers[i+1:]...)
				break
			}
		}
	}
	if u, ok := o.(UpdateObserver); ok {
		for i, existing := range engine.updateObservers {
			if existing == u {
				engine.updateObservers = append(engine.updateObservers[:i], engine.updateObservers[i+1:]...)
				break
			}
		}
	}
	if c, ok := o.(CompositeObserver); ok {
		engine.world.forget(c)
	}
}

// SetSleeping changes the sleep state of body and notifies sleep observers.
func (engine *Engine) SetSleeping(body *Body, isSleeping bool) {
	setSleeping(body, isSleeping, engine.notifySleep)
}

func (engine *Engine) notifySleep(body *Body, isSleeping bool) {
	for _, o := range engine.sleepObservers {
		if isSleeping {
			o.SleepStart(body)
		} else {
			o.SleepEnd(body)
		}
	}
}

func (engine *Engine) wake(body *Body) {
	setSleeping(body, false, engine.notifySleep)
}

func (engine *Engine) forgetRemoved(_ *Composite, objs []Object) {
	for _, obj := range objs {
		switch obj.Kind() {
		case KindBody:
			engine.pairs.RemoveBody(obj.(*Body))
		case KindComposite:
			for _, body := range obj.(*Composite).AllBodies() {
				engine.pairs.RemoveBody(body)
			}
		}
	}
}

// Clear forgets every pair and rebuilds the broadphase. Bodies stay in the world.
func (engine *Engine) Clear() {
	engine.pairs.Clear()
	engine.broadphase.Clear()
	engine.broadphase.Update(engine.world.AllBodies(), engine.world, true)
}

// Update advances the world by delta milliseconds.
func (engine *Engine) Update(delta float64) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta <= 0 {
		engine.logger.Warn("step skipped", "delta", delta)
		return
	}

	timing := &engine.Timing
	timeScale := timing.TimeScale
	timing.Timestamp += delta * timeScale
	correction := 1.0
	if timing.lastDelta > 0 {
		correction = delta / timing.lastDelta
	}
	timing.lastDelta = delta

	for _, o := range engine.updateObservers {
		o.BeforeUpdate(timing.Timestamp)
	}

	world := engine.world
	bodies := world.AllBodies()
	constraints := world.AllConstraints()

	if engine.EnableSleeping {
		updateSleeping(bodies, timeScale, engine.notifySleep)
	}

	engine.applyGravity(bodies)
	for _, body := range bodies {
		if body.isStatic || body.isSleeping || timeScale == 0 {
			continue
		}
		body.Update(delta, timeScale, correction)
		if !body.position.IsFinite() {
			engine.logger.Error("body position is not finite", "id", body.id, "label", body.label)
		}
	}

	engine.solveConstraints(bodies, constraints, timeScale)

	modified := world.IsModified()
	if modified {
		engine.logger.Debug("world modified, rebuilding broadphase", "bodies", len(bodies), "constraints", len(constraints))
		engine.broadphase.Clear()
	}
	engine.broadphase.Update(bodies, world, modified)
	if modified {
		world.SetModified(false, false, true)
	}

	pairs := engine.pairs
	collisions := detectCollisions(engine.broadphase.Candidates(), pairs)
	pairs.Update(collisions, timing.Timestamp)
	pairs.RemoveOld(timing.Timestamp)

	if engine.EnableSleeping {
		afterCollisions(pairs.List(), timeScale, engine.notifySleep)
	}
	if len(pairs.CollisionStart) > 0 {
		for _, o := range engine.collisionObservers {
			o.CollisionStart(pairs.CollisionStart)
		}
	}

	list := pairs.List()
	preSolvePosition(list)
	for i := 0; i < engine.PositionIterations; i++ {
		solvePosition(list, timeScale)
	}
	postSolvePosition(bodies)

	engine.solveConstraints(bodies, constraints, timeScale)

	preSolveVelocity(list)
	for i := 0; i < engine.VelocityIterations; i++ {
		solveVelocity(list, timeScale)
	}

	for _, body := range bodies {
		if !body.isStatic && !body.isSleeping {
			body.syncVelocity()
		}
	}

	if len(pairs.CollisionActive) > 0 {
		for _, o := range engine.collisionObservers {
			o.CollisionActive(pairs.CollisionActive)
		}
	}
	if len(pairs.CollisionEnd) > 0 {
		for _, o := range engine.collisionObservers {
			o.CollisionEnd(pairs.CollisionEnd)
		}
	}

	for _, body := range bodies {
		body.force = Vector{}
		body.torque = 0
	}

	for _, o := range engine.updateObservers {
		o.AfterUpdate(timing.Timestamp)
	}
}

func (engine *Engine) applyGravity(bodies []*Body) {
	g := engine.world.Gravity
	if (g.X == 0 && g.Y == 0) || g.Scale == 0 {
		return
	}
	for _, body := range bodies {
		if body.isStatic || body.isSleeping || body.IgnoreGravity {
			continue
		}
		scale := body.mass * g.Scale * body.GravityScale
		body.force = body.force.Add(Vector{g.X * scale, g.Y * scale})
	}
}

func (engine *Engine) solveConstraints(bodies []*Body, constraints []*Constraint, timeScale float64) {
	if len(constraints) == 0 {
		return
	}
	preSolveConstraints(bodies)
	for i := 0; i < engine.ConstraintIterations; i++ {
		solveConstraints(constraints, timeScale)
	}
	postSolveConstraints(bodies, engine.wake)
}
