package rigid

import (
	"fmt"
	"math"
)

const (
	constraintWarming     = 0.4
	constraintTorqueDamp  = 1.0
	constraintMinLength   = 0.000001
	defaultFreeStiffness  = 1.0
	defaultPivotStiffness = 0.7
)

// Constraint keeps two anchor points a fixed distance apart. A nil body makes that end
// a fixed point in world space; otherwise the anchor is an offset from the body
// position that turns with the body.
type Constraint struct {
	id        int
	label     string
	composite *Composite

	bodyA, bodyB   *Body
	pointA, pointB Vector
	angleA, angleB float64

	length           float64
	stiffness        float64
	damping          float64
	angularStiffness float64

	UserData interface{}
}

type ConstraintOption func(*constraintConfig)

type constraintConfig struct {
	length           float64
	hasLength        bool
	stiffness        float64
	damping          float64
	angularStiffness float64
	label            string
}

// WithLength overrides the rest length, which defaults to the initial anchor distance.
func WithLength(length float64) ConstraintOption {
	return func(c *constraintConfig) {
		c.length = length
		c.hasLength = true
	}
}

func WithStiffness(stiffness float64) ConstraintOption {
	return func(c *constraintConfig) { c.stiffness = stiffness }
}

func WithDamping(damping float64) ConstraintOption {
	return func(c *constraintConfig) { c.damping = damping }
}

func WithAngularStiffness(stiffness float64) ConstraintOption {
	return func(c *constraintConfig) { c.angularStiffness = stiffness }
}

func WithConstraintLabel(label string) ConstraintOption {
	return func(c *constraintConfig) { c.label = label }
}

func NewConstraint(bodyA, bodyB *Body, pointA, pointB Vector, opts ...ConstraintOption) (*Constraint, error) {
	cfg := constraintConfig{label: "Constraint"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !pointA.IsFinite() || !pointB.IsFinite() {
		return nil, fmt.Errorf("constraint %q: %w", cfg.label, ErrInvalidVertex)
	}
	if cfg.hasLength && (cfg.length < 0 || math.IsNaN(cfg.length) || math.IsInf(cfg.length, 0)) {
		return nil, fmt.Errorf("constraint %q length %v: %w", cfg.label, cfg.length, ErrInvalidVertex)
	}
	if cfg.stiffness != 0 && !validStiffness(cfg.stiffness) {
		return nil, fmt.Errorf("constraint %q stiffness %v: %w", cfg.label, cfg.stiffness, ErrInvalidStiffness)
	}
	if !validUnit(cfg.damping) {
		return nil, fmt.Errorf("constraint %q damping %v: %w", cfg.label, cfg.damping, ErrInvalidDamping)
	}
	if !validUnit(cfg.angularStiffness) {
		return nil, fmt.Errorf("constraint %q angular stiffness %v: %w", cfg.label, cfg.angularStiffness, ErrInvalidStiffness)
	}

	c := &Constraint{
		label:            cfg.label,
		bodyA:            bodyA,
		bodyB:            bodyB,
		pointA:           pointA,
		pointB:           pointB,
		damping:          cfg.damping,
		angularStiffness: cfg.angularStiffness,
	}
	if bodyA != nil {
		c.angleA = bodyA.angle
	}
	if bodyB != nil {
		c.angleB = bodyB.angle
	}

	if cfg.hasLength {
		c.length = cfg.length
	} else {
		c.length = c.PointAWorld().Distance(c.PointBWorld())
	}

	c.stiffness = cfg.stiffness
	if c.stiffness == 0 {
		if c.length > 0 {
			c.stiffness = defaultFreeStiffness
		} else {
			c.stiffness = defaultPivotStiffness
		}
	}
	return c, nil
}

func validStiffness(s float64) bool {
	return s > 0 && s <= 1
}

func validUnit(v float64) bool {
	return v >= 0 && v <= 1
}

func (c *Constraint) ID() int {
	return c.id
}

func (c *Constraint) Kind() Kind {
	return KindConstraint
}

func (c *Constraint) Label() string {
	return c.label
}

func (c *Constraint) BodyA() *Body {
	return c.bodyA
}

func (c *Constraint) BodyB() *Body {
	return c.bodyB
}

// PointA is the anchor offset from body A, or the world point when A is nil.
func (c *Constraint) PointA() Vector {
	return c.pointA
}

func (c *Constraint) PointB() Vector {
	return c.pointB
}

func (c *Constraint) SetPointA(point Vector) {
	c.pointA = point
}

// SetPointB moves the B anchor. With a nil body B this drags the fixed end.
func (c *Constraint) SetPointB(point Vector) {
	c.pointB = point
}

func (c *Constraint) PointAWorld() Vector {
	if c.bodyA != nil {
		return c.bodyA.position.Add(c.pointA)
	}
	return c.pointA
}

func (c *Constraint) PointBWorld() Vector {
	if c.bodyB != nil {
		return c.bodyB.position.Add(c.pointB)
	}
	return c.pointB
}

func (c *Constraint) CurrentLength() float64 {
	return c.PointAWorld().Distance(c.PointBWorld())
}

func (c *Constraint) Length() float64 {
	return c.length
}

func (c *Constraint) SetLength(length float64) {
	assert(length >= 0, "Must be positive")
	c.length = length
}

func (c *Constraint) Stiffness() float64 {
	return c.stiffness
}

func (c *Constraint) SetStiffness(stiffness float64) error {
	if !validStiffness(stiffness) {
		return fmt.Errorf("constraint %q stiffness %v: %w", c.label, stiffness, ErrInvalidStiffness)
	}
	c.stiffness = stiffness
	return nil
}

func (c *Constraint) Damping() float64 {
	return c.damping
}

func (c *Constraint) SetDamping(damping float64) error {
	if !validUnit(damping) {
		return fmt.Errorf("constraint %q damping %v: %w", c.label, damping, ErrInvalidDamping)
	}
	c.damping = damping
	return nil
}

func (c *Constraint) AngularStiffness() float64 {
	return c.angularStiffness
}

func (c *Constraint) SetAngularStiffness(stiffness float64) error {
	if !validUnit(stiffness) {
		return fmt.Errorf("constraint %q angular stiffness %v: %w", c.label, stiffness, ErrInvalidStiffness)
	}
	c.angularStiffness = stiffness
	return nil
}

func fixedEnd(body *Body) bool {
	return body == nil || body.isStatic
}

// preSolveConstraints applies the impulse warmed from the previous step.
func preSolveConstraints(bodies []*Body) {
	for _, body := range bodies {
		impulse := body.constraintImpulse
		if body.isStatic || (impulse == (Vector{}) && body.constraintAngle == 0) {
			continue
		}
		body.position = body.position.Add(impulse)
		body.angle += body.constraintAngle
	}
}

// solveConstraints runs one Gauss-Seidel pass, constraints with a fixed end first.
func solveConstraints(constraints []*Constraint, timeScale float64) {
	for _, c := range constraints {
		if fixedEnd(c.bodyA) || fixedEnd(c.bodyB) {
			c.solve(timeScale)
		}
	}
	for _, c := range constraints {
		if !fixedEnd(c.bodyA) && !fixedEnd(c.bodyB) {
			c.solve(timeScale)
		}
	}
}

func (c *Constraint) solve(timeScale float64) {
	bodyA, bodyB := c.bodyA, c.bodyB
	if fixedEnd(bodyA) && fixedEnd(bodyB) {
		return
	}

	// anchors turn with their bodies
	if bodyA != nil && !bodyA.isStatic {
		c.pointA = c.pointA.Rotate(bodyA.angle - c.angleA)
		c.angleA = bodyA.angle
	}
	if bodyB != nil && !bodyB.isStatic {
		c.pointB = c.pointB.Rotate(bodyB.angle - c.angleB)
		c.angleB = bodyB.angle
	}

	pointAWorld := c.PointAWorld()
	pointBWorld := c.PointBWorld()

	delta := pointAWorld.Sub(pointBWorld)
	currentLength := delta.Length()
	if currentLength < constraintMinLength {
		currentLength = constraintMinLength
	}

	difference := (currentLength - c.length) / currentLength
	stiffness := c.stiffness
	if stiffness < 1 {
		stiffness *= timeScale
	}
	force := delta.Mult(difference * stiffness)

	var massTotal, inertiaTotal float64
	if bodyA != nil {
		massTotal += bodyA.invMass
		inertiaTotal += bodyA.invInertia
	}
	if bodyB != nil {
		massTotal += bodyB.invMass
		inertiaTotal += bodyB.invInertia
	}
	resistanceTotal := massTotal + inertiaTotal
	if massTotal == 0 {
		return
	}

	var normal Vector
	var normalVelocity float64
	if c.damping > 0 {
		normal = delta.Div(currentLength)
		var velocityA, velocityB Vector
		if bodyA != nil {
			velocityA = bodyA.position.Sub(bodyA.positionPrev)
		}
		if bodyB != nil {
			velocityB = bodyB.position.Sub(bodyB.positionPrev)
		}
		normalVelocity = normal.Dot(velocityB.Sub(velocityA))
	}

	if bodyA != nil && !bodyA.isStatic {
		share := bodyA.invMass / massTotal
		bodyA.constraintImpulse = bodyA.constraintImpulse.Sub(force.Mult(share))
		bodyA.position = bodyA.position.Sub(force.Mult(share))
		if c.damping > 0 {
			bodyA.positionPrev = bodyA.positionPrev.Sub(normal.Mult(c.damping * normalVelocity * share))
		}
		torque := (c.pointA.Cross(force) / resistanceTotal) * constraintTorqueDamp * bodyA.invInertia * (1 - c.angularStiffness)
		bodyA.constraintAngle -= torque
		bodyA.angle -= torque
	}

	if bodyB != nil && !bodyB.isStatic {
		share := bodyB.invMass / massTotal
		bodyB.constraintImpulse = bodyB.constraintImpulse.Add(force.Mult(share))
		bodyB.position = bodyB.position.Add(force.Mult(share))
		if c.damping > 0 {
			bodyB.positionPrev = bodyB.positionPrev.Add(normal.Mult(c.damping * normalVelocity * share))
		}
		torque := (c.pointB.Cross(force) / resistanceTotal) * constraintTorqueDamp * bodyB.invInertia * (1 - c.angularStiffness)
		bodyB.constraintAngle += torque
		bodyB.angle += torque
	}
}

// postSolveConstraints moves the geometry of every constrained body by its accumulated
// impulse, wakes it and keeps a fraction of the impulse for the next step.
func postSolveConstraints(bodies []*Body, wake func(*Body)) {
	for _, body := range bodies {
		impulse := body.constraintImpulse
		angle := body.constraintAngle
		if body.isStatic || (impulse == (Vector{}) && angle == 0) {
			continue
		}
		if wake != nil {
			wake(body)
		}
		body.shiftParts(impulse, angle)

		body.constraintImpulse = impulse.Mult(constraintWarming)
		body.constraintAngle = angle * constraintWarming
	}
}
