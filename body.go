package rigid

import (
	"fmt"
	"math"
)

const (
	// inertia is scaled up from the pure polygon moment to reduce spin on impact
	inertiaScale = 4.0

	minMass    = 1e-10
	minInertia = 1e-10

	collinearTolerance = 1e-9
)

type Body struct {
	id    int
	label string

	// parts[0] is always the body itself. Compound bodies list their sub-bodies after it.
	parts     []*Body
	parent    *Body
	composite *Composite

	// world space ring, axes and box of this part
	vertices []Vector
	axes     []Vector
	bounds   Bounds

	// position is the centre of mass. Velocity is implicit in position - positionPrev.
	position, positionPrev Vector
	angle, anglePrev       float64
	velocity               Vector
	angularVelocity        float64
	speed, angularSpeed    float64

	force  Vector
	torque float64

	// solver accumulators
	positionImpulse   Vector
	constraintImpulse Vector
	constraintAngle   float64
	totalContacts     int

	massProps
	area float64

	massFromDensity bool
	explicitInertia bool

	Restitution    float64
	Friction       float64
	FrictionStatic float64
	FrictionAir    float64
	Slop           float64

	TimeScale     float64
	GravityScale  float64
	IgnoreGravity bool
	IsSensor      bool
	Filter        Filter

	// number of low motion steps before the body may sleep, zero disables sleeping
	SleepThreshold int

	UserData interface{}

	isStatic     bool
	isSleeping   bool
	motion       float64
	sleepCounter int
	disturbed    bool
	deltaTime    float64

	original *bodyOriginal
}

func (b Body) String() string {
	return fmt.Sprint("Body ", b.id, " ", b.label)
}

type BodyOption func(*bodyConfig)

type bodyConfig struct {
	position        Vector
	angle           float64
	velocity        Vector
	angularVelocity float64

	density float64
	mass    float64
	inertia float64

	restitution    float64
	friction       float64
	frictionStatic float64
	frictionAir    float64
	slop           float64

	timeScale      float64
	gravityScale   float64
	ignoreGravity  bool
	isStatic       bool
	isSensor       bool
	filter         Filter
	label          string
	sleepThreshold int
	chamfer        []float64
}

func defaultBodyConfig() bodyConfig {
	return bodyConfig{
		density:        0.001,
		restitution:    0,
		friction:       0.1,
		frictionStatic: 0.5,
		frictionAir:    0.01,
		slop:           0.05,
		timeScale:      1,
		gravityScale:   1,
		filter:         DefaultFilter,
		label:          "Body",
		sleepThreshold: 60,
	}
}

func WithPosition(p Vector) BodyOption         { return func(c *bodyConfig) { c.position = p } }
func WithAngle(a float64) BodyOption           { return func(c *bodyConfig) { c.angle = a } }
func WithVelocity(v Vector) BodyOption         { return func(c *bodyConfig) { c.velocity = v } }
func WithAngularVelocity(w float64) BodyOption { return func(c *bodyConfig) { c.angularVelocity = w } }
func WithDensity(d float64) BodyOption         { return func(c *bodyConfig) { c.density = d } }
func WithMass(m float64) BodyOption            { return func(c *bodyConfig) { c.mass = m } }
func WithInertia(i float64) BodyOption         { return func(c *bodyConfig) { c.inertia = i } }
func WithRestitution(e float64) BodyOption     { return func(c *bodyConfig) { c.restitution = e } }
func WithFriction(u float64) BodyOption        { return func(c *bodyConfig) { c.friction = u } }
func WithFrictionStatic(u float64) BodyOption  { return func(c *bodyConfig) { c.frictionStatic = u } }
func WithFrictionAir(u float64) BodyOption     { return func(c *bodyConfig) { c.frictionAir = u } }
func WithSlop(s float64) BodyOption            { return func(c *bodyConfig) { c.slop = s } }
func WithTimeScale(s float64) BodyOption       { return func(c *bodyConfig) { c.timeScale = s } }
func WithGravityScale(s float64) BodyOption    { return func(c *bodyConfig) { c.gravityScale = s } }
func WithIgnoreGravity() BodyOption            { return func(c *bodyConfig) { c.ignoreGravity = true } }
func WithStatic() BodyOption                   { return func(c *bodyConfig) { c.isStatic = true } }
func WithSensor() BodyOption                   { return func(c *bodyConfig) { c.isSensor = true } }
func WithFilter(f Filter) BodyOption           { return func(c *bodyConfig) { c.filter = f } }
func WithLabel(l string) BodyOption            { return func(c *bodyConfig) { c.label = l } }
func WithSleepThreshold(n int) BodyOption      { return func(c *bodyConfig) { c.sleepThreshold = n } }

// WithChamfer rounds the corners of the ring before the body is built.
func WithChamfer(radius ...float64) BodyOption {
	return func(c *bodyConfig) { c.chamfer = radius }
}

// NewBody builds a body from a convex vertex ring. The ring may be given anywhere; it is
// re-centred on its centroid and then placed at the configured position and angle.
// Concave rings are replaced by their convex hull.
func NewBody(vertices []Vector, opts ...BodyOption) (*Body, error) {
	if err := validateVertices(vertices); err != nil {
		return nil, err
	}

	cfg := defaultBodyConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.position.IsFinite() || math.IsNaN(cfg.angle) || math.IsInf(cfg.angle, 0) {
		return nil, fmt.Errorf("body %q: %w", cfg.label, ErrInvalidVertex)
	}

	body := newBodyFromConfig(&cfg)
	body.SetVertices(prepareVertices(vertices, cfg.chamfer))
	body.finish(&cfg)
	return body, nil
}

// NewCompoundBody joins several bodies into one rigid body. Each part keeps its own
// ring for narrowphase tests. With autoHull the compound's own ring is the convex hull
// of every part.
func NewCompoundBody(parts []*Body, autoHull bool, opts ...BodyOption) (*Body, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("compound body: %w", ErrEmptyVertices)
	}
	var all []Vector
	for _, p := range parts {
		if p == nil || len(p.vertices) == 0 {
			return nil, fmt.Errorf("compound body part: %w", ErrEmptyVertices)
		}
		all = append(all, p.vertices...)
	}

	cfg := defaultBodyConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	body := newBodyFromConfig(&cfg)
	hull := Hull(all)
	centre := Centre(hull)
	body.position = centre
	body.positionPrev = centre
	body.SetVertices(hull)
	body.SetParts(parts, autoHull)

	// the compound is assembled in place; only move it when asked to
	placed := cfg.position
	cfg.position = body.position
	body.finish(&cfg)
	if placed != (Vector{}) {
		body.SetPosition(placed, false)
	}
	return body, nil
}

func validateVertices(vertices []Vector) error {
	if len(vertices) == 0 {
		return ErrEmptyVertices
	}
	for i, v := range vertices {
		if !v.IsFinite() {
			return fmt.Errorf("vertex %d: %w", i, ErrInvalidVertex)
		}
	}
	return nil
}

func prepareVertices(vertices []Vector, chamfer []float64) []Vector {
	ring := append([]Vector(nil), vertices...)
	if Area(ring, true) < 0 {
		for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
			ring[i], ring[j] = ring[j], ring[i]
		}
	}
	if IsConvex(ring) == Concave {
		ring = Hull(ring)
	}
	ring = RemoveCollinear(ring, collinearTolerance)
	if len(chamfer) > 0 && len(ring) >= 3 {
		ring = Chamfer(ring, chamfer, -1, 2, 14)
	}
	return ring
}

func newBodyFromConfig(cfg *bodyConfig) *Body {
	body := &Body{
		label:           cfg.label,
		position:        cfg.position,
		positionPrev:    cfg.position,
		massFromDensity: true,
		Restitution:     cfg.restitution,
		Friction:        cfg.friction,
		FrictionStatic:  cfg.frictionStatic,
		FrictionAir:     cfg.frictionAir,
		Slop:            cfg.slop,
		TimeScale:       cfg.timeScale,
		GravityScale:    cfg.gravityScale,
		IgnoreGravity:   cfg.ignoreGravity,
		IsSensor:        cfg.isSensor,
		Filter:          cfg.filter,
		SleepThreshold:  cfg.sleepThreshold,
	}
	body.parts = []*Body{body}
	body.parent = body
	body.density = cfg.density
	return body
}

// finish applies orientation, explicit mass overrides, velocity and static state.
func (body *Body) finish(cfg *bodyConfig) {
	if cfg.angle != 0 {
		body.SetAngle(cfg.angle, false)
		body.anglePrev = body.angle
	}
	if cfg.mass > 0 {
		body.SetMass(cfg.mass)
	}
	if cfg.inertia > 0 {
		body.SetInertia(cfg.inertia)
	}
	if cfg.velocity != (Vector{}) {
		body.SetVelocity(cfg.velocity)
	}
	if cfg.angularVelocity != 0 {
		body.SetAngularVelocity(cfg.angularVelocity)
	}
	if cfg.isStatic {
		body.SetStatic(true)
	}
}

func (body *Body) ID() int {
	return body.id
}

func (body *Body) Kind() Kind {
	return KindBody
}

func (body *Body) Label() string {
	return body.label
}

func (body *Body) SetLabel(label string) {
	body.label = label
}

// Parts returns the body followed by its sub-parts. The slice must not be modified.
func (body *Body) Parts() []*Body {
	return body.parts
}

// Parent is the compound body this part belongs to, or the body itself.
func (body *Body) Parent() *Body {
	return body.parent
}

func (body *Body) IsCompound() bool {
	return len(body.parts) > 1
}

// Composite is the composite that owns the body, nil when detached.
func (body *Body) Composite() *Composite {
	return body.composite
}

// Vertices returns the world space ring. The slice must not be modified.
func (body *Body) Vertices() []Vector {
	return body.vertices
}

func (body *Body) Axes() []Vector {
	return body.axes
}

func (body *Body) Bounds() Bounds {
	return body.bounds
}

func (body *Body) Position() Vector {
	return body.position
}

func (body *Body) PositionPrev() Vector {
	return body.positionPrev
}

func (body *Body) Angle() float64 {
	return body.angle
}

func (body *Body) Velocity() Vector {
	return body.velocity
}

func (body *Body) AngularVelocity() float64 {
	return body.angularVelocity
}

func (body *Body) Speed() float64 {
	return body.speed
}

func (body *Body) AngularSpeed() float64 {
	return body.angularSpeed
}

func (body *Body) Force() Vector {
	return body.force
}

func (body *Body) Torque() float64 {
	return body.torque
}

func (body *Body) Area() float64 {
	return body.area
}

func (body *Body) IsStatic() bool {
	return body.isStatic
}

func (body *Body) IsSleeping() bool {
	return body.isSleeping
}

func (body *Body) Motion() float64 {
	return body.motion
}

func (body *Body) SleepCounter() int {
	return body.sleepCounter
}

// SetPosition moves the body and its parts. Without updateVelocity the previous position
// moves too so no velocity is introduced.
func (body *Body) SetPosition(position Vector, updateVelocity bool) {
	delta := position.Sub(body.position)
	if updateVelocity {
		body.positionPrev = body.position
		body.velocity = delta
		body.speed = delta.Length()
	} else {
		body.positionPrev = body.positionPrev.Add(delta)
	}
	body.position = position
	body.shiftParts(delta, 0)
	body.disturb()
}

// SetAngle rotates the body and its parts about the body position.
func (body *Body) SetAngle(angle float64, updateVelocity bool) {
	delta := angle - body.angle
	if updateVelocity {
		body.anglePrev = body.angle
		body.angularVelocity = delta
		body.angularSpeed = math.Abs(delta)
	} else {
		body.anglePrev += delta
	}
	body.angle = angle
	body.shiftParts(Vector{}, delta)
	body.disturb()
}

func (body *Body) SetVelocity(velocity Vector) {
	if body.isStatic {
		return
	}
	body.positionPrev = body.position.Sub(velocity)
	body.velocity = velocity
	body.speed = velocity.Length()
	body.disturb()
}

func (body *Body) SetAngularVelocity(velocity float64) {
	if body.isStatic {
		return
	}
	body.anglePrev = body.angle - velocity
	body.angularVelocity = velocity
	body.angularSpeed = math.Abs(velocity)
	body.disturb()
}

// SetSpeed keeps the direction of travel.
func (body *Body) SetSpeed(speed float64) {
	body.SetVelocity(body.velocity.Normalize().Mult(speed))
}

func (body *Body) SetAngularSpeed(speed float64) {
	body.SetAngularVelocity(sign(body.angularVelocity) * speed)
}

func (body *Body) Translate(translation Vector, updateVelocity bool) {
	body.SetPosition(body.position.Add(translation), updateVelocity)
}

// Rotate turns the body by rotation radians, about point when given.
func (body *Body) Rotate(rotation float64, point *Vector, updateVelocity bool) {
	if point == nil {
		body.SetAngle(body.angle+rotation, updateVelocity)
		return
	}
	body.SetPosition(body.position.RotateAbout(rotation, *point), updateVelocity)
	body.SetAngle(body.angle+rotation, updateVelocity)
}

// ApplyForce accumulates a force applied at a world position, including the torque it
// produces about the centre of mass. Accumulators are cleared after every step.
func (body *Body) ApplyForce(position, force Vector) {
	body.force = body.force.Add(force)
	offset := position.Sub(body.position)
	body.torque += offset.Cross(force)
}

// Update integrates the body forward with position Verlet. deltaTime is in
// milliseconds, correction rescales the implicit velocity when the step size changes.
func (body *Body) Update(deltaTime, timeScale, correction float64) {
	scale := timeScale * body.TimeScale
	deltaTimeSquared := math.Pow(deltaTime*scale, 2)
	frictionAir := 1 - body.FrictionAir*scale

	velocityPrev := body.position.Sub(body.positionPrev)
	body.velocity = velocityPrev.Mult(frictionAir * correction).Add(body.force.Mult(body.invMass * deltaTimeSquared))
	body.positionPrev = body.position
	body.position = body.position.Add(body.velocity)

	body.angularVelocity = (body.angle-body.anglePrev)*frictionAir*correction + body.torque*body.invInertia*deltaTimeSquared
	body.anglePrev = body.angle
	body.angle += body.angularVelocity

	body.speed = body.velocity.Length()
	body.angularSpeed = math.Abs(body.angularVelocity)
	body.deltaTime = deltaTime * scale

	body.shiftParts(body.velocity, body.angularVelocity)
}

// syncVelocity refreshes the reported velocity after the solver moved positionPrev.
func (body *Body) syncVelocity() {
	body.velocity = body.position.Sub(body.positionPrev)
	body.speed = body.velocity.Length()
	body.angularVelocity = body.angle - body.anglePrev
	body.angularSpeed = math.Abs(body.angularVelocity)
}

// shiftParts carries every part's geometry along after the body position or angle was
// changed by translation and rotation (about the new body position).
func (body *Body) shiftParts(translation Vector, rotation float64) {
	for i, part := range body.parts {
		if translation != (Vector{}) {
			TranslateVertices(part.vertices, translation)
			if i > 0 {
				part.position = part.position.Add(translation)
				part.positionPrev = part.position
			}
		}
		if rotation != 0 {
			RotateVertices(part.vertices, rotation, body.position)
			rotateAxes(part.axes, rotation)
			if i > 0 {
				part.position = part.position.RotateAbout(rotation, body.position)
				part.angle += rotation
			}
		}
		part.bounds.Update(part.vertices, body.velocity)
	}
	body.updateCompoundBounds()
}

func (body *Body) updateCompoundBounds() {
	if len(body.parts) < 2 {
		return
	}
	b := body.parts[1].bounds
	for _, part := range body.parts[2:] {
		b = b.Merge(part.bounds)
	}
	body.bounds = body.bounds.Merge(b)
}

func (body *Body) disturb() {
	if body.isSleeping {
		body.disturbed = true
	}
}
