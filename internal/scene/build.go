package scene

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jakecoffman/rigid"
)

// Build creates an engine holding every body and constraint of the scene. Bodies are
// added to the world in file order, so ids follow the file.
func (s *Scene) Build(logger *slog.Logger) (*rigid.Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts, err := s.Engine.options(logger)
	if err != nil {
		return nil, err
	}
	engine := rigid.NewEngine(opts...)
	world := engine.World()
	if b := s.Engine.Bounds; b != nil {
		world.SetBounds(rigid.Bounds{Min: b.Min.Vector(), Max: b.Max.Vector()})
	}

	byLabel := map[string]*rigid.Body{}
	for i := range s.Bodies {
		spec := &s.Bodies[i]
		bodies, err := spec.buildAll(&s.Defaults)
		if err != nil {
			return nil, fmt.Errorf("body %d (%q): %w", i, spec.Label, err)
		}
		for _, body := range bodies {
			if err := world.Add(body); err != nil {
				return nil, fmt.Errorf("body %d (%q): %w", i, spec.Label, err)
			}
			if _, ok := byLabel[body.Label()]; !ok {
				byLabel[body.Label()] = body
			}
		}
	}

	for i := range s.Constraints {
		spec := &s.Constraints[i]
		c, err := spec.build(byLabel)
		if err != nil {
			return nil, fmt.Errorf("constraint %d (%q): %w", i, spec.Label, err)
		}
		if err := world.Add(c); err != nil {
			return nil, fmt.Errorf("constraint %d (%q): %w", i, spec.Label, err)
		}
	}

	logger.Debug("scene built",
		"bodies", len(world.AllBodies()),
		"constraints", len(world.AllConstraints()),
		"broadphase", s.Engine.Broadphase.Kind)
	return engine, nil
}

func (c *EngineConfig) options(logger *slog.Logger) ([]rigid.EngineOption, error) {
	opts := []rigid.EngineOption{
		rigid.WithLogger(logger),
		rigid.WithIterations(c.PositionIterations, c.VelocityIterations),
		rigid.WithConstraintIterations(c.ConstraintIterations),
		rigid.WithSleeping(c.Sleeping),
		rigid.WithEngineTimeScale(c.TimeScale),
		rigid.WithGravity(rigid.Gravity{X: c.Gravity.X, Y: c.Gravity.Y, Scale: c.Gravity.Scale}),
	}
	switch c.Broadphase.Kind {
	case "", "grid":
		grid := rigid.NewGrid()
		if c.Broadphase.BucketSize > 0 {
			grid.BucketWidth = c.Broadphase.BucketSize
			grid.BucketHeight = c.Broadphase.BucketSize
		}
		grid.Adaptive = c.Broadphase.Adaptive
		opts = append(opts, rigid.WithBroadphase(grid))
	case "tree":
		tree := rigid.NewTree()
		if c.Broadphase.Margin > 0 {
			tree.Margin = c.Broadphase.Margin
		}
		opts = append(opts, rigid.WithBroadphase(tree))
	case "brute":
		opts = append(opts, rigid.WithBroadphase(rigid.NewBruteForce()))
	default:
		return nil, fmt.Errorf("broadphase %q: %w", c.Broadphase.Kind, ErrUnknownBroadphase)
	}
	return opts, nil
}

// buildAll expands Repeat into individual bodies labelled label-0, label-1, ...
func (b *Body) buildAll(defaults *Material) ([]*rigid.Body, error) {
	if b.Repeat == nil {
		body, err := b.build(defaults, b.Position.Vector(), b.Label)
		if err != nil {
			return nil, err
		}
		return []*rigid.Body{body}, nil
	}

	r := b.Repeat
	var bodies []*rigid.Body
	origin := b.Position.Vector()
	for row := 0; row < r.Rows; row++ {
		columns := r.Columns
		offset := 0.0
		if r.Pyramid {
			columns -= row
			offset = float64(row) * r.Spacing[0] / 2
		}
		for col := 0; col < columns; col++ {
			x := origin.X + offset + float64(col)*r.Spacing[0]
			position := rigid.Vector{X: x, Y: origin.Y - float64(row)*r.Spacing[1]}
			body, err := b.build(defaults, position, b.Label+"-"+strconv.Itoa(len(bodies)))
			if err != nil {
				return nil, err
			}
			bodies = append(bodies, body)
		}
	}
	return bodies, nil
}

func (b *Body) build(defaults *Material, position rigid.Vector, label string) (*rigid.Body, error) {
	opts := b.options(defaults, position, label)
	if b.Shape == "compound" {
		if len(b.Parts) == 0 {
			return nil, fmt.Errorf("compound without parts: %w", rigid.ErrEmptyVertices)
		}
		parts := make([]*rigid.Body, 0, len(b.Parts))
		for i := range b.Parts {
			part := &b.Parts[i]
			p, err := part.build(defaults, part.Position.Vector(), part.Label)
			if err != nil {
				return nil, fmt.Errorf("part %d: %w", i, err)
			}
			parts = append(parts, p)
		}
		return rigid.NewCompoundBody(parts, true, opts...)
	}

	vertices, err := b.vertices()
	if err != nil {
		return nil, err
	}
	return rigid.NewBody(vertices, opts...)
}

func (b *Body) vertices() ([]rigid.Vector, error) {
	switch b.Shape {
	case "rectangle":
		if b.Width <= 0 || b.Height <= 0 {
			return nil, fmt.Errorf("rectangle %vx%v: %w", b.Width, b.Height, ErrInvalidShape)
		}
		return rigid.Rectangle(b.Width, b.Height), nil
	case "trapezoid":
		if b.Width <= 0 || b.Height <= 0 {
			return nil, fmt.Errorf("trapezoid %vx%v: %w", b.Width, b.Height, ErrInvalidShape)
		}
		return rigid.Trapezoid(b.Width, b.Height, b.Slope), nil
	case "polygon":
		if b.Radius <= 0 || b.Sides < 3 {
			return nil, fmt.Errorf("polygon radius %v sides %v: %w", b.Radius, b.Sides, ErrInvalidShape)
		}
		return rigid.RegularPolygon(b.Sides, b.Radius), nil
	case "circle":
		if b.Radius <= 0 {
			return nil, fmt.Errorf("circle radius %v: %w", b.Radius, ErrInvalidShape)
		}
		return rigid.Circle(b.Radius, b.Sides), nil
	case "vertices":
		vertices := make([]rigid.Vector, len(b.Vertices))
		for i, p := range b.Vertices {
			vertices[i] = p.Vector()
		}
		return vertices, nil
	}
	return nil, fmt.Errorf("%q: %w", b.Shape, ErrUnknownShape)
}

func (b *Body) options(d *Material, position rigid.Vector, label string) []rigid.BodyOption {
	or := func(v *float64, def float64) float64 {
		if v != nil {
			return *v
		}
		return def
	}
	opts := []rigid.BodyOption{
		rigid.WithLabel(label),
		rigid.WithPosition(position),
		rigid.WithAngle(b.Angle),
		rigid.WithVelocity(b.Velocity.Vector()),
		rigid.WithAngularVelocity(b.AngularVelocity),
		rigid.WithDensity(or(b.Density, d.Density)),
		rigid.WithFriction(or(b.Friction, d.Friction)),
		rigid.WithFrictionStatic(or(b.FrictionStatic, d.FrictionStatic)),
		rigid.WithFrictionAir(or(b.FrictionAir, d.FrictionAir)),
		rigid.WithRestitution(or(b.Restitution, d.Restitution)),
		rigid.WithSlop(or(b.Slop, d.Slop)),
		rigid.WithSleepThreshold(d.SleepThreshold),
	}
	if b.SleepThreshold != nil {
		opts = append(opts, rigid.WithSleepThreshold(*b.SleepThreshold))
	}
	if b.Mass != nil {
		opts = append(opts, rigid.WithMass(*b.Mass))
	}
	if len(b.Chamfer) > 0 {
		opts = append(opts, rigid.WithChamfer(b.Chamfer...))
	}
	if b.Filter != nil {
		opts = append(opts, rigid.WithFilter(rigid.Filter{Group: b.Filter.Group, Category: b.Filter.Category, Mask: b.Filter.Mask}))
	}
	if b.Sensor {
		opts = append(opts, rigid.WithSensor())
	}
	if b.Static {
		opts = append(opts, rigid.WithStatic())
	}
	return opts
}

func (c *Constraint) build(byLabel map[string]*rigid.Body) (*rigid.Constraint, error) {
	lookup := func(label string) (*rigid.Body, error) {
		if label == "" {
			return nil, nil
		}
		body, ok := byLabel[label]
		if !ok {
			return nil, fmt.Errorf("%q: %w", label, ErrUnknownBody)
		}
		return body, nil
	}
	bodyA, err := lookup(c.BodyA)
	if err != nil {
		return nil, err
	}
	bodyB, err := lookup(c.BodyB)
	if err != nil {
		return nil, err
	}

	var opts []rigid.ConstraintOption
	if c.Label != "" {
		opts = append(opts, rigid.WithConstraintLabel(c.Label))
	}
	if c.Length != nil {
		opts = append(opts, rigid.WithLength(*c.Length))
	}
	if c.Stiffness != 0 {
		opts = append(opts, rigid.WithStiffness(c.Stiffness))
	}
	opts = append(opts, rigid.WithDamping(c.Damping), rigid.WithAngularStiffness(c.AngularStiffness))
	return rigid.NewConstraint(bodyA, bodyB, c.PointA.Vector(), c.PointB.Vector(), opts...)
}
