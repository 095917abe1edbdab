package rigid

// Draw flags
const (
	DrawBodies = 1 << iota
	DrawConstraints
	DrawContacts
	DrawBounds
)

type FColor struct {
	R, G, B, A float32
}

// Drawer renders debug geometry. DrawEngine only reads engine state.
type Drawer interface {
	DrawPolygon(vertices []Vector, outline, fill FColor)
	DrawSegment(a, b Vector, color FColor)
	DrawDot(size float64, pos Vector, color FColor)

	Flags() int
	OutlineColor() FColor
	BodyColor(body *Body) FColor
	ConstraintColor() FColor
	CollisionPointColor() FColor
}

// DrawBody draws every part of body, or the body itself when it has no parts.
func DrawBody(body *Body, options Drawer) {
	outline := options.OutlineColor()
	fill := options.BodyColor(body)
	for i := firstPart(body); i < len(body.parts); i++ {
		options.DrawPolygon(body.parts[i].vertices, outline, fill)
	}
}

func DrawConstraint(constraint *Constraint, options Drawer) {
	color := options.ConstraintColor()
	a := constraint.PointAWorld()
	b := constraint.PointBWorld()
	options.DrawSegment(a, b, color)
	options.DrawDot(3, a, color)
	options.DrawDot(3, b, color)
}

func drawBounds(b Bounds, options Drawer) {
	color := options.OutlineColor()
	corners := []Vector{b.Min, {b.Max.X, b.Min.Y}, b.Max, {b.Min.X, b.Max.Y}}
	for i := range corners {
		options.DrawSegment(corners[i], corners[(i+1)%4], color)
	}
}

func DrawEngine(engine *Engine, options Drawer) {
	flags := options.Flags()
	world := engine.World()

	if flags&DrawBodies != 0 {
		for _, body := range world.AllBodies() {
			DrawBody(body, options)
		}
	}

	if flags&DrawBounds != 0 {
		for _, body := range world.AllBodies() {
			drawBounds(body.bounds, options)
		}
	}

	if flags&DrawConstraints != 0 {
		for _, constraint := range world.AllConstraints() {
			DrawConstraint(constraint, options)
		}
	}

	if flags&DrawContacts != 0 {
		color := options.CollisionPointColor()
		for _, pair := range engine.Pairs().List() {
			if !pair.IsActive {
				continue
			}
			for _, contact := range pair.ActiveContacts {
				options.DrawDot(2, contact.Vertex(), color)
			}
		}
	}
}
