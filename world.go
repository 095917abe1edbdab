package rigid

// Gravity is the world acceleration. Bodies receive mass * (X, Y) * Scale of force
// every step.
type Gravity struct {
	X, Y, Scale float64
}

var DefaultGravity = Gravity{X: 0, Y: 1, Scale: 0.001}

// World is the root composite. It owns the id allocator and the composite observers.
type World struct {
	Composite

	Gravity Gravity

	bounds    Bounds
	hasBounds bool

	ids       *IDs
	observers []CompositeObserver
}

func NewWorld() *World {
	w := &World{
		Gravity: DefaultGravity,
		ids:     NewIDs(),
	}
	w.Composite.label = "World"
	w.Composite.world = w
	w.Composite.id = w.ids.NextID()
	return w
}

func (w *World) IDs() *IDs {
	return w.ids
}

// SetBounds limits the broadphase to bodies overlapping b.
func (w *World) SetBounds(b Bounds) {
	w.bounds = b
	w.hasBounds = true
	w.SetModified(true, false, false)
}

func (w *World) ClearBounds() {
	w.hasBounds = false
	w.SetModified(true, false, false)
}

// Bounds reports the world limits, if any were set.
func (w *World) Bounds() (Bounds, bool) {
	return w.bounds, w.hasBounds
}

// assignIDs gives obj and everything it contains an id. Without force only objects
// that have no id yet are numbered.
func (w *World) assignIDs(obj Object, force bool) {
	switch obj.Kind() {
	case KindBody:
		for _, part := range obj.(*Body).parts {
			if force || part.id == 0 {
				part.id = w.ids.NextID()
			}
		}
	case KindConstraint:
		constraint := obj.(*Constraint)
		if force || constraint.id == 0 {
			constraint.id = w.ids.NextID()
		}
	case KindComposite:
		c := obj.(*Composite)
		if force || c.id == 0 {
			c.id = w.ids.NextID()
		}
		for _, body := range c.bodies {
			w.assignIDs(body, force)
		}
		for _, constraint := range c.constraints {
			w.assignIDs(constraint, force)
		}
		for _, child := range c.composites {
			w.assignIDs(child, force)
		}
	}
}

func (w *World) observe(o CompositeObserver) {
	w.observers = append(w.observers, o)
}

func (w *World) forget(o CompositeObserver) {
	for i, existing := range w.observers {
		if existing == o {
			w.observers = append(w.observers[:i], w.observers[i+1:]...)
			return
		}
	}
}

func (w *World) emitBeforeAdd(c *Composite, objs []Object) {
	if w == nil {
		return
	}
	for _, o := range w.observers {
		o.BeforeAdd(c, objs)
	}
}

func (w *World) emitAfterAdd(c *Composite, objs []Object) {
	if w == nil {
		return
	}
	for _, o := range w.observers {
		o.AfterAdd(c, objs)
	}
}

func (w *World) emitBeforeRemove(c *Composite, objs []Object) {
	if w == nil {
		return
	}
	for _, o := range w.observers {
		o.BeforeRemove(c, objs)
	}
}

func (w *World) emitAfterRemove(c *Composite, objs []Object) {
	if w == nil {
		return
	}
	for _, o := range w.observers {
		o.AfterRemove(c, objs)
	}
}
