package rigid

import (
	"fmt"
)

// Kind tags the concrete type behind an Object.
type Kind int

const (
	KindBody Kind = iota
	KindConstraint
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindBody:
		return "body"
	case KindConstraint:
		return "constraint"
	case KindComposite:
		return "composite"
	}
	return fmt.Sprint("Kind(", int(k), ")")
}

// Object is anything a composite can hold.
type Object interface {
	ID() int
	Kind() Kind
	Label() string
}

// Composite is a tree node holding bodies, constraints and other composites. Each object
// belongs to at most one composite.
type Composite struct {
	id     int
	label  string
	parent *Composite
	world  *World

	bodies      []*Body
	constraints []*Constraint
	composites  []*Composite

	isModified bool

	cacheValid       bool
	cacheBodies      []*Body
	cacheConstraints []*Constraint
	cacheComposites  []*Composite
}

func NewComposite(label string) *Composite {
	if label == "" {
		label = "Composite"
	}
	return &Composite{label: label}
}

func (c *Composite) ID() int {
	return c.id
}

func (c *Composite) Kind() Kind {
	return KindComposite
}

func (c *Composite) Label() string {
	return c.label
}

func (c *Composite) SetLabel(label string) {
	c.label = label
}

func (c *Composite) Parent() *Composite {
	return c.parent
}

// Bodies returns the direct child bodies. The slice must not be modified.
func (c *Composite) Bodies() []*Body {
	return c.bodies
}

func (c *Composite) Constraints() []*Constraint {
	return c.constraints
}

func (c *Composite) Composites() []*Composite {
	return c.composites
}

func (c *Composite) IsModified() bool {
	return c.isModified
}

// World returns the world this composite is attached to, or nil.
func (c *Composite) World() *World {
	root := c
	for root.parent != nil {
		root = root.parent
	}
	return root.world
}

func (c *Composite) isAncestorOf(other *Composite) bool {
	for p := other; p != nil; p = p.parent {
		if p == c {
			return true
		}
	}
	return false
}

// canAdd checks ownership before anything is mutated.
func (c *Composite) canAdd(obj Object) error {
	switch obj.Kind() {
	case KindBody:
		body := obj.(*Body)
		if body.composite != nil || body.parent != body {
			return fmt.Errorf("add %v %q: %w", obj.Kind(), obj.Label(), ErrAlreadyOwned)
		}
	case KindConstraint:
		if obj.(*Constraint).composite != nil {
			return fmt.Errorf("add %v %q: %w", obj.Kind(), obj.Label(), ErrAlreadyOwned)
		}
	case KindComposite:
		child := obj.(*Composite)
		if child.isAncestorOf(c) {
			return fmt.Errorf("add %v %q: %w", obj.Kind(), obj.Label(), ErrSelfReference)
		}
		if child.parent != nil || child.world != nil {
			return fmt.Errorf("add %v %q: %w", obj.Kind(), obj.Label(), ErrAlreadyOwned)
		}
	default:
		return fmt.Errorf("add %v: %w", obj.Kind(), ErrNotFound)
	}
	return nil
}

// Add attaches objects to the composite. Either every object is added or none is.
func (c *Composite) Add(objs ...Object) error {
	for i, obj := range objs {
		if obj == nil {
			return fmt.Errorf("add object %d: %w", i, ErrNotFound)
		}
		if err := c.canAdd(obj); err != nil {
			return err
		}
		for _, other := range objs[:i] {
			if other == obj {
				return fmt.Errorf("add %v %q twice: %w", obj.Kind(), obj.Label(), ErrAlreadyOwned)
			}
		}
	}

	world := c.World()
	world.emitBeforeAdd(c, objs)
	for _, obj := range objs {
		switch obj.Kind() {
		case KindBody:
			body := obj.(*Body)
			body.composite = c
			c.bodies = append(c.bodies, body)
		case KindConstraint:
			constraint := obj.(*Constraint)
			constraint.composite = c
			c.constraints = append(c.constraints, constraint)
		case KindComposite:
			child := obj.(*Composite)
			child.parent = c
			c.composites = append(c.composites, child)
		}
		if world != nil {
			world.assignIDs(obj, false)
		}
	}
	c.SetModified(true, true, false)
	world.emitAfterAdd(c, objs)
	return nil
}

// Remove detaches obj. With deep the search continues into child composites.
func (c *Composite) Remove(obj Object, deep bool) error {
	owner := c.find(obj, deep)
	if owner == nil {
		return fmt.Errorf("remove %v %q: %w", obj.Kind(), obj.Label(), ErrNotFound)
	}
	objs := []Object{obj}
	world := c.World()
	world.emitBeforeRemove(owner, objs)
	owner.detach(obj)
	owner.SetModified(true, true, false)
	world.emitAfterRemove(owner, objs)
	return nil
}

func (c *Composite) find(obj Object, deep bool) *Composite {
	switch obj.Kind() {
	case KindBody:
		if body, ok := obj.(*Body); ok && body.composite != nil && (body.composite == c || deep && c.isAncestorOf(body.composite)) {
			return body.composite
		}
	case KindConstraint:
		if con, ok := obj.(*Constraint); ok && con.composite != nil && (con.composite == c || deep && c.isAncestorOf(con.composite)) {
			return con.composite
		}
	case KindComposite:
		if child, ok := obj.(*Composite); ok && child.parent != nil && (child.parent == c || deep && c.isAncestorOf(child.parent)) {
			return child.parent
		}
	}
	return nil
}

func (c *Composite) detach(obj Object) {
	switch obj.Kind() {
	case KindBody:
		body := obj.(*Body)
		for i, b := range c.bodies {
			if b == body {
				c.bodies = append(c.bodies[:i], c.bodies[i+1:]...)
				break
			}
		}
		body.composite = nil
	case KindConstraint:
		constraint := obj.(*Constraint)
		for i, con := range c.constraints {
			if con == constraint {
				c.constraints = append(c.constraints[:i], c.constraints[i+1:]...)
				break
			}
		}
		constraint.composite = nil
	case KindComposite:
		child := obj.(*Composite)
		for i, comp := range c.composites {
			if comp == child {
				c.composites = append(c.composites[:i], c.composites[i+1:]...)
				break
			}
		}
		child.parent = nil
	}
}

// Move takes objs out of c and adds them to to.
func (c *Composite) Move(objs []Object, to *Composite) error {
	for _, obj := range objs {
		if c.find(obj, false) == nil {
			return fmt.Errorf("move %v %q: %w", obj.Kind(), obj.Label(), ErrNotFound)
		}
	}
	for _, obj := range objs {
		if err := c.Remove(obj, false); err != nil {
			return err
		}
	}
	return to.Add(objs...)
}

// Clear removes every child. With keepStatic static bodies stay; with deep child
// composites are cleared first.
func (c *Composite) Clear(keepStatic, deep bool) {
	if deep {
		for _, child := range c.composites {
			child.Clear(keepStatic, true)
		}
	}

	kept := c.bodies[:0]
	for _, body := range c.bodies {
		if keepStatic && body.isStatic {
			kept = append(kept, body)
			continue
		}
		body.composite = nil
	}
	for i := len(kept); i < len(c.bodies); i++ {
		c.bodies[i] = nil
	}
	c.bodies = kept

	for _, constraint := range c.constraints {
		constraint.composite = nil
	}
	c.constraints = nil
	for _, child := range c.composites {
		child.parent = nil
	}
	c.composites = nil
	c.SetModified(true, true, false)
}

// SetModified flags the composite, and optionally its ancestors and descendants. The
// flattened caches of the composite and every ancestor are dropped when flagging.
func (c *Composite) SetModified(isModified, updateParents, updateChildren bool) {
	c.isModified = isModified
	if isModified {
		for p := c; p != nil; p = p.parent {
			p.cacheValid = false
		}
	}
	if updateParents && c.parent != nil {
		c.parent.SetModified(isModified, true, false)
	}
	if updateChildren {
		for _, child := range c.composites {
			child.SetModified(isModified, false, true)
		}
	}
}

func (c *Composite) refreshCache() {
	if c.cacheValid {
		return
	}
	c.cacheBodies = append(c.cacheBodies[:0], c.bodies...)
	c.cacheConstraints = append(c.cacheConstraints[:0], c.constraints...)
	c.cacheComposites = append(c.cacheComposites[:0], c.composites...)
	for _, child := range c.composites {
		c.cacheBodies = append(c.cacheBodies, child.AllBodies()...)
		c.cacheConstraints = append(c.cacheConstraints, child.AllConstraints()...)
		c.cacheComposites = append(c.cacheComposites, child.AllComposites()...)
	}
	c.cacheValid = true
}

// AllBodies returns every body in the tree. The result is cached until the composite
// is modified and must not be changed by the caller.
func (c *Composite) AllBodies() []*Body {
	c.refreshCache()
	return c.cacheBodies
}

func (c *Composite) AllConstraints() []*Constraint {
	c.refreshCache()
	return c.cacheConstraints
}

func (c *Composite) AllComposites() []*Composite {
	c.refreshCache()
	return c.cacheComposites
}

// Get finds an object of the given kind by id anywhere in the tree.
func (c *Composite) Get(id int, kind Kind) (Object, error) {
	switch kind {
	case KindBody:
		for _, body := range c.AllBodies() {
			if body.id == id {
				return body, nil
			}
		}
	case KindConstraint:
		for _, constraint := range c.AllConstraints() {
			if constraint.id == id {
				return constraint, nil
			}
		}
	case KindComposite:
		if c.id == id {
			return c, nil
		}
		for _, comp := range c.AllComposites() {
			if comp.id == id {
				return comp, nil
			}
		}
	}
	return nil, fmt.Errorf("get %v %d: %w", kind, id, ErrNotFound)
}

func (c *Composite) bodiesFor(recursive bool) []*Body {
	if recursive {
		return c.AllBodies()
	}
	return c.bodies
}

func (c *Composite) Translate(translation Vector, recursive bool) {
	for _, body := range c.bodiesFor(recursive) {
		body.Translate(translation, false)
	}
	c.SetModified(true, true, false)
}

// Rotate turns every body about point, keeping their relative arrangement.
func (c *Composite) Rotate(rotation float64, point Vector, recursive bool) {
	for _, body := range c.bodiesFor(recursive) {
		body.Rotate(rotation, &point, false)
	}
	c.SetModified(true, true, false)
}

// Scale stretches the arrangement about point and scales every body in place.
func (c *Composite) Scale(scaleX, scaleY float64, point Vector, recursive bool) {
	t := NewTransformScaleAbout(scaleX, scaleY, point)
	for _, body := range c.bodiesFor(recursive) {
		body.SetPosition(t.Point(body.position), false)
		body.Scale(scaleX, scaleY, nil)
	}
	c.SetModified(true, true, false)
}

// Bounds is the union of the bounds of every body in the tree.
func (c *Composite) Bounds() Bounds {
	bodies := c.AllBodies()
	if len(bodies) == 0 {
		return Bounds{}
	}
	b := bodies[0].bounds
	for _, body := range bodies[1:] {
		b = b.Merge(body.bounds)
	}
	return b
}

// Rebase issues fresh ids to every object in the tree from the world allocator. It does
// nothing for a detached composite.
func (c *Composite) Rebase() {
	world := c.World()
	if world == nil {
		return
	}
	world.assignIDs(c, true)
	c.SetModified(true, true, false)
}
