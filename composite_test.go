package rigid

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestComposite_AddAssignsIDs(t *testing.T) {
	world := NewWorld()
	if world.ID() != 1 {
		t.Errorf("Expected world id 1 got %v", world.ID())
	}
	a := newBox(t, 10, 10)
	b := newBox(t, 10, 10)
	if err := world.Add(a, b); err != nil {
		t.Fatal(err)
	}
	if a.ID() != 2 || b.ID() != 3 {
		t.Errorf("Expected ids 2 and 3, got %v and %v", a.ID(), b.ID())
	}
	if a.Composite() != &world.Composite {
		t.Error("Expected body to know its composite")
	}
	if !world.IsModified() {
		t.Error("Expected world to be modified")
	}
}

func TestComposite_AddErrors(t *testing.T) {
	world := NewWorld()
	body := newBox(t, 10, 10)
	if err := world.Add(body); err != nil {
		t.Fatal(err)
	}

	other := NewComposite("other")
	if err := other.Add(body); !errors.Is(err, ErrAlreadyOwned) {
		t.Errorf("Expected ErrAlreadyOwned, got %v", err)
	}

	fresh := newBox(t, 10, 10)
	if err := other.Add(fresh, fresh); !errors.Is(err, ErrAlreadyOwned) {
		t.Errorf("Expected ErrAlreadyOwned for duplicate, got %v", err)
	}
	if fresh.Composite() != nil || len(other.Bodies()) != 0 {
		t.Error("A failed add must not attach anything")
	}

	if err := other.Add(other); !errors.Is(err, ErrSelfReference) {
		t.Errorf("Expected ErrSelfReference, got %v", err)
	}
	child := NewComposite("child")
	if err := other.Add(child); err != nil {
		t.Fatal(err)
	}
	if err := child.Add(other); !errors.Is(err, ErrSelfReference) {
		t.Errorf("Expected ErrSelfReference for a cycle, got %v", err)
	}

	left := newBox(t, 10, 10)
	compound, err := NewCompoundBody([]*Body{left}, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Add(left); !errors.Is(err, ErrAlreadyOwned) {
		t.Errorf("Expected parts of a compound to be rejected, got %v", err)
	}
	if err := other.Add(compound); err != nil {
		t.Errorf("Expected compound to be accepted, got %v", err)
	}
}

func TestComposite_Tree(t *testing.T) {
	world := NewWorld()
	stack := NewComposite("stack")
	a := newBox(t, 10, 10)
	b := newBox(t, 10, 10)
	if err := stack.Add(a, b); err != nil {
		t.Fatal(err)
	}
	if a.ID() != 0 {
		t.Error("Detached composites do not assign ids")
	}
	c, err := NewConstraint(a, b, Vector{}, Vector{})
	if err != nil {
		t.Fatal(err)
	}
	if err := stack.Add(c); err != nil {
		t.Fatal(err)
	}
	if err := world.Add(stack); err != nil {
		t.Fatal(err)
	}
	if stack.ID() == 0 || a.ID() == 0 || c.ID() == 0 {
		t.Error("Attaching to a world must assign ids to the whole tree")
	}
	if stack.World() != world {
		t.Error("Expected stack to find its world")
	}

	if n := len(world.AllBodies()); n != 2 {
		t.Errorf("Expected 2 bodies got %d", n)
	}
	if n := len(world.AllConstraints()); n != 1 {
		t.Errorf("Expected 1 constraint got %d", n)
	}

	got, err := world.Get(b.ID(), KindBody)
	if err != nil || got != b {
		t.Errorf("Expected to find body %v, got %v %v", b.ID(), got, err)
	}
	if _, err := world.Get(999, KindBody); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound got %v", err)
	}

	d := newBox(t, 10, 10)
	if err := stack.Add(d); err != nil {
		t.Fatal(err)
	}
	if n := len(world.AllBodies()); n != 3 {
		t.Errorf("Expected the world cache to refresh, got %d bodies", n)
	}

	if err := world.Remove(a, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("Shallow remove must not search children, got %v", err)
	}
	if err := world.Remove(a, true); err != nil {
		t.Fatal(err)
	}
	if a.Composite() != nil || len(world.AllBodies()) != 2 {
		t.Error("Expected body to be removed")
	}
}

func TestComposite_Move(t *testing.T) {
	world := NewWorld()
	from := NewComposite("from")
	to := NewComposite("to")
	if err := world.Add(from, to); err != nil {
		t.Fatal(err)
	}
	body := newBox(t, 10, 10)
	if err := from.Add(body); err != nil {
		t.Fatal(err)
	}
	id := body.ID()
	if err := from.Move([]Object{body}, to); err != nil {
		t.Fatal(err)
	}
	if body.Composite() != to || len(from.Bodies()) != 0 {
		t.Error("Expected body to move")
	}
	if body.ID() != id {
		t.Error("Moving must keep ids")
	}
	if err := from.Move([]Object{body}, to); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestComposite_Clear(t *testing.T) {
	world := NewWorld()
	ground := newBox(t, 100, 10, WithStatic())
	box := newBox(t, 10, 10)
	child := NewComposite("child")
	if err := world.Add(ground, box, child); err != nil {
		t.Fatal(err)
	}
	world.Clear(true, false)
	if len(world.Bodies()) != 1 || world.Bodies()[0] != ground {
		t.Error("Expected only the static body to remain")
	}
	if len(world.Composites()) != 0 || child.Parent() != nil {
		t.Error("Expected child composites to be detached")
	}
	world.Clear(false, true)
	if len(world.AllBodies()) != 0 {
		t.Error("Expected an empty world")
	}
}

func TestComposite_Transform(t *testing.T) {
	c := NewComposite("")
	a := newBox(t, 10, 10, WithPosition(Vector{10, 0}))
	b := newBox(t, 10, 10, WithPosition(Vector{-10, 0}))
	if err := c.Add(a, b); err != nil {
		t.Fatal(err)
	}

	c.Translate(Vector{0, 5}, true)
	if a.Position() != (Vector{10, 5}) {
		t.Errorf("Expected 10,5 got %v", a.Position())
	}

	c.Rotate(math.Pi, Vector{0, 5}, true)
	if !near(a.Position(), Vector{-10, 5}, 1e-9) {
		t.Errorf("Expected -10,5 got %v", a.Position())
	}

	c.Scale(2, 2, Vector{0, 5}, true)
	if !near(b.Position(), Vector{20, 5}, 1e-9) {
		t.Errorf("Expected 20,5 got %v", b.Position())
	}
	if !scalar.EqualWithinAbs(b.Area(), 400, 1e-9) {
		t.Errorf("Expected area 400 got %v", b.Area())
	}

	bounds := c.Bounds()
	if bounds.Min.X > -29.9 || bounds.Max.X < 29.9 {
		t.Errorf("Expected bounds to cover both bodies, got %v", bounds)
	}
}

func TestComposite_Observers(t *testing.T) {
	world := NewWorld()
	var events []string
	handler := &CompositeHandler{
		BeforeAddFunc:    func(*Composite, []Object) { events = append(events, "beforeAdd") },
		AfterAddFunc:     func(*Composite, []Object) { events = append(events, "afterAdd") },
		BeforeRemoveFunc: func(*Composite, []Object) { events = append(events, "beforeRemove") },
		AfterRemoveFunc:  func(*Composite, []Object) { events = append(events, "afterRemove") },
	}
	world.observe(handler)

	body := newBox(t, 10, 10)
	if err := world.Add(body); err != nil {
		t.Fatal(err)
	}
	if err := world.Remove(body, false); err != nil {
		t.Fatal(err)
	}
	want := []string{"beforeAdd", "afterAdd", "beforeRemove", "afterRemove"}
	if len(events) != len(want) {
		t.Fatalf("Expected %v got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("Expected %v got %v", want, events)
		}
	}

	world.forget(handler)
	if err := world.Add(body); err != nil {
		t.Fatal(err)
	}
	if len(events) != len(want) {
		t.Error("Forgotten observers must not be called")
	}
}

func TestComposite_Rebase(t *testing.T) {
	world := NewWorld()
	body := newBox(t, 10, 10)
	if err := world.Add(body); err != nil {
		t.Fatal(err)
	}
	old := body.ID()
	world.Rebase()
	if body.ID() == old {
		t.Error("Expected a fresh id")
	}
	if world.IDs().NextID() <= body.ID() {
		t.Error("Expected the allocator to move past the new ids")
	}
}
