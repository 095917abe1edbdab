package rigid

import (
	"fmt"
)

// PairID identifies an unordered pair of parts. A is always the smaller id.
type PairID struct {
	A, B int
}

func NewPairID(a, b *Body) PairID {
	if a.id < b.id {
		return PairID{a.id, b.id}
	}
	return PairID{b.id, a.id}
}

func (id PairID) String() string {
	return fmt.Sprintf("%d_%d", id.A, id.B)
}

// Pair is the persistent record of two parts in contact. It outlives a single step so
// contact impulses can be warm started.
type Pair struct {
	ID           PairID
	BodyA, BodyB *Body
	Collision    *Collision

	Contacts       map[ContactID]*Contact
	ActiveContacts []*Contact

	Separation float64

	IsActive        bool
	IsSensor        bool
	confirmedActive bool

	TimeCreated float64
	TimeUpdated float64

	InverseMass    float64
	Friction       float64
	FrictionStatic float64
	Restitution    float64
	Slop           float64
}

func (p Pair) String() string {
	return fmt.Sprint("Pair ", p.ID, " active=", p.IsActive)
}

func newPair(collision *Collision, timestamp float64) *Pair {
	pair := &Pair{
		ID:              NewPairID(collision.BodyA, collision.BodyB),
		BodyA:           collision.BodyA,
		BodyB:           collision.BodyB,
		Contacts:        map[ContactID]*Contact{},
		IsActive:        true,
		confirmedActive: true,
		IsSensor:        collision.BodyA.IsSensor || collision.BodyB.IsSensor || collision.ParentA.IsSensor || collision.ParentB.IsSensor,
		TimeCreated:     timestamp,
		TimeUpdated:     timestamp,
	}
	pair.update(collision, timestamp)
	return pair
}

// update takes the latest collision and rebuilds the active contacts, reusing contacts
// whose vertex touched last time.
func (pair *Pair) update(collision *Collision, timestamp float64) {
	pair.Collision = collision
	if collision.ParentA != nil && collision.ParentB != nil {
		pair.InverseMass = collision.ParentA.invMass + collision.ParentB.invMass
		pair.Friction = collision.Friction
		pair.FrictionStatic = collision.FrictionStatic
		pair.Restitution = collision.Restitution
		pair.Slop = collision.Slop
	}

	pair.ActiveContacts = pair.ActiveContacts[:0]
	if !collision.Collided {
		if pair.IsActive {
			pair.setActive(false, timestamp)
		}
		return
	}

	for _, support := range collision.Supports {
		id := ContactID{Body: support.Body.id, Index: support.Index}
		contact, ok := pair.Contacts[id]
		if !ok {
			contact = newContact(support)
			pair.Contacts[id] = contact
		}
		pair.ActiveContacts = append(pair.ActiveContacts, contact)
	}
	pair.Separation = collision.Depth
	pair.setActive(true, timestamp)
}

func (pair *Pair) setActive(isActive bool, timestamp float64) {
	if isActive {
		pair.IsActive = true
		pair.TimeUpdated = timestamp
		return
	}
	pair.IsActive = false
	pair.ActiveContacts = pair.ActiveContacts[:0]
}

// sleeping reports whether the pair rests between bodies that are asleep or static.
func (pair *Pair) sleeping() bool {
	a, b := pair.BodyA.parent, pair.BodyB.parent
	return (a.isSleeping || b.isSleeping) && (a.isSleeping || a.isStatic) && (b.isSleeping || b.isStatic)
}
