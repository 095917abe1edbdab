package rigid

// ContactID names a contact by the part and vertex that produced it, so the same
// vertex touching across steps keeps its cached impulses.
type ContactID struct {
	Body  int
	Index int
}

type Contact struct {
	ID ContactID

	body  *Body
	index int
	point Vector

	NormalImpulse  float64
	TangentImpulse float64
}

func newContact(s Support) *Contact {
	return &Contact{
		ID:    ContactID{Body: s.Body.id, Index: s.Index},
		body:  s.Body,
		index: s.Index,
		point: s.Point,
	}
}

// Vertex is the current world position of the contact vertex.
func (c *Contact) Vertex() Vector {
	if c.index < len(c.body.vertices) {
		return c.body.vertices[c.index]
	}
	return c.point
}
