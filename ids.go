package rigid

// IDs hands out identifiers, collision categories and collision groups. A World owns
// one allocator; a new engine starts counting from scratch.
type IDs struct {
	nextID       int
	nextCategory uint32
	nextGroup    int
	nextNegGroup int
}

func NewIDs() *IDs {
	return &IDs{nextID: 1, nextCategory: 0x0001, nextGroup: 1, nextNegGroup: -1}
}

func (ids *IDs) NextID() int {
	id := ids.nextID
	ids.nextID++
	return id
}

// NextCategory returns the next unused category bit after the default 0x0001.
// Once all 32 bits are used it keeps returning the last one.
func (ids *IDs) NextCategory() uint32 {
	if ids.nextCategory < 1<<31 {
		ids.nextCategory <<= 1
	}
	return ids.nextCategory
}

// NextGroup returns a fresh group index. Non-colliding groups are negative.
func (ids *IDs) NextGroup(nonColliding bool) int {
	if nonColliding {
		g := ids.nextNegGroup
		ids.nextNegGroup--
		return g
	}
	g := ids.nextGroup
	ids.nextGroup++
	return g
}
