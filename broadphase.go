package rigid

// Broadphase finds pairs of bodies whose bounds may overlap. Narrowphase tests every
// candidate it returns, so a broadphase may report false positives but never miss a
// pair whose bounds overlap.
type Broadphase interface {
	// Update brings the index up to date with the current body bounds. forceUpdate
	// re-inserts every body, including sleeping ones.
	Update(bodies []*Body, world *World, forceUpdate bool)
	Clear()
	Candidates() []*GridPair
}

// GridPair is a broadphase candidate. Count is the number of cells the bodies share.
type GridPair struct {
	A, B  *Body
	Count int
}

func outsideWorld(body *Body, world *World) bool {
	if world == nil {
		return false
	}
	b, ok := world.Bounds()
	return ok && body.bounds.Outside(b)
}

// BruteForce tests every body against every other. It is O(n²) and exists as a
// reference for the grid.
type BruteForce struct {
	candidates []*GridPair
}

func NewBruteForce() *BruteForce {
	return &BruteForce{}
}

func (bf *BruteForce) Update(bodies []*Body, world *World, forceUpdate bool) {
	bf.candidates = bf.candidates[:0]
	for i, a := range bodies {
		if outsideWorld(a, world) {
			continue
		}
		for _, b := range bodies[i+1:] {
			if a.isStatic && b.isStatic {
				continue
			}
			if outsideWorld(b, world) {
				continue
			}
			if a.bounds.Overlaps(b.bounds) {
				if b.id < a.id {
					bf.candidates = append(bf.candidates, &GridPair{A: b, B: a, Count: 1})
				} else {
					bf.candidates = append(bf.candidates, &GridPair{A: a, B: b, Count: 1})
				}
			}
		}
	}
}

func (bf *BruteForce) Clear() {
	bf.candidates = bf.candidates[:0]
}

func (bf *BruteForce) Candidates() []*GridPair {
	return bf.candidates
}
