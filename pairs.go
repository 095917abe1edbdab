package rigid

// pairs idle for longer than this many milliseconds are forgotten
const pairMaxIdleLife = 1000.0

// Pairs tracks every pair of parts that has touched recently and sorts the latest
// collisions into started, continuing and ended contacts.
type Pairs struct {
	table map[PairID]*Pair
	list  []*Pair

	CollisionStart  []*Pair
	CollisionActive []*Pair
	CollisionEnd    []*Pair
}

func NewPairs() *Pairs {
	return &Pairs{table: map[PairID]*Pair{}}
}

func (pairs *Pairs) Get(id PairID) *Pair {
	return pairs.table[id]
}

// List returns every tracked pair in creation order. The slice must not be modified.
func (pairs *Pairs) List() []*Pair {
	return pairs.list
}

func (pairs *Pairs) Update(collisions []*Collision, timestamp float64) {
	pairs.CollisionStart = pairs.CollisionStart[:0]
	pairs.CollisionActive = pairs.CollisionActive[:0]
	pairs.CollisionEnd = pairs.CollisionEnd[:0]

	for _, pair := range pairs.list {
		pair.confirmedActive = false
	}

	for _, collision := range collisions {
		if !collision.Collided {
			continue
		}
		id := NewPairID(collision.BodyA, collision.BodyB)
		if pair, ok := pairs.table[id]; ok {
			if pair.IsActive {
				pairs.CollisionActive = append(pairs.CollisionActive, pair)
			} else {
				pairs.CollisionStart = append(pairs.CollisionStart, pair)
			}
			pair.update(collision, timestamp)
			pair.confirmedActive = true
			continue
		}
		pair := newPair(collision, timestamp)
		pairs.table[id] = pair
		pairs.list = append(pairs.list, pair)
		pairs.CollisionStart = append(pairs.CollisionStart, pair)
	}

	for _, pair := range pairs.list {
		if !pair.IsActive || pair.confirmedActive {
			continue
		}
		// the narrowphase skips resting bodies, their contact still holds
		if pair.sleeping() {
			pair.confirmedActive = true
			continue
		}
		pair.setActive(false, timestamp)
		pairs.CollisionEnd = append(pairs.CollisionEnd, pair)
	}
}

// RemoveOld drops pairs that have been inactive for too long. Pairs touching a sleeping
// body are kept alive.
func (pairs *Pairs) RemoveOld(timestamp float64) {
	kept := pairs.list[:0]
	for _, pair := range pairs.list {
		if pair.BodyA.parent.isSleeping || pair.BodyB.parent.isSleeping {
			pair.TimeUpdated = timestamp
			kept = append(kept, pair)
			continue
		}
		if timestamp-pair.TimeUpdated > pairMaxIdleLife {
			delete(pairs.table, pair.ID)
			continue
		}
		kept = append(kept, pair)
	}
	for i := len(kept); i < len(pairs.list); i++ {
		pairs.list[i] = nil
	}
	pairs.list = kept
}

// RemoveBody forgets every pair involving body or one of its parts.
func (pairs *Pairs) RemoveBody(body *Body) {
	kept := pairs.list[:0]
	for _, pair := range pairs.list {
		if pair.BodyA.parent == body || pair.BodyB.parent == body {
			delete(pairs.table, pair.ID)
			continue
		}
		kept = append(kept, pair)
	}
	for i := len(kept); i < len(pairs.list); i++ {
		pairs.list[i] = nil
	}
	pairs.list = kept
}

func (pairs *Pairs) Clear() {
	pairs.table = map[PairID]*Pair{}
	pairs.list = nil
	pairs.CollisionStart = nil
	pairs.CollisionActive = nil
	pairs.CollisionEnd = nil
}
