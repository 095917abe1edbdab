package rigid

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	DefaultBucketSize = 48.0

	minAdaptiveBucket = 16.0
	maxAdaptiveBucket = 512.0
)

type cell struct {
	col, row int
}

type region struct {
	startCol, endCol, startRow, endRow int
}

func (r region) contains(col, row int) bool {
	return col >= r.startCol && col <= r.endCol && row >= r.startRow && row <= r.endRow
}

func (r region) union(other region) region {
	return region{
		startCol: min(r.startCol, other.startCol),
		endCol:   max(r.endCol, other.endCol),
		startRow: min(r.startRow, other.startRow),
		endRow:   max(r.endRow, other.endRow),
	}
}

// Grid is a uniform spatial hash. Every body is stored in each bucket its bounds touch
// and body pairs are reference counted by the number of buckets they share, so moving
// a body only touches the buckets it enters or leaves.
type Grid struct {
	BucketWidth, BucketHeight float64

	// Adaptive resizes buckets from the body extents whenever the grid is rebuilt.
	Adaptive bool

	buckets map[cell][]*Body
	regions map[*Body]region

	pairs     map[PairID]*GridPair
	pairOrder []*GridPair
	pairsList []*GridPair
}

func NewGrid() *Grid {
	grid := &Grid{
		BucketWidth:  DefaultBucketSize,
		BucketHeight: DefaultBucketSize,
	}
	grid.Clear()
	return grid
}

func (grid *Grid) Clear() {
	grid.buckets = map[cell][]*Body{}
	grid.regions = map[*Body]region{}
	grid.pairs = map[PairID]*GridPair{}
	grid.pairOrder = nil
	grid.pairsList = nil
}

// Candidates returns the pairs sharing at least one bucket, in the order they first met.
func (grid *Grid) Candidates() []*GridPair {
	return grid.pairsList
}

func (grid *Grid) Update(bodies []*Body, world *World, forceUpdate bool) {
	if forceUpdate && grid.Adaptive {
		grid.resize(bodies)
	}

	gridChanged := false
	for _, body := range bodies {
		if body.isSleeping && !forceUpdate {
			continue
		}
		if outsideWorld(body, world) {
			continue
		}

		newRegion := grid.region(body)
		oldRegion, known := grid.regions[body]
		if known && newRegion == oldRegion && !forceUpdate {
			continue
		}
		if !known || forceUpdate {
			oldRegion = newRegion
		}

		union := newRegion.union(oldRegion)
		for col := union.startCol; col <= union.endCol; col++ {
			for row := union.startRow; row <= union.endRow; row++ {
				key := cell{col, row}
				inNew := newRegion.contains(col, row)
				inOld := oldRegion.contains(col, row)

				if !inNew && inOld {
					grid.removeFromBucket(key, body)
				}
				if (inNew && !inOld) || !known || forceUpdate {
					if inNew {
						grid.addToBucket(key, body)
					}
				}
			}
		}

		grid.regions[body] = newRegion
		gridChanged = true
	}

	if gridChanged {
		grid.rebuildPairsList()
	}
}

func (grid *Grid) region(body *Body) region {
	b := body.bounds
	return region{
		startCol: int(math.Floor(b.Min.X / grid.BucketWidth)),
		endCol:   int(math.Floor(b.Max.X / grid.BucketWidth)),
		startRow: int(math.Floor(b.Min.Y / grid.BucketHeight)),
		endRow:   int(math.Floor(b.Max.Y / grid.BucketHeight)),
	}
}

func (grid *Grid) addToBucket(key cell, body *Body) {
	bucket := grid.buckets[key]
	for _, other := range bucket {
		if other == body || (body.isStatic && other.isStatic) {
			continue
		}
		id := NewPairID(body, other)
		if pair, ok := grid.pairs[id]; ok {
			pair.Count++
			continue
		}
		a, b := body, other
		if b.id < a.id {
			a, b = b, a
		}
		pair := &GridPair{A: a, B: b, Count: 1}
		grid.pairs[id] = pair
		grid.pairOrder = append(grid.pairOrder, pair)
	}
	grid.buckets[key] = append(bucket, body)
}

func (grid *Grid) removeFromBucket(key cell, body *Body) {
	bucket, ok := grid.buckets[key]
	if !ok {
		return
	}
	for i, b := range bucket {
		if b == body {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(grid.buckets, key)
	} else {
		grid.buckets[key] = bucket
	}

	for _, other := range bucket {
		if pair, ok := grid.pairs[NewPairID(body, other)]; ok {
			pair.Count--
		}
	}
}

// rebuildPairsList keeps live pairs and forgets the ones no longer sharing a bucket.
func (grid *Grid) rebuildPairsList() {
	grid.pairsList = grid.pairsList[:0]
	kept := grid.pairOrder[:0]
	for _, pair := range grid.pairOrder {
		if pair.Count > 0 {
			grid.pairsList = append(grid.pairsList, pair)
			kept = append(kept, pair)
			continue
		}
		delete(grid.pairs, NewPairID(pair.A, pair.B))
	}
	for i := len(kept); i < len(grid.pairOrder); i++ {
		grid.pairOrder[i] = nil
	}
	grid.pairOrder = kept
}

// resize sets the bucket size to the mean dynamic body extent plus one standard
// deviation.
func (grid *Grid) resize(bodies []*Body) {
	extents := make([]float64, 0, len(bodies))
	for _, body := range bodies {
		if body.isStatic {
			continue
		}
		extents = append(extents, math.Max(body.bounds.Width(), body.bounds.Height()))
	}
	if len(extents) == 0 {
		return
	}
	mean, std := stat.MeanStdDev(extents, nil)
	if len(extents) == 1 {
		std = 0
	}
	size := Clamp(mean+std, minAdaptiveBucket, maxAdaptiveBucket)
	grid.BucketWidth = size
	grid.BucketHeight = size
}
