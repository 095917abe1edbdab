package rigid

import "math"

// DefaultTreeMargin pads every leaf so small movements leave the tree untouched.
const DefaultTreeMargin = 8.0

// Tree is a bounding volume hierarchy. Leaves hold body bounds padded by Margin and a
// body is only reinserted once it leaves its padded box. New leaves descend towards the
// child whose merged area grows the least.
type Tree struct {
	Margin float64

	root   *treeNode
	leaves map[*Body]*treeNode

	order      map[*Body]int
	candidates []*GridPair
}

type treeNode struct {
	body   *Body
	bounds Bounds

	parent *treeNode
	a, b   *treeNode
}

func (node *treeNode) isLeaf() bool {
	return node.body != nil
}

func (node *treeNode) setA(child *treeNode) {
	node.a = child
	child.parent = node
}

func (node *treeNode) setB(child *treeNode) {
	node.b = child
	child.parent = node
}

func NewTree() *Tree {
	tree := &Tree{Margin: DefaultTreeMargin}
	tree.Clear()
	return tree
}

func (tree *Tree) Clear() {
	tree.root = nil
	tree.leaves = map[*Body]*treeNode{}
	tree.order = map[*Body]int{}
	tree.candidates = nil
}

func (tree *Tree) Candidates() []*GridPair {
	return tree.candidates
}

// Count is the number of bodies in the tree.
func (tree *Tree) Count() int {
	return len(tree.leaves)
}

func (tree *Tree) Update(bodies []*Body, world *World, forceUpdate bool) {
	if forceUpdate {
		tree.root = nil
		tree.leaves = map[*Body]*treeNode{}
	}

	for _, body := range bodies {
		if body.isSleeping && !forceUpdate {
			continue
		}
		leaf, known := tree.leaves[body]
		if outsideWorld(body, world) {
			if known {
				tree.remove(leaf)
				delete(tree.leaves, body)
			}
			continue
		}
		if known {
			if leaf.bounds.ContainsBounds(body.bounds) {
				continue
			}
			tree.remove(leaf)
		}
		leaf = &treeNode{body: body, bounds: fatten(body.bounds, tree.Margin)}
		tree.leaves[body] = leaf
		tree.root = tree.insert(tree.root, leaf)
		tree.root.parent = nil
	}

	tree.collectPairs(bodies)
}

func fatten(b Bounds, margin float64) Bounds {
	pad := Vector{margin, margin}
	return Bounds{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

func area(b Bounds) float64 {
	return b.Width() * b.Height()
}

func mergedArea(a, b Bounds) float64 {
	return area(a.Merge(b))
}

// proximity is the Manhattan distance between centres, doubled.
func proximity(a, b Bounds) float64 {
	return math.Abs(a.Min.X+a.Max.X-b.Min.X-b.Max.X) + math.Abs(a.Min.Y+a.Max.Y-b.Min.Y-b.Max.Y)
}

func (tree *Tree) insert(subtree, leaf *treeNode) *treeNode {
	if subtree == nil {
		return leaf
	}
	if subtree.isLeaf() {
		node := &treeNode{bounds: subtree.bounds.Merge(leaf.bounds)}
		node.setA(leaf)
		node.setB(subtree)
		return node
	}

	costA := area(subtree.b.bounds) + mergedArea(subtree.a.bounds, leaf.bounds)
	costB := area(subtree.a.bounds) + mergedArea(subtree.b.bounds, leaf.bounds)
	if costA == costB {
		costA = proximity(subtree.a.bounds, leaf.bounds)
		costB = proximity(subtree.b.bounds, leaf.bounds)
	}

	if costB < costA {
		subtree.setB(tree.insert(subtree.b, leaf))
	} else {
		subtree.setA(tree.insert(subtree.a, leaf))
	}
	subtree.bounds = subtree.bounds.Merge(leaf.bounds)
	return subtree
}

// remove replaces the leaf's parent with its sibling and refits the ancestors.
func (tree *Tree) remove(leaf *treeNode) {
	if leaf == tree.root {
		tree.root = nil
		return
	}
	parent := leaf.parent
	sibling := parent.a
	if sibling == leaf {
		sibling = parent.b
	}
	grand := parent.parent
	if grand == nil {
		tree.root = sibling
		sibling.parent = nil
		return
	}
	if grand.a == parent {
		grand.setA(sibling)
	} else {
		grand.setB(sibling)
	}
	for node := grand; node != nil; node = node.parent {
		node.bounds = node.a.bounds.Merge(node.b.bounds)
	}
}

// collectPairs queries the tree once per leaf. A pair is reported by whichever of its
// bodies comes first in bodies, so the output order follows the world.
func (tree *Tree) collectPairs(bodies []*Body) {
	clear(tree.order)
	for i, body := range bodies {
		tree.order[body] = i
	}

	tree.candidates = tree.candidates[:0]
	for i, body := range bodies {
		leaf, ok := tree.leaves[body]
		if !ok {
			continue
		}
		tree.query(tree.root, leaf.bounds, func(other *Body) {
			j, ok := tree.order[other]
			if !ok || j <= i || (body.isStatic && other.isStatic) {
				return
			}
			a, b := body, other
			if b.id < a.id {
				a, b = b, a
			}
			tree.candidates = append(tree.candidates, &GridPair{A: a, B: b, Count: 1})
		})
	}
}

func (tree *Tree) query(node *treeNode, bounds Bounds, f func(*Body)) {
	if node == nil || !node.bounds.Overlaps(bounds) {
		return
	}
	if node.isLeaf() {
		f(node.body)
		return
	}
	tree.query(node.a, bounds, f)
	tree.query(node.b, bounds, f)
}

// Query calls f for every body whose padded bounds overlap bounds.
func (tree *Tree) Query(bounds Bounds, f func(*Body)) {
	tree.query(tree.root, bounds, f)
}
