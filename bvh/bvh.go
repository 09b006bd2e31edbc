package bvh

import (
	"sort"
	"time"

	"github.com/achilleasa/go-raytrace/log"
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// The max number of primitives stored in a leaf. Degenerate inputs whose
// primitives cannot be split may produce larger leafs.
const LeafSize = 2

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

// A BVH node is either an *innerNode or a *leafNode.
type node interface {
	bbox() types.BBox
}

type innerNode struct {
	box         types.BBox
	left, right node
}

func (n *innerNode) bbox() types.BBox { return n.box }

type leafNode struct {
	box types.BBox

	// Primitives are owned by the scene; the leaf only references them.
	items []scene.Primitive
}

func (n *leafNode) bbox() types.BBox { return n.box }

// Build statistics.
type Stats struct {
	Items     int
	Nodes     int
	Leafs     int
	MaxDepth  int
	BuildTime time.Duration
}

// An immutable bounding volume hierarchy. A Tree is safe for concurrent
// use once Build returns.
type Tree struct {
	root  node
	stats Stats
}

type builder struct {
	logger log.Logger
	stats  Stats
}

// Construct a BVH from a list of primitives. The input slice is not modified.
//
// Each node is split along the axis whose split yields the most even item
// distribution. For every axis the items are sorted by their center and
// split at the first item past the midpoint of the first and last centers.
func Build(items []scene.Primitive) *Tree {
	b := &builder{
		logger: log.New("bvh"),
		stats: Stats{
			Items: len(items),
		},
	}

	start := time.Now()
	tree := &Tree{}
	if len(items) != 0 {
		workList := make([]scene.Primitive, len(items))
		copy(workList, items)
		tree.root = b.partition(workList, 0)
	}
	b.stats.BuildTime = time.Since(start)
	tree.stats = b.stats

	b.logger.Debugf(
		"BVH tree build time: %d ms, items: %d, maxDepth: %d, nodes: %d, leafs: %d",
		b.stats.BuildTime.Nanoseconds()/1e6,
		b.stats.Items, b.stats.MaxDepth, b.stats.Nodes, b.stats.Leafs,
	)
	return tree
}

// Adapter for scene.Scene.Compile.
func Builder(items []scene.Primitive) scene.Accelerator {
	return Build(items)
}

// Partition worklist and return the subtree root.
func (b *builder) partition(workList []scene.Primitive, depth int) node {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	box := workList[0].BBox()
	for _, item := range workList[1:] {
		box = box.Union(item.BBox())
	}

	if len(workList) <= LeafSize {
		return b.createLeaf(box, workList)
	}

	left, right := splitItems(workList)

	// Coincident centers cannot be separated
	if len(left) == 0 || len(right) == 0 {
		return b.createLeaf(box, workList)
	}

	b.stats.Nodes++
	return &innerNode{
		box:   box,
		left:  b.partition(left, depth+1),
		right: b.partition(right, depth+1),
	}
}

func (b *builder) createLeaf(box types.BBox, workList []scene.Primitive) node {
	b.stats.Leafs++
	return &leafNode{
		box:   box,
		items: workList,
	}
}

// Evaluate a split along each axis and keep the one closest to an even
// split. Ties are resolved in X, Y, Z order.
func splitItems(workList []scene.Primitive) (left, right []scene.Primitive) {
	half := len(workList) / 2
	bestDiff := -1
	for axis := XAxis; axis <= ZAxis; axis++ {
		sorted := sortAlongAxis(workList, axis)
		splitAt := splitIndex(sorted, axis)

		diff := splitAt - half
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			bestDiff = diff
			left, right = sorted[:splitAt], sorted[splitAt:]
		}
		if diff == 0 {
			break
		}
	}
	return left, right
}

// Return a copy of workList sorted by item center along axis.
func sortAlongAxis(workList []scene.Primitive, axis Axis) []scene.Primitive {
	sorted := make([]scene.Primitive, len(workList))
	copy(sorted, workList)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Center()[axis] < sorted[j].Center()[axis]
	})
	return sorted
}

// Get the index of the first item whose center lies past the midpoint of the
// first and last centers along axis.
func splitIndex(sorted []scene.Primitive, axis Axis) int {
	mid := (sorted[0].Center()[axis] + sorted[len(sorted)-1].Center()[axis]) * 0.5
	return sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Center()[axis] > mid
	})
}

// Get build statistics.
func (t *Tree) Stats() Stats {
	return t.stats
}

// Get the root bounding box. It returns false for an empty tree.
func (t *Tree) Root() (types.BBox, bool) {
	if t == nil || t.root == nil {
		return types.BBox{}, false
	}
	return t.root.bbox(), true
}
