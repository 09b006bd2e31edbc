package bvh

import (
	"github.com/achilleasa/go-raytrace/scene"
	"github.com/achilleasa/go-raytrace/types"
)

// Find the intersection closest to the ray origin.
//
// Children are visited near-first. The far child is skipped when the near
// hit lies closer than the far child's bounding box entry point.
func (t *Tree) Traverse(ray types.Ray) (scene.Intersection, bool) {
	if t == nil || t.root == nil {
		return scene.Intersection{}, false
	}

	if t.root.bbox().Intersect(ray) < 0 {
		return scene.Intersection{}, false
	}

	return traverse(t.root, ray)
}

func traverse(n node, ray types.Ray) (scene.Intersection, bool) {
	switch n := n.(type) {
	case *leafNode:
		return scene.NearestHit(n.items, ray)
	case *innerNode:
		leftDist := n.left.bbox().Intersect(ray)
		rightDist := n.right.bbox().Intersect(ray)
		switch {
		case leftDist < 0 && rightDist < 0:
			return scene.Intersection{}, false
		case rightDist < 0:
			return traverse(n.left, ray)
		case leftDist < 0:
			return traverse(n.right, ray)
		}

		near, far, farDist := n.left, n.right, rightDist
		if rightDist < leftDist {
			near, far, farDist = n.right, n.left, leftDist
		}

		origin := ray.Origin()
		isect, hit := traverse(near, ray)
		var hitDistSq float32
		if hit {
			hitDistSq = isect.DistSq(origin)
			if hitDistSq < farDist*farDist {
				return isect, true
			}
		}

		farIsect, farHit := traverse(far, ray)
		if !farHit {
			return isect, hit
		}
		if !hit || farIsect.DistSq(origin) < hitDistSq {
			return farIsect, true
		}
		return isect, true
	}

	return scene.Intersection{}, false
}

// Information about a visited tree node.
type NodeInfo struct {
	BBox  types.BBox
	Depth int

	// Set for leaf nodes.
	Leaf  bool
	Items []scene.Primitive

	// Child bounding boxes; only set for inner nodes.
	Children [2]types.BBox
}

// Visit all tree nodes in depth-first order.
func (t *Tree) Walk(fn func(info NodeInfo)) {
	if t == nil || t.root == nil {
		return
	}
	walk(t.root, 0, fn)
}

func walk(n node, depth int, fn func(NodeInfo)) {
	switch n := n.(type) {
	case *leafNode:
		fn(NodeInfo{BBox: n.box, Depth: depth, Leaf: true, Items: n.items})
	case *innerNode:
		fn(NodeInfo{
			BBox:     n.box,
			Depth:    depth,
			Children: [2]types.BBox{n.left.bbox(), n.right.bbox()},
		})
		walk(n.left, depth+1, fn)
		walk(n.right, depth+1, fn)
	}
}
