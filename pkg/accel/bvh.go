// Package accel implements a bounding volume hierarchy over any indexed set
// of primitives.
package accel

import (
	"math"
	"time"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

const (
	binCount      = 16
	traversalCost = 0.125
	leafSize      = 2
)

// Primitives is the capability a BVH is built over. Intersection is done
// by index so the same hierarchy serves triangles of a mesh and instances
// of a scene.
type Primitives interface {
	NumberOfPrimitives() int
	IntersectPrimitive(index int, ray core.Ray, its *core.Intersection, sampler core.Sampler) bool
	PrimitiveBounds(index int) core.Bounds
	PrimitiveCentroid(index int) core.Vec3
}

// node is a leaf when primitiveCount != 0; leftFirst is then the first
// slot in primitiveIndices. Otherwise leftFirst is the left child and the
// right child is stored at leftFirst+1.
type node struct {
	bounds         core.Bounds
	leftFirst      int
	primitiveCount int
}

func (n *node) isLeaf() bool { return n.primitiveCount != 0 }

// BVH is an immutable hierarchy in a flat node arena. It is safe for
// concurrent queries once Build returns.
type BVH struct {
	primitives       Primitives
	nodes            []node
	primitiveIndices []int
}

// Build constructs the hierarchy with binned SAH splits
func Build(primitives Primitives, logger core.Logger) *BVH {
	if logger == nil {
		logger = core.NopLogger{}
	}
	start := time.Now()

	n := primitives.NumberOfPrimitives()
	b := &BVH{
		primitives:       primitives,
		primitiveIndices: make([]int, n),
	}
	for i := range b.primitiveIndices {
		b.primitiveIndices[i] = i
	}
	if n == 0 {
		return b
	}

	// Upper bound on nodes for a binary tree with n leaves
	b.nodes = make([]node, 1, 2*n)
	b.nodes[0] = node{leftFirst: 0, primitiveCount: n}
	b.computeBounds(0)
	b.subdivide(0)

	logger.Printf("built BVH with %d nodes for %d primitives in %.1f ms",
		len(b.nodes), n, float64(time.Since(start).Microseconds())/1000)
	return b
}

func (b *BVH) computeBounds(nodeIndex int) {
	n := &b.nodes[nodeIndex]
	bounds := core.EmptyBounds()
	for i := 0; i < n.primitiveCount; i++ {
		bounds = bounds.Union(b.primitives.PrimitiveBounds(b.primitiveIndices[n.leftFirst+i]))
	}
	n.bounds = bounds
}

func (b *BVH) subdivide(nodeIndex int) {
	n := b.nodes[nodeIndex]
	if n.primitiveCount <= leafSize {
		return
	}

	axis, split, ok := b.binnedSplit(n)
	if !ok {
		return
	}

	// Two-pointer partition of the node's slots around the split plane
	first := n.leftFirst
	last := n.leftFirst + n.primitiveCount - 1
	for first <= last {
		if b.primitives.PrimitiveCentroid(b.primitiveIndices[first]).Axis(axis) < split {
			first++
		} else {
			b.primitiveIndices[first], b.primitiveIndices[last] = b.primitiveIndices[last], b.primitiveIndices[first]
			last--
		}
	}

	leftCount := first - n.leftFirst
	if leftCount == 0 || leftCount == n.primitiveCount {
		return
	}

	leftIndex := len(b.nodes)
	b.nodes = append(b.nodes,
		node{leftFirst: n.leftFirst, primitiveCount: leftCount},
		node{leftFirst: first, primitiveCount: n.primitiveCount - leftCount},
	)
	b.nodes[nodeIndex].leftFirst = leftIndex
	b.nodes[nodeIndex].primitiveCount = 0

	b.computeBounds(leftIndex)
	b.subdivide(leftIndex)
	b.computeBounds(leftIndex + 1)
	b.subdivide(leftIndex + 1)
}

type bin struct {
	bounds core.Bounds
	count  int
}

// binnedSplit returns the axis and plane minimizing the SAH cost over the
// node's centroid range. ok is false when every axis has a negligible range.
func (b *BVH) binnedSplit(n node) (axis int, split float64, ok bool) {
	centroidBounds := core.EmptyBounds()
	for i := 0; i < n.primitiveCount; i++ {
		centroidBounds = centroidBounds.Extend(b.primitives.PrimitiveCentroid(b.primitiveIndices[n.leftFirst+i]))
	}

	// Flat or linear nodes have zero area; compare half perimeters instead
	metric := core.Bounds.SurfaceArea
	if n.bounds.SurfaceArea() <= 0 {
		metric = halfPerimeter
	}
	parentArea := metric(n.bounds)
	bestCost := math.Inf(1)
	axis = -1

	for a := 0; a < 3; a++ {
		lo := centroidBounds.Min.Axis(a)
		hi := centroidBounds.Max.Axis(a)
		if hi-lo <= core.Epsilon {
			continue
		}

		var bins [binCount]bin
		for i := range bins {
			bins[i].bounds = core.EmptyBounds()
		}
		scale := float64(binCount) / (hi - lo)
		for i := 0; i < n.primitiveCount; i++ {
			index := b.primitiveIndices[n.leftFirst+i]
			k := int((b.primitives.PrimitiveCentroid(index).Axis(a) - lo) * scale)
			k = max(0, min(binCount-1, k))
			bins[k].count++
			bins[k].bounds = bins[k].bounds.Union(b.primitives.PrimitiveBounds(index))
		}

		// Prefix sums from both ends over the binCount-1 candidate planes
		var leftArea, rightArea [binCount - 1]float64
		var leftCount, rightCount [binCount - 1]int
		leftBox, rightBox := core.EmptyBounds(), core.EmptyBounds()
		leftSum, rightSum := 0, 0
		for i := 0; i < binCount-1; i++ {
			leftSum += bins[i].count
			leftCount[i] = leftSum
			leftBox = leftBox.Union(bins[i].bounds)
			leftArea[i] = metric(leftBox)

			rightSum += bins[binCount-1-i].count
			rightCount[binCount-2-i] = rightSum
			rightBox = rightBox.Union(bins[binCount-1-i].bounds)
			rightArea[binCount-2-i] = metric(rightBox)
		}

		for i := 0; i < binCount-1; i++ {
			cost := traversalCost + (float64(leftCount[i])*leftArea[i]+float64(rightCount[i])*rightArea[i])/parentArea
			if cost < bestCost {
				bestCost = cost
				axis = a
				split = lo + float64(i+1)/scale
			}
		}
	}
	return axis, split, axis >= 0
}

func halfPerimeter(b core.Bounds) float64 {
	if b.IsEmpty() {
		return 0
	}
	d := b.Diagonal()
	return d.X + d.Y + d.Z
}

// Intersect finds the closest primitive hit closer than its.T
func (b *BVH) Intersect(ray core.Ray, its *core.Intersection, sampler core.Sampler) bool {
	if len(b.nodes) == 0 {
		return false
	}
	its.Stats.BVHNodes++
	if b.nodes[0].bounds.Distance(ray) >= its.T {
		return false
	}
	return b.intersectNode(0, ray, its, sampler)
}

func (b *BVH) intersectNode(nodeIndex int, ray core.Ray, its *core.Intersection, sampler core.Sampler) bool {
	n := &b.nodes[nodeIndex]
	if n.isLeaf() {
		hit := false
		for i := 0; i < n.primitiveCount; i++ {
			its.Stats.Primitives++
			if b.primitives.IntersectPrimitive(b.primitiveIndices[n.leftFirst+i], ray, its, sampler) {
				hit = true
			}
		}
		return hit
	}

	near, far := n.leftFirst, n.leftFirst+1
	its.Stats.BVHNodes += 2
	nearDistance := b.nodes[near].bounds.Distance(ray)
	farDistance := b.nodes[far].bounds.Distance(ray)
	if farDistance < nearDistance {
		near, far = far, near
		nearDistance, farDistance = farDistance, nearDistance
	}

	hit := false
	if nearDistance < its.T {
		hit = b.intersectNode(near, ray, its, sampler)
	}
	// its.T may have shrunk during the near visit
	if farDistance < its.T {
		if b.intersectNode(far, ray, its, sampler) {
			hit = true
		}
	}
	return hit
}

// Occluded reports whether any primitive is hit closer than tMax. It stops
// at the first hit found rather than the closest.
func (b *BVH) Occluded(ray core.Ray, tMax float64, sampler core.Sampler) bool {
	if len(b.nodes) == 0 {
		return false
	}
	its := core.NewIntersection(ray.Direction.Negate(), tMax)
	if b.nodes[0].bounds.Distance(ray) >= its.T {
		return false
	}
	return b.anyHit(0, ray, &its, sampler)
}

func (b *BVH) anyHit(nodeIndex int, ray core.Ray, its *core.Intersection, sampler core.Sampler) bool {
	n := &b.nodes[nodeIndex]
	if n.isLeaf() {
		for i := 0; i < n.primitiveCount; i++ {
			if b.primitives.IntersectPrimitive(b.primitiveIndices[n.leftFirst+i], ray, its, sampler) {
				return true
			}
		}
		return false
	}
	for child := n.leftFirst; child <= n.leftFirst+1; child++ {
		if b.nodes[child].bounds.Distance(ray) < its.T && b.anyHit(child, ray, its, sampler) {
			return true
		}
	}
	return false
}

// BoundingBox returns the bounds of all primitives, empty if there are none
func (b *BVH) BoundingBox() core.Bounds {
	if len(b.nodes) == 0 {
		return core.EmptyBounds()
	}
	return b.nodes[0].bounds
}

// Centroid returns the center of the bounding box
func (b *BVH) Centroid() core.Vec3 {
	return b.BoundingBox().Center()
}

// NodeCount returns the number of nodes in the arena
func (b *BVH) NodeCount() int { return len(b.nodes) }

// PrimitiveIndex returns the primitive stored at a leaf slot
func (b *BVH) PrimitiveIndex(slot int) int { return b.primitiveIndices[slot] }

// Permutation returns a copy of the slot to primitive index mapping
func (b *BVH) Permutation() []int {
	out := make([]int, len(b.primitiveIndices))
	copy(out, b.primitiveIndices)
	return out
}

// Depth returns the number of levels of the tree, 0 when empty
func (b *BVH) Depth() int {
	if len(b.nodes) == 0 {
		return 0
	}
	return b.depth(0)
}

func (b *BVH) depth(nodeIndex int) int {
	n := &b.nodes[nodeIndex]
	if n.isLeaf() {
		return 1
	}
	return 1 + max(b.depth(n.leftFirst), b.depth(n.leftFirst+1))
}

// LeafSizes returns the primitive count of every leaf, in arena order
func (b *BVH) LeafSizes() []int {
	var sizes []int
	for i := range b.nodes {
		if b.nodes[i].isLeaf() {
			sizes = append(sizes, b.nodes[i].primitiveCount)
		}
	}
	return sizes
}
