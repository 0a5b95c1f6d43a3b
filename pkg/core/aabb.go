package core

import "math"

// Bounds represents an axis-aligned bounding box.
// The zero value is a degenerate box at the origin; use EmptyBounds to start
// accumulating points.
type Bounds struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewBounds creates a new box from min and max points
func NewBounds(min, max Vec3) Bounds {
	return Bounds{Min: min, Max: max}
}

// EmptyBounds returns the empty sentinel: the identity of Union and Extend
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{Min: Splat(inf), Max: Splat(-inf)}
}

// FullBounds returns the unbounded sentinel covering all of space
func FullBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{Min: Splat(-inf), Max: Splat(inf)}
}

// NewBoundsFromPoints creates a box that bounds all given points
func NewBoundsFromPoints(points ...Vec3) Bounds {
	b := EmptyBounds()
	for _, point := range points {
		b = b.Extend(point)
	}
	return b
}

// Extend returns the box grown to contain point
func (b Bounds) Extend(point Vec3) Bounds {
	return Bounds{Min: b.Min.Min(point), Max: b.Max.Max(point)}
}

// Union returns a box that bounds both this box and another
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// Intersection returns the overlap of two boxes, which may be empty
func (b Bounds) Intersection(other Bounds) Bounds {
	return Bounds{Min: b.Min.Max(other.Min), Max: b.Max.Min(other.Max)}
}

// IsEmpty reports whether min > max on any axis
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// IsUnbounded reports whether any extent is infinite
func (b Bounds) IsUnbounded() bool {
	return math.IsInf(b.Min.X, -1) || math.IsInf(b.Min.Y, -1) || math.IsInf(b.Min.Z, -1) ||
		math.IsInf(b.Max.X, 1) || math.IsInf(b.Max.Y, 1) || math.IsInf(b.Max.Z, 1)
}

// Center returns the center point of the box
func (b Bounds) Center() Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Diagonal returns the extent of the box along each axis
func (b Bounds) Diagonal() Vec3 {
	return b.Max.Subtract(b.Min)
}

// SurfaceArea returns the surface area of the box, 0 when empty
func (b Bounds) SurfaceArea() float64 {
	if b.IsEmpty() {
		return 0
	}
	size := b.Diagonal()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// Corner returns one of the eight corners; bit k of index selects max on axis k
func (b Bounds) Corner(index int) Vec3 {
	c := b.Min
	if index&1 != 0 {
		c.X = b.Max.X
	}
	if index&2 != 0 {
		c.Y = b.Max.Y
	}
	if index&4 != 0 {
		c.Z = b.Max.Z
	}
	return c
}

// Contains reports whether point lies inside the box, boundaries included
func (b Bounds) Contains(point Vec3) bool {
	return point.X >= b.Min.X && point.X <= b.Max.X &&
		point.Y >= b.Min.Y && point.Y <= b.Max.Y &&
		point.Z >= b.Min.Z && point.Z <= b.Max.Z
}

// Distance returns the ray parameter at which the ray enters the box using
// the slab method, or +Inf if the ray misses the box or the box lies behind
// the origin (exit before Epsilon). The returned value is negative when the
// origin is inside the box. Zero direction components divide to signed
// infinities, which the min/max reductions handle without special cases.
func (b Bounds) Distance(ray Ray) float64 {
	if b.IsEmpty() {
		return math.Inf(1)
	}
	tNear := math.Inf(-1)
	tFar := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		o := ray.Origin.Axis(axis)
		d := ray.Direction.Axis(axis)
		t1 := (b.Min.Axis(axis) - o) / d
		t2 := (b.Max.Axis(axis) - o) / d
		// (0/0) when the origin sits on a slab plane of a parallel ray
		if math.IsNaN(t1) || math.IsNaN(t2) {
			continue
		}
		tNear = math.Max(tNear, math.Min(t1, t2))
		tFar = math.Min(tFar, math.Max(t1, t2))
	}
	if tFar < tNear || tFar < Epsilon {
		return math.Inf(1)
	}
	return tNear
}

// Expand returns a box grown by amount in all directions
func (b Bounds) Expand(amount float64) Bounds {
	expansion := Splat(amount)
	return Bounds{Min: b.Min.Subtract(expansion), Max: b.Max.Add(expansion)}
}
