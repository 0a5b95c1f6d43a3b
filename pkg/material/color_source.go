package material

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// SolidColor is a uniform texture
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color texture
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// NewScalar creates a solid texture whose channels all hold value
func NewScalar(value float64) *SolidColor {
	return &SolidColor{Color: core.Splat(value)}
}

// Evaluate returns the solid color regardless of UV
func (s *SolidColor) Evaluate(uv core.Vec2) core.Vec3 {
	return s.Color
}

// Scalar returns the red channel
func (s *SolidColor) Scalar(uv core.Vec2) float64 {
	return s.Color.X
}

// Checkerboard alternates two colors on a grid in UV space
type Checkerboard struct {
	Color0, Color1 core.Vec3
	Scale          core.Vec2
}

// NewCheckerboard creates a checkerboard with scale cells per unit UV
func NewCheckerboard(color0, color1 core.Vec3, scale core.Vec2) *Checkerboard {
	return &Checkerboard{Color0: color0, Color1: color1, Scale: scale}
}

// Evaluate returns Color0 or Color1 depending on the cell parity
func (c *Checkerboard) Evaluate(uv core.Vec2) core.Vec3 {
	cell := int(math.Floor(uv.X*c.Scale.X)) + int(math.Floor(uv.Y*c.Scale.Y))
	if cell%2 == 0 {
		return c.Color0
	}
	return c.Color1
}

// Scalar returns the red channel
func (c *Checkerboard) Scalar(uv core.Vec2) float64 {
	return c.Evaluate(uv).X
}
