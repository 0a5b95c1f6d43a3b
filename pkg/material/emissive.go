package material

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Lambertian emits constant radiance from the front side of a surface
type Lambertian struct {
	Emission core.Texture
}

// NewLambertian creates a front-facing emitter
func NewLambertian(emission core.Texture) *Lambertian {
	return &Lambertian{Emission: emission}
}

// Evaluate returns the radiance towards local direction wo; the back side
// is black
func (l *Lambertian) Evaluate(uv core.Vec2, wo core.Vec3) core.EmissionEval {
	if wo.Z < 0 {
		return core.InvalidEmissionEval()
	}
	return core.EmissionEval{Value: l.Emission.Evaluate(uv), Pdf: core.Inv2Pi}
}
