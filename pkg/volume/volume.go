// Package volume provides participating media density fields and the delta
// tracking distance sampler used by instances that wrap a volume.
package volume

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// Homogeneous is a medium of constant density
type Homogeneous struct {
	Sigma float64 // extinction per world unit
}

// NewHomogeneous creates a constant density medium
func NewHomogeneous(sigma float64) *Homogeneous {
	return &Homogeneous{Sigma: max(0, sigma)}
}

func (h *Homogeneous) Density(p core.Vec3) float64 { return h.Sigma }
func (h *Homogeneous) MaxDensity() float64         { return h.Sigma }

// Exponential is a medium whose density decays with height above Floor,
// like ground fog. Below Floor the density is Sigma.
type Exponential struct {
	Sigma   float64
	Falloff float64
	Floor   float64
}

// NewExponential creates a height fog medium
func NewExponential(sigma, falloff, floor float64) *Exponential {
	return &Exponential{Sigma: max(0, sigma), Falloff: max(0, falloff), Floor: floor}
}

func (e *Exponential) Density(p core.Vec3) float64 {
	return e.Sigma * math.Exp(-e.Falloff*max(0, p.Y-e.Floor))
}

func (e *Exponential) MaxDensity() float64 { return e.Sigma }

// SampleDistance runs delta tracking along a local space ray with a unit
// direction over [tMin, tMin+length]. scale is the length of the local
// direction per world unit, so densities stay in world units. On success it
// returns the world distance of the scattering event.
func SampleDistance(v core.Volume, ray core.Ray, tMin, length, scale float64, sampler core.Sampler) (float64, bool) {
	majorant := v.MaxDensity()
	if !(majorant > 0) || !(length > 0) {
		return 0, false
	}
	end := tMin + length
	t := tMin
	for {
		step := -math.Log(1-sampler.Get1D()) / majorant * scale
		if t+step >= end {
			return 0, false
		}
		t += step
		if sampler.Get1D()*majorant < v.Density(ray.At(t)) {
			return t / scale, true
		}
	}
}
