package core

import (
	"math"
	"math/rand/v2"
)

// Sampler provides the random stream consumed by a single ray query.
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler is a reseedable PCG stream. Seed it per (pixel, sample) so
// that results do not depend on which worker renders which pixel.
type RandomSampler struct {
	seed uint64
	pcg  *rand.PCG
	rand *rand.Rand
}

// NewRandomSampler creates a sampler whose streams derive from seed
func NewRandomSampler(seed uint64) *RandomSampler {
	pcg := rand.NewPCG(seed, 0)
	return &RandomSampler{seed: seed, pcg: pcg, rand: rand.New(pcg)}
}

// Seed restarts the stream for one (pixel, sample) pair
func (r *RandomSampler) Seed(pixel, sample uint64) {
	r.pcg.Seed(mix64(r.seed^mix64(pixel+1)), mix64(sample+0x9e3779b97f4a7c15))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.rand.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.rand.Float64(), r.rand.Float64())
}

// mix64 is the splitmix64 finalizer
func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// SquareToUniformSphere maps a unit square sample to a uniform direction on
// the unit sphere (pdf 1/4pi)
func SquareToUniformSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X // z ∈ [-1, 1]
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SquareToUniformHemisphere maps a sample to the z-up hemisphere (pdf 1/2pi)
func SquareToUniformHemisphere(sample Vec2) Vec3 {
	z := sample.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := 2.0 * math.Pi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SquareToUniformDiskConcentric maps a square uniformly to the unit disk
// using the concentric mapping
func SquareToUniformDiskConcentric(sample Vec2) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	u := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if u.X == 0 && u.Y == 0 {
		return Vec2{}
	}

	var theta, r float64
	if math.Abs(u.X) > math.Abs(u.Y) {
		r = u.X
		theta = math.Pi / 4 * (u.Y / u.X)
	} else {
		r = u.Y
		theta = math.Pi/2 - math.Pi/4*(u.X/u.Y)
	}
	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// SquareToCosineHemisphere maps a sample to a cosine-weighted z-up direction
func SquareToCosineHemisphere(sample Vec2) Vec3 {
	d := SquareToUniformDiskConcentric(sample)
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
	return NewVec3(d.X, d.Y, z)
}

// CosineHemispherePdf returns the density of SquareToCosineHemisphere
func CosineHemispherePdf(w Vec3) float64 {
	return math.Max(0, w.Z) * InvPi
}

// SampleCone samples a direction uniformly within a cone around direction
func SampleCone(direction Vec3, cosTotalWidth float64, sample Vec2) Vec3 {
	cosTheta := 1.0 - sample.X*(1.0-cosTotalWidth)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y

	local := NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	return BuildFrame(direction).ToWorld(local)
}

// SurfaceAreaToSolidAnglePdf converts an area density at a point seen at
// distance² and with cosine cosTheta into a solid angle density
func SurfaceAreaToSolidAnglePdf(pdfArea, distanceSquared, cosTheta float64) float64 {
	cosTheta = math.Abs(cosTheta)
	if cosTheta < 1e-10 {
		return 0
	}
	return pdfArea * distanceSquared / cosTheta
}
