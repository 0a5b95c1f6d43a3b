package integrator

import (
	"fmt"
	"strings"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/scene"
	"github.com/df07/go-mis-raytracer/pkg/stats"
)

// Variable selects what the AOV integrator writes
type Variable int

const (
	AOVNormals Variable = iota
	AOVDistance
	AOVBVH
	AOVUV
	AOVAlbedo
)

var variableNames = map[Variable]string{
	AOVNormals:  "normals",
	AOVDistance: "distance",
	AOVBVH:      "bvh",
	AOVUV:       "uv",
	AOVAlbedo:   "albedo",
}

func (v Variable) String() string {
	if name, ok := variableNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Variable(%d)", int(v))
}

// ParseVariable looks up a variable by name
func ParseVariable(name string) (Variable, error) {
	for v, n := range variableNames {
		if strings.EqualFold(n, name) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown AOV variable %q", ErrUnknownIntegrator, name)
}

// AOVIntegrator visualizes geometric quantities of the first hit
type AOVIntegrator struct {
	Scene    *scene.Scene
	Variable Variable
	Scale    float64 // divides the BVH counters
}

// NewAOVIntegrator creates an AOV integrator; scale <= 0 selects 1
func NewAOVIntegrator(s *scene.Scene, variable Variable, scale float64) *AOVIntegrator {
	if scale <= 0 {
		scale = 1
	}
	return &AOVIntegrator{Scene: s, Variable: variable, Scale: scale}
}

// Li implements Integrator
func (a *AOVIntegrator) Li(ray core.Ray, sampler core.Sampler, rec *stats.Recorder) core.Vec3 {
	ray = ray.Normalized()
	ray.Depth = 0
	its := trace(a.Scene, ray, sampler, rec)

	switch a.Variable {
	case AOVNormals:
		if !its.Hit() {
			return core.Splat(0.5)
		}
		return its.ShadingNormal().Add(core.Splat(1)).Multiply(0.5)
	case AOVDistance:
		if !its.Hit() {
			return core.Splat(core.Infinity)
		}
		return core.Splat(its.T)
	case AOVBVH:
		return core.NewVec3(float64(its.Stats.BVHNodes)/a.Scale, float64(its.Stats.Primitives)/a.Scale, 0)
	case AOVUV:
		if !its.Hit() {
			return core.Vec3{}
		}
		return core.NewVec3(its.UV.X, its.UV.Y, 0)
	case AOVAlbedo:
		return its.Albedo()
	}
	return core.Vec3{}
}
