package presets

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/lights"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/renderer"
)

func init() {
	register(Info{
		ID:          "basic",
		Name:        "Default Scene",
		Description: "Diffuse, metal and glass spheres on a ground plane under a gradient sky",
	}, buildDefault)
}

// skyGradient blends from bottom at the nadir to top at the zenith of an
// environment map
type skyGradient struct {
	top, bottom core.Vec3
}

func (s skyGradient) Evaluate(uv core.Vec2) core.Vec3 {
	t := 0.5 * (math.Cos(math.Pi*uv.Y) + 1)
	return s.bottom.Multiply(1 - t).Add(s.top.Multiply(t))
}

func (s skyGradient) Scalar(uv core.Vec2) float64 {
	return s.Evaluate(uv).Luminance()
}

func newSky(top, bottom core.Vec3) *lights.EnvironmentMap {
	return lights.NewImportanceSampledEnvironmentMap(skyGradient{top: top, bottom: bottom}, nil, 64, 32)
}

func buildDefault(b *builder) (*Built, error) {
	ground := material.NewDiffuse(color(0.48, 0.48, 0))
	red := material.NewDiffuse(color(0.65, 0.25, 0.2))
	blue := material.NewDiffuse(color(0.1, 0.2, 0.5))
	silver := material.NewConductor(gray(0.8))
	gold := material.NewConductor(color(0.8, 0.6, 0.2))
	glass := material.NewDielectric(1.5)
	ball := geometry.NewUnitSphere()

	b.add(geometry.NewRectangle(), ground, floor(0, 100))
	b.add(ball, red, sphere(core.NewVec3(0, 0.5, -1), 0.5)...)
	b.add(ball, silver, sphere(core.NewVec3(-1, 0.5, -1), 0.5)...)
	b.add(ball, gold, sphere(core.NewVec3(1, 0.5, -1), 0.5)...)
	b.add(ball, glass, sphere(core.NewVec3(0.5, 0.25, -0.5), 0.25)...)
	// Glass marble with a blue core
	b.add(ball, glass, sphere(core.NewVec3(-0.5, 0.25, -0.5), 0.25)...)
	b.add(ball, blue, sphere(core.NewVec3(-0.5, 0.25, -0.5), 0.15)...)

	b.addEmitter(ball, core.NewVec3(15, 14, 13), sphere(core.NewVec3(30, 30.5, 15), 10)...)

	return b.finish(newSky(core.NewVec3(0.5, 0.7, 1), core.NewVec3(1, 1, 1)), view{
		width:  640,
		height: 360,
		fov:    40,
		axis:   renderer.FovAxisY,
		eye:    core.NewVec3(0, 0.75, 2),
		target: core.NewVec3(0, 0.5, -1),
	})
}
