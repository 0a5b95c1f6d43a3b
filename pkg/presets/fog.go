package presets

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/lights"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/renderer"
	"github.com/df07/go-mis-raytracer/pkg/volume"
)

func init() {
	register(Info{
		ID:          "fog",
		Name:        "Fog and Cutouts",
		Description: "Forward scattering smoke ball, height fog and an alpha masked lattice lit by a point light",
	}, buildFog)
}

func buildFog(b *builder) (*Built, error) {
	b.add(geometry.NewRectangle(), material.NewDiffuse(gray(0.6)), floor(0, 40))

	smoke := b.add(geometry.NewUnitSphere(), material.NewHenyeyGreenstein(gray(0.9), 0.6),
		sphere(core.NewVec3(-1.2, 1.1, 0.5), 1)...)
	smoke.Volume = volume.NewHomogeneous(2)

	// Fog layer hugging the floor; the density falls off with local height
	box, err := geometry.NewBox(b.opts.Logger)
	if err != nil {
		return nil, err
	}
	mist := b.add(box, material.NewIsotropic(gray(0.95)),
		core.ScaleMatrix(core.NewVec3(6, 0.6, 6)),
		core.TranslateMatrix(core.NewVec3(0, 0.6, 0)),
	)
	mist.Volume = volume.NewExponential(0.6, 2.5, -1)

	lattice := b.add(geometry.NewRectangle(), material.NewDiffuse(color(0.8, 0.5, 0.2)),
		quad(core.NewVec3(0.6, 0, 1.2), core.NewVec3(0, 2.2, 0), core.NewVec3(2, 0, -0.6)))
	lattice.Alpha = material.NewCheckerboard(core.Splat(1), core.Splat(0), core.NewVec2(6, 6))

	b.addLight(lights.NewPoint(core.NewVec3(1, 4, -1), core.Splat(600)))
	b.addLight(lights.NewDirectional(core.NewVec3(-0.4, 1, -0.3), core.Splat(0.3)))

	return b.finish(lights.NewConstantBackground(core.Splat(0.03)), view{
		width:  640,
		height: 360,
		fov:    45,
		axis:   renderer.FovAxisY,
		eye:    core.NewVec3(0, 2, -7),
		target: core.NewVec3(0, 1, 0),
	})
}
