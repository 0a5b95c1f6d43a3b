package presets

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/lights"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/renderer"
)

func init() {
	register(Info{
		ID:          "caustic-glass",
		Name:        "Caustic Glass",
		Description: "Glass sphere and block lit by a small disc light, for testing caustics",
	}, buildCausticGlass)
}

func buildCausticGlass(b *builder) (*Built, error) {
	glass := material.NewDielectric(1.5)
	b.add(geometry.NewRectangle(), material.NewDiffuse(gray(0.64)), floor(0, 40))
	b.add(geometry.NewUnitSphere(), glass, sphere(core.NewVec3(-1.2, 1, 0), 1)...)

	box, err := geometry.NewBox(b.opts.Logger)
	if err != nil {
		return nil, err
	}
	b.add(box, glass,
		core.ScaleMatrix(core.NewVec3(0.7, 0.7, 0.7)),
		core.RotateMatrix(35, core.NewVec3(0, 1, 0)),
		core.TranslateMatrix(core.NewVec3(1.3, 0.7, 0.5)),
	)

	// Small and bright so caustics stay sharp; the disc faces down towards
	// the glass
	b.addEmitter(geometry.NewDisc(), core.Splat(400),
		core.ScaleMatrix(core.Splat(0.25)),
		core.RotateMatrix(90, core.NewVec3(1, 0, 0)),
		core.TranslateMatrix(core.NewVec3(-2, 6, 3)),
	)

	background := lights.NewConstantBackground(core.Splat(0.02))
	return b.finish(background, view{
		width:  600,
		height: 400,
		fov:    40,
		axis:   renderer.FovAxisY,
		eye:    core.NewVec3(0, 4, -8),
		target: core.NewVec3(0, 0.8, 0),
	})
}
