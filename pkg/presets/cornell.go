package presets

import (
	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/material"
)

func init() {
	register(Info{
		ID:          "cornell",
		Name:        "Cornell Box",
		Description: "Cornell box with a mirror sphere, a glass sphere and a tall block",
	}, buildCornell)
	register(Info{
		ID:          "cornell-empty",
		Name:        "Cornell Box",
		Variant:     "Empty",
		DisplayName: "Cornell Box - Empty",
		Description: "The bare Cornell box, useful to check light transport against references",
	}, buildCornellEmpty)
}

// Standard 555 unit box, open towards -Z where the camera sits
const boxSize = 555.0

func cornellWalls(b *builder) {
	white := material.NewDiffuse(gray(0.73))
	red := material.NewDiffuse(color(0.65, 0.05, 0.05))
	green := material.NewDiffuse(color(0.12, 0.45, 0.15))
	rect := geometry.NewRectangle()

	// Every wall faces into the box. The camera's image left is +X, so the
	// red wall sits at x=boxSize.
	b.add(rect, white, quad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0)))
	b.add(rect, white, quad(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize)))
	b.add(rect, white, quad(core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0)))
	b.add(rect, red, quad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0)))
	b.add(rect, green, quad(core.NewVec3(0, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize)))

	// Ceiling light just below the ceiling, facing down
	lightSize := 130.0
	offset := (boxSize - lightSize) / 2
	b.addEmitter(rect, core.Splat(15), quad(
		core.NewVec3(offset, boxSize-1, offset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
	))
}

func cornellView() view {
	return view{
		width:  400,
		height: 400,
		fov:    40,
		eye:    core.NewVec3(278, 278, -800),
		target: core.NewVec3(278, 278, 0),
	}
}

func buildCornell(b *builder) (*Built, error) {
	cornellWalls(b)

	b.add(geometry.NewUnitSphere(), material.NewConductor(color(0.8, 0.8, 0.9)),
		sphere(core.NewVec3(370, 82.5, 169), 82.5)...)
	b.add(geometry.NewUnitSphere(), material.NewDielectric(1.5),
		sphere(core.NewVec3(185, 90, 351), 90)...)

	box, err := geometry.NewBox(b.opts.Logger)
	if err != nil {
		return nil, err
	}
	b.add(box, material.NewDiffuse(gray(0.73)),
		core.ScaleMatrix(core.NewVec3(60, 120, 60)),
		core.RotateMatrix(18, core.NewVec3(0, 1, 0)),
		core.TranslateMatrix(core.NewVec3(400, 120, 420)),
	)
	return b.finish(nil, cornellView())
}

func buildCornellEmpty(b *builder) (*Built, error) {
	cornellWalls(b)
	return b.finish(nil, cornellView())
}
