package presets

import (
	"fmt"
	"path/filepath"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/lights"
	"github.com/df07/go-mis-raytracer/pkg/loaders"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/renderer"
)

func init() {
	register(Info{
		ID:          "dragon",
		Name:        "Dragon PLY Mesh",
		Description: "Gold dragon mesh loaded from assets/dragon.ply",
	}, func(b *builder) (*Built, error) {
		return meshShowcase(b, filepath.Join(b.opts.AssetDir, "dragon.ply"))
	})
}

// meshShowcase loads a mesh file and stands it on a floor under an area
// light. The mesh is scaled to fit a 2 unit cube and rotated the way the
// dragon is posed.
func meshShowcase(b *builder, path string) (*Built, error) {
	mesh, err := loaders.LoadMesh(path, loaders.MeshOptions{Smooth: true}, b.opts.Logger)
	if err != nil {
		return nil, err
	}
	bounds := mesh.BoundingBox()
	size := bounds.Diagonal().MaxComponent()
	if !(size > 0) {
		return nil, fmt.Errorf("mesh %s has no extent", path)
	}
	center := bounds.Center()
	base := core.NewVec3(center.X, bounds.Min.Y, center.Z)

	b.add(mesh, material.NewConductor(color(0.9, 0.65, 0.3)),
		core.TranslateMatrix(base.Negate()),
		core.ScaleMatrix(core.Splat(2/size)),
		core.RotateMatrix(-53, core.NewVec3(0, 1, 0)),
	)
	b.add(geometry.NewRectangle(), material.NewDiffuse(gray(0.5)), floor(0, 40))
	b.addEmitter(geometry.NewRectangle(), core.Splat(10), quad(
		core.NewVec3(-1, 5, -3), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2)))

	return b.finish(lights.NewConstantBackground(core.Splat(0.1)), view{
		width:  640,
		height: 480,
		fov:    35,
		axis:   renderer.FovAxisY,
		eye:    core.NewVec3(0, 2.5, -6),
		target: core.NewVec3(0, 0.8, 0),
	})
}
