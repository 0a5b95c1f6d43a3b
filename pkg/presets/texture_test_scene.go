package presets

import (
	"errors"
	"fmt"
	"io/fs"
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
		ID:          "textures",
		Name:        "Texture Test",
		Description: "Checkerboard, gradient and uv textures on every shape; uses assets/texture.png and assets/environment.png when present",
	}, buildTextureTest)
}

// uvDebugTexture shows u in red and v in green
func uvDebugTexture(size int) *material.ImageTexture {
	pixels := make([]core.Vec3, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			pixels[y*size+x] = core.NewVec3(
				(float64(x)+0.5)/float64(size),
				(float64(y)+0.5)/float64(size),
				0.2,
			)
		}
	}
	return material.NewImageTexture(size, size, pixels)
}

// gradientTexture runs from top in the first row to bottom in the last
func gradientTexture(size int, top, bottom core.Vec3) *material.ImageTexture {
	pixels := make([]core.Vec3, size*size)
	for y := 0; y < size; y++ {
		t := float64(y) / float64(size-1)
		row := top.Multiply(1 - t).Add(bottom.Multiply(t))
		for x := 0; x < size; x++ {
			pixels[y*size+x] = row
		}
	}
	texture := material.NewImageTexture(size, size, pixels)
	texture.Border = material.BorderClamp
	return texture
}

// optionalTexture loads name from the asset directory, returning nil when
// the file does not exist
func optionalTexture(b *builder, name string) (*material.ImageTexture, error) {
	texture, err := loaders.LoadTexture(filepath.Join(b.opts.AssetDir, name), true)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", name, err)
	}
	b.opts.Logger.Printf("loaded texture %s (%dx%d)", name, texture.Width, texture.Height)
	return texture, nil
}

func buildTextureTest(b *builder) (*Built, error) {
	checker := material.NewCheckerboard(core.NewVec3(0.9, 0.9, 0.9), core.NewVec3(0.2, 0.2, 0.8), core.NewVec2(8, 8))
	brick := material.NewCheckerboard(core.NewVec3(0.7, 0.3, 0.1), core.NewVec3(0.5, 0.2, 0.05), core.NewVec2(16, 16))
	gradient := gradientTexture(64, core.NewVec3(1, 0.2, 0.2), core.NewVec3(0.2, 1, 0.2))
	var sphereTexture core.Texture = uvDebugTexture(64)

	photo, err := optionalTexture(b, "texture.png")
	if err != nil {
		return nil, err
	}
	if photo != nil {
		sphereTexture = photo
	}

	ball := geometry.NewUnitSphere()
	rect := geometry.NewRectangle()
	b.add(rect, material.NewDiffuse(material.NewCheckerboard(core.Splat(0.8), core.Splat(0.3), core.NewVec2(20, 15))),
		quad(core.NewVec3(-10, 0, -5), core.NewVec3(0, 0, 15), core.NewVec3(20, 0, 0)))
	b.add(ball, material.NewDiffuse(checker), sphere(core.NewVec3(-4, 1, 0), 1)...)
	b.add(ball, material.NewDiffuse(sphereTexture), sphere(core.NewVec3(-1.5, 1, 0), 1)...)

	box, err := geometry.NewBox(b.opts.Logger)
	if err != nil {
		return nil, err
	}
	b.add(box, material.NewDiffuse(brick),
		core.ScaleMatrix(core.Splat(0.8)),
		core.RotateMatrix(25, core.NewVec3(0, 1, 0)),
		core.TranslateMatrix(core.NewVec3(1, 0.8, 0)),
	)
	// Upright disc and a tilted panel facing the camera at +Z
	b.add(geometry.NewDisc(), material.NewDiffuse(gradient),
		core.ScaleMatrix(core.Splat(0.9)),
		core.TranslateMatrix(core.NewVec3(3.3, 1.2, 0)),
	)
	b.add(rect, material.NewDiffuse(uvDebugTexture(16)),
		quad(core.NewVec3(4.6, 0, 0.2), core.NewVec3(1.5, 0, -0.3), core.NewVec3(0, 2, 0)))

	b.addEmitter(ball, core.Splat(20), sphere(core.NewVec3(0, 8, 5), 1)...)

	var background core.BackgroundLight = newSky(core.NewVec3(0.3, 0.4, 0.6), core.Splat(0.2))
	environment, err := optionalTexture(b, "environment.png")
	if err != nil {
		return nil, err
	}
	if environment != nil {
		background = lights.NewImportanceSampledEnvironmentMap(environment, nil, 128, 64)
	}

	return b.finish(background, view{
		width:  640,
		height: 360,
		fov:    45,
		axis:   renderer.FovAxisY,
		eye:    core.NewVec3(0, 2, 10),
		target: core.NewVec3(0, 1, 0),
	})
}
