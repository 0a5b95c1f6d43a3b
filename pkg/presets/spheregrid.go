package presets

import (
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/renderer"
)

func init() {
	register(Info{
		ID:          "sphere-grid",
		Name:        "Sphere Grid",
		Description: "Grid of rainbow colored metal and diffuse spheres, exercising the instance BVH",
	}, buildSphereGrid)
}

// oklch converts an OKLCH color (hue in degrees) to clamped linear sRGB
func oklch(lightness, chroma, hue float64) core.Vec3 {
	h := hue * math.Pi / 180
	a := chroma * math.Cos(h)
	b := chroma * math.Sin(h)

	l := cube(lightness + 0.3963377774*a + 0.2158037573*b)
	m := cube(lightness - 0.1055613458*a - 0.0638541728*b)
	s := cube(lightness - 0.0894841775*a - 1.2914855480*b)

	return core.NewVec3(
		+4.0767416621*l-3.3077115913*m+0.2309699292*s,
		-1.2684380046*l+2.6097574011*m-0.3413193965*s,
		-0.0041960863*l-0.7034186147*m+1.7076147010*s,
	).Clamp(0, 1)
}

func cube(x float64) float64 { return x * x * x }

const gridSize = 12

func buildSphereGrid(b *builder) (*Built, error) {
	b.add(geometry.NewRectangle(), material.NewDiffuse(gray(0.5)), floor(0, 200))

	extent := 9.0
	spacing := extent / (gridSize - 1)
	radius := spacing * 0.35
	ball := geometry.NewUnitSphere()

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - extent/2 + 4.5
			z := float64(j)*spacing - extent/2 + 4.5

			hue := float64(i) / (gridSize - 1) * 360
			chroma := 0.05 + float64(j)/(gridSize-1)*0.2
			albedo := material.NewSolidColor(oklch(0.65+0.1*math.Sin(float64(i+j)*0.5), chroma, hue))

			var bsdf core.Bsdf = material.NewConductor(albedo)
			if (i+j)%3 == 0 {
				bsdf = material.NewDiffuse(albedo)
			}
			b.add(ball, bsdf, sphere(core.NewVec3(x, radius, z), radius)...)
		}
	}

	b.addEmitter(ball, core.NewVec3(12, 11.5, 10), sphere(core.NewVec3(20, 25, 20), 8)...)

	return b.finish(newSky(core.NewVec3(0.5, 0.7, 1), core.Splat(1)), view{
		width:  800,
		height: 450,
		fov:    40,
		axis:   renderer.FovAxisY,
		eye:    core.NewVec3(4.5, 6, 18),
		target: core.NewVec3(4.5, 0.8, 4.5),
	})
}
