// Package presets builds the scenes the command line can render by name.
// Every preset returns a scene together with the camera framing it.
package presets

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/lights"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/renderer"
	"github.com/df07/go-mis-raytracer/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrUnknownPreset is returned by Build for names that are not registered
var ErrUnknownPreset = errors.New("unknown preset")

// DefaultAssetDir is where presets look for mesh and texture files
const DefaultAssetDir = "assets"

// Options adjusts how a preset is built
type Options struct {
	Width, Height int // 0 keeps the preset's resolution
	AssetDir      string
	Logger        core.Logger
	Checker       *core.Checker // attached to every instance when set
}

// Built is a ready to render preset
type Built struct {
	Scene  *scene.Scene
	Camera *renderer.Camera
}

type buildFunc func(b *builder) (*Built, error)

type preset struct {
	info  Info
	build buildFunc
}

var registry = map[string]preset{}

func register(info Info, build buildFunc) {
	info.Type = "builtin"
	if info.Group == "" {
		info.Group = BuiltinGroup
	}
	if info.DisplayName == "" {
		info.DisplayName = info.Name
	}
	registry[info.ID] = preset{info: info, build: build}
}

// List returns the built in presets sorted by id
func List() []Info {
	infos := make([]Info, 0, len(registry))
	for _, p := range registry {
		infos = append(infos, p.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Build constructs the preset registered under id. Ids of the form
// "mesh:<file>" render a mesh file on a lit floor.
func Build(id string, opts Options) (*Built, error) {
	if opts.Logger == nil {
		opts.Logger = core.NopLogger{}
	}
	if opts.AssetDir == "" {
		opts.AssetDir = DefaultAssetDir
	}
	b := &builder{opts: opts}

	if path, ok := strings.CutPrefix(id, MeshPrefix); ok {
		return meshShowcase(b, path)
	}
	p, ok := registry[strings.ToLower(id)]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownPreset, id)
	}
	built, err := p.build(b)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", id, err)
	}
	return built, nil
}

// builder accumulates instances and lights. The first transform error is
// kept and returned by finish, so scene code can chain calls.
type builder struct {
	opts      Options
	instances []*scene.Instance
	lights    []core.Light
	err       error
}

func (b *builder) transform(matrices ...mgl64.Mat4) *core.Transform {
	if len(matrices) == 0 {
		return nil
	}
	t, err := core.Compose(matrices...)
	if err != nil && b.err == nil {
		b.err = err
	}
	return t
}

// add places shape with a scattering function
func (b *builder) add(shape core.Shape, bsdf core.Bsdf, matrices ...mgl64.Mat4) *scene.Instance {
	instance := scene.NewInstance(shape, bsdf, nil).WithTransform(b.transform(matrices...))
	instance.Checker = b.opts.Checker
	b.instances = append(b.instances, instance)
	return instance
}

// addEmitter places a pure emitter and registers it as an area light
func (b *builder) addEmitter(shape core.Shape, radiance core.Vec3, matrices ...mgl64.Mat4) *scene.Instance {
	instance := scene.NewInstance(shape, nil, material.NewLambertian(material.NewSolidColor(radiance))).
		WithTransform(b.transform(matrices...))
	instance.Checker = b.opts.Checker
	b.instances = append(b.instances, instance)
	b.lights = append(b.lights, lights.NewArea(instance))
	return instance
}

func (b *builder) addLight(light core.Light) {
	b.lights = append(b.lights, light)
}

// view frames the scene
type view struct {
	width, height int
	fov           float64
	axis          renderer.FovAxis
	eye, target   core.Vec3
	up            core.Vec3
}

// finish builds the scene and the camera. Requested resolutions override
// the view's.
func (b *builder) finish(background core.BackgroundLight, v view) (*Built, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.opts.Width > 0 {
		v.width = b.opts.Width
	}
	if b.opts.Height > 0 {
		v.height = b.opts.Height
	}
	if v.up.IsZero() {
		v.up = core.NewVec3(0, 1, 0)
	}
	transform, err := core.NewTransform(core.LookAtMatrix(v.eye, v.target, v.up))
	if err != nil {
		return nil, fmt.Errorf("camera transform: %w", err)
	}
	camera, err := renderer.NewCamera(renderer.CameraConfig{
		Width:     v.width,
		Height:    v.height,
		Fov:       v.fov,
		FovAxis:   v.axis,
		Transform: transform,
	})
	if err != nil {
		return nil, err
	}

	root := scene.NewGroup(b.instances, b.opts.Logger)
	return &Built{
		Scene:  scene.New(root, b.lights, background, b.opts.Logger),
		Camera: camera,
	}, nil
}

// quad maps the [-1,1]² rectangle onto corner + s*u + t*v for s, t in
// [0,1]. The rectangle's normal ends up along u x v.
func quad(corner, u, v core.Vec3) mgl64.Mat4 {
	n := u.Cross(v).Normalize()
	center := corner.Add(u.Multiply(0.5)).Add(v.Multiply(0.5))
	return mgl64.Mat4FromCols(
		mgl64.Vec4{u.X / 2, u.Y / 2, u.Z / 2, 0},
		mgl64.Vec4{v.X / 2, v.Y / 2, v.Z / 2, 0},
		mgl64.Vec4{n.X, n.Y, n.Z, 0},
		mgl64.Vec4{center.X, center.Y, center.Z, 1},
	)
}

// floor maps the rectangle onto the y=height plane, size units per side,
// facing up
func floor(height, size float64) mgl64.Mat4 {
	return quad(core.NewVec3(-size/2, height, -size/2), core.NewVec3(0, 0, size), core.NewVec3(size, 0, 0))
}

// sphere places the unit sphere
func sphere(center core.Vec3, radius float64) []mgl64.Mat4 {
	return []mgl64.Mat4{core.ScaleMatrix(core.Splat(radius)), core.TranslateMatrix(center)}
}

func gray(v float64) core.Texture {
	return material.NewScalar(v)
}

func color(r, g, b float64) core.Texture {
	return material.NewSolidColor(core.NewVec3(r, g, b))
}
