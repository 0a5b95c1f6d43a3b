package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

// FovAxis names the image axis the field of view is measured along
type FovAxis int

const (
	FovAxisX FovAxis = iota
	FovAxisY
)

// ParseFovAxis parses "x" or "y"
func ParseFovAxis(name string) (FovAxis, error) {
	switch name {
	case "x", "X":
		return FovAxisX, nil
	case "y", "Y":
		return FovAxisY, nil
	}
	return 0, fmt.Errorf("invalid fov axis %q", name)
}

// CameraConfig describes a perspective camera
type CameraConfig struct {
	Width, Height int
	Fov           float64 // degrees
	FovAxis       FovAxis
	Transform     *core.Transform // camera to world, nil for the origin
}

// Camera is a pinhole camera. In camera space it sits at the origin and
// looks down +Z with +Y up and +X to the left of the image, the frame
// core.LookAtMatrix produces.
type Camera struct {
	width, height  int
	scaleX, scaleY float64
	transform      *core.Transform
}

// NewCamera creates a camera, rejecting empty images and fields of view
// outside (0, 180)
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("invalid resolution %dx%d", config.Width, config.Height)
	}
	if !(config.Fov > 0 && config.Fov < 180) {
		return nil, fmt.Errorf("invalid field of view %g", config.Fov)
	}

	tanHalf := math.Tan(config.Fov * math.Pi / 360)
	aspect := float64(config.Width) / float64(config.Height)
	c := &Camera{width: config.Width, height: config.Height, transform: config.Transform}
	if config.FovAxis == FovAxisX {
		c.scaleX, c.scaleY = tanHalf, tanHalf/aspect
	} else {
		c.scaleX, c.scaleY = tanHalf*aspect, tanHalf
	}
	return c, nil
}

// NewLookAtCamera creates a camera at eye looking at target
func NewLookAtCamera(width, height int, fov float64, eye, target, up core.Vec3) (*Camera, error) {
	transform, err := core.NewTransform(core.LookAtMatrix(eye, target, up))
	if err != nil {
		return nil, fmt.Errorf("camera transform: %w", err)
	}
	return NewCamera(CameraConfig{Width: width, Height: height, Fov: fov, FovAxis: FovAxisX, Transform: transform})
}

// Resolution returns the image size in pixels
func (c *Camera) Resolution() (width, height int) { return c.width, c.height }

// GenerateRay returns the normalized world ray through a point of the image
// plane. normalized is in [-1,1]²: x grows to the right, y grows upwards.
func (c *Camera) GenerateRay(normalized core.Vec2) core.Ray {
	direction := core.NewVec3(-normalized.X*c.scaleX, normalized.Y*c.scaleY, 1).Normalize()
	ray := core.NewRay(core.Vec3{}, direction)
	if c.transform != nil {
		ray = c.transform.ApplyRay(ray).Normalized()
	}
	return ray
}

// PixelRay returns the ray through pixel (x, y), row 0 at the top, jittered
// by u in [0,1)²
func (c *Camera) PixelRay(x, y int, u core.Vec2) core.Ray {
	return c.GenerateRay(core.NewVec2(
		2*(float64(x)+u.X)/float64(c.width)-1,
		1-2*(float64(y)+u.Y)/float64(c.height),
	))
}
