package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrSingularTransform is returned when a transform matrix cannot be inverted
var ErrSingularTransform = errors.New("transform matrix is singular")

// Transform is an affine transform together with its precomputed inverse
// and normal matrix. It is immutable once constructed.
type Transform struct {
	matrix  mgl64.Mat4
	inverse mgl64.Mat4
	normal  mgl64.Mat4 // inverse transpose
}

// IdentityTransform returns the identity transform
func IdentityTransform() *Transform {
	id := mgl64.Ident4()
	return &Transform{matrix: id, inverse: id, normal: id}
}

// NewTransform creates a transform from a matrix, rejecting matrices with a
// zero (or non-finite) determinant
func NewTransform(matrix mgl64.Mat4) (*Transform, error) {
	det := matrix.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) || math.Abs(det) < 1e-12 {
		return nil, fmt.Errorf("determinant %g: %w", det, ErrSingularTransform)
	}
	inverse := matrix.Inv()
	return &Transform{matrix: matrix, inverse: inverse, normal: inverse.Transpose()}, nil
}

// Compose returns a transform that applies the given matrices left to
// right, i.e. the first matrix is applied to points first
func Compose(matrices ...mgl64.Mat4) (*Transform, error) {
	m := mgl64.Ident4()
	for _, next := range matrices {
		m = next.Mul4(m)
	}
	return NewTransform(m)
}

// TranslateMatrix returns a translation matrix
func TranslateMatrix(v Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(v.X, v.Y, v.Z)
}

// ScaleMatrix returns a non-uniform scale matrix
func ScaleMatrix(v Vec3) mgl64.Mat4 {
	return mgl64.Scale3D(v.X, v.Y, v.Z)
}

// RotateMatrix returns a rotation of angle degrees about axis
func RotateMatrix(degrees float64, axis Vec3) mgl64.Mat4 {
	return mgl64.HomogRotate3D(mgl64.DegToRad(degrees), toMgl(axis.Normalize()))
}

// LookAtMatrix returns a local-to-world matrix for a frame at eye whose +Z
// axis points at target and whose +Y axis is as close to up as possible
func LookAtMatrix(eye, target, up Vec3) mgl64.Mat4 {
	dir := target.Subtract(eye).Normalize()
	left := up.Cross(dir).Normalize()
	newUp := dir.Cross(left)
	return mgl64.Mat4FromCols(
		toMgl(left).Vec4(0),
		toMgl(newUp).Vec4(0),
		toMgl(dir).Vec4(0),
		toMgl(eye).Vec4(1),
	)
}

// Matrix returns the forward matrix
func (t *Transform) Matrix() mgl64.Mat4 { return t.matrix }

// IsIdentity reports whether the transform leaves every point unchanged
func (t *Transform) IsIdentity() bool { return t.matrix == mgl64.Ident4() }

// Determinant returns the determinant of the forward matrix
func (t *Transform) Determinant() float64 { return t.matrix.Det() }

// Apply transforms a point
func (t *Transform) Apply(p Vec3) Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), t.matrix))
}

// ApplyVector transforms a direction (ignores translation)
func (t *Transform) ApplyVector(v Vec3) Vec3 {
	return fromMgl(t.matrix.Mul4x1(toMgl(v).Vec4(0)).Vec3())
}

// ApplyNormal transforms a surface normal with the inverse transpose and
// renormalizes it
func (t *Transform) ApplyNormal(n Vec3) Vec3 {
	return fromMgl(t.normal.Mul4x1(toMgl(n).Vec4(0)).Vec3()).Normalize()
}

// InverseApply transforms a point by the inverse
func (t *Transform) InverseApply(p Vec3) Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), t.inverse))
}

// InverseApplyVector transforms a direction by the inverse
func (t *Transform) InverseApplyVector(v Vec3) Vec3 {
	return fromMgl(t.inverse.Mul4x1(toMgl(v).Vec4(0)).Vec3())
}

// ApplyRay transforms a ray into world space. The direction is not
// renormalized.
func (t *Transform) ApplyRay(ray Ray) Ray {
	return Ray{Origin: t.Apply(ray.Origin), Direction: t.ApplyVector(ray.Direction), Depth: ray.Depth}
}

// InverseRay transforms a world ray into local space. The direction is not
// renormalized.
func (t *Transform) InverseRay(ray Ray) Ray {
	return Ray{Origin: t.InverseApply(ray.Origin), Direction: t.InverseApplyVector(ray.Direction), Depth: ray.Depth}
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}
