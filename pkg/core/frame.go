package core

import "math"

// Frame is an orthonormal basis. Local shading coordinates are z-up, with
// Normal mapped to +Z.
type Frame struct {
	Tangent   Vec3
	Bitangent Vec3
	Normal    Vec3
}

// BuildFrame creates an orthonormal basis around a unit normal using the
// branchless construction of Duff et al.
func BuildFrame(normal Vec3) Frame {
	sign := math.Copysign(1, normal.Z)
	a := -1 / (sign + normal.Z)
	b := normal.X * normal.Y * a
	tangent := NewVec3(1+sign*normal.X*normal.X*a, sign*b, -sign*normal.X)
	bitangent := NewVec3(b, sign+normal.Y*normal.Y*a, -normal.Y)
	return Frame{Tangent: tangent, Bitangent: bitangent, Normal: normal}
}

// NewFrame builds a frame from a normal and an approximate tangent,
// orthogonalizing the tangent against the normal
func NewFrame(normal, tangent Vec3) Frame {
	t := tangent.Subtract(normal.Multiply(normal.Dot(tangent)))
	if t.LengthSquared() < 1e-12 {
		return BuildFrame(normal)
	}
	t = t.Normalize()
	return Frame{Tangent: t, Bitangent: normal.Cross(t), Normal: normal}
}

// ToLocal expresses a world vector in this frame
func (f Frame) ToLocal(v Vec3) Vec3 {
	return NewVec3(v.Dot(f.Tangent), v.Dot(f.Bitangent), v.Dot(f.Normal))
}

// ToWorld expresses a local vector in world coordinates
func (f Frame) ToWorld(v Vec3) Vec3 {
	return f.Tangent.Multiply(v.X).Add(f.Bitangent.Multiply(v.Y)).Add(f.Normal.Multiply(v.Z))
}

// IsOrthonormal reports whether the three axes are unit length and mutually
// perpendicular within tolerance
func (f Frame) IsOrthonormal(tolerance float64) bool {
	unit := func(v Vec3) bool { return math.Abs(v.Length()-1) <= tolerance }
	return unit(f.Tangent) && unit(f.Bitangent) && unit(f.Normal) &&
		math.Abs(f.Tangent.Dot(f.Bitangent)) <= tolerance &&
		math.Abs(f.Tangent.Dot(f.Normal)) <= tolerance &&
		math.Abs(f.Bitangent.Dot(f.Normal)) <= tolerance
}

// CosTheta returns the cosine to the local normal of a local direction
func CosTheta(w Vec3) float64 { return w.Z }

// AbsCosTheta returns |CosTheta(w)|
func AbsCosTheta(w Vec3) float64 { return math.Abs(w.Z) }

// SameHemisphere reports whether two local directions lie on the same side
func SameHemisphere(a, b Vec3) bool { return a.Z*b.Z > 0 }

// Reflect mirrors w about n
func Reflect(w, n Vec3) Vec3 {
	return n.Multiply(2 * w.Dot(n)).Subtract(w)
}

// Refract bends w through a surface with normal n and relative index eta.
// The zero vector is returned on total internal reflection.
func Refract(w, n Vec3, eta float64) Vec3 {
	cosI := w.Dot(n)
	inv := 1 / eta
	k := 1 - inv*inv*(1-cosI*cosI)
	if k < 0 {
		return Vec3{}
	}
	return w.Negate().Multiply(inv).Add(n.Multiply(cosI*inv - math.Sqrt(k)))
}
