package core

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestTransform_Singular(t *testing.T) {
	_, err := NewTransform(ScaleMatrix(NewVec3(1, 0, 1)))
	if !errors.Is(err, ErrSingularTransform) {
		t.Errorf("Expected ErrSingularTransform, got %v", err)
	}
	if _, err := NewTransform(mgl64.Ident4()); err != nil {
		t.Errorf("Unexpected error for identity: %v", err)
	}
}

func TestTransform_ApplyAndInverse(t *testing.T) {
	tr, err := Compose(
		ScaleMatrix(NewVec3(2, 3, 4)),
		RotateMatrix(90, NewVec3(0, 0, 1)),
		TranslateMatrix(NewVec3(1, 0, 0)),
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// (1,0,0) -> scale (2,0,0) -> rotate (0,2,0) -> translate (1,2,0)
	got := tr.Apply(NewVec3(1, 0, 0))
	if got.Subtract(NewVec3(1, 2, 0)).Length() > 1e-12 {
		t.Errorf("Expected (1,2,0), got %v", got)
	}
	p := NewVec3(0.3, -1.2, 5)
	if back := tr.InverseApply(tr.Apply(p)); back.Subtract(p).Length() > 1e-12 {
		t.Errorf("Expected inverse roundtrip %v, got %v", p, back)
	}
	if v := tr.ApplyVector(NewVec3(0, 0, 1)); v.Subtract(NewVec3(0, 0, 4)).Length() > 1e-12 {
		t.Errorf("Expected vectors to ignore translation, got %v", v)
	}
	if math.Abs(tr.Determinant()-24) > 1e-9 {
		t.Errorf("Expected determinant 24, got %f", tr.Determinant())
	}
}

func TestTransform_NormalStaysPerpendicular(t *testing.T) {
	tr, err := NewTransform(ScaleMatrix(NewVec3(1, 5, 1)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Plane spanned by tangent/bitangent with normal n
	tangent := NewVec3(1, 1, 0).Normalize()
	bitangent := NewVec3(0, 0, 1)
	n := tangent.Cross(bitangent).Normalize()

	tn := tr.ApplyNormal(n)
	if math.Abs(tn.Dot(tr.ApplyVector(tangent))) > 1e-12 || math.Abs(tn.Dot(tr.ApplyVector(bitangent))) > 1e-12 {
		t.Errorf("Expected transformed normal perpendicular to transformed surface, got %v", tn)
	}
	if math.Abs(tn.Length()-1) > 1e-12 {
		t.Errorf("Expected unit normal, got length %f", tn.Length())
	}
}

func TestLookAtMatrix(t *testing.T) {
	tr, err := NewTransform(LookAtMatrix(NewVec3(0, 0, -5), NewVec3(0, 0, 0), NewVec3(0, 1, 0)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := tr.ApplyVector(NewVec3(0, 0, 1)); got.Subtract(NewVec3(0, 0, 1)).Length() > 1e-12 {
		t.Errorf("Expected forward +Z, got %v", got)
	}
	if got := tr.Apply(Vec3{}); got.Subtract(NewVec3(0, 0, -5)).Length() > 1e-12 {
		t.Errorf("Expected origin at eye, got %v", got)
	}
}
