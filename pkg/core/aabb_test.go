package core

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestBounds_Sentinels(t *testing.T) {
	box := NewBounds(NewVec3(-1, -2, -3), NewVec3(1, 2, 3))

	if !EmptyBounds().IsEmpty() {
		t.Error("Expected empty sentinel to be empty")
	}
	if got := EmptyBounds().Union(box); got != box {
		t.Errorf("Expected empty to be the identity of Union, got %v", got)
	}
	if got := FullBounds().Intersection(box); got != box {
		t.Errorf("Expected full to be the identity of Intersection, got %v", got)
	}
	if !FullBounds().Union(box).IsUnbounded() {
		t.Error("Expected full to absorb Union")
	}
	if !EmptyBounds().Intersection(box).IsEmpty() {
		t.Error("Expected empty to absorb Intersection")
	}
	if EmptyBounds().SurfaceArea() != 0 {
		t.Errorf("Expected empty surface area 0, got %f", EmptyBounds().SurfaceArea())
	}
	if got := NewBoundsFromPoints(NewVec3(1, 0, 0), NewVec3(0, 1, 0)); got != NewBounds(NewVec3(0, 0, 0), NewVec3(1, 1, 0)) {
		t.Errorf("Unexpected bounds from points: %v", got)
	}
}

func TestBounds_Corners(t *testing.T) {
	box := NewBounds(NewVec3(0, 0, 0), NewVec3(1, 2, 3))
	grown := EmptyBounds()
	for i := 0; i < 8; i++ {
		grown = grown.Extend(box.Corner(i))
	}
	if grown != box {
		t.Errorf("Expected all corners to span the box, got %v", grown)
	}
}

func TestBounds_Distance(t *testing.T) {
	box := NewBounds(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	inf := math.Inf(1)

	tests := []struct {
		name     string
		ray      Ray
		expected float64
	}{
		{"hit from front", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), 4},
		{"unnormalized direction", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 2)), 2},
		{"miss parallel", NewRay(NewVec3(2, 0, -5), NewVec3(0, 0, 1)), inf},
		{"behind origin", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, 1)), inf},
		{"origin inside", NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1)), -1},
		{"diagonal miss", NewRay(NewVec3(-5, 3, 0), NewVec3(1, 0, 0)), inf},
		{"exit within epsilon", NewRay(NewVec3(0, 0, 1-Epsilon/2), NewVec3(0, 0, 1)), inf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := box.Distance(tt.ray)
			if got != tt.expected && math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestBounds_DistanceDegenerateBox(t *testing.T) {
	// Zero-extent box on the z=0 plane
	flat := NewBounds(NewVec3(-1, -1, 0), NewVec3(1, 1, 0))
	got := flat.Distance(NewRay(NewVec3(0, 0, -2), NewVec3(0, 0, 1)))
	if math.Abs(got-2) > 1e-12 {
		t.Errorf("Expected flat box hit at 2, got %f", got)
	}
	if !math.IsInf(EmptyBounds().Distance(NewRay(Vec3{}, NewVec3(1, 0, 0))), 1) {
		t.Error("Expected empty box to never be hit")
	}
	if math.IsInf(FullBounds().Distance(NewRay(Vec3{}, NewVec3(1, 0, 0))), 1) {
		t.Error("Expected full box to always be hit")
	}
}

// The slab distance is finite exactly when some point of the box lies on
// the ray in front of the origin. Check against dense sampling of the ray.
func TestBounds_DistanceMatchesMarching(t *testing.T) {
	random := rand.New(rand.NewPCG(42, 0))
	box := NewBounds(NewVec3(-1, -0.5, -0.25), NewVec3(0.5, 1, 0.75))

	for i := 0; i < 2000; i++ {
		origin := NewVec3(random.Float64()*6-3, random.Float64()*6-3, random.Float64()*6-3)
		dir := SquareToUniformSphere(NewVec2(random.Float64(), random.Float64()))
		ray := NewRay(origin, dir)
		d := box.Distance(ray)

		if math.IsInf(d, 1) {
			for s := 0.01; s < 10; s += 0.01 {
				if box.Expand(-1e-3).Contains(ray.At(s)) {
					t.Fatalf("Ray %d reported a miss but point at t=%f is inside", i, s)
				}
			}
			continue
		}
		probe := math.Max(d, 0) + 1e-6
		if !box.Expand(2e-6).Contains(ray.At(probe)) {
			t.Fatalf("Ray %d reported distance %f but the point is outside", i, d)
		}
	}
}
