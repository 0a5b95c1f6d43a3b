package lights

import (
	"math"
	"testing"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/df07/go-mis-raytracer/pkg/geometry"
	"github.com/df07/go-mis-raytracer/pkg/material"
	"github.com/df07/go-mis-raytracer/pkg/scene"
)

func newTestSampler() *core.RandomSampler {
	sampler := core.NewRandomSampler(42)
	sampler.Seed(0, 0)
	return sampler
}

func TestPoint_InverseSquare(t *testing.T) {
	power := core.NewVec3(4*math.Pi, 8*math.Pi, 0)
	light := NewPoint(core.NewVec3(0, 3, 0), power)

	tests := []struct {
		origin   core.Vec3
		distance float64
	}{
		{core.NewVec3(0, 2, 0), 1},
		{core.NewVec3(0, 1, 0), 2},
		{core.NewVec3(4, 3, 0), 4},
	}
	for _, tt := range tests {
		sample := light.SampleDirect(tt.origin, newTestSampler())
		expected := core.NewVec3(1, 2, 0).Divide(tt.distance * tt.distance)
		if sample.Weight.Subtract(expected).Length() > 1e-12 {
			t.Errorf("distance %f: expected weight %v, got %v", tt.distance, expected, sample.Weight)
		}
		if math.Abs(sample.Distance-tt.distance) > 1e-12 {
			t.Errorf("Expected distance %f, got %f", tt.distance, sample.Distance)
		}
		if math.Abs(sample.Wi.Length()-1) > 1e-12 || !core.IsDelta(sample.Pdf) {
			t.Errorf("Expected unit direction with delta pdf, got %v pdf %f", sample.Wi, sample.Pdf)
		}
	}
	if light.CanBeIntersected() {
		t.Error("Expected point light to be unreachable by BSDF rays")
	}
}

func TestDirectional(t *testing.T) {
	light := NewDirectional(core.NewVec3(0, 2, 0), core.NewVec3(3, 3, 3))
	sample := light.SampleDirect(core.NewVec3(5, 5, 5), newTestSampler())
	if sample.Wi != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected normalized direction, got %v", sample.Wi)
	}
	if !math.IsInf(sample.Distance, 1) || !core.IsDelta(sample.Pdf) {
		t.Errorf("Expected infinite distance and delta pdf, got %f %f", sample.Distance, sample.Pdf)
	}
}

func emitter(shape core.Shape, radiance float64) *scene.Instance {
	return scene.NewInstance(shape, nil, material.NewLambertian(material.NewScalar(radiance)))
}

func TestArea_RectangleSolidAngle(t *testing.T) {
	instance := emitter(geometry.NewRectangle(), 2)
	light := NewArea(instance)
	if instance.Light() != light {
		t.Fatal("Expected the light to be attached to its instance")
	}

	// A 2x2 square seen from distance 1 above its center
	solidAngle := 2 * math.Pi / 3
	origin := core.NewVec3(0, 0, 1)
	sampler := newTestSampler()
	for i := 0; i < 1000; i++ {
		sample := light.SampleDirect(origin, sampler)
		if sample.IsInvalid() {
			t.Fatal("Expected a valid sample")
		}
		// Uniform solid angle sampling makes every weight L*omega
		if math.Abs(sample.Weight.X-2*solidAngle) > 1e-6 {
			t.Fatalf("Expected weight %f, got %f", 2*solidAngle, sample.Weight.X)
		}
		if math.Abs(sample.Pdf-1/solidAngle) > 1e-6 {
			t.Fatalf("Expected pdf %f, got %f", 1/solidAngle, sample.Pdf)
		}
	}
}

func TestArea_BackFaceIsDark(t *testing.T) {
	light := NewArea(emitter(geometry.NewRectangle(), 1))
	if sample := light.SampleDirect(core.NewVec3(0, 0, -1), newTestSampler()); !sample.IsInvalid() {
		t.Errorf("Expected no light behind a front-facing emitter, got %v", sample.Weight)
	}
}

func TestArea_SphereSolidAngle(t *testing.T) {
	light := NewArea(emitter(geometry.NewSphere(core.NewVec3(0, 3, 0), 1), 1))
	sampler := newTestSampler()

	n := 100000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += light.SampleDirect(core.Vec3{}, sampler).Weight.X
	}
	expected := 2 * math.Pi * (1 - math.Sqrt(1-1.0/9))
	if got := sum / float64(n); math.Abs(got-expected)/expected > 0.02 {
		t.Errorf("Expected mean weight %f, got %f", expected, got)
	}
}

func TestArea_IntersectableOnlyInScene(t *testing.T) {
	instance := emitter(geometry.NewRectangle(), 1)
	light := NewArea(instance)
	if light.CanBeIntersected() {
		t.Error("Expected a light outside any scene to be unreachable")
	}
	scene.New(scene.NewGroup([]*scene.Instance{instance}, nil), []core.Light{light}, nil, nil)
	if !light.CanBeIntersected() {
		t.Error("Expected a light in the scene to be intersectable")
	}
}

func TestArea_InsideTransformedGroup(t *testing.T) {
	instance := emitter(geometry.NewRectangle(), 2)
	group := scene.NewGroup([]*scene.Instance{instance}, nil)
	placement, err := core.Compose(core.ScaleMatrix(core.Splat(2)), core.TranslateMatrix(core.NewVec3(0, 0, -5)))
	if err != nil {
		t.Fatalf("Expected valid transform, got %v", err)
	}
	parent := scene.NewInstance(group, nil, nil).WithTransform(placement)
	light := NewArea(instance).Within(parent)

	// A 4x4 square 5 below the origin; uniform scaling keeps solid angles
	solidAngle := 4 * math.Asin(4.0/29)
	sampler := newTestSampler()
	for i := 0; i < 200; i++ {
		sample := light.SampleDirect(core.Vec3{}, sampler)
		if sample.IsInvalid() {
			t.Fatal("Expected a valid sample")
		}
		if math.Abs(sample.Weight.X-2*solidAngle) > 1e-6 {
			t.Fatalf("Expected weight %f, got %f", 2*solidAngle, sample.Weight.X)
		}
		if math.Abs(sample.Pdf-1/solidAngle) > 1e-6 {
			t.Fatalf("Expected pdf %f, got %f", 1/solidAngle, sample.Pdf)
		}
		if sample.Distance < 5-1e-9 || sample.Distance > math.Sqrt(33)+1e-9 || sample.Wi.Z >= 0 {
			t.Fatalf("Expected a point on the placed square, got distance %f along %v", sample.Distance, sample.Wi)
		}

		// The sampled point is where a world ray in that direction hits
		ray := core.NewRay(core.Vec3{}, sample.Wi)
		its := core.NewIntersection(ray.Direction.Negate(), math.Inf(1))
		if !parent.Intersect(ray, &its, sampler) || math.Abs(its.T-sample.Distance) > 1e-6 {
			t.Fatalf("Expected a hit at %f, got hit=%v t=%f", sample.Distance, its.Hit(), its.T)
		}
	}
}

// uvTexture encodes the lookup coordinates as a color
type uvTexture struct{}

func (uvTexture) Evaluate(uv core.Vec2) core.Vec3 { return core.NewVec3(uv.X, uv.Y, 0) }
func (uvTexture) Scalar(uv core.Vec2) float64     { return uv.X }

func TestEnvironmentMap_Mapping(t *testing.T) {
	env := NewEnvironmentMap(uvTexture{}, nil)
	tests := []struct {
		name      string
		direction core.Vec3
		u, v      float64
	}{
		{"up", core.NewVec3(0, 1, 0), -1, 0},
		{"down", core.NewVec3(0, -1, 0), -1, 1},
		{"-x", core.NewVec3(-1, 0, 0), 0, 0.5},
		{"+x", core.NewVec3(1, 0, 0), 0.5, 0.5},
		{"+z", core.NewVec3(0, 0, 1), 0.25, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := env.Evaluate(tt.direction).Value
			if tt.u >= 0 && math.Abs(got.X-tt.u) > 1e-9 {
				t.Errorf("Expected u=%f, got %f", tt.u, got.X)
			}
			if math.Abs(got.Y-tt.v) > 1e-9 {
				t.Errorf("Expected v=%f, got %f", tt.v, got.Y)
			}
		})
	}
}

func TestEnvironmentMap_ImportanceSampling(t *testing.T) {
	texture := material.NewCheckerboard(core.Splat(0.05), core.Splat(1), core.NewVec2(4, 2))
	uniform := NewEnvironmentMap(texture, nil)
	importance := NewImportanceSampledEnvironmentMap(texture, nil, 64, 32)
	sampler := newTestSampler()

	n := 100000
	uniformSum, importanceSum := 0.0, 0.0
	mismatches := 0
	for i := 0; i < n; i++ {
		uniformSum += uniform.SampleDirect(core.Vec3{}, sampler).Weight.X
		sample := importance.SampleDirect(core.Vec3{}, sampler)
		if sample.IsInvalid() {
			continue
		}
		importanceSum += sample.Weight.X
		if eval := importance.Evaluate(sample.Wi); math.Abs(eval.Pdf-sample.Pdf) > 1e-6*sample.Pdf {
			mismatches++
		}
	}
	uniformMean := uniformSum / float64(n)
	importanceMean := importanceSum / float64(n)
	if math.Abs(uniformMean-importanceMean)/uniformMean > 0.03 {
		t.Errorf("Expected both estimators to agree, got uniform %f and importance %f", uniformMean, importanceMean)
	}
	if mismatches > n/100 {
		t.Errorf("Expected sample pdfs to match Evaluate, got %d mismatches", mismatches)
	}
}

func TestConstantBackground(t *testing.T) {
	background := NewConstantBackground(core.NewVec3(0.5, 0.5, 0.5))
	sample := background.SampleDirect(core.Vec3{}, newTestSampler())
	if math.Abs(sample.Weight.X-0.5*4*math.Pi) > 1e-12 || sample.Pdf != core.Inv4Pi {
		t.Errorf("Expected weight 2pi with pdf 1/4pi, got %v pdf %f", sample.Weight, sample.Pdf)
	}
	if !background.CanBeIntersected() {
		t.Error("Expected escaping rays to see the background")
	}
}
