package stats

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/df07/go-mis-raytracer/pkg/core"
)

func TestRecorder_NilIsSafe(t *testing.T) {
	var r *Recorder
	r.Add(CameraRays, 1)
	r.AddIntersection(core.IntersectionStats{BVHNodes: 3})
	r.Time("trace")()
	if r.Count(CameraRays) != 0 {
		t.Errorf("Expected nil recorder to count nothing, got %d", r.Count(CameraRays))
	}
}

func TestCollector_JoinsConcurrently(t *testing.T) {
	c := NewCollector()
	workers := 8
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := c.Recorder()
			for i := 0; i < 1000; i++ {
				r.Add(CameraRays, 1)
				r.AddIntersection(core.IntersectionStats{BVHNodes: 2, Primitives: 1})
			}
			stop := r.Time("trace")
			stop()
			c.Join(r)
		}()
	}
	wg.Wait()

	report := c.Report()
	tests := []struct {
		counter  Counter
		expected int64
	}{
		{CameraRays, 8000},
		{BVHNodes, 16000},
		{PrimitiveTests, 8000},
		{ShadowRays, 0},
	}
	for _, tt := range tests {
		if got := report.Count(tt.counter); got != tt.expected {
			t.Errorf("%s: expected %d, got %d", tt.counter, tt.expected, got)
		}
	}
	if report.Workers != workers {
		t.Errorf("Expected %d workers, got %d", workers, report.Workers)
	}
	if _, ok := report.Durations["trace"]; !ok {
		t.Error("Expected the trace scope to be reported")
	}
}

func TestReport_Table(t *testing.T) {
	c := NewCollector()
	r := c.Recorder()
	r.Add(ShadowRays, 42)
	c.Join(r)

	table := c.Report().Table()
	for _, want := range []string{"Shadow rays", "42", "Workers"} {
		if !strings.Contains(table, want) {
			t.Errorf("Expected table to contain %q, got:\n%s", want, table)
		}
	}
	if strings.Contains(table, "Relative error") {
		t.Errorf("Expected no relative error row before the renderer sets it, got:\n%s", table)
	}
}

func TestReport_TableKeepsLongCellsOnOneLine(t *testing.T) {
	scope := "integrator/mis-path-tracer/trace-and-shade"
	report := Report{
		Durations:     map[string]time.Duration{scope: 1500 * time.Millisecond},
		Workers:       4,
		Elapsed:       2 * time.Second,
		RelativeError: 0.0125,
	}
	table := report.Table()
	tests := []struct {
		label string
		value string
	}{
		{scope, "1.5s"},
		{"Relative error", "0.0125"},
	}
	lines := strings.Split(table, "\n")
	for _, tt := range tests {
		found := false
		for _, line := range lines {
			if strings.Contains(line, tt.label) && strings.Contains(line, tt.value) {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected %q and %q on one line, got:\n%s", tt.label, tt.value, table)
		}
	}
}
