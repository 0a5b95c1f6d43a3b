// Package stats collects per-worker render counters and merges them into a
// report once the workers are done.
package stats

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/df07/go-mis-raytracer/pkg/core"
	"github.com/olekukonko/tablewriter"
)

// Counter identifies one of the recorded quantities
type Counter int

const (
	CameraRays Counter = iota
	BounceRays
	ShadowRays
	BVHNodes
	PrimitiveTests
	LightSamples
	BsdfSamples
	Samples
	NonFiniteSamples
	numCounters
)

var counterNames = [numCounters]string{
	"Camera rays",
	"Bounce rays",
	"Shadow rays",
	"BVH nodes visited",
	"Primitive tests",
	"Light samples",
	"BSDF samples",
	"Pixel samples",
	"Non-finite samples",
}

func (c Counter) String() string {
	if c < 0 || c >= numCounters {
		return fmt.Sprintf("Counter(%d)", int(c))
	}
	return counterNames[c]
}

// Recorder is owned by a single worker and needs no locking. A nil
// *Recorder records nothing.
type Recorder struct {
	counters  [numCounters]int64
	durations map[string]time.Duration
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{durations: make(map[string]time.Duration)}
}

// Add increments a counter
func (r *Recorder) Add(counter Counter, n int) {
	if r == nil {
		return
	}
	r.counters[counter] += int64(n)
}

// AddIntersection adds the traversal work of one query
func (r *Recorder) AddIntersection(its core.IntersectionStats) {
	if r == nil {
		return
	}
	r.counters[BVHNodes] += int64(its.BVHNodes)
	r.counters[PrimitiveTests] += int64(its.Primitives)
}

// Time starts timing scope; call the returned function to stop
func (r *Recorder) Time(scope string) func() {
	if r == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		r.durations[scope] += time.Since(start)
	}
}

// Count returns the current value of a counter
func (r *Recorder) Count(counter Counter) int64 {
	if r == nil {
		return 0
	}
	return r.counters[counter]
}

// Collector is the shared sink the workers join into
type Collector struct {
	mu     sync.Mutex
	total  Recorder
	joined int
	start  time.Time
}

// NewCollector creates a collector and starts its wall clock
func NewCollector() *Collector {
	return &Collector{total: Recorder{durations: make(map[string]time.Duration)}, start: time.Now()}
}

// Recorder hands out a new recorder for one worker
func (c *Collector) Recorder() *Recorder {
	return NewRecorder()
}

// Join merges a worker's recorder. It is safe to call concurrently.
func (c *Collector) Join(r *Recorder) {
	if r == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range r.counters {
		c.total.counters[i] += r.counters[i]
	}
	for scope, d := range r.durations {
		c.total.durations[scope] += d
	}
	c.joined++
}

// Report is a snapshot of everything joined so far
type Report struct {
	Counters  [numCounters]int64
	Durations map[string]time.Duration
	Workers   int
	Elapsed   time.Duration

	// RelativeError is the mean per-pixel standard error of luminance over
	// the mean, filled in by the renderer
	RelativeError float64
}

// Report snapshots the joined totals
func (c *Collector) Report() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	report := Report{
		Counters:  c.total.counters,
		Durations: make(map[string]time.Duration, len(c.total.durations)),
		Workers:   c.joined,
		Elapsed:   time.Since(c.start),
	}
	for scope, d := range c.total.durations {
		report.Durations[scope] = d
	}
	return report
}

// Count returns a counter of the report
func (r Report) Count(counter Counter) int64 { return r.Counters[counter] }

// Table renders the report as a text table
func (r Report) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Statistic", "Value", "Per second"})

	seconds := r.Elapsed.Seconds()
	for c := Counter(0); c < numCounters; c++ {
		perSecond := ""
		if seconds > 0 {
			perSecond = fmt.Sprintf("%.3g", float64(r.Counters[c])/seconds)
		}
		table.Append([]string{c.String(), fmt.Sprintf("%d", r.Counters[c]), perSecond})
	}

	scopes := make([]string, 0, len(r.Durations))
	for scope := range r.Durations {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	if len(scopes) > 0 {
		table.Append([]string{" ", " ", " "})
	}
	for _, scope := range scopes {
		table.Append([]string{scope, r.Durations[scope].Round(time.Millisecond).String(), ""})
	}
	if r.RelativeError > 0 {
		table.Append([]string{"Relative error", fmt.Sprintf("%.4f", r.RelativeError), ""})
	}
	table.SetFooter([]string{"Workers", fmt.Sprintf("%d", r.Workers), r.Elapsed.Round(time.Millisecond).String()})

	table.Render()
	return buf.String()
}
