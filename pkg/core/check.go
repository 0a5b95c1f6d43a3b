package core

import (
	"math"
	"sync/atomic"
)

// Checker reports programmer-invariant violations from externally supplied
// shapes and materials as logged warnings. A nil *Checker is disabled and
// costs a single nil test per call site.
type Checker struct {
	logger   Logger
	limit    int64
	reported atomic.Int64
}

// NewChecker creates a checker that logs at most limit violations
func NewChecker(logger Logger, limit int) *Checker {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Checker{logger: logger, limit: int64(limit)}
}

// Violations returns how many violations were seen, logged or not
func (c *Checker) Violations() int64 {
	if c == nil {
		return 0
	}
	return c.reported.Load()
}

// Warnf records a violation
func (c *Checker) Warnf(format string, args ...interface{}) {
	if c == nil {
		return
	}
	n := c.reported.Add(1)
	if n <= c.limit {
		c.logger.Printf("invariant violated: "+format, args...)
	}
}

// CheckIntersection validates a reported hit: finite distance beyond the
// self-intersection floor and an orthonormal shading frame
func (c *Checker) CheckIntersection(its *Intersection) {
	if c == nil {
		return
	}
	if math.IsNaN(its.T) || math.IsInf(its.T, 0) {
		c.Warnf("non-finite hit distance %v", its.T)
	}
	if its.T < Epsilon {
		c.Warnf("hit distance %v below epsilon", its.T)
	}
	if !its.Frame.IsOrthonormal(1e-3) {
		c.Warnf("shading frame is not orthonormal: %+v", its.Frame)
	}
}
