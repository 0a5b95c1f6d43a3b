package core

import "math"

// Epsilon is the self-intersection floor for ray parameters and the
// tolerance used by geometric predicates
const Epsilon = 1e-4

const (
	Pi     = math.Pi
	InvPi  = 1 / math.Pi
	Inv2Pi = 1 / (2 * math.Pi)
	Inv4Pi = 1 / (4 * math.Pi)
)

// Infinity is +Inf, the initial distance budget of a primary ray
var Infinity = math.Inf(1)
