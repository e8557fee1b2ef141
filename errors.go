package hubness

import (
	"fmt"
	"math"
)

// MaxDistance is the sentinel stored for an instance pair whose metric
// evaluation failed. It sorts after every real distance, so degraded pairs
// never enter a neighbor set unless nothing else is available.
const MaxDistance = math.MaxFloat64

// ConfigError reports a structurally invalid request: nil or mismatched
// inputs, negative k, a bad worker count. It is returned before any
// computation starts; there is no partial result to salvage.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return "hubness: " + e.msg }

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// MetricError reports a failed metric or kernel evaluation for a single
// instance pair. Matrix builders absorb these locally (the pair's entry is
// set to MaxDistance) and report them joined in the builder's returned error.
type MetricError struct {
	I, J int
	Err  error
}

func (e *MetricError) Error() string {
	return fmt.Sprintf("hubness: metric failed for pair (%d, %d): %v", e.I, e.J, e.Err)
}

func (e *MetricError) Unwrap() error { return e.Err }
