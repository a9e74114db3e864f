// Package types contains shared types used across the reconbf check framework
package types

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mcpeak/reconbf/conf"
)

// Check status types
const (
	StatusPass = "pass"
	StatusFail = "fail"
	StatusSkip = "skip"
)

// CheckFunc is the code executed for a single check. cfg is nil unless the
// check's metadata declares that it takes config and a value was resolved.
// A nil payload with a nil error means the check intentionally produced no
// output; a non-nil error is a check fault.
type CheckFunc func(ctx context.Context, logger log.Logger, cfg conf.Value) (interface{}, error)

// Result is the outcome of a single check.
type Result struct {
	Status string
	Notes  string
}

// GroupResult bundles the outcomes of a check that performs several related
// sub-checks (eg. one per config directive).
type GroupResult []GroupedResult

// GroupedResult is one named sub-outcome inside a GroupResult.
type GroupedResult struct {
	Name   string
	Result Result
}

// ResultRecord pairs a check's canonical name with the payload it returned.
// The payload is opaque to the execution core; reporting interprets it.
type ResultRecord struct {
	Name    string
	Payload interface{}
}

// RunResult is the aggregate outcome of one run over a test set.
type RunResult struct {
	RunID    string
	Records  []ResultRecord
	Duration time.Duration
}

// RunStats summarizes a run's records for reporting. Computed by the
// reporting layer, never by the executor.
type RunStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}
