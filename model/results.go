package model

import (
	"fmt"
	"time"
)

// UnitOutcome classifies the result of processing one unit of work
// (an archive or a tile)
type UnitOutcome string

// Unit outcomes
const (
	// UnitSucceeded: fully processed
	UnitSucceeded UnitOutcome = "succeeded"
	// UnitSkipped: nothing to do (already cataloged, or not yet extracted)
	UnitSkipped UnitOutcome = "skipped"
	// UnitExcluded: processed but excluded from the catalog (invalid
	// geometry, unresolved identity)
	UnitExcluded UnitOutcome = "excluded"
	// UnitFailed: an input defect prevented processing
	UnitFailed UnitOutcome = "failed"
)

// UnitResult is the explicit per-unit outcome. Failures carry a reason
// instead of being silently swallowed; no unit result ever aborts a batch.
type UnitResult struct {
	Unit    string
	Stage   string
	Outcome UnitOutcome
	Reason  string
}

// SucceededResult builds a success result for a unit and stage
func SucceededResult(unit, stage string) UnitResult {
	return UnitResult{Unit: unit, Stage: stage, Outcome: UnitSucceeded}
}

// FailedResult builds a failure result with its reason
func FailedResult(unit, stage, reason string) UnitResult {
	return UnitResult{Unit: unit, Stage: stage, Outcome: UnitFailed, Reason: reason}
}

// ExcludedResult builds an exclusion result with its reason
func ExcludedResult(unit, stage, reason string) UnitResult {
	return UnitResult{Unit: unit, Stage: stage, Outcome: UnitExcluded, Reason: reason}
}

// SkippedResult builds a skip result with its reason
func SkippedResult(unit, stage, reason string) UnitResult {
	return UnitResult{Unit: unit, Stage: stage, Outcome: UnitSkipped, Reason: reason}
}

// RunReport aggregates the unit results of one reconciliation run. It is
// owned by the run's collector goroutine; workers report over a channel.
type RunReport struct {
	StartTime      time.Time
	EndTime        time.Time
	CanceledByUser bool
	Results        []UnitResult

	NumberSucceeded int
	NumberSkipped   int
	NumberExcluded  int
	NumberFailed    int
}

// Add records one unit result
func (r *RunReport) Add(result UnitResult) {
	r.Results = append(r.Results, result)
	switch result.Outcome {
	case UnitSucceeded:
		r.NumberSucceeded++
	case UnitSkipped:
		r.NumberSkipped++
	case UnitExcluded:
		r.NumberExcluded++
	case UnitFailed:
		r.NumberFailed++
	}
}

func (r *RunReport) String() string {
	return fmt.Sprintf(`
		Start:	%v
		End:	%v
		Canceled: %v
		#Succeeded:	%v
		#Skipped:	%v
		#Excluded:	%v
		#Failed:	%v
		`,
		r.StartTime.Format("Mon Jan _2 15:04:05 2006"),
		r.EndTime.Format("Mon Jan _2 15:04:05 2006"),
		r.CanceledByUser,
		r.NumberSucceeded,
		r.NumberSkipped,
		r.NumberExcluded,
		r.NumberFailed)
}
