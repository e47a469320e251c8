// Package workflow holds the declarative step catalogs for the business
// workflows tracked on dashboards (tendering, courier, EMD, operations)
// and computes due-date timers for their steps. The catalogs follow the
// same registered-static-data pattern as the instrument status catalog.
package workflow

import (
	"errors"
	"time"
)

const (
	Tendering  = "tendering"
	Courier    = "courier"
	EMD        = "emd"
	Operations = "operations"
)

var ErrUnknownWorkflow = errors.New("unknown workflow")

// Step is one stage of a workflow with its allotted SLA window.
type Step struct {
	Number       int    `json:"step"`
	Name         string `json:"name"`
	Owner        string `json:"owner"`
	DurationDays int    `json:"duration_days"`
}

// StepTimer is a scheduled step: the window computed from a start date.
type StepTimer struct {
	Step
	StartsAt time.Time `json:"starts_at"`
	DueAt    time.Time `json:"due_at"`
}

var workflows = map[string][]Step{
	Tendering: {
		{1, "Tender Identified", "business", 1},
		{2, "Document Purchase", "operations", 2},
		{3, "Pre-bid Queries", "business", 3},
		{4, "EMD Arrangement", "accounts", 4},
		{5, "Bid Preparation", "business", 5},
		{6, "Bid Submission", "operations", 1},
	},
	Courier: {
		{1, "Docket Created", "operations", 1},
		{2, "Courier Handover", "operations", 1},
		{3, "In Transit", "courier", 3},
		{4, "Delivery Confirmation", "operations", 1},
	},
	EMD: {
		{1, "Request Raised", "business", 1},
		{2, "Accounts Approval", "accounts", 2},
		{3, "Instrument Creation", "accounts", 2},
		{4, "Dispatch", "operations", 2},
		{5, "Collection", "accounts", 30},
	},
	Operations: {
		{1, "Work Order Receipt", "operations", 2},
		{2, "Kickoff", "operations", 5},
		{3, "Execution", "operations", 30},
		{4, "Completion Certificate", "operations", 7},
	},
}

// Names returns the registered workflow names.
func Names() []string {
	return []string{Tendering, Courier, EMD, Operations}
}

// StepsFor returns the ordered step definitions of a workflow.
func StepsFor(name string) ([]Step, error) {
	steps, ok := workflows[name]
	if !ok {
		return nil, ErrUnknownWorkflow
	}
	return steps, nil
}

// Schedule lays the workflow's steps out from a start date: each step
// begins when its predecessor's window closes.
func Schedule(name string, start time.Time) ([]StepTimer, error) {
	steps, ok := workflows[name]
	if !ok {
		return nil, ErrUnknownWorkflow
	}

	timers := make([]StepTimer, len(steps))
	cursor := start
	for i, step := range steps {
		due := cursor.AddDate(0, 0, step.DurationDays)
		timers[i] = StepTimer{Step: step, StartsAt: cursor, DueAt: due}
		cursor = due
	}
	return timers, nil
}

// Remaining reports the time left in a step's window; negative when the
// step is overdue.
func Remaining(timer StepTimer, now time.Time) time.Duration {
	return timer.DueAt.Sub(now)
}

// IsOverdue reports whether a step's window has closed.
func IsOverdue(timer StepTimer, now time.Time) bool {
	return now.After(timer.DueAt)
}
