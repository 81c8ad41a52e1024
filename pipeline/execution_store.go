package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless"
)

type ExecutionStatus string

const (
	StatusPending   ExecutionStatus = "pending"
	StatusRunning   ExecutionStatus = "running"
	StatusSucceeded ExecutionStatus = "succeeded"
	StatusFailed    ExecutionStatus = "failed"
)

const (
	triggerStart   = "start"
	triggerSucceed = "succeed"
	triggerFail    = "fail"
)

// ExecutionResult is the record of one step run. A run moves
// pending -> running -> succeeded|failed exactly once.
type ExecutionResult struct {
	ExecutionID  string          `json:"execution_id"`
	StepID       string          `json:"step_id"`
	StepType     string          `json:"step_type"`
	Status       ExecutionStatus `json:"status"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`

	fsm *stateless.StateMachine
}

func newExecutionResult(stepID, stepType string) *ExecutionResult {
	r := &ExecutionResult{
		ExecutionID: uuid.NewString(),
		StepID:      stepID,
		StepType:    stepType,
		Status:      StatusPending,
	}

	fsm := stateless.NewStateMachine(StatusPending)
	fsm.Configure(StatusPending).
		Permit(triggerStart, StatusRunning)

	fsm.Configure(StatusRunning).
		OnEntry(r.onRunning).
		Permit(triggerSucceed, StatusSucceeded).
		Permit(triggerFail, StatusFailed)

	fsm.Configure(StatusSucceeded).
		OnEntry(r.onSucceeded)

	fsm.Configure(StatusFailed).
		OnEntry(r.onFailed)

	r.fsm = fsm
	return r
}

func (r *ExecutionResult) onRunning(_ context.Context, _ ...any) error {
	r.Status = StatusRunning
	r.StartTime = timeProvider.Now()
	return nil
}

func (r *ExecutionResult) onSucceeded(_ context.Context, _ ...any) error {
	r.Status = StatusSucceeded
	r.EndTime = timeProvider.Now()
	return nil
}

func (r *ExecutionResult) onFailed(_ context.Context, args ...any) error {
	r.Status = StatusFailed
	r.EndTime = timeProvider.Now()
	if len(args) == 1 {
		if err, ok := args[0].(error); ok && err != nil {
			r.ErrorMessage = err.Error()
		}
	}
	return nil
}

// Start moves the run to running.
func (r *ExecutionResult) Start() error {
	if err := r.fsm.Fire(triggerStart); err != nil {
		return fmt.Errorf("execution %s: %w", r.ExecutionID, err)
	}
	return nil
}

// Finish records the outcome of a running step. Finishing twice is an error.
func (r *ExecutionResult) Finish(stepErr error) error {
	var err error
	if stepErr != nil {
		err = r.fsm.Fire(triggerFail, stepErr)
	} else {
		err = r.fsm.Fire(triggerSucceed)
	}
	if err != nil {
		return fmt.Errorf("execution %s: %w", r.ExecutionID, err)
	}
	return nil
}

// Duration is zero until the run has finished.
func (r *ExecutionResult) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// ExecutionStore keeps the step runs of one session in start order. It is
// used from the orchestrator goroutine only.
type ExecutionStore struct {
	executions []*ExecutionResult
}

func NewExecutionStore() *ExecutionStore {
	return &ExecutionStore{}
}

// Begin records a new run of stepID and marks it running.
func (s *ExecutionStore) Begin(stepID, stepType string) (*ExecutionResult, error) {
	r := newExecutionResult(stepID, stepType)
	if err := r.Start(); err != nil {
		return nil, err
	}
	s.executions = append(s.executions, r)
	return r, nil
}

// Executions returns every recorded run, oldest first.
func (s *ExecutionStore) Executions() []*ExecutionResult {
	out := make([]*ExecutionResult, len(s.executions))
	copy(out, s.executions)
	return out
}

// Recent returns at most n of the latest runs, oldest first.
func (s *ExecutionStore) Recent(n int) []*ExecutionResult {
	if n <= 0 {
		return nil
	}
	all := s.Executions()
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all
}

// Counts returns how many runs ended in each terminal status.
func (s *ExecutionStore) Counts() (succeeded, failed int) {
	for _, r := range s.executions {
		switch r.Status {
		case StatusSucceeded:
			succeeded++
		case StatusFailed:
			failed++
		}
	}
	return succeeded, failed
}

// Reset forgets every run.
func (s *ExecutionStore) Reset() {
	s.executions = nil
}
