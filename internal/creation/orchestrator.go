// Package creation drives the sequential multi-task creation flow: one
// parent quest followed by its child tasks, with per-item status tracking,
// partial-failure aggregation, cooperative cancellation and retry of only
// the failed subset.
package creation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/waveline/questadmin/internal/form"
	"github.com/waveline/questadmin/internal/preset"
	"github.com/waveline/questadmin/internal/types"
)

// TaskAPI is the slice of the task service the orchestrator needs.
// Satisfied by the sqlite-backed store adapter.
type TaskAPI interface {
	CreateTask(ctx context.Context, req types.CreateTaskRequest) (*types.Task, error)
}

var (
	// ErrCreationInProgress is returned when Submit is called while a
	// creation sequence is already running.
	ErrCreationInProgress = errors.New("creation already in progress")
	// ErrNothingToRetry is returned when RetryFailedChildren is called
	// without any children in error state.
	ErrNothingToRetry = errors.New("no failed children to retry")
)

// Status is the per-item creation status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusCreating Status = "creating"
	StatusSuccess  Status = "success"
	StatusError    Status = "error"
)

// OverallStatus is the state-machine position of the whole sequence.
// Only creating may transition to a terminal state; completed and
// partial_error are stable until Reset.
type OverallStatus string

const (
	OverallIdle         OverallStatus = "idle"
	OverallCreating     OverallStatus = "creating"
	OverallCompleted    OverallStatus = "completed"
	OverallPartialError OverallStatus = "partial_error"
)

// ItemState tracks one task (parent or child) through creation.
type ItemState struct {
	Status   Status                  `json:"status"`
	Data     types.CreateTaskRequest `json:"data"`
	Result   *types.Task             `json:"result,omitempty"`
	Error    string                  `json:"error,omitempty"`
	Index    int                     `json:"index"`
	ParentID string                  `json:"parent_id,omitempty"`
}

// State is the observable creation state.
type State struct {
	Overall        OverallStatus `json:"overall"`
	Main           ItemState     `json:"main"`
	Children       []ItemState   `json:"children"`
	TotalTasks     int           `json:"total_tasks"`
	CompletedTasks int           `json:"completed_tasks"`
	FailedTasks    int           `json:"failed_tasks"`
}

// Success reports whether the whole sequence finished without errors.
func (s State) Success() bool {
	return s.Overall == OverallCompleted
}

func (s State) clone() State {
	out := s
	out.Children = append([]ItemState(nil), s.Children...)
	return out
}

// recount refreshes the derived counters from item statuses. The counters
// track children only; the main task's outcome is read from Main directly.
func (s *State) recount() {
	completed, failed := 0, 0
	for _, c := range s.Children {
		switch c.Status {
		case StatusSuccess:
			completed++
		case StatusError:
			failed++
		}
	}
	s.CompletedTasks = completed
	s.FailedTasks = failed
}

// Orchestrator runs one creation sequence at a time against a TaskAPI.
// All state transitions are serialized through its mutex; network calls
// run outside the lock.
type Orchestrator struct {
	api TaskAPI

	mu        sync.Mutex
	state     State
	snapshot  form.QuestFormValues
	cfg       *preset.Config
	cancelled bool
	cancelFn  context.CancelFunc
}

// New creates an idle orchestrator.
func New(api TaskAPI) *Orchestrator {
	return &Orchestrator{
		api:   api,
		state: State{Overall: OverallIdle},
	}
}

// State returns a copy of the current creation state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// Reset returns the orchestrator to idle, discarding all tracking. Tasks
// already created are left as-is server-side.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = State{Overall: OverallIdle}
	o.snapshot = form.QuestFormValues{}
	o.cfg = nil
	o.cancelled = false
	o.cancelFn = nil
}

// Cancel sets the abort flag and cancels the in-flight request. Remaining
// children stay pending; no compensating deletes are issued for tasks
// already created.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cancelled = true
	if o.cancelFn != nil {
		o.cancelFn()
	}
}

// Submit creates the parent task and then each child strictly in order.
// Child order_by and parent linkage must reflect submission order, so
// children are never created concurrently. A parent failure aborts the
// sequence; child failures are isolated and accumulate.
func (o *Orchestrator) Submit(ctx context.Context, values form.QuestFormValues, cfg *preset.Config) (State, error) {
	o.mu.Lock()
	if o.state.Overall == OverallCreating {
		o.mu.Unlock()
		return o.state.clone(), ErrCreationInProgress
	}

	snapshot := values.Clone()
	runCtx, cancel := context.WithCancel(ctx)
	o.snapshot = snapshot
	o.cfg = cfg
	o.cancelled = false
	o.cancelFn = cancel
	o.state = State{
		Overall:    OverallCreating,
		Main:       ItemState{Status: StatusPending},
		Children:   make([]ItemState, len(snapshot.Child)),
		TotalTasks: 1 + len(snapshot.Child),
	}
	for i := range o.state.Children {
		o.state.Children[i] = ItemState{Status: StatusPending, Index: i}
	}
	o.mu.Unlock()
	defer cancel()

	parentReq := form.ToTaskRequest(snapshot, cfg)
	o.setMain(StatusCreating, parentReq, nil, nil)

	parent, err := o.api.CreateTask(runCtx, parentReq)
	if err != nil {
		// Children are never attempted without a parent: they need its id.
		o.setMain(StatusError, parentReq, nil, err)
		o.finish(OverallPartialError)
		slog.Error("parent task creation failed",
			"component", "creation",
			"title", parentReq.Title,
			"error", err,
		)
		return o.State(), fmt.Errorf("create parent task: %w", err)
	}
	o.setMain(StatusSuccess, parentReq, parent, nil)
	slog.Info("parent task created",
		"component", "creation",
		"task_id", parent.ID,
		"children", len(snapshot.Child),
	)

	for i := range snapshot.Child {
		if o.isCancelled() {
			// Untried children remain pending; nothing is rolled back.
			o.finish(OverallIdle)
			slog.Info("creation sequence cancelled",
				"component", "creation",
				"task_id", parent.ID,
				"children_attempted", i,
			)
			return o.State(), nil
		}
		o.createChild(runCtx, i, parent.ID)
	}

	final := o.settle()
	return final, nil
}

// RetryFailedChildren re-attempts only children currently in error state,
// reusing the original parent id and parent snapshot for inheritance.
// Succeeded and pending children are untouched. May be invoked repeatedly.
func (o *Orchestrator) RetryFailedChildren(ctx context.Context) (State, error) {
	o.mu.Lock()
	if o.state.Overall == OverallCreating {
		o.mu.Unlock()
		return o.state.clone(), ErrCreationInProgress
	}
	if o.state.Main.Status != StatusSuccess || o.state.Main.Result == nil {
		o.mu.Unlock()
		return o.state.clone(), ErrNothingToRetry
	}
	var failed []int
	for i, c := range o.state.Children {
		if c.Status == StatusError {
			failed = append(failed, i)
		}
	}
	if len(failed) == 0 {
		o.mu.Unlock()
		return o.state.clone(), ErrNothingToRetry
	}

	parentID := o.state.Main.Result.ID
	runCtx, cancel := context.WithCancel(ctx)
	o.cancelled = false
	o.cancelFn = cancel
	o.state.Overall = OverallCreating
	o.mu.Unlock()
	defer cancel()

	slog.Info("retrying failed children",
		"component", "creation",
		"task_id", parentID,
		"failed", len(failed),
	)

	for _, i := range failed {
		if o.isCancelled() {
			o.finish(OverallIdle)
			return o.State(), nil
		}
		o.createChild(runCtx, i, parentID)
	}

	final := o.settle()
	return final, nil
}

// createChild runs one child creation and records the outcome.
func (o *Orchestrator) createChild(ctx context.Context, index int, parentID string) {
	o.mu.Lock()
	child := o.snapshot.Child[index].Clone()
	parent := o.snapshot
	o.mu.Unlock()

	req := form.ChildRequest(parent, child, index, parentID)
	o.setChild(index, StatusCreating, req, parentID, nil, nil)

	result, err := o.api.CreateTask(ctx, req)
	if err != nil {
		if o.isCancelled() && errors.Is(err, context.Canceled) {
			// The request was torn down by Cancel, not rejected by the
			// server. The child was never attempted as far as the caller
			// is concerned; it stays pending for a later retry.
			o.setChild(index, StatusPending, req, parentID, nil, nil)
			return
		}
		o.setChild(index, StatusError, req, parentID, nil, err)
		slog.Warn("child task creation failed",
			"component", "creation",
			"parent_id", parentID,
			"index", index,
			"error", err,
		)
		return
	}
	o.setChild(index, StatusSuccess, req, parentID, result, nil)
}

// settle computes the terminal state once every child has been attempted.
func (o *Orchestrator) settle() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.recount()
	if o.state.FailedTasks == 0 {
		o.state.Overall = OverallCompleted
	} else {
		o.state.Overall = OverallPartialError
	}
	return o.state.clone()
}

func (o *Orchestrator) finish(overall OverallStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.recount()
	o.state.Overall = overall
}

func (o *Orchestrator) isCancelled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancelled
}

func (o *Orchestrator) setMain(status Status, req types.CreateTaskRequest, result *types.Task, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Main.Status = status
	o.state.Main.Data = req
	o.state.Main.Result = result
	o.state.Main.Error = errText(err)
	o.state.recount()
}

func (o *Orchestrator) setChild(index int, status Status, req types.CreateTaskRequest, parentID string, result *types.Task, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	c := &o.state.Children[index]
	c.Status = status
	c.Data = req
	c.ParentID = parentID
	c.Result = result
	c.Error = errText(err)
	o.state.recount()
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
