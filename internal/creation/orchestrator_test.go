package creation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/waveline/questadmin/internal/form"
	"github.com/waveline/questadmin/internal/types"
)

// fakeAPI records create calls and fails titles listed in failTitles.
// Failures are consumed: a retried title succeeds unless re-armed.
type fakeAPI struct {
	mu         sync.Mutex
	calls      []types.CreateTaskRequest
	failTitles map[string]bool
	nextID     int

	// onCreate, when set, runs before each create under no lock.
	onCreate func(req types.CreateTaskRequest)
}

func newFakeAPI(failTitles ...string) *fakeAPI {
	f := &fakeAPI{failTitles: map[string]bool{}}
	for _, title := range failTitles {
		f.failTitles[title] = true
	}
	return f
}

func (f *fakeAPI) CreateTask(ctx context.Context, req types.CreateTaskRequest) (*types.Task, error) {
	if f.onCreate != nil {
		f.onCreate(req)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.failTitles[req.Title] {
		delete(f.failTitles, req.Title)
		return nil, fmt.Errorf("server rejected %q", req.Title)
	}
	f.nextID++
	return &types.Task{
		ID:       fmt.Sprintf("task-%d", f.nextID),
		Type:     req.Type,
		Title:    req.Title,
		ParentID: req.ParentID,
	}, nil
}

func (f *fakeAPI) callTitles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	titles := make([]string, len(f.calls))
	for i, c := range f.calls {
		titles[i] = c.Title
	}
	return titles
}

func floatPtr(f float64) *float64 { return &f }

func multipleQuestForm() form.QuestFormValues {
	return form.QuestFormValues{
		Title:    "Engage with launch post",
		Type:     types.TypeMultiple,
		Group:    types.GroupSocial,
		Provider: types.ProviderTwitter,
		URI:      "https://x.com/waveline/status/1",
		Enabled:  true,
		Child: []form.ChildFormValues{
			{Title: "Like", Type: types.TypeLike, Reward: floatPtr(5)},
			{Title: "Repost", Type: types.TypeShare, Reward: floatPtr(10)},
			{Title: "Comment", Type: types.TypeComment, Reward: floatPtr(15)},
		},
	}
}

// --- Submit Tests ---

func TestSubmit_AllSucceed(t *testing.T) {
	api := newFakeAPI()
	o := New(api)

	state, err := o.Submit(context.Background(), multipleQuestForm(), nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if state.Overall != OverallCompleted {
		t.Errorf("overall = %s, want completed", state.Overall)
	}
	if !state.Success() {
		t.Error("Success() = false, want true")
	}
	// Counters track children only; the main task is reported separately.
	if state.TotalTasks != 4 || state.CompletedTasks != 3 || state.FailedTasks != 0 {
		t.Errorf("counters = %d/%d/%d, want 4/3/0",
			state.TotalTasks, state.CompletedTasks, state.FailedTasks)
	}

	// Parent first, then children strictly in list order.
	want := []string{"Engage with launch post", "Like", "Repost", "Comment"}
	got := api.callTitles()
	if len(got) != len(want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// Children carry the parent linkage and their index as order.
	for i, child := range state.Children {
		if child.ParentID != state.Main.Result.ID {
			t.Errorf("child[%d].ParentID = %q, want %q", i, child.ParentID, state.Main.Result.ID)
		}
		if child.Data.OrderBy != i {
			t.Errorf("child[%d].Data.OrderBy = %d, want %d", i, child.Data.OrderBy, i)
		}
	}
}

func TestSubmit_ParentFailureAborts(t *testing.T) {
	api := newFakeAPI("Engage with launch post")
	o := New(api)

	state, err := o.Submit(context.Background(), multipleQuestForm(), nil)
	if err == nil {
		t.Fatal("Submit() = nil error, want parent failure")
	}

	if state.Overall != OverallPartialError {
		t.Errorf("overall = %s, want partial_error", state.Overall)
	}
	if state.Main.Status != StatusError {
		t.Errorf("main status = %s, want error", state.Main.Status)
	}
	// No child is ever attempted without a parent id.
	if got := len(api.callTitles()); got != 1 {
		t.Errorf("api calls = %d, want 1 (parent only)", got)
	}
	for i, child := range state.Children {
		if child.Status != StatusPending {
			t.Errorf("child[%d].Status = %s, want pending", i, child.Status)
		}
	}
}

func TestSubmit_ChildFailureIsolated(t *testing.T) {
	api := newFakeAPI("Repost")
	o := New(api)

	state, err := o.Submit(context.Background(), multipleQuestForm(), nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if state.Overall != OverallPartialError {
		t.Errorf("overall = %s, want partial_error", state.Overall)
	}
	if state.CompletedTasks != 2 || state.FailedTasks != 1 {
		t.Errorf("counters = %d completed / %d failed, want 2/1",
			state.CompletedTasks, state.FailedTasks)
	}
	if state.Children[0].Status != StatusSuccess ||
		state.Children[1].Status != StatusError ||
		state.Children[2].Status != StatusSuccess {
		t.Errorf("child statuses = %s/%s/%s, want success/error/success",
			state.Children[0].Status, state.Children[1].Status, state.Children[2].Status)
	}
	if !strings.Contains(state.Children[1].Error, "Repost") {
		t.Errorf("child error = %q, want server message retained", state.Children[1].Error)
	}
	// The failure does not stop later siblings.
	if got := len(api.callTitles()); got != 4 {
		t.Errorf("api calls = %d, want 4", got)
	}
}

func TestSubmit_WhileCreating(t *testing.T) {
	api := newFakeAPI()
	o := New(api)

	started := make(chan struct{})
	release := make(chan struct{})
	api.onCreate = func(req types.CreateTaskRequest) {
		if req.Title == "Like" {
			close(started)
			<-release
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		o.Submit(context.Background(), multipleQuestForm(), nil)
	}()

	<-started
	_, err := o.Submit(context.Background(), multipleQuestForm(), nil)
	if !errors.Is(err, ErrCreationInProgress) {
		t.Errorf("second Submit error = %v, want ErrCreationInProgress", err)
	}
	close(release)
	<-done
}

// --- Retry Tests ---

func TestRetryFailedChildren(t *testing.T) {
	api := newFakeAPI("Repost")
	o := New(api)

	state, err := o.Submit(context.Background(), multipleQuestForm(), nil)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	parentID := state.Main.Result.ID

	state, err = o.RetryFailedChildren(context.Background())
	if err != nil {
		t.Fatalf("RetryFailedChildren() error = %v", err)
	}

	if state.Overall != OverallCompleted {
		t.Errorf("overall = %s, want completed after retry", state.Overall)
	}
	if state.FailedTasks != 0 || state.CompletedTasks != 3 {
		t.Errorf("counters = %d failed / %d completed, want 0/3",
			state.FailedTasks, state.CompletedTasks)
	}
	// Only the failed child was re-sent, against the original parent.
	titles := api.callTitles()
	if titles[len(titles)-1] != "Repost" {
		t.Errorf("last call = %q, want retried Repost", titles[len(titles)-1])
	}
	if got := len(titles); got != 5 {
		t.Errorf("api calls = %d, want 5 (4 + 1 retry)", got)
	}
	if state.Children[1].ParentID != parentID {
		t.Errorf("retried child parent = %q, want original %q", state.Children[1].ParentID, parentID)
	}
}

func TestRetryFailedChildren_NothingToRetry(t *testing.T) {
	api := newFakeAPI()
	o := New(api)

	if _, err := o.RetryFailedChildren(context.Background()); !errors.Is(err, ErrNothingToRetry) {
		t.Errorf("retry on idle = %v, want ErrNothingToRetry", err)
	}

	if _, err := o.Submit(context.Background(), multipleQuestForm(), nil); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := o.RetryFailedChildren(context.Background()); !errors.Is(err, ErrNothingToRetry) {
		t.Errorf("retry after success = %v, want ErrNothingToRetry", err)
	}
}

func TestRetryFailedChildren_RepeatedFailure(t *testing.T) {
	api := newFakeAPI("Repost")
	o := New(api)

	if _, err := o.Submit(context.Background(), multipleQuestForm(), nil); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Re-arm the failure: retry fails again, state stays partial.
	api.mu.Lock()
	api.failTitles["Repost"] = true
	api.mu.Unlock()

	state, err := o.RetryFailedChildren(context.Background())
	if err != nil {
		t.Fatalf("RetryFailedChildren() error = %v", err)
	}
	if state.Overall != OverallPartialError {
		t.Errorf("overall = %s, want partial_error after failed retry", state.Overall)
	}

	// A second retry is allowed and can still succeed.
	state, err = o.RetryFailedChildren(context.Background())
	if err != nil {
		t.Fatalf("second RetryFailedChildren() error = %v", err)
	}
	if state.Overall != OverallCompleted {
		t.Errorf("overall = %s, want completed after second retry", state.Overall)
	}
}

// --- Cancel Tests ---

func TestCancel_MidSequence(t *testing.T) {
	api := newFakeAPI()
	o := New(api)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	api.onCreate = func(req types.CreateTaskRequest) {
		if req.Title == "Like" {
			once.Do(func() {
				close(started)
				<-release
			})
		}
	}

	type result struct {
		state State
		err   error
	}
	done := make(chan result, 1)
	go func() {
		state, err := o.Submit(context.Background(), multipleQuestForm(), nil)
		done <- result{state, err}
	}()

	<-started
	o.Cancel()
	close(release)
	res := <-done

	if res.err != nil {
		t.Fatalf("Submit() error = %v", res.err)
	}
	if res.state.Overall != OverallIdle {
		t.Errorf("overall = %s, want idle after cancel", res.state.Overall)
	}
	// The in-flight child is reverted to pending, not marked errored: the
	// cancel tore the request down, the server never rejected it.
	if res.state.Children[0].Status != StatusPending {
		t.Errorf("in-flight child status = %s, want pending", res.state.Children[0].Status)
	}
	if res.state.Children[0].Error != "" {
		t.Errorf("in-flight child error = %q, want empty", res.state.Children[0].Error)
	}
	// Untried children stay pending and nothing is rolled back.
	if res.state.Children[2].Status != StatusPending {
		t.Errorf("untried child status = %s, want pending", res.state.Children[2].Status)
	}
	if res.state.Main.Status != StatusSuccess {
		t.Errorf("main status = %s, want success (no compensating delete)", res.state.Main.Status)
	}
}

// --- Reset Tests ---

func TestReset(t *testing.T) {
	api := newFakeAPI("Repost")
	o := New(api)

	if _, err := o.Submit(context.Background(), multipleQuestForm(), nil); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	o.Reset()
	state := o.State()
	if state.Overall != OverallIdle {
		t.Errorf("overall = %s, want idle after reset", state.Overall)
	}
	if len(state.Children) != 0 || state.TotalTasks != 0 {
		t.Errorf("state not cleared: %+v", state)
	}
}

// --- Snapshot Isolation Tests ---

func TestSubmit_SnapshotIsolation(t *testing.T) {
	api := newFakeAPI()
	o := New(api)

	values := multipleQuestForm()
	if _, err := o.Submit(context.Background(), values, nil); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// Mutating the caller's values after submit must not affect tracking.
	values.Child[0].Title = "Mutated"
	state := o.State()
	if state.Children[0].Data.Title != "Like" {
		t.Errorf("tracked child title = %q, want snapshot %q", state.Children[0].Data.Title, "Like")
	}
}

// --- Progress Tests ---

func TestProgressOf(t *testing.T) {
	api := newFakeAPI("Repost")
	o := New(api)

	if _, err := o.Submit(context.Background(), multipleQuestForm(), nil); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	p := o.Progress()
	if p.Total != 4 || p.Current != 3 {
		t.Errorf("progress = %d/%d, want 3/4", p.Current, p.Total)
	}
	if p.Percentage != 75 {
		t.Errorf("percentage = %v, want 75", p.Percentage)
	}
	if p.Phase != PhaseChildren {
		t.Errorf("phase = %s, want children", p.Phase)
	}
}

func TestProgressOf_Empty(t *testing.T) {
	p := ProgressOf(State{Overall: OverallIdle})
	if p.Percentage != 0 || p.Total != 0 {
		t.Errorf("empty progress = %+v, want zeros", p)
	}
}
