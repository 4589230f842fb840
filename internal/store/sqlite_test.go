package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/waveline/questadmin/internal/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTask(t *testing.T, s *SQLiteStore, req types.CreateTaskRequest) *types.Task {
	t.Helper()
	task, err := s.CreateTask(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	return task
}

func externalReq(title string) types.CreateTaskRequest {
	return types.CreateTaskRequest{
		Type:    types.TypeExternal,
		Title:   title,
		Group:   types.GroupPartner,
		Reward:  10,
		Enabled: true,
		URI:     "https://example.com/" + title,
	}
}

// --- CreateTask Tests ---

func TestCreateTask(t *testing.T) {
	s := newTestStore(t)

	task := createTask(t, s, types.CreateTaskRequest{
		Type:     types.TypeMultiple,
		Title:    "Engage",
		Group:    types.GroupSocial,
		Provider: types.ProviderTwitter,
		URI:      "https://x.com/p/1",
		Enabled:  true,
		Resource: &types.Resource{UI: &types.UIResource{Button: "Open"}},
		Iterator: &types.Iterator{Days: 3, RewardMap: []float64{1, 2, 3}},
	})

	if task.ID == "" {
		t.Error("task.ID empty, want generated ULID")
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	got, err := s.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if got.Title != "Engage" || got.Type != types.TypeMultiple {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.Resource == nil || got.Resource.UI == nil || got.Resource.UI.Button != "Open" {
		t.Errorf("resource round trip lost: %+v", got.Resource)
	}
	if got.Iterator == nil || len(got.Iterator.RewardMap) != 3 {
		t.Errorf("iterator round trip lost: %+v", got.Iterator)
	}
}

func TestCreateTask_UnknownParent(t *testing.T) {
	s := newTestStore(t)

	req := externalReq("child")
	req.ParentID = "no-such-task"

	_, err := s.CreateTask(context.Background(), req)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("CreateTask(orphan) error = %v, want ErrNotFound", err)
	}
}

// --- GetTask Tests ---

func TestGetTask_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTask(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTask(missing) error = %v, want ErrNotFound", err)
	}
}

// --- UpdateTask Tests ---

func TestUpdateTask(t *testing.T) {
	s := newTestStore(t)
	task := createTask(t, s, externalReq("before"))

	req := externalReq("after")
	req.Reward = 99
	updated, err := s.UpdateTask(context.Background(), task.ID, req)
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	if updated.Title != "after" || updated.Reward != 99 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.ID != task.ID {
		t.Errorf("id changed on update: %q -> %q", task.ID, updated.ID)
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateTask(context.Background(), "missing", externalReq("x"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTask(missing) error = %v, want ErrNotFound", err)
	}
}

// --- DeleteTask Tests ---

func TestDeleteTask_CascadesToChildren(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := createTask(t, s, types.CreateTaskRequest{
		Type: types.TypeMultiple, Title: "Parent", Group: types.GroupSocial,
		URI: "https://x.com/p/1", Enabled: true,
	})
	childReq := externalReq("child")
	childReq.Type = types.TypeLike
	childReq.ParentID = parent.ID
	child := createTask(t, s, childReq)

	if err := s.DeleteTask(ctx, parent.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}

	if _, err := s.GetTask(ctx, parent.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("parent still present after delete: %v", err)
	}
	if _, err := s.GetTask(ctx, child.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("child survived parent delete: %v", err)
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	s := newTestStore(t)

	if err := s.DeleteTask(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTask(missing) error = %v, want ErrNotFound", err)
	}
}

// --- ListTasks Tests ---

func TestListTasks_FiltersAndPaging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTask(t, s, types.CreateTaskRequest{
		Type: types.TypeConnect, Title: "Connect X", Group: types.GroupSocial,
		Provider: types.ProviderTwitter, Enabled: true,
	})
	createTask(t, s, types.CreateTaskRequest{
		Type: types.TypeJoin, Title: "Join Discord", Group: types.GroupSocial,
		Provider: types.ProviderDiscord, URI: "https://discord.gg/x", Enabled: false,
	})
	createTask(t, s, externalReq("Visit partner"))

	all, err := s.ListTasks(ctx, types.QuestSearch{})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if all.Total != 3 || len(all.Items) != 3 {
		t.Errorf("unfiltered total = %d items = %d, want 3/3", all.Total, len(all.Items))
	}

	social, err := s.ListTasks(ctx, types.QuestSearch{Group: types.GroupSocial})
	if err != nil {
		t.Fatalf("ListTasks(group) error = %v", err)
	}
	if social.Total != 2 {
		t.Errorf("social total = %d, want 2", social.Total)
	}

	visible := true
	enabled, err := s.ListTasks(ctx, types.QuestSearch{Visible: &visible})
	if err != nil {
		t.Fatalf("ListTasks(visible) error = %v", err)
	}
	if enabled.Total != 2 {
		t.Errorf("visible total = %d, want 2", enabled.Total)
	}

	byType, err := s.ListTasks(ctx, types.QuestSearch{Type: types.TypeConnect})
	if err != nil {
		t.Fatalf("ListTasks(type) error = %v", err)
	}
	if byType.Total != 1 || byType.Items[0].Title != "Connect X" {
		t.Errorf("type filter wrong: %+v", byType)
	}

	search, err := s.ListTasks(ctx, types.QuestSearch{Search: "Discord"})
	if err != nil {
		t.Fatalf("ListTasks(search) error = %v", err)
	}
	if search.Total != 1 || search.Items[0].Title != "Join Discord" {
		t.Errorf("title search wrong: %+v", search)
	}

	page, err := s.ListTasks(ctx, types.QuestSearch{Page: 2, Limit: 2, Sort: "title"})
	if err != nil {
		t.Fatalf("ListTasks(page) error = %v", err)
	}
	if page.Total != 3 || len(page.Items) != 1 {
		t.Errorf("page 2 of 2: total = %d items = %d, want 3/1", page.Total, len(page.Items))
	}
}

func TestListTasks_ExcludesChildren(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := createTask(t, s, types.CreateTaskRequest{
		Type: types.TypeMultiple, Title: "Parent", Group: types.GroupSocial,
		URI: "https://x.com/p/1", Enabled: true,
	})
	childReq := externalReq("child")
	childReq.Type = types.TypeLike
	childReq.ParentID = parent.ID
	createTask(t, s, childReq)

	list, err := s.ListTasks(ctx, types.QuestSearch{})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if list.Total != 1 {
		t.Errorf("total = %d, want 1 (children excluded)", list.Total)
	}
}

func TestListTasks_SortDesc(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := externalReq("a")
	a.Reward = 1
	b := externalReq("b")
	b.Reward = 5
	createTask(t, s, a)
	createTask(t, s, b)

	list, err := s.ListTasks(ctx, types.QuestSearch{Sort: "reward:desc"})
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if list.Items[0].Reward != 5 {
		t.Errorf("first reward = %v, want 5 (desc)", list.Items[0].Reward)
	}
}

// --- ListChildren Tests ---

func TestListChildren_Order(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := createTask(t, s, types.CreateTaskRequest{
		Type: types.TypeMultiple, Title: "Parent", Group: types.GroupSocial,
		URI: "https://x.com/p/1", Enabled: true,
	})
	for i, title := range []string{"Like", "Repost", "Comment"} {
		req := externalReq(title)
		req.Type = types.TypeLike
		req.ParentID = parent.ID
		req.OrderBy = i
		createTask(t, s, req)
	}

	children, err := s.ListChildren(ctx, parent.ID)
	if err != nil {
		t.Fatalf("ListChildren() error = %v", err)
	}
	if len(children) != 3 {
		t.Fatalf("len(children) = %d, want 3", len(children))
	}
	for i, want := range []string{"Like", "Repost", "Comment"} {
		if children[i].Title != want {
			t.Errorf("children[%d].Title = %q, want %q", i, children[i].Title, want)
		}
	}
}

// --- ListAll / Count Tests ---

func TestListAllAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := createTask(t, s, types.CreateTaskRequest{
		Type: types.TypeMultiple, Title: "Parent", Group: types.GroupSocial,
		URI: "https://x.com/p/1", Enabled: true,
	})
	childReq := externalReq("child")
	childReq.Type = types.TypeLike
	childReq.ParentID = parent.ID
	createTask(t, s, childReq)

	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(ListAll()) = %d, want 2 (children included)", len(all))
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}
