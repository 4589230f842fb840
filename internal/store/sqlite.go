package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/waveline/questadmin/internal/types"
)

// SQLiteStore is the SQLite-backed task database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore instance.
// It initializes the database with WAL mode, applies pragmas, and runs
// migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// enablePragmas sets SQLite pragmas for optimal performance and safety.
func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const taskColumns = `id, type, title, description, "group", reward, order_by, enabled, web, twa, pinned, level,
	parent_id, provider, uri, blocking_task, icon, start_at, end_at, resource, iterator, created_at, updated_at`

// CreateTask persists a new task with a generated ULID id.
func (s *SQLiteStore) CreateTask(ctx context.Context, req types.CreateTaskRequest) (*types.Task, error) {
	if req.ParentID != "" {
		var exists bool
		err := s.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM tasks WHERE id = ?)", req.ParentID).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: parent %s", ErrNotFound, req.ParentID)
		}
	}

	now := time.Now().UTC()
	task := requestToTask(req)
	task.ID = ulid.Make().String()
	task.CreatedAt = now
	task.UpdatedAt = now

	resource, iterator, err := packJSON(task.Resource, task.Iterator)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID, string(task.Type), task.Title, task.Description, task.Group, task.Reward,
		task.OrderBy, task.Enabled, task.Web, task.TWA, task.Pinned, task.Level,
		nullString(task.ParentID), task.Provider, task.URI, task.BlockingTask, task.Icon,
		nullTime(task.Start), nullTime(task.End), resource, iterator,
		task.CreatedAt.Format(time.RFC3339), task.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// GetTask returns the task with the given id.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*types.Task, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return task, err
}

// UpdateTask replaces the mutable fields of an existing task.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id string, req types.UpdateTaskRequest) (*types.Task, error) {
	resource, iterator, err := packJSON(req.Resource, req.Iterator)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET
			type = ?, title = ?, description = ?, "group" = ?, reward = ?, order_by = ?,
			enabled = ?, web = ?, twa = ?, pinned = ?, level = ?, provider = ?, uri = ?,
			blocking_task = ?, icon = ?, start_at = ?, end_at = ?, resource = ?, iterator = ?,
			updated_at = ?
		WHERE id = ?
	`,
		string(req.Type), req.Title, req.Description, req.Group, req.Reward, req.OrderBy,
		req.Enabled, req.Web, req.TWA, req.Pinned, req.Level, req.Provider, req.URI,
		req.BlockingTask, req.Icon, nullTime(req.Start), nullTime(req.End), resource, iterator,
		time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return s.GetTask(ctx, id)
}

// DeleteTask removes a task; children go with it via the FK cascade.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// sortColumns whitelists sortable fields to their SQL columns.
var sortColumns = map[string]string{
	"order_by":   "order_by",
	"reward":     "reward",
	"title":      "title",
	"created_at": "created_at",
}

// orderClause converts a "field:dir" sort spec into a safe ORDER BY.
func orderClause(sort string) string {
	column, dir := "order_by", "ASC"
	if sort != "" {
		field := sort
		if i := strings.IndexByte(sort, ':'); i >= 0 {
			field = sort[:i]
			if strings.EqualFold(sort[i+1:], "desc") {
				dir = "DESC"
			}
		}
		if c, ok := sortColumns[field]; ok {
			column = c
		}
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, dir)
}

// ListTasks returns the filtered, sorted page of top-level tasks.
func (s *SQLiteStore) ListTasks(ctx context.Context, q types.QuestSearch) (*types.TaskList, error) {
	q = q.Normalize()

	where := []string{"parent_id IS NULL"}
	var args []any
	if q.Search != "" {
		where = append(where, "title LIKE ?")
		args = append(args, "%"+q.Search+"%")
	}
	if q.Group != "" {
		where = append(where, `"group" = ?`)
		args = append(args, q.Group)
	}
	if q.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(q.Type))
	}
	if q.Provider != "" {
		where = append(where, "provider = ?")
		args = append(args, q.Provider)
	}
	if q.Visible != nil {
		where = append(where, "enabled = ?")
		args = append(args, *q.Visible)
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks"+clause, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := "SELECT " + taskColumns + " FROM tasks" + clause + orderClause(q.Sort) + " LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collectTasks(rows)
	if err != nil {
		return nil, err
	}
	return &types.TaskList{Items: items, Total: total}, nil
}

// ListAll returns every task without paging, parents before children.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]types.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks ORDER BY parent_id IS NOT NULL, order_by ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListChildren returns a task's children in submission order.
func (s *SQLiteStore) ListChildren(ctx context.Context, parentID string) ([]types.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE parent_id = ? ORDER BY order_by ASC", parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

// Count returns the number of tasks.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count)
	return count, err
}

func collectTasks(rows *sql.Rows) ([]types.Task, error) {
	var items []types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *task)
	}
	return items, rows.Err()
}

// scanTask scans a row into a Task, unpacking JSON columns and timestamps.
func scanTask(scanner interface{ Scan(...any) error }) (*types.Task, error) {
	var task types.Task
	var taskType string
	var parentID, startAt, endAt, resource, iterator sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&task.ID, &taskType, &task.Title, &task.Description, &task.Group, &task.Reward,
		&task.OrderBy, &task.Enabled, &task.Web, &task.TWA, &task.Pinned, &task.Level,
		&parentID, &task.Provider, &task.URI, &task.BlockingTask, &task.Icon,
		&startAt, &endAt, &resource, &iterator, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Type = types.TaskType(taskType)
	task.ParentID = parentID.String
	if task.Start, err = parseNullTime(startAt); err != nil {
		return nil, err
	}
	if task.End, err = parseNullTime(endAt); err != nil {
		return nil, err
	}
	if resource.Valid && resource.String != "" {
		task.Resource = &types.Resource{}
		if err := json.Unmarshal([]byte(resource.String), task.Resource); err != nil {
			return nil, fmt.Errorf("unmarshal resource: %w", err)
		}
	}
	if iterator.Valid && iterator.String != "" {
		task.Iterator = &types.Iterator{}
		if err := json.Unmarshal([]byte(iterator.String), task.Iterator); err != nil {
			return nil, fmt.Errorf("unmarshal iterator: %w", err)
		}
	}
	if task.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if task.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &task, nil
}

func requestToTask(req types.CreateTaskRequest) types.Task {
	return types.Task{
		Type:         req.Type,
		Title:        req.Title,
		Description:  req.Description,
		Group:        req.Group,
		Reward:       req.Reward,
		OrderBy:      req.OrderBy,
		Enabled:      req.Enabled,
		Web:          req.Web,
		TWA:          req.TWA,
		Pinned:       req.Pinned,
		Level:        req.Level,
		ParentID:     req.ParentID,
		Provider:     req.Provider,
		URI:          req.URI,
		BlockingTask: req.BlockingTask,
		Icon:         req.Icon,
		Start:        req.Start,
		End:          req.End,
		Resource:     req.Resource.Clone(),
		Iterator:     req.Iterator,
	}
}

func packJSON(resource *types.Resource, iterator *types.Iterator) (sql.NullString, sql.NullString, error) {
	var res, iter sql.NullString
	if resource != nil {
		b, err := json.Marshal(resource)
		if err != nil {
			return res, iter, fmt.Errorf("marshal resource: %w", err)
		}
		res = sql.NullString{String: string(b), Valid: true}
	}
	if iterator != nil {
		b, err := json.Marshal(iterator)
		if err != nil {
			return res, iter, fmt.Errorf("marshal iterator: %w", err)
		}
		iter = sql.NullString{String: string(b), Valid: true}
	}
	return res, iter, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp: %w", err)
	}
	return &t, nil
}
