package questapi

import "time"

// Wire types mirroring the service's JSON contract. They are declared here
// so external tooling can import the client without reaching into the
// service's internal packages.

// Pagination bounds for quest listing.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PopupResource holds the copy rendered in the quest detail popup.
type PopupResource struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Button      string `json:"button,omitempty"`
}

// UIResource holds button and popup copy for a quest.
type UIResource struct {
	Button string         `json:"button,omitempty"`
	PopUp  *PopupResource `json:"pop-up,omitempty"`
}

// Resource is the provider-specific and UI payload attached to a task.
type Resource struct {
	UI       *UIResource `json:"ui,omitempty"`
	TweetID  string      `json:"tweetId,omitempty"`
	Username string      `json:"username,omitempty"`
	Icon     string      `json:"icon,omitempty"`
}

// Iterator configures a repeatable quest.
type Iterator struct {
	Days      int       `json:"days"`
	RewardMap []float64 `json:"reward_map"`
}

// Task is the quest entity as served by the API.
type Task struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Group        string     `json:"group"`
	Reward       float64    `json:"reward"`
	OrderBy      int        `json:"order_by"`
	Enabled      bool       `json:"enabled"`
	Web          bool       `json:"web"`
	TWA          bool       `json:"twa"`
	Pinned       bool       `json:"pinned"`
	Level        int        `json:"level"`
	ParentID     string     `json:"parent_id,omitempty"`
	Provider     string     `json:"provider,omitempty"`
	URI          string     `json:"uri,omitempty"`
	BlockingTask string     `json:"blocking_task,omitempty"`
	Icon         string     `json:"icon,omitempty"`
	Start        *time.Time `json:"start,omitempty"`
	End          *time.Time `json:"end,omitempty"`
	Resource     *Resource  `json:"resource,omitempty"`
	Iterator     *Iterator  `json:"iterator,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateTaskRequest is the wire payload for creating a task.
type CreateTaskRequest struct {
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Group        string     `json:"group"`
	Reward       float64    `json:"reward"`
	OrderBy      int        `json:"order_by"`
	Enabled      bool       `json:"enabled"`
	Web          bool       `json:"web"`
	TWA          bool       `json:"twa"`
	Pinned       bool       `json:"pinned"`
	Level        int        `json:"level"`
	ParentID     string     `json:"parent_id,omitempty"`
	Provider     string     `json:"provider,omitempty"`
	URI          string     `json:"uri,omitempty"`
	BlockingTask string     `json:"blocking_task,omitempty"`
	Icon         string     `json:"icon,omitempty"`
	Start        *time.Time `json:"start,omitempty"`
	End          *time.Time `json:"end,omitempty"`
	Resource     *Resource  `json:"resource,omitempty"`
	Iterator     *Iterator  `json:"iterator,omitempty"`
}

// UpdateTaskRequest carries the same field set as create; the target id
// travels in the URL.
type UpdateTaskRequest = CreateTaskRequest

// TaskList is a page of tasks plus the unpaged total.
type TaskList struct {
	Items []Task `json:"items"`
	Total int64  `json:"total"`
}

// MediaUpload is the response from the media upload endpoint.
type MediaUpload struct {
	URL string `json:"url"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	TaskCount int64  `json:"task_count"`
	Presets   int    `json:"presets"`
}

// FieldError is a single field validation failure reported by the server.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// QuestSearch is the quest list query.
type QuestSearch struct {
	Search   string `json:"search,omitempty"`
	Group    string `json:"group,omitempty"`
	Type     string `json:"type,omitempty"`
	Provider string `json:"provider,omitempty"`
	Visible  *bool  `json:"visible,omitempty"`
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	Sort     string `json:"sort,omitempty"`
}

// Normalize clamps pagination to the bounds the server enforces.
func (q QuestSearch) Normalize() QuestSearch {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	return q
}
