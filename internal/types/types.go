package types

import (
	"encoding/json"
	"time"
)

// TaskType classifies a quest by its completion mechanic.
type TaskType string

const (
	TypeConnect    TaskType = "connect"
	TypeJoin       TaskType = "join"
	TypeMultiple   TaskType = "multiple"
	TypeExternal   TaskType = "external"
	TypeRepeatable TaskType = "repeatable"
	TypeReferral   TaskType = "referral"
	TypeShare      TaskType = "share"
	TypeLike       TaskType = "like"
	TypeComment    TaskType = "comment"
	TypeDummy      TaskType = "dummy"
)

// TaskTypes is the canonical enumeration of quest types.
// "partner_invite" is deliberately excluded; see DESIGN.md.
var TaskTypes = []TaskType{
	TypeConnect, TypeJoin, TypeMultiple, TypeExternal, TypeRepeatable,
	TypeReferral, TypeShare, TypeLike, TypeComment, TypeDummy,
}

// ChildTaskTypes is the restricted subset allowed for child tasks of a
// "multiple" parent.
var ChildTaskTypes = []TaskType{
	TypeLike, TypeShare, TypeComment, TypeJoin, TypeConnect,
}

// IsValidTaskType reports whether t is in the canonical enumeration.
func IsValidTaskType(t TaskType) bool {
	for _, v := range TaskTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsValidChildType reports whether t is allowed for a child task.
func IsValidChildType(t TaskType) bool {
	for _, v := range ChildTaskTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Quest groups. The group drives popup copy generation and conditional
// field visibility (partner quests carry their own icon).
const (
	GroupSocial  = "social"
	GroupPartner = "partner"
	GroupDaily   = "daily"
	GroupAcademy = "academy"
)

// Groups lists the known quest groups.
var Groups = []string{GroupSocial, GroupPartner, GroupDaily, GroupAcademy}

// Known social providers for connect/join quests.
const (
	ProviderTwitter  = "twitter"
	ProviderDiscord  = "discord"
	ProviderTelegram = "telegram"
	ProviderYoutube  = "youtube"
)

// Providers lists the known providers.
var Providers = []string{ProviderTwitter, ProviderDiscord, ProviderTelegram, ProviderYoutube}

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

// Clone returns a deep copy of the resource. A nil receiver clones to nil.
func (r *Resource) Clone() *Resource {
	if r == nil {
		return nil
	}
	out := *r
	if r.UI != nil {
		ui := *r.UI
		if r.UI.PopUp != nil {
			popup := *r.UI.PopUp
			ui.PopUp = &popup
		}
		out.UI = &ui
	}
	return &out
}

// Iterator configures a repeatable quest: how many days the challenge runs
// and the reward paid out per consecutive day.
type Iterator struct {
	Days      int       `json:"days"`
	RewardMap []float64 `json:"reward_map"`
}

// Task is the persisted quest entity as served by the API.
type Task struct {
	ID           string     `json:"id"`
	Type         TaskType   `json:"type"`
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
// Children of a multiple quest are never nested here; each child is
// submitted as its own create request carrying ParentID.
type CreateTaskRequest struct {
	Type         TaskType   `json:"type"`
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

// UpdateTaskRequest is the wire payload for updating a task.
// It carries the same field set as create; the target id travels in the URL.
type UpdateTaskRequest = CreateTaskRequest

// TaskList is a page of tasks plus the unpaged total.
type TaskList struct {
	Items []Task `json:"items"`
	Total int64  `json:"total"`
}

// MarshalJSON ensures a nil Items slice marshals as [] not null.
func (l TaskList) MarshalJSON() ([]byte, error) {
	if l.Items == nil {
		l.Items = []Task{}
	}
	type Alias TaskList
	return json.Marshal(Alias(l))
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
