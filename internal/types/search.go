package types

// Pagination bounds for quest listing.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// QuestSearch is the quest list query contract: the same object travels
// from URL search params through the API into the store.
type QuestSearch struct {
	Search   string   `json:"search,omitempty"`
	Group    string   `json:"group,omitempty"`
	Type     TaskType `json:"type,omitempty"`
	Provider string   `json:"provider,omitempty"`
	Visible  *bool    `json:"visible,omitempty"`
	Page     int      `json:"page"`
	Limit    int      `json:"limit"`
	Sort     string   `json:"sort,omitempty"`
}

// Normalize clamps pagination to sane bounds and returns the result.
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

// Offset returns the row offset for the current page.
func (q QuestSearch) Offset() int {
	return (q.Page - 1) * q.Limit
}
