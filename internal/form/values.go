// Package form holds the ergonomic quest form representation and the logic
// that bridges it to the wire contract: business rules, validation and the
// form-to-API adapter.
package form

import (
	"time"

	"github.com/waveline/questadmin/internal/preset"
	"github.com/waveline/questadmin/internal/types"
)

// QuestFormValues is one in-progress quest form session: a superset of the
// wire task fields plus UI-only conveniences (preset, totalReward, child).
type QuestFormValues struct {
	ID           string          `json:"id,omitempty"`
	Title        string          `json:"title"`
	Type         types.TaskType  `json:"type"`
	Description  string          `json:"description,omitempty"`
	Group        string          `json:"group"`
	OrderBy      int             `json:"order_by"`
	Provider     string          `json:"provider,omitempty"`
	URI          string          `json:"uri,omitempty"`
	Reward       *float64        `json:"reward,omitempty"`
	TotalReward  *float64        `json:"totalReward,omitempty"`
	Enabled      bool            `json:"enabled"`
	Web          bool            `json:"web"`
	TWA          bool            `json:"twa"`
	Pinned       bool            `json:"pinned"`
	Level        int             `json:"level"`
	Icon         string          `json:"icon,omitempty"`
	Preset       string          `json:"preset,omitempty"`
	ParentID     string          `json:"parent_id,omitempty"`
	BlockingTask string          `json:"blocking_task,omitempty"`
	Resources    *types.Resource `json:"resources,omitempty"`
	Child        []ChildFormValues `json:"child,omitempty"`
	Start        *time.Time      `json:"start,omitempty"`
	End          *time.Time      `json:"end,omitempty"`
	Iterator     *types.Iterator `json:"iterator,omitempty"`
}

// ChildFormValues is a sub-quest embedded in a "multiple" parent form.
// Pointer fields fall back to the parent's value when unset; the merge is
// centralized in the adapter's inheritance functions.
type ChildFormValues struct {
	Title       string          `json:"title"`
	Type        types.TaskType  `json:"type"`
	Description string          `json:"description,omitempty"`
	Group       string          `json:"group,omitempty"`
	Provider    string          `json:"provider,omitempty"`
	OrderBy     *int            `json:"order_by,omitempty"`
	Reward      *float64        `json:"reward,omitempty"`
	Enabled     *bool           `json:"enabled,omitempty"`
	Web         *bool           `json:"web,omitempty"`
	TWA         *bool           `json:"twa,omitempty"`
	Pinned      *bool           `json:"pinned,omitempty"`
	Level       *int            `json:"level,omitempty"`
	URI         string          `json:"uri,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Start       *time.Time      `json:"start,omitempty"`
	End         *time.Time      `json:"end,omitempty"`
	Resources   *types.Resource `json:"resources,omitempty"`
}

// FieldValue implements preset.FieldValues for conditional visibility
// rules. Only scalar fields referenced by predicates are resolved.
func (v QuestFormValues) FieldValue(name string) string {
	switch name {
	case preset.FieldGroup:
		return v.Group
	case preset.FieldProvider:
		return v.Provider
	case preset.FieldType:
		return string(v.Type)
	case preset.FieldURI:
		return v.URI
	case preset.FieldTitle:
		return v.Title
	default:
		return ""
	}
}

// Clone returns a deep copy of the form values.
func (v QuestFormValues) Clone() QuestFormValues {
	out := v
	out.Reward = clonePtr(v.Reward)
	out.TotalReward = clonePtr(v.TotalReward)
	out.Start = clonePtr(v.Start)
	out.End = clonePtr(v.End)
	out.Resources = v.Resources.Clone()
	if v.Iterator != nil {
		it := *v.Iterator
		it.RewardMap = append([]float64(nil), v.Iterator.RewardMap...)
		out.Iterator = &it
	}
	if v.Child != nil {
		out.Child = make([]ChildFormValues, len(v.Child))
		for i, c := range v.Child {
			out.Child[i] = c.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the child values.
func (c ChildFormValues) Clone() ChildFormValues {
	out := c
	out.OrderBy = clonePtr(c.OrderBy)
	out.Reward = clonePtr(c.Reward)
	out.Enabled = clonePtr(c.Enabled)
	out.Web = clonePtr(c.Web)
	out.TWA = clonePtr(c.TWA)
	out.Pinned = clonePtr(c.Pinned)
	out.Level = clonePtr(c.Level)
	out.Start = clonePtr(c.Start)
	out.End = clonePtr(c.End)
	out.Resources = c.Resources.Clone()
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// NewFromPreset seeds a fresh form session from a preset's defaults.
func NewFromPreset(cfg *preset.Config) QuestFormValues {
	d := cfg.Defaults
	v := QuestFormValues{
		Preset:   cfg.ID,
		Type:     d.Type,
		Group:    d.Group,
		Provider: d.Provider,
		Level:    d.Level,
		Enabled:  d.Enabled,
		Web:      d.Web,
		TWA:      d.TWA,
	}
	if d.Reward != 0 {
		reward := d.Reward
		v.Reward = &reward
	}
	if d.Iterator != nil {
		it := *d.Iterator
		it.RewardMap = append([]float64(nil), d.Iterator.RewardMap...)
		v.Iterator = &it
	}
	v.Resources = d.Resources.Clone()
	return v
}
