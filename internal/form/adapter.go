package form

import (
	"time"

	"github.com/waveline/questadmin/internal/preset"
	"github.com/waveline/questadmin/internal/types"
)

// ButtonTextForType returns the action button text for a child task type.
// Pure function of the type: child resources never carry over stale button
// text from the parent or from a previous type selection.
func ButtonTextForType(t types.TaskType) string {
	switch t {
	case types.TypeLike:
		return "Like"
	case types.TypeShare:
		return "Repost"
	case types.TypeComment:
		return "Comment"
	case types.TypeJoin:
		return "Join"
	case types.TypeConnect:
		return "Connect"
	default:
		return "Open"
	}
}

// ToTaskRequest maps form values to the wire payload for create or update
// (the caller decides which by the presence of v.ID). Locked preset fields
// override user edits; UI-only fields (totalReward, preset, child) are
// stripped — children travel as separate requests built by ChildRequest.
func ToTaskRequest(v QuestFormValues, cfg *preset.Config) types.CreateTaskRequest {
	req := types.CreateTaskRequest{
		Type:         v.Type,
		Title:        v.Title,
		Description:  v.Description,
		Group:        v.Group,
		OrderBy:      v.OrderBy,
		Enabled:      v.Enabled,
		Web:          v.Web,
		TWA:          v.TWA,
		Pinned:       v.Pinned,
		Level:        v.Level,
		ParentID:     v.ParentID,
		Provider:     v.Provider,
		URI:          v.URI,
		BlockingTask: v.BlockingTask,
		Icon:         v.Icon,
		Start:        clonePtr(v.Start),
		End:          clonePtr(v.End),
		Resource:     v.Resources.Clone(),
	}
	if v.Reward != nil {
		req.Reward = *v.Reward
	}
	if v.Iterator != nil {
		it := *v.Iterator
		it.RewardMap = append([]float64(nil), v.Iterator.RewardMap...)
		req.Iterator = &it
	}

	if cfg != nil {
		applyLockedFields(&req, cfg.LockedFields)
	}
	return req
}

// applyLockedFields forces locked values regardless of what the form held.
func applyLockedFields(req *types.CreateTaskRequest, locked map[string]string) {
	for field, value := range locked {
		switch field {
		case preset.FieldType:
			req.Type = types.TaskType(value)
		case preset.FieldProvider:
			req.Provider = value
		case preset.FieldGroup:
			req.Group = value
		}
	}
}

// ChildRequest builds the wire payload for one child task. Fields the child
// leaves unset inherit from the parent form values; index is the fallback
// order_by. The durable parent linkage is established via parentID.
func ChildRequest(parent QuestFormValues, child ChildFormValues, index int, parentID string) types.CreateTaskRequest {
	req := types.CreateTaskRequest{
		Type:        child.Type,
		Title:       child.Title,
		Description: child.Description,
		ParentID:    parentID,
		URI:         child.URI,
		Group:       inheritString(child.Group, parent.Group),
		Provider:    inheritString(child.Provider, parent.Provider),
		Icon:        inheritString(child.Icon, parent.Icon),
		// Blocking applies to the whole quest chain, so children follow
		// the parent's gate unless they declare their own.
		BlockingTask: parent.BlockingTask,
		Enabled:      inheritBool(child.Enabled, parent.Enabled),
		Web:          inheritBool(child.Web, parent.Web),
		TWA:          inheritBool(child.TWA, parent.TWA),
		Pinned:       inheritBool(child.Pinned, parent.Pinned),
		Level:        inheritInt(child.Level, parent.Level),
		Start:        inheritTime(child.Start, parent.Start),
		End:          inheritTime(child.End, parent.End),
		Resource:     inheritResources(parent.Resources, child.Resources, child.Type),
	}
	if child.Reward != nil {
		req.Reward = *child.Reward
	}
	if child.OrderBy != nil {
		req.OrderBy = *child.OrderBy
	} else {
		req.OrderBy = index
	}
	return req
}

// ChildRequests builds the ordered wire payloads for every child of a
// multiple quest.
func ChildRequests(parent QuestFormValues, parentID string) []types.CreateTaskRequest {
	reqs := make([]types.CreateTaskRequest, len(parent.Child))
	for i, child := range parent.Child {
		reqs[i] = ChildRequest(parent, child, i, parentID)
	}
	return reqs
}

// inheritResources centralizes the child resource inheritance contract:
// the child's own resources win when present, otherwise the parent's are
// copied — and the button text is always regenerated from the child's
// type, never inherited.
func inheritResources(parent, child *types.Resource, childType types.TaskType) *types.Resource {
	res := child.Clone()
	if res == nil {
		res = parent.Clone()
	}
	if res == nil {
		res = &types.Resource{}
	}
	if res.UI == nil {
		res.UI = &types.UIResource{}
	}
	res.UI.Button = ButtonTextForType(childType)
	if res.UI.PopUp != nil {
		res.UI.PopUp.Button = ButtonTextForType(childType)
	}
	return res
}

func inheritString(child, parent string) string {
	if child != "" {
		return child
	}
	return parent
}

func inheritBool(child *bool, parent bool) bool {
	if child != nil {
		return *child
	}
	return parent
}

func inheritInt(child *int, parent int) int {
	if child != nil {
		return *child
	}
	return parent
}

func inheritTime(child, parent *time.Time) *time.Time {
	if child != nil {
		return clonePtr(child)
	}
	return clonePtr(parent)
}

// TaskToForm rehydrates a persisted task (and its already-created children)
// into form values. Absent optional fields default to UI-friendly zero
// values; the source task is never mutated.
func TaskToForm(task types.Task, children []types.Task) QuestFormValues {
	reward := task.Reward
	v := QuestFormValues{
		ID:           task.ID,
		Title:        task.Title,
		Type:         task.Type,
		Description:  task.Description,
		Group:        task.Group,
		OrderBy:      task.OrderBy,
		Provider:     task.Provider,
		URI:          task.URI,
		Reward:       &reward,
		Enabled:      task.Enabled,
		Web:          task.Web,
		TWA:          task.TWA,
		Pinned:       task.Pinned,
		Level:        task.Level,
		Icon:         task.Icon,
		ParentID:     task.ParentID,
		BlockingTask: task.BlockingTask,
		Resources:    task.Resource.Clone(),
		Start:        clonePtr(task.Start),
		End:          clonePtr(task.End),
	}
	if task.Iterator != nil {
		it := *task.Iterator
		it.RewardMap = append([]float64(nil), task.Iterator.RewardMap...)
		v.Iterator = &it
	}
	if len(children) > 0 {
		v.Child = make([]ChildFormValues, len(children))
		for i, c := range children {
			v.Child[i] = childToForm(c)
		}
		if task.Type == types.TypeMultiple {
			total := 0.0
			for _, c := range children {
				total += c.Reward
			}
			v.TotalReward = &total
		}
	}
	return v
}

func childToForm(task types.Task) ChildFormValues {
	reward := task.Reward
	orderBy := task.OrderBy
	enabled := task.Enabled
	web := task.Web
	twa := task.TWA
	pinned := task.Pinned
	level := task.Level
	return ChildFormValues{
		Title:       task.Title,
		Type:        task.Type,
		Description: task.Description,
		Group:       task.Group,
		Provider:    task.Provider,
		OrderBy:     &orderBy,
		Reward:      &reward,
		Enabled:     &enabled,
		Web:         &web,
		TWA:         &twa,
		Pinned:      &pinned,
		Level:       &level,
		URI:         task.URI,
		Icon:        task.Icon,
		Start:       clonePtr(task.Start),
		End:         clonePtr(task.End),
		Resources:   task.Resource.Clone(),
	}
}
