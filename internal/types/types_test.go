package types

import (
	"encoding/json"
	"strings"
	"testing"
)

// --- Task Type Tests ---

func TestIsValidTaskType(t *testing.T) {
	for _, tt := range TaskTypes {
		if !IsValidTaskType(tt) {
			t.Errorf("IsValidTaskType(%q) = false, want true", tt)
		}
	}
	if IsValidTaskType("partner_invite") {
		t.Error("partner_invite accepted, want rejected")
	}
	if IsValidTaskType("") {
		t.Error("empty type accepted, want rejected")
	}
}

func TestIsValidChildType(t *testing.T) {
	for _, tt := range ChildTaskTypes {
		if !IsValidChildType(tt) {
			t.Errorf("IsValidChildType(%q) = false, want true", tt)
		}
	}
	for _, tt := range []TaskType{TypeMultiple, TypeRepeatable, TypeExternal, TypeDummy} {
		if IsValidChildType(tt) {
			t.Errorf("IsValidChildType(%q) = true, want false", tt)
		}
	}
}

// --- Resource Clone Tests ---

func TestResourceClone_Nil(t *testing.T) {
	var r *Resource
	if r.Clone() != nil {
		t.Error("nil resource cloned to non-nil")
	}
}

func TestResourceClone_DeepCopy(t *testing.T) {
	orig := &Resource{
		TweetID: "123",
		UI: &UIResource{
			Button: "Like",
			PopUp:  &PopupResource{Name: "Social quest", Button: "Go"},
		},
	}

	clone := orig.Clone()
	clone.UI.Button = "Repost"
	clone.UI.PopUp.Name = "Changed"

	if orig.UI.Button != "Like" {
		t.Errorf("original button mutated: %q", orig.UI.Button)
	}
	if orig.UI.PopUp.Name != "Social quest" {
		t.Errorf("original popup mutated: %q", orig.UI.PopUp.Name)
	}
	if clone.TweetID != "123" {
		t.Errorf("clone lost tweet id: %q", clone.TweetID)
	}
}

func TestResourceClone_NilUI(t *testing.T) {
	clone := (&Resource{Icon: "star"}).Clone()
	if clone.UI != nil || clone.Icon != "star" {
		t.Errorf("clone = %+v, want icon only", clone)
	}
}

// --- TaskList Marshal Tests ---

func TestTaskListMarshal_NilItems(t *testing.T) {
	data, err := json.Marshal(TaskList{Total: 0})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"items":[]`) {
		t.Errorf("marshal = %s, want empty array not null", data)
	}
}

// --- Search Normalization Tests ---

func TestQuestSearchNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        QuestSearch
		wantPage  int
		wantLimit int
	}{
		{"zero values", QuestSearch{}, 1, DefaultPageLimit},
		{"negative page", QuestSearch{Page: -2, Limit: 10}, 1, 10},
		{"limit too large", QuestSearch{Page: 3, Limit: 500}, 3, MaxPageLimit},
		{"in range", QuestSearch{Page: 2, Limit: 50}, 2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit {
				t.Errorf("Normalize() = page %d limit %d, want %d/%d",
					got.Page, got.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestQuestSearchOffset(t *testing.T) {
	q := QuestSearch{Page: 3, Limit: 20}
	if got := q.Offset(); got != 40 {
		t.Errorf("Offset() = %d, want 40", got)
	}
}
