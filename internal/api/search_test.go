package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/waveline/questadmin/internal/types"
)

// --- Query Parsing Tests ---

func TestParseQuestSearch(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/api/v1/tasks?search=discord&group=social&type=join&provider=discord&visible=true&page=2&limit=50&sort=title:asc", nil)

	got := parseQuestSearch(r)
	if got.Search != "discord" || got.Group != types.GroupSocial || got.Type != types.TypeJoin {
		t.Errorf("filters = %+v", got)
	}
	if got.Visible == nil || !*got.Visible {
		t.Errorf("visible = %v, want true", got.Visible)
	}
	if got.Page != 2 || got.Limit != 50 || got.Sort != "title:asc" {
		t.Errorf("paging = page %d limit %d sort %q", got.Page, got.Limit, got.Sort)
	}
}

func TestParseQuestSearch_DefaultsAndMalformed(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet,
		"/api/v1/tasks?visible=maybe&page=abc&limit=-5", nil)

	got := parseQuestSearch(r)
	if got.Visible != nil {
		t.Errorf("visible = %v, want nil for malformed value", got.Visible)
	}
	if got.Page != 1 {
		t.Errorf("page = %d, want normalized 1", got.Page)
	}
	if got.Limit != types.DefaultPageLimit {
		t.Errorf("limit = %d, want default %d", got.Limit, types.DefaultPageLimit)
	}
}
