package api

import (
	"net/http"
	"strconv"

	"github.com/waveline/questadmin/internal/types"
)

// parseQuestSearch builds a QuestSearch from request query parameters.
// Unknown or malformed values fall back to defaults via Normalize.
func parseQuestSearch(r *http.Request) types.QuestSearch {
	q := r.URL.Query()

	search := types.QuestSearch{
		Search:   q.Get("search"),
		Group:    q.Get("group"),
		Type:     types.TaskType(q.Get("type")),
		Provider: q.Get("provider"),
		Sort:     q.Get("sort"),
	}

	if v := q.Get("visible"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			search.Visible = &b
		}
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			search.Page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			search.Limit = n
		}
	}

	return search.Normalize()
}
