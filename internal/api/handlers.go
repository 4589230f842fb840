package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/waveline/questadmin/internal/creation"
	"github.com/waveline/questadmin/internal/form"
	"github.com/waveline/questadmin/internal/media"
	"github.com/waveline/questadmin/internal/preset"
	"github.com/waveline/questadmin/internal/store"
	"github.com/waveline/questadmin/internal/types"
	"github.com/waveline/questadmin/internal/validation"
)

// maxUploadSize caps media uploads at 5 MiB.
const maxUploadSize = 5 << 20

// Handler implements the API handlers
type Handler struct {
	store    store.Store
	uploader media.Uploader
	orch     *creation.Orchestrator
	version  string
}

// NewHandler creates a new Handler wired to the store and media uploader.
func NewHandler(s store.Store, up media.Uploader, version string) *Handler {
	return &Handler{
		store:    s,
		uploader: up,
		orch:     creation.New(&storeTaskAPI{store: s}),
		version:  version,
	}
}

// storeTaskAPI adapts store.Store to the orchestrator's TaskAPI.
type storeTaskAPI struct {
	store store.Store
}

func (a *storeTaskAPI) CreateTask(ctx context.Context, req types.CreateTaskRequest) (*types.Task, error) {
	return a.store.CreateTask(ctx, req)
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Count(r.Context())
	if err != nil {
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		TaskCount: count,
		Presets:   len(preset.List()),
	})
}

// presetSummary is the list rendering of a registered preset.
type presetSummary struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	Icon              string   `json:"icon,omitempty"`
	SpecialComponents []string `json:"special_components,omitempty"`
}

// conditionView renders a conditional visibility predicate.
type conditionView struct {
	Field  string `json:"field"`
	Equals string `json:"equals"`
}

// fieldRuleView renders one field's visibility rule.
type fieldRuleView struct {
	State string         `json:"state"`
	When  *conditionView `json:"when,omitempty"`
}

// presetView is the detail rendering of a preset.
type presetView struct {
	presetSummary
	FieldVisibility map[string]fieldRuleView `json:"field_visibility"`
	LockedFields    map[string]string        `json:"locked_fields,omitempty"`
	Defaults        form.QuestFormValues     `json:"defaults"`
}

func summarize(cfg *preset.Config) presetSummary {
	return presetSummary{
		ID:                cfg.ID,
		Name:              cfg.Name,
		Description:       cfg.Description,
		Icon:              cfg.Icon,
		SpecialComponents: cfg.SpecialComponents,
	}
}

// ListPresets handles GET /api/v1/presets
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	configs := preset.List()
	out := make([]presetSummary, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, summarize(cfg))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetPreset handles GET /api/v1/presets/{id}
func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	cfg, err := preset.Get(chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	view := presetView{
		presetSummary:   summarize(cfg),
		FieldVisibility: make(map[string]fieldRuleView, len(cfg.FieldVisibility)),
		LockedFields:    cfg.LockedFields,
		Defaults:        form.NewFromPreset(cfg),
	}
	for field, rule := range cfg.FieldVisibility {
		fv := fieldRuleView{State: string(rule.State)}
		if rule.When != nil {
			fv.When = &conditionView{Field: rule.When.Field, Equals: rule.When.Equals}
		}
		view.FieldVisibility[field] = fv
	}
	writeJSON(w, http.StatusOK, view)
}

// PresetFieldStates handles POST /api/v1/presets/{id}/field-states.
// The body carries the current form values; the response is the resolved
// per-field render state for the preset.
func (h *Handler) PresetFieldStates(w http.ResponseWriter, r *http.Request) {
	cfg, err := preset.Get(chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	var values form.QuestFormValues
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, preset.ComputeFieldStates(cfg, values))
}

// ListTasks handles GET /api/v1/tasks
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListTasks(r.Context(), parseQuestSearch(r))
	if err != nil {
		slog.Error("list tasks failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// taskDetail is a task together with its children.
type taskDetail struct {
	Task     types.Task           `json:"task"`
	Children []types.Task         `json:"children"`
	Form     form.QuestFormValues `json:"form"`
}

// GetTask handles GET /api/v1/tasks/{id}
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	task, err := h.store.GetTask(r.Context(), id)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	children, err := h.store.ListChildren(r.Context(), id)
	if err != nil {
		slog.Error("list children failed", "error", err, "task_id", id)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, taskDetail{
		Task:     *task,
		Children: children,
		Form:     form.TaskToForm(*task, children),
	})
}

// prepare decodes, applies business rules and validates a quest form.
// id is the target task id on updates (empty on create); it must be set
// before validation so the uniqueness checks exclude the quest itself.
// Returns the transformed values and the preset config (nil when the form
// has none). A false return means a response has already been written.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request, id string) (form.QuestFormValues, *preset.Config, bool) {
	var values form.QuestFormValues
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return values, nil, false
	}
	if id != "" {
		values.ID = id
	}

	var cfg *preset.Config
	if values.Preset != "" {
		var err error
		cfg, err = preset.Get(values.Preset)
		if err != nil {
			WriteProblemWithErrors(w, r, "Quest failed validation", []validation.FieldError{{
				Field:   "preset",
				Message: fmt.Sprintf("unknown preset %q", values.Preset),
				Type:    validation.TypeInvalid,
			}})
			return values, nil, false
		}

		values, err = form.ApplyBusinessRules(values, cfg)
		if err != nil {
			WriteProblem(w, r, http.StatusUnprocessableEntity, err.Error())
			return values, nil, false
		}
	}

	existing, err := h.store.ListAll(r.Context())
	if err != nil {
		slog.Error("load tasks for validation failed", "error", err)
		MapStoreError(w, r, err)
		return values, nil, false
	}

	if result := form.ValidateQuest(values, existing); !result.Valid {
		WriteProblemWithErrors(w, r, "Quest failed validation", result.Errors)
		return values, nil, false
	}

	return values, cfg, true
}

// creationResponse pairs the creation state with derived progress.
type creationResponse struct {
	creation.State
	Progress creation.Progress `json:"progress"`
}

func (h *Handler) writeCreationState(w http.ResponseWriter, status int, state creation.State) {
	writeJSON(w, status, creationResponse{
		State:    state,
		Progress: creation.ProgressOf(state),
	})
}

// CreateQuest handles POST /api/v1/tasks. The parent task and its children
// are created sequentially; child failures leave a partial_error state the
// caller can retry.
func (h *Handler) CreateQuest(w http.ResponseWriter, r *http.Request) {
	values, cfg, ok := h.prepare(w, r, "")
	if !ok {
		return
	}

	state, err := h.orch.Submit(r.Context(), values, cfg)
	if err != nil {
		if errors.Is(err, creation.ErrCreationInProgress) {
			WriteProblem(w, r, http.StatusConflict, "A creation sequence is already running")
			return
		}
		slog.Error("quest creation failed", "error", err, "title", values.Title)
		h.writeCreationState(w, http.StatusBadGateway, state)
		return
	}

	if state.Success() {
		h.writeCreationState(w, http.StatusCreated, state)
		return
	}
	h.writeCreationState(w, http.StatusMultiStatus, state)
}

// ValidateQuest handles POST /api/v1/tasks/validate. Always responds 200
// with the full validation result so the dashboard can render field errors.
func (h *Handler) ValidateQuest(w http.ResponseWriter, r *http.Request) {
	var values form.QuestFormValues
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	if values.Preset != "" {
		if cfg, err := preset.Get(values.Preset); err == nil {
			if transformed, err := form.ApplyBusinessRules(values, cfg); err == nil {
				values = transformed
			}
		}
	}

	existing, err := h.store.ListAll(r.Context())
	if err != nil {
		slog.Error("load tasks for validation failed", "error", err)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, form.ValidateQuest(values, existing))
}

// UpdateTask handles PUT /api/v1/tasks/{id}
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	values, cfg, ok := h.prepare(w, r, id)
	if !ok {
		return
	}

	task, err := h.store.UpdateTask(r.Context(), id, form.ToTaskRequest(values, cfg))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/v1/tasks/{id}. Children are removed with
// their parent.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteTask(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreationState handles GET /api/v1/tasks/creation
func (h *Handler) CreationState(w http.ResponseWriter, r *http.Request) {
	h.writeCreationState(w, http.StatusOK, h.orch.State())
}

// RetryCreation handles POST /api/v1/tasks/creation/retry. Only children
// in error state are re-attempted.
func (h *Handler) RetryCreation(w http.ResponseWriter, r *http.Request) {
	state, err := h.orch.RetryFailedChildren(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, creation.ErrCreationInProgress):
			WriteProblem(w, r, http.StatusConflict, "A creation sequence is already running")
		case errors.Is(err, creation.ErrNothingToRetry):
			WriteProblem(w, r, http.StatusConflict, "No failed children to retry")
		default:
			WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	if state.Success() {
		h.writeCreationState(w, http.StatusOK, state)
		return
	}
	h.writeCreationState(w, http.StatusMultiStatus, state)
}

// CancelCreation handles POST /api/v1/tasks/creation/cancel. Tasks already
// created are kept; untried children stay pending.
func (h *Handler) CancelCreation(w http.ResponseWriter, r *http.Request) {
	h.orch.Cancel()
	h.writeCreationState(w, http.StatusOK, h.orch.State())
}

// ResetCreation handles POST /api/v1/tasks/creation/reset
func (h *Handler) ResetCreation(w http.ResponseWriter, r *http.Request) {
	h.orch.Reset()
	h.writeCreationState(w, http.StatusOK, h.orch.State())
}

// UploadMedia handles POST /api/v1/media. Accepts a multipart form with a
// single "file" part and returns the stored object's public URL.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Missing file part")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.uploader.Upload(r.Context(), header.Filename, contentType, file, header.Size)
	if err != nil {
		slog.Error("media upload failed", "error", err, "filename", header.Filename)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, types.MediaUpload{URL: url})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
