package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"driftboard/internal/core"
	"driftboard/internal/layout"
	"driftboard/internal/types"
)

// WidgetHandler serves the widget layout endpoints.
type WidgetHandler struct {
	Store *layout.Store
}

// Routes mounts the widget endpoints.
func (h *WidgetHandler) Routes(r chi.Router) {
	r.Get("/widgets", h.HandleList)
	r.Post("/widgets", h.HandleAdd)
	r.Patch("/widgets/{id}/position", h.HandleMove)
	r.Patch("/widgets/{id}/visibility", h.HandleVisibility)
	r.Patch("/widgets/{id}/settings", h.HandleSettings)
	r.Patch("/widgets/{id}/elevation", h.HandleElevation)
	r.Post("/widgets/{id}/front", h.HandleBringToFront)
	r.Delete("/widgets/{id}", h.HandleRemove)
}

// sceneID extracts the optional scene filter from the query string.
func sceneID(r *http.Request) *string {
	if s := r.URL.Query().Get("scene_id"); s != "" {
		return &s
	}
	return nil
}

// WidgetListResponse wraps the widget collection.
type WidgetListResponse struct {
	Widgets []*types.WidgetInstance `json:"widgets"`
}

// HandleList serves GET /v1/widgets?scene_id=.
func (h *WidgetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	widgets, err := h.Store.List(r.Context(), sceneID(r))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, WidgetListResponse{Widgets: widgets})
}

// AddWidgetRequest is the body for POST /v1/widgets.
type AddWidgetRequest struct {
	WidgetType types.WidgetType `json:"widget_type"`
	Elevation  types.Elevation  `json:"elevation,omitempty"`
	SceneID    *string          `json:"scene_id,omitempty"`
}

// HandleAdd serves POST /v1/widgets.
func (h *WidgetHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req AddWidgetRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if req.WidgetType == "" {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationMissingField,
			"widget_type is required",
			nil,
		))
		return
	}
	widget, err := h.Store.AddWidget(r.Context(), req.WidgetType, req.Elevation, req.SceneID)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusCreated, widget)
}

// MoveWidgetRequest is the body for PATCH /v1/widgets/{id}/position.
type MoveWidgetRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// HandleMove serves PATCH /v1/widgets/{id}/position.
func (h *WidgetHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	var req MoveWidgetRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if req.X == nil || req.Y == nil {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationInvalidCoords,
			"x and y are required",
			nil,
		))
		return
	}
	if err := h.Store.Move(r.Context(), chi.URLParam(r, "id"), *req.X, *req.Y); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// VisibilityRequest is the body for PATCH /v1/widgets/{id}/visibility.
type VisibilityRequest struct {
	Visible *bool `json:"visible"`
}

// HandleVisibility serves PATCH /v1/widgets/{id}/visibility.
func (h *WidgetHandler) HandleVisibility(w http.ResponseWriter, r *http.Request) {
	var req VisibilityRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if req.Visible == nil {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationMissingField,
			"visible is required",
			nil,
		))
		return
	}
	if err := h.Store.SetVisibility(r.Context(), chi.URLParam(r, "id"), *req.Visible); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SettingsRequest is the body for PATCH /v1/widgets/{id}/settings.
type SettingsRequest struct {
	Settings types.Settings `json:"settings"`
}

// HandleSettings serves PATCH /v1/widgets/{id}/settings.
func (h *WidgetHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.Store.SetSettings(r.Context(), chi.URLParam(r, "id"), req.Settings); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ElevationRequest is the body for PATCH /v1/widgets/{id}/elevation.
type ElevationRequest struct {
	Elevation types.Elevation `json:"elevation"`
}

// HandleElevation serves PATCH /v1/widgets/{id}/elevation.
func (h *WidgetHandler) HandleElevation(w http.ResponseWriter, r *http.Request) {
	var req ElevationRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.Store.SetElevation(r.Context(), chi.URLParam(r, "id"), req.Elevation); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBringToFront serves POST /v1/widgets/{id}/front.
func (h *WidgetHandler) HandleBringToFront(w http.ResponseWriter, r *http.Request) {
	widget, err := h.Store.BringToFront(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, widget)
}

// HandleRemove serves DELETE /v1/widgets/{id}.
func (h *WidgetHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.RemoveWidget(r.Context(), chi.URLParam(r, "id")); err != nil {
		core.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
