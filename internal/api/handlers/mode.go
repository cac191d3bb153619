package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"driftboard/internal/core"
	"driftboard/internal/mode"
	"driftboard/internal/types"
)

// ModeStateResponse is the wire representation of the display mode.
type ModeStateResponse struct {
	Mode      types.Mode `json:"mode"`
	IsAmbient bool       `json:"isAmbient"`
}

// ModeHandler exposes the display mode state machine over HTTP.
type ModeHandler struct {
	Controller *mode.Controller
}

// Routes mounts the mode endpoints.
func (h *ModeHandler) Routes(r chi.Router) {
	r.Get("/mode", h.HandleGet)
	r.Post("/mode/activity", h.HandleActivity)
	r.Post("/mode/edit", h.HandleEnterEdit)
	r.Delete("/mode/edit", h.HandleExitEdit)
	r.Post("/mode/edit/toggle", h.HandleToggleEdit)
	r.Post("/mode/calibration", h.HandleEnterCalibration)
	r.Delete("/mode/calibration", h.HandleExitCalibration)
}

// HandleGet serves GET /v1/mode.
func (h *ModeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r)
}

// HandleActivity serves POST /v1/mode/activity. Every call counts as
// one user input event; clients fire it on any pointer or key activity.
func (h *ModeHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	h.Controller.RecordActivity()
	h.writeState(w, r)
}

// HandleEnterEdit serves POST /v1/mode/edit.
func (h *ModeHandler) HandleEnterEdit(w http.ResponseWriter, r *http.Request) {
	h.Controller.EnterEdit()
	h.writeState(w, r)
}

// HandleExitEdit serves DELETE /v1/mode/edit.
func (h *ModeHandler) HandleExitEdit(w http.ResponseWriter, r *http.Request) {
	h.Controller.ExitEdit()
	h.writeState(w, r)
}

// HandleToggleEdit serves POST /v1/mode/edit/toggle.
func (h *ModeHandler) HandleToggleEdit(w http.ResponseWriter, r *http.Request) {
	h.Controller.ToggleEdit()
	h.writeState(w, r)
}

// HandleEnterCalibration serves POST /v1/mode/calibration.
func (h *ModeHandler) HandleEnterCalibration(w http.ResponseWriter, r *http.Request) {
	h.Controller.EnterCalibration()
	h.writeState(w, r)
}

// HandleExitCalibration serves DELETE /v1/mode/calibration.
func (h *ModeHandler) HandleExitCalibration(w http.ResponseWriter, r *http.Request) {
	h.Controller.ExitCalibration()
	h.writeState(w, r)
}

func (h *ModeHandler) writeState(w http.ResponseWriter, r *http.Request) {
	m := h.Controller.Mode()
	core.JSON(w, r, http.StatusOK, ModeStateResponse{
		Mode:      m,
		IsAmbient: m == types.ModeAmbient,
	})
}
