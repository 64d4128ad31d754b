package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-tagger/internal/engine"
)

// ModelHandler serves information about the loaded model.
type ModelHandler struct {
	engine *engine.Engine
}

// NewModelHandler creates a new model handler.
func NewModelHandler(eng *engine.Engine) *ModelHandler {
	return &ModelHandler{engine: eng}
}

// Get returns the current model state.
func (h *ModelHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Info())
}
