package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/kozaktomas/face-tagger/internal/engine"
)

// maxUploadSize caps in-memory parsing of uploaded images.
const maxUploadSize = 32 << 20 // 32 MB

// RecognizeHandler runs face recognition on uploaded images.
type RecognizeHandler struct {
	engine    *engine.Engine
	tolerance float64
}

// NewRecognizeHandler creates a new recognize handler. The tolerance is the
// default used when the request does not carry one.
func NewRecognizeHandler(eng *engine.Engine, tolerance float64) *RecognizeHandler {
	return &RecognizeHandler{engine: eng, tolerance: tolerance}
}

// RecognizeResponse is the recognition result for one uploaded image.
type RecognizeResponse struct {
	Trained bool           `json:"trained"`
	Names   []string       `json:"names"`
	Matches []engine.Match `json:"matches"`
}

// Recognize handles a multipart image upload. The form carries the image as
// "file" and optionally a "tolerance" field overriding the default.
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read file")
		return
	}

	tolerance := h.tolerance
	if v := r.FormValue("tolerance"); v != "" {
		tolerance, err = strconv.ParseFloat(v, 64)
		if err != nil || tolerance < 0 {
			respondError(w, http.StatusBadRequest, "invalid tolerance")
			return
		}
	}

	// An untrained model is a well-defined state, not a request error.
	if !h.engine.Trained() {
		respondJSON(w, http.StatusOK, RecognizeResponse{
			Trained: false,
			Names:   []string{},
			Matches: []engine.Match{},
		})
		return
	}

	matches, err := h.engine.Recognize(r.Context(), data, tolerance)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, RecognizeResponse{
		Trained: true,
		Names:   engine.Names(matches),
		Matches: matches,
	})
}
