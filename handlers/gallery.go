package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/camden-git/yearbookbackend/apperrors"
	"github.com/camden-git/yearbookbackend/services"
)

var errReleasedNotBoolean = apperrors.InvalidInput("isReleased must be boolean")

type GalleryHandler struct {
	Gallery *services.GalleryService
}

type galleryStateResponse struct {
	IsReleased bool   `json:"isReleased"`
	Message    string `json:"message,omitempty"`
}

// GetState handles GET /gallery/state.
func (gh *GalleryHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := gh.Gallery.State(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, galleryStateResponse{IsReleased: state.IsReleased})
}

// SetState handles PUT /gallery/state. Mounted behind RequireAdmin.
func (gh *GalleryHandler) SetState(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsReleased json.RawMessage `json:"isReleased"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	released, err := parseStrictBool(req.IsReleased)
	if err != nil {
		writeError(w, err)
		return
	}

	state, err := gh.Gallery.SetReleased(r.Context(), released)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Gallery hidden"
	if state.IsReleased {
		message = "Gallery released"
	}
	writeJSON(w, http.StatusOK, galleryStateResponse{IsReleased: state.IsReleased, Message: message})
}

// ListPeople handles GET /gallery/people.
func (gh *GalleryHandler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := gh.Gallery.People(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, people)
}

// parseStrictBool accepts only the JSON literals true and false.
func parseStrictBool(raw json.RawMessage) (bool, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(raw, []byte("true")):
		return true, nil
	case bytes.Equal(raw, []byte("false")):
		return false, nil
	default:
		return false, errReleasedNotBoolean
	}
}
