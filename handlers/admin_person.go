package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/yearbookbackend/models"
	"github.com/camden-git/yearbookbackend/services"
)

// AdminPersonHandler serves /admin/people. Every route is mounted behind
// RequireAdmin.
type AdminPersonHandler struct {
	People *services.PersonService
}

type personRequest struct {
	Name     *string         `json:"name"`
	Major    *string         `json:"major"`
	Year     json.RawMessage `json:"year"`
	ImageURL *string         `json:"imageUrl"`
}

type personResponse struct {
	*models.Person
	Message string `json:"message"`
}

type deletePersonResponse struct {
	Message         string `json:"message"`
	CommentsRemoved int64  `json:"commentsRemoved"`
}

// invalidYear is handed to the service for years that are present but not a
// JSON integer, so they fail the range check.
const invalidYear = -1

// parseYear interprets the raw "year" member. Absent, null, false, "" and 0
// all mean not provided.
func parseYear(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", `""`, "0":
		return 0, false
	}
	year, err := strconv.Atoi(string(raw))
	if err != nil {
		return invalidYear, true
	}
	return year, true
}

func (ph *AdminPersonHandler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := ph.People.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, people)
}

func (ph *AdminPersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	in := services.PersonInput{
		Name:     deref(req.Name),
		Major:    deref(req.Major),
		ImageURL: deref(req.ImageURL),
	}
	if year, ok := parseYear(req.Year); ok {
		in.Year = year
	}

	person, err := ph.People.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, personResponse{Person: person, Message: "Person added successfully"})
}

// UpdatePerson applies a partial update; omitted or blank fields are kept.
func (ph *AdminPersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	personID, err := parseID(chi.URLParam(r, "personId"), "Invalid personId")
	if err != nil {
		writeError(w, err)
		return
	}

	var req personRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := services.PersonPatch{Name: req.Name, Major: req.Major, ImageURL: req.ImageURL}
	if year, ok := parseYear(req.Year); ok {
		patch.Year = &year
	}

	person, err := ph.People.Update(r.Context(), personID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, personResponse{Person: person, Message: "Person updated successfully"})
}

// DeletePerson removes the person together with all of their comments.
func (ph *AdminPersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	personID, err := parseID(chi.URLParam(r, "personId"), "Invalid personId")
	if err != nil {
		writeError(w, err)
		return
	}

	removed, err := ph.People.Delete(r.Context(), personID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deletePersonResponse{
		Message:         fmt.Sprintf("Person deleted successfully (%d comments removed)", removed),
		CommentsRemoved: removed,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
