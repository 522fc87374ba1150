package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/yearbookbackend/auth"
	"github.com/camden-git/yearbookbackend/services"
)

type CommentHandler struct {
	Comments *services.CommentService
}

type createCommentRequest struct {
	PersonID uint   `json:"personId"`
	Text     string `json:"text"`
}

type createCommentResponse struct {
	ID        uint   `json:"id"`
	EditToken string `json:"editToken"`
	Message   string `json:"message"`
}

// commentView is the public projection of a comment. The edit token and the
// deleted flag are never part of it.
type commentView struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type updateCommentResponse struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updatedAt"`
	Message   string    `json:"message"`
}

// CreateComment handles POST /comments. The response is the only place the
// edit token is ever returned.
func (ch *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := ch.Comments.Create(r.Context(), req.PersonID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createCommentResponse{
		ID:        comment.ID,
		EditToken: comment.EditToken,
		Message:   "Comment created successfully",
	})
}

// ListComments handles GET /comments/{personId}.
func (ch *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	personID, err := parseID(chi.URLParam(r, "personId"), "Invalid personId")
	if err != nil {
		writeError(w, err)
		return
	}

	comments, err := ch.Comments.ListVisible(r.Context(), personID)
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, commentView{ID: c.ID, Text: c.Text, CreatedAt: c.CreatedAt})
	}
	writeJSON(w, http.StatusOK, views)
}

// UpdateComment handles PUT /comments/{commentId}. Expects the edit token as
// a bearer credential.
func (ch *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.EditTokenFromContext(r.Context())
	if !ok {
		writeError(w, services.ErrEditTokenRequired)
		return
	}
	commentID, err := parseID(chi.URLParam(r, "commentId"), "Invalid commentId")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := ch.Comments.Edit(r.Context(), commentID, token, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updateCommentResponse{
		ID:        comment.ID,
		Text:      comment.Text,
		UpdatedAt: comment.UpdatedAt,
		Message:   "Comment updated successfully",
	})
}

// DeleteComment handles DELETE /comments/{commentId}. The row is kept and
// only flagged as deleted.
func (ch *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.EditTokenFromContext(r.Context())
	if !ok {
		writeError(w, services.ErrEditTokenRequired)
		return
	}
	commentID, err := parseID(chi.URLParam(r, "commentId"), "Invalid commentId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := ch.Comments.Delete(r.Context(), commentID, token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}
