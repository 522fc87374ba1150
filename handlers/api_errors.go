package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/camden-git/yearbookbackend/apperrors"
)

// APIErrorResponse is the body of every failed request.
type APIErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errInvalidBody = apperrors.InvalidInput("Invalid request body")

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Warn("error encoding JSON response", zap.Error(err))
		}
	}
}

// WriteAPIError writes an error body with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	writeJSON(w, httpStatus, APIErrorResponse{Error: detail, Code: code})
}

// writeError maps err onto its status and public message. Unclassified
// errors become a generic 500.
func writeError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)
	WriteAPIError(w, kind.HTTPStatus(), string(kind), apperrors.PublicMessage(err))
}

// decodeJSON reads a single JSON value from the request body. Malformed
// bodies, type mismatches and trailing data are all InvalidInput.
func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errInvalidBody
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errInvalidBody
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}

// parseID parses a numeric path parameter. message is returned as
// InvalidInput when it is not an unsigned integer.
func parseID(raw, message string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, apperrors.InvalidInput(message)
	}
	return uint(id), nil
}
