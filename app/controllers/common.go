package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"socialnet/app/logger"
	"socialnet/app/models"
)

// Cap for bodies that carry only text fields.
const maxFieldBytes = 1 << 20

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrUpload):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage picks the human readable message for err. action is used for storage failures,
// e.g. "creating" gives "Error creating user".
func errorMessage(err error, entity, action string) string {
	switch {
	case errors.Is(err, models.ErrUpload):
		return "Error uploading file"
	case errors.Is(err, models.ErrValidation):
		return "Invalid " + entity + " input"
	case errors.Is(err, models.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, models.ErrNotFound):
		return strings.ToUpper(entity[:1]) + entity[1:] + " not found"
	case errors.Is(err, models.ErrConflict):
		return strings.ToUpper(entity[:1]) + entity[1:] + " already exists"
	default:
		return "Error " + action + " " + entity
	}
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error, entity, action string) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	sendJSON(w, status, errorResponse{
		Message: errorMessage(err, entity, action),
		Error:   err.Error(),
	})
}

// readFields returns the named text fields from a JSON object or a form body.
func readFields(w http.ResponseWriter, r *http.Request, names ...string) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFieldBytes)
	fields := make(map[string]string, len(names))

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON: %v", models.ErrValidation, err)
		}
		for _, name := range names {
			fields[name] = body[name]
		}
		return fields, nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFieldBytes); err != nil {
			return nil, fmt.Errorf("%w: invalid form: %v", models.ErrValidation, err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: invalid form: %v", models.ErrValidation, err)
	}
	for _, name := range names {
		fields[name] = r.FormValue(name)
	}
	return fields, nil
}
