package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"beatbox/core/catalog"
	"beatbox/logger"
	"beatbox/storage"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// errorBody is the error shape clients already parse.
type errorBody struct {
	Detail string `json:"detail"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", logger.ErrorField(err))
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// writeError maps catalog and storage errors onto a status code. Messages of
// client errors are returned as is; anything else is logged and answered with
// a fixed text.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeDetail(w, http.StatusNotFound, notFound)
	case errors.Is(err, storage.ErrFileNotFound):
		writeDetail(w, http.StatusNotFound, "file not found on server")
	case errors.Is(err, storage.ErrInvalidContentType), errors.Is(err, catalog.ErrInvalidInput):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &maxBytes):
		writeDetail(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", maxBytes.Limit))
	default:
		logger.Error("request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.ErrorField(err))
		detail := "internal server error"
		if errors.Is(err, storage.ErrWrite) {
			detail = "failed to save uploaded file"
		}
		writeDetail(w, http.StatusInternalServerError, detail)
	}
}

// pathID parses the {id}-style route variable name as a UUID.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// serveObject streams a stored file with Range support.
func serveObject(w http.ResponseWriter, r *http.Request, obj *storage.Object) {
	defer obj.Body.Close()
	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": obj.Name}))
	http.ServeContent(w, r, obj.Name, obj.ModTime, obj.Body)
}
