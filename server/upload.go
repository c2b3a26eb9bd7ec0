package server

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"beatbox/core/catalog"
	"beatbox/storage"

	"github.com/google/uuid"
)

// multipartMemory is how much of a form is kept in memory before spilling to
// temporary files.
const multipartMemory = 32 << 20

// parseForm limits the body to the configured upload size and parses it.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadMB<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return maxBytes
		}
		return fmt.Errorf("%w: failed to parse multipart form: %v", catalog.ErrInvalidInput, err)
	}
	return nil
}

// formUpload opens a file field. A missing field yields an Upload with no Body,
// which the catalog rejects. The returned close func is never nil.
func formUpload(r *http.Request, field string) (storage.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return storage.Upload{}, func() {}, nil
	}
	if err != nil {
		return storage.Upload{}, func() {}, fmt.Errorf("%w: %s: %v", catalog.ErrInvalidInput, field, err)
	}
	return uploadFromHeader(file, header), func() { file.Close() }, nil
}

func uploadFromHeader(file multipart.File, header *multipart.FileHeader) storage.Upload {
	return storage.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
}

// formUUID parses an id field. An empty field yields uuid.Nil.
func formUUID(r *http.Request, field string) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid id", catalog.ErrInvalidInput, field)
	}
	return id, nil
}
