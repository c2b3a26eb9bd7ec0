package server

import (
	"net/http"

	"beatbox/core/catalog"

	"github.com/gorilla/mux"
)

const beatNotFound = "beat not found"

func (s *Server) ListBeatsHandler(w http.ResponseWriter, r *http.Request) {
	beats, err := s.catalog.Beats.List(r.Context())
	if err != nil {
		writeError(w, r, err, beatNotFound)
		return
	}
	writeJSON(w, http.StatusOK, beats)
}

func (s *Server) GetBeatHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	beat, err := s.catalog.Beats.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, beatNotFound)
		return
	}
	writeJSON(w, http.StatusOK, beat)
}

func (s *Server) DownloadBeatHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	obj, err := s.catalog.Beats.DownloadFile(r.Context(), id)
	if err != nil {
		writeError(w, r, err, beatNotFound)
		return
	}
	serveObject(w, r, obj)
}

func (s *Server) BeatImageHandler(w http.ResponseWriter, r *http.Request) {
	obj, err := s.catalog.Beats.DownloadImage(r.Context(), mux.Vars(r)["filename"])
	if err != nil {
		writeError(w, r, err, beatNotFound)
		return
	}
	serveObject(w, r, obj)
}

// CreateBeatHandler takes title, artist, audio_file and image_file.
func (s *Server) CreateBeatHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		writeError(w, r, err, beatNotFound)
		return
	}

	audio, closeAudio, err := formUpload(r, "audio_file")
	defer closeAudio()
	if err != nil {
		writeError(w, r, err, beatNotFound)
		return
	}
	image, closeImage, err := formUpload(r, "image_file")
	defer closeImage()
	if err != nil {
		writeError(w, r, err, beatNotFound)
		return
	}

	beat, err := s.catalog.Beats.Create(r.Context(), catalog.BeatInput{
		Title:  r.FormValue("title"),
		Artist: r.FormValue("artist"),
		Audio:  audio,
		Image:  image,
	})
	if err != nil {
		writeError(w, r, err, beatNotFound)
		return
	}
	writeJSON(w, http.StatusOK, beat)
}

func (s *Server) DeleteBeatHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.catalog.Beats.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, beatNotFound)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "beat deleted"})
}
