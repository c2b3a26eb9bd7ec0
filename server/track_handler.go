package server

import (
	"net/http"

	"beatbox/core/catalog"

	"github.com/gorilla/mux"
)

const trackNotFound = "track not found"

func (s *Server) ListTracksHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.catalog.Tracks.List(r.Context())
	if err != nil {
		writeError(w, r, err, trackNotFound)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	track, err := s.catalog.Tracks.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, trackNotFound)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

func (s *Server) DownloadTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	obj, err := s.catalog.Tracks.DownloadFile(r.Context(), id)
	if err != nil {
		writeError(w, r, err, trackNotFound)
		return
	}
	serveObject(w, r, obj)
}

func (s *Server) TrackImageHandler(w http.ResponseWriter, r *http.Request) {
	obj, err := s.catalog.Tracks.DownloadImage(r.Context(), mux.Vars(r)["filename"])
	if err != nil {
		writeError(w, r, err, trackNotFound)
		return
	}
	serveObject(w, r, obj)
}

// CreateTrackHandler takes title, artist, vocal_id, beat_id, audio_file and image_file.
func (s *Server) CreateTrackHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		writeError(w, r, err, trackNotFound)
		return
	}

	vocalID, err := formUUID(r, "vocal_id")
	if err != nil {
		writeError(w, r, err, trackNotFound)
		return
	}
	beatID, err := formUUID(r, "beat_id")
	if err != nil {
		writeError(w, r, err, trackNotFound)
		return
	}
	audio, closeAudio, err := formUpload(r, "audio_file")
	defer closeAudio()
	if err != nil {
		writeError(w, r, err, trackNotFound)
		return
	}
	image, closeImage, err := formUpload(r, "image_file")
	defer closeImage()
	if err != nil {
		writeError(w, r, err, trackNotFound)
		return
	}

	track, err := s.catalog.Tracks.Create(r.Context(), catalog.TrackInput{
		Title:   r.FormValue("title"),
		Artist:  r.FormValue("artist"),
		VocalID: vocalID,
		BeatID:  beatID,
		Audio:   audio,
		Image:   image,
	})
	if err != nil {
		writeError(w, r, err, trackNotFound)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

func (s *Server) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.catalog.Tracks.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, trackNotFound)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "track deleted"})
}
