package server

import (
	"net/http"

	"beatbox/core/catalog"
)

const vocalNotFound = "vocal not found"

func (s *Server) ListVocalsHandler(w http.ResponseWriter, r *http.Request) {
	vocals, err := s.catalog.Vocals.List(r.Context())
	if err != nil {
		writeError(w, r, err, vocalNotFound)
		return
	}
	writeJSON(w, http.StatusOK, vocals)
}

// ListBeatVocalsHandler lists the vocals recorded on one beat.
func (s *Server) ListBeatVocalsHandler(w http.ResponseWriter, r *http.Request) {
	beatID, ok := pathID(w, r, "beatId")
	if !ok {
		return
	}
	vocals, err := s.catalog.Vocals.ListByBeatID(r.Context(), beatID)
	if err != nil {
		writeError(w, r, err, vocalNotFound)
		return
	}
	writeJSON(w, http.StatusOK, vocals)
}

func (s *Server) GetVocalHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	vocal, err := s.catalog.Vocals.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, vocalNotFound)
		return
	}
	writeJSON(w, http.StatusOK, vocal)
}

func (s *Server) DownloadVocalHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	obj, err := s.catalog.Vocals.DownloadFile(r.Context(), id)
	if err != nil {
		writeError(w, r, err, vocalNotFound)
		return
	}
	serveObject(w, r, obj)
}

// CreateVocalHandler takes title, artist, beat_id and audio_file.
func (s *Server) CreateVocalHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		writeError(w, r, err, vocalNotFound)
		return
	}

	beatID, err := formUUID(r, "beat_id")
	if err != nil {
		writeError(w, r, err, vocalNotFound)
		return
	}
	audio, closeAudio, err := formUpload(r, "audio_file")
	defer closeAudio()
	if err != nil {
		writeError(w, r, err, vocalNotFound)
		return
	}

	vocal, err := s.catalog.Vocals.Create(r.Context(), catalog.VocalInput{
		Title:  r.FormValue("title"),
		Artist: r.FormValue("artist"),
		BeatID: beatID,
		Audio:  audio,
	})
	if err != nil {
		writeError(w, r, err, vocalNotFound)
		return
	}
	writeJSON(w, http.StatusOK, vocal)
}

func (s *Server) DeleteVocalHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.catalog.Vocals.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, vocalNotFound)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "vocal deleted"})
}
