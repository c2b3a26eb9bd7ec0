package catalog

import (
	"context"
	"fmt"

	"beatbox/logger"
	"beatbox/model"
	"beatbox/repository"
	"beatbox/storage"

	"github.com/google/uuid"
)

// TrackInput is a finished production built from one beat and one vocal.
type TrackInput struct {
	Title   string
	Artist  string
	VocalID uuid.UUID
	BeatID  uuid.UUID
	Audio   storage.Upload
	Image   storage.Upload
}

// TrackService handles finished tracks.
type TrackService struct {
	*deps
}

func (s *TrackService) List(ctx context.Context) ([]*model.Track, error) {
	return s.repos.Tracks.List(ctx)
}

func (s *TrackService) GetByID(ctx context.Context, id uuid.UUID) (*model.Track, error) {
	track, err := s.repos.Tracks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, fmt.Errorf("%w: track %s", ErrNotFound, id)
	}
	return track, nil
}

// Create stores the audio and image in prods/ and inserts the row.
func (s *TrackService) Create(ctx context.Context, in TrackInput) (*model.Track, error) {
	for _, err := range []error{
		required("title", in.Title),
		required("artist", in.Artist),
		requiredID("vocal_id", in.VocalID),
		requiredID("beat_id", in.BeatID),
		requiredFile("audio_file", in.Audio),
		requiredFile("image_file", in.Image),
	} {
		if err != nil {
			return nil, err
		}
	}

	track := &model.Track{Title: in.Title, Artist: in.Artist, VocalID: in.VocalID, BeatID: in.BeatID}
	err := s.create(ctx, storage.TracksDir, []storage.Item{
		{Upload: in.Audio, Prefix: storage.AudioPrefix},
		{Upload: in.Image, Prefix: storage.ImagePrefix},
	}, func(tx *repository.Repositories, names []string) error {
		track.Filename, track.ImgPath = names[0], names[1]
		return insertError(tx.Tracks.Create(ctx, track), "vocal_id and beat_id")
	})
	if err != nil {
		return nil, err
	}

	logger.Info("track created",
		logger.String("id", track.ID.String()),
		logger.String("beat_id", track.BeatID.String()),
		logger.String("vocal_id", track.VocalID.String()))
	return track, nil
}

// Delete removes the track's files, then its row.
func (s *TrackService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		track, err := tx.Tracks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if track == nil {
			return fmt.Errorf("%w: track %s", ErrNotFound, id)
		}
		if err := s.removeFiles(ctx, storage.TracksDir, track.Filename, track.ImgPath); err != nil {
			return err
		}
		n, err := tx.Tracks.Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: track %s", ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("track deleted", logger.String("id", id.String()))
	return nil
}

// DownloadFile opens the track's audio file.
func (s *TrackService) DownloadFile(ctx context.Context, id uuid.UUID) (*storage.Object, error) {
	track, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, storage.TracksDir, track.Filename, storage.Audio)
}

// DownloadImage serves a cover from prods/ by its stored name.
func (s *TrackService) DownloadImage(ctx context.Context, filename string) (*storage.Object, error) {
	return s.open(ctx, storage.TracksDir, filename, storage.Image)
}
