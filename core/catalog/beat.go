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

// BeatInput is a beat upload: metadata plus the audio file and cover image.
type BeatInput struct {
	Title  string
	Artist string
	Audio  storage.Upload
	Image  storage.Upload
}

// BeatService handles beats.
type BeatService struct {
	*deps
}

func (s *BeatService) List(ctx context.Context) ([]*model.Beat, error) {
	return s.repos.Beats.List(ctx)
}

// GetByID returns ErrNotFound when no beat has the id.
func (s *BeatService) GetByID(ctx context.Context, id uuid.UUID) (*model.Beat, error) {
	beat, err := s.repos.Beats.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if beat == nil {
		return nil, fmt.Errorf("%w: beat %s", ErrNotFound, id)
	}
	return beat, nil
}

// Create stores the audio and image files in beats/ and inserts the row.
func (s *BeatService) Create(ctx context.Context, in BeatInput) (*model.Beat, error) {
	for _, err := range []error{
		required("title", in.Title),
		required("artist", in.Artist),
		requiredFile("audio_file", in.Audio),
		requiredFile("image_file", in.Image),
	} {
		if err != nil {
			return nil, err
		}
	}

	beat := &model.Beat{Title: in.Title, Artist: in.Artist}
	err := s.create(ctx, storage.BeatsDir, []storage.Item{
		{Upload: in.Audio, Prefix: storage.AudioPrefix},
		{Upload: in.Image, Prefix: storage.ImagePrefix},
	}, func(tx *repository.Repositories, names []string) error {
		beat.Filename, beat.ImgPath = names[0], names[1]
		return tx.Beats.Create(ctx, beat)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("beat created",
		logger.String("id", beat.ID.String()),
		logger.String("title", beat.Title))
	return beat, nil
}

// Delete removes the beat together with its vocals and every track that uses
// the beat or one of those vocals. Stored files go first, rows last, all in one
// transaction.
func (s *BeatService) Delete(ctx context.Context, id uuid.UUID) error {
	var vocalCount, trackCount int
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		beat, err := tx.Beats.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if beat == nil {
			return fmt.Errorf("%w: beat %s", ErrNotFound, id)
		}

		vocals, err := tx.Vocals.ListByBeatID(ctx, id)
		if err != nil {
			return err
		}
		vocalIDs := make([]uuid.UUID, 0, len(vocals))
		for _, v := range vocals {
			vocalIDs = append(vocalIDs, v.ID)
		}

		tracks, err := tx.Tracks.ListReferencing(ctx, id, vocalIDs)
		if err != nil {
			return err
		}
		if err := s.removeTracks(ctx, tx, tracks); err != nil {
			return err
		}

		for _, v := range vocals {
			if err := s.removeFiles(ctx, storage.VocalsDir, v.Filename); err != nil {
				return err
			}
		}
		if _, err := tx.Vocals.DeleteByBeatID(ctx, id); err != nil {
			return fmt.Errorf("failed to delete vocals of beat %s: %w", id, err)
		}

		if err := s.removeFiles(ctx, storage.BeatsDir, beat.Filename, beat.ImgPath); err != nil {
			return err
		}
		n, err := tx.Beats.Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: beat %s", ErrNotFound, id)
		}
		vocalCount, trackCount = len(vocals), len(tracks)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("beat deleted",
		logger.String("id", id.String()),
		logger.Int("vocals", vocalCount),
		logger.Int("tracks", trackCount))
	return nil
}

// DownloadFile opens the beat's audio file. The row is looked up first so an
// unknown id never touches the store.
func (s *BeatService) DownloadFile(ctx context.Context, id uuid.UUID) (*storage.Object, error) {
	beat, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, storage.BeatsDir, beat.Filename, storage.Audio)
}

// DownloadImage serves a cover from beats/ by its stored name.
func (s *BeatService) DownloadImage(ctx context.Context, filename string) (*storage.Object, error) {
	return s.open(ctx, storage.BeatsDir, filename, storage.Image)
}
