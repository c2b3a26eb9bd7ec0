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

// VocalInput is a vocal take recorded over an existing beat.
type VocalInput struct {
	Title  string
	Artist string
	BeatID uuid.UUID
	Audio  storage.Upload
}

// VocalService handles vocals.
type VocalService struct {
	*deps
}

func (s *VocalService) List(ctx context.Context) ([]*model.Vocal, error) {
	return s.repos.Vocals.List(ctx)
}

// ListByBeatID returns the vocals of one beat. An unknown beat yields an empty list.
func (s *VocalService) ListByBeatID(ctx context.Context, beatID uuid.UUID) ([]*model.Vocal, error) {
	return s.repos.Vocals.ListByBeatID(ctx, beatID)
}

func (s *VocalService) GetByID(ctx context.Context, id uuid.UUID) (*model.Vocal, error) {
	vocal, err := s.repos.Vocals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vocal == nil {
		return nil, fmt.Errorf("%w: vocal %s", ErrNotFound, id)
	}
	return vocal, nil
}

// Create stores the audio in vocals/ and inserts the row. A beat_id that
// names no beat is rejected by the foreign key.
func (s *VocalService) Create(ctx context.Context, in VocalInput) (*model.Vocal, error) {
	for _, err := range []error{
		required("title", in.Title),
		required("artist", in.Artist),
		requiredID("beat_id", in.BeatID),
		requiredFile("audio_file", in.Audio),
	} {
		if err != nil {
			return nil, err
		}
	}

	vocal := &model.Vocal{Title: in.Title, Artist: in.Artist, BeatID: in.BeatID}
	err := s.create(ctx, storage.VocalsDir, []storage.Item{
		{Upload: in.Audio, Prefix: storage.AudioPrefix},
	}, func(tx *repository.Repositories, names []string) error {
		vocal.Filename = names[0]
		return insertError(tx.Vocals.Create(ctx, vocal), "beat_id")
	})
	if err != nil {
		return nil, err
	}

	logger.Info("vocal created",
		logger.String("id", vocal.ID.String()),
		logger.String("beat_id", vocal.BeatID.String()))
	return vocal, nil
}

// Delete removes the vocal, its audio file and the tracks built on it.
func (s *VocalService) Delete(ctx context.Context, id uuid.UUID) error {
	var trackCount int
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		vocal, err := tx.Vocals.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if vocal == nil {
			return fmt.Errorf("%w: vocal %s", ErrNotFound, id)
		}

		tracks, err := tx.Tracks.ListReferencing(ctx, uuid.Nil, []uuid.UUID{id})
		if err != nil {
			return err
		}
		if err := s.removeTracks(ctx, tx, tracks); err != nil {
			return err
		}

		if err := s.removeFiles(ctx, storage.VocalsDir, vocal.Filename); err != nil {
			return err
		}
		n, err := tx.Vocals.Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: vocal %s", ErrNotFound, id)
		}
		trackCount = len(tracks)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("vocal deleted",
		logger.String("id", id.String()),
		logger.Int("tracks", trackCount))
	return nil
}

// DownloadFile opens the vocal's audio file.
func (s *VocalService) DownloadFile(ctx context.Context, id uuid.UUID) (*storage.Object, error) {
	vocal, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, storage.VocalsDir, vocal.Filename, storage.Audio)
}
