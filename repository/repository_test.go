package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"beatbox/db"
	"beatbox/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	gdb, err := db.Open("sqlite://"+filepath.Join(t.TempDir(), "catalog.db"), "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.AutoMigrate(gdb))
	return New(gdb)
}

func seedBeat(t *testing.T, repos *Repositories, title string) *model.Beat {
	t.Helper()
	beat := &model.Beat{Title: title, Artist: "DJ X", Filename: title + ".wav", ImgPath: title + ".png"}
	require.NoError(t, repos.Beats.Create(context.Background(), beat))
	return beat
}

func seedVocal(t *testing.T, repos *Repositories, title string, beatID uuid.UUID) *model.Vocal {
	t.Helper()
	vocal := &model.Vocal{Title: title, Artist: "MC Y", Filename: title + ".wav", BeatID: beatID}
	require.NoError(t, repos.Vocals.Create(context.Background(), vocal))
	return vocal
}

func TestBeatCRUD(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	beat := seedBeat(t, repos, "melody")
	assert.NotEqual(t, uuid.Nil, beat.ID)

	got, err := repos.Beats.GetByID(ctx, beat.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *beat, *got)

	missing, err := repos.Beats.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	n, err := repos.Beats.Delete(ctx, beat.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repos.Beats.Delete(ctx, beat.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestListEmptyIsNotNil(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	beats, err := repos.Beats.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, beats)
	assert.Empty(t, beats)

	vocals, err := repos.Vocals.ListByBeatID(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, vocals)
	assert.Empty(t, vocals)
}

func TestCreateKeepsPresetID(t *testing.T) {
	repos := newTestRepos(t)
	id := uuid.New()
	beat := &model.Beat{ID: id, Title: "t", Artist: "a", Filename: "f.wav", ImgPath: "i.png"}
	require.NoError(t, repos.Beats.Create(context.Background(), beat))
	assert.Equal(t, id, beat.ID)
}

func TestVocalsByBeat(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	a := seedBeat(t, repos, "a")
	b := seedBeat(t, repos, "b")
	seedVocal(t, repos, "v1", a.ID)
	seedVocal(t, repos, "v2", a.ID)
	seedVocal(t, repos, "v3", b.ID)

	vocals, err := repos.Vocals.ListByBeatID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, vocals, 2)
	for _, v := range vocals {
		assert.Equal(t, a.ID, v.BeatID)
	}

	n, err := repos.Vocals.DeleteByBeatID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err := repos.Vocals.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTracksReferencing(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	a := seedBeat(t, repos, "a")
	b := seedBeat(t, repos, "b")
	va := seedVocal(t, repos, "va", a.ID)
	vb := seedVocal(t, repos, "vb", b.ID)

	onA := &model.Track{Title: "on-a", Artist: "x", Filename: "1.wav", ImgPath: "1.png", BeatID: a.ID, VocalID: va.ID}
	mixed := &model.Track{Title: "mixed", Artist: "x", Filename: "2.wav", ImgPath: "2.png", BeatID: b.ID, VocalID: va.ID}
	onB := &model.Track{Title: "on-b", Artist: "x", Filename: "3.wav", ImgPath: "3.png", BeatID: b.ID, VocalID: vb.ID}
	for _, tr := range []*model.Track{onA, mixed, onB} {
		require.NoError(t, repos.Tracks.Create(ctx, tr))
	}

	refs, err := repos.Tracks.ListReferencing(ctx, a.ID, []uuid.UUID{va.ID})
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(refs))
	for _, tr := range refs {
		ids = append(ids, tr.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{onA.ID, mixed.ID}, ids)

	none, err := repos.Tracks.ListReferencing(ctx, uuid.Nil, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	n, err := repos.Tracks.DeleteByIDs(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := repos.Tracks.List(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, onB.ID, left[0].ID)
}

func TestStoredNames(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	beat := seedBeat(t, repos, "melody")
	seedVocal(t, repos, "verse", beat.ID)

	names, err := repos.Beats.StoredNames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"melody.wav", "melody.png"}, names)

	names, err = repos.Vocals.StoredNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"verse.wav"}, names)
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	boom := errors.New("boom")

	err := repos.Transaction(ctx, func(tx *Repositories) error {
		beat := &model.Beat{Title: "t", Artist: "a", Filename: "f.wav", ImgPath: "i.png"}
		if err := tx.Beats.Create(ctx, beat); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	beats, err := repos.Beats.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, beats)
}

func TestTransactionCommits(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	require.NoError(t, repos.Transaction(ctx, func(tx *Repositories) error {
		return tx.Beats.Create(ctx, &model.Beat{Title: "t", Artist: "a", Filename: "f.wav", ImgPath: "i.png"})
	}))

	beats, err := repos.Beats.List(ctx)
	require.NoError(t, err)
	assert.Len(t, beats, 1)
	assert.NoError(t, repos.Ping(ctx))
}
