package archive

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-qa-workers/internal/common/logger"
	"nba-qa-workers/internal/models"
)

func newTestArchive(t *testing.T) (*Archive, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	a, err := New(client, time.Hour, logger.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, mr
}

func sampleEntry() Entry {
	return Entry{
		RequestID: "req-123",
		Question:  "What was the score of the last Lakers game?",
		Intent:    models.IntentGameResult,
		Answer: models.Answer{
			Text:       "Los Angeles Lakers 120, Golden State Warriors 112",
			Confidence: 0.95,
			Context:    "On 2025-01-15, Los Angeles Lakers played against Golden State Warriors.",
			Sources:    []models.Provenance{{Type: "team_game", GameID: "0022400150"}},
			Records: models.RecordSet{
				Kind:  models.KindGameData,
				Games: []models.GameRecord{{GameID: "0022400150", GameDate: "2025-01-15"}},
			},
		},
		StoredAt: time.Date(2025, 1, 16, 8, 0, 0, 0, time.UTC),
	}
}

func TestArchive_SaveAndLoad(t *testing.T) {
	a, mr := newTestArchive(t)
	ctx := context.Background()

	key, err := a.Save(ctx, sampleEntry())
	require.NoError(t, err)
	assert.Equal(t, "qa:answer:req-123", key)

	assert.Equal(t, time.Hour, mr.TTL(key))

	raw, err := mr.Get(key)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 4)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, []byte(raw[:4]), "value should be a zstd frame")

	got, err := a.Load(ctx, "req-123")
	require.NoError(t, err)
	assert.Equal(t, sampleEntry(), got)
}

func TestArchive_SaveStampsTime(t *testing.T) {
	a, _ := newTestArchive(t)
	entry := sampleEntry()
	entry.StoredAt = time.Time{}

	_, err := a.Save(context.Background(), entry)
	require.NoError(t, err)

	got, err := a.Load(context.Background(), entry.RequestID)
	require.NoError(t, err)
	assert.False(t, got.StoredAt.IsZero())
}

func TestArchive_LoadMissing(t *testing.T) {
	a, _ := newTestArchive(t)

	_, err := a.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchive_LoadCorrupted(t *testing.T) {
	a, mr := newTestArchive(t)
	require.NoError(t, mr.Set(Key("bad"), "not zstd"))

	_, err := a.Load(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrArchiveRead)
}

func TestArchive_SaveUnavailable(t *testing.T) {
	a, mr := newTestArchive(t)
	mr.Close()

	key, err := a.Save(context.Background(), sampleEntry())
	assert.ErrorIs(t, err, ErrArchiveWrite)
	assert.Empty(t, key)
}

func TestArchive_DefaultTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	a, err := New(client, 0, logger.NewNoOpLogger())
	require.NoError(t, err)
	defer a.Close()

	key, err := a.Save(context.Background(), sampleEntry())
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, mr.TTL(key))
}
