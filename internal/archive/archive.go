// Package archive keeps the diagnostic part of produced answers in Redis,
// zstd-compressed, keyed by request id.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"

	"nba-qa-workers/internal/common/logger"
	"nba-qa-workers/internal/models"
)

const (
	KeyPrefix  = "qa:answer:"
	DefaultTTL = 24 * time.Hour
)

var (
	ErrNotFound     = errors.New("ARCHIVE_NOT_FOUND")
	ErrArchiveWrite = errors.New("ARCHIVE_WRITE_FAILED")
	ErrArchiveRead  = errors.New("ARCHIVE_READ_FAILED")
)

// Entry is one archived answer.
type Entry struct {
	RequestID string        `json:"requestId"`
	Question  string        `json:"question"`
	Intent    models.Intent `json:"intent"`
	Answer    models.Answer `json:"answer"`
	StoredAt  time.Time     `json:"storedAt"`
}

type Archive struct {
	client  redis.Cmdable
	ttl     time.Duration
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	logger  logger.Logger
}

func New(client redis.Cmdable, ttl time.Duration, log logger.Logger) (*Archive, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Archive{
		client:  client,
		ttl:     ttl,
		encoder: encoder,
		decoder: decoder,
		logger:  log.With(map[string]interface{}{"component": "archive"}),
	}, nil
}

func Key(requestID string) string {
	return KeyPrefix + requestID
}

// Save stores entry and returns its key.
func (a *Archive) Save(ctx context.Context, entry Entry) (string, error) {
	if entry.StoredAt.IsZero() {
		entry.StoredAt = time.Now().UTC()
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrArchiveWrite, err)
	}

	key := Key(entry.RequestID)
	compressed := a.encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2))
	if err := a.client.Set(ctx, key, compressed, a.ttl).Err(); err != nil {
		a.logger.Warn("failed to archive answer", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return "", fmt.Errorf("%w: %v", ErrArchiveWrite, err)
	}

	a.logger.Debug("answer archived", map[string]interface{}{
		"key":        key,
		"bytes":      len(raw),
		"compressed": len(compressed),
	})
	return key, nil
}

func (a *Archive) Load(ctx context.Context, requestID string) (Entry, error) {
	compressed, err := a.client.Get(ctx, Key(requestID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrArchiveRead, err)
	}

	raw, err := a.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrArchiveRead, err)
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrArchiveRead, err)
	}
	return entry, nil
}

func (a *Archive) Close() {
	a.decoder.Close()
	_ = a.encoder.Close()
}
