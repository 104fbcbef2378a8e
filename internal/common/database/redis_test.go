package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-qa-workers/internal/common/config"
)

func TestRedis_PingAndClient(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rc.Close()

	require.NoError(t, rc.Ping(context.Background()))

	require.NoError(t, rc.GetClient().Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestRedis_PingFailsWhenServerIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer rc.Close()
	mr.Close()

	err := rc.Ping(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}
