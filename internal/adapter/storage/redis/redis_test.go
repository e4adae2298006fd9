package redis

import (
	"context"
	"io"
	"strconv"
	"testing"

	"chappi-wallet/config"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.RedisConfig{Host: mr.Host(), Port: mustPort(t, mr.Port())}

	client, err := NewClient(context.Background(), cfg, zerolog.New(io.Discard))
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, NewHealthCheck(client).Ping(context.Background()))
	assert.Equal(t, "redis", NewHealthCheck(client).Name())
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.RedisConfig{Host: mr.Host(), Port: mustPort(t, mr.Port())}
	mr.Close()

	_, err := NewClient(context.Background(), cfg, zerolog.New(io.Discard))
	assert.Error(t, err)
}

func TestRedisAddr(t *testing.T) {
	cfg := config.RedisConfig{
		Host: "redis.example.com",
		Port: 6380,
	}

	assert.Equal(t, "redis.example.com:6380", cfg.Addr())
}

func mustPort(t *testing.T, port string) int {
	t.Helper()
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return p
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}
