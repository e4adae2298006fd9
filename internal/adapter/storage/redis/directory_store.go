package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// DirectoryStore implements ports.DirectoryStore as a single Redis hash
// (username -> account id).
type DirectoryStore struct {
	client goredis.UniversalClient
	key    string
}

// NewDirectoryStore creates a Redis-backed directory store.
func NewDirectoryStore(client goredis.UniversalClient, key string) *DirectoryStore {
	if key == "" {
		key = "federation:directory"
	}
	return &DirectoryStore{client: client, key: key}
}

// Load reads the whole directory hash. A missing key is an empty directory.
func (s *DirectoryStore) Load(ctx context.Context) (map[string]string, error) {
	entries, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis directory load: %w", err)
	}
	return entries, nil
}

// Save replaces the hash in one MULTI/EXEC.
func (s *DirectoryStore) Save(ctx context.Context, entries map[string]string) error {
	fields := make(map[string]interface{}, len(entries))
	for name, id := range entries {
		fields[name] = id
	}

	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(fields) > 0 {
			pipe.HSet(ctx, s.key, fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis directory save: %w", err)
	}
	return nil
}

// Name returns the backend name.
func (s *DirectoryStore) Name() string {
	return "redis"
}
