package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

// Store keeps the serialized history list as a single durable blob. Load
// returns (nil, nil) when no blob exists yet.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

const redisHistoryKey = "aquavigil:dashboard:history"

// RedisStore holds the history blob under one redis key.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Load reads the blob.
func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, redisHistoryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save rewrites the blob wholesale. No TTL: history survives restarts.
func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	return s.client.Set(ctx, redisHistoryKey, data, 0).Err()
}

// Clear removes the blob.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, redisHistoryKey).Err()
}

// FileStore holds the history blob in a single JSON file, used when no redis
// address is configured.
type FileStore struct {
	path string
}

// NewFileStore returns a file-backed store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the file.
func (s *FileStore) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save writes via a temp file and rename so a reader never observes a partial
// list.
func (s *FileStore) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".history-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Clear removes the file.
func (s *FileStore) Clear(_ context.Context) error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
