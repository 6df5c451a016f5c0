// Package cache keeps recent successful results in Redis so a rerun can skip pages it already read
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/klauspost/compress/zstd"

	"swotscraper/swot"
)

const (
	DefaultTTL = 12 * time.Hour
	keyPrefix  = "swot:"
)

var (
	encoder, _ = zstd.NewWriter(nil)
	decoder, _ = zstd.NewReader(nil)
)

// Client is the part of the go-redis client the cache uses
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// NewClient connects to Redis at addr
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Redis stores results as zstd-compressed JSON under swot:<name>
type Redis struct {
	client Client
	ttl    time.Duration
}

func New(client Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

// Get returns the cached result for name, or false when there is none
func (c *Redis) Get(ctx context.Context, name string) (swot.Result, bool, error) {
	var result swot.Result

	data, err := c.client.Get(ctx, key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return result, false, nil
	}
	if err != nil {
		return result, false, fmt.Errorf("get %s: %w", name, err)
	}

	if err := decode(data, &result); err != nil {
		return result, false, fmt.Errorf("decode %s: %w", name, err)
	}
	return result, true, nil
}

// Put stores a successful result. Failed results are refused.
func (c *Redis) Put(ctx context.Context, result swot.Result) error {
	if !result.OK() {
		return fmt.Errorf("refusing to cache failed result for %s", result.Name)
	}

	data, err := encode(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(result.Name), data, c.ttl).Err()
}

func key(name string) string {
	return keyPrefix + name
}

func encode(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return encoder.EncodeAll(raw, nil), nil
}

func decode(data []byte, v interface{}) error {
	raw, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
