package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swotscraper/swot"
)

type memClient struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMemClient() *memClient {
	return &memClient{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memClient) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = string(value.([]byte))
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestPutThenGet(t *testing.T) {
	client := newMemClient()
	c := New(client, time.Hour)
	want := swot.Result{
		Name:        "INFY",
		Strengths:   swot.Of(5),
		Weakness:    swot.Missing(),
		Opportunity: swot.Of(1),
		Threat:      swot.Of(0),
		Essentials:  "Good quality",
		Status:      swot.StatusOK,
	}

	require.NoError(t, c.Put(context.Background(), want))
	assert.Equal(t, time.Hour, client.ttls["swot:INFY"])

	got, ok, err := c.Get(context.Background(), "INFY")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestGetMiss(t *testing.T) {
	_, ok, err := New(newMemClient(), 0).Get(context.Background(), "LT")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetError(t *testing.T) {
	client := newMemClient()
	client.getErr = errors.New("connection refused")

	_, ok, err := New(client, 0).Get(context.Background(), "LT")

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestGetCorruptValue(t *testing.T) {
	client := newMemClient()
	client.data["swot:ITC"] = "not zstd"

	_, ok, err := New(client, 0).Get(context.Background(), "ITC")

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestPutRefusesFailures(t *testing.T) {
	client := newMemClient()

	err := New(client, 0).Put(context.Background(), swot.Failure("SBIN"))

	assert.Error(t, err)
	assert.Empty(t, client.data)
}

func TestDefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, New(newMemClient(), 0).ttl)
}
