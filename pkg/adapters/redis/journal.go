package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/oklog/ulid/v2"
	backend "github.com/redis/go-redis/v9"
)

// Journal implements ports.Journal using Redis lists.
// Each variable is a list of JSON records; variable names are indexed in a ZSET.
type Journal struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Journal)

// WithTTL sets the expiration of a variable's records, refreshed on every append.
func WithTTL(ttl time.Duration) Option {
	return func(j *Journal) {
		j.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(j *Journal) {
		j.prefix = prefix
	}
}

// New creates a new Redis journal with options.
func New(address, password string, db int, opts ...Option) *Journal {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis journal from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Journal {
	journal := &Journal{
		client: client,
		prefix: "syncvar:journal:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(journal)
	}

	return journal
}

func (j *Journal) key(variable string) string {
	return j.prefix + "var:" + variable
}

func (j *Journal) indexKey() string {
	return j.prefix + "index"
}

// Append pushes the change to the variable's list.
func (j *Journal) Append(ctx context.Context, variable string, change domain.Change) (domain.Record, error) {
	rec := domain.Record{
		ID:        ulid.Make().String(),
		Variable:  variable,
		Timestamp: time.Now().UTC(),
		Change:    change,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to marshal record: %w", err)
	}

	pipe := j.client.Pipeline()
	pipe.RPush(ctx, j.key(variable), data)
	if j.ttl > 0 {
		pipe.Expire(ctx, j.key(variable), j.ttl)
	}

	// Score = Now + TTL. If TTL = 0, Score = far future.
	score := float64(time.Now().Add(j.ttl).Unix())
	if j.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, j.indexKey(), backend.Z{
		Score:  score,
		Member: variable,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Record{}, fmt.Errorf("failed to append to redis: %w", err)
	}

	return rec, nil
}

// List reads the variable's records in append order.
func (j *Journal) List(ctx context.Context, variable string) ([]domain.Record, error) {
	vals, err := j.client.LRange(ctx, j.key(variable), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read from redis: %w", err)
	}

	records := make([]domain.Record, 0, len(vals))
	for _, val := range vals {
		var rec domain.Record
		if err := json.Unmarshal([]byte(val), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Clear removes the variable's records and its index entry.
func (j *Journal) Clear(ctx context.Context, variable string) error {
	pipe := j.client.Pipeline()
	pipe.Del(ctx, j.key(variable))
	pipe.ZRem(ctx, j.indexKey(), variable)

	_, err := pipe.Exec(ctx)
	return err
}

// Variables returns the indexed variable names.
// Expired entries are pruned lazily.
func (j *Journal) Variables(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := j.client.ZRemRangeByScore(ctx, j.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired variables: %w", err)
	}

	names, err := j.client.ZRange(ctx, j.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list variables: %w", err)
	}
	return names, nil
}

// Close closes the redis client.
func (j *Journal) Close() error {
	return j.client.Close()
}
