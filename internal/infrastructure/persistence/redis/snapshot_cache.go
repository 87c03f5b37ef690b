package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT CACHE DECORATOR
// Кеширующая обёртка над employee.SnapshotRepository: Load сначала идёт
// в Redis, промах - в нижний слой с заполнением кеша. Save пишет насквозь.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultSnapshotTTL is how long a cached snapshot stays valid.
const DefaultSnapshotTTL = 10 * time.Minute

// CachedSnapshotRepository decorates a SnapshotRepository with a Redis cache.
type CachedSnapshotRepository struct {
	inner   employee.SnapshotRepository
	client  *Client
	ttl     time.Duration
	retrier *retry.Retrier
}

// NewCachedSnapshotRepository creates a new caching decorator.
// ttl <= 0 means DefaultSnapshotTTL.
func NewCachedSnapshotRepository(inner employee.SnapshotRepository, client *Client, ttl time.Duration) *CachedSnapshotRepository {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &CachedSnapshotRepository{
		inner:   inner,
		client:  client,
		ttl:     ttl,
		retrier: retry.CacheRetrier(),
	}
}

// key returns the cache key for an employee.
func (r *CachedSnapshotRepository) key(id string) string {
	return r.client.Key("snapshot", id)
}

// Load tries the cache first, falls back to the inner repository.
func (r *CachedSnapshotRepository) Load(ctx context.Context, id string) (*employee.State, error) {
	// Ошибка или промах кеша не фатальны: нижний слой - источник истины.
	// Сетевой сбой получает один быстрый повтор, промах не повторяется.
	var doc json.RawMessage
	cacheErr := r.retrier.Do(ctx, func(ctx context.Context) error {
		err := r.client.GetJSON(ctx, r.key(id), &doc)
		if errors.Is(err, ErrCacheMiss) {
			return retry.Permanent(err)
		}
		return retry.Retryable(err)
	})
	if cacheErr == nil {
		if state, err := employee.UnmarshalSnapshot(id, doc); err == nil {
			return state, nil
		}
		// Битую запись выбрасываем и идём в нижний слой.
		_ = r.client.Delete(ctx, r.key(id))
	}

	state, err := r.inner.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	r.fill(ctx, id, state)
	return state, nil
}

// Save writes through: inner first, cache second.
func (r *CachedSnapshotRepository) Save(ctx context.Context, id string, state *employee.State) error {
	if err := r.inner.Save(ctx, id, state); err != nil {
		return err
	}
	r.fill(ctx, id, state)
	return nil
}

// LoadAll always hits the inner repository; the cache serves point reads.
func (r *CachedSnapshotRepository) LoadAll(ctx context.Context) (map[string]*employee.State, error) {
	states, err := r.inner.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for id, state := range states {
		r.fill(ctx, id, state)
	}
	return states, nil
}

// fill stores the serialized snapshot, best-effort.
func (r *CachedSnapshotRepository) fill(ctx context.Context, id string, state *employee.State) {
	doc, err := employee.MarshalSnapshot(state)
	if err != nil {
		return
	}
	_ = r.client.SetJSON(ctx, r.key(id), json.RawMessage(doc), r.ttl)
}
