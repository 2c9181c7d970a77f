package usecases

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/samirrijal/polymap/internal/core/domain"
	"github.com/samirrijal/polymap/internal/core/ports"
	"github.com/samirrijal/polymap/internal/pkg/metrics"
)

// Cache keys for the list endpoints. Writes invalidate them.
const (
	cacheKeyPolygons = "polygons:all"
	cacheKeyObjects  = "objects:all"

	listTTLSeconds = 60
)

// readThrough serves key from cache when present, otherwise calls fetch and
// stores the result. A nil cache disables caching. Cache errors never fail
// the read.
func readThrough[T any](ctx context.Context, cache ports.CacheService, key string, fetch func(context.Context) (T, error)) (T, error) {
	if cache != nil {
		if data, err := cache.Get(ctx, key); err == nil {
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				metrics.CacheHits.WithLabelValues(key).Inc()
				return v, nil
			}
		}
		metrics.CacheMisses.WithLabelValues(key).Inc()
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}

	if cache != nil {
		if data, err := json.Marshal(v); err == nil {
			_ = cache.Set(ctx, key, data, listTTLSeconds)
		}
	}
	return v, nil
}

func invalidate(ctx context.Context, cache ports.CacheService, key string) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "cache invalidation failed", "key", key, "error", err)
	}
}

// announce publishes change. Delivery is best effort: the write already
// succeeded and listeners can reload.
func announce(ctx context.Context, events ports.EventPublisher, entity, action, id string) {
	if events == nil {
		return
	}
	change := domain.Change{Entity: entity, Action: action, ID: id, Time: time.Now().UTC()}
	if err := events.PublishChange(ctx, change); err != nil {
		slog.WarnContext(ctx, "publish change failed", "entity", entity, "id", id, "error", err)
	}
}
