package ports

import (
	"context"

	"github.com/samirrijal/polymap/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishChange(ctx context.Context, change domain.Change) error
}

// EventSubscriber subscribes to domain events from a message broker.
// The returned function stops the subscription.
type EventSubscriber interface {
	SubscribeChanges(ctx context.Context, handler func(ctx context.Context, change domain.Change) error) (func(), error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
