package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/polymap/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber. Each editor session gets its
// own core subscription: changes fan out to every open session, which a
// durable JetStream consumer would not do.
type Subscriber struct {
	conn *nats.Conn

	mu   sync.Mutex
	subs map[*nats.Subscription]struct{}
}

// NewSubscriber connects to NATS.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Subscriber{conn: conn, subs: make(map[*nats.Subscription]struct{})}, nil
}

// SubscribeChanges delivers every change to handler until the returned
// function is called.
func (s *Subscriber) SubscribeChanges(ctx context.Context, handler func(ctx context.Context, change domain.Change) error) (func(), error) {
	sub, err := s.conn.Subscribe(SubjectChanges, func(msg *nats.Msg) {
		var change domain.Change
		if err := json.Unmarshal(msg.Data, &change); err != nil {
			slog.Warn("dropping malformed change", "subject", msg.Subject, "error", err)
			return
		}
		if err := handler(ctx, change); err != nil {
			slog.Warn("change handler failed", "subject", msg.Subject, "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, sub)
			s.mu.Unlock()
			_ = sub.Unsubscribe()
		})
	}, nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	s.mu.Lock()
	for sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	clear(s.subs)
	s.mu.Unlock()
	_ = s.conn.Drain()
}
