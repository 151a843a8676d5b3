package live

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ilucaslima/clubidulivro/internal/cache"
)

// Hub fans profile snapshots out to every viewing session subscribed to a
// member. Subscriptions communicate through channels; the hub is the only
// place that touches the registry, guarded by a mutex.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	logger *zap.Logger
}

// Subscription is one viewing session's stream of profile snapshots.
// Delivery stops permanently once Close is called: the channel is closed and
// removed from the hub before Close returns.
type Subscription struct {
	UserID string
	C      chan []byte

	hub  *Hub
	once sync.Once
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscribe registers a new listener for one member's profile snapshots.
func (h *Hub) Subscribe(userID string) *Subscription {
	sub := &Subscription{
		UserID: userID,
		C:      make(chan []byte, 8),
		hub:    h,
	}

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Close tears the subscription down. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		if set, ok := h.subs[s.UserID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, s.UserID)
			}
		}
		h.mu.Unlock()
		close(s.C)
	})
}

// Publish delivers a snapshot to every subscription for the member. Slow
// consumers with a full buffer are skipped rather than blocking the hub.
func (h *Hub) Publish(userID string, snapshot []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[userID] {
		select {
		case sub.C <- snapshot:
		default:
			h.logger.Warn("dropping snapshot for slow subscriber", zap.String("user_id", userID))
		}
	}
}

// SubscriberCount reports how many sessions are listening for a member.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

// Relay pumps the Redis profile change stream into the hub until ctx ends
// or the pubsub channel closes. Run it in its own goroutine.
func Relay(ctx context.Context, pubsub *redis.PubSub, hub *Hub, logger *zap.Logger) {
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var evt cache.ProfileEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				logger.Warn("bad profile event payload", zap.Error(err))
				continue
			}
			hub.Publish(evt.UserID, evt.Profile)
		}
	}
}
