// Package realtime pushes full submission snapshots to WebSocket
// subscribers. Every event is a complete snapshot of the collection,
// not a diff: consumers treat the newest delivered snapshot as
// authoritative and discard whatever they were still processing.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/formtemplates/backend/internal/models"
)

const (
	// EventSnapshot is the single event kind of the submissions feed.
	EventSnapshot = "snapshot"

	snapshotTimeout = 10 * time.Second
)

// SnapshotSource materializes the current full submission snapshot.
type SnapshotSource interface {
	List(ctx context.Context) ([]models.Submission, error)
}

// Publisher publishes a change marker to other instances.
type Publisher interface {
	PublishChanged() error
}

// Subscriber subscribes to change markers from all instances. The
// returned cancel function stops delivery and releases the underlying
// connection.
type Subscriber interface {
	SubscribeChanged(handler func()) (cancel func(), err error)
}

// Feed maintains the set of connected subscribers and fans fresh
// snapshots out to them. The Redis subscription is held only while at
// least one client is connected.
type Feed struct {
	source    SnapshotSource
	clients   map[string]*Client
	cancelSub func()
	mu        sync.Mutex
	logger    *zap.Logger
	pub       Publisher
	sub       Subscriber
}

// NewFeed creates a submissions feed. pub and sub may be nil for a
// single-instance deployment; local broadcast still works.
func NewFeed(source SnapshotSource, logger *zap.Logger, pub Publisher, sub Subscriber) *Feed {
	return &Feed{
		source:  source,
		clients: make(map[string]*Client),
		logger:  logger,
		pub:     pub,
		sub:     sub,
	}
}

// Register adds a subscriber. The first client starts the Redis
// subscription; every new client immediately receives the current
// snapshot.
func (f *Feed) Register(c *Client) {
	f.mu.Lock()
	if len(f.clients) == 0 && f.sub != nil {
		cancel, err := f.sub.SubscribeChanged(func() { f.broadcast() })
		if err != nil {
			f.logger.Warn("subscribe submissions channel", zap.Error(err))
		} else {
			f.cancelSub = cancel
		}
	}
	f.clients[c.ID] = c
	f.mu.Unlock()

	f.sendSnapshot(c)
	f.logger.Debug("feed client joined", zap.String("client_id", c.ID))
}

// Unregister removes a subscriber. When the last client leaves, the
// Redis subscription is cancelled.
func (f *Feed) Unregister(c *Client) {
	f.mu.Lock()
	delete(f.clients, c.ID)
	if len(f.clients) == 0 && f.cancelSub != nil {
		f.cancelSub()
		f.cancelSub = nil
	}
	f.mu.Unlock()
	f.logger.Debug("feed client left", zap.String("client_id", c.ID))
}

// NotifyChanged signals that the submissions collection changed. With
// Redis wired, the marker is published only: the subscription callback
// performs the broadcast exactly once per instance, this one included,
// so local clients never see a duplicate snapshot.
func (f *Feed) NotifyChanged() {
	if f.pub != nil {
		err := f.pub.PublishChanged()
		if err == nil {
			return
		}
		f.logger.Warn("publish submissions change, broadcasting locally", zap.Error(err))
	}
	f.broadcast()
}

// ClientCount returns the number of connected subscribers.
func (f *Feed) ClientCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

func (f *Feed) broadcast() {
	msg, ok := f.snapshotMessage()
	if !ok {
		return
	}

	f.mu.Lock()
	clients := make([]*Client, 0, len(f.clients))
	for _, c := range f.clients {
		clients = append(clients, c)
	}
	f.mu.Unlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full: this client still has an older snapshot
			// queued; the next broadcast supersedes it anyway
		}
	}
}

func (f *Feed) sendSnapshot(c *Client) {
	msg, ok := f.snapshotMessage()
	if !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (f *Feed) snapshotMessage() (WSMessage, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	subs, err := f.source.List(ctx)
	if err != nil {
		f.logger.Error("load submissions snapshot", zap.Error(err))
		return WSMessage{}, false
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	data, err := json.Marshal(subs)
	if err != nil {
		return WSMessage{}, false
	}
	return WSMessage{Event: EventSnapshot, Data: data}, true
}
