// Package changefeed streams transaction-table changes to dashboard clients
// using PostgreSQL LISTEN/NOTIFY. Triggers installed by the migrations emit
// one notification per row change.
package changefeed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// channelName is the NOTIFY channel the migration triggers publish to.
const channelName = "transaction_changes"

// reconnectDelay paces reconnect attempts after a dropped listen connection.
const reconnectDelay = 3 * time.Second

// subscriberBuffer bounds each subscriber's queue. A full queue drops the
// event rather than stalling the feed.
const subscriberBuffer = 64

// Change is one row-change notification.
type Change struct {
	Action    string          `json:"action"`
	Table     string          `json:"table"`
	PaymentID string          `json:"payment_id,omitempty"`
	Row       json.RawMessage `json:"row,omitempty"`
}

// Listener holds a dedicated connection on LISTEN and fans notifications out
// to subscribers. Deletions are suppressed; the ingestion path never deletes
// rows, so a DELETE is operator activity that must not disturb dashboards.
type Listener struct {
	pool   *pgxpool.Pool
	logger *zap.Logger

	mu          sync.Mutex
	subscribers map[int]chan Change
	nextID      int
}

// NewListener creates a change-feed listener.
func NewListener(pool *pgxpool.Pool, logger *zap.Logger) *Listener {
	return &Listener{
		pool:        pool,
		logger:      logger,
		subscribers: make(map[int]chan Change),
	}
}

// Subscribe registers a new subscriber. The returned cancel function must be
// called when the subscriber goes away.
func (l *Listener) Subscribe() (<-chan Change, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	ch := make(chan Change, subscriberBuffer)
	l.subscribers[id] = ch

	cancel := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.subscribers[id]; ok {
			delete(l.subscribers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Run listens for notifications until the context is canceled, reconnecting
// on connection loss.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Warn("change feed connection lost, reconnecting",
				zap.Error(err),
				zap.Duration("delay", reconnectDelay),
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+channelName); err != nil {
		return err
	}
	l.logger.Info("change feed listening", zap.String("channel", channelName))

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var change Change
		if err := json.Unmarshal([]byte(notification.Payload), &change); err != nil {
			l.logger.Warn("unparseable change notification", zap.Error(err))
			continue
		}

		if change.Action == "DELETE" {
			continue
		}

		l.broadcast(change)
	}
}

func (l *Listener) broadcast(change Change) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, ch := range l.subscribers {
		select {
		case ch <- change:
		default:
			l.logger.Warn("slow change feed subscriber, dropping event",
				zap.Int("subscriber", id),
			)
		}
	}
}
