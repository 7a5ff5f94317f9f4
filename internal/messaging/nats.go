package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lending_service/internal/models"

	"github.com/nats-io/nats.go"
)

const (
	DefaultSubjectPrefix = "lending.events"

	drainTimeout = 5 * time.Second
)

// Publisher fans lending events out to other services.
type Publisher interface {
	Publish(ctx context.Context, e models.LendingEvent) error
	Close()
}

// Subject returns the subject an event type is published on, e.g. lending.events.loan.
func Subject(prefix, eventType string) string {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return strings.TrimSuffix(prefix, ".") + "." + strings.ToLower(strings.TrimSpace(eventType))
}

type NatsPublisher struct {
	conn   *nats.Conn
	prefix string
	closed chan struct{}
}

// NewNatsPublisher connects to the NATS server at url.
func NewNatsPublisher(url, prefix string) (*NatsPublisher, error) {
	closed := make(chan struct{})
	conn, err := nats.Connect(url,
		nats.Name("lending-service"),
		nats.DrainTimeout(drainTimeout),
		nats.ClosedHandler(func(*nats.Conn) { close(closed) }),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats at %q: %w", url, err)
	}
	return &NatsPublisher{conn: conn, prefix: prefix, closed: closed}, nil
}

func (p *NatsPublisher) Publish(_ context.Context, e models.LendingEvent) error {
	if p.conn == nil || p.conn.IsClosed() {
		return nats.ErrConnectionClosed
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.Type, err)
	}
	return p.conn.Publish(Subject(p.prefix, e.Type), data)
}

// Close drains the connection and blocks until buffered publishes are flushed
// and the connection is closed, or the drain times out.
func (p *NatsPublisher) Close() {
	if p.conn == nil || p.conn.IsClosed() {
		return
	}
	if err := p.conn.Drain(); err != nil || p.closed == nil {
		p.conn.Close()
		return
	}
	waitClosed(p.closed, drainTimeout+time.Second, p.conn.Close)
}

// waitClosed waits for closed; after timeout it calls forceClose instead.
func waitClosed(closed <-chan struct{}, timeout time.Duration, forceClose func()) {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-closed:
	case <-t.C:
		forceClose()
	}
}

// NopPublisher is used when no NATS url is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.LendingEvent) error { return nil }
func (NopPublisher) Close()                                             {}
