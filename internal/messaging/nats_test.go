package messaging

import (
	"context"
	"testing"
	"time"

	"lending_service/internal/models"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "lending.events.loan", Subject("", models.EventLoan))
	assert.Equal(t, "acme.lending.items_cleared", Subject("acme.lending.", models.EventItemsCleared))
	assert.Equal(t, "x.return", Subject("x", " RETURN "))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), models.LendingEvent{Type: models.EventLoan}))
	p.Close()
}

func TestNewNatsPublisher_UnreachableServer(t *testing.T) {
	_, err := NewNatsPublisher("nats://127.0.0.1:1", DefaultSubjectPrefix)
	require.Error(t, err)
}

func TestNatsPublisher_PublishWithoutConnection(t *testing.T) {
	p := &NatsPublisher{}
	err := p.Publish(context.Background(), models.LendingEvent{Type: models.EventLoan})
	assert.ErrorIs(t, err, nats.ErrConnectionClosed)
	p.Close()
}

func TestWaitClosed_ReturnsOnceDrained(t *testing.T) {
	closed := make(chan struct{})
	forced := false
	go close(closed)

	waitClosed(closed, time.Second, func() { forced = true })
	assert.False(t, forced, "a finished drain must not be cut short")
}

func TestWaitClosed_ForcesAfterTimeout(t *testing.T) {
	forced := false
	start := time.Now()

	waitClosed(make(chan struct{}), 20*time.Millisecond, func() { forced = true })
	assert.True(t, forced)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
