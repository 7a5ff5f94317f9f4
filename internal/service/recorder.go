package service

import (
	"context"
	"time"

	"lending_service/internal/logger"
	"lending_service/internal/messaging"
	"lending_service/internal/models"
	"lending_service/internal/repository"

	"github.com/google/uuid"
)

// recorder appends activity events and publishes them. The mutation has already
// happened when it runs, so failures are logged and swallowed.
type recorder struct {
	events repository.EventRepo
	pub    messaging.Publisher
	log    *logger.Logger
	now    func() time.Time
}

func newRecorder(events repository.EventRepo, pub messaging.Publisher, log *logger.Logger) *recorder {
	return &recorder{events: events, pub: pub, log: log, now: time.Now}
}

func (r *recorder) record(ctx context.Context, typ, description string, meta map[string]any) {
	if r == nil {
		return
	}
	ev := models.LendingEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  r.now().UTC(),
		Type:        typ,
		Description: description,
	}
	if len(meta) > 0 {
		ev.Metadata = meta
	}

	if r.events != nil {
		if err := r.events.Append(ctx, ev); err != nil && r.log != nil {
			r.log.Warnw("event_append_failed", "err", err, "type", typ)
		}
	}
	if r.pub != nil {
		if err := r.pub.Publish(ctx, ev); err != nil && r.log != nil {
			r.log.Warnw("event_publish_failed", "err", err, "type", typ)
		}
	}
}
