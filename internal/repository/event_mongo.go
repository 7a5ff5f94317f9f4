package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lending_service/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventDocument struct {
	ID          string    `bson:"_id"`
	OccurredAt  time.Time `bson:"occurredAt"`
	Type        string    `bson:"type"`
	Description string    `bson:"description"`
	Metadata    any       `bson:"metadata,omitempty"`
}

type EventMongo struct {
	collection *mongo.Collection
}

func NewEventMongo(db *mongo.Database) *EventMongo {
	return &EventMongo{collection: db.Collection(eventsCollection)}
}

var _ EventRepo = (*EventMongo)(nil)

func (r *EventMongo) Append(ctx context.Context, e models.LendingEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	doc := eventDocument{
		ID:          e.EventID,
		OccurredAt:  e.OccurredAt.UTC(),
		Type:        strings.ToUpper(strings.TrimSpace(e.Type)),
		Description: e.Description,
		Metadata:    e.Metadata,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert event %s: %w", doc.Type, err)
	}
	return nil
}

func (r *EventMongo) List(ctx context.Context, from, to time.Time, typ string) ([]models.LendingEvent, error) {
	filter := bson.M{}
	occurred := bson.M{}
	if !from.IsZero() {
		occurred["$gte"] = from.UTC()
	}
	if !to.IsZero() {
		occurred["$lte"] = to.UTC()
	}
	if len(occurred) > 0 {
		filter["occurredAt"] = occurred
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		filter["type"] = typ
	}

	opts := options.Find().SetSort(bson.D{{Key: "occurredAt", Value: 1}})
	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	var docs []eventDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	out := make([]models.LendingEvent, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.LendingEvent{
			EventID:     d.ID,
			OccurredAt:  d.OccurredAt.UTC(),
			Type:        d.Type,
			Description: d.Description,
			Metadata:    plainValue(d.Metadata),
		})
	}
	return out, nil
}
