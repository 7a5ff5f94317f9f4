package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lending_service/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no record matched the lookup or the conditional filter.
var ErrNotFound = errors.New("record not found")

type UserRepo interface {
	Insert(ctx context.Context, u *models.User) error
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, id string, p models.UserPatch) error
	// Delete removes the user in one step and returns the removed record.
	Delete(ctx context.Context, id string) (models.User, error)
}

type ItemRepo interface {
	Insert(ctx context.Context, it *models.Item) error
	List(ctx context.Context) ([]models.Item, error)
	Get(ctx context.Context, id string) (models.Item, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
	// MarkBorrowed flips an available item to borrowed; ErrNotFound if the item is absent or already borrowed.
	MarkBorrowed(ctx context.Context, id, borrowerID string, at time.Time) (models.Item, error)
	// MarkReturned flips a borrowed item back to available; ErrNotFound if the item is absent or not borrowed.
	MarkReturned(ctx context.Context, id string, at time.Time) (models.Item, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.LendingEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.LendingEvent, error)
}

type Repository struct {
	Users  UserRepo
	Items  ItemRepo
	Events EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:  NewUserSQLite(db),
		Items:  NewItemSQLite(db),
		Events: NewEventSQLite(db),
	}
}

func NewMongoRepository(db *mongo.Database) *Repository {
	return &Repository{
		Users:  NewUserMongo(db),
		Items:  NewItemMongo(db),
		Events: NewEventMongo(db),
	}
}
