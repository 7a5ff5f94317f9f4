package service

import (
	"context"

	"lending_service/internal/logger"
	"lending_service/internal/messaging"
	"lending_service/internal/models"
	"lending_service/internal/repository"
)

// Users exposes CRUD over borrower records.
type Users interface {
	CreateUser(ctx context.Context, name, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	UpdateUser(ctx context.Context, id string, p models.UserPatch) error
	DeleteUser(ctx context.Context, id string) (models.User, error)
}

// Items exposes CRUD over lendable records.
type Items interface {
	CreateItem(ctx context.Context, payload map[string]any) (models.Item, error)
	ListItems(ctx context.Context) ([]models.Item, error)
	GetItem(ctx context.Context, id string) (models.Item, error)
	// UpdateItem returns the extension fields that were actually applied.
	UpdateItem(ctx context.Context, id string, payload map[string]any) (map[string]any, error)
	DeleteItem(ctx context.Context, id string) error
	DeleteAllItems(ctx context.Context) (int64, error)
}

// Lending drives the available <-> borrowed toggle of an item.
type Lending interface {
	LoanItem(ctx context.Context, itemID, userID string) (models.Item, error)
	ReturnItem(ctx context.Context, itemID string) (models.Item, error)
}

// EventLog exposes the activity history with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.LendingEvent, error)
}

type Service struct {
	Users
	Items
	Lending
	EventLog
}

// NewService wires the repository layer into concrete services. Every mutation is
// recorded in the event log and handed to pub.
func NewService(repos *repository.Repository, pub messaging.Publisher, log *logger.Logger) *Service {
	rec := newRecorder(repos.Events, pub, log)
	return &Service{
		Users:    NewUserService(repos.Users, rec),
		Items:    NewItemService(repos.Items, rec),
		Lending:  NewLendingService(repos.Items, rec),
		EventLog: NewEventLogService(repos.Events),
	}
}
