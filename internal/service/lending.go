package service

import (
	"context"
	"errors"
	"time"

	"lending_service/internal/models"
	"lending_service/internal/repository"
)

type LendingService struct {
	items repository.ItemRepo
	rec   *recorder
	now   func() time.Time
}

func NewLendingService(items repository.ItemRepo, rec *recorder) *LendingService {
	return &LendingService{items: items, rec: rec, now: time.Now}
}

// LoanItem marks an available item as borrowed by userID. The availability check and
// the write are a single conditional update in the store, so concurrent loans of the
// same item have exactly one winner. userID is not checked against the users collection.
func (s *LendingService) LoanItem(ctx context.Context, itemID, userID string) (models.Item, error) {
	it, err := s.items.MarkBorrowed(ctx, itemID, userID, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Item{}, ErrItemNotAvailable
		}
		return models.Item{}, err
	}
	s.rec.record(ctx, models.EventLoan, "Item lent", map[string]any{"itemId": it.ID, "userId": userID})
	return it, nil
}

// ReturnItem marks a borrowed item as available again and stamps the return date.
func (s *LendingService) ReturnItem(ctx context.Context, itemID string) (models.Item, error) {
	it, err := s.items.MarkReturned(ctx, itemID, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Item{}, ErrItemNotBorrowed
		}
		return models.Item{}, err
	}
	s.rec.record(ctx, models.EventReturn, "Item returned", map[string]any{"itemId": it.ID})
	return it, nil
}
