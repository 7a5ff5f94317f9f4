package service

import (
	"context"
	"errors"

	"lending_service/internal/models"
	"lending_service/internal/repository"
)

type ItemService struct {
	repo repository.ItemRepo
	rec  *recorder
}

func NewItemService(repo repository.ItemRepo, rec *recorder) *ItemService {
	return &ItemService{repo: repo, rec: rec}
}

// CreateItem stores a new available item; borrow-state keys in the payload are ignored.
func (s *ItemService) CreateItem(ctx context.Context, payload map[string]any) (models.Item, error) {
	it, err := models.NewItem(payload)
	if err != nil {
		return models.Item{}, err
	}
	if err := s.repo.Insert(ctx, &it); err != nil {
		return models.Item{}, err
	}
	s.rec.record(ctx, models.EventItemCreated, "Item created", map[string]any{"itemId": it.ID})
	return it, nil
}

func (s *ItemService) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.repo.List(ctx)
}

func (s *ItemService) GetItem(ctx context.Context, id string) (models.Item, error) {
	it, err := s.repo.Get(ctx, id)
	return it, itemErr(err)
}

func (s *ItemService) UpdateItem(ctx context.Context, id string, payload map[string]any) (map[string]any, error) {
	fields, err := models.ExtensionFields(payload)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, itemErr(err)
	}
	return fields, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return itemErr(err)
	}
	s.rec.record(ctx, models.EventItemDeleted, "Item removed", map[string]any{"itemId": id})
	return nil
}

// DeleteAllItems removes every item and reports how many were removed.
func (s *ItemService) DeleteAllItems(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.rec.record(ctx, models.EventItemsCleared, "All items removed", map[string]any{"deleted": n})
	}
	return n, nil
}

func itemErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrItemNotFound
	}
	return err
}
