package service

import (
	"context"
	"errors"

	"lending_service/internal/models"
	"lending_service/internal/repository"
)

type UserService struct {
	repo repository.UserRepo
	rec  *recorder
}

func NewUserService(repo repository.UserRepo, rec *recorder) *UserService {
	return &UserService{repo: repo, rec: rec}
}

// CreateUser stores a user as given; name and email are not validated.
func (s *UserService) CreateUser(ctx context.Context, name, email string) (models.User, error) {
	u := models.User{Name: name, Email: email}
	if err := s.repo.Insert(ctx, &u); err != nil {
		return models.User{}, err
	}
	s.rec.record(ctx, models.EventUserCreated, "User "+u.Name+" created", map[string]any{"userId": u.ID})
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id string) (models.User, error) {
	u, err := s.repo.Get(ctx, id)
	return u, userErr(err)
}

func (s *UserService) UpdateUser(ctx context.Context, id string, p models.UserPatch) error {
	return userErr(s.repo.Update(ctx, id, p))
}

func (s *UserService) DeleteUser(ctx context.Context, id string) (models.User, error) {
	u, err := s.repo.Delete(ctx, id)
	if err != nil {
		return models.User{}, userErr(err)
	}
	s.rec.record(ctx, models.EventUserDeleted, "User "+u.Name+" removed", map[string]any{"userId": u.ID})
	return u, nil
}

func userErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
