package service

import (
	"context"

	"productive-boards/internal/model"
	"productive-boards/internal/repository"
)

// UserService exposes the user directory used by assignment pickers.
type UserService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.store.Transaction(ctx, func(repos *repository.Repositories) error {
		var err error
		users, err = repos.Users.ListAll(ctx)
		return err
	})
	return users, err
}
