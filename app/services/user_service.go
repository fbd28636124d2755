package services

import (
	"context"
	"strings"

	"github.com/tempohq/tempo/app/models"
	"github.com/tempohq/tempo/pkg/apperr"
	"github.com/tempohq/tempo/pkg/auth"
	"github.com/tempohq/tempo/pkg/listquery"
)

// CreateUserInput is the admin create allow-list; it mirrors signup.
type CreateUserInput struct {
	Name                 string `json:"name" validate:"required,min=2,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,confirmed"`
}

// UpdateUserInput is the update allow-list. Pointer fields distinguish
// "absent" from "set to zero"; password changes go through the dedicated
// password flow, never here.
type UpdateUserInput struct {
	Name  *string `json:"name" validate:"nullable,min=2,max=100"`
	Email *string `json:"email" validate:"nullable,email"`
}

// UserService implements user CRUD on top of a UserStore.
type UserService struct {
	users UserStore
}

// NewUserService wires the service to its store.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// List returns a page of active users.
func (s *UserService) List(ctx context.Context, q listquery.Query) ([]models.User, listquery.Pagination, error) {
	return s.users.List(ctx, q)
}

// Get returns one active user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// Create registers a user without issuing a token.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update fetches, mutates only the allow-listed fields, and saves.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the same allow-list to an already-loaded user.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, in UpdateUserInput) (*models.User, error) {
	return s.Update(ctx, user.ID.Hex(), in)
}

// Delete soft-deletes: the document stays, reads stop returning it.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.SoftDelete(ctx, id)
}
