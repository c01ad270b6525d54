package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sweetshop/api/internal/models"
	"github.com/sweetshop/api/internal/repo"
	"github.com/sweetshop/api/internal/transport"
	"github.com/sweetshop/api/pkg/hash"
	"github.com/sweetshop/api/pkg/logging"
)

// UserService backs the admin-only account management endpoints.
type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) ListUsers(ctx context.Context) ([]transport.UserView, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]transport.UserView, len(users))
	for i := range users {
		views[i] = userView(&users[i])
	}
	return views, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*transport.UserView, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	view := userView(user)
	return &view, nil
}

func (s *UserService) CreateUser(ctx context.Context, req transport.CreateUserRequest) (*transport.UserView, error) {
	l := logging.FromContext(ctx).With("svc", "user.create_user", "username", req.Username)

	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("create_user_error", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username already exists", ErrConflict)
		}
		return nil, err
	}

	view := userView(&user)
	return &view, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (*transport.UserView, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		if _, err := s.Repo.GetUserByUsername(ctx, *req.Username); err == nil {
			return nil, fmt.Errorf("%w: username already exists", ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.Password != nil {
		pwHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		// the unique index is the authoritative guard against a racing rename
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username already exists", ErrConflict)
		}
		return nil, err
	}

	view := userView(user)
	return &view, nil
}

// DeleteUser refuses to delete the account the caller is authenticated as.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID, callerID string) error {
	if id.String() == callerID {
		return fmt.Errorf("%w: cannot delete your own account", ErrConflict)
	}

	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}
	return nil
}
