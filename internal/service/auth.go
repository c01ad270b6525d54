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
	"github.com/sweetshop/api/pkg/events"
	"github.com/sweetshop/api/pkg/hash"
	"github.com/sweetshop/api/pkg/logging"
	"github.com/sweetshop/api/pkg/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens tokens.Config
	Events events.Publisher
}

func userView(u *models.User) transport.UserView {
	return transport.UserView{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Register creates a STAFF account. A caller-supplied role is deliberately
// ignored: privilege is only ever granted by an authenticated admin through
// the user admin endpoints.
func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", req.Username)

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		Role:         models.RoleStaff,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "status", 409, "reason", "username taken")
			return nil, fmt.Errorf("%w: username already exists", ErrConflict)
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	token, err := s.Tokens.Sign(user.ID.String(), user.Username, user.Role)
	if err != nil {
		l.Error("register_error", "reason", "cannot sign token", "error", err)
		return nil, err
	}

	s.publish(ctx, user.ID.String(), map[string]any{
		"type":     events.TypeUserRegistered,
		"userId":   user.ID.String(),
		"username": user.Username,
	})

	return &transport.AuthResult{User: userView(&user), Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", req.Username)

	user, err := s.Repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.Tokens.Sign(user.ID.String(), user.Username, user.Role)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign token", "error", err)
		return nil, err
	}

	return &transport.AuthResult{User: userView(user), Token: token}, nil
}

// Profile resolves the authenticated user's current record. The token can
// outlive the account, so a vanished user is a NotFound, not an auth error.
func (s *AuthService) Profile(ctx context.Context, userID string) (*transport.UserView, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

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

func (s *AuthService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "error", err)
	}
}
