package user

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"

	"github.com/orderdesk/order-api/internal/authz"
	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/repository"
	"github.com/orderdesk/order-api/pkg/errors"
)

type Service struct {
	users repository.UserRepository
}

func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("user")
		}
		return nil, errors.Internal(err)
	}
	user.PasswordHash = ""
	return user, nil
}

// List is staff/admin only; customers have no user directory.
func (s *Service) List(ctx context.Context, actor model.Actor, filter *model.UserFilter) ([]*model.User, int64, error) {
	if !actor.Role.IsStaff() {
		return nil, 0, errors.Forbidden("")
	}
	filter.Normalize()

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, errors.Internal(err)
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, total, nil
}

// UpdateRole reassigns a user's role. Admin only; promoting to ADMIN is
// covered by the same check since only admins reach this point.
func (s *Service) UpdateRole(ctx context.Context, actor model.Actor, id uuid.UUID, roleStr string) (*model.User, error) {
	if !authz.CanAdminister(actor) {
		return nil, errors.Forbidden("only an admin can change user roles")
	}

	role, err := model.ParseRole(roleStr)
	if err != nil {
		return nil, errors.Validation("invalid role", err)
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("user")
		}
		return nil, errors.Internal(err)
	}
	return s.Get(ctx, id)
}
