package auth

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/repository"
	"github.com/orderdesk/order-api/pkg/auth"
	"github.com/orderdesk/order-api/pkg/errors"
	"github.com/orderdesk/order-api/pkg/security"
)

type Service struct {
	users  repository.UserRepository
	jwtSvc auth.JWTService
	hasher security.PasswordHasher
}

func NewService(users repository.UserRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher) *Service {
	return &Service{
		users:  users,
		jwtSvc: jwtSvc,
		hasher: hasher,
	}
}

// Register creates an account. Unauthenticated registration always yields a
// CUSTOMER; creating STAFF requires an admin actor, and only an ADMIN may
// create another ADMIN.
func (s *Service) Register(ctx context.Context, actor *model.Actor, req *model.RegisterRequest) (*model.User, error) {
	role := model.RoleCustomer
	if req.Role != "" {
		parsed, err := model.ParseRole(req.Role)
		if err != nil {
			return nil, errors.Validation("invalid role", err)
		}
		role = parsed
	}

	if role != model.RoleCustomer {
		if actor == nil || actor.Role != model.RoleAdmin {
			return nil, errors.Forbidden(fmt.Sprintf("only an admin can register a %s account", role))
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Validation("invalid password", err)
	}

	var phone *string
	if req.Phone != "" {
		phone = &req.Phone
	}
	user := &model.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        phone,
		Role:         role,
		IsActive:     true,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if stderrors.Is(err, repository.ErrDuplicateEmail) {
			return nil, errors.Validation("email already registered", nil)
		}
		return nil, errors.Internal(err)
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same error for unknown email and bad password.
		return nil, errors.Unauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, errors.Unauthorized("account is deactivated")
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, errors.Unauthorized("invalid credentials")
	}

	return s.issueTokens(user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized("invalid refresh token")
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Unauthorized("invalid refresh token")
	}
	if !user.IsActive {
		return nil, errors.Unauthorized("account is deactivated")
	}

	return s.issueTokens(user)
}

// ValidateToken resolves a bearer token to the acting identity.
func (s *Service) ValidateToken(_ context.Context, token string) (*model.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, errors.Unauthorized("invalid token")
	}
	return claims, nil
}

func (s *Service) issueTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to generate access token: %w", err))
	}
	refresh, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to generate refresh token: %w", err))
	}

	user.PasswordHash = ""
	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}
