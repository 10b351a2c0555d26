package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/repository"
	"github.com/orderdesk/order-api/pkg/auth"
	"github.com/orderdesk/order-api/pkg/errors"
	"github.com/orderdesk/order-api/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
	byID    map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*model.User), byID: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if _, exists := r.byEmail[strings.ToLower(user.Email)]; exists {
		return repository.ErrDuplicateEmail
	}
	user.ID = uuid.New()
	r.byEmail[strings.ToLower(user.Email)] = user
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Update(context.Context, *model.User) error               { return nil }
func (r *fakeUserRepo) UpdateRole(context.Context, uuid.UUID, model.Role) error { return nil }
func (r *fakeUserRepo) List(context.Context, *model.UserFilter) ([]*model.User, int64, error) {
	return nil, 0, nil
}

func newService(repo *fakeUserRepo) *Service {
	jwtSvc := auth.NewJWTService(auth.Config{Secret: "test-secret", RefreshSecret: "test-refresh"})
	return NewService(repo, jwtSvc, security.NewBcryptHasher(4))
}

func registerReq(email string) *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:     email,
		Password:  "hunter2hunter2",
		FirstName: "Dana",
		LastName:  "Ko",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newService(newFakeUserRepo())

	user, err := svc.Register(context.Background(), nil, registerReq("dana@example.com"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)

	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "dana@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Empty(t, tokens.User.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), nil, registerReq("dana@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), nil, registerReq("dana@example.com"))
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.FromError(err).Kind)
}

func TestRegister_StaffRequiresAdmin(t *testing.T) {
	svc := newService(newFakeUserRepo())

	req := registerReq("staff@example.com")
	req.Role = string(model.RoleStaff)

	// Anonymous and non-admin actors are rejected.
	_, err := svc.Register(context.Background(), nil, req)
	require.Error(t, err)
	assert.Equal(t, errors.KindForbidden, errors.FromError(err).Kind)

	staffActor := model.Actor{ID: uuid.New(), Role: model.RoleStaff}
	_, err = svc.Register(context.Background(), &staffActor, req)
	require.Error(t, err)
	assert.Equal(t, errors.KindForbidden, errors.FromError(err).Kind)

	adminActor := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}
	user, err := svc.Register(context.Background(), &adminActor, req)
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, user.Role)
}

func TestRegister_InvalidRole(t *testing.T) {
	svc := newService(newFakeUserRepo())

	req := registerReq("x@example.com")
	req.Role = "SUPERUSER"

	_, err := svc.Register(context.Background(), nil, req)
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.FromError(err).Kind)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), nil, registerReq("dana@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &model.LoginRequest{Email: "dana@example.com", Password: "wrongwrong"})
	require.Error(t, err)
	appErr := errors.FromError(err)
	assert.Equal(t, errors.KindUnauthorized, appErr.Kind)
	assert.Equal(t, "invalid credentials", appErr.Message)

	// Unknown email reads identically.
	_, err = svc.Login(context.Background(), &model.LoginRequest{Email: "ghost@example.com", Password: "whatever1"})
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", errors.FromError(err).Message)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newService(repo)

	_, err := svc.Register(context.Background(), nil, registerReq("dana@example.com"))
	require.NoError(t, err)
	repo.byEmail["dana@example.com"].IsActive = false

	_, err = svc.Login(context.Background(), &model.LoginRequest{Email: "dana@example.com", Password: "hunter2hunter2"})
	require.Error(t, err)
	assert.Equal(t, errors.KindUnauthorized, errors.FromError(err).Kind)
}

func TestRefresh(t *testing.T) {
	svc := newService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), nil, registerReq("dana@example.com"))
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "dana@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not acceptable as a refresh token.
	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	require.Error(t, err)
	assert.Equal(t, errors.KindUnauthorized, errors.FromError(err).Kind)
}
