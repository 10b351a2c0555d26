package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/order-api/internal/model"
	"github.com/orderdesk/order-api/internal/repository"
	"github.com/orderdesk/order-api/pkg/errors"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(context.Context, *model.User) error { return nil }

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(context.Context, *model.User) error { return nil }

func (r *fakeUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role model.Role) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ *model.UserFilter) ([]*model.User, int64, error) {
	var out []*model.User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func testUser(role model.Role) *model.User {
	return &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        "someone@example.com",
		Role:         role,
		IsActive:     true,
		PasswordHash: "$2a$10$secret",
	}
}

func TestGet_StripsPasswordHash(t *testing.T) {
	u := testUser(model.RoleCustomer)
	svc := NewService(newFakeUserRepo(u))

	got, err := svc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PasswordHash)
}

func TestList_StaffOnly(t *testing.T) {
	u := testUser(model.RoleCustomer)
	svc := NewService(newFakeUserRepo(u))

	_, _, err := svc.List(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleCustomer}, &model.UserFilter{})
	require.Error(t, err)
	assert.Equal(t, errors.KindForbidden, errors.FromError(err).Kind)

	users, total, err := svc.List(context.Background(), model.Actor{ID: uuid.New(), Role: model.RoleStaff}, &model.UserFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].PasswordHash)
}

func TestUpdateRole(t *testing.T) {
	u := testUser(model.RoleCustomer)
	svc := NewService(newFakeUserRepo(u))
	admin := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}

	got, err := svc.UpdateRole(context.Background(), admin, u.ID, "STAFF")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, got.Role)
}

func TestUpdateRole_AdminOnly(t *testing.T) {
	u := testUser(model.RoleCustomer)
	svc := NewService(newFakeUserRepo(u))

	for _, role := range []model.Role{model.RoleCustomer, model.RoleStaff} {
		_, err := svc.UpdateRole(context.Background(), model.Actor{ID: uuid.New(), Role: role}, u.ID, "STAFF")
		require.Error(t, err, role)
		assert.Equal(t, errors.KindForbidden, errors.FromError(err).Kind)
	}
}

func TestUpdateRole_InvalidRole(t *testing.T) {
	u := testUser(model.RoleCustomer)
	svc := NewService(newFakeUserRepo(u))
	admin := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}

	_, err := svc.UpdateRole(context.Background(), admin, u.ID, "OWNER")
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.FromError(err).Kind)
}

func TestUpdateRole_UnknownUser(t *testing.T) {
	svc := NewService(newFakeUserRepo())
	admin := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}

	_, err := svc.UpdateRole(context.Background(), admin, uuid.New(), "STAFF")
	require.Error(t, err)
	assert.Equal(t, errors.KindNotFound, errors.FromError(err).Kind)
}
