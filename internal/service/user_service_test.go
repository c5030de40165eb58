package service

import (
	"context"
	"testing"

	"obrafacil/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserTestEnv(t *testing.T) (UserService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	return NewUserService(users, &fakeAuditRepo{}), users
}

func TestCreateUserValidatesRoleAndEmail(t *testing.T) {
	svc, _ := newUserTestEnv(t)
	ctx := context.Background()
	actor := admin()

	_, err := svc.Create(ctx, actor, CreateUserRequest{Name: "X", Email: "x@obra.com", Password: "segredo1", Role: "supervisor"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	created, err := svc.Create(ctx, actor, CreateUserRequest{Name: "Marcos", Email: "marcos@obra.com", Password: "segredo1", Role: model.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, created.Role)

	_, err = svc.Create(ctx, actor, CreateUserRequest{Name: "Clone", Email: "MARCOS@obra.com", Password: "segredo1", Role: model.RoleCollaborator})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	svc, users := newUserTestEnv(t)
	ctx := context.Background()

	target := &model.User{Name: "Carla", Email: "carla@obra.com", Role: model.RoleCollaborator}
	require.NoError(t, users.Create(ctx, target))

	self := Actor{ID: target.ID, Name: target.Name, Role: target.Role}
	assert.ErrorIs(t, svc.Delete(ctx, self, target.ID), ErrSelfDeletion)

	require.NoError(t, svc.Delete(ctx, admin(), target.ID))
	_, err := users.GetByID(ctx, target.ID)
	assert.Error(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, admin(), uuid.New()), ErrUserNotFound)
}

func TestUpdateUserAllowsDemotingLastAdmin(t *testing.T) {
	svc, users := newUserTestEnv(t)
	ctx := context.Background()

	onlyAdmin := &model.User{Name: "Ana", Email: "ana@obra.com", Role: model.RoleAdmin}
	require.NoError(t, users.Create(ctx, onlyAdmin))

	// The directory carries no last-admin guard.
	updated, err := svc.Update(ctx, admin(), onlyAdmin.ID, UpdateUserRequest{Role: model.RoleCollaborator})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCollaborator, updated.Role)
}
