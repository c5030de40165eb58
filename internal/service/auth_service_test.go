package service

import (
	"context"
	"testing"

	"obrafacil/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestEnv(t *testing.T) (AuthService, *fakeUserRepo, *fakeAuditRepo) {
	t.Helper()
	users := newFakeUserRepo()
	audit := &fakeAuditRepo{}
	return NewAuthService(users, audit, 0), users, audit
}

func TestRegisterFirstAccountBecomesAdmin(t *testing.T) {
	svc, _, audit := newAuthTestEnv(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@obra.com", Password: "segredo1"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, first.User.Role)
	assert.NotEmpty(t, first.Token)
	assert.NotEmpty(t, first.RefreshToken)

	second, err := svc.Register(ctx, RegisterRequest{Name: "Bruno", Email: "bruno@obra.com", Password: "segredo2"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCollaborator, second.User.Role)

	assert.Contains(t, audit.actions(), model.ActionRegisterUser)
}

func TestRegisterDuplicateEmailIsCaseInsensitive(t *testing.T) {
	svc, _, _ := newAuthTestEnv(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@obra.com", Password: "segredo1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Ana Clone", Email: "ANA@obra.com", Password: "segredo2"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestLoginValidatesCredentials(t *testing.T) {
	svc, _, _ := newAuthTestEnv(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@obra.com", Password: "segredo1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "ana@obra.com", Password: "errada"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "ninguem@obra.com", Password: "segredo1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	auth, err := svc.Login(ctx, LoginRequest{Email: "Ana@obra.com", Password: "segredo1"})
	require.NoError(t, err)
	assert.Equal(t, "ana@obra.com", auth.User.Email)
	assert.NotEmpty(t, auth.Token)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newAuthTestEnv(t)
	ctx := context.Background()

	auth, err := svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@obra.com", Password: "segredo1"})
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, auth.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, auth.RefreshToken, pair.RefreshToken)

	// The presented token was spent by the rotation.
	_, err = svc.Refresh(ctx, auth.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	svc, _, _ := newAuthTestEnv(t)
	ctx := context.Background()

	auth, err := svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@obra.com", Password: "segredo1"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, auth.User.ID, ChangePasswordRequest{CurrentPassword: "errada", NewPassword: "nova-senha"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, auth.User.ID, ChangePasswordRequest{CurrentPassword: "segredo1", NewPassword: "nova-senha"})
	require.NoError(t, err)

	// Old refresh tokens die with the old password.
	_, err = svc.Refresh(ctx, auth.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "ana@obra.com", Password: "segredo1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginRequest{Email: "ana@obra.com", Password: "nova-senha"})
	assert.NoError(t, err)
}

func TestRecoverPasswordNeverRevealsAccounts(t *testing.T) {
	svc, _, _ := newAuthTestEnv(t)
	ctx := context.Background()

	assert.NoError(t, svc.RecoverPassword(ctx, "ninguem@obra.com"))

	_, err := svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@obra.com", Password: "segredo1"})
	require.NoError(t, err)
	assert.NoError(t, svc.RecoverPassword(ctx, "ana@obra.com"))
}

func TestUpdateProfileRejectsTakenEmail(t *testing.T) {
	svc, _, _ := newAuthTestEnv(t)
	ctx := context.Background()

	ana, err := svc.Register(ctx, RegisterRequest{Name: "Ana", Email: "ana@obra.com", Password: "segredo1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterRequest{Name: "Bruno", Email: "bruno@obra.com", Password: "segredo2"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, ana.User.ID, UpdateProfileRequest{Email: "BRUNO@obra.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	updated, err := svc.UpdateProfile(ctx, ana.User.ID, UpdateProfileRequest{Name: "Ana Paula"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", updated.Name)
}

func TestJWTSecretRefusesReleaseModeFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GIN_MODE", "release")
	assert.Panics(t, func() { JWTSecret() })

	t.Setenv("GIN_MODE", "")
	assert.NotEmpty(t, JWTSecret())
}
