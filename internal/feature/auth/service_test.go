package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	coreauth "catalog-api/internal/core/auth"
	"catalog-api/internal/core/errs"
	"catalog-api/internal/domain"
	"catalog-api/internal/repo"
	"catalog-api/internal/testutil"
)

func newService(t *testing.T) (*Service, *repo.UserRepo, *coreauth.JWTer) {
	t.Helper()
	db := testutil.NewDB(t)
	j := &coreauth.JWTer{Secret: []byte("auth-test"), Issuer: "catalog-api", TTL: time.Hour}
	users := repo.NewUserRepo(db)
	return NewService(users, j, zap.NewNop()), users, j
}

func TestRegisterAndLogin(t *testing.T) {
	svc, users, j := newService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterInput{Email: " Ana@Test.com ", Password: "Abc123", FullName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@test.com", reg.Email)
	assert.True(t, reg.IsActive)

	claims, err := j.Parse(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, claims.UID)

	stored, err := users.FindByID(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleUser}, []string(stored.Roles))
	assert.NotEqual(t, "Abc123", stored.Password)

	got, err := svc.Login(ctx, LoginInput{Email: "ANA@test.com", Password: "Abc123"})
	require.NoError(t, err)
	assert.Equal(t, reg.ID, got.ID)
	assert.NotEmpty(t, got.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "dup@test.com", Password: "Abc123", FullName: "A"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Email: "DUP@test.com", Password: "Abc123", FullName: "B"})
	assert.Equal(t, 400, errs.CodeOf(err))
}

func TestLoginRejects(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "bob@test.com", Password: "Abc123", FullName: "Bob"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@test.com", Password: "Abc123"})
	assert.True(t, IsBadCredentials(err))

	_, err = svc.Login(ctx, LoginInput{Email: "bob@test.com", Password: "Wrong123"})
	assert.True(t, IsBadCredentials(err))

	u, err := users.FindByEmail(ctx, "bob@test.com")
	require.NoError(t, err)
	n, err := users.SetActive(ctx, u.ID, false)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = svc.Login(ctx, LoginInput{Email: "bob@test.com", Password: "Abc123"})
	assert.True(t, errs.IsUnauthorized(err))
	assert.False(t, IsBadCredentials(err))
}

func TestCheckStatus(t *testing.T) {
	svc, _, j := newService(t)

	_, err := svc.CheckStatus(nil)
	assert.Equal(t, 500, errs.CodeOf(err))

	res, err := svc.CheckStatus(&domain.User{ID: "u-1", Email: "a@b.c", FullName: "A", IsActive: true})
	require.NoError(t, err)
	claims, err := j.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UID)
}
