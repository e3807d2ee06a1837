package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/hisab/internal/actorctx"
	"github.com/smallbiznis/hisab/internal/auth/domain"
	"github.com/smallbiznis/hisab/internal/auth/repository"
	"github.com/smallbiznis/hisab/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.User{}, &domain.UserRole{}, &domain.Session{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(zap.NewNop(), repository.Provide(conn), repository.ProvideSessions(conn), node)
}

func createUser(t *testing.T, svc domain.Service, email string, role actorctx.Role) *domain.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    email,
		FullName: "Test User",
		Password: "correct horse battery",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestCreateUserValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "", Password: "longenough1", Role: actorctx.RoleAccountant})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Email: "not-an-email", Password: "longenough1", Role: actorctx.RoleAccountant})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@b.test", Password: "short", Role: actorctx.RoleAccountant})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Email: "a@b.test", Password: "longenough1", Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestCreateUserAssignsRole(t *testing.T) {
	svc := newAuthService(t)

	user := createUser(t, svc, "jo@hisab.test", actorctx.RoleAccountant)

	role, err := svc.RoleOf(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, actorctx.RoleAccountant, role)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	createUser(t, svc, "dup@hisab.test", actorctx.RoleAccountant)

	_, err := svc.CreateUser(context.Background(), domain.CreateUserRequest{
		Email:    "DUP@hisab.test",
		Password: "another password",
		Role:     actorctx.RoleAccountant,
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc := newAuthService(t)
	user := createUser(t, svc, "login@hisab.test", actorctx.RoleAdmin)
	ctx := context.Background()

	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "login@hisab.test",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, actorctx.RoleAdmin, result.Role)
	assert.NotEmpty(t, result.RawToken)

	session, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)
	createUser(t, svc, "login@hisab.test", actorctx.RoleAccountant)

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "login@hisab.test",
		Password: "wrong password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@hisab.test",
		Password: "whatever password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newAuthService(t)
	createUser(t, svc, "bye@hisab.test", actorctx.RoleAccountant)
	ctx := context.Background()

	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "bye@hisab.test",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, err = svc.Authenticate(ctx, result.RawToken)
	assert.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestAuthenticateUnknownToken(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Authenticate(context.Background(), "bogus-token")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)

	_, err = svc.Authenticate(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidSession)
}
