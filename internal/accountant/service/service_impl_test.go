package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/hisab/internal/accountant/domain"
	"github.com/smallbiznis/hisab/internal/actorctx"
	authdomain "github.com/smallbiznis/hisab/internal/auth/domain"
	authrepository "github.com/smallbiznis/hisab/internal/auth/repository"
	authservice "github.com/smallbiznis/hisab/internal/auth/service"
	invoicedomain "github.com/smallbiznis/hisab/internal/invoice/domain"
	"github.com/smallbiznis/hisab/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type accountantFixture struct {
	svc     domain.Service
	authSvc authdomain.Service
	conn    *gorm.DB
}

func newAccountantService(t *testing.T) accountantFixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&authdomain.User{},
		&authdomain.UserRole{},
		&authdomain.Session{},
		&invoicedomain.Invoice{},
		&invoicedomain.LineItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	authSvc := authservice.New(zap.NewNop(), authrepository.Provide(conn), authrepository.ProvideSessions(conn), node)
	svc := New(Params{
		DB:      conn,
		Log:     zap.NewNop(),
		AuthSvc: authSvc,
	})

	return accountantFixture{svc: svc, authSvc: authSvc, conn: conn}
}

func adminCtx(userID snowflake.ID) context.Context {
	return actorctx.WithActor(context.Background(), actorctx.Actor{
		UserID: userID,
		Role:   actorctx.RoleAdmin,
	})
}

func (f accountantFixture) registerUser(t *testing.T, email string, role actorctx.Role) *authdomain.User {
	t.Helper()
	user, err := f.authSvc.CreateUser(context.Background(), authdomain.CreateUserRequest{
		Email:    email,
		FullName: "Someone",
		Password: "correct horse battery",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestAccountantRequiresActor(t *testing.T) {
	f := newAccountantService(t)
	ctx := context.Background()

	_, err := f.svc.List(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidActor)

	_, err = f.svc.Create(ctx, domain.CreateAccountantRequest{Email: "x@y.test", Password: "longenough1"})
	assert.ErrorIs(t, err, domain.ErrInvalidActor)

	assert.ErrorIs(t, f.svc.Delete(ctx, 42), domain.ErrInvalidActor)
}

func TestAccountantCreateAndList(t *testing.T) {
	f := newAccountantService(t)
	admin := f.registerUser(t, "admin@hisab.test", actorctx.RoleAdmin)
	ctx := adminCtx(admin.ID)

	created, err := f.svc.Create(ctx, domain.CreateAccountantRequest{
		Email:    "staff@hisab.test",
		FullName: "Staff Member",
		Password: "longenough1",
	})
	require.NoError(t, err)
	assert.Equal(t, string(actorctx.RoleAccountant), created.Role)

	// Two invoices for the new accountant so List reports real workload.
	for i, amount := range []string{"150.25", "49.75"} {
		require.NoError(t, f.conn.Create(&invoicedomain.Invoice{
			ID:           snowflake.ID(9000 + i),
			Number:       "INV-TST" + string(rune('A'+i)),
			Type:         invoicedomain.TypeSale,
			Status:       invoicedomain.StatusPending,
			AccountantID: created.ID,
			InvoiceDate:  time.Date(2025, time.March, 1+i, 0, 0, 0, 0, time.UTC),
			Subtotal:     decimal.RequireFromString(amount),
			TaxRate:      decimal.Zero,
			TaxAmount:    decimal.Zero,
			TotalAmount:  decimal.RequireFromString(amount),
		}).Error)
	}

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byEmail := make(map[string]domain.Accountant, len(list))
	for _, a := range list {
		byEmail[a.Email] = a
	}

	staff := byEmail["staff@hisab.test"]
	assert.Equal(t, int64(2), staff.InvoiceCount)
	assert.True(t, staff.InvoiceTotal.Equal(decimal.RequireFromString("200")))
	assert.Equal(t, string(actorctx.RoleAccountant), staff.Role)

	adm := byEmail["admin@hisab.test"]
	assert.Equal(t, int64(0), adm.InvoiceCount)
	assert.Equal(t, string(actorctx.RoleAdmin), adm.Role)
}

func TestAccountantDelete(t *testing.T) {
	f := newAccountantService(t)
	admin := f.registerUser(t, "admin@hisab.test", actorctx.RoleAdmin)
	staff := f.registerUser(t, "staff@hisab.test", actorctx.RoleAccountant)
	ctx := adminCtx(admin.ID)

	require.NoError(t, f.svc.Delete(ctx, staff.ID))

	_, err := f.authSvc.RoleOf(ctx, staff.ID)
	assert.Error(t, err)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAccountantDeleteGuards(t *testing.T) {
	f := newAccountantService(t)
	admin := f.registerUser(t, "admin@hisab.test", actorctx.RoleAdmin)
	other := f.registerUser(t, "other@hisab.test", actorctx.RoleAdmin)
	ctx := adminCtx(admin.ID)

	assert.ErrorIs(t, f.svc.Delete(ctx, 0), domain.ErrInvalidID)
	assert.ErrorIs(t, f.svc.Delete(ctx, admin.ID), domain.ErrSelfDelete)
	assert.ErrorIs(t, f.svc.Delete(ctx, other.ID), domain.ErrAdminProtected)
	assert.ErrorIs(t, f.svc.Delete(ctx, snowflake.ID(123456789)), domain.ErrNotFound)
}

func TestAccountantDeleteRevokesSessions(t *testing.T) {
	f := newAccountantService(t)
	admin := f.registerUser(t, "admin@hisab.test", actorctx.RoleAdmin)
	staff := f.registerUser(t, "staff@hisab.test", actorctx.RoleAccountant)

	login, err := f.authSvc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "staff@hisab.test",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(adminCtx(admin.ID), staff.ID))

	_, err = f.authSvc.Authenticate(context.Background(), login.RawToken)
	assert.ErrorIs(t, err, authdomain.ErrInvalidSession)
}
