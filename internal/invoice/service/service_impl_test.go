package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/hisab/internal/actorctx"
	"github.com/smallbiznis/hisab/internal/clock"
	customerdomain "github.com/smallbiznis/hisab/internal/customer/domain"
	"github.com/smallbiznis/hisab/internal/invoice/domain"
	"github.com/smallbiznis/hisab/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&customerdomain.Customer{},
		&domain.Invoice{},
		&domain.LineItem{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))

	svc := NewService(ServiceParam{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
	})
	return svc, conn, fake
}

func asAccountant(userID int64) context.Context {
	return actorctx.WithActor(context.Background(), actorctx.Actor{
		UserID: snowflake.ID(userID),
		Role:   actorctx.RoleAccountant,
	})
}

func asAdmin(userID int64) context.Context {
	return actorctx.WithActor(context.Background(), actorctx.Actor{
		UserID: snowflake.ID(userID),
		Role:   actorctx.RoleAdmin,
	})
}

func draft(desc string, qty, price string) domain.LineItemDraft {
	return domain.LineItemDraft{
		Description: desc,
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   decimal.RequireFromString(price),
	}
}

func TestCreateComputesTotals(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := asAccountant(100)

	inv, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		Type:    domain.TypeSale,
		TaxRate: decimal.NewFromInt(15),
		LineItems: []domain.LineItemDraft{
			draft("Widget", "2", "50"),
			draft("Gadget", "1.5", "86.666667"),
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(inv.Number, "INV-"))
	assert.Equal(t, domain.StatusPending, inv.Status)
	assert.Equal(t, snowflake.ID(100), inv.AccountantID)

	// 100 + 130.0000005 = 230.00 after rounding
	assert.Equal(t, "230", inv.Subtotal.String())
	assert.Equal(t, "34.5", inv.TaxAmount.String())
	assert.Equal(t, "264.5", inv.TotalAmount.String())

	require.Len(t, inv.LineItems, 2)
	assert.Equal(t, 0, inv.LineItems[0].Position)
	assert.Equal(t, 1, inv.LineItems[1].Position)
	assert.Equal(t, "100", inv.LineItems[0].ExtendedPrice.String())
}

func TestCreateSubtotalRoundsExactSum(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := asAccountant(100)

	// Each line extends to 1.23321 (stored as 1.23); the subtotal rounds
	// the exact sum 3.69963 to 3.70, not the rounded-line sum 3.69.
	inv, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		Type:    domain.TypeSale,
		TaxRate: decimal.Zero,
		LineItems: []domain.LineItemDraft{
			draft("Bolt", "1.111", "1.11"),
			draft("Nut", "1.111", "1.11"),
			draft("Washer", "1.111", "1.11"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "3.7", inv.Subtotal.String())
	require.Len(t, inv.LineItems, 3)
	for _, item := range inv.LineItems {
		assert.Equal(t, "1.23", item.ExtendedPrice.String())
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := asAccountant(100)

	_, err := svc.Create(context.Background(), domain.CreateInvoiceRequest{
		Type:      domain.TypeSale,
		LineItems: []domain.LineItemDraft{draft("x", "1", "1")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidActor)

	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{
		Type:      "refund",
		LineItems: []domain.LineItemDraft{draft("x", "1", "1")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidType)

	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{Type: domain.TypeSale})
	assert.ErrorIs(t, err, domain.ErrNoLineItems)

	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{
		Type:      domain.TypeSale,
		LineItems: []domain.LineItemDraft{draft("   ", "1", "1")},
	})
	assert.ErrorIs(t, err, domain.ErrEmptyDescription)

	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{
		Type:      domain.TypeSale,
		LineItems: []domain.LineItemDraft{draft("x", "1", "0")},
	})
	assert.ErrorIs(t, err, domain.ErrNonPositivePrice)

	badID := "not-a-number"
	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{
		Type:       domain.TypeSale,
		CustomerID: &badID,
		LineItems:  []domain.LineItemDraft{draft("x", "1", "1")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCustomerID)

	missing := "424242"
	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{
		Type:       domain.TypeSale,
		CustomerID: &missing,
		LineItems:  []domain.LineItemDraft{draft("x", "1", "1")},
	})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCreateNegativeQuantityAllowed(t *testing.T) {
	svc, _, _ := newTestService(t)

	inv, err := svc.Create(asAccountant(100), domain.CreateInvoiceRequest{
		Type:    domain.TypeSale,
		TaxRate: decimal.Zero,
		LineItems: []domain.LineItemDraft{
			draft("Item", "3", "10"),
			draft("Return adjustment", "-1", "10"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "20", inv.Subtotal.String())
	assert.Equal(t, "-10", inv.LineItems[1].ExtendedPrice.String())
}

func TestCreateNumbersAreUnique(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := asAccountant(100)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		inv, err := svc.Create(ctx, domain.CreateInvoiceRequest{
			Type:      domain.TypeSale,
			LineItems: []domain.LineItemDraft{draft("x", "1", "1")},
		})
		require.NoError(t, err)
		assert.False(t, seen[inv.Number], "number %s repeated", inv.Number)
		seen[inv.Number] = true
	}
}

func TestListOwnerScope(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(asAccountant(1), domain.CreateInvoiceRequest{
		Type:      domain.TypeSale,
		LineItems: []domain.LineItemDraft{draft("a", "1", "10")},
	})
	require.NoError(t, err)
	_, err = svc.Create(asAccountant(2), domain.CreateInvoiceRequest{
		Type:      domain.TypePurchase,
		LineItems: []domain.LineItemDraft{draft("b", "1", "20")},
	})
	require.NoError(t, err)

	mine, err := svc.List(asAccountant(1), domain.ListInvoiceRequest{})
	require.NoError(t, err)
	require.Len(t, mine.Invoices, 1)
	assert.Equal(t, snowflake.ID(1), mine.Invoices[0].AccountantID)

	all, err := svc.List(asAdmin(99), domain.ListInvoiceRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Invoices, 2)

	sale := domain.TypeSale
	sales, err := svc.List(asAdmin(99), domain.ListInvoiceRequest{Type: &sale})
	require.NoError(t, err)
	require.Len(t, sales.Invoices, 1)
	assert.Equal(t, domain.TypeSale, sales.Invoices[0].Type)
}

func TestListDateFilters(t *testing.T) {
	svc, _, fake := newTestService(t)
	ctx := asAccountant(1)

	_, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		Type:      domain.TypeSale,
		LineItems: []domain.LineItemDraft{draft("early", "1", "10")},
	})
	require.NoError(t, err)

	fake.Advance(30 * 24 * time.Hour)
	_, err = svc.Create(ctx, domain.CreateInvoiceRequest{
		Type:      domain.TypeSale,
		LineItems: []domain.LineItemDraft{draft("late", "1", "10")},
	})
	require.NoError(t, err)

	from := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	resp, err := svc.List(ctx, domain.ListInvoiceRequest{DateFrom: &from})
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 1)
}

func TestGetByIDOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)

	inv, err := svc.Create(asAccountant(1), domain.CreateInvoiceRequest{
		Type:      domain.TypeSale,
		LineItems: []domain.LineItemDraft{draft("a", "1", "10")},
	})
	require.NoError(t, err)

	got, err := svc.GetByID(asAccountant(1), inv.ID.String())
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)
	require.Len(t, got.LineItems, 1)

	// row existence is hidden from non-owners
	_, err = svc.GetByID(asAccountant(2), inv.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)

	_, err = svc.GetByID(asAdmin(99), inv.ID.String())
	assert.NoError(t, err)

	_, err = svc.GetByID(asAccountant(1), "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidInvoiceID)
}

func TestUpdateStatusAnyTransition(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := asAccountant(1)

	inv, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		Type:      domain.TypeSale,
		LineItems: []domain.LineItemDraft{draft("a", "1", "10")},
	})
	require.NoError(t, err)

	for _, status := range []domain.InvoiceStatus{
		domain.StatusPaid,
		domain.StatusCancelled,
		domain.StatusPending,
		domain.StatusCancelled,
		domain.StatusPaid,
	} {
		updated, err := svc.UpdateStatus(ctx, inv.ID.String(), status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	_, err = svc.UpdateStatus(ctx, inv.ID.String(), "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestUpdateStatusOwnership(t *testing.T) {
	svc, _, _ := newTestService(t)

	inv, err := svc.Create(asAccountant(1), domain.CreateInvoiceRequest{
		Type:      domain.TypeSale,
		LineItems: []domain.LineItemDraft{draft("a", "1", "10")},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(asAccountant(2), inv.ID.String(), domain.StatusPaid)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}

func TestCreateWithExistingCustomer(t *testing.T) {
	svc, conn, _ := newTestService(t)

	cust := customerdomain.Customer{
		ID:   snowflake.ID(777),
		Code: "acme-777",
		Name: "Acme",
	}
	require.NoError(t, conn.Create(&cust).Error)

	id := cust.ID.String()
	inv, err := svc.Create(asAccountant(1), domain.CreateInvoiceRequest{
		Type:       domain.TypeSale,
		CustomerID: &id,
		LineItems:  []domain.LineItemDraft{draft("a", "1", "10")},
	})
	require.NoError(t, err)
	require.NotNil(t, inv.CustomerID)
	assert.Equal(t, cust.ID, *inv.CustomerID)
}
