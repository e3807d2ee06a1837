package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/hisab/internal/actorctx"
	"github.com/smallbiznis/hisab/internal/clock"
	invoicedomain "github.com/smallbiznis/hisab/internal/invoice/domain"
	"github.com/smallbiznis/hisab/internal/report/domain"
	"github.com/smallbiznis/hisab/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newReportService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&invoicedomain.Invoice{}, &invoicedomain.LineItem{}))

	fake := clock.NewFakeClock(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC))
	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		Clock: fake,
	})
	return svc, conn
}

func seedInvoice(t *testing.T, conn *gorm.DB, id, owner int64, invType invoicedomain.InvoiceType, total string, date time.Time) {
	t.Helper()
	row := invoicedomain.Invoice{
		ID:           snowflake.ID(id),
		Number:       "INV-" + snowflake.ID(id).String(),
		Type:         invType,
		AccountantID: snowflake.ID(owner),
		Subtotal:     decimal.RequireFromString(total),
		TaxRate:      decimal.Zero,
		TaxAmount:    decimal.Zero,
		TotalAmount:  decimal.RequireFromString(total),
		Status:       invoicedomain.StatusPending,
		InvoiceDate:  date,
	}
	require.NoError(t, conn.Create(&row).Error)
}

func reportCtx(userID int64, role actorctx.Role) context.Context {
	return actorctx.WithActor(context.Background(), actorctx.Actor{
		UserID: snowflake.ID(userID),
		Role:   role,
	})
}

func TestGenerateRequiresActor(t *testing.T) {
	svc, _ := newReportService(t)
	_, err := svc.Generate(context.Background(), domain.GenerateReportRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidActor)
}

func TestGenerateOwnerScope(t *testing.T) {
	svc, conn := newReportService(t)
	march := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	seedInvoice(t, conn, 1, 10, invoicedomain.TypeSale, "100", march)
	seedInvoice(t, conn, 2, 20, invoicedomain.TypeSale, "500", march)

	own, err := svc.Generate(reportCtx(10, actorctx.RoleAccountant), domain.GenerateReportRequest{Range: "month"})
	require.NoError(t, err)
	assert.Equal(t, "100", own.TotalSales.String())
	assert.Equal(t, 1, own.InvoiceCount)

	all, err := svc.Generate(reportCtx(99, actorctx.RoleAdmin), domain.GenerateReportRequest{Range: "month"})
	require.NoError(t, err)
	assert.Equal(t, "600", all.TotalSales.String())
	assert.Equal(t, 2, all.InvoiceCount)
}

func TestGeneratePresetWindows(t *testing.T) {
	svc, conn := newReportService(t)

	seedInvoice(t, conn, 1, 10, invoicedomain.TypeSale, "100", time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC))
	seedInvoice(t, conn, 2, 10, invoicedomain.TypeSale, "200", time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC))
	seedInvoice(t, conn, 3, 10, invoicedomain.TypeSale, "400", time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC))

	ctx := reportCtx(10, actorctx.RoleAccountant)

	month, err := svc.Generate(ctx, domain.GenerateReportRequest{Range: "month"})
	require.NoError(t, err)
	assert.Equal(t, "100", month.TotalSales.String())

	quarter, err := svc.Generate(ctx, domain.GenerateReportRequest{Range: "quarter"})
	require.NoError(t, err)
	assert.Equal(t, "300", quarter.TotalSales.String())

	year, err := svc.Generate(ctx, domain.GenerateReportRequest{Range: "year"})
	require.NoError(t, err)
	assert.Equal(t, "300", year.TotalSales.String())
}

func TestGenerateCustomInvertedWindow(t *testing.T) {
	svc, conn := newReportService(t)
	seedInvoice(t, conn, 1, 10, invoicedomain.TypeSale, "100", time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC))

	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	summary, err := svc.Generate(reportCtx(10, actorctx.RoleAccountant), domain.GenerateReportRequest{
		Range: "custom",
		Start: &start,
		End:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.InvoiceCount)
	assert.Empty(t, summary.ByMonth)
}

func TestGenerateInvalidInputs(t *testing.T) {
	svc, _ := newReportService(t)
	ctx := reportCtx(10, actorctx.RoleAccountant)

	_, err := svc.Generate(ctx, domain.GenerateReportRequest{Range: "decade"})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = svc.Generate(ctx, domain.GenerateReportRequest{Type: "refund"})
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}
