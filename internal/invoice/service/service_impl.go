package service

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/hisab/internal/actorctx"
	"github.com/smallbiznis/hisab/internal/clock"
	"github.com/smallbiznis/hisab/internal/invoice/domain"
	"github.com/smallbiznis/hisab/internal/invoice/pricing"
	"github.com/smallbiznis/hisab/pkg/db"
	"github.com/smallbiznis/hisab/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const numberPrefix = "INV-"

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Metrics *telemetry.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	metrics *telemetry.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("invoice.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		metrics: p.Metrics,
	}
}

// Create validates the draft, recomputes all derived amounts, and writes
// the header and its items in one transaction so a failed items write can
// never leave an orphaned header behind.
func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return domain.Invoice{}, domain.ErrInvalidActor
	}

	if !domain.ValidType(req.Type) {
		return domain.Invoice{}, domain.ErrInvalidType
	}
	if len(req.LineItems) == 0 {
		return domain.Invoice{}, domain.ErrNoLineItems
	}
	for _, line := range req.LineItems {
		if strings.TrimSpace(line.Description) == "" {
			return domain.Invoice{}, domain.ErrEmptyDescription
		}
		if !line.UnitPrice.IsPositive() {
			return domain.Invoice{}, domain.ErrNonPositivePrice
		}
	}

	var customerID *snowflake.ID
	if req.CustomerID != nil && strings.TrimSpace(*req.CustomerID) != "" {
		parsed, err := snowflake.ParseString(strings.TrimSpace(*req.CustomerID))
		if err != nil {
			return domain.Invoice{}, domain.ErrInvalidCustomerID
		}
		customerID = &parsed
	}

	lines := make([]pricing.Line, 0, len(req.LineItems))
	for _, line := range req.LineItems {
		lines = append(lines, pricing.Line{Quantity: line.Quantity, UnitPrice: line.UnitPrice})
	}
	totals := pricing.Compute(lines, clampTaxRate(req.TaxRate)).Round()

	now := s.clock.Now()
	invoiceDate := dateOnly(now)
	if req.InvoiceDate != nil {
		invoiceDate = dateOnly(*req.InvoiceDate)
	}

	invoice := domain.Invoice{
		ID:           s.genID.Generate(),
		Number:       s.nextNumber(now),
		Type:         req.Type,
		CustomerID:   customerID,
		AccountantID: actor.UserID,
		Subtotal:     totals.Subtotal,
		TaxRate:      clampTaxRate(req.TaxRate),
		TaxAmount:    totals.TaxAmount,
		TotalAmount:  totals.Total,
		Status:       domain.StatusPending,
		InvoiceDate:  invoiceDate,
		Notes:        strings.TrimSpace(req.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Header totals round the exact sum once; line amounts are rounded
	// per line for display. With sub-cent extensions the stored line
	// amounts may add up a cent away from the subtotal.
	items := make([]domain.LineItem, 0, len(req.LineItems))
	for i, line := range req.LineItems {
		items = append(items, domain.LineItem{
			ID:            s.genID.Generate(),
			InvoiceID:     invoice.ID,
			Description:   strings.TrimSpace(line.Description),
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			ExtendedPrice: pricing.Extend(line.Quantity, line.UnitPrice).Round(2),
			Position:      i,
			CreatedAt:     now,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if customerID != nil {
			var found snowflake.ID
			if err := tx.WithContext(ctx).Raw(
				`SELECT id FROM customers WHERE id = ?`,
				*customerID,
			).Scan(&found).Error; err != nil {
				return err
			}
			if found == 0 {
				return domain.ErrCustomerNotFound
			}
		}

		if err := tx.WithContext(ctx).Create(&invoice).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).Create(&items).Error
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Invoice{}, domain.ErrDuplicateNumber
		}
		return domain.Invoice{}, err
	}

	if s.metrics != nil {
		total, _ := invoice.TotalAmount.Float64()
		s.metrics.ObserveInvoiceCreated(string(invoice.Type), total)
	}
	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("type", string(invoice.Type)),
	)

	invoice.LineItems = items
	return invoice, nil
}

// List returns invoices visible to the caller, newest first. Non-admin
// callers are pre-filtered to their own rows before anything is read.
func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return domain.ListInvoiceResponse{}, domain.ErrInvalidActor
	}

	query := s.db.WithContext(ctx).Model(&domain.Invoice{})
	if !actor.IsAdmin() {
		query = query.Where("accountant_id = ?", actor.UserID)
	}
	if req.Type != nil {
		if !domain.ValidType(*req.Type) {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidType
		}
		query = query.Where("type = ?", *req.Type)
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidStatus
		}
		query = query.Where("status = ?", *req.Status)
	}
	if req.DateFrom != nil {
		query = query.Where("invoice_date >= ?", dateOnly(*req.DateFrom))
	}
	if req.DateTo != nil {
		query = query.Where("invoice_date <= ?", dateOnly(*req.DateTo))
	}

	var invoices []domain.Invoice
	if err := query.Order("invoice_date DESC, id DESC").Find(&invoices).Error; err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	return domain.ListInvoiceResponse{Invoices: invoices}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return domain.Invoice{}, domain.ErrInvalidActor
	}

	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidInvoiceID
	}

	var invoice domain.Invoice
	err = s.db.WithContext(ctx).
		Preload("LineItems", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		First(&invoice, "id = ?", invoiceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Invoice{}, domain.ErrInvoiceNotFound
		}
		return domain.Invoice{}, err
	}

	if !actor.IsAdmin() && invoice.AccountantID != actor.UserID {
		// hide the row's existence from non-owners
		return domain.Invoice{}, domain.ErrInvoiceNotFound
	}

	return invoice, nil
}

// UpdateStatus moves the invoice to the requested status. Every state may
// reach every other state; the last write wins.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus) (domain.Invoice, error) {
	if !domain.ValidStatus(status) {
		return domain.Invoice{}, domain.ErrInvalidStatus
	}

	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}

	now := s.clock.Now()
	if err := s.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": now,
		}).Error; err != nil {
		return domain.Invoice{}, err
	}

	if s.metrics != nil {
		s.metrics.ObserveStatusChange(string(status))
	}
	s.log.Info("invoice status updated",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("from", string(invoice.Status)),
		zap.String("to", string(status)),
	)

	invoice.Status = status
	invoice.UpdatedAt = now
	return invoice, nil
}

// nextNumber derives a unique, time-ordered display number from a ULID.
func (s *Service) nextNumber(now time.Time) string {
	return numberPrefix + ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
}

func clampTaxRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsNegative() {
		return decimal.Zero
	}
	if limit := decimal.NewFromInt(100); rate.GreaterThan(limit) {
		return limit
	}
	return rate
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
