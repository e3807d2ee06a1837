package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// LineItemDraft is a line as submitted by the caller. Extended prices are
// recomputed server side, never trusted from the client.
type LineItemDraft struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type CreateInvoiceRequest struct {
	Type        InvoiceType     `json:"type"`
	CustomerID  *string         `json:"customer_id,omitempty"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	InvoiceDate *time.Time      `json:"invoice_date,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	LineItems   []LineItemDraft `json:"line_items"`
}

type ListInvoiceRequest struct {
	Type     *InvoiceType
	Status   *InvoiceStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

type ListInvoiceResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	UpdateStatus(ctx context.Context, id string, status InvoiceStatus) (Invoice, error)
}

var (
	ErrInvalidActor      = errors.New("invalid_actor")
	ErrInvalidInvoiceID  = errors.New("invalid_invoice_id")
	ErrInvalidType       = errors.New("invalid_invoice_type")
	ErrInvalidStatus     = errors.New("invalid_invoice_status")
	ErrInvalidCustomerID = errors.New("invalid_customer_id")
	ErrEmptyDescription  = errors.New("empty_line_description")
	ErrNonPositivePrice  = errors.New("non_positive_unit_price")
	ErrNoLineItems       = errors.New("missing_line_items")
	ErrInvoiceNotFound   = errors.New("invoice_not_found")
	ErrDuplicateNumber   = errors.New("duplicate_invoice_number")
	ErrCustomerNotFound  = errors.New("customer_not_found")
)
