// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// InvoiceType distinguishes sales from purchases.
type InvoiceType string

const (
	TypeSale     InvoiceType = "sale"
	TypePurchase InvoiceType = "purchase"
)

// InvoiceStatus represents invoice lifecycle states. Any status may move
// to any other status; the transition graph is deliberately unrestricted
// and the last write wins.
type InvoiceStatus string

const (
	StatusPending   InvoiceStatus = "pending"
	StatusPaid      InvoiceStatus = "paid"
	StatusCancelled InvoiceStatus = "cancelled"
)

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s InvoiceStatus) bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// ValidType reports whether t is a known invoice type.
func ValidType(t InvoiceType) bool {
	return t == TypeSale || t == TypePurchase
}

// Invoice is a recorded sale or purchase. Amounts are derived from the
// line items and tax rate at creation time and are immutable afterwards;
// status is the only mutable field.
type Invoice struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	Number       string          `gorm:"type:text;not null;uniqueIndex" json:"number"`
	Type         InvoiceType     `gorm:"type:text;not null;index" json:"type"`
	CustomerID   *snowflake.ID   `gorm:"index" json:"customer_id,omitempty"`
	AccountantID snowflake.ID    `gorm:"not null;index" json:"accountant_id"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"subtotal"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"tax_amount"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	Status       InvoiceStatus   `gorm:"type:text;not null;default:'pending'" json:"status"`
	InvoiceDate  time.Time       `gorm:"not null;index" json:"invoice_date"`
	Notes        string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	LineItems []LineItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// LineItem is one priced entry on an invoice. Items are owned by exactly
// one invoice and written together with the header; Position preserves
// insertion order for display.
type LineItem struct {
	ID            snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID     snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Description   string          `gorm:"type:text;not null" json:"description"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unit_price"`
	ExtendedPrice decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"extended_price"`
	Position      int             `gorm:"not null" json:"position"`
	CreatedAt     time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "invoice_items" }
