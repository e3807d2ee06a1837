// Package domain defines the report aggregation contract. A summary is
// derived on demand and never persisted.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TypeFilter restricts a report to one invoice type.
type TypeFilter string

const (
	FilterAll      TypeFilter = "all"
	FilterSale     TypeFilter = "sale"
	FilterPurchase TypeFilter = "purchase"
)

// ValidTypeFilter reports whether f is a known filter.
func ValidTypeFilter(f TypeFilter) bool {
	switch f {
	case FilterAll, FilterSale, FilterPurchase:
		return true
	}
	return false
}

// AccountantTotals is one accountant's share of the report. The key is
// the accountant's opaque identity; display names are resolved at
// presentation time so two accountants with the same name never merge.
type AccountantTotals struct {
	AccountantID string          `json:"accountant_id"`
	Sales        decimal.Decimal `json:"sales"`
	Purchases    decimal.Decimal `json:"purchases"`
}

// MonthTotals is one calendar month's share of the report. Month is a
// "2006-01" label; buckets are always chronologically ascending.
type MonthTotals struct {
	Month     string          `json:"month"`
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
}

// Summary is the aggregated view of a set of invoices over a window.
type Summary struct {
	TotalSales     decimal.Decimal    `json:"total_sales"`
	TotalPurchases decimal.Decimal    `json:"total_purchases"`
	NetProfit      decimal.Decimal    `json:"net_profit"`
	InvoiceCount   int                `json:"invoice_count"`
	ByAccountant   []AccountantTotals `json:"by_accountant"`
	ByMonth        []MonthTotals      `json:"by_month"`
}

type GenerateReportRequest struct {
	Range string     // "month", "quarter", "year", or "custom"
	Start *time.Time // custom window start, inclusive
	End   *time.Time // custom window end, inclusive
	Type  TypeFilter
}

type Service interface {
	Generate(ctx context.Context, req GenerateReportRequest) (Summary, error)
}

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidRange  = errors.New("invalid_range")
	ErrInvalidFilter = errors.New("invalid_type_filter")
)
