package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

type InvoiceDocument struct {
	AppName       string
	InvoiceNumber string
	InvoiceDate   string
	InvoiceType   string
	Status        string

	CustomerName    string
	CustomerAddress string
	CustomerEmail   string

	AccountantName string
	Notes          string

	Items []InvoiceDocumentItem

	Subtotal  string
	TaxRate   string
	TaxAmount string
	Total     string
}

type InvoiceDocumentItem struct {
	Description   string
	Quantity      string
	UnitPrice     string
	ExtendedPrice string
}

type ReportDocument struct {
	AppName     string
	Title       string
	PeriodStart string
	PeriodEnd   string
	GeneratedAt string

	TotalSales     string
	TotalPurchases string
	NetProfit      string

	ByAccountant []ReportDocumentRow
	ByMonth      []ReportDocumentRow
}

// ReportDocumentRow is one breakdown line, keyed by accountant or month.
type ReportDocumentRow struct {
	Label     string
	Sales     string
	Purchases string
}

type Provider interface {
	GenerateInvoice(ctx context.Context, doc InvoiceDocument) (io.Reader, error)
	GenerateReport(ctx context.Context, doc ReportDocument) (io.Reader, error)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
