package pdf

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvoiceDocument(t *testing.T) {
	p := New()

	out, err := p.GenerateInvoice(context.Background(), InvoiceDocument{
		AppName:        "Hisab",
		InvoiceNumber:  "INV-01HZXYTEST",
		InvoiceDate:    "2025-03-10",
		InvoiceType:    "sale",
		Status:         "pending",
		CustomerName:   "PT Maju Jaya",
		CustomerEmail:  "billing@majujaya.example",
		AccountantName: "Staff Member",
		Notes:          "Payable within 30 days.",
		Items: []InvoiceDocumentItem{
			{Description: "Consulting", Quantity: "2", UnitPrice: "50.00", ExtendedPrice: "100.00"},
			{Description: "Travel", Quantity: "1", UnitPrice: "30.00", ExtendedPrice: "30.00"},
		},
		Subtotal:  "130.00",
		TaxRate:   "15",
		TaxAmount: "19.50",
		Total:     "149.50",
	})
	require.NoError(t, err)

	raw, err := io.ReadAll(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestGenerateReportDocument(t *testing.T) {
	p := New()

	out, err := p.GenerateReport(context.Background(), ReportDocument{
		AppName:        "Hisab",
		Title:          "Summary report (month)",
		PeriodStart:    "2025-03-01",
		PeriodEnd:      "2025-03-31",
		GeneratedAt:    "2025-03-10T12:00:00Z",
		TotalSales:     "300.00",
		TotalPurchases: "80.00",
		NetProfit:      "220.00",
		ByAccountant: []ReportDocumentRow{
			{Label: "Staff Member", Sales: "300.00", Purchases: "80.00"},
		},
		ByMonth: []ReportDocumentRow{
			{Label: "2025-03", Sales: "300.00", Purchases: "80.00"},
		},
	})
	require.NoError(t, err)

	raw, err := io.ReadAll(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}
