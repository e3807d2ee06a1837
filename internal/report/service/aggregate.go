package service

import (
	"sort"

	"github.com/shopspring/decimal"
	invoicedomain "github.com/smallbiznis/hisab/internal/invoice/domain"
	"github.com/smallbiznis/hisab/internal/report/domain"
)

type bucket struct {
	sales     decimal.Decimal
	purchases decimal.Decimal
}

func (b bucket) add(invoiceType invoicedomain.InvoiceType, amount decimal.Decimal) bucket {
	if invoiceType == invoicedomain.TypeSale {
		b.sales = b.sales.Add(amount)
	} else {
		b.purchases = b.purchases.Add(amount)
	}
	return b
}

// Aggregate rolls a set of invoices up into a report summary. It filters
// by type and window, sums sales and purchases, and groups by accountant
// identity and by calendar month. A row with a missing date or owner is
// kept in the ungrouped totals but left out of the bucket it cannot be
// placed in. Month buckets are sorted chronologically ascending.
func Aggregate(invoices []invoicedomain.Invoice, filter domain.TypeFilter, window domain.Window) domain.Summary {
	summary := domain.Summary{
		TotalSales:     decimal.Zero,
		TotalPurchases: decimal.Zero,
		NetProfit:      decimal.Zero,
		ByAccountant:   []domain.AccountantTotals{},
		ByMonth:        []domain.MonthTotals{},
	}
	if window.Empty() {
		return summary
	}

	byAccountant := make(map[string]bucket)
	byMonth := make(map[string]bucket)

	for _, invoice := range invoices {
		if filter == domain.FilterSale && invoice.Type != invoicedomain.TypeSale {
			continue
		}
		if filter == domain.FilterPurchase && invoice.Type != invoicedomain.TypePurchase {
			continue
		}
		if !invoice.InvoiceDate.IsZero() && !window.Contains(invoice.InvoiceDate) {
			continue
		}

		summary.InvoiceCount++
		if invoice.Type == invoicedomain.TypeSale {
			summary.TotalSales = summary.TotalSales.Add(invoice.TotalAmount)
		} else {
			summary.TotalPurchases = summary.TotalPurchases.Add(invoice.TotalAmount)
		}

		if invoice.AccountantID != 0 {
			key := invoice.AccountantID.String()
			byAccountant[key] = byAccountant[key].add(invoice.Type, invoice.TotalAmount)
		}
		if !invoice.InvoiceDate.IsZero() {
			key := invoice.InvoiceDate.UTC().Format("2006-01")
			byMonth[key] = byMonth[key].add(invoice.Type, invoice.TotalAmount)
		}
	}

	summary.NetProfit = summary.TotalSales.Sub(summary.TotalPurchases)

	for id, totals := range byAccountant {
		summary.ByAccountant = append(summary.ByAccountant, domain.AccountantTotals{
			AccountantID: id,
			Sales:        totals.sales,
			Purchases:    totals.purchases,
		})
	}
	sort.Slice(summary.ByAccountant, func(i, j int) bool {
		return summary.ByAccountant[i].AccountantID < summary.ByAccountant[j].AccountantID
	})

	for month, totals := range byMonth {
		summary.ByMonth = append(summary.ByMonth, domain.MonthTotals{
			Month:     month,
			Sales:     totals.sales,
			Purchases: totals.purchases,
		})
	}
	// chart consumers rely on ascending order
	sort.Slice(summary.ByMonth, func(i, j int) bool {
		return summary.ByMonth[i].Month < summary.ByMonth[j].Month
	})

	return summary
}
