// Package pricing implements the pure price arithmetic behind invoices.
// Everything here is a function of its inputs: no clamping, no validation,
// no rounding until a caller asks for presentation values.
package pricing

import "github.com/shopspring/decimal"

// Line is one priced entry of an invoice draft.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Totals holds the derived amounts of an invoice. Values are exact until
// Round is applied at the persistence or presentation boundary.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// Extend returns quantity multiplied by unit price. Negative or zero
// quantity is computed as given, the validation boundary sits with the
// caller.
func Extend(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// Compute derives subtotal, tax amount, and grand total for an ordered
// list of lines and a tax rate expressed as a percentage. An empty list
// yields zero totals. Calling it again on unchanged inputs yields
// identical outputs.
func Compute(lines []Line, taxRatePercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(Extend(line.Quantity, line.UnitPrice))
	}

	taxAmount := subtotal.Mul(taxRatePercent).Div(decimal.NewFromInt(100))
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}
}

// Round returns the totals rounded half-up to two decimal places.
func (t Totals) Round() Totals {
	return Totals{
		Subtotal:  t.Subtotal.Round(2),
		TaxAmount: t.TaxAmount.Round(2),
		Total:     t.Total.Round(2),
	}
}
