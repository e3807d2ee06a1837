package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()
	return maroto.New(cfg)
}

func (p *PDFProvider) GenerateInvoice(ctx context.Context, doc InvoiceDocument) (io.Reader, error) {
	m := newDocument()

	m.AddRow(12,
		text.NewCol(8, doc.AppName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
		}),
		text.NewCol(4, "Invoice", props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(22,
		col.New(6).Add(
			text.New("Invoice number: "+doc.InvoiceNumber, props.Text{Top: 0, Size: 9}),
			text.New("Invoice date: "+doc.InvoiceDate, props.Text{Top: 5, Size: 9}),
			text.New("Type: "+doc.InvoiceType, props.Text{Top: 10, Size: 9}),
			text.New("Status: "+doc.Status, props.Text{Top: 15, Size: 9}),
		),
		col.New(6).Add(
			text.New("Prepared by", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(doc.AccountantName, props.Text{Top: 5, Size: 9}),
		),
	)

	if doc.CustomerName != "" {
		m.AddRow(22,
			col.New(6).Add(
				text.New("Bill to", props.Text{Style: fontstyle.Bold, Size: 9}),
				text.New(doc.CustomerName, props.Text{Top: 5, Size: 9}),
				text.New(doc.CustomerAddress, props.Text{Top: 10, Size: 9}),
				text.New(doc.CustomerEmail, props.Text{Top: 15, Size: 9}),
			),
			col.New(6),
		)
	}

	m.AddRow(8,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range doc.Items {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, item.Quantity, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.ExtendedPrice, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, doc.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Tax ("+doc.TaxRate+"%)", props.Text{Size: 9}),
		text.NewCol(2, doc.TaxAmount, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, doc.Total, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	if doc.Notes != "" {
		m.AddRow(14,
			text.NewCol(12, "Notes: "+doc.Notes, props.Text{Size: 8, Top: 4}),
		)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(out.GetBytes()), nil
}
