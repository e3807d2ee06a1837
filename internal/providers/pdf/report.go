package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

func (p *PDFProvider) GenerateReport(ctx context.Context, doc ReportDocument) (io.Reader, error) {
	m := newDocument()

	m.AddRow(12,
		text.NewCol(8, doc.AppName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
		}),
		text.NewCol(4, doc.Title, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(14,
		col.New(12).Add(
			text.New("Period: "+doc.PeriodStart+" to "+doc.PeriodEnd, props.Text{Size: 9}),
			text.New("Generated: "+doc.GeneratedAt, props.Text{Top: 5, Size: 9}),
		),
	)

	m.AddRow(8,
		text.NewCol(4, "Total sales", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Total purchases", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Net profit", props.Text{Style: fontstyle.Bold, Size: 9}),
	)
	m.AddRow(8,
		text.NewCol(4, doc.TotalSales, props.Text{Size: 9}),
		text.NewCol(4, doc.TotalPurchases, props.Text{Size: 9}),
		text.NewCol(4, doc.NetProfit, props.Text{Size: 9}),
	)

	if len(doc.ByAccountant) > 0 {
		m.AddRow(10,
			text.NewCol(12, "By accountant", props.Text{Style: fontstyle.Bold, Size: 11, Top: 3}),
		)
		addBreakdown(m, "Accountant", doc.ByAccountant)
	}

	if len(doc.ByMonth) > 0 {
		m.AddRow(10,
			text.NewCol(12, "By month", props.Text{Style: fontstyle.Bold, Size: 11, Top: 3}),
		)
		addBreakdown(m, "Month", doc.ByMonth)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(out.GetBytes()), nil
}

func addBreakdown(m core.Maroto, label string, rows []ReportDocumentRow) {
	m.AddRow(8,
		text.NewCol(6, label, props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Sales", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Purchases", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, row := range rows {
		m.AddRow(8,
			text.NewCol(6, row.Label, props.Text{Size: 9}),
			text.NewCol(3, row.Sales, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, row.Purchases, props.Text{Size: 9, Align: align.Right}),
		)
	}
}
