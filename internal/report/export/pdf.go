package export

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	marotoconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/milkledger/internal/config"
	"github.com/smallbiznis/milkledger/internal/report/domain"
)

type PDFRenderer struct{}

func (r *PDFRenderer) Render(ctx context.Context, report domain.Report, cfg config.ReportConfig) ([]byte, error) {
	builder := marotoconfig.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(builder)

	m.AddRow(15,
		text.NewCol(12, cfg.Title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New("Period: "+formatDate(report.Period.From)+" to "+formatDate(report.Period.To), props.Text{Top: 0}),
			text.New("Deliveries: "+fmt.Sprintf("%d", report.Deliveries), props.Text{Top: 5}),
			text.New("Average daily: "+formatQuantity(report.AverageDaily, cfg)+" L", props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Total quantity: "+formatQuantity(report.TotalQuantity, cfg)+" L", props.Text{Top: 0, Align: align.Right}),
			text.New("Rate: "+formatMoney(report.Rate), props.Text{Top: 5, Align: align.Right}),
			text.New("Total amount: "+formatMoney(report.TotalAmount), props.Text{Top: 10, Style: fontstyle.Bold, Align: align.Right}),
		),
	)

	header := props.Text{Style: fontstyle.Bold, Size: 9}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}
	cell := props.Text{Size: 9}
	cellRight := props.Text{Size: 9, Align: align.Right}

	// Daily totals
	m.AddRow(10,
		text.NewCol(6, "Date", header),
		text.NewCol(2, "Quantity", headerRight),
		text.NewCol(2, "Deliveries", headerRight),
		text.NewCol(2, "Records", headerRight),
	)
	for _, day := range report.Daily {
		m.AddRow(7,
			text.NewCol(6, formatDate(day.Date), cell),
			text.NewCol(2, formatQuantity(day.Quantity, cfg), cellRight),
			text.NewCol(2, fmt.Sprintf("%d", day.Deliveries), cellRight),
			text.NewCol(2, fmt.Sprintf("%d", day.Records), cellRight),
		)
	}

	// Records
	m.AddRow(14,
		text.NewCol(3, "Date", props.Text{Style: fontstyle.Bold, Size: 9, Top: 6}),
		text.NewCol(3, "Customer", props.Text{Style: fontstyle.Bold, Size: 9, Top: 6}),
		text.NewCol(2, "Morning", props.Text{Style: fontstyle.Bold, Size: 9, Top: 6, Align: align.Right}),
		text.NewCol(2, "Evening", props.Text{Style: fontstyle.Bold, Size: 9, Top: 6, Align: align.Right}),
		text.NewCol(2, "Quantity", props.Text{Style: fontstyle.Bold, Size: 9, Top: 6, Align: align.Right}),
	)
	for _, rec := range report.Records {
		m.AddRow(7,
			text.NewCol(3, formatDate(rec.Date), cell),
			text.NewCol(3, rec.CustomerName, cell),
			text.NewCol(2, optionalAmount(rec.MorningAmount, cfg), cellRight),
			text.NewCol(2, optionalAmount(rec.EveningAmount, cfg), cellRight),
			text.NewCol(2, formatQuantity(rec.Quantity, cfg), cellRight),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
