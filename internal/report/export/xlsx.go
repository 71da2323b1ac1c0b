package export

import (
	"context"
	"fmt"

	"github.com/smallbiznis/milkledger/internal/config"
	"github.com/smallbiznis/milkledger/internal/report/domain"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Sheet1"
	recordsSheet = "Records"
)

type XLSXRenderer struct{}

// Render writes the summary and daily breakdown to Sheet1 and one row per
// record to the Records sheet.
func (r *XLSXRenderer) Render(ctx context.Context, report domain.Report, cfg config.ReportConfig) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summary := [][]any{
		{cfg.Title},
		{"From", formatDate(report.Period.From)},
		{"To", formatDate(report.Period.To)},
		{"Total quantity (L)", report.TotalQuantity},
		{"Rate per liter", report.Rate},
		{"Total amount", report.TotalAmount},
		{"Deliveries", report.Deliveries},
		{"Average daily (L)", report.AverageDaily},
		{},
		{"Date", "Quantity (L)", "Deliveries", "Records"},
	}
	for _, day := range report.Daily {
		summary = append(summary, []any{formatDate(day.Date), day.Quantity, day.Deliveries, day.Records})
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(recordsSheet); err != nil {
		return nil, err
	}
	rows := [][]any{{"Date", "Customer", "Type", "Morning (L)", "Evening (L)", "Quantity (L)"}}
	for _, rec := range report.Records {
		customerType := ""
		if rec.Customer != nil {
			customerType = string(rec.Customer.CustomerType)
		}
		rows = append(rows, []any{
			formatDate(rec.Date),
			rec.CustomerName,
			customerType,
			optionalAmount(rec.MorningAmount, cfg),
			optionalAmount(rec.EveningAmount, cfg),
			rec.Quantity,
		})
	}
	if err := writeRows(f, recordsSheet, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
