package export

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/smallbiznis/milkledger/internal/config"
	"github.com/smallbiznis/milkledger/internal/report/domain"
)

const dateLayout = "2006-01-02"

type Renderer interface {
	Render(ctx context.Context, report domain.Report, cfg config.ReportConfig) ([]byte, error)
}

// Exporter dispatches a report to the renderer registered for a format.
type Exporter struct {
	renderers map[domain.Format]Renderer
}

func New() *Exporter {
	return &Exporter{
		renderers: map[domain.Format]Renderer{
			domain.FormatXLSX: &XLSXRenderer{},
			domain.FormatPDF:  &PDFRenderer{},
		},
	}
}

func (e *Exporter) Render(ctx context.Context, report domain.Report, format domain.Format, cfg config.ReportConfig) ([]byte, error) {
	renderer, ok := e.renderers[format]
	if !ok {
		return nil, domain.ErrInvalidFormat
	}
	body, err := renderer.Render(ctx, report, cfg)
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", format, err)
	}
	return body, nil
}

// Filename names a download after its period.
func Filename(report domain.Report, format domain.Format) string {
	return fmt.Sprintf("milk-report_%s_%s.%s",
		report.Period.From.Format(dateLayout),
		report.Period.To.Format(dateLayout),
		format,
	)
}

func formatQuantity(v float64, cfg config.ReportConfig) string {
	return strconv.FormatFloat(v, 'f', cfg.QuantityDecimals, 64)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func optionalAmount(v *float64, cfg config.ReportConfig) string {
	if v == nil {
		return ""
	}
	return formatQuantity(*v, cfg)
}
