package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/milkledger/internal/clock"
	"github.com/smallbiznis/milkledger/internal/config"
	deliverydomain "github.com/smallbiznis/milkledger/internal/delivery/domain"
	obsmetrics "github.com/smallbiznis/milkledger/internal/observability/metrics"
	"github.com/smallbiznis/milkledger/internal/report/domain"
	"github.com/smallbiznis/milkledger/internal/report/export"
	"github.com/smallbiznis/milkledger/pkg/log/ctxlogger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	Config      *config.ReportConfigHolder
	DeliverySvc deliverydomain.Service
	Exporter    *export.Exporter
	Metrics     *obsmetrics.LedgerMetrics `optional:"true"`
}

type Service struct {
	log         *zap.Logger
	clock       clock.Clock
	config      *config.ReportConfigHolder
	deliverySvc deliverydomain.Service
	exporter    *export.Exporter
	metrics     *obsmetrics.LedgerMetrics
}

func New(p Params) domain.Service {
	return &Service{
		log:         p.Log.Named("report.service"),
		clock:       p.Clock,
		config:      p.Config,
		deliverySvc: p.DeliverySvc,
		exporter:    p.Exporter,
		metrics:     p.Metrics,
	}
}

func (s *Service) Generate(ctx context.Context, req domain.ReportRequest) (domain.Report, error) {
	report, err := s.generate(ctx, req)
	if err != nil {
		return domain.Report{}, err
	}
	s.metrics.ObserveReport(string(domain.FormatJSON), len(report.Records))
	return report, nil
}

func (s *Service) Export(ctx context.Context, req domain.ReportRequest, format domain.Format) (domain.Document, error) {
	if _, ok := domain.ParseFormat(string(format)); !ok {
		return domain.Document{}, domain.ErrInvalidFormat
	}

	report, err := s.generate(ctx, req)
	if err != nil {
		return domain.Document{}, err
	}

	body, err := s.exporter.Render(ctx, report, format, s.config.Get())
	if err != nil {
		return domain.Document{}, err
	}

	s.metrics.ObserveReport(string(format), len(report.Records))
	ctxlogger.WithContext(ctx, s.log).Info("report exported",
		zap.String("format", string(format)),
		zap.Int("records", len(report.Records)),
		zap.Int("bytes", len(body)),
	)
	return domain.Document{
		Filename:    export.Filename(report, format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

func (s *Service) generate(ctx context.Context, req domain.ReportRequest) (domain.Report, error) {
	if req.Rate < 0 || math.IsNaN(req.Rate) || math.IsInf(req.Rate, 0) {
		return domain.Report{}, domain.ErrInvalidRate
	}

	var customerID *snowflake.ID
	if strings.TrimSpace(req.CustomerID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
		if err != nil || id <= 0 {
			return domain.Report{}, deliverydomain.ErrInvalidCustomerID
		}
		customerID = &id
	}

	cfg := s.config.Get()
	loc := s.clock.Location()
	period := s.resolvePeriod(req.From, req.To, cfg.DefaultRangeDays)

	// Inverted periods fall through to an empty report.
	from, to := clock.FromCivil(period.From, loc), clock.FromCivil(period.To, loc)
	records, err := s.deliverySvc.List(ctx, deliverydomain.ListRecordRequest{
		From: &from,
		To:   &to,
	})
	if err != nil {
		return domain.Report{}, fmt.Errorf("list records: %w", err)
	}
	records = domain.Filter(records, period.From, period.To, time.UTC, customerID)

	report := domain.Summarize(records, period, req.Rate)
	report.Title = cfg.Title
	if customerID != nil {
		report.CustomerID = customerID.String()
	}
	return report, nil
}

// resolvePeriod fills missing bounds with a window of rangeDays ending
// today in the business zone, and expresses both as civil dates.
func (s *Service) resolvePeriod(from, to *time.Time, rangeDays int) domain.Period {
	loc := s.clock.Location()

	var end time.Time
	if to != nil {
		end = clock.CivilDate(*to, loc)
	} else {
		end = clock.CivilDate(s.clock.Now(), loc)
	}

	var start time.Time
	if from != nil {
		start = clock.CivilDate(*from, loc)
	} else {
		start = end.AddDate(0, 0, -rangeDays)
	}
	return domain.Period{From: start, To: end}
}
