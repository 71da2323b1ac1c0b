package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smallbiznis/milkledger/internal/clock"
	"github.com/smallbiznis/milkledger/internal/config"
	customerdomain "github.com/smallbiznis/milkledger/internal/customer/domain"
	deliverydomain "github.com/smallbiznis/milkledger/internal/delivery/domain"
	obsmetrics "github.com/smallbiznis/milkledger/internal/observability/metrics"
	"github.com/smallbiznis/milkledger/internal/report/domain"
	"github.com/smallbiznis/milkledger/internal/report/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type deliveryMock struct {
	mock.Mock
}

func (m *deliveryMock) List(ctx context.Context, req deliverydomain.ListRecordRequest) ([]deliverydomain.Record, error) {
	args := m.Called(ctx, req)
	records, _ := args.Get(0).([]deliverydomain.Record)
	return records, args.Error(1)
}

func (m *deliveryMock) Create(ctx context.Context, req deliverydomain.CreateRecordRequest) (deliverydomain.Record, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(deliverydomain.Record), args.Error(1)
}

func (m *deliveryMock) Update(ctx context.Context, req deliverydomain.UpdateRecordRequest) (deliverydomain.Record, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(deliverydomain.Record), args.Error(1)
}

func (m *deliveryMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newService(t *testing.T, delivery *deliveryMock, loc *time.Location) (domain.Service, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	svc := New(Params{
		Log:         zaptest.NewLogger(t),
		Clock:       clock.NewFakeClock(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), loc),
		Config:      config.NewStaticReportConfigHolder(config.DefaultReportConfig()),
		DeliverySvc: delivery,
		Exporter:    export.New(),
		Metrics:     obsmetrics.NewLedgerMetrics(registry, obsmetrics.Config{}),
	})
	return svc, registry
}

func record(customerID snowflake.ID, date time.Time, quantity float64) deliverydomain.Record {
	return deliverydomain.Record{
		ID:           customerID * 100,
		CustomerID:   customerID,
		Customer:     &deliverydomain.CustomerRef{ID: customerID, Name: "c", CustomerType: customerdomain.CustomerTypeRegular, DailyAmount: quantity, IsActive: true},
		CustomerName: "c",
		Date:         date,
		Quantity:     quantity,
	}
}

func TestGenerateDefaultsToRecentWindow(t *testing.T) {
	delivery := new(deliveryMock)
	svc, registry := newService(t, delivery, time.UTC)

	from := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	delivery.On("List", mock.Anything, mock.MatchedBy(func(req deliverydomain.ListRecordRequest) bool {
		return req.From != nil && req.From.Equal(from) && req.To != nil && req.To.Equal(to) && req.Date == nil
	})).Return([]deliverydomain.Record{
		record(1, to, 2),
		record(2, from, 1.5),
	}, nil)

	report, err := svc.Generate(context.Background(), domain.ReportRequest{Rate: 60})
	require.NoError(t, err)

	assert.Equal(t, "Milk Delivery Report", report.Title)
	assert.Equal(t, domain.Period{From: from, To: to}, report.Period)
	assert.Equal(t, 3.5, report.TotalQuantity)
	assert.Equal(t, 210.0, report.TotalAmount)
	assert.Equal(t, 0.44, report.AverageDaily)
	assert.Equal(t, 2, report.Deliveries)
	series, err := testutil.GatherAndCount(registry, "milkledger_reports_generated_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
	delivery.AssertExpectations(t)
}

func TestGenerateFiltersByCustomer(t *testing.T) {
	delivery := new(deliveryMock)
	svc, _ := newService(t, delivery, time.UTC)

	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	delivery.On("List", mock.Anything, mock.Anything).Return([]deliverydomain.Record{
		record(1, day, 2),
		record(2, day, 4),
	}, nil)

	report, err := svc.Generate(context.Background(), domain.ReportRequest{CustomerID: "2"})
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.Equal(t, snowflake.ID(2), report.Records[0].CustomerID)
	assert.Equal(t, "2", report.CustomerID)
	assert.Zero(t, report.TotalAmount)
}

func TestGenerateValidation(t *testing.T) {
	delivery := new(deliveryMock)
	svc, _ := newService(t, delivery, time.UTC)

	for _, rate := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := svc.Generate(context.Background(), domain.ReportRequest{Rate: rate})
		assert.ErrorIs(t, err, domain.ErrInvalidRate, "rate %v", rate)

		_, err = svc.Export(context.Background(), domain.ReportRequest{Rate: rate}, domain.FormatXLSX)
		assert.ErrorIs(t, err, domain.ErrInvalidRate, "rate %v", rate)
	}

	_, err := svc.Generate(context.Background(), domain.ReportRequest{CustomerID: "abc"})
	assert.ErrorIs(t, err, deliverydomain.ErrInvalidCustomerID)

	_, err = svc.Export(context.Background(), domain.ReportRequest{}, domain.FormatJSON)
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)

	delivery.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestGeneratePropagatesStoreErrors(t *testing.T) {
	delivery := new(deliveryMock)
	svc, _ := newService(t, delivery, time.UTC)
	boom := errors.New("connection refused")
	delivery.On("List", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := svc.Generate(context.Background(), domain.ReportRequest{})
	assert.ErrorIs(t, err, boom)
}

func TestGenerateUsesBusinessZoneBounds(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	delivery := new(deliveryMock)
	svc, _ := newService(t, delivery, ny)

	from := time.Date(2024, 1, 2, 0, 0, 0, 0, ny)
	to := time.Date(2024, 1, 4, 0, 0, 0, 0, ny)
	delivery.On("List", mock.Anything, mock.MatchedBy(func(req deliverydomain.ListRecordRequest) bool {
		return req.From.Equal(from) && req.To.Equal(to)
	})).Return([]deliverydomain.Record{record(1, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), 1)}, nil)

	report, err := svc.Generate(context.Background(), domain.ReportRequest{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), report.Period.From)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), report.Period.To)
	assert.Len(t, report.Records, 1)
}

func TestExportXLSX(t *testing.T) {
	delivery := new(deliveryMock)
	svc, _ := newService(t, delivery, time.UTC)
	delivery.On("List", mock.Anything, mock.Anything).Return([]deliverydomain.Record{
		record(1, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), 1),
	}, nil)

	doc, err := svc.Export(context.Background(), domain.ReportRequest{}, domain.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "milk-report_2024-01-03_2024-01-10.xlsx", doc.Filename)
	assert.Equal(t, domain.FormatXLSX.ContentType(), doc.ContentType)
	assert.NotEmpty(t, doc.Body)
}
