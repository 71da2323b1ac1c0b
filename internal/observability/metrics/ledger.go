package metrics

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	ReasonDeadlineExceeded     = "deadline_exceeded"
	ReasonUniqueViolation      = "unique_violation"
	ReasonSerializationFailure = "serialization_failure"
	ReasonLockTimeout          = "db_lock_timeout"
	ReasonConnection           = "connection"
	ReasonUnknown              = "unknown"
)

const (
	ResourceCustomer = "customer"
	ResourceRecord   = "record"
)

const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// LedgerMetrics captures the write and reporting activity of the service.
type LedgerMetrics struct {
	writes            *prometheus.CounterVec
	storeErrors       *prometheus.CounterVec
	deliveredQuantity prometheus.Counter
	reports           *prometheus.CounterVec
	reportRecords     prometheus.Histogram
}

func NewLedgerMetrics(registerer prometheus.Registerer, cfg Config) *LedgerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	labels := cfg.constLabels()

	m := &LedgerMetrics{
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "milkledger_writes_total",
			Help:        "Successful writes by resource and operation.",
			ConstLabels: labels,
		}, []string{"resource", "operation"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "milkledger_store_errors_total",
			Help:        "Store failures by resource and low-cardinality reason.",
			ConstLabels: labels,
		}, []string{"resource", "reason"}),
		deliveredQuantity: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "milkledger_delivered_liters_total",
			Help:        "Liters recorded by newly created delivery records.",
			ConstLabels: labels,
		}),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "milkledger_reports_generated_total",
			Help:        "Reports generated by output format.",
			ConstLabels: labels,
		}, []string{"format"}),
		reportRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "milkledger_report_records",
			Help:        "Records aggregated per generated report.",
			Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
			ConstLabels: labels,
		}),
	}

	registerer.MustRegister(m.writes, m.storeErrors, m.deliveredQuantity, m.reports, m.reportRecords)
	return m
}

func (m *LedgerMetrics) IncWrite(resource, operation string) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(resource, operation).Inc()
}

func (m *LedgerMetrics) IncStoreError(resource string, err error) {
	if m == nil || err == nil {
		return
	}
	m.storeErrors.WithLabelValues(resource, ClassifyStoreError(err)).Inc()
}

func (m *LedgerMetrics) AddDelivered(quantity float64) {
	if m == nil || quantity <= 0 {
		return
	}
	m.deliveredQuantity.Add(quantity)
}

func (m *LedgerMetrics) ObserveReport(format string, records int) {
	if m == nil {
		return
	}
	format = strings.TrimSpace(format)
	if format == "" {
		format = "json"
	}
	m.reports.WithLabelValues(format).Inc()
	m.reportRecords.Observe(float64(records))
}

// ClassifyStoreError maps driver errors to a bounded set of reasons.
func ClassifyStoreError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonDeadlineExceeded
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ReasonUniqueViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ReasonUniqueViolation
		case "40001":
			return ReasonSerializationFailure
		case "55P03":
			return ReasonLockTimeout
		case "08000", "08003", "08006":
			return ReasonConnection
		}
	}
	return ReasonUnknown
}
