package domain

//go:generate mockgen -destination=mocks/service.go -package=mocks github.com/smallbiznis/milkledger/internal/report/domain Service

import (
	"context"
	"errors"
	"time"
)

// ReportRequest selects the records to aggregate. Missing bounds default to
// a window ending today.
type ReportRequest struct {
	From       *time.Time
	To         *time.Time
	CustomerID string
	Rate       float64
}

type Service interface {
	Generate(ctx context.Context, req ReportRequest) (Report, error)
	Export(ctx context.Context, req ReportRequest, format Format) (Document, error)
}

var (
	ErrInvalidRate   = errors.New("rate must be a non-negative number")
	ErrInvalidFormat = errors.New("format must be xlsx or pdf")
)
