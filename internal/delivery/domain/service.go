package domain

//go:generate mockgen -destination=mocks/service.go -package=mocks github.com/smallbiznis/milkledger/internal/delivery/domain Service

import (
	"context"
	"errors"
	"time"
)

// ListRecordRequest selects records by a single day or by an inclusive
// From/To range. Date takes precedence when set.
type ListRecordRequest struct {
	Date       *time.Time
	From       *time.Time
	To         *time.Time
	CustomerID string
}

type CreateRecordRequest struct {
	CustomerID    string
	Date          time.Time
	MorningAmount *float64
	EveningAmount *float64
}

// UpdateRecordRequest changes only the amounts. A nil amount is left as is
// and a zero amount clears the stored value.
type UpdateRecordRequest struct {
	ID            string
	MorningAmount *float64
	EveningAmount *float64
}

type Service interface {
	List(context.Context, ListRecordRequest) ([]Record, error)
	Create(context.Context, CreateRecordRequest) (Record, error)
	Update(context.Context, UpdateRecordRequest) (Record, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID                  = errors.New("invalid record id")
	ErrInvalidCustomerID          = errors.New("invalid customer id")
	ErrInvalidDate                = errors.New("date is required")
	ErrMalformedDate              = errors.New("date must be YYYY-MM-DD or RFC3339")
	ErrInvalidAmount              = errors.New("amounts cannot be negative")
	ErrCustomerNotFoundOrInactive = errors.New("customer not found or inactive")
	ErrNotFound                   = errors.New("record not found")
)
