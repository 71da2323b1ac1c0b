package domain

//go:generate mockgen -destination=mocks/service.go -package=mocks github.com/smallbiznis/milkledger/internal/customer/domain Service

import (
	"context"
	"errors"
)

type CreateCustomerRequest struct {
	Name         string
	CustomerType string
	DailyAmount  *float64
}

// UpdateCustomerRequest carries a partial update; nil fields keep their stored value.
type UpdateCustomerRequest struct {
	ID           string
	Name         *string
	CustomerType *string
	DailyAmount  *float64
	IsActive     *bool
}

type GetCustomerRequest struct {
	ID string
}

type Service interface {
	ListActive(context.Context) ([]Customer, error)
	ListAll(context.Context) ([]Customer, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID           = errors.New("invalid customer id")
	ErrNotFound            = errors.New("customer not found")
	ErrInvalidName         = errors.New("name is required")
	ErrInvalidCustomerType = errors.New("customerType must be milkman or regular")
	ErrDailyAmountRequired = errors.New("dailyAmount is required for regular customers")
	ErrInvalidDailyAmount  = errors.New("dailyAmount cannot be negative")
	ErrDuplicateName       = errors.New("duplicate name: a customer with this name already exists")
)
