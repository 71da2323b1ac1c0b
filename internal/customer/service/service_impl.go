package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/milkledger/internal/clock"
	"github.com/smallbiznis/milkledger/internal/customer/domain"
	obsmetrics "github.com/smallbiznis/milkledger/internal/observability/metrics"
	"github.com/smallbiznis/milkledger/pkg/db"
	"github.com/smallbiznis/milkledger/pkg/log/ctxlogger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Metrics *obsmetrics.LedgerMetrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	metrics *obsmetrics.LedgerMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("customer.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) ListActive(ctx context.Context) ([]domain.Customer, error) {
	return s.list(ctx, domain.ListCustomerFilter{ActiveOnly: true})
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Customer, error) {
	return s.list(ctx, domain.ListCustomerFilter{})
}

func (s *Service) list(ctx context.Context, filter domain.ListCustomerFilter) ([]domain.Customer, error) {
	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}
	return customers, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("find customer: %w", err)
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	customerType, ok := domain.ParseCustomerType(req.CustomerType)
	if !ok {
		return domain.Customer{}, domain.ErrInvalidCustomerType
	}

	dailyAmount, err := resolveDailyAmount(customerType, req.DailyAmount, true)
	if err != nil {
		return domain.Customer{}, err
	}

	nameKey := domain.NameKey(name)
	if err := s.ensureUniqueName(ctx, nameKey, 0); err != nil {
		return domain.Customer{}, err
	}

	now := s.clock.Now().UTC()
	customer := domain.Customer{
		ID:           s.genID.Generate(),
		Name:         name,
		NameKey:      nameKey,
		CustomerType: customerType,
		DailyAmount:  dailyAmount,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrDuplicateName
		}
		s.metrics.IncStoreError(obsmetrics.ResourceCustomer, err)
		return domain.Customer{}, fmt.Errorf("insert customer: %w", err)
	}

	s.metrics.IncWrite(obsmetrics.ResourceCustomer, obsmetrics.OperationCreate)
	ctxlogger.WithContext(ctx, s.log).Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("customer_type", string(customer.CustomerType)),
	)
	return customer, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("find customer: %w", err)
	}
	if existing == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Customer{}, domain.ErrInvalidName
		}
		updated.Name = name
		updated.NameKey = domain.NameKey(name)
	}
	if req.CustomerType != nil {
		customerType, ok := domain.ParseCustomerType(*req.CustomerType)
		if !ok {
			return domain.Customer{}, domain.ErrInvalidCustomerType
		}
		updated.CustomerType = customerType
	}
	if req.DailyAmount != nil {
		updated.DailyAmount = *req.DailyAmount
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}

	// The milkman rule applies to the resulting combination, not just the submitted fields.
	updated.DailyAmount, err = resolveDailyAmount(updated.CustomerType, &updated.DailyAmount, false)
	if err != nil {
		return domain.Customer{}, err
	}

	if updated.NameKey != existing.NameKey {
		if err := s.ensureUniqueName(ctx, updated.NameKey, id); err != nil {
			return domain.Customer{}, err
		}
	}

	updated.UpdatedAt = s.clock.Now().UTC()
	rows, err := s.repo.Update(ctx, s.db, &updated)
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrDuplicateName
		}
		s.metrics.IncStoreError(obsmetrics.ResourceCustomer, err)
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	if rows == 0 {
		return domain.Customer{}, domain.ErrNotFound
	}

	s.metrics.IncWrite(obsmetrics.ResourceCustomer, obsmetrics.OperationUpdate)
	return updated, nil
}

// Delete hard-removes the customer. Delivery records that reference it are
// left in place and drop out of joined reads.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := s.parseID(rawID)
	if err != nil {
		return err
	}

	rows, err := s.repo.Delete(ctx, s.db, id)
	if err != nil {
		s.metrics.IncStoreError(obsmetrics.ResourceCustomer, err)
		return fmt.Errorf("delete customer: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	s.metrics.IncWrite(obsmetrics.ResourceCustomer, obsmetrics.OperationDelete)
	ctxlogger.WithContext(ctx, s.log).Info("customer deleted", zap.String("customer_id", id.String()))
	return nil
}

func (s *Service) ensureUniqueName(ctx context.Context, nameKey string, excludeID snowflake.ID) error {
	dup, err := s.repo.FindByNameKey(ctx, s.db, nameKey, excludeID)
	if err != nil {
		return fmt.Errorf("check customer name: %w", err)
	}
	if dup != nil {
		return domain.ErrDuplicateName
	}
	return nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// resolveDailyAmount forces milkman customers to zero and validates the
// amount of regular customers.
func resolveDailyAmount(customerType domain.CustomerType, amount *float64, required bool) (float64, error) {
	if customerType == domain.CustomerTypeMilkman {
		return 0, nil
	}
	if amount == nil {
		if required {
			return 0, domain.ErrDailyAmountRequired
		}
		return 0, nil
	}
	if *amount < 0 {
		return 0, domain.ErrInvalidDailyAmount
	}
	return *amount, nil
}
