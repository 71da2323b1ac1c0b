package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/milkledger/internal/clock"
	customerdomain "github.com/smallbiznis/milkledger/internal/customer/domain"
	"github.com/smallbiznis/milkledger/internal/delivery/domain"
	obsmetrics "github.com/smallbiznis/milkledger/internal/observability/metrics"
	"github.com/smallbiznis/milkledger/pkg/log/ctxlogger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	CustomerSvc customerdomain.Service
	Metrics     *obsmetrics.LedgerMetrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	customerSvc customerdomain.Service
	metrics     *obsmetrics.LedgerMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("delivery.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		customerSvc: p.CustomerSvc,
		metrics:     p.Metrics,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRecordRequest) ([]domain.Record, error) {
	loc := s.clock.Location()
	filter := domain.ListRecordFilter{}

	from, to := req.From, req.To
	if req.Date != nil {
		from, to = req.Date, req.Date
	}
	if from != nil {
		start := clock.CivilDate(*from, loc)
		filter.From = &start
	}
	if to != nil {
		end := clock.EndOfDay(clock.CivilDate(*to, loc), time.UTC)
		filter.To = &end
	}

	if strings.TrimSpace(req.CustomerID) != "" {
		customerID, err := parseID(req.CustomerID, domain.ErrInvalidCustomerID)
		if err != nil {
			return nil, err
		}
		filter.CustomerID = &customerID
	}

	rows, err := s.repo.ListJoined(ctx, s.db, filter)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Record())
	}
	return records, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRecordRequest) (domain.Record, error) {
	customerID, err := parseID(req.CustomerID, domain.ErrInvalidCustomerID)
	if err != nil {
		return domain.Record{}, err
	}
	if req.Date.IsZero() {
		return domain.Record{}, domain.ErrInvalidDate
	}
	if err := validateAmounts(req.MorningAmount, req.EveningAmount); err != nil {
		return domain.Record{}, err
	}

	// Lookup and insert are separate statements; a customer deactivated in
	// between still receives the record.
	customer, err := s.customerSvc.GetByID(ctx, customerdomain.GetCustomerRequest{ID: customerID.String()})
	if err != nil {
		if errors.Is(err, customerdomain.ErrNotFound) {
			return domain.Record{}, domain.ErrCustomerNotFoundOrInactive
		}
		return domain.Record{}, err
	}
	if !customer.IsActive {
		return domain.Record{}, domain.ErrCustomerNotFoundOrInactive
	}

	now := s.clock.Now().UTC()
	record := domain.DeliveryRecord{
		ID:            s.genID.Generate(),
		CustomerID:    customer.ID,
		DeliveryDate:  clock.CivilDate(req.Date, s.clock.Location()),
		MorningAmount: normalizeAmount(req.MorningAmount),
		EveningAmount: normalizeAmount(req.EveningAmount),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &record); err != nil {
		s.metrics.IncStoreError(obsmetrics.ResourceRecord, err)
		return domain.Record{}, fmt.Errorf("insert record: %w", err)
	}

	joined := domain.NewRecord(record, domain.RefFromCustomer(customer))
	s.metrics.IncWrite(obsmetrics.ResourceRecord, obsmetrics.OperationCreate)
	s.metrics.AddDelivered(joined.Quantity)
	ctxlogger.WithContext(ctx, s.log).Info("record created",
		zap.String("record_id", record.ID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.Float64("quantity", joined.Quantity),
	)
	return joined, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRecordRequest) (domain.Record, error) {
	id, err := parseID(req.ID, domain.ErrInvalidID)
	if err != nil {
		return domain.Record{}, err
	}
	if err := validateAmounts(req.MorningAmount, req.EveningAmount); err != nil {
		return domain.Record{}, err
	}

	record, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Record{}, fmt.Errorf("find record: %w", err)
	}
	if record == nil {
		return domain.Record{}, domain.ErrNotFound
	}

	if req.MorningAmount != nil {
		record.MorningAmount = normalizeAmount(req.MorningAmount)
	}
	if req.EveningAmount != nil {
		record.EveningAmount = normalizeAmount(req.EveningAmount)
	}
	record.UpdatedAt = s.clock.Now().UTC()

	rows, err := s.repo.UpdateAmounts(ctx, s.db, record)
	if err != nil {
		s.metrics.IncStoreError(obsmetrics.ResourceRecord, err)
		return domain.Record{}, fmt.Errorf("update record: %w", err)
	}
	if rows == 0 {
		return domain.Record{}, domain.ErrNotFound
	}
	s.metrics.IncWrite(obsmetrics.ResourceRecord, obsmetrics.OperationUpdate)

	customer, err := s.customerSvc.GetByID(ctx, customerdomain.GetCustomerRequest{ID: record.CustomerID.String()})
	switch {
	case err == nil:
		return domain.NewRecord(*record, domain.RefFromCustomer(customer)), nil
	case errors.Is(err, customerdomain.ErrNotFound):
		return domain.NewRecord(*record, nil), nil
	default:
		return domain.Record{}, err
	}
}

// Delete removes a record. A missing id is reported as ErrNotFound.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID, domain.ErrInvalidID)
	if err != nil {
		return err
	}

	rows, err := s.repo.Delete(ctx, s.db, id)
	if err != nil {
		s.metrics.IncStoreError(obsmetrics.ResourceRecord, err)
		return fmt.Errorf("delete record: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	s.metrics.IncWrite(obsmetrics.ResourceRecord, obsmetrics.OperationDelete)
	return nil
}

func parseID(value string, invalid error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id, nil
}

func validateAmounts(amounts ...*float64) error {
	for _, amount := range amounts {
		if amount != nil && *amount < 0 {
			return domain.ErrInvalidAmount
		}
	}
	return nil
}

// normalizeAmount stores a submitted zero as an absent amount.
func normalizeAmount(amount *float64) *float64 {
	if amount == nil || *amount == 0 {
		return nil
	}
	v := *amount
	return &v
}
