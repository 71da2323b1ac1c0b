package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/milkledger/internal/delivery/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.DeliveryRecord) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO milk_records (id, customer_id, delivery_date, morning_amount, evening_amount, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.CustomerID,
		record.DeliveryDate,
		record.MorningAmount,
		record.EveningAmount,
		record.CreatedAt,
		record.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.DeliveryRecord, error) {
	var record domain.DeliveryRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, delivery_date, morning_amount, evening_amount, created_at, updated_at
		 FROM milk_records WHERE id = ?`,
		id,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

// ListJoined returns records of active customers only; records whose customer
// is inactive or gone are dropped by the inner join.
func (r *repo) ListJoined(ctx context.Context, db *gorm.DB, filter domain.ListRecordFilter) ([]domain.RecordRow, error) {
	var rows []domain.RecordRow
	stmt := db.WithContext(ctx).
		Table("milk_records AS r").
		Select(`r.id, r.customer_id, r.delivery_date, r.morning_amount, r.evening_amount, r.created_at, r.updated_at,
			c.name AS customer_name, c.customer_type, c.daily_amount, c.is_active AS customer_is_active`).
		Joins("INNER JOIN customers AS c ON c.id = r.customer_id").
		Where("c.is_active = ?", true)
	if filter.From != nil {
		stmt = stmt.Where("r.delivery_date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("r.delivery_date <= ?", *filter.To)
	}
	if filter.CustomerID != nil {
		stmt = stmt.Where("r.customer_id = ?", *filter.CustomerID)
	}
	err := stmt.
		Order("r.delivery_date desc, r.created_at desc, r.id desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) UpdateAmounts(ctx context.Context, db *gorm.DB, record *domain.DeliveryRecord) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.DeliveryRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"morning_amount": record.MorningAmount,
			"evening_amount": record.EveningAmount,
			"updated_at":     record.UpdatedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	result := db.WithContext(ctx).Exec(`DELETE FROM milk_records WHERE id = ?`, id)
	return result.RowsAffected, result.Error
}
