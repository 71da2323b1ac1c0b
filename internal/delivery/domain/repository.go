package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListRecordFilter bounds a joined listing. From and To are inclusive UTC instants.
type ListRecordFilter struct {
	From       *time.Time
	To         *time.Time
	CustomerID *snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *DeliveryRecord) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*DeliveryRecord, error)
	ListJoined(ctx context.Context, db *gorm.DB, filter ListRecordFilter) ([]RecordRow, error)
	UpdateAmounts(ctx context.Context, db *gorm.DB, record *DeliveryRecord) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
