//go:build integration

package migration

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/milkledger/internal/customer/domain"
	customerrepo "github.com/smallbiznis/milkledger/internal/customer/repository"
	deliverydomain "github.com/smallbiznis/milkledger/internal/delivery/domain"
	deliveryrepo "github.com/smallbiznis/milkledger/internal/delivery/repository"
	"github.com/smallbiznis/milkledger/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("milkledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, RunMigrations(sqlDB))
	// A second run is a no-op.
	require.NoError(t, RunMigrations(sqlDB))
	return conn
}

func TestPostgresSchemaAndRepositories(t *testing.T) {
	conn := newPostgres(t)
	ctx := context.Background()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	customers := customerrepo.Provide()
	records := deliveryrepo.Provide()
	now := time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC)

	newCustomer := func(name string, kind customerdomain.CustomerType, daily float64, active bool) *customerdomain.Customer {
		return &customerdomain.Customer{
			ID:           node.Generate(),
			Name:         name,
			NameKey:      customerdomain.NameKey(name),
			CustomerType: kind,
			DailyAmount:  daily,
			IsActive:     active,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	ravi := newCustomer("Ravi", customerdomain.CustomerTypeRegular, 2, true)
	require.NoError(t, customers.Insert(ctx, conn, ravi))

	t.Run("name key is unique", func(t *testing.T) {
		dup := newCustomer("  RAVI ", customerdomain.CustomerTypeRegular, 1, true)
		err := customers.Insert(ctx, conn, dup)
		require.Error(t, err)
		assert.True(t, db.IsDuplicateKeyErr(err))
	})

	t.Run("milkman amount check", func(t *testing.T) {
		bad := newCustomer("Gopal", customerdomain.CustomerTypeMilkman, 3, true)
		assert.Error(t, customers.Insert(ctx, conn, bad))
	})

	t.Run("find by name key excludes self", func(t *testing.T) {
		found, err := customers.FindByNameKey(ctx, conn, "ravi", 0)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, ravi.ID, found.ID)

		found, err = customers.FindByNameKey(ctx, conn, "ravi", ravi.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	inactive := newCustomer("Sita", customerdomain.CustomerTypeMilkman, 0, false)
	require.NoError(t, customers.Insert(ctx, conn, inactive))

	morning := 3.0
	day := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	kept := &deliverydomain.DeliveryRecord{
		ID:            node.Generate(),
		CustomerID:    ravi.ID,
		DeliveryDate:  day,
		MorningAmount: &morning,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, records.Insert(ctx, conn, kept))
	require.NoError(t, records.Insert(ctx, conn, &deliverydomain.DeliveryRecord{
		ID:           node.Generate(),
		CustomerID:   inactive.ID,
		DeliveryDate: day,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))

	t.Run("joined listing hides inactive customers", func(t *testing.T) {
		rows, err := records.ListJoined(ctx, conn, deliverydomain.ListRecordFilter{From: &day, To: &day})
		require.NoError(t, err)
		require.Len(t, rows, 1)

		rec := rows[0].Record()
		assert.Equal(t, kept.ID, rec.ID)
		assert.Equal(t, "Ravi", rec.CustomerName)
		assert.True(t, day.Equal(rec.Date))
		assert.Equal(t, 3.0, rec.Quantity)
	})

	t.Run("update and delete report affected rows", func(t *testing.T) {
		kept.MorningAmount = nil
		kept.UpdatedAt = now.Add(time.Hour)
		rows, err := records.UpdateAmounts(ctx, conn, kept)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		stored, err := records.FindByID(ctx, conn, kept.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Nil(t, stored.MorningAmount)

		rows, err = records.Delete(ctx, conn, kept.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		rows, err = records.Delete(ctx, conn, kept.ID)
		require.NoError(t, err)
		assert.Zero(t, rows)
	})
}
