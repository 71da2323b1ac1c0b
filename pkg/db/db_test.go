package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/smallbiznis/milkledger/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection reset")))
	assert.True(t, IsDuplicateKeyErr(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	assert.True(t, IsDuplicateKeyErr(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: customers.name_key")))
	assert.True(t, IsDuplicateKeyErr(errors.New("Error 1062 (23000): Duplicate entry")))
}

func TestDialect(t *testing.T) {
	for _, typ := range []string{TypePostgres, TypeMySQL, TypeSQLite} {
		d, err := Dialect(Config{Type: typ})
		require.NoError(t, err)
		assert.NotNil(t, d)
	}

	_, err := Dialect(Config{Type: "oracle"})
	assert.Error(t, err)
}

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(config.Config{
		DBType:            " SQLite ",
		DBSQLitePath:      "/tmp/milk.db",
		DBConnMaxLifetime: 300,
		OtelEnabled:       true,
	})

	assert.Equal(t, TypeSQLite, cfg.Type)
	assert.Equal(t, "/tmp/milk.db", cfg.SQLitePath)
	assert.Equal(t, 300.0, cfg.ConnMaxLifetime.Seconds())
	assert.True(t, cfg.TracingEnabled)
}

func TestDuplicateKeyFromStore(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	type widget struct {
		ID   int64  `gorm:"primaryKey"`
		Code string `gorm:"uniqueIndex"`
	}
	require.NoError(t, conn.AutoMigrate(&widget{}))
	require.NoError(t, conn.Create(&widget{ID: 1, Code: "a"}).Error)

	err = conn.Create(&widget{ID: 2, Code: "a"}).Error
	assert.True(t, IsDuplicateKeyErr(err))
}
