package postgres

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		mockDB.Close()
	})

	db := sqlx.NewDb(mockDB, "sqlmock")

	opts := []Option{
		WithMaxOpenConns(3),
		WithMaxIdleConns(2),
		WithConnMaxLifetime(time.Minute),
		WithConnMaxIdleTime(time.Second),
		// zero values keep the previous setting
		WithMaxOpenConns(0),
	}
	for _, opt := range opts {
		opt(db)
	}

	assert.Equal(t, 3, db.Stats().MaxOpenConnections)
}
