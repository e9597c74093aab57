package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUniqueViolation_Drivers(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		detail string
		ok     bool
	}{
		{"nil", nil, "", false},
		{"other", errors.New("connection refused"), "", false},
		{
			"postgres",
			fmt.Errorf("save: %w", &pgconn.PgError{Code: "23505", Detail: "Key (title)=(Shirt) already exists."}),
			"Key (title)=(Shirt) already exists.", true,
		},
		{"postgres other code", &pgconn.PgError{Code: "23503", Detail: "fk"}, "", false},
		{"mysql", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Shirt' for key 'title'"}, "Duplicate entry 'Shirt' for key 'title'", true},
		{"gorm translated", gorm.ErrDuplicatedKey, gorm.ErrDuplicatedKey.Error(), true},
		{"sqlite", errors.New("UNIQUE constraint failed: products.title"), "UNIQUE constraint failed: products.title", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			detail, ok := UniqueViolation(tc.err)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.detail, detail)
		})
	}
}

type widget struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`
}

func TestNewGorm_SQLiteUniqueViolation(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: "file::memory:", MaxOpenConns: 1, LogLevel: "silent"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.AutoMigrate(&widget{}))
	require.NoError(t, db.Create(&widget{Name: "bolt"}).Error)

	err = db.Create(&widget{Name: "bolt"}).Error
	require.Error(t, err)
	_, ok := UniqueViolation(err)
	assert.True(t, ok)
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}
