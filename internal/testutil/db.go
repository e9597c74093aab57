// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog-api/internal/domain"
	"catalog-api/pkg/utils"
)

// NewDB opens a private in-memory SQLite database with all tables migrated.
// One connection only, so every query sees the same memory database;
// foreign keys are enforced like on the real servers.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(domain.Models()...))
	return db
}

// CreateUser inserts a user with the given roles and password "Abc123".
func CreateUser(t *testing.T, db *gorm.DB, email string, roles ...string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:    email,
		FullName: "Test " + email,
		Password: utils.HashPassword("Abc123"),
		Roles:    datatypes.JSONSlice[string](roles),
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
