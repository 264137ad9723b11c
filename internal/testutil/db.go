// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"issue-tracker/internal/database"
	"issue-tracker/internal/models"
)

// NewTestDB returns a migrated in-memory SQLite database. The pool is pinned
// to one connection so every query sees the same memory database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user whose password is bcrypt-hashed at minimum cost.
func CreateUser(t testing.TB, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(username+"-pw"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		UserRole: role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateIssue inserts an open issue reported by reporterID.
func CreateIssue(t testing.TB, db *gorm.DB, reporterID uint, title string) *models.Issue {
	t.Helper()

	issue := &models.Issue{
		UserID:      reporterID,
		Title:       title,
		Description: title + " description",
		IssueType:   models.IssueTypeIT,
		Status:      models.StatusOpen,
	}
	require.NoError(t, db.Create(issue).Error)
	return issue
}
