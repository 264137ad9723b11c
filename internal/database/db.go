package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"issue-tracker/internal/logger"
	"issue-tracker/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second
)

// Init opens the PostgreSQL pool, retrying while the database comes up.
func Init(dsn string) (*gorm.DB, error) {
	log := logger.WithComponent("database")

	var (
		db  *gorm.DB
		err error
	)
	for i := 1; i <= maxAttempts; i++ {
		log.Info("connecting to database", "attempt", i, "max_attempts", maxAttempts)

		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err == nil {
			log.Info("connected to database")
			return db, nil
		}

		log.Warn("failed to connect to database", "error", err)
		if i < maxAttempts {
			time.Sleep(retryBackoff)
		}
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", maxAttempts, err)
}

// Migrate creates or updates the users, issues and issue_conversations tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Issue{},
		&models.Conversation{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// WithTransaction runs fn inside a transaction; any error from fn rolls it back.
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

type AdminSeed struct {
	Username string
	Email    string
	Password string
	Cost     int
}

// SeedAdmin creates an administrator when none exists. An empty password
// disables seeding.
func SeedAdmin(ctx context.Context, db *gorm.DB, seed AdminSeed) error {
	if seed.Password == "" {
		return nil
	}
	log := logger.WithComponent("database")

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("user_role = ?", models.RoleAdministrator).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), seed.Cost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Username: seed.Username,
		Email:    seed.Email,
		Password: string(hash),
		UserRole: models.RoleAdministrator,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Info("created default administrator", slog.String("username", seed.Username), slog.Uint64("id", uint64(admin.ID)))
	return nil
}
