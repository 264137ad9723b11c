package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string
	GinMode       string

	UploadDir          string
	MaxUploadBytes     int64
	AllowedUploadTypes []string

	SaltRounds int

	LogLevel  string
	LogFormat string

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "")
	v.SetDefault("SERVER_PORT", "")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("SALT_ROUNDS", 10)
	v.SetDefault("MAX_UPLOAD_BYTES", 10*1024*1024)
	v.SetDefault("ALLOWED_UPLOAD_TYPES", "image/jpeg,image/jpg,image/png,image/gif")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("GIN_MODE", "release")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBDSN:              v.GetString("DB_DSN"),
		ServerPort:         v.GetString("PORT"),
		SessionSecret:      v.GetString("SESSION_SECRET"),
		GinMode:            v.GetString("GIN_MODE"),
		UploadDir:          v.GetString("UPLOAD_DIR"),
		MaxUploadBytes:     v.GetInt64("MAX_UPLOAD_BYTES"),
		AllowedUploadTypes: splitList(v.GetString("ALLOWED_UPLOAD_TYPES")),
		SaltRounds:         v.GetInt("SALT_ROUNDS"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		AdminUsername:      v.GetString("ADMIN_USERNAME"),
		AdminEmail:         v.GetString("ADMIN_EMAIL"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
	}

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = v.GetString("SERVER_PORT")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "9091"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 * 1024 * 1024
	}
	cfg.SaltRounds = clampCost(cfg.SaltRounds)
	if cfg.AdminPassword != "" && cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}

	return cfg, nil
}

func clampCost(cost int) int {
	switch {
	case cost == 0:
		return bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		return bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		return bcrypt.MaxCost
	}
	return cost
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
