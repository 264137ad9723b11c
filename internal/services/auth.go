package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"issue-tracker/internal/apperrors"
	"issue-tracker/internal/models"
	"issue-tracker/internal/validation"
)

type AuthService struct {
	db     *gorm.DB
	hasher *PasswordHasher
}

func NewAuthService(db *gorm.DB, hasher *PasswordHasher) *AuthService {
	return &AuthService{db: db, hasher: hasher}
}

type RegisterInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	Role     string `json:"role" form:"role" validate:"required,role"`
	TenantID *int   `json:"tenant_id" form:"tenant_id"`
}

type RegisterResult struct {
	UserID   uint
	Username string
	UserRole models.UserRole
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if err := validation.Struct(in, "username, email, password & role are required"); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tenantID := 0
	if in.TenantID != nil {
		tenantID = *in.TenantID
	}

	user := models.User{
		TenantID: tenantID,
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		UserRole: models.UserRole(in.Role),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &RegisterResult{UserID: user.ID, Username: user.Username, UserRole: user.UserRole}, nil
}

type LoginInput struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type LoginResult struct {
	UserID   uint
	Username string
	Role     *string
	UserRole *string
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := validation.Struct(in, "Username and password required"); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", in.Username).Limit(1).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewUnauthorizedError("Invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(user.Password, in.Password) {
		return nil, apperrors.NewUnauthorizedError("Invalid credentials")
	}

	res := &LoginResult{UserID: user.ID, Username: user.Username}
	if user.UserRole != "" {
		r := string(user.UserRole)
		res.UserRole = &r
	}
	// legacy rows only carry the old role column
	res.Role = res.UserRole
	if user.LegacyRole != nil && *user.LegacyRole != "" {
		res.Role = user.LegacyRole
	}
	return res, nil
}
