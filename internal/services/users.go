package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"issue-tracker/internal/apperrors"
	"issue-tracker/internal/database"
	"issue-tracker/internal/models"
	"issue-tracker/internal/validation"
)

type UserService struct {
	db     *gorm.DB
	hasher *PasswordHasher
}

func NewUserService(db *gorm.DB, hasher *PasswordHasher) *UserService {
	return &UserService{db: db, hasher: hasher}
}

// UserSummary is a user row without its password.
type UserSummary struct {
	ID        uint      `json:"id"`
	TenantID  int       `json:"tenant_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s *UserService) List(ctx context.Context) ([]UserSummary, error) {
	users := []UserSummary{}
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("id, tenant_id, username, email, user_role AS role, created_at, updated_at").
		Order("id ASC").
		Scan(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUserInput is the administrative create path. Role is stored as given,
// without the registration role-set check.
type CreateUserInput struct {
	TenantID *int   `json:"tenant_id" form:"tenant_id" validate:"required"`
	Username string `json:"username" form:"username" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	Role     string `json:"role" form:"role" validate:"required"`
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (uint, error) {
	if err := validation.Struct(in, "tenant_id, username, email, password and role are required"); err != nil {
		return 0, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		TenantID: *in.TenantID,
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		UserRole: models.UserRole(in.Role),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return user.ID, nil
}

// UpdateUserInput replaces profile fields; Password is re-hashed only when set.
type UpdateUserInput struct {
	TenantID *int   `json:"tenant_id" form:"tenant_id" validate:"required"`
	Username string `json:"username" form:"username" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required"`
	Role     string `json:"role" form:"role" validate:"required"`
	Password string `json:"password" form:"password"`
}

func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) error {
	if err := validation.Struct(in, "tenant_id, username, email and role are required"); err != nil {
		return err
	}

	fields := map[string]any{
		"tenant_id": *in.TenantID,
		"username":  in.Username,
		"email":     in.Email,
		"user_role": in.Role,
	}
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = hash
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("User not found")
	}
	return nil
}

// Delete removes the user, the issues they reported, every message they sent
// and every message on those issues, in one transaction. Nothing is removed
// when the user does not exist.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		reported := tx.Model(&models.Issue{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("sender_id = ? OR issue_id IN (?)", id, reported).
			Delete(&models.Conversation{}).Error; err != nil {
			return fmt.Errorf("delete conversations: %w", err)
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Issue{}).Error; err != nil {
			return fmt.Errorf("delete issues: %w", err)
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return apperrors.NewNotFoundError("User not found")
		}
		return nil
	})
}

func (s *UserService) Get(ctx context.Context, id uint) (*UserProfile, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "username", "user_role").Where("id = ?", id).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &UserProfile{ID: user.ID, Username: user.Username, Role: string(user.UserRole)}, nil
}
