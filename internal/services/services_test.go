package services

import (
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"issue-tracker/internal/testutil"
)

type dirResolver string

func (d dirResolver) Path(name string) string {
	return filepath.Join(string(d), filepath.Base(name))
}

type fixture struct {
	db            *gorm.DB
	hasher        *PasswordHasher
	auth          *AuthService
	users         *UserService
	issues        *IssueService
	conversations *ConversationService
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewTestDB(t)
	hasher := NewPasswordHasher(bcrypt.MinCost)
	files := dirResolver("/srv/uploads")
	return &fixture{
		db:            db,
		hasher:        hasher,
		auth:          NewAuthService(db, hasher),
		users:         NewUserService(db, hasher),
		issues:        NewIssueService(db, files),
		conversations: NewConversationService(db, files),
	}
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
