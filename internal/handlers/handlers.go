package handlers

import (
	"log/slog"

	"issue-tracker/internal/attachments"
	"issue-tracker/internal/logger"
	"issue-tracker/internal/services"
)

type Handlers struct {
	auth          *services.AuthService
	users         *services.UserService
	issues        *services.IssueService
	conversations *services.ConversationService
	files         *attachments.Gateway
	log           *slog.Logger
}

func New(
	auth *services.AuthService,
	users *services.UserService,
	issues *services.IssueService,
	conversations *services.ConversationService,
	files *attachments.Gateway,
) *Handlers {
	return &Handlers{
		auth:          auth,
		users:         users,
		issues:        issues,
		conversations: conversations,
		files:         files,
		log:           logger.WithComponent("handlers"),
	}
}
