package handler

import (
	"context"
	"fmt"

	"github.com/campusnet/campusnet/backend/internal/service"
)

// TextRenderer turns stored markdown into HTML safe to send to clients.
type TextRenderer interface {
	Render(text string) string
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks is a set of named dependencies that must all answer Ping.
type HealthChecks map[string]HealthChecker

func (c HealthChecks) Ping(ctx context.Context) error {
	for name, check := range c {
		if err := check.Ping(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

type Handler struct {
	content       service.ContentService
	moderation    service.ModerationService
	notifications service.NotificationService
	search        service.SearchService
	text          TextRenderer
	health        HealthChecker
}

func New(
	content service.ContentService,
	moderation service.ModerationService,
	notifications service.NotificationService,
	search service.SearchService,
	text TextRenderer,
	health HealthChecker,
) *Handler {
	return &Handler{
		content:       content,
		moderation:    moderation,
		notifications: notifications,
		search:        search,
		text:          text,
		health:        health,
	}
}
