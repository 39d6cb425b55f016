package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/payoff-app/payoff-backend/internal/apperrors"
	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/platform/config"
	"gopkg.in/gomail.v2"
)

// reminderService emails a digest of reminder-type notifications. It stays
// disabled unless SMTP is configured; nothing in the request path depends on
// it succeeding.
type reminderService struct {
	BaseService
	dialer  *gomail.Dialer
	from    string
	enabled bool
}

// NewReminderService creates the reminder service from SMTP config.
func NewReminderService(cfg *config.Config) portssvc.ReminderSvcFacade {
	svc := &reminderService{
		from:    cfg.SMTPFrom,
		enabled: cfg.SMTPHost != "" && cfg.SMTPFrom != "",
	}
	if svc.enabled {
		svc.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return svc
}

var _ portssvc.ReminderSvcFacade = (*reminderService)(nil)

func (s *reminderService) Enabled() bool {
	return s.enabled
}

// SendDueSummary mails the user their unread payment reminders. Guests have
// no email address and are rejected with a validation error.
func (s *reminderService) SendDueSummary(ctx context.Context, user *domain.User, list domain.NotificationList) error {
	if !s.enabled {
		return fmt.Errorf("%w: reminder emails are not configured", apperrors.ErrValidation)
	}
	if user.Email == "" {
		return fmt.Errorf("%w: account has no email address", apperrors.ErrValidation)
	}

	reminders := make([]domain.Notification, 0, len(list))
	for _, n := range list {
		if n.Type == domain.NotificationReminder && !n.IsRead {
			reminders = append(reminders, n)
		}
	}
	if len(reminders) == 0 {
		s.LogInfo(ctx, "No unread reminders to send", slog.String("user_id", user.UserID))
		return nil
	}

	var body strings.Builder
	body.WriteString("<h2>Payment Reminders</h2>")
	fmt.Fprintf(&body, "<p>Hi %s, you have %d upcoming or overdue payments:</p><ul>", user.Name, len(reminders))
	for _, n := range reminders {
		fmt.Fprintf(&body, "<li><strong>%s</strong><br>%s</li>", n.Title, n.Message)
	}
	body.WriteString("</ul>")

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", fmt.Sprintf("You have %d payment reminders", len(reminders)))
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		s.LogError(ctx, err, "Failed to send reminder email", slog.String("user_id", user.UserID))
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	s.LogInfo(ctx, "Reminder email sent",
		slog.String("user_id", user.UserID),
		slog.Int("reminders", len(reminders)))
	return nil
}
