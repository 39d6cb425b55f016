package services

import (
	portsrepo "github.com/payoff-app/payoff-backend/internal/core/ports/repositories"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/platform/config"
)

// Repositories groups the persistence dependencies the container needs.
type Repositories struct {
	User   portsrepo.UserRepository
	Debt   portsrepo.DebtRepository
	Backup portsrepo.BackupRepository
	Inbox  portsrepo.InboxStore
}

// NewServiceContainer wires every service with its dependencies.
func NewServiceContainer(cfg *config.Config, repos Repositories) *portssvc.ServiceContainer {
	userService := NewUserService(repos.User, nil)
	return &portssvc.ServiceContainer{
		User:         userService,
		Token:        NewTokenService(cfg, userService),
		GoogleAuth:   NewGoogleAuthService(cfg, userService),
		Debt:         NewDebtService(repos.Debt, nil),
		Notification: NewNotificationService(repos.Debt, repos.Inbox, nil),
		Backup:       NewBackupService(repos.Backup, nil),
		Reminder:     NewReminderService(cfg),
	}
}
