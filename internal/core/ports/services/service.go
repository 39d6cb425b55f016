// Package services defines the service facades the handlers depend on, plus
// the container that wires them together.
package services

// ServiceContainer groups every service facade for route registration.
type ServiceContainer struct {
	User         UserSvcFacade
	Token        TokenSvcFacade
	GoogleAuth   GoogleAuthSvcFacade
	Debt         DebtSvcFacade
	Notification NotificationSvcFacade
	Backup       BackupSvcFacade
	Reminder     ReminderSvcFacade
}
