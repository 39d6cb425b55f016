package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/core/services"
	"github.com/payoff-app/payoff-backend/internal/repositories/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockDebtRepository is a mock type for the DebtRepository interface.
type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) FindDebtByID(ctx context.Context, debtID string) (*domain.Debt, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) ListDebtsByUser(ctx context.Context, userID string) ([]domain.Debt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockDebtRepository) UpdateDebt(ctx context.Context, debt domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) DeleteDebt(ctx context.Context, debtID string) error {
	args := m.Called(ctx, debtID)
	return args.Error(0)
}

func (m *MockDebtRepository) RecordPayment(ctx context.Context, debt domain.Debt, payment domain.MonthlyPayment, txn domain.Transaction) error {
	args := m.Called(ctx, debt, payment, txn)
	return args.Error(0)
}

func (m *MockDebtRepository) SaveTransaction(ctx context.Context, debt domain.Debt, txn domain.Transaction) error {
	args := m.Called(ctx, debt, txn)
	return args.Error(0)
}

// --- Derivation fixtures ---

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// bpiDebt has one overdue, one due-soon, one recently paid and one far-future
// installment.
func bpiDebt() domain.Debt {
	return domain.Debt{
		DebtID:           "debt-bpi",
		UserID:           "user-1",
		Bank:             "BPI",
		Type:             domain.DebtTypeLoan,
		TotalDebt:        dec("120000"),
		RemainingBalance: dec("90000"),
		TotalPaid:        dec("30000"),
		MonthlyDue:       dec("10000"),
		IsActive:         true,
		MonthlyPayments: []domain.MonthlyPayment{
			{PaymentID: "pay-overdue", DebtID: "debt-bpi", Sequence: 0, Amount: dec("10000"), Status: domain.PaymentPending, DueDate: testNow.AddDate(0, 0, -10)},
			{PaymentID: "pay-duesoon", DebtID: "debt-bpi", Sequence: 1, Amount: dec("10000"), Status: domain.PaymentPending, DueDate: testNow.AddDate(0, 0, 3)},
			{PaymentID: "pay-recent", DebtID: "debt-bpi", Sequence: 2, Amount: dec("10000"), Status: domain.PaymentPaid, DueDate: testNow.AddDate(0, 0, -2)},
			{PaymentID: "pay-future", DebtID: "debt-bpi", Sequence: 3, Amount: dec("10000"), Status: domain.PaymentPending, DueDate: testNow.AddDate(0, 2, 0)},
		},
		Transactions: []domain.Transaction{
			{TransactionID: "txn-recent", DebtID: "debt-bpi", Amount: dec("10000"), Type: domain.TransactionPayment, Bank: "BPI", Date: testNow.AddDate(0, 0, -1)},
			{TransactionID: "txn-old", DebtID: "debt-bpi", Amount: dec("10000"), Type: domain.TransactionPayment, Bank: "BPI", Date: testNow.AddDate(0, -1, 0)},
		},
	}
}

func TestDeriveNotifications_Statuses(t *testing.T) {
	list := services.DeriveNotifications([]domain.Debt{bpiDebt()}, testNow)

	byID := make(map[string]domain.Notification, len(list))
	for _, n := range list {
		byID[n.ID] = n
	}

	overdue, ok := byID["pay-overdue"]
	assert.True(t, ok)
	assert.Equal(t, "Overdue Payment - BPI", overdue.Title)
	assert.Contains(t, overdue.Message, "₱10,000.00")
	assert.Contains(t, overdue.Message, "Due date was June 5, 2025.")
	assert.Equal(t, domain.NotificationReminder, overdue.Type)

	dueSoon, ok := byID["pay-duesoon"]
	assert.True(t, ok)
	assert.Equal(t, "Upcoming Payment - BPI", dueSoon.Title)
	assert.Contains(t, dueSoon.Message, "due on June 18, 2025")

	recent, ok := byID["pay-recent"]
	assert.True(t, ok)
	assert.Equal(t, "Payment Completed - BPI", recent.Title)
	assert.Equal(t, domain.NotificationPayment, recent.Type)

	_, ok = byID["pay-future"]
	assert.False(t, ok, "far-future installment produces nothing")

	txn, ok := byID["transaction-txn-recent"]
	assert.True(t, ok)
	assert.Equal(t, "Payment Recorded - BPI", txn.Title)

	_, ok = byID["transaction-txn-old"]
	assert.False(t, ok, "transactions older than a week produce nothing")
}

func TestDeriveNotifications_Milestone(t *testing.T) {
	debt := bpiDebt()
	debt.RemainingBalance = dec("30000") // exactly 25%
	list := services.DeriveNotifications([]domain.Debt{debt}, testNow)

	var milestone *domain.Notification
	for i := range list {
		if list[i].ID == "milestone-debt-bpi" {
			milestone = &list[i]
		}
		assert.NotEqual(t, "completed-debt-bpi", list[i].ID)
	}
	if assert.NotNil(t, milestone) {
		assert.Equal(t, "Milestone Reached!", milestone.Title)
		assert.Contains(t, milestone.Message, "75%")
		assert.Equal(t, domain.NotificationSystem, milestone.Type)
		assert.True(t, milestone.Timestamp.Equal(testNow))
	}
}

func TestDeriveNotifications_Completed(t *testing.T) {
	debt := bpiDebt()
	debt.RemainingBalance = decimal.Zero
	list := services.DeriveNotifications([]domain.Debt{debt}, testNow)

	var completed *domain.Notification
	for i := range list {
		if list[i].ID == "completed-debt-bpi" {
			completed = &list[i]
		}
		assert.NotEqual(t, "milestone-debt-bpi", list[i].ID, "milestone and completion are mutually exclusive")
	}
	if assert.NotNil(t, completed) {
		assert.Equal(t, "Loan Paid Off!", completed.Title)
	}
}

func TestDeriveNotifications_ZeroTotalDebtIsSkipped(t *testing.T) {
	debt := domain.Debt{DebtID: "d", Bank: "X", TotalDebt: decimal.Zero, RemainingBalance: decimal.Zero}
	assert.Empty(t, services.DeriveNotifications([]domain.Debt{debt}, testNow))
}

func TestDeriveNotifications_Deterministic(t *testing.T) {
	debts := []domain.Debt{bpiDebt()}
	first := services.DeriveNotifications(debts, testNow)
	second := services.DeriveNotifications(debts, testNow)
	assert.Equal(t, first, second)
}

func TestDeriveNotifications_SortedNewestFirst(t *testing.T) {
	list := services.DeriveNotifications([]domain.Debt{bpiDebt()}, testNow)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i-1].Timestamp.Before(list[i].Timestamp),
			"entry %d (%s) is older than entry %d (%s)", i-1, list[i-1].ID, i, list[i].ID)
	}
}

func TestDeriveNotifications_EmptyInputs(t *testing.T) {
	assert.Empty(t, services.DeriveNotifications(nil, testNow))
	assert.Empty(t, services.DeriveNotifications([]domain.Debt{{DebtID: "d", Bank: "X", TotalDebt: dec("100"), RemainingBalance: dec("100")}}, testNow))
}

// --- Service suite ---

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(notificationServiceSuite))
}

type notificationServiceSuite struct {
	suite.Suite
	mockRepo *MockDebtRepository
	store    *cache.MemoryInboxStore
	svc      portssvc.NotificationSvcFacade
}

func (s *notificationServiceSuite) SetupTest() {
	s.mockRepo = new(MockDebtRepository)
	s.store = cache.NewMemoryInboxStore()
	s.svc = services.NewNotificationService(s.mockRepo, s.store, fixedNow)
}

func (s *notificationServiceSuite) TestRefreshInbox_DerivesAndStores() {
	ctx := context.Background()
	s.mockRepo.On("ListDebtsByUser", ctx, "user-1").Return([]domain.Debt{bpiDebt()}, nil)

	list, err := s.svc.RefreshInbox(ctx, "user-1")
	s.Require().NoError(err)
	s.NotEmpty(list)

	stored, err := s.store.GetInbox(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(list, stored)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *notificationServiceSuite) TestRefreshInbox_PreservesReadStateAcrossRefreshes() {
	ctx := context.Background()
	s.mockRepo.On("ListDebtsByUser", ctx, "user-1").Return([]domain.Debt{bpiDebt()}, nil)

	first, err := s.svc.RefreshInbox(ctx, "user-1")
	s.Require().NoError(err)
	s.Require().NotEmpty(first)

	_, err = s.svc.MarkRead(ctx, "user-1", first[0].ID)
	s.Require().NoError(err)

	second, err := s.svc.RefreshInbox(ctx, "user-1")
	s.Require().NoError(err)
	s.True(second[0].IsRead, "read flag survives regeneration")
	s.Equal(len(first), len(second))
}

func (s *notificationServiceSuite) TestRefreshInbox_SkipsWriteWhenUnchanged() {
	ctx := context.Background()
	s.mockRepo.On("ListDebtsByUser", ctx, "user-1").Return([]domain.Debt{bpiDebt()}, nil)

	first, err := s.svc.RefreshInbox(ctx, "user-1")
	s.Require().NoError(err)

	// Select something; a content-identical refresh must not clobber it.
	selected, err := s.svc.ToggleSelect(ctx, "user-1", first[0].ID)
	s.Require().NoError(err)
	s.Equal(1, selected.SelectedCount())

	again, err := s.svc.RefreshInbox(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(1, again.SelectedCount())
}

func (s *notificationServiceSuite) TestRefreshInbox_DebtLoadFails() {
	ctx := context.Background()
	s.mockRepo.On("ListDebtsByUser", ctx, "user-1").Return(nil, fmt.Errorf("db down"))

	_, err := s.svc.RefreshInbox(ctx, "user-1")
	s.Error(err)
}

func (s *notificationServiceSuite) TestMutations() {
	ctx := context.Background()
	s.mockRepo.On("ListDebtsByUser", ctx, "user-1").Return([]domain.Debt{bpiDebt()}, nil)

	list, err := s.svc.RefreshInbox(ctx, "user-1")
	s.Require().NoError(err)
	s.Require().True(len(list) >= 2)

	list, err = s.svc.ToggleSelectAll(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(len(list), list.SelectedCount())

	list, err = s.svc.MarkSelectedRead(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(0, list.UnreadCount())
	s.Equal(0, list.SelectedCount())

	list, err = s.svc.ToggleSelect(ctx, "user-1", list[0].ID)
	s.Require().NoError(err)
	s.Equal(1, list.SelectedCount())

	shorter, err := s.svc.DeleteSelected(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(len(list)-1, len(shorter))

	list, err = s.svc.MarkAllRead(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(0, list.UnreadCount())
}
