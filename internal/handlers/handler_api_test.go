package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/payoff-app/payoff-backend/internal/apperrors"
	"github.com/payoff-app/payoff-backend/internal/core/domain"
	portssvc "github.com/payoff-app/payoff-backend/internal/core/ports/services"
	"github.com/payoff-app/payoff-backend/internal/dto"
	"github.com/payoff-app/payoff-backend/internal/handlers"
	"github.com/payoff-app/payoff-backend/internal/platform/config"
	"github.com/payoff-app/payoff-backend/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock services ---

type MockUserService struct{ mock.Mock }

func (m *MockUserService) CreateGuestUser(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) FindOrCreateGoogleUser(ctx context.Context, email string, name string) (*domain.User, error) {
	args := m.Called(ctx, email, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime time.Time) error {
	return m.Called(ctx, userID, refreshTokenHash, expiryTime).Error(0)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

type MockTokenService struct{ mock.Mock }

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockTokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, userID string, refreshToken string) (*domain.User, error) {
	args := m.Called(ctx, userID, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

type MockGoogleAuthService struct{ mock.Mock }

func (m *MockGoogleAuthService) Enabled() bool {
	return m.Called().Bool(0)
}
func (m *MockGoogleAuthService) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}
func (m *MockGoogleAuthService) HandleCallback(ctx context.Context, code string) (*domain.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.GoogleAuthSvcFacade = (*MockGoogleAuthService)(nil)

type MockDebtService struct{ mock.Mock }

func (m *MockDebtService) CreateDebt(ctx context.Context, userID string, req dto.CreateDebtRequest) (*domain.Debt, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockDebtService) UpdateDebt(ctx context.Context, userID string, req dto.UpdateDebtRequest) (*domain.Debt, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockDebtService) DeleteDebt(ctx context.Context, userID string, debtID string) error {
	return m.Called(ctx, userID, debtID).Error(0)
}
func (m *MockDebtService) RecordPayment(ctx context.Context, userID string, req dto.PayRequest) (*domain.Debt, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockDebtService) SaveTransaction(ctx context.Context, userID string, req dto.SaveTransactionRequest) (*domain.Debt, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}
func (m *MockDebtService) ListDebts(ctx context.Context, userID string) ([]domain.Debt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

var _ portssvc.DebtSvcFacade = (*MockDebtService)(nil)

type MockNotificationService struct{ mock.Mock }

func (m *MockNotificationService) RefreshInbox(ctx context.Context, userID string) (domain.NotificationList, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.NotificationList), args.Error(1)
}
func (m *MockNotificationService) MarkRead(ctx context.Context, userID string, notificationID string) (domain.NotificationList, error) {
	args := m.Called(ctx, userID, notificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.NotificationList), args.Error(1)
}
func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID string) (domain.NotificationList, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.NotificationList), args.Error(1)
}
func (m *MockNotificationService) MarkSelectedRead(ctx context.Context, userID string) (domain.NotificationList, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.NotificationList), args.Error(1)
}
func (m *MockNotificationService) ToggleSelect(ctx context.Context, userID string, notificationID string) (domain.NotificationList, error) {
	args := m.Called(ctx, userID, notificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.NotificationList), args.Error(1)
}
func (m *MockNotificationService) ToggleSelectAll(ctx context.Context, userID string) (domain.NotificationList, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.NotificationList), args.Error(1)
}
func (m *MockNotificationService) DeleteSelected(ctx context.Context, userID string) (domain.NotificationList, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.NotificationList), args.Error(1)
}

var _ portssvc.NotificationSvcFacade = (*MockNotificationService)(nil)

type MockBackupService struct{ mock.Mock }

func (m *MockBackupService) CreateBackup(ctx context.Context, userID string, req dto.CreateBackupRequest) (*domain.Backup, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Backup), args.Error(1)
}
func (m *MockBackupService) LatestBackup(ctx context.Context, userID string) (*domain.Backup, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Backup), args.Error(1)
}

var _ portssvc.BackupSvcFacade = (*MockBackupService)(nil)

type MockReminderService struct{ mock.Mock }

func (m *MockReminderService) Enabled() bool {
	return m.Called().Bool(0)
}
func (m *MockReminderService) SendDueSummary(ctx context.Context, user *domain.User, list domain.NotificationList) error {
	return m.Called(ctx, user, list).Error(0)
}

var _ portssvc.ReminderSvcFacade = (*MockReminderService)(nil)

// --- Suite ---

type APIHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	jwtSecret        string
	mockUser         *MockUserService
	mockToken        *MockTokenService
	mockGoogle       *MockGoogleAuthService
	mockDebt         *MockDebtService
	mockNotification *MockNotificationService
	mockBackup       *MockBackupService
	mockReminder     *MockReminderService
}

func TestAPIHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(APIHandlerTestSuite))
}

func (suite *APIHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockUser = new(MockUserService)
	suite.mockToken = new(MockTokenService)
	suite.mockGoogle = new(MockGoogleAuthService)
	suite.mockDebt = new(MockDebtService)
	suite.mockNotification = new(MockNotificationService)
	suite.mockBackup = new(MockBackupService)
	suite.mockReminder = new(MockReminderService)

	cfg := &config.Config{
		JWTSecret:     suite.jwtSecret,
		AuthRateLimit: "100-M",
		IsProduction:  true, // no swagger routes in tests
	}
	services := &portssvc.ServiceContainer{
		User:         suite.mockUser,
		Token:        suite.mockToken,
		GoogleAuth:   suite.mockGoogle,
		Debt:         suite.mockDebt,
		Notification: suite.mockNotification,
		Backup:       suite.mockBackup,
		Reminder:     suite.mockReminder,
	}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *APIHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "payoff-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *APIHandlerTestSuite) doJSON(method, url, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test cases ---

func (suite *APIHandlerTestSuite) TestGetInbox_Success() {
	userID := "user-123"
	list := domain.NotificationList{
		{ID: "n1", Title: "Upcoming Payment - BPI", Type: domain.NotificationReminder, Timestamp: time.Now()},
		{ID: "n2", Title: "Payment Recorded - BPI", Type: domain.NotificationPayment, Timestamp: time.Now(), IsRead: true},
	}
	suite.mockNotification.On("RefreshInbox", mock.Anything, userID).Return(list, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/notifications", userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.NotificationListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Notifications, 2)
	suite.Equal(1, resp.UnreadCount)
	suite.mockNotification.AssertExpectations(suite.T())
}

func (suite *APIHandlerTestSuite) TestGetInbox_RequiresAuth() {
	w := suite.doJSON(http.MethodGet, "/api/notifications", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APIHandlerTestSuite) TestMarkRead_BindsID() {
	userID := "user-123"
	suite.mockNotification.On("MarkRead", mock.Anything, userID, "n1").
		Return(domain.NotificationList{{ID: "n1", IsRead: true}}, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/notifications/read", userID, dto.NotificationIDRequest{ID: "n1"})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockNotification.AssertExpectations(suite.T())
}

func (suite *APIHandlerTestSuite) TestMarkRead_MissingIDRejected() {
	w := suite.doJSON(http.MethodPost, "/api/notifications/read", "user-123", map[string]string{})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockNotification.AssertNotCalled(suite.T(), "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *APIHandlerTestSuite) TestCreateDebt_Success() {
	userID := "user-123"
	debt := &domain.Debt{
		DebtID:           "debt-1",
		UserID:           userID,
		Bank:             "BDO",
		Type:             domain.DebtTypeLoan,
		TotalDebt:        decimal.RequireFromString("120000"),
		RemainingBalance: decimal.RequireFromString("120000"),
		MonthlyDue:       decimal.RequireFromString("10000"),
		TermLength:       12,
		TermType:         domain.TermMonths,
		IsActive:         true,
	}
	suite.mockDebt.On("CreateDebt", mock.Anything, userID, mock.AnythingOfType("dto.CreateDebtRequest")).
		Return(debt, nil).Once()

	body := map[string]any{
		"type":           "loan",
		"bank":           "BDO",
		"totalDebt":      120000,
		"monthlyPayment": "₱10,000.00",
		"term_length":    12,
		"term_type":      "months",
		"start_date":     "2025-01-15",
	}
	w := suite.doJSON(http.MethodPost, "/api/debts", userID, body)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockDebt.AssertExpectations(suite.T())
}

// The phpamount binding validator rejects malformed currency strings before
// the service is reached.
func (suite *APIHandlerTestSuite) TestCreateDebt_InvalidCurrencyRejected() {
	body := map[string]any{
		"type":           "loan",
		"bank":           "BDO",
		"totalDebt":      120000,
		"monthlyPayment": "10,00.0",
		"term_length":    12,
		"term_type":      "months",
		"start_date":     "2025-01-15",
	}
	w := suite.doJSON(http.MethodPost, "/api/debts", "user-123", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDebt.AssertNotCalled(suite.T(), "CreateDebt", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *APIHandlerTestSuite) TestRecordPayment_Success() {
	userID := "user-123"
	debt := &domain.Debt{DebtID: "debt-1", UserID: userID, Bank: "BPI", IsActive: true}
	suite.mockDebt.On("RecordPayment", mock.Anything, userID, dto.PayRequest{DebtID: "debt-1", PaymentIndex: 2}).
		Return(debt, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/debts/payment", userID, map[string]any{
		"debtId":       "debt-1",
		"paymentIndex": 2,
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockDebt.AssertExpectations(suite.T())
}

func (suite *APIHandlerTestSuite) TestGuest_IssuesTokenPair() {
	user := &domain.User{UserID: "guest-1", Name: "Guest", AuthType: domain.AuthTypeGuest}
	expiry := time.Now().Add(time.Hour)
	refreshExpiry := time.Now().Add(90 * 24 * time.Hour)
	suite.mockUser.On("CreateGuestUser", mock.Anything).Return(user, nil).Once()
	suite.mockToken.On("GenerateAccessToken", mock.Anything, user).Return("signed-token", expiry, nil).Once()
	suite.mockToken.On("GenerateRefreshToken", mock.Anything, user).Return("refresh-raw", refreshExpiry, nil).Once()
	suite.mockUser.On("UpdateRefreshToken", mock.Anything, "guest-1", utils.HashRefreshToken("refresh-raw"), refreshExpiry).
		Return(nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/guest", "", nil)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("signed-token", resp.Token)
	suite.Equal("refresh-raw", resp.RefreshToken)
	suite.True(resp.User.IsGuest)
	suite.mockUser.AssertExpectations(suite.T())
}

// A valid refresh token yields a new pair and rotates the stored hash; the
// old token is no longer accepted.
func (suite *APIHandlerTestSuite) TestRefresh_RotatesToken() {
	user := &domain.User{UserID: "guest-1", Name: "Guest", AuthType: domain.AuthTypeGuest}
	expiry := time.Now().Add(time.Hour)
	refreshExpiry := time.Now().Add(90 * 24 * time.Hour)
	suite.mockToken.On("ValidateRefreshToken", mock.Anything, "guest-1", "old-refresh").Return(user, nil).Once()
	suite.mockToken.On("GenerateAccessToken", mock.Anything, user).Return("new-token", expiry, nil).Once()
	suite.mockToken.On("GenerateRefreshToken", mock.Anything, user).Return("new-refresh", refreshExpiry, nil).Once()
	suite.mockUser.On("UpdateRefreshToken", mock.Anything, "guest-1", utils.HashRefreshToken("new-refresh"), refreshExpiry).
		Return(nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/refresh", "", dto.RefreshRequest{UserID: "guest-1", RefreshToken: "old-refresh"})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("new-token", resp.Token)
	suite.Equal("new-refresh", resp.RefreshToken)
	suite.mockToken.AssertExpectations(suite.T())
	suite.mockUser.AssertExpectations(suite.T())
}

func (suite *APIHandlerTestSuite) TestRefresh_InvalidTokenRejected() {
	suite.mockToken.On("ValidateRefreshToken", mock.Anything, "guest-1", "stale-refresh").
		Return(nil, apperrors.ErrUnauthorized).Once()

	w := suite.doJSON(http.MethodPost, "/api/refresh", "", dto.RefreshRequest{UserID: "guest-1", RefreshToken: "stale-refresh"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockUser.AssertNotCalled(suite.T(), "UpdateRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
