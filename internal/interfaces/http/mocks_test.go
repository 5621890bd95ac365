package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"horizon/internal/domain/banklink"
	"horizon/internal/domain/dashboard"
	"horizon/internal/domain/identity"
	"horizon/internal/domain/linking"
	"horizon/internal/domain/notification"
	"horizon/internal/domain/onboarding"
	"horizon/internal/domain/transfer"
	"horizon/internal/domain/user"
	"horizon/internal/shared/apperr"
	"horizon/internal/shared/middleware"
)

type MockProfiles struct {
	GetUserInfoFunc func(ctx context.Context, identityID string) (*user.Profile, error)
}

func (m *MockProfiles) GetUserInfo(ctx context.Context, identityID string) (*user.Profile, error) {
	if m.GetUserInfoFunc != nil {
		return m.GetUserInfoFunc(ctx, identityID)
	}
	return testProfile(identityID), nil
}

type MockOnboarding struct {
	SignUpFunc func(ctx context.Context, params onboarding.SignUpParams) (*onboarding.Result, error)
	SignInFunc func(ctx context.Context, params onboarding.SignInParams) (*onboarding.Result, error)
	LogoutFunc func(ctx context.Context, token string) error
}

func (m *MockOnboarding) SignUp(ctx context.Context, params onboarding.SignUpParams) (*onboarding.Result, error) {
	if m.SignUpFunc != nil {
		return m.SignUpFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockOnboarding) SignIn(ctx context.Context, params onboarding.SignInParams) (*onboarding.Result, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockOnboarding) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

type MockSessions struct {
	LoggedInUserFunc func(ctx context.Context, token string) (*identity.Identity, error)
}

func (m *MockSessions) LoggedInUser(ctx context.Context, token string) (*identity.Identity, error) {
	if m.LoggedInUserFunc != nil {
		return m.LoggedInUserFunc(ctx, token)
	}
	return nil, apperr.Unauthorized("test", identity.ErrSessionNotFound)
}

type MockLinker struct {
	CreateLinkTokenFunc     func(ctx context.Context, profile *user.Profile) (string, error)
	ExchangePublicTokenFunc func(ctx context.Context, publicToken string, profile *user.Profile) (*linking.ExchangeResult, error)
}

func (m *MockLinker) CreateLinkToken(ctx context.Context, profile *user.Profile) (string, error) {
	if m.CreateLinkTokenFunc != nil {
		return m.CreateLinkTokenFunc(ctx, profile)
	}
	return "", nil
}

func (m *MockLinker) ExchangePublicToken(ctx context.Context, publicToken string, profile *user.Profile) (*linking.ExchangeResult, error) {
	if m.ExchangePublicTokenFunc != nil {
		return m.ExchangePublicTokenFunc(ctx, publicToken, profile)
	}
	return nil, nil
}

type MockBankLinks struct {
	ListBankLinksFunc    func(ctx context.Context, userID string) ([]*banklink.BankLink, error)
	GetOwnedBankLinkFunc func(ctx context.Context, userID, id string) (*banklink.BankLink, error)
}

func (m *MockBankLinks) ListBankLinks(ctx context.Context, userID string) ([]*banklink.BankLink, error) {
	if m.ListBankLinksFunc != nil {
		return m.ListBankLinksFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockBankLinks) GetOwnedBankLink(ctx context.Context, userID, id string) (*banklink.BankLink, error) {
	if m.GetOwnedBankLinkFunc != nil {
		return m.GetOwnedBankLinkFunc(ctx, userID, id)
	}
	return nil, nil
}

type MockDashboard struct {
	AccountsFunc func(ctx context.Context, userID string) (*dashboard.Summary, error)
	AccountFunc  func(ctx context.Context, userID, bankLinkID string) (*dashboard.AccountDetail, error)
	HomeFunc     func(ctx context.Context, profile *user.Profile, selectedID string) (*dashboard.Home, error)
}

func (m *MockDashboard) Accounts(ctx context.Context, userID string) (*dashboard.Summary, error) {
	if m.AccountsFunc != nil {
		return m.AccountsFunc(ctx, userID)
	}
	return &dashboard.Summary{}, nil
}

func (m *MockDashboard) Account(ctx context.Context, userID, bankLinkID string) (*dashboard.AccountDetail, error) {
	if m.AccountFunc != nil {
		return m.AccountFunc(ctx, userID, bankLinkID)
	}
	return &dashboard.AccountDetail{}, nil
}

func (m *MockDashboard) Home(ctx context.Context, profile *user.Profile, selectedID string) (*dashboard.Home, error) {
	if m.HomeFunc != nil {
		return m.HomeFunc(ctx, profile, selectedID)
	}
	return &dashboard.Home{User: profile}, nil
}

type MockTransfers struct {
	SendFunc func(ctx context.Context, params transfer.SendParams) (*transfer.Record, error)
}

func (m *MockTransfers) Send(ctx context.Context, params transfer.SendParams) (*transfer.Record, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, params)
	}
	return &transfer.Record{}, nil
}

type MockDevices struct {
	RegisterDeviceFunc func(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error)
}

func (m *MockDevices) RegisterDevice(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error) {
	if m.RegisterDeviceFunc != nil {
		return m.RegisterDeviceFunc(ctx, params)
	}
	return &notification.DeviceToken{UserID: params.UserID, Token: params.Token, DeviceType: params.DeviceType, IsActive: true}, nil
}

func testProfile(identityID string) *user.Profile {
	return &user.Profile{
		ID:                 "profile-1",
		IdentityID:         identityID,
		FirstName:          "Ada",
		LastName:           "Lovelace",
		Email:              "ada@example.com",
		PaymentsCustomerID: "cus-1",
	}
}

// authedRequest builds a request as the Auth middleware would pass it on.
func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, "identity-1")
	return req.WithContext(ctx)
}
