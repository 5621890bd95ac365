package banklink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horizon/internal/shared/apperr"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc          func(ctx context.Context, params CreateParams) (*BankLink, error)
	GetByIDFunc         func(ctx context.Context, id string) (*BankLink, error)
	ListByUserIDFunc    func(ctx context.Context, userID string) ([]*BankLink, error)
	ListByAccountIDFunc func(ctx context.Context, accountID string) ([]*BankLink, error)
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*BankLink, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*BankLink, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrBankLinkNotFound
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID string) ([]*BankLink, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) ListByAccountID(ctx context.Context, accountID string) ([]*BankLink, error) {
	if m.ListByAccountIDFunc != nil {
		return m.ListByAccountIDFunc(ctx, accountID)
	}
	return nil, nil
}

func validParams() CreateParams {
	return CreateParams{
		UserID:           "user-1",
		BankID:           "item-1",
		AccountID:        "account-1",
		AccessToken:      "access-sandbox-1",
		FundingSourceURL: "https://api-sandbox.dwolla.com/funding-sources/fs-1",
		ShareableID:      EncryptID("account-1"),
	}
}

func TestService_CreateBankLink(t *testing.T) {
	tests := []struct {
		name     string
		params   func() CreateParams
		repoErr  error
		wantKind apperr.Kind
	}{
		{"success", validParams, nil, apperr.KindUnknown},
		{"missing funding source", func() CreateParams {
			p := validParams()
			p.FundingSourceURL = ""
			return p
		}, nil, apperr.KindValidationFailed},
		{"duplicate", validParams, ErrDuplicateBankLink, apperr.KindConflict},
		{"database error", validParams, errors.New("connection refused"), apperr.KindPersistenceFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			repo := &MockRepository{
				CreateFunc: func(ctx context.Context, params CreateParams) (*BankLink, error) {
					calls++
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return &BankLink{ID: "link-1", UserID: params.UserID, FundingSourceURL: params.FundingSourceURL}, nil
				},
			}

			link, err := NewService(repo).CreateBankLink(context.Background(), tt.params())
			if tt.wantKind == apperr.KindUnknown {
				require.NoError(t, err)
				assert.Equal(t, "link-1", link.ID)
				return
			}
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
			if tt.wantKind == apperr.KindValidationFailed {
				assert.Zero(t, calls, "repository must not be called for invalid params")
			}
		})
	}
}

func TestService_GetBankLinkByAccountID(t *testing.T) {
	tests := []struct {
		name     string
		links    []*BankLink
		wantKind apperr.Kind
	}{
		{"exactly one", []*BankLink{{ID: "link-1"}}, apperr.KindUnknown},
		{"none", nil, apperr.KindNotFound},
		{"more than one", []*BankLink{{ID: "link-1"}, {ID: "link-2"}}, apperr.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{
				ListByAccountIDFunc: func(ctx context.Context, accountID string) ([]*BankLink, error) {
					return tt.links, nil
				},
			}

			link, err := NewService(repo).GetBankLinkByAccountID(context.Background(), "account-1")
			if tt.wantKind == apperr.KindUnknown {
				require.NoError(t, err)
				assert.Equal(t, "link-1", link.ID)
				return
			}
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
		})
	}
}

func TestService_GetBankLinkByShareableID(t *testing.T) {
	var gotAccountID string
	repo := &MockRepository{
		ListByAccountIDFunc: func(ctx context.Context, accountID string) ([]*BankLink, error) {
			gotAccountID = accountID
			return []*BankLink{{ID: "link-9", AccountID: accountID}}, nil
		},
	}
	svc := NewService(repo)

	link, err := svc.GetBankLinkByShareableID(context.Background(), EncryptID("account-9"))
	require.NoError(t, err)
	assert.Equal(t, "account-9", gotAccountID)
	assert.Equal(t, "link-9", link.ID)

	_, err = svc.GetBankLinkByShareableID(context.Background(), "%%%")
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
}

func TestService_GetOwnedBankLink(t *testing.T) {
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*BankLink, error) {
			return &BankLink{ID: id, UserID: "owner"}, nil
		},
	}
	svc := NewService(repo)

	_, err := svc.GetOwnedBankLink(context.Background(), "owner", "link-1")
	require.NoError(t, err)

	_, err = svc.GetOwnedBankLink(context.Background(), "intruder", "link-1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestService_ListBankLinks(t *testing.T) {
	repo := &MockRepository{
		ListByUserIDFunc: func(ctx context.Context, userID string) ([]*BankLink, error) {
			return nil, errors.New("timeout")
		},
	}
	svc := NewService(repo)

	_, err := svc.ListBankLinks(context.Background(), "user-1")
	assert.Equal(t, apperr.KindPersistenceFailed, apperr.KindOf(err))

	_, err = svc.ListBankLinks(context.Background(), "")
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
}
