package banklink

import (
	"context"
	"errors"
	"fmt"

	"horizon/internal/shared/apperr"
)

// Service is the bank directory.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateBankLink(ctx context.Context, params CreateParams) (*BankLink, error) {
	const op = "banklink.Create"

	if err := params.Validate(); err != nil {
		return nil, apperr.Validation(op, err)
	}

	link, err := s.repo.Create(ctx, params)
	if err != nil {
		if errors.Is(err, ErrDuplicateBankLink) {
			return nil, apperr.New(apperr.KindConflict, op, err)
		}
		return nil, apperr.Persistence(op, err)
	}
	return link, nil
}

func (s *Service) ListBankLinks(ctx context.Context, userID string) ([]*BankLink, error) {
	const op = "banklink.List"

	if userID == "" {
		return nil, apperr.Validation(op, errors.New("user ID is required"))
	}

	links, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}
	return links, nil
}

func (s *Service) GetBankLink(ctx context.Context, id string) (*BankLink, error) {
	const op = "banklink.Get"

	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBankLinkNotFound) {
			return nil, apperr.NotFound(op, err)
		}
		return nil, apperr.Persistence(op, err)
	}
	return link, nil
}

// GetOwnedBankLink returns the link only if it belongs to userID. A link owned
// by someone else reads as not found.
func (s *Service) GetOwnedBankLink(ctx context.Context, userID, id string) (*BankLink, error) {
	link, err := s.GetBankLink(ctx, id)
	if err != nil {
		return nil, err
	}
	if link.UserID != userID {
		return nil, apperr.NotFound("banklink.GetOwned", ErrBankLinkNotFound)
	}
	return link, nil
}

// GetBankLinkByAccountID requires exactly one link for the account.
func (s *Service) GetBankLinkByAccountID(ctx context.Context, accountID string) (*BankLink, error) {
	const op = "banklink.GetByAccountID"

	links, err := s.repo.ListByAccountID(ctx, accountID)
	if err != nil {
		return nil, apperr.Persistence(op, err)
	}

	switch len(links) {
	case 1:
		return links[0], nil
	case 0:
		return nil, apperr.NotFound(op, ErrBankLinkNotFound)
	default:
		return nil, apperr.New(apperr.KindConflict, op, fmt.Errorf("%w: %d links", ErrAmbiguousAccountID, len(links)))
	}
}

// GetBankLinkByShareableID resolves a recipient's shareable id to their link.
func (s *Service) GetBankLinkByShareableID(ctx context.Context, shareableID string) (*BankLink, error) {
	accountID, err := DecryptID(shareableID)
	if err != nil {
		return nil, apperr.Validation("banklink.GetByShareableID", err)
	}
	return s.GetBankLinkByAccountID(ctx, accountID)
}
