package dashboard

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"horizon/internal/domain/aggregation"
	"horizon/internal/domain/banklink"
	"horizon/internal/domain/user"
	"horizon/internal/shared/apperr"
)

// Service builds the account views. Every provider call runs in sequence
// within the calling request.
type Service struct {
	links     BankLinks
	provider  Aggregator
	transfers TransferRecords
	now       func() time.Time
}

func NewService(links BankLinks, provider Aggregator, transfers TransferRecords) *Service {
	return &Service{links: links, provider: provider, transfers: transfers, now: time.Now}
}

// Accounts lists every linked account with the totals. One failing bank
// fails the whole summary.
func (s *Service) Accounts(ctx context.Context, userID string) (*Summary, error) {
	const op = "dashboard.Accounts"

	links, err := s.links.ListBankLinks(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Accounts: make([]Account, 0, len(links)), TotalCurrentBalance: decimal.Zero}
	for _, link := range links {
		account, err := s.account(ctx, link)
		if err != nil {
			log.Error().Err(err).Str("bank_link_id", link.ID).Msg("failed to load account")
			return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
		}
		summary.Accounts = append(summary.Accounts, account)
		summary.TotalCurrentBalance = summary.TotalCurrentBalance.Add(account.CurrentBalance)
	}
	summary.TotalBanks = len(summary.Accounts)

	return summary, nil
}

// Account returns one of the user's accounts with provider transactions and
// transfer records merged, newest first.
func (s *Service) Account(ctx context.Context, userID, bankLinkID string) (*AccountDetail, error) {
	const op = "dashboard.Account"

	link, err := s.links.GetOwnedBankLink(ctx, userID, bankLinkID)
	if err != nil {
		return nil, err
	}

	account, err := s.account(ctx, link)
	if err != nil {
		log.Error().Err(err).Str("bank_link_id", link.ID).Msg("failed to load account")
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
	}

	synced, err := s.provider.SyncTransactions(ctx, link.AccessToken)
	if err != nil {
		log.Error().Err(err).Str("bank_link_id", link.ID).Msg("failed to sync transactions")
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
	}

	records, err := s.transfers.ListByBankLink(ctx, link.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	transactions := make([]Transaction, 0, len(synced)+len(records))
	for _, t := range synced {
		if t.AccountID != "" && t.AccountID != link.AccountID {
			continue
		}
		transactions = append(transactions, fromProvider(t, now))
	}
	for _, r := range records {
		tx := Transaction{
			ID:             r.ID,
			Name:           r.Name,
			PaymentChannel: r.Channel,
			Type:           TypeCredit,
			Amount:         r.Amount,
			Category:       r.Category,
			Date:           r.CreatedAt,
			Status:         TransactionStatus(r.CreatedAt, now),
		}
		if r.SenderBankID == link.ID {
			tx.Type = TypeDebit
		}
		transactions = append(transactions, tx)
	}
	sortNewestFirst(transactions)

	return &AccountDetail{Account: account, Transactions: transactions}, nil
}

// Home assembles the landing page. selectedID picks the account shown in
// detail; empty or unknown falls back to the first account.
func (s *Service) Home(ctx context.Context, profile *user.Profile, selectedID string) (*Home, error) {
	summary, err := s.Accounts(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	home := &Home{
		User:       profile,
		Summary:    *summary,
		Sidebar:    summary.Accounts[:min(SidebarSize, len(summary.Accounts))],
		Categories: []CategoryCount{},
	}
	if len(summary.Accounts) == 0 {
		return home, nil
	}

	bankLinkID := summary.Accounts[0].BankLinkID
	for _, a := range summary.Accounts {
		if a.BankLinkID == selectedID {
			bankLinkID = a.BankLinkID
			break
		}
	}

	detail, err := s.Account(ctx, profile.ID, bankLinkID)
	if err != nil {
		return nil, err
	}
	home.Selected = detail
	home.Categories = CountTransactionCategories(detail.Transactions)

	return home, nil
}

// account resolves the link's account and institution from the provider.
// The provider must still return the account the link was created for.
func (s *Service) account(ctx context.Context, link *banklink.BankLink) (Account, error) {
	result, err := s.provider.GetAccounts(ctx, link.AccessToken)
	if err != nil {
		return Account{}, err
	}
	if len(result.Accounts) == 0 {
		return Account{}, aggregation.ErrNoAccounts
	}

	idx := slices.IndexFunc(result.Accounts, func(a aggregation.Account) bool {
		return a.ID == link.AccountID
	})
	if idx < 0 {
		return Account{}, fmt.Errorf("%w: %s", aggregation.ErrLinkedAccountMissing, link.AccountID)
	}
	acc := result.Accounts[idx]

	account := Account{
		ID:               acc.ID,
		BankLinkID:       link.ID,
		ShareableID:      link.ShareableID,
		InstitutionID:    result.InstitutionID,
		Name:             acc.Name,
		OfficialName:     acc.OfficialName,
		Mask:             acc.Mask,
		Type:             acc.Type,
		Subtype:          acc.Subtype,
		AvailableBalance: acc.Balances.Available,
		CurrentBalance:   acc.Balances.Current,
	}

	if result.InstitutionID != "" {
		inst, err := s.provider.GetInstitution(ctx, result.InstitutionID)
		if err != nil {
			return Account{}, err
		}
		account.InstitutionName = inst.Name
	}

	return account, nil
}

func fromProvider(t aggregation.Transaction, now time.Time) Transaction {
	txType := TypeDebit
	if t.Amount.IsNegative() {
		txType = TypeCredit
	}
	return Transaction{
		ID:             t.ID,
		Name:           t.Name,
		PaymentChannel: t.PaymentChannel,
		Type:           txType,
		AccountID:      t.AccountID,
		Amount:         t.Amount,
		Pending:        t.Pending,
		Category:       t.Category,
		Date:           t.Date,
		Image:          t.LogoURL,
		Status:         TransactionStatus(t.Date, now),
	}
}
