package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"horizon/internal/domain/aggregation"
	"horizon/internal/domain/banklink"
	"horizon/internal/domain/transfer"
	"horizon/internal/domain/user"
)

// SidebarSize is how many bank cards the home sidebar shows.
const SidebarSize = 2

// processingWindow is how long a transaction shows as processing.
const processingWindow = 48 * time.Hour

// Transaction statuses
const (
	StatusProcessing = "Processing"
	StatusSuccess    = "Success"
)

// Transaction types
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// Account is one linked bank account as the dashboard shows it.
type Account struct {
	ID               string              `json:"id"`
	BankLinkID       string              `json:"bankLinkId"`
	ShareableID      string              `json:"shareableId"`
	InstitutionID    string              `json:"institutionId"`
	InstitutionName  string              `json:"institutionName"`
	Name             string              `json:"name"`
	OfficialName     string              `json:"officialName"`
	Mask             string              `json:"mask"`
	Type             string              `json:"type"`
	Subtype          string              `json:"subtype"`
	AvailableBalance decimal.NullDecimal `json:"availableBalance"`
	CurrentBalance   decimal.Decimal     `json:"currentBalance"`
}

type Summary struct {
	Accounts            []Account       `json:"accounts"`
	TotalBanks          int             `json:"totalBanks"`
	TotalCurrentBalance decimal.Decimal `json:"totalCurrentBalance"`
}

// Transaction merges provider transactions and transfer records.
type Transaction struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	PaymentChannel string          `json:"paymentChannel"`
	Type           string          `json:"type"`
	AccountID      string          `json:"accountId,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Pending        bool            `json:"pending"`
	Category       string          `json:"category"`
	Date           time.Time       `json:"date"`
	Image          string          `json:"image,omitempty"`
	Status         string          `json:"status"`
}

type CategoryCount struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	TotalCount int    `json:"totalCount"`
}

type AccountDetail struct {
	Account      Account       `json:"data"`
	Transactions []Transaction `json:"transactions"`
}

// Home is everything the landing page renders for one user.
type Home struct {
	User       *user.Profile   `json:"user"`
	Summary    Summary         `json:"summary"`
	Selected   *AccountDetail  `json:"selected,omitempty"`
	Sidebar    []Account       `json:"sidebar"`
	Categories []CategoryCount `json:"categories"`
}

// BankLinks is the subset of the bank directory the read model uses.
type BankLinks interface {
	ListBankLinks(ctx context.Context, userID string) ([]*banklink.BankLink, error)
	GetOwnedBankLink(ctx context.Context, userID, id string) (*banklink.BankLink, error)
}

// TransferRecords lists app-side transfer records for a bank link.
type TransferRecords interface {
	ListByBankLink(ctx context.Context, bankLinkID string) ([]*transfer.Record, error)
}

// Aggregator is the read side of the aggregation provider.
type Aggregator interface {
	GetAccounts(ctx context.Context, accessToken string) (*aggregation.AccountsResult, error)
	GetInstitution(ctx context.Context, institutionID string) (*aggregation.Institution, error)
	SyncTransactions(ctx context.Context, accessToken string) ([]aggregation.Transaction, error)
}
