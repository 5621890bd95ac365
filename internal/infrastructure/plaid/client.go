package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"horizon/internal/domain/aggregation"
	"horizon/internal/shared/apperr"
	"horizon/internal/shared/config"
)

const (
	defaultTimeout = 30 * time.Second
	processorName  = "dwolla"
	linkLanguage   = "en"
	dateLayout     = "2006-01-02"

	linkTokenCreatePath      = "/link/token/create"
	publicTokenExchangePath  = "/item/public_token/exchange"
	accountsGetPath          = "/accounts/get"
	processorTokenCreatePath = "/processor/token/create"
	institutionGetPath       = "/institutions/get_by_id"
	transactionsSyncPath     = "/transactions/sync"
)

// Client talks to the Plaid API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	creds        credentials
	products     []string
	countryCodes []string
}

// Ensure Client implements aggregation.Provider
var _ aggregation.Provider = (*Client)(nil)

// NewClient creates a Plaid client for the configured environment.
func NewClient(cfg config.PlaidConfig) *Client {
	return newClient(cfg, cfg.BaseURL())
}

func newClient(cfg config.PlaidConfig, baseURL string) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:      baseURL,
		creds:        credentials{ClientID: cfg.ClientID, Secret: cfg.Secret},
		products:     cfg.Products,
		countryCodes: cfg.CountryCodes,
	}
}

func (c *Client) CreateLinkToken(ctx context.Context, req aggregation.LinkTokenRequest) (string, error) {
	var resp linkTokenCreateResponse
	err := c.post(ctx, linkTokenCreatePath, linkTokenCreateRequest{
		credentials:  c.creds,
		User:         linkTokenUser{ClientUserID: req.ClientUserID},
		ClientName:   req.ClientName,
		Products:     c.products,
		Language:     linkLanguage,
		CountryCodes: c.countryCodes,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.LinkToken, nil
}

func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*aggregation.TokenExchange, error) {
	if publicToken == "" {
		return nil, apperr.Validation("plaid.ExchangePublicToken", aggregation.ErrEmptyPublicToken)
	}

	var resp publicTokenExchangeResponse
	err := c.post(ctx, publicTokenExchangePath, publicTokenExchangeRequest{
		credentials: c.creds,
		PublicToken: publicToken,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &aggregation.TokenExchange{AccessToken: resp.AccessToken, ItemID: resp.ItemID}, nil
}

func (c *Client) GetAccounts(ctx context.Context, accessToken string) (*aggregation.AccountsResult, error) {
	var resp accountsGetResponse
	err := c.post(ctx, accountsGetPath, accessTokenRequest{credentials: c.creds, AccessToken: accessToken}, &resp)
	if err != nil {
		return nil, err
	}

	result := &aggregation.AccountsResult{
		Accounts:      make([]aggregation.Account, 0, len(resp.Accounts)),
		ItemID:        resp.Item.ItemID,
		InstitutionID: resp.Item.InstitutionID,
	}
	for _, a := range resp.Accounts {
		result.Accounts = append(result.Accounts, aggregation.Account{
			ID:           a.AccountID,
			Name:         a.Name,
			OfficialName: a.OfficialName,
			Mask:         a.Mask,
			Type:         a.Type,
			Subtype:      a.Subtype,
			Balances: aggregation.Balances{
				Available:       a.Balances.Available,
				Current:         a.Balances.Current.Decimal,
				ISOCurrencyCode: a.Balances.ISOCurrencyCode,
			},
		})
	}
	return result, nil
}

func (c *Client) CreateProcessorToken(ctx context.Context, accessToken, accountID string) (string, error) {
	var resp processorTokenCreateResponse
	err := c.post(ctx, processorTokenCreatePath, processorTokenCreateRequest{
		credentials: c.creds,
		AccessToken: accessToken,
		AccountID:   accountID,
		Processor:   processorName,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.ProcessorToken, nil
}

func (c *Client) GetInstitution(ctx context.Context, institutionID string) (*aggregation.Institution, error) {
	var resp institutionGetResponse
	err := c.post(ctx, institutionGetPath, institutionGetRequest{
		credentials:   c.creds,
		InstitutionID: institutionID,
		CountryCodes:  c.countryCodes,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &aggregation.Institution{ID: resp.Institution.InstitutionID, Name: resp.Institution.Name}, nil
}

// SyncTransactions follows next_cursor until has_more is false and returns
// every added transaction.
func (c *Client) SyncTransactions(ctx context.Context, accessToken string) ([]aggregation.Transaction, error) {
	var (
		out    []aggregation.Transaction
		cursor string
	)

	for {
		var resp transactionsSyncResponse
		err := c.post(ctx, transactionsSyncPath, transactionsSyncRequest{
			credentials: c.creds,
			AccessToken: accessToken,
			Cursor:      cursor,
		}, &resp)
		if err != nil {
			return nil, err
		}

		for _, t := range resp.Added {
			tx, err := toTransaction(t)
			if err != nil {
				return nil, apperr.Upstream("plaid.SyncTransactions", err)
			}
			out = append(out, tx)
		}

		if !resp.HasMore || resp.NextCursor == "" || resp.NextCursor == cursor {
			return out, nil
		}
		cursor = resp.NextCursor
	}
}

func toTransaction(t transaction) (aggregation.Transaction, error) {
	date, err := time.Parse(dateLayout, t.Date)
	if err != nil {
		return aggregation.Transaction{}, fmt.Errorf("failed to parse date '%s': %w", t.Date, err)
	}

	category := ""
	if t.PersonalFinanceCategory != nil && t.PersonalFinanceCategory.Primary != "" {
		category = t.PersonalFinanceCategory.Primary
	} else if len(t.Category) > 0 {
		category = t.Category[0]
	}

	return aggregation.Transaction{
		ID:              t.TransactionID,
		AccountID:       t.AccountID,
		Name:            t.Name,
		MerchantName:    t.MerchantName,
		PaymentChannel:  t.PaymentChannel,
		Amount:          t.Amount,
		ISOCurrencyCode: t.ISOCurrencyCode,
		Pending:         t.Pending,
		Category:        category,
		Date:            date,
		LogoURL:         t.LogoURL,
	}, nil
}

// post sends a JSON request and decodes a 200 response into out. Errors
// carry a kind: Plaid rejecting the input is a validation failure, anything
// else means Plaid was unavailable.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	op := "plaid" + path

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Upstream(op, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Upstream(op, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil {
			apiErr.ErrorMessage = string(body)
		}
		if apiErr.Temporary() {
			return apperr.Upstream(op, apiErr)
		}
		return apperr.Validation(op, apiErr)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Upstream(op, fmt.Errorf("failed to unmarshal response: %w", err))
	}
	return nil
}
