package dwolla

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"horizon/internal/domain/payments"
	"horizon/internal/shared/apperr"
	"horizon/internal/shared/config"
)

const (
	defaultTimeout = 30 * time.Second
	contentType    = "application/vnd.dwolla.v1.hal+json"
	customerType   = "personal"
	statusInactive = "deactivated"

	customersPath      = "/customers"
	authorizationsPath = "/on-demand-authorizations"
	transfersPath      = "/transfers"
	tokenPath          = "/token"
)

// Client talks to the Dwolla API. Requests are authorized with an
// application token obtained through the client credentials grant.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Ensure Client implements payments.Provider
var _ payments.Provider = (*Client)(nil)

func NewClient(cfg config.DwollaConfig) *Client {
	return newClient(cfg, cfg.BaseURL())
}

func newClient(cfg config.DwollaConfig, baseURL string) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	base := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	creds := clientcredentials.Config{
		ClientID:     cfg.Key,
		ClientSecret: cfg.Secret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	httpClient := creds.Client(context.WithValue(context.Background(), oauth2.HTTPClient, base))
	httpClient.Timeout = timeout

	return &Client{httpClient: httpClient, baseURL: baseURL}
}

func (c *Client) CreateCustomer(ctx context.Context, customer payments.NewCustomer) (string, error) {
	return c.create(ctx, customersPath, customerRequest{
		FirstName:   customer.FirstName,
		LastName:    customer.LastName,
		Email:       customer.Email,
		Type:        customerType,
		Address1:    customer.Address1,
		City:        customer.City,
		State:       customer.State,
		PostalCode:  customer.PostalCode,
		DateOfBirth: customer.DateOfBirth,
		SSN:         customer.SSN,
	}, customer.IdempotencyKey)
}

func (c *Client) DeactivateCustomer(ctx context.Context, customerURL string) error {
	_, err := c.do(ctx, customerURL, statusRequest{Status: statusInactive}, "", nil)
	return err
}

func (c *Client) CreateOnDemandAuthorization(ctx context.Context) (*payments.Authorization, error) {
	var resp authorizationResponse
	if _, err := c.do(ctx, authorizationsPath, struct{}{}, "", &resp); err != nil {
		return nil, err
	}
	return &payments.Authorization{
		SelfURL:    resp.Links.Self.Href,
		BodyText:   resp.BodyText,
		ButtonText: resp.ButtonText,
	}, nil
}

func (c *Client) CreateFundingSource(ctx context.Context, params payments.FundingSourceParams) (string, error) {
	body := fundingSourceRequest{Name: params.FundingSourceName, PlaidToken: params.PlaidToken}
	body.Links.OnDemandAuthorization.Href = params.AuthorizationURL

	return c.create(ctx, customersPath+"/"+params.CustomerID+"/funding-sources", body, "")
}

func (c *Client) CreateTransfer(ctx context.Context, params payments.TransferParams) (string, error) {
	body := transferRequest{Amount: amount{Currency: payments.Currency, Value: params.Amount.StringFixed(2)}}
	body.Links.Source.Href = params.SourceFundingSourceURL
	body.Links.Destination.Href = params.DestinationFundingSourceURL

	return c.create(ctx, transfersPath, body, params.IdempotencyKey)
}

// create posts a new resource and returns its Location header.
func (c *Client) create(ctx context.Context, path string, in any, idempotencyKey string) (string, error) {
	resp, err := c.do(ctx, path, in, idempotencyKey, nil)
	if err != nil {
		return "", err
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return "", apperr.Upstream("dwolla"+path, payments.ErrMissingLocation)
	}
	return location, nil
}

// do posts in to target, a path under the base URL or an absolute resource
// URL. A 2xx response body is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, target string, in any, idempotencyKey string, out any) (*http.Response, error) {
	url := target
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		url = c.baseURL + target
	}
	op := "dwolla " + strings.TrimPrefix(url, c.baseURL)

	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Upstream(op, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Upstream(op, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil {
			apiErr.Message = string(body)
		}
		if apiErr.Temporary() {
			return nil, apperr.Upstream(op, apiErr)
		}
		return nil, apperr.Validation(op, apiErr)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, apperr.Upstream(op, fmt.Errorf("failed to unmarshal response: %w", err))
		}
	}
	return resp, nil
}
