// Package monzo is a client for the Monzo banking API.
//
// A Client is bound to one access token and borrows the caller's *http.Client
// for transport. Every method performs exactly one GET request and returns
// either the decoded model or one of TransportError, StatusError or
// DecodeError. Nothing is retried or cached.
//
//	client := monzo.NewClient(http.DefaultClient, "<access_token>")
//	balance, err := client.Balance(ctx, "<account_id>")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(balance.Balance, balance.Currency, balance.SpendToday)
package monzo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"monzo/internal/shared/middleware"
)

const (
	// DefaultBaseURL is the production Monzo API host.
	DefaultBaseURL = "https://api.monzo.com"

	accountsPath     = "/accounts"
	balancePath      = "/balance"
	transactionsPath = "/transactions"
	potsPath         = "/pots/listV1"
)

// Client handles communication with the Monzo API.
// It is safe for concurrent use; nothing is written after construction.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// Ensure Client implements API
var _ API = (*Client)(nil)

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL    string
	instrument bool
}

// WithBaseURL points the client at another host. Useful for tests.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithoutInstrumentation skips the logging and telemetry round trippers.
func WithoutInstrumentation() Option {
	return func(o *options) {
		o.instrument = false
	}
}

// NewClient creates a Monzo client authorized by accessToken.
//
// httpClient is borrowed, not owned: it is never mutated, and requests share
// its transport and connection pool. A nil httpClient means
// http.DefaultClient. The token is not validated here; an invalid token
// surfaces as a StatusError on the first call.
func NewClient(httpClient *http.Client, accessToken string, opts ...Option) *Client {
	o := options{baseURL: DefaultBaseURL, instrument: true}
	for _, opt := range opts {
		opt(&o)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	hc := httpClient
	if o.instrument {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc = &http.Client{
			Transport:     middleware.Telemetry(middleware.Tracing(middleware.Logging(base))),
			CheckRedirect: httpClient.CheckRedirect,
			Jar:           httpClient.Jar,
			Timeout:       httpClient.Timeout,
		}
	}

	return &Client{
		httpClient:  hc,
		baseURL:     strings.TrimRight(o.baseURL, "/"),
		accessToken: accessToken,
	}
}

type accountsEnvelope struct {
	Accounts *[]Account `json:"accounts"`
}

type transactionsEnvelope struct {
	Transactions *[]Transaction `json:"transactions"`
}

type transactionEnvelope struct {
	Transaction *Transaction `json:"transaction"`
}

type potsEnvelope struct {
	Pots *[]Pot `json:"pots"`
}

// Accounts lists the accounts the access token can see.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var env accountsEnvelope
	body, err := c.get(ctx, "accounts", accountsPath, nil, &env)
	if err != nil {
		return nil, err
	}
	if env.Accounts == nil {
		return nil, &DecodeError{Op: "accounts", Body: body, Err: missingField("accounts")}
	}
	return *env.Accounts, nil
}

// Balance retrieves the balance of an account.
func (c *Client) Balance(ctx context.Context, accountID string) (*Balance, error) {
	var b Balance
	if _, err := c.get(ctx, "balance", balancePath, accountQuery(accountID), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Transactions lists the transactions of an account in the order the API
// returns them. Only the single page the API returns is fetched.
func (c *Client) Transactions(ctx context.Context, accountID string) ([]Transaction, error) {
	var env transactionsEnvelope
	body, err := c.get(ctx, "transactions", transactionsPath, accountQuery(accountID), &env)
	if err != nil {
		return nil, err
	}
	if env.Transactions == nil {
		return nil, &DecodeError{Op: "transactions", Body: body, Err: missingField("transactions")}
	}
	return *env.Transactions, nil
}

// Transaction retrieves a single transaction of an account.
func (c *Client) Transaction(ctx context.Context, accountID, transactionID string) (*Transaction, error) {
	var env transactionEnvelope
	path := transactionsPath + "/" + url.PathEscape(transactionID)
	body, err := c.get(ctx, "transaction", path, accountQuery(accountID), &env)
	if err != nil {
		return nil, err
	}
	if env.Transaction == nil {
		return nil, &DecodeError{Op: "transaction", Body: body, Err: missingField("transaction")}
	}
	return env.Transaction, nil
}

// Pots lists the pots owned by the user.
func (c *Client) Pots(ctx context.Context) ([]Pot, error) {
	var env potsEnvelope
	body, err := c.get(ctx, "pots", potsPath, nil, &env)
	if err != nil {
		return nil, err
	}
	if env.Pots == nil {
		return nil, &DecodeError{Op: "pots", Body: body, Err: missingField("pots")}
	}
	return *env.Pots, nil
}

func accountQuery(accountID string) url.Values {
	return url.Values{"account_id": []string{accountID}}
}

// get issues one authorized GET and decodes a 2xx body into out.
// The raw body is returned so callers can attach it to envelope errors.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, newStatusError(op, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return body, &DecodeError{Op: op, Body: body, Err: err}
	}

	return body, nil
}
