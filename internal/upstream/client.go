// Package upstream talks to the finance API that backs every view.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finboard/internal/core"
)

// DefaultBaseURL is the API the dashboard was built against.
const DefaultBaseURL = "https://acrosporous-ligneous-raguel.ngrok-free.dev/api"

// Endpoint paths relative to the base URL.
const (
	EndpointDashboard    = "/dashboard"
	EndpointRewards      = "/rewards"
	EndpointTransactions = "/transactions"
	EndpointAccounts     = "/accounts"
	EndpointExpensesPie  = "/expenses/pie"
)

// maxBody bounds how much of a response is read.
const maxBody = 8 << 20

// AccountTransactionsEndpoint is the path for one account's transactions.
func AccountTransactionsEndpoint(accountNumber string) string {
	return EndpointAccounts + "/" + url.PathEscape(accountNumber) + "/transactions"
}

// ErrFetchFailed is matched by every error the client returns.
var ErrFetchFailed = errors.New("fetch failed")

// FetchError describes a failed request. Status is zero when no response
// was received.
type FetchError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// Client fetches JSON documents from the finance API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the pooled default client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for baseURL. A zero timeout keeps the default of 15s.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{baseURL: baseURL, http: newPooledHTTPClient(timeout)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

func newPooledHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// Dashboard fetches the dashboard document.
func (c *Client) Dashboard(ctx context.Context) (core.DashboardData, error) {
	var out core.DashboardData
	err := c.get(ctx, EndpointDashboard, &out)
	return out, err
}

// Rewards fetches current rewards and card recommendations.
func (c *Client) Rewards(ctx context.Context) (core.RewardsData, error) {
	var out core.RewardsData
	err := c.get(ctx, EndpointRewards, &out)
	return out, err
}

// Transactions fetches the transactions of every account.
func (c *Client) Transactions(ctx context.Context) ([]core.Transaction, error) {
	var out []core.Transaction
	err := c.get(ctx, EndpointTransactions, &out)
	return out, err
}

// Accounts fetches the connected accounts.
func (c *Client) Accounts(ctx context.Context) ([]core.Account, error) {
	var out []core.Account
	err := c.get(ctx, EndpointAccounts, &out)
	return out, err
}

// AccountTransactions fetches the transactions of one account.
func (c *Client) AccountTransactions(ctx context.Context, accountNumber string) ([]core.Transaction, error) {
	var out []core.Transaction
	err := c.get(ctx, AccountTransactionsEndpoint(accountNumber), &out)
	return out, err
}

// ExpensesPie fetches spending per category. Keys keep the order the API
// sent them in.
func (c *Client) ExpensesPie(ctx context.Context) (core.Amounts, error) {
	var out core.Amounts
	err := c.get(ctx, EndpointExpensesPie, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, endpoint string, dst any) error {
	fail := func(status int, err error) error {
		return &FetchError{Endpoint: endpoint, Status: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fail(0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("ngrok-skip-browser-warning", "true")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return fail(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(dst); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	slog.DebugContext(ctx, "Fetched upstream document",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}
