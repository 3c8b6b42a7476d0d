// Package client is a Go client for the ledger HTTP API.
//
// A Client holds one session token. Call CreateSession to open a new session or WithToken to reuse
// an existing one; every other method sends the token in the session header.
//
// Non-2xx responses are returned as *StatusError carrying the decoded error body.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/information-sharing-networks/ledger-demo/internal/api"
	"github.com/information-sharing-networks/ledger-demo/internal/config"
	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
)

type Client struct {
	baseURL    string
	header     string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

// WithSessionHeader overrides the header the token is sent in (default WWW_Authenticate).
func WithSessionHeader(name string) Option {
	return func(c *Client) { c.header = name }
}

// WithToken sets the session token of an existing session.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		header:     config.DefaultSessionHeader,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the session token the client sends, empty before CreateSession.
func (c *Client) Token() string { return c.token }

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Response   *api.ErrorResponse
}

func (e *StatusError) Error() string {
	if e.Response != nil && e.Response.StatusCodeMessage != "" {
		return fmt.Sprintf("ledger api returned %d: %s", e.StatusCode, e.Response.StatusCodeMessage)
	}
	return fmt.Sprintf("ledger api returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// StatusCode returns the HTTP status of a *StatusError in err's chain, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// CreateSession opens a new session and makes the client use its token.
func (c *Client) CreateSession(ctx context.Context) (ledger.SessionToken, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, nil, &raw); err != nil {
		return 0, err
	}
	token, err := ledger.ParseSessionToken(string(raw))
	if err != nil {
		return 0, fmt.Errorf("unexpected session response %q: %w", raw, err)
	}
	c.token = token.String()
	return token, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]ledger.Category, error) {
	var categories []ledger.Category
	err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories)
	return categories, err
}

func (c *Client) CreateCategory(ctx context.Context, name string) (ledger.Category, error) {
	var category ledger.Category
	err := c.do(ctx, http.MethodPost, "/categories", nil, ledger.CategoryInput{Name: &name}, &category)
	return category, err
}

func (c *Client) GetCategory(ctx context.Context, id ledger.ID) (ledger.Category, error) {
	var category ledger.Category
	err := c.do(ctx, http.MethodGet, "/categories/"+id.String(), nil, nil, &category)
	return category, err
}

func (c *Client) UpdateCategory(ctx context.Context, id ledger.ID, name string) (ledger.Category, error) {
	var category ledger.Category
	err := c.do(ctx, http.MethodPut, "/categories/"+id.String(), nil, ledger.CategoryInput{Name: &name}, &category)
	return category, err
}

func (c *Client) DeleteCategory(ctx context.Context, id ledger.ID) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+id.String(), nil, nil, nil)
}

// ListTransactions sends q as the offset, limit and category query parameters.
func (c *Client) ListTransactions(ctx context.Context, q ledger.TransactionQuery) ([]ledger.Transaction, error) {
	params := url.Values{}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Limit != nil {
		params.Set("limit", strconv.Itoa(*q.Limit))
	}
	if q.CategoryID != nil {
		params.Set("category", q.CategoryID.String())
	}

	var txs []ledger.Transaction
	err := c.do(ctx, http.MethodGet, "/transactions", params, nil, &txs)
	return txs, err
}

func (c *Client) CreateTransaction(ctx context.Context, in ledger.TransactionInput) (ledger.Transaction, error) {
	var t ledger.Transaction
	err := c.do(ctx, http.MethodPost, "/transactions", nil, in, &t)
	return t, err
}

func (c *Client) GetTransaction(ctx context.Context, id ledger.ID) (ledger.Transaction, error) {
	var t ledger.Transaction
	err := c.do(ctx, http.MethodGet, "/transactions/"+id.String(), nil, nil, &t)
	return t, err
}

func (c *Client) UpdateTransaction(ctx context.Context, id ledger.ID, in ledger.TransactionInput) (ledger.Transaction, error) {
	var t ledger.Transaction
	err := c.do(ctx, http.MethodPut, "/transactions/"+id.String(), nil, in, &t)
	return t, err
}

func (c *Client) DeleteTransaction(ctx context.Context, id ledger.ID) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+id.String(), nil, nil, nil)
}

// SetTransactionCategory sends the category id as the bare PATCH body.
func (c *Client) SetTransactionCategory(ctx context.Context, id, categoryID ledger.ID) (ledger.Transaction, error) {
	var t ledger.Transaction
	err := c.do(ctx, http.MethodPatch, "/transactions/"+id.String()+"/category", nil, categoryID, &t)
	return t, err
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(c.header, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil {
			statusErr.Response = &errResp
		}
		return statusErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
