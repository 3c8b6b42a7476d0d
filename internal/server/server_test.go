package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/information-sharing-networks/ledger-demo/internal/config"
	"github.com/information-sharing-networks/ledger-demo/internal/logger"
	"github.com/information-sharing-networks/ledger-demo/internal/store/memory"
)

const sessionHeader = "WWW_Authenticate"

func testConfig() *config.ServerEnvironment {
	return &config.ServerEnvironment{
		Environment:          "test",
		Host:                 "127.0.0.1",
		Port:                 8080,
		RequestTimeout:       5 * time.Second,
		MaxRequestBodyBytes:  1024,
		RateLimitRPS:         0,
		APIBasePath:          "/api/v1",
		SessionHeader:        sessionHeader,
		SessionSweepInterval: time.Minute,
		StoreBackend:         config.BackendMemory,
	}
}

// testClient sends requests to an in-process server, optionally carrying a session token.
type testClient struct {
	t       *testing.T
	baseURL string
	token   string
}

func newTestServer(t *testing.T, cfg *config.ServerEnvironment) *testClient {
	t.Helper()
	srv := NewServer(memory.New(0), cfg, logger.NewLogger(io.Discard, logger.LevelNone, cfg.Environment))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testClient{t: t, baseURL: ts.URL}
}

func (c *testClient) do(method, path string, token string, body string) (*http.Response, []byte) {
	c.t.Helper()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/JSON")
	if token != "" {
		req.Header.Set(sessionHeader, token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

// call sends an authenticated request and returns the status code and body.
func (c *testClient) call(method, path, body string) (int, []byte) {
	c.t.Helper()
	resp, data := c.do(method, path, c.token, body)
	return resp.StatusCode, data
}

func (c *testClient) openSession() {
	c.t.Helper()
	resp, body := c.do(http.MethodGet, "/api/v1/sessions", "", "")
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	c.token = string(body)
}

type transactionBody struct {
	ID           int64           `json:"id"`
	Date         string          `json:"date"`
	Amount       json.RawMessage `json:"amount"`
	ExternalIBAN string          `json:"externalIBAN"`
	Type         string          `json:"type"`
	CategoryID   *int64          `json:"categoryID"`
}

type categoryBody struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), "body: %s", data)
	return v
}

// seed creates the fixture existing API clients start from: categories test1 and test2,
// then two deposits tagged with the first category (one dated "0", one dated 1).
func (c *testClient) seed() (categoryID, transactionID int64) {
	c.t.Helper()
	code, _ := c.call(http.MethodPost, "/api/v1/categories", `{"name":"test1"}`)
	require.Equal(c.t, http.StatusCreated, code)
	code, _ = c.call(http.MethodPost, "/api/v1/categories", `{"name":"test2"}`)
	require.Equal(c.t, http.StatusCreated, code)

	code, data := c.call(http.MethodGet, "/api/v1/categories", "")
	require.Equal(c.t, http.StatusOK, code)
	categories := decode[[]categoryBody](c.t, data)
	require.Len(c.t, categories, 2)
	categoryID = categories[0].ID

	code, _ = c.call(http.MethodPost, "/api/v1/transactions",
		fmt.Sprintf(`{"date":"0","amount":10.0,"externalIBAN":"testIBAN","type":"deposit","categoryID":"%d"}`, categoryID))
	require.Equal(c.t, http.StatusCreated, code)
	code, _ = c.call(http.MethodPost, "/api/v1/transactions",
		fmt.Sprintf(`{"date":1,"amount":10.0,"externalIBAN":"testIBAN","type":"deposit","categoryID":"%d"}`, categoryID))
	require.Equal(c.t, http.StatusCreated, code)

	code, data = c.call(http.MethodGet, "/api/v1/transactions", "")
	require.Equal(c.t, http.StatusOK, code)
	txs := decode[[]transactionBody](c.t, data)
	require.Len(c.t, txs, 2)
	return categoryID, txs[0].ID
}

func TestSessions(t *testing.T) {
	c := newTestServer(t, testConfig())

	resp, body := c.do(http.MethodGet, "/api/v1/sessions", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	// clients parse the body with a plain integer parser
	token, err := strconv.ParseInt(string(body), 10, 32)
	require.NoError(t, err, "body %q", body)
	assert.Greater(t, token, int64(0))

	_, other := c.do(http.MethodGet, "/api/v1/sessions", "", "")
	assert.NotEqual(t, string(body), string(other))
}

func TestSessionHeaderRequired(t *testing.T) {
	c := newTestServer(t, testConfig())
	c.openSession()
	categoryID, transactionID := c.seed()

	routes := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/categories", ""},
		{http.MethodPost, "/api/v1/categories", `{"name":"blah"}`},
		{http.MethodGet, fmt.Sprintf("/api/v1/categories/%d", categoryID), ""},
		{http.MethodPut, fmt.Sprintf("/api/v1/categories/%d", categoryID), `{"name":"x"}`},
		{http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", categoryID), ""},
		{http.MethodGet, "/api/v1/transactions", ""},
		{http.MethodPost, "/api/v1/transactions", `{"date":"0","amount":15.0,"externalIBAN":"x","type":"deposit"}`},
		{http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d", transactionID), ""},
		{http.MethodPut, fmt.Sprintf("/api/v1/transactions/%d", transactionID), `{"date":"0","amount":15.0,"externalIBAN":"x","type":"deposit"}`},
		{http.MethodDelete, fmt.Sprintf("/api/v1/transactions/%d", transactionID), ""},
		{http.MethodPatch, fmt.Sprintf("/api/v1/transactions/%d/category", transactionID), strconv.FormatInt(categoryID, 10)},
	}

	for _, route := range routes {
		for _, token := range []string{"", "-1", "0", "abc"} {
			t.Run(fmt.Sprintf("%s %s token %q", route.method, route.path, token), func(t *testing.T) {
				resp, body := c.do(route.method, route.path, token, route.body)
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

				errResp := decode[map[string]any](t, body)
				assert.Equal(t, "unauthorized", errResp["errorCode"])
			})
		}
	}

	// nothing was changed by the rejected requests
	code, data := c.call(http.MethodGet, "/api/v1/transactions", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]transactionBody](t, data), 2)
}

func TestTransactionListQuery(t *testing.T) {
	c := newTestServer(t, testConfig())
	c.openSession()
	categoryID, firstID := c.seed()

	// an untagged transaction
	code, _ := c.call(http.MethodPost, "/api/v1/transactions",
		`{"date":"2","amount":"3.50","externalIBAN":"NL01","type":"withdrawal"}`)
	require.Equal(t, http.StatusCreated, code)

	tests := []struct {
		name    string
		query   string
		wantIDs []int64
	}{
		{"no params", "", []int64{firstID, firstID + 1, firstID + 2}},
		{"offset 0", "?offset=0", []int64{firstID, firstID + 1, firstID + 2}},
		{"offset 1", "?offset=1", []int64{firstID + 1, firstID + 2}},
		{"offset past end", "?offset=10", []int64{}},
		{"limit 1", "?limit=1", []int64{firstID}},
		{"limit 0", "?limit=0", []int64{}},
		{"offset and limit", "?offset=1&limit=1", []int64{firstID + 1}},
		{"category", fmt.Sprintf("?category=%d", categoryID), []int64{firstID, firstID + 1}},
		{"category then offset", fmt.Sprintf("?category=%d&offset=1", categoryID), []int64{firstID + 1}},
		{"unknown category", "?category=99", []int64{}},
		{"non-numeric values ignored", "?offset=abc&limit=xyz&category=q", []int64{firstID, firstID + 1, firstID + 2}},
		{"negative values ignored", "?offset=-1&limit=-5", []int64{firstID, firstID + 1, firstID + 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, data := c.call(http.MethodGet, "/api/v1/transactions"+tt.query, "")
			require.Equal(t, http.StatusOK, code)

			txs := decode[[]transactionBody](t, data)
			ids := make([]int64, 0, len(txs))
			for _, tx := range txs {
				ids = append(ids, tx.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestTransactionCreateValidation(t *testing.T) {
	c := newTestServer(t, testConfig())
	c.openSession()
	categoryID, _ := c.seed()

	valid := fmt.Sprintf(`{"date":"0","amount":15.0,"externalIBAN":"testIBAN","type":"deposit","categoryID":"%d"}`, categoryID)
	code, data := c.call(http.MethodPost, "/api/v1/transactions", valid)
	require.Equal(t, http.StatusCreated, code)

	created := decode[transactionBody](t, data)
	assert.Equal(t, "0", created.Date)
	assert.Equal(t, "15.0", string(created.Amount))
	assert.Equal(t, "deposit", created.Type)
	require.NotNil(t, created.CategoryID)
	assert.Equal(t, categoryID, *created.CategoryID)

	tests := []struct {
		name string
		body string
	}{
		{"zero amount", `{"date":"0","amount":0,"externalIBAN":"testIBAN","type":"deposit"}`},
		{"negative amount", `{"date":"0","amount":-15,"externalIBAN":"testIBAN","type":"deposit"}`},
		{"missing amount", `{"date":"0","externalIBAN":"testIBAN","type":"deposit"}`},
		{"huge exponent", `{"date":"0","amount":1e2000000,"externalIBAN":"testIBAN","type":"deposit"}`},
		{"huge quoted exponent", `{"date":"0","amount":"1e2000000000","externalIBAN":"testIBAN","type":"deposit"}`},
		{"too many fractional digits", `{"date":"0","amount":1e-30,"externalIBAN":"testIBAN","type":"deposit"}`},
		{"NUL in externalIBAN", `{"date":"0","amount":15.0,"externalIBAN":"test\u0000IBAN","type":"deposit"}`},
		{"NUL in date", `{"date":"0\u0000","amount":15.0,"externalIBAN":"testIBAN","type":"deposit"}`},
		{"unknown category", `{"date":"0","amount":15.0,"externalIBAN":"testIBAN","type":"deposit","categoryID":-1}`},
		{"missing externalIBAN", `{"date":"0","amount":15.0,"type":"deposit"}`},
		{"blank externalIBAN", `{"date":"0","amount":15.0,"externalIBAN":"  ","type":"deposit"}`},
		{"missing date", `{"amount":15.0,"externalIBAN":"testIBAN","type":"deposit"}`},
		{"null date", `{"date":null,"amount":15.0,"externalIBAN":"testIBAN","type":"deposit"}`},
		{"missing type", `{"date":"0","amount":15.0,"externalIBAN":"testIBAN"}`},
		{"unknown type", `{"date":"0","amount":15.0,"externalIBAN":"testIBAN","type":"transfer"}`},
		{"malformed json", `{"date":`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, data := c.call(http.MethodPost, "/api/v1/transactions", tt.body)
			assert.Equal(t, http.StatusMethodNotAllowed, code, "body: %s", data)
		})
	}

	// only the valid transaction was added to the two seeded ones
	code, data = c.call(http.MethodGet, "/api/v1/transactions", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]transactionBody](t, data), 3)
}

func TestTransactionGetUpdateDelete(t *testing.T) {
	c := newTestServer(t, testConfig())
	c.openSession()
	categoryID, transactionID := c.seed()
	path := fmt.Sprintf("/api/v1/transactions/%d", transactionID)

	code, _ := c.call(http.MethodGet, path, "")
	assert.Equal(t, http.StatusOK, code)

	for _, id := range []string{"-1", "0", "999", "abc"} {
		code, _ := c.call(http.MethodGet, "/api/v1/transactions/"+id, "")
		assert.Equal(t, http.StatusNotFound, code, "id %s", id)
	}

	put := fmt.Sprintf(`{"date":"timeOfPutRequest","amount":999.0,"externalIBAN":"putIBAN","type":"deposit","categoryID":"%d"}`, categoryID)
	code, _ = c.call(http.MethodPut, path, put)
	require.Equal(t, http.StatusOK, code)

	code, data := c.call(http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, code)
	got := decode[transactionBody](t, data)
	assert.Equal(t, transactionID, got.ID)
	assert.Equal(t, "timeOfPutRequest", got.Date)
	assert.Equal(t, "999.0", string(got.Amount))
	assert.Equal(t, "putIBAN", got.ExternalIBAN)
	assert.Equal(t, "deposit", got.Type)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, strconv.FormatInt(categoryID, 10), strconv.FormatInt(*got.CategoryID, 10))

	code, _ = c.call(http.MethodPut, "/api/v1/transactions/-1", put)
	assert.Equal(t, http.StatusNotFound, code)

	// an unknown id wins over a malformed body
	code, _ = c.call(http.MethodPut, "/api/v1/transactions/999", `{"date":`)
	assert.Equal(t, http.StatusNotFound, code)

	invalid := []string{
		`{"date":"x","amount":0,"externalIBAN":"putIBAN","type":"deposit"}`,
		`{"date":"x","amount":-15,"externalIBAN":"putIBAN","type":"deposit"}`,
		`{"date":"x","amount":15.0,"externalIBAN":"putIBAN","type":"deposit","categoryID":-1}`,
		`{"date":"x","amount":15.0,"type":"deposit"}`,
		`{"amount":15.0,"externalIBAN":"testIBAN","type":"deposit"}`,
		`{"date":`,
	}
	for _, body := range invalid {
		code, _ := c.call(http.MethodPut, path, body)
		assert.Equal(t, http.StatusMethodNotAllowed, code, "body %s", body)
	}

	// failed updates leave the transaction unchanged
	_, data = c.call(http.MethodGet, path, "")
	assert.Equal(t, "timeOfPutRequest", decode[transactionBody](t, data).Date)

	code, _ = c.call(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = c.call(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.call(http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTransactionPatchCategory(t *testing.T) {
	c := newTestServer(t, testConfig())
	c.openSession()
	categoryID, transactionID := c.seed()
	path := fmt.Sprintf("/api/v1/transactions/%d/category", transactionID)
	next := categoryID + 1

	code, data := c.call(http.MethodPatch, path, strconv.FormatInt(next, 10))
	require.Equal(t, http.StatusOK, code, "body: %s", data)

	_, data = c.call(http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d", transactionID), "")
	got := decode[transactionBody](t, data)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, next, *got.CategoryID)
	assert.Equal(t, "0", got.Date, "patch must only change the category")
	assert.Equal(t, "10.0", string(got.Amount))

	t.Run("alternate body forms", func(t *testing.T) {
		code, _ := c.call(http.MethodPatch, path, fmt.Sprintf(`"%d"`, categoryID))
		assert.Equal(t, http.StatusOK, code)
		code, _ = c.call(http.MethodPatch, path, fmt.Sprintf(`{"categoryID":%d}`, next))
		assert.Equal(t, http.StatusOK, code)
	})

	// unknown transaction, unknown category and both are all 404 (not 405)
	otherPath := fmt.Sprintf("/api/v1/transactions/%d/category", transactionID-1)
	code, _ = c.call(http.MethodPatch, otherPath, strconv.FormatInt(next, 10))
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.call(http.MethodPatch, path, "-1")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.call(http.MethodPatch, otherPath, "-1")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.call(http.MethodPatch, path, `"abc"`)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.call(http.MethodPatch, path, `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCategories(t *testing.T) {
	c := newTestServer(t, testConfig())
	c.openSession()
	categoryID, _ := c.seed()
	path := fmt.Sprintf("/api/v1/categories/%d", categoryID)

	code, data := c.call(http.MethodPost, "/api/v1/categories", `{"name":"blah"}`)
	require.Equal(t, http.StatusCreated, code)
	created := decode[categoryBody](t, data)
	assert.Equal(t, "blah", created.Name)
	assert.Equal(t, categoryID+2, created.ID)

	for _, body := range []string{`{}`, `{"name":null}`, `{"name":""}`, `{"name":`, ``} {
		code, _ := c.call(http.MethodPost, "/api/v1/categories", body)
		assert.Equal(t, http.StatusMethodNotAllowed, code, "body %q", body)
	}

	code, data = c.call(http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, categoryBody{ID: categoryID, Name: "test1"}, decode[categoryBody](t, data))

	for _, id := range []string{"-1", "0", strconv.FormatInt(categoryID-1, 10), "abc"} {
		code, _ := c.call(http.MethodGet, "/api/v1/categories/"+id, "")
		assert.Equal(t, http.StatusNotFound, code, "id %s", id)
		code, _ = c.call(http.MethodPut, "/api/v1/categories/"+id, `{"name":"putCategoryTest"}`)
		assert.Equal(t, http.StatusNotFound, code, "id %s", id)
	}

	code, data = c.call(http.MethodPut, path, `{"name":"putCategoryTest"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, categoryBody{ID: categoryID, Name: "putCategoryTest"}, decode[categoryBody](t, data))

	code, _ = c.call(http.MethodPut, path, `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	code, _ = c.call(http.MethodPut, "/api/v1/categories/999", `{`)
	assert.Equal(t, http.StatusNotFound, code)

	code, data = c.call(http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, code)
	names := []string{}
	for _, cat := range decode[[]categoryBody](t, data) {
		names = append(names, cat.Name)
	}
	assert.Equal(t, []string{"putCategoryTest", "test2", "blah"}, names)
}

func TestDeleteReferencedCategory(t *testing.T) {
	c := newTestServer(t, testConfig())
	c.openSession()
	categoryID, transactionID := c.seed()

	code, _ := c.call(http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", categoryID), "")
	require.Equal(t, http.StatusNoContent, code)

	code, _ = c.call(http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", categoryID), "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = c.call(http.MethodGet, fmt.Sprintf("/api/v1/categories/%d", categoryID), "")
	assert.Equal(t, http.StatusNotFound, code)

	// the transactions survive without a category
	code, data := c.call(http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d", transactionID), "")
	require.Equal(t, http.StatusOK, code)
	raw := decode[map[string]any](t, data)
	assert.NotContains(t, raw, "categoryID")

	code, data = c.call(http.MethodGet, fmt.Sprintf("/api/v1/transactions?category=%d", categoryID), "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]transactionBody](t, data))
}

func TestSessionIsolation(t *testing.T) {
	c := newTestServer(t, testConfig())
	c.openSession()
	categoryID, transactionID := c.seed()

	other := &testClient{t: t, baseURL: c.baseURL}
	other.openSession()

	code, data := other.call(http.MethodGet, "/api/v1/transactions", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(data))

	code, _ = other.call(http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d", transactionID), "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = other.call(http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", categoryID), "")
	assert.Equal(t, http.StatusNotFound, code)

	// ids restart at 1 in every session
	code, data = other.call(http.MethodPost, "/api/v1/categories", `{"name":"mine"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, categoryID, decode[categoryBody](t, data).ID)
}

func TestRequestTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRequestBodyBytes = 64
	c := newTestServer(t, cfg)
	c.openSession()

	body := fmt.Sprintf(`{"name":"%s"}`, strings.Repeat("x", 128))
	code, data := c.call(http.MethodPost, "/api/v1/categories", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.Equal(t, "request_too_large", decode[map[string]any](t, data)["errorCode"])

	// the session is checked before the body size
	resp, data := c.do(http.MethodPost, "/api/v1/transactions", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", decode[map[string]any](t, data)["errorCode"])
	resp, _ = c.do(http.MethodPost, "/api/v1/transactions", "-1", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownRoutes(t *testing.T) {
	c := newTestServer(t, testConfig())
	c.openSession()

	code, _ := c.call(http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, data := c.call(http.MethodPatch, "/api/v1/categories", "")
	assert.Equal(t, http.StatusMethodNotAllowed, code)

	body := decode[map[string]any](t, data)
	assert.Equal(t, "method_not_allowed", body["errorCode"])
	assert.Equal(t, http.MethodPatch, body["httpMethod"])
	assert.Equal(t, "/api/v1/categories", body["requestUri"])
	assert.NotEmpty(t, body["requestId"])
	assert.NotEmpty(t, body["errorDateTime"])
}

func TestEmptyBasePath(t *testing.T) {
	cfg := testConfig()
	cfg.APIBasePath = ""
	c := newTestServer(t, cfg)

	resp, body := c.do(http.MethodGet, "/sessions", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = c.do(http.MethodGet, "/categories", string(body), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 1
	cfg.RateLimitBurst = 1
	c := newTestServer(t, cfg)

	resp, _ := c.do(http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = c.do(http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestHealthAndVersion(t *testing.T) {
	c := newTestServer(t, testConfig())

	for _, path := range []string{"/health/live", "/health/ready", "/version"} {
		t.Run(path, func(t *testing.T) {
			resp, body := c.do(http.MethodGet, path, "", "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.NotEmpty(t, body)
		})
	}

	_, body := c.do(http.MethodGet, "/version", "", "")
	v := decode[map[string]any](t, body)
	assert.Contains(t, v, "version")
	assert.Equal(t, "ledger-server", v["service"])

	_, body = c.do(http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, "ready", decode[map[string]any](t, body)["status"])

	resp, _ := c.do(http.MethodGet, "/health/live", "", "")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}
