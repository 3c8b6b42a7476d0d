//go:build integration

// functions that are useful in integration tests

package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
)

// apiClient sends raw requests the way existing API clients do: JSON bodies built by hand and
// the token in the WWW_Authenticate header.
type apiClient struct {
	t      *testing.T
	apiURL string
	header string
}

func newAPIClient(t *testing.T, env *testEnv) *apiClient {
	return &apiClient{t: t, apiURL: env.apiURL, header: env.cfg.SessionHeader}
}

// send issues a request and returns the status code and body. token "" omits the header.
func (c *apiClient) send(method, path, token, body string) (int, []byte) {
	c.t.Helper()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.apiURL+path, reqBody)
	if err != nil {
		c.t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/JSON")
	if token != "" {
		req.Header.Set(c.header, token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("failed to read response body: %v", err)
	}
	return resp.StatusCode, data
}

// expectStatus fails the test when the request does not return want.
func (c *apiClient) expectStatus(want int, method, path, token, body string) []byte {
	c.t.Helper()
	got, data := c.send(method, path, token, body)
	if got != want {
		c.t.Errorf("%s %s: got status %d, want %d (body: %s)", method, path, got, want, data)
	}
	return data
}

func (c *apiClient) newSession() string {
	c.t.Helper()
	data := c.expectStatus(http.StatusOK, http.MethodGet, "/sessions", "", "")
	return string(data)
}

// ids extracts the "id" field of every element of a JSON array body.
func ids(t *testing.T, data []byte) []int64 {
	t.Helper()
	var records []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("failed to decode list %s: %v", data, err)
	}
	result := make([]int64, 0, len(records))
	for _, r := range records {
		result = append(result, r.ID)
	}
	return result
}

func decodeObject(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("failed to decode object %s: %v", data, err)
	}
	return v
}

// transactionJSON builds a transaction body; fields with a nil value are left out.
func transactionJSON(fields map[string]any) string {
	parts := make([]string, 0, len(fields))
	for _, key := range []string{"date", "amount", "externalIBAN", "type", "categoryID"} {
		value, ok := fields[key]
		if !ok || value == nil {
			continue
		}
		encoded, _ := json.Marshal(value)
		parts = append(parts, fmt.Sprintf("%q:%s", key, encoded))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
