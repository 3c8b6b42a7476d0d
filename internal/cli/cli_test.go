package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/information-sharing-networks/ledger-demo/internal/config"
	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
	"github.com/information-sharing-networks/ledger-demo/internal/logger"
	"github.com/information-sharing-networks/ledger-demo/internal/server"
	"github.com/information-sharing-networks/ledger-demo/internal/store/memory"
)

func newTestAPI(t *testing.T) string {
	t.Helper()
	cfg := &config.ServerEnvironment{
		Environment:         "test",
		RequestTimeout:      5 * time.Second,
		MaxRequestBodyBytes: 65536,
		APIBasePath:         "/api/v1",
		SessionHeader:       config.DefaultSessionHeader,
	}
	srv := server.NewServer(memory.New(0), cfg, logger.NewLogger(io.Discard, logger.LevelNone, "test"))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + "/api/v1"
}

// run executes ledger-cli with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestLedgerCLI(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("LOG_LEVEL", "none")
	t.Setenv("LEDGER_SESSION", "")
	url := newTestAPI(t)

	out, err := run(t, "--url", url, "session")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	_, err = ledger.ParseSessionToken(token)
	require.NoError(t, err, "session printed %q", out)

	base := []string{"--url", url, "--session", token}

	out, err = run(t, append(base, "categories", "create", "groceries")...)
	require.NoError(t, err)
	var category ledger.Category
	require.NoError(t, json.Unmarshal([]byte(out), &category))
	assert.Equal(t, ledger.Category{ID: 1, Name: "groceries"}, category)

	out, err = run(t, append(base, "transactions", "create",
		"--date", "2024-03-01", "--amount", "42.10", "--iban", "NL02RABO0123456789", "--type", "withdrawal", "--category", "1")...)
	require.NoError(t, err)
	var tx ledger.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &tx))
	assert.Equal(t, ledger.ID(1), tx.ID)
	assert.Equal(t, ledger.Withdrawal, tx.Type)
	assert.True(t, tx.HasCategory(1))

	out, err = run(t, append(base, "tx", "list", "--category", "1", "--limit", "5")...)
	require.NoError(t, err)
	var txs []ledger.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &txs))
	assert.Len(t, txs, 1)

	_, err = run(t, append(base, "categories", "delete", "1")...)
	require.NoError(t, err)

	out, err = run(t, append(base, "transactions", "get", "1")...)
	require.NoError(t, err)
	tx = ledger.Transaction{}
	require.NoError(t, json.Unmarshal([]byte(out), &tx))
	assert.Nil(t, tx.CategoryID)

	_, err = run(t, append(base, "transactions", "set-category", "1", "1")...)
	assert.ErrorContains(t, err, "404")
}

func TestLedgerCLI_RequiresSession(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("LOG_LEVEL", "none")
	t.Setenv("LEDGER_SESSION", "")

	_, err := run(t, "--url", "http://127.0.0.1:1/api/v1", "categories", "list")
	assert.ErrorContains(t, err, "no session")
}
