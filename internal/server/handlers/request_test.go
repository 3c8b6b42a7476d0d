package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
)

func TestTransactionQuery(t *testing.T) {
	intPtr := func(n int) *int { return &n }
	idPtr := func(n int64) *ledger.ID { id := ledger.ID(n); return &id }

	tests := []struct {
		query string
		want  ledger.TransactionQuery
	}{
		{"", ledger.TransactionQuery{}},
		{"offset=2&limit=3&category=4", ledger.TransactionQuery{Offset: 2, Limit: intPtr(3), CategoryID: idPtr(4)}},
		{"limit=0", ledger.TransactionQuery{Limit: intPtr(0)}},
		{"offset=&limit=", ledger.TransactionQuery{}},
		{"offset=-1&limit=-1&category=-1", ledger.TransactionQuery{}},
		{"offset=a&limit=1.5&category=x", ledger.TransactionQuery{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := transactionQuery(httptest.NewRequest(http.MethodGet, "/transactions?"+tt.query, nil))

			if got.Offset != tt.want.Offset {
				t.Errorf("Offset = %d, want %d", got.Offset, tt.want.Offset)
			}
			if (got.Limit == nil) != (tt.want.Limit == nil) || (got.Limit != nil && *got.Limit != *tt.want.Limit) {
				t.Errorf("Limit = %v, want %v", got.Limit, tt.want.Limit)
			}
			if (got.CategoryID == nil) != (tt.want.CategoryID == nil) || (got.CategoryID != nil && *got.CategoryID != *tt.want.CategoryID) {
				t.Errorf("CategoryID = %v, want %v", got.CategoryID, tt.want.CategoryID)
			}
		})
	}
}

func TestDecodeCategoryID(t *testing.T) {
	tests := []struct {
		body         string
		want         ledger.ID
		wantNotFound bool
	}{
		{"3", 3, false},
		{" 3\n", 3, false},
		{`"3"`, 3, false},
		{`{"categoryID":3}`, 3, false},
		{`{"categoryID":"3"}`, 3, false},
		{"-1", -1, false},
		{"", 0, true},
		{"abc", 0, true},
		{`"abc"`, 0, true},
		{"1.5", 0, true},
		{`{"name":"x"}`, 0, true},
		{`{"categoryID":null}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/transactions/1/category", strings.NewReader(tt.body))
			got, err := decodeCategoryID(req)

			if tt.wantNotFound {
				if !ledger.IsNotFound(err) {
					t.Errorf("got error %v, want a not found error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantValidation bool
	}{
		{"valid", `{"name":"groceries"}`, false},
		{"empty", "", true},
		{"whitespace", "  \n", true},
		{"malformed", `{"name":`, true},
		{"wrong type", `{"name":5}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(tt.body))
			var in ledger.CategoryInput
			err := decodeJSON(req, &in)

			if tt.wantValidation != ledger.IsValidation(err) {
				t.Errorf("got error %v, want validation error: %v", err, tt.wantValidation)
			}
		})
	}
}
