package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestClientList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/transactions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id":2,"description":"Rent","amount":40,"type":"EXPENSE","category":"Housing","date":"2025-03-02"},
			{"id":1,"description":"Salary","amount":100.50,"type":"INCOME","category":null,"date":"2025-03-01T09:00:00"}
		]`)
	}))
	defer srv.Close()

	txs, err := NewClient(srv.URL).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].ID != 2 || txs[0].Category != "Housing" {
		t.Errorf("first = %+v", txs[0])
	}
	if txs[1].HasCategory() {
		t.Errorf("null category should be absent, got %q", txs[1].Category)
	}
	if got := txs[1].Date.Key(); got != "2025-03-01" {
		t.Errorf("date = %s, want 2025-03-01", got)
	}
	if !txs[1].Amount.Equal(core.MustAmount("100.5")) {
		t.Errorf("amount = %s", txs[1].Amount)
	}
}

func TestClientCreateSendsJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":7,"description":"Coffee","amount":3.5,"type":"EXPENSE","category":"Food","date":"2025-03-03"}`)
	}))
	defer srv.Close()

	created, err := NewClient(srv.URL).Create(context.Background(), core.NewTransaction{
		Description: "Coffee",
		Amount:      core.MustAmount("3.5"),
		Type:        core.Expense,
		Category:    "Food",
		Date:        core.NewDate(2025, 3, 3),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 7 {
		t.Errorf("id = %d, want 7", created.ID)
	}
	if got["type"] != "EXPENSE" || got["date"] != "2025-03-03" || got["amount"] != 3.5 {
		t.Errorf("payload = %v", got)
	}
}

func TestClientCreateEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Create(context.Background(), core.NewTransaction{
		Description: "x", Amount: core.MustAmount("1"), Type: core.Income, Date: core.NewDate(2025, 1, 1),
	})
	if err != nil {
		t.Fatalf("Create with empty body: %v", err)
	}
}

func TestClientDelete(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).Delete(context.Background(), 42); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if path != "/api/transactions/42" {
		t.Errorf("path = %s", path)
	}
}

func TestClientSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/transactions/summary" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"totalIncome":100,"totalExpense":40,"netBalance":60}`)
	}))
	defer srv.Close()

	totals, err := NewClient(srv.URL).Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !totals.Net.Equal(core.MustAmount("60")) {
		t.Errorf("net = %s", totals.Net)
	}
}

func TestClientFailuresMatchErrRequestFailed(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			status: http.StatusInternalServerError,
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			status: http.StatusNotFound,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{not json`)
			},
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL).List(context.Background())
			if !errors.Is(err, ErrRequestFailed) {
				t.Fatalf("err = %v, want ErrRequestFailed", err)
			}
			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("err is not a *RequestError: %T", err)
			}
			if reqErr.Status != tt.status || reqErr.Op != "list" {
				t.Errorf("got op=%s status=%d, want list/%d", reqErr.Op, reqErr.Status, tt.status)
			}
		})
	}
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewClient(url).Delete(context.Background(), 1)
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("err = %v, want ErrRequestFailed", err)
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, WithTimeout(50*time.Millisecond)).List(context.Background())
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("err = %v, want ErrRequestFailed", err)
	}
}
