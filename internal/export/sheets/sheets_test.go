package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/core"
)

// fakeSheets records the clear and update calls of the Sheets API.
type fakeSheets struct {
	mu      sync.Mutex
	cleared []string
	updates []gsheet.ValueRange
	input   string
	fail    bool
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
		return
	}
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
		f.cleared = append(f.cleared, r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPut:
		var vr gsheet.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.updates = append(f.updates, vr)
		f.input = r.URL.Query().Get("valueInputOption")
		_, _ = w.Write([]byte(`{}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestExporter(t *testing.T, fake *fakeSheets) *Exporter {
	t.Helper()
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)
	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(ts.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(ts.Client()))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return newExporter(svc, Config{SpreadsheetID: "sheet-id"}, nil)
}

func TestExport(t *testing.T) {
	fake := &fakeSheets{}
	e := newTestExporter(t, fake)

	txs := []core.Transaction{
		{ID: 2, Description: "Groceries", Amount: core.MustAmount("42.5"), Type: core.Expense, Category: "Food", Date: core.NewDate(2024, 1, 2)},
		{ID: 1, Description: "Salary", Amount: core.MustAmount("1000"), Type: core.Income, Date: core.NewDate(2024, 1, 1)},
	}
	n, err := e.Export(context.Background(), txs)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Export() = %d, want 2", n)
	}
	if len(fake.cleared) != 1 || !strings.Contains(fake.cleared[0], "Ledger!A:F") {
		t.Errorf("cleared = %v", fake.cleared)
	}
	if len(fake.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(fake.updates))
	}
	rows := fake.updates[0].Values
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "id" || rows[1][3] != "Groceries" || rows[1][5] != "42.50" {
		t.Errorf("rows = %v", rows)
	}
	if fake.input != "USER_ENTERED" {
		t.Errorf("valueInputOption = %q", fake.input)
	}
}

func TestExportAPIError(t *testing.T) {
	e := newTestExporter(t, &fakeSheets{fail: true})
	if _, err := e.Export(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewRequiresConfig(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, Config{}, nil); err == nil || !strings.Contains(err.Error(), "spreadsheet id") {
		t.Errorf("missing id error = %v", err)
	}
	if _, err := New(ctx, Config{SpreadsheetID: "x"}, nil); err == nil || !strings.Contains(err.Error(), "credentials") {
		t.Errorf("missing credentials error = %v", err)
	}
	missing := filepath.Join(t.TempDir(), "nope.json")
	if _, err := New(ctx, Config{SpreadsheetID: "x", ServiceAccountFile: missing}, nil); err == nil {
		t.Error("missing credentials file accepted")
	}
}

func TestCredentialsPrefersInlineJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"from":"file"}`), 0600); err != nil {
		t.Fatal(err)
	}
	got, err := credentials(Config{ServiceAccountJSON: `{"from":"env"}`, ServiceAccountFile: path})
	if err != nil || string(got) != `{"from":"env"}` {
		t.Errorf("credentials() = %s, %v", got, err)
	}
	got, err = credentials(Config{ServiceAccountFile: path})
	if err != nil || string(got) != `{"from":"file"}` {
		t.Errorf("credentials() = %s, %v", got, err)
	}
}
