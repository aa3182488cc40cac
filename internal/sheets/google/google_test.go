package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finboard/internal/core"
)

// fakeSheets is a minimal values API: GET returns the stored column A and
// PUT records the written range and values.
type fakeSheets struct {
	mu       sync.Mutex
	columnA  [][]any
	putPath  string
	putQuery string
	written  [][]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{"values": f.columnA})
	case http.MethodPut:
		var vr struct {
			Values [][]any `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.putPath = r.URL.Path
		f.putQuery = r.URL.RawQuery
		f.written = vr.Values
		_ = json.NewEncoder(w).Encode(map[string]any{"updatedRows": len(vr.Values)})
	default:
		http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
	}
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	c, err := NewWithService(svc, Config{SpreadsheetID: "sheet-id"}, nil)
	if err != nil {
		t.Fatalf("NewWithService: %v", err)
	}
	return c
}

func txs() []core.Transaction {
	return []core.Transaction{
		{ID: "1", Date: "2025-10-16", Description: "Starbucks", Amount: decimal.RequireFromString("-7.49"), AccountID: "acc-002"},
		{ID: "2", Date: "2025-10-10", Description: "Salary", Amount: decimal.NewFromInt(5000), AccountID: "acc-001"},
	}
}

func TestExport_EmptySheetWritesHeader(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)

	res, err := c.Export(context.Background(), txs())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.Appended != 2 || res.Skipped != 0 {
		t.Errorf("result = %+v", res)
	}
	if !strings.HasSuffix(fake.putPath, "'Transactions'!A1:G3") {
		t.Errorf("update path = %s", fake.putPath)
	}
	if !strings.Contains(fake.putQuery, "valueInputOption=USER_ENTERED") {
		t.Errorf("update query = %s", fake.putQuery)
	}
	want := [][]any{
		{"ID", "Date", "Time", "Description", "Category", "Amount", "Account"},
		{"1", "2025-10-16", "", "Starbucks", "", "-7.49", "acc-002"},
		{"2", "2025-10-10", "", "Salary", "", "5000.00", "acc-001"},
	}
	if diff := cmp.Diff(want, fake.written); diff != "" {
		t.Errorf("written mismatch (-want +got):\n%s", diff)
	}
}

func TestExport_SkipsExistingIDs(t *testing.T) {
	fake := &fakeSheets{columnA: [][]any{{"ID"}, {"1"}}}
	c := newTestClient(t, fake)

	res, err := c.Export(context.Background(), txs())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.Appended != 1 || res.Skipped != 1 {
		t.Errorf("result = %+v", res)
	}
	if !strings.HasSuffix(fake.putPath, "A3:G3") {
		t.Errorf("update path = %s", fake.putPath)
	}
	if len(fake.written) != 1 || fake.written[0][0] != "2" {
		t.Errorf("written = %v", fake.written)
	}
}

func TestExport_NothingNewSkipsUpdate(t *testing.T) {
	fake := &fakeSheets{columnA: [][]any{{"ID"}, {"1"}, {"2"}}}
	c := newTestClient(t, fake)

	res, err := c.Export(context.Background(), txs())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if res.Appended != 0 || res.Skipped != 2 || res.Range != "" {
		t.Errorf("result = %+v", res)
	}
	if fake.putPath != "" {
		t.Error("update sent with nothing to append")
	}
}

func TestExport_ReadFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	}))

	_, err := c.Export(context.Background(), txs())
	if err == nil || !strings.Contains(err.Error(), "read 'Transactions'!A:A") {
		t.Errorf("Export() error = %v", err)
	}
}

func TestNewWithService_Validation(t *testing.T) {
	if _, err := NewWithService(nil, Config{SpreadsheetID: "x"}, nil); err == nil {
		t.Error("expected error for nil service")
	}
	if _, err := NewWithService(&gsheet.Service{}, Config{}, nil); err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	_, err := New(context.Background(), Config{SpreadsheetID: "x"}, nil)
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestA1QuotesSheetName(t *testing.T) {
	c := &Client{sheet: "Bob's 2025"}
	if got := c.a1("A:A"); got != "'Bob''s 2025'!A:A" {
		t.Errorf("a1() = %q", got)
	}
}
