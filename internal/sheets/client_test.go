package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		SpreadsheetID: "sheet-1",
		Tab:           "Roster",
		StartRow:      3,
		BaseURL:       server.URL,
		Token:         "test-token",
	}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestGetColumnPreservesSparseRows(t *testing.T) {
	var gotPath, gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"values": [][]string{{"816000001"}, {}, {"816000003"}},
		})
	})

	cells, err := client.GetColumn(context.Background(), "D")
	if err != nil {
		t.Fatalf("GetColumn returned error: %v", err)
	}
	if len(cells) != 3 || cells[0] != "816000001" || cells[1] != "" || cells[2] != "816000003" {
		t.Fatalf("cells = %v", cells)
	}
	wantRange := url.PathEscape("Roster!D3:D")
	if !strings.HasSuffix(gotPath, wantRange) && !strings.HasSuffix(gotPath, "Roster!D3:D") {
		t.Fatalf("request path %q does not end with range %q", gotPath, wantRange)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
}

func TestGetColumnEmptyColumn(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	cells, err := client.GetColumn(context.Background(), "M")
	if err != nil {
		t.Fatalf("GetColumn returned error: %v", err)
	}
	if len(cells) != 0 {
		t.Fatalf("cells = %v, want empty", cells)
	}
}

func TestGetColumnErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})
	if _, err := client.GetColumn(context.Background(), "D"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestUpdateCell(t *testing.T) {
	var gotMethod, gotQuery, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`{}`))
	})

	err := client.UpdateCell(context.Background(), "M", 7, `=HYPERLINK("https://example.com", "Open File")`)
	if err != nil {
		t.Fatalf("UpdateCell returned error: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Fatalf("method = %q, want PUT", gotMethod)
	}
	if !strings.Contains(gotQuery, "valueInputOption=USER_ENTERED") {
		t.Fatalf("query = %q, missing valueInputOption", gotQuery)
	}
	if !strings.Contains(gotBody, "HYPERLINK") {
		t.Fatalf("body = %q, missing formula", gotBody)
	}
}

func TestUpdateCellRejectsBadRow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	if err := client.UpdateCell(context.Background(), "M", 0, "x"); err == nil {
		t.Fatal("expected error for row 0")
	}
}

func TestNewValidation(t *testing.T) {
	base := Config{SpreadsheetID: "s", Tab: "t", StartRow: 1, BaseURL: "https://example.com", Token: "tok"}

	if _, err := New(base); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	for name, mutate := range map[string]func(*Config){
		"missing spreadsheet": func(c *Config) { c.SpreadsheetID = "" },
		"missing tab":         func(c *Config) { c.Tab = "" },
		"missing token":       func(c *Config) { c.Token = "" },
		"bad start row":       func(c *Config) { c.StartRow = 0 },
		"missing base url":    func(c *Config) { c.BaseURL = "" },
	} {
		cfg := base
		mutate(&cfg)
		if _, err := New(cfg); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
