package ddapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func testConfig() Config {
	return Config{APIKey: "test-api-key", AppKey: "test-app-key", Site: "datadoghq.com"}
}

// testClient points a Client at an httptest server.
func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	c.baseURL = srv.URL
	return c
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Config{Site: "datadoghq.com"}); err == nil {
		t.Fatal("expected error with missing credentials")
	}
	if _, err := New(Config{APIKey: "k", AppKey: "a"}); err == nil {
		t.Fatal("expected error with missing site")
	}
	c, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c.BaseURL() != "https://api.datadoghq.com" {
		t.Fatalf("base url = %q", c.BaseURL())
	}
}

func TestDoSendsAuthHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	if _, err := c.Get(context.Background(), "v1", "validate", nil); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got.Get("DD-API-KEY") != "test-api-key" {
		t.Fatalf("DD-API-KEY = %q", got.Get("DD-API-KEY"))
	}
	if got.Get("DD-APPLICATION-KEY") != "test-app-key" {
		t.Fatalf("DD-APPLICATION-KEY = %q", got.Get("DD-APPLICATION-KEY"))
	}
	if got.Get("Content-Type") != "application/json" {
		t.Fatalf("Content-Type = %q", got.Get("Content-Type"))
	}
	if got.Get("Accept") != "application/json" {
		t.Fatalf("Accept = %q", got.Get("Accept"))
	}
}

func TestDoBuildsVersionedPath(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	q := NewParams().Str("name", "cpu").Int("page_size", 20).Values()
	if _, err := c.Get(context.Background(), "v1", "monitor", q); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if gotPath != "/api/v1/monitor" {
		t.Fatalf("path = %q", gotPath)
	}
	parsed, _ := url.ParseQuery(gotQuery)
	if parsed.Get("name") != "cpu" || parsed.Get("page_size") != "20" {
		t.Fatalf("query = %q", gotQuery)
	}
}

func TestDoHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors": ["Monitor not found"]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Get(context.Background(), "v1", "monitor/12345", nil)
	if err == nil {
		t.Fatal("expected error on 404")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.Kind != KindHTTP {
		t.Fatalf("kind = %q, want %q", apiErr.Kind, KindHTTP)
	}
	if apiErr.Status != 404 {
		t.Fatalf("status = %d, want 404", apiErr.Status)
	}
	if !strings.Contains(apiErr.Body, "Monitor not found") {
		t.Fatalf("body excerpt = %q", apiErr.Body)
	}
}

func TestDoTransportError(t *testing.T) {
	// A server that is closed immediately leaves a refusing address behind.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	c.baseURL = addr

	_, err = c.Get(context.Background(), "v1", "monitor", nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T (%v)", err, err)
	}
	if apiErr.Kind != KindTransport {
		t.Fatalf("kind = %q, want %q", apiErr.Kind, KindTransport)
	}
}

func TestDoDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Get(context.Background(), "v1", "monitor", nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.Kind != KindDecode {
		t.Fatalf("kind = %q, want %q", apiErr.Kind, KindDecode)
	}
}

func TestDoNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	data, err := c.Delete(context.Background(), "v1", "monitor/1")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	m, ok := data.(map[string]any)
	if !ok || len(m) != 0 {
		t.Fatalf("expected empty map for 204, got %#v", data)
	}
}

func TestDoPostBody(t *testing.T) {
	var gotBody string
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, r.ContentLength)
		r.Body.Read(b)
		gotBody = string(b)
		gotMethod = r.Method
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	body := map[string]any{"series": []map[string]any{{"metric": "custom.metric"}}}
	data, err := c.Post(context.Background(), "v1", "series", body)
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("method = %q", gotMethod)
	}
	if !strings.Contains(gotBody, "custom.metric") {
		t.Fatalf("body = %q", gotBody)
	}
	m := data.(map[string]any)
	if m["status"] != "ok" {
		t.Fatalf("decoded = %#v", data)
	}
}

func TestBodyExcerptBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(strings.Repeat("e", 10000)))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.Get(context.Background(), "v1", "monitor", nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if len(apiErr.Body) != maxBodyExcerpt {
		t.Fatalf("body excerpt length = %d, want %d", len(apiErr.Body), maxBodyExcerpt)
	}
}

func TestParamsSkipEmpty(t *testing.T) {
	q := NewParams().
		Str("name", "").
		Str("tags", "env:prod").
		Int("page", 0).
		Int("per_page", 30).
		Values()

	if _, ok := q["name"]; ok {
		t.Fatal("empty string param should be excluded")
	}
	if _, ok := q["page"]; ok {
		t.Fatal("zero int param should be excluded")
	}
	if q.Get("tags") != "env:prod" || q.Get("per_page") != "30" {
		t.Fatalf("params = %v", q)
	}
}

func TestErrorReadable(t *testing.T) {
	e := &Error{Kind: KindHTTP, Status: 401, Message: "GET /api/v1/monitor failed", Body: `{"errors":["bad creds"]}`}
	out := e.Readable()
	if !strings.Contains(out, "Unauthorized") {
		t.Fatalf("missing hint: %q", out)
	}
	if !strings.Contains(out, "bad creds") {
		t.Fatalf("missing body: %q", out)
	}

	te := &Error{Kind: KindTransport, Message: "dial tcp: connection refused"}
	if !strings.Contains(te.Readable(), "Could not reach the Datadog API") {
		t.Fatalf("transport readable = %q", te.Readable())
	}
}
