package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/faqmatch/internal/config"
	"github.com/Aman-CERP/faqmatch/internal/faq"
	"github.com/Aman-CERP/faqmatch/internal/match"
	"github.com/Aman-CERP/faqmatch/internal/search"
	"github.com/Aman-CERP/faqmatch/internal/telemetry"
)

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

func campus() []faq.Entry {
	return []faq.Entry{
		{Question: "What is the application deadline?", Answer: "Applications close on March 1st."},
		{Question: "How much is tuition?", Answer: "Tuition is $20,000 per year."},
		{Question: "Is there a hostel on campus?", Answer: "Yes, hostel rooms are available for first-year students."},
		{Question: "Do you offer scholarships?", Answer: "Merit scholarships cover up to half of tuition."},
	}
}

func newTestServer(t *testing.T, entries []faq.Entry, mutate ...func(*Options)) (*Server, *search.Engine) {
	t.Helper()
	e := search.New(search.WithMetrics(telemetry.NewMetrics()))
	t.Cleanup(func() { _ = e.Close() })
	if entries != nil {
		require.NoError(t, e.Load(context.Background(), entries))
	}
	opts := Options{
		FallbackMessage:    config.DefaultFallbackMessage,
		UnavailableMessage: config.DefaultUnavailableMessage,
		Now:                func() time.Time { return fixedNow },
	}
	for _, m := range mutate {
		m(&opts)
	}
	return New(e, opts), e
}

func do(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestChat_Match(t *testing.T) {
	// Given: a server over the campus corpus
	s, _ := newTestServer(t, campus())

	// When: asking about the deadline
	rec, body := do(t, s, http.MethodPost, "/api/chat", `{"question":"  What is the application deadline?  "}`)

	// Then: the entry is answered in the chat wire format
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Applications close on March 1st.", body["answer"])
	assert.Equal(t, "What is the application deadline?", body["question"])
	assert.Equal(t, false, body["fallback"])
	assert.Greater(t, body["score"].(float64), 0.25)
	assert.Equal(t, "2026-03-01T04:00:00.000000Z", body["timestamp"])

	sugs := body["suggestions"].([]any)
	require.Len(t, sugs, 3)
	first := sugs[0].(map[string]any)
	assert.Equal(t, "What is the application deadline?", first["question"])
	assert.Contains(t, first, "answer")
	assert.Contains(t, first, "score")
}

func TestChat_Fallback(t *testing.T) {
	s, _ := newTestServer(t, campus())

	rec, body := do(t, s, http.MethodPost, "/api/chat", `{"question":"zeppelin"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, config.DefaultFallbackMessage, body["answer"])
	require.Contains(t, body, "question")
	assert.Nil(t, body["question"])
	assert.Equal(t, true, body["fallback"])
	assert.Equal(t, 0.0, body["score"])
	assert.Len(t, body["suggestions"], 3)
}

func TestChat_Unavailable(t *testing.T) {
	// Given: a server without a corpus
	s, _ := newTestServer(t, nil)

	// When: asking anything
	rec, body := do(t, s, http.MethodPost, "/api/chat", `{"question":"deadline"}`)

	// Then: only answer, score and timestamp are returned
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, config.DefaultUnavailableMessage, body["answer"])
	assert.Equal(t, 0.0, body["score"])
	assert.NotEmpty(t, body["timestamp"])
	assert.NotContains(t, body, "suggestions")
	assert.NotContains(t, body, "question")
}

func TestChat_NoQuestion(t *testing.T) {
	s, _ := newTestServer(t, campus())

	tests := []struct {
		name string
		body string
	}{
		{"blank", `{"question":"   "}`},
		{"missing field", `{}`},
		{"empty body", ``},
		{"not json", `question=deadline`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, s, http.MethodPost, "/api/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "No question provided.", body["error"])
		})
	}
}

func TestChat_BodyTooLarge(t *testing.T) {
	s, _ := newTestServer(t, campus(), func(o *Options) { o.MaxBodyBytes = 32 })

	rec, _ := do(t, s, http.MethodPost, "/api/chat", `{"question":"`+strings.Repeat("a", 100)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestChat_WrongMethod(t *testing.T) {
	s, _ := newTestServer(t, campus())

	rec, _ := do(t, s, http.MethodGet, "/api/chat", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestFAQs(t *testing.T) {
	t.Run("entries", func(t *testing.T) {
		s, _ := newTestServer(t, campus())
		rec, _ := do(t, s, http.MethodGet, "/faqs.json", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got []faq.Entry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, campus(), got)
	})

	t.Run("empty corpus", func(t *testing.T) {
		s, _ := newTestServer(t, nil)
		rec, _ := do(t, s, http.MethodGet, "/faqs.json", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestSearch(t *testing.T) {
	s, _ := newTestServer(t, campus())

	rec, body := do(t, s, http.MethodGet, "/api/search?q=scholarship&limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "scholarship", body["query"])
	hits := body["hits"].([]any)
	require.NotEmpty(t, hits)
	assert.LessOrEqual(t, len(hits), 2)
	assert.Equal(t, 3.0, hits[0].(map[string]any)["index"])

	rec, _ = do(t, s, http.MethodGet, "/api/search?q=", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/api/search?q=fees&limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsAndHealth(t *testing.T) {
	s, _ := newTestServer(t, campus())
	do(t, s, http.MethodPost, "/api/chat", `{"question":"tuition"}`)

	rec, body := do(t, s, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	corpus := body["corpus"].(map[string]any)
	assert.Equal(t, 4.0, corpus["entries"])
	queries := body["queries"].(map[string]any)
	assert.Equal(t, 1.0, queries["total_queries"])

	rec, body = do(t, s, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["available"])
}

func TestRequestID(t *testing.T) {
	s, _ := newTestServer(t, campus())

	rec, _ := do(t, s, http.MethodGet, "/healthz", "")
	assert.Len(t, rec.Header().Get(HeaderRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestCORS(t *testing.T) {
	t.Run("wildcard", func(t *testing.T) {
		s, _ := newTestServer(t, campus())
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://college.example")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow list and preflight", func(t *testing.T) {
		s, _ := newTestServer(t, campus(), func(o *Options) { o.AllowedOrigins = []string{"https://college.example"} })

		req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
		req.Header.Set("Origin", "https://college.example")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://college.example", rec.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec = httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

type panicEngine struct{ Engine }

func (panicEngine) Entries() []faq.Entry { panic("boom") }

func TestRecoverPanics(t *testing.T) {
	s := New(panicEngine{}, Options{})

	rec, body := do(t, s, http.MethodGet, "/faqs.json", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal error.", body["error"])
}

func TestStatic(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		s, _ := newTestServer(t, campus())
		rec, _ := do(t, s, http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "FAQ assistant")
	})

	t.Run("directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>custom</p>"), 0o644))
		s, _ := newTestServer(t, campus(), func(o *Options) { o.StaticDir = dir })

		rec, _ := do(t, s, http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "custom")
	})
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	// Given: a server on an ephemeral port
	s, _ := newTestServer(t, campus())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	// When: a request is served and the context is cancelled
	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cancel()

	// Then: Serve returns cleanly
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// blockingEngine holds Ask until release is closed, then answers unless the
// request context has been cancelled.
type blockingEngine struct {
	*search.Engine
	entered chan struct{}
	release chan struct{}
}

func (b *blockingEngine) Ask(ctx context.Context, q string) (*match.Result, error) {
	close(b.entered)
	<-b.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.Engine.Ask(ctx, q)
}

func TestServe_InFlightRequestSurvivesShutdown(t *testing.T) {
	// Given: a chat request blocked inside the engine
	_, e := newTestServer(t, campus())
	eng := &blockingEngine{Engine: e, entered: make(chan struct{}), release: make(chan struct{})}
	s := New(eng, Options{FallbackMessage: config.DefaultFallbackMessage, Now: func() time.Time { return fixedNow }})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	type reply struct {
		status int
		err    error
	}
	replies := make(chan reply, 1)
	go func() {
		resp, err := http.Post("http://"+ln.Addr().String()+"/api/chat", "application/json",
			strings.NewReader(`{"question":"How much is tuition?"}`))
		if err != nil {
			replies <- reply{err: err}
			return
		}
		resp.Body.Close()
		replies <- reply{status: resp.StatusCode}
	}()
	<-eng.entered

	// When: the server context is cancelled before the engine answers
	cancel()
	close(eng.release)

	// Then: the request still completes normally
	select {
	case r := <-replies:
		require.NoError(t, r.err)
		assert.Equal(t, http.StatusOK, r.status)
	case <-time.After(5 * time.Second):
		t.Fatal("request did not complete")
	}
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestListenAndServe_AddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s, _ := newTestServer(t, campus(), func(o *Options) { o.Addr = ln.Addr().String() })
	err = s.ListenAndServe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERR_304")
}

var _ Engine = (*search.Engine)(nil)
