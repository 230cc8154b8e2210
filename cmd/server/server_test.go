package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/Simplici0/steelcalc/internal/catalog"
	"github.com/Simplici0/steelcalc/internal/db"
	"github.com/Simplici0/steelcalc/internal/display"
	"github.com/Simplici0/steelcalc/internal/migrations"
	"github.com/Simplici0/steelcalc/internal/seed"
	"github.com/Simplici0/steelcalc/internal/session"
)

const testQuiet = 40 * time.Millisecond

type testClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newTestServer(t *testing.T) (*server, *testClient) {
	t.Helper()

	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "server-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	if err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if _, err := seed.Run(ctx, database, seed.DefaultGrades); err != nil {
		t.Fatalf("seed: %v", err)
	}

	srv := &server{
		sessions: session.NewRegistry(session.Options{QuietPeriod: testQuiet}),
		signer:   session.NewSigner("test-secret"),
		grades:   catalog.NewStore(database),
		format:   display.Default,
		quiet:    testQuiet,

		templateDir: "../../web/templates",
	}

	ts := httptest.NewServer(srv.routes(newIPRateLimiter(rate.Inf, 1, 0)))
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return srv, &testClient{t: t, base: ts.URL, client: &http.Client{Jar: jar}}
}

func (c *testClient) do(method, path string, body any) *http.Response {
	c.t.Helper()

	var r io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, c.base+path, r)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	c.t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func (c *testClient) state(method, path string, body any) stateView {
	c.t.Helper()

	res := c.do(method, path, body)
	if res.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(res.Body)
		c.t.Fatalf("%s %s: status %d: %s", method, path, res.StatusCode, raw)
	}
	var sv stateView
	if err := json.NewDecoder(res.Body).Decode(&sv); err != nil {
		c.t.Fatalf("decode state: %v", err)
	}
	return sv
}

func (c *testClient) setSample() stateView {
	c.t.Helper()
	for field, v := range map[string]string{
		"outside-diameter": "2",
		"length":           "120",
		"pieces":           "10",
		"cost-per-pound":   "0.85",
		"external-cost":    "50",
	} {
		c.state(http.MethodPost, "/api/inputs/"+field, valueRequest{Value: v})
	}
	return c.state(http.MethodPost, "/api/margin", valueRequest{Value: "20"})
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(raw)
}
