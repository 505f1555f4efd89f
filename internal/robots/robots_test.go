package robots

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

const testAgent = "DepthCrawler/1.0"

func newServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("User-Agent"); got != testAgent {
			t.Errorf("unexpected user agent: %q", got)
		}
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestAllowedHonorsDisallow(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, "User-agent: *\nDisallow: /private\n")
	checker := NewChecker(srv.Client(), testAgent, zerolog.Nop())

	if checker.Allowed(context.Background(), srv.URL+"/private/page") {
		t.Fatal("expected /private/page to be disallowed")
	}
	if !checker.Allowed(context.Background(), srv.URL+"/public") {
		t.Fatal("expected /public to be allowed")
	}
}

func TestAllowedAgentSpecificGroup(t *testing.T) {
	body := "User-agent: DepthCrawler\nDisallow: /\n\nUser-agent: *\nDisallow:\n"
	srv, _ := newServer(t, http.StatusOK, body)
	checker := NewChecker(srv.Client(), testAgent, zerolog.Nop())

	if checker.Allowed(context.Background(), srv.URL+"/anything") {
		t.Fatal("expected agent-specific disallow to apply")
	}
}

func TestAllowedFailsOpenOnMissingRobots(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusForbidden} {
		srv, hits := newServer(t, status, "User-agent: *\nDisallow: /\n")
		checker := NewChecker(srv.Client(), testAgent, zerolog.Nop())
		if !checker.Allowed(context.Background(), srv.URL+"/page") {
			t.Fatalf("status %d: expected fail-open", status)
		}
		if atomic.LoadInt32(hits) != 1 {
			t.Fatalf("status %d: expected one robots request, got %d", status, *hits)
		}
	}
}

func TestAllowedFailsOpenOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	checker := NewChecker(&http.Client{}, testAgent, zerolog.Nop())
	if !checker.Allowed(context.Background(), addr+"/page") {
		t.Fatal("expected fail-open when robots.txt is unreachable")
	}
}

func TestNewCheckerDefaultClientHasTimeout(t *testing.T) {
	checker := NewChecker(nil, testAgent, zerolog.Nop())
	if checker.client == http.DefaultClient || checker.client.Timeout <= 0 {
		t.Fatalf("expected a default client with a timeout, got %+v", checker.client)
	}
}

func TestCheckerLogsWithComponent(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	var buf bytes.Buffer
	checker := NewChecker(&http.Client{}, testAgent, zerolog.New(&buf).Level(zerolog.DebugLevel))
	checker.Allowed(context.Background(), addr+"/page")
	if !strings.Contains(buf.String(), `"component":"robots"`) {
		t.Fatalf("expected component field in log output: %s", buf.String())
	}
}

func TestAllowedFetchesEveryCall(t *testing.T) {
	srv, hits := newServer(t, http.StatusOK, "User-agent: *\nDisallow:\n")
	checker := NewChecker(srv.Client(), testAgent, zerolog.Nop())

	for i := 0; i < 3; i++ {
		checker.Allowed(context.Background(), srv.URL+"/page")
	}
	if got := atomic.LoadInt32(hits); got != 3 {
		t.Fatalf("expected 3 robots requests, got %d", got)
	}
}

func TestRobotsURL(t *testing.T) {
	u, _ := url.Parse("https://Example.com:8443/a/b?q=1#frag")
	if got := RobotsURL(u); got != "https://Example.com:8443/robots.txt" {
		t.Fatalf("unexpected robots url: %s", got)
	}
}
