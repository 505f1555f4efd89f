package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"

	"depth-crawler/internal/models"
	"depth-crawler/internal/store"
	"depth-crawler/mocks"
)

type allowAll struct{}

func (allowAll) Allowed(context.Context, string) bool { return true }

func newPageServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetcherPushesPage(t *testing.T) {
	srv, _ := newPageServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "TestAgent/1.0" {
			t.Errorf("unexpected user agent: %q", got)
		}
		if !strings.Contains(r.Header.Get("Accept"), "text/html") {
			t.Errorf("unexpected accept header: %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	})

	visited := store.NewMemoryVisitedSet()
	fetched := store.NewMemoryFetched()
	f := NewFetcher(visited, fetched, allowAll{}, srv.Client(), FetcherConfig{UserAgent: "TestAgent/1.0"}, nil, zerolog.Nop())

	if err := f.Process(context.Background(), models.Link{Address: srv.URL + "/a", Depth: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	page, ok, _ := fetched.Pop(context.Background(), 0)
	if !ok {
		t.Fatal("expected a fetched page")
	}
	if page.Link.Address != srv.URL+"/a" || page.Link.Depth != 1 {
		t.Fatalf("unexpected page link: %+v", page.Link)
	}
	if !strings.Contains(page.HTML, "hello") {
		t.Fatalf("unexpected html: %q", page.HTML)
	}
	if present, _ := visited.IsPresent(context.Background(), srv.URL+"/a"); !present {
		t.Fatal("expected url to be marked visited")
	}
}

func TestFetcherSkipsAlreadyVisited(t *testing.T) {
	srv, hits := newPageServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	})

	metrics := NewMetrics()
	fetched := store.NewMemoryFetched()
	f := NewFetcher(store.NewMemoryVisitedSet(), fetched, allowAll{}, srv.Client(), FetcherConfig{}, metrics, zerolog.Nop())

	link := models.Link{Address: srv.URL + "/same", Depth: 0}
	for i := 0; i < 2; i++ {
		if err := f.Process(context.Background(), link); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if fetched.Len() != 1 {
		t.Fatalf("expected one fetched page, got %d", fetched.Len())
	}
	if atomic.LoadInt32(hits) != 1 {
		t.Fatalf("expected one GET, got %d", *hits)
	}
	if metrics.Snapshot().DuplicatesSkipped != 1 {
		t.Fatalf("expected one duplicate skip, got %d", metrics.Snapshot().DuplicatesSkipped)
	}
}

func TestFetcherDedupIgnoresHostCaseAndFragment(t *testing.T) {
	srv, hits := newPageServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	})

	fetched := store.NewMemoryFetched()
	f := NewFetcher(store.NewMemoryVisitedSet(), fetched, allowAll{}, srv.Client(), FetcherConfig{}, nil, zerolog.Nop())

	_ = f.Process(context.Background(), models.Link{Address: srv.URL + "/p"})
	_ = f.Process(context.Background(), models.Link{Address: strings.Replace(srv.URL, "http://", "HTTP://", 1) + "/p#section"})

	if fetched.Len() != 1 || atomic.LoadInt32(hits) != 1 {
		t.Fatalf("expected a single fetch, pages=%d hits=%d", fetched.Len(), *hits)
	}
}

func TestFetcherRobotsDisallowKeepsClaim(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	srv, hits := newPageServer(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("disallowed url must not be fetched")
	})
	robots := mocks.NewMockRobotsChecker(ctrl)
	robots.EXPECT().Allowed(gomock.Any(), srv.URL+"/private").Return(false).Times(1)

	visited := store.NewMemoryVisitedSet()
	fetched := store.NewMemoryFetched()
	f := NewFetcher(visited, fetched, robots, srv.Client(), FetcherConfig{}, nil, zerolog.Nop())

	link := models.Link{Address: srv.URL + "/private"}
	if err := f.Process(context.Background(), link); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Process(context.Background(), link); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched.Len() != 0 || atomic.LoadInt32(hits) != 0 {
		t.Fatalf("expected nothing fetched, pages=%d hits=%d", fetched.Len(), *hits)
	}
	if present, _ := visited.IsPresent(context.Background(), srv.URL+"/private"); !present {
		t.Fatal("expected disallowed url to stay visited")
	}
}

func TestFetcherHTTPErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.NotFound(w, nil)
			},
			want: ErrUnexpectedStatus,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			want: ErrUnexpectedStatus,
		},
		{
			name: "not html",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/pdf")
				_, _ = w.Write([]byte("%PDF-1.4"))
			},
			want: ErrNotHTML,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newPageServer(t, tc.handler)
			metrics := NewMetrics()
			visited := store.NewMemoryVisitedSet()
			fetched := store.NewMemoryFetched()
			f := NewFetcher(visited, fetched, allowAll{}, srv.Client(), FetcherConfig{}, metrics, zerolog.Nop())

			err := f.Process(context.Background(), models.Link{Address: srv.URL + "/x"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if fetched.Len() != 0 {
				t.Fatal("failed fetch must not push a page")
			}
			if present, _ := visited.IsPresent(context.Background(), srv.URL+"/x"); !present {
				t.Fatal("failed fetch keeps the claim")
			}
			if metrics.Snapshot().FetchFailures != 1 {
				t.Fatalf("expected one fetch failure, got %d", metrics.Snapshot().FetchFailures)
			}
		})
	}
}

func TestFetcherConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	fetched := store.NewMemoryFetched()
	f := NewFetcher(store.NewMemoryVisitedSet(), fetched, allowAll{}, &http.Client{}, FetcherConfig{}, nil, zerolog.Nop())
	if err := f.Process(context.Background(), models.Link{Address: addr + "/"}); err == nil {
		t.Fatal("expected fetch error")
	}
	if fetched.Len() != 0 {
		t.Fatal("failed fetch must not push a page")
	}
}

func TestFetcherDecodesCharset(t *testing.T) {
	srv, _ := newPageServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<html><body>caf\xe9</body></html>"))
	})
	f := NewFetcher(store.NewMemoryVisitedSet(), store.NewMemoryFetched(), allowAll{}, srv.Client(), FetcherConfig{}, nil, zerolog.Nop())

	html, err := f.Fetch(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "café") {
		t.Fatalf("expected decoded body, got %q", html)
	}
}

func TestFetcherCapsBody(t *testing.T) {
	srv, _ := newPageServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(strings.Repeat("a", 4096)))
	})
	f := NewFetcher(store.NewMemoryVisitedSet(), store.NewMemoryFetched(), allowAll{}, srv.Client(), FetcherConfig{MaxBodyBytes: 100}, nil, zerolog.Nop())

	html, err := f.Fetch(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(html) != 100 {
		t.Fatalf("expected body capped at 100 bytes, got %d", len(html))
	}
}

func TestFetcherVisitedStoreErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	visited := mocks.NewMockVisitedSet(ctrl)
	visited.EXPECT().AddIfNotPresent(gomock.Any(), "https://example.com/").
		Return(false, &store.Error{Op: "sadd", Key: "set:visited", Err: errors.New("connection refused")})
	fetched := mocks.NewMockFetchedQueue(ctrl)
	fetched.EXPECT().Push(gomock.Any(), gomock.Any()).Times(0)
	robots := mocks.NewMockRobotsChecker(ctrl)
	robots.EXPECT().Allowed(gomock.Any(), gomock.Any()).Times(0)

	f := NewFetcher(visited, fetched, robots, nil, FetcherConfig{}, nil, zerolog.Nop())
	err := f.Process(context.Background(), models.Link{Address: "https://example.com/"})
	if !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestFetcherRejectsRelativeLink(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	visited := mocks.NewMockVisitedSet(ctrl)
	visited.EXPECT().AddIfNotPresent(gomock.Any(), gomock.Any()).Times(0)
	f := NewFetcher(visited, store.NewMemoryFetched(), allowAll{}, nil, FetcherConfig{}, nil, zerolog.Nop())

	if err := f.Process(context.Background(), models.Link{Address: "/relative"}); err == nil {
		t.Fatal("expected error for relative link")
	}
}
