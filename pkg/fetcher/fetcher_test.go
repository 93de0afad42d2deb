package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dtnitsch/lne-nutrition/pkg/caching"
)

func TestGetHtml(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><h1>Menu</h1></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(WithUserAgent("lne-test"), WithTimeout(5*time.Second))
	doc, err := f.GetHtml(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetHtml() error = %v", err)
	}
	if got := doc.Find("h1").Text(); got != "Menu" {
		t.Errorf("h1 = %q, want Menu", got)
	}
	if gotUA != "lne-test" {
		t.Errorf("User-Agent = %q, want lne-test", gotUA)
	}
}

func TestGetHtmlBytes_DecodesCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("<p>Cr\xe8me</p>"))
	}))
	defer srv.Close()

	body, err := NewFetcher().GetHtmlBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetHtmlBytes() error = %v", err)
	}
	if string(body) != "<p>Crème</p>" {
		t.Errorf("body = %q, want UTF-8 decoded", body)
	}
}

func TestGetHtmlBytes_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewFetcher().GetHtmlBytes(context.Background(), srv.URL)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("GetHtmlBytes() error = %v, want *StatusError", err)
	}
	if statusErr.Code != http.StatusNotFound {
		t.Errorf("Code = %d, want 404", statusErr.Code)
	}
}

func TestGetHtmlBytes_Cache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("<p>cached</p>"))
	}))
	defer srv.Close()

	cache, err := caching.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	f := NewFetcher(WithCache(cache))

	for i := 0; i < 3; i++ {
		body, err := f.GetHtmlBytes(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("GetHtmlBytes() call %d error = %v", i, err)
		}
		if string(body) != "<p>cached</p>" {
			t.Errorf("body = %q", body)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestGetHtmlBytes_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFetcher().GetHtmlBytes(ctx, srv.URL); !errors.Is(err, context.Canceled) {
		t.Errorf("GetHtmlBytes() error = %v, want context.Canceled", err)
	}
}
