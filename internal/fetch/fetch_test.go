package fetch

import (
	"bytes"
	"compress/bzip2"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(opts ...ClientOption) *Client {
	base := []ClientOption{WithRetries(2, time.Millisecond)}
	return NewClient(append(base, opts...)...)
}

func TestFetchBytes(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("User-Agent"); got != "marketpulse" {
				t.Errorf("User-Agent = %q, want %q", got, "marketpulse")
			}
			w.Write([]byte("payload"))
		}))
		defer srv.Close()

		body, err := testClient().FetchBytes(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("FetchBytes: %v", err)
		}
		if string(body) != "payload" {
			t.Errorf("body = %q, want %q", body, "payload")
		}
	})

	t.Run("retries on 500 then succeeds", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte("ok"))
		}))
		defer srv.Close()

		body, err := testClient().FetchBytes(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("FetchBytes: %v", err)
		}
		if string(body) != "ok" {
			t.Errorf("body = %q, want %q", body, "ok")
		}
		if calls.Load() != 3 {
			t.Errorf("calls = %d, want 3", calls.Load())
		}
	})

	t.Run("does not retry on 404", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := testClient().FetchBytes(context.Background(), srv.URL)
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("error = %v, want *FetchError", err)
		}
		if fe.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want 404", fe.StatusCode)
		}
		if fe.IsRetryable() {
			t.Error("404 should not be retryable")
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := testClient().FetchBytes(context.Background(), srv.URL)
		if err == nil {
			t.Fatal("expected error")
		}
		if calls.Load() != 3 { // initial attempt + 2 retries
			t.Errorf("calls = %d, want 3", calls.Load())
		}
	})
}

func TestLastModified(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		stamp := time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodHead {
				t.Errorf("method = %s, want HEAD", r.Method)
			}
			w.Header().Set("Last-Modified", stamp.Format(http.TimeFormat))
		}))
		defer srv.Close()

		got, ok, err := testClient().LastModified(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("LastModified: %v", err)
		}
		if !ok {
			t.Fatal("ok = false, want true")
		}
		if !got.Equal(stamp) {
			t.Errorf("time = %v, want %v", got, stamp)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		_, ok, err := testClient().LastModified(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("LastModified: %v", err)
		}
		if ok {
			t.Error("ok = true, want false for missing header")
		}
	})
}

func TestFetchPaged(t *testing.T) {
	t.Run("reassembles pages in order", func(t *testing.T) {
		const totalPages = 5
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			page := r.URL.Query().Get("page")
			w.Header().Set(PagesHeader, strconv.Itoa(totalPages))
			fmt.Fprintf(w, "page-%s", page)
		}))
		defer srv.Close()

		pages, err := testClient().FetchPaged(context.Background(), srv.URL+"/orders/?order_type=all", 3)
		if err != nil {
			t.Fatalf("FetchPaged: %v", err)
		}
		if len(pages) != totalPages {
			t.Fatalf("pages = %d, want %d", len(pages), totalPages)
		}
		for i, body := range pages {
			want := fmt.Sprintf("page-%d", i+1)
			if string(body) != want {
				t.Errorf("pages[%d] = %q, want %q", i, body, want)
			}
		}
	})

	t.Run("single page without header", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("only"))
		}))
		defer srv.Close()

		pages, err := testClient().FetchPaged(context.Background(), srv.URL, 3)
		if err != nil {
			t.Fatalf("FetchPaged: %v", err)
		}
		if len(pages) != 1 || string(pages[0]) != "only" {
			t.Errorf("pages = %v, want single %q", pages, "only")
		}
	})

	t.Run("failed page fails the whole call", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(PagesHeader, "4")
			if r.URL.Query().Get("page") == "3" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Write([]byte("x"))
		}))
		defer srv.Close()

		_, err := testClient().FetchPaged(context.Background(), srv.URL, 2)
		if err == nil {
			t.Fatal("expected error when one page fails")
		}
	})
}

func TestDecompressBz2(t *testing.T) {
	t.Run("corrupt input reports an error", func(t *testing.T) {
		if _, err := DecompressBz2([]byte("not bzip2 at all")); err == nil {
			t.Fatal("expected error for corrupt input")
		}
	})

	t.Run("agrees with a direct stdlib read", func(t *testing.T) {
		// Valid magic but truncated body; whatever the stdlib reader decides,
		// DecompressBz2 must decide the same.
		data := []byte{0x42, 0x5a, 0x68, 0x39, 0x31, 0x41, 0x59, 0x26, 0x53, 0x59}

		want, werr := io.ReadAll(bzip2.NewReader(bytes.NewReader(data)))
		got, gerr := DecompressBz2(data)
		if (werr == nil) != (gerr == nil) {
			t.Fatalf("error mismatch: stdlib=%v ours=%v", werr, gerr)
		}
		if werr == nil && !bytes.Equal(got, want) {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}
