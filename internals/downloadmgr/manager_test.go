package downloadmgr

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func sha1Of(data string) string {
	return fmt.Sprintf("%x", sha1.Sum([]byte(data)))
}

func TestHTTPItemDownload(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, "hello world")
	}))
	defer server.Close()

	target := filepath.Join(t.TempDir(), "deep", "nested", "file.jar")
	item := NewHTTPItem(server.URL, target)
	item.Client = server.Client()
	item.Sha1 = sha1Of("hello world")

	if err := item.Download(context.Background()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello world" {
		t.Errorf("unexpected file content %q", data)
	}

	// a second download of a valid file must not hit the network
	if err := item.Download(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
}

func TestHTTPItemTrustsFileWithoutSha(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	}))
	defer server.Close()

	target := filepath.Join(t.TempDir(), "file.jar")
	if err := os.WriteFile(target, []byte("whatever"), 0644); err != nil {
		t.Fatal(err)
	}

	item := NewHTTPItem(server.URL, target)
	item.Client = server.Client()

	if err := item.Download(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestHTTPItemRetries(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "flaky")
	}))
	defer server.Close()

	target := filepath.Join(t.TempDir(), "file.jar")
	item := NewHTTPItem(server.URL, target)
	item.Client = server.Client()
	item.Sha1 = sha1Of("flaky")

	if err := item.Download(context.Background()); err != nil {
		t.Fatalf("expected the third attempt to succeed: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("expected 3 requests, got %d", got)
	}
}

func TestHTTPItemShaMismatch(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, "corrupted")
	}))
	defer server.Close()

	target := filepath.Join(t.TempDir(), "file.jar")
	item := NewHTTPItem(server.URL, target)
	item.Client = server.Client()
	item.Sha1 = sha1Of("something else")

	err := item.Download(context.Background())
	var shaErr *ErrInvalidSha
	if !errors.As(err, &shaErr) {
		t.Fatalf("expected ErrInvalidSha, got %v", err)
	}

	// every attempt gets a fresh download
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Errorf("expected 3 requests, got %d", got)
	}
	// the corrupted file must not stay behind
	if _, statErr := os.Stat(target); !os.IsNotExist(statErr) {
		t.Errorf("expected the corrupted file to be removed")
	}
}

func TestManagerDownloadsQueue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data for", r.URL.Path)
	}))
	defer server.Close()

	dir := t.TempDir()
	mgr := New()
	mgr.ProgressEvery = 5
	mgr.Window(20, 50)

	var lastProgress Progress
	mgr.OnProgress = func(p Progress) { lastProgress = p }

	for n := 0; n < 20; n++ {
		item := NewHTTPItem(
			fmt.Sprintf("%s/file-%d", server.URL, n),
			filepath.Join(dir, fmt.Sprintf("file-%d", n)),
		)
		item.Client = server.Client()
		mgr.Add(item)
	}

	if err := mgr.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	files, _ := os.ReadDir(dir)
	if len(files) != 20 {
		t.Errorf("expected 20 files, got %d", len(files))
	}

	if lastProgress.Completed != 20 || lastProgress.Total != 20 {
		t.Errorf("unexpected final progress %+v", lastProgress)
	}
	// 20/20 inside the 20–50 window
	if lastProgress.Percent != 50 {
		t.Errorf("expected percent 50, got %d", lastProgress.Percent)
	}
}

type failingItem struct{ err error }

func (f *failingItem) Download(ctx context.Context) error { return f.err }

type countingItem struct{ started *int32 }

func (c *countingItem) Download(ctx context.Context) error {
	atomic.AddInt32(c.started, 1)
	return nil
}

func TestManagerStopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")

	var started int32
	mgr := New()
	mgr.Workers = 1
	mgr.Add(&failingItem{err: boom})
	for n := 0; n < 50; n++ {
		mgr.Add(&countingItem{started: &started})
	}

	if err := mgr.Start(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected the item error, got %v", err)
	}

	// with a single worker nothing after the failing item may start
	if got := atomic.LoadInt32(&started); got != 0 {
		t.Errorf("expected no items after the failure, got %d", got)
	}
}

func TestManagerEmptyQueue(t *testing.T) {
	if err := New().Start(context.Background()); err != nil {
		t.Fatal(err)
	}
}
