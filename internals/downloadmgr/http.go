package downloadmgr

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// downloads are retried this often before giving up
const maxAttempts = 3

// retryDelay grows linearly with the attempt number
const retryDelay = 500 * time.Millisecond

var defaultClient = http.Client{
	Transport: &http.Transport{
		Dial: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).Dial,
		TLSHandshakeTimeout:   20 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

// HTTPItem is a URL, target pair with optional properties that will be downloaded
// using http(s)
type HTTPItem struct {
	Client *http.Client
	URL    string
	Target string
	// Size in bytes (informational, not verified)
	Size int
	// Sha1 is the expected checksum. An empty value skips
	// verification: a file that already exists at Target is then
	// trusted as is.
	Sha1 string
}

// NewHTTPItem creates a Item to be queued that will download the file using HTTP(S)
func NewHTTPItem(url string, target string) *HTTPItem {
	if url == "" {
		panic("Download URL can not be empty")
	}
	if target == "" {
		panic("Target can not be empty")
	}
	return &HTTPItem{Client: &defaultClient, URL: url, Target: target}
}

// ErrInvalidSha is returned when the downloaded file's sha1 sum does not
// match the expected one (after all retries)
type ErrInvalidSha struct {
	FileName    string
	ExpectedSha string
	ActualSha   string
}

func (e *ErrInvalidSha) Error() string {
	return fmt.Sprintf(
		"File corrupted: %s sha1 is invalid.\n\texpected to be \"%s\"\n\tbut actually is \"%s\"\n",
		e.FileName,
		e.ExpectedSha,
		e.ActualSha,
	)
}

// Download fetches the item to its target. Files already on disk with
// a matching checksum are skipped without any network traffic.
// Transient failures (network, bad status, checksum mismatch) are
// retried up to maxAttempts times with a growing delay, a corrupted
// file is deleted before the retry.
func (i *HTTPItem) Download(ctx context.Context) error {
	if i.valid() {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(i.Target), os.ModePerm); err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(time.Duration(attempt-1) * retryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = i.fetch(ctx)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}

		if _, isSha := lastErr.(*ErrInvalidSha); isSha {
			os.Remove(i.Target)
		}
	}

	return lastErr
}

// valid reports if the target already holds the expected file
func (i *HTTPItem) valid() bool {
	if _, err := os.Stat(i.Target); err != nil {
		return false
	}
	if i.Sha1 == "" {
		// nothing to verify against, trust the file
		return true
	}
	return checkSha1(i.Sha1, i.Target) == nil
}

func (i *HTTPItem) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.URL, nil)
	if err != nil {
		return err
	}

	client := i.Client
	if client == nil {
		client = &defaultClient
	}

	fileRes, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("Error while fetching %s: %w", i.URL, err)
	}
	defer fileRes.Body.Close()

	if fileRes.StatusCode != http.StatusOK {
		return fmt.Errorf("invalid status code: %s from %s", fileRes.Status, fileRes.Request.URL)
	}

	dest, err := os.Create(i.Target)
	if err != nil {
		return err
	}

	if _, err = io.Copy(dest, fileRes.Body); err != nil {
		dest.Close()
		return err
	}
	if err := dest.Sync(); err != nil {
		dest.Close()
		return err
	}
	if err := dest.Close(); err != nil {
		return err
	}

	if i.Sha1 != "" {
		return checkSha1(i.Sha1, i.Target)
	}
	return nil
}

func checkSha1(sha string, srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	hasher := sha1.New()
	if _, err = io.Copy(hasher, src); err != nil {
		// probably io error during hashing
		return err
	}

	actualSha := fmt.Sprintf("%x", hasher.Sum(nil))
	if actualSha != sha {
		return &ErrInvalidSha{src.Name(), sha, actualSha}
	}
	return nil
}
