package java

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// ErrNoRuntime is returned when no matching java runtime could be
// located or downloaded
type ErrNoRuntime struct {
	Major int
	Cause error
}

func (e *ErrNoRuntime) Error() string {
	return fmt.Sprintf("no java %d runtime available: %v", e.Major, e.Cause)
}

func (e *ErrNoRuntime) Unwrap() error { return e.Cause }

// Factory locates java runtimes for a wanted major version.
// Downloaded runtimes live in baseDir, one directory per major
// (eg. <baseDir>/17)
type Factory struct {
	baseDir string
	http    *http.Client
}

func NewFactory(baseDir string) *Factory {
	return &Factory{
		baseDir,
		http.DefaultClient,
	}
}

// SetHTTPClient replaces the default http client with the given one
func (j *Factory) SetHTTPClient(c *http.Client) {
	j.http = c
}

// systemJava is swapped out in tests
var systemJava = SystemJava

// Version returns a runtime for the given major version. Lookup order:
//
//  1. the system java, but only on an exact major match – newer
//     majors are known to break older forge versions
//  2. a previously downloaded runtime in baseDir
//  3. a fresh adoptium asset (the caller has to run Update on it)
//
// Probing the system first keeps a lingering download from shadowing
// a matching jdk the user installed later.
func (j *Factory) Version(ctx context.Context, major int) (*Java, error) {
	dir, err := filepath.Abs(filepath.Join(j.baseDir, strconv.Itoa(major)))
	if err != nil {
		return nil, err
	}

	if bin, sysMajor, err := systemJava(ctx); err == nil && sysMajor == major {
		return &Java{systemBin: bin}, nil
	}

	if local := j.localVersion(dir); local != nil {
		return local, nil
	}

	// nothing local, resolve a download
	assets, err := j.getLatestAssets(ctx, major)
	if err != nil {
		return nil, &ErrNoRuntime{Major: major, Cause: err}
	}
	if len(assets) == 0 {
		return nil, &ErrNoRuntime{
			Major: major,
			Cause: fmt.Errorf("adoptium has no build for this platform"),
		}
	}

	return &Java{dir: dir, asset: &assets[0], needsDownloading: true}, nil
}

// localVersion returns the runtime at dir if it looks complete
func (j *Factory) localVersion(dir string) *Java {
	asset, err := readAssetFile(filepath.Join(dir, "asset.json"))
	if err != nil {
		return nil
	}

	java := &Java{dir: dir, asset: asset}
	if _, err := os.Stat(java.Bin()); err != nil {
		return nil
	}
	return java
}

func readAssetFile(file string) (*AdoptAsset, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	asset := &AdoptAsset{}
	if err := json.NewDecoder(f).Decode(asset); err != nil {
		return nil, err
	}
	return asset, nil
}
