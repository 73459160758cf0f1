package instances

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/craftlaunch/craftlaunch/internals/downloadmgr"
)

// directories replaced wholesale when a modpack changes. Anything the
// pack does not manage (saves, screenshots …) is left alone.
var modpackDirs = []string{
	"mods",
	"config",
	"scripts",
	"kubejs",
	"defaultconfigs",
}

// SyncMods downloads the configured mod urls into minecraft/mods.
// Already downloaded mods are kept as is (the urls are assumed to be
// immutable, like maven artifacts).
func (i *Instance) SyncMods(ctx context.Context, client *http.Client, onProgress func(downloadmgr.Progress)) error {
	if len(i.Mods) == 0 {
		return nil
	}

	mgr := downloadmgr.New()
	mgr.OnProgress = onProgress

	for _, mod := range i.Mods {
		name, err := modFilename(mod)
		if err != nil {
			return err
		}
		item := downloadmgr.NewHTTPItem(mod, filepath.Join(i.ModsDir(), name))
		item.Client = client
		mgr.Add(item)
	}

	return mgr.Start(ctx)
}

// modFilename derives the target filename from a mod download url
func modFilename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid mod url %s: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || !strings.HasSuffix(name, ".jar") {
		return "", fmt.Errorf("mod url %s does not point to a jar", rawURL)
	}
	return name, nil
}

// SyncModpack downloads and extracts the configured modpack zip. The
// pack is only fetched when its content length changed since the last
// sync. Returns whether anything was updated.
func (i *Instance) SyncModpack(ctx context.Context, client *http.Client) (bool, error) {
	if i.ModpackURL == "" {
		return false, nil
	}
	if client == nil {
		client = http.DefaultClient
	}

	length, err := i.modpackLength(ctx, client)
	if err != nil {
		return false, err
	}
	if length != 0 && length == i.ModpackSize {
		return false, nil
	}

	tmp, err := os.CreateTemp("", "craftlaunch-modpack-*.zip")
	if err != nil {
		return false, err
	}
	tmp.Close()
	// the downloader trusts existing files, the placeholder has to go
	os.Remove(tmp.Name())
	defer os.Remove(tmp.Name())

	item := downloadmgr.NewHTTPItem(i.ModpackURL, tmp.Name())
	item.Client = client
	if err := item.Download(ctx); err != nil {
		return false, err
	}

	// out with the old pack content before the new one lands
	for _, dir := range modpackDirs {
		os.RemoveAll(filepath.Join(i.McDir(), dir))
	}

	if err := extractModpack(tmp.Name(), i.McDir()); err != nil {
		return false, err
	}

	i.ModpackSize = length
	return true, nil
}

// modpackLength asks the server for the packs content length
func (i *Instance) modpackLength(ctx context.Context, client *http.Client) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, i.ModpackURL, nil)
	if err != nil {
		return 0, err
	}
	res, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("modpack url %s returned status %d", i.ModpackURL, res.StatusCode)
	}
	return res.ContentLength, nil
}

// extractModpack extracts a modpack zip into dest. Pack zips wrap the
// actual content in an "overrides/" directory next to their own
// metadata, that prefix is stripped. Zips without an overrides
// directory are extracted as is.
func extractModpack(zipPath string, dest string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	hasOverrides := false
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, "overrides/") {
			hasOverrides = true
			break
		}
	}

	for _, f := range r.File {
		name := f.Name
		if hasOverrides {
			if !strings.HasPrefix(name, "overrides/") {
				continue
			}
			name = strings.TrimPrefix(name, "overrides/")
		}
		if name == "" {
			continue
		}

		target := filepath.Join(dest, filepath.FromSlash(name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("modpack contains invalid path %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			os.MkdirAll(target, 0755)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}
		out, err := os.Create(target)
		if err != nil {
			rc.Close()
			return err
		}
		_, err = io.Copy(out, rc)
		rc.Close()
		out.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
