package java

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	archiver "github.com/mholt/archiver/v3"

	"github.com/craftlaunch/craftlaunch/internals/downloadmgr"
)

// Java is a runtime on disk (or one that still needs downloading)
type Java struct {
	dir string
	// systemBin is set when this is the system wide java
	systemBin        string
	asset            *AdoptAsset
	needsDownloading bool
}

// Bin returns the path of the java executable
func (j *Java) Bin() string {
	if j.systemBin != "" {
		return j.systemBin
	}

	var bin string
	switch runtime.GOOS {
	case "windows":
		bin = "bin/java.exe"
	case "darwin": // macOS
		bin = "Contents/Home/bin/java"
	default:
		bin = "bin/java"
	}

	return filepath.Join(j.dir, bin)
}

func (j *Java) NeedsDownloading() bool {
	return j.needsDownloading
}

// Update downloads or updates this java version
func (j *Java) Update(ctx context.Context) error {
	// remove everything
	if err := os.RemoveAll(j.dir); err != nil {
		return err
	}
	os.RemoveAll(j.dir + ".tmp")

	// download archive
	archive, err := j.download(ctx)
	if err != nil {
		return err
	}
	defer os.Remove(archive) // remove temporary download

	// ugly hack to get root directory. it's something like "jdk-17.0.6+10-jre"
	rootDirName := ""
	err = archiver.Walk(archive, func(f archiver.File) error {
		if f.IsDir() {
			rootDirName = f.Name()
			return archiver.ErrStopWalk
		}
		return nil
	})
	if err != nil {
		return err
	}

	// extract the whole archive. avoids https://github.com/mholt/archiver/issues/289
	if err := archiver.Unarchive(archive, j.dir+".tmp"); err != nil {
		return err
	}
	// another ugly hack because archiver can not extract without creating a directory
	// and doing it manually with archiver.Walk is a pain. PRs welcome …
	if err := os.Rename(filepath.Join(j.dir+".tmp", rootDirName), j.dir); err != nil {
		return err
	}

	// we moved the rootDir to j.dir, but the leftover .tmp dir is still
	// here. should be empty, but it's not for macos archives
	if err := os.RemoveAll(j.dir + ".tmp"); err != nil {
		return err
	}

	// zip archives (windows builds) do not carry the exec bits
	if runtime.GOOS != "windows" {
		j.restoreExecBits()
	}

	// finally write the asset file
	asset, err := os.Create(filepath.Join(j.dir, "asset.json"))
	if err != nil {
		return err
	}
	defer asset.Close()

	if err := json.NewEncoder(asset).Encode(j.asset); err != nil {
		return err
	}

	j.needsDownloading = false
	return nil
}

// download fetches the runtime archive to a temp file (with the usual
// retry behaviour) and returns its path
func (j *Java) download(ctx context.Context) (string, error) {
	url := j.asset.Binary.Package.Link

	ext := ".tar.gz"
	if !strings.HasSuffix(url, ".tar.gz") {
		ext = filepath.Ext(url)
	}

	target := filepath.Join(os.TempDir(), "craftlaunch-"+j.asset.Binary.Package.Name+ext)
	// stale temp files would be trusted blindly
	os.Remove(target)

	item := downloadmgr.NewHTTPItem(url, target)
	if err := item.Download(ctx); err != nil {
		return "", err
	}
	return target, nil
}

// restoreExecBits marks everything under bin/ as executable
func (j *Java) restoreExecBits() {
	filepath.WalkDir(j.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if filepath.Base(filepath.Dir(path)) == "bin" {
			os.Chmod(path, 0755)
		}
		return nil
	})
}
