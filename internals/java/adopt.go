package java

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"time"
)

const AdoptAPI = "https://api.adoptium.net/v3"

// AdoptAsset is one entry of the adoptium "latest assets" response
type AdoptAsset struct {
	Binary struct {
		Architecture  string    `json:"architecture"`
		DownloadCount int       `json:"download_count"`
		HeapSize      string    `json:"heap_size"`
		ImageType     string    `json:"image_type"`
		JvmImpl       string    `json:"jvm_impl"`
		Os            string    `json:"os"`
		Project       string    `json:"project"`
		ScmRef        string    `json:"scm_ref"`
		UpdatedAt     time.Time `json:"updated_at"`
		Package       struct {
			Checksum      string `json:"checksum"`
			ChecksumLink  string `json:"checksum_link"`
			DownloadCount int    `json:"download_count"`
			Link          string `json:"link"`
			MetadataLink  string `json:"metadata_link"`
			Name          string `json:"name"`
			Size          int    `json:"size"`
		} `json:"package"`
	} `json:"binary"`
	ReleaseName string `json:"release_name"`
	Vendor      string `json:"vendor"`
	Version     struct {
		Build          int    `json:"build"`
		Major          int    `json:"major"`
		Minor          int    `json:"minor"`
		OpenjdkVersion string `json:"openjdk_version"`
		Security       int    `json:"security"`
		Semver         string `json:"semver"`
	} `json:"version"`
}

// getLatestAssets queries the latest jre build for the given feature
// version on the current platform
func (j *Factory) getLatestAssets(ctx context.Context, featureVersion int) ([]AdoptAsset, error) {
	params := url.Values{}
	params.Add("architecture", archMap(runtime.GOARCH))
	params.Add("os", adoptOsName())
	params.Add("image_type", "jre")

	p := fmt.Sprintf(
		"%s/assets/latest/%d/hotspot?%s",
		AdoptAPI,
		featureVersion,
		params.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, "GET", p, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := j.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adoptium api: unexpected status %s", res.Status)
	}

	parsed := make([]AdoptAsset, 0, 1)
	if err = json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	return parsed, nil
}

func adoptOsName() string {
	osName := runtime.GOOS
	if osName == "darwin" {
		osName = "mac"
	}

	// i wanna see if this ever happens
	if osName == "android" {
		osName = "linux"
	}

	// we check for alpine if os is linux, as it needs a different jdk
	if osName == "linux" {
		if _, err := os.Stat("/etc/alpine-release"); !os.IsNotExist(err) {
			osName = "alpine-linux"
		}
	}
	return osName
}

func archMap(arch string) string {
	theMap := map[string]string{
		"amd64": "x64",
		"arm64": "aarch64",
		"386":   "x86",
		// other "common" ones have the same name (for example arm)
	}

	mapped, ok := theMap[arch]
	if !ok {
		return arch
	}
	return mapped
}
