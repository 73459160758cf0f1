package minecraft

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// CatalogURLs are the version catalog endpoints, tried in order.
// The last one is a third party mirror that tends to be reachable
// when the official hosts are not.
var CatalogURLs = []string{
	"https://piston-meta.mojang.com/mc/game/version_manifest.json",
	"https://piston-meta.mojang.com/mc/game/version_manifest_v2.json",
	"https://launchermeta.mojang.com/mc/game/version_manifest.json",
	"https://bmclapi2.bangbang93.com/mc/game/version_manifest.json",
}

// Catalog is the published list of all minecraft versions
type Catalog struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []CatalogEntry `json:"versions"`
}

// CatalogEntry points to the version json of a single version
type CatalogEntry struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	ReleaseTime time.Time `json:"releaseTime"`
}

// FetchCatalog downloads the version catalog, trying each endpoint in
// order. It fails with the last error when all endpoints are down.
func FetchCatalog(ctx context.Context, client *http.Client) (*Catalog, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var lastErr error
	for _, url := range CatalogURLs {
		catalog, err := fetchCatalogFrom(ctx, client, url)
		if err != nil {
			lastErr = err
			continue
		}
		return catalog, nil
	}

	return nil, fmt.Errorf("all version catalog endpoints failed: %w", lastErr)
}

func fetchCatalogFrom(ctx context.Context, client *http.Client, url string) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, res.Status)
	}

	var catalog Catalog
	if err := json.NewDecoder(res.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	if len(catalog.Versions) == 0 {
		return nil, fmt.Errorf("parsing %s: catalog contains no versions", url)
	}

	return &catalog, nil
}

// Get returns the entry for the given version id
func (c *Catalog) Get(id string) (*CatalogEntry, bool) {
	for i := range c.Versions {
		if c.Versions[i].ID == id {
			return &c.Versions[i], true
		}
	}
	return nil, false
}

// Releases returns full releases (no snapshots), newest first.
// limit < 1 returns all of them.
func (c *Catalog) Releases(limit int) []CatalogEntry {
	releases := make([]CatalogEntry, 0, len(c.Versions))
	for _, v := range c.Versions {
		if v.Type == "release" {
			releases = append(releases, v)
		}
	}

	sort.SliceStable(releases, func(i, j int) bool {
		return releases[i].ReleaseTime.After(releases[j].ReleaseTime)
	})

	if limit > 0 && len(releases) > limit {
		releases = releases[:limit]
	}
	return releases
}
