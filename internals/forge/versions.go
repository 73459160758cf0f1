package forge

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// Maven is the official forge repository
const Maven = "https://maven.minecraftforge.net/"

// MavenMirror is used when the official repository is unreachable
const MavenMirror = "https://maven.creeperhost.net/"

// PromotionsURLs list the recommended/latest build per minecraft version
var PromotionsURLs = []string{
	"https://files.minecraftforge.net/net/minecraftforge/forge/promotions_slim.json",
	"https://files.minecraftforge.net/net/minecraftforge/forge/promotions.json",
}

// MetadataURLs are maven-metadata.xml locations with every published build
var MetadataURLs = []string{
	Maven + "net/minecraftforge/forge/maven-metadata.xml",
	MavenMirror + "net/minecraftforge/forge/maven-metadata.xml",
}

// ListingURLs are plain directory listings, the fallback of last resort
var ListingURLs = []string{
	Maven + "net/minecraftforge/forge/",
	MavenMirror + "net/minecraftforge/forge/",
}

// InstallerURLs are the repository roots installer jars are fetched
// from, tried in order
var InstallerURLs = []string{Maven, MavenMirror}

// pinned build numbers for when every endpoint is down
var pinnedVersions = map[string]string{
	"1.21.11": "61.0.8",
}

// Client resolves forge build numbers for minecraft versions
type Client struct {
	HTTP *http.Client
}

func NewClient(client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{HTTP: client}
}

// RecommendedVersion returns the forge build to install for a
// minecraft version. It tries the promotions endpoints first
// (recommended, then latest, then any key for the version), falls back
// to the maven metadata, then to scraping the repository listing and
// finally to a pinned mapping.
func (c *Client) RecommendedVersion(ctx context.Context, mcVersion string) (string, error) {
	var lastErr error

	version, err := c.fromPromotions(ctx, mcVersion)
	if err == nil {
		return version, nil
	}
	lastErr = err

	if version, err := c.fromMetadata(ctx, mcVersion); err == nil {
		return version, nil
	}

	if version, err := c.fromListing(ctx, mcVersion); err == nil {
		return version, nil
	}

	if version, ok := pinnedVersions[mcVersion]; ok {
		return version, nil
	}

	return "", fmt.Errorf("no forge version found for minecraft %s: %w", mcVersion, lastErr)
}

type promotions struct {
	Promos map[string]string `json:"promos"`
}

func (c *Client) fromPromotions(ctx context.Context, mcVersion string) (string, error) {
	var lastErr error
	for _, url := range PromotionsURLs {
		body, err := c.get(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}

		var promos promotions
		if err := json.Unmarshal(body, &promos); err != nil {
			lastErr = err
			continue
		}

		if version, ok := promos.Promos[mcVersion+"-recommended"]; ok {
			return version, nil
		}
		if version, ok := promos.Promos[mcVersion+"-latest"]; ok {
			return version, nil
		}
		// any key for this minecraft version
		for key, version := range promos.Promos {
			if strings.HasPrefix(key, mcVersion) {
				return version, nil
			}
		}
		lastErr = fmt.Errorf("promotions at %s have no entry for %s", url, mcVersion)
	}
	return "", lastErr
}

type mavenMetadata struct {
	Versions []string `xml:"versioning>versions>version"`
}

func (c *Client) fromMetadata(ctx context.Context, mcVersion string) (string, error) {
	var lastErr error
	for _, url := range MetadataURLs {
		body, err := c.get(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}

		var meta mavenMetadata
		if err := xml.Unmarshal(body, &meta); err != nil {
			lastErr = err
			continue
		}

		if version := bestBuild(meta.Versions, mcVersion); version != "" {
			return version, nil
		}
		lastErr = fmt.Errorf("metadata at %s has no build for %s", url, mcVersion)
	}
	return "", lastErr
}

var hrefRe = regexp.MustCompile(`href="?([^">\s]+)"?`)

func (c *Client) fromListing(ctx context.Context, mcVersion string) (string, error) {
	var lastErr error
	for _, url := range ListingURLs {
		body, err := c.get(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}

		names := make([]string, 0)
		for _, match := range hrefRe.FindAllStringSubmatch(string(body), -1) {
			names = append(names, strings.TrimSuffix(match[1], "/"))
		}

		if version := bestBuild(names, mcVersion); version != "" {
			return version, nil
		}
		lastErr = fmt.Errorf("listing at %s has no build for %s", url, mcVersion)
	}
	return "", lastErr
}

// bestBuild picks the highest forge build from "<mc>-<build>" names
func bestBuild(names []string, mcVersion string) string {
	prefix := mcVersion + "-"
	best := ""
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		build := strings.SplitN(name, "-", 2)[1]
		if build = strings.SplitN(build, "-", 2)[0]; build == "" {
			continue
		}
		if best == "" || compareBuilds(build, best) > 0 {
			best = build
		}
	}
	return best
}

// compareBuilds compares dotted build numbers ("61.0.8"). Forge builds
// can have four segments, which rules out plain semver parsing here.
func compareBuilds(a string, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, res.Status)
	}
	return io.ReadAll(res.Body)
}
