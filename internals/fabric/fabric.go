package fabric

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/craftlaunch/craftlaunch/internals/minecraft"
)

// MetaAPI is the fabric metadata service
const MetaAPI = "https://meta.fabricmc.net/v2"

// Client talks to the fabric meta service
type Client struct {
	HTTP *http.Client
	// BaseURL defaults to MetaAPI
	BaseURL string
}

func New(client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{HTTP: client, BaseURL: MetaAPI}
}

// LoaderEntry is one entry of the loader listing for a minecraft version
type LoaderEntry struct {
	Loader struct {
		Separator string `json:"separator"`
		Build     int    `json:"build"`
		Maven     string `json:"maven"`
		Version   string `json:"version"`
		Stable    bool   `json:"stable"`
	} `json:"loader"`
}

// LatestLoader returns the newest stable loader version for the given
// minecraft version (falling back to the newest unstable one)
func (c *Client) LatestLoader(ctx context.Context, mcVersion string) (string, error) {
	var entries []LoaderEntry
	url := fmt.Sprintf("%s/versions/loader/%s", c.baseURL(), mcVersion)
	if err := c.getJSON(ctx, url, &entries); err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("fabric has no loader for minecraft %s", mcVersion)
	}

	for _, entry := range entries {
		if entry.Loader.Stable {
			return entry.Loader.Version, nil
		}
	}
	// entries are newest first
	return entries[0].Loader.Version, nil
}

// Profile fetches the generated launch manifest for a minecraft +
// loader version pair. It inherits from the vanilla manifest.
func (c *Client) Profile(ctx context.Context, mcVersion string, loaderVersion string) (*minecraft.LaunchManifest, error) {
	manifest := &minecraft.LaunchManifest{}
	url := fmt.Sprintf("%s/versions/loader/%s/%s/profile/json", c.baseURL(), mcVersion, loaderVersion)
	if err := c.getJSON(ctx, url, manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

// VersionID is the manifest id used for an installed fabric version
func VersionID(mcVersion string, loaderVersion string) string {
	return fmt.Sprintf("%s-fabric-%s", mcVersion, loaderVersion)
}

// EnsureInstalled makes sure a fabric manifest for the given minecraft
// version is in the local version cache and returns its id. An empty
// loaderVersion picks the latest stable loader build.
// A cached manifest is used without any network traffic.
func (c *Client) EnsureInstalled(ctx context.Context, resolver *minecraft.Resolver, mcVersion string, loaderVersion string) (string, error) {
	if loaderVersion == "" {
		var err error
		loaderVersion, err = c.LatestLoader(ctx, mcVersion)
		if err != nil {
			return "", err
		}
	}

	id := VersionID(mcVersion, loaderVersion)
	if _, err := os.Stat(resolver.ManifestPath(id)); err == nil {
		return id, nil
	}

	profile, err := c.Profile(ctx, mcVersion, loaderVersion)
	if err != nil {
		return "", err
	}
	if profile.InheritsFrom == "" {
		profile.InheritsFrom = mcVersion
	}
	profile.ID = id

	if err := resolver.StoreManifest(profile); err != nil {
		return "", err
	}
	return id, nil
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return MetaAPI
}

func (c *Client) getJSON(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %s", url, res.Status)
	}
	return json.NewDecoder(res.Body).Decode(v)
}
