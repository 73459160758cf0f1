package minecraft

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrVersionNotFound is returned when a version id is in no catalog
type ErrVersionNotFound struct {
	ID string
}

func (e *ErrVersionNotFound) Error() string {
	return fmt.Sprintf("minecraft version %q does not exist", e.ID)
}

// ErrCyclicInheritance is returned when version manifests inherit
// from each other in a loop
type ErrCyclicInheritance struct {
	Chain []string
}

func (e *ErrCyclicInheritance) Error() string {
	return fmt.Sprintf(
		"cyclic inheritsFrom chain in version manifests: %s",
		strings.Join(e.Chain, " → "),
	)
}

// Resolver fetches & caches version manifests and resolves their
// `inheritsFrom` chains
type Resolver struct {
	// VersionsDir is the local manifest cache
	// (<dir>/<id>/<id>.json)
	VersionsDir string
	Client      *http.Client

	catalog *Catalog
}

// NewResolver creates a Resolver caching manifests in versionsDir
func NewResolver(versionsDir string, client *http.Client) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{VersionsDir: versionsDir, Client: client}
}

// Resolve returns the manifest for one version id, without following
// its parents. Cached manifests are served from disk, everything else
// is fetched through the version catalog and cached.
func (r *Resolver) Resolve(ctx context.Context, id string) (*LaunchManifest, error) {
	if manifest, err := r.cached(id); err == nil {
		return manifest, nil
	}

	catalog, err := r.getCatalog(ctx)
	if err != nil {
		return nil, err
	}

	entry, ok := catalog.Get(id)
	if !ok {
		return nil, &ErrVersionNotFound{ID: id}
	}

	manifest, raw, err := r.fetchManifest(ctx, entry.URL)
	if err != nil {
		return nil, err
	}
	if err := r.cache(id, raw); err != nil {
		return nil, err
	}

	return manifest, nil
}

// ResolveComplete resolves a version id including its `inheritsFrom`
// chain to a single self contained manifest: scalars missing on a
// child are taken from the parent, argument lists are parent first,
// duplicate libraries collapse to the child entry.
func (r *Resolver) ResolveComplete(ctx context.Context, id string) (*LaunchManifest, error) {
	chain := make([]*LaunchManifest, 0, 2)
	visited := make(map[string]bool)

	// collect child → parent, then merge in reverse
	for currentID := id; currentID != ""; {
		if visited[currentID] {
			cycle := make([]string, 0, len(visited)+1)
			for _, m := range chain {
				cycle = append(cycle, m.ID)
			}
			return nil, &ErrCyclicInheritance{Chain: append(cycle, currentID)}
		}
		visited[currentID] = true

		manifest, err := r.Resolve(ctx, currentID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, manifest)
		currentID = manifest.InheritsFrom
	}

	resolved := &LaunchManifest{}
	for i := len(chain) - 1; i >= 0; i-- {
		MergeManifests(resolved, chain[i])
	}
	resolved.ID = id
	resolved.InheritsFrom = ""

	return resolved, nil
}

// StoreManifest writes a manifest into the local cache. Loader
// installers use this to register their generated manifests.
func (r *Resolver) StoreManifest(manifest *LaunchManifest) error {
	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return r.cache(manifest.ID, raw)
}

// ManifestPath returns the cache location for a version id
func (r *Resolver) ManifestPath(id string) string {
	return filepath.Join(r.VersionsDir, id, id+".json")
}

func (r *Resolver) cached(id string) (*LaunchManifest, error) {
	raw, err := os.ReadFile(r.ManifestPath(id))
	if err != nil {
		return nil, err
	}

	manifest := &LaunchManifest{}
	if err := json.Unmarshal(raw, manifest); err != nil {
		// broken cache entry, refetch
		return nil, err
	}
	return manifest, nil
}

func (r *Resolver) cache(id string, raw []byte) error {
	path := r.ManifestPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

func (r *Resolver) getCatalog(ctx context.Context) (*Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	catalog, err := FetchCatalog(ctx, r.Client)
	if err != nil {
		return nil, err
	}
	r.catalog = catalog
	return catalog, nil
}

func (r *Resolver) fetchManifest(ctx context.Context, url string) (*LaunchManifest, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}

	res, err := r.Client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetching %s: unexpected status %s", url, res.Status)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, nil, err
	}

	manifest := &LaunchManifest{}
	if err := json.Unmarshal(raw, manifest); err != nil {
		return nil, nil, fmt.Errorf("malformed version manifest at %s: %w", url, err)
	}

	return manifest, raw, nil
}
