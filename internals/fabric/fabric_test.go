package fabric

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/craftlaunch/craftlaunch/internals/minecraft"
)

func testMetaServer(t *testing.T, profileHits *int32) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/versions/loader/1.20.4", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"loader": {"version": "0.16.0-beta.1", "stable": false}},
			{"loader": {"version": "0.15.11", "stable": true}},
			{"loader": {"version": "0.15.10", "stable": true}}
		]`)
	})
	mux.HandleFunc("/versions/loader/1.20.4/0.15.11/profile/json", func(w http.ResponseWriter, r *http.Request) {
		if profileHits != nil {
			atomic.AddInt32(profileHits, 1)
		}
		json.NewEncoder(w).Encode(&minecraft.LaunchManifest{
			ID:           "fabric-loader-0.15.11-1.20.4",
			InheritsFrom: "1.20.4",
			MainClass:    "net.fabricmc.loader.impl.launch.knot.KnotClient",
			Libraries: minecraft.Libraries{
				{Name: "net.fabricmc:fabric-loader:0.15.11", URL: "https://maven.fabricmc.net/"},
			},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := New(server.Client())
	client.BaseURL = server.URL
	return client
}

func TestLatestLoaderPrefersStable(t *testing.T) {
	client := testMetaServer(t, nil)

	loader, err := client.LatestLoader(context.Background(), "1.20.4")
	if err != nil {
		t.Fatal(err)
	}
	if loader != "0.15.11" {
		t.Errorf("expected the newest stable loader, got %q", loader)
	}
}

func TestEnsureInstalled(t *testing.T) {
	var profileHits int32
	client := testMetaServer(t, &profileHits)
	resolver := minecraft.NewResolver(t.TempDir(), http.DefaultClient)

	id, err := client.EnsureInstalled(context.Background(), resolver, "1.20.4", "")
	if err != nil {
		t.Fatal(err)
	}
	if id != "1.20.4-fabric-0.15.11" {
		t.Errorf("unexpected version id %q", id)
	}

	// the second run uses the cached manifest
	if _, err := client.EnsureInstalled(context.Background(), resolver, "1.20.4", ""); err != nil {
		t.Fatal(err)
	}
	if profileHits != 1 {
		t.Errorf("expected 1 profile fetch, got %d", profileHits)
	}
}
