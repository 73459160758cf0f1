package minecraft

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func testCatalogServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/catalog.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"latest": map[string]string{"release": "1.20.4"},
			"versions": []map[string]string{
				{
					"id": "1.20.4", "type": "release",
					"url":         server.URL + "/1.20.4.json",
					"releaseTime": "2023-12-07T12:56:20+00:00",
				},
			},
		})
	})
	mux.HandleFunc("/1.20.4.json", func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		json.NewEncoder(w).Encode(&LaunchManifest{
			ID:        "1.20.4",
			MainClass: "net.minecraft.client.main.Main",
			Assets:    "12",
			Arguments: Arguments{
				Game: []Argument{{Value: stringSlice{"--username"}}},
			},
			JavaVersion: &JavaVersion{MajorVersion: 17},
			Libraries: Libraries{
				{Name: "org.ow2.asm:asm:9.3"},
			},
		})
	})

	return server
}

func withCatalogURL(t *testing.T, url string) {
	t.Helper()
	old := CatalogURLs
	CatalogURLs = []string{url}
	t.Cleanup(func() { CatalogURLs = old })
}

func TestResolverCachesManifests(t *testing.T) {
	var hits int32
	server := testCatalogServer(t, &hits)
	withCatalogURL(t, server.URL+"/catalog.json")

	resolver := NewResolver(t.TempDir(), server.Client())

	for i := 0; i < 2; i++ {
		manifest, err := resolver.Resolve(context.Background(), "1.20.4")
		if err != nil {
			t.Fatal(err)
		}
		if manifest.MainClass != "net.minecraft.client.main.Main" {
			t.Fatalf("unexpected manifest: %+v", manifest)
		}
	}

	if hits != 1 {
		t.Errorf("expected a single manifest fetch, got %d", hits)
	}
}

func TestResolverUnknownVersion(t *testing.T) {
	server := testCatalogServer(t, nil)
	withCatalogURL(t, server.URL+"/catalog.json")

	resolver := NewResolver(t.TempDir(), server.Client())

	_, err := resolver.Resolve(context.Background(), "não-existe")
	var notFound *ErrVersionNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}
}

func TestResolveCompleteMergesParentChain(t *testing.T) {
	server := testCatalogServer(t, nil)
	withCatalogURL(t, server.URL+"/catalog.json")

	resolver := NewResolver(t.TempDir(), server.Client())

	// loader style manifest extending the vanilla one
	err := resolver.StoreManifest(&LaunchManifest{
		ID:           "1.20.4-loader",
		InheritsFrom: "1.20.4",
		MainClass:    "net.loader.Main",
		Arguments: Arguments{
			Game: []Argument{{Value: stringSlice{"--launchTarget"}}},
		},
		Libraries: Libraries{
			{Name: "org.ow2.asm:asm:9.7"},
			{Name: "net.loader:loader:1.0.0"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	resolved, err := resolver.ResolveComplete(context.Background(), "1.20.4-loader")
	if err != nil {
		t.Fatal(err)
	}

	if resolved.ID != "1.20.4-loader" {
		t.Errorf("resolved id = %q", resolved.ID)
	}
	if resolved.InheritsFrom != "" {
		t.Errorf("resolved manifest must be self contained")
	}
	if resolved.MainClass != "net.loader.Main" {
		t.Errorf("child main class should win, got %q", resolved.MainClass)
	}
	if resolved.Assets != "12" {
		t.Errorf("assets should come from the parent, got %q", resolved.Assets)
	}

	game := resolved.Arguments.Game
	if len(game) != 2 || game[0].Value[0] != "--username" {
		t.Errorf("parent arguments must come first: %v", game)
	}

	if len(resolved.Libraries) != 2 {
		t.Fatalf("expected deduped libraries, got %v", resolved.Libraries)
	}
	if resolved.Libraries[0].Name != "org.ow2.asm:asm:9.7" {
		t.Errorf("child library version should win, got %q", resolved.Libraries[0].Name)
	}
}

func TestResolveCompleteDetectsCycles(t *testing.T) {
	server := testCatalogServer(t, nil)
	withCatalogURL(t, server.URL+"/catalog.json")

	resolver := NewResolver(t.TempDir(), server.Client())

	resolver.StoreManifest(&LaunchManifest{ID: "a", InheritsFrom: "b"})
	resolver.StoreManifest(&LaunchManifest{ID: "b", InheritsFrom: "a"})

	_, err := resolver.ResolveComplete(context.Background(), "a")
	var cyclic *ErrCyclicInheritance
	if !errors.As(err, &cyclic) {
		t.Fatalf("expected ErrCyclicInheritance, got %v", err)
	}
}
