package forge

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func swapURLs(t *testing.T, target *[]string, urls []string) {
	t.Helper()
	old := *target
	*target = urls
	t.Cleanup(func() { *target = old })
}

func TestRecommendedVersionFromPromotions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"promos": {
			"1.20.1-recommended": "47.2.0",
			"1.20.1-latest": "47.2.21",
			"1.21.4-latest": "54.1.0"
		}}`)
	}))
	defer server.Close()

	swapURLs(t, &PromotionsURLs, []string{server.URL})
	client := NewClient(server.Client())

	version, err := client.RecommendedVersion(context.Background(), "1.20.1")
	if err != nil {
		t.Fatal(err)
	}
	if version != "47.2.0" {
		t.Errorf("expected the recommended build, got %q", version)
	}

	// no recommended entry falls back to latest
	version, err = client.RecommendedVersion(context.Background(), "1.21.4")
	if err != nil {
		t.Fatal(err)
	}
	if version != "54.1.0" {
		t.Errorf("expected the latest build, got %q", version)
	}
}

func TestRecommendedVersionFromMetadata(t *testing.T) {
	promoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer promoServer.Close()

	metaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <versioning>
    <versions>
      <version>1.20.1-47.1.0</version>
      <version>1.20.1-47.2.21</version>
      <version>1.20.1-47.2.3</version>
      <version>1.19.4-45.1.0</version>
    </versions>
  </versioning>
</metadata>`)
	}))
	defer metaServer.Close()

	swapURLs(t, &PromotionsURLs, []string{promoServer.URL})
	swapURLs(t, &MetadataURLs, []string{metaServer.URL})
	client := NewClient(http.DefaultClient)

	version, err := client.RecommendedVersion(context.Background(), "1.20.1")
	if err != nil {
		t.Fatal(err)
	}
	if version != "47.2.21" {
		t.Errorf("expected the highest build, got %q", version)
	}
}

func TestRecommendedVersionFromListing(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer down.Close()

	listing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<a href="1.21.4-54.0.16/">1.21.4-54.0.16/</a>
<a href="1.21.4-54.1.0/">1.21.4-54.1.0/</a>
<a href="../">../</a>
</body></html>`)
	}))
	defer listing.Close()

	swapURLs(t, &PromotionsURLs, []string{down.URL})
	swapURLs(t, &MetadataURLs, []string{down.URL})
	swapURLs(t, &ListingURLs, []string{listing.URL})
	client := NewClient(http.DefaultClient)

	version, err := client.RecommendedVersion(context.Background(), "1.21.4")
	if err != nil {
		t.Fatal(err)
	}
	if version != "54.1.0" {
		t.Errorf("expected the highest listed build, got %q", version)
	}
}

func TestRecommendedVersionPinnedFallback(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	swapURLs(t, &PromotionsURLs, []string{down.URL})
	swapURLs(t, &MetadataURLs, []string{down.URL})
	swapURLs(t, &ListingURLs, []string{down.URL})
	client := NewClient(http.DefaultClient)

	version, err := client.RecommendedVersion(context.Background(), "1.21.11")
	if err != nil {
		t.Fatal(err)
	}
	if version != "61.0.8" {
		t.Errorf("expected the pinned build, got %q", version)
	}

	// unpinned versions fail
	if _, err := client.RecommendedVersion(context.Background(), "1.2.3"); err == nil {
		t.Error("expected an error for an unknown version")
	}
}

func TestCompareBuilds(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"47.2.0", "47.1.99", 1},
		{"47.2.0", "47.2.0", 0},
		{"47.2.0", "47.2.0.1", -1},
		{"14.23.5.2859", "14.23.5.2854", 1},
		{"61.0.8", "7.8.1", 1},
	}
	for _, tt := range tests {
		if got := compareBuilds(tt.a, tt.b); got != tt.want {
			t.Errorf("compareBuilds(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
