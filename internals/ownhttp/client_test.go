package ownhttp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUserAgentHeader(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := New()
	res, err := client.Get(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()

	if !strings.HasPrefix(got, "craftlaunch") {
		t.Errorf("expected craftlaunch user agent, got %q", got)
	}
}

func TestExplicitUserAgentWins(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	req.Header.Set("User-Agent", "custom")

	res, err := New().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()

	if got != "custom" {
		t.Errorf("expected custom user agent to survive, got %q", got)
	}
}
