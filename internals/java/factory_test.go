package java

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func stubSystemJava(t *testing.T, bin string, major int, err error) {
	t.Helper()
	old := systemJava
	systemJava = func(ctx context.Context) (string, int, error) {
		return bin, major, err
	}
	t.Cleanup(func() { systemJava = old })
}

// writeRuntime fakes a downloaded runtime for the given major
func writeRuntime(t *testing.T, baseDir string, major int) string {
	t.Helper()
	dir := filepath.Join(baseDir, fmt.Sprint(major))
	bin := (&Java{dir: dir}).Bin()
	if err := os.MkdirAll(filepath.Dir(bin), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "asset.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return bin
}

func TestVersionPrefersMatchingSystemJava(t *testing.T) {
	baseDir := t.TempDir()
	writeRuntime(t, baseDir, 17)
	stubSystemJava(t, "/opt/jdk17/bin/java", 17, nil)

	java, err := NewFactory(baseDir).Version(context.Background(), 17)
	if err != nil {
		t.Fatal(err)
	}
	if java.Bin() != "/opt/jdk17/bin/java" {
		t.Errorf("expected the system java, got %q", java.Bin())
	}
	if java.NeedsDownloading() {
		t.Error("the system java never needs downloading")
	}
}

func TestVersionFallsBackToLocalRuntime(t *testing.T) {
	baseDir := t.TempDir()
	bin := writeRuntime(t, baseDir, 17)
	// a newer system java is no substitute for the wanted major
	stubSystemJava(t, "/opt/jdk21/bin/java", 21, nil)

	java, err := NewFactory(baseDir).Version(context.Background(), 17)
	if err != nil {
		t.Fatal(err)
	}
	abs, _ := filepath.Abs(bin)
	if java.Bin() != abs {
		t.Errorf("expected the downloaded runtime at %q, got %q", abs, java.Bin())
	}
}
