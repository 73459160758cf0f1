package instances

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var globalDirs = []string{
	"assets/indexes",
	"assets/objects",
	"assets/log_configs",
	"libraries",
	"versions",
	"java",
	"forge/installers",
}

var instanceDirs = []string{
	"mods",
	"resourcepacks",
	"saves",
	"logs",
	"natives",
}

// Scaffold creates the shared and per-instance directory layout.
// Failures are logged as warnings and skipped unless strict is set,
// a partially missing layout usually still launches fine.
func (i *Instance) Scaffold(strict bool) error {
	var firstErr error
	mkdir := func(dir string) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("scaffolding %s: %w", dir, err)
			}
			log.Println("[WARN] could not create", dir, err)
		}
	}

	for _, dir := range globalDirs {
		mkdir(filepath.Join(i.GlobalDir, dir))
	}
	for _, dir := range instanceDirs {
		mkdir(filepath.Join(i.McDir(), dir))
	}

	// stale coremods from older loader versions break launches
	if err := os.RemoveAll(filepath.Join(i.McDir(), "coremods")); err != nil {
		log.Println("[WARN] could not remove coremods:", err)
	}

	if strict {
		return firstErr
	}
	return nil
}
