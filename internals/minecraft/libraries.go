package minecraft

import (
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultLibrariesURL is used for libraries that do not declare
// a download url
const DefaultLibrariesURL = "https://libraries.minecraft.net/"

// Libraries is a collection of minecraft libs
type Libraries []Library

// Required returns only the required library files (matching rules)
func (l Libraries) Required() Libraries {
	required := make(Libraries, 0, len(l))

	osName, _ := normalizeOsArch(runtime.GOOS, runtime.GOARCH)

	for _, lib := range l {
		if !lib.Rules.Applies() {
			continue
		}

		// old natives declaration: skip if there is no native
		// for this platform
		if len(lib.Natives) != 0 {
			if _, ok := lib.Natives[osName]; !ok {
				continue
			}
		}

		required = append(required, lib)
	}

	return required
}

// Library is a single minecraft library.
// Natives & Downloads.Classifiers are the pre 1.19 way of shipping
// platform specific jars, newer versions extract natives at runtime.
type Library struct {
	// Name is the maven name of the library
	Name      string `json:"name"`
	Downloads struct {
		Artifact Artifact `json:"artifact,omitempty"`
		// Classifiers contains additional artifacts, keyed by
		// classifier (eg. "natives-linux")
		Classifiers map[string]Artifact `json:"classifiers,omitempty"`
	} `json:"downloads,omitempty"`
	// URL is a maven repository root used when Downloads is absent
	URL     string            `json:"url,omitempty"`
	Rules   Rules             `json:"rules,omitempty"`
	Natives map[string]string `json:"natives,omitempty"`
}

// Coordinate parses the maven name of this library.
// The native classifier (if any) is part of the coordinate, so a
// library and its natives counterpart do not conflict.
func (l *Library) Coordinate() (Coordinate, error) {
	coord, err := ParseCoordinate(l.Name)
	if err != nil {
		return coord, err
	}
	if id := l.nativeClassifier(); id != "" && coord.Classifier == "" {
		coord.Classifier = id
	}
	return coord, nil
}

// Identity is the version independent identity used for deduplication.
// Falls back to the raw name for unparseable maven names.
func (l *Library) Identity() string {
	coord, err := l.Coordinate()
	if err != nil {
		return l.Name
	}
	return coord.Identity()
}

// IsNative reports if this library is a platform native jar
func (l *Library) IsNative() bool {
	if l.nativeClassifier() != "" {
		return true
	}
	coord, err := ParseCoordinate(l.Name)
	return err == nil && strings.HasPrefix(coord.Classifier, "natives-")
}

// nativeClassifier resolves the classifier id for the current platform
// from the old style natives map. "${arch}" is replaced with the
// pointer size, eg. "natives-windows-${arch}" → "natives-windows-64"
func (l *Library) nativeClassifier() string {
	osName, _ := normalizeOsArch(runtime.GOOS, runtime.GOARCH)

	id, ok := l.Natives[osName]
	if !ok {
		return ""
	}

	arch := "64"
	if strings.HasSuffix(runtime.GOARCH, "386") || runtime.GOARCH == "arm" {
		arch = "32"
	}
	return strings.ReplaceAll(id, "${arch}", arch)
}

// Artifact returns the artifact to download for this library on the
// current platform (the native classifier artifact when present)
func (l *Library) PlatformArtifact() Artifact {
	if id := l.nativeClassifier(); id != "" {
		if native, ok := l.Downloads.Classifiers[id]; ok {
			return native
		}
	}
	return l.Downloads.Artifact
}

// Filepath returns the target filepath for this library, relative to
// the libraries directory
func (l *Library) Filepath() string {
	if artifact := l.PlatformArtifact(); artifact.Path != "" {
		return filepath.FromSlash(artifact.Path)
	}

	coord, err := l.Coordinate()
	if err != nil {
		return ""
	}
	return filepath.FromSlash(coord.Path())
}

// DownloadURL returns the download URL for this library
func (l *Library) DownloadURL() string {
	artifact := l.PlatformArtifact()

	switch {
	case artifact.URL != "":
		return artifact.URL
	case l.URL != "":
		return strings.TrimSuffix(l.URL, "/") + "/" + filepath.ToSlash(l.Filepath())
	default:
		return DefaultLibrariesURL + filepath.ToSlash(l.Filepath())
	}
}

// Sha1 returns the expected sha1 of the library jar (may be empty)
func (l *Library) Sha1() string {
	return l.PlatformArtifact().Sha1
}
