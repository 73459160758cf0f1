package minecraft

import (
	"errors"
	"fmt"
)

// LaunchManifest is a version.json manifest that is used to launch minecraft instances
type LaunchManifest struct {
	ID string `json:"id"`
	// InheritsFrom points to a parent manifest that this one extends.
	// Loader manifests (fabric, forge) use this to extend the vanilla manifest.
	InheritsFrom string `json:"inheritsFrom,omitempty"`
	// MinecraftArguments are used before 1.13
	MinecraftArguments string `json:"minecraftArguments,omitempty"`
	// Arguments is the new (complicated) system
	Arguments Arguments `json:"arguments,omitempty"`
	Downloads struct {
		Client Artifact `json:"client"`
		Server Artifact `json:"server"`
	} `json:"downloads,omitempty"`
	Libraries  Libraries `json:"libraries"`
	Type       string    `json:"type"`
	MainClass  string    `json:"mainClass"`
	Jar        string    `json:"jar,omitempty"`
	Assets     string    `json:"assets,omitempty"`
	AssetIndex AssetIndexRef `json:"assetIndex,omitempty"`
	// JavaVersion declares the java runtime this version wants
	JavaVersion *JavaVersion `json:"javaVersion,omitempty"`
	Logging     *Logging     `json:"logging,omitempty"`
	ReleaseTime string       `json:"releaseTime,omitempty"`
}

// Arguments contains the game & jvm arguments introduced with 1.13
type Arguments struct {
	Game []Argument `json:"game,omitempty"`
	JVM  []Argument `json:"jvm,omitempty"`
}

// AssetIndexRef points to the asset index json for a version
type AssetIndexRef struct {
	ID        string `json:"id"`
	Sha1      string `json:"sha1"`
	Size      int    `json:"size"`
	TotalSize int    `json:"totalSize"`
	URL       string `json:"url"`
}

// JavaVersion is the java runtime requirement of a version
type JavaVersion struct {
	Component    string `json:"component"`
	MajorVersion int    `json:"majorVersion"`
}

// Logging describes the log4j configuration a version ships
type Logging struct {
	Client ClientLogging `json:"client"`
}

// ClientLogging is the client side logging configuration.
// Argument usually is "-Dlog4j.configurationFile=${path}"
type ClientLogging struct {
	Argument string  `json:"argument"`
	File     LogFile `json:"file"`
	Type     string  `json:"type"`
}

// LogFile is the downloadable log4j xml config
type LogFile struct {
	ID   string `json:"id"`
	Sha1 string `json:"sha1"`
	Size int    `json:"size"`
	URL  string `json:"url"`
}

// ErrMissingClientDownload is a fully resolved manifest without a
// client download block. Such a version can not be launched.
var ErrMissingClientDownload = errors.New("manifest has no client download")

// VerifyComplete checks that a fully resolved manifest has everything
// required to launch: a client download, a main class and an asset
// index reference.
func (m *LaunchManifest) VerifyComplete() error {
	if m.Downloads.Client.URL == "" {
		return ErrMissingClientDownload
	}
	if m.MainClass == "" {
		return fmt.Errorf("manifest %s has no main class", m.ID)
	}
	if m.AssetIndex.URL == "" && m.Assets == "" {
		return fmt.Errorf("manifest %s has no asset index", m.ID)
	}
	return nil
}

// MergeManifests merges the given manifests onto the source manifest.
// Later manifests win: empty fields of the source are filled, argument
// lists are appended and libraries are combined (duplicates resolved
// with DedupLibraries – the later entry wins).
//
// This is used to resolve `inheritsFrom` chains, where the child
// manifest is merged on top of its (already resolved) parent.
func MergeManifests(source *LaunchManifest, manifests ...*LaunchManifest) {
	for _, merge := range manifests {
		if merge.ID != "" {
			source.ID = merge.ID
		}
		if merge.MainClass != "" {
			source.MainClass = merge.MainClass
		}
		if merge.Assets != "" {
			source.Assets = merge.Assets
		}
		if merge.AssetIndex.ID != "" {
			source.AssetIndex = merge.AssetIndex
		}
		if merge.MinecraftArguments != "" {
			source.MinecraftArguments = merge.MinecraftArguments
		}
		if merge.Type != "" {
			source.Type = merge.Type
		}
		if merge.JavaVersion != nil {
			source.JavaVersion = merge.JavaVersion
		}
		if merge.Logging != nil {
			source.Logging = merge.Logging
		}
		if merge.Downloads.Client.URL != "" {
			source.Downloads = merge.Downloads
		}

		source.Arguments.Game = append(source.Arguments.Game, merge.Arguments.Game...)
		source.Arguments.JVM = append(source.Arguments.JVM, merge.Arguments.JVM...)
		source.Libraries = append(source.Libraries, merge.Libraries...)
	}

	source.Libraries = DedupLibraries(source.Libraries)
}

// DedupLibraries removes duplicate libraries (same group, artifact &
// classifier). The version of the last entry wins, but it keeps the
// position of the first occurrence, so the classpath order stays stable.
func DedupLibraries(libs Libraries) Libraries {
	keep := make(map[string]Library, len(libs))
	for _, lib := range libs {
		keep[lib.Identity()] = lib
	}

	deduped := make(Libraries, 0, len(keep))
	seen := make(map[string]bool, len(keep))
	for _, lib := range libs {
		id := lib.Identity()
		if seen[id] {
			continue
		}
		seen[id] = true
		deduped = append(deduped, keep[id])
	}
	return deduped
}
