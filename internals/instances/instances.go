// Package instances manages locally installed minecraft instances:
// their on-disk layout, persisted records, mod synchronization and
// the final process launch.
package instances

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/craftlaunch/craftlaunch/internals/merrors"
	strcase "github.com/stoewer/go-strcase"
)

// Loader flavors an instance can use
const (
	LoaderVanilla = "vanilla"
	LoaderFabric  = "fabric"
	LoaderForge   = "forge"
)

// ErrNoSuchInstance is returned when an instance id is not in the store
var ErrNoSuchInstance = &merrors.CliError{
	Text: "No instance with that name exists",
	Help: "Use \"craftlaunch instance list\" to see all known instances",
}

// Instance describes a locally installed minecraft instance
type Instance struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// McVersion is the minecraft version to launch (eg. "1.20.4")
	McVersion string `json:"minecraft"`
	// Loader is one of the Loader* constants
	Loader string `json:"loader"`
	// LoaderVersion pins a loader build. Empty means the recommended
	// (forge) or latest stable (fabric) build.
	LoaderVersion string `json:"loaderVersion,omitempty"`

	// Mods are direct download urls synced into minecraft/mods
	Mods []string `json:"mods,omitempty"`
	// ModpackURL points to a modpack zip that is extracted into the
	// minecraft directory
	ModpackURL string `json:"modpackUrl,omitempty"`
	// ModpackSize is the content length of the last synced modpack,
	// used to detect changed packs
	ModpackSize int64 `json:"modpackSize,omitempty"`

	// Server is an optional "host:port" this instance usually plays on
	Server string `json:"server,omitempty"`
	// RamMiB fixes the max heap size. 0 sizes it from system memory.
	RamMiB int `json:"ramMiB,omitempty"`

	// GlobalDir is the directory containing everything shared between
	// instances: libraries, assets, versions & the java installations
	GlobalDir string `json:"-"`

	launchCmd string
}

// New creates an instance record. The id is derived from the name.
func New(name string, mcVersion string, loader string) *Instance {
	if loader == "" {
		loader = LoaderVanilla
	}
	return &Instance{
		ID:        strcase.KebabCase(name),
		Name:      name,
		McVersion: mcVersion,
		Loader:    loader,
	}
}

// LaunchCmd returns the cmd used to launch minecraft (if started)
func (i *Instance) LaunchCmd() string {
	return i.launchCmd
}

// Dir returns the directory of this instance
func (i *Instance) Dir() string {
	return filepath.Join(i.GlobalDir, "instances", i.ID)
}

// McDir is the minecraft working directory (saves, mods, logs …)
func (i *Instance) McDir() string {
	return filepath.Join(i.Dir(), "minecraft")
}

// ModsDir returns the mods directory of this instance
func (i *Instance) ModsDir() string {
	return filepath.Join(i.McDir(), "mods")
}

// NativesDir holds the extracted native libraries
func (i *Instance) NativesDir() string {
	return filepath.Join(i.McDir(), "natives")
}

// LogsDir returns the log directory of this instance
func (i *Instance) LogsDir() string {
	return filepath.Join(i.McDir(), "logs")
}

// ClientJar is the path of the main game jar for this instance
func (i *Instance) ClientJar() string {
	return filepath.Join(i.McDir(), "client.jar")
}

// ArgsFile is the @file consumed by the java invocation
func (i *Instance) ArgsFile() string {
	return filepath.Join(i.McDir(), "args.txt")
}

// VersionsDir returns the path to the shared versions directory
func (i *Instance) VersionsDir() string {
	return filepath.Join(i.GlobalDir, "versions")
}

// AssetsDir returns the path to the shared assets directory
func (i *Instance) AssetsDir() string {
	return filepath.Join(i.GlobalDir, "assets")
}

// LibrariesDir returns the path to the shared libraries directory
func (i *Instance) LibrariesDir() string {
	return filepath.Join(i.GlobalDir, "libraries")
}

// JavaDir returns the path of the embedded java installations
func (i *Instance) JavaDir() string {
	return filepath.Join(i.GlobalDir, "java")
}

// Store persists instance records as a single json file in the
// global directory
type Store struct {
	GlobalDir string
	Instances []*Instance
}

// NewStore loads the instance records from globalDir. A missing
// store file yields an empty store.
func NewStore(globalDir string) (*Store, error) {
	store := &Store{GlobalDir: globalDir}

	raw, err := os.ReadFile(store.path())
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(raw, &store.Instances); err != nil {
		return nil, err
	}
	for _, instance := range store.Instances {
		instance.GlobalDir = globalDir
	}
	return store, nil
}

func (s *Store) path() string {
	return filepath.Join(s.GlobalDir, "instances.json")
}

// Save writes the records back to disk
func (s *Store) Save() error {
	raw, err := json.MarshalIndent(s.Instances, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.GlobalDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path(), append(raw, '\n'), 0644)
}

// Get returns the instance with the given id
func (s *Store) Get(id string) (*Instance, error) {
	for _, instance := range s.Instances {
		if instance.ID == id {
			return instance, nil
		}
	}
	return nil, ErrNoSuchInstance
}

// Add adds (or replaces) an instance record
func (s *Store) Add(instance *Instance) {
	instance.GlobalDir = s.GlobalDir
	for n, existing := range s.Instances {
		if existing.ID == instance.ID {
			s.Instances[n] = instance
			return
		}
	}
	s.Instances = append(s.Instances, instance)
}
