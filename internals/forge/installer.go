package forge

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/craftlaunch/craftlaunch/internals/downloadmgr"
)

// ErrInstallerFailed is returned when the official installer did not
// produce a version manifest with any of the known invocations
type ErrInstallerFailed struct {
	McVersion    string
	ForgeVersion string
	Stdout       string
	Stderr       string
}

func (e *ErrInstallerFailed) Error() string {
	return fmt.Sprintf(
		"forge %s installer for minecraft %s failed.\n\tstdout: %s\n\tstderr: %s",
		e.ForgeVersion, e.McVersion, e.Stdout, e.Stderr,
	)
}

// Installer installs forge versions into a launcher root by running
// the official installer jar
type Installer struct {
	// Root is the launcher directory holding versions/, libraries/ and
	// forge/installers/
	Root   string
	Client *Client
	// JavaBin runs the installer (a plain "java" works in most cases)
	JavaBin string

	// run is swapped in tests
	run func(ctx context.Context, bin string, args []string, dir string) (string, string, error)
}

func NewInstaller(root string, client *Client, javaBin string) *Installer {
	return &Installer{
		Root:    root,
		Client:  client,
		JavaBin: javaBin,
		run:     runCommand,
	}
}

// EnsureInstalled makes sure a forge version for the given minecraft
// version is installed and returns its version id. An empty
// forgeVersion picks the recommended build. Already installed
// versions are detected without running the installer.
func (i *Installer) EnsureInstalled(ctx context.Context, mcVersion string, forgeVersion string) (string, error) {
	if forgeVersion == "" {
		var err error
		forgeVersion, err = i.Client.RecommendedVersion(ctx, mcVersion)
		if err != nil {
			return "", err
		}
	}

	// installers are not consistent about the version id they create
	candidates := []string{
		fmt.Sprintf("%s-forge-%s", mcVersion, forgeVersion),
		fmt.Sprintf("forge-%s-%s", mcVersion, forgeVersion),
	}

	if id := i.installedVersion(candidates, mcVersion, forgeVersion); id != "" {
		return id, nil
	}

	installerPath, err := i.downloadInstaller(ctx, mcVersion, forgeVersion)
	if err != nil {
		return "", err
	}

	// the installer refuses to run without a launcher profile
	i.seedLauncherProfiles()

	variants := [][]string{
		{"-jar", installerPath, "--installClient"},
		{"-jar", installerPath, "--installClient", i.Root},
		{"-jar", installerPath, "--installClient", "--target", i.Root},
	}

	var lastStdout, lastStderr string
	for _, args := range variants {
		stdout, stderr, err := i.run(ctx, i.JavaBin, args, i.Root)
		lastStdout, lastStderr = stdout, stderr

		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// some variants error out after already writing the manifest
		if id := i.installedVersion(candidates, mcVersion, forgeVersion); id != "" {
			return id, nil
		}
	}

	if id := i.installedVersion(candidates, mcVersion, forgeVersion); id != "" {
		return id, nil
	}

	return "", &ErrInstallerFailed{
		McVersion:    mcVersion,
		ForgeVersion: forgeVersion,
		Stdout:       strings.TrimSpace(lastStdout),
		Stderr:       strings.TrimSpace(lastStderr),
	}
}

// installedVersion looks for an installed version manifest, first at
// the expected ids, then by scanning the versions directory
func (i *Installer) installedVersion(candidates []string, mcVersion string, forgeVersion string) string {
	versionsDir := filepath.Join(i.Root, "versions")

	for _, candidate := range candidates {
		if i.hasManifest(candidate) {
			return candidate
		}
	}

	entries, err := os.ReadDir(versionsDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.Contains(name, "forge") || !strings.Contains(name, mcVersion) {
			continue
		}
		if forgeVersion != "" && !strings.Contains(name, forgeVersion) {
			continue
		}
		if i.hasManifest(name) {
			return name
		}
	}
	return ""
}

func (i *Installer) hasManifest(id string) bool {
	path := filepath.Join(i.Root, "versions", id, id+".json")
	_, err := os.Stat(path)
	return err == nil
}

func (i *Installer) downloadInstaller(ctx context.Context, mcVersion string, forgeVersion string) (string, error) {
	name := fmt.Sprintf("forge-%s-%s-installer.jar", mcVersion, forgeVersion)
	target := filepath.Join(i.Root, "forge", "installers", name)
	rel := fmt.Sprintf("net/minecraftforge/forge/%s-%s/%s", mcVersion, forgeVersion, name)

	// previous 404 responses may have left an html file behind
	os.Remove(target)

	var lastErr error
	for _, repo := range InstallerURLs {
		item := downloadmgr.NewHTTPItem(repo+rel, target)
		item.Client = i.Client.HTTP
		if lastErr = item.Download(ctx); lastErr == nil {
			return target, nil
		}
	}
	return "", errors.Wrap(lastErr, "downloading forge installer")
}

func (i *Installer) seedLauncherProfiles() {
	path := filepath.Join(i.Root, "launcher_profiles.json")
	if _, err := os.Stat(path); err == nil {
		return
	}
	os.WriteFile(path, []byte("{\n  \"profiles\": {},\n  \"selectedUser\": {}\n}\n"), 0644)
}

func runCommand(ctx context.Context, bin string, args []string, dir string) (string, string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
