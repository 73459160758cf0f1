package launcher

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/jwalton/gchalk"

	"github.com/craftlaunch/craftlaunch/internals/downloadmgr"
	"github.com/craftlaunch/craftlaunch/internals/fabric"
	"github.com/craftlaunch/craftlaunch/internals/forge"
	"github.com/craftlaunch/craftlaunch/internals/instances"
	"github.com/craftlaunch/craftlaunch/internals/minecraft"
	"github.com/craftlaunch/craftlaunch/internals/ownhttp"
	"github.com/craftlaunch/craftlaunch/internals/progress"
)

// Prepare ensures all requirements are met to launch the instance:
// the loader is installed, the manifest is resolved, every artifact
// (client jar, libraries, assets, log configs, mods) is on disk and a
// java runtime is available.
func (l *Launcher) Prepare(ctx context.Context) error {
	instance := l.Instance

	l.printIntro()
	l.introPrinted = true

	if err := instance.Scaffold(false); err != nil {
		return err
	}

	release, err := instance.Lock()
	if err != nil {
		return err
	}
	l.release = release

	resolver := minecraft.NewResolver(instance.VersionsDir(), l.client())

	versionID, err := l.prepareLoader(ctx, resolver)
	if err != nil {
		return err
	}
	l.VersionID = versionID

	l.publish(progress.StageResolve, 0, "resolving "+versionID)
	manifest, err := resolver.ResolveComplete(ctx, versionID)
	if err != nil {
		return err
	}
	if err := manifest.VerifyComplete(); err != nil {
		return err
	}
	l.LaunchManifest = manifest

	fmt.Println(pipeText.Render(gchalk.BgGray("Version")))
	fmt.Println("│ Minecraft " + instance.McVersion)
	if instance.Loader != instances.LoaderVanilla {
		fmt.Printf("│ %s %s\n", instance.Loader, versionID)
	}
	fmt.Println("│")

	// update java in the background if needed
	javaUpdate := l.prepareJavaBg(ctx)

	if err := l.prepareClientJar(ctx, manifest); err != nil {
		return err
	}
	if err := l.prepareLibraries(ctx, manifest); err != nil {
		return err
	}
	if err := l.prepareAssets(ctx, manifest); err != nil {
		return err
	}
	if err := l.prepareMods(ctx); err != nil {
		return err
	}

	if err := instance.WriteConfigFiles(versionID); err != nil {
		return err
	}

	if err := <-javaUpdate; err != nil {
		return err
	}

	l.printOutro()
	return nil
}

// prepareLoader installs the configured loader (when needed) and
// returns the manifest id to launch
func (l *Launcher) prepareLoader(ctx context.Context, resolver *minecraft.Resolver) (string, error) {
	instance := l.Instance
	l.publish(progress.StageInstall, 0, "installing "+instance.Loader)

	switch instance.Loader {
	case instances.LoaderVanilla:
		return instance.McVersion, nil

	case instances.LoaderFabric:
		if l.Offline && instance.LoaderVersion != "" {
			return fabric.VersionID(instance.McVersion, instance.LoaderVersion), nil
		}
		return fabric.New(l.client()).EnsureInstalled(ctx, resolver, instance.McVersion, instance.LoaderVersion)

	case instances.LoaderForge:
		// the installer is a java program, so a runtime has to be
		// there before the loader. The vanilla manifest tells us which
		// major the installer needs.
		vanilla, err := resolver.Resolve(ctx, instance.McVersion)
		if err != nil {
			return "", err
		}
		l.LaunchManifest = vanilla

		l.publish(progress.StageJava, 0, "ensuring java runtime")
		javaBin, err := l.EnsureJava(ctx)
		if err != nil {
			return "", err
		}

		installer := forge.NewInstaller(instance.GlobalDir, forge.NewClient(l.client()), javaBin)
		return installer.EnsureInstalled(ctx, instance.McVersion, instance.LoaderVersion)

	default:
		return "", fmt.Errorf("unknown loader %q", instance.Loader)
	}
}

// prepareJavaBg downloads java if needed and returns an error channel
func (l *Launcher) prepareJavaBg(ctx context.Context) chan error {
	javaUpdate := make(chan error, 1)
	if l.UseSystemJava {
		// nothing gets downloaded. this is a success
		javaUpdate <- nil
		return javaUpdate
	}

	java, err := l.Java(ctx)
	if err != nil {
		javaUpdate <- err
		return javaUpdate
	}

	if java.NeedsDownloading() {
		fmt.Printf("│ %s\n", gchalk.Gray("[i] Starting Java download …"))
		l.publish(progress.StageJava, 0, "downloading java")
		go func() {
			javaUpdate <- java.Update(ctx)
		}()
	} else {
		javaUpdate <- nil
	}
	return javaUpdate
}

// prepareClientJar downloads the game jar and makes sure it actually
// is a readable archive. A corrupted jar is fetched once more.
func (l *Launcher) prepareClientJar(ctx context.Context, manifest *minecraft.LaunchManifest) error {
	target := l.Instance.ClientJar()
	client := manifest.Downloads.Client

	download := func() error {
		mgr := downloadmgr.New()
		mgr.Window(5, 20)
		mgr.OnProgress = l.progressFunc(progress.StageLibraries)

		item := downloadmgr.NewHTTPItem(client.URL, target)
		item.Client = l.client()
		item.Sha1 = client.Sha1
		mgr.Add(item)
		return mgr.Start(ctx)
	}

	if err := download(); err != nil {
		return err
	}

	// a truncated or otherwise broken jar would only blow up deep
	// inside the jvm, so probe it here
	if probe, err := zip.OpenReader(target); err != nil {
		os.Remove(target)
		if err := download(); err != nil {
			return err
		}
		probe, err = zip.OpenReader(target)
		if err != nil {
			return fmt.Errorf("client jar is not a readable archive: %w", err)
		}
		probe.Close()
	} else {
		probe.Close()
	}

	return nil
}

// prepareLibraries downloads the libraries this version needs
func (l *Launcher) prepareLibraries(ctx context.Context, manifest *minecraft.LaunchManifest) error {
	libDir := l.Instance.LibrariesDir()

	mgr := downloadmgr.New()
	mgr.Window(20, 50)
	mgr.OnProgress = l.progressFunc(progress.StageLibraries)

	required := manifest.Libraries.Required()
	for n := range required {
		lib := &required[n]
		target := filepath.Join(libDir, lib.Filepath())
		if _, err := os.Stat(target); err == nil {
			continue
		}
		item := downloadmgr.NewHTTPItem(lib.DownloadURL(), target)
		item.Client = l.client()
		item.Sha1 = lib.Sha1()
		mgr.Add(item)
	}

	if mgr.Len() == 0 {
		return nil
	}

	spinner := l.spinner(fmt.Sprintf("Downloading %d libraries", mgr.Len()))
	spinner.Start()
	defer spinner.Stop()

	return mgr.Start(ctx)
}

// prepareAssets downloads the asset index and every missing asset
// object. Objects are tiny, so the pool is a lot bigger here.
func (l *Launcher) prepareAssets(ctx context.Context, manifest *minecraft.LaunchManifest) error {
	if manifest.AssetIndex.URL == "" {
		return l.prepareLogConfig(ctx, manifest)
	}

	assetsDir := l.Instance.AssetsDir()
	indexPath := filepath.Join(assetsDir, "indexes", manifest.AssetIndex.ID+".json")

	indexItem := downloadmgr.NewHTTPItem(manifest.AssetIndex.URL, indexPath)
	indexItem.Client = l.client()
	indexItem.Sha1 = manifest.AssetIndex.Sha1
	if err := indexItem.Download(ctx); err != nil {
		return err
	}

	raw, err := os.ReadFile(indexPath)
	if err != nil {
		return err
	}
	index := minecraft.AssetIndex{}
	if err := json.Unmarshal(raw, &index); err != nil {
		return fmt.Errorf("parsing asset index %s: %w", indexPath, err)
	}

	mgr := downloadmgr.New()
	mgr.Workers = 24
	mgr.Window(60, 75)
	mgr.OnProgress = l.progressFunc(progress.StageAssets)

	for _, object := range index.Objects {
		target := filepath.Join(assetsDir, "objects", filepath.FromSlash(object.UnixPath()))
		if _, err := os.Stat(target); err == nil {
			continue
		}
		item := downloadmgr.NewHTTPItem(object.DownloadURL(), target)
		item.Client = assetClient
		item.Sha1 = object.Hash
		mgr.Add(item)
	}

	if mgr.Len() != 0 {
		spinner := l.spinner(fmt.Sprintf("Downloading %d assets", mgr.Len()))
		spinner.Start()
		if err := mgr.Start(ctx); err != nil {
			spinner.Stop()
			return err
		}
		spinner.Stop()
	}

	return l.prepareLogConfig(ctx, manifest)
}

// prepareLogConfig fetches the log4j config this version wants (if any)
func (l *Launcher) prepareLogConfig(ctx context.Context, manifest *minecraft.LaunchManifest) error {
	if manifest.Logging == nil || manifest.Logging.Client.File.URL == "" {
		return nil
	}
	file := manifest.Logging.Client.File

	item := downloadmgr.NewHTTPItem(file.URL, filepath.Join(l.Instance.AssetsDir(), "log_configs", file.ID))
	item.Client = l.client()
	item.Sha1 = file.Sha1
	return item.Download(ctx)
}

// prepareMods syncs direct mod downloads and the modpack (if set)
func (l *Launcher) prepareMods(ctx context.Context) error {
	if l.Offline {
		return nil
	}
	instance := l.Instance
	if len(instance.Mods) == 0 && instance.ModpackURL == "" {
		return nil
	}

	l.publish(progress.StageMods, 75, "syncing mods")
	if err := instance.SyncMods(ctx, l.client(), l.progressFunc(progress.StageMods)); err != nil {
		return err
	}

	updated, err := instance.SyncModpack(ctx, l.client())
	if err != nil {
		return err
	}
	if updated {
		fmt.Println("│ Modpack updated")
	}
	return nil
}

// progressFunc adapts download progress to the launcher's sink
func (l *Launcher) progressFunc(stage string) func(downloadmgr.Progress) {
	return func(p downloadmgr.Progress) {
		l.publish(stage, p.Percent, fmt.Sprintf("%d/%d", p.Completed, p.Total))
	}
}

// the resource CDN gets hammered with thousands of tiny requests per
// fresh install, be a polite citizen
var assetClient = ownhttp.NewThrottled(600)

var pipeText = lipgloss.NewStyle().
	Border(lipgloss.Border{Left: "│"}, false).
	BorderLeft(true).
	Padding(0, 1)

func (l *Launcher) printIntro() {
	title := lipgloss.NewStyle().
		Border(lipgloss.Border{Left: "┃"}, false).
		BorderLeft(true).
		Background(lipgloss.Color("#FFF")).
		Foreground(lipgloss.Color("#000")).
		Padding(0, 1).
		Render(l.Instance.Name)

	fmt.Println(title)
	fmt.Println("│")
	fmt.Println("│ Directory: " + l.Instance.Dir())
}

func (l *Launcher) printOutro() {
	javaBin := "(system java)"
	if !l.UseSystemJava && l.java != nil {
		javaBin = l.java.Bin()
	}
	fmt.Println("│ craftlaunch " + l.Version)
	fmt.Println("│ Java " + javaBin)
}
