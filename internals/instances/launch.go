package instances

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/craftlaunch/craftlaunch/internals/forge"
	"github.com/craftlaunch/craftlaunch/internals/minecraft"
	"github.com/kballard/go-shellquote"
	"github.com/pbnjay/memory"
)

// Default window size when the instance does not configure one
const (
	DefaultWidth  = 854
	DefaultHeight = 480
)

// ErrRequiredLibraryMissing is returned when a loader's own bootstrap
// library did not end up on the classpath. Launching anyway would
// fail with a confusing class-not-found error deep inside the game.
type ErrRequiredLibraryMissing struct {
	Library string
}

func (e *ErrRequiredLibraryMissing) Error() string {
	return fmt.Sprintf("required library %q is missing from the classpath", e.Library)
}

// LaunchOptions are options for launching
type LaunchOptions struct {
	LaunchManifest *minecraft.LaunchManifest
	Profile        minecraft.Profile
	// Java is the runtime binary to launch with ("java" when empty)
	Java string
	// JavaMajor is the major version of that binary. It gates jvm
	// flags that older runtimes reject.
	JavaMajor int
	// RamMiB can be set to the amount of ram to start the game with.
	// 0 determines the amount from system memory.
	RamMiB int
	Width  int
	Height int
	Debug  bool
	// Environment variables to set
	Env []string
}

// BuildLaunchCmd returns a go cmd ready to start minecraft.
// The heavy lifting is writing the args file: every manifest derived
// argument lands there (one token per line, consumed via @file), only
// the fixed jvm flags go on the command line itself.
func (i *Instance) BuildLaunchCmd(ctx context.Context, opts *LaunchOptions) (*exec.Cmd, error) {
	man := opts.LaunchManifest
	if man == nil {
		return nil, fmt.Errorf("no launch manifest set")
	}
	if opts.Java == "" {
		opts.Java = "java"
	}

	libDir := i.LibrariesDir()
	nativesDir := i.NativesDir()
	if err := os.MkdirAll(nativesDir, 0755); err != nil {
		return nil, err
	}

	// natives are unpacked fresh on every launch
	required := man.Libraries.Required()
	for n := range required {
		lib := &required[n]
		if !lib.IsNative() {
			continue
		}
		jar := filepath.Join(libDir, lib.Filepath())
		if err := extractNatives(jar, nativesDir); err != nil {
			return nil, fmt.Errorf("extracting natives from %s: %w", jar, err)
		}
	}

	sub := i.argReplacer(man, opts, nativesDir)
	jvmTokens := substituteAll(sub, jvmArgTokens(man))

	var (
		mainClass  = man.MainClass
		modulePath []string
		classpath  []string
	)

	if i.Loader == LoaderForge {
		paths := forge.BuildPaths(ctx, man, libDir, i.ClientJar(), jvmTokens)
		jvmTokens = paths.JVMArgs
		mainClass = paths.MainClass
		modulePath = paths.ModulePath
		classpath = paths.Classpath
	} else {
		classpath = i.buildClasspath(man, libDir)
		if i.Loader == LoaderFabric {
			var err error
			classpath, err = i.checkFabricClasspath(classpath, libDir)
			if err != nil {
				return nil, err
			}
		}
	}

	// manifest jvm args, module path, classpath, main class and game
	// args all go into the args file
	var fileArgs []string
	fileArgs = append(fileArgs, jvmTokens...)
	if logArg := i.loggingArg(man); logArg != "" {
		fileArgs = append(fileArgs, logArg)
	}
	if len(modulePath) != 0 {
		fileArgs = append(fileArgs, "-p", strings.Join(modulePath, cpSeparator()))
	}
	fileArgs = append(fileArgs, "-cp", strings.Join(classpath, cpSeparator()))
	fileArgs = append(fileArgs, mainClass)
	fileArgs = append(fileArgs, substituteAll(sub, i.gameArgTokens(man, opts))...)

	if err := writeArgsFile(i.ArgsFile(), fileArgs); err != nil {
		return nil, err
	}

	cmdArgs := i.fixedJvmFlags(opts, nativesDir)
	cmdArgs = append(cmdArgs, "@"+i.ArgsFile())

	i.writeLaunchDebug(opts, mainClass, modulePath, classpath, cmdArgs)

	cmd := exec.CommandContext(ctx, opts.Java, cmdArgs...)
	i.launchCmd = opts.Java + " " + strings.Join(cmdArgs, " ")

	// Set the process directory to our minecraft dir
	cmd.Dir = i.McDir()
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, opts.Env...)
	// some things may rely on PWD
	cmd.Env = append(cmd.Env, "PWD="+i.McDir())

	return cmd, nil
}

// buildClasspath returns the classpath for vanilla & fabric launches:
// the client jar first, then every required non-native library
func (i *Instance) buildClasspath(man *minecraft.LaunchManifest, libDir string) []string {
	cpArgs := []string{i.ClientJar()}
	required := man.Libraries.Required()
	for n := range required {
		lib := &required[n]
		if lib.IsNative() {
			continue
		}
		cpArgs = append(cpArgs, filepath.Join(libDir, lib.Filepath()))
	}
	return cpArgs
}

// checkFabricClasspath makes sure the loader's own bootstrap jar made
// it onto the classpath and backfills jopt-simple, which some game
// versions need for option parsing but do not declare
func (i *Instance) checkFabricClasspath(classpath []string, libDir string) ([]string, error) {
	hasLoader := false
	hasJopt := false
	for _, entry := range classpath {
		name := strings.ToLower(filepath.Base(entry))
		if strings.Contains(name, "fabric-loader") {
			hasLoader = true
		}
		if strings.Contains(name, "jopt-simple") {
			hasJopt = true
		}
	}

	if !hasLoader {
		return nil, &ErrRequiredLibraryMissing{Library: "net.fabricmc:fabric-loader"}
	}
	if !hasJopt {
		fallback := filepath.Join(libDir, "net", "sf", "jopt-simple", "jopt-simple", "5.0.4", "jopt-simple-5.0.4.jar")
		if _, err := os.Stat(fallback); err == nil {
			classpath = append(classpath, fallback)
		}
	}
	return classpath, nil
}

// jvmArgTokens returns the manifest jvm tokens with path related
// arguments stripped: the classpath pair is assembled by us and forge
// replaces its stale ignore list with a rebuilt one
func jvmArgTokens(man *minecraft.LaunchManifest) []string {
	tokens := minecraft.ArgumentTokens(man.Arguments.JVM)

	filtered := make([]string, 0, len(tokens))
	skipNext := false
	for _, token := range tokens {
		switch {
		case skipNext:
			skipNext = false
		case token == "-cp" || token == "-classpath":
			skipNext = true
		case token == "${classpath}":
		case strings.HasPrefix(token, "-DignoreList="):
		default:
			filtered = append(filtered, token)
		}
	}
	return filtered
}

// gameArgTokens returns the game argument tokens of the manifest.
// Resolution arguments are stripped (we pass our own) and demo mode
// is never forwarded.
func (i *Instance) gameArgTokens(man *minecraft.LaunchManifest, opts *LaunchOptions) []string {
	var tokens []string
	if len(man.Arguments.Game) != 0 {
		tokens = minecraft.ArgumentTokens(man.Arguments.Game)
	} else {
		tokens = strings.Fields(man.MinecraftArguments)
	}

	width, height := opts.Width, opts.Height
	if width == 0 {
		width = DefaultWidth
	}
	if height == 0 {
		height = DefaultHeight
	}
	args := []string{"--width", fmt.Sprint(width), "--height", fmt.Sprint(height)}

	skipNext := false
	for _, token := range tokens {
		switch {
		case skipNext:
			skipNext = false
		case token == "--demo":
		case token == "--width" || token == "--height":
			skipNext = true
		case token == "${resolution_width}" || token == "${resolution_height}":
		default:
			args = append(args, token)
		}
	}
	return args
}

// argReplacer builds the ${variable} replacer for launch arguments
func (i *Instance) argReplacer(man *minecraft.LaunchManifest, opts *LaunchOptions, nativesDir string) *strings.Replacer {
	assetIndex := man.AssetIndex.ID
	if assetIndex == "" {
		assetIndex = man.Assets
	}
	versionType := man.Type
	if versionType == "" {
		versionType = "release"
	}

	vars := map[string]string{
		"auth_player_name": opts.Profile.Name,
		// the composed version id, not the vanilla version
		"version_name":      man.ID,
		"game_directory":    i.McDir(),
		"assets_root":       i.AssetsDir(),
		"assets_index_name": assetIndex,
		"auth_uuid":         opts.Profile.ID,
		"auth_access_token": opts.Profile.AccessToken,
		"user_type":         opts.Profile.UserType(),
		"version_type":      versionType,
		"natives_directory": nativesDir,
		"library_directory": i.LibrariesDir(),
		"launcher_name":     "craftlaunch",
		"launcher_version":  "1.0",

		"classpath_separator": cpSeparator(),
		"resolution_width":    fmt.Sprint(DefaultWidth),
		"resolution_height":   fmt.Sprint(DefaultHeight),
	}

	replacerArgs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		replacerArgs = append(replacerArgs, "${"+k+"}", v)
	}
	return strings.NewReplacer(replacerArgs...)
}

func substituteAll(replacer *strings.Replacer, tokens []string) []string {
	out := make([]string, len(tokens))
	for n, token := range tokens {
		out[n] = replacer.Replace(token)
	}
	return out
}

// loggingArg returns the log4j configuration argument when the config
// file has been downloaded, empty otherwise
func (i *Instance) loggingArg(man *minecraft.LaunchManifest) string {
	if man.Logging == nil {
		return ""
	}
	client := man.Logging.Client
	if client.Argument == "" || client.File.ID == "" {
		return ""
	}
	path := filepath.Join(i.AssetsDir(), "log_configs", client.File.ID)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return strings.ReplaceAll(client.Argument, "${path}", path)
}

// fixedJvmFlags are the flags that go on the command line itself
// (everything manifest derived lands in the args file instead)
func (i *Instance) fixedJvmFlags(opts *LaunchOptions, nativesDir string) []string {
	maxRam := opts.RamMiB
	if maxRam == 0 {
		sysMemMiB := float64(memory.TotalMemory()) / 1024 / 1024

		// 1GiB for base minecraft + every mod takes a bit
		maxRam = 1024 + len(i.Mods)*25
		// we take 1/4 of the system memory if that is more
		maxRam = int(math.Max(float64(maxRam), sysMemMiB/4))
		// but not more than 85% of the memory
		maxRam = int(math.Min(float64(maxRam), sysMemMiB*0.85))
	}
	minRam := maxRam / 4
	if minRam < 512 {
		minRam = 512
	}

	args := []string{
		"-XX:+UnlockExperimentalVMOptions",
		fmt.Sprintf("-Xms%dM", minRam),
		fmt.Sprintf("-Xmx%dM", maxRam),
		"-XX:+UseG1GC",
		"-XX:MaxGCPauseMillis=120",
		"-XX:G1HeapRegionSize=8M",
		"-XX:G1NewSizePercent=30",
		"-XX:G1MaxNewSizePercent=40",
		"-XX:G1ReservePercent=20",
		"-XX:+ParallelRefProcEnabled",
		"-XX:+DisableExplicitGC",
		"-XX:+UseStringDeduplication",
		"-Djava.net.preferIPv4Stack=true",
		"-Dfile.encoding=UTF-8",
		"-Djava.library.path=" + nativesDir,
		"-Dminecraft.launcher.brand=craftlaunch",
		"-Dminecraft.launcher.version=1.0",
		"-Dminecraft.client.jar=" + i.ClientJar(),
	}

	if i.Loader == LoaderForge {
		args = append(args,
			"-Dfml.ignoreInvalidMinecraftCertificates=true",
			"-Dfml.ignorePatchDiscrepancies=true",
			"-Dfml.earlyprogresswindow=false",
		)
	}

	// newer runtimes restrict reflection the loaders depend on
	if opts.JavaMajor >= 16 {
		for _, open := range []string{
			"java.base/java.util",
			"java.base/java.lang",
			"java.base/java.lang.reflect",
			"java.base/java.lang.invoke",
			"java.base/java.text",
			"java.desktop/java.awt.font",
			"java.base/java.nio",
			"java.base/sun.nio.ch",
			"java.base/java.util.jar",
		} {
			args = append(args, "--add-opens", open+"=ALL-UNNAMED")
		}
		args = append(args, "--add-exports", "java.base/sun.security.util=ALL-UNNAMED")
	}
	if opts.JavaMajor >= 21 && i.Loader != LoaderVanilla {
		args = append(args, "--enable-native-access=ALL-UNNAMED")
	}

	// HACK: prepend this so macos does not crash
	if runtime.GOOS == "darwin" {
		args = append([]string{"-XstartOnFirstThread"}, args...)
	}

	return args
}

// writeArgsFile writes one token per line, quoted when necessary, so
// the invocation dodges OS command-length limits via @file
func writeArgsFile(path string, tokens []string) error {
	var buf strings.Builder
	for _, token := range tokens {
		buf.WriteString(shellquote.Join(token))
		buf.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(buf.String()), 0644)
}

// writeLaunchDebug dumps the assembled invocation for postmortem
// debugging, failures here never block a launch
func (i *Instance) writeLaunchDebug(opts *LaunchOptions, mainClass string, modulePath []string, classpath []string, cmdArgs []string) {
	var buf strings.Builder
	fmt.Fprintf(&buf, "JAVA_PATH=%s\n", opts.Java)
	fmt.Fprintf(&buf, "JAVA_MAJOR=%d\n", opts.JavaMajor)
	fmt.Fprintf(&buf, "WORK_DIR=%s\n", i.McDir())
	fmt.Fprintf(&buf, "MAIN_CLASS=%s\n", mainClass)
	fmt.Fprintf(&buf, "MODULE_PATH=%s\n", strings.Join(modulePath, cpSeparator()))
	fmt.Fprintf(&buf, "CLASSPATH=%s\n", strings.Join(classpath, cpSeparator()))
	fmt.Fprintf(&buf, "JVM_FLAGS=%s\n", strings.Join(cmdArgs, " "))

	os.MkdirAll(i.LogsDir(), 0755)
	os.WriteFile(filepath.Join(i.LogsDir(), "launch-debug.txt"), []byte(buf.String()), 0644)
}

func cpSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}
