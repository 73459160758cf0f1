package instances

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/craftlaunch/craftlaunch/internals/minecraft"
)

const testManifest = `{
	"id": "1.20.4",
	"type": "release",
	"mainClass": "net.minecraft.client.main.Main",
	"assets": "12",
	"arguments": {
		"jvm": [
			"-Djava.library.path=${natives_directory}",
			"-Dlauncher=${launcher_name}",
			"-cp",
			"${classpath}",
			"-DignoreList=bootstraplauncher"
		],
		"game": [
			"--username",
			"${auth_player_name}",
			"--demo",
			"--width",
			"1024",
			"--gameDir",
			"${game_directory}"
		]
	},
	"libraries": [
		{
			"name": "com.example:lib:1.0",
			"downloads": {
				"artifact": {
					"path": "com/example/lib/1.0/lib-1.0.jar",
					"url": "https://example.com/lib-1.0.jar"
				}
			}
		}
	]
}`

func parseManifest(t *testing.T, raw string) *minecraft.LaunchManifest {
	t.Helper()
	man := minecraft.LaunchManifest{}
	if err := json.Unmarshal([]byte(raw), &man); err != nil {
		t.Fatal(err)
	}
	return &man
}

func argsFileTokens(t *testing.T, instance *Instance) []string {
	t.Helper()
	raw, err := os.ReadFile(instance.ArgsFile())
	if err != nil {
		t.Fatal(err)
	}
	var tokens []string
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		tokens = append(tokens, line)
	}
	return tokens
}

func TestBuildLaunchCmdVanilla(t *testing.T) {
	instance := testInstance(t)
	if err := instance.Scaffold(true); err != nil {
		t.Fatal(err)
	}
	man := parseManifest(t, testManifest)

	cmd, err := instance.BuildLaunchCmd(context.Background(), &LaunchOptions{
		LaunchManifest: man,
		Profile:        minecraft.Profile{Name: "steve"},
		Java:           "/opt/java/bin/java",
		JavaMajor:      17,
		RamMiB:         2048,
	})
	if err != nil {
		t.Fatal(err)
	}

	if cmd.Path != "/opt/java/bin/java" {
		t.Errorf("unexpected java binary %q", cmd.Path)
	}
	if cmd.Dir != instance.McDir() {
		t.Errorf("cmd should run in the minecraft dir, got %q", cmd.Dir)
	}

	last := cmd.Args[len(cmd.Args)-1]
	if last != "@"+instance.ArgsFile() {
		t.Errorf("last argument should reference the args file, got %q", last)
	}
	joined := strings.Join(cmd.Args, " ")
	for _, flag := range []string{"-Xmx2048M", "-Xms512M", "-XX:+UseG1GC", "--add-opens"} {
		if !strings.Contains(joined, flag) {
			t.Errorf("command line missing %q:\n%s", flag, joined)
		}
	}
	if strings.Contains(joined, "net.minecraft.client.main.Main") {
		t.Error("main class must live in the args file, not the command line")
	}

	tokens := argsFileTokens(t, instance)

	// jvm tokens: substituted, classpath pair & ignore list stripped
	if tokens[0] != "-Djava.library.path="+instance.NativesDir() {
		t.Errorf("unexpected first jvm token %q", tokens[0])
	}
	if tokens[1] != "-Dlauncher=craftlaunch" {
		t.Errorf("launcher_name not substituted: %q", tokens[1])
	}
	for _, token := range tokens {
		if token == "${classpath}" || strings.HasPrefix(token, "-DignoreList=") {
			t.Errorf("token %q should have been stripped", token)
		}
	}

	// the -cp pair we assemble ourselves, client.jar first
	cpIdx := -1
	for n, token := range tokens {
		if token == "-cp" {
			cpIdx = n
		}
	}
	if cpIdx == -1 {
		t.Fatal("args file has no -cp")
	}
	classpath := strings.Split(tokens[cpIdx+1], cpSeparator())
	if classpath[0] != instance.ClientJar() {
		t.Errorf("client.jar must be the first classpath entry, got %q", classpath[0])
	}
	wantLib := filepath.Join(instance.LibrariesDir(), "com", "example", "lib", "1.0", "lib-1.0.jar")
	if classpath[1] != wantLib {
		t.Errorf("expected library %q, got %q", wantLib, classpath[1])
	}

	if tokens[cpIdx+2] != "net.minecraft.client.main.Main" {
		t.Errorf("main class should follow the classpath, got %q", tokens[cpIdx+2])
	}

	// game args: our resolution first, --demo and manifest --width dropped
	game := tokens[cpIdx+3:]
	wantGame := []string{
		"--width", "854", "--height", "480",
		"--username", "steve",
		"--gameDir", instance.McDir(),
	}
	if len(game) != len(wantGame) {
		t.Fatalf("game args = %q, want %q", game, wantGame)
	}
	for n := range wantGame {
		if game[n] != wantGame[n] {
			t.Errorf("game arg %d = %q, want %q", n, game[n], wantGame[n])
		}
	}
}

func TestBuildLaunchCmdWindowSize(t *testing.T) {
	instance := testInstance(t)
	if err := instance.Scaffold(true); err != nil {
		t.Fatal(err)
	}

	_, err := instance.BuildLaunchCmd(context.Background(), &LaunchOptions{
		LaunchManifest: parseManifest(t, testManifest),
		Java:           "java",
		RamMiB:         1024,
		Width:          1920,
		Height:         1080,
	})
	if err != nil {
		t.Fatal(err)
	}

	tokens := strings.Join(argsFileTokens(t, instance), " ")
	if !strings.Contains(tokens, "--width 1920 --height 1080") {
		t.Errorf("configured resolution missing:\n%s", tokens)
	}
}

func TestBuildLaunchCmdFabricMissingLoader(t *testing.T) {
	instance := testInstance(t)
	instance.Loader = LoaderFabric
	if err := instance.Scaffold(true); err != nil {
		t.Fatal(err)
	}

	_, err := instance.BuildLaunchCmd(context.Background(), &LaunchOptions{
		LaunchManifest: parseManifest(t, testManifest),
		Java:           "java",
		RamMiB:         1024,
	})
	missing := &ErrRequiredLibraryMissing{}
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrRequiredLibraryMissing, got %v", err)
	}
	if missing.Library != "net.fabricmc:fabric-loader" {
		t.Errorf("unexpected library %q", missing.Library)
	}
}

func TestCheckFabricClasspathBackfillsJopt(t *testing.T) {
	instance := testInstance(t)
	libDir := instance.LibrariesDir()

	fallback := filepath.Join(libDir, "net", "sf", "jopt-simple", "jopt-simple", "5.0.4", "jopt-simple-5.0.4.jar")
	os.MkdirAll(filepath.Dir(fallback), 0755)
	os.WriteFile(fallback, []byte("jar"), 0644)

	loaderJar := filepath.Join(libDir, "net", "fabricmc", "fabric-loader", "0.15.6", "fabric-loader-0.15.6.jar")
	classpath, err := instance.checkFabricClasspath([]string{loaderJar}, libDir)
	if err != nil {
		t.Fatal(err)
	}
	if classpath[len(classpath)-1] != fallback {
		t.Errorf("jopt-simple not backfilled: %q", classpath)
	}
}

func TestFixedJvmFlagsJavaGate(t *testing.T) {
	instance := testInstance(t)

	old := instance.fixedJvmFlags(&LaunchOptions{RamMiB: 1024, JavaMajor: 8}, instance.NativesDir())
	if joined := strings.Join(old, " "); strings.Contains(joined, "--add-opens") {
		t.Error("--add-opens must not be passed to java 8")
	}

	instance.Loader = LoaderFabric
	modern := strings.Join(instance.fixedJvmFlags(&LaunchOptions{RamMiB: 1024, JavaMajor: 21}, instance.NativesDir()), " ")
	for _, want := range []string{"--add-opens java.base/java.lang=ALL-UNNAMED", "--enable-native-access=ALL-UNNAMED"} {
		if !strings.Contains(modern, want) {
			t.Errorf("java 21 flags missing %q", want)
		}
	}
}

func TestFixedJvmFlagsForge(t *testing.T) {
	instance := testInstance(t)
	instance.Loader = LoaderForge

	flags := strings.Join(instance.fixedJvmFlags(&LaunchOptions{RamMiB: 1024}, instance.NativesDir()), " ")
	if !strings.Contains(flags, "-Dfml.ignoreInvalidMinecraftCertificates=true") {
		t.Errorf("forge fml flags missing:\n%s", flags)
	}
}
