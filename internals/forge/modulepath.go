package forge

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/craftlaunch/craftlaunch/internals/downloadmgr"
	"github.com/craftlaunch/craftlaunch/internals/minecraft"
)

// BootstrapMainClass boots modern forge through the module system
const BootstrapMainClass = "cpw.mods.bootstraplauncher.BootstrapLauncher"

// FallbackMainClass is used when only fmlloader is on the classpath
const FallbackMainClass = "net.minecraftforge.bootstrap.ForgeBootstrap"

// forcedModules must live on the module path, the game refuses to boot
// when they end up on the classpath
var forcedModules = map[string]bool{
	"securejarhandler":  true,
	"modlauncher":       true,
	"bootstraplauncher": true,
}

// classpathBlacklist are artifacts that conflict with their module
// path counterparts (matched against the jar file name)
var classpathBlacklist = []string{
	"asm", "asm-commons", "asm-tree", "asm-util", "asm-analysis",
	"java-objc-bridge", "jna", "oshi-core",
	"sponge-mixin", "mixin", "jakarta.activation", "jakarta.xml.bind",
}

// ignoreList names third party jars securejarhandler has to skip when
// it scans the classpath for modules. Duplicates of these turn up via
// other classpath entries no matter how clean our partition is, and an
// unskipped duplicate aborts the boot layer. The cpw.mods boot modules
// must never be listed here.
const ignoreList = "asm-commons,asm-util,asm-analysis,asm-tree,asm," +
	"javassist,commons-compress,commons-io,httpclient,httpcore," +
	"netty-handler,netty-buffer,netty-common,netty-codec,netty-transport,netty-resolver," +
	"fastutil,jna,oshi-core,gson,guava,slf4j-api,log4j-api,log4j-core," +
	"org.jetbrains.annotations,annotations," +
	"kotlin-stdlib,kotlin-stdlib-jdk8,kotlin-stdlib-jdk7," +
	"mixin,sponge-mixin,commons-lang3,commons-logging," +
	"jakarta.activation,jakarta.xml.bind"

// Paths is the partition of a forge version's libraries into the
// module path and the classpath. The two never share a (group,
// artifact) pair.
type Paths struct {
	ModulePath []string
	Classpath  []string
	MainClass  string
	// JVMArgs are the manifest jvm tokens with every path related
	// argument stripped (the caller assembles -p and -cp itself) plus
	// a rebuilt -DignoreList
	JVMArgs []string
}

// BuildPaths partitions the libraries of a resolved forge manifest.
//
// jvmTokens are the manifest jvm argument tokens after variable
// substitution. Module path values found in them are deduplicated
// keeping the first occurrence per maven identity, the cpw.mods
// boot modules are forced onto the module path (and fetched from the
// forge repository when missing on disk), conflicting or blacklisted
// jars are dropped from the classpath and the stale manifest ignore
// list is replaced with a rebuilt one.
func BuildPaths(ctx context.Context, manifest *minecraft.LaunchManifest, librariesDir string, clientJar string, jvmTokens []string) *Paths {
	index := libraryIndex(manifest, librariesDir)

	var moduleEntries []string
	seenIdentity := make(map[string]bool)
	seenPath := make(map[string]bool)

	addModuleEntry := func(entry string) {
		norm := normalizePath(entry)
		if coord, ok := index[norm]; ok {
			id := coord.Group + ":" + coord.Artifact
			if seenIdentity[id] {
				return
			}
			seenIdentity[id] = true
		} else if seenPath[norm] {
			return
		}
		seenPath[norm] = true
		moduleEntries = append(moduleEntries, entry)
	}

	// scan the jvm arguments for module path values, strip everything
	// path related from the remaining tokens
	filtered := make([]string, 0, len(jvmTokens))
	const (
		expectNone = iota
		expectClasspath
		expectModulePath
	)
	expect := expectNone
	for _, tok := range jvmTokens {
		switch {
		case expect == expectClasspath:
			expect = expectNone
		case expect == expectModulePath:
			for _, entry := range filepath.SplitList(tok) {
				if entry != "" {
					addModuleEntry(entry)
				}
			}
			expect = expectNone
		case tok == "-cp" || tok == "-classpath":
			expect = expectClasspath
		case tok == "-p" || tok == "--module-path":
			expect = expectModulePath
		case tok == "${classpath}" || tok == "${module_path}":
			// leftovers of the stripped arguments
		case strings.HasPrefix(tok, "-DignoreList="):
			// the manifest list references jar names that moved
			// around, a stale one breaks securejarhandler
		default:
			filtered = append(filtered, tok)
		}
	}
	filtered = append(filtered, "-DignoreList="+ignoreList)

	// boot modules always go on the module path
	for _, coord := range index {
		if coord.Group == "cpw.mods" && forcedModules[coord.Artifact] {
			addModuleEntry(filepath.Join(librariesDir, filepath.FromSlash(coord.Path())))
		}
	}

	// the installer does not always leave the boot modules behind
	for _, entry := range moduleEntries {
		fetchFromForgeMaven(ctx, entry, librariesDir)
	}

	modulePathSet := make(map[string]bool, len(moduleEntries))
	moduleIdentities := make(map[string]bool)
	for _, entry := range moduleEntries {
		norm := normalizePath(entry)
		modulePathSet[norm] = true
		if coord, ok := index[norm]; ok {
			moduleIdentities[coord.Group+":"+coord.Artifact] = true
		}
	}

	// assemble the classpath, client jar first
	var classpath []string
	uniq := make(map[string]bool)
	if _, err := os.Stat(clientJar); err == nil {
		classpath = append(classpath, clientJar)
		uniq[normalizePath(clientJar)] = true
	}

	for _, lib := range manifest.Libraries.Required() {
		if lib.IsNative() {
			continue
		}
		rel := lib.Filepath()
		if rel == "" {
			continue
		}

		entry := filepath.Join(librariesDir, rel)
		norm := normalizePath(entry)
		if uniq[norm] {
			continue
		}
		uniq[norm] = true

		if isBootstrapJar(norm, index) {
			classpath = append(classpath, entry)
			continue
		}
		if modulePathSet[norm] {
			continue
		}
		if coord, ok := index[norm]; ok && moduleIdentities[coord.Group+":"+coord.Artifact] {
			continue
		}
		if blacklisted(entry) {
			continue
		}
		classpath = append(classpath, entry)
	}

	bootstrap := ensureOnClasspath(ctx, &classpath, index, librariesDir,
		"cpw.mods", "bootstraplauncher")
	fmlloader := ensureOnClasspath(ctx, &classpath, index, librariesDir,
		"net.minecraftforge", "fmlloader")

	existing := classpath[:0]
	for _, entry := range classpath {
		if _, err := os.Stat(entry); err == nil {
			existing = append(existing, entry)
		}
	}
	classpath = existing

	mainClass := BootstrapMainClass
	if bootstrap == "" && fmlloader != "" {
		mainClass = FallbackMainClass
	}

	return &Paths{
		ModulePath: moduleEntries,
		Classpath:  classpath,
		MainClass:  mainClass,
		JVMArgs:    filtered,
	}
}

// libraryIndex maps normalized jar paths to their maven coordinate
func libraryIndex(manifest *minecraft.LaunchManifest, librariesDir string) map[string]minecraft.Coordinate {
	index := make(map[string]minecraft.Coordinate, len(manifest.Libraries))
	for i := range manifest.Libraries {
		lib := &manifest.Libraries[i]
		coord, err := lib.Coordinate()
		if err != nil {
			continue
		}

		full := filepath.Join(librariesDir, filepath.FromSlash(coord.Path()))
		index[normalizePath(full)] = coord

		if artifactPath := lib.Downloads.Artifact.Path; artifactPath != "" {
			full := filepath.Join(librariesDir, filepath.FromSlash(artifactPath))
			index[normalizePath(full)] = coord
		}
	}
	return index
}

// ensureOnClasspath makes sure the given artifact ends up on the
// classpath: located via the index, else by scanning the libraries
// directory, fetched from the forge repository when missing on disk.
// Returns the jar path ("" when the artifact is nowhere to be found).
func ensureOnClasspath(ctx context.Context, classpath *[]string, index map[string]minecraft.Coordinate, librariesDir string, group string, artifact string) string {
	var target string
	for _, coord := range index {
		if coord.Group == group && coord.Artifact == artifact {
			target = filepath.Join(librariesDir, filepath.FromSlash(coord.Path()))
			break
		}
	}
	if target == "" {
		target = scanForJar(librariesDir, group, artifact)
	}
	if target == "" {
		return ""
	}

	if _, err := os.Stat(target); err != nil {
		fetchFromForgeMaven(ctx, target, librariesDir)
		if _, err := os.Stat(target); err != nil {
			return ""
		}
	}

	norm := normalizePath(target)
	for _, entry := range *classpath {
		if normalizePath(entry) == norm {
			return target
		}
	}
	*classpath = append(*classpath, target)
	return target
}

// scanForJar looks for "<artifact>-*.jar" under the artifact's
// repository directory
func scanForJar(librariesDir string, group string, artifact string) string {
	base := filepath.Join(librariesDir, filepath.FromSlash(strings.ReplaceAll(group, ".", "/")), artifact)
	versions, err := os.ReadDir(base)
	if err != nil {
		return ""
	}
	for _, version := range versions {
		if !version.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(base, version.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			name := f.Name()
			if strings.HasPrefix(name, artifact+"-") && strings.HasSuffix(name, ".jar") {
				return filepath.Join(base, version.Name(), name)
			}
		}
	}
	return ""
}

// fetchFromForgeMaven downloads a missing library jar. Best effort:
// a failure here surfaces later as a missing classpath entry.
func fetchFromForgeMaven(ctx context.Context, entry string, librariesDir string) {
	if _, err := os.Stat(entry); err == nil {
		return
	}

	rel, err := filepath.Rel(librariesDir, entry)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}

	item := downloadmgr.NewHTTPItem(Maven+filepath.ToSlash(rel), entry)
	item.Download(ctx)
}

func blacklisted(entry string) bool {
	name := strings.ToLower(filepath.Base(entry))
	for _, bad := range classpathBlacklist {
		if strings.Contains(name, bad) {
			return true
		}
	}
	return false
}

func isBootstrapJar(norm string, index map[string]minecraft.Coordinate) bool {
	if strings.Contains(filepath.Base(norm), "bootstraplauncher") {
		return true
	}
	coord, ok := index[norm]
	return ok && coord.Group == "cpw.mods" && coord.Artifact == "bootstraplauncher"
}

// normalizePath makes paths comparable across separators (and case,
// on windows)
func normalizePath(path string) string {
	norm := filepath.ToSlash(path)
	if runtime.GOOS == "windows" {
		norm = strings.ToLower(norm)
	}
	return norm
}
