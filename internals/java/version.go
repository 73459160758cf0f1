package java

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// RequiredMajor returns the java major version a minecraft version
// needs, for manifests that do not declare one:
//
//	≤1.16.5        → 8
//	1.17.x         → 16
//	1.18 – 1.20.4  → 17
//	1.20.5+, 1.21+ → 21
//
// Snapshots and other unparseable ids get the newest mapping.
func RequiredMajor(mcVersion string) int {
	v, err := semver.NewVersion(mcVersion)
	if err != nil {
		return 21
	}

	minor := v.Minor()
	patch := v.Patch()

	switch {
	case minor <= 16:
		return 8
	case minor == 17:
		return 16
	case minor < 20 || (minor == 20 && patch < 5):
		return 17
	default:
		return 21
	}
}

var javaVersionRe = regexp.MustCompile(`version "([^"]+)"`)

// SystemJava locates the java on the PATH and parses its major version
// from `java -version`
func SystemJava(ctx context.Context) (bin string, major int, err error) {
	bin, err = exec.LookPath("java")
	if err != nil {
		return "", 0, err
	}

	cmd := exec.CommandContext(ctx, bin, "-version")
	// `java -version` prints to stderr
	var out bytes.Buffer
	cmd.Stderr = &out
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", 0, err
	}

	major, err = parseJavaVersion(out.String())
	if err != nil {
		return "", 0, err
	}
	return bin, major, nil
}

// parseJavaVersion extracts the major from `java -version` output.
// Both the old ("1.8.0_292") and the new ("17.0.1") scheme are handled.
func parseJavaVersion(output string) (int, error) {
	match := javaVersionRe.FindStringSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("could not find a version in %q", output)
	}

	parts := strings.Split(match[1], ".")
	if parts[0] == "1" && len(parts) > 1 {
		return strconv.Atoi(parts[1])
	}
	return strconv.Atoi(parts[0])
}
