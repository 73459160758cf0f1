package minecraft

import "runtime"

// Rule is a rule that can be applied to an argument or library.
// It can be used to determine if the argument or library should be applied to a specific OS.
type Rule struct {
	Action   string          `json:"action"`
	OS       OS              `json:"os,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
}

// OS defines the feature of an OS that can be used in a [Rule] to determine if it should be applied.
type OS struct {
	Name string `json:"name,omitempty"`
	// Version of the os (can be a regex string)
	Version string `json:"version,omitempty"`
	// Arch of the system
	Arch string `json:"arch,omitempty"`
}

// Rules is the rule list of a library or argument.
// No rules at all means "allow", otherwise the last matching rule decides.
type Rules []Rule

// Applies checks the rules against the current platform
func (rs Rules) Applies() bool {
	return rs.appliesFor(runtime.GOOS, runtime.GOARCH)
}

func (rs Rules) appliesFor(os string, arch string) bool {
	if len(rs) == 0 {
		return true
	}

	// rules present: deny unless a matching rule allows.
	// later rules overrule earlier ones
	allowed := false
	for _, r := range rs {
		if r.matchesFor(os, arch) {
			allowed = r.Action == "allow"
		}
	}
	return allowed
}

func (r Rule) Applies() bool {
	return r.appliesFor(runtime.GOOS, runtime.GOARCH)
}

func (r Rule) appliesFor(os string, arch string) bool {
	if !r.matchesFor(os, arch) {
		// an allow rule that does not target this platform excludes it,
		// a disallow rule that does not target it permits it
		return r.Action != "allow"
	}
	return r.Action == "allow"
}

// matchesFor reports if the rule targets the given platform
func (r Rule) matchesFor(os string, arch string) bool {
	os, arch = normalizeOsArch(os, arch)

	// Features? Do not not know what to do with this. skip it
	if len(r.Features) != 0 {
		return false
	}

	if r.OS.Name != "" && r.OS.Name != os {
		return false
	}

	// TODO: check version (regex), we treat it as non matching for now
	if r.OS.Version != "" {
		return false
	}

	if r.OS.Arch != "" && r.OS.Arch != arch {
		return false
	}

	return true
}

// normalizeOsArch maps go platform names to the ones minecraft
// manifests use
func normalizeOsArch(os string, arch string) (string, string) {
	if os == "darwin" {
		os = "osx"
	}

	switch arch {
	case "amd64", "x86_64":
		arch = "x64"
	case "386", "i386":
		arch = "x86"
	case "arm":
		arch = "arm32"
	case "aarch64":
		arch = "arm64"
	}
	// note: we don't know how other platforms are named

	return os, arch
}
