package minecraft

import (
	"fmt"
	"path"
	"strings"
)

// Coordinate is a parsed maven name in the form
// "group:artifact:version[:classifier][@extension]"
type Coordinate struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
	// Extension defaults to "jar"
	Extension string
}

// ParseCoordinate parses a maven name like
// "org.ow2.asm:asm:9.3" or "net.fabricmc:fabric-loader:0.14.9:sources@zip"
func ParseCoordinate(name string) (Coordinate, error) {
	coord := Coordinate{Extension: "jar"}

	if at := strings.LastIndex(name, "@"); at != -1 {
		coord.Extension = name[at+1:]
		name = name[:at]
	}

	parts := strings.Split(name, ":")
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return coord, fmt.Errorf("invalid maven name %q", name)
	}

	coord.Group = parts[0]
	coord.Artifact = parts[1]
	coord.Version = parts[2]
	if len(parts) > 3 {
		coord.Classifier = parts[3]
	}

	return coord, nil
}

// Path returns the repository path of this coordinate using forward
// slashes (eg. "org/ow2/asm/asm/9.3/asm-9.3.jar")
func (c Coordinate) Path() string {
	file := c.Artifact + "-" + c.Version
	if c.Classifier != "" {
		file += "-" + c.Classifier
	}
	file += "." + c.Extension

	return path.Join(
		strings.ReplaceAll(c.Group, ".", "/"),
		c.Artifact,
		c.Version,
		file,
	)
}

// Identity returns the version independent identity of this coordinate.
// Two libraries with the same identity conflict with each other.
func (c Coordinate) Identity() string {
	id := c.Group + ":" + c.Artifact
	if c.Classifier != "" {
		id += ":" + c.Classifier
	}
	return id
}

func (c Coordinate) String() string {
	s := c.Group + ":" + c.Artifact + ":" + c.Version
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	if c.Extension != "jar" {
		s += "@" + c.Extension
	}
	return s
}
