// Package launcher orchestrates a full game start with CLI output:
// loader install, manifest resolution, artifact downloads, java
// runtime selection and finally the process launch.
package launcher

import (
	"net/http"

	"github.com/craftlaunch/craftlaunch/internals/instances"
	"github.com/craftlaunch/craftlaunch/internals/java"
	"github.com/craftlaunch/craftlaunch/internals/minecraft"
	"github.com/craftlaunch/craftlaunch/internals/progress"
)

// Launcher can launch instances with CLI output
type Launcher struct {
	// Instance is the instance to be launched
	Instance *instances.Instance

	// Version is the craftlaunch version number (for the outro)
	Version string

	// Client is used for every download. nil falls back to
	// http.DefaultClient.
	Client *http.Client

	// Sink receives progress events during Prepare. nil discards.
	Sink progress.Sink

	// LaunchManifest is the fully resolved manifest. It is set after
	// calling Prepare.
	LaunchManifest *minecraft.LaunchManifest
	// VersionID is the composed manifest id (eg. "1.20.4-fabric-0.15.6").
	// It is set after calling Prepare.
	VersionID string

	// NonInteractive disables fancy spinners
	NonInteractive bool

	// UseSystemJava launches with the java on the PATH instead of a
	// managed runtime. This skips downloading java.
	UseSystemJava bool

	// JavaMajor overrides the java major version to use
	JavaMajor int

	// Offline skips loader version lookups and mod syncing. Launching
	// only works when everything needed is already on disk.
	Offline bool

	javaFactoryInstance *java.Factory
	java                *java.Java
	javaMajor           int
	release             func()
	introPrinted        bool
}

// New returns a launcher for the given instance
func New(instance *instances.Instance) *Launcher {
	return &Launcher{Instance: instance}
}

// Close releases the instance lock (if held)
func (l *Launcher) Close() {
	if l.release != nil {
		l.release()
		l.release = nil
	}
}

func (l *Launcher) client() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return http.DefaultClient
}

func (l *Launcher) publish(stage string, percent int, msg string) {
	if l.Sink == nil {
		return
	}
	l.Sink.Publish(progress.Event{
		InstanceID: l.Instance.ID,
		Stage:      stage,
		Percent:    percent,
		Message:    msg,
	})
}
