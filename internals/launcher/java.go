package launcher

import (
	"context"

	"github.com/craftlaunch/craftlaunch/internals/java"
)

// Java returns the runtime this launch will use. The returned runtime
// may still need downloading (see Java.NeedsDownloading).
func (l *Launcher) Java(ctx context.Context) (*java.Java, error) {
	if l.java != nil {
		return l.java, nil
	}

	major := l.wantedJavaMajor()
	runtime, err := l.javaFactory().Version(ctx, major)
	if err != nil {
		return nil, err
	}

	l.java = runtime
	l.javaMajor = major
	return runtime, nil
}

// EnsureJava returns the java binary to launch with, downloading a
// managed runtime first if needed
func (l *Launcher) EnsureJava(ctx context.Context) (string, error) {
	if l.UseSystemJava {
		bin, major, err := java.SystemJava(ctx)
		if err != nil {
			return "", err
		}
		l.javaMajor = major
		return bin, nil
	}

	runtime, err := l.Java(ctx)
	if err != nil {
		return "", err
	}
	if runtime.NeedsDownloading() {
		if err := runtime.Update(ctx); err != nil {
			return "", err
		}
	}
	return runtime.Bin(), nil
}

// wantedJavaMajor picks the java major version to use:
// explicit override, then the manifest requirement, then the version
// table for this minecraft version
func (l *Launcher) wantedJavaMajor() int {
	if l.JavaMajor != 0 {
		return l.JavaMajor
	}
	if man := l.LaunchManifest; man != nil && man.JavaVersion != nil && man.JavaVersion.MajorVersion != 0 {
		return man.JavaVersion.MajorVersion
	}
	return java.RequiredMajor(l.Instance.McVersion)
}

func (l *Launcher) javaFactory() *java.Factory {
	if l.javaFactoryInstance == nil {
		l.javaFactoryInstance = java.NewFactory(l.Instance.JavaDir())
		l.javaFactoryInstance.SetHTTPClient(l.client())
	}
	return l.javaFactoryInstance
}
