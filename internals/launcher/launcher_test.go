package launcher

import (
	"testing"

	"github.com/craftlaunch/craftlaunch/internals/instances"
	"github.com/craftlaunch/craftlaunch/internals/minecraft"
	"github.com/spf13/cobra"
)

func TestApplyOverwrites(t *testing.T) {
	instance := instances.New("pack", "1.20.4", instances.LoaderFabric)
	l := New(instance)

	l.ApplyOverwrites(&OverwriteFlags{
		McVersion:     "1.21",
		FabricVersion: "0.16.0",
		Ram:           4096,
		Java:          21,
		SystemJava:    true,
	})

	if instance.McVersion != "1.21" {
		t.Errorf("minecraft version not overwritten: %q", instance.McVersion)
	}
	if instance.LoaderVersion != "0.16.0" {
		t.Errorf("loader version not overwritten: %q", instance.LoaderVersion)
	}
	if instance.RamMiB != 4096 {
		t.Errorf("ram not overwritten: %d", instance.RamMiB)
	}
	if l.JavaMajor != 21 || !l.UseSystemJava {
		t.Error("java overwrites not applied")
	}
}

func TestCmdOverwriteFlags(t *testing.T) {
	cmd := &cobra.Command{}
	flags := CmdOverwriteFlags(cmd)

	if err := cmd.ParseFlags([]string{"--minecraft", "1.20.1", "--ram", "2048"}); err != nil {
		t.Fatal(err)
	}
	if flags.McVersion != "1.20.1" || flags.Ram != 2048 {
		t.Errorf("flags not parsed: %+v", flags)
	}
}

func TestWantedJavaMajor(t *testing.T) {
	instance := instances.New("pack", "1.16.5", instances.LoaderVanilla)
	l := New(instance)

	// from the version table when nothing else is known
	if got := l.wantedJavaMajor(); got != 8 {
		t.Errorf("1.16.5 should want java 8, got %d", got)
	}

	// the manifest requirement wins
	l.LaunchManifest = &minecraft.LaunchManifest{
		JavaVersion: &minecraft.JavaVersion{MajorVersion: 17},
	}
	if got := l.wantedJavaMajor(); got != 17 {
		t.Errorf("manifest requirement should win, got %d", got)
	}

	// an explicit override beats everything
	l.JavaMajor = 21
	if got := l.wantedJavaMajor(); got != 21 {
		t.Errorf("override should win, got %d", got)
	}
}
