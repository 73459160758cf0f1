package minecraft_test

import (
	"fmt"
	"testing"

	"github.com/craftlaunch/craftlaunch/internals/minecraft"
)

func ExampleMergeManifests() {
	source := &minecraft.LaunchManifest{
		ID: "1.18.2",
		Libraries: []minecraft.Library{
			{Name: "commons-logging:commons-logging:1.2"},
		},
	}
	manifest2 := &minecraft.LaunchManifest{
		ID: "overwritten",
		Libraries: []minecraft.Library{
			{Name: "io.craftlaunch.test:lib:1.0.0"},
		},
	}
	// MergeManifests modifies the source manifest
	minecraft.MergeManifests(source, manifest2)

	// Print the modified source manifest
	fmt.Println("ID:", source.ID)
	fmt.Println("Libraries:")
	for _, lib := range source.Libraries {
		fmt.Println(" - ", lib.Name)
	}
	// Output:
	// ID: overwritten
	// Libraries:
	//  -  commons-logging:commons-logging:1.2
	//  -  io.craftlaunch.test:lib:1.0.0
}

func TestMergeManifestsFillsFromParent(t *testing.T) {
	parent := &minecraft.LaunchManifest{
		ID:        "1.20.4",
		MainClass: "net.minecraft.client.main.Main",
		Assets:    "12",
		AssetIndex: minecraft.AssetIndexRef{
			ID:  "12",
			URL: "https://example.com/12.json",
		},
		Arguments: minecraft.Arguments{
			Game: []minecraft.Argument{{Value: []string{"--username"}}},
		},
		JavaVersion: &minecraft.JavaVersion{MajorVersion: 17},
	}
	child := &minecraft.LaunchManifest{
		ID:        "1.20.4-loader",
		MainClass: "net.loader.Main",
		Arguments: minecraft.Arguments{
			Game: []minecraft.Argument{{Value: []string{"--launchTarget"}}},
		},
	}

	resolved := &minecraft.LaunchManifest{}
	minecraft.MergeManifests(resolved, parent, child)

	if resolved.MainClass != "net.loader.Main" {
		t.Errorf("child main class should win, got %q", resolved.MainClass)
	}
	if resolved.Assets != "12" {
		t.Errorf("assets should be inherited from the parent, got %q", resolved.Assets)
	}
	if resolved.AssetIndex.URL != "https://example.com/12.json" {
		t.Errorf("asset index should be inherited from the parent")
	}
	if resolved.JavaVersion == nil || resolved.JavaVersion.MajorVersion != 17 {
		t.Errorf("java version should be inherited from the parent")
	}

	// parent arguments first, child arguments appended
	game := resolved.Arguments.Game
	if len(game) != 2 || game[0].Value[0] != "--username" || game[1].Value[0] != "--launchTarget" {
		t.Errorf("expected parent arguments before child arguments, got %v", game)
	}
}

func TestDedupLibraries(t *testing.T) {
	libs := minecraft.Libraries{
		{Name: "org.ow2.asm:asm:9.3"},
		{Name: "net.fabricmc:fabric-loader:0.14.0"},
		{Name: "org.ow2.asm:asm:9.7"},
		{Name: "org.lwjgl:lwjgl:3.3.1:natives-linux"},
	}

	deduped := minecraft.DedupLibraries(libs)

	if len(deduped) != 3 {
		t.Fatalf("expected 3 libraries, got %d", len(deduped))
	}
	// later version wins, position of the first occurrence is kept
	if deduped[0].Name != "org.ow2.asm:asm:9.7" {
		t.Errorf("expected asm 9.7 at position 0, got %q", deduped[0].Name)
	}
	if deduped[1].Name != "net.fabricmc:fabric-loader:0.14.0" {
		t.Errorf("expected fabric-loader at position 1, got %q", deduped[1].Name)
	}
}

func TestDedupLibrariesKeepsClassifiersApart(t *testing.T) {
	libs := minecraft.Libraries{
		{Name: "org.lwjgl:lwjgl:3.3.1"},
		{Name: "org.lwjgl:lwjgl:3.3.1:natives-linux"},
	}

	if got := len(minecraft.DedupLibraries(libs)); got != 2 {
		t.Fatalf("a library and its natives must not collapse, got %d entries", got)
	}
}
