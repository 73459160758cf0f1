package instances

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/magiconair/properties"
)

// mmcPack is the component manifest other launchers understand
type mmcPack struct {
	Components    []mmcComponent `json:"components"`
	FormatVersion int            `json:"formatVersion"`
}

type mmcComponent struct {
	UID     string `json:"uid"`
	Version string `json:"version"`
}

// WriteConfigFiles writes instance.cfg and mmc-pack.json, so the
// instance directory can be imported by MultiMC style launchers
func (i *Instance) WriteConfigFiles(versionID string) error {
	p := properties.NewProperties()
	p.Set("InstanceType", "OneSix")
	p.Set("name", i.Name)
	p.Set("iconKey", "default")
	p.Set("OverrideCommands", "false")

	f, err := os.Create(filepath.Join(i.McDir(), "instance.cfg"))
	if err != nil {
		return err
	}
	if _, err := p.Write(f, properties.UTF8); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	pack := mmcPack{FormatVersion: 1}
	pack.Components = append(pack.Components, mmcComponent{
		UID:     "net.minecraft",
		Version: i.McVersion,
	})
	switch i.Loader {
	case LoaderFabric:
		pack.Components = append(pack.Components, mmcComponent{
			UID:     "net.fabricmc.fabric-loader",
			Version: loaderBuildOf(versionID, i.McVersion),
		})
	case LoaderForge:
		pack.Components = append(pack.Components, mmcComponent{
			UID:     "net.minecraftforge",
			Version: loaderBuildOf(versionID, i.McVersion),
		})
	}

	raw, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(i.McDir(), "mmc-pack.json"), append(raw, '\n'), 0644)
}

// loaderBuildOf extracts the loader build from a composed version id
// like "1.20.4-fabric-0.15.6" or "1.20.1-forge-47.2.0"
func loaderBuildOf(versionID string, mcVersion string) string {
	for _, sep := range []string{"-fabric-", "-forge-"} {
		prefix := mcVersion + sep
		if len(versionID) > len(prefix) && versionID[:len(prefix)] == prefix {
			return versionID[len(prefix):]
		}
	}
	return versionID
}
