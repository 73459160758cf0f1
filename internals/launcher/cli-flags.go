package launcher

import (
	"fmt"

	"github.com/spf13/cobra"
)

// OverwriteFlags are cli flags used to overwrite launch behavior
type OverwriteFlags struct {
	McVersion     string
	FabricVersion string
	ForgeVersion  string
	Java          int
	SystemJava    bool
	Ram           int
	Offline       bool
}

// CmdOverwriteFlags registers the overwrite flags on the given command
func CmdOverwriteFlags(cmd *cobra.Command) *OverwriteFlags {
	flags := OverwriteFlags{}
	cmd.Flags().StringVarP(&flags.McVersion, "minecraft", "m", "", "Overwrite the Minecraft version")
	cmd.Flags().StringVar(&flags.FabricVersion, "fabric-loader", "", "Overwrite the fabric loader build")
	cmd.Flags().StringVar(&flags.ForgeVersion, "forge", "", "Overwrite the forge build")
	cmd.Flags().IntVar(&flags.Ram, "ram", 0, "Overwrite the amount of RAM in MiB to use")
	cmd.Flags().IntVar(&flags.Java, "java", 0, "Overwrite the Java major version. Example: 17")
	cmd.Flags().BoolVar(&flags.SystemJava, "system-java", false, "Launch with the system Java instead of a managed runtime")
	cmd.Flags().BoolVar(&flags.Offline, "offline", false, "Skip version lookups & mod syncing (works only when everything is already downloaded)")

	return &flags
}

// ApplyOverwrites applies the given flags to this launcher
func (l *Launcher) ApplyOverwrites(o *OverwriteFlags) {
	instance := l.Instance
	if o.McVersion != "" {
		fmt.Println("Minecraft version overwritten to: " + o.McVersion)
		instance.McVersion = o.McVersion
	}
	if o.FabricVersion != "" {
		instance.LoaderVersion = o.FabricVersion
	}
	if o.ForgeVersion != "" {
		instance.LoaderVersion = o.ForgeVersion
	}
	if o.Ram != 0 {
		instance.RamMiB = o.Ram
	}

	l.JavaMajor = o.Java
	l.UseSystemJava = o.SystemJava
	l.Offline = o.Offline
}
