package cmd

import (
	"crypto/md5"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/craftlaunch/craftlaunch/internals/commands"
	"github.com/craftlaunch/craftlaunch/internals/instances"
	"github.com/craftlaunch/craftlaunch/internals/launcher"
	"github.com/craftlaunch/craftlaunch/internals/minecraft"
)

func init() {
	runner := &launchRunner{}
	cmd := commands.New(&cobra.Command{
		Use:     "launch <instance>",
		Short:   "Launch a minecraft instance",
		Aliases: []string{"run", "start", "play"},
		Args:    cobra.ExactArgs(1),
	}, runner)

	runner.overwrites = launcher.CmdOverwriteFlags(cmd.Command)
	cmd.Flags().StringVar(&runner.playerName, "name", "Player", "Player name to launch with")
	cmd.Flags().BoolVar(&runner.debug, "debug-launch", false, "Only prepare & assemble the command, do not start the game")
	cmd.Flags().IntVar(&runner.width, "width", 0, "Game window width")
	cmd.Flags().IntVar(&runner.height, "height", 0, "Game window height")

	rootCmd.AddCommand(cmd.Command)
}

type launchRunner struct {
	overwrites *launcher.OverwriteFlags
	playerName string
	debug      bool
	width      int
	height     int
}

func (r *launchRunner) RunE(cmd *cobra.Command, args []string) error {
	store, err := instances.NewStore(globalDir)
	if err != nil {
		return err
	}
	instance, err := store.Get(args[0])
	if err != nil {
		return err
	}

	launch := launcher.New(instance)
	launch.Version = Version
	launch.Client = http.DefaultClient
	launch.NonInteractive = !interactiveTerminal()
	launch.ApplyOverwrites(r.overwrites)
	defer launch.Close()

	ctx := cmd.Context()
	if err := launch.Prepare(ctx); err != nil {
		return err
	}
	// Prepare may have updated the modpack state
	if err := store.Save(); err != nil {
		return err
	}

	opts := &instances.LaunchOptions{
		Profile: minecraft.OfflineProfile(r.playerName, offlineUUID(r.playerName)),
		Width:   r.width,
		Height:  r.height,
		Debug:   r.debug,
	}
	if r.debug {
		cmdLine, err := instance.BuildLaunchCmd(ctx, fillDebugOpts(launch, opts))
		if err != nil {
			return err
		}
		fmt.Println(cmdLine.String())
		return nil
	}

	return launch.Run(ctx, opts)
}

// fillDebugOpts fills the options Run would normally provide
func fillDebugOpts(l *launcher.Launcher, opts *instances.LaunchOptions) *instances.LaunchOptions {
	if opts.LaunchManifest == nil {
		opts.LaunchManifest = l.LaunchManifest
	}
	if opts.Java == "" {
		opts.Java = "java"
	}
	return opts
}

// offlineUUID derives a stable player uuid from the name, like the
// vanilla server does for offline players
func offlineUUID(name string) string {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	// uuid v3 bits
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", sum[0:4], sum[4:6], sum[6:8], sum[8:10], sum[10:16])
}
