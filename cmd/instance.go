package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/craftlaunch/craftlaunch/internals/commands"
	"github.com/craftlaunch/craftlaunch/internals/instances"
)

var instanceCmd = &cobra.Command{
	Use:     "instance",
	Short:   "Manage local instances",
	Aliases: []string{"instances", "i"},
}

func init() {
	createRunner := &instanceCreateRunner{}
	create := commands.New(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a new instance",
		Args:  cobra.ExactArgs(1),
	}, createRunner)
	create.Flags().StringVarP(&createRunner.mcVersion, "minecraft", "m", "", "Minecraft version (required)")
	create.Flags().StringVarP(&createRunner.loader, "loader", "l", "vanilla", "Loader: vanilla, fabric or forge")
	create.Flags().StringVar(&createRunner.loaderVersion, "loader-version", "", "Pin a loader build (default: latest stable / recommended)")
	create.Flags().StringVar(&createRunner.modpackURL, "modpack", "", "Modpack zip to sync into the instance")
	create.Flags().StringVar(&createRunner.server, "server", "", "Server address this instance usually plays on")
	create.MarkFlagRequired("minecraft")

	list := commands.New(&cobra.Command{
		Use:     "list",
		Short:   "List all known instances",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
	}, &instanceListRunner{})

	instanceCmd.AddCommand(create.Command, list.Command)
	rootCmd.AddCommand(instanceCmd)
}

type instanceCreateRunner struct {
	mcVersion     string
	loader        string
	loaderVersion string
	modpackURL    string
	server        string
}

func (r *instanceCreateRunner) RunE(cmd *cobra.Command, args []string) error {
	switch r.loader {
	case instances.LoaderVanilla, instances.LoaderFabric, instances.LoaderForge:
	default:
		return fmt.Errorf("unknown loader %q (want vanilla, fabric or forge)", r.loader)
	}

	store, err := instances.NewStore(globalDir)
	if err != nil {
		return err
	}

	instance := instances.New(args[0], r.mcVersion, r.loader)
	instance.LoaderVersion = r.loaderVersion
	instance.ModpackURL = r.modpackURL
	instance.Server = r.server
	store.Add(instance)

	if err := instance.Scaffold(true); err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}

	logger.Info("Created instance " + instance.ID)
	logger.Log("Launch it with: craftlaunch launch " + instance.ID)
	return nil
}

type instanceListRunner struct{}

func (r *instanceListRunner) RunE(cmd *cobra.Command, args []string) error {
	store, err := instances.NewStore(globalDir)
	if err != nil {
		return err
	}
	if len(store.Instances) == 0 {
		fmt.Println("No instances yet. Create one with: craftlaunch instance create")
		return nil
	}

	for _, instance := range store.Instances {
		line := fmt.Sprintf("%s – minecraft %s (%s)", instance.ID, instance.McVersion, instance.Loader)
		if instance.ModpackSize != 0 {
			line += fmt.Sprintf(", modpack %s", humanize.Bytes(uint64(instance.ModpackSize)))
		}
		fmt.Println(line)
	}
	return nil
}
