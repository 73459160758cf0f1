package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/craftlaunch/craftlaunch/internals/commands"
	"github.com/craftlaunch/craftlaunch/internals/minecraft"
)

func init() {
	runner := &versionsRunner{}
	cmd := commands.New(&cobra.Command{
		Use:   "versions",
		Short: "List launchable minecraft versions",
		Args:  cobra.NoArgs,
	}, runner)
	cmd.Flags().IntVarP(&runner.limit, "limit", "n", 20, "How many versions to show (0 shows all)")
	cmd.Flags().BoolVar(&runner.snapshots, "snapshots", false, "Include snapshots")

	rootCmd.AddCommand(cmd.Command)
}

type versionsRunner struct {
	limit     int
	snapshots bool
}

func (r *versionsRunner) RunE(cmd *cobra.Command, args []string) error {
	catalog, err := minecraft.FetchCatalog(cmd.Context(), http.DefaultClient)
	if err != nil {
		return err
	}

	if r.snapshots {
		shown := 0
		for _, v := range catalog.Versions {
			if r.limit > 0 && shown == r.limit {
				break
			}
			fmt.Printf("%s (%s)\n", v.ID, v.Type)
			shown++
		}
		return nil
	}

	for _, release := range catalog.Releases(r.limit) {
		fmt.Println(release.ID)
	}
	return nil
}
