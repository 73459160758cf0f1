package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Tnze/go-mc/bot"
	"github.com/Tnze/go-mc/chat"
	"github.com/spf13/cobra"

	"github.com/craftlaunch/craftlaunch/internals/commands"
	"github.com/craftlaunch/craftlaunch/internals/instances"
)

func init() {
	runner := &pingRunner{}
	cmd := commands.New(&cobra.Command{
		Use:   "ping <instance|address>",
		Short: "Ping the server an instance plays on",
		Long:  "Queries the server status (player count, version, latency). The argument is an instance id with a configured server, or a plain \"host:port\" address.",
		Args:  cobra.ExactArgs(1),
	}, runner)
	cmd.Flags().DurationVar(&runner.timeout, "timeout", 5*time.Second, "Give up after this long")

	rootCmd.AddCommand(cmd.Command)
}

type pingRunner struct {
	timeout time.Duration
}

// serverStatus is the part of the status response we display
type serverStatus struct {
	Version struct {
		Name string `json:"name"`
	} `json:"version"`
	Players struct {
		Max    int `json:"max"`
		Online int `json:"online"`
	} `json:"players"`
	Description chat.Message `json:"description"`
}

func (r *pingRunner) RunE(cmd *cobra.Command, args []string) error {
	addr := args[0]

	// instance ids resolve to their configured server
	if !strings.Contains(addr, ".") && !strings.Contains(addr, ":") {
		store, err := instances.NewStore(globalDir)
		if err != nil {
			return err
		}
		instance, err := store.Get(addr)
		if err != nil {
			return err
		}
		if instance.Server == "" {
			return fmt.Errorf("instance %s has no server configured", instance.ID)
		}
		addr = instance.Server
	}

	raw, delay, err := bot.PingAndListTimeout(addr, r.timeout)
	if err != nil {
		return fmt.Errorf("pinging %s: %w", addr, err)
	}

	status := serverStatus{}
	if err := json.Unmarshal(raw, &status); err != nil {
		return fmt.Errorf("parsing status of %s: %w", addr, err)
	}

	fmt.Println(status.Description.ClearString())
	fmt.Printf("Version: %s\n", status.Version.Name)
	fmt.Printf("Players: %d/%d\n", status.Players.Online, status.Players.Max)
	fmt.Printf("Latency: %dms\n", delay.Milliseconds())
	return nil
}
