package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gookit/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/craftlaunch/craftlaunch/internals/cmdlog"
)

// Version is the craftlaunch version (set by main)
var Version = "dev"

// Commit is the git commit this binary was built from (set by main)
var Commit = "none"

var logger *cmdlog.Logger = cmdlog.New()

var (
	globalDir     string
	disableColors bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "craftlaunch",
	Short: "Launch Minecraft from your terminal",
	Long:  "craftlaunch installs & launches Minecraft instances (vanilla, fabric and forge)",

	Example: `
  craftlaunch instance create "my pack" --minecraft 1.20.4 --loader fabric
  craftlaunch launch my-pack
  craftlaunch versions`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (%s)", Version, Commit)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	globalDir = filepath.Join(home, ".craftlaunch")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVar(&disableColors, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&globalDir, "dir", globalDir, "directory holding instances, libraries, assets & java runtimes")
	viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
}

// initConfig reads in the config file and matching env variables
func initConfig() {
	if disableColors || os.Getenv("CI") != "" {
		color.Disable()
	}

	viper.AddConfigPath(globalDir)
	viper.SetConfigName("config")
	viper.SetEnvPrefix("CRAFTLAUNCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
	if dir := viper.GetString("dir"); dir != "" {
		globalDir = dir
	}
}

// interactiveTerminal reports if fancy spinners make sense here
func interactiveTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("CI") == ""
}
