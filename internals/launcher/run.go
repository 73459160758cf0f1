package launcher

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/jwalton/gchalk"

	"github.com/craftlaunch/craftlaunch/internals/commands"
	"github.com/craftlaunch/craftlaunch/internals/instances"
	"github.com/craftlaunch/craftlaunch/internals/progress"
)

// Run launches the instance with the provided options, filling in
// everything Prepare produced. It blocks until the game exits.
func (l *Launcher) Run(ctx context.Context, opts *instances.LaunchOptions) error {
	fmt.Println("│")
	fmt.Println(
		lipgloss.JoinHorizontal(
			0.5,
			gchalk.Hex("#7a563b")("│"+"\n"+"┕"),
			commands.StyleGrass.Render(commands.Emoji("⛏  ")+"Launching Minecraft"),
		),
	)

	if opts.LaunchManifest == nil {
		opts.LaunchManifest = l.LaunchManifest
	}
	if opts.RamMiB == 0 {
		opts.RamMiB = l.Instance.RamMiB
	}

	javaBin, err := l.EnsureJava(ctx)
	if err != nil {
		return err
	}
	opts.Java = javaBin
	opts.JavaMajor = l.javaMajor

	l.publish(progress.StageLaunch, 100, "launching")
	return l.Instance.Launch(ctx, opts)
}
