package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/replicate/wheelforge/pkg/command"
	"github.com/replicate/wheelforge/pkg/config"
	"github.com/replicate/wheelforge/pkg/forge"
	"github.com/replicate/wheelforge/pkg/global"
	"github.com/replicate/wheelforge/pkg/platform"
	"github.com/replicate/wheelforge/pkg/util"
	"github.com/replicate/wheelforge/pkg/util/console"
)

// EnvTimeout supplies the default for --timeout, e.g. WHEELFORGE_TIMEOUT=45m.
const EnvTimeout = "WHEELFORGE_TIMEOUT"

// forgeFactory builds the Forge a command runs with. Tests swap it for one with a fake runner.
type forgeFactory func(c *console.Console) *forge.Forge

func defaultForge(c *console.Console) *forge.Forge {
	return &forge.Forge{
		Runner:      command.NewExecRunner(c),
		Console:     c,
		Profile:     platform.Detect(runtime.GOOS, runtime.GOARCH),
		Environment: config.EnvironmentFromOS(),
	}
}

func NewRootCommand() (*cobra.Command, error) {
	return newRootCommand(defaultForge, console.ConsoleInstance), nil
}

func newRootCommand(newForge forgeFactory, c *console.Console) *cobra.Command {
	var opts config.Options
	var timeout time.Duration
	var projectDir string

	cmd := &cobra.Command{
		Use:   "wheelforge",
		Short: "Build a redistributable wheel for a native Python extension",
		Long: `Build a redistributable wheel for a native Python extension.

On Linux a CUDA variant (12 or 13) is required. On macOS only CPU wheels are built.
The repaired wheel is written to the output directory and its path printed on stdout.`,
		Example: `  wheelforge -c 12 -t
  wheelforge -c 13 -T gcc13 -o ~/wheels
  wheelforge -q`,
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		Args:    cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			global.Verbose = opts.Verbose
			if global.Verbose {
				c.Level = console.DebugLevel
			}
			cmd.SilenceUsage = true
		},
		// Errors are printed by cmd/wheelforge/main.go
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			workDir, err := os.Getwd()
			if err != nil {
				return err
			}
			if projectDir == "" {
				projectDir = workDir
			}

			artifact, err := newForge(c).Build(ctx, forge.Request{
				Options:    opts,
				ProjectDir: projectDir,
				WorkDir:    workDir,
			})
			if err != nil {
				return err
			}
			c.Output(artifact.Path)
			return nil
		},
	}

	opts.AddFlags(cmd.Flags())
	cmd.Flags().DurationVar(&timeout, "timeout", util.GetEnvOrDefault(EnvTimeout, time.Duration(0), time.ParseDuration), "Abort the whole build after this long (0 means no limit)")
	cmd.Flags().StringVar(&projectDir, "project-dir", "", "Project directory (defaults to the current directory)")
	_ = cmd.Flags().MarkHidden("timeout")
	_ = cmd.Flags().MarkHidden("project-dir")
	cmd.Flags().SortFlags = false

	return cmd
}
