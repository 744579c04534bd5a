package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// Typically called by the main package with values injected via
// ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the plateforge CLI and returns an error if any command
// fails.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
func Execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:          "plateforge",
		Short:        "PlateForge arranges object footprints on a build plate",
		Long:         `PlateForge packs the 2D footprints of a set of objects into a minimal, roughly-square bin and places that bin on the build plate, ready for slicing.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("plateforge %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newPackCmd())
	root.AddCommand(newProfilesCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return root.ExecuteContext(ctx)
}
