package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/plateforge/plateforge/internal/model"
	"github.com/plateforge/plateforge/internal/project"
)

func newProfilesCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage printer profiles",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", project.ProfilesDir(), "printer profiles directory")

	list := &cobra.Command{
		Use:   "list",
		Short: "List available printer profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := project.ListProfiles(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printProfile(out, model.DefaultProfile(), true)
			for _, p := range profiles {
				printProfile(out, p, false)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in default profile into the profiles directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			path, err := project.InitProfiles(dir)
			if err != nil {
				return err
			}
			if path == "" {
				logger.Info("Default profile already present", "dir", dir)
				return nil
			}
			logger.Info("Wrote default profile", "path", path)
			return nil
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(initCmd)
	return cmd
}

func printProfile(out io.Writer, p model.PrinterProfile, builtin bool) {
	shape := "rectangular"
	size := fmt.Sprintf("%.0f x %.0f mm", p.BuildPlate.Width, p.BuildPlate.Length)
	if p.BuildPlate.Circular {
		shape = "circular"
		size = fmt.Sprintf("%.0f mm diameter", p.BuildPlate.Width)
	}
	suffix := ""
	if builtin {
		suffix = " (built-in)"
	}
	fmt.Fprintf(out, "%-20s %s plate, %s, %.1f mm spacing%s\n", p.Name, shape, size, p.Spacing, suffix)
}
