package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plateforge/plateforge/internal/engine"
	"github.com/plateforge/plateforge/internal/export"
	"github.com/plateforge/plateforge/internal/importer"
	"github.com/plateforge/plateforge/internal/model"
	"github.com/plateforge/plateforge/internal/project"
)

func newPackCmd() *cobra.Command {
	var (
		profileName string
		profilesDir string
		spacing     float64
		plateWidth  float64
		plateLength float64
		offsetX     float64
		offsetY     float64
		jsonOut     string
		pdfOut      string
		labelsOut   string
		projectOut  string
	)

	cmd := &cobra.Command{
		Use:   "pack <footprints-file>",
		Short: "Arrange a footprint list (CSV, XLSX or DXF) on the build plate",
		Long: `Pack reads a list of object footprints, computes a minimal
roughly-square bin containing all of them, centers the bin on the
build plate and reports every object's placement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			result := importer.Import(args[0])
			for _, w := range result.Warnings {
				logger.Warn(w)
			}
			if len(result.Errors) > 0 {
				for _, e := range result.Errors {
					logger.Error(e)
				}
				return fmt.Errorf("import failed with %d error(s)", len(result.Errors))
			}
			logger.Info("Imported footprints", "file", args[0], "count", len(result.Items))

			profile, err := project.LoadProfileByName(profilesDir, profileName)
			if err != nil {
				return err
			}
			settings := profile.Settings()
			if cmd.Flags().Changed("spacing") {
				settings.Spacing = spacing
			}
			if plateWidth > 0 {
				settings.PlateWidth = plateWidth
				settings.PlateCircular = false
			}
			if plateLength > 0 {
				settings.PlateLength = plateLength
				settings.PlateCircular = false
			}
			settings.OffsetX = offsetX
			settings.OffsetY = offsetY
			logger.Debug("Arrange settings",
				"profile", profile.Name,
				"plate", fmt.Sprintf("%gx%g", settings.PlateWidth, settings.PlateLength),
				"spacing", settings.Spacing)

			arranger := engine.NewArranger(settings)
			layout, err := arranger.Arrange(result.Items)
			if err != nil {
				return fmt.Errorf("arrange: %w", err)
			}
			logger.Info("Computed layout",
				"bin", fmt.Sprintf("%.1fx%.1f mm", layout.BinWidth, layout.BinLength),
				"efficiency", fmt.Sprintf("%.1f%%", layout.Efficiency()))

			if err := writeOutputs(cmd, layout, profile, args[0], jsonOut, pdfOut, labelsOut, projectOut); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", "", "printer profile name (default: built-in Generic)")
	cmd.Flags().StringVar(&profilesDir, "profiles-dir", project.ProfilesDir(), "printer profiles directory")
	cmd.Flags().Float64Var(&spacing, "spacing", 0, "clearance between footprints in mm (overrides profile)")
	cmd.Flags().Float64Var(&plateWidth, "plate-width", 0, "build plate width in mm (overrides profile)")
	cmd.Flags().Float64Var(&plateLength, "plate-length", 0, "build plate length in mm (overrides profile)")
	cmd.Flags().Float64Var(&offsetX, "offset-x", 0, "extra X offset applied to every placement")
	cmd.Flags().Float64Var(&offsetY, "offset-y", 0, "extra Y offset applied to every placement")
	cmd.Flags().StringVar(&jsonOut, "json", "", "write the layout as JSON to this path")
	cmd.Flags().StringVar(&pdfOut, "pdf", "", "write a layout diagram PDF to this path")
	cmd.Flags().StringVar(&labelsOut, "labels", "", "write QR-coded item labels PDF to this path")
	cmd.Flags().StringVar(&projectOut, "save", "", "save the whole project (items, settings, layout) to this path")

	return cmd
}

func writeOutputs(cmd *cobra.Command, layout model.Layout, profile model.PrinterProfile, inputPath, jsonOut, pdfOut, labelsOut, projectOut string) error {
	logger := loggerFromContext(cmd.Context())

	if jsonOut != "" {
		data, err := json.MarshalIndent(layout, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(jsonOut, data, 0644); err != nil {
			return fmt.Errorf("write layout JSON: %w", err)
		}
		logger.Info("Wrote layout JSON", "path", jsonOut)
	} else {
		printPlacements(cmd, layout)
	}

	if pdfOut != "" {
		if err := export.ExportPDF(pdfOut, layout, profile.Name); err != nil {
			return fmt.Errorf("write layout PDF: %w", err)
		}
		logger.Info("Wrote layout PDF", "path", pdfOut)
	}

	if labelsOut != "" {
		if err := export.ExportLabels(labelsOut, layout); err != nil {
			return fmt.Errorf("write labels PDF: %w", err)
		}
		logger.Info("Wrote labels PDF", "path", labelsOut)
	}

	if projectOut != "" {
		p := model.Project{
			Name:     projectName(inputPath),
			Items:    layout.Items,
			Layout:   &layout,
			Settings: model.ArrangeSettings{Spacing: profile.Spacing, PlateWidth: layout.PlateWidth, PlateLength: layout.PlateLength},
		}
		if err := project.SaveProject(projectOut, p); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
		logger.Info("Saved project", "path", projectOut)
	}

	return nil
}

// printPlacements writes a human-readable placement table to stdout.
func printPlacements(cmd *cobra.Command, layout model.Layout) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "bin: %.1f x %.1f mm (%.1f%% efficient)\n",
		layout.BinWidth, layout.BinLength, layout.Efficiency())
	for _, it := range layout.Items {
		if !it.Placed {
			continue
		}
		fmt.Fprintf(out, "  %-24s %8.1f x %-8.1f @ (%.1f, %.1f)\n",
			it.Label, it.Width, it.Length, it.X, it.Y)
	}
}

// projectName derives a project name from the input file name.
func projectName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
