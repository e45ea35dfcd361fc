package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/spritepad/internal/compose"
	"github.com/kiesman99/spritepad/internal/logging"
	"github.com/kiesman99/spritepad/internal/tileset"
	"github.com/kiesman99/spritepad/pkg/sprite"
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Pack fixed-size tiles into a sprite sheet",
	Long: `Pack tiles into a row-major grid on a transparent sheet.

Tiles come either from --dir, ordered by the number embedded in each file
name (walk_7.png is tile 7), or from a TOML --manifest listing them in order.
Flags given on the command line override values from the manifest.

Tile i lands at column i mod n, row i div n, where n = sheet-width div
tile-width. Tiles of the wrong size are stretched to the tile size.`,
	Args: cobra.NoArgs,
	RunE: runSheet,
}

func init() {
	rootCmd.AddCommand(sheetCmd)

	sheetCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	sheetCmd.Flags().StringP("dir", "d", "", "directory of numbered tile images")
	sheetCmd.Flags().StringP("manifest", "m", "", "TOML manifest listing tiles in order")
	sheetCmd.Flags().Int("tile-width", 32, "tile width in pixels")
	sheetCmd.Flags().Int("tile-height", 32, "tile height in pixels")
	sheetCmd.Flags().Int("sheet-width", 0, "sheet width in pixels (required)")
	sheetCmd.Flags().Int("sheet-height", 0, "sheet height in pixels (required)")
	sheetCmd.Flags().IntP("count", "n", 0, "expected number of tiles (default: number found)")
	sheetCmd.Flags().IntP("workers", "j", 0, "concurrent tile decodes (default: one per CPU)")
	sheetCmd.MarkFlagsMutuallyExclusive("dir", "manifest")

	viper.BindPFlag("sheet.output", sheetCmd.Flags().Lookup("output"))
	viper.BindPFlag("sheet.dir", sheetCmd.Flags().Lookup("dir"))
	viper.BindPFlag("sheet.manifest", sheetCmd.Flags().Lookup("manifest"))
	viper.BindPFlag("sheet.tile-width", sheetCmd.Flags().Lookup("tile-width"))
	viper.BindPFlag("sheet.tile-height", sheetCmd.Flags().Lookup("tile-height"))
	viper.BindPFlag("sheet.sheet-width", sheetCmd.Flags().Lookup("sheet-width"))
	viper.BindPFlag("sheet.sheet-height", sheetCmd.Flags().Lookup("sheet-height"))
	viper.BindPFlag("sheet.count", sheetCmd.Flags().Lookup("count"))
	viper.BindPFlag("sheet.workers", sheetCmd.Flags().Lookup("workers"))
}

// sheetPlan is everything runSheet needs after flags, config and manifest are merged
type sheetPlan struct {
	entries []tileset.Entry
	opts    compose.SheetOptions
}

func planSheet(cmd *cobra.Command) (*sheetPlan, error) {
	plan := &sheetPlan{
		opts: compose.SheetOptions{
			Tile:   sprite.Size{W: viper.GetInt("sheet.tile-width"), H: viper.GetInt("sheet.tile-height")},
			Sheet:  sprite.Size{W: viper.GetInt("sheet.sheet-width"), H: viper.GetInt("sheet.sheet-height")},
			Count:  viper.GetInt("sheet.count"),
			Output: viper.GetString("sheet.output"),
		},
	}
	changed := func(name string) bool { return cmd.Flags().Changed(name) }

	switch dir, manifest := viper.GetString("sheet.dir"), viper.GetString("sheet.manifest"); {
	case manifest != "":
		m, err := tileset.LoadManifest(manifest)
		if err != nil {
			return nil, err
		}
		plan.entries = m.Entries()
		if !changed("tile-width") && m.Tile.Width != 0 {
			plan.opts.Tile.W = m.Tile.Width
		}
		if !changed("tile-height") && m.Tile.Height != 0 {
			plan.opts.Tile.H = m.Tile.Height
		}
		if !changed("sheet-width") && m.Sheet.Width != 0 {
			plan.opts.Sheet.W = m.Sheet.Width
		}
		if !changed("sheet-height") && m.Sheet.Height != 0 {
			plan.opts.Sheet.H = m.Sheet.Height
		}
		if !changed("count") {
			plan.opts.Count = m.Count
		}
		if !changed("output") && m.Output != "" {
			plan.opts.Output = m.Output
		}
	case dir != "":
		entries, err := tileset.Enumerate(dir)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, errors.Errorf("no numbered images found in %s", dir)
		}
		plan.entries = entries
	default:
		return nil, errors.New("either --dir or --manifest is required")
	}

	if plan.opts.Count == 0 {
		plan.opts.Count = len(plan.entries)
	}
	if !plan.opts.Sheet.Valid() {
		return nil, &sprite.DimensionError{What: "sheet", Size: plan.opts.Sheet}
	}
	return plan, nil
}

func runSheet(cmd *cobra.Command, args []string) error {
	plan, err := planSheet(cmd)
	if err != nil {
		return err
	}
	if err := checkOutput(plan.opts.Output); err != nil {
		return err
	}

	logger := logging.FromContext(cmd.Context())
	logger.Debug("sheet plan", "tiles", len(plan.entries), "tile", plan.opts.Tile, "sheet", plan.opts.Sheet, "count", plan.opts.Count)

	result, err := compose.New(viper.GetInt("sheet.workers")).AssembleEntries(cmd.Context(), plan.entries, &plan.opts)
	if err != nil {
		return err
	}
	if err := sprite.WriteOutput(plan.opts.Output, result.ImageData); err != nil {
		return err
	}

	logger.Info("wrote sheet", "output", outputName(plan.opts.Output), "tiles", result.Tiles, "per_row", result.TilesPerRow)
	return nil
}
