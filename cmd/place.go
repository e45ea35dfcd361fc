package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/spritepad/internal/compose"
	"github.com/kiesman99/spritepad/internal/logging"
	"github.com/kiesman99/spritepad/pkg/sprite"
)

var placeCmd = &cobra.Command{
	Use:   "place <image>",
	Short: "Place one sprite on a fixed-size transparent canvas",
	Long: `Place a sprite on a transparent canvas of fixed size.

The sprite is vertically centered. Horizontally it is centered, flush left
or flush right depending on --align. With --scale fit it is first resized,
keeping its aspect ratio, to the largest size that fits the canvas; with
--scale fit-width it is shrunk only if wider than the canvas. Unscaled
sprites larger than the canvas are clipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlace,
}

func init() {
	rootCmd.AddCommand(placeCmd)

	placeCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	placeCmd.Flags().Int("width", 32, "canvas width in pixels")
	placeCmd.Flags().Int("height", 32, "canvas height in pixels")
	placeCmd.Flags().StringP("align", "a", "center", "horizontal alignment (center|left|right)")
	placeCmd.Flags().StringP("scale", "s", "none", "scale mode (none|fit|fit-width)")

	viper.BindPFlag("place.output", placeCmd.Flags().Lookup("output"))
	viper.BindPFlag("place.width", placeCmd.Flags().Lookup("width"))
	viper.BindPFlag("place.height", placeCmd.Flags().Lookup("height"))
	viper.BindPFlag("place.align", placeCmd.Flags().Lookup("align"))
	viper.BindPFlag("place.scale", placeCmd.Flags().Lookup("scale"))
}

// placeOptionsFromConfig builds place options from flags, environment and config file
func placeOptionsFromConfig() (*compose.PlaceOptions, error) {
	align, err := sprite.ParseAlignment(viper.GetString("place.align"))
	if err != nil {
		return nil, err
	}
	scale, err := sprite.ParseScaleMode(viper.GetString("place.scale"))
	if err != nil {
		return nil, err
	}

	opts := &compose.PlaceOptions{
		Canvas: sprite.Size{W: viper.GetInt("place.width"), H: viper.GetInt("place.height")},
		Align:  align,
		Scale:  scale,
		Output: viper.GetString("place.output"),
	}
	if !opts.Canvas.Valid() {
		return nil, &sprite.DimensionError{What: "canvas", Size: opts.Canvas}
	}
	return opts, nil
}

func runPlace(cmd *cobra.Command, args []string) error {
	opts, err := placeOptionsFromConfig()
	if err != nil {
		return err
	}
	if err := checkOutput(opts.Output); err != nil {
		return err
	}

	result, err := compose.New(1).PlaceFile(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}
	if err := sprite.WriteOutput(opts.Output, result.ImageData); err != nil {
		return err
	}

	logging.FromContext(cmd.Context()).Info("wrote image",
		"output", outputName(opts.Output), "from", result.Source, "to", result.Scaled, "canvas", opts.Canvas)
	return nil
}

// checkOutput refuses to dump binary image data onto a terminal
func checkOutput(output string) error {
	if output != "" {
		return nil
	}
	if stat, err := os.Stdout.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
		return errors.New("didn't specify output file and standard output is a terminal")
	}
	return nil
}

func outputName(output string) string {
	if output == "" {
		return "stdout"
	}
	return output
}
