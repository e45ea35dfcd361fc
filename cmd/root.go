package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/spritepad/internal/logging"
)

// version is overridden at build time with -ldflags "-X ...cmd.version=..."
var version = "0.1.0"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "spritepad",
	Short:   "Pad sprites onto fixed-size canvases and pack them into sprite sheets",
	Version: version,
	Long: `spritepad places sprites on fixed-size transparent canvases and packs
fixed-size tiles into row-major sprite sheets.

Images may be PNG, JPEG, GIF, BMP, TIFF or WebP. Output keeps the alpha
channel and is written as PNG unless the output name says otherwise.

Examples:
  # Center a 10x12 sprite on a 32x32 canvas
  spritepad place apple.png --width 32 --height 32 -o new_apple.png

  # Scale to fit, then center
  spritepad place apple.png --scale fit -o apple_scaled.png

  # Right-align, shrinking only if wider than the canvas
  spritepad place apple.png --align right --scale fit-width -o expanded_right_32x32.png

  # Pack frames walk_0.png .. walk_34.png into a 5x7 sheet
  spritepad sheet --dir frames --tile-width 32 --tile-height 32 --sheet-width 160 --sheet-height 224 --count 35 -o walk.png

  # Pack tiles listed in a manifest
  spritepad sheet --manifest walk.toml

  # Start HTTP server
  spritepad serve --port 8080`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := logging.New(os.Stderr, logging.Level(viper.GetBool("verbose")))
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.spritepad.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".spritepad" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".spritepad")
	}

	// SPRITEPAD_PLACE_WIDTH overrides place.width, and so on.
	viper.SetEnvPrefix("spritepad")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Only a config file named with --config has to exist and parse.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			cobra.CheckErr(err)
		}
	}
}
