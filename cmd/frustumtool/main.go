// frustumtool inspects the camera frustum described by a config file without
// opening a window.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/lidshade/internal/app"
	"github.com/Faultbox/lidshade/internal/config"
	"github.com/Faultbox/lidshade/internal/engine/camera"
	"github.com/Faultbox/lidshade/internal/logger"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "frustumtool",
	Short: "Inspect camera frustums, culling and light fields",
	Long: `frustumtool builds the camera from a lidshade config file and reports
what it sees: frustum corners, scene objects that survive culling, and the
point lights inside the view.

Examples:
  frustumtool corners
  frustumtool cull scene.glb --workers 4
  frustumtool lights --show 10
  frustumtool pick 640 360 scene.glb
  frustumtool config --write config.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if debug {
			level = "debug"
		}
		return logger.Init(level, "")
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(cornersCmd, cullCmd, lightsCmd, pickCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadCamera reads the config and builds its camera with the window's
// aspect ratio.
func loadCamera() (*config.Config, *camera.Camera, error) {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	aspect := float32(1)
	if cfg.Window.Height > 0 {
		aspect = float32(cfg.Window.Width) / float32(cfg.Window.Height)
	}
	cam, err := app.NewCamera(cfg.Camera, aspect)
	if err != nil {
		return nil, nil, fmt.Errorf("camera: %w", err)
	}
	return cfg, cam, nil
}
