package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Faultbox/lidshade/internal/engine/culling"
	"github.com/Faultbox/lidshade/internal/scene"
)

var cullCmd = &cobra.Command{
	Use:   "cull [scene.gltf|scene.glb]",
	Short: "Cull a glTF scene's node bounds against the configured camera",
	Long: `Load a glTF scene, place the configured camera and classify every mesh
node's world bounds. Without an argument the config's scene.path is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCull,
}

func init() {
	cullCmd.Flags().Int("workers", 0, "culling goroutines (0 uses culling.workers from the config)")
	cullCmd.Flags().BoolP("verbose", "v", false, "list every object with its classification")
}

func runCull(cmd *cobra.Command, args []string) error {
	cfg, cam, err := loadCamera()
	if err != nil {
		return err
	}
	path := cfg.Scene.Path
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no scene given and scene.path is empty")
	}

	s, err := scene.Load(path)
	if err != nil {
		return err
	}

	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = cfg.Culling.Workers
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	start := time.Now()
	res, err := culling.Cull(context.Background(), cam.Frustum(), s.Boxes(), workers)
	if err != nil {
		return err
	}
	took := time.Since(start)

	out := cmd.OutOrStdout()
	if verbose {
		state := make([]string, len(s.Objects))
		for i := range state {
			state[i] = "outside"
		}
		for _, i := range res.Visible {
			state[i] = "inside"
		}
		for _, i := range res.Intersecting {
			state[i] = "intersecting"
		}
		for i, o := range s.Objects {
			fmt.Fprintf(out, "%-12s %-24s %s - %s\n", state[i], o.Name, vec(o.Bounds.Min), vec(o.Bounds.Max))
		}
	}
	fmt.Fprintf(out, "%s: %d objects, %d visible (%d intersecting), %d rejected in %s\n",
		s.Name, len(s.Objects), len(res.Visible), len(res.Intersecting), res.Rejected, took)
	return nil
}
