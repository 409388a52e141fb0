package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Faultbox/lidshade/internal/engine/picking"
	"github.com/Faultbox/lidshade/internal/scene"
)

var pickCmd = &cobra.Command{
	Use:   "pick <x> <y> [scene.gltf|scene.glb]",
	Short: "Cast a ray through a window pixel and report what it hits",
	Long: `Cast a ray from the configured camera through pixel (x, y) of the
configured window size. Reports the nearest scene object hit and where the
ray meets the ground plane.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runPick,
}

func init() {
	pickCmd.Flags().Float32("ground", 0, "height of the ground plane")
}

func runPick(cmd *cobra.Command, args []string) error {
	cfg, cam, err := loadCamera()
	if err != nil {
		return err
	}
	x, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return fmt.Errorf("y: %w", err)
	}

	ray := picking.FromCamera(cam, float32(x), float32(y), float32(cfg.Window.Width), float32(cfg.Window.Height))
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ray %s -> %s\n", vec(ray.Origin), vec(ray.Direction))

	ground, _ := cmd.Flags().GetFloat32("ground")
	if gx, gz, ok := ray.IntersectPlaneY(ground); ok {
		fmt.Fprintf(out, "ground (%.3f, %.3f, %.3f)\n", gx, ground, gz)
	} else {
		fmt.Fprintln(out, "ground missed")
	}

	path := cfg.Scene.Path
	if len(args) > 2 {
		path = args[2]
	}
	if path == "" {
		return nil
	}
	s, err := scene.Load(path)
	if err != nil {
		return err
	}
	i, t := picking.Pick(ray, s.Boxes())
	if i < 0 {
		fmt.Fprintln(out, "no object hit")
		return nil
	}
	fmt.Fprintf(out, "hit %q at %s (t=%.3f)\n", s.Objects[i].Name, vec(ray.At(t)), t)
	return nil
}
