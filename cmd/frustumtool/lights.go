package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/lidshade/internal/app"
	"github.com/Faultbox/lidshade/internal/engine/culling"
	"github.com/Faultbox/lidshade/internal/engine/lighting"
)

var lightsCmd = &cobra.Command{
	Use:   "lights",
	Short: "Scatter the configured light field and cull it against the camera",
	Args:  cobra.NoArgs,
	RunE:  runLights,
}

func init() {
	lightsCmd.Flags().Int("steps", 0, "animation steps to run before culling")
	lightsCmd.Flags().Int("show", 0, "print this many visible lights with their depth bounds")
}

func runLights(cmd *cobra.Command, args []string) error {
	cfg, cam, err := loadCamera()
	if err != nil {
		return err
	}
	field, err := app.NewLightField(cfg.Lighting)
	if err != nil {
		return err
	}

	steps, _ := cmd.Flags().GetInt("steps")
	for range steps {
		field.Animate(lighting.AnimationStep)
	}

	visible, err := culling.CullSpheres(context.Background(), cam.Frustum(), field.Spheres(), cfg.Culling.Workers)
	if err != nil {
		return err
	}
	buf := lighting.NewPointLightBuffer()
	field.Upload(cam.ViewMatrix(), visible, buf)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d lights, %d visible, %d uploaded, %d dropped\n",
		field.Len(), len(visible), buf.Count(), buf.Dropped)

	show, _ := cmd.Flags().GetInt("show")
	lights := field.Lights()
	for _, i := range visible[:min(max(show, 0), len(visible))] {
		l := lights[i]
		near, far := lighting.DepthBounds(cam.ViewMatrix(), cam.ProjectionMatrix(), l.Sphere())
		fmt.Fprintf(out, "#%-4d %s r=%.2f depth [%.5f, %.5f]\n", i, vec(l.Position), l.Range, near, far)
	}
	return nil
}
