package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	enginedebug "github.com/Faultbox/lidshade/internal/engine/debug"
	"github.com/Faultbox/lidshade/pkg/frustum"
	"github.com/Faultbox/lidshade/pkg/math"
)

// Indexed the way Frustum.CalculatePoints orders corners.
var cornerNames = [8]string{
	"far top left", "near top left", "far bottom left", "near bottom left",
	"far top right", "near top right", "far bottom right", "near bottom right",
}

var cornersCmd = &cobra.Command{
	Use:   "corners",
	Short: "Print the frustum planes and corner points",
	Args:  cobra.NoArgs,
	RunE:  runCorners,
}

func init() {
	cornersCmd.Flags().String("obj", "", "also write the frustum wireframe to this OBJ file")
}

func runCorners(cmd *cobra.Command, args []string) error {
	_, cam, err := loadCamera()
	if err != nil {
		return err
	}
	f := cam.Frustum()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "eye %s  dir %s  (%s, %s)\n", vec(cam.Position()), vec(cam.Direction()), cam.Mode(), cam.Handedness())
	for i := range frustum.PlaneIndex(frustum.PlaneCount) {
		p := f.Plane(i)
		fmt.Fprintf(out, "%-6s n=%s d=%.4f\n", i, vec(p.Normal), p.Dist)
	}

	points, ok := f.CalculatePoints()
	if !ok {
		return errors.New("frustum planes do not meet in corner points")
	}
	for i, p := range points {
		fmt.Fprintf(out, "%-18s %s\n", cornerNames[i], vec(p))
	}
	b := f.Bounds()
	fmt.Fprintf(out, "bounds %s - %s\n", vec(b.Min), vec(b.Max))

	if path, _ := cmd.Flags().GetString("obj"); path != "" {
		return writeWireframe(path, f)
	}
	return nil
}

func writeWireframe(path string, f *frustum.Frustum) error {
	lines, ok := enginedebug.FrustumLines(f)
	if !ok {
		return errors.New("frustum planes do not meet in corner points")
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := enginedebug.WriteOBJ(file, lines); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

func vec(v math.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}
