// Package debug provides debug visualization utilities.
package debug

import (
	"bufio"
	"fmt"
	"io"
	"math/bits"

	"github.com/Faultbox/lidshade/pkg/frustum"
	"github.com/Faultbox/lidshade/pkg/geom"
)

// LineVertexCount is the number of vertices in a box or frustum wireframe
// (12 edges × 2).
const LineVertexCount = 24

// BoxLines creates line vertices for a wireframe bounding box grown by
// padding on all sides. Format: [x, y, z] per vertex. Empty boxes yield nil.
func BoxLines(b geom.BoundingBox, padding float32) []float32 {
	if b.IsEmpty() {
		return nil
	}
	minX, minY, minZ := b.Min.X-padding, b.Min.Y-padding, b.Min.Z-padding
	maxX, maxY, maxZ := b.Max.X+padding, b.Max.Y+padding, b.Max.Z+padding

	return []float32{
		// Bottom face
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// FrustumLines creates line vertices for the edges of f. ok is false when
// the corners cannot be solved.
func FrustumLines(f *frustum.Frustum) (lines []float32, ok bool) {
	pts, ok := f.CalculatePoints()
	if !ok {
		return nil, false
	}
	// Corners are bit-indexed by side, so edges join indices one bit apart.
	lines = make([]float32, 0, LineVertexCount*3)
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			if bits.OnesCount(uint(i^j)) != 1 {
				continue
			}
			a, b := pts[i], pts[j]
			lines = append(lines, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
		}
	}
	return lines, true
}

// WriteOBJ writes line vertices as a Wavefront OBJ line set.
func WriteOBJ(w io.Writer, lines []float32) error {
	bw := bufio.NewWriter(w)
	n := len(lines) / 3
	for i := range n {
		fmt.Fprintf(bw, "v %g %g %g\n", lines[i*3], lines[i*3+1], lines[i*3+2])
	}
	for i := 1; i < n; i += 2 {
		fmt.Fprintf(bw, "l %d %d\n", i, i+1)
	}
	return bw.Flush()
}
