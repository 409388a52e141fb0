package scene

import (
	"encoding/binary"
	"errors"
	gomath "math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

func index(i int) *int { return &i }

func cubePoints() [][3]float32 {
	var pts [][3]float32
	for _, x := range []float32{-1, 1} {
		for _, y := range []float32{-1, 1} {
			for _, z := range []float32{-1, 1} {
				pts = append(pts, [3]float32{x, y, z})
			}
		}
	}
	return pts
}

func positionsBuffer(pts [][3]float32) []byte {
	data := make([]byte, 0, len(pts)*12)
	for _, p := range pts {
		for _, f := range p {
			data = binary.LittleEndian.AppendUint32(data, gomath.Float32bits(f))
		}
	}
	return data
}

// testDoc places a 2x2x2 cube twice: scaled under a translated parent, and
// yawed 90 degrees on its own.
func testDoc(withMinMax bool) *gltf.Document {
	pts := cubePoints()
	data := positionsBuffer(pts)
	acc := &gltf.Accessor{
		BufferView:    index(0),
		ComponentType: gltf.ComponentFloat,
		Count:         len(pts),
		Type:          gltf.AccessorVec3,
	}
	if withMinMax {
		acc.Min = []float64{-1, -1, -1}
		acc.Max = []float64{1, 1, 1}
	}
	s := float64(gomath.Sqrt2 / 2)
	return &gltf.Document{
		Buffers:     []*gltf.Buffer{{ByteLength: len(data), Data: data}},
		BufferViews: []*gltf.BufferView{{Buffer: 0, ByteLength: len(data)}},
		Accessors:   []*gltf.Accessor{acc},
		Meshes: []*gltf.Mesh{{
			Name:       "cube",
			Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: 0}}},
		}},
		Nodes: []*gltf.Node{
			{Name: "root", Translation: [3]float64{10, 0, 0}, Rotation: [4]float64{0, 0, 0, 1}, Scale: [3]float64{1, 1, 1}, Children: []int{1}},
			{Name: "child", Mesh: index(0), Translation: [3]float64{0, 0, 5}, Rotation: [4]float64{0, 0, 0, 1}, Scale: [3]float64{2, 2, 2}},
			{Name: "yawed", Mesh: index(0), Translation: [3]float64{0, 0, -20}, Rotation: [4]float64{0, s, 0, s}, Scale: [3]float64{1, 1, 1}},
		},
		Scenes: []*gltf.Scene{{Nodes: []int{0, 2}}},
	}
}

func assertBox(t *testing.T, want, got geom.BoundingBox) {
	t.Helper()
	assert.True(t, want.Min.ApproxEqual(got.Min, 1e-5), "min: want %v, got %v", want.Min, got.Min)
	assert.True(t, want.Max.ApproxEqual(got.Max, 1e-5), "max: want %v, got %v", want.Max, got.Max)
}

var (
	childBox = geom.NewBox(math.Vec3{X: 8, Y: -2, Z: 3}, math.Vec3{X: 12, Y: 2, Z: 7})
	yawedBox = geom.NewBox(math.Vec3{X: -1, Y: -1, Z: -21}, math.Vec3{X: 1, Y: 1, Z: -19})
)

func TestFromDocument(t *testing.T) {
	for _, minMax := range []bool{true, false} {
		s, err := FromDocument("test", testDoc(minMax))
		require.NoError(t, err)
		require.Len(t, s.Objects, 2)

		assert.Equal(t, "child", s.Objects[0].Name)
		assert.Equal(t, 0, s.Objects[0].Mesh)
		assertBox(t, geom.NewBox(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1}), s.Objects[0].Local)
		assertBox(t, childBox, s.Objects[0].Bounds)
		assertBox(t, yawedBox, s.Objects[1].Bounds)
		assertBox(t, geom.NewBox(math.Vec3{X: -1, Y: -2, Z: -21}, math.Vec3{X: 12, Y: 2, Z: 7}), s.Bounds)

		boxes := s.Boxes()
		require.Len(t, boxes, 2)
		assert.Equal(t, s.Objects[1].Bounds, boxes[1])
	}
}

func TestFromDocumentRoots(t *testing.T) {
	doc := testDoc(true)
	doc.Scenes = nil
	s, err := FromDocument("roots", doc)
	require.NoError(t, err)
	assert.Len(t, s.Objects, 2)

	doc = testDoc(true)
	doc.Scenes = append(doc.Scenes, &gltf.Scene{Nodes: []int{2}})
	doc.Scene = index(1)
	s, err = FromDocument("second", doc)
	require.NoError(t, err)
	require.Len(t, s.Objects, 1)
	assert.Equal(t, "yawed", s.Objects[0].Name)
}

func TestNodeMatrixWins(t *testing.T) {
	doc := testDoc(true)
	doc.Nodes[2].Matrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 100, 0, 0, 1}
	s, err := FromDocument("matrix", doc)
	require.NoError(t, err)
	assertBox(t, geom.NewBox(math.Vec3{X: 99, Y: -1, Z: -1}, math.Vec3{X: 101, Y: 1, Z: 1}), s.Objects[1].Bounds)
}

func TestFromDocumentErrors(t *testing.T) {
	doc := testDoc(true)
	doc.Meshes = nil
	for _, n := range doc.Nodes {
		n.Mesh = nil
	}
	_, err := FromDocument("empty", doc)
	assert.True(t, errors.Is(err, ErrNoGeometry))

	doc = testDoc(false)
	doc.Accessors[0].Count = 100
	_, err = FromDocument("overrun", doc)
	assert.ErrorContains(t, err, "overruns buffer")

	doc = testDoc(true)
	doc.Accessors[0].Type = gltf.AccessorVec2
	_, err = FromDocument("vec2", doc)
	assert.ErrorContains(t, err, "expected VEC3")

	doc = testDoc(true)
	doc.Scenes[0].Nodes = []int{7}
	_, err = FromDocument("dangling", doc)
	assert.ErrorContains(t, err, "out of range")
}

func TestLoadGLB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubes.glb")
	require.NoError(t, gltf.SaveBinary(testDoc(false), path))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cubes.glb", s.Name)
	require.Len(t, s.Objects, 2)
	assertBox(t, childBox, s.Objects[0].Bounds)
	assertBox(t, yawedBox, s.Objects[1].Bounds)

	_, err = Load(filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)
}

func TestLibrary(t *testing.T) {
	_, err := NewLibrary(0)
	assert.Error(t, err)

	lib, err := NewLibrary(2)
	require.NoError(t, err)
	loads := map[string]int{}
	lib.load = func(path string) (*Scene, error) {
		loads[path]++
		if path == "bad" {
			return nil, ErrNoGeometry
		}
		return &Scene{Name: path, Bounds: geom.EmptyBox()}, nil
	}

	a1, err := lib.Get("a")
	require.NoError(t, err)
	a2, err := lib.Get("a")
	require.NoError(t, err)
	assert.Same(t, a1, a2)
	assert.Equal(t, 1, loads["a"])

	_, err = lib.Get("b")
	require.NoError(t, err)
	_, err = lib.Get("c")
	require.NoError(t, err)
	assert.Equal(t, 2, lib.Len())

	// "a" was least recently used and got evicted.
	_, err = lib.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 2, loads["a"])

	_, err = lib.Get("bad")
	assert.True(t, errors.Is(err, ErrNoGeometry))
	assert.Equal(t, 2, lib.Len())

	lib.Purge()
	assert.Equal(t, 0, lib.Len())
}
