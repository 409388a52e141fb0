package scene

import (
	"encoding/binary"
	"fmt"
	gomath "math"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

// Load opens a .gltf or .glb file and flattens its default scene.
func Load(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return FromDocument(filepath.Base(path), doc)
}

// FromDocument flattens the default scene of doc, or the first scene when
// none is marked default, or every root node when the document has no
// scenes.
func FromDocument(name string, doc *gltf.Document) (*Scene, error) {
	l := loader{doc: doc, meshes: make(map[int]geom.BoundingBox)}
	s := &Scene{Name: name, Bounds: geom.EmptyBox()}

	for _, n := range l.roots() {
		if err := l.visit(s, n, math.Identity(), 0); err != nil {
			return nil, err
		}
	}
	if len(s.Objects) == 0 {
		return nil, ErrNoGeometry
	}
	return s, nil
}

// maxDepth guards against cyclic node graphs.
const maxDepth = 64

type loader struct {
	doc    *gltf.Document
	meshes map[int]geom.BoundingBox
}

func (l *loader) roots() []int {
	doc := l.doc
	if len(doc.Scenes) > 0 {
		i := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			i = *doc.Scene
		}
		return doc.Scenes[i].Nodes
	}

	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c < len(child) {
				child[c] = true
			}
		}
	}
	var roots []int
	for i, isChild := range child {
		if !isChild {
			roots = append(roots, i)
		}
	}
	return roots
}

func (l *loader) visit(s *Scene, idx int, parent math.Mat4, depth int) error {
	if idx < 0 || idx >= len(l.doc.Nodes) {
		return fmt.Errorf("node %d out of range", idx)
	}
	if depth > maxDepth {
		return fmt.Errorf("node %d: hierarchy deeper than %d", idx, maxDepth)
	}
	node := l.doc.Nodes[idx]
	world := parent.Mul(nodeMatrix(node))

	if node.Mesh != nil {
		local, err := l.meshBounds(*node.Mesh)
		if err != nil {
			return fmt.Errorf("node %q: %w", node.Name, err)
		}
		if !local.IsEmpty() {
			s.add(Object{
				Name:   node.Name,
				Mesh:   *node.Mesh,
				Local:  local,
				World:  world,
				Bounds: local.Transform(world),
			})
		}
	}
	for _, c := range node.Children {
		if err := l.visit(s, c, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// nodeMatrix returns the node's local transform. Zero-valued TRS fields,
// as left by documents built in code, read as their glTF defaults.
func nodeMatrix(n *gltf.Node) math.Mat4 {
	if n.Matrix != [16]float64{} && n.Matrix != identity64 {
		var m math.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m
	}

	t := n.Translation
	r := n.Rotation
	sc := n.Scale
	if sc == [3]float64{} {
		sc = [3]float64{1, 1, 1}
	}
	q := math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}
	if r == [4]float64{} {
		q = math.QuatIdentity()
	}
	return math.Translate(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul(q.Normalize().ToMat4()).
		Mul(math.Scale(float32(sc[0]), float32(sc[1]), float32(sc[2])))
}

var identity64 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// meshBounds unions the POSITION bounds of every triangle primitive.
func (l *loader) meshBounds(idx int) (geom.BoundingBox, error) {
	if b, ok := l.meshes[idx]; ok {
		return b, nil
	}
	if idx < 0 || idx >= len(l.doc.Meshes) {
		return geom.BoundingBox{}, fmt.Errorf("mesh %d out of range", idx)
	}
	m := l.doc.Meshes[idx]

	box := geom.EmptyBox()
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		b, err := l.accessorBounds(posIdx)
		if err != nil {
			return geom.BoundingBox{}, fmt.Errorf("mesh %q: read positions: %w", m.Name, err)
		}
		box.Add(b)
	}
	l.meshes[idx] = box
	return box, nil
}

// accessorBounds prefers the accessor's declared min/max and reads the
// positions only when those are missing.
func (l *loader) accessorBounds(idx int) (geom.BoundingBox, error) {
	if idx < 0 || idx >= len(l.doc.Accessors) {
		return geom.BoundingBox{}, fmt.Errorf("accessor %d out of range", idx)
	}
	acc := l.doc.Accessors[idx]
	if acc.Type != gltf.AccessorVec3 {
		return geom.BoundingBox{}, fmt.Errorf("expected VEC3, got %v", acc.Type)
	}
	if len(acc.Min) == 3 && len(acc.Max) == 3 {
		return geom.NewBox(
			math.Vec3{X: float32(acc.Min[0]), Y: float32(acc.Min[1]), Z: float32(acc.Min[2])},
			math.Vec3{X: float32(acc.Max[0]), Y: float32(acc.Max[1]), Z: float32(acc.Max[2])},
		), nil
	}

	positions, err := readVec3(l.doc, acc)
	if err != nil {
		return geom.BoundingBox{}, err
	}
	return geom.BoxFromPoints(positions...), nil
}

// readVec3 reads float VEC3 data from an embedded buffer.
func readVec3(doc *gltf.Document, acc *gltf.Accessor) ([]math.Vec3, error) {
	if acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported position component type %v", acc.ComponentType)
	}
	if acc.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}
	if *acc.BufferView >= len(doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", *acc.BufferView)
	}
	view := doc.BufferViews[*acc.BufferView]
	if view.Buffer >= len(doc.Buffers) {
		return nil, fmt.Errorf("buffer %d out of range", view.Buffer)
	}
	data := doc.Buffers[view.Buffer].Data
	if data == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := view.ByteOffset + acc.ByteOffset
	stride := view.ByteStride
	if stride == 0 {
		stride = 12 // 3 floats * 4 bytes
	}
	if acc.Count > 0 && start+(acc.Count-1)*stride+12 > len(data) {
		return nil, fmt.Errorf("accessor overruns buffer (%d bytes)", len(data))
	}

	out := make([]math.Vec3, acc.Count)
	for i := range out {
		off := start + i*stride
		out[i] = math.Vec3{
			X: readFloat32(data[off:]),
			Y: readFloat32(data[off+4:]),
			Z: readFloat32(data[off+8:]),
		}
	}
	return out, nil
}

func readFloat32(b []byte) float32 {
	return gomath.Float32frombits(binary.LittleEndian.Uint32(b))
}
