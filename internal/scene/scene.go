// Package scene loads glTF scenes into world-space bounding boxes for
// culling.
package scene

import (
	"errors"

	"github.com/Faultbox/lidshade/pkg/geom"
	"github.com/Faultbox/lidshade/pkg/math"
)

// ErrNoGeometry is returned for documents without any positioned mesh.
var ErrNoGeometry = errors.New("scene has no geometry")

// Object is one mesh instance placed by a node.
type Object struct {
	Name string
	// Mesh is the glTF mesh index.
	Mesh int
	// Local is the mesh bounds in model space.
	Local geom.BoundingBox
	// World is the node's accumulated transform.
	World math.Mat4
	// Bounds is Local transformed by World.
	Bounds geom.BoundingBox
}

// Scene is a flat list of placed objects.
type Scene struct {
	Name    string
	Objects []Object
	Bounds  geom.BoundingBox
}

// Boxes returns the world bounds of every object, in object order.
func (s *Scene) Boxes() []geom.BoundingBox {
	out := make([]geom.BoundingBox, len(s.Objects))
	for i, o := range s.Objects {
		out[i] = o.Bounds
	}
	return out
}

func (s *Scene) add(o Object) {
	s.Objects = append(s.Objects, o)
	s.Bounds.Add(o.Bounds)
}
