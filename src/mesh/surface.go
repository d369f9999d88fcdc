// Package mesh assembles decoded glTF primitives into renderable surfaces.
package mesh

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"gonum.org/v1/gonum/spatial/r3"
)

type PrimitiveType int

const (
	PrimitiveTriangles PrimitiveType = iota
	PrimitiveTriangleFan
	PrimitiveLines
)

func (p PrimitiveType) String() string {
	switch p {
	case PrimitiveTriangles:
		return "triangles"
	case PrimitiveTriangleFan:
		return "triangle_fan"
	case PrimitiveLines:
		return "lines"
	default:
		return fmt.Sprintf("primitive(%d)", int(p))
	}
}

// PrimitiveTypeFor maps a glTF primitive mode onto a surface primitive.
// Points, line loops, line strips and triangle strips have no mapping.
func PrimitiveTypeFor(mode gltf.PrimitiveMode) (PrimitiveType, bool) {
	switch mode {
	case gltf.PrimitiveTriangles:
		return PrimitiveTriangles, true
	case gltf.PrimitiveTriangleFan:
		return PrimitiveTriangleFan, true
	case gltf.PrimitiveLines:
		return PrimitiveLines, true
	default:
		return 0, false
	}
}

func modeName(mode gltf.PrimitiveMode) string {
	switch mode {
	case gltf.PrimitiveTriangles:
		return "TRIANGLES"
	case gltf.PrimitivePoints:
		return "POINTS"
	case gltf.PrimitiveLines:
		return "LINES"
	case gltf.PrimitiveLineLoop:
		return "LINE_LOOP"
	case gltf.PrimitiveLineStrip:
		return "LINE_STRIP"
	case gltf.PrimitiveTriangleStrip:
		return "TRIANGLE_STRIP"
	case gltf.PrimitiveTriangleFan:
		return "TRIANGLE_FAN"
	default:
		return fmt.Sprintf("mode(%d)", int(mode))
	}
}

// Surface is one drawable piece of a mesh. Normals and UVs are either empty
// or exactly as long as Vertices. An empty Indices slice means the vertices
// are drawn in order.
type Surface struct {
	Primitive PrimitiveType
	Indices   []uint32
	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
}

func (s *Surface) HasNormals() bool {
	return len(s.Normals) > 0
}

func (s *Surface) HasUVs() bool {
	return len(s.UVs) > 0
}

// Bounds returns the axis-aligned box around the vertices, or the zero box
// when there are none.
func (s *Surface) Bounds() r3.Box {
	if len(s.Vertices) == 0 {
		return r3.Box{}
	}

	box := r3.Box{Min: point(s.Vertices[0]), Max: point(s.Vertices[0])}
	for _, v := range s.Vertices[1:] {
		box = extend(box, point(v))
	}

	return box
}

func point(v mgl32.Vec3) r3.Vec {
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

func extend(box r3.Box, p r3.Vec) r3.Box {
	return r3.Box{
		Min: r3.Vec{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y), Z: math.Min(box.Min.Z, p.Z)},
		Max: r3.Vec{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y), Z: math.Max(box.Max.Z, p.Z)},
	}
}

// Validate checks the stream length invariant and that every index
// addresses an existing vertex.
func (s *Surface) Validate() error {
	if s.HasNormals() && len(s.Normals) != len(s.Vertices) {
		return fmt.Errorf("%d normals for %d vertices", len(s.Normals), len(s.Vertices))
	}
	if s.HasUVs() && len(s.UVs) != len(s.Vertices) {
		return fmt.Errorf("%d uvs for %d vertices", len(s.UVs), len(s.Vertices))
	}
	for i, idx := range s.Indices {
		if int(idx) >= len(s.Vertices) {
			return fmt.Errorf("index %d at %d out of range for %d vertices", idx, i, len(s.Vertices))
		}
	}
	return nil
}

// ArrayMesh is an ordered list of surfaces built from one glTF mesh.
type ArrayMesh struct {
	Name     string
	Surfaces []Surface
}

func (m *ArrayMesh) SurfaceCount() int {
	return len(m.Surfaces)
}

// Bounds returns the union of all non-empty surface bounds.
func (m *ArrayMesh) Bounds() r3.Box {
	var (
		box   r3.Box
		found bool
	)
	for i := range m.Surfaces {
		if len(m.Surfaces[i].Vertices) == 0 {
			continue
		}
		b := m.Surfaces[i].Bounds()
		if !found {
			box, found = b, true
			continue
		}
		box = extend(extend(box, b.Min), b.Max)
	}
	return box
}
