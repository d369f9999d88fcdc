package model

import (
	"testing"
	"unsafe"

	"github.com/WowVeryLogin/gltf2mesh/src/mesh"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/goki/vulkan"
)

func TestTopology(t *testing.T) {
	tests := map[mesh.PrimitiveType]vulkan.PrimitiveTopology{
		mesh.PrimitiveTriangles:   vulkan.PrimitiveTopologyTriangleList,
		mesh.PrimitiveTriangleFan: vulkan.PrimitiveTopologyTriangleFan,
		mesh.PrimitiveLines:       vulkan.PrimitiveTopologyLineList,
	}
	for p, want := range tests {
		if got := Topology(p); got != want {
			t.Errorf("%s: expected topology %v, got %v", p, want, got)
		}
	}
}

func TestPipelineVertexInputState(t *testing.T) {
	state := PipelineVertexInputState()

	if state.VertexBindingDescriptionCount != 1 || len(state.PVertexBindingDescriptions) != 1 {
		t.Fatalf("expected one binding, got %d", state.VertexBindingDescriptionCount)
	}
	if got, want := state.PVertexBindingDescriptions[0].Stride, uint32(unsafe.Sizeof(Vertex{})); got != want {
		t.Errorf("expected stride %d, got %d", want, got)
	}

	want := []struct {
		format vulkan.Format
		offset uintptr
	}{
		{vulkan.FormatR32g32b32Sfloat, unsafe.Offsetof(Vertex{}.Position)},
		{vulkan.FormatR32g32b32Sfloat, unsafe.Offsetof(Vertex{}.Normal)},
		{vulkan.FormatR32g32Sfloat, unsafe.Offsetof(Vertex{}.UV)},
		{vulkan.FormatR32g32b32Sfloat, unsafe.Offsetof(Vertex{}.Color)},
	}
	if int(state.VertexAttributeDescriptionCount) != len(want) || len(state.PVertexAttributeDescriptions) != len(want) {
		t.Fatalf("expected %d attributes, got %d", len(want), state.VertexAttributeDescriptionCount)
	}
	for i, w := range want {
		a := state.PVertexAttributeDescriptions[i]
		if a.Location != uint32(i) || a.Binding != 0 || a.Format != w.format || a.Offset != uint32(w.offset) {
			t.Errorf("attribute %d: expected location %d format %v offset %d, got %+v", i, i, w.format, w.offset, a)
		}
	}
}

func TestNew_Interleaves(t *testing.T) {
	m := &mesh.ArrayMesh{
		Name: "tri",
		Surfaces: []mesh.Surface{
			{
				Primitive: mesh.PrimitiveTriangles,
				Indices:   []uint32{0, 1, 2},
				Vertices:  []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
				Normals:   []mgl32.Vec3{{0, 0, -1}, {0, 0, -1}, {0, 0, -1}},
				UVs:       []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}},
			},
			{
				Primitive: mesh.PrimitiveLines,
				Vertices:  []mgl32.Vec3{{0, 0, 0}, {0, 0, 1}},
			},
		},
	}

	model := New(m)

	if model.Name != "tri" || len(model.Surfaces) != 2 {
		t.Fatalf("unexpected model %+v", model)
	}

	s := model.Surfaces[0]
	if s.Vertices[1].Position != [3]float32{1, 0, 0} {
		t.Errorf("expected position (1, 0, 0), got %v", s.Vertices[1].Position)
	}
	if s.Vertices[1].Normal != [3]float32{0, 0, -1} {
		t.Errorf("expected normal (0, 0, -1), got %v", s.Vertices[1].Normal)
	}
	if s.Vertices[2].UV != [2]float32{0, 1} {
		t.Errorf("expected uv (0, 1), got %v", s.Vertices[2].UV)
	}
	if s.Vertices[0].Color != [3]float32{1, 1, 1} {
		t.Errorf("expected white vertex color, got %v", s.Vertices[0].Color)
	}
	if !s.HasIndexes() || s.IndexBufferSize() != 12 || s.DrawCount() != 3 {
		t.Errorf("expected 3 indices in 12 bytes, got %d in %d", s.DrawCount(), s.IndexBufferSize())
	}
	if want := vulkan.DeviceSize(3 * unsafe.Sizeof(Vertex{})); s.VertexBufferSize() != want {
		t.Errorf("expected %d vertex bytes, got %d", want, s.VertexBufferSize())
	}

	lines := model.Surfaces[1]
	if lines.Topology != vulkan.PrimitiveTopologyLineList || lines.HasIndexes() || lines.DrawCount() != 2 {
		t.Errorf("unexpected line surface %+v", lines)
	}
	if lines.Vertices[1].Normal != [3]float32{} {
		t.Errorf("expected default normal, got %v", lines.Vertices[1].Normal)
	}
	if got := lines.InputAssemblyState().Topology; got != vulkan.PrimitiveTopologyLineList {
		t.Errorf("expected line list input assembly, got %v", got)
	}
}

func TestNew_MismatchedStreamsKeepDefaults(t *testing.T) {
	m := &mesh.ArrayMesh{Surfaces: []mesh.Surface{{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:  []mgl32.Vec3{{0, 0, 1}},
		UVs:      []mgl32.Vec2{{1, 1}, {1, 1}},
	}}}

	s := New(m).Surfaces[0]

	if len(s.Vertices) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(s.Vertices))
	}
	for i, v := range s.Vertices {
		if v.Normal != [3]float32{} || v.UV != [2]float32{} {
			t.Errorf("vertex %d: expected default normal and uv, got %+v", i, v)
		}
	}
}
