// Package model lays imported surfaces out for a Vulkan vertex pipeline.
package model

import (
	"unsafe"

	"github.com/WowVeryLogin/gltf2mesh/src/mesh"
	"github.com/goki/vulkan"
)

type Model struct {
	Name     string
	Surfaces []Surface
}

type Surface struct {
	Topology vulkan.PrimitiveTopology
	Vertices []Vertex
	Indices  []uint32
}

// Vertex is one interleaved element of the vertex buffer. Locations follow
// field order.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
	Color    [3]float32
}

var white = [3]float32{1, 1, 1}

var VertexBindingDescription = []vulkan.VertexInputBindingDescription{
	{
		Binding:   0,
		Stride:    uint32(unsafe.Sizeof(Vertex{})),
		InputRate: vulkan.VertexInputRateVertex,
	},
}

var VertexAttributeDescription = attributes([]attribute{
	{vulkan.FormatR32g32b32Sfloat, unsafe.Offsetof(Vertex{}.Position)},
	{vulkan.FormatR32g32b32Sfloat, unsafe.Offsetof(Vertex{}.Normal)},
	{vulkan.FormatR32g32Sfloat, unsafe.Offsetof(Vertex{}.UV)},
	{vulkan.FormatR32g32b32Sfloat, unsafe.Offsetof(Vertex{}.Color)},
})

type attribute struct {
	format vulkan.Format
	offset uintptr
}

func attributes(attrs []attribute) []vulkan.VertexInputAttributeDescription {
	out := make([]vulkan.VertexInputAttributeDescription, len(attrs))
	for i, a := range attrs {
		out[i] = vulkan.VertexInputAttributeDescription{
			Binding:  0,
			Location: uint32(i),
			Format:   a.format,
			Offset:   uint32(a.offset),
		}
	}
	return out
}

// PipelineVertexInputState describes the Vertex layout to a graphics pipeline.
func PipelineVertexInputState() vulkan.PipelineVertexInputStateCreateInfo {
	return vulkan.PipelineVertexInputStateCreateInfo{
		SType:                           vulkan.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(VertexBindingDescription)),
		PVertexBindingDescriptions:      VertexBindingDescription,
		VertexAttributeDescriptionCount: uint32(len(VertexAttributeDescription)),
		PVertexAttributeDescriptions:    VertexAttributeDescription,
	}
}

func Topology(p mesh.PrimitiveType) vulkan.PrimitiveTopology {
	switch p {
	case mesh.PrimitiveTriangleFan:
		return vulkan.PrimitiveTopologyTriangleFan
	case mesh.PrimitiveLines:
		return vulkan.PrimitiveTopologyLineList
	default:
		return vulkan.PrimitiveTopologyTriangleList
	}
}

// New interleaves every surface of m into the Vertex layout.
func New(m *mesh.ArrayMesh) *Model {
	out := &Model{
		Name:     m.Name,
		Surfaces: make([]Surface, 0, len(m.Surfaces)),
	}
	for i := range m.Surfaces {
		out.Surfaces = append(out.Surfaces, newSurface(&m.Surfaces[i]))
	}
	return out
}

func newSurface(s *mesh.Surface) Surface {
	// streams that disagree with the vertex count are left at their defaults
	withNormals := len(s.Normals) == len(s.Vertices)
	withUVs := len(s.UVs) == len(s.Vertices)

	vertices := make([]Vertex, len(s.Vertices))
	for i, p := range s.Vertices {
		vertices[i] = Vertex{Position: p, Color: white}
		if withNormals {
			vertices[i].Normal = s.Normals[i]
		}
		if withUVs {
			vertices[i].UV = s.UVs[i]
		}
	}

	return Surface{
		Topology: Topology(s.Primitive),
		Vertices: vertices,
		Indices:  append([]uint32(nil), s.Indices...),
	}
}

func (s *Surface) VertexBufferSize() vulkan.DeviceSize {
	return vulkan.DeviceSize(len(s.Vertices) * int(unsafe.Sizeof(Vertex{})))
}

func (s *Surface) IndexBufferSize() vulkan.DeviceSize {
	return vulkan.DeviceSize(len(s.Indices) * int(unsafe.Sizeof(uint32(0))))
}

func (s *Surface) HasIndexes() bool {
	return len(s.Indices) > 0
}

// DrawCount is the index count for indexed surfaces, otherwise the vertex count.
func (s *Surface) DrawCount() uint32 {
	if s.HasIndexes() {
		return uint32(len(s.Indices))
	}
	return uint32(len(s.Vertices))
}

func (s *Surface) InputAssemblyState() vulkan.PipelineInputAssemblyStateCreateInfo {
	return vulkan.PipelineInputAssemblyStateCreateInfo{
		SType:                  vulkan.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               s.Topology,
		PrimitiveRestartEnable: vulkan.False,
	}
}
