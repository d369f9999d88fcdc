package accessor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// Source is an accessor resolved against its document: the descriptor, the
// buffer view it projects through and the bytes of the underlying buffer.
type Source struct {
	Index    int
	Accessor Accessor
	View     BufferView
	Data     []byte
}

// MaxZeroFillBytes caps the zeroed storage backing an accessor that has no
// buffer view.
const MaxZeroFillBytes = 64 << 20

// Resolve looks up accessor index in doc and follows its buffer view and
// buffer references. An accessor without a buffer view decodes to zeros.
func Resolve(doc *gltf.Document, index int) (Source, error) {
	if index < 0 || index >= len(doc.Accessors) || doc.Accessors[index] == nil {
		return Source{}, fmt.Errorf("%w: accessor %d", ErrInvalidReference, index)
	}
	a := doc.Accessors[index]

	if a.Sparse != nil {
		return Source{}, fmt.Errorf("accessor %d: %w", index, ErrSparse)
	}

	componentType, ok := ComponentTypeFromGLTF(a.ComponentType)
	if !ok {
		return Source{}, fmt.Errorf("accessor %d: %w: %v", index, ErrUnsupportedComponent, a.ComponentType)
	}
	shape, ok := ShapeFromGLTF(a.Type)
	if !ok {
		return Source{}, fmt.Errorf("accessor %d: %w: %v", index, ErrShapeMismatch, a.Type)
	}

	src := Source{
		Index: index,
		Accessor: Accessor{
			ComponentType: componentType,
			Shape:         shape,
			Count:         int(a.Count),
			ByteOffset:    int(a.ByteOffset),
			Normalized:    a.Normalized,
		},
	}

	if a.BufferView == nil {
		if src.Accessor.Count < 0 {
			return Source{}, fmt.Errorf("accessor %d: %w: negative count", index, ErrOutOfBounds)
		}
		if src.Accessor.Count > MaxZeroFillBytes/src.Accessor.elementSize() {
			return Source{}, fmt.Errorf("accessor %d: %w: %d elements without a buffer view exceed %d bytes",
				index, ErrOutOfBounds, src.Accessor.Count, MaxZeroFillBytes)
		}
		src.Accessor.ByteOffset = 0
		src.Data = make([]byte, src.Accessor.Count*src.Accessor.elementSize())
		return src, nil
	}

	viewIndex := int(*a.BufferView)
	if viewIndex < 0 || viewIndex >= len(doc.BufferViews) || doc.BufferViews[viewIndex] == nil {
		return Source{}, fmt.Errorf("accessor %d: %w: buffer view %d", index, ErrInvalidReference, viewIndex)
	}
	bv := doc.BufferViews[viewIndex]

	bufferIndex := int(bv.Buffer)
	if bufferIndex < 0 || bufferIndex >= len(doc.Buffers) || doc.Buffers[bufferIndex] == nil {
		return Source{}, fmt.Errorf("accessor %d: %w: buffer %d", index, ErrInvalidReference, bufferIndex)
	}

	src.View = BufferView{
		ByteOffset: int(bv.ByteOffset),
		ByteLength: int(bv.ByteLength),
		ByteStride: int(bv.ByteStride),
	}
	src.Data = doc.Buffers[bufferIndex].Data

	return src, nil
}

func (s Source) Indices() ([]uint32, error) {
	return ReadIndices(s.Accessor, s.View, s.Data)
}

func (s Source) Vec3() ([]mgl32.Vec3, error) {
	return ReadVec3(s.Accessor, s.View, s.Data)
}

func (s Source) Vec2() ([]mgl32.Vec2, error) {
	return ReadVec2(s.Accessor, s.View, s.Data)
}
