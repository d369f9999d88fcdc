// Package accessor decodes glTF accessor regions out of raw buffer bytes.
package accessor

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
)

var (
	ErrUnsupportedComponent = errors.New("unsupported component type")
	ErrShapeMismatch        = errors.New("accessor shape mismatch")
	ErrStride               = errors.New("byte stride smaller than element size")
	ErrOutOfBounds          = errors.New("accessor reads past end of buffer")
	ErrNegativeIndex        = errors.New("negative index value")
	ErrSparse               = errors.New("sparse accessors are not supported")
	ErrInvalidReference     = errors.New("invalid document reference")
)

type ComponentType uint8

const (
	Int8 ComponentType = iota + 1
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
)

func (c ComponentType) Size() int {
	switch c {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	default:
		return 0
	}
}

func (c ComponentType) String() string {
	switch c {
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("component(%d)", uint8(c))
	}
}

// ComponentTypeFromGLTF maps a document component type onto the decoder's set.
// glTF defines no signed 32-bit component, so Int32 never comes out of here.
func ComponentTypeFromGLTF(c gltf.ComponentType) (ComponentType, bool) {
	switch c {
	case gltf.ComponentByte:
		return Int8, true
	case gltf.ComponentUbyte:
		return Uint8, true
	case gltf.ComponentShort:
		return Int16, true
	case gltf.ComponentUshort:
		return Uint16, true
	case gltf.ComponentUint:
		return Uint32, true
	case gltf.ComponentFloat:
		return Float32, true
	default:
		return 0, false
	}
}

// Shape is the number of components per element.
type Shape int

const (
	Scalar Shape = 1
	Vec2   Shape = 2
	Vec3   Shape = 3
)

func (s Shape) String() string {
	switch s {
	case Scalar:
		return "SCALAR"
	case Vec2:
		return "VEC2"
	case Vec3:
		return "VEC3"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

func ShapeFromGLTF(t gltf.AccessorType) (Shape, bool) {
	switch t {
	case gltf.AccessorScalar:
		return Scalar, true
	case gltf.AccessorVec2:
		return Vec2, true
	case gltf.AccessorVec3:
		return Vec3, true
	default:
		return 0, false
	}
}

// Accessor is a typed, counted view into a buffer view.
// ByteOffset is relative to the start of the buffer view.
type Accessor struct {
	ComponentType ComponentType
	Shape         Shape
	Count         int
	ByteOffset    int
	Normalized    bool
}

// BufferView projects a byte range over a buffer. ByteStride 0 means tightly
// packed, ByteLength 0 means the view extends to the end of the buffer.
type BufferView struct {
	ByteOffset int
	ByteLength int
	ByteStride int
}

func (a Accessor) elementSize() int {
	return a.ComponentType.Size() * int(a.Shape)
}
