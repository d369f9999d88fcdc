package accessor

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ElementReader decodes a single element from exactly elementSize bytes.
type ElementReader[T any] func(acc Accessor, elem []byte) (T, error)

// Decode reads acc.Count elements of the given shape out of buf.
// The result always has acc.Count elements or an error is returned; no byte
// outside the buffer (or outside the view when its length is known) is read.
func Decode[T any](acc Accessor, view BufferView, buf []byte, shape Shape, read ElementReader[T]) ([]T, error) {
	if acc.Shape != shape {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrShapeMismatch, shape, acc.Shape)
	}

	elemSize := acc.elementSize()
	if elemSize == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedComponent, acc.ComponentType)
	}

	if acc.Count < 0 || acc.ByteOffset < 0 || view.ByteOffset < 0 || view.ByteLength < 0 || view.ByteStride < 0 {
		return nil, fmt.Errorf("%w: negative count, offset, length or stride", ErrOutOfBounds)
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if stride < elemSize {
		return nil, fmt.Errorf("%w: stride %d, element %d bytes", ErrStride, stride, elemSize)
	}

	if acc.Count == 0 {
		return []T{}, nil
	}

	if acc.ByteOffset > math.MaxInt-view.ByteOffset {
		return nil, fmt.Errorf("%w: offset %d past view offset %d overflows", ErrOutOfBounds, acc.ByteOffset, view.ByteOffset)
	}
	base := view.ByteOffset + acc.ByteOffset
	if !fits(base, acc.Count, stride, elemSize, len(buf)) {
		return nil, fmt.Errorf("%w: %d elements of %d bytes at offset %d stride %d, buffer is %d bytes",
			ErrOutOfBounds, acc.Count, elemSize, base, stride, len(buf))
	}
	if view.ByteLength > 0 && !fits(acc.ByteOffset, acc.Count, stride, elemSize, view.ByteLength) {
		return nil, fmt.Errorf("%w: %d elements of %d bytes at view offset %d stride %d, view is %d bytes",
			ErrOutOfBounds, acc.Count, elemSize, acc.ByteOffset, stride, view.ByteLength)
	}

	out := make([]T, acc.Count)
	for i := range out {
		offset := base + i*stride
		v, err := read(acc, buf[offset:offset+elemSize])
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}

	return out, nil
}

// fits reports whether count elements starting at start fit below limit.
func fits(start, count, stride, elemSize, limit int) bool {
	if start > limit || elemSize > limit-start {
		return false
	}
	room := limit - start - elemSize
	return count-1 <= room/stride
}

// ReadIndices decodes a scalar integer accessor, widening every encoding to uint32.
func ReadIndices(acc Accessor, view BufferView, buf []byte) ([]uint32, error) {
	if acc.ComponentType == Float32 {
		return nil, fmt.Errorf("%w: %s indices", ErrUnsupportedComponent, acc.ComponentType)
	}

	return Decode(acc, view, buf, Scalar, func(acc Accessor, elem []byte) (uint32, error) {
		return readIndex(acc.ComponentType, elem)
	})
}

func ReadVec3(acc Accessor, view BufferView, buf []byte) ([]mgl32.Vec3, error) {
	return Decode(acc, view, buf, Vec3, func(acc Accessor, elem []byte) (mgl32.Vec3, error) {
		var v mgl32.Vec3
		size := acc.ComponentType.Size()
		for i := range v {
			f, err := readFloat(acc.ComponentType, acc.Normalized, elem[i*size:])
			if err != nil {
				return v, err
			}
			v[i] = f
		}
		return v, nil
	})
}

func ReadVec2(acc Accessor, view BufferView, buf []byte) ([]mgl32.Vec2, error) {
	return Decode(acc, view, buf, Vec2, func(acc Accessor, elem []byte) (mgl32.Vec2, error) {
		var v mgl32.Vec2
		size := acc.ComponentType.Size()
		for i := range v {
			f, err := readFloat(acc.ComponentType, acc.Normalized, elem[i*size:])
			if err != nil {
				return v, err
			}
			v[i] = f
		}
		return v, nil
	})
}

func readIndex(c ComponentType, b []byte) (uint32, error) {
	var v int64
	switch c {
	case Uint8:
		return uint32(b[0]), nil
	case Uint16:
		return uint32(binary.LittleEndian.Uint16(b)), nil
	case Uint32:
		return binary.LittleEndian.Uint32(b), nil
	case Int8:
		v = int64(int8(b[0]))
	case Int16:
		v = int64(int16(binary.LittleEndian.Uint16(b)))
	case Int32:
		v = int64(int32(binary.LittleEndian.Uint32(b)))
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedComponent, c)
	}

	if v < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeIndex, v)
	}
	return uint32(v), nil
}

// readFloat decodes one vector component. Normalized integers follow the glTF
// conversion rules, signed ones clamped to -1.
func readFloat(c ComponentType, normalized bool, b []byte) (float32, error) {
	switch c {
	case Float32:
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
	case Int8:
		return signed(float64(int8(b[0])), math.MaxInt8, normalized), nil
	case Uint8:
		return unsigned(float64(b[0]), math.MaxUint8, normalized), nil
	case Int16:
		return signed(float64(int16(binary.LittleEndian.Uint16(b))), math.MaxInt16, normalized), nil
	case Uint16:
		return unsigned(float64(binary.LittleEndian.Uint16(b)), math.MaxUint16, normalized), nil
	case Int32:
		return signed(float64(int32(binary.LittleEndian.Uint32(b))), math.MaxInt32, normalized), nil
	case Uint32:
		return unsigned(float64(binary.LittleEndian.Uint32(b)), math.MaxUint32, normalized), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedComponent, c)
	}
}

func signed(v, limit float64, normalized bool) float32 {
	if !normalized {
		return float32(v)
	}
	return float32(math.Max(v/limit, -1))
}

func unsigned(v, limit float64, normalized bool) float32 {
	if !normalized {
		return float32(v)
	}
	return float32(v / limit)
}
