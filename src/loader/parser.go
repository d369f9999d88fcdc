package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
)

var (
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrNotBinaryContainer   = errors.New("not a binary glTF container")
	ErrNotTextDocument      = errors.New("not a JSON glTF document")
)

var glbMagic = []byte("glTF")

// Format is the container a file is parsed as.
type Format int

const (
	FormatText Format = iota
	FormatBinary
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "gltf"
	case FormatBinary:
		return "glb"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// FormatFor picks the container format from the file extension.
func FormatFor(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".gltf":
		return FormatText, nil
	case ".glb":
		return FormatBinary, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}
}

// Parser turns a file into a glTF document with all buffers loaded.
type Parser interface {
	Parse(path string) (*gltf.Document, error)
}

// TextParser parses JSON glTF files. External buffers are resolved relative
// to the file's directory.
type TextParser struct{}

func (TextParser) Parse(path string) (*gltf.Document, error) {
	return decodeFile(path, expectJSON)
}

// BinaryParser parses GLB containers.
type BinaryParser struct{}

func (BinaryParser) Parse(path string) (*gltf.Document, error) {
	return decodeFile(path, expectMagic)
}

func decodeFile(path string, expect func(*bufio.Reader) error) (*gltf.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	if err := expect(r); err != nil {
		return nil, err
	}

	// decoder lives for this call only
	doc := new(gltf.Document)
	if err := gltf.NewDecoderFS(r, os.DirFS(filepath.Dir(path))).Decode(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func expectMagic(r *bufio.Reader) error {
	head, err := r.Peek(len(glbMagic))
	if err != nil || !bytes.Equal(head, glbMagic) {
		return ErrNotBinaryContainer
	}
	return nil
}

// expectJSON skips a UTF-8 byte order mark and leading whitespace and
// requires the document to open with '{'.
func expectJSON(r *bufio.Reader) error {
	if bom, err := r.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = r.Discard(3)
	}
	for {
		b, err := r.Peek(1)
		if err != nil {
			return ErrNotTextDocument
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = r.Discard(1)
		case '{':
			return nil
		default:
			return ErrNotTextDocument
		}
	}
}
