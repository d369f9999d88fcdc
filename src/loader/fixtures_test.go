package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// fixture is a minimal glTF document: positions, optional normals and
// uint16 indices packed back to back in one buffer.
type fixture struct {
	positions [][3]float32
	normals   [][3]float32
	indices   []uint16
	// modes lists one primitive per entry, all sharing the same accessors.
	modes  []int
	meshes int
}

func triangleFixture() fixture {
	return fixture{
		positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		indices:   []uint16{0, 1, 2},
		modes:     []int{4},
		meshes:    1,
	}
}

// build returns the JSON description (without buffer uri) and the binary payload.
func (f fixture) build() (map[string]any, []byte) {
	var bin bytes.Buffer
	var views, accessors []map[string]any
	attrs := map[string]int{}

	addView := func(data any, componentType int, typ string, count int) int {
		offset := bin.Len()
		binary.Write(&bin, binary.LittleEndian, data)
		views = append(views, map[string]any{"buffer": 0, "byteOffset": offset, "byteLength": bin.Len() - offset})
		for bin.Len()%4 != 0 {
			bin.WriteByte(0)
		}
		accessors = append(accessors, map[string]any{
			"bufferView":    len(views) - 1,
			"componentType": componentType,
			"count":         count,
			"type":          typ,
		})
		return len(accessors) - 1
	}

	attrs["POSITION"] = addView(f.positions, 5126, "VEC3", len(f.positions))
	if f.normals != nil {
		attrs["NORMAL"] = addView(f.normals, 5126, "VEC3", len(f.normals))
	}
	indices := addView(f.indices, 5123, "SCALAR", len(f.indices))

	var prims []map[string]any
	for _, mode := range f.modes {
		prims = append(prims, map[string]any{"attributes": attrs, "indices": indices, "mode": mode})
	}

	meshes := []map[string]any{}
	for i := 0; i < f.meshes; i++ {
		meshes = append(meshes, map[string]any{"name": "tri", "primitives": prims})
	}

	doc := map[string]any{
		"asset":       map[string]any{"version": "2.0"},
		"buffers":     []map[string]any{{"byteLength": bin.Len()}},
		"bufferViews": views,
		"accessors":   accessors,
		"meshes":      meshes,
	}
	return doc, bin.Bytes()
}

// writeText writes a .gltf file with the buffer embedded as a data URI.
func writeText(t *testing.T, dir, name string, f fixture) string {
	t.Helper()
	doc, bin := f.build()
	doc["buffers"] = []map[string]any{{
		"byteLength": len(bin),
		"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin),
	}}
	return writeJSON(t, dir, name, doc)
}

// writeTextExternal writes a .gltf file plus a sibling .bin buffer.
func writeTextExternal(t *testing.T, dir, name string, f fixture) string {
	t.Helper()
	doc, bin := f.build()
	if err := os.WriteFile(filepath.Join(dir, "buffer.bin"), bin, 0644); err != nil {
		t.Fatalf("failed to write buffer: %v", err)
	}
	doc["buffers"] = []map[string]any{{"byteLength": len(bin), "uri": "buffer.bin"}}
	return writeJSON(t, dir, name, doc)
}

func writeJSON(t *testing.T, dir, name string, doc map[string]any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

// writeBinary writes a GLB container with a JSON chunk and a BIN chunk.
func writeBinary(t *testing.T, dir, name string, f fixture) string {
	t.Helper()
	doc, bin := f.build()
	jsonData, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	for len(jsonData)%4 != 0 {
		jsonData = append(jsonData, ' ')
	}
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}

	var buf bytes.Buffer
	buf.WriteString("glTF")
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, uint32(12+8+len(jsonData)+8+len(bin)))

	binary.Write(&buf, binary.LittleEndian, uint32(len(jsonData)))
	binary.Write(&buf, binary.LittleEndian, uint32(0x4E4F534A)) // JSON
	buf.Write(jsonData)

	binary.Write(&buf, binary.LittleEndian, uint32(len(bin)))
	binary.Write(&buf, binary.LittleEndian, uint32(0x004E4942)) // BIN
	buf.Write(bin)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}
