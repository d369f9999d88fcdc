package mesh

import (
	"fmt"

	"github.com/WowVeryLogin/gltf2mesh/src/accessor"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// DuplicatePolicy decides what happens when two meshes share a name.
type DuplicatePolicy int

const (
	// DuplicateRename stores later meshes under "<name>_<mesh index>".
	DuplicateRename DuplicatePolicy = iota
	// DuplicateOverwrite keeps only the last mesh with a given name.
	DuplicateOverwrite
)

// MissingPositionPolicy decides what happens to a primitive without usable positions.
type MissingPositionPolicy int

const (
	// MissingPositionEmpty emits a surface with no vertices.
	MissingPositionEmpty MissingPositionPolicy = iota
	// MissingPositionSkip drops the primitive.
	MissingPositionSkip
)

// Attributes is the set of vertex streams the assembler consumes, resolved
// once from a primitive's attribute map.
type Attributes struct {
	Position  *int
	Normal    *int
	TexCoord0 *int
}

func AttributesOf(p *gltf.Primitive) Attributes {
	var attrs Attributes
	lookup := func(name string) *int {
		if idx, ok := p.Attributes[name]; ok {
			i := int(idx)
			return &i
		}
		return nil
	}
	attrs.Position = lookup(gltf.POSITION)
	attrs.Normal = lookup(gltf.NORMAL)
	attrs.TexCoord0 = lookup(gltf.TEXCOORD_0)
	return attrs
}

type Assembler struct {
	log             *zap.Logger
	duplicates      DuplicatePolicy
	missingPosition MissingPositionPolicy
}

type Option func(*Assembler)

func WithLogger(log *zap.Logger) Option {
	return func(a *Assembler) {
		a.log = log
	}
}

func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(a *Assembler) {
		a.duplicates = p
	}
}

func WithMissingPositionPolicy(p MissingPositionPolicy) Option {
	return func(a *Assembler) {
		a.missingPosition = p
	}
}

func NewAssembler(options ...Option) *Assembler {
	a := &Assembler{
		log: zap.NewNop(),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Assemble converts every mesh in doc and returns them keyed by name.
func (a *Assembler) Assemble(doc *gltf.Document) map[string]*ArrayMesh {
	meshes := make(map[string]*ArrayMesh, len(doc.Meshes))

	for i := range doc.Meshes {
		m := a.Mesh(doc, i)
		if m == nil {
			continue
		}

		name := m.Name
		if _, taken := meshes[name]; taken {
			switch a.duplicates {
			case DuplicateOverwrite:
				a.log.Warn("duplicate mesh name, overwriting", zap.String("mesh", name), zap.Int("index", i))
			default:
				name = a.uniqueName(meshes, name, i)
				a.log.Warn("duplicate mesh name, renaming",
					zap.String("mesh", m.Name), zap.String("renamed", name), zap.Int("index", i))
			}
		}
		meshes[name] = m
	}

	return meshes
}

func (a *Assembler) uniqueName(meshes map[string]*ArrayMesh, name string, index int) string {
	candidate := fmt.Sprintf("%s_%d", name, index)
	for n := 1; ; n++ {
		if _, taken := meshes[candidate]; !taken {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d_%d", name, index, n)
	}
}

// Mesh converts the mesh at index. Primitives that cannot be drawn are
// skipped; the result may therefore have fewer surfaces than primitives.
func (a *Assembler) Mesh(doc *gltf.Document, index int) *ArrayMesh {
	if index < 0 || index >= len(doc.Meshes) || doc.Meshes[index] == nil {
		a.log.Warn("mesh reference out of range", zap.Int("index", index))
		return nil
	}
	src := doc.Meshes[index]

	out := &ArrayMesh{Name: src.Name}
	for p, prim := range src.Primitives {
		if prim == nil {
			continue
		}
		log := a.log.With(zap.String("mesh", src.Name), zap.Int("primitive", p))

		surface, ok := a.surface(doc, prim, log)
		if !ok {
			continue
		}
		out.Surfaces = append(out.Surfaces, surface)
	}

	a.log.Debug("assembled mesh",
		zap.String("mesh", out.Name),
		zap.Int("primitives", len(src.Primitives)),
		zap.Int("surfaces", len(out.Surfaces)))

	return out
}

func (a *Assembler) surface(doc *gltf.Document, prim *gltf.Primitive, log *zap.Logger) (Surface, bool) {
	primitive, ok := PrimitiveTypeFor(prim.Mode)
	if !ok {
		log.Warn("unsupported primitive mode, skipping", zap.String("mode", modeName(prim.Mode)))
		return Surface{}, false
	}

	surface := Surface{
		Primitive: primitive,
		Indices:   []uint32{},
	}

	if prim.Indices != nil {
		if indices, err := read(doc, int(*prim.Indices), accessor.Source.Indices); err != nil {
			log.Warn("dropping indices", zap.Error(err))
		} else {
			surface.Indices = indices
		}
	}

	attrs := AttributesOf(prim)

	if attrs.Position == nil {
		log.Debug("primitive has no POSITION attribute")
	} else if vertices, err := read(doc, *attrs.Position, accessor.Source.Vec3); err != nil {
		log.Warn("dropping positions", zap.Error(err))
	} else {
		surface.Vertices = vertices
	}

	if len(surface.Vertices) == 0 {
		if a.missingPosition == MissingPositionSkip {
			log.Warn("primitive has no vertices, skipping")
			return Surface{}, false
		}
		surface.Vertices = []mgl32.Vec3{}
		return surface, true
	}

	if attrs.Normal != nil {
		normals, err := read(doc, *attrs.Normal, accessor.Source.Vec3)
		switch {
		case err != nil:
			log.Warn("dropping normals", zap.Error(err))
		case len(normals) != len(surface.Vertices):
			log.Warn("dropping normals, count does not match vertices",
				zap.Int("normals", len(normals)), zap.Int("vertices", len(surface.Vertices)))
		default:
			surface.Normals = FlipNormals(normals)
		}
	}

	if attrs.TexCoord0 != nil {
		uvs, err := read(doc, *attrs.TexCoord0, accessor.Source.Vec2)
		switch {
		case err != nil:
			log.Warn("dropping uvs", zap.Error(err))
		case len(uvs) != len(surface.Vertices):
			log.Warn("dropping uvs, count does not match vertices",
				zap.Int("uvs", len(uvs)), zap.Int("vertices", len(surface.Vertices)))
		default:
			surface.UVs = uvs
		}
	}

	if err := surface.Validate(); err != nil {
		log.Warn("surface failed validation", zap.Error(err))
	}

	return surface, true
}

func read[T any](doc *gltf.Document, index int, decode func(accessor.Source) (T, error)) (T, error) {
	src, err := accessor.Resolve(doc, index)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode(src)
}

// FlipNormals negates every normal in place and returns the slice. glTF
// normals point the opposite way from the host engine's convention.
func FlipNormals(normals []mgl32.Vec3) []mgl32.Vec3 {
	for i := range normals {
		normals[i] = normals[i].Mul(-1)
	}
	return normals
}
