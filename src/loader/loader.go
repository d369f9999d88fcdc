// Package loader is the entry point of the importer: it routes a file to the
// right container parser and assembles the meshes it contains.
package loader

import (
	"errors"
	"fmt"

	"github.com/WowVeryLogin/gltf2mesh/src/mesh"
	"go.uber.org/zap"
)

var ErrNoMesh = errors.New("no mesh found in glTF file")

// Result is what a load hands back to the host. Meshes is empty unless Valid.
type Result struct {
	Filename string
	Valid    bool
	Meshes   map[string]*mesh.ArrayMesh
	Message  string
	Err      error
}

type Loader struct {
	log           *zap.Logger
	parsers       map[Format]Parser
	assembler     *mesh.Assembler
	assemblerOpts []mesh.Option
}

type Option func(*Loader)

func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

func WithTextParser(p Parser) Option {
	return func(l *Loader) {
		l.parsers[FormatText] = p
	}
}

func WithBinaryParser(p Parser) Option {
	return func(l *Loader) {
		l.parsers[FormatBinary] = p
	}
}

// WithAssembler replaces the default assembler; WithAssemblerOptions is
// ignored when it is set.
func WithAssembler(a *mesh.Assembler) Option {
	return func(l *Loader) {
		l.assembler = a
	}
}

func WithAssemblerOptions(opts ...mesh.Option) Option {
	return func(l *Loader) {
		l.assemblerOpts = append(l.assemblerOpts, opts...)
	}
}

// New returns a Loader. It keeps no per-file state, so Load may be called
// from several goroutines for different files.
func New(options ...Option) *Loader {
	l := &Loader{
		log: zap.NewNop(),
		parsers: map[Format]Parser{
			FormatText:   TextParser{},
			FormatBinary: BinaryParser{},
		},
	}
	for _, option := range options {
		option(l)
	}

	if l.assembler == nil {
		opts := append([]mesh.Option{mesh.WithLogger(l.log)}, l.assemblerOpts...)
		l.assembler = mesh.NewAssembler(opts...)
	}
	return l
}

// Load parses path and converts its meshes. Failures never escape as
// errors or panics; they come back as an invalid Result.
func (l *Loader) Load(path string) (res Result) {
	log := l.log.With(zap.String("file", path))
	log.Info("loading file")

	defer func() {
		if r := recover(); r != nil {
			res = l.invalid(path, fmt.Errorf("import panicked: %v", r), log)
		}
	}()

	format, err := FormatFor(path)
	if err != nil {
		return l.invalid(path, err, log)
	}

	doc, err := l.parsers[format].Parse(path)
	if err != nil {
		return l.invalid(path, fmt.Errorf("could not parse %s file: %w", format, err), log)
	}

	if len(doc.Meshes) == 0 {
		return l.invalid(path, ErrNoMesh, log)
	}

	meshes := l.assembler.Assemble(doc)
	log.Info("loaded file", zap.Stringer("format", format), zap.Int("meshes", len(meshes)))

	return Result{
		Filename: path,
		Valid:    true,
		Meshes:   meshes,
	}
}

func (l *Loader) invalid(path string, err error, log *zap.Logger) Result {
	log.Error("load failed", zap.Error(err))
	return Result{
		Filename: path,
		Valid:    false,
		Meshes:   map[string]*mesh.ArrayMesh{},
		Message:  err.Error(),
		Err:      err,
	}
}
