package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/WowVeryLogin/gltf2mesh/src/config"
	"github.com/WowVeryLogin/gltf2mesh/src/loader"
	"github.com/WowVeryLogin/gltf2mesh/src/logger"
	"github.com/WowVeryLogin/gltf2mesh/src/object/model"
)

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file.gltf|file.glb...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	cfg := config.Default()
	if *flagConfig != "" {
		var err error
		if cfg, err = config.LoadFile(*flagConfig); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}

	log := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.FileConfig(),
		Console: os.Stderr,
	})
	defer log.Sync()

	l := loader.New(
		loader.WithLogger(log),
		loader.WithAssemblerOptions(cfg.Import.AssemblerOptions()...),
	)

	failed := false
	for _, path := range flag.Args() {
		res := l.Load(path)
		if !res.Valid {
			failed = true
			fmt.Printf("%s: invalid: %s\n", res.Filename, res.Message)
			continue
		}
		printResult(res)
	}

	if failed {
		return 1
	}
	return 0
}

func printResult(res loader.Result) {
	names := make([]string, 0, len(res.Meshes))
	for name := range res.Meshes {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%s: %d meshes\n", res.Filename, len(names))
	for _, name := range names {
		m := res.Meshes[name]
		b := m.Bounds()
		fmt.Printf("  mesh %q: %d surfaces, bounds (%.3g %.3g %.3g)-(%.3g %.3g %.3g)\n",
			name, m.SurfaceCount(), b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)

		vk := model.New(m)
		for i, s := range m.Surfaces {
			fmt.Printf("    surface %d: %s, %d vertices, %d indices, normals=%v uvs=%v, %d vertex bytes, draw %d\n",
				i, s.Primitive, len(s.Vertices), len(s.Indices), s.HasNormals(), s.HasUVs(),
				vk.Surfaces[i].VertexBufferSize(), vk.Surfaces[i].DrawCount())
		}
	}
}
