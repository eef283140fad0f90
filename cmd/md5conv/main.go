package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"md5-bind-renderer/internal/config"
	"md5-bind-renderer/internal/export"
	"md5-bind-renderer/internal/filter"
	"md5-bind-renderer/internal/md5"
	"md5-bind-renderer/internal/skin"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file (skip_shaders, strict_normals, index_width)")
	out := flag.String("o", "", "Output .glb or .gltf (default: input name with .glb)")
	index16 := flag.Bool("index16", false, "Fail unless every merged index fits in 16 bits")
	strict := flag.Bool("strict", false, "Fail on vertices outside every triangle")
	skip := flag.String("skip", "", "Comma-separated shader globs to leave out")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: md5conv [flags] file.md5mesh\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	in := flag.Arg(0)

	cfg := config.Config{BaseDir: filepath.Dir(in)}
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cfg.Resolve(config.Flags{Strict: *strict}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	patterns := cfg.ForModel(name).SkipShaders
	if *skip != "" {
		patterns = append(patterns, strings.Split(*skip, ",")...)
	}
	if err := filter.Validate(patterns); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	model, err := md5.LoadMesh(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	b, err := skin.BuildBind(model, skin.Options{
		StrictNormals: cfg.StrictNormals,
		Keep:          filter.KeepFunc(patterns),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Without a config file only -index16 restricts the width.
	width := 32
	if *configFile != "" {
		width = cfg.IndexWidth
	}
	if err := checkIndexWidth(b, *index16, width); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	doc, err := export.Document(b, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dst := *out
	if dst == "" {
		dst = strings.TrimSuffix(in, filepath.Ext(in)) + ".glb"
	}
	if err := export.Save(doc, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %d submeshes, %d vertices, %d triangles -> %s\n",
		in, len(b.Ranges), b.VertexCount(), b.TriangleCount(), dst)
}

// checkIndexWidth enforces the requested merged-index width. With -index16
// the width is 16 regardless of config.
func checkIndexWidth(b *skin.Buffers, index16 bool, width int) error {
	if index16 {
		width = 16
	}
	var err error
	switch width {
	case 8:
		_, err = skin.Narrow[uint8](b.Indices)
	case 16:
		_, err = b.Indices16()
	}
	if errors.Is(err, skin.ErrIndexOverflow) {
		return fmt.Errorf("merged indices do not fit %d bits: %w", width, err)
	}
	return err
}
