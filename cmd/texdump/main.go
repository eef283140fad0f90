// Command texdump resolves every shader of a mesh against a texture
// directory and writes the decoded diffuse maps as PNG for inspection.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"md5-bind-renderer/internal/filter"
	"md5-bind-renderer/internal/md5"
	"md5-bind-renderer/internal/texture"
)

func main() {
	texDir := flag.String("textures", ".", "Texture directory")
	outDir := flag.String("o", "texdump", "Output directory for decoded PNGs")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: texdump [-textures dir] [-o dir] file.md5mesh")
		os.Exit(2)
	}

	model, err := md5.LoadMesh(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	idx := texture.BuildIndex(*texDir)
	fmt.Printf("Textures: %d indexed\n", idx.Len())
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	missing := 0
	for _, m := range model.Meshes {
		path, ok := idx.ResolvePath(m.Shader)
		if !ok {
			fmt.Printf("MISS %s\n", m.Shader)
			missing++
			continue
		}
		img, err := texture.LoadTexture(path)
		if err != nil {
			fmt.Printf("FAIL %s -> %s: %v\n", m.Shader, path, err)
			missing++
			continue
		}
		dst := filepath.Join(*outDir, filter.Stem(m.Shader)+".png")
		if err := writePNG(dst, img); err != nil {
			fmt.Printf("FAIL %s: %v\n", m.Shader, err)
			missing++
			continue
		}
		b := img.Bounds()
		fmt.Printf("OK   %s -> %s (%dx%d) -> %s\n", m.Shader, path, b.Dx(), b.Dy(), dst)
	}

	if missing > 0 {
		os.Exit(1)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
