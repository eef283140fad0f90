package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"md5-bind-renderer/internal/md5"
	"md5-bind-renderer/internal/report"
	"md5-bind-renderer/internal/skin"
)

func main() {
	strict := flag.Bool("strict", false, "Treat vertices outside every triangle as an error")
	frame := flag.Int("frame", -1, "Dump the raw components of this animation frame")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: inspect [flags] file.md5mesh|file.md5anim ...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var model *md5.Model
	failed := false
	for _, path := range flag.Args() {
		fmt.Printf("== %s\n", path)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md5mesh":
			m, err := md5.LoadMesh(path)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				failed = true
				continue
			}
			model = m
			b, err := skin.BuildBind(m, skin.Options{StrictNormals: *strict})
			if err != nil {
				fmt.Printf("Skinning error: %v\n", err)
				failed = true
			}
			report.Mesh(m, b).Print(os.Stdout)

		case ".md5anim":
			a, err := md5.LoadAnim(path)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				failed = true
				continue
			}
			report.Anim(a).Print(os.Stdout)
			if model != nil {
				for _, d := range report.Compatible(model, a) {
					fmt.Printf("  ! %s\n", d)
				}
			}
			if *frame >= 0 {
				dumpFrame(a, *frame)
			}

		default:
			fmt.Printf("Error: unknown extension %q\n", filepath.Ext(path))
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func dumpFrame(a *md5.Anim, frame int) {
	fmt.Printf("  frame %d:\n", frame)
	for j, h := range a.Hierarchy {
		c, err := a.Components(frame, j)
		if err != nil {
			fmt.Printf("    %-24s %v\n", h.Name, err)
			continue
		}
		fmt.Printf("    %-24s flags %2d  %v\n", h.Name, h.Flags, c)
	}
}
