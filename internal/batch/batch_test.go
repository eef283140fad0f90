package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/webp"

	"md5-bind-renderer/internal/catalog"
	"md5-bind-renderer/internal/config"
)

// wallMesh is an upright unit square (XZ plane, Z up) plus a shadow
// submesh, bound rigidly to the root joint.
const wallMesh = `MD5Version 10
commandline ""

numJoints 1
numMeshes 2

joints {
	"origin"	-1 ( 0 0 0 ) ( 0 0 0 )
}

mesh {
	shader "models/wall/stone"

	numverts 4
	vert 0 ( 0 1 ) 0 1
	vert 1 ( 1 1 ) 1 1
	vert 2 ( 1 0 ) 2 1
	vert 3 ( 0 0 ) 3 1

	numtris 2
	tri 0 0 1 2
	tri 1 0 2 3

	numweights 4
	weight 0 0 1.0 ( 0 0 0 )
	weight 1 0 1.0 ( 1 0 0 )
	weight 2 0 1.0 ( 1 0 1 )
	weight 3 0 1.0 ( 0 0 1 )
}

mesh {
	shader "models/wall/shadow"

	numverts 3
	vert 0 ( 0 0 ) 0 1
	vert 1 ( 0 0 ) 1 1
	vert 2 ( 0 0 ) 2 1

	numtris 1
	tri 0 0 1 2

	numweights 3
	weight 0 0 1.0 ( 0 0 0 )
	weight 1 0 1.0 ( 5 0 0 )
	weight 2 0 1.0 ( 0 5 0 )
}
`

const spineAnim = `MD5Version 10
commandline ""

numFrames 1
numJoints 1
frameRate 24
numAnimatedComponents 0

hierarchy {
	"spine"	-1 0 0
}

bounds {
	( 0 0 0 ) ( 1 1 1 )
}

baseframe {
	( 0 0 0 ) ( 0 0 0 )
}

frame 0 {
}
`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRun(t *testing.T) {
	modelDir := t.TempDir()
	outDir := t.TempDir()
	writeFile(t, filepath.Join(modelDir, "props", "wall.md5mesh"), wallMesh)
	writeFile(t, filepath.Join(modelDir, "props", "wall_idle.md5anim"), spineAnim)
	writeFile(t, filepath.Join(modelDir, "broken.md5mesh"), "MD5Version 10\ncommandline \"\"\nnumJoints")

	models, err := catalog.Scan(modelDir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("Scan found %d models, want 2", len(models))
	}

	cfg := Config{
		OutputDir:   outDir,
		RenderSize:  32,
		Supersample: 2,
		Workers:     2,
		Settings: func(string) config.Model {
			return config.Model{Yaw: 0, Pitch: 0, SkipShaders: []string{"*shadow*"}}
		},
	}
	results := Run(cfg, models)

	var wall, broken Result
	for _, r := range results {
		switch r.Name {
		case "wall":
			wall = r
		case "broken":
			broken = r
		}
	}
	if broken.Success || broken.Error == "" {
		t.Fatalf("broken model\nhave %+v\nwant an error", broken)
	}
	if !wall.Success {
		t.Fatalf("wall model failed: %s", wall.Error)
	}
	if wall.Vertices != 4 || wall.Triangles != 2 || wall.Submeshes != 1 || wall.Anims != 1 {
		t.Fatalf("wall counts\nhave %+v\nwant 4 verts, 2 tris, 1 submesh, 1 anim", wall)
	}
	if len(wall.Warnings) != 1 || !strings.Contains(wall.Warnings[0], `"spine"`) {
		t.Fatalf("wall warnings\nhave %v\nwant joint name mismatch", wall.Warnings)
	}
	if wall.Image != "props/wall.webp" {
		t.Fatalf("Image\nhave %q\nwant props/wall.webp", wall.Image)
	}

	f, err := os.Open(filepath.Join(outDir, "props", "wall.webp"))
	if err != nil {
		t.Fatalf("open render: %v", err)
	}
	defer f.Close()
	img, err := webp.Decode(f)
	if err != nil {
		t.Fatalf("decode render: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("render size\nhave %v\nwant 32x32", b)
	}
	if _, _, _, a := img.At(16, 16).RGBA(); a == 0 {
		t.Fatal("render center is transparent")
	}

	manifest := filepath.Join(outDir, "manifest.json")
	if err := WriteManifest(manifest, results); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("manifest JSON: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "wall" || entries[0].Triangles != 2 {
		t.Fatalf("manifest\nhave %+v\nwant one wall entry", entries)
	}
}

func TestRunAllFiltered(t *testing.T) {
	modelDir := t.TempDir()
	writeFile(t, filepath.Join(modelDir, "wall.md5mesh"), wallMesh)
	models, err := catalog.Scan(modelDir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	results := Run(Config{
		OutputDir:  t.TempDir(),
		RenderSize: 16,
		Settings: func(string) config.Model {
			return config.Model{SkipShaders: []string{"models/wall/*"}}
		},
	}, models)
	if len(results) != 1 || results[0].Success {
		t.Fatalf("fully filtered model\nhave %+v\nwant failure", results)
	}
}
