package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one rendered model in the output manifest.
type ManifestEntry struct {
	Name      string   `json:"name"`
	MeshFile  string   `json:"mesh_file"`
	Image     string   `json:"image"`
	Vertices  int      `json:"vertices"`
	Triangles int      `json:"triangles"`
	Submeshes int      `json:"submeshes"`
	Anims     int      `json:"anims"`
	Warnings  []string `json:"warnings,omitempty"`
}

// WriteManifest writes the successful results to path as JSON.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Name:      r.Name,
			MeshFile:  r.MeshPath,
			Image:     r.Image,
			Vertices:  r.Vertices,
			Triangles: r.Triangles,
			Submeshes: r.Submeshes,
			Anims:     r.Anims,
			Warnings:  r.Warnings,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
