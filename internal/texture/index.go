package texture

import (
	"io/fs"
	"path/filepath"
	"strings"

	"md5-bind-renderer/internal/filter"
)

// extRank orders formats for the same stem; lower wins. Formats that carry
// alpha come first.
var extRank = map[string]int{
	".tga":  0,
	".png":  1,
	".webp": 2,
	".bmp":  3,
	".jpg":  4,
	".jpeg": 4,
}

// nonDiffuse are the suffixes of normal, specular and height maps.
var nonDiffuse = []string{"_local", "_s", "_h"}

// Index maps lowercase texture stems to filesystem paths.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex scans textureDir recursively for decodable image files.
// Normal, specular and height maps are left out.
func BuildIndex(textureDir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if textureDir == "" {
		return idx
	}

	filepath.WalkDir(textureDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := extRank[ext]
		if !ok {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		for _, s := range nonDiffuse {
			if strings.HasSuffix(stem, s) {
				return nil
			}
		}

		existing, exists := idx.entries[stem]
		if !exists || rank < extRank[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the diffuse texture path for a shader name, or
// ("", false). The shader stem itself is tried first, then stem + "_d".
func (idx *Index) ResolvePath(shader string) (string, bool) {
	stem := filter.Stem(shader)
	if path, ok := idx.entries[stem]; ok {
		return path, true
	}
	path, ok := idx.entries[stem+"_d"]
	return path, ok
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
