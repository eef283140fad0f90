package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

const (
	meshExt = ".md5mesh"
	animExt = ".md5anim"
)

// Scan walks dir for .md5mesh files and pairs each with the .md5anim files
// in the same directory whose stem starts with the mesh stem. When several
// mesh stems prefix one animation, the longest wins. Models are returned
// sorted by path.
func Scan(dir string) ([]ModelDef, error) {
	byDir := make(map[string][]string)
	animsByDir := make(map[string][]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		parent := filepath.Dir(path)
		switch strings.ToLower(filepath.Ext(path)) {
		case meshExt:
			byDir[parent] = append(byDir[parent], path)
		case animExt:
			animsByDir[parent] = append(animsByDir[parent], path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: scan %s: %w", dir, err)
	}

	var models []ModelDef
	for parent, meshes := range byDir {
		rel, err := filepath.Rel(dir, parent)
		if err != nil {
			rel = parent
		}
		start := len(models)
		for _, p := range meshes {
			models = append(models, ModelDef{Name: stem(p), Dir: rel, MeshPath: p})
		}
		group := models[start:]

		for _, a := range animsByDir[parent] {
			as := strings.ToLower(stem(a))
			best := -1
			for i, m := range group {
				ms := strings.ToLower(m.Name)
				if strings.HasPrefix(as, ms) && (best < 0 || len(ms) > len(group[best].Name)) {
					best = i
				}
			}
			if best >= 0 {
				group[best].Anims = append(group[best].Anims, a)
			}
		}
	}

	for i := range models {
		sort.Strings(models[i].Anims)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].MeshPath < models[j].MeshPath })
	return models, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
