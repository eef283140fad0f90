package catalog

// ModelDef holds one model found under the model directory.
type ModelDef struct {
	Name     string   // mesh file stem, e.g. "bob_lamp"
	Dir      string   // directory relative to the scan root, "." at the top
	MeshPath string   // e.g. "/data/models/bob_lamp.md5mesh"
	Anims    []string // paired .md5anim paths, sorted
}
