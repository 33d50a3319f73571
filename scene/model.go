package scene

// Model is a loaded piece of geometry made of one or more meshes.
type Model struct {
	Name        string
	Meshes      []*Mesh
	BoundingBox AABB
}

// NewModel wraps meshes and merges their bounds.
func NewModel(name string, meshes ...*Mesh) *Model {
	m := &Model{Name: name, Meshes: meshes, BoundingBox: EmptyAABB()}
	for _, mesh := range meshes {
		m.BoundingBox = m.BoundingBox.Merge(mesh.LocalAABB)
	}
	return m
}

// BoxModel is the unit cube used when a model file cannot be loaded.
func BoxModel() *Model {
	return NewModel("Box", CreateCube(1))
}
