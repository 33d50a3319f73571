package scene

// StaticModel draws a Model with one material on every mesh.
type StaticModel struct {
	ComponentBase

	Model        *Model
	Material     *Material
	ShadowCaster bool
	Occluder     bool
}

func NewStaticModel(model *Model, material *Material) *StaticModel {
	return &StaticModel{Model: model, Material: material}
}

func (s *StaticModel) WorldBoundingBox() AABB {
	if s.Model == nil {
		return EmptyAABB()
	}
	return s.Model.BoundingBox.Transformed(s.worldMatrix())
}

func (s *StaticModel) Batches() []Batch {
	if s.Model == nil {
		return nil
	}
	mat := s.Material
	if mat == nil {
		mat = DefaultMaterial()
	}
	world := s.worldMatrix()
	out := make([]Batch, 0, len(s.Model.Meshes))
	for _, m := range s.Model.Meshes {
		out = append(out, Batch{Mesh: m, Material: mat, World: world})
	}
	return out
}

func (s *StaticModel) CastShadows() bool { return s.ShadowCaster }

func (s *StaticModel) IsOccluder() bool { return s.Occluder }

// Skybox draws its model centred on the camera behind all other geometry. It
// is not stored in the octree.
type Skybox struct {
	ComponentBase

	Model    *Model
	Material *Material
}

func NewSkybox(model *Model, material *Material) *Skybox {
	return &Skybox{Model: model, Material: material}
}
