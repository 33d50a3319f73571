package scene

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"terrain-sample/core"
	"terrain-sample/math"
)

// LoadModel opens a .gltf or .glb file and flattens every mesh primitive of
// its default scene into one Model, with node transforms baked into the
// vertices.
func LoadModel(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open gltf %q", path)
	}
	return ModelFromDocument(path, doc)
}

// ModelFromDocument converts an already parsed glTF document.
//
// glTF is right-handed; positions and normals are mirrored on Z and triangle
// winding reversed so the model reads the same in the left-handed engine
// frame.
func ModelFromDocument(name string, doc *gltf.Document) (*Model, error) {
	var meshes []*Mesh

	var visit func(idx int, parent math.Mat4) error
	visit = func(idx int, parent math.Mat4) error {
		if idx < 0 || idx >= len(doc.Nodes) {
			return errors.Errorf("node index %d out of range", idx)
		}
		gn := doc.Nodes[idx]
		world := gltfNodeMatrix(gn).Mul(parent)

		if gn.Mesh != nil && *gn.Mesh < len(doc.Meshes) {
			gm := doc.Meshes[*gn.Mesh]
			for pi, prim := range gm.Primitives {
				m, err := loadPrimitive(doc, gm.Name, pi, prim, world)
				if err != nil {
					return errors.Wrapf(err, "mesh %q primitive %d", gm.Name, pi)
				}
				meshes = append(meshes, m)
			}
		}
		for _, c := range gn.Children {
			if err := visit(c, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range gltfRoots(doc) {
		if err := visit(root, math.Mat4Identity()); err != nil {
			return nil, err
		}
	}
	if len(meshes) == 0 {
		return nil, errors.Errorf("gltf %q contains no geometry", name)
	}
	return NewModel(name, meshes...), nil
}

// gltfRoots returns the default scene's nodes, or every parentless node when
// no scene is declared.
func gltfRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

var gltfIdentity = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// gltfNodeMatrix returns the node's local transform for row vectors. glTF
// stores column-major matrices for column vectors, which is the same memory
// layout.
func gltfNodeMatrix(gn *gltf.Node) math.Mat4 {
	if m := gn.MatrixOrDefault(); m != gltfIdentity {
		var out math.Mat4
		for i := 0; i < 16; i++ {
			out[i/4][i%4] = float32(m[i])
		}
		return out
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	s := gn.ScaleOrDefault()
	return math.Mat4TRS(
		math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])},
		math.Quaternion{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])},
		math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])},
	)
}

func loadPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive, world math.Mat4) (*Mesh, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, errors.Wrap(err, "positions")
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, errors.Wrap(err, "normals")
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, errors.Wrap(err, "texcoords")
		}
	}

	normalMatrix := world.Inverse().Transpose()
	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		pos := world.MulVec3(math.Vec3{X: p[0], Y: p[1], Z: p[2]})
		n := math.Vec3Up
		if i < len(normals) {
			n = normalMatrix.MulDir(math.Vec3{X: normals[i][0], Y: normals[i][1], Z: normals[i][2]}).Normalize()
		}
		v := core.Vertex{
			Position: math.Vec3{X: pos.X, Y: pos.Y, Z: -pos.Z},
			Normal:   math.Vec3{X: n.X, Y: n.Y, Z: -n.Z},
			Color:    core.ColorWhite,
		}
		if i < len(uvs) {
			v.UV = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, errors.Wrap(err, "indices")
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, errors.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	for i := 0; i < len(indices); i += 3 {
		indices[i+1], indices[i+2] = indices[i+2], indices[i+1]
	}
	return NewMesh(name, verts, indices), nil
}
