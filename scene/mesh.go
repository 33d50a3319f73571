package scene

import (
	"terrain-sample/core"
	"terrain-sample/math"
)

// Mesh holds CPU-side triangle data. GPU upload is managed by the renderer
// backend, which stores its handle in GPUData.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32

	// LocalAABB is computed once from the vertex positions.
	LocalAABB AABB

	GPUData interface{}
}

// NewMesh builds a Mesh and pre-computes its local-space bounds.
func NewMesh(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:      name,
		Vertices:  vertices,
		Indices:   indices,
		LocalAABB: EmptyAABB(),
	}
	for _, v := range vertices {
		m.LocalAABB = m.LocalAABB.MergePoint(v.Position)
	}
	return m
}

func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// cubeFaces lists each face as its outward normal and the two in-plane axes
// spanning it.
var cubeFaces = [6][3]math.Vec3{
	{math.Vec3Forward, math.Vec3Left, math.Vec3Up},
	{math.Vec3Back, math.Vec3Right, math.Vec3Up},
	{math.Vec3Up, math.Vec3Right, math.Vec3Forward},
	{math.Vec3Down, math.Vec3Right, math.Vec3Back},
	{math.Vec3Right, math.Vec3Forward, math.Vec3Up},
	{math.Vec3Left, math.Vec3Back, math.Vec3Up},
}

// CreateCube returns an axis-aligned cube with edge length size centred on
// the origin. Each face has its own four vertices.
func CreateCube(size float32) *Mesh {
	h := size / 2
	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	for _, face := range cubeFaces {
		normal, u, v := face[0], face[1], face[2]
		base := uint32(len(vertices))
		for _, c := range corners {
			pos := normal.Add(u.Mul(c[0])).Add(v.Mul(c[1])).Mul(h)
			vertices = append(vertices, core.Vertex{
				Position: pos,
				Normal:   normal,
				UV:       math.Vec2{X: (c[0] + 1) / 2, Y: (1 - c[1]) / 2},
				Color:    core.ColorWhite,
			})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return NewMesh("Cube", vertices, indices)
}
