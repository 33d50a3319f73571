package scene

import (
	"github.com/pkg/errors"

	"terrain-sample/core"
	"terrain-sample/math"
)

const (
	DefaultPatchSize = 32
	MinPatchSize     = 4
	MaxPatchSize     = 128
)

// Terrain builds a grid of patches from a heightmap image. Image row 0 is
// the +Z edge of the terrain; each pixel becomes one vertex.
type Terrain struct {
	ComponentBase

	PatchSize int
	// Spacing is the distance between vertices on X and Z, and the height of
	// one heightmap step on Y.
	Spacing   math.Vec3
	Smoothing bool

	Material     *Material
	Occluder     bool
	ShadowCaster bool

	heightMap   *Image
	numVertices [2]int // x, z
	numPatches  [2]int
	origin      math.Vec2
	heights     []float32
	normals     []math.Vec3
	patches     []*TerrainPatch
}

func NewTerrain() *Terrain {
	return &Terrain{
		PatchSize: DefaultPatchSize,
		Spacing:   math.Vec3{X: 1, Y: 0.25, Z: 1},
	}
}

// SetHeightMap stores img and rebuilds the geometry.
func (t *Terrain) SetHeightMap(img *Image) error {
	t.heightMap = img
	return t.Rebuild()
}

func (t *Terrain) HeightMap() *Image { return t.heightMap }

// Rebuild regenerates heights, normals and patch meshes from the current
// heightmap and settings.
func (t *Terrain) Rebuild() error {
	t.patches = nil
	t.heights = nil
	t.normals = nil
	t.numPatches = [2]int{}
	t.numVertices = [2]int{}

	img := t.heightMap
	if img == nil {
		return errors.New("terrain has no heightmap")
	}
	if t.PatchSize < MinPatchSize || t.PatchSize > MaxPatchSize {
		return errors.Errorf("terrain patch size %d outside [%d, %d]", t.PatchSize, MinPatchSize, MaxPatchSize)
	}

	px := (img.Width - 1) / t.PatchSize
	pz := (img.Height - 1) / t.PatchSize
	if px <= 0 || pz <= 0 {
		return errors.Errorf("heightmap %q is %dx%d, too small for patch size %d", img.Name, img.Width, img.Height, t.PatchSize)
	}
	t.numPatches = [2]int{px, pz}
	t.numVertices = [2]int{px*t.PatchSize + 1, pz*t.PatchSize + 1}
	t.origin = math.Vec2{
		X: -0.5 * float32(px*t.PatchSize) * t.Spacing.X,
		Y: -0.5 * float32(pz*t.PatchSize) * t.Spacing.Z,
	}

	t.readHeights()
	if t.Smoothing {
		t.smoothHeights()
	}
	t.computeNormals()

	for z := 0; z < pz; z++ {
		for x := 0; x < px; x++ {
			t.patches = append(t.patches, t.buildPatch(x, z))
		}
	}
	return nil
}

func (t *Terrain) readHeights() {
	nx, nz := t.numVertices[0], t.numVertices[1]
	t.heights = make([]float32, nx*nz)
	img := t.heightMap
	for z := 0; z < nz; z++ {
		row := nz - 1 - z
		for x := 0; x < nx; x++ {
			r, g, _, _ := img.At(x, row)
			h := float32(r)
			if img.Components > 1 {
				h += float32(g) / 256
			}
			t.heights[z*nx+x] = h * t.Spacing.Y
		}
	}
}

// smoothHeights applies a 3x3 binomial kernel, sampling clamped at the edges.
func (t *Terrain) smoothHeights() {
	nx, nz := t.numVertices[0], t.numVertices[1]
	src := make([]float32, len(t.heights))
	copy(src, t.heights)
	at := func(x, z int) float32 {
		return src[clampInt(z, 0, nz-1)*nx+clampInt(x, 0, nx-1)]
	}
	for z := 0; z < nz; z++ {
		for x := 0; x < nx; x++ {
			sum := at(x-1, z-1) + 2*at(x, z-1) + at(x+1, z-1) +
				2*at(x-1, z) + 4*at(x, z) + 2*at(x+1, z) +
				at(x-1, z+1) + 2*at(x, z+1) + at(x+1, z+1)
			t.heights[z*nx+x] = sum / 16
		}
	}
}

func (t *Terrain) computeNormals() {
	nx, nz := t.numVertices[0], t.numVertices[1]
	t.normals = make([]math.Vec3, nx*nz)
	for z := 0; z < nz; z++ {
		for x := 0; x < nx; x++ {
			dx := (t.RawHeight(x-1, z) - t.RawHeight(x+1, z)) / (2 * t.Spacing.X)
			dz := (t.RawHeight(x, z-1) - t.RawHeight(x, z+1)) / (2 * t.Spacing.Z)
			t.normals[z*nx+x] = math.Vec3{X: dx, Y: 1, Z: dz}.Normalize()
		}
	}
}

// RawHeight returns the local-space height at a vertex, clamping to the edge.
func (t *Terrain) RawHeight(x, z int) float32 {
	nx, nz := t.numVertices[0], t.numVertices[1]
	if nx == 0 || nz == 0 {
		return 0
	}
	return t.heights[clampInt(z, 0, nz-1)*nx+clampInt(x, 0, nx-1)]
}

// RawNormal returns the local-space normal at a vertex.
func (t *Terrain) RawNormal(x, z int) math.Vec3 {
	nx, nz := t.numVertices[0], t.numVertices[1]
	if nx == 0 || nz == 0 {
		return math.Vec3Up
	}
	return t.normals[clampInt(z, 0, nz-1)*nx+clampInt(x, 0, nx-1)]
}

func (t *Terrain) vertexPosition(x, z int) math.Vec3 {
	return math.Vec3{
		X: t.origin.X + float32(x)*t.Spacing.X,
		Y: t.RawHeight(x, z),
		Z: t.origin.Y + float32(z)*t.Spacing.Z,
	}
}

// buildPatch creates the mesh for patch (px, pz). Each cell is split along
// the diagonal from (x+1, z) to (x, z+1).
func (t *Terrain) buildPatch(px, pz int) *TerrainPatch {
	ps := t.PatchSize
	row := ps + 1
	nx, nz := t.numVertices[0], t.numVertices[1]

	vertices := make([]core.Vertex, 0, row*row)
	for z := 0; z <= ps; z++ {
		for x := 0; x <= ps; x++ {
			gx, gz := px*ps+x, pz*ps+z
			vertices = append(vertices, core.Vertex{
				Position: t.vertexPosition(gx, gz),
				Normal:   t.RawNormal(gx, gz),
				UV: math.Vec2{
					X: float32(gx) / float32(nx-1),
					Y: 1 - float32(gz)/float32(nz-1),
				},
				Color: core.ColorWhite,
			})
		}
	}

	indices := make([]uint32, 0, ps*ps*6)
	for z := 0; z < ps; z++ {
		for x := 0; x < ps; x++ {
			i00 := uint32(z*row + x)
			i10 := i00 + 1
			i01 := i00 + uint32(row)
			i11 := i01 + 1
			indices = append(indices, i00, i10, i01, i10, i11, i01)
		}
	}

	return &TerrainPatch{
		terrain: t,
		X:       px,
		Z:       pz,
		Mesh:    NewMesh("TerrainPatch", vertices, indices),
	}
}

func (t *Terrain) NumPatches() (x, z int) { return t.numPatches[0], t.numPatches[1] }

func (t *Terrain) NumVertices() (x, z int) { return t.numVertices[0], t.numVertices[1] }

func (t *Terrain) Patches() []*TerrainPatch { return t.patches }

// Patch returns the patch at grid position (x, z), or nil.
func (t *Terrain) Patch(x, z int) *TerrainPatch {
	if x < 0 || z < 0 || x >= t.numPatches[0] || z >= t.numPatches[1] {
		return nil
	}
	return t.patches[z*t.numPatches[0]+x]
}

// Drawables exposes the patches to the scene's octree.
func (t *Terrain) Drawables() []Drawable {
	out := make([]Drawable, len(t.patches))
	for i, p := range t.patches {
		out[i] = p
	}
	return out
}

// toGrid maps a world position to fractional vertex coordinates.
func (t *Terrain) toGrid(worldPos math.Vec3) (float32, float32) {
	local := t.worldMatrix().Inverse().MulVec3(worldPos)
	xPos := (local.X - t.origin.X) / t.Spacing.X
	zPos := (local.Z - t.origin.Y) / t.Spacing.Z
	return math.Clamp(xPos, 0, float32(t.numVertices[0]-1)),
		math.Clamp(zPos, 0, float32(t.numVertices[1]-1))
}

// cell splits a clamped grid coordinate into cell index and fraction.
func cell(pos float32, numVertices int) (int, float32) {
	i := int(pos)
	if i > numVertices-2 {
		i = numVertices - 2
	}
	return i, pos - float32(i)
}

// Height returns the world-space surface height under worldPos, interpolated
// on the same triangles the patches are drawn with. Positions outside the
// terrain are clamped to its edge.
func (t *Terrain) Height(worldPos math.Vec3) float32 {
	if len(t.heights) == 0 {
		return 0
	}
	xPos, zPos := t.toGrid(worldPos)
	x, xf := cell(xPos, t.numVertices[0])
	z, zf := cell(zPos, t.numVertices[1])

	var h float32
	if xf+zf < 1 {
		h00 := t.RawHeight(x, z)
		h = h00 + (t.RawHeight(x+1, z)-h00)*xf + (t.RawHeight(x, z+1)-h00)*zf
	} else {
		h11 := t.RawHeight(x+1, z+1)
		h = h11 + (t.RawHeight(x, z+1)-h11)*(1-xf) + (t.RawHeight(x+1, z)-h11)*(1-zf)
	}

	if t.node == nil {
		return h
	}
	return h*t.node.WorldScale().Y + t.node.WorldPosition().Y
}

// Normal returns the world-space surface normal under worldPos.
func (t *Terrain) Normal(worldPos math.Vec3) math.Vec3 {
	if len(t.normals) == 0 {
		return math.Vec3Up
	}
	xPos, zPos := t.toGrid(worldPos)
	x, xf := cell(xPos, t.numVertices[0])
	z, zf := cell(zPos, t.numVertices[1])

	n0 := t.RawNormal(x, z).Lerp(t.RawNormal(x+1, z), xf)
	n1 := t.RawNormal(x, z+1).Lerp(t.RawNormal(x+1, z+1), xf)
	n := n0.Lerp(n1, zf)
	if t.node != nil {
		n = t.node.WorldRotation().RotateVector(n)
	}
	return n.Normalize()
}

// TerrainPatch is one drawable square of a Terrain.
type TerrainPatch struct {
	terrain *Terrain
	X, Z    int
	Mesh    *Mesh
}

func (p *TerrainPatch) Terrain() *Terrain { return p.terrain }

func (p *TerrainPatch) WorldBoundingBox() AABB {
	return p.Mesh.LocalAABB.Transformed(p.terrain.worldMatrix())
}

func (p *TerrainPatch) Batches() []Batch {
	mat := p.terrain.Material
	if mat == nil {
		mat = DefaultMaterial()
	}
	return []Batch{{Mesh: p.Mesh, Material: mat, World: p.terrain.worldMatrix()}}
}

func (p *TerrainPatch) CastShadows() bool { return p.terrain.ShadowCaster }

func (p *TerrainPatch) IsOccluder() bool { return p.terrain.Occluder }
