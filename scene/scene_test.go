package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terrain-sample/core"
	"terrain-sample/math"
)

func TestZoneFogFactor(t *testing.T) {
	z := NewZone()
	z.FogStart, z.FogEnd = 500, 750

	assert.Equal(t, float32(0), z.FogFactor(100))
	assert.Equal(t, float32(0), z.FogFactor(500))
	assert.InDelta(t, 0.5, z.FogFactor(625), tolerance)
	assert.Equal(t, float32(1), z.FogFactor(750))
	assert.Equal(t, float32(1), z.FogFactor(5000))

	z.FogStart, z.FogEnd = 300, 300
	assert.Equal(t, float32(0), z.FogFactor(299))
	assert.Equal(t, float32(1), z.FogFactor(300))
}

func TestZoneAtPrefersPriority(t *testing.T) {
	s := NewScene()

	wide := NewZone()
	wide.BoundingBox = AABB{Min: math.NewVec3(-1000, -1000, -1000), Max: math.NewVec3(1000, 1000, 1000)}
	s.CreateChild("Zone").AddComponent(wide)

	local := NewZone()
	local.Priority = 1
	localNode := s.CreateChild("LocalZone")
	localNode.SetPosition(math.NewVec3(100, 0, 0))
	localNode.AddComponent(local)

	assert.Same(t, local, s.ZoneAt(math.NewVec3(105, 0, 0)))
	assert.Same(t, wide, s.ZoneAt(math.NewVec3(0, 0, 0)))
	assert.Same(t, s.DefaultZone(), s.ZoneAt(math.NewVec3(5000, 0, 0)))
}

func TestSceneKeepsOctreeInSync(t *testing.T) {
	s := NewScene()
	s.Root.AddComponent(NewDefaultOctree())
	require.NotNil(t, s.Octree())

	boxNode := s.CreateChild("Box")
	model := NewStaticModel(BoxModel(), nil)
	boxNode.AddComponent(model)

	terrainNode := s.CreateChild("Terrain")
	terrain := NewTerrain()
	require.NoError(t, terrain.SetHeightMap(NewGrayImage("flat", 65, 65, 0)))
	terrainNode.AddComponent(terrain)

	s.Update(0.016)
	octree := s.Octree()
	assert.Equal(t, 5, octree.NumDrawables(), "one box and four patches")
	assert.True(t, octree.Contains(model))

	boxNode.SetPosition(math.NewVec3(0, 0, 500))
	s.Update(0.016)
	f := FrustumFromVP(math.Mat4Orthographic(-5, 5, -5, 5, 495, 505))
	assert.Contains(t, octree.Query(&f), Drawable(model))

	s.Root.RemoveChild(boxNode)
	s.Update(0.016)
	assert.False(t, octree.Contains(model))
	assert.Equal(t, 4, octree.NumDrawables())
}

func TestSceneComponentLookup(t *testing.T) {
	s := NewScene()
	lightNode := s.CreateChild("DirectionalLight")
	light := NewLight(LightDirectional)
	lightNode.AddComponent(light)

	skyNode := s.CreateChild("Sky")
	sky := NewSkybox(BoxModel(), GradientSkyMaterial())
	skyNode.AddComponent(sky)

	assert.Equal(t, []*Light{light}, s.Lights())
	assert.Same(t, sky, s.Skybox())
	assert.Equal(t, lightNode, s.Find("DirectionalLight"))
	assert.Empty(t, s.Terrains())
}

func TestStaticModelBatches(t *testing.T) {
	node := NewNode("box")
	node.SetUniformScale(4)
	mat := DefaultMaterial()
	mat.DiffuseColor = core.ColorGray
	sm := NewStaticModel(BoxModel(), mat)
	sm.ShadowCaster = true
	node.AddComponent(sm)

	box := sm.WorldBoundingBox()
	assertVec3(t, math.NewVec3(-2, -2, -2), box.Min)
	assertVec3(t, math.NewVec3(2, 2, 2), box.Max)

	batches := sm.Batches()
	require.Len(t, batches, 1)
	assert.Same(t, mat, batches[0].Material)
	assert.True(t, sm.CastShadows())
	assert.False(t, sm.IsOccluder())
}

func TestCubeMesh(t *testing.T) {
	m := CreateCube(2)
	assert.Len(t, m.Vertices, 24)
	assert.Equal(t, 12, m.TriangleCount())
	assertVec3(t, math.NewVec3(-1, -1, -1), m.LocalAABB.Min)
	assertVec3(t, math.NewVec3(1, 1, 1), m.LocalAABB.Max)
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Position.Dot(v.Normal), tolerance, "vertex lies on its face plane")
	}
}
