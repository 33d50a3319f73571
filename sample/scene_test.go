package sample

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terrain-sample/config"
	"terrain-sample/core"
	"terrain-sample/math"
	"terrain-sample/resource"
	"terrain-sample/scene"
)

type missingAssets struct{}

var errMissing = errors.New("no such asset")

func (missingAssets) GetModel(string) (*scene.Model, error)       { return nil, errMissing }
func (missingAssets) GetMaterial(string) (*scene.Material, error) { return nil, errMissing }
func (missingAssets) GetImage(string) (*scene.Image, error)       { return nil, errMissing }

func nullLog() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return logrus.NewEntry(logger), hook
}

func writeAsset(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeHeightMap(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x)})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestBuildSceneLayout(t *testing.T) {
	log, _ := nullLog()
	s := BuildScene(missingAssets{}, log)
	require.NotNil(t, s.Octree())

	zones := s.Zones()
	require.Len(t, zones, 1)
	z := zones[0]
	assert.Equal(t, core.NewGray(0.15), z.AmbientColor)
	assert.Equal(t, core.ColorWhite, z.FogColor)
	assert.Equal(t, float32(500), z.FogStart)
	assert.Equal(t, float32(750), z.FogEnd)
	assert.True(t, z.Contains(math.NewVec3(999, -999, 0)))

	lights := s.Lights()
	require.Len(t, lights, 1)
	l := lights[0]
	assert.Equal(t, scene.LightDirectional, l.Type)
	assert.True(t, l.CastShadows)
	assert.Equal(t, float32(0.00025), l.ShadowBias.ConstantBias)
	assert.Equal(t, float32(0.5), l.ShadowBias.SlopeScaledBias)
	assert.Equal(t, 3, l.ShadowCascade.NumSplits())
	assert.Equal(t, float32(0.8), l.ShadowCascade.FadeStart)
	assert.Equal(t, float32(0.5), l.SpecularIntensity)
	assert.InDelta(t, 1.2, l.EffectiveColor().R, 1e-6)
	dir := l.Direction()
	want := math.NewVec3(0.6, -1, 0.8).Normalize()
	assert.InDelta(t, want.X, dir.X, 1e-4)
	assert.InDelta(t, want.Y, dir.Y, 1e-4)
	assert.InDelta(t, want.Z, dir.Z, 1e-4)

	sky := s.Skybox()
	require.NotNil(t, sky)
	assert.Equal(t, float32(500), sky.Node().WorldScale().X)

	terrains := s.Terrains()
	require.Len(t, terrains, 1)
	tr := terrains[0]
	assert.Equal(t, 64, tr.PatchSize)
	assert.Equal(t, math.NewVec3(2, 0.5, 2), tr.Spacing)
	assert.True(t, tr.Smoothing)
	assert.True(t, tr.Occluder)
	assert.Equal(t, math.Vec3Zero, tr.Node().Position())
}

func TestBuildSceneFallsBackOnMissingAssets(t *testing.T) {
	log, hook := nullLog()
	s := BuildScene(missingAssets{}, log)

	sky := s.Skybox()
	assert.Equal(t, scene.TechniqueSkyboxGradient, sky.Material.Technique)
	assert.Len(t, sky.Model.Meshes, 1, "generated cube")

	tr := s.Terrains()[0]
	px, pz := tr.NumPatches()
	assert.Equal(t, 1, px)
	assert.Equal(t, 1, pz)
	assert.Equal(t, float32(0), tr.Height(math.Vec3Zero))
	assert.Equal(t, "Default", tr.Material.Name)

	warned := map[string]bool{}
	for _, e := range hook.AllEntries() {
		if e.Level != logrus.WarnLevel {
			continue
		}
		for _, k := range []string{"model", "material", "image"} {
			if v, ok := e.Data[k].(string); ok {
				warned[v] = true
			}
		}
	}
	for _, name := range []string{BoxModelName, SkyboxMaterialName, HeightMapName, TerrainMaterialName} {
		assert.True(t, warned[name], name)
	}

	s.Update(0)
	assert.Equal(t, 1, s.Octree().NumDrawables(), "one terrain patch, the sky is not indexed")
}

func TestBuildSceneFromResourceFiles(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "Data")
	writeHeightMap(t, filepath.Join(data, "Textures", "HeightMap.png"), 129)
	writeHeightMap(t, filepath.Join(data, "Textures", "Weights.png"), 4)
	writeAsset(t, filepath.Join(data, "Materials", "Terrain.yaml"), "technique: terrainblend\ntextures:\n  weight: Textures/Weights.png\ndetail_repeat: [32, 32]\n")
	writeAsset(t, filepath.Join(data, "Materials", "Skybox.yaml"), "technique: skybox-gradient\nzenith: [0, 0, 1]\n")

	log, _ := nullLog()
	cache := resource.NewCache([]string{"/nonexistent", root}, []string{"Data"}, log)
	s := BuildScene(cache, log)

	tr := s.Terrains()[0]
	px, pz := tr.NumPatches()
	assert.Equal(t, 2, px)
	assert.Equal(t, 2, pz)
	nx, _ := tr.NumVertices()
	assert.Equal(t, 129, nx)
	assert.Equal(t, scene.TechniqueTerrainBlend, tr.Material.Technique)
	assert.Equal(t, float32(1), s.Skybox().Material.Zenith.B)

	s.Update(0)
	assert.Equal(t, 4, s.Octree().NumDrawables())
}

func TestAppSetup(t *testing.T) {
	p := config.Default()
	p.FullScreen = true
	New(Options{}).Setup(&p)
	assert.Equal(t, 800, p.WindowWidth)
	assert.Equal(t, 600, p.WindowHeight)
	assert.False(t, p.FullScreen)
	assert.Equal(t, []string{".", ".."}, p.ResourcePrefixPaths)
	assert.NoError(t, p.Validate())
}

func TestShippedAssetsLoad(t *testing.T) {
	log, hook := nullLog()
	cache := resource.NewCache([]string{".", ".."}, []string{"Data"}, log)
	require.NotEmpty(t, cache.Dirs())

	s := BuildScene(cache, log)
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, e.Level, e.Message)
	}

	sky := s.Skybox()
	assert.Equal(t, scene.TechniqueSkyboxCube, sky.Material.Technique)
	require.Len(t, sky.Model.Meshes, 1)
	assert.Equal(t, 12, sky.Model.Meshes[0].TriangleCount())

	tr := s.Terrains()[0]
	px, pz := tr.NumPatches()
	assert.Equal(t, 8, px)
	assert.Equal(t, 8, pz)
	assert.Equal(t, scene.TechniqueTerrainBlend, tr.Material.Technique)
	for u := scene.UnitDiffuse; u <= scene.UnitDetail3; u++ {
		assert.NotNil(t, tr.Material.Texture(u), "unit %d", u)
	}
}
