package resource_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terrain-sample/resource"
	"terrain-sample/scene"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newCache(t *testing.T, root string) (*resource.Cache, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return resource.NewCache([]string{root}, []string{"Data", "CoreData"}, logrus.NewEntry(logger)), hook
}

func TestSearchOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Data", "a.txt"), "data")
	writeFile(t, filepath.Join(root, "CoreData", "a.txt"), "core")
	writeFile(t, filepath.Join(root, "CoreData", "b.txt"), "core")

	c, _ := newCache(t, root)
	require.Len(t, c.Dirs(), 2)

	p, err := c.Resolve("a.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Data", "a.txt"), p)

	p, err = c.Resolve("b.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "CoreData", "b.txt"), p)

	_, err = c.Resolve("missing.txt")
	assert.True(t, resource.IsNotFound(err))
	assert.ErrorContains(t, err, "missing.txt")
}

func TestMissingDirectoriesAreSkipped(t *testing.T) {
	root := t.TempDir()
	c, hook := newCache(t, root)
	assert.Empty(t, c.Dirs())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "Extra"), 0o755))
	assert.True(t, c.AddResourceDir(filepath.Join(root, "Extra")))
	assert.False(t, c.AddResourceDir(filepath.Join(root, "Extra")), "no duplicates")
	assert.False(t, c.AddResourceDir(filepath.Join(root, "Nope")))
}

func TestImagesAreShared(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "Data", "Textures", "red.png"), 2, 2, color.NRGBA{R: 255, A: 255})
	c, _ := newCache(t, root)

	a, err := c.GetImage("Textures/red.png")
	require.NoError(t, err)
	b, err := c.GetImage("Textures/red.png")
	require.NoError(t, err)
	assert.Same(t, a, b)

	ta, err := c.GetTexture("Textures/red.png")
	require.NoError(t, err)
	assert.Same(t, a, ta.Image)

	_, err = c.GetImage("Textures/none.png")
	assert.True(t, resource.IsNotFound(err))

	c.ReleaseAll()
	assert.Zero(t, c.NumResources())
	again, err := c.GetImage("Textures/red.png")
	require.NoError(t, err)
	assert.NotSame(t, a, again)
}

func TestFailuresAreNotCached(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Data", "placeholder"), "")
	c, _ := newCache(t, root)

	_, err := c.GetImage("late.png")
	require.Error(t, err)

	writePNG(t, filepath.Join(root, "Data", "late.png"), 1, 1, color.White)
	_, err = c.GetImage("late.png")
	assert.NoError(t, err)
}

func TestGetModel(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Data", "Models")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{-1, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{Attributes: map[string]int{"POSITION": pos}}}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []int{0}
	require.NoError(t, gltf.SaveBinary(doc, filepath.Join(dir, "Tri.glb")))
	writeFile(t, filepath.Join(dir, "Broken.glb"), "garbage")

	c, _ := newCache(t, root)
	m, err := c.GetModel("Models/Tri.glb")
	require.NoError(t, err)
	assert.Equal(t, "Models/Tri.glb", m.Name)
	assert.Len(t, m.Meshes, 1)

	again, err := c.GetModel("Models/./Tri.glb")
	require.NoError(t, err)
	assert.Same(t, m, again, "equivalent paths share one entry")

	// Lookup is case-sensitive: a differently cased name never hits the entry
	// cached for Models/Tri.glb.
	other, err := c.GetModel("models/tri.glb")
	if err == nil {
		assert.NotSame(t, m, other)
	} else {
		assert.True(t, resource.IsNotFound(err))
	}

	_, err = c.GetModel("Models/Broken.glb")
	assert.Error(t, err)
	assert.False(t, resource.IsNotFound(err))
}

func TestGetMaterialTerrain(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "Data")
	writePNG(t, filepath.Join(data, "Textures", "Weights.png"), 4, 4, color.NRGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(data, "Textures", "Grass.png"), 4, 4, color.NRGBA{G: 200, A: 255})
	writeFile(t, filepath.Join(data, "Materials", "Terrain.yaml"), `
technique: terrainblend
specular_intensity: 0.2
detail_repeat: [32, 16]
textures:
  weight: Textures/Weights.png
  detail1: Textures/Grass.png
  detail2: Textures/Missing.png
`)

	c, hook := newCache(t, root)
	m, err := c.GetMaterial("Materials/Terrain.yaml")
	require.NoError(t, err)
	assert.Equal(t, scene.TechniqueTerrainBlend, m.Technique)
	assert.InDelta(t, 0.2, m.SpecularIntensity, 1e-6)
	assert.Equal(t, float32(32), m.DetailRepeat.X)
	assert.Equal(t, float32(16), m.DetailRepeat.Y)
	require.NotNil(t, m.Texture(scene.UnitDiffuse))
	require.NotNil(t, m.Texture(scene.UnitDetail1))
	assert.Nil(t, m.Texture(scene.UnitDetail2), "missing texture leaves the unit empty")

	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["texture"] == "Textures/Missing.png" {
			warned = true
		}
	}
	assert.True(t, warned)

	again, err := c.GetMaterial("Materials/Terrain.yaml")
	require.NoError(t, err)
	assert.Same(t, m, again)
}

func TestGetMaterialSkybox(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "Data")
	faces := []string{"posx", "negx", "posy", "negy", "posz", "negz"}
	yaml := "technique: skybox-cube\ntextures:\n"
	for _, f := range faces {
		writePNG(t, filepath.Join(data, "Sky", f+".png"), 8, 8, color.NRGBA{B: 255, A: 255})
		yaml += "  " + f + ": Sky/" + f + ".png\n"
	}
	writeFile(t, filepath.Join(data, "Materials", "Skybox.yaml"), yaml)
	writeFile(t, filepath.Join(data, "Materials", "HalfSky.yaml"), "technique: skybox-cube\ntextures:\n  posx: Sky/posx.png\n")
	writeFile(t, filepath.Join(data, "Materials", "Gradient.yaml"), "technique: skybox-gradient\nzenith: [0, 0, 1]\n")

	c, _ := newCache(t, root)

	m, err := c.GetMaterial("Materials/Skybox.yaml")
	require.NoError(t, err)
	assert.Equal(t, scene.TechniqueSkyboxCube, m.Technique)
	require.NotNil(t, m.CubeMap)
	assert.NoError(t, m.CubeMap.Validate())

	half, err := c.GetMaterial("Materials/HalfSky.yaml")
	require.NoError(t, err)
	assert.Equal(t, scene.TechniqueSkyboxGradient, half.Technique, "incomplete cube falls back to gradient")

	grad, err := c.GetMaterial("Materials/Gradient.yaml")
	require.NoError(t, err)
	assert.Equal(t, float32(1), grad.Zenith.B)
	assert.Equal(t, scene.GradientSkyMaterial().Horizon, grad.Horizon)
}

func TestGetMaterialErrors(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "Data")
	writeFile(t, filepath.Join(data, "bad.yaml"), "technique: [")
	writeFile(t, filepath.Join(data, "unknown.yaml"), "technique: toon")
	writeFile(t, filepath.Join(data, "color.yaml"), "diffuse_color: [1, 2]")

	c, _ := newCache(t, root)
	for _, name := range []string{"bad.yaml", "unknown.yaml", "color.yaml"} {
		_, err := c.GetMaterial(name)
		assert.Error(t, err, name)
	}
	_, err := c.GetMaterial("nothing.yaml")
	assert.True(t, resource.IsNotFound(err))
	assert.Zero(t, c.NumResources())
}
