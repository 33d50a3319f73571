package sample

import (
	"github.com/sirupsen/logrus"

	"terrain-sample/core"
	"terrain-sample/math"
	"terrain-sample/scene"
)

// Assets loaded by the sample.
const (
	BoxModelName        = "Models/Box.gltf"
	SkyboxMaterialName  = "Materials/Skybox.yaml"
	HeightMapName       = "Textures/HeightMap.png"
	TerrainMaterialName = "Materials/Terrain.yaml"
)

const (
	terrainPatchSize = 64
	skyboxScale      = 500
	cameraFarClip    = 750
)

var cameraStart = math.Vec3{X: 0, Y: 7, Z: -20}

// Assets is the subset of the resource cache the scene is built from.
type Assets interface {
	GetModel(name string) (*scene.Model, error)
	GetMaterial(name string) (*scene.Material, error)
	GetImage(name string) (*scene.Image, error)
}

// BuildScene creates the static terrain scene. Assets that fail to load are
// logged and replaced: the box model by a generated cube, the sky by the
// gradient sky, the heightmap by flat ground and the terrain material by the
// default material.
func BuildScene(assets Assets, log *logrus.Entry) *scene.Scene {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := scene.NewScene()
	s.Root.AddComponent(scene.NewDefaultOctree())

	zone := scene.NewZone()
	zone.BoundingBox = scene.NewAABB(math.NewVec3(-1000, -1000, -1000), math.NewVec3(1000, 1000, 1000))
	zone.AmbientColor = core.NewGray(0.15)
	zone.FogColor = core.ColorWhite
	zone.FogStart = 500
	zone.FogEnd = 750
	s.CreateChild("Zone").AddComponent(zone)

	lightNode := s.CreateChild("DirectionalLight")
	lightNode.SetDirection(math.NewVec3(0.6, -1, 0.8))
	light := scene.NewLight(scene.LightDirectional)
	light.CastShadows = true
	light.ShadowBias = scene.BiasParameters{ConstantBias: 0.00025, SlopeScaledBias: 0.5}
	light.ShadowCascade = scene.NewCascadeParameters(10, 50, 200, 0, 0.8)
	light.SpecularIntensity = 0.5
	// Overbright so the terrain reads well under the white fog.
	light.Color = core.NewGray(1.2)
	lightNode.AddComponent(light)

	skyNode := s.CreateChild("Sky")
	skyNode.SetUniformScale(skyboxScale)
	skyNode.AddComponent(scene.NewSkybox(loadBoxModel(assets, log), loadSkyMaterial(assets, log)))

	terrainNode := s.CreateChild("Terrain")
	terrainNode.SetPosition(math.Vec3Zero)
	terrainNode.AddComponent(buildTerrain(assets, log))

	return s
}

func loadBoxModel(assets Assets, log *logrus.Entry) *scene.Model {
	m, err := assets.GetModel(BoxModelName)
	if err != nil {
		log.WithError(err).WithField("model", BoxModelName).Warn("using generated cube")
		return scene.BoxModel()
	}
	return m
}

func loadSkyMaterial(assets Assets, log *logrus.Entry) *scene.Material {
	m, err := assets.GetMaterial(SkyboxMaterialName)
	if err != nil {
		log.WithError(err).WithField("material", SkyboxMaterialName).Warn("using gradient sky")
		return scene.GradientSkyMaterial()
	}
	if !m.Technique.IsSkybox() {
		log.WithFields(logrus.Fields{"material": SkyboxMaterialName, "technique": m.Technique}).Warn("not a sky material, using gradient sky")
		return scene.GradientSkyMaterial()
	}
	return m
}

func buildTerrain(assets Assets, log *logrus.Entry) *scene.Terrain {
	t := scene.NewTerrain()
	t.PatchSize = terrainPatchSize
	t.Spacing = math.Vec3{X: 2, Y: 0.5, Z: 2}
	t.Smoothing = true
	t.Occluder = true
	t.ShadowCaster = true

	mat, err := assets.GetMaterial(TerrainMaterialName)
	if err != nil {
		log.WithError(err).WithField("material", TerrainMaterialName).Warn("using default terrain material")
		mat = scene.DefaultMaterial()
	}
	t.Material = mat

	img, err := assets.GetImage(HeightMapName)
	if err == nil {
		err = t.SetHeightMap(img)
	}
	if err != nil {
		log.WithError(err).WithField("image", HeightMapName).Warn("using flat terrain")
		flat := scene.NewGrayImage("FlatHeightMap", terrainPatchSize+1, terrainPatchSize+1, 0)
		if err := t.SetHeightMap(flat); err != nil {
			log.WithError(err).Error("flat terrain")
		}
	}
	return t
}

// CreateCamera returns a camera node outside the scene graph, placed at the
// sample's start position.
func CreateCamera() (*scene.Node, *scene.Camera) {
	node := scene.NewNode("Camera")
	cam := scene.NewCamera()
	cam.FarClip = cameraFarClip
	node.AddComponent(cam)
	node.SetPosition(cameraStart)
	return node, cam
}
