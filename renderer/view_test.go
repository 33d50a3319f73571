package renderer

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terrain-sample/core"
	"terrain-sample/math"
	"terrain-sample/scene"
)

type testView struct {
	scene    *scene.Scene
	camera   *scene.Camera
	box      *scene.StaticModel
	behind   *scene.StaticModel
	occluder *scene.StaticModel
	zone     *scene.Zone
}

func newTestView(t *testing.T) testView {
	t.Helper()
	var v testView
	v.scene = scene.NewScene()
	v.scene.Root.AddComponent(scene.NewDefaultOctree())

	v.zone = scene.NewZone()
	v.zone.BoundingBox = scene.NewAABB(math.NewVec3(-1000, -1000, -1000), math.NewVec3(1000, 1000, 1000))
	v.zone.AmbientColor = core.NewGray(0.15)
	v.zone.FogColor = core.ColorWhite
	v.zone.FogStart, v.zone.FogEnd = 500, 750
	v.scene.CreateChild("Zone").AddComponent(v.zone)

	v.box = scene.NewStaticModel(scene.BoxModel(), nil)
	v.box.ShadowCaster = true
	v.scene.CreateChild("Box").AddComponent(v.box)

	v.behind = scene.NewStaticModel(scene.BoxModel(), nil)
	behindNode := v.scene.CreateChild("Behind")
	behindNode.SetPosition(math.NewVec3(0, 0, -200))
	behindNode.AddComponent(v.behind)

	v.occluder = scene.NewStaticModel(scene.BoxModel(), nil)
	v.occluder.Occluder = true
	groundNode := v.scene.CreateChild("Ground")
	groundNode.SetPosition(math.NewVec3(0, -1, 10))
	groundNode.SetScale(math.NewVec3(50, 1, 50))
	groundNode.AddComponent(v.occluder)

	v.camera = scene.NewCamera()
	camNode := scene.NewNode("Camera")
	camNode.SetPosition(math.NewVec3(0, 5, -20))
	camNode.AddComponent(v.camera)

	v.scene.Update(0)
	return v
}

func addSun(s *scene.Scene) *scene.Light {
	light := scene.NewLight(scene.LightDirectional)
	light.CastShadows = true
	n := s.CreateChild("Sun")
	n.SetDirection(math.NewVec3(0.6, -1, 0.8))
	n.AddComponent(light)
	return light
}

func TestGLRect(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 800, 600), glRect(image.Rectangle{}, 800, 600))
	assert.Equal(t, image.Rect(0, 300, 400, 600), glRect(image.Rect(0, 0, 400, 300), 800, 600), "top left quarter")
	assert.Equal(t, image.Rect(400, 0, 800, 300), glRect(image.Rect(400, 300, 900, 700), 800, 600), "clipped to the window")
	assert.True(t, glRect(image.Rect(900, 0, 1000, 10), 800, 600).Empty())
}

func TestPlanViewRejectsIncompleteViewports(t *testing.T) {
	v := newTestView(t)
	_, ok := planView(nil, 800, 600, 1024)
	assert.False(t, ok)
	_, ok = planView(&Viewport{Scene: v.scene}, 800, 600, 1024)
	assert.False(t, ok)
	_, ok = planView(&Viewport{Scene: v.scene, Camera: v.camera, Rect: image.Rect(900, 900, 950, 950)}, 800, 600, 1024)
	assert.False(t, ok)
}

func TestPlanViewZoneAndCulling(t *testing.T) {
	v := newTestView(t)
	p, ok := planView(NewViewport(v.scene, v.camera), 800, 600, 1024)
	require.True(t, ok)

	assert.InDelta(t, 800.0/600.0, v.camera.AspectRatio, 1e-5, "aspect follows the viewport")
	assert.Equal(t, core.ColorWhite, p.frame.ClearColor, "clears with the fog colour")
	assert.Equal(t, v.zone.AmbientColor, p.frame.Ambient)
	assert.Equal(t, float32(500), p.frame.FogStart)
	assert.Equal(t, float32(750), p.frame.FogEnd)
	assert.InDelta(t, 1, p.frame.CameraForward.Z, 1e-5)
	assert.Nil(t, p.frame.Light)
	assert.Empty(t, p.cascades)

	assert.Equal(t, 1, p.culled, "box behind the camera is culled")
	require.Len(t, p.batches, 2)
	assert.Equal(t, v.occluder.Batches()[0].World, p.batches[0].World, "occluders draw first")
	assert.Equal(t, v.box.Batches()[0].World, p.batches[1].World)
}

func TestPlanViewDefaultZone(t *testing.T) {
	v := newTestView(t)
	v.camera.Node().SetPosition(math.NewVec3(5000, 0, 0))
	p, ok := planView(NewViewport(v.scene, v.camera), 800, 600, 1024)
	require.True(t, ok)
	assert.Equal(t, v.scene.DefaultZone().AmbientColor, p.frame.Ambient)
}

func TestPlanViewShadowCascades(t *testing.T) {
	v := newTestView(t)
	light := addSun(v.scene)
	light.Color = core.NewGray(1.2)
	light.SpecularIntensity = 0.5

	p, ok := planView(NewViewport(v.scene, v.camera), 800, 600, 1024)
	require.True(t, ok)
	require.NotNil(t, p.frame.Light)
	assert.Equal(t, float32(0.5), p.frame.Light.SpecularIntensity)
	assert.InDelta(t, 1.2, p.frame.Light.Color.R, 1e-5)

	require.Len(t, p.cascades, 3)
	require.Len(t, p.casters, 3)
	start, end := p.frame.Light.FadeStart, p.frame.Light.FadeEnd
	assert.InDelta(t, 160, start, 1e-3)
	assert.InDelta(t, 200, end, 1e-3)

	found := false
	for _, batches := range p.casters {
		for _, b := range batches {
			assert.Equal(t, v.box.Batches()[0].World, b.World, "only shadow casters are drawn into the map")
			found = true
		}
	}
	assert.True(t, found)

	noShadows, ok := planView(NewViewport(v.scene, v.camera), 800, 600, 0)
	require.True(t, ok)
	require.NotNil(t, noShadows.frame.Light)
	assert.Empty(t, noShadows.cascades)
}

func TestUpdateStepsEachSceneOnce(t *testing.T) {
	v := newTestView(t)
	re := &RenderEngine{}
	re.SetViewport(0, NewViewport(v.scene, v.camera))
	re.SetViewport(2, NewViewport(v.scene, v.camera))
	assert.Equal(t, 3, re.NumViewports())
	assert.Nil(t, re.Viewport(1))
	assert.Nil(t, re.Viewport(7))

	extra := scene.NewStaticModel(scene.BoxModel(), nil)
	v.scene.CreateChild("Extra").AddComponent(extra)
	re.Update(0.016)
	assert.True(t, v.scene.Octree().Contains(extra))
}

func TestPlanViewIgnoresNonDirectionalLights(t *testing.T) {
	v := newTestView(t)
	light := addSun(v.scene)
	light.Type = scene.LightType(1)

	p, ok := planView(NewViewport(v.scene, v.camera), 800, 600, 1024)
	require.True(t, ok)
	assert.Nil(t, p.frame.Light)
	assert.Empty(t, p.cascades)
}
