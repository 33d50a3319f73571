package renderer

import (
	"image"

	"terrain-sample/internal/opengl"
	"terrain-sample/math"
	"terrain-sample/scene"
)

// Viewport pairs a scene with the camera it is seen through. An empty Rect
// covers the whole window. Rect uses window coordinates with the origin at
// the top left.
type Viewport struct {
	Scene  *scene.Scene
	Camera *scene.Camera
	Rect   image.Rectangle
}

func NewViewport(s *scene.Scene, cam *scene.Camera) *Viewport {
	return &Viewport{Scene: s, Camera: cam}
}

// viewPlan is everything one viewport needs drawn this frame, worked out
// before any GL call is made.
type viewPlan struct {
	// rect is in GL window coordinates, origin bottom left.
	rect image.Rectangle

	frame opengl.FrameParams
	view  math.Mat4
	proj  math.Mat4

	cascades []scene.ShadowCascade
	casters  [][]scene.Batch

	sky     *scene.Skybox
	batches []scene.Batch
	culled  int
}

// glRect clips r to the window and flips it to GL's bottom-left origin.
func glRect(r image.Rectangle, width, height int) image.Rectangle {
	window := image.Rect(0, 0, width, height)
	if r.Empty() {
		r = window
	}
	r = r.Intersect(window)
	return image.Rect(r.Min.X, height-r.Max.Y, r.Max.X, height-r.Min.Y)
}

// planView culls vp's scene against its camera and the cascades of its first
// shadowed directional light. It returns false when there is nothing to draw.
func planView(vp *Viewport, width, height, shadowMapSize int) (viewPlan, bool) {
	var p viewPlan
	if vp == nil || vp.Scene == nil || vp.Camera == nil {
		return p, false
	}
	p.rect = glRect(vp.Rect, width, height)
	if p.rect.Empty() {
		return p, false
	}

	cam := vp.Camera
	cam.SetAspectFromSize(p.rect.Dx(), p.rect.Dy())
	camPos := math.Vec3Zero
	if n := cam.Node(); n != nil {
		camPos = n.WorldPosition()
	}
	p.view = cam.View()
	p.proj = cam.Projection()

	zone := vp.Scene.ZoneAt(camPos)
	p.frame = opengl.FrameParams{
		ClearColor:    zone.FogColor,
		CameraPos:     camPos,
		CameraForward: cameraForward(cam),
		ViewProj:      p.view.Mul(p.proj),
		Ambient:       zone.AmbientColor,
		FogColor:      zone.FogColor,
		FogStart:      zone.FogStart,
		FogEnd:        zone.FogEnd,
	}

	octree := vp.Scene.Octree()
	if light := mainLight(vp.Scene); light != nil {
		dl := &opengl.DirectionalLight{
			Direction:         light.Direction(),
			Color:             light.EffectiveColor(),
			SpecularIntensity: light.SpecularIntensity,
			ShadowIntensity:   light.ShadowIntensity,
			ConstantBias:      light.ShadowBias.ConstantBias,
			SlopeScaledBias:   light.ShadowBias.SlopeScaledBias,
		}
		if shadowMapSize > 0 && octree != nil {
			dl.Cascades = scene.FitCascades(cam, light, shadowMapSize)
			dl.FadeStart, dl.FadeEnd = light.ShadowCascade.ShadowFade(cam.FarClip)
		}
		p.cascades = dl.Cascades
		for i := range p.cascades {
			p.casters = append(p.casters, shadowBatches(octree.Query(&p.cascades[i].Frustum)))
		}
		p.frame.Light = dl
	}

	p.sky = vp.Scene.Skybox()
	if octree != nil {
		f := cam.Frustum()
		visible := octree.Query(&f)
		p.culled = octree.NumDrawables() - len(visible)
		p.batches = orderedBatches(visible)
	}
	return p, true
}

func cameraForward(cam *scene.Camera) math.Vec3 {
	if n := cam.Node(); n != nil {
		return n.WorldDirection()
	}
	return math.Vec3Forward
}

// mainLight is the first enabled directional light.
func mainLight(s *scene.Scene) *scene.Light {
	for _, l := range s.Lights() {
		if l.Type == scene.LightDirectional {
			return l
		}
	}
	return nil
}

func shadowBatches(ds []scene.Drawable) []scene.Batch {
	var out []scene.Batch
	for _, d := range ds {
		if d.CastShadows() {
			out = append(out, d.Batches()...)
		}
	}
	return out
}

// orderedBatches puts occluders first so the large terrain fills the depth
// buffer before smaller objects behind it are shaded. Order is otherwise
// stable.
func orderedBatches(ds []scene.Drawable) []scene.Batch {
	var occluders, rest []scene.Batch
	for _, d := range ds {
		if d.IsOccluder() {
			occluders = append(occluders, d.Batches()...)
		} else {
			rest = append(rest, d.Batches()...)
		}
	}
	return append(occluders, rest...)
}
