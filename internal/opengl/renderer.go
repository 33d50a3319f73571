// Package opengl is the OpenGL 4.1 core backend: forward lighting with one
// directional light, cascaded shadow maps, linear fog and skyboxes.
package opengl

import (
	"fmt"
	"image/color"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"terrain-sample/core"
	"terrain-sample/math"
	"terrain-sample/scene"
)

const (
	techniqueDiffuse = 0
	techniqueTerrain = 1

	shadowUnit = 4
)

// DirectionalLight is the light state uploaded once per frame.
type DirectionalLight struct {
	Direction         math.Vec3 // direction the light travels
	Color             core.Color
	SpecularIntensity float32

	Cascades        []scene.ShadowCascade
	FadeStart       float32
	FadeEnd         float32
	ShadowIntensity float32
	ConstantBias    float32
	SlopeScaledBias float32
}

// FrameParams is the per-view state of one frame.
type FrameParams struct {
	ClearColor    core.Color
	CameraPos     math.Vec3
	CameraForward math.Vec3
	ViewProj      math.Mat4

	Ambient  core.Color
	FogColor core.Color
	FogStart float32
	FogEnd   float32

	// Light is nil when the view has no directional light.
	Light *DirectionalLight
}

// Stats counts the work of the current frame.
type Stats struct {
	Batches       int
	Triangles     int
	ShadowBatches int
}

// Renderer is the OpenGL rendering backend. All methods must be called from
// the thread that owns the GL context.
type Renderer struct {
	log *logrus.Entry

	lit         *program
	depth       *program
	skyCube     *program
	skyGradient *program

	shadowMap *CascadeShadowMap

	gpuMeshes   map[*scene.Mesh]*GPUMesh
	textures    []*scene.Texture
	cubeMaps    []*scene.CubeMap
	failed      map[*scene.Texture]bool
	failedCubes map[*scene.CubeMap]bool
	white       *scene.Texture

	defaultMaterial *scene.Material
	gradientSky     *scene.Material

	viewport [4]int32
	stats    Stats
}

// NewRenderer compiles the shader programs and allocates a cascaded shadow
// map of shadowMapSize texels per side. The GL context must be current.
func NewRenderer(shadowMapSize int, log *logrus.Entry) (*Renderer, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "init OpenGL")
	}
	r := &Renderer{
		log:             log.WithField("subsystem", "opengl"),
		gpuMeshes:       make(map[*scene.Mesh]*GPUMesh),
		failed:          make(map[*scene.Texture]bool),
		failedCubes:     make(map[*scene.CubeMap]bool),
		defaultMaterial: scene.DefaultMaterial(),
		gradientSky:     scene.GradientSkyMaterial(),
	}
	r.log.WithFields(logrus.Fields{
		"version":  gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer": gl.GoStr(gl.GetString(gl.RENDERER)),
	}).Info("OpenGL initialised")

	var err error
	if r.lit, err = newProgram("lit", litVertexShader, litFragmentShader); err != nil {
		return nil, err
	}
	if r.depth, err = newProgram("depth", depthVertexShader, depthFragmentShader); err != nil {
		r.Destroy()
		return nil, err
	}
	if r.skyCube, err = newProgram("sky cube", skyVertexShader, skyCubeFragmentShader); err != nil {
		r.Destroy()
		return nil, err
	}
	if r.skyGradient, err = newProgram("sky gradient", skyVertexShader, skyGradientFragmentShader); err != nil {
		r.Destroy()
		return nil, err
	}
	if r.shadowMap, err = NewCascadeShadowMap(shadowMapSize, scene.MaxCascadeSplits); err != nil {
		r.Destroy()
		return nil, err
	}

	r.white = scene.NewTexture(scene.NewSolidImage("white", color.RGBA{R: 255, G: 255, B: 255, A: 255}))
	if err := UploadTexture(r.white); err != nil {
		r.Destroy()
		return nil, err
	}

	r.lit.use()
	r.lit.setInt("diffuseTex", int32(scene.UnitDiffuse))
	r.lit.setInt("detailTex1", int32(scene.UnitDetail1))
	r.lit.setInt("detailTex2", int32(scene.UnitDetail2))
	r.lit.setInt("detailTex3", int32(scene.UnitDetail3))
	r.lit.setInt("shadowMap", shadowUnit)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	return r, nil
}

// ShadowMapSize is the side of one cascade in texels.
func (r *Renderer) ShadowMapSize() int { return int(r.shadowMap.Size) }

func (r *Renderer) SetViewport(x, y, width, height int) {
	r.viewport = [4]int32{int32(x), int32(y), int32(width), int32(height)}
	gl.Viewport(r.viewport[0], r.viewport[1], r.viewport[2], r.viewport[3])
}

func (r *Renderer) ResetStats() { r.stats = Stats{} }

func (r *Renderer) Stats() Stats { return r.stats }

// BeginShadowPass binds the shadow framebuffer. Draw each cascade between
// BeginCascade and the next BeginCascade or EndShadowPass.
func (r *Renderer) BeginShadowPass() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.shadowMap.FBO)
	gl.Viewport(0, 0, r.shadowMap.Size, r.shadowMap.Size)
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(1.1, 4)
	r.depth.use()
}

// BeginCascade selects and clears cascade layer i.
func (r *Renderer) BeginCascade(i int, lightViewProj math.Mat4) {
	if i < 0 || i >= int(r.shadowMap.Layers) {
		return
	}
	r.shadowMap.bindLayer(i)
	r.depth.setMat4("lightViewProj", lightViewProj)
}

// DrawShadowCaster renders mesh into the current cascade layer.
func (r *Renderer) DrawShadowCaster(mesh *scene.Mesh, world math.Mat4) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}
	r.depth.setMat4("model", world)
	r.drawMesh(mesh, gpu)
	r.stats.ShadowBatches++
}

func (r *Renderer) EndShadowPass() {
	gl.Disable(gl.POLYGON_OFFSET_FILL)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(r.viewport[0], r.viewport[1], r.viewport[2], r.viewport[3])
}

// BeginFrame clears the viewport and uploads the per-frame uniforms.
func (r *Renderer) BeginFrame(p FrameParams) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(r.viewport[0], r.viewport[1], r.viewport[2], r.viewport[3])
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(r.viewport[0], r.viewport[1], r.viewport[2], r.viewport[3])
	gl.ClearColor(p.ClearColor.R, p.ClearColor.G, p.ClearColor.B, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Disable(gl.SCISSOR_TEST)

	l := r.lit
	l.use()
	l.setMat4("viewProj", p.ViewProj)
	l.setVec3("cameraPos", p.CameraPos)
	l.setVec3("cameraForward", p.CameraForward.Normalize())
	l.setRGB("ambientColor", p.Ambient)
	l.setRGB("fogColor", p.FogColor)
	l.setFloat("fogStart", p.FogStart)
	l.setFloat("fogEnd", p.FogEnd)

	gl.ActiveTexture(gl.TEXTURE0 + shadowUnit)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, r.shadowMap.DepthTex)

	if p.Light == nil {
		l.setVec3("lightDir", math.Vec3Down)
		l.setRGB("lightColor", core.ColorBlack)
		l.setFloat("lightSpecIntensity", 0)
		l.setInt("numCascades", 0)
		return
	}
	light := p.Light
	l.setVec3("lightDir", light.Direction.Normalize())
	l.setRGB("lightColor", light.Color)
	l.setFloat("lightSpecIntensity", light.SpecularIntensity)

	n := len(light.Cascades)
	if n > int(r.shadowMap.Layers) {
		n = int(r.shadowMap.Layers)
	}
	var splits [4]float32
	for i := 0; i < n; i++ {
		c := light.Cascades[i]
		splits[i] = c.Split.Far
		l.setMat4(fmt.Sprintf("cascadeViewProj[%d]", i), c.ViewProjection)
	}
	l.setInt("numCascades", int32(n))
	l.setVec4("cascadeSplits", splits)
	l.setVec2("shadowFade", math.Vec2{X: light.FadeStart, Y: light.FadeEnd})
	l.setFloat("shadowIntensity", light.ShadowIntensity)
	l.setFloat("depthBias", light.ConstantBias)
	l.setFloat("slopeBias", light.SlopeScaledBias)
}

// DrawBatch draws one mesh with the lit program. BeginFrame must have been
// called for this view.
func (r *Renderer) DrawBatch(b scene.Batch) {
	gpu := r.ensureUploaded(b.Mesh)
	if gpu == nil {
		return
	}
	mat := b.Material
	if mat == nil || mat.Technique.IsSkybox() {
		mat = r.defaultMaterial
	}

	l := r.lit
	l.use()
	l.setMat4("model", b.World)
	r.applyMaterial(mat)
	r.drawMesh(b.Mesh, gpu)

	r.stats.Batches++
	r.stats.Triangles += b.Mesh.TriangleCount()
}

func (r *Renderer) applyMaterial(mat *scene.Material) {
	l := r.lit
	tech := int32(techniqueDiffuse)
	if mat.Technique == scene.TechniqueTerrainBlend {
		tech = techniqueTerrain
	}
	l.setInt("technique", tech)
	l.setRGBA("matDiffuse", mat.DiffuseColor)
	l.setFloat("matSpecIntensity", mat.SpecularIntensity)
	power := mat.SpecularPower
	if power <= 0 {
		power = 1
	}
	l.setFloat("matSpecPower", power)
	l.setVec2("detailRepeat", mat.DetailRepeat)

	for unit := scene.TextureUnit(0); unit < scene.MaxMaterialUnits; unit++ {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, r.textureID(mat.Texture(unit)))
	}
}

// Destroy frees every GPU object the renderer created or uploaded.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	for _, t := range r.textures {
		DeleteTexture(t)
	}
	for _, c := range r.cubeMaps {
		DeleteCubeMap(c)
	}
	r.textures, r.cubeMaps = nil, nil
	if r.white != nil {
		DeleteTexture(r.white)
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
	}
	r.lit.destroy()
	r.depth.destroy()
	r.skyCube.destroy()
	r.skyGradient.destroy()
}
