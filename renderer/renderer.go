// Package renderer draws scenes through viewports on the OpenGL backend.
package renderer

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"terrain-sample/internal/opengl"
	"terrain-sample/scene"
)

// Stats sums the work of the last Render over all viewports.
type Stats struct {
	Viewports     int
	Batches       int
	Triangles     int
	ShadowBatches int
	Culled        int
}

// RenderEngine is the high-level renderer that drives the OpenGL backend.
type RenderEngine struct {
	gl  *opengl.Renderer
	log *logrus.Entry

	ShadowsEnabled bool

	viewports     []*Viewport
	width, height int
	stats         Stats
}

// NewRenderEngine creates the GL backend for a framebuffer of width×height.
// The GL context must be current on the calling thread.
func NewRenderEngine(width, height, shadowMapSize int, log *logrus.Entry) (*RenderEngine, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("subsystem", "renderer")

	shadows := shadowMapSize > 0
	if !shadows {
		// The backend always needs a map to bind; keep it tiny.
		shadowMapSize = 16
	}
	glRenderer, err := opengl.NewRenderer(shadowMapSize, log)
	if err != nil {
		return nil, errors.Wrap(err, "create OpenGL renderer")
	}

	re := &RenderEngine{
		gl:             glRenderer,
		log:            log,
		ShadowsEnabled: shadows,
	}
	re.Resize(width, height)
	log.WithFields(logrus.Fields{
		"size":       [2]int{width, height},
		"shadow_map": shadowMapSize,
	}).Info("render engine initialised")
	return re, nil
}

// SetViewport installs vp at index, growing the list as needed. A nil vp
// clears the slot.
func (re *RenderEngine) SetViewport(index int, vp *Viewport) {
	if index < 0 {
		return
	}
	for len(re.viewports) <= index {
		re.viewports = append(re.viewports, nil)
	}
	re.viewports[index] = vp
}

func (re *RenderEngine) Viewport(index int) *Viewport {
	if index < 0 || index >= len(re.viewports) {
		return nil
	}
	return re.viewports[index]
}

func (re *RenderEngine) NumViewports() int { return len(re.viewports) }

// Resize records the new framebuffer size. Camera aspect ratios follow on the
// next Render.
func (re *RenderEngine) Resize(width, height int) {
	re.width, re.height = width, height
	re.gl.SetViewport(0, 0, width, height)
}

// Update advances every distinct scene shown by a viewport and refreshes its
// octree.
func (re *RenderEngine) Update(timeStep float32) {
	seen := make(map[*scene.Scene]bool)
	for _, vp := range re.viewports {
		if vp == nil || vp.Scene == nil || seen[vp.Scene] {
			continue
		}
		seen[vp.Scene] = true
		vp.Scene.Update(timeStep)
	}
}

// Render draws every viewport in index order.
func (re *RenderEngine) Render() error {
	if re.width <= 0 || re.height <= 0 {
		return nil
	}
	re.gl.ResetStats()
	re.stats = Stats{}

	mapSize := 0
	if re.ShadowsEnabled {
		mapSize = re.gl.ShadowMapSize()
	}
	for _, vp := range re.viewports {
		plan, ok := planView(vp, re.width, re.height, mapSize)
		if !ok {
			continue
		}
		re.drawView(&plan)
		re.stats.Viewports++
		re.stats.Culled += plan.culled
	}

	gs := re.gl.Stats()
	re.stats.Batches = gs.Batches
	re.stats.Triangles = gs.Triangles
	re.stats.ShadowBatches = gs.ShadowBatches
	re.gl.SetViewport(0, 0, re.width, re.height)
	return nil
}

func (re *RenderEngine) drawView(p *viewPlan) {
	re.gl.SetViewport(p.rect.Min.X, p.rect.Min.Y, p.rect.Dx(), p.rect.Dy())

	if len(p.cascades) > 0 {
		re.gl.BeginShadowPass()
		for i, c := range p.cascades {
			re.gl.BeginCascade(i, c.ViewProjection)
			for _, b := range p.casters[i] {
				re.gl.DrawShadowCaster(b.Mesh, b.World)
			}
		}
		re.gl.EndShadowPass()
	}

	re.gl.BeginFrame(p.frame)
	for _, b := range p.batches {
		re.gl.DrawBatch(b)
	}
	// Drawn last so the depth test rejects every covered sky fragment.
	re.gl.DrawSkybox(p.sky, p.view, p.proj)
}

// Stats returns counters from the most recent Render call.
func (re *RenderEngine) Stats() Stats { return re.stats }

// ReleaseScene frees the GPU copies of every mesh in s.
func (re *RenderEngine) ReleaseScene(s *scene.Scene) {
	if s == nil {
		return
	}
	for _, d := range s.Drawables() {
		for _, b := range d.Batches() {
			re.gl.ReleaseMesh(b.Mesh)
		}
	}
	if sky := s.Skybox(); sky != nil && sky.Model != nil {
		for _, m := range sky.Model.Meshes {
			re.gl.ReleaseMesh(m)
		}
	}
}

func (re *RenderEngine) Destroy() {
	re.viewports = nil
	re.gl.Destroy()
}
