package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
)

// CascadeShadowMap is a depth texture array with one layer per cascade,
// rendered through a single depth-only framebuffer.
type CascadeShadowMap struct {
	FBO      uint32
	DepthTex uint32
	Size     int32
	Layers   int32
}

// NewCascadeShadowMap allocates layers depth layers of size×size with
// hardware depth comparison enabled.
func NewCascadeShadowMap(size, layers int) (*CascadeShadowMap, error) {
	if size <= 4 || layers <= 0 {
		return nil, errors.Errorf("invalid shadow map %dx%d with %d layers", size, size, layers)
	}
	sm := &CascadeShadowMap{Size: int32(size), Layers: int32(layers)}

	gl.GenTextures(1, &sm.DepthTex)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, sm.DepthTex)
	gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, gl.DEPTH_COMPONENT32F,
		sm.Size, sm.Size, sm.Layers, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	// Outside the map reads as depth 1, which is lit.
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.GenFramebuffers(1, &sm.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, sm.DepthTex, 0, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		sm.Destroy()
		return nil, errors.Errorf("shadow framebuffer incomplete: status=0x%X", status)
	}
	return sm, nil
}

// bindLayer attaches layer i as the depth target and clears it.
func (sm *CascadeShadowMap) bindLayer(i int) {
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, sm.DepthTex, 0, int32(i))
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

func (sm *CascadeShadowMap) Destroy() {
	if sm.FBO != 0 {
		gl.DeleteFramebuffers(1, &sm.FBO)
		sm.FBO = 0
	}
	if sm.DepthTex != 0 {
		gl.DeleteTextures(1, &sm.DepthTex)
		sm.DepthTex = 0
	}
}
