package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"terrain-sample/math"
	"terrain-sample/scene"
)

// DrawSkybox draws the skybox model around the camera. The view's
// translation is dropped and the vertex shader pins every fragment to the far
// plane, so the sky is drawn behind everything already in the depth buffer.
// A cube sky whose map cannot be uploaded is drawn as the gradient sky.
func (r *Renderer) DrawSkybox(sky *scene.Skybox, view, proj math.Mat4) {
	if sky == nil || sky.Model == nil {
		return
	}
	mat := sky.Material
	if mat == nil || !mat.Technique.IsSkybox() {
		mat = r.gradientSky
	}

	prog := r.skyGradient
	var cubeID uint32
	if mat.Technique == scene.TechniqueSkyboxCube {
		if id, ok := r.cubeMapID(mat.CubeMap); ok {
			prog, cubeID = r.skyCube, id
		} else {
			mat = r.gradientSky
		}
	}

	rotOnly := view
	rotOnly[3][0], rotOnly[3][1], rotOnly[3][2] = 0, 0, 0

	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(false)
	prog.use()
	prog.setMat4("skyViewProj", rotOnly.Mul(proj))
	if cubeID != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, cubeID)
		prog.setInt("skyTex", 0)
		prog.setRGBA("matDiffuse", mat.DiffuseColor)
	} else {
		prog.setRGB("zenith", mat.Zenith)
		prog.setRGB("horizon", mat.Horizon)
		prog.setRGB("ground", mat.Ground)
	}

	for _, mesh := range sky.Model.Meshes {
		if gpu := r.ensureUploaded(mesh); gpu != nil {
			r.drawMesh(mesh, gpu)
			r.stats.Batches++
		}
	}

	if cubeID != 0 {
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	}
	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
}
