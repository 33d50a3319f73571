package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"terrain-sample/scene"
)

// UploadTexture uploads tex to the GPU with mipmaps and repeat wrapping and
// stores the handle in tex.GLID. The GL context must be current.
func UploadTexture(tex *scene.Texture) error {
	if tex == nil || tex.Image == nil {
		return errors.New("nil texture")
	}
	img := tex.Image
	if len(img.Pixels) < img.Width*img.Height*4 || img.Width == 0 || img.Height == 0 {
		return errors.Errorf("texture %q has no pixel data", tex.Name)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Width), int32(img.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pixels[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	tex.GLID = id
	return nil
}

// UploadCubeMap uploads the six faces of cube. Faces must be square and of
// one size.
func UploadCubeMap(cube *scene.CubeMap) error {
	if cube == nil {
		return errors.New("nil cube map")
	}
	if err := cube.Validate(); err != nil {
		return err
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for i, face := range cube.Faces {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA,
			int32(face.Width), int32(face.Height), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&face.Pixels[0]))
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	cube.GLID = id
	return nil
}

// DeleteTexture frees an uploaded texture and zeroes its GLID.
func DeleteTexture(tex *scene.Texture) {
	if tex == nil || tex.GLID == 0 {
		return
	}
	gl.DeleteTextures(1, &tex.GLID)
	tex.GLID = 0
}

func DeleteCubeMap(cube *scene.CubeMap) {
	if cube == nil || cube.GLID == 0 {
		return
	}
	gl.DeleteTextures(1, &cube.GLID)
	cube.GLID = 0
}

// textureID uploads tex on first use. A texture that fails to upload is
// logged once and replaced by white from then on.
func (r *Renderer) textureID(tex *scene.Texture) uint32 {
	if tex == nil {
		return r.white.GLID
	}
	if tex.GLID != 0 {
		return tex.GLID
	}
	if r.failed[tex] {
		return r.white.GLID
	}
	if err := UploadTexture(tex); err != nil {
		r.log.WithError(err).WithField("texture", tex.Name).Warn("texture upload failed")
		r.failed[tex] = true
		return r.white.GLID
	}
	r.textures = append(r.textures, tex)
	return tex.GLID
}

func (r *Renderer) cubeMapID(cube *scene.CubeMap) (uint32, bool) {
	if cube == nil {
		return 0, false
	}
	if cube.GLID != 0 {
		return cube.GLID, true
	}
	if r.failedCubes[cube] {
		return 0, false
	}
	if err := UploadCubeMap(cube); err != nil {
		r.log.WithError(err).WithField("cubemap", cube.Name).Warn("cube map upload failed")
		r.failedCubes[cube] = true
		return 0, false
	}
	r.cubeMaps = append(r.cubeMaps, cube)
	return cube.GLID, true
}
