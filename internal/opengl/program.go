package opengl

import (
	_ "embed"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"terrain-sample/core"
	"terrain-sample/math"
)

var (
	//go:embed shaders/lit.vert
	litVertexShader string
	//go:embed shaders/lit.frag
	litFragmentShader string
	//go:embed shaders/depth.vert
	depthVertexShader string
	//go:embed shaders/depth.frag
	depthFragmentShader string
	//go:embed shaders/sky.vert
	skyVertexShader string
	//go:embed shaders/sky_cube.frag
	skyCubeFragmentShader string
	//go:embed shaders/sky_gradient.frag
	skyGradientFragmentShader string
)

// program is a linked shader program with its uniform locations looked up
// on first use.
type program struct {
	name string
	id   uint32
	locs map[string]int32
}

func newProgram(name, vertSrc, fragSrc string) (*program, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: vertex", name)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return nil, errors.Wrapf(err, "%s: fragment", name)
	}

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(id, logLen, nil, gl.Str(log))
		gl.DeleteProgram(id)
		return nil, errors.Errorf("%s: link failed: %s", name, strings.TrimRight(log, "\x00"))
	}
	return &program{name: name, id: id, locs: make(map[string]int32)}, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, errors.Errorf("compile failed: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (p *program) use() { gl.UseProgram(p.id) }

// loc returns -1 for uniforms the compiler optimised away; gl.Uniform*
// ignores that location.
func (p *program) loc(name string) int32 {
	if l, ok := p.locs[name]; ok {
		return l
	}
	l := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locs[name] = l
	return l
}

func (p *program) setInt(name string, v int32) { gl.Uniform1i(p.loc(name), v) }

func (p *program) setFloat(name string, v float32) { gl.Uniform1f(p.loc(name), v) }

func (p *program) setVec2(name string, v math.Vec2) { gl.Uniform2f(p.loc(name), v.X, v.Y) }

func (p *program) setVec3(name string, v math.Vec3) { gl.Uniform3f(p.loc(name), v.X, v.Y, v.Z) }

func (p *program) setRGB(name string, c core.Color) { gl.Uniform3f(p.loc(name), c.R, c.G, c.B) }

func (p *program) setRGBA(name string, c core.Color) {
	gl.Uniform4f(p.loc(name), c.R, c.G, c.B, c.A)
}

func (p *program) setVec4(name string, v [4]float32) {
	gl.Uniform4f(p.loc(name), v[0], v[1], v[2], v[3])
}

// setMat4 uploads m untransposed: the row-vector layout in memory is what
// GLSL reads as column-major, so shaders multiply matrix * vector.
func (p *program) setMat4(name string, m math.Mat4) {
	gl.UniformMatrix4fv(p.loc(name), 1, false, &m[0][0])
}

func (p *program) destroy() {
	if p != nil && p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
