package memory

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// overlayVertexShader positions interleaved (x, y, r, g, b, a) vertices
// through the world-to-NDC transform.
const overlayVertexShader = `
#version 330 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uTransform;

out vec4 vColor;

void main() {
    gl_Position = uTransform * vec4(aPos, 0.0, 1.0);
    vColor = aColor;
}
` + "\x00"

// overlayFragmentShader forwards the vertex color; the body fill is
// translucent and relies on alpha blending.
const overlayFragmentShader = `
#version 330 core
in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = vColor;
}
` + "\x00"

// program is the linked overlay shader program.
type program struct {
	id         uint32
	uTransform int32
}

func newProgram() (*program, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, overlayVertexShader)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(gl.FRAGMENT_SHADER, overlayFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	p := &program{id: gl.CreateProgram()}
	gl.AttachShader(p.id, vs)
	gl.AttachShader(p.id, fs)
	gl.LinkProgram(p.id)

	var status int32
	gl.GetProgramiv(p.id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(p.id, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(p.id)
		return nil, fmt.Errorf("linking overlay program: %s", msg)
	}
	p.uTransform = gl.GetUniformLocation(p.id, gl.Str("uTransform\x00"))
	gpuLogger.Printf("linked overlay program %d", p.id)
	return p, nil
}

// use binds the program and sets the transform for the next draw.
func (p *program) use(transform [16]float32) {
	gl.UseProgram(p.id)
	gl.UniformMatrix4fv(p.uTransform, 1, false, &transform[0])
}

func (p *program) delete() {
	gl.DeleteProgram(p.id)
}

func compileShader(kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		msg := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compiling: %s", msg)
	}
	return shader, nil
}

// infoLog reads the compile or link log of a shader or program object.
func infoLog(id uint32, getiv func(uint32, uint32, *int32), getlog func(uint32, int32, *int32, *uint8)) string {
	var length int32
	getiv(id, gl.INFO_LOG_LENGTH, &length)
	text := strings.Repeat("\x00", int(length+1))
	getlog(id, length, nil, gl.Str(text))
	return strings.TrimRight(text, "\x00")
}
