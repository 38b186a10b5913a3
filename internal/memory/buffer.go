// Package memory owns the GPU resources for the overlay: a single vertex
// buffer that grows on demand and the shader program that draws it.
//
// All methods must be called on the thread holding the GL context.
package memory

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const (
	floatsPerVertex = 6 // x, y, r, g, b, a
	bytesPerVertex  = floatsPerVertex * 4
	initialVertices = 256 // enough for the rectangle and its handles
)

var gpuLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("EXTENT_DEBUG_GPU") == "1" {
		gpuLogger = log.New(os.Stdout, "[gpu] ", log.Ltime|log.Lmsgprefix)
	}
}

// Stats tracks buffer usage.
type Stats struct {
	Vertices         int   // vertices currently uploaded
	CapacityVertices int   // vertices the buffer can hold
	GPUBytes         int64 // bytes allocated on the GPU
	Uploads          int64
	GrowthEvents     int64
	LastGrowthTimeUs float64
}

// VertexBuffer is a VAO/VBO pair holding interleaved overlay vertices.
type VertexBuffer struct {
	vao, vbo uint32
	program  *program
	stats    Stats
}

// NewVertexBuffer allocates the buffer and compiles the shaders. It also
// enables alpha blending for the translucent body fill.
func NewVertexBuffer() (*VertexBuffer, error) {
	p, err := newProgram()
	if err != nil {
		return nil, err
	}
	vb := &VertexBuffer{program: p}
	gl.GenVertexArrays(1, &vb.vao)
	vb.allocate(initialVertices)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return vb, nil
}

// allocate replaces the VBO with an empty one of the given capacity and
// rebinds the vertex attributes.
func (vb *VertexBuffer) allocate(capacity int) {
	if vb.vbo != 0 {
		gl.DeleteBuffers(1, &vb.vbo)
	}
	gl.GenBuffers(1, &vb.vbo)

	gl.BindVertexArray(vb.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*bytesPerVertex, nil, gl.DYNAMIC_DRAW)

	// Position attribute (location = 0): 2 floats.
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, bytesPerVertex, gl.PtrOffset(0))
	// Color attribute (location = 1): 4 floats.
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, bytesPerVertex, gl.PtrOffset(8))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	vb.stats.CapacityVertices = capacity
	vb.stats.GPUBytes = int64(capacity * bytesPerVertex)
}

// grownCapacity doubles current until it fits needed.
func grownCapacity(current, needed int) int {
	if current <= 0 {
		current = initialVertices
	}
	for current < needed {
		current *= 2
	}
	return current
}

// Upload replaces the buffer contents with vertices, growing the buffer if
// needed.
func (vb *VertexBuffer) Upload(vertices []float32) error {
	if len(vertices)%floatsPerVertex != 0 {
		return fmt.Errorf("vertex data must be multiple of %d floats (x,y,r,g,b,a), got %d", floatsPerVertex, len(vertices))
	}
	count := len(vertices) / floatsPerVertex
	if count > vb.stats.CapacityVertices {
		startTime := time.Now()
		capacity := grownCapacity(vb.stats.CapacityVertices, count)
		vb.allocate(capacity)
		vb.stats.GrowthEvents++
		vb.stats.LastGrowthTimeUs = float64(time.Since(startTime).Microseconds())
		gpuLogger.Printf("grew vertex buffer to %d vertices (%d bytes)", capacity, vb.stats.GPUBytes)
	}

	if count > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, vb.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
		gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	}
	vb.stats.Vertices = count
	vb.stats.Uploads++
	return nil
}

// Draw renders the uploaded triangles with the given world-to-NDC transform.
func (vb *VertexBuffer) Draw(transform [16]float32) error {
	if vb.stats.Vertices == 0 {
		return nil
	}
	vb.program.use(transform)
	gl.BindVertexArray(vb.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(vb.stats.Vertices))
	gl.BindVertexArray(0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

// Stats returns current buffer statistics.
func (vb *VertexBuffer) Stats() Stats {
	return vb.stats
}

// Cleanup releases all OpenGL resources.
func (vb *VertexBuffer) Cleanup() {
	gl.DeleteBuffers(1, &vb.vbo)
	gl.DeleteVertexArrays(1, &vb.vao)
	vb.program.delete()
}
