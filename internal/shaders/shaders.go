// Package shaders provides the compiled vertex and fragment stages of the
// triangle pipeline.
package shaders

import (
	"os"
	"path/filepath"

	"github.com/gogpu/naga"
	"github.com/pkg/errors"

	"github.com/andewx/iwengine/internal/gfx"
	"github.com/andewx/iwengine/internal/logs"
)

const (
	VertexFile   = "vert.spv"
	FragmentFile = "frag.spv"
)

// triangleWGSL draws a clockwise triangle from the vertex index alone.
const triangleWGSL = `
struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> VertexOutput {
    var out: VertexOutput;

    var pos = array<vec2<f32>, 3>(
        vec2<f32>(0.0, -0.5),
        vec2<f32>(0.5, 0.5),
        vec2<f32>(-0.5, 0.5)
    );
    var col = array<vec3<f32>, 3>(
        vec3<f32>(1.0, 0.0, 0.0),
        vec3<f32>(0.0, 1.0, 0.0),
        vec3<f32>(0.0, 0.0, 1.0)
    );

    out.position = vec4<f32>(pos[idx], 0.0, 1.0);
    out.color = vec4<f32>(col[idx], 1.0);
    return out;
}

@fragment
fn fs_main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    return color;
}
`

// Load reads vert.spv and frag.spv from dir, both entered at "main". When
// neither file exists the built-in triangle is compiled instead.
func Load(dir string) (gfx.ShaderSource, error) {
	vertex, vErr := os.ReadFile(filepath.Join(dir, VertexFile))
	fragment, fErr := os.ReadFile(filepath.Join(dir, FragmentFile))
	switch {
	case vErr == nil && fErr == nil:
		logs.Info.Printf("shaders: loaded %s and %s from %s", VertexFile, FragmentFile, dir)
		return gfx.ShaderSource{
			Vertex:        vertex,
			Fragment:      fragment,
			VertexEntry:   "main",
			FragmentEntry: "main",
		}, nil
	case os.IsNotExist(vErr) && os.IsNotExist(fErr):
		logs.Info.Printf("shaders: no compiled shaders in %s, using the built-in triangle", dir)
		return Builtin()
	case vErr != nil && !os.IsNotExist(vErr):
		return gfx.ShaderSource{}, errors.Wrap(vErr, "read vertex shader")
	case fErr != nil && !os.IsNotExist(fErr):
		return gfx.ShaderSource{}, errors.Wrap(fErr, "read fragment shader")
	}
	return gfx.ShaderSource{}, errors.Errorf("shaders: %s needs both %s and %s", dir, VertexFile, FragmentFile)
}

// Builtin compiles the triangle shader to SPIR-V. One module carries both
// entry points.
func Builtin() (gfx.ShaderSource, error) {
	code, err := naga.Compile(triangleWGSL)
	if err != nil {
		return gfx.ShaderSource{}, errors.Wrap(err, "compile built-in shader")
	}
	return gfx.ShaderSource{
		Vertex:        code,
		Fragment:      code,
		VertexEntry:   "vs_main",
		FragmentEntry: "fs_main",
	}, nil
}
