//go:build gpu

package compute

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// The shader is a straight port of the CPU kernel in cpu.go. The simplex
// permutation table is built host-side with the same LCG scramble the CPU
// noise library uses and uploaded as an SSBO, so both backends sample the
// identical lattice; the remaining difference is float32 rounding, which
// the validation harness bounds at 1e-4.
const elevationShader = `
#version 430 core

layout(local_size_x = 64, local_size_y = 1, local_size_z = 1) in;

layout(std430, binding = 0) writeonly buffer Elevations {
    float elev[];
};

layout(std430, binding = 1) readonly buffer PermTable {
    int perm[];
};

// One landmass seed: xy = center, z = strength, w = radius.
layout(std430, binding = 2) readonly buffer Continents {
    vec4 continents[];
};

uniform uint cols;
uniform uint rows;
uniform float hexSize;
uniform int octaves;
uniform float persistence;
uniform float lacunarity;
uniform float frequency;
uniform float ridgeScale;
uniform float falloffStart;
uniform float halfWidth;
uniform float halfHeight;
uniform int continentCount;

const float SQRT3 = 1.7320508075688772;
const float STRETCH_2D = -0.211324865405187;
const float SQUISH_2D = 0.366025403784439;
const float NORM_2D = 47.0;

const float GRADIENTS_2D[16] = float[16](
    5.0, 2.0,  2.0, 5.0,  2.0, -5.0,  5.0, -2.0,
    -5.0, 2.0, -2.0, 5.0, -2.0, -5.0, -5.0, -2.0
);

float extrapolate2(int xsb, int ysb, float dx, float dy) {
    int index = perm[(perm[xsb & 0xFF] + ysb) & 0xFF] & 0x0E;
    return GRADIENTS_2D[index] * dx + GRADIENTS_2D[index + 1] * dy;
}

// 2D OpenSimplex, normalized to [0,1].
float noise2(float x, float y) {
    float stretchOffset = (x + y) * STRETCH_2D;
    float xs = x + stretchOffset;
    float ys = y + stretchOffset;

    int xsb = int(floor(xs));
    int ysb = int(floor(ys));

    float squishOffset = float(xsb + ysb) * SQUISH_2D;
    float xb = float(xsb) + squishOffset;
    float yb = float(ysb) + squishOffset;

    float xins = xs - float(xsb);
    float yins = ys - float(ysb);
    float inSum = xins + yins;

    float dx0 = x - xb;
    float dy0 = y - yb;

    float value = 0.0;

    float dx1 = dx0 - 1.0 - SQUISH_2D;
    float dy1 = dy0 - SQUISH_2D;
    float attn1 = 2.0 - dx1 * dx1 - dy1 * dy1;
    if (attn1 > 0.0) {
        attn1 *= attn1;
        value += attn1 * attn1 * extrapolate2(xsb + 1, ysb, dx1, dy1);
    }

    float dx2 = dx0 - SQUISH_2D;
    float dy2 = dy0 - 1.0 - SQUISH_2D;
    float attn2 = 2.0 - dx2 * dx2 - dy2 * dy2;
    if (attn2 > 0.0) {
        attn2 *= attn2;
        value += attn2 * attn2 * extrapolate2(xsb, ysb + 1, dx2, dy2);
    }

    float dxExt;
    float dyExt;
    int xsvExt;
    int ysvExt;
    if (inSum <= 1.0) {
        float zins = 1.0 - inSum;
        if (zins > xins || zins > yins) {
            if (xins > yins) {
                xsvExt = xsb + 1;
                ysvExt = ysb - 1;
                dxExt = dx0 - 1.0;
                dyExt = dy0 + 1.0;
            } else {
                xsvExt = xsb - 1;
                ysvExt = ysb + 1;
                dxExt = dx0 + 1.0;
                dyExt = dy0 - 1.0;
            }
        } else {
            xsvExt = xsb + 1;
            ysvExt = ysb + 1;
            dxExt = dx0 - 1.0 - 2.0 * SQUISH_2D;
            dyExt = dy0 - 1.0 - 2.0 * SQUISH_2D;
        }
    } else {
        float zins = 2.0 - inSum;
        if (zins < xins || zins < yins) {
            if (xins > yins) {
                xsvExt = xsb + 2;
                ysvExt = ysb;
                dxExt = dx0 - 2.0 - 2.0 * SQUISH_2D;
                dyExt = dy0 - 2.0 * SQUISH_2D;
            } else {
                xsvExt = xsb;
                ysvExt = ysb + 2;
                dxExt = dx0 - 2.0 * SQUISH_2D;
                dyExt = dy0 - 2.0 - 2.0 * SQUISH_2D;
            }
        } else {
            dxExt = dx0;
            dyExt = dy0;
            xsvExt = xsb;
            ysvExt = ysb;
        }
        xsb += 1;
        ysb += 1;
        dx0 = dx0 - 1.0 - 2.0 * SQUISH_2D;
        dy0 = dy0 - 1.0 - 2.0 * SQUISH_2D;
    }

    float attn0 = 2.0 - dx0 * dx0 - dy0 * dy0;
    if (attn0 > 0.0) {
        attn0 *= attn0;
        value += attn0 * attn0 * extrapolate2(xsb, ysb, dx0, dy0);
    }

    float attnExt = 2.0 - dxExt * dxExt - dyExt * dyExt;
    if (attnExt > 0.0) {
        attnExt *= attnExt;
        value += attnExt * attnExt * extrapolate2(xsvExt, ysvExt, dxExt, dyExt);
    }

    return (value / NORM_2D + 1.0) / 2.0;
}

float smoothstepf(float edge0, float edge1, float x) {
    float t = clamp((x - edge0) / (edge1 - edge0), 0.0, 1.0);
    return t * t * (3.0 - 2.0 * t);
}

float fbm(float x, float y) {
    float total = 0.0;
    float maxAmp = 0.0;
    float amp = 1.0;
    float freq = frequency;
    for (int o = 0; o < octaves; o++) {
        float a = amp;
        if (o >= 3) {
            a *= ridgeScale;
        }
        total += noise2(x * freq, y * freq) * a;
        maxAmp += a;
        amp *= persistence;
        freq *= lacunarity;
    }
    return total / maxAmp;
}

float continentInfluence(float px, float py) {
    float best = 0.0;
    for (int i = 0; i < continentCount; i++) {
        vec4 c = continents[i];
        float d = distance(vec2(px, py), c.xy);
        float r = c.w;

        float warpX = noise2(px * 0.005, py * 0.005) - 0.5;
        float warpY = noise2(px * 0.005 + 137.0, py * 0.005 + 137.0) - 0.5;
        d += (warpX + warpY) * r * 0.3;

        float infl = (1.0 - smoothstepf(r * 0.4, r * 1.2, d)) * c.z;
        best = max(best, infl);
    }
    return best;
}

void main() {
    uint id = gl_GlobalInvocationID.x;
    if (id >= cols * rows) {
        return;
    }

    uint col = id % cols;
    uint row = id / cols;

    float yOffset = (col % 2u == 1u) ? hexSize * SQRT3 / 2.0 : 0.0;
    float px = (float(col) - float(cols) / 2.0) * hexSize * 1.5;
    float py = (float(row) - float(rows) / 2.0) * hexSize * SQRT3 + yOffset;

    float scale = 1.0 / hexSize;
    float base = fbm(px * scale, py * scale);
    float continent = continentInfluence(px, py);

    float nd = max(abs(px) / halfWidth, abs(py) / halfHeight);
    float edge = 1.0 - smoothstepf(falloffStart, 1.0, nd);

    elev[id] = clamp(base * 0.4 + continent * 0.4 + edge * 0.2, 0.0, 1.0);
}
`

const gpuWorkgroupSize = 64

// GPUBackend dispatches the elevation kernel as a GL 4.3 compute shader.
// The caller must have made a GL context current on some thread before
// constructing the backend; Elevation pins itself to the calling thread
// for the duration of the dispatch.
type GPUBackend struct {
	program       uint32
	outputSSBO    uint32
	permSSBO      uint32
	continentSSBO uint32
}

// Probe initializes the GL bindings and checks the compute limits the
// kernel needs.
func Probe() Capability {
	if err := gl.Init(); err != nil {
		return Capability{
			Status:  StatusUnavailable,
			Reason:  fmt.Sprintf("opengl init: %v", err),
			Backend: "cpu",
		}
	}

	var maxInvocations int32
	gl.GetIntegerv(gl.MAX_COMPUTE_WORK_GROUP_INVOCATIONS, &maxInvocations)
	var maxSSBO int32
	gl.GetIntegerv(gl.MAX_SHADER_STORAGE_BLOCK_SIZE, &maxSSBO)

	cap := Capability{
		Status:           StatusAvailable,
		Backend:          "gpu",
		MaxWorkgroupSize: int(maxInvocations),
		MaxBufferBytes:   int64(maxSSBO),
	}
	if cap.MaxWorkgroupSize < minWorkgroupSize {
		cap.Status = StatusUnavailable
		cap.Reason = fmt.Sprintf("workgroup size %d below minimum %d", cap.MaxWorkgroupSize, minWorkgroupSize)
		cap.Backend = "cpu"
	} else if cap.MaxBufferBytes < minBufferBytes {
		cap.Status = StatusDegraded
		cap.Reason = fmt.Sprintf("storage block size %d below %d, large maps fall back", cap.MaxBufferBytes, minBufferBytes)
	}
	return cap
}

// NewGPUBackend compiles the kernel and allocates its buffers.
func NewGPUBackend() (Backend, error) {
	program, err := compileComputeShader(elevationShader)
	if err != nil {
		return nil, fmt.Errorf("compile elevation shader: %w", err)
	}

	b := &GPUBackend{program: program}
	gl.GenBuffers(1, &b.outputSSBO)
	gl.GenBuffers(1, &b.permSSBO)
	gl.GenBuffers(1, &b.continentSSBO)
	return b, nil
}

func (b *GPUBackend) Name() string { return "gpu" }

// Elevation uploads the permutation and continent tables, dispatches the
// kernel, then polls a fence so cancellation is observed while the GPU
// works. Readback happens only after the fence signals.
func (b *GPUBackend) Elevation(ctx context.Context, req Request) (Result, error) {
	if err := validateRequest(req); err != nil {
		return Result{}, err
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	start := time.Now()
	n := req.Dims.CellCount()

	perm := buildPermTable(int64(req.Seed))
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.permSSBO)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, len(perm)*4, gl.Ptr(perm), gl.STATIC_DRAW)

	continents := make([]float32, 0, len(req.Continents)*4)
	for _, c := range req.Continents {
		continents = append(continents, c.X, c.Y, c.Strength, c.Radius)
	}
	if len(continents) == 0 {
		continents = []float32{0, 0, 0, 1} // binding must be non-empty
	}
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.continentSSBO)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, len(continents)*4, gl.Ptr(continents), gl.STATIC_DRAW)

	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.outputSSBO)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, n*4, nil, gl.DYNAMIC_READ)

	gl.UseProgram(b.program)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 0, b.outputSSBO)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, b.permSSBO)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 2, b.continentSSBO)

	uniform1ui(b.program, "cols", req.Dims.Cols)
	uniform1ui(b.program, "rows", req.Dims.Rows)
	uniform1f(b.program, "hexSize", float32(req.Dims.HexSize))
	uniform1i(b.program, "octaves", int32(req.Octaves))
	uniform1f(b.program, "persistence", float32(req.Persistence))
	uniform1f(b.program, "lacunarity", float32(req.Lacunarity))
	uniform1f(b.program, "frequency", float32(req.Frequency))
	uniform1f(b.program, "ridgeScale", float32(req.RidgeScale))
	uniform1f(b.program, "falloffStart", float32(req.FalloffStart))
	uniform1f(b.program, "halfWidth", float32(req.Dims.Bounds.MaxX))
	uniform1f(b.program, "halfHeight", float32(req.Dims.Bounds.MaxY))
	uniform1i(b.program, "continentCount", int32(len(req.Continents)))

	groups := (n + gpuWorkgroupSize - 1) / gpuWorkgroupSize
	gl.DispatchCompute(uint32(groups), 1, 1)
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT)

	fence := gl.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0)
	defer gl.DeleteSync(fence)
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		status := gl.ClientWaitSync(fence, gl.SYNC_FLUSH_COMMANDS_BIT, uint64(time.Millisecond))
		if status == gl.ALREADY_SIGNALED || status == gl.CONDITION_SATISFIED {
			break
		}
		if status == gl.WAIT_FAILED {
			return Result{}, fmt.Errorf("fence wait failed: gl error %#x", gl.GetError())
		}
	}

	out := make([]float32, n)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.outputSSBO)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, n*4, gl.Ptr(out))

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		return Result{}, fmt.Errorf("gl error %#x during elevation dispatch", glErr)
	}
	return Result{Elevations: out, Backend: b.Name(), Elapsed: time.Since(start)}, nil
}

// Release frees the GL objects.
func (b *GPUBackend) Release() {
	if b.program != 0 {
		gl.DeleteProgram(b.program)
	}
	gl.DeleteBuffers(1, &b.outputSSBO)
	gl.DeleteBuffers(1, &b.permSSBO)
	gl.DeleteBuffers(1, &b.continentSSBO)
}

// buildPermTable reproduces the permutation scramble of the CPU noise
// library for the given seed: three LCG warm-up steps, then a
// Fisher-Yates driven by the same LCG.
func buildPermTable(seed int64) []int32 {
	perm := make([]int32, 256)
	source := make([]int32, 256)
	for i := range source {
		source[i] = int32(i)
	}
	seed = seed*6364136223846793005 + 1442695040888963407
	seed = seed*6364136223846793005 + 1442695040888963407
	seed = seed*6364136223846793005 + 1442695040888963407
	for i := 255; i >= 0; i-- {
		seed = seed*6364136223846793005 + 1442695040888963407
		r := int((seed + 31) % int64(i+1))
		if r < 0 {
			r += i + 1
		}
		perm[i] = source[r]
		source[r] = source[i]
	}
	return perm
}

func compileComputeShader(source string) (uint32, error) {
	shader := gl.CreateShader(gl.COMPUTE_SHADER)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("shader compile: %v", log)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, shader)
	gl.LinkProgram(program)
	gl.DeleteShader(shader)

	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("program link: %v", log)
	}
	return program, nil
}

func uniform1f(program uint32, name string, v float32) {
	gl.Uniform1f(gl.GetUniformLocation(program, gl.Str(name+"\x00")), v)
}

func uniform1i(program uint32, name string, v int32) {
	gl.Uniform1i(gl.GetUniformLocation(program, gl.Str(name+"\x00")), v)
}

func uniform1ui(program uint32, name string, v uint32) {
	gl.Uniform1ui(gl.GetUniformLocation(program, gl.Str(name+"\x00")), v)
}
