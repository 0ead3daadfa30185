package nn

// remapProgramName keys the remap program in the engine's cache; all
// ZeroPadding3D instances sharing an engine share the compiled pipeline.
const remapProgramName = "zeropad3d_remap"

// remapShader gathers each output texel from the source texture through
// the index map: a non-negative entry is the source texel offset, the
// sentinel -1 means the texel lies in the padded region and becomes zero.
// Params carries the output grid geometry for the invocation-to-offset
// arithmetic.
const remapShader = `
struct Params {
    rows: u32,
    cols: u32,
}

@group(0) @binding(0) var<storage, read> src: array<f32>;
@group(0) @binding(1) var<storage, read> index_map: array<i32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(16, 16)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let row = global_id.y;
    let col = global_id.x;
    if (row >= params.rows || col >= params.cols) {
        return;
    }
    let idx = row * params.cols + col;
    let source = index_map[idx];
    if (source < 0) {
        result[idx] = 0.0;
    } else {
        result[idx] = src[u32(source)];
    }
}
`
