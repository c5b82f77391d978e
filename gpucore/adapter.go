package gpucore

// GPUAdapter abstracts over a concrete GPU backend (gogpu/wgpu, a
// software fallback, ...) so that HybridPipeline can drive buffer,
// texture, and shader lifecycles without depending on any one backend's
// package. Each resource-creating method returns an opaque ID from this
// package; the adapter implementation owns the mapping from ID to its
// own backend handle.
type GPUAdapter interface {
	// SupportsCompute reports whether this adapter can run the
	// coarse/fine stages as compute shaders. When false,
	// HybridPipeline.UseGPU reports false regardless of PipelineConfig.
	SupportsCompute() bool

	// CreateBuffer allocates a GPU buffer and returns its ID.
	CreateBuffer(size uint64, usage BufferUsage, label string) (BufferID, error)

	// DestroyBuffer releases a buffer obtained from CreateBuffer.
	DestroyBuffer(id BufferID)

	// WriteBuffer uploads data into an existing buffer at the given
	// byte offset.
	WriteBuffer(id BufferID, offset uint64, data []byte) error

	// CreateTexture allocates a GPU texture and returns its ID.
	CreateTexture(width, height uint32, format TextureFormat, usage TextureUsage, label string) (TextureID, error)

	// DestroyTexture releases a texture obtained from CreateTexture.
	DestroyTexture(id TextureID)

	// CreateShaderModule compiles WGSL (or backend-native) source into a
	// shader module and returns its ID.
	CreateShaderModule(source string, label string) (ShaderModuleID, error)

	// DestroyShaderModule releases a shader module.
	DestroyShaderModule(id ShaderModuleID)

	// CreateComputePipeline creates a compute pipeline from a descriptor.
	CreateComputePipeline(desc ComputePipelineDesc) (ComputePipelineID, error)

	// DestroyComputePipeline releases a compute pipeline.
	DestroyComputePipeline(id ComputePipelineID)

	// Dispatch runs a compute pipeline with the given workgroup counts
	// and bind group, blocking until the backend has submitted the
	// dispatch (not necessarily until it has completed on-device).
	Dispatch(pipeline ComputePipelineID, bindGroup BindGroupID, workgroupsX, workgroupsY, workgroupsZ uint32) error

	// CreateBindGroupLayout creates a bind group layout.
	CreateBindGroupLayout(desc BindGroupLayoutDesc) (BindGroupLayoutID, error)

	// CreateBindGroup creates a bind group against a layout.
	CreateBindGroup(desc BindGroupDesc) (BindGroupID, error)

	// ReadBuffer reads back the contents of a buffer. Used by the CPU
	// fallback path and by tests to inspect GPU-computed results.
	ReadBuffer(id BufferID, offset, size uint64) ([]byte, error)
}
