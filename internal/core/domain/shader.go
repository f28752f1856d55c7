package domain

// Shader is a compiled shader. It is immutable once created.
type Shader struct {
	ID        uint64
	Label     string
	Engine    Engine
	Target    Target
	Optimized bool
	// Artifacts holds the compiled output per stage.
	Artifacts map[Stage][]byte
	// Info holds non-fatal compiler output.
	Info string
}

// ShaderCreateInfo describes a shader to compile.
type ShaderCreateInfo struct {
	Name      string
	Key       PassKey
	Engine    Engine
	Target    Target
	Sources   map[Stage]string
	Resources []Resource
	Optimize  bool
}
