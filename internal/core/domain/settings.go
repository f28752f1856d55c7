package domain

// DefaultSettingsFile is the project settings file name.
const DefaultSettingsFile = "glaze.yaml"

// Settings configures generation and compilation.
type Settings struct {
	Engine   Engine
	Target   Target
	Optimize bool
	// TwoTier compiles an unoptimized shader first and flags the pass for
	// an optimized recompile when the optimized source differs.
	TwoTier bool
	// Workers bounds the number of concurrent async compilations.
	Workers int
	// DumpDir receives a content-addressed copy of every generated source.
	// Empty disables the dump.
	DumpDir   string
	LogLevel  string
	LogFormat string
}

// DefaultSettings returns the settings used when no glaze.yaml exists.
func DefaultSettings() *Settings {
	return &Settings{
		Engine:    EngineEEVEE,
		Target:    TargetSPIRV,
		TwoTier:   true,
		Workers:   2,
		LogLevel:  "info",
		LogFormat: "auto",
	}
}

// Material is a named node graph bound to an engine.
type Material struct {
	Name   string
	Engine Engine
	Graph  *NodeGraph
}
