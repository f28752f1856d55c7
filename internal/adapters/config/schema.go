package config

// SettingsDTO is the structure of glaze.yaml.
type SettingsDTO struct {
	Engine   string `yaml:"engine"`
	Target   string `yaml:"target"`
	Optimize bool   `yaml:"optimize"`
	TwoTier  bool   `yaml:"two_tier"`
	Workers  int    `yaml:"workers"`
	DumpDir  string `yaml:"dump_dir"`
	Log      LogDTO `yaml:"log"`
}

// LogDTO is the log section of glaze.yaml.
type LogDTO struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MaterialDTO is the structure of a material document.
type MaterialDTO struct {
	Name   string    `yaml:"name"`
	Engine string    `yaml:"engine"`
	Nodes  []NodeDTO `yaml:"nodes"`
	Links  []LinkDTO `yaml:"links"`
	Output string    `yaml:"output"`
}

// NodeDTO declares one node. Inputs override socket defaults by name.
type NodeDTO struct {
	Name   string               `yaml:"name"`
	Kind   string               `yaml:"kind"`
	Inputs map[string][]float64 `yaml:"inputs"`
	Params map[string]string    `yaml:"params"`
}

// LinkDTO connects two sockets written as "node.socket".
type LinkDTO struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}
