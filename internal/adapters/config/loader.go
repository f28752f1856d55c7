// Package config loads glaze.yaml settings and material documents.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using YAML files.
type Loader struct {
	Logger  ports.Logger
	Catalog ports.NodeCatalog
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger, catalog ports.NodeCatalog) *Loader {
	return &Loader{Logger: logger, Catalog: catalog}
}

// LoadSettings searches dir and its parents for glaze.yaml.
// Fields absent from the file keep their defaults.
func (l *Loader) LoadSettings(dir string) (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	path, ok := findSettings(dir)
	if !ok {
		l.Logger.Debug("no " + domain.DefaultSettingsFile + " found, using defaults")
		return defaults, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is discovered from the working directory
	if err != nil {
		return nil, zerr.With(domain.Wrap(domain.ErrConfigReadFailed, err), "path", path)
	}

	dto := SettingsDTO{
		Engine:   string(defaults.Engine),
		Target:   string(defaults.Target),
		Optimize: defaults.Optimize,
		TwoTier:  defaults.TwoTier,
		Workers:  defaults.Workers,
		DumpDir:  defaults.DumpDir,
		Log:      LogDTO{Level: defaults.LogLevel, Format: defaults.LogFormat},
	}
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.With(domain.Wrap(domain.ErrConfigParseFailed, err), "path", path)
	}

	engine, err := domain.ParseEngine(dto.Engine)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	target, err := domain.ParseTarget(dto.Target)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	if dto.Workers < 1 {
		return nil, zerr.With(zerr.With(zerr.New("workers must be at least 1"), "workers", dto.Workers), "path", path)
	}

	dumpDir := dto.DumpDir
	if dumpDir != "" && !filepath.IsAbs(dumpDir) {
		dumpDir = filepath.Join(filepath.Dir(path), dumpDir)
	}

	return &domain.Settings{
		Engine:    engine,
		Target:    target,
		Optimize:  dto.Optimize,
		TwoTier:   dto.TwoTier,
		Workers:   dto.Workers,
		DumpDir:   dumpDir,
		LogLevel:  dto.Log.Level,
		LogFormat: dto.Log.Format,
	}, nil
}

func findSettings(dir string) (string, bool) {
	current := dir
	for {
		candidate := filepath.Join(current, domain.DefaultSettingsFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// LoadMaterial parses the material document at path into a node graph.
func (l *Loader) LoadMaterial(path string) (*domain.Material, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(domain.Wrap(domain.ErrConfigReadFailed, err), "path", path)
	}

	var dto MaterialDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.With(domain.Wrap(domain.ErrConfigParseFailed, err), "path", path)
	}

	m, err := l.buildMaterial(&dto)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

func (l *Loader) buildMaterial(dto *MaterialDTO) (*domain.Material, error) {
	m := &domain.Material{Name: dto.Name, Graph: domain.NewNodeGraph()}
	if dto.Engine != "" {
		engine, err := domain.ParseEngine(dto.Engine)
		if err != nil {
			return nil, err
		}
		m.Engine = engine
	}

	for _, nd := range dto.Nodes {
		n, err := l.Catalog.Instantiate(nd.Name, domain.NodeKind(nd.Kind))
		if err != nil {
			return nil, err
		}
		if err := applyInputs(n, nd.Inputs); err != nil {
			return nil, err
		}
		if n.Params == nil && len(nd.Params) > 0 {
			n.Params = make(map[string]string, len(nd.Params))
		}
		for k, v := range nd.Params {
			n.Params[k] = v
		}
		if err := m.Graph.AddNode(n); err != nil {
			return nil, err
		}
	}

	for _, ld := range dto.Links {
		from, fromSocket, err := splitSocketRef(ld.From)
		if err != nil {
			return nil, err
		}
		to, toSocket, err := splitSocketRef(ld.To)
		if err != nil {
			return nil, err
		}
		if err := m.Graph.Connect(from, fromSocket, to, toSocket); err != nil {
			return nil, err
		}
	}

	if dto.Output != "" {
		if err := m.Graph.SetOutput(dto.Output); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func applyInputs(n *domain.Node, inputs map[string][]float64) error {
	for name, values := range inputs {
		idx := -1
		for i, in := range n.Inputs {
			if in.Name.String() == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return zerr.With(zerr.With(zerr.Wrap(domain.ErrMissingSocket, ""), "node", n.Name.String()), "socket", name)
		}

		sock := &n.Inputs[idx]
		if len(values) != sock.Type.Arity() {
			err := zerr.With(zerr.New("wrong number of components"), "socket", n.Name.String()+"."+name)
			return zerr.With(err, "want", sock.Type.Arity())
		}
		var v domain.Value
		copy(v[:], values)
		sock.Default = v
	}
	return nil
}

func splitSocketRef(ref string) (node, socket string, err error) {
	node, socket, ok := strings.Cut(ref, ".")
	if !ok || node == "" || socket == "" {
		return "", "", zerr.With(zerr.New("socket reference must be node.socket"), "ref", ref)
	}
	return node, socket, nil
}
