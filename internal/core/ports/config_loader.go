package ports

import "go.trai.ch/glaze/internal/core/domain"

// ConfigLoader reads project settings and material documents.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// LoadSettings reads glaze.yaml from dir. A missing file yields the defaults.
	LoadSettings(dir string) (*domain.Settings, error)

	// LoadMaterial parses a material document into a node graph.
	LoadMaterial(path string) (*domain.Material, error)
}
