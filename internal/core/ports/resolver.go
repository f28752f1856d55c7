package ports

// MaterialResolver expands command line arguments into material document paths.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type MaterialResolver interface {
	// Resolve accepts files, directories and glob patterns. Directories are
	// searched recursively for YAML documents. The result is sorted and
	// free of duplicates.
	Resolve(args []string) ([]string, error)
}
