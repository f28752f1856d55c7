package fs

import (
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MaterialResolver = (*Resolver)(nil)

// Resolver implements ports.MaterialResolver using filepath.Glob and a Walker.
type Resolver struct {
	walker  *Walker
	ignores []string
}

// NewResolver creates a new Resolver. Directories matching an ignore
// pattern are not searched.
func NewResolver(walker *Walker, ignores ...string) *Resolver {
	return &Resolver{walker: walker, ignores: ignores}
}

// Resolve expands args into material paths.
func (r *Resolver) Resolve(args []string) ([]string, error) {
	unique := make(map[string]struct{})

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", arg)
		}
		if len(matches) == 0 {
			return nil, zerr.With(zerr.New("material not found"), "path", arg)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", match)
			}
			if !info.IsDir() {
				unique[match] = struct{}{}
				continue
			}

			found := 0
			for path, err := range r.walker.WalkMaterials(match, r.ignores) {
				if err != nil {
					return nil, zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", match)
				}
				unique[path] = struct{}{}
				found++
			}
			if found == 0 {
				return nil, zerr.With(zerr.New("no materials in directory"), "path", match)
			}
		}
	}

	result := make([]string, 0, len(unique))
	for path := range unique {
		result = append(result, path)
	}
	slices.Sort(result)
	return result, nil
}
