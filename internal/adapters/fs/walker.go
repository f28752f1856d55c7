// Package fs resolves material documents on the file system.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

// Walker yields material documents below a directory.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkMaterials yields every .yaml or .yml file below root except the
// settings file. Hidden directories and directories matching an ignore
// pattern are skipped.
func (w *Walker) WalkMaterials(root string, ignores []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && w.skipDir(d.Name(), ignores) {
					return filepath.SkipDir
				}
				return nil
			}
			if !IsMaterialFile(path) {
				return nil
			}
			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

func (w *Walker) skipDir(name string, ignores []string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}

// IsMaterialFile reports whether path names a material document.
func IsMaterialFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
	default:
		return false
	}
	return filepath.Base(path) != "glaze.yaml"
}
