// Package cas implements a content-addressable dump of generated shader source.
package cas

import (
	_ "crypto/sha256" // registers the canonical digest algorithm
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	godigest "github.com/opencontainers/go-digest"
	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceStore = (*Store)(nil)

const indexFile = "index.json"

// Store writes each generated source bundle to blobs/<algorithm>/<hex> under
// its root and keeps a flat JSON index from pass key to digest.
type Store struct {
	root  string
	mu    sync.RWMutex
	index map[string]string
}

// NewStore creates a Store rooted at dir, loading an existing index.
func NewStore(dir string) (*Store, error) {
	s := &Store{
		root:  filepath.Clean(dir),
		index: make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(filepath.Join(s.root, indexFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return domain.Wrap(domain.ErrStoreReadFailed, err)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.index); err != nil {
		return zerr.Wrap(err, "failed to unmarshal source index")
	}
	return nil
}

// saveIndex must be called with mu held.
func (s *Store) saveIndex() error {
	data, err := json.MarshalIndent(s.index, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal source index")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(filepath.Join(s.root, indexFile), data, 0o644); err != nil {
		return domain.Wrap(domain.ErrStoreWriteFailed, err)
	}
	return nil
}

// Put writes the bundle for src and records it under key.
func (s *Store) Put(key domain.PassKey, src *domain.GeneratedSource) (string, error) {
	bundle := Bundle(key, src)
	d := godigest.FromBytes(bundle)

	path := s.blobPath(d)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", zerr.With(domain.Wrap(domain.ErrStoreWriteFailed, err), "path", path)
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		//nolint:gosec // Path is derived from a validated digest
		if err := os.WriteFile(path, bundle, 0o644); err != nil {
			return "", zerr.With(domain.Wrap(domain.ErrStoreWriteFailed, err), "path", path)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index[key.String()] = d.String()
	if err := s.saveIndex(); err != nil {
		return "", err
	}
	return d.String(), nil
}

// Get reads the bundle stored under digest and verifies its content.
// Returns nil, nil if not found.
func (s *Store) Get(digest string) ([]byte, error) {
	d, err := godigest.Parse(digest)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid digest"), "digest", digest)
	}

	//nolint:gosec // Path is derived from a validated digest
	f, err := os.Open(s.blobPath(d))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, domain.Wrap(domain.ErrStoreReadFailed, err)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	verifier := d.Verifier()
	data, err := io.ReadAll(io.TeeReader(f, verifier))
	if err != nil {
		return nil, domain.Wrap(domain.ErrStoreReadFailed, err)
	}
	if !verifier.Verified() {
		return nil, zerr.With(zerr.New("source bundle does not match its digest"), "digest", digest)
	}
	return data, nil
}

// Lookup returns the digest recorded for key.
func (s *Store) Lookup(key domain.PassKey) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.index[key.String()]
	return d, ok
}

func (s *Store) blobPath(d godigest.Digest) string {
	return filepath.Join(s.root, "blobs", d.Algorithm().String(), d.Encoded())
}

// Bundle renders every stage of src and its binding layout as one WGSL
// document with comment headers.
func Bundle(key domain.PassKey, src *domain.GeneratedSource) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "// pass %s engine=%s flags=%s\n", key, src.Engine, src.Flags)
	for _, r := range src.Resources {
		fmt.Fprintf(&b, "// binding group=%d slot=%d %s %s %s\n",
			r.Frequency.Group(), r.Slot, r.Kind, r.Name, r.Type)
	}
	for _, stage := range src.StageList() {
		fmt.Fprintf(&b, "\n// stage %s\n", stage)
		b.WriteString(src.Stages[stage])
	}
	return []byte(b.String())
}
