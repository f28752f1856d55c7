// Package digest computes content hashes of generated shader source.
package digest

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/glaze/internal/core/domain"
	"go.trai.ch/glaze/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes pass keys with xxhash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// PassKey hashes engine, optimize flag, material flags, every stage in
// pipeline order and the binding layout.
func (h *Hasher) PassKey(src *domain.GeneratedSource, optimize bool) domain.PassKey {
	hasher := xxhash.New()

	_, _ = hasher.WriteString(string(src.Engine))
	_, _ = hasher.Write([]byte{0})

	var opt byte
	if optimize {
		opt = 1
	}
	_, _ = hasher.Write([]byte{opt})
	_ = binary.Write(hasher, binary.LittleEndian, uint32(src.Flags))

	for _, stage := range src.StageList() {
		_, _ = hasher.Write([]byte{byte(stage)})
		_, _ = hasher.WriteString(src.Stages[stage])
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	for _, r := range src.Resources {
		h.hashResource(r, hasher)
	}

	return domain.PassKey(hasher.Sum64())
}

func (h *Hasher) hashResource(r domain.Resource, hasher *xxhash.Digest) {
	_, _ = hasher.WriteString(r.Name)
	_, _ = hasher.Write([]byte{0, byte(r.Kind), byte(r.Frequency)})
	_ = binary.Write(hasher, binary.LittleEndian, r.Slot)
	_, _ = hasher.WriteString(r.Type)
	_, _ = hasher.Write([]byte{0})
}
