package cas_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	godigest "github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/glaze/internal/adapters/cas"
	"go.trai.ch/glaze/internal/core/domain"
)

func source() *domain.GeneratedSource {
	return &domain.GeneratedSource{
		Engine: domain.EngineEEVEE,
		Stages: map[domain.Stage]string{
			domain.StageFragment: "@fragment\nfn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }\n",
		},
		Resources: []domain.Resource{
			{Name: "tex0", Kind: domain.ResourceTexture, Frequency: domain.FrequencyMaterial, Slot: 0, Type: "texture_2d<f32>"},
		},
	}
}

func TestStore_PutAndGet(t *testing.T) {
	store, err := cas.NewStore(t.TempDir())
	require.NoError(t, err)

	d, err := store.Put(domain.PassKey(42), source())
	require.NoError(t, err)
	assert.Equal(t, godigest.FromBytes(cas.Bundle(42, source())).String(), d)

	data, err := store.Get(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), "// pass 000000000000002a engine=eevee flags=none")
	assert.Contains(t, string(data), "// binding group=0 slot=0 texture tex0 texture_2d<f32>")
	assert.Contains(t, string(data), "// stage fragment\n@fragment")

	got, ok := store.Lookup(42)
	require.True(t, ok)
	assert.Equal(t, d, got)
}

func TestStore_Persistence(t *testing.T) {
	dir := t.TempDir()

	store1, err := cas.NewStore(dir)
	require.NoError(t, err)
	d, err := store1.Put(domain.PassKey(7), source())
	require.NoError(t, err)

	store2, err := cas.NewStore(dir)
	require.NoError(t, err)
	got, ok := store2.Lookup(7)
	require.True(t, ok)
	assert.Equal(t, d, got)
}

func TestStore_GetMissing(t *testing.T) {
	store, err := cas.NewStore(t.TempDir())
	require.NoError(t, err)

	data, err := store.Get(godigest.FromString("nothing").String())
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = store.Get("not-a-digest")
	assert.Error(t, err)
}

func TestStore_GetDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	store, err := cas.NewStore(dir)
	require.NoError(t, err)

	d, err := store.Put(domain.PassKey(1), source())
	require.NoError(t, err)

	parsed := godigest.Digest(d)
	path := filepath.Join(dir, "blobs", parsed.Algorithm().String(), parsed.Encoded())
	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0o600))

	_, err = store.Get(d)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "does not match"))
}

func TestStore_CorruptIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte("{"), 0o600))

	_, err := cas.NewStore(dir)
	assert.Error(t, err)
}
