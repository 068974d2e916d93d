package asset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetModel(t *testing.T) {
	dir := t.TempDir()
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "facefinder"), payload, 0o644))

	am := NewManager(dir)

	data, err := am.GetModel("facefinder")
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	_, err = am.GetModel("missing-model")
	assert.Error(t, err)
}

func TestHasModel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "facefinder"), []byte{0x01}, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	am := NewManager(dir)

	assert.True(t, am.HasModel("facefinder"))
	assert.False(t, am.HasModel("missing"))
	assert.False(t, am.HasModel("subdir"), "directories are not models")
}

func TestNewManagerDefaultDir(t *testing.T) {
	am := NewManager("")
	assert.Equal(t, defaultModelDir, am.dir)
}
