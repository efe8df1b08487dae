package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalPutGetDelete(t *testing.T) {
	root := t.TempDir()
	fs, err := NewLocal(root)
	assert.NoError(t, err)
	ctx := context.Background()

	key := "uploads/abc123.pdf"
	data := []byte("file body")

	assert.NoError(t, fs.Put(ctx, key, data))

	got, err := fs.Get(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, data, got)

	assert.NoError(t, fs.Delete(ctx, key))

	_, err = fs.Get(ctx, key)
	assert.Error(t, err)
}

func TestLocalDeleteMissingKey(t *testing.T) {
	fs, err := NewLocal(t.TempDir())
	assert.NoError(t, err)
	assert.NoError(t, fs.Delete(context.Background(), "never/stored.bin"))
}

func TestLocalOverwrite(t *testing.T) {
	fs, err := NewLocal(t.TempDir())
	assert.NoError(t, err)
	ctx := context.Background()

	assert.NoError(t, fs.Put(ctx, "k.bin", []byte("one")))
	assert.NoError(t, fs.Put(ctx, "k.bin", []byte("two")))

	got, err := fs.Get(ctx, "k.bin")
	assert.NoError(t, err)
	assert.Equal(t, []byte("two"), got)
}

func TestLocalRejectsPathTraversal(t *testing.T) {
	root := t.TempDir()
	fs, err := NewLocal(root)
	assert.NoError(t, err)
	ctx := context.Background()

	err = fs.Put(ctx, "../escape.bin", []byte("x"))
	assert.Error(t, err)

	_, err = os.Stat(filepath.Join(filepath.Dir(root), "escape.bin"))
	assert.True(t, os.IsNotExist(err))
}
