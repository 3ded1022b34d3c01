package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveAndDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save("image/png", strings.NewReader("png bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "/uploads/"))
	require.True(t, strings.HasSuffix(ref, ".png"))

	data, err := os.ReadFile(filepath.Join(store.Dir(), filepath.Base(ref)))
	require.NoError(t, err)
	require.Equal(t, "png bytes", string(data))

	require.NoError(t, store.Delete(ref))
	require.ErrorIs(t, store.Delete(ref), ErrNotFound)
}

func TestSaveRejectsNonImage(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("application/pdf", strings.NewReader("%PDF"))
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = store.Save("", strings.NewReader(""))
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveNormalizesContentType(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save(" IMAGE/JPEG ", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(ref, ".jpg"))
}

func TestDeleteIgnoresPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	outside := filepath.Join(filepath.Dir(dir), "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))
	t.Cleanup(func() { os.Remove(outside) })

	require.ErrorIs(t, store.Delete("../outside.txt"), ErrNotFound)

	_, err = os.Stat(outside)
	require.NoError(t, err)
}
