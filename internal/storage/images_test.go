// File: internal/storage/images_test.go
package storage

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func restore() {
	osWriteFile = os.WriteFile
	osRemove = os.Remove
	newFileName = uuid.NewString
}

func TestDetectFormat(t *testing.T) {
	format, err := DetectFormat(pngBytes(t))
	require.NoError(t, err)
	require.Equal(t, "png", format)

	_, err = DetectFormat([]byte("not an image"))
	require.ErrorIs(t, err, ErrNotImage)
}

func TestNewImages(t *testing.T) {
	root := t.TempDir()
	s, err := NewImages(filepath.Join(root, "media"))
	require.NoError(t, err)
	info, err := os.Stat(filepath.Join(root, "media", "recipe"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
	require.Equal(t, filepath.Join(root, "media"), s.Root)
}

func TestSaveRecipeImage(t *testing.T) {
	t.Cleanup(restore)
	s, err := NewImages(t.TempDir())
	require.NoError(t, err)

	newFileName = func() string { return "fixed" }
	rel, err := s.SaveRecipeImage(pngBytes(t))
	require.NoError(t, err)
	require.Equal(t, "recipe/fixed.png", rel)

	data, err := os.ReadFile(filepath.Join(s.Root, "recipe", "fixed.png"))
	require.NoError(t, err)
	require.Equal(t, pngBytes(t), data)

	_, err = s.SaveRecipeImage([]byte("junk"))
	require.ErrorIs(t, err, ErrNotImage)
}

func TestSaveRecipeImageWriteError(t *testing.T) {
	t.Cleanup(restore)
	s, err := NewImages(t.TempDir())
	require.NoError(t, err)

	osWriteFile = func(string, []byte, os.FileMode) error { return os.ErrPermission }
	_, err = s.SaveRecipeImage(pngBytes(t))
	require.Error(t, err)
}

func TestRemove(t *testing.T) {
	s, err := NewImages(t.TempDir())
	require.NoError(t, err)

	path := filepath.Join(s.Root, "recipe", "old.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, s.Remove("recipe/old.png"))
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))

	// 不存在與空字串皆視為成功
	require.NoError(t, s.Remove("recipe/old.png"))
	require.NoError(t, s.Remove(""))
}
