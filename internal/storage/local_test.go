package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStorage(Config{BasePath: dir, BaseURL: "/uploads"})
	require.NoError(t, err)
	return s, dir
}

func TestLocalStorage_SaveDelete(t *testing.T) {
	s, dir := newLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "jobs/a.txt", strings.NewReader("hello"), 5, "text/plain"))

	data, err := os.ReadFile(filepath.Join(dir, "jobs", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Delete(ctx, "jobs/a.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "jobs", "a.txt"))

	// повторное удаление не ошибка
	assert.NoError(t, s.Delete(ctx, "jobs/a.txt"))
}

func TestLocalStorage_DoesNotOverwrite(t *testing.T) {
	s, _ := newLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "certs/x.pdf", strings.NewReader("one"), 3, "application/pdf"))
	assert.Error(t, s.Save(ctx, "certs/x.pdf", strings.NewReader("two"), 3, "application/pdf"))
}

func TestLocalStorage_PathTraversalStaysInRoot(t *testing.T) {
	s, dir := newLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "../../escape.txt", strings.NewReader("x"), 1, "text/plain"))

	_, err := os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "escape.txt"))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, s.Save(ctx, "", strings.NewReader("x"), 1, "text/plain"), ErrInvalidPath)
}

func TestLocalStorage_GetURL(t *testing.T) {
	s, _ := newLocal(t)
	assert.Equal(t, "/uploads/jobs/a.png", s.GetURL("jobs/a.png"))
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(context.Background(), Config{Type: "ftp"})
	assert.Error(t, err)
}

func TestCleanKey(t *testing.T) {
	key, err := cleanKey(`jobs\sub\a.png`)
	require.NoError(t, err)
	assert.Equal(t, "jobs/sub/a.png", key)

	_, err = cleanKey("/")
	assert.ErrorIs(t, err, ErrInvalidPath)
}
