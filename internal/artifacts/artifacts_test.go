package artifacts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndClean(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Clean())

	require.NoError(t, s.Save("titanic-10294", "LEGO Titanic", "<html>x</html>", "Available now"))

	html, err := os.ReadFile(filepath.Join(dir, "brickwatch_titanic-10294.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>x</html>", string(html))

	txt, err := os.ReadFile(filepath.Join(dir, "brickwatch_titanic-10294.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(txt), "Title: LEGO Titanic")
	assert.Contains(t, string(txt), "Available now")

	// A fresh Clean drops the previous run's snapshots.
	require.NoError(t, s.Clean())
	_, err = os.Stat(filepath.Join(dir, "brickwatch_titanic-10294.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestCleanCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	s := NewStore(dir)
	require.NoError(t, s.Clean())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSaveCapsText(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Clean())

	long := strings.Repeat("a", textCap+500)
	require.NoError(t, s.Save("x", "t", "<html></html>", long))

	txt, err := os.ReadFile(filepath.Join(dir, "brickwatch_x.txt"))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(txt), textCap+len("Title: t\n\n"))
}
