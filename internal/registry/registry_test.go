package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"# watched sets",
		"https://www.lego.com/en-us/product/millennium-falcon-75192",
		"",
		"https://www.lego.com/en-us/product/titanic-10294",
		"  # indented comment",
		"https://www.lego.com/en-us/product/rivendell-10316",
	}, "\n")

	targets, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, targets, 3)

	assert.Equal(t, "https://www.lego.com/en-us/product/millennium-falcon-75192", targets[0].URL)
	assert.Equal(t, 2, targets[0].Position)
	assert.Equal(t, 4, targets[1].Position)
	assert.Equal(t, 6, targets[2].Position)
}

func TestParseEmpty(t *testing.T) {
	targets, err := Parse(strings.NewReader("# only comments\n\n"))
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://x/a\nhttps://x/b\n"), 0o644))

	targets, err := Load(path)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, 1, targets[0].Position)
	assert.Equal(t, 2, targets[1].Position)
}

func TestLoadMissingFile(t *testing.T) {
	targets, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	assert.Empty(t, targets)
}

func TestProductName(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.lego.com/en-us/product/titanic-10294", "titanic-10294"},
		{"https://www.lego.com/en-us/product/titanic-10294/", "titanic-10294"},
		{"titanic-10294", "titanic-10294"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Target{URL: tt.url}.ProductName())
	}
}
