package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleText(t *testing.T) {
	html := `<!DOCTYPE html>
<html>
<head><title>LEGO Titanic</title><style>.x{color:red}</style></head>
<body>
	<script>var tracking = "sold out";</script>
	<h1>Titanic</h1>
	<p>Available now</p>
	<noscript>enable javascript</noscript>
</body>
</html>`

	text, err := VisibleText(html)
	require.NoError(t, err)

	assert.Contains(t, text, "Titanic")
	assert.Contains(t, text, "Available now")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "enable javascript")
}

func TestVisibleTextNoBody(t *testing.T) {
	text, err := VisibleText("just some text")
	require.NoError(t, err)
	assert.Contains(t, text, "just some text")
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "og:title preferred",
			html:     `<head><meta property="og:title" content="LEGO Titanic 10294"><title>fallback</title></head>`,
			expected: "LEGO Titanic 10294",
		},
		{
			name:     "title element fallback",
			html:     `<head><title>LEGO Rivendell</title></head>`,
			expected: "LEGO Rivendell",
		},
		{
			name:     "empty og:title falls back",
			html:     `<head><meta property="og:title" content="  "><title>Plain</title></head>`,
			expected: "Plain",
		},
		{
			name:     "no title",
			html:     `<body><p>hi</p></body>`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, err := Title(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, title)
		})
	}
}
