package browser

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileURL(t *testing.T) {
	u, err := FileURL("web/hgzy.html", "/wingo_30s")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file://"))
	assert.True(t, strings.HasSuffix(u, "#/wingo_30s"))
	assert.Contains(t, u, "hgzy.html")
}

func TestFileURLFragmentNormalized(t *testing.T) {
	a, err := FileURL("doc.html", "#/route")
	require.NoError(t, err)
	b, err := FileURL("doc.html", "/route")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFileURLNoFragment(t *testing.T) {
	u, err := FileURL("doc.html", "  ")
	require.NoError(t, err)
	assert.NotContains(t, u, "#")
}

func TestFileURLAbsolutePath(t *testing.T) {
	abs, err := filepath.Abs("x.html")
	require.NoError(t, err)
	u, err := FileURL("x.html", "")
	require.NoError(t, err)
	assert.Contains(t, u, filepath.ToSlash(abs))
}

func TestMarkerProbeEscapes(t *testing.T) {
	expr := markerProbe([]string{`Pred. "Results"`, "Plans"})
	assert.Contains(t, expr, `\"Results\"`)
	assert.Contains(t, expr, "some(")
}
