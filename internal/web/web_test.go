package web

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistContainsAssets(t *testing.T) {
	assets, err := Dist()
	require.NoError(t, err)

	for _, name := range []string{"app.css", "app.js"} {
		data, err := fs.ReadFile(assets, name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}

func TestPathIsVersioned(t *testing.T) {
	v := Version()
	assert.Len(t, v, 12)
	assert.Equal(t, v, Version())
	assert.Equal(t, "/static/app.js?v="+v, Path("app.js"))
}
