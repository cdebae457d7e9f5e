package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoTargetValid(t *testing.T) {
	tgt := GoTarget()
	assert.NoError(t, tgt.validate())
}

func TestParseTargetOverlay(t *testing.T) {
	tgt, err := ParseTarget([]byte(`
package: models
unionPrefix: Variant
primitives:
  long: int
`))
	require.NoError(t, err)

	assert.Equal(t, "models", tgt.Package)
	assert.Equal(t, "Variant", tgt.UnionPrefix)
	assert.Equal(t, "int", tgt.Primitives["long"])
	// untouched fields keep the preset
	assert.Equal(t, "int32", tgt.Primitives["int"])
	assert.Equal(t, "[]%s", tgt.ArrayFormat)
}

func TestParseTargetInvalid(t *testing.T) {
	cases := []string{
		"arrayFormat: list",
		"fixedFormat: blob",
		"{",
	}
	for _, c := range cases {
		_, err := ParseTarget([]byte(c))
		assert.ErrorIs(t, err, ErrTarget, "config %q", c)
	}
}

func TestLoadTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.yaml")
	require.NoError(t, os.WriteFile(path, []byte("package: wire\n"), 0o644))

	tgt, err := LoadTarget(path)
	require.NoError(t, err)
	assert.Equal(t, "wire", tgt.Package)

	_, err = LoadTarget(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, ErrTarget)
}
