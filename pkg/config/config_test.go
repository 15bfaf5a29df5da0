package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValuePlain(t *testing.T) {
	val, err := Value("secret")
	require.NoError(t, err)
	assert.Equal(t, "secret", val)
}

func TestValueFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("from-file"), 0o600))

	val, err := Value("file://" + path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", val)
}

func TestValueFileMissing(t *testing.T) {
	_, err := Value("file://" + filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestValueBase64(t *testing.T) {
	val, err := Value("base64://ZnJvbS1iYXNlNjQ=")
	require.NoError(t, err)
	assert.Equal(t, "from-base64", val)
}

func TestValueBase64Invalid(t *testing.T) {
	_, err := Value("base64://!!!")
	require.Error(t, err)
}
