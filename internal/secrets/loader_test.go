package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromValue(t *testing.T) {
	secret, err := Load(Source{Name: "li_at cookie", Value: "  abc123  "})

	require.NoError(t, err)
	assert.Equal(t, "abc123", secret)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TEST_SECRET_ENV", "from-env")

	secret, err := Load(Source{Name: "api key", Env: "TEST_SECRET_ENV", Value: "inline"})

	require.NoError(t, err)
	assert.Equal(t, "from-env", secret)
}

func TestLoadFilePrecedesEnv(t *testing.T) {
	t.Setenv("TEST_SECRET_ENV", "from-env")

	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))

	secret, err := Load(Source{Name: "api key", Env: "TEST_SECRET_ENV", File: path})

	require.NoError(t, err)
	assert.Equal(t, "from-file", secret)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Source{Name: "li_at cookie", File: filepath.Join(t.TempDir(), "nope")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "li_at cookie")
}

func TestLoadEmptyEverywhere(t *testing.T) {
	_, err := Load(Source{Name: "api key", Env: "TEST_SECRET_UNSET_ENV"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "set TEST_SECRET_UNSET_ENV")
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("   \n"), 0o600))

	_, err := Load(Source{Name: "api key", File: path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
}
