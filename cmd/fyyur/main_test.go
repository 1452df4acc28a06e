package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	const key = "FYYUR_TEST_LOAD_ENV_FILE"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0600))

	require.NoError(t, loadEnvFile(path))
	require.Equal(t, "from-file", os.Getenv(key))
}

func TestLoadEnvFileKeepsEnvironment(t *testing.T) {
	const key = "FYYUR_TEST_LOAD_ENV_FILE_KEEP"
	t.Setenv(key, "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0600))

	require.NoError(t, loadEnvFile(path))
	require.Equal(t, "from-env", os.Getenv(key))
}

func TestLoadEnvFileMissing(t *testing.T) {
	require.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
	require.NoError(t, loadEnvFile(""))
}
