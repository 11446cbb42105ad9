package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MLDEPLOY_HOST", "MLDEPLOY_WORKSPACE_ID", "MLDEPLOY_ACCESS_KEY", "MLDEPLOY_SECRET_KEY",
		"MLDEPLOY_TOKEN", "MLDEPLOY_GIT_REMOTE", "MLDEPLOY_LOG_LEVEL", ConfPath,
	} {
		if v, ok := os.LookupEnv(k); ok {
			os.Unsetenv(k)
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func TestLoadConfiguration_Defaults(t *testing.T) {
	clearEnv(t)

	conf, err := LoadConfiguration("")
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, conf.Timeout)
	assert.Equal(t, ".", conf.RepositoryPath)
	assert.Equal(t, "origin", conf.Git.Remote)
	assert.Equal(t, "mldeploy", conf.Git.AuthorName)
	assert.Equal(t, "info", conf.Log.Level)
	assert.Equal(t, "text", conf.Log.Format)
	assert.Error(t, conf.Validate())
}

func TestLoadConfiguration_FromFileAndEnv(t *testing.T) {
	clearEnv(t)

	content := `
host: "https://api.example.com"
workspace_id: "ws-1"
access_key: "ak"
secret_key: "sk"
timeout: 30s
git:
  remote: upstream
  ssh_key_path: /keys/id_rsa
log:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("MLDEPLOY_GIT_REMOTE", "origin2")
	t.Setenv("MLDEPLOY_WORKSPACE_ID", "ws-env")

	conf, err := LoadConfiguration(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", conf.Host)
	assert.Equal(t, "ws-env", conf.WorkspaceID)
	assert.Equal(t, 30*time.Second, conf.Timeout)
	assert.Equal(t, "origin2", conf.Git.Remote)
	assert.Equal(t, "/keys/id_rsa", conf.Git.SSHKeyPath)
	assert.Equal(t, "debug", conf.Log.Level)
	assert.True(t, conf.HasKeys())
	assert.NoError(t, conf.Validate())
	assert.NotContains(t, conf.String(), "sk")
}

func TestLoadConfiguration_TokenOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("MLDEPLOY_HOST", "https://api.example.com")
	t.Setenv("MLDEPLOY_WORKSPACE_ID", "ws")
	t.Setenv("MLDEPLOY_TOKEN", "tkn")

	conf, err := LoadConfiguration("")
	require.NoError(t, err)
	assert.False(t, conf.HasKeys())
	assert.NoError(t, conf.Validate())
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfiguration_StringHidesSecrets(t *testing.T) {
	conf := Configuration{Host: "h", SecretKey: "secret-value", Token: "token-value", Git: GitConfig{Password: "pw-value"}}
	out := conf.String()
	assert.Contains(t, out, `"host": "h"`)
	assert.NotContains(t, out, "secret-value")
	assert.NotContains(t, out, "token-value")
	assert.NotContains(t, out, "pw-value")
}
