package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beluga-ci/release-tools/config"
)

func writeConfig(tb testing.TB, content string) string {
	tb.Helper()

	pa := filepath.Join(tb.TempDir(), "config.yaml")
	require.NoError(tb, os.WriteFile(pa, []byte(content), 0o600))

	return pa
}

func TestLoad_defaults_without_file(t *testing.T) {
	cfg, err := config.Load("")

	require.NoError(t, err)
	assert.Equal(t, int32(config.DefaultMaxResults), cfg.Registry.MaxResults)
	assert.Equal(t, config.DefaultPublicRegion, cfg.Registry.PublicRegion)
	assert.Equal(
		t,
		"/aws/containerinsights/{cluster}/application",
		cfg.Logs.GroupTemplate,
	)
}

func TestLoad_file_overrides_defaults(t *testing.T) {
	pa := writeConfig(t, `registry:
  accountId: "123456789012"
  maxResults: 200
logs:
  lines: 5
  streamTemplate: "{pod}.log"
http:
  insecureSkipVerify: false
`)

	cfg, err := config.Load(pa)

	require.NoError(t, err)
	assert.Equal(t, "123456789012", cfg.Registry.AccountID)
	assert.Equal(t, int32(200), cfg.Registry.MaxResults)
	assert.Equal(t, int32(5), cfg.Logs.Lines)
	assert.Equal(t, "{pod}.log", cfg.Logs.StreamTemplate)
	assert.False(t, cfg.HTTP.InsecureSkipVerify)
	// Untouched keys keep their defaults.
	assert.Equal(t, config.DefaultPublicRegion, cfg.Registry.PublicRegion)
}

func TestLoad_environment_overrides_file(t *testing.T) {
	t.Setenv("REGISTRY_ACCOUNT_ID", "210987654321")
	t.Setenv("TENANT_NAME", "ci-cluster")
	t.Setenv("LOG_LINES_TO_TEST", "25")

	pa := writeConfig(t, `registry:
  accountId: "123456789012"
logs:
  cluster: from-file
`)

	cfg, err := config.Load(pa)

	require.NoError(t, err)
	assert.Equal(t, "210987654321", cfg.Registry.AccountID)
	assert.Equal(t, "ci-cluster", cfg.Logs.Cluster)
	assert.Equal(t, int32(25), cfg.Logs.Lines)
}

func TestLoad_invalid_values(t *testing.T) {
	pa := writeConfig(t, `registry:
  maxResults: 5000
logs:
  lines: 0
`)

	cfg, err := config.Load(pa)

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorContains(t, err, "registry.maxResults")
	assert.ErrorContains(t, err, "logs.lines")
}

func TestLoad_missing_file(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_malformed_yaml(t *testing.T) {
	pa := writeConfig(t, "registry: [unclosed\n")

	_, err := config.Load(pa)

	assert.ErrorContains(t, err, "decoding")
}

func TestValidate_default_is_valid(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	assert.NoError(t, cfg.Validate())
}
