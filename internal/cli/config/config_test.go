package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/records/pkg/record"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	opts, err := cfg.Policy.Options()
	require.NoError(t, err)
	assert.Equal(t, record.DefaultOptions(), opts)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.UI.NoColor)
	assert.Empty(t, cfg.Declarations)
}

func TestLoadWithConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	configContent := `
policy:
  order: true
  frozen: true
  hash: always
log:
  level: debug
  format: json
ui:
  no_color: true
declarations:
  - shapes.yaml
`
	require.NoError(t, os.WriteFile("records.yaml", []byte(configContent), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	opts, err := cfg.Policy.Options()
	require.NoError(t, err)
	assert.True(t, opts.Order)
	assert.True(t, opts.Frozen)
	assert.True(t, opts.Init)
	assert.Equal(t, record.HashAlways, opts.Hash)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.UI.NoColor)
	assert.Equal(t, []string{"shapes.yaml"}, cfg.Declarations)
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policy:\n  repr: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Policy.Repr)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RECORDS_POLICY_FROZEN", "true")
	t.Setenv("RECORDS_LOG_LEVEL", "error")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Policy.Frozen)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "hash mode",
			content: "policy:\n  hash: sometimes\n",
			want:    `policy.hash must be one of [derive suppress always], got "sometimes"`,
		},
		{
			name:    "log level",
			content: "log:\n  level: verbose\n",
			want:    "log.level",
		},
		{
			name:    "log format",
			content: "log:\n  format: xml\n",
			want:    "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "records.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "records.yml"), nil, 0o644))

	found, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "records.yml"), found)
}

func TestLogConfigLogger(t *testing.T) {
	logger, err := LogConfig{Level: "debug", Format: "json"}.Logger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	logger, err = LogConfig{Level: "warn", Format: "console"}.Logger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(0))

	_, err = LogConfig{Level: "loud"}.Logger()
	assert.Error(t, err)
}
