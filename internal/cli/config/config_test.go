package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-schemadoc/internal/version"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(LegacyVersionEnv, "")
	t.Setenv("SCHEMADOC_VERSION", "")

	cfg, err := Load(New(), LoadOptions{FS: afero.NewMemMapFs()})
	require.NoError(t, err)

	assert.Equal(t, DefaultSchemaDir, cfg.Schema.Dir)
	assert.Equal(t, version.DefaultPattern, cfg.Schema.Pattern)
	assert.Equal(t, "-", cfg.Output.Path)
	assert.Equal(t, DefaultFormat, cfg.Output.Format)
	assert.Equal(t, DefaultIndent, cfg.Output.Indent)
	assert.Equal(t, DefaultMaxDepth, cfg.Visibility.MaxDepth)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Empty(t, cfg.Version)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv(LegacyVersionEnv, "")
	t.Setenv("SCHEMADOC_VERSION", "")

	fsys := afero.NewMemMapFs()
	content := `
version: v49.0.0
schema:
  dir: xdl-schemas
output:
  format: markdown
  indent: 2
visibility:
  hide:
    - "meta.deprecated == true"
`
	require.NoError(t, afero.WriteFile(fsys, "/project/schemadoc.yaml", []byte(content), 0o644))

	cfg, err := Load(New(), LoadOptions{FS: fsys, Dir: "/project"})
	require.NoError(t, err)

	assert.Equal(t, "v49.0.0", cfg.Version)
	assert.Equal(t, "xdl-schemas", cfg.Schema.Dir)
	assert.Equal(t, "markdown", cfg.Output.Format)
	assert.Equal(t, 2, cfg.Output.Indent)
	assert.Equal(t, []string{"meta.deprecated == true"}, cfg.Visibility.Hide)

	path, normalized, err := cfg.SchemaPath()
	require.NoError(t, err)
	assert.Equal(t, "49.0.0", normalized)
	assert.Equal(t, filepath.Join("xdl-schemas", "49.0.0-schema.json"), path)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("SCHEMADOC_VERSION", "")
	t.Setenv(LegacyVersionEnv, "unversioned")
	t.Setenv("SCHEMADOC_OUTPUT_FORMAT", "html")

	cfg, err := Load(New(), LoadOptions{FS: afero.NewMemMapFs()})
	require.NoError(t, err)
	assert.Equal(t, "html", cfg.Output.Format)

	path, normalized, err := cfg.SchemaPath()
	require.NoError(t, err)
	assert.Equal(t, version.Unversioned, normalized)
	assert.Equal(t, filepath.Join("schemas", "UNVERSIONED-schema.json"), path)
}

func TestPrefixedVersionWins(t *testing.T) {
	t.Setenv("SCHEMADOC_VERSION", "v48.0.0")
	t.Setenv(LegacyVersionEnv, "v47.0.0")

	cfg, err := Load(New(), LoadOptions{FS: afero.NewMemMapFs()})
	require.NoError(t, err)
	assert.Equal(t, "v48.0.0", cfg.Version)
}

func TestLoadExplicitFileErrors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/bad.yaml", []byte("output: [unclosed"), 0o644))

	_, err := Load(New(), LoadOptions{FS: fsys, File: "/bad.yaml"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Schema: SchemaConfig{Pattern: version.DefaultPattern},
			Output: OutputConfig{Format: "rst", Indent: 4},
		}
	}

	cfg := base()
	require.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Output.Format = " "
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Output.Indent = -1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Visibility.MaxDepth = -2
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Schema.Pattern = "schema.json"
	assert.Error(t, cfg.Validate())
	cfg.Schema.File = "custom.json"
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Log.Level = "loud"
	assert.Error(t, cfg.Validate())
}

func TestSchemaPath(t *testing.T) {
	cfg := Config{Schema: SchemaConfig{File: "explicit.json"}, Version: "v1.0.0"}
	path, normalized, err := cfg.SchemaPath()
	require.NoError(t, err)
	assert.Equal(t, "explicit.json", path)
	assert.Equal(t, "1.0.0", normalized)

	cfg = Config{Schema: SchemaConfig{Pattern: version.DefaultPattern}}
	_, _, err = cfg.SchemaPath()
	assert.ErrorIs(t, err, version.ErrMissing)
}
