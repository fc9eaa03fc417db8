package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewConfig_defaults(t *testing.T) {
	cfg, rest, err := NewConfig("test", []string{"drawing.dxf"})
	require.NoError(t, err)
	require.Equal(t, Default(), *cfg)
	require.Equal(t, []string{"drawing.dxf"}, rest)
}

func TestNewConfig_flags(t *testing.T) {
	cfg, _, err := NewConfig("test", []string{"--failsafe=false", "--strict-references", "-w", "4"})
	require.NoError(t, err)
	require.False(t, cfg.Failsafe)
	require.True(t, cfg.StrictReferences)
	require.Equal(t, 4, cfg.Workers)
	require.True(t, cfg.KeepUnknownObjects)
}

func TestLoadFile_yaml(t *testing.T) {
	path := writeFile(t, "cadlink.yaml", "failsafe: false\nworkers: 8\n")
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.False(t, cfg.Failsafe)
	require.Equal(t, 8, cfg.Workers)
	require.True(t, cfg.KeepUnknownEntities)
}

func TestLoadFile_jsonc(t *testing.T) {
	path := writeFile(t, "cadlink.jsonc", `{
		// strict mode for audits
		"strict_references": true,
		"keep_unknown_objects": false, /* drop proxies */
	}`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.True(t, cfg.StrictReferences)
	require.False(t, cfg.KeepUnknownObjects)
	require.True(t, cfg.Failsafe)
}

func TestLoadFile_invalid(t *testing.T) {
	_, err := LoadFile(writeFile(t, "bad.yaml", "workers: -2\n"))
	require.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestNewConfig_flagsOverFile(t *testing.T) {
	path := writeFile(t, "cadlink.yml", "workers: 8\nstrict_references: true\n")
	cfg, rest, err := NewConfig("test", []string{"--config", path, "--workers=2", "in.dxf", "out.dxf"})
	require.NoError(t, err)
	require.Equal(t, 2, cfg.Workers)
	require.True(t, cfg.StrictReferences)
	require.Equal(t, []string{"in.dxf", "out.dxf"}, rest)
}

func TestNewConfig_extraFlags(t *testing.T) {
	path := writeFile(t, "cadlink.yaml", "workers: 3\n")
	var format string
	cfg, rest, err := NewConfig("test", []string{"--config", path, "--to", "binary", "in.dxf"},
		func(fs *pflag.FlagSet) {
			fs.StringVar(&format, "to", "text", "output format")
		})
	require.NoError(t, err)
	require.Equal(t, "binary", format)
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, []string{"in.dxf"}, rest)
}
