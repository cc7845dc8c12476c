package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere", "report.html")

	tests := []struct {
		name   string
		mutate func(*Config)
		check  func(*testing.T, *Paths)
	}{
		{
			name:   "defaults are relative to base",
			mutate: func(*Config) {},
			check: func(t *testing.T, p *Paths) {
				assert.Equal(t, base, p.BaseDir)
				assert.Equal(t, filepath.Join(base, "tmdb_report.html"), p.ReportFile)
				assert.Equal(t, filepath.Join(base, "export"), p.ExportDir)
				assert.Empty(t, p.InputFile)
				assert.Empty(t, p.LogFile)
			},
		},
		{
			name: "absolute paths are kept",
			mutate: func(c *Config) {
				c.Report.OutputPath = abs
				c.Input.Path = "data/movies.csv"
			},
			check: func(t *testing.T, p *Paths) {
				assert.Equal(t, abs, p.ReportFile)
				assert.Equal(t, filepath.Join(base, "data", "movies.csv"), p.InputFile)
			},
		},
		{
			name: "file logging resolves log file",
			mutate: func(c *Config) {
				c.Logging.Output = "both"
			},
			check: func(t *testing.T, p *Paths) {
				assert.Equal(t, filepath.Join(base, "logs", "tmdbreport.log"), p.LogFile)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			p, err := cfg.ResolvePaths(base)
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestResolvePaths_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	p, err := Default().ResolvePaths("")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(p.BaseDir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Report.OutputPath = filepath.Join("out", "nested", "report.html")
	cfg.Export.Dir = filepath.Join("out", "export")

	p, err := cfg.ResolvePaths(base)
	require.NoError(t, err)

	require.NoError(t, p.EnsureReportDir())
	require.NoError(t, p.EnsureExportDir())

	for _, dir := range []string{
		filepath.Join(base, "out", "nested"),
		filepath.Join(base, "out", "export"),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}
}

func TestEnsureDirectories_Failure(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := Default()
	cfg.Export.Dir = filepath.Join("blocker", "export")
	p, err := cfg.ResolvePaths(base)
	require.NoError(t, err)

	assert.Error(t, p.EnsureExportDir())
}

func TestPathsLogValue(t *testing.T) {
	p := &Paths{BaseDir: "/base", ReportFile: "/base/r.html"}

	v := p.LogValue()
	require.Equal(t, slog.KindGroup, v.Kind())

	attrs := map[string]string{}
	for _, a := range v.Group() {
		attrs[a.Key] = a.Value.String()
	}
	assert.Equal(t, "/base", attrs["base"])
	assert.Equal(t, "/base/r.html", attrs["report"])
}
