package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gserrors "github.com/alexisbeaulieu97/gameshelf/pkg/errors"
)

func isolatedLoader(t *testing.T, opts ...LoaderOption) *Loader {
	t.Helper()
	dir := t.TempDir()
	base := []LoaderOption{WithSearchDirs(dir), WithEnvFiles(filepath.Join(dir, ".env"))}
	return NewLoader(append(base, opts...)...)
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := isolatedLoader(t).Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "default", cfg.Theme.Active)
	assert.True(t, cfg.Theme.Watch)
	assert.Equal(t, SourceDir, cfg.Source.Kind)
	assert.Equal(t, 3, cfg.Store.Attempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Store.Backoff)
	assert.Equal(t, 64, cfg.Render.MaxDepth)
	assert.Equal(t, "127.0.0.1:7420", cfg.Server.Addr)
	assert.Equal(t, filepath.Join(DefaultDir(), "themes"), cfg.Theme.Dir)
}

func TestPrecedenceFileThenDotEnvThenEnvThenFlags(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, filepath.Join(dir, "gameshelf.yaml"), `
log:
  level: debug
theme:
  active: from-file
  strict: true
store:
  attempts: 5
  backoff: 1s
render:
  max_depth: 10
`)
	envFile := writeFile(t, filepath.Join(dir, ".env"), "GAMESHELF_THEME_ACTIVE=from-dotenv\nGAMESHELF_RENDER_MAX_DEPTH=20\nUNRELATED=1\n")
	t.Setenv("GAMESHELF_RENDER_MAX_DEPTH", "30")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("attempts", 0, "")
	flags.String("theme", "", "")
	require.NoError(t, flags.Parse([]string{"--attempts=7"}))

	loader := NewLoader(WithConfigFile(file), WithEnvFiles(envFile))
	require.NoError(t, loader.BindFlags(flags))

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, file, loader.ConfigFileUsed())

	assert.Equal(t, "debug", cfg.Log.Level, "file beats default")
	assert.True(t, cfg.Theme.Strict)
	assert.Equal(t, time.Second, cfg.Store.Backoff)
	assert.Equal(t, "from-dotenv", cfg.Theme.Active, ".env beats file; unchanged flag does not override")
	assert.Equal(t, 30, cfg.Render.MaxDepth, "process env beats .env")
	assert.Equal(t, 7, cfg.Store.Attempts, "changed flag beats file")
}

func TestSearchFindsConfigInDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "gameshelf.yaml"), "source:\n  kind: http\n  url: http://localhost:7420\n")

	loader := NewLoader(WithSearchDirs(dir), WithEnvFiles())
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, SourceHTTP, cfg.Source.Kind)
	assert.Equal(t, "http://localhost:7420", cfg.Source.URL)
	assert.Equal(t, filepath.Join(dir, "gameshelf.yaml"), loader.ConfigFileUsed())
}

func TestMissingExplicitConfigFileFails(t *testing.T) {
	_, err := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "nope.yaml")), WithEnvFiles()).Load()
	require.Error(t, err)
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantKey string
	}{
		{name: "bad level", yaml: "log:\n  level: loud\n", wantKey: "log.level"},
		{name: "bad format", yaml: "log:\n  format: xml\n", wantKey: "log.format"},
		{name: "http without url", yaml: "source:\n  kind: http\n", wantKey: "source.url"},
		{name: "unknown source", yaml: "source:\n  kind: ftp\n", wantKey: "source.kind"},
		{name: "zero attempts", yaml: "store:\n  attempts: 0\n", wantKey: "store.attempts"},
		{name: "depth too large", yaml: "render:\n  max_depth: 5000\n", wantKey: "render.max_depth"},
		{name: "bad addr", yaml: "server:\n  addr: nowhere\n", wantKey: "server.addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := writeFile(t, filepath.Join(t.TempDir(), "gameshelf.yaml"), tt.yaml)
			_, err := NewLoader(WithConfigFile(file), WithEnvFiles()).Load()
			require.Error(t, err)

			var verr *gserrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantKey, verr.Field)
		})
	}
}

func TestEnvName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GAMESHELF_RENDER_MAX_DEPTH", EnvName("render.max_depth"))
	assert.Equal(t, "GAMESHELF_THEME_DIR", EnvName("theme.dir"))
}

func TestConfigKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "render.max_depth", configKey("Config.Render.MaxDepth"))
	assert.Equal(t, "source.url", configKey("Config.Source.URL"))
}
