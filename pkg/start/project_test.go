package start

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadProjectConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, `
width = 60
color = "never"
stdlib = false

[debug]
debug_typer = true
sexp = true

[format]
width = 100
`)

	config, err := LoadProjectConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 60, config.PrinterWidth())
	assert.Equal(t, 100, config.FormatWidth())
	assert.False(t, config.UseStdlib())
	assert.False(t, config.UseColor(true))
	assert.Equal(t, Options{DebugTyper: true, DebugSexp: true}, config.DebugOptions())
}

func TestProjectConfigDefaults(t *testing.T) {
	config := DefaultProjectConfig()
	assert.Equal(t, 80, config.PrinterWidth())
	assert.Equal(t, 80, config.FormatWidth())
	assert.True(t, config.UseStdlib())
	assert.True(t, config.UseColor(true))
	assert.False(t, config.UseColor(false))
	assert.Equal(t, Options{}, config.DebugOptions())
}

func TestLoadProjectConfigRejects(t *testing.T) {
	for name, content := range map[string]string{
		"unknown key":          "widht = 60\n",
		"bad color":            "color = \"sometimes\"\n",
		"unknown debug option": "[debug]\nverbose = true\n",
		"bad syntax":           "width = \n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFileName)
			writeFile(t, path, content)
			_, err := LoadProjectConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFileName), "width = 42\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	path, config, err := FindProjectConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ConfigFileName), path)
	assert.Equal(t, 42, config.PrinterWidth())

	t.Run("stops at the repository root", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "a", ".git"), 0755))
		path, config, err := FindProjectConfig(nested)
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Nil(t, config)
	})
}

func TestProjectConfigEnv(t *testing.T) {
	t.Setenv("START_WIDTH", "33")
	t.Setenv("START_COLOR", "Always")
	config := DefaultProjectConfig()
	require.NoError(t, config.ApplyEnv())
	assert.Equal(t, 33, config.PrinterWidth())
	assert.True(t, config.UseColor(false))

	t.Setenv("NO_COLOR", "")
	require.NoError(t, config.ApplyEnv())
	assert.False(t, config.UseColor(true))

	t.Setenv("START_WIDTH", "wide")
	assert.Error(t, config.ApplyEnv())
}

func TestProjectTheme(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "colors.yaml"), "keyword: {fg: \"2\", bold: true}\n")
	writeFile(t, filepath.Join(dir, ConfigFileName), "theme = \"${START_THEME_DIR}/colors.yaml\"\nwidth = 50\n")
	t.Setenv("START_THEME_DIR", dir)

	config, err := LoadProjectConfig(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)

	theme, err := config.LoadTheme(true)
	require.NoError(t, err)
	assert.Equal(t, 50, theme.Width)
	assert.True(t, theme.Styles[RoleKeyword].Bold)
	assert.Equal(t, "2", theme.Styles[RoleKeyword].Foreground)

	plain, err := config.LoadTheme(false)
	require.NoError(t, err)
	assert.False(t, plain.Color)
	assert.Equal(t, "Eval", plain.Paint(RoleKeyword, "Eval"))

	writeFile(t, filepath.Join(dir, "colors.yaml"), "keywords: {fg: \"2\"}\n")
	_, err = config.LoadTheme(true)
	assert.Error(t, err)
}

func TestProjectConfigContext(t *testing.T) {
	path, config := ProjectConfigFromContext(context.Background())
	assert.Empty(t, path)
	assert.Equal(t, DefaultProjectConfig(), config)

	mine := &ProjectConfig{Width: 10}
	ctx := ContextWithProjectConfig(context.Background(), "/x/start.toml", mine)
	path, config = ProjectConfigFromContext(ctx)
	assert.Equal(t, "/x/start.toml", path)
	assert.Same(t, mine, config)
}
