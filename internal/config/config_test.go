package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdpreview/internal/export"
)

func TestCheckConfigValidityDefaults(t *testing.T) {
	v := viper.New()
	applyDefaults(v)

	if err := CheckConfigValidity(v); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("http_addr", "nope")
	v.Set("render.engine", "comonmark")
	v.Set("render.substitute_replacement", "x")
	v.Set("export.filename", "../out.html")
	v.Set("watch.debounce_ms", -1)
	v.Set("terminal.style", "drakula")
	v.Set("terminal.width", 0)
	v.Set("log.level", "loud")

	err := CheckConfigValidity(v)
	if err == nil {
		t.Fatalf("expected error for invalid config")
	}

	msg := err.Error()
	expected := []string{
		`http_addr "nope" is not host:port`,
		`render.engine "comonmark"`,
		`did you mean "commonmark"?`,
		"render.substitute_replacement is set",
		"export.filename must not contain a directory",
		"watch.debounce_ms must not be negative",
		`terminal.style "drakula" is unknown`,
		"terminal.width must be greater than 0",
		`log.level "loud"`,
	}
	for _, want := range expected {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected error to contain %q, got %q", want, msg)
		}
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[render]\npreserve_line_breaks = true\nengine = \"commonmark\"\n[export]\ntitle = \"From File\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("MDPREVIEW_EXPORT_TITLE", "From Env")

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, Load(context.Background(), v))

	assert.True(t, v.GetBool("render.preserve_line_breaks"))
	assert.True(t, v.GetBool("render.enable_formatting"), "default kept")
	assert.Equal(t, "commonmark", v.GetString("render.engine"))
	assert.Equal(t, "From Env", v.GetString("export.title"))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, Load(context.Background(), v))
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	v := viper.New()
	require.NoError(t, Load(context.Background(), v))
	assert.Equal(t, export.DefaultFilename, v.GetString("export.filename"))
}

func TestRenderOptions(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	opts := RenderOptions(v)
	assert.True(t, opts.EnableFormatting)
	assert.False(t, opts.PreserveLineBreaks)
	assert.Nil(t, opts.Substitute)

	v.Set("render.substitute_pattern", "foo")
	v.Set("render.substitute_replacement", "bar")
	opts = RenderOptions(v)
	require.NotNil(t, opts.Substitute)
	assert.Equal(t, "foo", opts.Substitute.Pattern)
	assert.Equal(t, "bar", opts.Substitute.Replacement)
}

func TestExportPath(t *testing.T) {
	v := viper.New()
	applyDefaults(v)
	v.Set("export.dir", "/tmp/out")
	assert.Equal(t, filepath.Join("/tmp/out", export.DefaultFilename), ExportPath(v))
}

func TestRenderDefaultTOMLRoundTrip(t *testing.T) {
	doc := RenderDefaultTOML()
	assert.Contains(t, doc, "[render]\n")
	assert.Contains(t, doc, `engine = "regex"`)
	assert.Contains(t, doc, "http_addr = \"127.0.0.1:7466\"")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, Load(context.Background(), v))
	require.NoError(t, CheckConfigValidity(v))
	assert.Equal(t, 80, v.GetInt("terminal.width"))
}

func TestUpdateTOML(t *testing.T) {
	existing := "http_addr = \"0.0.0.0:9000\"\nlegacy = 1\n[render]\nengine = \"commonmark\"\n"
	updated, changed := UpdateTOML(existing)
	require.True(t, changed)

	assert.Contains(t, updated, "# OUTDATED: option removed from config schema\n# legacy = 1")
	assert.Contains(t, updated, `http_addr = "0.0.0.0:9000"`)
	assert.Equal(t, 1, strings.Count(updated, "engine ="))
	assert.Equal(t, 1, strings.Count(updated, "[render]"))
	assert.Less(t, strings.Index(updated, "preserve_line_breaks = false"), strings.Index(updated, "[export]"))
	assert.Greater(t, strings.Index(updated, "preserve_line_breaks = false"), strings.Index(updated, "[render]"))

	again, changed := UpdateTOML(updated)
	assert.False(t, changed)
	assert.Equal(t, updated, again)
}
