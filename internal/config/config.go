package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mithrel/mdpreview/internal/export"
	"github.com/mithrel/mdpreview/pkg/markdown"
)

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the configuration keys, their defaults and their
// meanings. It is the single source of truth for defaults and for the
// generated config file.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "http_addr", Default: "127.0.0.1:7466", Comment: "Listen address for the live preview server"},

		{Key: "render.enable_formatting", Default: true, Comment: "Apply Markdown formatting; when false only line breaks are handled"},
		{Key: "render.preserve_line_breaks", Default: false, Comment: "Turn every newline into <br> instead of building paragraphs"},
		{Key: "render.engine", Default: "regex", Comment: "Renderer: regex (built-in pipeline) or commonmark"},
		{Key: "render.substitute_pattern", Default: "", Comment: "Case-insensitive literal text replaced before rendering; empty disables"},
		{Key: "render.substitute_replacement", Default: "", Comment: "Replacement for render.substitute_pattern"},

		{Key: "export.dir", Default: ".", Comment: "Directory exported documents are written to"},
		{Key: "export.filename", Default: export.DefaultFilename, Comment: "File name of exported documents"},
		{Key: "export.title", Default: "Markdown Output", Comment: "<title> of exported documents"},
		{Key: "export.overwrite", Default: true, Comment: "Replace an existing export file"},

		{Key: "watch.debounce_ms", Default: 150, Comment: "Quiet period before a changed file is re-rendered"},

		{Key: "terminal.style", Default: "dracula", Comment: "Glamour style for terminal output"},
		{Key: "terminal.width", Default: 80, Comment: "Word wrap width for terminal output"},

		{Key: "log.level", Default: "info", Comment: "Log level: debug, info, warn or error"},
	}
}

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// An explicit SetConfigFile upstream wins; the search paths only apply
	// when none was given.
	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "mdpreview"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "mdpreview"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	// A missing file is fine unless it was asked for explicitly.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: MDPREVIEW_* (highest among these sources)
	v.SetEnvPrefix("mdpreview")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("export.filename")) == "" {
		v.Set("export.filename", export.DefaultFilename)
	}
	return nil
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "mdpreview", "config.toml")
}

// RenderOptions builds renderer options from the render.* keys.
func RenderOptions(v *viper.Viper) markdown.Options {
	opts := markdown.Options{
		EnableFormatting:   v.GetBool("render.enable_formatting"),
		PreserveLineBreaks: v.GetBool("render.preserve_line_breaks"),
	}
	if p := v.GetString("render.substitute_pattern"); p != "" {
		opts.Substitute = &markdown.Substitution{
			Pattern:     p,
			Replacement: v.GetString("render.substitute_replacement"),
		}
	}
	return opts
}

// ExportOptions builds document options from the export.* keys.
func ExportOptions(v *viper.Viper) export.Options {
	return export.Options{Title: v.GetString("export.title")}
}

// ExportPath returns export.dir joined with export.filename, with a leading
// ~ expanded.
func ExportPath(v *viper.Viper) string {
	dir := v.GetString("export.dir")
	if dir == "" {
		dir = "."
	}
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return filepath.Join(dir, filepath.Base(v.GetString("export.filename")))
}
