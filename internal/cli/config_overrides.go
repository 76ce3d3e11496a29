package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/mdpreview/internal/config"
)

// flagKeys maps flag names that differ from their config key.
var flagKeys = map[string]string{
	"log-level":       "log.level",
	"engine":          "render.engine",
	"formatting":      "render.enable_formatting",
	"preserve-breaks": "render.preserve_line_breaks",
	"listen":          "http_addr",
	"dir":             "export.dir",
	"name":            "export.filename",
	"title":           "export.title",
	"overwrite":       "export.overwrite",
	"debounce":        "watch.debounce_ms",
	"style":           "terminal.style",
	"width":           "terminal.width",
}

// addRenderFlags registers the flags every rendering command shares.
func addRenderFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("engine", "", "renderer: regex or commonmark")
	f.Bool("formatting", true, "apply Markdown formatting")
	f.Bool("preserve-breaks", false, "turn every newline into <br>")
	f.String("substitute", "", "replace text before rendering, as pattern=replacement")
}

// applyFlags copies changed flags onto v, after the file and env layers.
func applyFlags(cmd *cobra.Command, v *viper.Viper) error {
	applyConfigFlagOverrides(cmd, v, flagKeys)

	flag := cmd.Flags().Lookup("substitute")
	if flag == nil || !flag.Changed {
		return nil
	}
	pattern, replacement, err := parseSubstitute(flag.Value.String())
	if err != nil {
		return err
	}
	v.Set("render.substitute_pattern", pattern)
	v.Set("render.substitute_replacement", replacement)
	return nil
}

// parseSubstitute splits "pattern=replacement" on the first '='. An empty
// value clears the substitution.
func parseSubstitute(s string) (pattern, replacement string, err error) {
	if s == "" {
		return "", "", nil
	}
	pattern, replacement, ok := strings.Cut(s, "=")
	if !ok || pattern == "" {
		return "", "", fmt.Errorf("--substitute wants pattern=replacement, got %q", s)
	}
	return pattern, replacement, nil
}

func applyConfigFlagOverrides(cmd *cobra.Command, v *viper.Viper, extra map[string]string) {
	for _, opt := range config.GetConfigOptions() {
		if changed(cmd, opt.Key) {
			setFromFlag(cmd, v, opt.Key, opt.Key)
		}
	}
	for flagName, key := range extra {
		if changed(cmd, flagName) {
			setFromFlag(cmd, v, flagName, key)
		}
	}
}

func changed(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}

func setFromFlag(cmd *cobra.Command, v *viper.Viper, flagName, key string) {
	fs := cmd.Flags()
	switch fs.Lookup(flagName).Value.Type() {
	case "bool":
		if val, err := fs.GetBool(flagName); err == nil {
			v.Set(key, val)
		}
	case "int":
		if val, err := fs.GetInt(flagName); err == nil {
			v.Set(key, val)
		}
	default:
		v.Set(key, fs.Lookup(flagName).Value.String())
	}
}
