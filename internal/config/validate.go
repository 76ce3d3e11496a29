package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mithrel/mdpreview/internal/present/format"
	"github.com/mithrel/mdpreview/internal/render"
	"github.com/mithrel/mdpreview/internal/util"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// CheckConfigValidity reports every problem found in v as one joined error.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if addr := strings.TrimSpace(v.GetString("http_addr")); addr == "" {
		add("http_addr is required")
	} else if _, _, err := net.SplitHostPort(addr); err != nil {
		add("http_addr %q is not host:port", addr)
	}

	if engine := v.GetString("render.engine"); !contains(render.Engines, strings.ToLower(engine)) {
		add("render.engine %q is not one of %s%s", engine, strings.Join(render.Engines, ", "), suggest(engine, render.Engines))
	}
	if v.GetString("render.substitute_pattern") == "" && v.GetString("render.substitute_replacement") != "" {
		add("render.substitute_replacement is set but render.substitute_pattern is empty")
	}

	name := strings.TrimSpace(v.GetString("export.filename"))
	switch {
	case name == "":
		add("export.filename is required")
	case filepath.Base(name) != name:
		add("export.filename must not contain a directory")
	}

	if v.GetInt("watch.debounce_ms") < 0 {
		add("watch.debounce_ms must not be negative")
	}

	if style := v.GetString("terminal.style"); !contains(format.TerminalStyles, style) {
		add("terminal.style %q is unknown%s", style, suggest(style, format.TerminalStyles))
	}
	if v.GetInt("terminal.width") <= 0 {
		add("terminal.width must be greater than 0")
	}

	if lvl := strings.ToLower(v.GetString("log.level")); !contains(logLevels, lvl) {
		add("log.level %q is not one of %s", lvl, strings.Join(logLevels, ", "))
	}

	return errors.Join(errs...)
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func suggest(input string, candidates []string) string {
	if input == "" {
		return ""
	}
	if best := util.ScoreCompletions(input, candidates, 1); len(best) > 0 {
		return fmt.Sprintf(" (did you mean %q?)", best[0])
	}
	return ""
}
