package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	top, sections, order := groupOptions(GetConfigOptions())

	lines := []string{"# mdpreview configuration (TOML)"}
	for _, o := range top {
		lines = appendOption(lines, o)
	}
	for _, section := range order {
		lines = append(lines, "["+section+"]")
		for _, o := range sections[section] {
			lines = appendOption(lines, o)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// UpdateTOML merges missing defaults into an existing TOML document and
// comments out keys that are no longer part of the schema. Missing keys go
// at the end of their existing section, or into a new section appended at
// the end. The boolean reports whether anything changed.
func UpdateTOML(existing string) (string, bool) {
	opts := GetConfigOptions()
	known := make(map[string]bool, len(opts))
	for _, o := range opts {
		known[o.Key] = true
	}

	lines := strings.Split(existing, "\n")
	seen := make(map[string]bool)
	forEachKey(lines, func(section, key string) {
		seen[joinKey(section, key)] = true
	})

	var missing []ConfigOption
	for _, o := range opts {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	top, sections, order := groupOptions(missing)
	sections[""] = top

	changed := false
	var out []string
	flush := func(section string) {
		if len(sections[section]) == 0 {
			return
		}
		// Keep a trailing blank line after the inserted block.
		trail := 0
		for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
			out = out[:len(out)-1]
			trail++
		}
		for _, o := range sections[section] {
			out = appendOption(out, o)
		}
		out = out[:len(out)-1]
		for ; trail > 0; trail-- {
			out = append(out, "")
		}
		delete(sections, section)
		changed = true
	}

	section := ""
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if isSectionHeader(trim) {
			flush(section)
			section = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			continue
		}
		if key, ok := parseTOMLKey(line); ok && !isComment(trim) && !known[joinKey(section, key)] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema", indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
			continue
		}
		out = append(out, line)
	}
	flush(section)

	for _, s := range order {
		if len(sections[s]) == 0 {
			continue
		}
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, "["+s+"]")
		for _, o := range sections[s] {
			out = appendOption(out, o)
		}
		changed = true
	}

	return strings.Join(out, "\n"), changed
}

// forEachKey calls fn for every key assignment outside comments.
func forEachKey(lines []string, fn func(section, key string)) {
	section := ""
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		switch {
		case isComment(trim):
		case isSectionHeader(trim):
			section = strings.TrimSpace(trim[1 : len(trim)-1])
		default:
			if key, ok := parseTOMLKey(line); ok {
				fn(section, key)
			}
		}
	}
}

func joinKey(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}

func isComment(trim string) bool {
	return trim == "" || strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, ";")
}

func isSectionHeader(trim string) bool {
	return strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]")
}

// groupOptions splits dotted keys into TOML sections, keeping declaration
// order. Keys inside a section are returned without their prefix.
func groupOptions(opts []ConfigOption) (top []ConfigOption, sections map[string][]ConfigOption, order []string) {
	sections = make(map[string][]ConfigOption)
	for _, o := range opts {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, exists := sections[section]; !exists {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func appendOption(lines []string, o ConfigOption) []string {
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, o.Key+" = "+tomlValue(o.Default), "")
}

func tomlValue(v any) string {
	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case bool, int, int64, float64:
		return fmt.Sprintf("%v", x)
	case []string:
		quoted := make([]string, len(x))
		for i, s := range x {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + " = " + tomlValue(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return strconv.Quote(fmt.Sprint(x))
	}
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") || strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}
