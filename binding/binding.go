// Package binding expands ${name} placeholders in card template strings
// (stamp text, output filename, script arguments).
package binding

import (
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Vars maps placeholder names to their values.
type Vars map[string]string

// Interpolate 将文本中的 ${name} 替换为 vars 中的值。
// 若 vars 为空或名称不存在，则保留原占位符。
func Interpolate(text string, vars Vars) string {
	if len(vars) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderName(match)
		if name == "" {
			return match
		}
		if val, ok := vars[name]; ok {
			return val
		}
		return match
	})
}

// Placeholders lists the names referenced by text, in order of appearance.
func Placeholders(text string) []string {
	var names []string
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		if name := strings.TrimSpace(groups[1]); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Unknown returns the placeholders in text that are not among allowed.
func Unknown(text string, allowed ...string) []string {
	known := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		known[a] = struct{}{}
	}
	var out []string
	for _, name := range Placeholders(text) {
		if _, ok := known[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func placeholderName(match string) string {
	groups := exprPattern.FindStringSubmatch(match)
	if len(groups) < 2 {
		return ""
	}
	return strings.TrimSpace(groups[1])
}
