package template

import (
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

var registerFiltersOnce sync.Once

// pongo2 keeps filters in a process wide registry, so they are registered once.
func registerDefaultFilters() {
	registerFiltersOnce.Do(func() {
		if !pongo2.FilterExists("trim") {
			_ = pongo2.RegisterFilter("trim", filterTrim)
		}
		if !pongo2.FilterExists("repeat") {
			_ = pongo2.RegisterFilter("repeat", filterRepeat)
		}
		if !pongo2.FilterExists("mdescape") {
			_ = pongo2.RegisterFilter("mdescape", filterMarkdownEscape)
		}
	})
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterRepeat repeats the input string param times: {{ "  "|repeat:node.depth }}.
func filterRepeat(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	count := 0
	if param != nil {
		count = param.Integer()
	}
	if count <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.Repeat(in.String(), count)), nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"|", `\|`,
)

// EscapeMarkdown backslash-escapes characters with inline meaning in
// CommonMark.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func filterMarkdownEscape(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(EscapeMarkdown(in.String())), nil
}
