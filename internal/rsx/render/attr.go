package render

import (
	"strings"

	"github.com/kilianc/rsx/internal/rsx/ast"
)

// singleQuotePrefixes are attribute key prefixes used by Alpine.js and htmx,
// whose values are usually JavaScript or JSON and read better single-quoted.
var singleQuotePrefixes = []string{":", "@", "x-", "hx-"}

// Attr renders one attribute with its leading space. A value of "true"
// renders the bare key and "false" renders nothing.
func Attr(a ast.Attr) string {
	switch a.Value {
	case "true":
		return " " + a.Key
	case "false":
		return ""
	}
	if singleQuoted(a.Key, a.Value) {
		return " " + a.Key + "='" + strings.ReplaceAll(a.Value, `\"`, `"`) + "'"
	}
	return " " + a.Key + `="` + a.Value + `"`
}

func singleQuoted(key, value string) bool {
	for _, p := range singleQuotePrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	// Covers both a raw quote and the escaped \" form.
	return strings.Contains(value, `"`)
}
