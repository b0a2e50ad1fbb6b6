package xssfilter

import (
	"regexp"
	"strings"
)

// cssExpression matches legacy IE `expression(...)` values anywhere in a
// string, like `color: expression(alert(1))`.
var cssExpression = regexp.MustCompile(`(?is):\s*expression\s*\(`)

// hasScriptLinks expects value to be lower cased already.
func hasScriptLinks(value string) bool {
	return strings.Contains(value, "javascript:") ||
		strings.Contains(value, "vbscript:")
}

func hasExpression(value string) bool { return cssExpression.MatchString(value) }

func hasExpressionOrImport(value string) bool {
	return hasExpression(value) || strings.Contains(value, "@import")
}

func (self *Policy) isBlacklistedMimeType(value string) bool {
	_, ok := self.mimeTypes[strings.ToLower(strings.TrimSpace(value))]
	return ok
}
