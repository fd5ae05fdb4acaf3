package themes

import "strings"

// CSSOverridesRoot is the URL folder holding per-site stylesheet overrides.
const CSSOverridesRoot = "/Themes/~CssOverrides/"

// CSSOverridePath returns the URL of a stylesheet override, or "" when no
// file name is configured.
func CSSOverridePath(fileName string) string {
	if strings.TrimSpace(fileName) == "" {
		return ""
	}
	return CSSOverridesRoot + fileName
}
