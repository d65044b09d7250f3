package common

import (
	"path"
	"regexp"
	"strings"
)

// UnknownStr is printed for enum values outside their known range.
const UnknownStr = "unknown"

var (
	majorVersion  = regexp.MustCompile(`^v[0-9]+$`)
	gopkgInSuffix = regexp.MustCompile(`\.v[0-9]+$`)
)

// PkgAlias returns the default package alias for an import path: its last
// element, skipping a trailing major version ("/v2" or ".v3") and dropping a
// "go-" prefix and characters not allowed in identifiers.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if majorVersion.MatchString(base) {
		if parent := path.Dir(pkgPath); parent != "." && parent != "/" {
			base = path.Base(parent)
		}
	}

	base = gopkgInSuffix.ReplaceAllString(base, "")
	base = strings.TrimPrefix(base, "go-")
	base = strings.TrimSuffix(base, ".go")

	return strings.Map(func(r rune) rune {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			return r
		}

		return -1
	}, base)
}
