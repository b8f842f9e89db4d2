package pipeline

import (
	"regexp"
	"strings"
)

// CompilePattern compiles a matcher. Both bare regular expressions and the
// slash delimited form (/\.svg$/i) are accepted; the only flag is i.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	expr := pattern
	if len(pattern) >= 2 && strings.HasPrefix(pattern, "/") {
		if end := strings.LastIndex(pattern, "/"); end > 0 {
			flags := pattern[end+1:]
			if strings.Trim(flags, "i") == "" {
				expr = pattern[1:end]
				if flags != "" {
					expr = "(?i)" + expr
				}
			}
		}
	}
	return regexp.Compile(expr)
}
