package task

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// maxRangeSize bounds how many IDs a single range may expand to.
const maxRangeSize = 10000

// rangeRe matches "<left> through <right>" dependency ranges.
var rangeRe = regexp.MustCompile(`(?i)^(.+?)\s+through\s+(.+)$`)

// ParseDependencies parses a blocked-by cell into task IDs, preserving order
// and duplicates. It accepts a single ID, a comma-separated list, or a
// numeric range such as "TASK-001-062 through TASK-001-065".
func ParseDependencies(value string) []string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == "-" {
		return []string{}
	}

	if m := rangeRe.FindStringSubmatch(trimmed); m != nil {
		return expandRange(strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))
	}

	parts := strings.Split(trimmed, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// expandRange expands an inclusive numeric range, reusing the left prefix and
// zero-padding to the left side's digit width. Endpoints that cannot be
// expanded (no trailing digits, different prefixes, oversized span) come back
// literally; an end below the start yields no IDs.
func expandRange(left, right string) []string {
	lp, ld := splitTrailingDigits(left)
	rp, rd := splitTrailingDigits(right)
	if ld == "" || rd == "" || lp != rp {
		return []string{left, right}
	}

	start, err := strconv.Atoi(ld)
	if err != nil {
		return []string{left, right}
	}
	end, err := strconv.Atoi(rd)
	if err != nil {
		return []string{left, right}
	}
	if end < start {
		return []string{}
	}
	if end-start >= maxRangeSize {
		return []string{left, right}
	}

	ids := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		ids = append(ids, fmt.Sprintf("%s%0*d", lp, len(ld), i))
	}
	return ids
}

// splitTrailingDigits splits s into its prefix and maximal trailing run of
// ASCII digits.
func splitTrailingDigits(s string) (prefix, digits string) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return s[:i], s[i:]
}
