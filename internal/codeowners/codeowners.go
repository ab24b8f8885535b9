// Package codeowners locates and parses CODEOWNERS files.
package codeowners

import (
	"bytes"
	"strings"
)

// Paths are the locations GitHub recognizes for CODEOWNERS files, in the
// precedence order used when a repository carries more than one.
var Paths = []string{".github/CODEOWNERS", "CODEOWNERS", "docs/CODEOWNERS"}

// Usernames extracts the @-mentioned owners from CODEOWNERS content,
// skipping comments and blank lines. Team handles (org/team) are excluded
// unless includeTeams is set. Order and duplicates are preserved so callers
// see owners exactly as the file lists them.
func Usernames(content []byte, includeTeams bool) []string {
	var usernames []string

	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		for _, field := range strings.Fields(trimmed) {
			if !strings.HasPrefix(field, "@") {
				continue
			}
			handle := strings.TrimPrefix(field, "@")
			if handle == "" {
				continue
			}
			if strings.Contains(handle, "/") && !includeTeams {
				continue
			}
			usernames = append(usernames, handle)
		}
	}

	return usernames
}

// Remove strips every @username mention from the content, leaving the rest
// of the line intact.
func Remove(content []byte, username string) []byte {
	return bytes.ReplaceAll(content, []byte("@"+username), nil)
}

// Dedupe returns the usernames with duplicates removed, preserving first
// occurrence order.
func Dedupe(usernames []string) []string {
	seen := make(map[string]bool, len(usernames))
	out := make([]string, 0, len(usernames))
	for _, u := range usernames {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
