// Package lineparse recognises "name : value // comment" assignment lines.
package lineparse

import (
	"regexp"
	"strings"
)

var startsWithWord = regexp.MustCompile(`^\w`)

var blanks = strings.NewReplacer("\t", "", " ", "")

// Entry is the raw field name and value text taken from one assignment line.
type Entry struct {
	Name  string
	Value string
}

// Parse reports whether line is an assignment and, if so, returns its parts.
// A line qualifies when it starts with a word character and contains ':'.
// Everything from the first '/' onward is discarded; a line without '/' is
// kept whole. Spaces and tabs are removed before splitting on the first ':'.
func Parse(line string) (Entry, bool) {
	if !startsWithWord.MatchString(line) || !strings.Contains(line, ":") {
		return Entry{}, false
	}

	if idx := strings.IndexByte(line, '/'); idx >= 0 {
		line = line[:idx]
	}
	line = blanks.Replace(line)

	name, value, found := strings.Cut(line, ":")
	if !found {
		// the only ':' was inside the comment
		return Entry{}, false
	}
	return Entry{Name: name, Value: value}, true
}
