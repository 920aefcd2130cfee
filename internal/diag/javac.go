package diag

import (
	"regexp"
	"strconv"
	"strings"
)

// javac writes diagnostics as `<file>:<line>: <kind>: <message>`, followed by
// the offending source line, a caret line, and a trailing `N errors` summary.
var javacLine = regexp.MustCompile(`^(.+\.java):(\d+):\s+(error|warning|note):\s+(.*)$`)

// ParseJavac extracts structured diagnostics from a compiler's stderr text.
// Lines that do not look like diagnostics (source echo, caret markers, the
// error-count summary) are skipped.
func ParseJavac(text string, max int) *Bag {
	bag := NewBag(max)
	for _, line := range strings.Split(text, "\n") {
		m := javacLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		lineNo, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		bag.Add(Diagnostic{
			Severity: severityFor(m[3]),
			File:     m[1],
			Line:     lineNo,
			Message:  m[4],
		})
	}
	return bag
}

func severityFor(kind string) Severity {
	switch kind {
	case "error":
		return SevError
	case "warning":
		return SevWarning
	}
	return SevNote
}
