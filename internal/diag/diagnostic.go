package diag

import "fmt"

// Diagnostic is one structured compiler message.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Message  string
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, d.Severity, d.Message)
}
