package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevNote is for supplementary compiler notes.
	SevNote Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevNote:
		return "NOTE"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
