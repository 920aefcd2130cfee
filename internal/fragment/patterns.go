package fragment

import "regexp"

// Recognizers for the snippet categories. These deliberately stay shallow:
// full syntactic validation belongs to the external compiler, the patterns only
// have to pick a rendering strategy.
var (
	importPattern = regexp.MustCompile(`^\s*import\s+(?:static\s+)?[\w.]+(?:\.\*)?\s*;?\s*$`)

	typePattern = regexp.MustCompile(`^\s*(?:(?:public|final|abstract|sealed|static)\s+)*` +
		`(?:class|interface|enum|record)\s+(\w+)`)

	methodPattern = regexp.MustCompile(`^\s*(?:(?:public|private|protected|static|final|synchronized)\s+)*` +
		`[\w$.]+(?:<[^(]*>)?(?:\[\])*\s+(\w+)\s*\([^)]*\)\s*(?:throws\s+[\w.,\s]+)?\{`)

	typedAssignmentPattern = regexp.MustCompile(`^\s*(?:final\s+)?[\w$.]+(?:<[^=]*>)?(?:\[\])*\s+(\w+)\s*=[^=].*$`)

	assignmentPattern = regexp.MustCompile(`^\s*(\w+)\s*=[^=].*$`)
)

func isImport(text string) bool { return importPattern.MatchString(text) }

func isTypeDecl(text string) bool { return typePattern.MatchString(text) }

func isMethod(text string) bool { return methodPattern.MatchString(text) }

func isTypedAssignment(text string) bool { return typedAssignmentPattern.MatchString(text) }

func isAssignment(text string) bool { return assignmentPattern.MatchString(text) }

func typeName(text string) string {
	m := typePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func methodName(text string) string {
	m := methodPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func typedAssignmentKey(text string) string {
	m := typedAssignmentPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func assignmentKey(text string) string {
	m := assignmentPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
