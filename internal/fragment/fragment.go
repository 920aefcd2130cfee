package fragment

// Kind identifies the semantic category of a snippet.
type Kind uint8

const (
	// KindImport is an import directive.
	KindImport Kind = iota
	// KindTypeDecl is a class/interface/enum/record declaration.
	KindTypeDecl
	// KindMethod is a method declaration.
	KindMethod
	// KindTypedAssignment is an assignment with an explicit type, e.g. `int x = 1`.
	KindTypedAssignment
	// KindAssignment is an untyped assignment, e.g. `x = 1`.
	KindAssignment
	// KindValue is a bare expression expected to produce a value.
	KindValue
	// KindStatement is a side-effecting snippet with no value. The classifier
	// never produces it directly; the engine reclassifies a Value snippet as a
	// Statement when it fails to compile.
	KindStatement
)

func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindTypeDecl:
		return "type"
	case KindMethod:
		return "method"
	case KindTypedAssignment:
		return "typed-assignment"
	case KindAssignment:
		return "assignment"
	case KindValue:
		return "value"
	case KindStatement:
		return "statement"
	}
	return "unknown"
}

// Fragment is the classification result for one snippet. Immutable once built.
type Fragment struct {
	Kind   Kind
	Source string
	// Key is the binding name for assignments, the declared name for type
	// declarations and methods, and empty otherwise.
	Key string
}

// HasKey reports whether the fragment carries an explicit binding name.
func (f Fragment) HasKey() bool {
	return f.Kind == KindTypedAssignment || f.Kind == KindAssignment
}

// AsStatement reclassifies a snippet as a bare statement.
func AsStatement(source string) Fragment {
	return Fragment{Kind: KindStatement, Source: source}
}

// Classify maps snippet text to exactly one Fragment. Total and deterministic:
// when the text matches more than one recognizer the earliest in
// import > type > method > typed assignment > assignment wins, and anything
// unrecognized is a Value.
func Classify(text string) Fragment {
	switch {
	case isImport(text):
		return Fragment{Kind: KindImport, Source: text}
	case isTypeDecl(text):
		return Fragment{Kind: KindTypeDecl, Source: text, Key: typeName(text)}
	case isMethod(text):
		return Fragment{Kind: KindMethod, Source: text, Key: methodName(text)}
	case isTypedAssignment(text):
		return Fragment{Kind: KindTypedAssignment, Source: text, Key: typedAssignmentKey(text)}
	case isAssignment(text):
		return Fragment{Kind: KindAssignment, Source: text, Key: assignmentKey(text)}
	}
	return Fragment{Kind: KindValue, Source: text}
}
