package session

import "javelin/internal/fragment"

// Evaluation records one completed step: the generated unit name, the full
// synthesized source, the classified fragment, and an optional result.
// Evaluations are immutable and only ever appended to a Context.
type Evaluation struct {
	UnitName string
	Source   string
	Fragment fragment.Fragment

	result    Result
	hasResult bool
}

// NewEvaluation builds an evaluation that produced no value.
func NewEvaluation(unitName, source string, frag fragment.Fragment) Evaluation {
	return Evaluation{UnitName: unitName, Source: source, Fragment: frag}
}

// NewEvaluationWithResult builds an evaluation carrying a present result.
func NewEvaluationWithResult(unitName, source string, frag fragment.Fragment, res Result) Evaluation {
	return Evaluation{UnitName: unitName, Source: source, Fragment: frag, result: res, hasResult: true}
}

// Result returns the evaluation's result and whether one is present.
func (e Evaluation) Result() (Result, bool) {
	return e.result, e.hasResult
}
