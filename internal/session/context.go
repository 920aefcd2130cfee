package session

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"javelin/internal/fragment"
)

// Context is the accumulated state of one session: the ordered evaluation
// history plus a lookup index for repeat submissions. It is a persistent
// value: AddEvaluation returns a new Context and never mutates the receiver,
// so the state before and after a failed step is trivially distinguishable.
type Context struct {
	evals     []Evaluation
	byText    map[string]int
	resultSeq int
}

// NewContext returns an empty session context.
func NewContext() Context {
	return Context{}
}

// normalizeText produces the cache key for a snippet: NFC-normalized with
// surrounding whitespace stripped, so trivially respaced resubmissions still
// hit the cache.
func normalizeText(text string) string {
	return strings.TrimSpace(norm.NFC.String(text))
}

// AddEvaluation returns a copy of the context grown by one evaluation.
func (c Context) AddEvaluation(ev Evaluation) Context {
	evals := make([]Evaluation, len(c.evals), len(c.evals)+1)
	copy(evals, c.evals)
	evals = append(evals, ev)

	byText := make(map[string]int, len(c.byText)+1)
	for k, v := range c.byText {
		byText[k] = v
	}
	byText[normalizeText(ev.Fragment.Source)] = len(evals) - 1

	seq := c.resultSeq
	if res, ok := ev.Result(); ok && res.Key == fmt.Sprintf("res%d", seq) {
		seq++
	}
	return Context{evals: evals, byText: byText, resultSeq: seq}
}

// EvaluationFor returns the recorded evaluation for previously submitted text.
func (c Context) EvaluationFor(text string) (Evaluation, bool) {
	i, ok := c.byText[normalizeText(text)]
	if !ok {
		return Evaluation{}, false
	}
	return c.evals[i], true
}

// LastEvaluation returns the most recent evaluation, if any.
func (c Context) LastEvaluation() (Evaluation, bool) {
	if len(c.evals) == 0 {
		return Evaluation{}, false
	}
	return c.evals[len(c.evals)-1], true
}

// Evaluations returns the evaluation history in submission order.
// Do not modify the returned slice.
func (c Context) Evaluations() []Evaluation {
	return c.evals
}

// Len returns the number of recorded evaluations.
func (c Context) Len() int {
	return len(c.evals)
}

// Results returns every present result in submission order.
func (c Context) Results() []Result {
	var results []Result
	for _, ev := range c.evals {
		if res, ok := ev.Result(); ok {
			results = append(results, res)
		}
	}
	return results
}

// Result returns the result bound to key, if any. Later bindings shadow
// earlier ones.
func (c Context) Result(key string) (Result, bool) {
	for i := len(c.evals) - 1; i >= 0; i-- {
		if res, ok := c.evals[i].Result(); ok && res.Key == key {
			return res, true
		}
	}
	return Result{}, false
}

// EvaluationsOfKind returns the evaluations whose fragment has the given kind,
// in submission order.
func (c Context) EvaluationsOfKind(kind fragment.Kind) []Evaluation {
	var out []Evaluation
	for _, ev := range c.evals {
		if ev.Fragment.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

// NextResultKey returns the next generated result key. The sequence advances
// only when a generated key is actually consumed, so explicit-key assignments
// interleaved between bare value expressions do not burn keys.
func (c Context) NextResultKey() string {
	return fmt.Sprintf("res%d", c.resultSeq)
}
