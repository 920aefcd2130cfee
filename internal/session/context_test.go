package session_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"javelin/internal/fragment"
	"javelin/internal/session"
)

func valueEval(unit, text, key, value string) session.Evaluation {
	return session.NewEvaluationWithResult(unit, "src", fragment.Fragment{Kind: fragment.KindValue, Source: text},
		session.Result{Key: key, Value: value})
}

func TestAddEvaluation_DoesNotMutateReceiver(t *testing.T) {
	empty := session.NewContext()
	grown := empty.AddEvaluation(valueEval("Evaluation1", "1 + 1", "res0", "2"))

	if empty.Len() != 0 {
		t.Fatal("AddEvaluation mutated the original context")
	}
	if grown.Len() != 1 {
		t.Fatalf("grown context has %d evaluations, want 1", grown.Len())
	}
	// Growing the new context further must not leak into its ancestor.
	grown2 := grown.AddEvaluation(valueEval("Evaluation2", "2 + 2", "res1", "4"))
	if grown.Len() != 1 || grown2.Len() != 2 {
		t.Fatalf("structural sharing leaked: %d and %d", grown.Len(), grown2.Len())
	}
}

func TestEvaluationFor_NormalizesText(t *testing.T) {
	ctx := session.NewContext().AddEvaluation(valueEval("Evaluation1", "x + 1", "res0", "2"))

	if _, ok := ctx.EvaluationFor("x + 1"); !ok {
		t.Fatal("exact text missed the cache")
	}
	if _, ok := ctx.EvaluationFor("  x + 1  "); !ok {
		t.Fatal("surrounding whitespace defeated the cache")
	}
	if _, ok := ctx.EvaluationFor("x + 2"); ok {
		t.Fatal("different text hit the cache")
	}
}

func TestNextResultKey_AdvancesOnlyWhenConsumed(t *testing.T) {
	ctx := session.NewContext()
	if ctx.NextResultKey() != "res0" {
		t.Fatalf("got %q, want res0", ctx.NextResultKey())
	}

	// A generated key advances the sequence.
	ctx = ctx.AddEvaluation(valueEval("E1", "1 + 1", ctx.NextResultKey(), "2"))
	if ctx.NextResultKey() != "res1" {
		t.Fatalf("got %q, want res1", ctx.NextResultKey())
	}

	// An explicit binding does not.
	assign := session.NewEvaluationWithResult("E2", "src",
		fragment.Fragment{Kind: fragment.KindAssignment, Source: "y = 1", Key: "y"},
		session.Result{Key: "y", Value: "1"})
	ctx = ctx.AddEvaluation(assign)
	if ctx.NextResultKey() != "res1" {
		t.Fatalf("got %q, want res1 after explicit key", ctx.NextResultKey())
	}

	// Neither does an evaluation with no result.
	decl := session.NewEvaluation("Foo", "src", fragment.Fragment{Kind: fragment.KindTypeDecl, Source: "class Foo {}", Key: "Foo"})
	ctx = ctx.AddEvaluation(decl)
	if ctx.NextResultKey() != "res1" {
		t.Fatalf("got %q, want res1 after no-result evaluation", ctx.NextResultKey())
	}
}

func TestResults_OrderAndShadowing(t *testing.T) {
	ctx := session.NewContext().
		AddEvaluation(valueEval("E1", "a", "x", "1")).
		AddEvaluation(session.NewEvaluation("Foo", "src", fragment.Fragment{Kind: fragment.KindTypeDecl, Source: "class Foo {}", Key: "Foo"})).
		AddEvaluation(valueEval("E2", "b", "x", "2"))

	var got []string
	for _, res := range ctx.Results() {
		got = append(got, res.Value)
	}
	if diff := cmp.Diff([]string{"1", "2"}, got); diff != "" {
		t.Fatalf("results order (-want +got):\n%s", diff)
	}

	res, ok := ctx.Result("x")
	if !ok || res.Value != "2" {
		t.Fatalf("got %v %v, want the later binding (2)", res, ok)
	}
}

func TestEvaluationsOfKind(t *testing.T) {
	ctx := session.NewContext().
		AddEvaluation(session.NewEvaluation("E1", "src", fragment.Fragment{Kind: fragment.KindImport, Source: "import java.util.List;"})).
		AddEvaluation(session.NewEvaluation("Foo", "src", fragment.Fragment{Kind: fragment.KindTypeDecl, Source: "class Foo {}", Key: "Foo"})).
		AddEvaluation(session.NewEvaluation("E2", "src", fragment.Fragment{Kind: fragment.KindImport, Source: "import java.util.Map;"}))

	imports := ctx.EvaluationsOfKind(fragment.KindImport)
	if len(imports) != 2 {
		t.Fatalf("got %d imports, want 2", len(imports))
	}
	if imports[0].Fragment.Source != "import java.util.List;" {
		t.Fatal("imports out of submission order")
	}
	if len(ctx.EvaluationsOfKind(fragment.KindMethod)) != 0 {
		t.Fatal("unexpected method evaluations")
	}
}

func TestLastEvaluation(t *testing.T) {
	ctx := session.NewContext()
	if _, ok := ctx.LastEvaluation(); ok {
		t.Fatal("empty context has a last evaluation")
	}
	ctx = ctx.AddEvaluation(valueEval("E1", "a", "res0", "1"))
	last, ok := ctx.LastEvaluation()
	if !ok || last.UnitName != "E1" {
		t.Fatalf("got %v %v, want E1", last.UnitName, ok)
	}
}
