package render_test

import (
	"strings"
	"testing"

	"javelin/internal/fragment"
	"javelin/internal/render"
	"javelin/internal/session"
)

func mustContain(t *testing.T, source, want string) {
	t.Helper()
	if !strings.Contains(source, want) {
		t.Fatalf("rendered unit missing %q:\n%s", want, source)
	}
}

func TestRender_ValueUnit(t *testing.T) {
	r := render.New()
	source := r.Render(session.NewContext(), "Evaluation1", fragment.Classify("x + 1"))

	mustContain(t, source, "public final class Evaluation1 {")
	mustContain(t, source, "public Evaluation1(EvaluationContext context) {")
	mustContain(t, source, "public Object evaluate() throws Exception {")
	mustContain(t, source, "return x + 1;")
	mustContain(t, source, "javelin:result")
	mustContain(t, source, "javelin:void")
}

func TestRender_Deterministic(t *testing.T) {
	r := render.New("import java.util.List;")
	ctx := session.NewContext().
		AddEvaluation(session.NewEvaluation("E0", "src", fragment.Classify("int x = 1")))
	frag := fragment.Classify("x + 1")

	first := r.Render(ctx, "Evaluation1", frag)
	second := r.Render(ctx, "Evaluation1", frag)
	if first != second {
		t.Fatal("identical inputs rendered differently")
	}
}

func TestRender_HoistsImports(t *testing.T) {
	r := render.New("import java.util.List;")
	ctx := session.NewContext().
		AddEvaluation(session.NewEvaluation("E0", "src", fragment.Classify("import java.util.Map;"))).
		AddEvaluation(session.NewEvaluation("E1", "src", fragment.Classify("import java.util.List;")))

	source := r.Render(ctx, "Evaluation2", fragment.Classify("1 + 1"))
	mustContain(t, source, "import java.util.List;")
	mustContain(t, source, "import java.util.Map;")
	if strings.Count(source, "import java.util.List;") != 1 {
		t.Fatal("duplicate import not deduplicated")
	}
	if strings.Index(source, "import java.util.List;") > strings.Index(source, "public final class") {
		t.Fatal("imports not hoisted above the class")
	}
}

func TestRender_ReplaysAssignments(t *testing.T) {
	r := render.New()
	ctx := session.NewContext().
		AddEvaluation(session.NewEvaluation("E0", "src", fragment.Classify("int x = 1"))).
		AddEvaluation(session.NewEvaluation("E1", "src", fragment.Classify("y = 2"))).
		AddEvaluation(session.NewEvaluation("E2", "src", fragment.Classify("y = 3")))

	source := r.Render(ctx, "Evaluation3", fragment.Classify("x + y"))
	mustContain(t, source, "int x = 1;")
	mustContain(t, source, "var y = 2;")
	// The reassignment must not redeclare.
	mustContain(t, source, "\n        y = 3;")
	mustContain(t, source, "return x + y;")
}

func TestRender_ReplaysResultBindings(t *testing.T) {
	r := render.New()
	ctx := session.NewContext().
		AddEvaluation(session.NewEvaluationWithResult("E0", "src", fragment.Classify("1 + 1"),
			session.Result{Key: "res0", Value: "2"})).
		AddEvaluation(session.NewEvaluation("E1", "src", fragment.Classify("nothing()")))

	source := r.Render(ctx, "Evaluation2", fragment.Classify("res0 * 2"))
	mustContain(t, source, "var res0 = 1 + 1;")
	mustContain(t, source, "return res0 * 2;")
	// A value evaluation that produced nothing has no binding to replay.
	if strings.Contains(source, "nothing()") {
		t.Fatalf("resultless value replayed:\n%s", source)
	}
}

func TestRender_AssignmentBindsAndReturns(t *testing.T) {
	r := render.New()
	source := r.Render(session.NewContext(), "Evaluation1", fragment.Classify("x = 1"))

	mustContain(t, source, "var x = 1;")
	mustContain(t, source, "context.set(\"x\", x);")
	mustContain(t, source, "return x;")
}

func TestRender_MethodsBecomeMembers(t *testing.T) {
	r := render.New()
	method := fragment.Classify("int add(int a, int b) { return a + b; }")
	ctx := session.NewContext().
		AddEvaluation(session.NewEvaluation("E0", "src", method))

	source := r.Render(ctx, "Evaluation1", fragment.Classify("add(1, 2)"))
	mustContain(t, source, "int add(int a, int b) { return a + b; }")
	mustContain(t, source, "return add(1, 2);")

	// Rendering the method evaluation itself also carries the member and
	// produces no value.
	source = r.Render(session.NewContext(), "Evaluation2", method)
	mustContain(t, source, "int add(int a, int b) { return a + b; }")
	mustContain(t, source, "return null;")
}

func TestRender_StatementReturnsNull(t *testing.T) {
	r := render.New()
	source := r.Render(session.NewContext(), "Evaluation1", fragment.AsStatement("System.out.println(1)"))

	mustContain(t, source, "System.out.println(1);")
	mustContain(t, source, "return null;")
	if strings.Contains(source, "return System.out.println") {
		t.Fatal("statement rendered as a value expression")
	}
}

func TestRender_TypeUnit(t *testing.T) {
	r := render.New()
	ctx := session.NewContext().
		AddEvaluation(session.NewEvaluation("E0", "src", fragment.Classify("import java.util.List;")))

	source := r.Render(ctx, "Foo", fragment.Classify("class Foo { List<Integer> xs; }"))
	mustContain(t, source, "import java.util.List;")
	mustContain(t, source, "class Foo { List<Integer> xs; }")
	if strings.Contains(source, "evaluate()") {
		t.Fatal("type unit wrapped in an evaluation class")
	}
}

func TestRenderContextUnit(t *testing.T) {
	source := render.New().RenderContextUnit()
	mustContain(t, source, "public final class EvaluationContext {")
	mustContain(t, source, "public Object get(String key)")
}
