// Package render synthesizes compilable guest-language units from a session
// context plus one classified fragment. Rendering is deterministic: identical
// inputs always produce identical source text.
package render

import (
	"strings"

	"javelin/internal/fragment"
	"javelin/internal/session"
	"javelin/internal/toolchain"
)

// ContextUnitName is the support unit every synthesized evaluation unit is
// constructed with. It is rendered once per session into the workspace.
const ContextUnitName = "EvaluationContext"

// Renderer synthesizes unit source text.
type Renderer struct {
	sessionImports []string
}

// New returns a Renderer that hoists the given imports into every unit.
func New(sessionImports ...string) *Renderer {
	return &Renderer{sessionImports: sessionImports}
}

// RenderContextUnit produces the session-context support class consumed by
// every evaluation unit's constructor.
func (r *Renderer) RenderContextUnit() string {
	var b strings.Builder
	b.WriteString("import java.util.LinkedHashMap;\n")
	b.WriteString("import java.util.Map;\n\n")
	b.WriteString("public final class " + ContextUnitName + " {\n")
	b.WriteString("    private final Map<String, Object> results = new LinkedHashMap<>();\n\n")
	b.WriteString("    public void set(String key, Object value) { results.put(key, value); }\n\n")
	b.WriteString("    public Object get(String key) { return results.get(key); }\n")
	b.WriteString("}\n")
	return b.String()
}

// Render produces the complete source of one compilable unit. Type
// declarations render as the bare declaration with session imports hoisted;
// every other fragment kind renders as an evaluation class exposing a
// single-argument constructor taking the session context and a no-argument
// evaluate() entry point, plus a main method that performs the
// instantiate-and-invoke step and frames the produced value for the loader.
func (r *Renderer) Render(ctx session.Context, unitName string, frag fragment.Fragment) string {
	if frag.Kind == fragment.KindTypeDecl {
		return r.renderTypeUnit(ctx, frag)
	}
	return r.renderEvaluationUnit(ctx, unitName, frag)
}

func (r *Renderer) renderTypeUnit(ctx session.Context, frag fragment.Fragment) string {
	var b strings.Builder
	writeImports(&b, r.importLines(ctx, frag))
	b.WriteString(frag.Source)
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) renderEvaluationUnit(ctx session.Context, unitName string, frag fragment.Fragment) string {
	var b strings.Builder
	writeImports(&b, r.importLines(ctx, frag))

	b.WriteString("public final class " + unitName + " {\n")
	b.WriteString("    private final " + ContextUnitName + " context;\n\n")
	b.WriteString("    public " + unitName + "(" + ContextUnitName + " context) {\n")
	b.WriteString("        this.context = context;\n")
	b.WriteString("    }\n\n")

	for _, ev := range ctx.EvaluationsOfKind(fragment.KindMethod) {
		writeMember(&b, ev.Fragment.Source)
	}
	if frag.Kind == fragment.KindMethod {
		writeMember(&b, frag.Source)
	}

	b.WriteString("    public Object evaluate() throws Exception {\n")
	declared := map[string]bool{}
	for _, ev := range ctx.Evaluations() {
		if ev.Fragment.Kind == fragment.KindValue {
			if line, ok := replayValueLine(ev, declared); ok {
				b.WriteString("        " + line + "\n")
			}
			continue
		}
		if line, ok := replayLine(ev.Fragment, declared); ok {
			b.WriteString("        " + line + "\n")
		}
	}
	writeEntrypointTail(&b, frag, declared)
	b.WriteString("    }\n\n")

	b.WriteString("    public static void main(String[] args) throws Exception {\n")
	b.WriteString("        Object result = new " + unitName + "(new " + ContextUnitName + "()).evaluate();\n")
	b.WriteString("        if (result == null) {\n")
	b.WriteString("            System.out.println(\"" + toolchain.VoidMarker + "\");\n")
	b.WriteString("        } else {\n")
	b.WriteString("            System.out.println(\"" + toolchain.ResultMarker + "\" + result);\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}

// importLines collects the session imports with historical and current import
// fragments, deduplicated in first-seen order.
func (r *Renderer) importLines(ctx session.Context, frag fragment.Fragment) []string {
	seen := map[string]bool{}
	var lines []string
	add := func(raw string) {
		line := asStatement(strings.TrimSpace(raw))
		if line == ";" || seen[line] {
			return
		}
		seen[line] = true
		lines = append(lines, line)
	}
	for _, imp := range r.sessionImports {
		add(imp)
	}
	for _, ev := range ctx.EvaluationsOfKind(fragment.KindImport) {
		add(ev.Fragment.Source)
	}
	if frag.Kind == fragment.KindImport {
		add(frag.Source)
	}
	return lines
}

func writeImports(b *strings.Builder, lines []string) {
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	if len(lines) > 0 {
		b.WriteString("\n")
	}
}

func writeMember(b *strings.Builder, source string) {
	for _, line := range strings.Split(strings.TrimRight(source, "\n"), "\n") {
		b.WriteString("    " + line + "\n")
	}
	b.WriteString("\n")
}

// replayLine re-establishes one historical fragment inside the entry point so
// the new fragment can reference earlier bindings. Imports, methods, and type
// declarations are carried elsewhere and replay to nothing; value evaluations
// replay through replayValueLine.
func replayLine(frag fragment.Fragment, declared map[string]bool) (string, bool) {
	switch frag.Kind {
	case fragment.KindTypedAssignment:
		declared[frag.Key] = true
		return asStatement(frag.Source), true
	case fragment.KindAssignment:
		if declared[frag.Key] {
			return asStatement(frag.Source), true
		}
		declared[frag.Key] = true
		return "var " + asStatement(strings.TrimSpace(frag.Source)), true
	case fragment.KindStatement:
		return asStatement(frag.Source), true
	}
	return "", false
}

// replayValueLine rebinds a historical value evaluation under its generated
// result key, so later fragments can reference resN bindings.
func replayValueLine(ev session.Evaluation, declared map[string]bool) (string, bool) {
	res, ok := ev.Result()
	if !ok {
		return "", false
	}
	declared[res.Key] = true
	return "var " + res.Key + " = " + asExpression(ev.Fragment.Source) + ";", true
}

func writeEntrypointTail(b *strings.Builder, frag fragment.Fragment, declared map[string]bool) {
	switch frag.Kind {
	case fragment.KindValue:
		b.WriteString("        return " + asExpression(frag.Source) + ";\n")
	case fragment.KindTypedAssignment, fragment.KindAssignment:
		line, _ := replayLine(frag, declared)
		b.WriteString("        " + line + "\n")
		b.WriteString("        context.set(\"" + frag.Key + "\", " + frag.Key + ");\n")
		b.WriteString("        return " + frag.Key + ";\n")
	case fragment.KindStatement:
		b.WriteString("        " + asStatement(frag.Source) + "\n")
		b.WriteString("        return null;\n")
	default:
		// Import and Method fragments produce no runtime value.
		b.WriteString("        return null;\n")
	}
}

func asStatement(source string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(source), "\n")
	if strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}") {
		return trimmed
	}
	return trimmed + ";"
}

func asExpression(source string) string {
	return strings.TrimSuffix(strings.TrimSpace(source), ";")
}
