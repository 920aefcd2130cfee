package loader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"javelin/internal/loader"
	"javelin/internal/toolchain"
)

func newTestNamespace(t *testing.T) (*loader.Namespace, string) {
	t.Helper()
	dir := t.TempDir()
	runner := toolchain.NewRunner(toolchain.Default())
	return loader.NewNamespace(runner, dir), dir
}

func writeArtifact(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".class"), []byte{0xca, 0xfe}, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_MissingArtifact(t *testing.T) {
	ns, _ := newTestNamespace(t)
	_, err := ns.Load("Nope")
	var loadErr *loader.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("got %v, want LoadError", err)
	}
	if loadErr.Name != "Nope" {
		t.Fatalf("got name %q, want Nope", loadErr.Name)
	}
	if ns.IsLoaded("Nope") {
		t.Fatal("failed load left the name loaded")
	}
}

func TestLoad_Idempotent(t *testing.T) {
	ns, dir := newTestNamespace(t)
	writeArtifact(t, dir, "Foo")

	first, err := ns.Load("Foo")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ns.IsLoaded("Foo") {
		t.Fatal("IsLoaded false after Load")
	}

	// Loading again returns the same handle even if the artifact is gone.
	if err := os.Remove(filepath.Join(dir, "Foo.class")); err != nil {
		t.Fatal(err)
	}
	second, err := ns.Load("Foo")
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if first != second {
		t.Fatal("repeat load returned a different handle")
	}
}

func TestSearchPath_WorkspaceFirst(t *testing.T) {
	ns, dir := newTestNamespace(t)
	ns.AddSearchPathEntry("/opt/libs/a.jar")
	ns.AddSearchPathEntry("/opt/libs/b.jar")
	ns.AddSearchPathEntry("/opt/libs/a.jar") // duplicate

	got := ns.SearchPath()
	want := []string{dir, "/opt/libs/a.jar", "/opt/libs/b.jar"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDeclaredTypes_SeparateFromLoading(t *testing.T) {
	ns, dir := newTestNamespace(t)
	writeArtifact(t, dir, "Evaluation1")
	if _, err := ns.Load("Evaluation1"); err != nil {
		t.Fatalf("load: %v", err)
	}

	// A loaded synthetic unit is not a declared type.
	if ns.HasDeclaredType("Evaluation1") {
		t.Fatal("loading alone declared a type")
	}
	ns.DeclareType("Foo")
	if !ns.HasDeclaredType("Foo") {
		t.Fatal("declared type not recorded")
	}
	if ns.IsLoaded("Foo") {
		t.Fatal("declaring alone loaded a unit")
	}
}

// scriptRunner writes a shell script standing in for the guest runtime.
func scriptRunner(t *testing.T, script string) toolchain.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runner.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := toolchain.Default()
	cfg.Runner = path
	return cfg
}

func TestInvoke_ParsesResultMarker(t *testing.T) {
	cfg := scriptRunner(t, `echo "javelin:result 42"`)
	dir := t.TempDir()
	writeArtifact(t, dir, "Evaluation1")
	ns := loader.NewNamespace(toolchain.NewRunner(cfg), dir)

	unit, err := ns.Load("Evaluation1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	val, err := unit.Invoke(context.Background())
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if !val.Present || val.Text != "42" {
		t.Fatalf("got %+v, want present 42", val)
	}
}

func TestInvoke_VoidMarker(t *testing.T) {
	cfg := scriptRunner(t, `echo "javelin:void"`)
	dir := t.TempDir()
	writeArtifact(t, dir, "Evaluation1")
	ns := loader.NewNamespace(toolchain.NewRunner(cfg), dir)

	unit, err := ns.Load("Evaluation1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	val, err := unit.Invoke(context.Background())
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if val.Present {
		t.Fatalf("got %+v, want absent", val)
	}
}

func TestInvoke_UnwrapsInnermostCause(t *testing.T) {
	cfg := scriptRunner(t, `cat >&2 <<'EOF'
Exception in thread "main" java.lang.RuntimeException: wrapper
	at Evaluation1.main(Evaluation1.java:9)
Caused by: java.lang.IllegalStateException: middle
	at Evaluation1.evaluate(Evaluation1.java:5)
Caused by: java.lang.ArithmeticException: / by zero
	at Evaluation1.evaluate(Evaluation1.java:4)
EOF
exit 1`)
	dir := t.TempDir()
	writeArtifact(t, dir, "Evaluation1")
	ns := loader.NewNamespace(toolchain.NewRunner(cfg), dir)

	unit, err := ns.Load("Evaluation1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_, err = unit.Invoke(context.Background())
	var invErr *loader.InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("got %v, want InvocationError", err)
	}
	msg := invErr.Cause.Error()
	if !strings.Contains(msg, "ArithmeticException: / by zero") {
		t.Fatalf("got cause %q, want the innermost one", msg)
	}
	if strings.Contains(msg, "RuntimeException") {
		t.Fatalf("got cause %q, want the wrapper stripped", msg)
	}
}
