package compiler

import (
	"testing"

	"github.com/gopcre/pcre2/syntax"
)

func mustBuild(t *testing.T, pattern string, opts Options) *Program {
	t.Helper()
	re, err := syntax.NewParser().Parse(pattern)
	if err != nil {
		t.Fatalf("parse(%q): %v", pattern, err)
	}
	prog, err := Build(re, opts)
	if err != nil {
		t.Fatalf("Build(%q): %v", pattern, err)
	}
	return prog
}

func TestBuildCaptureCount(t *testing.T) {
	prog := mustBuild(t, `(a)(b(c))`, Options{})
	if prog.NumCaptures != 3 {
		t.Errorf("NumCaptures = %d, want 3", prog.NumCaptures)
	}
}

func TestBuildNamedGroup(t *testing.T) {
	prog := mustBuild(t, `(?<year>\d+)`, Options{})
	if len(prog.CaptureName) != 1 || prog.CaptureName[0] != "year" {
		t.Errorf("CaptureName = %v, want [year]", prog.CaptureName)
	}
	if indices := prog.NameToIndex["year"]; len(indices) != 1 || indices[0] != 1 {
		t.Errorf("NameToIndex[year] = %v, want [1]", indices)
	}
}

func TestOptimizeAnchored(t *testing.T) {
	prog := mustBuild(t, `^abc`, Options{})
	if !prog.Anchored {
		t.Error("expected pattern to be reported anchored")
	}
	prog2 := mustBuild(t, `abc`, Options{})
	if prog2.Anchored {
		t.Error("expected pattern to not be anchored")
	}
}

func TestOptimizeRequiredPrefix(t *testing.T) {
	prog := mustBuild(t, `hello world`, Options{})
	if string(prog.RequiredPrefix) != "hello world" {
		t.Errorf("RequiredPrefix = %q, want %q", string(prog.RequiredPrefix), "hello world")
	}
	if !prog.RequiredCase {
		t.Error("expected case-sensitive required prefix")
	}
}

func TestOptimizeRequiredSuffix(t *testing.T) {
	prog := mustBuild(t, `[A-Z]+_SUSPEND`, Options{})
	if string(prog.RequiredSuffix) != "_SUSPEND" {
		t.Errorf("RequiredSuffix = %q, want %q", string(prog.RequiredSuffix), "_SUSPEND")
	}
}

func TestGroupNodeIndexedForRecursion(t *testing.T) {
	prog := mustBuild(t, `(a|b(?1))`, Options{})
	if prog.GroupNode[1] == nil {
		t.Error("expected group 1 indexed in GroupNode")
	}
}

func TestApplyFlagsScoped(t *testing.T) {
	base := Options{}
	out := applyFlags(base, "i")
	if !out.Caseless {
		t.Error("expected caseless flag set")
	}
	out2 := applyFlags(out, "-i")
	if out2.Caseless {
		t.Error("expected caseless flag cleared")
	}
	reset := applyFlags(out, "^i")
	if !reset.Caseless || reset.Multiline {
		t.Error("expected ^ to reset to defaults before applying i")
	}
}

func TestQuantifierLazyAndPossessive(t *testing.T) {
	prog := mustBuild(t, `a+?`, Options{})
	rep := findFirstRepeat(t, &prog.Root)
	if rep.Greedy {
		t.Error("expected lazy quantifier to report Greedy=false")
	}

	prog2 := mustBuild(t, `a++`, Options{})
	rep2 := findFirstRepeat(t, &prog2.Root)
	if !rep2.Possessive {
		t.Error("expected possessive quantifier to report Possessive=true")
	}
}

func findFirstRepeat(t *testing.T, n *Node) *Node {
	t.Helper()
	if n.Kind == KindRepeat {
		return n
	}
	for i := range n.Args {
		if r := findFirstRepeatMaybe(&n.Args[i]); r != nil {
			return r
		}
	}
	t.Fatal("no KindRepeat node found")
	return nil
}

func findFirstRepeatMaybe(n *Node) *Node {
	if n.Kind == KindRepeat {
		return n
	}
	for i := range n.Args {
		if r := findFirstRepeatMaybe(&n.Args[i]); r != nil {
			return r
		}
	}
	return nil
}
