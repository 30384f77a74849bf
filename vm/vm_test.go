package vm

import (
	"testing"

	"github.com/gopcre/pcre2/compiler"
	"github.com/gopcre/pcre2/syntax"
)

func mustExec(t *testing.T, pattern, subject string, opts compiler.Options) (*MatchData, error) {
	t.Helper()
	re, err := syntax.NewParser().Parse(pattern)
	if err != nil {
		t.Fatalf("parse(%q): %v", pattern, err)
	}
	prog, err := compiler.Build(re, opts)
	if err != nil {
		t.Fatalf("build(%q): %v", pattern, err)
	}
	return Exec(prog, []rune(subject), 0, Config{})
}

func TestExecBasicCapture(t *testing.T) {
	data, err := mustExec(t, `a(b|c)d`, "acd", compiler.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Caps[0] != 0 || data.Caps[1] != 3 {
		t.Errorf("whole match = %v, want [0 3]", data.Caps[:2])
	}
	if data.Caps[2] != 1 || data.Caps[3] != 2 {
		t.Errorf("group 1 = %v, want [1 2]", data.Caps[2:4])
	}
}

func TestExecNoMatch(t *testing.T) {
	_, err := mustExec(t, `xyz`, "abc", compiler.Options{})
	if err != ErrNoMatch {
		t.Errorf("err = %v, want ErrNoMatch", err)
	}
}

func TestExecPossessiveFailsTrailingOverlap(t *testing.T) {
	_, err := mustExec(t, `a++a`, "aaaa", compiler.Options{})
	if err != ErrNoMatch {
		t.Errorf("possessive quantifier should have consumed all a's, err = %v", err)
	}
}

func TestExecAcceptVerb(t *testing.T) {
	data, err := mustExec(t, `a(*ACCEPT)b`, "ab", compiler.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Caps[1] != 1 {
		t.Errorf("(*ACCEPT) should stop the match right after 'a', end = %d", data.Caps[1])
	}
}

func TestExecFailVerb(t *testing.T) {
	_, err := mustExec(t, `a(*FAIL)`, "a", compiler.Options{})
	if err != ErrNoMatch {
		t.Errorf("(*FAIL) should always fail the attempt, err = %v", err)
	}
}

func TestExecMarkRecorded(t *testing.T) {
	data, err := mustExec(t, `a(*MARK:x)b`, "ab", compiler.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Mark != "x" {
		t.Errorf("Mark = %q, want %q", data.Mark, "x")
	}
}

func TestExecScriptRun(t *testing.T) {
	_, err := mustExec(t, `(*script_run:\w+)`, "abc", compiler.Options{UTF: true, UCP: true})
	if err != nil {
		t.Errorf("single-script run should match: %v", err)
	}
}

func TestExecRecursion(t *testing.T) {
	data, err := mustExec(t, `^(a(?1)?b)$`, "aaabbb", compiler.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Caps[0] != 0 || data.Caps[1] != 6 {
		t.Errorf("whole match = %v, want [0 6]", data.Caps[:2])
	}
}

func TestExecConditionalGroup(t *testing.T) {
	data, err := mustExec(t, `(a)?(?(1)b|c)`, "ab", compiler.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Caps[1] != 2 {
		t.Errorf("expected full match through conditional yes-branch, end = %d", data.Caps[1])
	}
	data2, err := mustExec(t, `(a)?(?(1)b|c)`, "c", compiler.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data2.Caps[1] != 1 {
		t.Errorf("expected conditional no-branch match, end = %d", data2.Caps[1])
	}
}

func TestRequiredSuffixPreFilterRejectsEarly(t *testing.T) {
	re, err := syntax.NewParser().Parse(`[A-Z]+_SUSPEND`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	prog, err := compiler.Build(re, compiler.Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if requiredSuffixPresent(prog, []rune("THREAD_RUNNING"), 0) {
		t.Error("expected suffix pre-filter to reject a subject lacking the literal suffix")
	}
	if !requiredSuffixPresent(prog, []rune("THREAD_SUSPEND"), 0) {
		t.Error("expected suffix pre-filter to accept a subject containing the literal suffix")
	}
}
