package syntax

import "testing"

func mustPlanClass(t *testing.T, pattern string, opts ClassOptions) ClassSet {
	t.Helper()
	p := NewParser()
	re, err := p.Parse(pattern)
	if err != nil {
		t.Fatalf("parse(%q): %v", pattern, err)
	}
	cs, err := PlanClass(re, re.Expr, opts)
	if err != nil {
		t.Fatalf("PlanClass(%q): %v", pattern, err)
	}
	return cs
}

func TestPlanClassLiteralRange(t *testing.T) {
	cs := mustPlanClass(t, `[a-z]`, ClassOptions{})
	for c := byte('a'); c <= 'z'; c++ {
		if !cs.Contains(rune(c)) {
			t.Errorf("[a-z] should contain %q", c)
		}
	}
	if cs.Contains('A') || cs.Contains('0') {
		t.Error("[a-z] should not contain 'A' or '0'")
	}
}

func TestPlanClassNegated(t *testing.T) {
	cs := mustPlanClass(t, `[^a-z]`, ClassOptions{})
	if cs.Contains('m') {
		t.Error("[^a-z] should not contain 'm'")
	}
	if !cs.Contains('A') {
		t.Error("[^a-z] should contain 'A'")
	}
	if !cs.Contains(0x1F600) {
		t.Error("[^a-z] should contain astral code points")
	}
}

func TestPlanClassPosix(t *testing.T) {
	cs := mustPlanClass(t, `[[:digit:]]`, ClassOptions{})
	for c := byte('0'); c <= '9'; c++ {
		if !cs.Contains(rune(c)) {
			t.Errorf("[:digit:] should contain %q", c)
		}
	}
	if cs.Contains('a') {
		t.Error("[:digit:] should not contain 'a'")
	}
}

func TestPlanClassEscape(t *testing.T) {
	cs := mustPlanClass(t, `[\d]`, ClassOptions{})
	if !cs.Contains('5') || cs.Contains('x') {
		t.Error("[\\d] should only contain digits")
	}

	cs = mustPlanClass(t, `[\s]`, ClassOptions{})
	if !cs.Contains(' ') || !cs.Contains('\t') || cs.Contains('x') {
		t.Error("[\\s] should only contain whitespace")
	}
}

func TestPlanClassUnicodeProperty(t *testing.T) {
	cs := mustPlanClass(t, `[\p{Greek}]`, ClassOptions{})
	if !cs.Contains(0x03B1) { // GREEK SMALL LETTER ALPHA
		t.Error("\\p{Greek} should contain U+03B1")
	}
	if cs.Contains('a') {
		t.Error("\\p{Greek} should not contain 'a'")
	}
}

func TestPlanClassCaseless(t *testing.T) {
	cs := mustPlanClass(t, `[a-z]`, ClassOptions{Caseless: true})
	if !cs.Contains('A') || !cs.Contains('a') {
		t.Error("caseless [a-z] should contain both cases")
	}
}

func TestPlanClassSetAlgebra(t *testing.T) {
	// The (?[ ... ]) extended-class surface syntax isn't wired into the
	// lexer/parser yet (tracked in DESIGN.md); exercise the tree-shaped
	// evaluator directly with hand-built operand subtrees instead.
	p := NewParser()
	left, err := p.Parse(`[a-z]`)
	if err != nil {
		t.Fatal(err)
	}
	right, err := p.Parse(`[k-p]`)
	if err != nil {
		t.Fatal(err)
	}
	and := Expr{Op: OpClassAnd, Args: []Expr{left.Expr, right.Expr}}
	combined := &Regexp{Source: left.Source + right.Source}
	rebasePositions(&and.Args[1], len(left.Source))

	cs, err := evalClassAlgebra(combined, and, ClassOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !cs.Contains('m') {
		t.Error("[a-z] && [k-p] should contain 'm'")
	}
	if cs.Contains('a') || cs.Contains('z') {
		t.Error("[a-z] && [k-p] should not contain 'a' or 'z'")
	}
}
