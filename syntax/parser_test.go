package syntax

import "testing"

func TestParser(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{``, `{}`},
		{`x`, `x`},
		{`xy`, `{x y}`},
		{`x|y`, `(or x y)`},
		{`x|y|z`, `(or x y z)`},

		{`(x)`, `(capture 1 x)`},
		{`(x)(y)`, `{(capture 1 x) (capture 2 y)}`},
		{`((x)(y))`, `(capture 1 {(capture 2 x) (capture 3 y)})`},
		{`(x(y))`, `(capture 1 {x (capture 2 y)})`},

		{`(?P<foo>x)`, `(capture 1 foo x)`},
		{`(?<foo>x)`, `(capture 1 foo x)`},
		{`(?'foo'x)`, `(capture 1 foo x)`},
		{`(?<a>x)(?<b>y)`, `{(capture 1 a x) (capture 2 b y)}`},
		{`((?<a>x))`, `(capture 1 (capture 2 a x))`},

		{`(?:x)`, `(group x)`},
		{`(?i:x)`, `(group x ?i)`},
		{`(?i)`, `(flags ?i)`},
		{`(?i-m)`, `(flags ?i-m)`},

		{`(?=x)`, `(lookahead x)`},
		{`(?!x)`, `(neg-lookahead x)`},
		{`(?<=x)`, `(lookbehind x)`},
		{`(?<!x)`, `(neg-lookbehind x)`},
		{`(?>x)`, `(atomic x)`},

		{`(*atomic:x)`, `(atomic x)`},
		{`(*sr:x)`, `(script-run x)`},
		{`(*script_run:x)`, `(script-run x)`},
		{`(*asr:x)`, `(script-run x)`},
		{`(*napla:x)`, `(non-atomic-lookahead x)`},
		{`(*naplb:x)`, `(non-atomic-lookbehind x)`},

		{`x+`, `(+ x)`},
		{`x*`, `(* x)`},
		{`x?`, `(? x)`},
		{`x+?`, `(non-greedy (+ x))`},
		{`x*?`, `(non-greedy (* x))`},
		{`x??`, `(non-greedy (? x))`},
		{`x++`, `(possessive (+ x))`},
		{`x*+`, `(possessive (* x))`},
		{`x?+`, `(possessive (? x))`},
		{`x{2,3}`, `(repeat x {2,3})`},
		{`x{2,3}?`, `(non-greedy (repeat x {2,3}))`},
		{`x{2,3}+`, `(possessive (repeat x {2,3}))`},

		{`(?(1)x|y)`, `(cond (cond-ref) x y)`},
		{`(?(1)x)`, `(cond (cond-ref) x {})`},
		{`(?(R)x)`, `(cond (cond-ref) x {})`},
		{`(?(DEFINE)x)`, `(define x)`},
		{`(?(<name>)x|y)`, `(cond (cond-ref) x y)`},
		{`(?(?=x)y|z)`, `(cond (cond-assert (lookahead x)) y z)`},
		{`(?(?<!x)y|z)`, `(cond (cond-assert (neg-lookbehind x)) y z)`},

		{`(?P=name)`, `(backref name)`},
		{`(?R)`, `(recurse)`},
		{`(?0)`, `(recurse)`},
		{`(?1)`, `(recurse)`},
		{`(?+1)`, `(recurse)`},
		{`(?-1)`, `(recurse)`},
		{`(?&name)`, `(recurse)`},
		{`(?P>name)`, `(recurse)`},

		{`(?C)`, `(callout 0)`},
		{`(?C5)`, `(callout 5)`},
		{`(?C"hi")`, `(callout "hi")`},

		{`(*ACCEPT)`, `(*ACCEPT)`},
		{`(*FAIL)`, `(*FAIL)`},
		{`(*COMMIT)`, `(*COMMIT)`},
		{`(*PRUNE:tag)`, `(*PRUNE)`},
		{`(*SKIP)`, `(*SKIP)`},
		{`(*THEN)`, `(*THEN)`},
		{`(*MARK:tag)`, `(mark tag)`},
		{`(*:tag)`, `(mark tag)`},

		{`\k<name>`, `(backref name)`},
		{`\k'name'`, `(backref name)`},
		{`\k{name}`, `(backref name)`},
		{`\g{name}`, `(backref name)`},
		{`\g{1}`, `(backref 1)`},
		{`\g{-1}`, `(backref -1)`},
		{`\g1`, `(backref 1)`},
		{`\1`, `(backref 1)`},
		{`\12`, `(backref 12)`},

		{`[a-z]`, `[a-z]`},
		{`[^a-z]`, `[^a-z]`},
		{`[a\-z]`, `[a \- z]`},
		{`[[:alpha:]]`, `[[:alpha:]]`},

		{`\d`, `\d`},
		{`\p{Greek}`, `\p{Greek}`},
		{`\x{1F600}`, `\x{1F600}`},
	}

	p := NewParser()
	for _, test := range tests {
		re, err := p.Parse(test.pattern)
		if err != nil {
			t.Fatalf("parse(%q): unexpected error: %v", test.pattern, err)
		}
		have := FormatSyntax(re)
		if have != test.want {
			t.Errorf("parse(%q):\nhave: %s\nwant: %s", test.pattern, have, test.want)
		}
	}
}

func TestParserGroupNumbering(t *testing.T) {
	tests := []struct {
		pattern string
		want    []int
	}{
		{`(a)(b)(c)`, []int{1, 2, 3}},
		{`((a)(b))`, []int{1, 2, 3}},
		{`(a(b(c)))`, []int{1, 2, 3}},
		{`(?<x>a)(b)(?<y>c)`, []int{1, 2, 3}},
	}

	p := NewParser()
	for _, test := range tests {
		re, err := p.Parse(test.pattern)
		if err != nil {
			t.Fatalf("parse(%q): unexpected error: %v", test.pattern, err)
		}
		var got []int
		var walk func(Expr)
		walk = func(e Expr) {
			switch e.Op {
			case OpCapture, OpNamedCapture:
				got = append(got, e.Payload)
			}
			for _, a := range e.Args {
				walk(a)
			}
		}
		walk(re.Expr)
		if len(got) != len(test.want) {
			t.Fatalf("parse(%q): group count mismatch:\nhave: %v\nwant: %v", test.pattern, got, test.want)
		}
		for i := range got {
			if got[i] != test.want[i] {
				t.Errorf("parse(%q): group numbers:\nhave: %v\nwant: %v", test.pattern, got, test.want)
				break
			}
		}
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{`\`, `pcre2: unexpected end of pattern: trailing '\' (at offset 0)`},
		{`\x`, `pcre2: unexpected end of pattern: expected hex-digit or '{' (at offset 0)`},
		{`\x{12`, `pcre2: can't find closing '}' (at offset 0)`},
		{`\p`, `pcre2: unexpected end of pattern: expected uni-class-short or '{' (at offset 0)`},
		{`\p{L`, `pcre2: can't find closing '}' (at offset 0)`},
		{`(abc`, `pcre2: expected ')', found 'None' (at offset 4)`},
		{`[abc`, `pcre2: unterminated '[' (at offset 0)`},
		{`(?<name`, `pcre2: missing terminating '>' for group name (at offset 0)`},
		{`(?P<name`, `pcre2: missing terminating '>' for group name (at offset 0)`},
		{`\k<name`, `pcre2: can't find closing delimiter for \k (at offset 0)`},
		{`(?(1`, `pcre2: missing closing ')' for condition (at offset 0)`},
		{`(*ACCEPT`, `pcre2: malformed verb (at offset 0)`},
		{`(*MARK:tag`, `pcre2: missing closing ')' for (*MARK:...) (at offset 0)`},
	}

	for _, test := range tests {
		p := NewParser()
		_, err := p.Parse(test.pattern)
		have := "<nil>"
		if err != nil {
			have = err.Error()
		}
		if have != test.want {
			t.Errorf("parse(%q):\nhave: %s\nwant: %s", test.pattern, have, test.want)
		}
	}
}
