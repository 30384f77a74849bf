package compiler

import "github.com/gopcre/pcre2/syntax"

// Options is the option state threaded through the build walk: the global
// compile-time flags plus whatever inline (?flags) groups have overridden
// for the current scope, per spec §4.2 ("a stack of option states per
// group").
type Options struct {
	Caseless bool
	Multiline bool
	DotAll bool
	Ungreedy bool
	NoAutoCapture bool
	DupNames bool
	UTF bool
	UCP bool
	Turkish bool
	CaselessRestrict bool
}

func (o Options) classOptions() syntax.ClassOptions {
	return syntax.ClassOptions{
		Caseless:         o.Caseless,
		UTF:              o.UTF || o.UCP,
		Turkish:          o.Turkish,
		CaselessRestrict: o.CaselessRestrict,
	}
}

// applyFlags parses a (?flags) / (?flags:...) body (with the leading '?'
// already stripped by the caller) and returns the updated Options. A '^'
// immediately after '?' resets every flag to its default before applying
// the letters that follow, the PCRE2 "(?^...)" shorthand. Letters after a
// '-' are cleared instead of set.
func applyFlags(base Options, body string) Options {
	out := base
	if len(body) > 0 && body[0] == '^' {
		out = Options{UTF: base.UTF, UCP: base.UCP, Turkish: base.Turkish, CaselessRestrict: base.CaselessRestrict}
		body = body[1:]
	}
	set := true
	for _, c := range body {
		switch c {
		case '-':
			set = false
		case 'i':
			out.Caseless = set
		case 'm':
			out.Multiline = set
		case 's':
			out.DotAll = set
		// 'x' (EXTENDED) is resolved by the lexer before the parser ever
		// sees the pattern (syntax.extendedToggle), not here: whitespace
		// and '#'-comments are already gone from the token stream by the
		// time applyFlags runs.
		case 'U':
			out.Ungreedy = set
		case 'n':
			out.NoAutoCapture = set
		case 'J':
			out.DupNames = set
		case 'u':
			out.UTF = set
		}
	}
	return out
}
