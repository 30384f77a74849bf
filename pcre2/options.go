// Package pcre2 is the public API (spec §6): compiling a pattern, running a
// match, and substituting into a replacement template, modeled on PCRE2's
// three-call shape (pcre2_compile / pcre2_match / pcre2_substitute) but
// reshaped into idiomatic Go — a Regexp value instead of an opaque handle,
// error returns instead of an out-parameter error code, []int ovectors
// converted to byte offsets for Go string callers.
package pcre2

import "github.com/gopcre/pcre2/compiler"

// Option bit values reproduced verbatim from original_source/src/pcre2.h so
// a caller porting flags from a C or cgo-based PCRE2 user needs no
// translation table. JIT-only bits are omitted: this module has no JIT.
// The DFA-only option bits (DFARestart/DFAShortest) are declared in their own
// block below; DFAMatch (dfa.go) is the call that consumes them.
const (
	Anchored         = 0x00000001
	NoUTFCheck       = 0x00000004
	AllowEmptyClass  = 0x00000008
	AltBSUX          = 0x00000010
	AutoCallout      = 0x00000020
	Caseless         = 0x00000040
	DollarEndOnly    = 0x00000080
	DotAll           = 0x00000100
	DupNames         = 0x00000200
	Extended         = 0x00000400
	MatchUnsetBackref = 0x00001000
	Multiline        = 0x00002000
	NeverUCP         = 0x00004000
	NeverUTF         = 0x00008000
	NoAutoCapture    = 0x00010000
	UCP              = 0x00040000
	Ungreedy         = 0x00080000
	UTF              = 0x00100000
)

// Match-time option bits (pcre2_match's own options argument).
const (
	NotBOL          = 0x00000001
	NotEOL          = 0x00000002
	NotEmpty        = 0x00000004
	NotEmptyAtStart = 0x00000008
)

// DFA-match-time option bits (pcre2_dfa_match's own options argument,
// beyond the ones it shares with pcre2_match above).
const (
	DFARestart = 0x00000040
	DFAShortest = 0x00000080
)

// Substitute-time option bits, reconstructed from the public pcre2_substitute
// contract (original_source's filtered pcre2.h snapshot didn't carry these
// constants, so the values here are assigned locally rather than copied —
// callers only ever pass the named constants, never raw hex, so the exact
// bit pattern is not a compatibility surface the way the compile/match bits
// above are).
const (
	SubstituteGlobal         = 0x00000100
	SubstituteExtended       = 0x00000200
	SubstituteUnsetEmpty     = 0x00000400
	SubstituteUnknownUnset   = 0x00000800
	SubstituteOverflowLength = 0x00001000
	SubstituteLiteral        = 0x00002000
	SubstituteReplacementOnly = 0x00004000
)

// optionsFromBits builds the compiler.Options the build walk threads through
// the AST. Extended is deliberately absent here: Compile resolves it at lex
// time instead (see Parser.Extended), since whitespace/comment stripping has
// to happen before the parser ever sees the pattern.
func optionsFromBits(bits uint32) compiler.Options {
	return compiler.Options{
		Caseless:      bits&Caseless != 0,
		Multiline:     bits&Multiline != 0,
		DotAll:        bits&DotAll != 0,
		Ungreedy:      bits&Ungreedy != 0,
		NoAutoCapture: bits&NoAutoCapture != 0,
		DupNames:      bits&DupNames != 0,
		UTF:           bits&UTF != 0,
		UCP:           bits&UCP != 0,
	}
}
