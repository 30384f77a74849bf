package syntax

// Classic character tables, grounded on spec §4.1's "default table" —
// a 256-entry block per property, ASCII-only, consulted for code points
// below 256 outside UCP mode. Kept as plain [256]bool bitmaps rather than
// packed bit arrays: the teacher's own style favors readability over
// micro-optimised storage (see lexer.go's byte-at-a-time scanning), and
// these tables are built once and never mutated.

// ctypeWord reports the ASCII \w definition: letters, digits, underscore.
var ctypeWord [256]bool

// ctypeSpace reports the ASCII \s definition (PCRE2's, not plain isspace):
// space, \t, \n, \v, \f, \r.
var ctypeSpace [256]bool

// ctypeDigit reports ASCII \d: 0-9.
var ctypeDigit [256]bool

// ctypeXdigit reports hex digits: 0-9, A-F, a-f.
var ctypeXdigit [256]bool

// ctypeUpper / ctypeLower report ASCII case membership.
var ctypeUpper [256]bool
var ctypeLower [256]bool

// ctypeGraph / ctypePrint / ctypePunct / ctypeCntrl back the POSIX
// bracket-expression classes of the same name.
var ctypeGraph [256]bool
var ctypePrint [256]bool
var ctypePunct [256]bool
var ctypeCntrl [256]bool

// ctypeBlank is the POSIX [:blank:] class: space and tab only.
var ctypeBlank [256]bool

// asciiLower / asciiUpper are the case-flip maps for bytes < 128; bytes
// without a case pair map to themselves. Nothing reads them outside this
// init; the caseless planner (classes.go) folds through caseFoldClosure.
var asciiLower [256]byte
var asciiUpper [256]byte

func init() {
	for c := 0; c < 256; c++ {
		asciiLower[c] = byte(c)
		asciiUpper[c] = byte(c)
	}
	for c := byte('a'); c <= 'z'; c++ {
		ctypeLower[c] = true
		ctypeWord[c] = true
		asciiUpper[c] = c - 'a' + 'A'
	}
	for c := byte('A'); c <= 'Z'; c++ {
		ctypeUpper[c] = true
		ctypeWord[c] = true
		asciiLower[c] = c - 'A' + 'a'
	}
	for c := byte('0'); c <= '9'; c++ {
		ctypeDigit[c] = true
		ctypeXdigit[c] = true
		ctypeWord[c] = true
	}
	for c := byte('a'); c <= 'f'; c++ {
		ctypeXdigit[c] = true
	}
	for c := byte('A'); c <= 'F'; c++ {
		ctypeXdigit[c] = true
	}
	ctypeWord['_'] = true

	for _, c := range []byte{' ', '\t', '\n', '\v', '\f', '\r'} {
		ctypeSpace[c] = true
	}
	ctypeBlank[' '] = true
	ctypeBlank['\t'] = true

	for c := 0; c < 32; c++ {
		ctypeCntrl[c] = true
	}
	ctypeCntrl[127] = true

	for c := '!'; c <= '~'; c++ {
		ctypeGraph[c] = true
	}
	for c := ' '; c <= '~'; c++ {
		ctypePrint[c] = true
	}
	for c := '!'; c <= '~'; c++ {
		if !ctypeWord[c] {
			ctypePunct[c] = true
		}
	}
}

// horizontalSpace lists the code points \h / \H recognise: all the Unicode
// "horizontal whitespace" separators PCRE2 ships in its own table, not just
// ASCII tab and space.
var horizontalSpace = []rune{
	0x09, 0x20, 0xA0, 0x1680, 0x180E, 0x2000, 0x2001, 0x2002, 0x2003, 0x2004,
	0x2005, 0x2006, 0x2007, 0x2008, 0x2009, 0x200A, 0x202F, 0x205F, 0x3000,
}

// verticalSpace lists the code points \v / \V recognise.
var verticalSpace = []rune{
	0x0A, 0x0B, 0x0C, 0x0D, 0x85, 0x2028, 0x2029,
}

// posixClass is one [:name:] bracket-expression class: a direct ASCII-table
// test. Negation is not stored here: for the PCRE2-only [:^name:] form,
// planClassArgs (classes.go) negates the ranges after the lookup.
type posixClass struct {
	name string
	test func(byte) bool
}

// posixClasses is the name table §4.1 calls `posix_class_maps`, searched by
// lookupPosixClass (classes.go) for `[:name:]` bodies.
var posixClasses = []posixClass{
	{"alpha", func(c byte) bool { return ctypeUpper[c] || ctypeLower[c] }},
	{"digit", func(c byte) bool { return ctypeDigit[c] }},
	{"alnum", func(c byte) bool { return ctypeUpper[c] || ctypeLower[c] || ctypeDigit[c] }},
	{"upper", func(c byte) bool { return ctypeUpper[c] }},
	{"lower", func(c byte) bool { return ctypeLower[c] }},
	{"space", func(c byte) bool { return ctypeSpace[c] }},
	{"blank", func(c byte) bool { return ctypeBlank[c] }},
	{"cntrl", func(c byte) bool { return ctypeCntrl[c] }},
	{"graph", func(c byte) bool { return ctypeGraph[c] }},
	{"print", func(c byte) bool { return ctypePrint[c] }},
	{"punct", func(c byte) bool { return ctypePunct[c] }},
	{"xdigit", func(c byte) bool { return ctypeXdigit[c] }},
	{"word", func(c byte) bool { return ctypeWord[c] }},
	{"ascii", func(c byte) bool { return c < 128 }},
}

func lookupPosixClass(name string) (posixClass, bool) {
	for _, pc := range posixClasses {
		if pc.name == name {
			return pc, true
		}
	}
	return posixClass{}, false
}

// posixRanges converts a posixClass's ASCII bitmap into a sorted, merged
// range list, the form the class planner accumulates everything else in.
func posixRanges(pc posixClass) []runeRange {
	var ranges []runeRange
	inRun := false
	var lo rune
	for c := 0; c < 256; c++ {
		if pc.test(byte(c)) {
			if !inRun {
				lo = rune(c)
				inRun = true
			}
		} else if inRun {
			ranges = append(ranges, runeRange{lo, rune(c - 1)})
			inRun = false
		}
	}
	if inRun {
		ranges = append(ranges, runeRange{lo, 255})
	}
	return ranges
}
