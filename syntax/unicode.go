package syntax

import "unicode"

// UCD access, grounded on SPEC_FULL.md §B: the stdlib unicode package's
// range tables stand in for the two-level stage1/stage2 lookup spec §4.1
// describes (`unicode.Categories`, `unicode.Scripts`, `unicode.Properties`,
// `unicode.CaseRanges`) — the one deliberate stdlib-only component in this
// module, since no retrieved example ships or loads a third-party UCD
// source. See DESIGN.md for the full justification.

// lookupUCDTable resolves a `\p{Name}`/`\P{Name}` body to the RangeTable it
// names, trying general categories, then scripts, then boolean properties —
// the same precedence PCRE2's `utt` name table uses (script comes after
// category because short category aliases like "L" would otherwise shadow
// same-named scripts, though none collide in practice).
func lookupUCDTable(name string) (*unicode.RangeTable, bool) {
	if rt, ok := unicode.Categories[name]; ok {
		return rt, true
	}
	if rt, ok := unicode.Scripts[name]; ok {
		return rt, true
	}
	if rt, ok := unicode.Properties[name]; ok {
		return rt, true
	}
	return nil, false
}

// oneLetterUCDTable resolves the one-letter general-category shorthand used
// by \pL, \pN, etc. (EscapeUni in the lexer). A bare letter like "L" means
// "any of Lu/Ll/Lt/Lm/Lo" — unicode.Categories already defines these
// umbrella one-letter entries, so this is a thin wrapper for symmetry with
// lookupUCDTable's two-result signature.
func oneLetterUCDTable(letter byte) (*unicode.RangeTable, bool) {
	rt, ok := unicode.Categories[string(letter)]
	return rt, ok
}

// runeRange is an inclusive code point pair, the unit the class planner
// accumulates, sorts, and merges (spec §4.3 steps 1-3).
type runeRange struct {
	Lo, Hi rune
}

// rangeTableToRuneRanges flattens a unicode.RangeTable (which separates
// 16-bit and 32-bit entries for storage density) into a single sorted list
// of runeRange, the planner's common currency.
func rangeTableToRuneRanges(rt *unicode.RangeTable) []runeRange {
	var out []runeRange
	for _, r16 := range rt.R16 {
		lo, hi, stride := rune(r16.Lo), rune(r16.Hi), rune(r16.Stride)
		if stride == 1 {
			out = append(out, runeRange{lo, hi})
			continue
		}
		for r := lo; r <= hi; r += stride {
			out = append(out, runeRange{r, r})
		}
	}
	for _, r32 := range rt.R32 {
		lo, hi, stride := rune(r32.Lo), rune(r32.Hi), rune(r32.Stride)
		if stride == 1 {
			out = append(out, runeRange{lo, hi})
			continue
		}
		for r := lo; r <= hi; r += stride {
			out = append(out, runeRange{r, r})
		}
	}
	return out
}

// turkishFold is the Turkish/Azeri casing override spec §4.3 names:
// dotted/dotless I fold to each other instead of to ASCII i/I.
//
//	İ (0130) <-> i (0069)
//	I  (0049) <-> ı (0131)
//
// ASCII i/I are excluded from the ordinary fold closure when Turkish mode
// is on, so plain `(?i)I` does not also match the dotless ı — PCRE2 treats
// the two pairs as mutually exclusive equivalence classes in this mode.
func turkishFold(r rune) (rune, bool) {
	switch r {
	case 0x0130:
		return 'i', true
	case 'i':
		return 0x0130, true
	case 'I':
		return 0x0131, true
	case 0x0131:
		return 'I', true
	}
	return 0, false
}

// FoldEqual reports whether a and b are the same code point under caseless
// comparison, honoring the Turkish dotted/dotless-I override the same way
// caselessClose does. Exported for the vm package's literal and backreference
// matching, which need the identical fold rule the class planner uses.
func FoldEqual(a, b rune, turkish bool) bool {
	if a == b {
		return true
	}
	if turkish {
		if alt, ok := turkishFold(a); ok {
			return alt == b
		}
		if alt, ok := turkishFold(b); ok {
			return alt == a
		}
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

// caseFoldClosure returns every code point that case-folds to the same
// equivalence class as r, not including r itself, via stdlib
// unicode.SimpleFold's cyclic-orbit walk (the UCD "case_set" spec §4.1's
// auxiliary `caseless_sets` array models as a zero-terminated list).
func caseFoldClosure(r rune) []rune {
	var out []rune
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		out = append(out, f)
	}
	return out
}
