package vm

import (
	"github.com/gopcre/pcre2/compiler"
	"github.com/gopcre/pcre2/syntax"
)

// requiredSuffixPresent adapts the teacher's reverse_reader.go idea (scan a
// subject backward from a literal anchor to decide whether the rest of the
// pattern can possibly match) into a pure existence pre-check: since the vm
// already works over []rune rather than UTF-8 bytes, there is no need for a
// rune-decoding reverse reader the way the teacher needed one over strings
// — the backward scan here is a plain index walk — but the shape of the
// optimization is the same one matchers.go's suffixLitMatcher applied:
// reject the whole search in O(suffix length + subject length) when the
// required trailing literal never occurs at all, instead of letting the
// backtracker discover that the hard way at every start offset.
func requiredSuffixPresent(prog *compiler.Program, subject []rune, from int) bool {
	suffix := prog.RequiredSuffix
	if len(suffix) == 0 {
		return true
	}
	if !prog.RequiredSuffixCase {
		return indexRunesFold(subject, suffix, from) >= 0
	}
	return lastIndexRunes(subject, suffix, from) >= 0
}

// lastIndexRunes scans backward from the end of s (but not before index
// from) for an occurrence of sub, mirroring reverseReader's right-to-left
// traversal over the subject.
func lastIndexRunes(s, sub []rune, from int) int {
	if len(sub) == 0 {
		return len(s)
	}
	for i := len(s) - len(sub); i >= from; i-- {
		ok := true
		for j := range sub {
			if s[i+j] != sub[j] {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}

func indexRunesFold(s, sub []rune, from int) int {
	if len(sub) == 0 {
		return from
	}
	for i := from; i+len(sub) <= len(s); i++ {
		ok := true
		for j := range sub {
			if !syntax.FoldEqual(s[i+j], sub[j], false) {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}
