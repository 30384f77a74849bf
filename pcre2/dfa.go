package pcre2

import "github.com/gopcre/pcre2/dfa"

// DFAMatchData is the pcre2_dfa_match counterpart of vm.MatchData: a single
// start offset (byte, converted from the engine's rune offset) together
// with every distinct end offset reachable from it, longest match first
// unless DFAShortest was set.
type DFAMatchData struct {
	Start int
	End   []int
}

func (re *Regexp) dfaConfig(options uint32) dfa.Config {
	return dfa.Config{
		MaxSteps: re.MaxSteps,
		Shortest: options&DFAShortest != 0,
		Callout:  re.Callout,
	}
}

// DFAMatch runs the parallel state-set interpreter (spec C7) instead of the
// backtracking one Match/Find* use, returning every match that starts at
// the first position with at least one. Backreferences, subpattern
// recursion, and variable-width lookbehind are constructs pcre2_dfa_match
// cannot run at all (spec §4.7); a pattern containing any of them reports
// a *MatchError with Code ErrDFAUItem or ErrDFAUCond rather than matching.
//
// DFARestart requests resuming a previous partial match; this module never
// produces a partial match to resume (PCRE2_PARTIAL chunked matching is
// out of scope here), so passing it always fails with ErrDFABadRestart.
func (re *Regexp) DFAMatch(subject string, options uint32) (*DFAMatchData, error) {
	if options&DFARestart != 0 {
		return nil, &MatchError{Code: ErrDFABadRestart, Message: "dfa: no partial match to restart from"}
	}

	runes := []rune(subject)
	set, err := dfa.Exec(re.prog, runes, 0, re.dfaConfig(options))
	if err != nil {
		switch e := err.(type) {
		case dfa.Unsupported:
			return nil, &MatchError{Code: e.Code, Message: e.Error()}
		case dfa.ErrWorkspaceSize:
			return nil, &MatchError{Code: ErrDFAWSSize, Message: e.Error()}
		default:
			if err == dfa.ErrNoMatch {
				return nil, ErrNoMatchErr
			}
			return nil, &MatchError{Code: ErrInternal, Message: err.Error()}
		}
	}

	byteAt := make([]int, len(runes)+1)
	b := 0
	for i, r := range runes {
		byteAt[i] = b
		b += runeLen(r)
	}
	byteAt[len(runes)] = b

	out := &DFAMatchData{Start: byteAt[set.Start], End: make([]int, len(set.End))}
	for i, e := range set.End {
		out.End[i] = byteAt[e]
	}
	return out, nil
}
