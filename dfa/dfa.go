// Package dfa is the parallel state-set interpreter (spec C7,
// pcre2_dfa_match's counterpart to vm's backtracking pcre2_match). Where vm
// commits to one backtracking path and returns the first success, this
// package explores every path from a single start position and reports
// every distinct end offset reached, longest first unless the caller asks
// for DFAShortest — the same "all matches here, no backtracking" contract
// original_source/src/pcre2_dfa_exec.c documents, though that file ships in
// the retrieval pack as an unfinished placeholder (its body is a literal
// "FIXME: this is currently a placeholder function"), so the algorithm
// below is built directly from the prose in spec.md's DFA interpreter
// section rather than ported from a working reference.
//
// A real pcre2_dfa_match walks a table of active (state, offset) pairs
// forward one subject position at a time and never recurses. This package
// gets the same observable contract — no backtrack-dependent construct
// (backreference, recursion, variable-width lookbehind) is accepted, and
// every reachable end offset at the chosen start is reported rather than
// just the first — by reusing vm's continuation-passing walk over
// compiler.Program and changing only what the top-level continuation does
// with a success: instead of stopping at the first one, it records the
// offset and asks the walk to keep going. The two engines share no code
// (matching two independent C files interpreting the same opcode stream)
// but do share the same Node switch shape, since both are walking the same
// compiler.Program.
package dfa

import (
	"sort"
	"unicode"

	"github.com/gopcre/pcre2/compiler"
	"github.com/gopcre/pcre2/syntax"
)

// Config bounds one Exec call's work and wires an optional callout hook,
// mirroring vm.Config.
type Config struct {
	MaxSteps int // 0 means use the default
	// MaxMatches bounds how many distinct end offsets a single start
	// position may accumulate before Exec reports ErrWorkspaceSize — the
	// same resource spec §4.7 calls the "workspace" a real pcre2_dfa_match
	// caller supplies, approximated here as a count instead of a sized
	// buffer since this engine has no fixed-layout state table to
	// overflow. 0 means use the default.
	MaxMatches int
	Shortest   bool // PCRE2_DFA_SHORTEST: report only the shortest match
	Callout    func(number int, text string, pos int) bool
}

const (
	defaultMaxSteps   = 20_000_000
	defaultMaxMatches = 1000
)

// MatchSet is the result of one Exec call: every match found starting at
// Start, with End holding each distinct end offset, longest first unless
// Config.Shortest was set (in which case End has at most one element).
type MatchSet struct {
	Start int
	End   []int
}

// Unsupported reports that prog contains a construct pcre2_dfa_match's
// restrictions rule out (spec §4.7): backreferences, subpattern recursion,
// or variable-width lookbehind. Code is the PCRE2 DFA error number the
// construct maps to.
type Unsupported struct {
	Code    int
	Message string
}

func (e Unsupported) Error() string { return e.Message }

// DFA error codes, reproduced from original_source/src/pcre2.h.
const (
	ErrDFABadRestart = -38
	ErrDFARecurse    = -39
	ErrDFAUCond      = -40
	ErrDFAUItem      = -41
	ErrDFAUMLimit    = -42
	ErrDFAWSSize     = -43
)

var errNoMatch = noMatchErr{}

type noMatchErr struct{}

func (noMatchErr) Error() string { return "no match" }

// ErrNoMatch is returned by Exec when no match was found at or after pos.
var ErrNoMatch error = errNoMatch

// ErrWorkspaceSize is returned when a start position's match set grows
// past Config.MaxMatches, PCRE2_ERROR_DFA_WSSIZE.
type ErrWorkspaceSize struct{}

func (ErrWorkspaceSize) Error() string { return "dfa workspace size exceeded" }

type stepLimitSignal struct{}
type workspaceSignal struct{}

// Exec searches subject for prog starting at or after startPos, returning
// every match found at the first start offset that has one (spec §4.7's
// "compute the successor set... record every OP_MATCH-reaching state").
// Unlike vm.Exec it never backtracks into a committed path; unlike
// pcre2_match it reports every end offset reachable from that one start,
// not just the first.
func Exec(prog *compiler.Program, subject []rune, startPos int, cfg Config) (*MatchSet, error) {
	if err := checkSupported(&prog.Root); err != nil {
		return nil, err
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = defaultMaxSteps
	}
	if cfg.MaxMatches == 0 {
		cfg.MaxMatches = defaultMaxMatches
	}

	limit := len(subject)
	for start := startPos; start <= limit; start++ {
		m := &matcher{
			prog:    prog,
			s:       subject,
			caps:    make([]int, 2*(prog.NumCaptures+1)),
			attempt: start,
			cfg:     cfg,
		}
		for i := range m.caps {
			m.caps[i] = -1
		}

		ends, err := m.runAttempt(start)
		if err != nil {
			return nil, err
		}
		if len(ends) > 0 {
			set := &MatchSet{Start: start, End: sortEnds(ends, cfg.Shortest)}
			return set, nil
		}
		if prog.Anchored {
			break
		}
	}
	return nil, ErrNoMatch
}

func sortEnds(ends map[int]bool, shortest bool) []int {
	out := make([]int, 0, len(ends))
	for e := range ends {
		out = append(out, e)
	}
	if shortest {
		sort.Ints(out)
		if len(out) > 1 {
			out = out[:1]
		}
		return out
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// checkSupported walks prog for the constructs spec §4.7 says the DFA
// interpreter cannot run at all, returning the PCRE2 error the real engine
// would report for each.
func checkSupported(n *compiler.Node) error {
	switch n.Kind {
	case compiler.KindBackrefNumber, compiler.KindBackrefName:
		return Unsupported{Code: ErrDFAUItem, Message: "dfa: backreferences are not supported"}
	case compiler.KindRecurse:
		return Unsupported{Code: ErrDFAUCond, Message: "dfa: subpattern recursion is not supported"}
	case compiler.KindLookbehind:
		if n.LookbehindW < 0 {
			return Unsupported{Code: ErrDFAUItem, Message: "dfa: variable-width lookbehind is not supported"}
		}
	}
	for i := range n.Args {
		if err := checkSupported(&n.Args[i]); err != nil {
			return err
		}
	}
	if n.CondAssert != nil {
		if err := checkSupported(n.CondAssert); err != nil {
			return err
		}
	}
	return nil
}

type matcher struct {
	prog    *compiler.Program
	s       []rune
	caps    []int
	attempt int
	steps   int
	cfg     Config
	ends    map[int]bool
}

func (m *matcher) tick() {
	m.steps++
	if m.steps > m.cfg.MaxSteps {
		panic(stepLimitSignal{})
	}
}

func (m *matcher) record(pos int) bool {
	if m.ends == nil {
		m.ends = make(map[int]bool)
	}
	if !m.ends[pos] {
		if len(m.ends) >= m.cfg.MaxMatches {
			panic(workspaceSignal{})
		}
		m.ends[pos] = true
	}
	// Keep exploring other paths for more distinct ends, under Shortest too:
	// the first end reached is not always the smallest, and sortEnds keeps
	// only the minimum in that mode.
	return false
}

// runAttempt collects every distinct end offset the pattern can reach
// starting at pos, per spec §4.7: "record every OP_MATCH-reaching state
// and its subject offset."
func (m *matcher) runAttempt(pos int) (ends map[int]bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch r.(type) {
			case stepLimitSignal:
				err = Unsupported{Code: ErrDFAUMLimit, Message: "dfa match step limit exceeded"}
			case workspaceSignal:
				err = ErrWorkspaceSize{}
			default:
				panic(r)
			}
		}
	}()
	m.match(&m.prog.Root, pos, m.record)
	return m.ends, nil
}

type cont func(pos int) bool

// match mirrors vm.matcher.match's shape exactly (same Node switch, same
// continuation-passing recursion) but the top-level continuation supplied
// by runAttempt never commits to the first success the way vm's does, so
// every alternative branch, every repeat count, and every path through an
// alternation keeps being explored and its end offset recorded.
func (m *matcher) match(n *compiler.Node, pos int, k cont) bool {
	m.tick()
	switch n.Kind {
	case compiler.KindEmpty:
		return k(pos)

	case compiler.KindConcat:
		return m.matchSeq(n.Args, 0, pos, k)

	case compiler.KindAlt:
		found := false
		for i := range n.Args {
			if m.match(&n.Args[i], pos, k) {
				found = true
				if m.cfg.Shortest {
					return true
				}
			}
		}
		return found

	case compiler.KindLiteral:
		return m.matchLiteral(n, pos, k)

	case compiler.KindAny:
		if pos >= len(m.s) {
			return false
		}
		if n.Name != "C" && !n.DotAll && m.s[pos] == '\n' {
			return false
		}
		return k(pos + 1)

	case compiler.KindClass:
		if pos >= len(m.s) || !n.Class.Contains(m.s[pos]) {
			return false
		}
		return k(pos + 1)

	case compiler.KindAnchorBOL:
		if n.Multiline {
			if pos == 0 || m.s[pos-1] == '\n' {
				return k(pos)
			}
			return false
		}
		if pos == 0 {
			return k(pos)
		}
		return false

	case compiler.KindAnchorEOL:
		if n.Multiline {
			if pos == len(m.s) || m.s[pos] == '\n' {
				return k(pos)
			}
			return false
		}
		if pos == len(m.s) || (pos == len(m.s)-1 && m.s[pos] == '\n') {
			return k(pos)
		}
		return false

	case compiler.KindAnchorBOT:
		if n.Name == "G" {
			if pos == m.attempt {
				return k(pos)
			}
			return false
		}
		if pos == 0 {
			return k(pos)
		}
		return false

	case compiler.KindAnchorEOT:
		if pos == len(m.s) {
			return k(pos)
		}
		return false

	case compiler.KindAnchorEOTNoNL:
		if pos == len(m.s) || (pos == len(m.s)-1 && m.s[pos] == '\n') {
			return k(pos)
		}
		return false

	case compiler.KindWordBoundary, compiler.KindNotWordBoundary:
		before := pos > 0 && isWordRune(m.s[pos-1])
		after := pos < len(m.s) && isWordRune(m.s[pos])
		boundary := before != after
		if n.Kind == compiler.KindNotWordBoundary {
			boundary = !boundary
		}
		if boundary {
			return k(pos)
		}
		return false

	case compiler.KindResetStart:
		return k(pos)

	case compiler.KindRepeat:
		return m.matchRepeat(n, pos, k)

	case compiler.KindCapture:
		return m.matchCapture(n, pos, k)

	case compiler.KindGroup:
		return m.match(&n.Args[0], pos, k)

	case compiler.KindAtomic:
		return m.matchAtomic(&n.Args[0], pos, k)

	case compiler.KindScriptRun:
		return m.matchScriptRun(n, pos, k)

	case compiler.KindLookahead:
		return m.matchLookahead(n, pos, k)

	case compiler.KindLookbehind:
		return m.matchLookbehind(n, pos, k)

	case compiler.KindCondGroup:
		return m.matchCond(n, pos, k)

	case compiler.KindMark:
		return k(pos)

	case compiler.KindVerb:
		// Backtracking-control verbs ((*COMMIT), (*SKIP), ...) have no
		// meaning for a matcher with no backtrack stack to cut; spec §4.7
		// doesn't mention them, so they're treated as no-ops here rather
		// than aborting the walk.
		switch compiler.Verb(n.CaptureIndex) {
		case compiler.VerbFail:
			return false
		default:
			return k(pos)
		}

	case compiler.KindCallout:
		if m.cfg.Callout != nil && !m.cfg.Callout(n.CaptureIndex, n.Arg, pos) {
			return false
		}
		return k(pos)

	// KindBackrefNumber, KindBackrefName, KindRecurse never reach here:
	// checkSupported rejects any program containing them before Exec
	// starts walking.
	default:
		return false
	}
}

func (m *matcher) matchSeq(args []compiler.Node, idx, pos int, k cont) bool {
	if idx == len(args) {
		return k(pos)
	}
	return m.match(&args[idx], pos, func(p int) bool {
		return m.matchSeq(args, idx+1, p, k)
	})
}

func (m *matcher) matchLiteral(n *compiler.Node, pos int, k cont) bool {
	if pos+len(n.Runes) > len(m.s) {
		return false
	}
	for i, want := range n.Runes {
		got := m.s[pos+i]
		if n.CaseFold {
			if !syntax.FoldEqual(got, want, n.Turkish) {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return k(pos + len(n.Runes))
}

// matchRepeat enumerates every valid repeat count between Min and Max
// instead of committing to greedy-first or lazy-first order: a DFA-style
// matcher has no notion of "try more before giving up", since it is not
// backtracking at all, only recording every reachable end — so every
// count that leads to a further match gets recorded, independent of
// n.Greedy.
func (m *matcher) matchRepeat(n *compiler.Node, pos int, k cont) bool {
	return m.matchRepeatN(n, 0, pos, k)
}

func (m *matcher) matchRepeatN(n *compiler.Node, count, pos int, k cont) bool {
	canStop := count >= n.Min
	found := false
	if canStop {
		if k(pos) {
			found = true
			if m.cfg.Shortest {
				return true
			}
		}
	}
	if n.Max < 0 || count < n.Max {
		if m.match(&n.Args[0], pos, func(p int) bool {
			if p == pos && canStop {
				return false // zero-width body: don't loop forever
			}
			return m.matchRepeatN(n, count+1, p, k)
		}) {
			found = true
		}
	}
	return found
}

func (m *matcher) matchCapture(n *compiler.Node, pos int, k cont) bool {
	idx := n.CaptureIndex
	savedStart, savedEnd := m.caps[2*idx], m.caps[2*idx+1]
	found := m.match(&n.Args[0], pos, func(end int) bool {
		m.caps[2*idx], m.caps[2*idx+1] = pos, end
		ok := k(end)
		m.caps[2*idx], m.caps[2*idx+1] = savedStart, savedEnd
		return ok
	})
	return found
}

// matchAtomic and matchScriptRun keep their vm counterparts' "commit to
// the first inner success" behavior: once a DFA thread has settled on one
// way through an atomic group, that is the only width it contributes to
// the surrounding walk, the same restriction spec.md §4.7's "no heap
// frames" and real PCRE2's DFA atomic handling both carry.
func (m *matcher) matchAtomic(n *compiler.Node, pos int, k cont) bool {
	matchedEnd := -1
	m.match(n, pos, func(p int) bool {
		matchedEnd = p
		return true
	})
	if matchedEnd < 0 {
		return false
	}
	return k(matchedEnd)
}

func (m *matcher) matchScriptRun(n *compiler.Node, pos int, k cont) bool {
	if n.Atomic {
		matchedEnd := -1
		m.match(&n.Args[0], pos, func(p int) bool {
			if scriptRunOK(m.s[pos:p]) {
				matchedEnd = p
				return true
			}
			return false
		})
		if matchedEnd < 0 {
			return false
		}
		return k(matchedEnd)
	}
	return m.match(&n.Args[0], pos, func(p int) bool {
		if !scriptRunOK(m.s[pos:p]) {
			return false
		}
		return k(p)
	})
}

func scriptRunOK(s []rune) bool {
	var script string
	for _, r := range s {
		name := runeScript(r)
		if name == "Common" || name == "Inherited" || name == "" {
			continue
		}
		if script == "" {
			script = name
			continue
		}
		if script != name {
			return false
		}
	}
	return true
}

var scriptOrder = []string{
	"Latin", "Greek", "Cyrillic", "Armenian", "Hebrew", "Arabic", "Han",
	"Hiragana", "Katakana", "Hangul", "Thai", "Devanagari", "Common", "Inherited",
}

func runeScript(r rune) string {
	for _, name := range scriptOrder {
		if rt, ok := unicode.Scripts[name]; ok && unicode.Is(rt, r) {
			return name
		}
	}
	for name, rt := range unicode.Scripts {
		if unicode.Is(rt, r) {
			return name
		}
	}
	return ""
}

func (m *matcher) matchLookahead(n *compiler.Node, pos int, k cont) bool {
	saved := append([]int(nil), m.caps...)
	ok := m.match(&n.Args[0], pos, func(int) bool { return true })
	if n.Negated {
		if ok {
			copy(m.caps, saved)
			return false
		}
		return k(pos)
	}
	if !ok {
		copy(m.caps, saved)
		return false
	}
	return k(pos)
}

// matchLookbehind only ever sees fixed-width bodies: checkSupported
// rejects any program with a variable-width lookbehind (LookbehindW < 0)
// before Exec runs at all, per spec §4.7.
func (m *matcher) matchLookbehind(n *compiler.Node, pos int, k cont) bool {
	saved := append([]int(nil), m.caps...)
	start := pos - n.LookbehindW
	found := start >= 0 && m.match(&n.Args[0], start, func(end int) bool { return end == pos })
	if n.Negated {
		if found {
			copy(m.caps, saved)
			return false
		}
		return k(pos)
	}
	if !found {
		copy(m.caps, saved)
		return false
	}
	return k(pos)
}

func (m *matcher) matchCond(n *compiler.Node, pos int, k cont) bool {
	branch := 1
	switch {
	case n.CondIsDefine:
		branch = 1
	case n.CondAssert != nil:
		if m.match(n.CondAssert, pos, func(int) bool { return true }) {
			branch = 0
		}
	case n.CondRefGroup > 0:
		if 2*n.CondRefGroup < len(m.caps) && m.caps[2*n.CondRefGroup] >= 0 {
			branch = 0
		}
	case n.CondRefName != "":
		for _, idx := range m.prog.NameToIndex[n.CondRefName] {
			if 2*idx < len(m.caps) && m.caps[2*idx] >= 0 {
				branch = 0
				break
			}
		}
	case n.CondIsBareR:
		branch = 1 // no recursion is ever active: recursion is unsupported
	}
	return m.match(&n.Args[branch], pos, k)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
