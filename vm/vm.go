// Package vm is the backtracking interpreter (spec C6): it walks a
// compiler.Program against a subject string with a continuation-passing
// recursive matcher, the same shape a hand-written backtracking engine
// takes (this is the engine the teacher's own root package stood in front
// of via stdlib regexp — here there is no stdlib engine to delegate to, so
// this package is the real thing). reverse.go adapts the teacher's
// reverse-scan idea from reverse_reader.go/matchers.go into a required-
// trailing-literal existence pre-check ahead of the search loop.
package vm

import (
	"unicode"

	"github.com/gopcre/pcre2/compiler"
)

// Config bounds runaway backtracking/recursion and wires an optional
// callout hook, per spec §5's "bounded work per match attempt" concurrency
// note (a single matcher instance is never shared across goroutines; every
// Exec call gets its own).
type Config struct {
	MaxSteps     int // 0 means use the default
	MaxRecursion int // 0 means use the default
	Callout      func(number int, text string, pos int) bool
}

const (
	defaultMaxSteps     = 20_000_000
	defaultMaxRecursion = 250
)

// MatchData is the ovector-equivalent result of one successful match:
// Caps[2*i], Caps[2*i+1] are the start/end rune offsets of capture group i
// (Caps[0]/Caps[1] are the whole match), -1 meaning "did not participate".
type MatchData struct {
	Caps []int
	Mark string
}

// ErrNoMatch is returned by Exec when no match was found at or after pos.
var ErrNoMatch = errNoMatch{}

type errNoMatch struct{}

func (errNoMatch) Error() string { return "no match" }

// ErrLimitExceeded is returned when a match attempt exceeds Config's step or
// recursion bound, PCRE2's ERROR_MATCHLIMIT / ERROR_RECURSIONLIMIT.
type ErrLimitExceeded struct{ Recursion bool }

func (e ErrLimitExceeded) Error() string {
	if e.Recursion {
		return "recursion limit exceeded"
	}
	return "match step limit exceeded"
}

// Exec searches subject (as runes) for prog starting at or after startPos
// (a rune offset), returning the first match per leftmost-first semantics.
func Exec(prog *compiler.Program, subject []rune, startPos int, cfg Config) (*MatchData, error) {
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = defaultMaxSteps
	}
	if cfg.MaxRecursion == 0 {
		cfg.MaxRecursion = defaultMaxRecursion
	}

	if !requiredSuffixPresent(prog, subject, startPos) {
		return nil, ErrNoMatch
	}

	limit := len(subject)
	for start := startPos; start <= limit; start++ {
		if prog.RequiredPrefix != nil && prog.RequiredCase {
			next := indexRunes(subject[start:], prog.RequiredPrefix)
			if next < 0 {
				break
			}
			start += next
		}

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
		m.matchStart = start

		data, abort, skipTo, err := m.runAttempt(start)
		if err != nil {
			return nil, err
		}
		if data != nil {
			return data, nil
		}
		if abort {
			return nil, ErrNoMatch
		}
		if prog.Anchored {
			break
		}
		if skipTo > start {
			start = skipTo - 1 // loop's start++ brings it back to skipTo
		}
	}
	return nil, ErrNoMatch
}

func indexRunes(s, sub []rune) int {
	if len(sub) == 0 || len(sub) > len(s) {
		if len(sub) == 0 {
			return 0
		}
		return -1
	}
	for i := 0; i+len(sub) <= len(s); i++ {
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

// acceptSignal unwinds the whole match attempt on (*ACCEPT), the cleanest
// way to short-circuit arbitrarily deep continuation nesting without
// threading a "stop everything" return value through every match* helper.
type acceptSignal struct{ pos int }

// verbCut unwinds a (*COMMIT)/(*PRUNE)/(*SKIP), aborting the current start
// offset's attempt without trying its remaining internal backtrack choices.
type verbCut struct {
	verb compiler.Verb
	pos  int
}

type matcher struct {
	prog        *compiler.Program
	s           []rune
	caps        []int
	attempt     int // rune offset this attempt started at (\G anchors here)
	matchStart  int // updated by \K
	recDepth    int
	steps       int
	cfg         Config
	lastMark    string
}

// runAttempt matches the whole pattern starting at pos, catching (*ACCEPT)
// and (*COMMIT)/(*PRUNE)/(*SKIP) signals raised anywhere below it. abort
// reports that the caller's search loop should stop trying later start
// offsets entirely ((*COMMIT) with no match).
func (m *matcher) runAttempt(pos int) (data *MatchData, abort bool, skipTo int, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch sig := r.(type) {
			case acceptSignal:
				m.caps[0], m.caps[1] = m.matchStart, sig.pos
				data = &MatchData{Caps: append([]int(nil), m.caps...), Mark: m.lastMark}
			case verbCut:
				switch sig.verb {
				case compiler.VerbCommit:
					abort = true
				case compiler.VerbSkip:
					skipTo = sig.pos
				}
			case stepLimitSignal:
				err = ErrLimitExceeded{}
			case recursionLimitSignal:
				err = ErrLimitExceeded{Recursion: true}
			default:
				panic(r)
			}
		}
	}()

	ok := m.match(&m.prog.Root, pos, func(end int) bool {
		m.caps[0], m.caps[1] = m.matchStart, end
		return true
	})
	if ok {
		data = &MatchData{Caps: append([]int(nil), m.caps...), Mark: m.lastMark}
	}
	return data, false, 0, nil
}

type stepLimitSignal struct{}
type recursionLimitSignal struct{}

type cont func(pos int) bool

func (m *matcher) tick() {
	m.steps++
	if m.steps > m.cfg.MaxSteps {
		panic(stepLimitSignal{})
	}
}

func (m *matcher) snapshotCaps() []int {
	return append([]int(nil), m.caps...)
}

func (m *matcher) restoreCaps(saved []int) {
	copy(m.caps, saved)
}

// match is the recursive, continuation-passing core: it tries to consume
// n starting at pos, and for every way it can, calls k with the resulting
// position; it succeeds iff some such call to k returns true. This is the
// textbook shape for backtracking regex engines and is what makes greedy
// vs. lazy, possessive groups, and lookaround all fall out of ordinary
// function composition instead of an explicit backtrack stack.
func (m *matcher) match(n *compiler.Node, pos int, k cont) bool {
	m.tick()
	switch n.Kind {
	case compiler.KindEmpty:
		return k(pos)

	case compiler.KindConcat:
		return m.matchSeq(n.Args, 0, pos, k)

	case compiler.KindAlt:
		for i := range n.Args {
			if m.match(&n.Args[i], pos, k) {
				return true
			}
		}
		return false

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
		saved := m.matchStart
		m.matchStart = pos
		if k(pos) {
			return true
		}
		m.matchStart = saved
		return false

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

	case compiler.KindBackrefNumber:
		return m.matchBackref(n.CaptureIndex, n.CaseFold, pos, k)

	case compiler.KindBackrefName:
		return m.matchBackrefName(n, pos, k)

	case compiler.KindRecurse:
		return m.matchRecurse(n, pos, k)

	case compiler.KindCondGroup:
		return m.matchCond(n, pos, k)

	case compiler.KindMark:
		m.lastMark = n.Name
		return k(pos)

	case compiler.KindVerb:
		return m.matchVerb(n, pos)

	case compiler.KindCallout:
		if m.cfg.Callout != nil && !m.cfg.Callout(n.CaptureIndex, n.Arg, pos) {
			return false
		}
		return k(pos)

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

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
