package vm

import (
	"unicode"

	"github.com/gopcre/pcre2/compiler"
	"github.com/gopcre/pcre2/syntax"
)

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

// matchRepeat implements {min,max} (and the */+/? sugar the compiler
// lowers to it), handling greedy, lazy, and possessive forms. Greedy and
// lazy both recurse, trying the next copy first or last respectively;
// possessive matches as many copies as possible up front with no
// backtracking into the repetition at all, mirroring an atomic group
// wrapped around the equivalent greedy quantifier.
func (m *matcher) matchRepeat(n *compiler.Node, pos int, k cont) bool {
	if n.Possessive {
		return m.matchRepeatPossessive(n, pos, k)
	}
	return m.matchRepeatN(n, 0, pos, k)
}

func (m *matcher) matchRepeatN(n *compiler.Node, count, pos int, k cont) bool {
	canStop := count >= n.Min
	canMore := n.Max < 0 || count < n.Max

	tryMore := func() bool {
		if !canMore {
			return false
		}
		return m.match(&n.Args[0], pos, func(p int) bool {
			if p == pos && canStop {
				// Zero-width body: stop here rather than loop forever.
				return false
			}
			return m.matchRepeatN(n, count+1, p, k)
		})
	}
	tryStop := func() bool {
		if !canStop {
			return false
		}
		return k(pos)
	}

	if n.Greedy {
		if tryMore() {
			return true
		}
		return tryStop()
	}
	if tryStop() {
		return true
	}
	return tryMore()
}

func (m *matcher) matchRepeatPossessive(n *compiler.Node, pos int, k cont) bool {
	count := 0
	cur := pos
	for n.Max < 0 || count < n.Max {
		matched := false
		m.match(&n.Args[0], cur, func(p int) bool {
			if p == cur {
				return false
			}
			cur = p
			matched = true
			return true
		})
		if !matched {
			break
		}
		count++
	}
	if count < n.Min {
		return false
	}
	return k(cur)
}

func (m *matcher) matchCapture(n *compiler.Node, pos int, k cont) bool {
	idx := n.CaptureIndex
	savedStart, savedEnd := m.caps[2*idx], m.caps[2*idx+1]
	ok := m.match(&n.Args[0], pos, func(end int) bool {
		m.caps[2*idx], m.caps[2*idx+1] = pos, end
		if k(end) {
			return true
		}
		m.caps[2*idx], m.caps[2*idx+1] = savedStart, savedEnd
		return false
	})
	if !ok {
		m.caps[2*idx], m.caps[2*idx+1] = savedStart, savedEnd
	}
	return ok
}

// matchAtomic commits to the first successful match of n, never
// backtracking into it again even if the outer continuation later fails.
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

// scriptRunOK reports whether every rune in s belongs to a single Unicode
// script, letting Common and Inherited characters (punctuation, combining
// marks) mix freely with whichever named script the run otherwise uses —
// the same relaxation PCRE2's script-run check applies.
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
	saved := m.snapshotCaps()
	ok := m.match(&n.Args[0], pos, func(int) bool { return true })
	if n.Negated {
		if ok {
			m.restoreCaps(saved)
			return false
		}
		return k(pos)
	}
	if !ok {
		m.restoreCaps(saved)
		return false
	}
	return k(pos)
}

// matchLookbehind adapts the teacher's reverse-scan idea (reverse_reader.go
// ran a compiled suffix pattern backward over the text before a literal
// suffix): here, instead of reversing the pattern, it tries successive
// candidate start offsets working backward from pos and asks the ordinary
// forward matcher to land exactly on pos, bounded by the node's computed
// fixed width when one exists.
func (m *matcher) matchLookbehind(n *compiler.Node, pos int, k cont) bool {
	saved := m.snapshotCaps()

	if n.LookbehindW >= 0 {
		start := pos - n.LookbehindW
		found := start >= 0 && m.match(&n.Args[0], start, func(end int) bool { return end == pos })
		return m.finishLookbehind(n, found, pos, saved, k)
	}

	found := false
	for start := pos; start >= 0; start-- {
		if m.match(&n.Args[0], start, func(end int) bool { return end == pos }) {
			found = true
			break
		}
		m.restoreCaps(saved)
	}
	return m.finishLookbehind(n, found, pos, saved, k)
}

func (m *matcher) finishLookbehind(n *compiler.Node, found bool, pos int, saved []int, k cont) bool {
	if n.Negated {
		if found {
			m.restoreCaps(saved)
			return false
		}
		return k(pos)
	}
	if !found {
		m.restoreCaps(saved)
		return false
	}
	return k(pos)
}

func (m *matcher) matchBackref(idx int, fold bool, pos int, k cont) bool {
	if idx <= 0 || 2*idx+1 >= len(m.caps) {
		return false
	}
	start, end := m.caps[2*idx], m.caps[2*idx+1]
	if start < 0 || end < 0 {
		return k(pos) // unset backref matches empty (scope decision D1)
	}
	text := m.s[start:end]
	if pos+len(text) > len(m.s) {
		return false
	}
	for i, want := range text {
		got := m.s[pos+i]
		if fold {
			if !syntax.FoldEqual(got, want, false) {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return k(pos + len(text))
}

func (m *matcher) matchBackrefName(n *compiler.Node, pos int, k cont) bool {
	indices := m.prog.NameToIndex[n.Name]
	for _, idx := range indices {
		if 2*idx < len(m.caps) && m.caps[2*idx] >= 0 {
			return m.matchBackref(idx, n.CaseFold, pos, k)
		}
	}
	return k(pos) // no same-named group matched: treat as unset, per D1
}

func (m *matcher) matchRecurse(n *compiler.Node, pos int, k cont) bool {
	if m.recDepth >= m.cfg.MaxRecursion {
		panic(recursionLimitSignal{})
	}
	var target *compiler.Node
	switch {
	case n.Name != "":
		if indices := m.prog.NameToIndex[n.Name]; len(indices) > 0 {
			target = m.prog.GroupNode[indices[0]]
		}
	case n.RecurseGroup == 0:
		target = &m.prog.Root
	default:
		target = m.prog.GroupNode[n.RecurseGroup]
	}
	if target == nil {
		return false
	}
	m.recDepth++
	ok := m.match(target, pos, k)
	m.recDepth--
	return ok
}

func (m *matcher) matchCond(n *compiler.Node, pos int, k cont) bool {
	branch := 1 // "no" by default
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
		if m.recDepth > 0 {
			branch = 0
		}
	}
	return m.match(&n.Args[branch], pos, k)
}

func (m *matcher) matchVerb(n *compiler.Node, pos int) bool {
	switch compiler.Verb(n.CaptureIndex) {
	case compiler.VerbAccept:
		panic(acceptSignal{pos: pos})
	case compiler.VerbFail, compiler.VerbThen:
		return false
	default:
		panic(verbCut{verb: compiler.Verb(n.CaptureIndex), pos: pos})
	}
}
