// Package compiler turns a parsed syntax.Regexp into the tree the vm package
// walks: captures counted and named, character classes pre-resolved to
// syntax.ClassSet values, option state (caseless/multiline/dotall/ungreedy)
// baked into each node instead of re-derived during matching.
package compiler

import "github.com/gopcre/pcre2/syntax"

// Kind identifies the shape of a Node, mirroring syntax.Operation but
// collapsed onto the handful of distinctions the matcher actually branches
// on (e.g. OpStar/OpPlus/OpQuestion/OpRepeat all become KindRepeat).
type Kind byte

const (
	KindEmpty Kind = iota
	KindLiteral
	KindAny
	KindClass
	KindConcat
	KindAlt
	KindRepeat
	KindCapture
	KindGroup
	KindAtomic
	KindLookahead
	KindLookbehind
	KindBackrefNumber
	KindBackrefName
	KindAnchorBOL
	KindAnchorEOL
	KindAnchorBOT
	KindAnchorEOT
	KindAnchorEOTNoNL
	KindWordBoundary
	KindNotWordBoundary
	KindResetStart // \K
	KindRecurse
	KindCondGroup
	KindScriptRun
	KindMark
	KindVerb
	KindCallout
)

// Verb identifies one of the backtracking-control verbs a KindVerb node
// carries in CaptureIndex.
type Verb int

const (
	VerbAccept Verb = iota
	VerbFail
	VerbCommit
	VerbPrune
	VerbSkip
	VerbThen
)

// Node is one element of the compiled tree. Args holds child nodes for the
// composite kinds (KindConcat, KindAlt, KindRepeat's single child, etc.);
// which fields are meaningful is Kind-dependent, documented at each Kind's
// use site in build.go.
type Node struct {
	Kind Kind
	Args []Node

	// Literal / Any / Class matching data.
	Runes    []rune // KindLiteral text
	CaseFold bool   // KindLiteral: compare case-insensitively
	Turkish  bool   // KindLiteral: Turkish casing for the fold above
	Class    syntax.ClassSet
	DotAll   bool // KindAny: '.' also matches newline
	Multiline bool // KindAnchorBOL/KindAnchorEOL: ^/$ also match at internal line breaks

	// KindRepeat bounds. Max < 0 means unbounded.
	Min, Max   int
	Greedy     bool
	Possessive bool

	// KindCapture / KindBackrefName / KindRecurse / KindCondGroup naming.
	CaptureIndex int
	Name         string

	// KindLookahead / KindLookbehind.
	Negated     bool
	NonAtomic   bool
	Atomic      bool // KindScriptRun: true for (*asr:...) / (*atomic_script_run:...)
	LookbehindW int // fixed match width in runes, -1 if variable-width pieces present

	// KindRecurse: 0 = whole pattern, >0 = group number, Name set for by-name.
	RecurseGroup int

	// KindCondGroup: Args[0]=yes branch, Args[1]=no branch (may be empty
	// KindConcat). Cond* fields describe the condition itself.
	CondRefGroup int    // >0: "group number exists and matched" test
	CondRefName  string // non-empty: "named group matched" test
	CondIsBareR  bool   // (R): true while any recursion call is active
	CondIsDefine bool   // (DEFINE): condition is always false
	CondAssert   *Node  // non-nil: (?(?=...)yes|no) form, a lookaround used as condition

	// KindMark / KindVerb.
	Arg string

	Pos syntax.Position
}

// Program is the compiled form of a whole pattern: the root node plus the
// bookkeeping the vm and the start-up optimizer need without re-walking
// the tree.
type Program struct {
	Root Node

	NumCaptures int // not counting capture 0 (the whole match)
	CaptureName []string
	NameToIndex map[string][]int // PCRE2_DUPNAMES: a name may label more than one group
	GroupNode   map[int]*Node    // capture number -> its body node, for (?n)/(?R) recursion

	Options Options

	// Start-up optimizer results (optimize.go).
	Anchored           bool
	RequiredPrefix     []rune
	RequiredCase       bool // prefix match is case-sensitive
	RequiredSuffix     []rune
	RequiredSuffixCase bool // suffix match is case-sensitive
}

func (p *Program) nameIndex(name string, idx int) {
	if p.NameToIndex == nil {
		p.NameToIndex = make(map[string][]int)
	}
	p.NameToIndex[name] = append(p.NameToIndex[name], idx)
	for len(p.CaptureName) < idx {
		p.CaptureName = append(p.CaptureName, "")
	}
	p.CaptureName[idx-1] = name
}
