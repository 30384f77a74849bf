package compiler

import (
	"strconv"
	"strings"

	"github.com/gopcre/pcre2/syntax"
)

// Build walks a parsed pattern into a Program, resolving character classes
// and capture numbering in the same pass the parser already did the hard
// work for (group numbers are assigned left-to-right at parse time; this
// pass only has to read them back out), per spec §4.4's "two-pass compile"
// restated for a tree target instead of a linear bytecode one.
func Build(re *syntax.Regexp, opts Options) (*Program, error) {
	prog := &Program{Options: opts}
	root, err := buildNode(re, re.Expr, opts, prog)
	if err != nil {
		return nil, err
	}
	prog.Root = root
	computeLookbehindWidths(&prog.Root)
	prog.GroupNode = map[int]*Node{}
	collectGroupNodes(&prog.Root, prog.GroupNode)
	optimize(prog)
	return prog, nil
}

// collectGroupNodes indexes every KindCapture node's body by group number so
// KindRecurse can find the subtree it needs to re-run. Must run after the
// tree is fully built and never mutated afterward, since it keeps raw
// pointers into Root's Args arrays.
func collectGroupNodes(n *Node, out map[int]*Node) {
	if n.Kind == KindCapture {
		out[n.CaptureIndex] = &n.Args[0]
	}
	for i := range n.Args {
		collectGroupNodes(&n.Args[i], out)
	}
	if n.CondAssert != nil {
		collectGroupNodes(n.CondAssert, out)
	}
}

func buildNode(re *syntax.Regexp, e syntax.Expr, opts Options, prog *Program) (Node, error) {
	switch e.Op {
	case syntax.OpConcat:
		return buildSequence(re, e.Args, opts, prog)

	case syntax.OpAlt:
		var args []Node
		for _, sub := range e.Args {
			n, err := buildNode(re, sub, opts, prog)
			if err != nil {
				return Node{}, err
			}
			args = append(args, n)
		}
		return Node{Kind: KindAlt, Args: args}, nil

	case syntax.OpLiteral, syntax.OpQuote:
		return Node{
			Kind:     KindLiteral,
			Runes:    []rune(re.ExprString(e)),
			CaseFold: opts.Caseless,
			Turkish:  opts.Turkish,
		}, nil

	case syntax.OpEscapeMeta, syntax.OpEscapeOctal, syntax.OpEscapeHex, syntax.OpEscapeHexFull:
		r, err := syntax.ResolveCharLiteral(re, e)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: KindLiteral, Runes: []rune{r}, CaseFold: opts.Caseless, Turkish: opts.Turkish}, nil

	case syntax.OpEscape:
		return buildEscape(re, e, opts)

	case syntax.OpEscapeUni, syntax.OpEscapeUniFull:
		cs, err := classFromElem(re, e, opts)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: KindClass, Class: cs}, nil

	case syntax.OpCharClass, syntax.OpNegCharClass:
		cs, err := syntax.PlanClass(re, e, opts.classOptions())
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: KindClass, Class: cs}, nil

	case syntax.OpDot:
		return Node{Kind: KindAny, DotAll: opts.DotAll}, nil

	case syntax.OpCaret:
		return Node{Kind: KindAnchorBOL, Multiline: opts.Multiline}, nil

	case syntax.OpDollar:
		return Node{Kind: KindAnchorEOL, Multiline: opts.Multiline}, nil

	case syntax.OpStar, syntax.OpPlus, syntax.OpQuestion, syntax.OpRepeat,
		syntax.OpNonGreedy, syntax.OpPossessive:
		return buildQuantifier(re, e, opts, prog)

	case syntax.OpCapture:
		child, err := buildNode(re, e.Args[0], opts, prog)
		if err != nil {
			return Node{}, err
		}
		if e.Payload > prog.NumCaptures {
			prog.NumCaptures = e.Payload
		}
		return Node{Kind: KindCapture, CaptureIndex: e.Payload, Args: []Node{child}}, nil

	case syntax.OpNamedCapture:
		child, err := buildNode(re, e.Args[0], opts, prog)
		if err != nil {
			return Node{}, err
		}
		if e.Payload > prog.NumCaptures {
			prog.NumCaptures = e.Payload
		}
		name := re.Source[e.Name.Begin:e.Name.End]
		prog.nameIndex(name, e.Payload)
		return Node{Kind: KindCapture, CaptureIndex: e.Payload, Name: name, Args: []Node{child}}, nil

	case syntax.OpGroup:
		child, err := buildNode(re, e.Args[0], opts, prog)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: KindGroup, Args: []Node{child}}, nil

	case syntax.OpGroupWithFlags:
		body := re.ExprString(e.Args[1])
		newOpts := applyFlags(opts, strings.TrimPrefix(body, "?"))
		child, err := buildNode(re, e.Args[0], newOpts, prog)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: KindGroup, Args: []Node{child}}, nil

	case syntax.OpFlagOnlyGroup:
		return Node{Kind: KindEmpty}, nil

	case syntax.OpAtomic:
		child, err := buildNode(re, e.Args[0], opts, prog)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: KindAtomic, Args: []Node{child}}, nil

	case syntax.OpScriptRun, syntax.OpAtomicScriptRun:
		child, err := buildNode(re, e.Args[0], opts, prog)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: KindScriptRun, Atomic: e.Op == syntax.OpAtomicScriptRun, Args: []Node{child}}, nil

	case syntax.OpLookahead, syntax.OpNegLookahead, syntax.OpNonAtomicLookahead:
		child, err := buildNode(re, e.Args[0], opts, prog)
		if err != nil {
			return Node{}, err
		}
		return Node{
			Kind:      KindLookahead,
			Negated:   e.Op == syntax.OpNegLookahead,
			NonAtomic: e.Op == syntax.OpNonAtomicLookahead,
			Args:      []Node{child},
		}, nil

	case syntax.OpLookbehind, syntax.OpNegLookbehind, syntax.OpNonAtomicLookbehind:
		child, err := buildNode(re, e.Args[0], opts, prog)
		if err != nil {
			return Node{}, err
		}
		return Node{
			Kind:        KindLookbehind,
			Negated:     e.Op == syntax.OpNegLookbehind,
			NonAtomic:   e.Op == syntax.OpNonAtomicLookbehind,
			LookbehindW: -1,
			Args:        []Node{child},
		}, nil

	case syntax.OpBackrefNumber:
		return Node{Kind: KindBackrefNumber, CaptureIndex: e.Payload, CaseFold: opts.Caseless}, nil

	case syntax.OpBackrefName:
		return Node{Kind: KindBackrefName, Name: re.Source[e.Name.Begin:e.Name.End], CaseFold: opts.Caseless}, nil

	case syntax.OpRecurse:
		name := ""
		if e.Name.End > e.Name.Begin {
			name = re.Source[e.Name.Begin:e.Name.End]
		}
		return Node{Kind: KindRecurse, RecurseGroup: e.Payload, Name: name}, nil

	case syntax.OpCondGroup:
		return buildCondGroup(re, e, opts, prog)

	case syntax.OpMark:
		return Node{Kind: KindMark, Name: re.Source[e.Name.Begin:e.Name.End]}, nil

	case syntax.OpVerbAccept, syntax.OpVerbFail, syntax.OpVerbCommit,
		syntax.OpVerbPrune, syntax.OpVerbSkip, syntax.OpVerbThen:
		arg := ""
		if e.Name.End > e.Name.Begin {
			arg = re.Source[e.Name.Begin:e.Name.End]
		}
		return Node{Kind: KindVerb, CaptureIndex: int(verbOf(e.Op)), Arg: arg}, nil

	case syntax.OpCalloutNumber:
		return Node{Kind: KindCallout, CaptureIndex: e.Payload}, nil

	case syntax.OpCalloutString:
		return Node{Kind: KindCallout, CaptureIndex: -1, Arg: re.Source[e.Name.Begin:e.Name.End]}, nil

	case syntax.OpPosixClass:
		return Node{}, syntax.ParseError{Pos: e.Pos, Message: "POSIX class used outside a character class"}

	default:
		return Node{}, syntax.ParseError{Pos: e.Pos, Message: "unsupported construct in compiler"}
	}
}

// buildSequence folds option state across an OpConcat's children: a
// OpFlagOnlyGroup changes opts for every sibling that follows it, the same
// scoping rule spec §4.2 and C's recovered inline-flag feature describe.
func buildSequence(re *syntax.Regexp, args []syntax.Expr, opts Options, prog *Program) (Node, error) {
	var out []Node
	for _, a := range args {
		if a.Op == syntax.OpFlagOnlyGroup {
			body := re.ExprString(a.Args[0])
			opts = applyFlags(opts, strings.TrimPrefix(body, "?"))
			continue
		}
		n, err := buildNode(re, a, opts, prog)
		if err != nil {
			return Node{}, err
		}
		out = append(out, n)
	}
	return Node{Kind: KindConcat, Args: out}, nil
}

func verbOf(op syntax.Operation) Verb {
	switch op {
	case syntax.OpVerbAccept:
		return VerbAccept
	case syntax.OpVerbFail:
		return VerbFail
	case syntax.OpVerbCommit:
		return VerbCommit
	case syntax.OpVerbPrune:
		return VerbPrune
	case syntax.OpVerbSkip:
		return VerbSkip
	default:
		return VerbThen
	}
}

// buildEscape resolves an OpEscape node: the letter decides whether this is
// a character-class shorthand (d/D/w/W/s/S/h/H/v/V) or one of the special
// assertions PCRE2 also spells with a backslash escape (b/B/A/Z/z/G/K/C).
func buildEscape(re *syntax.Regexp, e syntax.Expr, opts Options) (Node, error) {
	s := re.ExprString(e)
	letter := s[len(s)-1]
	switch letter {
	case 'b':
		return Node{Kind: KindWordBoundary}, nil
	case 'B':
		return Node{Kind: KindNotWordBoundary}, nil
	case 'A':
		return Node{Kind: KindAnchorBOT}, nil
	case 'Z':
		return Node{Kind: KindAnchorEOTNoNL}, nil
	case 'z':
		return Node{Kind: KindAnchorEOT}, nil
	case 'G':
		return Node{Kind: KindAnchorBOT, Name: "G"}, nil
	case 'K':
		return Node{Kind: KindResetStart}, nil
	case 'C':
		return Node{Kind: KindAny, Name: "C"}, nil
	default:
		cs, err := classFromElem(re, e, opts)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: KindClass, Class: cs}, nil
	}
}

// classFromElem resolves a class-shorthand element (an OpEscape letter like
// 'd', or an OpEscapeUni/OpEscapeUniFull node) to a ClassSet by wrapping it
// in a synthetic one-element OpCharClass and running it through the same
// planner a literal [...] body uses — the exact path planClassArgs already
// takes for these Op kinds when they appear inside brackets.
func classFromElem(re *syntax.Regexp, e syntax.Expr, opts Options) (syntax.ClassSet, error) {
	synth := syntax.Expr{Op: syntax.OpCharClass, Args: []syntax.Expr{e}}
	return syntax.PlanClass(re, synth, opts.classOptions())
}

// buildQuantifier unwraps the OpNonGreedy/OpPossessive modifier (if any)
// around a bare quantifier op and produces the single KindRepeat node spec
// §4.2's repetition operators compile to.
func buildQuantifier(re *syntax.Regexp, e syntax.Expr, opts Options, prog *Program) (Node, error) {
	greedy := !opts.Ungreedy
	possessive := false
	base := e
	switch e.Op {
	case syntax.OpNonGreedy:
		base = e.Args[0]
		greedy = !greedy
	case syntax.OpPossessive:
		base = e.Args[0]
		possessive = true
	}

	var min, max int
	var childExpr syntax.Expr
	switch base.Op {
	case syntax.OpStar:
		min, max, childExpr = 0, -1, base.Args[0]
	case syntax.OpPlus:
		min, max, childExpr = 1, -1, base.Args[0]
	case syntax.OpQuestion:
		min, max, childExpr = 0, 1, base.Args[0]
	case syntax.OpRepeat:
		var err error
		min, max, err = parseRepeatBounds(re.ExprString(base.Args[1]))
		if err != nil {
			return Node{}, err
		}
		childExpr = base.Args[0]
	default:
		return Node{}, syntax.ParseError{Pos: e.Pos, Message: "malformed quantifier"}
	}

	child, err := buildNode(re, childExpr, opts, prog)
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: KindRepeat, Min: min, Max: max, Greedy: greedy, Possessive: possessive, Args: []Node{child}}, nil
}

// parseRepeatBounds parses a "{min,max}" / "{min,}" / "{min}" literal
// (including the braces, the exact span the lexer hands the parser for
// tokRepeat) into its bounds. max is -1 for "no upper bound".
func parseRepeatBounds(lit string) (min, max int, err error) {
	body := strings.TrimSuffix(strings.TrimPrefix(lit, "{"), "}")
	comma := strings.IndexByte(body, ',')
	if comma < 0 {
		n, convErr := strconv.Atoi(body)
		if convErr != nil {
			return 0, 0, syntax.ParseError{Message: "malformed repeat count"}
		}
		return n, n, nil
	}
	lo, convErr := strconv.Atoi(body[:comma])
	if convErr != nil {
		return 0, 0, syntax.ParseError{Message: "malformed repeat count"}
	}
	hiText := body[comma+1:]
	if hiText == "" {
		return lo, -1, nil
	}
	hi, convErr := strconv.Atoi(hiText)
	if convErr != nil {
		return 0, 0, syntax.ParseError{Message: "malformed repeat count"}
	}
	return lo, hi, nil
}

// buildCondGroup resolves the "(cond)" head of a (?(cond)yes|no) into the
// Node's Cond* fields and builds the yes/no branches as Args[0]/Args[1].
func buildCondGroup(re *syntax.Regexp, e syntax.Expr, opts Options, prog *Program) (Node, error) {
	cond := e.Args[0]
	yes, err := buildNode(re, e.Args[1], opts, prog)
	if err != nil {
		return Node{}, err
	}
	no, err := buildNode(re, e.Args[2], opts, prog)
	if err != nil {
		return Node{}, err
	}
	n := Node{Kind: KindCondGroup, Args: []Node{yes, no}}

	switch cond.Op {
	case syntax.OpCondDefine:
		n.CondIsDefine = true
	case syntax.OpCondAssert:
		assertNode, err := buildNode(re, cond.Args[0], opts, prog)
		if err != nil {
			return Node{}, err
		}
		n.CondAssert = &assertNode
	case syntax.OpCondRef:
		switch {
		case cond.Payload > 0:
			n.CondRefGroup = cond.Payload
		case cond.Name.End > cond.Name.Begin:
			n.CondRefName = re.Source[cond.Name.Begin:cond.Name.End]
		default:
			n.CondIsBareR = true
		}
	}
	return n, nil
}

// computeLookbehindWidths fills in LookbehindW for every lookbehind node in
// the tree, a pure optimization hint the vm uses to bound its backward scan
// (see vm.matchLookbehind); variable-width content leaves it at -1 and the
// vm falls back to trying every preceding offset.
func computeLookbehindWidths(n *Node) {
	for i := range n.Args {
		computeLookbehindWidths(&n.Args[i])
	}
	if n.Kind == KindLookbehind {
		n.LookbehindW = fixedWidth(&n.Args[0])
	}
}

// fixedWidth returns the exact number of runes n always consumes, or -1 if
// that isn't a fixed constant (e.g. an unbounded repeat or an alternation
// whose branches differ in length).
func fixedWidth(n *Node) int {
	switch n.Kind {
	case KindLiteral:
		return len(n.Runes)
	case KindAny, KindClass:
		return 1
	case KindAnchorBOL, KindAnchorEOL, KindAnchorBOT, KindAnchorEOT, KindAnchorEOTNoNL,
		KindWordBoundary, KindNotWordBoundary, KindResetStart, KindEmpty, KindMark, KindVerb, KindCallout:
		return 0
	case KindConcat:
		total := 0
		for i := range n.Args {
			w := fixedWidth(&n.Args[i])
			if w < 0 {
				return -1
			}
			total += w
		}
		return total
	case KindAlt:
		if len(n.Args) == 0 {
			return 0
		}
		w := fixedWidth(&n.Args[0])
		for i := 1; i < len(n.Args); i++ {
			if fixedWidth(&n.Args[i]) != w {
				return -1
			}
		}
		return w
	case KindRepeat:
		if n.Min != n.Max {
			return -1
		}
		w := fixedWidth(&n.Args[0])
		if w < 0 {
			return -1
		}
		return w * n.Min
	case KindCapture, KindGroup, KindAtomic, KindScriptRun:
		return fixedWidth(&n.Args[0])
	default:
		return -1
	}
}
