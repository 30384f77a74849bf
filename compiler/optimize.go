package compiler

// optimize fills in Program's start-up optimizer fields (spec's C5):
// whether the pattern is anchored to the start of the subject, and a
// required literal prefix the search loop can use to skip ahead before
// ever invoking the backtracker — the same idea coregx-coregex's
// literal-extractor.go walks a regexp/syntax tree for, simplified here to
// "first concrete literal run down the left edge of the tree, as long as
// every node skipped over to reach it is zero-width and unconditional".
func optimize(prog *Program) {
	prog.Anchored = isAnchored(&prog.Root)
	prefix, caseSensitive := leadingLiteral(&prog.Root)
	prog.RequiredPrefix = prefix
	prog.RequiredCase = caseSensitive
	suffix, suffixCase := trailingLiteral(&prog.Root)
	prog.RequiredSuffix = suffix
	prog.RequiredSuffixCase = suffixCase
}

// isAnchored reports whether every match of n must start at the current
// position, i.e. the left edge of the tree is a \A / ^ (non-multiline) / \G
// anchor with nothing optional ahead of it.
func isAnchored(n *Node) bool {
	switch n.Kind {
	case KindAnchorBOT:
		return true
	case KindAnchorBOL:
		return !n.Multiline
	case KindConcat:
		for i := range n.Args {
			if n.Args[i].Kind == KindEmpty || n.Args[i].Kind == KindCallout {
				continue
			}
			return isAnchored(&n.Args[i])
		}
		return false
	case KindCapture, KindGroup, KindAtomic:
		return isAnchored(&n.Args[0])
	case KindAlt:
		for i := range n.Args {
			if !isAnchored(&n.Args[i]) {
				return false
			}
		}
		return len(n.Args) > 0
	case KindRepeat:
		return n.Min > 0 && isAnchored(&n.Args[0])
	default:
		return false
	}
}

// leadingLiteral walks down the left edge of the tree collecting a single
// required literal run, stopping at the first node that isn't a plain
// literal, a non-optional concat/capture/group wrapper, or an anchor. A
// caseless literal still counts and is reported via the second return
// value; the vm's search loop only skips ahead on a case-sensitive prefix.
func leadingLiteral(n *Node) ([]rune, bool) {
	switch n.Kind {
	case KindLiteral:
		return n.Runes, !n.CaseFold
	case KindConcat:
		for i := range n.Args {
			switch n.Args[i].Kind {
			case KindEmpty, KindCallout, KindAnchorBOT, KindAnchorBOL, KindResetStart:
				continue
			case KindLiteral:
				fold := n.Args[i].CaseFold
				var run []rune
				for j := i; j < len(n.Args) && n.Args[j].Kind == KindLiteral && n.Args[j].CaseFold == fold; j++ {
					run = append(run, n.Args[j].Runes...)
				}
				return run, !fold
			default:
				return nil, false
			}
		}
		return nil, false
	case KindCapture, KindGroup, KindAtomic:
		return leadingLiteral(&n.Args[0])
	case KindRepeat:
		if n.Min >= 1 {
			return leadingLiteral(&n.Args[0])
		}
		return nil, false
	default:
		return nil, false
	}
}

// trailingLiteral mirrors leadingLiteral down the right edge of the tree,
// the same "does every match of this pattern necessarily end in a fixed
// run of text" question the teacher's matchers.go asked of a stdlib
// regexp/syntax tree (suffixLitMatcher required the outermost node to be a
// concat ending in OpLiteral). The vm uses the result as a cheap whole-
// subject existence pre-check (vm/reverse.go's requiredSuffixPresent) before ever
// trying a single start offset, the same role matchers.go's strings.Index
// scan played in front of the reversed-pattern matcher.
func trailingLiteral(n *Node) ([]rune, bool) {
	switch n.Kind {
	case KindLiteral:
		return n.Runes, !n.CaseFold
	case KindConcat:
		for i := len(n.Args) - 1; i >= 0; i-- {
			switch n.Args[i].Kind {
			case KindEmpty, KindCallout, KindAnchorEOT, KindAnchorEOTNoNL, KindAnchorEOL:
				continue
			case KindLiteral:
				fold := n.Args[i].CaseFold
				j := i
				for j > 0 && n.Args[j-1].Kind == KindLiteral && n.Args[j-1].CaseFold == fold {
					j--
				}
				var run []rune
				for ; j <= i; j++ {
					run = append(run, n.Args[j].Runes...)
				}
				return run, !fold
			default:
				return nil, false
			}
		}
		return nil, false
	case KindCapture, KindGroup, KindAtomic:
		return trailingLiteral(&n.Args[0])
	case KindRepeat:
		if n.Min >= 1 {
			return trailingLiteral(&n.Args[0])
		}
		return nil, false
	default:
		return nil, false
	}
}
