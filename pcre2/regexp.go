package pcre2

import (
	"github.com/gopcre/pcre2/compiler"
	"github.com/gopcre/pcre2/syntax"
	"github.com/gopcre/pcre2/vm"
)

// Regexp is a compiled pattern, the Go-shaped equivalent of a pcre2_code
// handle plus the compile context options baked into it. Unlike PCRE2's
// opaque pointer, a Regexp is an ordinary value: safe to share across
// goroutines for matching (every Exec call gets its own matcher state),
// never mutated after Compile returns.
type Regexp struct {
	source  string
	pattern *syntax.Regexp
	prog    *compiler.Program

	// MaxSteps and MaxRecursion bound one match attempt's work, the
	// MATCH_LIMIT / MATCH_LIMIT_RECURSION equivalents (spec's concurrency
	// note: bounded work per match attempt). Zero means use vm's defaults.
	MaxSteps     int
	MaxRecursion int

	// Callout is invoked for every (?C) callout point encountered during
	// matching; returning false fails the current match attempt at that
	// point, mirroring a pcre2_callout return of a non-zero value.
	Callout func(number int, text string, pos int) bool
}

// Compile parses and builds pattern under the given PCRE2-style option
// bits (the Caseless/Multiline/... constants in options.go, OR'd together).
func Compile(pattern string, options uint32) (*Regexp, error) {
	parser := syntax.NewParser()
	parser.Extended = options&Extended != 0
	re, err := parser.Parse(pattern)
	if err != nil {
		if pe, ok := err.(syntax.ParseError); ok {
			return nil, &CompileError{Code: ErrBadSubpattern, Offset: pe.Pos.Begin, Message: pe.Message}
		}
		return nil, &CompileError{Code: ErrInternal, Message: err.Error()}
	}

	prog, err := compiler.Build(re, optionsFromBits(options))
	if err != nil {
		return nil, &CompileError{Code: ErrInternal, Offset: 0, Message: err.Error()}
	}

	return &Regexp{source: pattern, pattern: re, prog: prog}, nil
}

// MustCompile is Compile, panicking on error, for patterns known at
// program-startup time (package-level var initializers), the same
// convention stdlib regexp.MustCompile uses.
func MustCompile(pattern string, options uint32) *Regexp {
	re, err := Compile(pattern, options)
	if err != nil {
		panic(err)
	}
	return re
}

// String returns the source pattern text the Regexp was compiled from.
func (re *Regexp) String() string { return re.source }

// NumSubexp returns the number of capturing groups, not counting group 0
// (the whole match).
func (re *Regexp) NumSubexp() int { return re.prog.NumCaptures }

// SubexpNames returns the name of each capturing group by index (index 0
// is always ""; unnamed groups also report "").
func (re *Regexp) SubexpNames() []string {
	names := make([]string, re.prog.NumCaptures+1)
	copy(names[1:], re.prog.CaptureName)
	return names
}

func (re *Regexp) vmConfig() vm.Config {
	return vm.Config{
		MaxSteps:     re.MaxSteps,
		MaxRecursion: re.MaxRecursion,
		Callout:      re.Callout,
	}
}

// Match reports whether subject contains any match of re.
func (re *Regexp) Match(subject string) bool {
	_, err := re.find([]rune(subject), 0)
	return err == nil
}

// MatchString is an alias of Match kept for stdlib regexp API familiarity.
func (re *Regexp) MatchString(subject string) bool { return re.Match(subject) }

func (re *Regexp) find(runes []rune, from int) (*vm.MatchData, error) {
	data, err := vm.Exec(re.prog, runes, from, re.vmConfig())
	if err != nil {
		if limit, ok := err.(vm.ErrLimitExceeded); ok {
			code := ErrMatchLimit
			if limit.Recursion {
				code = ErrRecursionLimit
			}
			return nil, &MatchError{Code: code, Message: limit.Error()}
		}
		return nil, &MatchError{Code: ErrInternal, Message: err.Error()}
	}
	return data, nil
}

// FindStringIndex returns the byte-offset [start, end) span of the
// leftmost match, or nil if there is none.
func (re *Regexp) FindStringIndex(subject string) []int {
	m := re.FindStringSubmatchIndex(subject)
	if m == nil {
		return nil
	}
	return m[:2]
}

// FindString returns the text of the leftmost match, or "" if there is
// none (indistinguishable from an empty-string match, matching stdlib
// regexp's own documented caveat).
func (re *Regexp) FindString(subject string) string {
	loc := re.FindStringIndex(subject)
	if loc == nil {
		return ""
	}
	return subject[loc[0]:loc[1]]
}

// FindStringSubmatchIndex returns byte-offset pairs for the whole match and
// every capturing group: result[2*i], result[2*i+1] for group i, -1 where a
// group did not participate. Returns nil if there is no match.
func (re *Regexp) FindStringSubmatchIndex(subject string) []int {
	runes := []rune(subject)
	data, err := re.find(runes, 0)
	if err != nil || data == nil {
		return nil
	}
	return runeOffsetsToByte(subject, runes, data.Caps)
}

// FindStringSubmatch returns the text of the whole match and every
// capturing group ("" where a group did not participate, indistinguishable
// from an empty-string participation — use FindStringSubmatchIndex when the
// distinction matters). Returns nil if there is no match.
func (re *Regexp) FindStringSubmatch(subject string) []string {
	idx := re.FindStringSubmatchIndex(subject)
	if idx == nil {
		return nil
	}
	out := make([]string, len(idx)/2)
	for i := range out {
		a, b := idx[2*i], idx[2*i+1]
		if a < 0 || b < 0 {
			continue
		}
		out[i] = subject[a:b]
	}
	return out
}

// FindAllStringSubmatchIndex is the non-overlapping, leftmost-first
// repetition of FindStringSubmatchIndex, per PCRE2_NOTEMPTY_ATSTART-style
// zero-width-match advancement (an empty match advances one rune so the
// search always terminates). n < 0 means unlimited.
func (re *Regexp) FindAllStringSubmatchIndex(subject string, n int) [][]int {
	runes := []rune(subject)
	var out [][]int
	pos := 0
	for n < 0 || len(out) < n {
		data, err := re.find(runes, pos)
		if err != nil || data == nil {
			break
		}
		byteIdx := runeOffsetsToByte(subject, runes, data.Caps)
		out = append(out, byteIdx)
		end := data.Caps[1]
		if end == data.Caps[0] {
			end++
		}
		if end > len(runes) {
			break
		}
		pos = end
	}
	return out
}

// FindAllString is the string-slice counterpart of
// FindAllStringSubmatchIndex, returning only each whole match's text.
func (re *Regexp) FindAllString(subject string, n int) []string {
	all := re.FindAllStringSubmatchIndex(subject, n)
	if all == nil {
		return nil
	}
	out := make([]string, len(all))
	for i, m := range all {
		out[i] = subject[m[0]:m[1]]
	}
	return out
}

// runeOffsetsToByte converts a slice of rune-index pairs (as produced by
// vm.MatchData.Caps, -1 meaning unset) into byte offsets into the original
// subject string, since Go's public string-matching API is expected to
// report byte offsets the way stdlib regexp does.
func runeOffsetsToByte(subject string, runes []rune, caps []int) []int {
	byteAt := make([]int, len(runes)+1)
	b := 0
	for i, r := range runes {
		byteAt[i] = b
		b += runeLen(r)
	}
	byteAt[len(runes)] = b

	out := make([]int, len(caps))
	for i, c := range caps {
		if c < 0 {
			out[i] = -1
			continue
		}
		out[i] = byteAt[c]
	}
	return out
}

func runeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}
