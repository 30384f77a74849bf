package pcre2

import "testing"

func TestSubstituteNumberedGroup(t *testing.T) {
	re := mustCompile(t, `(\w+)@(\w+)`, 0)
	got, err := re.Substitute("user@host", "$2:$1", 0)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if got != "host:user" {
		t.Errorf("got %q, want %q", got, "host:user")
	}
}

func TestSubstituteNamedGroup(t *testing.T) {
	re := mustCompile(t, `(?<year>\d+)-(?<month>\d+)`, 0)
	got, err := re.Substitute("2026-07", "${month}/${year}", 0)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if got != "07/2026" {
		t.Errorf("got %q, want %q", got, "07/2026")
	}
}

func TestSubstituteGlobal(t *testing.T) {
	re := mustCompile(t, `\d+`, 0)
	got, err := re.Substitute("a1 b22 c333", "#", SubstituteGlobal)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if got != "a# b# c#" {
		t.Errorf("got %q, want %q", got, "a# b# c#")
	}
}

func TestSubstituteLiteralGlobal(t *testing.T) {
	re := mustCompile(t, `\d+`, 0)
	subject := "a1 b22 c333"
	got, err := re.Substitute(subject, "1", SubstituteGlobal|SubstituteLiteral)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if got != "a1 b1 c1" {
		t.Errorf("got %q, want %q", got, "a1 b1 c1")
	}
}

func TestSubstituteExtendedCaseForcing(t *testing.T) {
	re := mustCompile(t, `(\w+)`, 0)
	got, err := re.Substitute("hello", `\U$1\E!`, SubstituteExtended)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if got != "HELLO!" {
		t.Errorf("got %q, want %q", got, "HELLO!")
	}
}

func TestSubstituteConditionalSetUnset(t *testing.T) {
	re := mustCompile(t, `(a)?(b)`, 0)
	got, err := re.Substitute("b", "${1:-none}-${2:-none}", SubstituteExtended)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if got != "none-b" {
		t.Errorf("got %q, want %q", got, "none-b")
	}
}

func TestSubstituteSetUnsetAlternateText(t *testing.T) {
	re := mustCompile(t, `(a)?(b)`, 0)
	got, err := re.Substitute("b", "${1:+yes:no}-${2:+yes:no}", SubstituteExtended)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if got != "no-yes" {
		t.Errorf("got %q, want %q", got, "no-yes")
	}
}

func TestSubstituteNoMatchReturnsError(t *testing.T) {
	re := mustCompile(t, `xyz`, 0)
	_, err := re.Substitute("abc", "Q", 0)
	if err != ErrNoMatchErr {
		t.Errorf("err = %v, want ErrNoMatchErr", err)
	}
}
