package uml

import (
	"strconv"
	"strings"

	errs "github.com/matzehuels/umlstack/pkg/errors"
)

// Unbounded is the upper bound written as "*".
const Unbounded = -1

// Multiplicity is the [Lower..Upper] cardinality of a typed element.
type Multiplicity struct {
	Lower int
	Upper int
}

var (
	One        = Multiplicity{1, 1}
	Optional   = Multiplicity{0, 1}
	Many       = Multiplicity{0, Unbounded}
	AtLeastOne = Multiplicity{1, Unbounded}
)

// Valid reports whether the bounds describe a non-empty range.
func (m Multiplicity) Valid() bool {
	if m.Lower < 0 {
		return false
	}
	return m.Upper == Unbounded || (m.Upper >= m.Lower && m.Upper > 0)
}

// orOne replaces an invalid multiplicity, including the zero value, by
// exactly one.
func orOne(m Multiplicity) Multiplicity {
	if !m.Valid() {
		return One
	}
	return m
}

// Label returns the range without brackets, or "" for exactly one.
func (m Multiplicity) Label() string {
	if m == One {
		return ""
	}
	return m.text()
}

// String renders the multiplicity as a signature suffix: "" for exactly
// one, "[*]", "[2]" or "[0..1]" otherwise.
func (m Multiplicity) String() string {
	if l := m.Label(); l != "" {
		return "[" + l + "]"
	}
	return ""
}

func (m Multiplicity) text() string {
	upper := "*"
	if m.Upper != Unbounded {
		upper = strconv.Itoa(m.Upper)
	}
	switch {
	case m.Lower == 0 && m.Upper == Unbounded:
		return "*"
	case m.Lower == m.Upper:
		return upper
	default:
		return strconv.Itoa(m.Lower) + ".." + upper
	}
}

func (m Multiplicity) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errs.New(errs.ErrCodeContract, "invalid multiplicity %d..%d", m.Lower, m.Upper)
	}
	return []byte(m.text()), nil
}

func (m *Multiplicity) UnmarshalText(text []byte) error {
	parsed, err := ParseMultiplicity(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMultiplicity parses "", "*", "2", "0..1" or "1..*", with or without
// surrounding brackets. The empty string means exactly one.
func ParseMultiplicity(s string) (Multiplicity, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if s == "" {
		return One, nil
	}

	lo, hi, isRange := strings.Cut(s, "..")
	if !isRange {
		lo, hi = s, s
		if s == "*" {
			lo = "0"
		}
	}

	m := Multiplicity{}
	var err error
	if m.Lower, err = strconv.Atoi(strings.TrimSpace(lo)); err != nil {
		return One, errs.Wrap(errs.ErrCodeParse, err, "multiplicity %q: lower bound", s)
	}
	if hi = strings.TrimSpace(hi); hi == "*" {
		m.Upper = Unbounded
	} else if m.Upper, err = strconv.Atoi(hi); err != nil {
		return One, errs.Wrap(errs.ErrCodeParse, err, "multiplicity %q: upper bound", s)
	}
	if !m.Valid() {
		return One, errs.New(errs.ErrCodeParse, "multiplicity %q: empty range", s)
	}
	return m, nil
}
