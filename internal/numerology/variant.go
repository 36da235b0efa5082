package numerology

import (
	"fmt"
	"strings"
)

// Formula computes one figure from the prepared inputs of a Calc.
type Formula func(c *Calc) Figure

type ruleMode int

const (
	ruleBase ruleMode = iota
	ruleDisabled
	ruleReplace
)

// Rule tells a Variant how to produce one figure.
type Rule struct {
	mode    ruleMode
	formula Formula
}

var (
	// UseBase evaluates the shared base formula under the variant's alphabet.
	UseBase = Rule{mode: ruleBase}
	// Disabled reports the figure as absent.
	Disabled = Rule{mode: ruleDisabled}
)

// Replace substitutes a variant specific formula.
func Replace(f Formula) Rule {
	return Rule{mode: ruleReplace, formula: f}
}

// Variant is one numbering system: its alphabet, its vowel/consonant
// partition and the figures it redefines or disables. Figures without a
// rule use the base formula.
type Variant struct {
	Name        string
	Title       string
	Description string
	Alphabet    Alphabet
	Vowels      LetterSet
	Consonants  LetterSet
	Rules       map[Name]Rule
}

func (v *Variant) rule(name Name) Rule {
	if r, ok := v.Rules[name]; ok {
		return r
	}
	return UseBase
}

// Defines reports whether the variant produces a value for name at all.
func (v *Variant) Defines(name Name) bool {
	r := v.rule(name)
	switch r.mode {
	case ruleDisabled:
		return false
	case ruleReplace:
		return true
	}
	_, ok := baseFormulas[name]
	return ok
}

// Calc carries the sanitized, mapped inputs of one (Person, Variant) pair.
type Calc struct {
	variant *Variant
	person  Person

	first       string
	last        string
	firstDigits []int
	lastDigits  []int

	date    Date
	hasDate bool
}

func newCalc(p Person, v *Variant) (*Calc, error) {
	c := &Calc{
		variant: v,
		person:  p,
		first:   v.Alphabet.Sanitize(p.FirstName),
		last:    v.Alphabet.Sanitize(p.LastName),
	}
	if c.first == "" || c.last == "" {
		return nil, fmt.Errorf("%s: first=%q last=%q: %w", v.Name, p.FirstName, p.LastName, ErrInvalidInput)
	}
	c.firstDigits = v.Alphabet.Digits(c.first)
	c.lastDigits = v.Alphabet.Digits(c.last)
	return c, nil
}

func (c *Calc) Person() Person         { return c.person }
func (c *Calc) FirstDigits() []int     { return c.firstDigits }
func (c *Calc) LastDigits() []int      { return c.lastDigits }
func (c *Calc) SanitizedFirst() string { return c.first }
func (c *Calc) SanitizedLast() string  { return c.last }
func (c *Calc) Date() (Date, bool)     { return c.date, c.hasDate }

// FullDigits is the first-name digits followed by the last-name digits.
func (c *Calc) FullDigits() []int {
	out := make([]int, 0, len(c.firstDigits)+len(c.lastDigits))
	out = append(out, c.firstDigits...)
	return append(out, c.lastDigits...)
}

func (c *Calc) VowelDigits() []int {
	return c.variant.Alphabet.Digits(c.variant.Vowels.Filter(c.first + c.last))
}

func (c *Calc) ConsonantDigits() []int {
	return c.variant.Alphabet.Digits(c.variant.Consonants.Filter(c.first + c.last))
}

// Base evaluates the shared formula for name, ignoring the variant's rules
// but keeping its alphabet.
func (c *Calc) Base(name Name) Figure {
	f, ok := baseFormulas[name]
	if !ok {
		return Absent
	}
	if dateDependent[name] && !c.hasDate {
		return Absent
	}
	return f(c)
}

func (c *Calc) resolve(name Name) Figure {
	r := c.variant.rule(name)
	switch r.mode {
	case ruleDisabled:
		return Absent
	case ruleReplace:
		if dateDependent[name] && !c.hasDate {
			return Absent
		}
		return r.formula(c)
	}
	return c.Base(name)
}

// reduced is Base(name)'s final value, 0 when absent.
func (c *Calc) reduced(name Name) int {
	n, _ := c.Base(name).Reduced()
	return n
}

func (v *Variant) String() string {
	return strings.ToLower(v.Name)
}
