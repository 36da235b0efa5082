package numerology

import (
	"fmt"
	"strings"
)

const (
	SystemPythagorean = "pythagorean"
	SystemChaldean    = "chaldean"
	SystemVedic       = "vedic"
)

// Pythagorean is the base system: A=1..I=9, J=1..R=9, S=1..Z=8, with y
// counted as a vowel.
var Pythagorean = &Variant{
	Name:        SystemPythagorean,
	Title:       "Pythagorean",
	Description: "Western numerology; every figure uses the base formulas.",
	Alphabet: Alphabet{
		'a': 1, 'b': 2, 'c': 3, 'd': 4, 'e': 5, 'f': 6, 'g': 7, 'h': 8, 'i': 9,
		'j': 1, 'k': 2, 'l': 3, 'm': 4, 'n': 5, 'o': 6, 'p': 7, 'q': 8, 'r': 9,
		's': 1, 't': 2, 'u': 3, 'v': 4, 'w': 5, 'x': 6, 'y': 7, 'z': 8,
	},
	Vowels:     NewLetterSet("aeiouy"),
	Consonants: NewLetterSet("bcdfghjklmnpqrstvwxz"),
}

// Chaldean assigns sound values 1..8; 9 is never given to a letter.
var Chaldean = &Variant{
	Name:        SystemChaldean,
	Title:       "Chaldean",
	Description: "Babylonian numerology; keeps compound (spiritual) numbers next to their reductions.",
	Alphabet: Alphabet{
		'a': 1, 'b': 2, 'c': 3, 'd': 4, 'e': 5, 'f': 8, 'g': 3, 'h': 5, 'i': 1,
		'j': 1, 'k': 2, 'l': 3, 'm': 4, 'n': 5, 'o': 7, 'p': 8, 'q': 1, 'r': 2,
		's': 3, 't': 4, 'u': 6, 'v': 6, 'w': 6, 'x': 5, 'y': 1, 'z': 7,
	},
	Vowels:     NewLetterSet("aeiou"),
	Consonants: NewLetterSet("bcdfghjklmnpqrstvwxyz"),
	Rules: map[Name]Rule{
		ActiveNumber: Replace(func(c *Calc) Figure {
			return NewCompound(Wide(c.FirstDigits(), false), Strict(c.FirstDigits()))
		}),
		NameNumber: Replace(chaldeanNameNumber),
		CompoundNumber: Replace(func(c *Calc) Figure {
			return Single(Strict(c.FirstDigits()) + Strict(c.LastDigits()))
		}),
		BirthdateYearNumAlternative: Replace(func(c *Calc) Figure {
			d, _ := c.Date()
			return Single(Reduce(DigitsOf(d.Year), 52, true))
		}),

		DestinyNumber:          Disabled,
		ExpressionNumber:       Disabled,
		PsychicNumber:          Disabled,
		AttitudeNumber:         Disabled,
		KarmaNumber:            Disabled,
		KarmicDebtNumbers:      Disabled,
		PowerNumber:            Disabled,
		PowerNumberAlternative: Disabled,
		FullNameNumbers:        Disabled,
		FullNameMissingNumbers: Disabled,
	},
}

// chaldeanNameNumber keeps the wide-bound sum of the two names when it
// differs from the base destiny number.
func chaldeanNameNumber(c *Calc) Figure {
	wide := Wide([]int{Strict(c.FirstDigits()), Strict(c.LastDigits())}, false)
	base, ok := c.Base(DestinyNumber).Reduced()
	if !ok {
		return Absent
	}
	if wide == base {
		return Single(base)
	}
	return NewCompound(wide, base)
}

// Vedic renames base figures: the name number is the base destiny number,
// the destiny number is the base life path and the psychic number is the
// birth day.
var Vedic = &Variant{
	Name:        SystemVedic,
	Title:       "Vedic",
	Description: "Indian numerology on the Vedic square; digits 1..8 and planetary numbers.",
	Alphabet: Alphabet{
		'a': 1, 'i': 1, 'j': 1, 'q': 1, 'y': 1,
		'b': 2, 'c': 2, 'k': 2, 'r': 2,
		'g': 3, 'l': 3, 's': 3,
		'd': 4, 'm': 4, 't': 4,
		'n': 5, 'e': 5,
		'u': 6, 'v': 6, 'w': 6, 'x': 6,
		'o': 7, 'z': 7,
		'f': 8, 'h': 8, 'p': 8,
	},
	Vowels:     NewLetterSet("aeiou"),
	Consonants: NewLetterSet("bcdfghjklmnpqrstvwxyz"),
	Rules: map[Name]Rule{
		NameNumber:    Replace(func(c *Calc) Figure { return c.Base(DestinyNumber) }),
		DestinyNumber: Replace(func(c *Calc) Figure { return c.Base(LifePathNumber) }),
		PsychicNumber: Replace(func(c *Calc) Figure { return c.Base(BirthdateDayNum) }),

		LifePathNumber:              Disabled,
		LifePathNumberAlternative:   Disabled,
		AttitudeNumber:              Disabled,
		KarmaNumber:                 Disabled,
		KarmicDebtNumbers:           Disabled,
		PowerNumber:                 Disabled,
		PowerNumberAlternative:      Disabled,
		ExpressionNumber:            Disabled,
		BirthdateYearNumAlternative: Disabled,
	},
}

// Systems lists the variants in their canonical order.
func Systems() []*Variant {
	return []*Variant{Pythagorean, Chaldean, Vedic}
}

// SystemByName finds a variant, case-insensitively.
func SystemByName(name string) (*Variant, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, v := range Systems() {
		if v.Name == key {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownSystem)
}

// ParseSystems resolves a comma separated list; "all" or an empty string
// selects every system.
func ParseSystems(list string) ([]*Variant, error) {
	list = strings.TrimSpace(list)
	if list == "" || strings.EqualFold(list, "all") {
		return Systems(), nil
	}
	var out []*Variant
	seen := map[string]bool{}
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		v, err := SystemByName(part)
		if err != nil {
			return nil, err
		}
		if seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return Systems(), nil
	}
	return out, nil
}
