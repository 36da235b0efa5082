package numerology

import "sort"

// baseFormulas is filled in init: PowerNumber reads other base figures
// through Calc.Base, which would otherwise be an initialization cycle.
var baseFormulas map[Name]Formula

func init() {
	baseFormulas = map[Name]Formula{
		FirstName: func(c *Calc) Figure { return Text(c.person.FirstName) },
		LastName:  func(c *Calc) Figure { return Text(c.person.LastName) },

		HeartsDesireNumber: func(c *Calc) Figure { return Single(Strict(c.VowelDigits())) },
		PersonalityNumber:  func(c *Calc) Figure { return Single(Strict(c.ConsonantDigits())) },
		DestinyNumber:      destinyNumber,
		ExpressionNumber:   destinyNumber,
		ActiveNumber:       func(c *Calc) Figure { return nameNumber(c.firstDigits) },
		LegacyNumber:       func(c *Calc) Figure { return nameNumber(c.lastDigits) },

		FullNameNumbers:        fullNameNumbers,
		FullNameMissingNumbers: fullNameMissingNumbers,

		Birthdate:                   func(c *Calc) Figure { return Text(c.date.String()) },
		LifePathNumber:              lifePathNumber,
		LifePathNumberAlternative:   lifePathNumberAlternative,
		BirthdateDayNum:             func(c *Calc) Figure { return Single(Strict(DigitsOf(c.date.Day))) },
		BirthdateMonthNum:           func(c *Calc) Figure { return Single(Strict(DigitsOf(c.date.Month))) },
		BirthdateYearNum:            func(c *Calc) Figure { return Single(Strict(DigitsOf(c.date.Year))) },
		BirthdateYearNumAlternative: func(c *Calc) Figure { return Single(Strict(DigitsOf(c.date.Year % 100))) },
		AttitudeNumber:              attitudeNumber,
		KarmaNumber:                 func(c *Calc) Figure { return Single(Strict(DigitsOf(c.date.Day - 1))) },
		KarmicDebtNumbers:           karmicDebtNumbers,
		PowerNumber: func(c *Calc) Figure {
			return powerNumber(c.reduced(LifePathNumber), c.reduced(DestinyNumber))
		},
		PowerNumberAlternative: func(c *Calc) Figure {
			return powerNumber(c.reduced(LifePathNumberAlternative), c.reduced(DestinyNumber))
		},
	}
}

var dateDependent = map[Name]bool{
	Birthdate:                   true,
	LifePathNumber:              true,
	LifePathNumberAlternative:   true,
	BirthdateDayNum:             true,
	BirthdateMonthNum:           true,
	BirthdateYearNum:            true,
	BirthdateYearNumAlternative: true,
	AttitudeNumber:              true,
	KarmaNumber:                 true,
	KarmicDebtNumbers:           true,
	PowerNumber:                 true,
	PowerNumberAlternative:      true,
}

// nameNumber reports the raw letter sum next to its single digit.
func nameNumber(digits []int) Figure {
	return NewCompound(sum(digits), Strict(digits))
}

func sum(digits []int) int {
	total := 0
	for _, d := range digits {
		total += d
	}
	return total
}

// destinyNumber reduces each name on its own first; master numbers can
// only surface when the two are combined.
func destinyNumber(c *Calc) Figure {
	return Single(Master([]int{Strict(c.firstDigits), Strict(c.lastDigits)}))
}

func lifePathNumber(c *Calc) Figure {
	pre := Strict(DigitsOf(c.date.Day)) + Strict(DigitsOf(c.date.Month)) + Strict(DigitsOf(c.date.Year))
	return NewCompound(pre, Master([]int{pre}))
}

// lifePathNumberAlternative reduces the raw day+month+year total.
func lifePathNumberAlternative(c *Calc) Figure {
	return Single(Master(DigitsOf(c.date.Day + c.date.Month + c.date.Year)))
}

func attitudeNumber(c *Calc) Figure {
	total := Strict(DigitsOf(c.date.Day)) + Strict(DigitsOf(c.date.Month))
	return Single(Strict(DigitsOf(total)))
}

func powerNumber(lifePath, destiny int) Figure {
	return Single(Strict(DigitsOf(lifePath + destiny)))
}

// fullNameNumbers counts each digit of the full name, most frequent first;
// ties keep the order of first appearance.
func fullNameNumbers(c *Calc) Figure {
	var counts []Count
	index := map[int]int{}
	for _, d := range c.FullDigits() {
		i, ok := index[d]
		if !ok {
			index[d] = len(counts)
			counts = append(counts, Count{Number: d})
			i = len(counts) - 1
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return Histogram(counts)
}

func fullNameMissingNumbers(c *Calc) Figure {
	present := map[int]bool{}
	for _, d := range c.FullDigits() {
		present[d] = true
	}
	missing := []int{}
	for n := 1; n <= 9; n++ {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	return Set(missing)
}

// karmicDebtNumbers re-runs five figures with the wide (<=19) bound and
// keeps the values in the debt set.
func karmicDebtNumbers(c *Calc) Figure {
	var dateDigits []int
	dateDigits = append(dateDigits, DigitsOf(c.date.Day)...)
	dateDigits = append(dateDigits, DigitsOf(c.date.Month)...)
	dateDigits = append(dateDigits, DigitsOf(c.date.Year)...)

	candidates := []Debt{
		{Figure: LifePathNumber, Number: Wide(dateDigits, false)},
		{Figure: HeartsDesireNumber, Number: Wide(c.VowelDigits(), true)},
		{Figure: PersonalityNumber, Number: Wide(c.ConsonantDigits(), true)},
		{Figure: DestinyNumber, Number: Wide([]int{Strict(c.firstDigits), Strict(c.lastDigits)}, true)},
		{Figure: BirthdateDayNum, Number: Wide(DigitsOf(c.date.Day), false)},
	}

	var debts []Debt
	for _, d := range candidates {
		if IsKarmicDebt(d.Number) {
			debts = append(debts, d)
		}
	}
	return Debts(debts)
}
