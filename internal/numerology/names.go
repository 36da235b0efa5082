package numerology

// Name is the stable identifier of a figure. The same identifiers key the
// interpretation tables.
type Name string

const (
	FirstName                   Name = "first_name"
	LastName                    Name = "last_name"
	HeartsDesireNumber          Name = "hearts_desire_number"
	PersonalityNumber           Name = "personality_number"
	DestinyNumber               Name = "destiny_number"
	ExpressionNumber            Name = "expression_number"
	ActiveNumber                Name = "active_number"
	LegacyNumber                Name = "legacy_number"
	FullNameNumbers             Name = "full_name_numbers"
	FullNameMissingNumbers      Name = "full_name_missing_numbers"
	NameNumber                  Name = "name_number"
	PsychicNumber               Name = "psychic_number"
	CompoundNumber              Name = "compound_number"
	Birthdate                   Name = "birthdate"
	LifePathNumber              Name = "life_path_number"
	LifePathNumberAlternative   Name = "life_path_number_alternative"
	BirthdateDayNum             Name = "birthdate_day_num"
	BirthdateMonthNum           Name = "birthdate_month_num"
	BirthdateYearNum            Name = "birthdate_year_num"
	BirthdateYearNumAlternative Name = "birthdate_year_num_alternative"
	AttitudeNumber              Name = "attitude_number"
	KarmaNumber                 Name = "karma_number"
	KarmicDebtNumbers           Name = "karmic_debt_numbers"
	PowerNumber                 Name = "power_number"
	PowerNumberAlternative      Name = "power_number_alternative"
)

// Order is the entry order of every FigureSet.
var Order = []Name{
	FirstName,
	LastName,
	HeartsDesireNumber,
	PersonalityNumber,
	DestinyNumber,
	ExpressionNumber,
	ActiveNumber,
	LegacyNumber,
	FullNameNumbers,
	FullNameMissingNumbers,
	NameNumber,
	PsychicNumber,
	CompoundNumber,
	Birthdate,
	LifePathNumber,
	LifePathNumberAlternative,
	BirthdateDayNum,
	BirthdateMonthNum,
	BirthdateYearNum,
	BirthdateYearNumAlternative,
	AttitudeNumber,
	KarmaNumber,
	KarmicDebtNumbers,
	PowerNumber,
	PowerNumberAlternative,
}

// KarmicDebtSet holds the intermediate values flagged as karmic debts.
var KarmicDebtSet = map[int]bool{13: true, 14: true, 16: true, 19: true}

// IsKarmicDebt reports whether n is one of 13, 14, 16 or 19.
func IsKarmicDebt(n int) bool {
	return KarmicDebtSet[n]
}
