package numerology_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"numerology/internal/numerology"
)

var johnSmith = numerology.Person{FirstName: "John", LastName: "Smith", Birthdate: "1990-01-15"}

type PythagoreanSuite struct {
	suite.Suite
	fs *numerology.FigureSet
}

func (s *PythagoreanSuite) SetupTest() {
	fs, err := numerology.Compute(johnSmith, numerology.Pythagorean, nil)
	require.NoError(s.T(), err)
	s.fs = fs
}

func (s *PythagoreanSuite) value(name numerology.Name) []int {
	return s.fs.Get(name).Values()
}

// TestNames: J1 O6 H8 N5 = 20 -> 2, S1 M4 I9 T2 H8 = 24 -> 6.
func (s *PythagoreanSuite) TestNames() {
	s.Equal([]int{20, 2}, s.value(numerology.ActiveNumber))
	s.Equal([]int{24, 6}, s.value(numerology.LegacyNumber))
	s.Equal([]int{8}, s.value(numerology.DestinyNumber), "2+6 is single valued")
	s.Equal([]int{8}, s.value(numerology.ExpressionNumber))
	s.Equal([]int{6}, s.value(numerology.HeartsDesireNumber), "o+i = 15 -> 6")
	s.Equal([]int{2}, s.value(numerology.PersonalityNumber), "29 -> 11 -> 2")
	s.Equal("John", s.fs.Get(numerology.FirstName).Text())
	s.Equal("Smith", s.fs.Get(numerology.LastName).Text())
}

func (s *PythagoreanSuite) TestBirthdate() {
	s.True(s.fs.BirthdateValid)
	lifePath := s.fs.Get(numerology.LifePathNumber)
	s.Equal(numerology.KindSingle, lifePath.Kind(), "pre-sum equals final")
	s.Equal([]int{8}, lifePath.Values())
	s.Equal([]int{8}, s.value(numerology.LifePathNumberAlternative), "2006 -> 8")
	s.Equal([]int{6}, s.value(numerology.BirthdateDayNum))
	s.Equal([]int{1}, s.value(numerology.BirthdateMonthNum))
	s.Equal([]int{1}, s.value(numerology.BirthdateYearNum), "1990 -> 19 -> 10 -> 1")
	s.Equal([]int{9}, s.value(numerology.BirthdateYearNumAlternative), "90 -> 9")
	s.Equal([]int{7}, s.value(numerology.AttitudeNumber))
	s.Equal([]int{5}, s.value(numerology.KarmaNumber), "14 -> 5")
	s.Equal([]int{7}, s.value(numerology.PowerNumber), "8+8 = 16 -> 7")
	s.Equal([]int{7}, s.value(numerology.PowerNumberAlternative))
	s.Equal("1990-01-15", s.fs.Get(numerology.Birthdate).Text())
}

func (s *PythagoreanSuite) TestFullName() {
	counts := s.fs.Get(numerology.FullNameNumbers).Counts()
	s.Equal([]numerology.Count{
		{Number: 1, Count: 2},
		{Number: 8, Count: 2},
		{Number: 6, Count: 1},
		{Number: 5, Count: 1},
		{Number: 4, Count: 1},
		{Number: 9, Count: 1},
		{Number: 2, Count: 1},
	}, counts)
	s.Equal([]int{3, 7}, s.value(numerology.FullNameMissingNumbers))
}

func (s *PythagoreanSuite) TestUndefinedFiguresAreAbsent() {
	for _, name := range []numerology.Name{numerology.NameNumber, numerology.PsychicNumber, numerology.CompoundNumber} {
		s.True(s.fs.Get(name).IsAbsent(), name)
		s.False(numerology.Pythagorean.Defines(name), name)
	}
	debts := s.fs.Get(numerology.KarmicDebtNumbers)
	s.Equal(numerology.KindDebts, debts.Kind())
	s.Empty(debts.Debts())
}

func (s *PythagoreanSuite) TestEntryOrder() {
	entries := s.fs.Entries()
	s.Require().Len(entries, len(numerology.Order))
	for i, e := range entries {
		s.Equal(numerology.Order[i], e.Name)
	}
}

func TestPythagoreanSuite(t *testing.T) {
	suite.Run(t, new(PythagoreanSuite))
}

func TestChaldeanOverrides(t *testing.T) {
	fs, err := numerology.Compute(johnSmith, numerology.Chaldean, nil)
	require.NoError(t, err)

	// J1 O7 H5 N5 = 18; S3 M4 I1 T4 H5 = 17.
	assert.Equal(t, []int{18, 9}, fs.Get(numerology.ActiveNumber).Values())
	assert.Equal(t, []int{17, 8}, fs.Get(numerology.LegacyNumber).Values())
	assert.Equal(t, []int{17, 8}, fs.Get(numerology.NameNumber).Values(), "9+8 kept next to base destiny 8")
	assert.Equal(t, []int{17}, fs.Get(numerology.CompoundNumber).Values())
	assert.Equal(t, []int{19}, fs.Get(numerology.BirthdateYearNumAlternative).Values(), "1990 -> 19 under the 52 bound")
	assert.Equal(t, []int{8}, fs.Get(numerology.HeartsDesireNumber).Values())
	assert.Equal(t, []int{9}, fs.Get(numerology.PersonalityNumber).Values())
	assert.Equal(t, []int{8}, fs.Get(numerology.LifePathNumber).Values())

	for _, name := range []numerology.Name{
		numerology.DestinyNumber,
		numerology.ExpressionNumber,
		numerology.PsychicNumber,
		numerology.AttitudeNumber,
		numerology.KarmaNumber,
		numerology.KarmicDebtNumbers,
		numerology.PowerNumber,
		numerology.PowerNumberAlternative,
		numerology.FullNameNumbers,
		numerology.FullNameMissingNumbers,
	} {
		assert.True(t, fs.Get(name).IsAbsent(), name)
	}
}

func TestChaldeanNameNumberCollapsesWhenEqual(t *testing.T) {
	// A1 B2 = 3 and C3 = 3: 3+3 = 6 both ways.
	fs, err := numerology.Compute(numerology.Person{FirstName: "Ab", LastName: "C"}, numerology.Chaldean, nil)
	require.NoError(t, err)
	name := fs.Get(numerology.NameNumber)
	assert.Equal(t, numerology.KindSingle, name.Kind())
	assert.Equal(t, []int{6}, name.Values())
}

func TestChaldeanNeverAssignsNine(t *testing.T) {
	for r, d := range numerology.Chaldean.Alphabet {
		assert.NotEqualf(t, 9, d, "letter %q", r)
	}
}

func TestVedicDelegates(t *testing.T) {
	fs, err := numerology.Compute(johnSmith, numerology.Vedic, nil)
	require.NoError(t, err)

	// J1 O7 H8 N5 = 21 -> 3; S3 M4 I1 T4 H8 = 20 -> 2.
	assert.Equal(t, []int{21, 3}, fs.Get(numerology.ActiveNumber).Values())
	assert.Equal(t, []int{20, 2}, fs.Get(numerology.LegacyNumber).Values())
	assert.Equal(t, []int{5}, fs.Get(numerology.NameNumber).Values())
	assert.Equal(t, []int{8}, fs.Get(numerology.DestinyNumber).Values(), "base life path")
	assert.Equal(t, []int{6}, fs.Get(numerology.PsychicNumber).Values(), "base birth day")
	assert.Equal(t, []int{1}, fs.Get(numerology.BirthdateYearNum).Values())

	for _, name := range []numerology.Name{
		numerology.LifePathNumber,
		numerology.LifePathNumberAlternative,
		numerology.AttitudeNumber,
		numerology.KarmaNumber,
		numerology.KarmicDebtNumbers,
		numerology.PowerNumber,
		numerology.PowerNumberAlternative,
		numerology.ExpressionNumber,
		numerology.BirthdateYearNumAlternative,
	} {
		assert.True(t, fs.Get(name).IsAbsent(), name)
	}
}

func TestVedicDestinyAbsentWithoutBirthdate(t *testing.T) {
	fs, err := numerology.Compute(numerology.Person{FirstName: "John", LastName: "Smith"}, numerology.Vedic, nil)
	require.NoError(t, err)
	assert.True(t, fs.Get(numerology.DestinyNumber).IsAbsent())
	assert.True(t, fs.Get(numerology.PsychicNumber).IsAbsent())
	assert.Equal(t, []int{5}, fs.Get(numerology.NameNumber).Values())
}

func TestInvalidNamesAbortWithWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)

	for _, p := range []numerology.Person{
		{FirstName: "123", LastName: "Smith"},
		{FirstName: "John", LastName: "  "},
		{FirstName: "", LastName: ""},
	} {
		fs, err := numerology.Compute(p, numerology.Pythagorean, logger)
		require.Error(t, err)
		assert.ErrorIs(t, err, numerology.ErrInvalidInput)
		assert.True(t, numerology.IsInvalidInput(err))
		assert.Nil(t, fs)
	}
	assert.Equal(t, 3, logs.FilterMessage("invalid names supplied").Len())
}

func TestInvalidBirthdateDegrades(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	p := numerology.Person{FirstName: "John", LastName: "Smith", Birthdate: "1990-02-30"}

	fs, err := numerology.Compute(p, numerology.Pythagorean, zap.New(core))
	require.NoError(t, err)
	assert.False(t, fs.BirthdateValid)
	assert.Equal(t, 1, logs.FilterMessage("birthdate ignored").Len())

	for _, name := range numerology.Order {
		switch name {
		case numerology.Birthdate, numerology.LifePathNumber, numerology.LifePathNumberAlternative,
			numerology.BirthdateDayNum, numerology.BirthdateMonthNum, numerology.BirthdateYearNum,
			numerology.BirthdateYearNumAlternative, numerology.AttitudeNumber, numerology.KarmaNumber,
			numerology.KarmicDebtNumbers, numerology.PowerNumber, numerology.PowerNumberAlternative:
			assert.True(t, fs.Get(name).IsAbsent(), name)
		}
	}
	assert.Equal(t, []int{8}, fs.Get(numerology.DestinyNumber).Values())
}

func TestMissingBirthdateIsSilent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	fs, err := numerology.Compute(numerology.Person{FirstName: "John", LastName: "Smith"}, numerology.Pythagorean, zap.New(core))
	require.NoError(t, err)
	assert.False(t, fs.BirthdateValid)
	assert.Zero(t, logs.Len())
}

func TestKarmicDebtFromBirthDay(t *testing.T) {
	p := numerology.Person{FirstName: "John", LastName: "Smith", Birthdate: "1990-01-13"}
	fs, err := numerology.Compute(p, numerology.Pythagorean, nil)
	require.NoError(t, err)

	debts := fs.Get(numerology.KarmicDebtNumbers)
	n, ok := debts.Debt(numerology.BirthdateDayNum)
	require.True(t, ok)
	assert.Equal(t, 13, n)
	_, ok = debts.Debt(numerology.LifePathNumber)
	assert.False(t, ok, "1+3 + 1 + 1+9+9+0 = 24 -> 6")
}

func TestKarmicDebtFromLifePath(t *testing.T) {
	// 1 + 1 + 2+0+0+9 = 13
	p := numerology.Person{FirstName: "John", LastName: "Smith", Birthdate: "2009-01-01"}
	fs, err := numerology.Compute(p, numerology.Pythagorean, nil)
	require.NoError(t, err)

	n, ok := fs.Get(numerology.KarmicDebtNumbers).Debt(numerology.LifePathNumber)
	require.True(t, ok)
	assert.Equal(t, 13, n)
}

func TestKarmicDebtsStayInDebtSet(t *testing.T) {
	names := [][2]string{{"John", "Smith"}, {"Alice", "Johnson"}, {"Bob Kumar", "Smith"}, {"Charlie", "Mc Brown"}, {"Zoë", "Ångström"}}
	for _, n := range names {
		for day := 1; day <= 28; day += 3 {
			for _, year := range []string{"1958", "1978", "1985", "1990", "2004"} {
				p := numerology.Person{FirstName: n[0], LastName: n[1], Birthdate: fmt.Sprintf("%s-07-%02d", year, day)}
				fs, err := numerology.Compute(p, numerology.Pythagorean, nil)
				require.NoError(t, err)
				for _, d := range fs.Get(numerology.KarmicDebtNumbers).Debts() {
					require.Truef(t, numerology.IsKarmicDebt(d.Number), "%v: %v", p, d)
				}
			}
		}
	}
}

func TestMissingNumbersComplementHistogram(t *testing.T) {
	for _, n := range [][2]string{{"John", "Smith"}, {"Alice", "Johnson"}, {"Charlie", "Mc Brown"}, {"Qzx", "Yw"}} {
		fs, err := numerology.Compute(numerology.Person{FirstName: n[0], LastName: n[1]}, numerology.Pythagorean, nil)
		require.NoError(t, err)

		present := map[int]bool{}
		for _, c := range fs.Get(numerology.FullNameNumbers).Counts() {
			present[c.Number] = true
		}
		for _, m := range fs.Get(numerology.FullNameMissingNumbers).Values() {
			assert.False(t, present[m], "disjoint: %d", m)
			present[m] = true
		}
		for d := 1; d <= 9; d++ {
			assert.True(t, present[d], "covered: %d", d)
		}
	}
}

func TestAccentsAndCase(t *testing.T) {
	plain, err := numerology.Compute(numerology.Person{FirstName: "Elodie", LastName: "Lefevre"}, numerology.Pythagorean, nil)
	require.NoError(t, err)
	accented, err := numerology.Compute(numerology.Person{FirstName: "ÉLODIE", LastName: "Lefèvre"}, numerology.Pythagorean, nil)
	require.NoError(t, err)

	for _, name := range []numerology.Name{numerology.ActiveNumber, numerology.LegacyNumber, numerology.DestinyNumber} {
		assert.True(t, plain.Get(name).Equal(accented.Get(name)), name)
	}
}

func TestFigureSetJSON(t *testing.T) {
	fs, err := numerology.Compute(johnSmith, numerology.Pythagorean, nil)
	require.NoError(t, err)

	b, err := json.Marshal(fs)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "John", decoded["first_name"])
	assert.Equal(t, []any{20.0, 2.0}, decoded["active_number"])
	assert.Equal(t, 8.0, decoded["destiny_number"])
	assert.Nil(t, decoded["name_number"])
	assert.Equal(t, []any{3.0, 7.0}, decoded["full_name_missing_numbers"])
	assert.Equal(t, map[string]any{}, decoded["karmic_debt_numbers"])
}

func TestLifePathKeepsMasterNumbers(t *testing.T) {
	cases := []struct {
		birthdate string
		want      int
	}{
		{"1990-01-09", 11}, // 9+1+1
		{"2020-09-09", 22}, // 9+9+4
	}
	for _, tc := range cases {
		t.Run(tc.birthdate, func(t *testing.T) {
			p := numerology.Person{FirstName: "John", LastName: "Smith", Birthdate: tc.birthdate}
			fs, err := numerology.Compute(p, numerology.Pythagorean, nil)
			require.NoError(t, err)

			lp := fs.Get(numerology.LifePathNumber)
			assert.Equal(t, numerology.KindSingle, lp.Kind())
			assert.Equal(t, []int{tc.want}, lp.Values())

			vedic, err := numerology.Compute(p, numerology.Vedic, nil)
			require.NoError(t, err)
			assert.Equal(t, []int{tc.want}, vedic.Get(numerology.DestinyNumber).Values(), "vedic destiny is the base life path")
		})
	}
}

func TestLifePathCompoundAboveNine(t *testing.T) {
	// 1+3+6 = 10
	fs, err := numerology.Compute(numerology.Person{FirstName: "Ada", LastName: "Lovelace", Birthdate: "1815-12-10"}, numerology.Pythagorean, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 1}, fs.Get(numerology.LifePathNumber).Values())
}

// John 2, Jones J1 O6 N5 E5 S1 = 18 -> 9.
func TestDestinyKeepsMasterNumber(t *testing.T) {
	fs, err := numerology.Compute(numerology.Person{FirstName: "John", LastName: "Jones"}, numerology.Pythagorean, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{11}, fs.Get(numerology.DestinyNumber).Values())
	assert.Equal(t, []int{11}, fs.Get(numerology.ExpressionNumber).Values())
	assert.Equal(t, []int{18, 9}, fs.Get(numerology.LegacyNumber).Values())
}
