package meanings

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"numerology/internal/numerology"
)

// Table names shared by every system.
const (
	TableLifePath     = "life_path"
	TableHeartsDesire = "hearts_desire"
	TablePersonality  = "personality"
	TableDestiny      = "destiny"
	TableActive       = "active"
	TableLegacy       = "legacy"
	TableDay          = "day"
	TableMonth        = "month"
	TableYear         = "year"
	TableAttitude     = "attitude"
	TablePower        = "power"
	TableKarma        = "karma"
	TableKarmicLesson = "karmic_lesson"
	TableKarmicDebt   = "karmic_debt"
)

const (
	msgAgeTitle       = "age_number.title"
	msgAgeDescription = "age_number.description"
)

var defaultRoutes = map[numerology.Name]string{
	numerology.HeartsDesireNumber:          TableHeartsDesire,
	numerology.PersonalityNumber:           TablePersonality,
	numerology.DestinyNumber:               TableDestiny,
	numerology.ExpressionNumber:            TableDestiny,
	numerology.ActiveNumber:                TableActive,
	numerology.LegacyNumber:                TableLegacy,
	numerology.FullNameMissingNumbers:      TableKarmicLesson,
	numerology.LifePathNumber:              TableLifePath,
	numerology.LifePathNumberAlternative:   TableLifePath,
	numerology.BirthdateDayNum:             TableDay,
	numerology.BirthdateMonthNum:           TableMonth,
	numerology.BirthdateYearNum:            TableYear,
	numerology.BirthdateYearNumAlternative: TableYear,
	numerology.AttitudeNumber:              TableAttitude,
	numerology.KarmaNumber:                 TableKarma,
	numerology.KarmicDebtNumbers:           TableKarmicDebt,
	numerology.PowerNumber:                 TablePower,
	numerology.PowerNumberAlternative:      TablePower,
}

var systemRoutes = map[string]map[numerology.Name]string{
	numerology.SystemChaldean: {
		numerology.NameNumber:     TableDestiny,
		numerology.CompoundNumber: CompoundTable,
	},
	numerology.SystemVedic: {
		numerology.NameNumber:    TableDestiny,
		numerology.PsychicNumber: TableDay,
	},
}

// TableFor returns the table that interprets figure under system.
func TableFor(system string, figure numerology.Name) (string, bool) {
	if t, ok := systemRoutes[system][figure]; ok {
		return t, true
	}
	t, ok := defaultRoutes[figure]
	return t, ok
}

// Interpreter turns figures into text for one locale.
type Interpreter struct {
	src    Source
	cat    *Catalog
	locale string
	log    *zap.Logger
}

// NewInterpreter builds an interpreter over src. cat supplies labels and
// formatted messages and picks the effective locale; it may be nil, in which
// case labels are the figure names.
func NewInterpreter(src Source, cat *Catalog, locale string, logger *zap.Logger) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cat != nil {
		locale = cat.Match(locale)
	} else if strings.TrimSpace(locale) == "" {
		locale = BaseLocale
	}
	return &Interpreter{src: src, cat: cat, locale: locale, log: logger}
}

func (in *Interpreter) Locale() string { return in.locale }

// Label returns the display name of figure in the interpreter's locale.
func (in *Interpreter) Label(figure numerology.Name) string {
	if in.cat == nil {
		return string(figure)
	}
	return in.cat.Label(in.locale, string(figure))
}

// Interpret returns the text for one figure, or nil when there is none.
// Missing table entries are not errors.
func (in *Interpreter) Interpret(ctx context.Context, system string, name numerology.Name, f numerology.Figure) (*Interpretation, error) {
	if f.IsAbsent() {
		return nil, nil
	}
	if system == numerology.SystemChaldean && name == numerology.BirthdateYearNumAlternative {
		return in.ageNote(name, f), nil
	}

	table, ok := TableFor(system, name)
	if !ok {
		return nil, nil
	}

	var (
		m   Meaning
		hit bool
		err error
	)
	switch f.Kind() {
	case numerology.KindSingle:
		n, _ := f.Reduced()
		m, hit, err = in.src.Meaning(ctx, in.locale, system, table, n)
	case numerology.KindCompound:
		m, hit, err = in.composeSplit(ctx, system, table, f.Values())
	case numerology.KindSet:
		m, hit, err = in.compose(ctx, system, table, f.Values())
	case numerology.KindDebts:
		var nums []int
		for _, d := range f.Debts() {
			nums = append(nums, d.Number)
		}
		m, hit, err = in.compose(ctx, system, table, unique(nums))
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !hit {
		in.log.Debug("no interpretation",
			zap.String("system", system),
			zap.String("figure", string(name)),
			zap.String("table", table),
			zap.String("value", f.String()),
			zap.String("locale", in.locale),
		)
		return nil, nil
	}
	return &Interpretation{
		Figure:      name,
		Label:       in.Label(name),
		Value:       f,
		Title:       m.Title,
		Description: m.Description,
	}, nil
}

// InterpretAll interprets every present figure of fs in entry order.
func (in *Interpreter) InterpretAll(ctx context.Context, fs *numerology.FigureSet) ([]Interpretation, error) {
	var out []Interpretation
	for _, e := range fs.Present() {
		it, err := in.Interpret(ctx, fs.System, e.Name, e.Figure)
		if err != nil {
			return nil, err
		}
		if it != nil {
			out = append(out, *it)
		}
	}
	return out, nil
}

// compose joins the entries of numbers taken from one table.
func (in *Interpreter) compose(ctx context.Context, system, table string, numbers []int) (Meaning, bool, error) {
	var titles, descs []string
	for _, n := range numbers {
		m, ok, err := in.src.Meaning(ctx, in.locale, system, table, n)
		if err != nil {
			return Meaning{}, false, err
		}
		if !ok {
			continue
		}
		titles = append(titles, m.Title)
		descs = append(descs, m.Description)
	}
	if len(titles) == 0 {
		return Meaning{}, false, nil
	}
	return Meaning{Title: strings.Join(titles, ", "), Description: strings.Join(descs, "\n\n")}, true, nil
}

// composeSplit reads one-digit values from table and larger values from the
// compound table, appending the compound texts after the primary block.
func (in *Interpreter) composeSplit(ctx context.Context, system, table string, values []int) (Meaning, bool, error) {
	var titles, primary, compound []string
	for _, n := range values {
		t := table
		if n >= 10 {
			t = CompoundTable
		}
		m, ok, err := in.src.Meaning(ctx, in.locale, system, t, n)
		if err != nil {
			return Meaning{}, false, err
		}
		if !ok {
			continue
		}
		titles = append(titles, m.Title)
		if n >= 10 {
			compound = append(compound, m.Title+": "+m.Description)
		} else {
			primary = append(primary, m.Description)
		}
	}
	if len(titles) == 0 {
		return Meaning{}, false, nil
	}
	desc := strings.Join(primary, "\n\n")
	if len(compound) > 0 {
		if desc != "" {
			desc += "\n\n"
		}
		desc += strings.Join(compound, "\n\n")
	}
	return Meaning{Title: strings.Join(titles, ", "), Description: desc}, true, nil
}

func (in *Interpreter) ageNote(name numerology.Name, f numerology.Figure) *Interpretation {
	n, ok := f.Reduced()
	if !ok || in.cat == nil {
		return nil
	}
	p := in.cat.Printer(in.locale)
	return &Interpretation{
		Figure:      name,
		Label:       in.Label(name),
		Value:       f,
		Title:       p.Sprintf(msgAgeTitle, n),
		Description: p.Sprintf(msgAgeDescription, n),
	}
}

func unique(nums []int) []int {
	seen := make(map[int]bool, len(nums))
	out := make([]int, 0, len(nums))
	for _, n := range nums {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
