package numerology

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind tags the shape of a Figure.
type Kind int

const (
	KindAbsent Kind = iota
	KindSingle
	KindCompound
	KindHistogram
	KindSet
	KindDebts
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindCompound:
		return "compound"
	case KindHistogram:
		return "histogram"
	case KindSet:
		return "set"
	case KindDebts:
		return "debts"
	case KindText:
		return "text"
	default:
		return "absent"
	}
}

// Count is one bucket of the full-name histogram.
type Count struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// Debt is a karmic debt number found while computing Figure.
type Debt struct {
	Figure Name
	Number int
}

// Figure is a named result. The zero value is Absent.
type Figure struct {
	kind   Kind
	ints   []int
	counts []Count
	debts  []Debt
	text   string
}

// Absent is reported for figures a variant does not define, or that need a
// birthdate that was not supplied.
var Absent = Figure{}

func Single(n int) Figure {
	return Figure{kind: KindSingle, ints: []int{n}}
}

// NewCompound keeps both values only when they differ; otherwise it
// collapses to Single(reduced).
func NewCompound(compound, reduced int) Figure {
	if compound == reduced {
		return Single(reduced)
	}
	return Figure{kind: KindCompound, ints: []int{compound, reduced}}
}

func Histogram(counts []Count) Figure {
	return Figure{kind: KindHistogram, counts: append([]Count(nil), counts...)}
}

func Set(numbers []int) Figure {
	return Figure{kind: KindSet, ints: append([]int{}, numbers...)}
}

func Debts(debts []Debt) Figure {
	return Figure{kind: KindDebts, debts: append([]Debt{}, debts...)}
}

func Text(s string) Figure {
	return Figure{kind: KindText, text: s}
}

func (f Figure) Kind() Kind     { return f.kind }
func (f Figure) IsAbsent() bool { return f.kind == KindAbsent }

// Values returns the numeric components: one for Single, two (compound,
// reduced) for Compound, the members for Set, nil otherwise.
func (f Figure) Values() []int {
	switch f.kind {
	case KindSingle, KindCompound, KindSet:
		return append([]int(nil), f.ints...)
	}
	return nil
}

// Reduced returns the final value of a Single or Compound figure.
func (f Figure) Reduced() (int, bool) {
	switch f.kind {
	case KindSingle:
		return f.ints[0], true
	case KindCompound:
		return f.ints[1], true
	}
	return 0, false
}

// Compound returns the pre-reduction value when the figure keeps one.
func (f Figure) Compound() (int, bool) {
	if f.kind != KindCompound {
		return 0, false
	}
	return f.ints[0], true
}

func (f Figure) Counts() []Count { return append([]Count(nil), f.counts...) }
func (f Figure) Debts() []Debt   { return append([]Debt(nil), f.debts...) }
func (f Figure) Text() string    { return f.text }

// Debt looks up the debt number recorded for name.
func (f Figure) Debt(name Name) (int, bool) {
	for _, d := range f.debts {
		if d.Figure == name {
			return d.Number, true
		}
	}
	return 0, false
}

func (f Figure) Equal(o Figure) bool {
	if f.kind != o.kind || f.text != o.text ||
		len(f.ints) != len(o.ints) || len(f.counts) != len(o.counts) || len(f.debts) != len(o.debts) {
		return false
	}
	for i := range f.ints {
		if f.ints[i] != o.ints[i] {
			return false
		}
	}
	for i := range f.counts {
		if f.counts[i] != o.counts[i] {
			return false
		}
	}
	for i := range f.debts {
		if f.debts[i] != o.debts[i] {
			return false
		}
	}
	return true
}

func (f Figure) String() string {
	switch f.kind {
	case KindSingle:
		return strconv.Itoa(f.ints[0])
	case KindCompound:
		return strconv.Itoa(f.ints[0]) + "/" + strconv.Itoa(f.ints[1])
	case KindText:
		return f.text
	case KindAbsent:
		return "-"
	}
	b, _ := f.MarshalJSON()
	return string(b)
}

func (f Figure) MarshalJSON() ([]byte, error) {
	switch f.kind {
	case KindSingle:
		return json.Marshal(f.ints[0])
	case KindCompound, KindSet:
		return json.Marshal(f.ints)
	case KindHistogram:
		return json.Marshal(f.counts)
	case KindText:
		return json.Marshal(f.text)
	case KindDebts:
		// object with keys in discovery order
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, d := range f.debts {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(string(d.Figure))
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.WriteString(strconv.Itoa(d.Number))
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return []byte("null"), nil
}
