package numerology

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Person is the raw input of a chart.
type Person struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Birthdate string `json:"birthdate,omitempty"`
}

// Entry is one named figure of a FigureSet.
type Entry struct {
	Name   Name
	Figure Figure
}

// FigureSet is the immutable result of computing one Person under one
// Variant. Entries follow Order.
type FigureSet struct {
	System         string
	BirthdateValid bool

	entries []Entry
	index   map[Name]int
}

// Compute derives every figure of p under v. Invalid names abort with
// ErrInvalidInput; an invalid birthdate only makes the birthdate figures
// absent. A nil logger discards diagnostics.
func Compute(p Person, v *Variant, logger *zap.Logger) (*FigureSet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c, err := newCalc(p, v)
	if err != nil {
		logger.Warn("invalid names supplied",
			zap.String("system", v.Name),
			zap.String("first_name", p.FirstName),
			zap.String("last_name", p.LastName),
		)
		return nil, err
	}

	if strings.TrimSpace(p.Birthdate) != "" {
		d, err := ParseDate(p.Birthdate)
		if err != nil {
			logger.Warn("birthdate ignored",
				zap.String("system", v.Name),
				zap.String("birthdate", p.Birthdate),
				zap.Error(err),
			)
		} else {
			c.date, c.hasDate = d, true
		}
	}

	fs := &FigureSet{
		System:         v.Name,
		BirthdateValid: c.hasDate,
		entries:        make([]Entry, 0, len(Order)),
		index:          make(map[Name]int, len(Order)),
	}
	for _, name := range Order {
		fs.index[name] = len(fs.entries)
		fs.entries = append(fs.entries, Entry{Name: name, Figure: c.resolve(name)})
	}
	return fs, nil
}

// IsInvalidInput reports whether err came from unusable names.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Get returns the figure for name, Absent when unknown.
func (fs *FigureSet) Get(name Name) Figure {
	if fs == nil {
		return Absent
	}
	i, ok := fs.index[name]
	if !ok {
		return Absent
	}
	return fs.entries[i].Figure
}

func (fs *FigureSet) Entries() []Entry {
	if fs == nil {
		return nil
	}
	return append([]Entry(nil), fs.entries...)
}

// Present returns the entries that carry a value.
func (fs *FigureSet) Present() []Entry {
	var out []Entry
	for _, e := range fs.Entries() {
		if !e.Figure.IsAbsent() {
			out = append(out, e)
		}
	}
	return out
}

// MarshalJSON writes the figures as an object in entry order.
func (fs *FigureSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range fs.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(e.Name))
		if err != nil {
			return nil, err
		}
		val, err := e.Figure.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
