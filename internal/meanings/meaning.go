package meanings

import (
	"context"

	"numerology/internal/numerology"
)

const (
	// BaseLocale is the locale every catalog falls back to.
	BaseLocale = "en"
	// CommonSystem holds the tables shared by every numbering system.
	CommonSystem = "common"
	// CompoundTable holds the texts of two-digit compound numbers.
	CompoundTable = "compound"
)

// Meaning is the text attached to one number of one table.
type Meaning struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Source is a keyed store of meanings. A missing entry is reported with
// ok=false and no error.
type Source interface {
	Meaning(ctx context.Context, locale, system, table string, number int) (m Meaning, ok bool, err error)
}

// Interpretation is the text assembled for one figure.
type Interpretation struct {
	Figure      numerology.Name   `json:"figure"`
	Label       string            `json:"label"`
	Value       numerology.Figure `json:"value"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
}

// Chain consults each source in order and returns the first hit.
type Chain []Source

func (c Chain) Meaning(ctx context.Context, locale, system, table string, number int) (Meaning, bool, error) {
	for _, src := range c {
		if src == nil {
			continue
		}
		m, ok, err := src.Meaning(ctx, locale, system, table, number)
		if err != nil {
			return Meaning{}, false, err
		}
		if ok {
			return m, true, nil
		}
	}
	return Meaning{}, false, nil
}
