package meanings

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Locale   string                                `yaml:"locale"`
	Labels   map[string]string                     `yaml:"labels"`
	Messages map[string]string                     `yaml:"messages"`
	Tables   map[string]map[string]map[int]Meaning `yaml:"tables"`
}

type localeCatalog struct {
	tag    language.Tag
	labels map[string]string
	// system -> table -> number
	tables map[string]map[string]map[int]Meaning
}

// Catalog holds the interpretation tables of every locale, loaded once.
type Catalog struct {
	locales  map[string]*localeCatalog
	order    []string
	matcher  language.Matcher
	messages *catalog.Builder
}

//go:embed locales/*.yaml
var embeddedFS embed.FS

// LoadEmbedded loads the catalogs shipped with the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locales/*.yaml from fsys. The base locale is required.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	c := &Catalog{
		locales:  map[string]*localeCatalog{},
		messages: catalog.NewBuilder(catalog.Fallback(language.English)),
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := c.add(p, file); err != nil {
			return nil, err
		}
	}
	if _, ok := c.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	// base locale first so the matcher falls back to it
	sort.SliceStable(c.order, func(i, j int) bool { return c.order[i] == BaseLocale })
	tags := make([]language.Tag, 0, len(c.order))
	for _, l := range c.order {
		tags = append(tags, c.locales[l].tag)
	}
	c.matcher = language.NewMatcher(tags)
	return c, nil
}

func (c *Catalog) add(p string, file catalogFile) error {
	locale := strings.TrimSpace(file.Locale)
	fromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", p)
	}
	if locale != fromPath {
		return fmt.Errorf("catalog %s: locale %q must match file name %q", p, locale, fromPath)
	}
	if _, exists := c.locales[locale]; exists {
		return fmt.Errorf("catalog %s: locale %q already defined", p, locale)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("catalog %s: parse locale tag %q: %w", p, locale, err)
	}

	lc := &localeCatalog{
		tag:    tag,
		labels: file.Labels,
		tables: file.Tables,
	}
	for key, msg := range file.Messages {
		if err := c.messages.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("catalog %s: message %q: %w", p, key, err)
		}
	}
	c.locales[locale] = lc
	c.order = append(c.order, locale)
	return nil
}

// Locales returns the available locales, base locale first.
func (c *Catalog) Locales() []string {
	return append([]string(nil), c.order...)
}

// Match picks the closest available locale for a requested tag such as
// "fr-CA"; unknown or unparsable tags fall back to the base locale.
func (c *Catalog) Match(requested string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return BaseLocale
	}
	if _, ok := c.locales[requested]; ok {
		return requested
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return BaseLocale
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(c.order) {
		return BaseLocale
	}
	return c.order[idx]
}

// MatchAcceptLanguage picks a locale from an Accept-Language header value.
func (c *Catalog) MatchAcceptLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return BaseLocale
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(c.order) {
		return BaseLocale
	}
	return c.order[idx]
}

// Meaning implements Source. Lookups fall back from the system table to the
// common table, then from the locale to the base locale.
func (c *Catalog) Meaning(_ context.Context, locale, system, table string, number int) (Meaning, bool, error) {
	for _, l := range c.fallbacks(locale) {
		lc := c.locales[l]
		for _, sys := range []string{system, CommonSystem} {
			if m, ok := lc.tables[sys][table][number]; ok {
				return m, true, nil
			}
		}
	}
	return Meaning{}, false, nil
}

// Label returns the display name of a figure.
func (c *Catalog) Label(locale, figure string) string {
	for _, l := range c.fallbacks(locale) {
		if s, ok := c.locales[l].labels[figure]; ok {
			return s
		}
	}
	return figure
}

// Printer formats the catalog messages for locale.
func (c *Catalog) Printer(locale string) *message.Printer {
	lc, ok := c.locales[c.Match(locale)]
	if !ok {
		lc = c.locales[BaseLocale]
	}
	return message.NewPrinter(lc.tag, message.Catalog(c.messages))
}

// Entries lists every catalog entry in a stable order, for export.
func (c *Catalog) Entries() []Entry {
	var out []Entry
	for _, l := range c.order {
		for sys, tables := range c.locales[l].tables {
			for table, numbers := range tables {
				for n, m := range numbers {
					out = append(out, Entry{Locale: l, System: sys, Table: table, Number: n, Meaning: m})
				}
			}
		}
	}
	sortEntries(out)
	return out
}

func (c *Catalog) fallbacks(locale string) []string {
	l := c.Match(locale)
	if l == BaseLocale {
		return []string{BaseLocale}
	}
	return []string{l, BaseLocale}
}
