package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"numerology/internal/chart"
	"numerology/internal/meanings"
	"numerology/internal/numerology"
	"numerology/pkg/database"
)

type chartOpts struct {
	first, last, birthdate string
	save                   bool
	noInterpret            bool
	remote                 bool
}

func newChartCmd(a *app) *cobra.Command {
	o := &chartOpts{}
	cmd := &cobra.Command{
		Use:   "chart [first-name] [last-name] [birthdate]",
		Short: "Compute a chart; missing fields are prompted for",
		Long: `Compute the figures of a person under each selected system and print
them followed by their interpretations. The birthdate is YYYY-MM-DD and may be
left empty, in which case the date figures are absent.`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChart(cmd, o, args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.first, "first", "", "first name")
	f.StringVar(&o.last, "last", "", "last name")
	f.StringVar(&o.birthdate, "birthdate", "", "birthdate (YYYY-MM-DD)")
	f.BoolVar(&o.save, "save", false, "store the chart in the database")
	f.BoolVar(&o.noInterpret, "no-interpret", false, "only print figures")
	f.BoolVar(&o.remote, "remote", false, "compute through the API server")
	return cmd
}

func (a *app) runChart(cmd *cobra.Command, o *chartOpts, args []string) error {
	fields := []*string{&o.first, &o.last, &o.birthdate}
	for i, v := range args {
		if *fields[i] == "" {
			*fields[i] = v
		}
	}
	birthdateGiven := cmd.Flags().Changed("birthdate") || len(args) == 3

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	var err error
	if strings.TrimSpace(o.first) == "" {
		if o.first, err = prompt(in, out, "First name: "); err != nil {
			return err
		}
	}
	if strings.TrimSpace(o.last) == "" {
		if o.last, err = prompt(in, out, "Last name: "); err != nil {
			return err
		}
	}
	if !birthdateGiven && strings.TrimSpace(o.birthdate) == "" {
		if o.birthdate, err = prompt(in, out, "Birthdate (YYYY-MM-DD, empty to skip): "); err != nil {
			return err
		}
	}

	person := numerology.Person{
		FirstName: o.first,
		LastName:  o.last,
		Birthdate: strings.TrimSpace(o.birthdate),
	}
	variants, err := numerology.ParseSystems(a.cfg.Systems)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var views []chartView
	if o.remote {
		views, err = a.remoteChart(ctx, person, variants, o)
	} else {
		views, err = a.localChart(ctx, person, variants, o)
	}
	if err != nil {
		if numerology.IsInvalidInput(err) {
			return fmt.Errorf("%w: names must contain at least one letter", numerology.ErrInvalidInput)
		}
		return err
	}

	if a.asJSON {
		return writeJSON(out, views)
	}
	printCharts(out, views)
	return nil
}

func (a *app) localChart(ctx context.Context, p numerology.Person, variants []*numerology.Variant, o *chartOpts) ([]chartView, error) {
	svc := &chart.Service{
		Source:  a.catalog,
		Catalog: a.catalog,
		Locale:  a.catalog.Match(a.cfg.Locale),
		Log:     a.logger,
	}

	db, err := a.openDB(o.save)
	if err != nil {
		return nil, err
	}
	if db != nil {
		defer db.Close()
		svc.Repo = chart.NewRepo(db)
		svc.Source = meanings.Chain{meanings.NewRepo(db), a.catalog}
	}

	results, err := svc.Compute(ctx, chart.Request{
		Person:    p,
		Systems:   variants,
		Interpret: !o.noInterpret,
		Save:      o.save,
	})
	if err != nil {
		return nil, err
	}

	views := make([]chartView, 0, len(results))
	for _, r := range results {
		views = append(views, viewFromResult(r, a.labeler()))
	}
	return views, nil
}

// openDB opens the configured database when saving or when it already
// exists, so imported meanings are used. It returns nil otherwise.
func (a *app) openDB(required bool) (*sql.DB, error) {
	if !required {
		if _, err := os.Stat(a.cfg.DBPath); err != nil {
			return nil, nil
		}
	}
	return database.OpenAndMigrate(database.Config{Path: a.cfg.DBPath})
}

type remoteResponse struct {
	Results []struct {
		System          string                     `json:"system"`
		Title           string                     `json:"title"`
		ChartID         string                     `json:"chart_id"`
		BirthdateValid  bool                       `json:"birthdate_valid"`
		Figures         map[string]json.RawMessage `json:"figures"`
		Interpretations []struct {
			Figure      string `json:"figure"`
			Label       string `json:"label"`
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"interpretations"`
	} `json:"results"`
}

func (a *app) remoteChart(ctx context.Context, p numerology.Person, variants []*numerology.Variant, o *chartOpts) ([]chartView, error) {
	names := make([]string, 0, len(variants))
	for _, v := range variants {
		names = append(names, v.Name)
	}
	payload := map[string]any{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"birthdate":  p.Birthdate,
		"systems":    names,
		"locale":     a.cfg.Locale,
		"save":       o.save,
		"interpret":  !o.noInterpret,
	}

	client := &http.Client{Timeout: 15 * time.Second}
	var resp remoteResponse
	if err := doJSON(ctx, client, http.MethodPost, a.cfg.APIURL+"/charts", payload, &resp); err != nil {
		if strings.Contains(err.Error(), numerology.ErrInvalidInput.Error()) {
			return nil, numerology.ErrInvalidInput
		}
		return nil, err
	}

	label := a.labeler()
	views := make([]chartView, 0, len(resp.Results))
	for _, r := range resp.Results {
		v := chartView{System: r.System, Title: r.Title, ChartID: r.ChartID, BirthdateValid: r.BirthdateValid}
		for _, name := range numerology.Order {
			raw, ok := r.Figures[string(name)]
			if !ok || string(raw) == "null" {
				continue
			}
			v.Figures = append(v.Figures, figureLine{Name: string(name), Label: label(name), Value: compactJSON(raw)})
		}
		for _, it := range r.Interpretations {
			v.Interpretations = append(v.Interpretations, interpLine{
				Name: it.Figure, Label: it.Label, Title: it.Title, Description: it.Description,
			})
		}
		views = append(views, v)
	}
	return views, nil
}

func (a *app) labeler() func(numerology.Name) string {
	locale := a.catalog.Match(a.cfg.Locale)
	return func(n numerology.Name) string { return a.catalog.Label(locale, string(n)) }
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func compactJSON(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
