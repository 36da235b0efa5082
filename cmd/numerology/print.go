package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"numerology/internal/chart"
	"numerology/internal/numerology"
)

type figureLine struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type interpLine struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// chartView is what the CLI prints, built from either a local result or an
// API response.
type chartView struct {
	System          string       `json:"system"`
	Title           string       `json:"title"`
	ChartID         string       `json:"chart_id,omitempty"`
	BirthdateValid  bool         `json:"birthdate_valid"`
	Figures         []figureLine `json:"figures"`
	Interpretations []interpLine `json:"interpretations,omitempty"`
}

func viewFromResult(r chart.Result, label func(numerology.Name) string) chartView {
	v := chartView{System: r.System, Title: r.Title, ChartID: r.ChartID, BirthdateValid: r.BirthdateValid}
	for _, e := range r.Figures.Present() {
		v.Figures = append(v.Figures, figureLine{Name: string(e.Name), Label: label(e.Name), Value: e.Figure.String()})
	}
	for _, it := range r.Interpretations {
		v.Interpretations = append(v.Interpretations, interpLine{
			Name:        string(it.Figure),
			Label:       it.Label,
			Title:       it.Title,
			Description: it.Description,
		})
	}
	return v
}

func printCharts(w io.Writer, views []chartView) {
	for i, v := range views {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := v.Title
		if title == "" {
			title = v.System
		}
		fmt.Fprintf(w, "== %s ==\n", title)
		if v.ChartID != "" {
			fmt.Fprintf(w, "saved as %s\n", v.ChartID)
		}
		if !v.BirthdateValid {
			fmt.Fprintln(w, "(no valid birthdate: date figures omitted)")
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, f := range v.Figures {
			fmt.Fprintf(tw, "  %s\t%s\n", f.Label, f.Value)
		}
		_ = tw.Flush()

		if len(v.Interpretations) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Interpretations")
		for _, it := range v.Interpretations {
			fmt.Fprintf(w, "  %s: %s\n", it.Label, it.Title)
			for _, para := range strings.Split(it.Description, "\n\n") {
				if para = strings.TrimSpace(para); para != "" {
					fmt.Fprintf(w, "    %s\n", para)
				}
			}
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
