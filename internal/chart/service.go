package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"numerology/internal/feed"
	"numerology/internal/meanings"
	"numerology/internal/numerology"
	"numerology/pkg/models"
)

// Broadcaster receives an event for every saved chart.
type Broadcaster interface {
	BroadcastJSON(v any)
}

type Request struct {
	Person numerology.Person
	// Systems to compute; empty means the service defaults.
	Systems   []*numerology.Variant
	Locale    string
	Interpret bool
	Save      bool
}

// Result is the chart of one person under one system.
type Result struct {
	System          string                    `json:"system"`
	Title           string                    `json:"title"`
	ChartID         string                    `json:"chart_id,omitempty"`
	BirthdateValid  bool                      `json:"birthdate_valid"`
	Figures         *numerology.FigureSet     `json:"figures"`
	Interpretations []meanings.Interpretation `json:"interpretations,omitempty"`
}

type Service struct {
	Repo    *Repo
	Source  meanings.Source
	Catalog *meanings.Catalog
	Feed    Broadcaster
	Systems []*numerology.Variant
	Locale  string
	Log     *zap.Logger
}

// Compute evaluates every requested system concurrently. Results keep the
// requested order. With Save set, each result is stored and announced.
func (s *Service) Compute(ctx context.Context, req Request) ([]Result, error) {
	variants := req.Systems
	if len(variants) == 0 {
		variants = s.Systems
	}
	if len(variants) == 0 {
		variants = numerology.Systems()
	}
	locale := req.Locale
	if locale == "" {
		locale = s.Locale
	}
	logger := s.logger()

	results := make([]Result, len(variants))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range variants {
		g.Go(func() error {
			fs, err := numerology.Compute(req.Person, v, logger)
			if err != nil {
				return fmt.Errorf("compute %s: %w", v.Name, err)
			}
			res := Result{
				System:         v.Name,
				Title:          v.Title,
				BirthdateValid: fs.BirthdateValid,
				Figures:        fs,
			}
			if req.Interpret && s.Source != nil {
				in := meanings.NewInterpreter(s.Source, s.Catalog, locale, logger)
				its, err := in.InterpretAll(gctx, fs)
				if err != nil {
					return fmt.Errorf("interpret %s: %w", v.Name, err)
				}
				res.Interpretations = its
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if req.Save && s.Repo != nil {
		if err := s.save(ctx, req.Person, results); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *Service) save(ctx context.Context, p numerology.Person, results []Result) error {
	for i := range results {
		figures, err := json.Marshal(results[i].Figures)
		if err != nil {
			return fmt.Errorf("encode figures: %w", err)
		}
		ch := &models.Chart{
			System:    results[i].System,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Birthdate: p.Birthdate,
			Figures:   figures,
		}
		if err := s.Repo.Save(ctx, ch); err != nil {
			return err
		}
		results[i].ChartID = ch.ID
		s.logger().Info("chart saved", zap.String("id", ch.ID), zap.String("system", ch.System))

		if s.Feed != nil {
			s.Feed.BroadcastJSON(feed.ChartEvent{
				Type:      feed.EventChartSaved,
				ChartID:   ch.ID,
				System:    ch.System,
				FirstName: ch.FirstName,
				LastName:  ch.LastName,
				Birthdate: ch.Birthdate,
				At:        time.Now().UTC(),
			})
		}
	}
	return nil
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
