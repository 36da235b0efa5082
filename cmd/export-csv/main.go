package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"numerology/internal/chart"
	"numerology/internal/meanings"
	"numerology/pkg/database"
	"numerology/pkg/models"
	"numerology/pkg/utils"
)

const pageSize = 100

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var (
		chartsOut   = flag.String("charts", "data/charts.csv", "output path for saved charts (empty to skip)")
		meaningsOut = flag.String("meanings", "data/meanings.csv", "output path for meaning tables (empty to skip)")
		format      = flag.String("format", "csv", "csv or json")
		fromCatalog = flag.Bool("catalog", false, "export the embedded catalog instead of stored meanings")
		dbPath      = flag.String("db", cfg.DBPath, "sqlite database path")
	)
	flag.Parse()

	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *format != "csv" && *format != "json" {
		logger.Fatal("unknown format", zap.String("format", *format))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.OpenAndMigrate(database.Config{Path: *dbPath})
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if *chartsOut != "" {
		charts, err := allCharts(ctx, chart.NewRepo(db))
		if err != nil {
			logger.Fatal("load charts failed", zap.Error(err))
		}
		if err := writeFile(*chartsOut, func(w io.Writer) error { return exportCharts(w, *format, charts) }); err != nil {
			logger.Fatal("export charts failed", zap.Error(err))
		}
		logger.Info("exported charts", zap.String("path", *chartsOut), zap.Int("rows", len(charts)))
	}

	if *meaningsOut != "" {
		var entries []meanings.Entry
		if *fromCatalog {
			cat, err := meanings.LoadEmbedded()
			if err != nil {
				logger.Fatal("load catalog failed", zap.Error(err))
			}
			entries = cat.Entries()
		} else {
			entries, err = meanings.NewRepo(db).List(ctx, "")
			if err != nil {
				logger.Fatal("load meanings failed", zap.Error(err))
			}
		}
		if err := writeFile(*meaningsOut, func(w io.Writer) error { return exportMeanings(w, *format, entries) }); err != nil {
			logger.Fatal("export meanings failed", zap.Error(err))
		}
		logger.Info("exported meanings", zap.String("path", *meaningsOut), zap.Int("rows", len(entries)))
	}
}

// allCharts pages through the repository, newest first.
func allCharts(ctx context.Context, repo *chart.Repo) ([]models.Chart, error) {
	var out []models.Chart
	for offset := 0; ; offset += pageSize {
		page, err := repo.List(ctx, chart.ListQuery{Limit: pageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < pageSize {
			return out, nil
		}
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func exportCharts(w io.Writer, format string, charts []models.Chart) error {
	if format == "json" {
		return writeJSON(w, charts)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "system", "first_name", "last_name", "birthdate", "figures", "created_at"}); err != nil {
		return err
	}
	for _, c := range charts {
		if err := cw.Write([]string{
			c.ID,
			c.System,
			c.FirstName,
			c.LastName,
			c.Birthdate,
			string(c.Figures),
			c.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// exportMeanings writes the same columns import-csv reads.
func exportMeanings(w io.Writer, format string, entries []meanings.Entry) error {
	if format == "json" {
		return writeJSON(w, entries)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"locale", "system", "table", "number", "title", "description"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{
			e.Locale,
			e.System,
			e.Table,
			strconv.Itoa(e.Number),
			e.Title,
			e.Description,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
