package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"numerology/internal/meanings"
	"numerology/pkg/database"
	"numerology/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var (
		meaningsIn = flag.String("meanings", "", "input CSV path for meaning tables")
		seed       = flag.Bool("seed", false, "write the embedded catalog into the database first")
		dbPath     = flag.String("db", cfg.DBPath, "sqlite database path")
	)
	flag.Parse()

	logger, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.OpenAndMigrate(database.Config{Path: *dbPath})
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	repo := meanings.NewRepo(db)

	if *seed {
		n, err := seedCatalog(ctx, repo)
		if err != nil {
			logger.Fatal("seed catalog failed", zap.Error(err))
		}
		logger.Info("seeded embedded catalog", zap.Int("entries", n))
	}

	if *meaningsIn == "" {
		if !*seed {
			logger.Fatal("nothing to do: pass -meanings and/or -seed")
		}
		return
	}

	n, err := importMeaningsFile(ctx, repo, *meaningsIn)
	if err != nil {
		logger.Fatal("import meanings failed", zap.String("path", *meaningsIn), zap.Error(err))
	}
	logger.Info("imported meanings", zap.String("path", *meaningsIn), zap.Int("entries", n))
}

func seedCatalog(ctx context.Context, repo *meanings.Repo) (int, error) {
	cat, err := meanings.LoadEmbedded()
	if err != nil {
		return 0, err
	}
	return repo.UpsertAll(ctx, cat.Entries())
}

func importMeaningsFile(ctx context.Context, repo *meanings.Repo, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	entries, err := readMeanings(f)
	if err != nil {
		return 0, err
	}
	return repo.UpsertAll(ctx, entries)
}

// readMeanings parses rows of locale,system,table,number,title,description.
// Columns may come in any order; system defaults to common and locale to en.
// Rows without a table or title are skipped.
func readMeanings(in io.Reader) ([]meanings.Entry, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"table", "number", "title"} {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var out []meanings.Entry
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 {
			continue
		}

		table := valueAt(header, row, "table")
		title := valueAt(header, row, "title")
		if table == "" || title == "" {
			continue
		}

		number, err := strconv.Atoi(valueAt(header, row, "number"))
		if err != nil {
			return nil, fmt.Errorf("line %d: parse number: %w", line, err)
		}

		out = append(out, meanings.Entry{
			Locale: orDefault(strings.ToLower(valueAt(header, row, "locale")), meanings.BaseLocale),
			System: orDefault(strings.ToLower(valueAt(header, row, "system")), meanings.CommonSystem),
			Table:  table,
			Number: number,
			Meaning: meanings.Meaning{
				Title:       title,
				Description: valueAt(header, row, "description"),
			},
		})
	}

	return out, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
