package meanings

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// Entry is one stored meaning with its full key.
type Entry struct {
	Locale  string `json:"locale"`
	System  string `json:"system"`
	Table   string `json:"table"`
	Number  int    `json:"number"`
	Meaning `json:"meaning"`
}

// Repo stores meaning tables in sqlite so full text sets can be imported
// on top of the embedded catalog.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Meaning implements Source with the same locale and system fallbacks as
// the embedded catalog.
func (r *Repo) Meaning(ctx context.Context, locale, system, table string, number int) (Meaning, bool, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT title, description
		FROM meanings
		WHERE locale IN (?, ?) AND system IN (?, ?) AND tbl = ? AND number = ?
		ORDER BY (locale = ?) DESC, (system = ?) DESC
		LIMIT 1
	`, locale, BaseLocale, system, CommonSystem, table, number, locale, system)

	var m Meaning
	if err := row.Scan(&m.Title, &m.Description); err != nil {
		if err == sql.ErrNoRows {
			return Meaning{}, false, nil
		}
		return Meaning{}, false, fmt.Errorf("get meaning: %w", err)
	}
	return m, true, nil
}

// Upsert inserts or replaces one entry.
func (r *Repo) Upsert(ctx context.Context, e Entry) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO meanings (locale, system, tbl, number, title, description)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(locale, system, tbl, number) DO UPDATE SET
			title = excluded.title,
			description = excluded.description
	`, e.Locale, e.System, e.Table, e.Number, e.Title, e.Description)
	if err != nil {
		return fmt.Errorf("upsert meaning: %w", err)
	}
	return nil
}

// UpsertAll writes entries in a single transaction.
func (r *Repo) UpsertAll(ctx context.Context, entries []Entry) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO meanings (locale, system, tbl, number, title, description)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(locale, system, tbl, number) DO UPDATE SET
			title = excluded.title,
			description = excluded.description
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Locale, e.System, e.Table, e.Number, e.Title, e.Description); err != nil {
			return i, fmt.Errorf("upsert meaning %s/%s/%s/%d: %w", e.Locale, e.System, e.Table, e.Number, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(entries), nil
}

// List returns stored entries, optionally restricted to one locale.
func (r *Repo) List(ctx context.Context, locale string) ([]Entry, error) {
	query := `
		SELECT locale, system, tbl, number, title, description
		FROM meanings
	`
	var args []any
	if locale != "" {
		query += ` WHERE locale = ?`
		args = append(args, locale)
	}
	query += ` ORDER BY locale, system, tbl, number`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meanings: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Locale, &e.System, &e.Table, &e.Number, &e.Title, &e.Description); err != nil {
			return nil, fmt.Errorf("scan meaning row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func sortEntries(es []Entry) {
	sort.Slice(es, func(i, j int) bool {
		a, b := es[i], es[j]
		if a.Locale != b.Locale {
			return a.Locale < b.Locale
		}
		if a.System != b.System {
			return a.System < b.System
		}
		if a.Table != b.Table {
			return a.Table < b.Table
		}
		return a.Number < b.Number
	})
}
