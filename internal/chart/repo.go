package chart

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"numerology/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q      string // matches first or last name
	System string
	Limit  int
	Offset int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Save stores ch, assigning an ID and creation time when missing.
func (r *Repo) Save(ctx context.Context, ch *models.Chart) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	if ch.CreatedAt.IsZero() {
		ch.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO charts (id, system, first_name, last_name, birthdate, figures, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ch.ID, ch.System, ch.FirstName, ch.LastName, nullString(ch.Birthdate), string(ch.Figures), ch.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert chart: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Chart, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, system, first_name, last_name, birthdate, figures, created_at
		FROM charts
		WHERE id = ?
	`, id)

	ch, err := scanChart(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return ch, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

// List returns charts newest first.
func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Chart, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Chart, 0, clampLimit(q.Limit))
	for rows.Next() {
		ch, err := scanChart(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChart(s scanner) (*models.Chart, error) {
	var (
		ch        models.Chart
		birthdate sql.NullString
		figures   string
	)
	if err := s.Scan(&ch.ID, &ch.System, &ch.FirstName, &ch.LastName, &birthdate, &figures, &ch.CreatedAt); err != nil {
		return nil, err
	}
	ch.Birthdate = birthdate.String
	ch.Figures = []byte(figures)
	return &ch, nil
}

// buildListSQL builds either COUNT(*) or the paged SELECT.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `
		SELECT id, system, first_name, last_name, birthdate, figures, created_at
		FROM charts
	`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM charts`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?)")
		kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
		args = append(args, kw, kw)
	}

	if strings.TrimSpace(q.System) != "" {
		where = append(where, "LOWER(system) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(q.System)))
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY created_at DESC, id ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, clampLimit(q.Limit), offset)
	}

	return sqlStr, args
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
