package postgres

import (
	"context"
	"errors"
	"fmt"

	"techlingo-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const termColumns = `id, name, definition, category, difficulty, code_example, real_world_example, created_at`

// TermCatalog serves read-only term queries from Postgres.
type TermCatalog struct {
	pool *pgxpool.Pool
}

func NewTermCatalog(pool *pgxpool.Pool) *TermCatalog {
	return &TermCatalog{pool: pool}
}

func (c *TermCatalog) FilterTerms(ctx context.Context, category, difficulty string) ([]domain.Term, error) {
	query := `SELECT ` + termColumns + ` FROM terms`
	args := make([]interface{}, 0, 2)
	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" WHERE category=$%d", len(args))
	}
	if difficulty != "" {
		args = append(args, difficulty)
		if len(args) == 1 {
			query += fmt.Sprintf(" WHERE difficulty=$%d", len(args))
		} else {
			query += fmt.Sprintf(" AND difficulty=$%d", len(args))
		}
	}
	query += ` ORDER BY id`

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter terms: %w", err)
	}
	defer rows.Close()
	return scanTerms(rows)
}

func (c *TermCatalog) TermByID(ctx context.Context, id int64) (*domain.Term, error) {
	var t domain.Term
	err := c.pool.QueryRow(ctx, `SELECT `+termColumns+` FROM terms WHERE id=$1`, id).Scan(
		&t.ID, &t.Name, &t.Definition, &t.Category, &t.Difficulty,
		&t.CodeExample, &t.RealWorldExample, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTermNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("term by id: %w", err)
	}
	return &t, nil
}

func (c *TermCatalog) CountTerms(ctx context.Context) (int, error) {
	var count int
	if err := c.pool.QueryRow(ctx, `SELECT count(*) FROM terms`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count terms: %w", err)
	}
	return count, nil
}

func (c *TermCatalog) Categories(ctx context.Context) ([]string, error) {
	rows, err := c.pool.Query(ctx, `SELECT DISTINCT category FROM terms ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (c *TermCatalog) SearchTerms(ctx context.Context, query string) ([]domain.Term, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT `+termColumns+` FROM terms WHERE name ILIKE '%' || $1 || '%' OR definition ILIKE '%' || $1 || '%' ORDER BY id`,
		query,
	)
	if err != nil {
		return nil, fmt.Errorf("search terms: %w", err)
	}
	defer rows.Close()
	return scanTerms(rows)
}

func scanTerms(rows pgx.Rows) ([]domain.Term, error) {
	terms := make([]domain.Term, 0)
	for rows.Next() {
		var t domain.Term
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Definition, &t.Category, &t.Difficulty,
			&t.CodeExample, &t.RealWorldExample, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan term: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}
