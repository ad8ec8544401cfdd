package memory

import (
	"context"
	"strings"

	"techlingo-service/internal/domain"
)

// TermCatalog is a static in-memory catalog (useful for tests/demos and the
// no-Postgres dev mode).
type TermCatalog struct {
	terms []domain.Term
}

func NewTermCatalog(terms []domain.Term) *TermCatalog {
	copied := make([]domain.Term, len(terms))
	copy(copied, terms)
	for i := range copied {
		if copied[i].ID == 0 {
			copied[i].ID = int64(i + 1)
		}
	}
	return &TermCatalog{terms: copied}
}

func (c *TermCatalog) FilterTerms(_ context.Context, category, difficulty string) ([]domain.Term, error) {
	out := make([]domain.Term, 0, len(c.terms))
	for _, t := range c.terms {
		if category != "" && t.Category != category {
			continue
		}
		if difficulty != "" && t.Difficulty != difficulty {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *TermCatalog) TermByID(_ context.Context, id int64) (*domain.Term, error) {
	for _, t := range c.terms {
		if t.ID == id {
			copied := t
			return &copied, nil
		}
	}
	return nil, domain.ErrTermNotFound
}

func (c *TermCatalog) CountTerms(_ context.Context) (int, error) {
	return len(c.terms), nil
}

func (c *TermCatalog) Categories(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, t := range c.terms {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		categories = append(categories, t.Category)
	}
	return categories, nil
}

// SearchTerms matches the query case-insensitively against name and
// definition, mirroring the postgres ILIKE search.
func (c *TermCatalog) SearchTerms(_ context.Context, query string) ([]domain.Term, error) {
	q := strings.ToLower(query)
	out := make([]domain.Term, 0)
	for _, t := range c.terms {
		if strings.Contains(strings.ToLower(t.Name), q) || strings.Contains(strings.ToLower(t.Definition), q) {
			out = append(out, t)
		}
	}
	return out, nil
}
