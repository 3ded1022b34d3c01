package db

import (
	"context"
	"fmt"
	"strings"

	"tendermarket/models"
)

// SearchCompanies matches the substring against organization name and
// description plus the names and descriptions of the goods/services the
// organization lists. Industry is an equality filter. Ordered by name with
// id as the tie-break.
func (s *Storage) SearchCompanies(ctx context.Context, q, industry string, limit, offset int) ([]models.Organization, error) {
	var (
		conds []string
		args  []interface{}
	)
	if q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(o.name ILIKE $%d OR o.description ILIKE $%d
            OR EXISTS (
                SELECT 1 FROM goods_service g
                WHERE g.organization_id = o.id
                AND (g.name ILIKE $%d OR g.description ILIKE $%d)
            ))`, n, n, n, n))
	}
	if industry != "" {
		args = append(args, industry)
		conds = append(conds, fmt.Sprintf("o.industry = $%d", len(args)))
	}

	query := "SELECT o.* FROM organization o"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY o.name ASC, o.id ASC"
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	orgs := []models.Organization{}
	if err := s.db.SelectContext(ctx, &orgs, query, args...); err != nil {
		return nil, wrapErr(err)
	}
	return orgs, nil
}

// SearchTenders matches the substring against title and description.
// Industry filters through the owning organization. Ordered by deadline
// ascending, id tie-break.
func (s *Storage) SearchTenders(ctx context.Context, q, industry string, status models.TenderStatus, limit, offset int) ([]models.Tender, error) {
	var (
		conds []string
		args  []interface{}
	)
	if q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(t.title ILIKE $%d OR t.description ILIKE $%d)", n, n))
	}
	if industry != "" {
		args = append(args, industry)
		conds = append(conds, fmt.Sprintf("o.industry = $%d", len(args)))
	}
	if status != "" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("t.status = $%d", len(args)))
	}

	query := "SELECT t.* FROM tender t JOIN organization o ON o.id = t.organization_id"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.deadline ASC, t.id ASC"
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	tenders := []models.Tender{}
	if err := s.db.SelectContext(ctx, &tenders, query, args...); err != nil {
		return nil, wrapErr(err)
	}
	return tenders, nil
}
