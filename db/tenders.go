package db

import (
	"context"
	"fmt"
	"strings"

	"tendermarket/models"
)

// TenderFilter narrows ListTenders. Status is always set by the handler
// (the public default is "published"); Search is a case-insensitive
// substring over title and description.
type TenderFilter struct {
	Status models.TenderStatus
	Search string
	Limit  int
	Offset int
}

func (s *Storage) CreateTender(ctx context.Context, t *models.Tender) error {
	query := `
        INSERT INTO tender
            (organization_id, title, description, requirements, budget_min, budget_max, deadline, status)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		t.OrganizationID, t.Title, t.Description, t.Requirements,
		t.BudgetMin, t.BudgetMax, t.Deadline, t.Status).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return wrapErr(err)
}

func (s *Storage) GetTender(ctx context.Context, id int) (*models.Tender, error) {
	t := &models.Tender{}
	query := `SELECT * FROM tender WHERE id = $1`
	if err := s.db.GetContext(ctx, t, query, id); err != nil {
		return nil, wrapErr(err)
	}
	return t, nil
}

// GetTenderForOrganization loads a tender only when the organization owns
// it. A foreign tender and a nonexistent one are both ErrNotFound.
func (s *Storage) GetTenderForOrganization(ctx context.Context, id, organizationID int) (*models.Tender, error) {
	t := &models.Tender{}
	query := `SELECT * FROM tender WHERE id = $1 AND organization_id = $2`
	if err := s.db.GetContext(ctx, t, query, id, organizationID); err != nil {
		return nil, wrapErr(err)
	}
	return t, nil
}

// GetTenderDetail returns the tender together with its application count.
func (s *Storage) GetTenderDetail(ctx context.Context, id int) (*models.TenderDetail, error) {
	t := &models.TenderDetail{}
	query := `
        SELECT t.*,
               (SELECT COUNT(1) FROM application a WHERE a.tender_id = t.id) AS application_count
        FROM tender t
        WHERE t.id = $1`
	if err := s.db.GetContext(ctx, t, query, id); err != nil {
		return nil, wrapErr(err)
	}
	return t, nil
}

func (s *Storage) UpdateTender(ctx context.Context, t *models.Tender) error {
	query := `
        UPDATE tender
        SET title = $1, description = $2, requirements = $3, budget_min = $4,
            budget_max = $5, deadline = $6, status = $7, updated_at = NOW()
        WHERE id = $8
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		t.Title, t.Description, t.Requirements, t.BudgetMin,
		t.BudgetMax, t.Deadline, t.Status, t.ID).
		Scan(&t.UpdatedAt)
	return wrapErr(err)
}

// ListTenders returns one page plus the total match count for pagination.
// Ordered by deadline ascending with id as the tie-break so pages stay
// stable across requests.
func (s *Storage) ListTenders(ctx context.Context, f TenderFilter) ([]models.Tender, int, error) {
	var (
		conds []string
		args  []interface{}
	)
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	filter := ""
	if len(conds) > 0 {
		filter = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(1) FROM tender"+filter, args...); err != nil {
		return nil, 0, wrapErr(err)
	}

	query := "SELECT * FROM tender" + filter + " ORDER BY deadline ASC, id ASC"
	args = append(args, f.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	tenders := []models.Tender{}
	if err := s.db.SelectContext(ctx, &tenders, query, args...); err != nil {
		return nil, 0, wrapErr(err)
	}
	return tenders, total, nil
}

func (s *Storage) ListOrganizationTenders(ctx context.Context, organizationID, limit, offset int) ([]models.Tender, error) {
	query := `
        SELECT * FROM tender
        WHERE organization_id = $1
        ORDER BY deadline ASC, id ASC
        LIMIT $2 OFFSET $3`
	tenders := []models.Tender{}
	if err := s.db.SelectContext(ctx, &tenders, query, organizationID, limit, offset); err != nil {
		return nil, wrapErr(err)
	}
	return tenders, nil
}
