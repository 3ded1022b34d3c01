package db

import (
	"context"

	"tendermarket/models"
)

func (s *Storage) CreateApplication(ctx context.Context, a *models.Application) error {
	query := `
        INSERT INTO application
            (tender_id, organization_id, proposal, quoted_price, status)
        VALUES
            ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		a.TenderID, a.OrganizationID, a.Proposal, a.QuotedPrice, a.Status).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return wrapErr(err)
}

func (s *Storage) GetApplication(ctx context.Context, id int) (*models.Application, error) {
	a := &models.Application{}
	query := `SELECT * FROM application WHERE id = $1`
	if err := s.db.GetContext(ctx, a, query, id); err != nil {
		return nil, wrapErr(err)
	}
	return a, nil
}

// GetApplicationForParticipant loads an application only when the
// organization is either the applicant or owns the parent tender.
func (s *Storage) GetApplicationForParticipant(ctx context.Context, id, organizationID int) (*models.Application, error) {
	a := &models.Application{}
	query := `
        SELECT a.* FROM application a
        JOIN tender t ON t.id = a.tender_id
        WHERE a.id = $1 AND (a.organization_id = $2 OR t.organization_id = $2)`
	if err := s.db.GetContext(ctx, a, query, id, organizationID); err != nil {
		return nil, wrapErr(err)
	}
	return a, nil
}

// HasApplication is the pre-write duplicate check; the unique
// (tender_id, organization_id) constraint remains the backstop for the
// race two concurrent submissions can hit.
func (s *Storage) HasApplication(ctx context.Context, tenderID, organizationID int) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM application WHERE tender_id = $1 AND organization_id = $2`
	if err := s.db.GetContext(ctx, &count, query, tenderID, organizationID); err != nil {
		return false, wrapErr(err)
	}
	return count > 0, nil
}

func (s *Storage) ListTenderApplications(ctx context.Context, tenderID, limit, offset int) ([]models.Application, error) {
	query := `
        SELECT * FROM application
        WHERE tender_id = $1
        ORDER BY created_at ASC, id ASC
        LIMIT $2 OFFSET $3`
	apps := []models.Application{}
	if err := s.db.SelectContext(ctx, &apps, query, tenderID, limit, offset); err != nil {
		return nil, wrapErr(err)
	}
	return apps, nil
}

func (s *Storage) ListOrganizationApplications(ctx context.Context, organizationID, limit, offset int) ([]models.Application, error) {
	query := `
        SELECT * FROM application
        WHERE organization_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`
	apps := []models.Application{}
	if err := s.db.SelectContext(ctx, &apps, query, organizationID, limit, offset); err != nil {
		return nil, wrapErr(err)
	}
	return apps, nil
}

func (s *Storage) UpdateApplicationStatus(ctx context.Context, a *models.Application) error {
	query := `
        UPDATE application
        SET status = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query, a.Status, a.ID).Scan(&a.UpdatedAt)
	return wrapErr(err)
}
