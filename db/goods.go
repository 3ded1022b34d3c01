package db

import (
	"context"

	"tendermarket/models"
)

func (s *Storage) CreateGoodsService(ctx context.Context, g *models.GoodsService) error {
	query := `
        INSERT INTO goods_service
            (organization_id, name, description, category, tags)
        VALUES
            ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	err := s.db.QueryRowContext(ctx, query,
		g.OrganizationID, g.Name, g.Description, g.Category, g.Tags).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	return wrapErr(err)
}

func (s *Storage) ListOrganizationGoods(ctx context.Context, organizationID int) ([]models.GoodsService, error) {
	query := `
        SELECT * FROM goods_service
        WHERE organization_id = $1
        ORDER BY name ASC, id ASC`
	goods := []models.GoodsService{}
	if err := s.db.SelectContext(ctx, &goods, query, organizationID); err != nil {
		return nil, wrapErr(err)
	}
	return goods, nil
}

// UpdateGoodsService updates only rows owned by the organization; a foreign
// row reads as ErrNotFound.
func (s *Storage) UpdateGoodsService(ctx context.Context, g *models.GoodsService) error {
	query := `
        UPDATE goods_service
        SET name = $1, description = $2, category = $3, tags = $4, updated_at = NOW()
        WHERE id = $5 AND organization_id = $6
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		g.Name, g.Description, g.Category, g.Tags, g.ID, g.OrganizationID).
		Scan(&g.UpdatedAt)
	return wrapErr(err)
}

func (s *Storage) DeleteGoodsService(ctx context.Context, id, organizationID int) error {
	query := `DELETE FROM goods_service WHERE id = $1 AND organization_id = $2`
	res, err := s.db.ExecContext(ctx, query, id, organizationID)
	if err != nil {
		return wrapErr(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
