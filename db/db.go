package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"tendermarket/models"
)

var (
	// ErrNotFound covers both a missing row and a row the caller is not
	// allowed to touch: ownership-scoped queries return it for either case
	// so the API cannot leak existence.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate maps Postgres unique violations (23505). The unique
	// constraints are the enforcement backstop for duplicate emails and
	// duplicate applications.
	ErrDuplicate = errors.New("duplicate record")
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

// Account

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	a := &models.Account{}
	query := `SELECT * FROM account WHERE email = $1`
	if err := s.db.GetContext(ctx, a, query, email); err != nil {
		return nil, wrapErr(err)
	}
	return a, nil
}

func (s *Storage) GetAccount(ctx context.Context, id int) (*models.Account, error) {
	a := &models.Account{}
	query := `SELECT * FROM account WHERE id = $1`
	if err := s.db.GetContext(ctx, a, query, id); err != nil {
		return nil, wrapErr(err)
	}
	return a, nil
}

// CreateAccountWithOrganization inserts the account and its organization in
// one transaction: registration commits both rows or neither.
func (s *Storage) CreateAccountWithOrganization(ctx context.Context, a *models.Account, o *models.Organization) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	accountQuery := `
        INSERT INTO account (email, password_hash, role)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, accountQuery, a.Email, a.PasswordHash, a.Role).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return wrapErr(err)
	}

	o.AccountID = a.ID
	orgQuery := `
        INSERT INTO organization
            (account_id, name, industry, description, contact_email, contact_phone, address)
        VALUES
            ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, orgQuery,
		o.AccountID, o.Name, o.Industry, o.Description, o.ContactEmail, o.ContactPhone, o.Address).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return wrapErr(err)
	}

	return tx.Commit()
}

// Organization

func (s *Storage) GetOrganization(ctx context.Context, id int) (*models.Organization, error) {
	o := &models.Organization{}
	query := `SELECT * FROM organization WHERE id = $1`
	if err := s.db.GetContext(ctx, o, query, id); err != nil {
		return nil, wrapErr(err)
	}
	return o, nil
}

func (s *Storage) GetOrganizationByAccount(ctx context.Context, accountID int) (*models.Organization, error) {
	o := &models.Organization{}
	query := `SELECT * FROM organization WHERE account_id = $1`
	if err := s.db.GetContext(ctx, o, query, accountID); err != nil {
		return nil, wrapErr(err)
	}
	return o, nil
}

func (s *Storage) UpdateOrganization(ctx context.Context, o *models.Organization) error {
	query := `
        UPDATE organization
        SET name = $1, industry = $2, description = $3, contact_email = $4,
            contact_phone = $5, address = $6, logo_url = $7, updated_at = NOW()
        WHERE id = $8
        RETURNING updated_at`
	err := s.db.QueryRowContext(ctx, query,
		o.Name, o.Industry, o.Description, o.ContactEmail,
		o.ContactPhone, o.Address, o.LogoURL, o.ID).
		Scan(&o.UpdatedAt)
	return wrapErr(err)
}
