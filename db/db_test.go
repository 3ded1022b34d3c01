package db_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"tendermarket/db"
	"tendermarket/models"
)

func newMockStorage(t *testing.T) (*db.Storage, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return db.NewStorage(sqlx.NewDb(mockDB, "sqlmock")), mock
}

func TestGetAccountByEmail(t *testing.T) {
	s, mock := newMockStorage(t)

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "role"}).
		AddRow(7, "buyer@corp.example", "hash", "organization")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM account WHERE email = $1`)).
		WithArgs("buyer@corp.example").
		WillReturnRows(rows)

	a, err := s.GetAccountByEmail(context.Background(), "buyer@corp.example")
	require.NoError(t, err)
	require.Equal(t, 7, a.ID)
	require.Equal(t, "organization", a.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountByEmailNotFound(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM account WHERE email = $1`)).
		WithArgs("missing@corp.example").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	_, err := s.GetAccountByEmail(context.Background(), "missing@corp.example")
	require.ErrorIs(t, err, db.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccountWithOrganizationCommits(t *testing.T) {
	s, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO account`)).
		WithArgs("buyer@corp.example", "hash", "organization").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO organization`)).
		WithArgs(3, "Corp", "Construction", "", "", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(9, now, now))
	mock.ExpectCommit()

	a := &models.Account{Email: "buyer@corp.example", PasswordHash: "hash", Role: "organization"}
	o := &models.Organization{Name: "Corp", Industry: "Construction"}
	require.NoError(t, s.CreateAccountWithOrganization(context.Background(), a, o))
	require.Equal(t, 3, a.ID)
	require.Equal(t, 9, o.ID)
	require.Equal(t, 3, o.AccountID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccountWithOrganizationDuplicateEmail(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO account`)).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	a := &models.Account{Email: "taken@corp.example", PasswordHash: "hash", Role: "organization"}
	err := s.CreateAccountWithOrganization(context.Background(), a, &models.Organization{Name: "Corp"})
	require.ErrorIs(t, err, db.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTenderForOrganizationScopesByOwner(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM tender WHERE id = $1 AND organization_id = $2`)).
		WithArgs(10, 99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id"}))

	_, err := s.GetTenderForOrganization(context.Background(), 10, 99)
	require.ErrorIs(t, err, db.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTendersFiltersAndCounts(t *testing.T) {
	s, mock := newMockStorage(t)
	deadline := time.Now().Add(72 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(1) FROM tender WHERE status = $1 AND (title ILIKE $2 OR description ILIKE $2)`)).
		WithArgs(models.TenderPublished, "%office%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM tender WHERE status = $1 AND (title ILIKE $2 OR description ILIKE $2) ORDER BY deadline ASC, id ASC LIMIT $3 OFFSET $4`)).
		WithArgs(models.TenderPublished, "%office%", 20, 40).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "deadline"}).
			AddRow(1, "Office fit-out", "published", deadline).
			AddRow(2, "Office supplies", "published", deadline))

	tenders, total, err := s.ListTenders(context.Background(), db.TenderFilter{
		Status: models.TenderPublished,
		Search: "office",
		Limit:  20,
		Offset: 40,
	})
	require.NoError(t, err)
	require.Equal(t, 42, total)
	require.Len(t, tenders, 2)
	require.Equal(t, "Office fit-out", tenders[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationDuplicate(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO application`)).
		WillReturnError(&pq.Error{Code: "23505"})

	price := int64(5000)
	err := s.CreateApplication(context.Background(), &models.Application{
		TenderID:       1,
		OrganizationID: 2,
		Proposal:       "proposal",
		QuotedPrice:    &price,
		Status:         models.ApplicationSubmitted,
	})
	require.ErrorIs(t, err, db.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHasApplication(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(1) FROM application WHERE tender_id = $1 AND organization_id = $2`)).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	has, err := s.HasApplication(context.Background(), 1, 2)
	require.NoError(t, err)
	require.True(t, has)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApplicationForParticipantRejectsOutsider(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT a.* FROM application a`)).
		WithArgs(5, 77).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetApplicationForParticipant(context.Background(), 5, 77)
	require.ErrorIs(t, err, db.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateApplicationStatus(t *testing.T) {
	s, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE application`)).
		WithArgs(models.ApplicationAccepted, 5).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	a := &models.Application{ID: 5, Status: models.ApplicationAccepted}
	require.NoError(t, s.UpdateApplicationStatus(context.Background(), a))
	require.WithinDuration(t, now, a.UpdatedAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTenderDetailIncludesApplicationCount(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM tender t`)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "application_count"}).
			AddRow(4, "Office fit-out", 6))

	d, err := s.GetTenderDetail(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, 6, d.ApplicationCount)
	require.NoError(t, mock.ExpectationsWereMet())
}
