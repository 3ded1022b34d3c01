package handlers

import (
	"context"

	"tendermarket/db"
	"tendermarket/models"
)

type StorageInterface interface {
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccount(ctx context.Context, id int) (*models.Account, error)
	CreateAccountWithOrganization(ctx context.Context, a *models.Account, o *models.Organization) error

	GetOrganization(ctx context.Context, id int) (*models.Organization, error)
	GetOrganizationByAccount(ctx context.Context, accountID int) (*models.Organization, error)
	UpdateOrganization(ctx context.Context, o *models.Organization) error

	CreateTender(ctx context.Context, t *models.Tender) error
	GetTender(ctx context.Context, id int) (*models.Tender, error)
	GetTenderForOrganization(ctx context.Context, id, organizationID int) (*models.Tender, error)
	GetTenderDetail(ctx context.Context, id int) (*models.TenderDetail, error)
	UpdateTender(ctx context.Context, t *models.Tender) error
	ListTenders(ctx context.Context, f db.TenderFilter) ([]models.Tender, int, error)
	ListOrganizationTenders(ctx context.Context, organizationID, limit, offset int) ([]models.Tender, error)

	CreateApplication(ctx context.Context, a *models.Application) error
	GetApplication(ctx context.Context, id int) (*models.Application, error)
	GetApplicationForParticipant(ctx context.Context, id, organizationID int) (*models.Application, error)
	HasApplication(ctx context.Context, tenderID, organizationID int) (bool, error)
	ListTenderApplications(ctx context.Context, tenderID, limit, offset int) ([]models.Application, error)
	ListOrganizationApplications(ctx context.Context, organizationID, limit, offset int) ([]models.Application, error)
	UpdateApplicationStatus(ctx context.Context, a *models.Application) error

	CreateGoodsService(ctx context.Context, g *models.GoodsService) error
	ListOrganizationGoods(ctx context.Context, organizationID int) ([]models.GoodsService, error)
	UpdateGoodsService(ctx context.Context, g *models.GoodsService) error
	DeleteGoodsService(ctx context.Context, id, organizationID int) error

	SearchCompanies(ctx context.Context, q, industry string, limit, offset int) ([]models.Organization, error)
	SearchTenders(ctx context.Context, q, industry string, status models.TenderStatus, limit, offset int) ([]models.Tender, error)
}
