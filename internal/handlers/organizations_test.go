package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"tendermarket/db"
	"tendermarket/internal/handlers/testutils"
	"tendermarket/models"
)

func TestGetCompanyHandler(t *testing.T) {
	h := newTestHandler(&MockStorage{
		GetOrganizationFunc: func(ctx context.Context, id int) (*models.Organization, error) {
			return &models.Organization{ID: id, Name: "Acme Ltd", Industry: "Construction"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/companies/3", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"companyId": "3"})
	w := httptest.NewRecorder()

	h.GetCompanyHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	env := decodeEnvelope(t, res)
	require.True(t, env.Success)
	require.Contains(t, string(env.Data), `"Acme Ltd"`)
	require.Contains(t, string(env.Data), `"goodsServices"`)
}

func TestGetCompanyHandlerNotFound(t *testing.T) {
	h := newTestHandler(&MockStorage{
		GetOrganizationFunc: func(ctx context.Context, id int) (*models.Organization, error) {
			return nil, db.ErrNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/companies/99", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"companyId": "99"})
	w := httptest.NewRecorder()

	h.GetCompanyHandler(w, req)

	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestGetCompanyHandlerBadID(t *testing.T) {
	h := newTestHandler(&MockStorage{})

	req := httptest.NewRequest(http.MethodGet, "/api/companies/abc", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"companyId": "abc"})
	w := httptest.NewRecorder()

	h.GetCompanyHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestUpdateMyOrganizationHandlerMergesFields(t *testing.T) {
	var saved *models.Organization
	h := newTestHandler(&MockStorage{
		GetOrganizationFunc: func(ctx context.Context, id int) (*models.Organization, error) {
			return &models.Organization{
				ID:       id,
				Name:     "Acme Ltd",
				Industry: "Construction",
				Address:  "1 Main St",
			}, nil
		},
		UpdateOrganizationFunc: func(ctx context.Context, o *models.Organization) error {
			saved = o
			return nil
		},
	})

	body := `{"description":"We build things","contactPhone":" +1 555 0100 "}`
	req := httptest.NewRequest(http.MethodPut, "/api/organizations/me", strings.NewReader(body))
	req = asOrganization(req, 1, 4)
	w := httptest.NewRecorder()

	h.UpdateMyOrganizationHandler(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)
	require.NotNil(t, saved)
	require.Equal(t, "We build things", saved.Description)
	require.Equal(t, "+1 555 0100", saved.ContactPhone)
	// Fields absent from the request keep their stored values.
	require.Equal(t, "Acme Ltd", saved.Name)
	require.Equal(t, "1 Main St", saved.Address)
}

func TestUpdateMyOrganizationHandlerEmptyName(t *testing.T) {
	h := newTestHandler(&MockStorage{})

	req := httptest.NewRequest(http.MethodPut, "/api/organizations/me", strings.NewReader(`{"name":"  "}`))
	req = asOrganization(req, 1, 4)
	w := httptest.NewRecorder()

	h.UpdateMyOrganizationHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestUpdateMyOrganizationHandlerWithoutOrganization(t *testing.T) {
	h := newTestHandler(&MockStorage{})

	req := httptest.NewRequest(http.MethodPut, "/api/organizations/me", strings.NewReader(`{}`))
	req = asOrganization(req, 1, 0)
	w := httptest.NewRecorder()

	h.UpdateMyOrganizationHandler(w, req)

	require.Equal(t, http.StatusForbidden, w.Result().StatusCode)
}

func TestCreateGoodsHandler(t *testing.T) {
	var created *models.GoodsService
	h := newTestHandler(&MockStorage{
		CreateGoodsServiceFunc: func(ctx context.Context, g *models.GoodsService) error {
			g.ID = 12
			created = g
			return nil
		},
	})

	body := `{"name":"Steel beams","category":"Materials","tags":["steel","beams"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/organizations/me/goods", strings.NewReader(body))
	req = asOrganization(req, 1, 4)
	w := httptest.NewRecorder()

	h.CreateGoodsHandler(w, req)

	require.Equal(t, http.StatusCreated, w.Result().StatusCode)
	require.NotNil(t, created)
	require.Equal(t, 4, created.OrganizationID)
	require.Equal(t, "Steel beams", created.Name)
	require.Len(t, created.Tags, 2)
}

func TestCreateGoodsHandlerMissingName(t *testing.T) {
	h := newTestHandler(&MockStorage{})

	req := httptest.NewRequest(http.MethodPost, "/api/organizations/me/goods", strings.NewReader(`{"name":""}`))
	req = asOrganization(req, 1, 4)
	w := httptest.NewRecorder()

	h.CreateGoodsHandler(w, req)

	require.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestUpdateGoodsHandlerForeignRowNotFound(t *testing.T) {
	h := newTestHandler(&MockStorage{
		UpdateGoodsServiceFunc: func(ctx context.Context, g *models.GoodsService) error {
			return db.ErrNotFound
		},
	})

	body := `{"name":"Steel beams"}`
	req := httptest.NewRequest(http.MethodPut, "/api/goods/8", strings.NewReader(body))
	req = testutils.WithChiURLParams(req, map[string]string{"goodsId": "8"})
	req = asOrganization(req, 1, 4)
	w := httptest.NewRecorder()

	h.UpdateGoodsHandler(w, req)

	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestDeleteGoodsHandler(t *testing.T) {
	var gotID, gotOrg int
	h := newTestHandler(&MockStorage{
		DeleteGoodsServiceFunc: func(ctx context.Context, id, organizationID int) error {
			gotID, gotOrg = id, organizationID
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/goods/8", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"goodsId": "8"})
	req = asOrganization(req, 1, 4)
	w := httptest.NewRecorder()

	h.DeleteGoodsHandler(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)
	require.Equal(t, 8, gotID)
	require.Equal(t, 4, gotOrg)
}

func TestDeleteGoodsHandlerMissing(t *testing.T) {
	h := newTestHandler(&MockStorage{
		DeleteGoodsServiceFunc: func(ctx context.Context, id, organizationID int) error {
			return db.ErrNotFound
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/goods/404", nil)
	req = testutils.WithChiURLParams(req, map[string]string{"goodsId": "404"})
	req = asOrganization(req, 1, 4)
	w := httptest.NewRecorder()

	h.DeleteGoodsHandler(w, req)

	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestGetMyGoodsHandler(t *testing.T) {
	h := newTestHandler(&MockStorage{
		ListOrganizationGoodsFunc: func(ctx context.Context, organizationID int) ([]models.GoodsService, error) {
			return []models.GoodsService{{ID: 1, OrganizationID: organizationID, Name: "Steel beams"}}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/organizations/me/goods", nil)
	req = asOrganization(req, 1, 4)
	w := httptest.NewRecorder()

	h.GetMyGoodsHandler(w, req)

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	env := decodeEnvelope(t, res)
	require.Contains(t, string(env.Data), `"Steel beams"`)
}
