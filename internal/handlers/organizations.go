package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"tendermarket/db"
	"tendermarket/internal/auth"
	"tendermarket/models"
)

type companyResponse struct {
	Company *models.Organization  `json:"company"`
	Goods   []models.GoodsService `json:"goodsServices"`
}

// GetCompanyHandler handles GET /api/companies/{companyId}: the public
// profile with the goods/services the organization lists.
func (h *Handler) GetCompanyHandler(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.Atoi(chi.URLParam(r, "companyId"))
	if err != nil || companyID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid company id")
		return
	}

	company, err := h.Store.GetOrganization(r.Context(), companyID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondNotFound(w, "company")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	goods, err := h.Store.ListOrganizationGoods(r.Context(), company.ID)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusOK, companyResponse{Company: company, Goods: goods})
}

type organizationUpdateRequest struct {
	Name         *string `json:"name"`
	Industry     *string `json:"industry"`
	Description  *string `json:"description"`
	ContactEmail *string `json:"contactEmail"`
	ContactPhone *string `json:"contactPhone"`
	Address      *string `json:"address"`
	LogoURL      *string `json:"logoUrl"`
}

// UpdateMyOrganizationHandler handles PUT /api/organizations/me.
func (h *Handler) UpdateMyOrganizationHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity.OrganizationID == 0 {
		respondError(w, http.StatusForbidden, "an organization is required")
		return
	}

	var req organizationUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	company, err := h.Store.GetOrganization(r.Context(), identity.OrganizationID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondNotFound(w, "company")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			respondError(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		company.Name = name
	}
	if req.Industry != nil {
		company.Industry = strings.TrimSpace(*req.Industry)
	}
	if req.Description != nil {
		company.Description = strings.TrimSpace(*req.Description)
	}
	if req.ContactEmail != nil {
		company.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.ContactPhone != nil {
		company.ContactPhone = strings.TrimSpace(*req.ContactPhone)
	}
	if req.Address != nil {
		company.Address = strings.TrimSpace(*req.Address)
	}
	if req.LogoURL != nil {
		company.LogoURL = strings.TrimSpace(*req.LogoURL)
	}

	if err := h.Store.UpdateOrganization(r.Context(), company); err != nil {
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusOK, company)
}

type goodsServiceRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// GetMyGoodsHandler handles GET /api/organizations/me/goods.
func (h *Handler) GetMyGoodsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity.OrganizationID == 0 {
		respondError(w, http.StatusForbidden, "an organization is required")
		return
	}

	goods, err := h.Store.ListOrganizationGoods(r.Context(), identity.OrganizationID)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondData(w, http.StatusOK, goods)
}

// CreateGoodsHandler handles POST /api/organizations/me/goods.
func (h *Handler) CreateGoodsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity.OrganizationID == 0 {
		respondError(w, http.StatusForbidden, "an organization is required")
		return
	}

	var req goodsServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	goods := &models.GoodsService{
		OrganizationID: identity.OrganizationID,
		Name:           req.Name,
		Description:    strings.TrimSpace(req.Description),
		Category:       strings.TrimSpace(req.Category),
		Tags:           req.Tags,
	}
	if err := h.Store.CreateGoodsService(r.Context(), goods); err != nil {
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, goods)
}

// UpdateGoodsHandler handles PUT /api/goods/{goodsId}; foreign rows answer
// the merged 404.
func (h *Handler) UpdateGoodsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity.OrganizationID == 0 {
		respondNotFound(w, "goods/service")
		return
	}

	goodsID, err := strconv.Atoi(chi.URLParam(r, "goodsId"))
	if err != nil || goodsID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid goods id")
		return
	}

	var req goodsServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	goods := &models.GoodsService{
		ID:             goodsID,
		OrganizationID: identity.OrganizationID,
		Name:           req.Name,
		Description:    strings.TrimSpace(req.Description),
		Category:       strings.TrimSpace(req.Category),
		Tags:           req.Tags,
	}
	if err := h.Store.UpdateGoodsService(r.Context(), goods); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondNotFound(w, "goods/service")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusOK, goods)
}

// DeleteGoodsHandler handles DELETE /api/goods/{goodsId}.
func (h *Handler) DeleteGoodsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity.OrganizationID == 0 {
		respondNotFound(w, "goods/service")
		return
	}

	goodsID, err := strconv.Atoi(chi.URLParam(r, "goodsId"))
	if err != nil || goodsID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid goods id")
		return
	}

	if err := h.Store.DeleteGoodsService(r.Context(), goodsID, identity.OrganizationID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondNotFound(w, "goods/service")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusOK, map[string]bool{"deleted": true})
}
