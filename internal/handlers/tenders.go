package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"tendermarket/db"
	"tendermarket/internal/auth"
	"tendermarket/models"
)

type pageParams struct {
	Page  int
	Limit int
}

func (p pageParams) offset() int {
	return (p.Page - 1) * p.Limit
}

// parsePageParams reads page and limit from the query, with defaults and
// caps.
func parsePageParams(r *http.Request) pageParams {
	params := pageParams{Page: 1, Limit: 20}

	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			params.Page = v
		}
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 100 {
			params.Limit = v
		}
	}
	return params
}

type tenderRequest struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Requirements string               `json:"requirements"`
	BudgetMin    *int64               `json:"budgetMin"`
	BudgetMax    *int64               `json:"budgetMax"`
	Deadline     time.Time            `json:"deadline"`
	Status       *models.TenderStatus `json:"status"`
}

func validateTenderRequest(req *tenderRequest) error {
	if len(strings.TrimSpace(req.Title)) < 5 {
		return errors.New("title must be at least 5 characters")
	}
	if len(strings.TrimSpace(req.Description)) < 20 {
		return errors.New("description must be at least 20 characters")
	}
	if req.BudgetMin != nil && *req.BudgetMin <= 0 {
		return errors.New("budgetMin must be positive")
	}
	if req.BudgetMax != nil && *req.BudgetMax <= 0 {
		return errors.New("budgetMax must be positive")
	}
	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		return errors.New("budgetMin must not exceed budgetMax")
	}
	if req.Deadline.IsZero() {
		return errors.New("deadline is required")
	}
	if !req.Deadline.After(time.Now()) {
		return errors.New("deadline must be in the future")
	}
	return nil
}

type paginationInfo struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type tenderListResponse struct {
	Tenders    []models.Tender `json:"tenders"`
	Pagination paginationInfo  `json:"pagination"`
}

// CreateTenderHandler handles POST /api/tenders. The caller must own an
// organization; the tender starts in draft or published (default).
func (h *Handler) CreateTenderHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity.OrganizationID == 0 {
		respondError(w, http.StatusForbidden, "an organization is required to post tenders")
		return
	}

	var req tenderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateTenderRequest(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := models.TenderPublished
	if req.Status != nil {
		if *req.Status != models.TenderDraft && *req.Status != models.TenderPublished {
			respondError(w, http.StatusBadRequest, "status must be draft or published on creation")
			return
		}
		status = *req.Status
	}

	tender := &models.Tender{
		OrganizationID: identity.OrganizationID,
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Requirements:   strings.TrimSpace(req.Requirements),
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		Deadline:       req.Deadline,
		Status:         status,
	}
	if err := h.Store.CreateTender(r.Context(), tender); err != nil {
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, tender)
}

// GetTendersHandler handles GET /api/tenders with status/search filters and
// page/limit pagination. Without an explicit status filter only published
// tenders are listed.
func (h *Handler) GetTendersHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePageParams(r)

	status := models.TenderPublished
	if s := r.URL.Query().Get("status"); s != "" {
		status = models.TenderStatus(s)
		if !models.ValidTenderStatus(status) {
			respondError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
	}

	tenders, total, err := h.Store.ListTenders(r.Context(), db.TenderFilter{
		Status: status,
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Limit:  params.Limit,
		Offset: params.offset(),
	})
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}

	pages := total / params.Limit
	if total%params.Limit != 0 {
		pages++
	}
	respondData(w, http.StatusOK, tenderListResponse{
		Tenders: tenders,
		Pagination: paginationInfo{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
			Pages: pages,
		},
	})
}

// GetTenderHandler handles GET /api/tenders/{tenderId} with the embedded
// application count.
func (h *Handler) GetTenderHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := strconv.Atoi(chi.URLParam(r, "tenderId"))
	if err != nil || tenderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid tender id")
		return
	}

	tender, err := h.Store.GetTenderDetail(r.Context(), tenderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondNotFound(w, "tender")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusOK, tender)
}

// GetMyTendersHandler handles GET /api/tenders/my for the caller's
// organization.
func (h *Handler) GetMyTendersHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity.OrganizationID == 0 {
		respondError(w, http.StatusForbidden, "an organization is required")
		return
	}

	params := parsePageParams(r)
	tenders, err := h.Store.ListOrganizationTenders(r.Context(), identity.OrganizationID, params.Limit, params.offset())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondData(w, http.StatusOK, tenders)
}

type tenderUpdateRequest struct {
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	Requirements *string              `json:"requirements"`
	BudgetMin    *int64               `json:"budgetMin"`
	BudgetMax    *int64               `json:"budgetMax"`
	Deadline     *time.Time           `json:"deadline"`
	Status       *models.TenderStatus `json:"status"`
}

// UpdateTenderHandler handles PUT /api/tenders/{tenderId}. A tender that is
// absent or owned by someone else answers the same 404. Status changes must
// follow the forward-only lifecycle.
func (h *Handler) UpdateTenderHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity.OrganizationID == 0 {
		respondNotFound(w, "tender")
		return
	}

	tenderID, err := strconv.Atoi(chi.URLParam(r, "tenderId"))
	if err != nil || tenderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid tender id")
		return
	}

	var req tenderUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tender, err := h.Store.GetTenderForOrganization(r.Context(), tenderID, identity.OrganizationID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondNotFound(w, "tender")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	if req.Title != nil {
		tender.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		tender.Description = strings.TrimSpace(*req.Description)
	}
	if req.Requirements != nil {
		tender.Requirements = strings.TrimSpace(*req.Requirements)
	}
	if req.BudgetMin != nil {
		tender.BudgetMin = req.BudgetMin
	}
	if req.BudgetMax != nil {
		tender.BudgetMax = req.BudgetMax
	}
	if req.Deadline != nil {
		if !req.Deadline.After(time.Now()) {
			respondError(w, http.StatusBadRequest, "deadline must be in the future")
			return
		}
		tender.Deadline = *req.Deadline
	}

	if len(tender.Title) < 5 {
		respondError(w, http.StatusBadRequest, "title must be at least 5 characters")
		return
	}
	if len(tender.Description) < 20 {
		respondError(w, http.StatusBadRequest, "description must be at least 20 characters")
		return
	}
	if tender.BudgetMin != nil && *tender.BudgetMin <= 0 || tender.BudgetMax != nil && *tender.BudgetMax <= 0 {
		respondError(w, http.StatusBadRequest, "budget bounds must be positive")
		return
	}
	if tender.BudgetMin != nil && tender.BudgetMax != nil && *tender.BudgetMin > *tender.BudgetMax {
		respondError(w, http.StatusBadRequest, "budgetMin must not exceed budgetMax")
		return
	}

	if req.Status != nil {
		if !models.ValidTenderStatus(*req.Status) {
			respondError(w, http.StatusBadRequest, "invalid status value")
			return
		}
		if !models.CanTransitionTender(tender.Status, *req.Status) {
			respondError(w, http.StatusBadRequest, "invalid status transition")
			return
		}
		tender.Status = *req.Status
	}

	if err := h.Store.UpdateTender(r.Context(), tender); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondNotFound(w, "tender")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusOK, tender)
}
