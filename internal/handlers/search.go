package handlers

import (
	"net/http"
	"strings"

	"tendermarket/models"
)

type companySearchResponse struct {
	Companies []models.Organization `json:"companies"`
	Page      int                   `json:"page"`
	Limit     int                   `json:"limit"`
	HasMore   bool                  `json:"hasMore"`
}

type tenderSearchResponse struct {
	Tenders []models.Tender `json:"tenders"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	HasMore bool            `json:"hasMore"`
}

// SearchCompaniesHandler handles GET /api/search/companies?q&industry.
// hasMore is inferred from a full-sized page, not a count; it over-reports
// by one page when the match count is an exact multiple of the limit.
func (h *Handler) SearchCompaniesHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePageParams(r)
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	industry := strings.TrimSpace(r.URL.Query().Get("industry"))

	companies, err := h.Store.SearchCompanies(r.Context(), q, industry, params.Limit, params.offset())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusOK, companySearchResponse{
		Companies: companies,
		Page:      params.Page,
		Limit:     params.Limit,
		HasMore:   len(companies) == params.Limit,
	})
}

// SearchTendersHandler handles GET /api/search/tenders?q&industry&status.
// Without an explicit status filter only published tenders are returned.
func (h *Handler) SearchTendersHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePageParams(r)
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	industry := strings.TrimSpace(r.URL.Query().Get("industry"))

	status := models.TenderPublished
	if s := r.URL.Query().Get("status"); s != "" {
		status = models.TenderStatus(s)
		if !models.ValidTenderStatus(status) {
			respondError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
	}

	tenders, err := h.Store.SearchTenders(r.Context(), q, industry, status, params.Limit, params.offset())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusOK, tenderSearchResponse{
		Tenders: tenders,
		Page:    params.Page,
		Limit:   params.Limit,
		HasMore: len(tenders) == params.Limit,
	})
}
