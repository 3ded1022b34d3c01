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

const minProposalLength = 50

type applicationRequest struct {
	TenderID    int    `json:"tenderId"`
	Proposal    string `json:"proposal"`
	QuotedPrice *int64 `json:"quotedPrice"`
}

type applicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status"`
}

// CreateApplicationHandler handles POST /api/applications. A tender must be
// published and its deadline still ahead; one application per
// (tender, organization) pair.
func (h *Handler) CreateApplicationHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity.OrganizationID == 0 {
		respondError(w, http.StatusForbidden, "an organization is required to apply")
		return
	}

	var req applicationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TenderID <= 0 {
		respondError(w, http.StatusBadRequest, "tenderId is required")
		return
	}
	if len(strings.TrimSpace(req.Proposal)) < minProposalLength {
		respondError(w, http.StatusBadRequest, "proposal must be at least 50 characters")
		return
	}
	if req.QuotedPrice != nil && *req.QuotedPrice <= 0 {
		respondError(w, http.StatusBadRequest, "quotedPrice must be positive")
		return
	}

	tender, err := h.Store.GetTender(r.Context(), req.TenderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondNotFound(w, "tender")
			return
		}
		h.respondInternal(w, r, err)
		return
	}
	// Deadline is checked regardless of status.
	if time.Now().After(tender.Deadline) {
		respondError(w, http.StatusBadRequest, "tender deadline has passed")
		return
	}
	if tender.Status != models.TenderPublished {
		respondError(w, http.StatusBadRequest, "tender is not open for applications")
		return
	}

	exists, err := h.Store.HasApplication(r.Context(), tender.ID, identity.OrganizationID)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if exists {
		respondError(w, http.StatusConflict, "application already submitted for this tender")
		return
	}

	application := &models.Application{
		TenderID:       tender.ID,
		OrganizationID: identity.OrganizationID,
		Proposal:       strings.TrimSpace(req.Proposal),
		QuotedPrice:    req.QuotedPrice,
		Status:         models.ApplicationSubmitted,
	}
	if err := h.Store.CreateApplication(r.Context(), application); err != nil {
		// Unique constraint backstop for the concurrent-submission race.
		if errors.Is(err, db.ErrDuplicate) {
			respondError(w, http.StatusConflict, "application already submitted for this tender")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, application)
}

// UpdateApplicationStatusHandler handles
// PATCH /api/applications/{applicationId}/status. Only the organization
// that owns the parent tender may change the status; anyone else sees the
// merged 404. Any valid status value is accepted regardless of the current
// one.
func (h *Handler) UpdateApplicationStatusHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity.OrganizationID == 0 {
		respondNotFound(w, "application")
		return
	}

	applicationID, err := strconv.Atoi(chi.URLParam(r, "applicationId"))
	if err != nil || applicationID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid application id")
		return
	}

	var req applicationStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !models.ValidApplicationStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "invalid status value")
		return
	}

	application, err := h.Store.GetApplication(r.Context(), applicationID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondNotFound(w, "application")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	// Ownership is re-verified on every call, never carried over.
	_, err = h.Store.GetTenderForOrganization(r.Context(), application.TenderID, identity.OrganizationID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondNotFound(w, "application")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	application.Status = req.Status
	if err := h.Store.UpdateApplicationStatus(r.Context(), application); err != nil {
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusOK, application)
}

// GetApplicationHandler handles GET /api/applications/{applicationId}.
// Visible only to the applicant or the tender owner.
func (h *Handler) GetApplicationHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity.OrganizationID == 0 {
		respondNotFound(w, "application")
		return
	}

	applicationID, err := strconv.Atoi(chi.URLParam(r, "applicationId"))
	if err != nil || applicationID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid application id")
		return
	}

	application, err := h.Store.GetApplicationForParticipant(r.Context(), applicationID, identity.OrganizationID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondNotFound(w, "application")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusOK, application)
}

// GetMyApplicationsHandler handles GET /api/applications/my for the
// caller's organization.
func (h *Handler) GetMyApplicationsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || identity.OrganizationID == 0 {
		respondError(w, http.StatusForbidden, "an organization is required")
		return
	}

	params := parsePageParams(r)
	apps, err := h.Store.ListOrganizationApplications(r.Context(), identity.OrganizationID, params.Limit, params.offset())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondData(w, http.StatusOK, apps)
}

// GetTenderApplicationsHandler handles GET /api/tenders/{tenderId}/applications.
// Only the tender-owning organization may list them; others see the merged
// 404.
func (h *Handler) GetTenderApplicationsHandler(w http.ResponseWriter, r *http.Request) {
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

	if _, err := h.Store.GetTenderForOrganization(r.Context(), tenderID, identity.OrganizationID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondNotFound(w, "tender")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	params := parsePageParams(r)
	apps, err := h.Store.ListTenderApplications(r.Context(), tenderID, params.Limit, params.offset())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	respondData(w, http.StatusOK, apps)
}
