package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"tendermarket/db"
	"tendermarket/internal/auth"
	"tendermarket/models"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token   string               `json:"token"`
	User    *models.Account      `json:"user"`
	Company *models.Organization `json:"company"`
}

type profileResponse struct {
	User    *models.Account      `json:"user"`
	Company *models.Organization `json:"company"`
}

// RegisterHandler handles POST /api/auth/register. The account and its
// organization are created in one transaction.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if !emailPattern.MatchString(req.Email) {
		respondError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if req.CompanyName == "" {
		respondError(w, http.StatusBadRequest, "companyName is required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}

	account := &models.Account{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "organization",
	}
	company := &models.Organization{
		Name:         req.CompanyName,
		Industry:     strings.TrimSpace(req.Industry),
		Description:  strings.TrimSpace(req.Description),
		ContactEmail: req.Email,
	}

	if err := h.Store.CreateAccountWithOrganization(r.Context(), account, company); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			respondError(w, http.StatusConflict, "email is already registered")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	token, err := auth.GenerateToken(auth.Identity{
		AccountID:      account.ID,
		Email:          account.Email,
		OrganizationID: company.ID,
	}, h.TokenTTL)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, sessionResponse{Token: token, User: account, Company: company})
}

// LoginHandler handles POST /api/auth/login. Bad credentials answer 401
// without saying which part was wrong.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	account, err := h.Store.GetAccountByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.respondInternal(w, r, err)
		return
	}
	if err := auth.VerifyPassword(account.PasswordHash, req.Password); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	var company *models.Organization
	orgID := 0
	company, err = h.Store.GetOrganizationByAccount(r.Context(), account.ID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			h.respondInternal(w, r, err)
			return
		}
		company = nil
	} else {
		orgID = company.ID
	}

	token, err := auth.GenerateToken(auth.Identity{
		AccountID:      account.ID,
		Email:          account.Email,
		OrganizationID: orgID,
	}, h.TokenTTL)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}

	respondData(w, http.StatusOK, sessionResponse{Token: token, User: account, Company: company})
}

// ProfileHandler handles GET /api/auth/profile.
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	account, err := h.Store.GetAccount(r.Context(), identity.AccountID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusForbidden, "invalid or expired token")
			return
		}
		h.respondInternal(w, r, err)
		return
	}

	var company *models.Organization
	company, err = h.Store.GetOrganizationByAccount(r.Context(), account.ID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			h.respondInternal(w, r, err)
			return
		}
		company = nil
	}

	respondData(w, http.StatusOK, profileResponse{User: account, Company: company})
}
