package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/tsvrsm/backoffice/internal/auth"
	"github.com/tsvrsm/backoffice/internal/models"
	"github.com/tsvrsm/backoffice/internal/session"
)

// SessionService is the boundary the auth endpoints call into.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*session.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string)
}

type AuthHandler struct {
	sessions SessionService
}

func NewAuthHandler(sessions SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	pair, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	access, err := h.sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{AccessToken: access, TokenType: "bearer"})
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout always reports success: failing to log out is worse UX than a
// no-op, and a swallowed revocation leaves the token valid only until its
// natural expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	h.sessions.Logout(r.Context(), req.RefreshToken)

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

type meResponse struct {
	ID                   int64    `json:"id"`
	Email                string   `json:"email"`
	FirstName            string   `json:"first_name"`
	LastName             string   `json:"last_name"`
	Status               string   `json:"status"`
	Roles                []string `json:"roles"`
	AccessibleCompanyIDs []int64  `json:"accessible_company_ids"`
}

// Me returns the resolved identity with its role codes and the company
// scope derived from its store-access grants.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.IdentityFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "no identity in context")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		ID:                   user.ID,
		Email:                user.Email,
		FirstName:            user.FirstName,
		LastName:             user.LastName,
		Status:               user.Status,
		Roles:                sortedRoleCodes(user),
		AccessibleCompanyIDs: sortedCompanyIDs(auth.AccessibleCompanyIDs(user)),
	})
}

func writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrUnauthenticated) {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func sortedRoleCodes(user *models.User) []string {
	codes := make([]string, 0, len(user.Roles))
	for code := range user.RoleCodes() {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func sortedCompanyIDs(ids map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
