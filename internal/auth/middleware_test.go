package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tsvrsm/backoffice/internal/models"
)

func newTestMiddleware(t *testing.T, users map[int64]*models.User) (*Middleware, *Codec) {
	t.Helper()
	codec := NewCodec("test-secret")
	store := &fakeStore{users: users}
	return NewMiddleware(NewEvaluator(store, codec, &fakeLedger{})), codec
}

func TestAuthenticateMiddleware(t *testing.T) {
	user := userWithRoles(42, models.StatusActive, models.RoleStaff)
	mw, codec := newTestMiddleware(t, map[int64]*models.User{42: user})

	var gotIdentity *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := mw.Authenticate(next)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["error"] == "" {
			t.Fatalf("expected JSON error body")
		}
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		token, err := codec.Issue(NewClaims(42, "a@x.com"), TokenKindAccess, time.Minute)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotIdentity == nil || gotIdentity.ID != 42 {
			t.Fatalf("identity not attached to context: %+v", gotIdentity)
		}
	})
}

func withIdentity(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(WithIdentity(context.Background(), u))
}

func TestRoleRequiredMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guard := RoleRequired(models.RolePlatformAdmin, models.RoleCompanyAdmin)(next)

	t.Run("no identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("insufficient role names required roles", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := withIdentity(httptest.NewRequest(http.MethodGet, "/", nil), userWithRoles(1, models.StatusActive, models.RoleStaff))
		guard.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, models.RolePlatformAdmin) || !strings.Contains(body, models.RoleCompanyAdmin) {
			t.Fatalf("403 body must name required roles: %s", body)
		}
	})

	t.Run("sufficient role passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := withIdentity(httptest.NewRequest(http.MethodGet, "/", nil), userWithRoles(1, models.StatusActive, models.RoleCompanyAdmin))
		guard.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestPermissionRequiredMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guard := PermissionRequired("customer:manage")(next)

	user := &models.User{ID: 1, Status: models.StatusActive, Roles: []models.Role{
		{Code: models.RoleStaff, Permissions: map[string]bool{"customer:view": true}},
	}}

	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/", nil), user))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "customer:manage") {
		t.Fatalf("403 body must name required permission: %s", rec.Body.String())
	}

	user.Roles = append(user.Roles, models.Role{Code: models.RoleCompanyAdmin, Permissions: map[string]bool{"customer:manage": true}})
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/", nil), user))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 once any role grants it, got %d", rec.Code)
	}
}
