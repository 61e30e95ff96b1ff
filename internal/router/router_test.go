package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"dapurku/internal/auth"
	"dapurku/internal/ingredient"
	"dapurku/internal/localstore"
	"dapurku/internal/recipe"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	local, err := localstore.Open(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	t.Cleanup(func() { local.Close() })

	authSvc := auth.NewService(auth.NewInMemoryUserRepository())
	return SetupRouter(
		auth.NewHandler(authSvc, local),
		ingredient.NewHandler(nil),
		recipe.NewHandler(nil, nil),
	)
}

func TestHealth(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := testRouter(t)

	for _, path := range []string{"/ingredients", "/recipes", "/draft"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s status = %d, want 401", path, w.Code)
		}
	}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := testRouter(t)

	body := `{"name":"Rina","email":"rina@example.com","password":"rahasia123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}

	login := `{"email":"rina@example.com","password":"rahasia123"}`
	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(login))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestProfileNamePersists(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r := testRouter(t)

	body := `{"name":"Rina","email":"rina@example.com","password":"rahasia123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}

	var reg struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &reg); err != nil {
		t.Fatalf("decode register response: %v", err)
	}

	// The name set at registration is readable right away.
	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+reg.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Rina") {
		t.Fatalf("profile status = %d, body %s", w.Code, w.Body.String())
	}

	// A rename sticks.
	req = httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(`{"name":"Bu Rina"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+reg.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("update profile status = %d, body %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+reg.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Bu Rina") {
		t.Fatalf("renamed profile status = %d, body %s", w.Code, w.Body.String())
	}
}
