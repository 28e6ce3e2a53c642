package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"vsm-server/internal/core/auth"
	"vsm-server/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

func newGuardedRouter(j *auth.JWTer, perm domain.Permission) *gin.Engine {
	r := gin.New()
	g := r.Group("/", AuthJWT(j))
	g.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": ActorID(c), "role": string(ActorRole(c))})
	})
	g.GET("/guarded", RequirePerm(perm), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func testJWTer() *auth.JWTer {
	return &auth.JWTer{Secret: []byte("test-secret"), Issuer: "vsm-test", TTL: time.Hour}
}

func doGet(t *testing.T, r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWTMissingToken(t *testing.T) {
	r := newGuardedRouter(testJWTer(), domain.PermAccessAdmin)
	w := doGet(t, r, "/whoami", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("code: got %d, want 401", w.Code)
	}
}

func TestAuthJWTGarbageToken(t *testing.T) {
	r := newGuardedRouter(testJWTer(), domain.PermAccessAdmin)
	w := doGet(t, r, "/whoami", "not-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("code: got %d, want 401", w.Code)
	}
}

func TestAuthJWTWrongSecret(t *testing.T) {
	other := &auth.JWTer{Secret: []byte("other-secret"), Issuer: "vsm-test", TTL: time.Hour}
	tok, err := other.Issue("u-1", "USER")
	if err != nil {
		t.Fatal(err)
	}
	r := newGuardedRouter(testJWTer(), domain.PermAccessAdmin)
	w := doGet(t, r, "/whoami", tok)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("code: got %d, want 401", w.Code)
	}
}

func TestAuthJWTSetsActor(t *testing.T) {
	j := testJWTer()
	tok, err := j.Issue("u-42", "EDITOR")
	if err != nil {
		t.Fatal(err)
	}
	r := newGuardedRouter(j, domain.PermAccessAdmin)
	w := doGet(t, r, "/whoami", tok)
	if w.Code != http.StatusOK {
		t.Fatalf("code: got %d, want 200; body=%s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{"u-42", "EDITOR"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}
}

func TestRequirePerm(t *testing.T) {
	j := testJWTer()
	cases := []struct {
		name string
		role string
		perm domain.Permission
		want int
	}{
		{"user blocked from admin", "USER", domain.PermAccessAdmin, http.StatusForbidden},
		{"editor enters admin", "EDITOR", domain.PermAccessAdmin, http.StatusNoContent},
		{"editor cannot manage users", "EDITOR", domain.PermManageUsers, http.StatusForbidden},
		{"admin manages users", "ADMIN", domain.PermManageUsers, http.StatusNoContent},
		{"unknown role blocked", "GODMODE", domain.PermAccessAdmin, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok, err := j.Issue("u-1", tc.role)
			if err != nil {
				t.Fatal(err)
			}
			r := newGuardedRouter(j, tc.perm)
			w := doGet(t, r, "/guarded", tok)
			if w.Code != tc.want {
				t.Errorf("code: got %d, want %d", w.Code, tc.want)
			}
		})
	}
}
