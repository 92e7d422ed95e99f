package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/strixun/modvault/pkg/configs"
	ctxPkg "github.com/strixun/modvault/pkg/context"
	"github.com/strixun/modvault/pkg/internal/model"
)

func authTestRouter(conf configs.AuthConfig, capture **model.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(AuthMiddleware(conf))
	r.GET("/probe", func(c *gin.Context) {
		*capture = ctxPkg.GetPrincipal(c.Request.Context())
		c.Status(http.StatusOK)
	})

	return r
}

func defaultAuthConfig() configs.AuthConfig {
	return configs.AuthConfig{
		Enabled:      true,
		PrincipalHdr: "X-Auth-Principal",
		TenantHdr:    "X-Auth-Tenant",
		RolesHdr:     "X-Auth-Roles",
	}
}

func TestAuthMiddlewareBuildsPrincipal(t *testing.T) {
	var got *model.Principal

	r := authTestRouter(defaultAuthConfig(), &got)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Auth-Principal", "u-1")
	req.Header.Set("X-Auth-Tenant", "acme")
	req.Header.Set("X-Auth-Roles", "member, admin")
	req.Header.Set("Authorization", "Bearer tok-123")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}

	if got == nil {
		t.Fatal("expected a principal in the request context")
	}

	if got.ID != "u-1" || got.TenantID != "acme" || !got.Admin || got.BearerToken != "tok-123" {
		t.Fatalf("unexpected principal %+v", got)
	}
}

func TestAuthMiddlewareAnonymousPassesThrough(t *testing.T) {
	var got *model.Principal

	r := authTestRouter(defaultAuthConfig(), &got)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("anonymous request should pass, got %d", w.Code)
	}

	if !got.Anonymous() {
		t.Fatalf("expected anonymous principal, got %+v", got)
	}
}

// TestAuthMiddlewareTokenWithoutIdentity 只带 Bearer 令牌的请求：
// 身份仍是匿名，但令牌要随上下文传递给密钥派生.
func TestAuthMiddlewareTokenWithoutIdentity(t *testing.T) {
	var got *model.Principal

	r := authTestRouter(defaultAuthConfig(), &got)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer tok-badge")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}

	if got == nil {
		t.Fatal("expected a principal carrying the token")
	}

	if !got.Anonymous() {
		t.Fatalf("token without identity headers must stay anonymous, got %+v", got)
	}

	if got.BearerToken != "tok-badge" {
		t.Fatalf("expected bearer token to be captured, got %q", got.BearerToken)
	}
}

func TestAuthMiddlewareIgnoresNonBearerAuthorization(t *testing.T) {
	var got *model.Principal

	r := authTestRouter(defaultAuthConfig(), &got)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Auth-Principal", "u-1")
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got == nil || got.HasToken() {
		t.Fatalf("basic auth should not yield a bearer token, got %+v", got)
	}

	if got.Admin {
		t.Fatal("no roles header should not grant admin")
	}
}
