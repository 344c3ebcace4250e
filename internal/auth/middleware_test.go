package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvePrincipal(t *testing.T, svc *Service, authorization string) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var resolved string
	router := gin.New()
	router.Use(svc.Middleware())
	router.GET("/whoami", func(c *gin.Context) {
		resolved = Principal(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(httptest.NewRecorder(), req)
	return resolved
}

func TestMiddlewareResolvesValidToken(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	token, err := svc.IssueToken("alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", resolvePrincipal(t, svc, "Bearer "+token))
}

func TestMiddlewareMissingTokenIsAnonymous(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	assert.Equal(t, AnonymousPrincipal, resolvePrincipal(t, svc, ""))
}

func TestMiddlewareInvalidTokenIsAnonymous(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	assert.Equal(t, AnonymousPrincipal, resolvePrincipal(t, svc, "Bearer not-a-token"))

	other := NewService("other-secret", time.Hour)
	token, err := other.IssueToken("alice")
	require.NoError(t, err)
	assert.Equal(t, AnonymousPrincipal, resolvePrincipal(t, svc, "Bearer "+token))
}

func TestPrincipalWithoutMiddlewareIsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, AnonymousPrincipal, Principal(c))
}
