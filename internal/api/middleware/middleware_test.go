package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/videohub/pkg/auth"
)

func init() { gin.SetMode(gin.TestMode) }

func echoActor(c *gin.Context) { c.String(http.StatusOK, ActorID(c)) }

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	tm := auth.NewTokenManager("secret", "videohub", time.Hour)
	token, err := tm.Issue("3f1c7f39-8d2b-4c55-9a57-6d0f2f0a8d11", "alice")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/", Auth(tm), echoActor)

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer nope").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Basic abc").Code)

	w := serve(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3f1c7f39-8d2b-4c55-9a57-6d0f2f0a8d11", w.Body.String())
}

func TestOptionalAuth(t *testing.T) {
	tm := auth.NewTokenManager("secret", "videohub", time.Hour)
	r := gin.New()
	r.GET("/", OptionalAuth(tm), echoActor)

	w := serve(r, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRateLimit(t *testing.T) {
	l := NewRateLimiter(1, 2)
	r := gin.New()
	r.GET("/", l.Handler(), echoActor)

	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	assert.Equal(t, http.StatusOK, serve(r, "").Code)
	w := serve(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestTimeoutSetsDeadline(t *testing.T) {
	r := gin.New()
	r.GET("/", Timeout(time.Second), func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusNoContent)
	})
	assert.Equal(t, http.StatusNoContent, serve(r, "").Code)
}
