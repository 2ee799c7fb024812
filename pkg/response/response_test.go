package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/videohub/pkg/apperr"
)

func init() { gin.SetMode(gin.TestMode) }

func run(h gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var r Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return r
}

func TestSuccess(t *testing.T) {
	w := run(func(c *gin.Context) { Success(c, gin.H{"state": "added"}) })
	assert.Equal(t, http.StatusOK, w.Code)
	r := decode(t, w)
	assert.Equal(t, 0, r.Code)
	assert.Equal(t, "added", r.Data.(map[string]interface{})["state"])
}

func TestErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err       error
		status    int
		retryable bool
	}{
		{apperr.InvalidArgument("cannot subscribe to own channel"), http.StatusBadRequest, false},
		{apperr.NotFound("video"), http.StatusNotFound, false},
		{apperr.Conflict("reaction changed concurrently"), http.StatusConflict, true},
		{apperr.Unavailable("reactions.create", errors.New("dial tcp: timeout")), http.StatusServiceUnavailable, true},
		{errors.New("unexpected"), http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		w := run(func(c *gin.Context) { Error(c, tc.err) })
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		r := decode(t, w)
		body := r.Data.(map[string]interface{})
		assert.Equal(t, tc.retryable, body["retryable"])
		if tc.retryable {
			assert.Equal(t, "1", w.Header().Get("Retry-After"))
		}
		assert.NotContains(t, r.Message, "dial tcp")
	}
}
