package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWriteJSONWithCache_SetsETagAndCacheControl(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/trips/1", nil)

	writeJSONWithCache(c, http.StatusOK, gin.H{"id": 1}, "private, max-age=3", true)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "private, max-age=3", w.Header().Get("Cache-Control"))

	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)
	assert.Contains(t, tag, "W/")
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
}

func TestWriteJSONWithCache_NotModified(t *testing.T) {
	first := httptest.NewRecorder()
	c1, _ := gin.CreateTestContext(first)
	c1.Request = httptest.NewRequest(http.MethodGet, "/trips/1", nil)
	writeJSONWithCache(c1, http.StatusOK, gin.H{"id": 1}, "", true)

	tag := first.Header().Get("ETag")
	require.NotEmpty(t, tag)

	second := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(second)
	c2.Request = httptest.NewRequest(http.MethodGet, "/trips/1", nil)
	c2.Request.Header.Set("If-None-Match", tag)
	writeJSONWithCache(c2, http.StatusOK, gin.H{"id": 1}, "", true)
	// CreateTestContext has no engine to flush the buffered status after the
	// handler returns, so flush it here as a real request cycle would.
	c2.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNotModified, second.Code)
	assert.Empty(t, second.Body.String())
}

func TestWriteJSONWithCache_DifferentBodyDifferentTag(t *testing.T) {
	w1 := httptest.NewRecorder()
	c1, _ := gin.CreateTestContext(w1)
	c1.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeJSONWithCache(c1, http.StatusOK, gin.H{"id": 1}, "", true)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeJSONWithCache(c2, http.StatusOK, gin.H{"id": 2}, "", true)

	assert.NotEqual(t, w1.Header().Get("ETag"), w2.Header().Get("ETag"))
}
