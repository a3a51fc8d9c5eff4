package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"choretrack/choretrack/middleware"
	"choretrack/choretrack/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// payload is shorthand for JSON request bodies.
type payload = map[string]interface{}

// newTestRouter builds a router whose auth middleware is replaced by a stub
// that injects the given viewer.
func newTestRouter(viewer models.Viewer) (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api")
	group.Use(func(c *gin.Context) {
		middleware.SetViewer(c, viewer)
		c.Next()
	})
	return router, group
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}
