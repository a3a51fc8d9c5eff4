package middleware

import (
	"net/http"

	"choretrack/choretrack/models"
	"choretrack/choretrack/services"
	"choretrack/choretrack/utils/token"

	"github.com/gin-gonic/gin"
)

const viewerKey = "viewer"

func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		viewer := models.RegularViewer(claims.UserID, claims.Username)
		if claims.IsAdmin {
			viewer = models.AdminViewer(claims.UserID, claims.Username)
		}
		c.Set(viewerKey, viewer)

		c.Next()
	}
}

// ViewerFromContext retrieves the authenticated viewer stored by
// AuthMiddleware.
func ViewerFromContext(c *gin.Context) (models.Viewer, bool) {
	value, exists := c.Get(viewerKey)
	if !exists {
		return models.Viewer{}, false
	}
	viewer, ok := value.(models.Viewer)
	return viewer, ok
}

// SetViewer stores a viewer in the context; used by tests and internal
// dispatch.
func SetViewer(c *gin.Context, viewer models.Viewer) {
	c.Set(viewerKey, viewer)
}
