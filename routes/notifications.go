package routes

import (
	"net/http"

	"choretrack/choretrack/database"
	"choretrack/choretrack/middleware"
	"choretrack/choretrack/services"

	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes mounts the admin notification badge endpoint.
func RegisterNotificationRoutes(group *gin.RouterGroup, db *database.Database, notificationService services.NotificationServiceInterface) {
	group.GET("/notifications/pending", func(c *gin.Context) { GetPendingSummary(c, db, notificationService) })
}

func GetPendingSummary(c *gin.Context, db *database.Database, notificationService services.NotificationServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	summary, err := notificationService.GetPendingSummary(db, viewer)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
