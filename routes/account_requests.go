package routes

import (
	"net/http"

	"choretrack/choretrack/database"
	"choretrack/choretrack/middleware"
	"choretrack/choretrack/models"
	"choretrack/choretrack/services"

	"github.com/gin-gonic/gin"
)

type resolveAccountRequestBody struct {
	Action string `json:"action" binding:"required"`
}

// RegisterAccountRequestRoutes mounts the admin-only account approval
// endpoints.
func RegisterAccountRequestRoutes(group *gin.RouterGroup, db *database.Database, requestService services.AccountRequestServiceInterface) {
	group.GET("/account-requests", func(c *gin.Context) { GetPendingAccountRequests(c, db, requestService) })
	group.POST("/account-requests/:id", func(c *gin.Context) { ResolveAccountRequest(c, db, requestService) })
}

func GetPendingAccountRequests(c *gin.Context, db *database.Database, requestService services.AccountRequestServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requests, err := requestService.GetPendingRequests(db, viewer)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func ResolveAccountRequest(c *gin.Context, db *database.Database, requestService services.AccountRequestServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body resolveAccountRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, err := models.AccountRequestActionFromString(body.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
		return
	}

	request, err := requestService.ResolveRequest(db, viewer, c.Param("id"), action)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}
