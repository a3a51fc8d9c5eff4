package routes

import (
	"net/http"

	"choretrack/choretrack/database"
	"choretrack/choretrack/middleware"
	"choretrack/choretrack/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createCompletionRequestBody struct {
	TaskID string `json:"task_id" binding:"required"`
}

type resolveCompletionRequestBody struct {
	Action string `json:"action" binding:"required"`
}

func RegisterCompletionRequestRoutes(group *gin.RouterGroup, db *database.Database, requestService services.CompletionRequestServiceInterface) {
	group.GET("/task-completion-requests", func(c *gin.Context) { GetPendingCompletionRequests(c, db, requestService) })
	group.POST("/task-completion-requests", func(c *gin.Context) { CreateCompletionRequest(c, db, requestService) })
	group.POST("/task-completion-requests/:id", func(c *gin.Context) { ResolveCompletionRequest(c, db, requestService) })
}

func GetPendingCompletionRequests(c *gin.Context, db *database.Database, requestService services.CompletionRequestServiceInterface) {
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

func CreateCompletionRequest(c *gin.Context, db *database.Database, requestService services.CompletionRequestServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body createCompletionRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	taskID, err := uuid.Parse(body.TaskID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task_id"})
		return
	}

	request, err := requestService.RequestCompletion(db, viewer, taskID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

func ResolveCompletionRequest(c *gin.Context, db *database.Database, requestService services.CompletionRequestServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body resolveCompletionRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var approve bool
	switch body.Action {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
		return
	}

	request, err := requestService.ResolveRequest(db, viewer, c.Param("id"), approve)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}
