package routes

import (
	"net/http"

	"choretrack/choretrack/database"
	"choretrack/choretrack/middleware"
	"choretrack/choretrack/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password" binding:"required"`
	TargetUserID    *string `json:"target_user_id"`
}

// RegisterAuthRoutes mounts the unauthenticated auth endpoints.
func RegisterAuthRoutes(router *gin.Engine, db *database.Database, authService services.AuthServiceInterface, accountRequestService services.AccountRequestServiceInterface) {
	group := router.Group("/api/auth")
	{
		group.POST("/login", func(c *gin.Context) { Login(c, db, authService) })
		group.POST("/register", func(c *gin.Context) { Register(c, db, authService, accountRequestService) })
	}
}

// RegisterSessionRoutes mounts the auth endpoints that require a valid token.
func RegisterSessionRoutes(group *gin.RouterGroup, db *database.Database, authService services.AuthServiceInterface) {
	group.GET("/auth/status", AuthStatus)
	group.POST("/auth/logout", Logout)
	group.POST("/auth/change-password", func(c *gin.Context) { ChangePassword(c, db, authService) })
}

func Login(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	var request loginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := authService.Login(db, request.Username, request.Password)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Register queues an account request for admin approval; no user is created
// until an admin resolves it.
func Register(c *gin.Context, db *database.Database, authService services.AuthServiceInterface, accountRequestService services.AccountRequestServiceInterface) {
	var request registerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(request.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrWeakPassword.Error()})
		return
	}

	hash, err := authService.HashPassword(request.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	accountRequest, err := accountRequestService.CreateAccountRequest(db, request.Username, hash)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Account request submitted and awaiting approval",
		"request_id": accountRequest.ID,
	})
}

func AuthStatus(c *gin.Context) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": viewer})
}

// Logout is a no-op server side; tokens are stateless and the client discards
// its copy.
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func ChangePassword(c *gin.Context, db *database.Database, authService services.AuthServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request changePasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var targetUserID *uuid.UUID
	if request.TargetUserID != nil && *request.TargetUserID != "" {
		id, err := uuid.Parse(*request.TargetUserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target_user_id"})
			return
		}
		targetUserID = &id
	}

	err := authService.ChangePassword(db, viewer, request.CurrentPassword, request.NewPassword, targetUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
