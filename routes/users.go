package routes

import (
	"net/http"

	"choretrack/choretrack/database"
	"choretrack/choretrack/middleware"
	"choretrack/choretrack/services"

	"github.com/gin-gonic/gin"
)

type userActionRequest struct {
	Action  string `json:"action" binding:"required"`
	IsAdmin *bool  `json:"is_admin"`
}

// RegisterUserRoutes mounts the admin-only user management endpoints.
func RegisterUserRoutes(group *gin.RouterGroup, db *database.Database, userService services.UserServiceInterface) {
	group.GET("/users", func(c *gin.Context) { GetUsers(c, db, userService) })
	group.GET("/users/non-admin", func(c *gin.Context) { GetNonAdminUsers(c, db, userService) })
	group.PUT("/users/:id", func(c *gin.Context) { UpdateUser(c, db, userService) })
}

func GetUsers(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	users, err := userService.GetUsers(db, viewer)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func GetNonAdminUsers(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	users, err := userService.GetNonAdminUsers(db, viewer)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser dispatches the admin user actions: change_role and delete.
func UpdateUser(c *gin.Context, db *database.Database, userService services.UserServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request userActionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	switch request.Action {
	case "change_role":
		if request.IsAdmin == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "is_admin is required for change_role"})
			return
		}
		user, err := userService.ChangeRole(db, viewer, id, *request.IsAdmin)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	case "delete":
		if err := userService.DeleteUser(db, viewer, id); err != nil {
			respondWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
	}
}
