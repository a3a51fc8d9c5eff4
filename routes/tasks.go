package routes

import (
	"net/http"
	"time"

	"choretrack/choretrack/database"
	"choretrack/choretrack/middleware"
	"choretrack/choretrack/models"
	"choretrack/choretrack/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RegisterTaskRoutes(group *gin.RouterGroup, db *database.Database, taskService services.TaskServiceInterface) {
	group.GET("/tasks", func(c *gin.Context) { GetTasks(c, db, taskService) })
	group.GET("/tasks/grouped", func(c *gin.Context) { GetGroupedTasks(c, db, taskService) })
	group.GET("/tasks/date/:date", func(c *gin.Context) { GetTasksByDate(c, db, taskService) })
	group.POST("/tasks", func(c *gin.Context) { CreateTask(c, db, taskService) })
	group.GET("/tasks/:id", func(c *gin.Context) { GetTaskById(c, db, taskService) })
	group.PUT("/tasks/:id", func(c *gin.Context) { UpdateTask(c, db, taskService) })
	group.DELETE("/tasks/:id", func(c *gin.Context) { DeleteTask(c, db, taskService) })
}

type createTaskRequest struct {
	Task       string  `json:"task" binding:"required"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Visibility string  `json:"visibility"`
	AssignedTo *string `json:"assigned_to"`
}

type updateTaskRequest struct {
	Task       *string `json:"task"`
	Date       *string `json:"date"`
	Time       *string `json:"time"`
	Visibility *string `json:"visibility"`
	AssignedTo *string `json:"assigned_to"`
	Completed  *bool   `json:"completed"`
}

// filterFromQuery builds the admin selection filter from query parameters.
// Non-admin viewers never reach the filter; the service ignores it for them.
func filterFromQuery(c *gin.Context) (models.TaskFilter, error) {
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		id, err := uuid.Parse(assignedTo)
		if err != nil {
			return models.TaskFilter{}, services.ErrInvalidInput
		}
		return models.TaskFilter{Kind: models.FilterAssignedTo, UserID: id}, nil
	}
	switch c.Query("visibility") {
	case "admins":
		return models.TaskFilter{Kind: models.FilterAdminsOnly}, nil
	case "private":
		return models.TaskFilter{Kind: models.FilterPrivateOnly}, nil
	case "", "all":
		return models.TaskFilter{Kind: models.FilterAll}, nil
	default:
		return models.TaskFilter{}, services.ErrInvalidInput
	}
}

func GetTasks(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	filter, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters"})
		return
	}

	query := services.TaskQuery{
		Completed: c.Query("completed") == "true",
		Filter:    filter,
	}

	tasks, err := taskService.GetTasks(db, viewer, query)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func GetGroupedTasks(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	grouped, err := taskService.GetGroupedTasks(db, viewer, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, grouped)
}

func GetTasksByDate(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	tasks, err := taskService.GetTasksByDate(db, viewer, c.Param("date"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func GetTaskById(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, err := taskService.GetTaskById(db, viewer, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func CreateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request createTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.TaskInput{
		Task:       request.Task,
		Date:       request.Date,
		Time:       request.Time,
		Visibility: request.Visibility,
	}
	if request.AssignedTo != nil && *request.AssignedTo != "" {
		id, err := uuid.Parse(*request.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assigned_to"})
			return
		}
		input.AssignedTo = &id
	}

	task, err := taskService.CreateTask(db, viewer, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func UpdateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request updateTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := services.TaskUpdate{
		Task:       request.Task,
		Date:       request.Date,
		Time:       request.Time,
		Visibility: request.Visibility,
		Completed:  request.Completed,
	}
	if request.AssignedTo != nil {
		if *request.AssignedTo == "" {
			update.ClearAssignment = true
		} else {
			id, err := uuid.Parse(*request.AssignedTo)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assigned_to"})
				return
			}
			update.AssignedTo = &id
		}
	}

	task, err := taskService.UpdateTask(db, viewer, c.Param("id"), update)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func DeleteTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := taskService.DeleteTask(db, viewer, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
