package routes

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"choretrack/choretrack/database"
	"choretrack/choretrack/models"
	"choretrack/choretrack/services"
	"choretrack/choretrack/utils/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type mockTaskService struct {
	createFn     func(viewer models.Viewer, input services.TaskInput) (models.Task, error)
	getByIdFn    func(viewer models.Viewer, id string) (models.Task, error)
	getTasksFn   func(viewer models.Viewer, query services.TaskQuery) ([]models.Task, error)
	getByDateFn  func(viewer models.Viewer, date string) ([]models.Task, error)
	getGroupedFn func(viewer models.Viewer, today time.Time) (schedule.Grouped, error)
	updateFn     func(viewer models.Viewer, id string, update services.TaskUpdate) (models.Task, error)
	deleteFn     func(viewer models.Viewer, id string) error
}

func (m *mockTaskService) CreateTask(db *database.Database, viewer models.Viewer, input services.TaskInput) (models.Task, error) {
	return m.createFn(viewer, input)
}

func (m *mockTaskService) GetTaskById(db *database.Database, viewer models.Viewer, id string) (models.Task, error) {
	return m.getByIdFn(viewer, id)
}

func (m *mockTaskService) GetTasks(db *database.Database, viewer models.Viewer, query services.TaskQuery) ([]models.Task, error) {
	return m.getTasksFn(viewer, query)
}

func (m *mockTaskService) GetTasksByDate(db *database.Database, viewer models.Viewer, date string) ([]models.Task, error) {
	return m.getByDateFn(viewer, date)
}

func (m *mockTaskService) GetGroupedTasks(db *database.Database, viewer models.Viewer, today time.Time) (schedule.Grouped, error) {
	return m.getGroupedFn(viewer, today)
}

func (m *mockTaskService) UpdateTask(db *database.Database, viewer models.Viewer, id string, update services.TaskUpdate) (models.Task, error) {
	return m.updateFn(viewer, id, update)
}

func (m *mockTaskService) DeleteTask(db *database.Database, viewer models.Viewer, id string) error {
	return m.deleteFn(viewer, id)
}

func TestGetTasksRoute(t *testing.T) {
	admin := models.AdminViewer(uuid.New(), "admin")
	service := &mockTaskService{
		getTasksFn: func(viewer models.Viewer, query services.TaskQuery) ([]models.Task, error) {
			assert.True(t, query.Completed)
			assert.Equal(t, models.FilterPrivateOnly, query.Filter.Kind)
			return []models.Task{{Task: "one"}, {Task: "two"}}, nil
		},
	}

	router, group := newTestRouter(admin)
	RegisterTaskRoutes(group, nil, service)

	recorder := performRequest(t, router, "GET", "/api/tasks?completed=true&visibility=private", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var tasks []models.Task
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 2)
}

func TestGetTasksRoute_AssignedToFilter(t *testing.T) {
	admin := models.AdminViewer(uuid.New(), "admin")
	target := uuid.New()
	service := &mockTaskService{
		getTasksFn: func(viewer models.Viewer, query services.TaskQuery) ([]models.Task, error) {
			assert.Equal(t, models.FilterAssignedTo, query.Filter.Kind)
			assert.Equal(t, target, query.Filter.UserID)
			return []models.Task{}, nil
		},
	}

	router, group := newTestRouter(admin)
	RegisterTaskRoutes(group, nil, service)

	recorder := performRequest(t, router, "GET", "/api/tasks?assigned_to="+target.String(), nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = performRequest(t, router, "GET", "/api/tasks?assigned_to=not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = performRequest(t, router, "GET", "/api/tasks?visibility=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetGroupedTasksRoute(t *testing.T) {
	alice := models.RegularViewer(uuid.New(), "alice")
	service := &mockTaskService{
		getGroupedFn: func(viewer models.Viewer, today time.Time) (schedule.Grouped, error) {
			return schedule.Grouped{
				Today: []models.Task{{Task: "now"}},
				Week:  []models.Task{},
				Later: []models.Task{{Task: "eventually"}},
			}, nil
		},
	}

	router, group := newTestRouter(alice)
	RegisterTaskRoutes(group, nil, service)

	recorder := performRequest(t, router, "GET", "/api/tasks/grouped", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var grouped schedule.Grouped
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &grouped))
	assert.Len(t, grouped.Today, 1)
	assert.Len(t, grouped.Week, 0)
	assert.Len(t, grouped.Later, 1)
}

func TestGetTasksByDateRoute(t *testing.T) {
	alice := models.RegularViewer(uuid.New(), "alice")
	service := &mockTaskService{
		getByDateFn: func(viewer models.Viewer, date string) ([]models.Task, error) {
			assert.Equal(t, "2026-09-01", date)
			return []models.Task{{Task: "scheduled"}}, nil
		},
	}

	router, group := newTestRouter(alice)
	RegisterTaskRoutes(group, nil, service)

	recorder := performRequest(t, router, "GET", "/api/tasks/date/2026-09-01", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestCreateTaskRoute(t *testing.T) {
	admin := models.AdminViewer(uuid.New(), "admin")
	assignee := uuid.New()
	service := &mockTaskService{
		createFn: func(viewer models.Viewer, input services.TaskInput) (models.Task, error) {
			assert.Equal(t, "Mow the lawn", input.Task)
			assert.Equal(t, "2026-09-01", input.Date)
			assert.NotNil(t, input.AssignedTo)
			assert.Equal(t, assignee, *input.AssignedTo)
			return models.Task{ID: uuid.New(), Task: input.Task}, nil
		},
	}

	router, group := newTestRouter(admin)
	RegisterTaskRoutes(group, nil, service)

	recorder := performRequest(t, router, "POST", "/api/tasks", payload{
		"task":        "Mow the lawn",
		"date":        "2026-09-01",
		"assigned_to": assignee.String(),
	})
	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestCreateTaskRoute_BadInput(t *testing.T) {
	admin := models.AdminViewer(uuid.New(), "admin")
	service := &mockTaskService{
		createFn: func(viewer models.Viewer, input services.TaskInput) (models.Task, error) {
			return models.Task{}, services.ErrInvalidInput
		},
	}

	router, group := newTestRouter(admin)
	RegisterTaskRoutes(group, nil, service)

	t.Run("Missing Task Field", func(t *testing.T) {
		recorder := performRequest(t, router, "POST", "/api/tasks", payload{"date": "2026-09-01"})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Bad Assignee", func(t *testing.T) {
		recorder := performRequest(t, router, "POST", "/api/tasks", payload{"task": "x", "assigned_to": "nope"})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Service Rejects", func(t *testing.T) {
		recorder := performRequest(t, router, "POST", "/api/tasks", payload{"task": "x", "date": "bogus"})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestUpdateTaskRoute_ClearAssignment(t *testing.T) {
	admin := models.AdminViewer(uuid.New(), "admin")
	service := &mockTaskService{
		updateFn: func(viewer models.Viewer, id string, update services.TaskUpdate) (models.Task, error) {
			assert.True(t, update.ClearAssignment)
			assert.Nil(t, update.AssignedTo)
			return models.Task{}, nil
		},
	}

	router, group := newTestRouter(admin)
	RegisterTaskRoutes(group, nil, service)

	recorder := performRequest(t, router, "PUT", "/api/tasks/"+uuid.New().String(), payload{"assigned_to": ""})
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestUpdateTaskRoute_Forbidden(t *testing.T) {
	alice := models.RegularViewer(uuid.New(), "alice")
	service := &mockTaskService{
		updateFn: func(viewer models.Viewer, id string, update services.TaskUpdate) (models.Task, error) {
			return models.Task{}, services.ErrForbidden
		},
	}

	router, group := newTestRouter(alice)
	RegisterTaskRoutes(group, nil, service)

	recorder := performRequest(t, router, "PUT", "/api/tasks/"+uuid.New().String(), payload{"completed": true})
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestDeleteTaskRoute(t *testing.T) {
	admin := models.AdminViewer(uuid.New(), "admin")
	service := &mockTaskService{
		deleteFn: func(viewer models.Viewer, id string) error { return nil },
	}

	router, group := newTestRouter(admin)
	RegisterTaskRoutes(group, nil, service)

	recorder := performRequest(t, router, "DELETE", "/api/tasks/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.Bytes())
}

func TestGetTaskByIdRoute_NotFound(t *testing.T) {
	alice := models.RegularViewer(uuid.New(), "alice")
	service := &mockTaskService{
		getByIdFn: func(viewer models.Viewer, id string) (models.Task, error) {
			return models.Task{}, services.ErrTaskNotFound
		},
	}

	router, group := newTestRouter(alice)
	RegisterTaskRoutes(group, nil, service)

	recorder := performRequest(t, router, "GET", "/api/tasks/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
