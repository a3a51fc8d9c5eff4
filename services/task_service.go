package services

import (
	"errors"
	"strings"
	"time"

	"choretrack/choretrack/broker"
	"choretrack/choretrack/database"
	"choretrack/choretrack/models"
	"choretrack/choretrack/utils/schedule"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskInput carries the fields a client may set when creating a task.
type TaskInput struct {
	Task       string
	Date       string
	Time       string
	Visibility string
	AssignedTo *uuid.UUID
}

// TaskUpdate carries a partial update; nil fields are left untouched.
// ClearAssignment removes an existing assignment explicitly since a nil
// AssignedTo also means "not provided".
type TaskUpdate struct {
	Task            *string
	Date            *string
	Time            *string
	Visibility      *string
	AssignedTo      *uuid.UUID
	ClearAssignment bool
	Completed       *bool
}

// TaskQuery selects which slice of the task list to return.
type TaskQuery struct {
	Completed bool
	Filter    models.TaskFilter
}

type TaskServiceInterface interface {
	CreateTask(db *database.Database, viewer models.Viewer, input TaskInput) (models.Task, error)
	GetTaskById(db *database.Database, viewer models.Viewer, id string) (models.Task, error)
	GetTasks(db *database.Database, viewer models.Viewer, query TaskQuery) ([]models.Task, error)
	GetTasksByDate(db *database.Database, viewer models.Viewer, date string) ([]models.Task, error)
	GetGroupedTasks(db *database.Database, viewer models.Viewer, today time.Time) (schedule.Grouped, error)
	UpdateTask(db *database.Database, viewer models.Viewer, id string, update TaskUpdate) (models.Task, error)
	DeleteTask(db *database.Database, viewer models.Viewer, id string) error
}

type TaskService struct{}

func validateSchedule(date, clock string) error {
	if date != "" && !schedule.ValidDate(date) {
		return ErrInvalidInput
	}
	if clock != "" {
		if date == "" {
			// A time without a date has no meaning
			return ErrInvalidInput
		}
		if !schedule.ValidClock(clock) {
			return ErrInvalidInput
		}
	}
	return nil
}

func (s *TaskService) CreateTask(db *database.Database, viewer models.Viewer, input TaskInput) (models.Task, error) {
	text := strings.TrimSpace(input.Task)
	if text == "" {
		return models.Task{}, ErrInvalidInput
	}
	if err := validateSchedule(input.Date, input.Time); err != nil {
		return models.Task{}, err
	}

	visibility := models.VisibilityAll
	if input.Visibility != "" {
		parsed, err := models.VisibilityFromString(input.Visibility)
		if err != nil {
			return models.Task{}, ErrInvalidInput
		}
		visibility = parsed
	}
	// Only admins can mark a task admins-only or assign it
	if visibility == models.VisibilityAdmins && !viewer.CanManageTasks() {
		return models.Task{}, ErrForbidden
	}
	if input.AssignedTo != nil && !viewer.CanManageTasks() {
		return models.Task{}, ErrForbidden
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	if input.AssignedTo != nil {
		if err := requireAssignableUser(tx, *input.AssignedTo); err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
	}

	task := models.Task{
		ID:         uuid.New(),
		Task:       text,
		Date:       input.Date,
		Time:       input.Time,
		Visibility: visibility,
		CreatorID:  viewer.ID,
		AssignedTo: input.AssignedTo,
	}

	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	event, err := models.NewEvent(
		string(broker.TaskCreated),
		"task",
		viewer.ID.String(),
		map[string]interface{}{
			"task_id":    task.ID.String(),
			"creator_id": task.CreatorID.String(),
			"task":       task.Task,
			"date":       task.Date,
			"visibility": string(task.Visibility),
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	publishEvent(broker.TaskEventsSubject, event)

	s.decorate(db, &task)
	return task, nil
}

func (s *TaskService) GetTaskById(db *database.Database, viewer models.Viewer, id string) (models.Task, error) {
	var task models.Task
	if err := db.DB.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	if !task.VisibleTo(viewer) {
		// Invisible tasks read as absent, not forbidden
		return models.Task{}, ErrTaskNotFound
	}
	s.decorate(db, &task)
	return task, nil
}

func (s *TaskService) GetTasks(db *database.Database, viewer models.Viewer, query TaskQuery) ([]models.Task, error) {
	q := db.DB.Where("completed = ?", query.Completed)
	if query.Completed {
		q = q.Order("completed_at DESC")
	} else {
		q = q.Order("date ASC, time ASC, created_at ASC")
	}

	var tasks []models.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}

	tasks = models.VisibleSubset(tasks, viewer)
	if viewer.IsAdmin {
		// Selection filters narrow the admin's total view for display only
		tasks = query.Filter.Apply(tasks)
	}

	if err := s.decorateAll(db, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) GetTasksByDate(db *database.Database, viewer models.Viewer, date string) ([]models.Task, error) {
	if !schedule.ValidDate(date) {
		return nil, ErrInvalidInput
	}

	var tasks []models.Task
	err := db.DB.
		Where("date = ? AND completed = ?", date, false).
		Order("time ASC, created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	tasks = models.VisibleSubset(tasks, viewer)
	if err := s.decorateAll(db, tasks); err != nil {
		return nil, err
	}
	setDisplayFields(tasks)
	return tasks, nil
}

func (s *TaskService) GetGroupedTasks(db *database.Database, viewer models.Viewer, today time.Time) (schedule.Grouped, error) {
	tasks, err := s.GetTasks(db, viewer, TaskQuery{Completed: false})
	if err != nil {
		return schedule.Grouped{}, err
	}
	setDisplayFields(tasks)
	return schedule.Group(tasks, today), nil
}

func (s *TaskService) UpdateTask(db *database.Database, viewer models.Viewer, id string, update TaskUpdate) (models.Task, error) {
	// Completion state changes are reserved to admins; everything a regular
	// user can do to task state goes through the request/approval flow.
	if update.Completed != nil && !viewer.CanCompleteDirectly() {
		return models.Task{}, ErrForbidden
	}
	fieldEdit := update.Task != nil || update.Date != nil || update.Time != nil ||
		update.Visibility != nil || update.AssignedTo != nil || update.ClearAssignment
	if fieldEdit && !viewer.CanManageTasks() {
		return models.Task{}, ErrForbidden
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}

	updates := map[string]interface{}{}

	if update.Task != nil {
		text := strings.TrimSpace(*update.Task)
		if text == "" {
			tx.Rollback()
			return models.Task{}, ErrInvalidInput
		}
		updates["task"] = text
	}

	date := task.Date
	if update.Date != nil {
		date = *update.Date
		updates["date"] = date
	}
	clock := task.Time
	if update.Time != nil {
		clock = *update.Time
		updates["time"] = clock
	}
	if date == "" && clock != "" {
		// Dropping the date drops the time with it
		clock = ""
		updates["time"] = ""
	}
	if err := validateSchedule(date, clock); err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if update.Visibility != nil {
		visibility, err := models.VisibilityFromString(*update.Visibility)
		if err != nil {
			tx.Rollback()
			return models.Task{}, ErrInvalidInput
		}
		updates["visibility"] = visibility
	}

	if update.ClearAssignment {
		updates["assigned_to"] = nil
	} else if update.AssignedTo != nil {
		if err := requireAssignableUser(tx, *update.AssignedTo); err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
		updates["assigned_to"] = *update.AssignedTo
	}

	eventType := broker.TaskUpdated
	if update.Completed != nil && *update.Completed != task.Completed {
		updates["completed"] = *update.Completed
		if *update.Completed {
			now := time.Now().UTC()
			updates["completed_at"] = &now
			eventType = broker.TaskCompleted
			// Direct completion settles any pending request for the task
			if err := resolvePendingRequests(tx, task.ID, models.CompletionRequestApproved); err != nil {
				tx.Rollback()
				return models.Task{}, err
			}
		} else {
			updates["completed_at"] = nil
			eventType = broker.TaskReopened
		}
	}

	if err := tx.Model(&task).Updates(updates).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	event, err := models.NewEvent(
		string(eventType),
		"task",
		viewer.ID.String(),
		map[string]interface{}{
			"task_id":   task.ID.String(),
			"task":      task.Task,
			"completed": task.Completed,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	publishEvent(broker.TaskEventsSubject, event)

	s.decorate(db, &task)
	return task, nil
}

func (s *TaskService) DeleteTask(db *database.Database, viewer models.Viewer, id string) error {
	if !viewer.CanManageTasks() {
		return ErrForbidden
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	// Cascade to the task's completion requests
	if err := tx.Where("task_id = ?", task.ID).Delete(&models.CompletionRequest{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&task).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		string(broker.TaskDeleted),
		"task",
		viewer.ID.String(),
		map[string]interface{}{
			"task_id": task.ID.String(),
		},
	)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	publishEvent(broker.TaskEventsSubject, event)
	return nil
}

// requireAssignableUser checks that the assignment target exists and is a
// regular user; tasks are never assigned to admins.
func requireAssignableUser(tx *gorm.DB, id uuid.UUID) error {
	var user models.User
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsAdmin {
		return ErrInvalidInput
	}
	return nil
}

// resolvePendingRequests marks every pending completion request for the task
// with the given terminal status.
func resolvePendingRequests(tx *gorm.DB, taskID uuid.UUID, status models.CompletionRequestStatus) error {
	now := time.Now().UTC()
	return tx.Model(&models.CompletionRequest{}).
		Where("task_id = ? AND status = ?", taskID, models.CompletionRequestPending).
		Updates(map[string]interface{}{"status": status, "resolved_at": &now}).Error
}

// decorateAll fills the display-only fields for a task list in two queries.
func (s *TaskService) decorateAll(db *database.Database, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	userIDs := make([]uuid.UUID, 0, len(tasks)*2)
	taskIDs := make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		userIDs = append(userIDs, t.CreatorID)
		if t.AssignedTo != nil {
			userIDs = append(userIDs, *t.AssignedTo)
		}
		taskIDs = append(taskIDs, t.ID)
	}

	var users []models.User
	if err := db.DB.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return err
	}
	usernames := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	var pendingTaskIDs []uuid.UUID
	err := db.DB.Model(&models.CompletionRequest{}).
		Where("task_id IN ? AND status = ?", taskIDs, models.CompletionRequestPending).
		Pluck("task_id", &pendingTaskIDs).Error
	if err != nil {
		return err
	}
	pending := make(map[uuid.UUID]bool, len(pendingTaskIDs))
	for _, id := range pendingTaskIDs {
		pending[id] = true
	}

	for i := range tasks {
		tasks[i].CreatorUsername = usernames[tasks[i].CreatorID]
		if tasks[i].AssignedTo != nil {
			tasks[i].AssignedToUsername = usernames[*tasks[i].AssignedTo]
		}
		tasks[i].HasPendingRequest = pending[tasks[i].ID]
	}
	return nil
}

// decorate fills display fields for a single task, tolerating lookup failures.
func (s *TaskService) decorate(db *database.Database, task *models.Task) {
	single := []models.Task{*task}
	if err := s.decorateAll(db, single); err != nil {
		return
	}
	*task = single[0]
}

func setDisplayFields(tasks []models.Task) {
	for i := range tasks {
		if tasks[i].Date != "" {
			tasks[i].DateDisplay = schedule.FormatLongDate(tasks[i].Date)
		}
		if tasks[i].Time != "" {
			tasks[i].TimeDisplay = schedule.FormatClock(tasks[i].Time)
		}
	}
}

var TaskServiceInstance TaskServiceInterface = &TaskService{}
