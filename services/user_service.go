package services

import (
	"errors"

	"choretrack/choretrack/broker"
	"choretrack/choretrack/database"
	"choretrack/choretrack/models"

	"gorm.io/gorm"
)

type UserServiceInterface interface {
	GetUsers(db *database.Database, viewer models.Viewer) ([]models.User, error)
	GetNonAdminUsers(db *database.Database, viewer models.Viewer) ([]models.User, error)
	GetUserById(db *database.Database, id string) (models.User, error)
	ChangeRole(db *database.Database, viewer models.Viewer, id string, isAdmin bool) (models.User, error)
	DeleteUser(db *database.Database, viewer models.Viewer, id string) error
}

type UserService struct{}

func (s *UserService) GetUsers(db *database.Database, viewer models.Viewer) ([]models.User, error) {
	if !viewer.CanManageUsers() {
		return nil, ErrForbidden
	}

	var users []models.User
	if err := db.DB.Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetNonAdminUsers lists assignment targets; tasks are only ever assigned to
// regular users.
func (s *UserService) GetNonAdminUsers(db *database.Database, viewer models.Viewer) ([]models.User, error) {
	if !viewer.CanManageUsers() {
		return nil, ErrForbidden
	}

	var users []models.User
	err := db.DB.Where("is_admin = ?", false).Order("username ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) GetUserById(db *database.Database, id string) (models.User, error) {
	var user models.User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// ChangeRole flips a user's admin flag. An admin may never change their own
// role. Promoting a user to admin drops any task assignments pointing at
// them, since tasks are only assigned to regular users.
func (s *UserService) ChangeRole(db *database.Database, viewer models.Viewer, id string, isAdmin bool) (models.User, error) {
	if !viewer.CanManageUsers() {
		return models.User{}, ErrForbidden
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.User{}, tx.Error
	}

	var user models.User
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	if !viewer.CanChangeRoleOf(user) {
		tx.Rollback()
		return models.User{}, ErrSelfAction
	}

	if err := tx.Model(&user).Update("is_admin", isAdmin).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if isAdmin {
		err := tx.Model(&models.Task{}).
			Where("assigned_to = ?", user.ID).
			Update("assigned_to", nil).Error
		if err != nil {
			tx.Rollback()
			return models.User{}, err
		}
	}

	event, err := models.NewEvent(
		string(broker.UserUpdated),
		"user",
		viewer.ID.String(),
		map[string]interface{}{
			"user_id":  user.ID.String(),
			"username": user.Username,
			"is_admin": isAdmin,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.User{}, err
	}

	publishEvent(broker.UserEventsSubject, event)

	user.IsAdmin = isAdmin
	return user, nil
}

// DeleteUser removes a user. An admin may never delete their own account.
// The user's task assignments and pending completion requests are cleaned up;
// tasks they created stay.
func (s *UserService) DeleteUser(db *database.Database, viewer models.Viewer, id string) error {
	if !viewer.CanManageUsers() {
		return ErrForbidden
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var user models.User
	if err := tx.First(&user, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !viewer.CanDeleteUser(user) {
		tx.Rollback()
		return ErrSelfAction
	}

	err := tx.Model(&models.Task{}).
		Where("assigned_to = ?", user.ID).
		Update("assigned_to", nil).Error
	if err != nil {
		tx.Rollback()
		return err
	}

	err = tx.Where("requester_id = ? AND status = ?", user.ID, models.CompletionRequestPending).
		Delete(&models.CompletionRequest{}).Error
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&user).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		string(broker.UserDeleted),
		"user",
		viewer.ID.String(),
		map[string]interface{}{
			"user_id":  user.ID.String(),
			"username": user.Username,
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

	publishEvent(broker.UserEventsSubject, event)
	return nil
}

var UserServiceInstance UserServiceInterface = &UserService{}
