package services

import (
	"testing"

	"choretrack/choretrack/database"
	"choretrack/choretrack/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func createTestUser(t *testing.T, db *database.Database, username string, isAdmin bool) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "hash",
		IsAdmin:      isAdmin,
	}
	assert.NoError(t, db.DB.Create(&user).Error)
	return user
}

func viewerFor(user models.User) models.Viewer {
	if user.IsAdmin {
		return models.AdminViewer(user.ID, user.Username)
	}
	return models.RegularViewer(user.ID, user.Username)
}
