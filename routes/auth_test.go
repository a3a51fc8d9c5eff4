package routes

import (
	"encoding/json"
	"net/http"
	"testing"

	"choretrack/choretrack/database"
	"choretrack/choretrack/models"
	"choretrack/choretrack/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type mockAuthService struct {
	loginFn          func(username, password string) (string, models.User, error)
	changePasswordFn func(viewer models.Viewer, current, new string, targetUserID *uuid.UUID) error
}

func (m *mockAuthService) Login(db *database.Database, username, password string) (string, models.User, error) {
	return m.loginFn(username, password)
}

func (m *mockAuthService) ValidateToken(tokenString string) (*services.JWTClaims, error) {
	return nil, services.ErrInvalidToken
}

func (m *mockAuthService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (m *mockAuthService) ComparePasswords(hashedPassword, password string) error {
	return nil
}

func (m *mockAuthService) ChangePassword(db *database.Database, viewer models.Viewer, currentPassword, newPassword string, targetUserID *uuid.UUID) error {
	return m.changePasswordFn(viewer, currentPassword, newPassword, targetUserID)
}

type mockAccountRequestService struct {
	createFn     func(username, passwordHash string) (models.AccountRequest, error)
	resolveFn    func(viewer models.Viewer, id string, action models.AccountRequestAction) (models.AccountRequest, error)
	getPendingFn func(viewer models.Viewer) ([]models.AccountRequest, error)
}

func (m *mockAccountRequestService) CreateAccountRequest(db *database.Database, username, passwordHash string) (models.AccountRequest, error) {
	return m.createFn(username, passwordHash)
}

func (m *mockAccountRequestService) ResolveRequest(db *database.Database, viewer models.Viewer, id string, action models.AccountRequestAction) (models.AccountRequest, error) {
	return m.resolveFn(viewer, id, action)
}

func (m *mockAccountRequestService) GetPendingRequests(db *database.Database, viewer models.Viewer) ([]models.AccountRequest, error) {
	return m.getPendingFn(viewer)
}

func (m *mockAccountRequestService) CountPending(db *database.Database) (int64, error) {
	return 0, nil
}

func newAuthTestRouter(authService services.AuthServiceInterface, accountService services.AccountRequestServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterAuthRoutes(router, nil, authService, accountService)
	return router
}

func TestLoginRoute(t *testing.T) {
	user := models.User{ID: uuid.New(), Username: "alice"}
	authService := &mockAuthService{
		loginFn: func(username, password string) (string, models.User, error) {
			if username == "alice" && password == "correct horse" {
				return "token-123", user, nil
			}
			return "", models.User{}, services.ErrInvalidCredentials
		},
	}
	router := newAuthTestRouter(authService, &mockAccountRequestService{})

	t.Run("Success", func(t *testing.T) {
		recorder := performRequest(t, router, "POST", "/api/auth/login", payload{
			"username": "alice",
			"password": "correct horse",
		})
		assert.Equal(t, http.StatusOK, recorder.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "token-123", response["token"])
	})

	t.Run("Bad Credentials", func(t *testing.T) {
		recorder := performRequest(t, router, "POST", "/api/auth/login", payload{
			"username": "alice",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Missing Fields", func(t *testing.T) {
		recorder := performRequest(t, router, "POST", "/api/auth/login", payload{"username": "alice"})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestRegisterRoute(t *testing.T) {
	accountService := &mockAccountRequestService{
		createFn: func(username, passwordHash string) (models.AccountRequest, error) {
			if username == "taken" {
				return models.AccountRequest{}, services.ErrUsernameTaken
			}
			assert.Equal(t, "hashed:long enough", passwordHash)
			return models.AccountRequest{ID: uuid.New(), Username: username}, nil
		},
	}
	router := newAuthTestRouter(&mockAuthService{}, accountService)

	t.Run("Queued For Approval", func(t *testing.T) {
		recorder := performRequest(t, router, "POST", "/api/auth/register", payload{
			"username": "newcomer",
			"password": "long enough",
		})
		assert.Equal(t, http.StatusCreated, recorder.Code)
	})

	t.Run("Short Password", func(t *testing.T) {
		recorder := performRequest(t, router, "POST", "/api/auth/register", payload{
			"username": "newcomer",
			"password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("Username Taken", func(t *testing.T) {
		recorder := performRequest(t, router, "POST", "/api/auth/register", payload{
			"username": "taken",
			"password": "long enough",
		})
		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestSessionRoutes(t *testing.T) {
	alice := models.RegularViewer(uuid.New(), "alice")
	authService := &mockAuthService{
		changePasswordFn: func(viewer models.Viewer, current, new string, targetUserID *uuid.UUID) error {
			assert.Equal(t, alice.ID, viewer.ID)
			if current != "old password" {
				return services.ErrInvalidCredentials
			}
			return nil
		},
	}

	router, group := newTestRouter(alice)
	RegisterSessionRoutes(group, nil, authService)

	t.Run("Status", func(t *testing.T) {
		recorder := performRequest(t, router, "GET", "/api/auth/status", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)

		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, true, response["authenticated"])
	})

	t.Run("Logout", func(t *testing.T) {
		recorder := performRequest(t, router, "POST", "/api/auth/logout", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Change Password", func(t *testing.T) {
		recorder := performRequest(t, router, "POST", "/api/auth/change-password", payload{
			"current_password": "old password",
			"new_password":     "new password",
		})
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("Wrong Current Password", func(t *testing.T) {
		recorder := performRequest(t, router, "POST", "/api/auth/change-password", payload{
			"current_password": "nope",
			"new_password":     "new password",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
