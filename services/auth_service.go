package services

import (
	"errors"
	"time"

	"choretrack/choretrack/broker"
	"choretrack/choretrack/database"
	"choretrack/choretrack/models"
	"choretrack/choretrack/utils/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Use the JWTClaims from token package
type JWTClaims = token.JWTClaims

const minPasswordLength = 8

type AuthServiceInterface interface {
	Login(db *database.Database, username, password string) (string, models.User, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
	HashPassword(password string) (string, error)
	ComparePasswords(hashedPassword, password string) error
	ChangePassword(db *database.Database, viewer models.Viewer, currentPassword, newPassword string, targetUserID *uuid.UUID) error
}

type AuthService struct {
	jwtSecret     []byte
	jwtExpiration time.Duration
}

func NewAuthService(jwtSecret string, jwtExpirationHours int) *AuthService {
	return &AuthService{
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: time.Duration(jwtExpirationHours) * time.Hour,
	}
}

func (s *AuthService) Login(db *database.Database, username, password string) (string, models.User, error) {
	var user models.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	if err := s.ComparePasswords(user.PasswordHash, password); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	tokenString, err := token.GenerateToken(user.ID, user.Username, user.IsAdmin, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return "", models.User{}, err
	}

	return tokenString, user, nil
}

// ValidateToken uses the token utility to validate tokens
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	return token.ValidateToken(tokenString, s.jwtSecret)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ChangePassword updates the viewer's own password after verifying the current
// one. Admins may reset another user's password via targetUserID, which skips
// the current-password check.
func (s *AuthService) ChangePassword(db *database.Database, viewer models.Viewer, currentPassword, newPassword string, targetUserID *uuid.UUID) error {
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	targetID := viewer.ID
	adminReset := false
	if targetUserID != nil && *targetUserID != viewer.ID {
		if !viewer.CanManageUsers() {
			return ErrForbidden
		}
		targetID = *targetUserID
		adminReset = true
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var user models.User
	if err := tx.First(&user, "id = ?", targetID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !adminReset {
		if err := s.ComparePasswords(user.PasswordHash, currentPassword); err != nil {
			tx.Rollback()
			return ErrInvalidCredentials
		}
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Model(&user).Update("password_hash", hash).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		string(broker.UserUpdated),
		"user",
		viewer.ID.String(),
		map[string]interface{}{
			"user_id": user.ID.String(),
			"action":  "password_changed",
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

var AuthServiceInstance AuthServiceInterface
