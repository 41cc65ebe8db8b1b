package logic

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"chathub-backend/config"
	"chathub-backend/errs"
	"chathub-backend/models"
)

// UserStore is the slice of the transcript store the auth collaborator needs.
type UserStore interface {
	CreateUser(name, email, passwordHash string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint64) (*models.User, error)
	UpdateAvatar(id uint64, avatar string) error
}

// UserLogic handles registration, login and the one mutable user field.
type UserLogic struct {
	userStore UserStore
}

func NewUserLogic(userStore UserStore) *UserLogic {
	return &UserLogic{userStore: userStore}
}

// Register creates an account. The secret is stored as a bcrypt hash, never as
// plaintext.
func (l *UserLogic) Register(name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, errs.New(errs.Validation, "name, email and password are required")
	}

	if _, err := l.userStore.GetUserByEmail(email); err == nil {
		return nil, errs.New(errs.Validation, "email already in use")
	} else if !errs.IsKind(err, errs.NotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return l.userStore.CreateUser(name, email, string(hash))
}

// Login verifies the credential and issues a signed token.
func (l *UserLogic) Login(email, password string) (*models.User, string, time.Time, error) {
	user, err := l.userStore.GetUserByEmail(strings.TrimSpace(email))
	if err != nil {
		if errs.IsKind(err, errs.NotFound) {
			return nil, "", time.Time{}, errs.New(errs.Authorization, "invalid email or password")
		}
		return nil, "", time.Time{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", time.Time{}, errs.New(errs.Authorization, "invalid email or password")
	}

	token, expireAt, err := l.generateJWT(user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expireAt, nil
}

// GetUser retrieves user info
func (l *UserLogic) GetUser(id uint64) (*models.User, error) {
	return l.userStore.GetUserByID(id)
}

// UpdateAvatar sets the avatar reference and returns the updated user.
func (l *UserLogic) UpdateAvatar(id uint64, avatar string) (*models.User, error) {
	if err := l.userStore.UpdateAvatar(id, avatar); err != nil {
		return nil, err
	}
	return l.userStore.GetUserByID(id)
}

func (l *UserLogic) generateJWT(userID uint64) (string, time.Time, error) {
	expireAt := time.Now().Add(time.Duration(config.GlobalConfig.Auth.ExpHour) * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     expireAt.Unix(),
	})
	tokenString, err := token.SignedString([]byte(config.GlobalConfig.Auth.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expireAt, nil
}
