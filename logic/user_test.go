package logic

import (
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"chathub-backend/config"
	"chathub-backend/errs"
	"chathub-backend/models"
)

type memUserStore struct {
	byEmail map[string]*models.User
	byID    map[uint64]*models.User
	nextID  uint64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		byEmail: make(map[string]*models.User),
		byID:    make(map[uint64]*models.User),
	}
}

func (s *memUserStore) CreateUser(name, email, passwordHash string) (*models.User, error) {
	s.nextID++
	user := &models.User{ID: s.nextID, Name: name, Email: email, PasswordHash: passwordHash}
	s.byEmail[email] = user
	s.byID[user.ID] = user
	return user, nil
}

func (s *memUserStore) GetUserByEmail(email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, errs.New(errs.NotFound, "user not found")
}

func (s *memUserStore) GetUserByID(id uint64) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, errs.New(errs.NotFound, "user not found")
}

func (s *memUserStore) UpdateAvatar(id uint64, avatar string) error {
	u, ok := s.byID[id]
	if !ok {
		return errs.New(errs.NotFound, "user not found")
	}
	u.Avatar = avatar
	return nil
}

func setTestAuthConfig(t *testing.T) {
	t.Helper()
	config.GlobalConfig.Auth.Secret = "test-secret"
	config.GlobalConfig.Auth.ExpHour = 1
}

func TestRegisterHashesPassword(t *testing.T) {
	setTestAuthConfig(t)
	l := NewUserLogic(newMemUserStore())

	user, err := l.Register("Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))
}

func TestRegisterValidation(t *testing.T) {
	setTestAuthConfig(t)
	l := NewUserLogic(newMemUserStore())

	_, err := l.Register("", "a@example.com", "pw")
	assert.True(t, errs.IsKind(err, errs.Validation))

	_, err = l.Register("Alice", "alice@example.com", "pw")
	require.NoError(t, err)
	_, err = l.Register("Other", "alice@example.com", "pw2")
	assert.True(t, errs.IsKind(err, errs.Validation))
}

func TestLogin(t *testing.T) {
	setTestAuthConfig(t)
	l := NewUserLogic(newMemUserStore())

	registered, err := l.Register("Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	user, tokenString, expireAt, err := l.Login("alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.False(t, expireAt.IsZero())

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte(config.GlobalConfig.Auth.Secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(registered.ID), claims["user_id"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	setTestAuthConfig(t)
	l := NewUserLogic(newMemUserStore())

	_, err := l.Register("Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, _, _, err = l.Login("alice@example.com", "wrong")
	assert.True(t, errs.IsKind(err, errs.Authorization))

	_, _, _, err = l.Login("nobody@example.com", "s3cret")
	assert.True(t, errs.IsKind(err, errs.Authorization))
}

func TestUpdateAvatar(t *testing.T) {
	setTestAuthConfig(t)
	l := NewUserLogic(newMemUserStore())

	registered, err := l.Register("Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	user, err := l.UpdateAvatar(registered.ID, "avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "avatar.png", user.Avatar)
}
