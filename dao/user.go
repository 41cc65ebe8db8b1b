package dao

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"chathub-backend/errs"
	"chathub-backend/models"
)

// UserDAO handles user-related database operations
type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// CreateUser creates a new user with an already-hashed credential secret.
func (d *UserDAO) CreateUser(name, email, passwordHash string) (*models.User, error) {
	user := &models.User{Name: name, Email: email, PasswordHash: passwordHash}
	if err := d.db.Create(user).Error; err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return user, nil
}

// GetUserByEmail retrieves a user by contact handle.
func (d *UserDAO) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Wrap(errs.NotFound, err, "user not found")
		}
		return nil, errors.Wrap(err, "get user by email")
	}
	return &user, nil
}

// GetUserByID retrieves a user by id.
func (d *UserDAO) GetUserByID(id uint64) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Wrap(errs.NotFound, err, "user not found")
		}
		return nil, errors.Wrap(err, "get user by id")
	}
	return &user, nil
}

// UpdateAvatar sets the avatar reference, the only mutable user field.
func (d *UserDAO) UpdateAvatar(id uint64, avatar string) error {
	res := d.db.Model(&models.User{}).Where("id = ?", id).Update("avatar", avatar)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update avatar")
	}
	if res.RowsAffected == 0 {
		return errs.New(errs.NotFound, "user not found")
	}
	return nil
}
