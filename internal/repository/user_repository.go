package repository

import (
	"errors"
	"tracker_collection/model"

	"gorm.io/gorm"
)

type IUserRepository interface {
	GetUserById(userId int64) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	CreateUser(user *model.User) error
	UpdateUserPassword(userId int64, hashedPassword string) error
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

//------------------------------------------
//------------------------------------------

func (r *UserRepository) GetUserById(userId int64) (*model.User, error) {
	var result model.User
	err := r.db.
		Model(&model.User{}).
		Where("\"userId\" = ?", userId).
		First(&result).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *UserRepository) GetUserByUsername(username string) (*model.User, error) {
	var result model.User
	err := r.db.
		Model(&model.User{}).
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", username, username).
		First(&result).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *UserRepository) CreateUser(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) UpdateUserPassword(userId int64, hashedPassword string) error {
	return r.db.Model(&model.User{}).
		Where("\"userId\" = ?", userId).
		UpdateColumn("password", hashedPassword).
		Error
}
