package repository

import (
	"errors"

	"health_chat_service/internal/player/domain"

	"gorm.io/gorm"
)

// ErrPlayerNotFound no user row for the given id
var ErrPlayerNotFound = errors.New("player not found")

// PlayerRepo definition get player info
type PlayerRepo interface {
	AutoMigrate() error
	GetByID(id string) (*domain.User, error)
	Save(user *domain.User) error
}

type playerRepo struct {
	db *gorm.DB
}

// NewPlayerRepo create PlayerRepo
func NewPlayerRepo(db *gorm.DB) PlayerRepo {
	return &playerRepo{db: db}
}

func (r *playerRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.User{})
}

func (r *playerRepo) GetByID(id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *playerRepo) Save(user *domain.User) error {
	return r.db.Save(user).Error
}
