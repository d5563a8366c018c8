package repositories

import (
	"errors"

	"folio_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrSessionNotFound = errors.New("session not found")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByUsername(db *gorm.DB, username string) (*models.User, error)
	UsernameTaken(db *gorm.DB, username string) (bool, error)

	// Session operations
	CreateSession(db *gorm.DB, session *models.Session) error
	FindSession(db *gorm.DB, uuid string) (*models.Session, error)
	DeleteExpiredSessions(db *gorm.DB, cutoff int64) (int64, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		// The unique constraint is the authority on username collisions,
		// whatever preflight checks ran before.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) FindByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) UsernameTaken(db *gorm.DB, username string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) CreateSession(db *gorm.DB, session *models.Session) error {
	return db.Create(session).Error
}

func (r *UserRepositoryImpl) FindSession(db *gorm.DB, uuid string) (*models.Session, error) {
	var session models.Session
	err := db.Where("uuid = ?", uuid).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// DeleteExpiredSessions removes every session created before the cutoff
// (unix seconds) and reports how many went away.
func (r *UserRepositoryImpl) DeleteExpiredSessions(db *gorm.DB, cutoff int64) (int64, error) {
	result := db.Where("created_at < ?", cutoff).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
