package repositories

import (
	"errors"

	"github.com/anonto42/preference/backend/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	CreateProfile(profile *models.Profile) error
	GetProfileByID(id uint) (*models.Profile, error)
	GetProfileByUsername(username string) (*models.Profile, error)
	GetProfileByEmail(email string) (*models.Profile, error)
	GetProfileByFirebaseUID(uid string) (*models.Profile, error)
	GetProfilesByIDs(ids []uint) ([]models.Profile, error)
	UpdateProfile(profile *models.Profile) error
	SearchProfiles(query string, limit int) ([]models.Profile, error)
	ListProfiles() ([]models.Profile, error)
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) CreateProfile(profile *models.Profile) error {
	if profile.Role == "" {
		profile.Role = models.RoleUser
	}
	return r.db.Create(profile).Error
}

func (r *PostgresProfileRepository) GetProfileByID(id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) GetProfileByUsername(username string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) GetProfileByEmail(email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) GetProfileByFirebaseUID(uid string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("firebase_uid = ?", uid).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *PostgresProfileRepository) GetProfilesByIDs(ids []uint) ([]models.Profile, error) {
	var profiles []models.Profile
	if len(ids) == 0 {
		return profiles, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&profiles).Error
	return profiles, err
}

// UpdateProfile saves all fields. A username owned by another profile yields ErrUsernameTaken.
func (r *PostgresProfileRepository) UpdateProfile(profile *models.Profile) error {
	var existing models.Profile
	err := r.db.Where("username = ? AND id <> ?", profile.Username, profile.ID).First(&existing).Error
	if err == nil {
		return ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Save(profile).Error
}

func (r *PostgresProfileRepository) SearchProfiles(query string, limit int) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Where("LOWER(username) LIKE LOWER(?)", "%"+query+"%").
		Order("username ASC").
		Limit(limit).
		Find(&profiles).Error
	return profiles, err
}

func (r *PostgresProfileRepository) ListProfiles() ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Order("created_at DESC").Find(&profiles).Error
	return profiles, err
}
