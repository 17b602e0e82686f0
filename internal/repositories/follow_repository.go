package repositories

import (
	"github.com/anonto42/preference/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowStats are the counters shown on a profile page.
type FollowStats struct {
	Followers   int64
	Following   int64
	IsFollowing bool
}

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	CreateFollow(follow *models.Follow) error
	DeleteFollow(followerID, followingID uint) error
	GetFollowStats(userID, viewerID uint) (*FollowStats, error)
	GetMutualFollows(userID uint) ([]models.Profile, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow relies on the follower/following unique index; a repeat yields ErrAlreadyFollowing.
func (r *PostgresFollowRepository) CreateFollow(follow *models.Follow) error {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(follow)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyFollowing
	}
	return nil
}

func (r *PostgresFollowRepository) DeleteFollow(followerID, followingID uint) error {
	res := r.db.Where(map[string]interface{}{"follower_id": followerID, "following_id": followingID}).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

// GetFollowStats counts both directions for userID and whether viewerID follows them.
func (r *PostgresFollowRepository) GetFollowStats(userID, viewerID uint) (*FollowStats, error) {
	var row struct {
		Followers int64
		Following int64
		Viewer    int64
	}
	err := r.db.Raw(`SELECT
		(SELECT COUNT(*) FROM follows WHERE following_id = ?) AS followers,
		(SELECT COUNT(*) FROM follows WHERE follower_id = ?) AS following,
		(SELECT COUNT(*) FROM follows WHERE follower_id = ? AND following_id = ?) AS viewer`,
		userID, userID, viewerID, userID,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &FollowStats{
		Followers:   row.Followers,
		Following:   row.Following,
		IsFollowing: row.Viewer > 0,
	}, nil
}

// GetMutualFollows returns the profiles the user follows that follow back.
func (r *PostgresFollowRepository) GetMutualFollows(userID uint) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Model(&models.Profile{}).
		Joins("JOIN follows AS outgoing ON outgoing.following_id = profiles.id AND outgoing.follower_id = ?", userID).
		Joins("JOIN follows AS incoming ON incoming.follower_id = profiles.id AND incoming.following_id = ?", userID).
		Order("profiles.username ASC").
		Find(&profiles).Error
	return profiles, err
}
