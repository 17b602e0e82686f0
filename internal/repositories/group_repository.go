package repositories

import (
	"errors"

	"github.com/anonto42/preference/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository defines the interface for group chat membership
type GroupRepository interface {
	CreateGroup(group *models.Group, memberIDs []uint) error
	GetGroupByID(id uint) (*models.Group, error)
	GetGroupBySlug(slug string) (*models.Group, error)
	GetGroupsByUserID(userID uint) ([]models.Group, error)
	GetMembers(groupID uint) ([]models.Profile, error)
	IsMember(groupID, userID uint) (bool, error)
	EnsureMember(groupID, userID uint) error
}

// PostgresGroupRepository implements GroupRepository for PostgreSQL
type PostgresGroupRepository struct {
	db *gorm.DB
}

// NewPostgresGroupRepository creates a new PostgresGroupRepository
func NewPostgresGroupRepository(db *gorm.DB) *PostgresGroupRepository {
	return &PostgresGroupRepository{db: db}
}

// CreateGroup stores the group and its members. Duplicate ids are added once.
func (r *PostgresGroupRepository) CreateGroup(group *models.Group, memberIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		seen := make(map[uint]bool)
		for _, id := range memberIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			if err := tx.Create(&models.GroupMember{GroupID: group.ID, UserID: id}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresGroupRepository) GetGroupByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// GetGroupBySlug finds a system group such as the management group.
func (r *PostgresGroupRepository) GetGroupBySlug(slug string) (*models.Group, error) {
	var group models.Group
	if err := r.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *PostgresGroupRepository) GetGroupsByUserID(userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.Where("id IN (?)",
		r.db.Model(&models.GroupMember{}).Select("group_id").Where("user_id = ?", userID),
	).Order("created_at ASC").Order("id ASC").Find(&groups).Error
	return groups, err
}

func (r *PostgresGroupRepository) GetMembers(groupID uint) ([]models.Profile, error) {
	var members []models.GroupMember
	err := r.db.Preload("User").Where("group_id = ?", groupID).Order("created_at ASC").Order("id ASC").Find(&members).Error
	if err != nil {
		return nil, err
	}
	profiles := make([]models.Profile, 0, len(members))
	for _, m := range members {
		if m.User != nil {
			profiles = append(profiles, *m.User)
		}
	}
	return profiles, nil
}

func (r *PostgresGroupRepository) IsMember(groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).Where("group_id = ? AND user_id = ?", groupID, userID).Count(&count).Error
	return count > 0, err
}

// EnsureMember adds the user to the group when not already a member.
func (r *PostgresGroupRepository) EnsureMember(groupID, userID uint) error {
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.GroupMember{GroupID: groupID, UserID: userID}).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	return nil
}
