package repositories

import (
	"errors"

	"github.com/anonto42/preference/backend/internal/models"
	"gorm.io/gorm"
)

// CollectionRepository defines the interface for bookmark collections
type CollectionRepository interface {
	GetCollectionsByUserID(userID uint) ([]models.Collection, error)
	GetCollectionByID(id uint) (*models.Collection, error)
	GetOrCreateDefault(userID uint) (*models.Collection, error)
	CreateCollection(collection *models.Collection) error
	RenameCollection(id uint, name string) error
	DeleteCollection(id uint) error
	AddItem(collectionID, postID uint) error
	RemoveItem(collectionID, postID uint) error
	GetItems(collectionID uint) ([]models.Post, error)
	IsInCollection(collectionID, postID uint) (bool, error)
	GetBookmarkedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error)
}

type postgresCollectionRepository struct {
	db *gorm.DB
}

func NewPostgresCollectionRepository(db *gorm.DB) CollectionRepository {
	return &postgresCollectionRepository{db: db}
}

func (r *postgresCollectionRepository) GetCollectionsByUserID(userID uint) ([]models.Collection, error) {
	var collections []models.Collection
	if err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Order("id ASC").Find(&collections).Error; err != nil {
		return nil, err
	}
	if len(collections) == 0 {
		return collections, nil
	}

	ids := make([]uint, len(collections))
	for i, c := range collections {
		ids[i] = c.ID
	}
	var counts []struct {
		CollectionID uint
		Count        int64
	}
	err := r.db.Model(&models.CollectionItem{}).
		Select("collection_id, COUNT(*) AS count").
		Where("collection_id IN ?", ids).
		Group("collection_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byID[c.CollectionID] = c.Count
	}
	for i := range collections {
		collections[i].ItemsCount = byID[collections[i].ID]
	}
	return collections, nil
}

func (r *postgresCollectionRepository) GetCollectionByID(id uint) (*models.Collection, error) {
	var collection models.Collection
	if err := r.db.First(&collection, id).Error; err != nil {
		return nil, err
	}
	return &collection, nil
}

// GetOrCreateDefault returns the user's default collection, creating it on first use.
func (r *postgresCollectionRepository) GetOrCreateDefault(userID uint) (*models.Collection, error) {
	var collection models.Collection
	err := r.db.Where("user_id = ? AND name = ?", userID, models.DefaultCollectionName).
		Order("id ASC").First(&collection).Error
	if err == nil {
		return &collection, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	collection = models.Collection{UserID: userID, Name: models.DefaultCollectionName}
	if err := r.db.Create(&collection).Error; err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *postgresCollectionRepository) CreateCollection(collection *models.Collection) error {
	return r.db.Create(collection).Error
}

func (r *postgresCollectionRepository) RenameCollection(id uint, name string) error {
	return r.db.Model(&models.Collection{}).Where("id = ?", id).Update("name", name).Error
}

func (r *postgresCollectionRepository) DeleteCollection(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&models.CollectionItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Collection{}, id).Error
	})
}

// AddItem relies on the unique (collection, post) index; the DB must be
// opened with TranslateError so the violation surfaces as gorm.ErrDuplicatedKey.
func (r *postgresCollectionRepository) AddItem(collectionID, postID uint) error {
	err := r.db.Create(&models.CollectionItem{CollectionID: collectionID, PostID: postID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyInList
	}
	return err
}

func (r *postgresCollectionRepository) RemoveItem(collectionID, postID uint) error {
	res := r.db.Where("collection_id = ? AND post_id = ?", collectionID, postID).Delete(&models.CollectionItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// GetItems lists the collection's posts, most recently saved first.
func (r *postgresCollectionRepository) GetItems(collectionID uint) ([]models.Post, error) {
	var items []models.CollectionItem
	err := r.db.Preload("Post").Preload("Post.Author").
		Where("collection_id = ?", collectionID).
		Order("created_at DESC").Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(items))
	for _, it := range items {
		if it.Post != nil {
			posts = append(posts, *it.Post)
		}
	}
	return posts, nil
}

func (r *postgresCollectionRepository) IsInCollection(collectionID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CollectionItem{}).Where("collection_id = ? AND post_id = ?", collectionID, postID).Count(&count).Error
	return count > 0, err
}

// GetBookmarkedPostIDs reports which of postIDs sit in any of the user's collections.
func (r *postgresCollectionRepository) GetBookmarkedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.Model(&models.CollectionItem{}).
		Where("post_id IN ? AND collection_id IN (?)", postIDs,
			r.db.Model(&models.Collection{}).Select("id").Where("user_id = ?", userID)).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}
