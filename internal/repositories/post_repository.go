package repositories

import (
	"github.com/anonto42/preference/backend/internal/models"
	"gorm.io/gorm"
)

// FeedPageSize is the number of posts returned per feed page.
const FeedPageSize = 10

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetFeed(offset, limit int, query string) ([]models.Post, error)
	GetPostsByUserID(userID uint, postType string) ([]models.Post, error)
	GetLikedPosts(userID uint) ([]models.Post, error)
	DeletePost(id uint) error
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	if post.Type == "" {
		post.Type = models.PostTypeOriginal
	}
	if post.Images == nil {
		post.Images = []string{}
	}
	return r.db.Create(post).Error
}

// GetPostByID retrieves a post with its author
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Author").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetFeed returns posts newest first starting at offset, optionally filtered by content.
func (r *PostgresPostRepository) GetFeed(offset, limit int, query string) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Preload("Author").Order("created_at DESC").Order("id DESC")
	if query != "" {
		q = q.Where("LOWER(content) LIKE LOWER(?)", "%"+query+"%")
	}
	err := q.Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

// GetPostsByUserID lists a user's posts of one type, newest first. An empty type lists all.
func (r *PostgresPostRepository) GetPostsByUserID(userID uint, postType string) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Preload("Author").Where("user_id = ?", userID)
	if postType != "" {
		q = q.Where("type = ?", postType)
	}
	err := q.Order("created_at DESC").Order("id DESC").Find(&posts).Error
	return posts, err
}

// GetLikedPosts lists posts the user liked, most recent like first.
func (r *PostgresPostRepository) GetLikedPosts(userID uint) ([]models.Post, error) {
	var likes []models.Like
	err := r.db.Preload("Post").Preload("Post.Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(likes))
	for _, l := range likes {
		if l.Post != nil {
			posts = append(posts, *l.Post)
		}
	}
	return posts, nil
}

// DeletePost removes a post with its comments, likes and bookmarks.
func (r *PostgresPostRepository) DeletePost(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&models.Comment{}, &models.Like{}, &models.CollectionItem{}} {
			if err := tx.Where("post_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
