package repositories

import (
	"github.com/anonto42/preference/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByPostID(postID uint) ([]models.Comment, error)
	GetCommentsByUserID(userID uint) ([]models.Comment, error)
	DeleteComment(comment *models.Comment) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment stores the comment and bumps the post's comment counter.
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	if comment.Images == nil {
		comment.Images = []string{}
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1)).Error
	})
}

func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID lists a post's comments oldest first.
func (r *PostgresCommentRepository) GetCommentsByPostID(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	return comments, err
}

// GetCommentsByUserID lists a user's comments newest first, each with its post.
func (r *PostgresCommentRepository) GetCommentsByUserID(userID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").Preload("Post").Preload("Post.Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) DeleteComment(comment *models.Comment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Comment{}, comment.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ? AND comments_count > 0", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - ?", 1)).Error
	})
}
