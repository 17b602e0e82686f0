package repositories

import (
	"github.com/anonto42/preference/backend/internal/models"
	"gorm.io/gorm"
)

// SensitiveWordRepository defines the interface for the moderation word list
type SensitiveWordRepository interface {
	GetWords() ([]models.SensitiveWord, error)
	ReplaceWords(words []string, category string) ([]models.SensitiveWord, error)
}

// PostgresSensitiveWordRepository implements SensitiveWordRepository for PostgreSQL
type PostgresSensitiveWordRepository struct {
	db *gorm.DB
}

// NewPostgresSensitiveWordRepository creates a new PostgresSensitiveWordRepository
func NewPostgresSensitiveWordRepository(db *gorm.DB) *PostgresSensitiveWordRepository {
	return &PostgresSensitiveWordRepository{db: db}
}

// GetWords returns the list in insertion order.
func (r *PostgresSensitiveWordRepository) GetWords() ([]models.SensitiveWord, error) {
	var words []models.SensitiveWord
	err := r.db.Order("id ASC").Find(&words).Error
	return words, err
}

// ReplaceWords deletes the whole list and inserts words in one transaction.
func (r *PostgresSensitiveWordRepository) ReplaceWords(words []string, category string) ([]models.SensitiveWord, error) {
	rows := make([]models.SensitiveWord, 0, len(words))
	for _, w := range words {
		rows = append(rows, models.SensitiveWord{Word: w, Category: category})
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.SensitiveWord{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
