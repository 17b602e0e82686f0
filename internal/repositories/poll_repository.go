package repositories

import (
	"errors"
	"time"

	"github.com/anonto42/preference/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PollRepository defines the interface for group polls
type PollRepository interface {
	CreatePoll(poll *models.Poll) error
	GetPollByID(id uint) (*models.Poll, error)
	GetPollsByIDs(ids []uint) (map[uint]*models.Poll, error)
	GetVotedOptionIDs(userID uint, pollIDs []uint) (map[uint]bool, error)
	Vote(pollID, optionID, userID uint, now time.Time) (bool, error)
}

// PostgresPollRepository implements PollRepository for PostgreSQL
type PostgresPollRepository struct {
	db *gorm.DB
}

// NewPostgresPollRepository creates a new PostgresPollRepository
func NewPostgresPollRepository(db *gorm.DB) *PostgresPollRepository {
	return &PostgresPollRepository{db: db}
}

// CreatePoll stores the poll together with its options.
func (r *PostgresPollRepository) CreatePoll(poll *models.Poll) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(poll).Error
	})
}

func (r *PostgresPollRepository) GetPollByID(id uint) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&poll, id).Error
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *PostgresPollRepository) GetPollsByIDs(ids []uint) (map[uint]*models.Poll, error) {
	result := make(map[uint]*models.Poll)
	if len(ids) == 0 {
		return result, nil
	}
	var polls []models.Poll
	err := r.db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Where("id IN ?", ids).Find(&polls).Error
	if err != nil {
		return nil, err
	}
	for i := range polls {
		result[polls[i].ID] = &polls[i]
	}
	return result, nil
}

// GetVotedOptionIDs returns the option ids the user picked across pollIDs.
func (r *PostgresPollRepository) GetVotedOptionIDs(userID uint, pollIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(pollIDs) == 0 {
		return result, nil
	}
	var ids []uint
	err := r.db.Model(&models.PollVote{}).Where("user_id = ? AND poll_id IN ?", userID, pollIDs).Pluck("option_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// Vote records the user's vote on an option and bumps its counter.
// It returns false without error when a multiple choice vote repeats an option.
func (r *PostgresPollRepository) Vote(pollID, optionID, userID uint, now time.Time) (bool, error) {
	voted := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var poll models.Poll
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&poll, pollID).Error; err != nil {
			return err
		}
		if poll.IsExpired(now) {
			return ErrPollExpired
		}

		var option models.PollOption
		if err := tx.Where("id = ? AND poll_id = ?", optionID, pollID).First(&option).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOptionNotFound
			}
			return err
		}

		if !poll.IsMultipleChoice {
			var count int64
			err := tx.Model(&models.PollVote{}).Where("poll_id = ? AND user_id = ?", pollID, userID).Count(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrAlreadyVoted
			}
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PollVote{PollID: pollID, OptionID: optionID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if poll.IsMultipleChoice {
				return nil
			}
			return ErrAlreadyVoted
		}
		voted = true
		return tx.Model(&models.PollOption{}).Where("id = ?", optionID).
			UpdateColumn("votes_count", gorm.Expr("votes_count + ?", 1)).Error
	})
	return voted, err
}
