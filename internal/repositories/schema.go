package repositories

import (
	"github.com/anonto42/preference/backend/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates the relational schema from the models. Production
// deployments apply the SQL migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Collection{},
		&models.CollectionItem{},
		&models.Group{},
		&models.GroupMember{},
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
		&models.Notification{},
		&models.SensitiveWord{},
		&models.PushSubscription{},
	)
}
