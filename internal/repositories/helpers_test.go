package repositories

import (
	"fmt"
	"testing"

	"github.com/anonto42/preference/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createProfile(t *testing.T, db *gorm.DB, username string) *models.Profile {
	t.Helper()
	p := &models.Profile{Username: username, Email: username + "@example.com", Role: models.RoleUser}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}

func createPost(t *testing.T, db *gorm.DB, userID uint, content string) *models.Post {
	t.Helper()
	p := &models.Post{UserID: userID, Content: content}
	if err := NewPostgresPostRepository(db).CreatePost(p); err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}
