package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/anonto42/preference/backend/internal/models"
	"gorm.io/gorm"
)

func TestGetFeedPagesAndSearch(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresPostRepository(db)
	author := createProfile(t, db, "alice")

	for i := 0; i < 12; i++ {
		createPost(t, db, author.ID, fmt.Sprintf("post %d", i))
	}
	createPost(t, db, author.ID, "Hello World")

	first, err := repo.GetFeed(0, FeedPageSize, "")
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if len(first) != FeedPageSize {
		t.Fatalf("expected %d posts, got %d", FeedPageSize, len(first))
	}
	if first[0].Content != "Hello World" {
		t.Errorf("expected newest post first, got %q", first[0].Content)
	}
	if first[0].Author == nil || first[0].Author.Username != "alice" {
		t.Error("author not preloaded")
	}

	second, err := repo.GetFeed(FeedPageSize, FeedPageSize, "")
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if len(second) != 3 {
		t.Fatalf("expected 3 posts on second page, got %d", len(second))
	}

	found, err := repo.GetFeed(0, FeedPageSize, "hello")
	if err != nil {
		t.Fatalf("GetFeed search: %v", err)
	}
	if len(found) != 1 || found[0].Content != "Hello World" {
		t.Fatalf("search returned %+v", found)
	}
}

func TestGetPostsByUserIDFiltersType(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresPostRepository(db)
	author := createProfile(t, db, "bob")
	orig := createPost(t, db, author.ID, "original")
	if err := repo.CreatePost(&models.Post{UserID: author.ID, Content: "original", Type: models.PostTypeRepost, ParentID: &orig.ID}); err != nil {
		t.Fatal(err)
	}

	reposts, err := repo.GetPostsByUserID(author.ID, models.PostTypeRepost)
	if err != nil {
		t.Fatal(err)
	}
	if len(reposts) != 1 || reposts[0].ParentID == nil || *reposts[0].ParentID != orig.ID {
		t.Fatalf("unexpected reposts: %+v", reposts)
	}
}

func TestDeletePostRemovesDependents(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresPostRepository(db)
	author := createProfile(t, db, "carol")
	post := createPost(t, db, author.ID, "bye")

	if err := NewPostgresLikeRepository(db).LikePost(post.ID, author.ID); err != nil {
		t.Fatal(err)
	}
	if err := NewPostgresCommentRepository(db).CreateComment(&models.Comment{PostID: post.ID, UserID: author.ID, Content: "c"}); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeletePost(post.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	var likes, comments int64
	db.Model(&models.Like{}).Count(&likes)
	db.Model(&models.Comment{}).Count(&comments)
	if likes != 0 || comments != 0 {
		t.Fatalf("dependents left: likes=%d comments=%d", likes, comments)
	}
	if err := repo.DeletePost(post.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
