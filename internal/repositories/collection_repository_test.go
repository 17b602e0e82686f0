package repositories

import (
	"errors"
	"testing"

	"github.com/anonto42/preference/backend/internal/models"
)

func TestDefaultCollectionAndBookmarks(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresCollectionRepository(db)
	user := createProfile(t, db, "frank")
	post := createPost(t, db, user.ID, "keep")

	def, err := repo.GetOrCreateDefault(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	again, err := repo.GetOrCreateDefault(user.ID)
	if err != nil || again.ID != def.ID {
		t.Fatalf("default collection not reused: %v %v", again, err)
	}

	if err := repo.AddItem(def.ID, post.ID); err != nil {
		t.Fatal(err)
	}
	if err := repo.AddItem(def.ID, post.ID); !errors.Is(err, ErrAlreadyInList) {
		t.Fatalf("expected ErrAlreadyInList, got %v", err)
	}

	marked, err := repo.GetBookmarkedPostIDs(user.ID, []uint{post.ID})
	if err != nil || !marked[post.ID] {
		t.Fatalf("bookmark not reported: %v %v", marked, err)
	}

	list, _ := repo.GetCollectionsByUserID(user.ID)
	if len(list) != 1 || list[0].ItemsCount != 1 {
		t.Fatalf("unexpected collections: %+v", list)
	}

	items, _ := repo.GetItems(def.ID)
	if len(items) != 1 || items[0].ID != post.ID {
		t.Fatalf("unexpected items: %+v", items)
	}

	if err := repo.RemoveItem(def.ID, post.ID); err != nil {
		t.Fatal(err)
	}
	if err := repo.RemoveItem(def.ID, post.ID); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestDeleteCollectionDropsItems(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresCollectionRepository(db)
	user := createProfile(t, db, "gina")
	post := createPost(t, db, user.ID, "x")

	c := &models.Collection{UserID: user.ID, Name: "Recipes"}
	if err := repo.CreateCollection(c); err != nil {
		t.Fatal(err)
	}
	_ = repo.AddItem(c.ID, post.ID)
	if err := repo.DeleteCollection(c.ID); err != nil {
		t.Fatal(err)
	}
	var n int64
	db.Model(&models.CollectionItem{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected items removed, %d left", n)
	}
}

func TestCollectionItemCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresCollectionRepository(db)
	user := createProfile(t, db, "hana")
	a := createPost(t, db, user.ID, "a")
	b := createPost(t, db, user.ID, "b")

	full := &models.Collection{UserID: user.ID, Name: "full"}
	empty := &models.Collection{UserID: user.ID, Name: "empty"}
	for _, c := range []*models.Collection{full, empty} {
		if err := repo.CreateCollection(c); err != nil {
			t.Fatal(err)
		}
	}
	for _, id := range []uint{a.ID, b.ID} {
		if err := repo.AddItem(full.ID, id); err != nil {
			t.Fatal(err)
		}
	}

	list, err := repo.GetCollectionsByUserID(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ItemsCount != 2 || list[1].ItemsCount != 0 {
		t.Fatalf("unexpected counts: %+v", list)
	}

	if err := db.Migrator().DropTable(&models.CollectionItem{}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetCollectionsByUserID(user.ID); err == nil {
		t.Fatal("expected count query error")
	}
}
