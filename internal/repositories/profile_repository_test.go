package repositories

import (
	"errors"
	"testing"
)

func TestUpdateProfileRejectsTakenUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresProfileRepository(db)
	createProfile(t, db, "taken")
	p := createProfile(t, db, "free")

	p.Username = "taken"
	if err := repo.UpdateProfile(p); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	p.Username = "renamed"
	if err := repo.UpdateProfile(p); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetProfileByUsername("renamed")
	if err != nil || got.ID != p.ID {
		t.Fatalf("lookup after rename: %v %v", got, err)
	}
}

func TestSearchProfilesCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresProfileRepository(db)
	createProfile(t, db, "MaryJane")
	createProfile(t, db, "mark")
	createProfile(t, db, "zoe")

	found, err := repo.SearchProfiles("MAR", 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(found))
	}

	byEmail, err := repo.GetProfileByEmail("ZOE@example.com")
	if err != nil || byEmail.Username != "zoe" {
		t.Fatalf("GetProfileByEmail: %v %v", byEmail, err)
	}
}
