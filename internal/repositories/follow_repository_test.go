package repositories

import (
	"errors"
	"testing"

	"github.com/anonto42/preference/backend/internal/models"
)

func TestMutualFollows(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)
	me := createProfile(t, db, "me")
	friend := createProfile(t, db, "friend")
	fan := createProfile(t, db, "fan")
	idol := createProfile(t, db, "idol")

	follow := func(a, b uint) {
		t.Helper()
		if err := repo.CreateFollow(&models.Follow{FollowerID: a, FollowingID: b}); err != nil {
			t.Fatalf("follow %d->%d: %v", a, b, err)
		}
	}
	follow(me.ID, friend.ID)
	follow(friend.ID, me.ID)
	follow(fan.ID, me.ID)
	follow(me.ID, idol.ID)

	if err := repo.CreateFollow(&models.Follow{FollowerID: me.ID, FollowingID: friend.ID}); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("expected ErrAlreadyFollowing, got %v", err)
	}

	mutual, err := repo.GetMutualFollows(me.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(mutual) != 1 || mutual[0].ID != friend.ID {
		t.Fatalf("expected only friend, got %+v", mutual)
	}

	stats, err := repo.GetFollowStats(me.ID, fan.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Followers != 2 || stats.Following != 2 || !stats.IsFollowing {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	stats, err = repo.GetFollowStats(me.ID, idol.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.IsFollowing {
		t.Fatal("idol does not follow me")
	}

	if err := repo.DeleteFollow(fan.ID, idol.ID); !errors.Is(err, ErrFollowNotFound) {
		t.Fatalf("expected ErrFollowNotFound, got %v", err)
	}
}
