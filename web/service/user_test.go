package service

import (
	"testing"
)

func TestFollowGraph(t *testing.T) {
	userService := UserService{}
	alice := newUser(t)
	bob := newUser(t)

	if err := userService.Follow(alice.Id, bob.Username); err != nil {
		t.Fatal("follow failed:", err)
	}
	follows, err := userService.Follows(alice.Id, bob.Username)
	if err != nil || !follows {
		t.Error("alice should follow bob")
	}
	// the edge is directed
	follows, err = userService.Follows(bob.Id, alice.Username)
	if err != nil || follows {
		t.Error("bob should not follow alice")
	}

	// re-following is a no-op
	if err := userService.Follow(alice.Id, bob.Username); err != nil {
		t.Error("refollow should succeed:", err)
	}

	followers, err := userService.GetFollowers(bob.Username)
	if err != nil {
		t.Fatal("followers failed:", err)
	}
	if len(followers) != 1 || followers[0].Id != alice.Id {
		t.Error("bob's followers should be exactly alice")
	}
	following, err := userService.GetFollowing(alice.Username)
	if err != nil {
		t.Fatal("following failed:", err)
	}
	if len(following) != 1 || following[0].Id != bob.Id {
		t.Error("alice should follow exactly bob")
	}

	if err := userService.Unfollow(alice.Id, bob.Username); err != nil {
		t.Fatal("unfollow failed:", err)
	}
	follows, _ = userService.Follows(alice.Id, bob.Username)
	if follows {
		t.Error("edge should be removed")
	}
}

func TestFollowRejectsSelfAndUnknown(t *testing.T) {
	userService := UserService{}
	user := newUser(t)

	if err := userService.Follow(user.Id, user.Username); err != ErrForbidden {
		t.Errorf("self-follow: err = %v, want ErrForbidden", err)
	}
	if err := userService.Follow(user.Id, "ghost-user"); err != ErrNotFound {
		t.Errorf("unknown followee: err = %v, want ErrNotFound", err)
	}
}

func TestSearchByUsername(t *testing.T) {
	userService := UserService{}
	user := newUser(t)

	users, err := userService.SearchByUsername(user.Username)
	if err != nil {
		t.Fatal("search failed:", err)
	}
	if len(users) != 1 || users[0].Id != user.Id {
		t.Error("exact username should match itself")
	}

	users, err = userService.SearchByUsername("   ")
	if err != nil {
		t.Fatal("search failed:", err)
	}
	if len(users) != 0 {
		t.Error("blank query should return nothing")
	}
}

func TestUpdateProfile(t *testing.T) {
	userService := UserService{}
	user := newUser(t)

	updated, err := userService.UpdateProfile(user.Id, ProfileUpdate{
		Name:    "Display Name",
		Bio:     "hello",
		Twitter: "@handle",
	})
	if err != nil {
		t.Fatal("update failed:", err)
	}
	if updated.Name != "Display Name" || updated.Bio != "hello" || updated.Twitter != "@handle" {
		t.Error("profile fields not applied")
	}
	if updated.Username != user.Username {
		t.Error("username must not change")
	}
}

func TestStats(t *testing.T) {
	userService := UserService{}
	user := newUser(t)

	// fresh accounts report zeroes
	stats, err := userService.GetStats(user.Username)
	if err != nil {
		t.Fatal("stats failed:", err)
	}
	if stats.Wins != 0 || stats.TotalGames != 0 || stats.TotalPoints != 0 {
		t.Error("fresh account should have zero stats")
	}

	for _, won := range []bool{true, true, false} {
		if err := userService.RecordGame(user.Id, won, 5); err != nil {
			t.Fatal("record failed:", err)
		}
	}

	stats, err = userService.GetStats(user.Username)
	if err != nil {
		t.Fatal("stats failed:", err)
	}
	if stats.Wins != 2 || stats.Losses != 1 || stats.Serves != 15 {
		t.Errorf("counters = %+v, want 2/1/15", stats)
	}
	if stats.TotalGames != 3 {
		t.Errorf("totalGames = %d, want 3", stats.TotalGames)
	}
	if stats.TotalPoints != 3 {
		t.Errorf("totalPoints = %d, want 3", stats.TotalPoints)
	}

	if _, err := userService.GetStats("ghost-user"); err != ErrNotFound {
		t.Errorf("unknown user: err = %v, want ErrNotFound", err)
	}
}
