package model

import "testing"

func TestParseRoomKind(t *testing.T) {
	tests := []struct {
		in   string
		want RoomKind
		ok   bool
	}{
		{"public", RoomPublic, true},
		{"protected", RoomProtected, true},
		{"private", RoomPrivate, true},
		{"  Public ", RoomPublic, true},
		{"PROTECTED", RoomProtected, true},
		{"", "", false},
		{"hidden", "", false},
	}

	for _, tc := range tests {
		got, ok := ParseRoomKind(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseRoomKind(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"owner", RoleOwner, true},
		{"admin", RoleAdmin, true},
		{"member", RoleMember, true},
		{" Owner ", RoleOwner, true},
		{"", "", false},
		{"moderator", "", false},
	}

	for _, tc := range tests {
		got, ok := ParseRole(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRoleCanModerate(t *testing.T) {
	if !RoleOwner.CanModerate() {
		t.Error("owner should moderate")
	}
	if !RoleAdmin.CanModerate() {
		t.Error("admin should moderate")
	}
	if RoleMember.CanModerate() {
		t.Error("member should not moderate")
	}
}

func TestPlayerStatsTotals(t *testing.T) {
	tests := []struct {
		name       string
		stats      PlayerStats
		wantGames  int
		wantPoints int
	}{
		{"zero stats", PlayerStats{}, 0, 0},
		{"only wins", PlayerStats{Wins: 3}, 3, 6},
		{"mixed", PlayerStats{Wins: 2, Losses: 3}, 5, 1},
		{"points floored at zero", PlayerStats{Wins: 1, Losses: 5}, 6, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.stats.TotalGames(); got != tc.wantGames {
				t.Errorf("TotalGames() = %d, want %d", got, tc.wantGames)
			}
			if got := tc.stats.TotalPoints(); got != tc.wantPoints {
				t.Errorf("TotalPoints() = %d, want %d", got, tc.wantPoints)
			}
		})
	}
}
