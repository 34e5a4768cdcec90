package server

import "testing"

func TestAssignRolesExactlyOneImpostor(t *testing.T) {
	playerIDs := []int{1, 2, 3, 4, 5, 6, 7}
	for trial := 0; trial < 50; trial++ {
		assignments, err := assignRoles(playerIDs)
		if err != nil {
			t.Fatalf("assignRoles: %v", err)
		}
		if len(assignments) != len(playerIDs) {
			t.Fatalf("assigned %d roles, want %d", len(assignments), len(playerIDs))
		}
		impostors := 0
		for id, role := range assignments {
			if !validRoleID(role) {
				t.Fatalf("player %d got unknown role %q", id, role)
			}
			if role == RoleImpostor {
				impostors++
			}
		}
		if impostors != 1 {
			t.Fatalf("trial %d: %d impostors, want exactly 1", trial, impostors)
		}
	}
}

func TestAssignRolesCyclesPoolAtMaxPlayers(t *testing.T) {
	playerIDs := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assignments, err := assignRoles(playerIDs)
	if err != nil {
		t.Fatalf("assignRoles: %v", err)
	}
	// 9 non-impostor seats over a 6-role pool: every role appears at least
	// once and none more than twice.
	counts := make(map[RoleID]int)
	for _, role := range assignments {
		counts[role]++
	}
	for _, role := range nonImpostorRoles() {
		if counts[role] < 1 || counts[role] > 2 {
			t.Fatalf("role %s assigned %d times, want 1 or 2", role, counts[role])
		}
	}
}

func TestAssignRolesRequiresMinimum(t *testing.T) {
	if _, err := assignRoles([]int{1, 2, 3, 4}); err == nil {
		t.Fatal("4 players should not be enough")
	}
}

func TestPickPartnerNeverSelf(t *testing.T) {
	playerIDs := []int{1, 2, 3, 4, 5}
	for trial := 0; trial < 50; trial++ {
		partner := pickPartner(playerIDs, 3)
		if partner == 3 {
			t.Fatal("partner must not be the player themself")
		}
		if partner < 1 || partner > 5 {
			t.Fatalf("partner %d is not a player", partner)
		}
	}
	if pickPartner([]int{9}, 9) != 0 {
		t.Fatal("no candidates should yield 0")
	}
}

func TestRandomAlignmentIsValid(t *testing.T) {
	for trial := 0; trial < 20; trial++ {
		alignment := randomAlignment()
		if alignment != alignmentGood && alignment != alignmentBad {
			t.Fatalf("unexpected alignment %q", alignment)
		}
	}
}
