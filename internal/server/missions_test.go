package server

import (
	"testing"
)

func TestIssueMissionRespectsCap(t *testing.T) {
	game := buildTestGame(5)
	now := timeNowUTC()
	for i := 0; i < 4; i++ {
		if _, ok := issueMission(game, 3, 4, now); !ok {
			t.Fatalf("issue %d should succeed", i+1)
		}
	}
	if _, ok := issueMission(game, 3, 4, now); ok {
		t.Fatal("fifth mission should exceed the cap")
	}
	if len(game.Missions) != 4 {
		t.Fatalf("have %d missions, want 4", len(game.Missions))
	}
}

func TestIssueMissionNeverRepeats(t *testing.T) {
	game := buildTestGame(5)
	now := timeNowUTC()
	seen := make(map[string]struct{})
	for i := 0; i < len(missionCatalog); i++ {
		assignment, ok := issueMission(game, 3, len(missionCatalog)+1, now)
		if !ok {
			t.Fatalf("issue %d should succeed with the catalog not exhausted", i+1)
		}
		if _, dup := seen[assignment.MissionID]; dup {
			t.Fatalf("mission %s issued twice", assignment.MissionID)
		}
		seen[assignment.MissionID] = struct{}{}
	}
	// Catalog exhausted: issuing stops without error.
	if _, ok := issueMission(game, 3, len(missionCatalog)+1, now); ok {
		t.Fatal("exhausted catalog should stop issuing")
	}
}

func TestMissionBearers(t *testing.T) {
	game := buildTestGame(5)
	game.Players[2].Role = RoleDroide
	bearers := missionBearers(game)
	if len(bearers) != 1 || bearers[0] != 3 {
		t.Fatalf("bearers = %v, want [3]", bearers)
	}
}
