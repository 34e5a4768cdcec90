package server

import (
	"math/rand"
	"time"
)

type missionDifficulty string

const (
	missionEasy   missionDifficulty = "easy"
	missionMedium missionDifficulty = "medium"
	missionHard   missionDifficulty = "hard"
)

type Mission struct {
	ID          string
	Description string
	Difficulty  missionDifficulty
}

// missionCatalog is read-only and shared across all games.
var missionCatalog = []Mission{
	{ID: "miss_1", Description: "Buy Boots as your first item", Difficulty: missionEasy},
	{ID: "miss_2", Description: "Do not touch the jungle camps for 5 minutes", Difficulty: missionEasy},
	{ID: "miss_3", Description: "Spam the \"On my way\" ping 3 times in a row", Difficulty: missionEasy},
	{ID: "miss_4", Description: "Type \"gg\" in chat every 3 minutes", Difficulty: missionEasy},
	{ID: "miss_5", Description: "Buy a Control Ward", Difficulty: missionEasy},
	{ID: "miss_6", Description: "Steal a neutral objective (Drake/Baron/Herald)", Difficulty: missionMedium},
	{ID: "miss_7", Description: "Die exactly 3 times, no more, no less", Difficulty: missionMedium},
	{ID: "miss_8", Description: "Finish with exactly 100 CS (+/- 5)", Difficulty: missionMedium},
	{ID: "miss_9", Description: "Do not recall before the 10 minute mark", Difficulty: missionMedium},
	{ID: "miss_10", Description: "Get a double kill", Difficulty: missionMedium},
	{ID: "miss_11", Description: "Get a pentakill OR steal the Baron", Difficulty: missionHard},
	{ID: "miss_12", Description: "Finish with the LOWEST damage on your team", Difficulty: missionHard},
	{ID: "miss_13", Description: "Place 15 wards during the match", Difficulty: missionHard},
	{ID: "miss_14", Description: "Win without buying a Mythic item", Difficulty: missionHard},
	{ID: "miss_15", Description: "Get 5 kills without dying (killing spree)", Difficulty: missionHard},
}

// issueMission assigns one unused mission to the player, or reports false
// when the per-game cap is reached or the catalog is exhausted. Running out
// of missions is never an error: issuing simply stops.
func issueMission(game *Game, playerID int, limit int, now time.Time) (MissionAssignment, bool) {
	if len(game.Missions) >= limit {
		return MissionAssignment{}, false
	}
	used := make(map[string]struct{}, len(game.Missions))
	for _, issued := range game.Missions {
		used[issued.MissionID] = struct{}{}
	}
	available := make([]Mission, 0, len(missionCatalog))
	for _, mission := range missionCatalog {
		if _, taken := used[mission.ID]; !taken {
			available = append(available, mission)
		}
	}
	if len(available) == 0 {
		return MissionAssignment{}, false
	}
	pick := available[rand.Intn(len(available))]
	assignment := MissionAssignment{
		PlayerID:    playerID,
		MissionID:   pick.ID,
		Description: pick.Description,
		IssuedAt:    now,
	}
	game.Missions = append(game.Missions, assignment)
	return assignment, true
}

func missionsIssuedTo(game *Game, playerID int) []MissionAssignment {
	issued := make([]MissionAssignment, 0, len(game.Missions))
	for _, mission := range game.Missions {
		if mission.PlayerID == playerID {
			issued = append(issued, mission)
		}
	}
	return issued
}

func missionBearers(game *Game) []int {
	bearers := make([]int, 0, 1)
	for _, player := range game.Players {
		if player.Role == RoleDroide {
			bearers = append(bearers, player.ID)
		}
	}
	return bearers
}
