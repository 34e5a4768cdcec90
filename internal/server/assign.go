package server

import (
	"errors"
	"math/rand"
)

var errNotEnoughPlayers = errors.New("not enough players")

// assignRoles maps every player to a role: exactly one Impostor, the rest
// drawn from a shuffled pool of the remaining roles, cycling when players
// outnumber roles. Pure; persisting the result is the caller's job.
func assignRoles(playerIDs []int) (map[int]RoleID, error) {
	if len(playerIDs) < minPlayers {
		return nil, errNotEnoughPlayers
	}

	players := make([]int, len(playerIDs))
	copy(players, playerIDs)
	shuffleInts(players)

	pool := nonImpostorRoles()
	shuffleRoles(pool)

	assignments := make(map[int]RoleID, len(players))
	assignments[players[0]] = RoleImpostor
	for i := 1; i < len(players); i++ {
		assignments[players[i]] = pool[(i-1)%len(pool)]
	}
	return assignments, nil
}

// Fisher-Yates. Uniformity matters here, repeatability does not.
func shuffleInts(values []int) {
	for i := len(values) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		values[i], values[j] = values[j], values[i]
	}
}

func shuffleRoles(values []RoleID) {
	for i := len(values) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		values[i], values[j] = values[j], values[i]
	}
}

func randomAlignment() string {
	if rand.Intn(2) == 0 {
		return alignmentGood
	}
	return alignmentBad
}

// pickPartner selects a random other player for the Romeo pairing.
func pickPartner(playerIDs []int, selfID int) int {
	candidates := make([]int, 0, len(playerIDs)-1)
	for _, id := range playerIDs {
		if id != selfID {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return 0
	}
	return candidates[rand.Intn(len(candidates))]
}
