package server

import (
	"errors"
	"fmt"
)

// Guess collector: one full set of peer-role guesses per player. A set must
// cover every other player exactly once; anything partial or malformed is
// rejected whole, leaving any earlier submission untouched.

func replaceGuesses(game *Game, guesserID int, guesses []RoleGuess) error {
	if game.Status != statusVoting || game.Phase != phaseVote {
		return errors.New("guesses are not being collected right now")
	}
	if _, ok := findGamePlayer(game, guesserID); !ok {
		return errors.New("player not found")
	}
	required := len(game.Players) - 1
	if len(guesses) != required {
		return fmt.Errorf("a full set of %d guesses is required", required)
	}
	seen := make(map[int]struct{}, len(guesses))
	for _, guess := range guesses {
		if guess.TargetID == guesserID {
			return errors.New("cannot guess your own role")
		}
		if _, ok := findGamePlayer(game, guess.TargetID); !ok {
			return errors.New("guess targets an unknown player")
		}
		if _, dup := seen[guess.TargetID]; dup {
			return errors.New("duplicate guess target")
		}
		if !validRoleID(guess.Role) {
			return errors.New("unknown role in guess")
		}
		seen[guess.TargetID] = struct{}{}
	}
	stored := make([]RoleGuess, len(guesses))
	copy(stored, guesses)
	game.Guesses[guesserID] = stored
	return nil
}

func guessesComplete(game *Game) bool {
	if len(game.Players) == 0 {
		return false
	}
	for _, player := range game.Players {
		if _, ok := game.Guesses[player.ID]; !ok {
			return false
		}
	}
	return true
}

func guessProgress(game *Game) (total, submitted int) {
	total = len(game.Players)
	for _, player := range game.Players {
		if _, ok := game.Guesses[player.ID]; ok {
			submitted++
		}
	}
	return total, submitted
}

// flattenGuesses converts the per-guesser sets into the flat list the
// scoring engine takes, ordered by player seat so scoring input is stable.
func flattenGuesses(game *Game) []scoredGuess {
	flat := make([]scoredGuess, 0, len(game.Players)*(len(game.Players)-1))
	for _, player := range game.Players {
		for _, guess := range game.Guesses[player.ID] {
			flat = append(flat, scoredGuess{
				GuesserID: player.ID,
				TargetID:  guess.TargetID,
				Role:      guess.Role,
			})
		}
	}
	return flat
}
