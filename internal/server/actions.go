package server

import (
	"errors"
	"time"
)

// Side-action registry: an append-only log of role actions on a game,
// validated at record time. Storage itself never rejects; the
// preconditions live here so the log only ever holds legal entries.

const defaultRomeoRespectedPairing = true

// recordReveal logs the Double-Face mid-debate reveal. Allowed once per
// player, only during the debate phase, and only within the opening window
// after the debate starts.
func recordReveal(game *Game, playerID int, alignment string, window time.Duration, now time.Time) (RoleAction, error) {
	player, ok := findGamePlayer(game, playerID)
	if !ok {
		return RoleAction{}, errors.New("player not found")
	}
	if player.Role != RoleDoubleFace {
		return RoleAction{}, errors.New("only the Double-Face can reveal")
	}
	if game.Status != statusPlaying || game.Phase != phaseDebate {
		return RoleAction{}, errors.New("reveal is only allowed during the debate")
	}
	if now.Sub(game.DebateStartedAt) > window {
		return RoleAction{}, errors.New("reveal window has closed")
	}
	if hasRevealed(game, playerID) {
		return RoleAction{}, errors.New("reveal already recorded")
	}
	if alignment != alignmentGood && alignment != alignmentBad {
		return RoleAction{}, errors.New("invalid alignment")
	}
	action := RoleAction{
		PlayerID: playerID,
		Type:     actionReveal,
		Reveal:   &RevealAction{Alignment: alignment},
		At:       now,
	}
	game.Actions = append(game.Actions, action)
	return action, nil
}

// recordMissionCompleted logs a Droide mission clear. The mission must have
// been issued to that player and not already completed, which bounds the
// completion count by the issue count.
func recordMissionCompleted(game *Game, playerID int, missionID string, now time.Time) (RoleAction, error) {
	player, ok := findGamePlayer(game, playerID)
	if !ok {
		return RoleAction{}, errors.New("player not found")
	}
	if player.Role != RoleDroide {
		return RoleAction{}, errors.New("only the Droide completes missions")
	}
	if game.Status != statusPlaying && game.Status != statusVoting {
		return RoleAction{}, errors.New("missions cannot be completed now")
	}
	issued := false
	for _, mission := range game.Missions {
		if mission.PlayerID == playerID && mission.MissionID == missionID {
			issued = true
			break
		}
	}
	if !issued {
		return RoleAction{}, errors.New("mission was not issued to this player")
	}
	for _, action := range game.Actions {
		if action.Type == actionMissionCompleted && action.PlayerID == playerID &&
			action.Mission != nil && action.Mission.MissionID == missionID {
			return RoleAction{}, errors.New("mission already completed")
		}
	}
	action := RoleAction{
		PlayerID: playerID,
		Type:     actionMissionCompleted,
		Mission:  &MissionAction{MissionID: missionID},
		At:       now,
	}
	game.Actions = append(game.Actions, action)
	return action, nil
}

func hasRevealed(game *Game, playerID int) bool {
	for _, action := range game.Actions {
		if action.Type == actionReveal && action.PlayerID == playerID {
			return true
		}
	}
	return false
}

func revealedAlignment(game *Game, playerID int) string {
	for _, action := range game.Actions {
		if action.Type == actionReveal && action.PlayerID == playerID && action.Reveal != nil {
			return action.Reveal.Alignment
		}
	}
	return ""
}

func countCompletedMissions(game *Game, playerID int) int {
	count := 0
	for _, action := range game.Actions {
		if action.Type == actionMissionCompleted && action.PlayerID == playerID {
			count++
		}
	}
	return count
}

// actionSummaries condenses the action log into the per-player shape the
// scoring engine consumes.
func actionSummaries(game *Game) map[int]actionSummary {
	summaries := make(map[int]actionSummary, len(game.Players))
	for _, player := range game.Players {
		summaries[player.ID] = actionSummary{
			Revealed:          hasRevealed(game, player.ID),
			RevealedAlignment: revealedAlignment(game, player.ID),
			RespectedPairing:  defaultRomeoRespectedPairing,
			MissionsCompleted: countCompletedMissions(game, player.ID),
			MissionsIssued:    len(missionsIssuedTo(game, player.ID)),
		}
	}
	return summaries
}

func findGamePlayer(game *Game, playerID int) (*Player, bool) {
	for i := range game.Players {
		if game.Players[i].ID == playerID {
			return &game.Players[i], true
		}
	}
	return nil, false
}
