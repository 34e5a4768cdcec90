package server

import "time"

// snapshot renders the shared view of a game. Roles, alignments, partners
// and missions stay hidden until the game is finished; per-player secrets
// travel over private websocket sends instead.
func (s *Server) snapshot(game *Game) map[string]any {
	finished := game.Status == statusFinished
	players := make([]map[string]any, 0, len(game.Players))
	for i := range game.Players {
		player := &game.Players[i]
		entry := map[string]any{
			"id":      player.ID,
			"name":    player.Name,
			"color":   player.Color,
			"is_host": player.IsHost,
			"ready":   player.Ready,
		}
		if finished {
			entry["role"] = player.Role
			if player.Points != nil {
				entry["points"] = *player.Points
			}
		}
		players = append(players, entry)
	}

	payload := map[string]any{
		"type":      "game-update",
		"id":        game.ID,
		"join_code": game.JoinCode,
		"status":    game.Status,
		"phase":     game.Phase,
		"players":   players,
	}
	if game.PhaseDeadline != nil {
		payload["deadline"] = game.PhaseDeadline.UTC().Format(time.RFC3339)
	}
	switch {
	case game.Status == statusPlaying && game.Phase == phaseStats:
		total, submitted := statsProgress(game)
		payload["stats_total"] = total
		payload["stats_submitted"] = submitted
	case game.Status == statusVoting:
		total, submitted := guessProgress(game)
		payload["guesses_total"] = total
		payload["guesses_submitted"] = submitted
	}
	if finished {
		payload["results"] = buildResultsPayload(game)
	}
	return payload
}

// buildResultsPayload is the reveal-phase scoreboard: every player's role,
// their point breakdown, and whether the room caught the impostor.
func buildResultsPayload(game *Game) []map[string]any {
	results := make([]map[string]any, 0, len(game.Players))
	for i := range game.Players {
		player := &game.Players[i]
		entry := map[string]any{
			"player_id": player.ID,
			"name":      player.Name,
			"role":      player.Role,
		}
		if player.Role == RoleDoubleFace || player.Role == RoleRomeo {
			entry["alignment"] = player.Alignment
		}
		if player.Role == RoleRomeo && player.PartnerID != 0 {
			entry["partner_id"] = player.PartnerID
		}
		if breakdown, ok := game.Results[player.ID]; ok {
			entry["vote_bonus"] = breakdown.VoteBonus
			entry["discovery_bonus"] = breakdown.DiscoveryBonus
			entry["role_bonus"] = breakdown.RoleBonus
			entry["total"] = breakdown.Total
		}
		results = append(results, entry)
	}
	return results
}

// buildRevealPayload is the full end-of-game disclosure: the impostor and
// whether a majority of the guessers caught them, every guess laid against
// the actual role, the reported stats, and the scoreboard.
func buildRevealPayload(game *Game) map[string]any {
	impostorID := 0
	actual := make(map[int]RoleID, len(game.Players))
	for i := range game.Players {
		player := &game.Players[i]
		actual[player.ID] = player.Role
		if player.Role == RoleImpostor {
			impostorID = player.ID
		}
	}
	caughtBy := 0
	for _, guesses := range game.Guesses {
		for _, guess := range guesses {
			if guess.TargetID == impostorID && guess.Role == RoleImpostor {
				caughtBy++
				break
			}
		}
	}
	return map[string]any{
		"impostor_id":     impostorID,
		"impostor_caught": caughtBy > len(game.Guesses)/2,
		"caught_by":       caughtBy,
		"guesses":         buildGuessDisclosure(game, actual),
		"stats":           buildStatsPayload(game),
		"results":         buildResultsPayload(game),
	}
}

// buildGuessDisclosure walks submitters in seat order so the payload is
// stable across calls.
func buildGuessDisclosure(game *Game, actual map[int]RoleID) []map[string]any {
	disclosure := make([]map[string]any, 0)
	for i := range game.Players {
		guesserID := game.Players[i].ID
		for _, guess := range game.Guesses[guesserID] {
			disclosure = append(disclosure, map[string]any{
				"guesser_id": guesserID,
				"target_id":  guess.TargetID,
				"guessed":    guess.Role,
				"actual":     actual[guess.TargetID],
				"correct":    guess.Role == actual[guess.TargetID],
			})
		}
	}
	return disclosure
}

func buildStatsPayload(game *Game) []map[string]any {
	reports := make([]map[string]any, 0, len(game.Stats))
	for i := range game.Players {
		player := &game.Players[i]
		report, ok := game.Stats[player.ID]
		if !ok {
			continue
		}
		reports = append(reports, map[string]any{
			"player_id":   player.ID,
			"victory":     report.Victory,
			"kills":       report.Kills,
			"deaths":      report.Deaths,
			"assists":     report.Assists,
			"damage":      report.Damage,
			"creep_score": report.CreepScore,
		})
	}
	return reports
}
