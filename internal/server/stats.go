package server

import "errors"

// Stats collector: one StatReport per player per game, upsertable. The
// numbers are self-reported and taken on trust; the only shaping applied
// is clamping negatives to zero.

func upsertStats(game *Game, playerID int, report StatReport) error {
	if game.Status != statusPlaying || game.Phase != phaseStats {
		return errors.New("stats are not being collected right now")
	}
	if _, ok := findGamePlayer(game, playerID); !ok {
		return errors.New("player not found")
	}
	game.Stats[playerID] = clampStats(report)
	return nil
}

func clampStats(report StatReport) StatReport {
	report.Kills = clampNonNegative(report.Kills)
	report.Deaths = clampNonNegative(report.Deaths)
	report.Assists = clampNonNegative(report.Assists)
	report.Damage = clampNonNegative(report.Damage)
	report.CreepScore = clampNonNegative(report.CreepScore)
	return report
}

func clampNonNegative(value int) int {
	if value < 0 {
		return 0
	}
	return value
}

func statsComplete(game *Game) bool {
	if len(game.Players) == 0 {
		return false
	}
	for _, player := range game.Players {
		if _, ok := game.Stats[player.ID]; !ok {
			return false
		}
	}
	return true
}

func statsProgress(game *Game) (total, submitted int) {
	total = len(game.Players)
	for _, player := range game.Players {
		if _, ok := game.Stats[player.ID]; ok {
			submitted++
		}
	}
	return total, submitted
}
