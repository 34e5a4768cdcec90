package server

import "testing"

func statsGame() *Game {
	game := buildTestGame(5)
	game.Status = statusPlaying
	game.Phase = phaseStats
	return game
}

func TestUpsertStatsClampsNegatives(t *testing.T) {
	game := statsGame()
	report := StatReport{Victory: true, Kills: -2, Deaths: 3, Damage: -100}
	if err := upsertStats(game, 1, report); err != nil {
		t.Fatalf("upsertStats: %v", err)
	}
	stored := game.Stats[1]
	if stored.Kills != 0 || stored.Damage != 0 {
		t.Fatalf("negative values should clamp to zero, got %+v", stored)
	}
	if stored.Deaths != 3 || !stored.Victory {
		t.Fatalf("valid values should survive, got %+v", stored)
	}
}

func TestUpsertStatsReplacesEarlierReport(t *testing.T) {
	game := statsGame()
	if err := upsertStats(game, 1, StatReport{Kills: 1}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := upsertStats(game, 1, StatReport{Kills: 7}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if game.Stats[1].Kills != 7 {
		t.Fatalf("kills = %d, want 7", game.Stats[1].Kills)
	}
	total, submitted := statsProgress(game)
	if total != 5 || submitted != 1 {
		t.Fatalf("progress = %d/%d, want 1/5", submitted, total)
	}
}

func TestUpsertStatsOnlyDuringStatsPhase(t *testing.T) {
	game := statsGame()
	game.Phase = phaseDebate
	if err := upsertStats(game, 1, StatReport{}); err == nil {
		t.Fatal("stats outside the stats phase should be rejected")
	}
	game.Phase = phaseStats
	if err := upsertStats(game, 42, StatReport{}); err == nil {
		t.Fatal("unknown player should be rejected")
	}
}

func TestStatsComplete(t *testing.T) {
	game := statsGame()
	for _, player := range game.Players {
		if statsComplete(game) {
			t.Fatal("stats should not be complete yet")
		}
		if err := upsertStats(game, player.ID, StatReport{}); err != nil {
			t.Fatalf("upsertStats player %d: %v", player.ID, err)
		}
	}
	if !statsComplete(game) {
		t.Fatal("all reports in should be complete")
	}
}
