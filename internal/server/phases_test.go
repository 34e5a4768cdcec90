package server

import (
	"testing"

	"among-legends/internal/config"
)

func serverWithGame(t *testing.T, mutate func(*Game)) (*Server, string) {
	t.Helper()
	srv := New(nil, config.Default())
	game, err := srv.store.CreateGame()
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := srv.store.UpdateGame(game.ID, func(g *Game) error {
		seeded := buildTestGame(5)
		g.Players = seeded.Players
		g.HostID = seeded.HostID
		mutate(g)
		return nil
	}); err != nil {
		t.Fatalf("seed game: %v", err)
	}
	return srv, game.ID
}

func TestAdvancePhaseStatsToDebate(t *testing.T) {
	srv, gameID := serverWithGame(t, func(g *Game) {
		g.Status = statusPlaying
		g.Phase = phaseStats
	})
	game, advanced, err := srv.advancePhase(gameID, gameState{statusPlaying, phaseStats})
	if err != nil {
		t.Fatalf("advancePhase: %v", err)
	}
	if !advanced {
		t.Fatal("transition should apply")
	}
	if game.Phase != phaseDebate {
		t.Fatalf("phase = %s, want debate", game.Phase)
	}
	if game.DebateStartedAt.IsZero() {
		t.Fatal("debate start time should be recorded")
	}
	if game.PhaseDeadline == nil {
		t.Fatal("debate should carry a deadline")
	}
}

func TestAdvancePhaseIdempotent(t *testing.T) {
	srv, gameID := serverWithGame(t, func(g *Game) {
		g.Status = statusPlaying
		g.Phase = phaseDebate
		g.DebateStartedAt = timeNowUTC()
	})
	// First trigger wins.
	if _, advanced, err := srv.advancePhase(gameID, gameState{statusPlaying, phaseDebate}); err != nil || !advanced {
		t.Fatalf("first advance: advanced=%v err=%v", advanced, err)
	}
	// The racing trigger observes the moved state and becomes a no-op.
	game, advanced, err := srv.advancePhase(gameID, gameState{statusPlaying, phaseDebate})
	if err != nil {
		t.Fatalf("second advance: %v", err)
	}
	if advanced {
		t.Fatal("second advance from the same state must be a no-op")
	}
	if game.Status != statusVoting || game.Phase != phaseVote {
		t.Fatalf("state = %s/%s, want voting/vote", game.Status, game.Phase)
	}
}

func TestAdvancePhaseUnknownTransition(t *testing.T) {
	srv, gameID := serverWithGame(t, func(g *Game) {
		g.Status = statusFinished
		g.Phase = phaseReveal
	})
	if _, _, err := srv.advancePhase(gameID, gameState{statusFinished, phaseReveal}); err == nil {
		t.Fatal("finished games have no outgoing transition")
	}
}

func TestFinishGameScoresPartialGuesses(t *testing.T) {
	srv, gameID := serverWithGame(t, func(g *Game) {
		g.Status = statusVoting
		g.Phase = phaseVote
		roles := []RoleID{RoleImpostor, RoleEscroc, RoleSerpentin, RoleSuperHero, RoleDroide}
		for i := range g.Players {
			g.Players[i].Role = roles[i]
			g.Stats[g.Players[i].ID] = StatReport{Victory: true}
		}
		// Only two guess sets in when the deadline forces the end.
		g.Guesses[2] = []RoleGuess{
			{TargetID: 1, Role: RoleImpostor},
			{TargetID: 3, Role: RoleSerpentin},
			{TargetID: 4, Role: RoleSuperHero},
			{TargetID: 5, Role: RoleDroide},
		}
		g.Guesses[3] = []RoleGuess{
			{TargetID: 1, Role: RoleEscroc},
			{TargetID: 2, Role: RoleImpostor},
			{TargetID: 4, Role: RoleSuperHero},
			{TargetID: 5, Role: RoleDroide},
		}
	})

	game, advanced, err := srv.advancePhase(gameID, gameState{statusVoting, phaseVote})
	if err != nil || !advanced {
		t.Fatalf("finish: advanced=%v err=%v", advanced, err)
	}
	if game.Status != statusFinished || game.Phase != phaseReveal {
		t.Fatalf("state = %s/%s, want finished/reveal", game.Status, game.Phase)
	}
	if game.PhaseDeadline != nil {
		t.Fatal("finished games carry no deadline")
	}
	if game.FinishedAt.IsZero() {
		t.Fatal("finish time should be recorded")
	}
	if len(game.Results) != 5 {
		t.Fatalf("results for %d players, want 5", len(game.Results))
	}
	for _, player := range game.Players {
		if player.Points == nil {
			t.Fatalf("player %d has no final points", player.ID)
		}
	}
	// Two distinct voters; one named the impostor. Win (-3) + 1 missed voter.
	if game.Results[1].RoleBonus != -2 {
		t.Fatalf("impostor role bonus = %d, want -2", game.Results[1].RoleBonus)
	}
}

func TestTryAdvanceFromStatsWaitsForAll(t *testing.T) {
	srv, gameID := serverWithGame(t, func(g *Game) {
		g.Status = statusPlaying
		g.Phase = phaseStats
		g.Stats[1] = StatReport{}
		g.Stats[2] = StatReport{}
	})
	game, advanced, err := srv.tryAdvanceFromStats(gameID)
	if err != nil {
		t.Fatalf("tryAdvanceFromStats: %v", err)
	}
	if advanced {
		t.Fatal("incomplete stats must not advance")
	}
	if _, err := srv.store.UpdateGame(gameID, func(g *Game) error {
		g.Stats[3] = StatReport{}
		g.Stats[4] = StatReport{}
		g.Stats[5] = StatReport{}
		return nil
	}); err != nil {
		t.Fatalf("seed remaining stats: %v", err)
	}
	game, advanced, err = srv.tryAdvanceFromStats(gameID)
	if err != nil || !advanced {
		t.Fatalf("complete stats should advance: advanced=%v err=%v", advanced, err)
	}
	if game.Phase != phaseDebate {
		t.Fatalf("phase = %s, want debate", game.Phase)
	}
}

func TestHostPushOpensStatsPhase(t *testing.T) {
	srv, gameID := serverWithGame(t, func(g *Game) {
		g.Status = statusPlaying
		g.Phase = phaseNone
	})
	game, advanced, err := srv.advancePhase(gameID, gameState{statusPlaying, phaseNone})
	if err != nil || !advanced {
		t.Fatalf("advance: advanced=%v err=%v", advanced, err)
	}
	if game.Phase != phaseStats {
		t.Fatalf("phase = %s, want stats", game.Phase)
	}
	if game.PhaseDeadline != nil {
		t.Fatal("the stats phase has no deadline")
	}
}
