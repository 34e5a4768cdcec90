package server

import (
	"errors"
	"time"
)

// The session state machine is forward-only:
//
//	lobby -> playing("") -> playing(stats) -> playing(debate)
//	      -> voting(vote) -> finished(reveal)
//
// Completion-triggered advances and deadline timers race for the same
// transitions, so every advance goes through advancePhase, which
// compare-and-sets on the (status, phase) pair inside the store lock. The
// losing trigger observes a changed state and becomes a no-op.

type gameState struct {
	Status string
	Phase  string
}

type phaseTransition struct {
	apply func(s *Server, game *Game, at time.Time) error
}

var phaseTransitions = map[gameState]phaseTransition{
	{statusPlaying, phaseNone}: {
		apply: func(s *Server, game *Game, at time.Time) error {
			game.Phase = phaseStats
			game.PhaseDeadline = nil
			return nil
		},
	},
	{statusPlaying, phaseStats}: {
		apply: func(s *Server, game *Game, at time.Time) error {
			game.Phase = phaseDebate
			game.DebateStartedAt = at
			deadline := at.Add(s.cfg.DebateDuration())
			game.PhaseDeadline = &deadline
			return nil
		},
	},
	{statusPlaying, phaseDebate}: {
		apply: func(s *Server, game *Game, at time.Time) error {
			game.Status = statusVoting
			game.Phase = phaseVote
			deadline := at.Add(s.cfg.VoteDuration())
			game.PhaseDeadline = &deadline
			return nil
		},
	},
	{statusVoting, phaseVote}: {
		apply: func(s *Server, game *Game, at time.Time) error {
			return finishGame(game, at)
		},
	},
}

// advancePhase applies the transition out of `from` exactly once. A second
// invocation for the same transition finds the state already moved on and
// reports advanced=false with no error.
func (s *Server) advancePhase(gameID string, from gameState) (*Game, bool, error) {
	now := timeNowUTC()
	advanced := false
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		if game.Status != from.Status || game.Phase != from.Phase {
			return nil
		}
		transition, ok := phaseTransitions[from]
		if !ok {
			return errors.New("no transition from this state")
		}
		if err := transition.apply(s, game, now); err != nil {
			return err
		}
		advanced = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return game, advanced, nil
}

// finishGame is the terminal transition: scoring runs once here, with
// whatever guess sets exist. A deadline-forced end scores partial data by
// design, so every session terminates.
func finishGame(game *Game, at time.Time) error {
	results := scoreGame(buildScoreInput(game))
	game.Results = results
	for i := range game.Players {
		player := &game.Players[i]
		if breakdown, ok := results[player.ID]; ok {
			total := breakdown.Total
			player.Points = &total
		}
	}
	game.Status = statusFinished
	game.Phase = phaseReveal
	game.PhaseDeadline = nil
	game.FinishedAt = at
	return nil
}

func buildScoreInput(game *Game) scoreInput {
	roles := make(map[int]RoleID, len(game.Players))
	alignments := make(map[int]string)
	for _, player := range game.Players {
		roles[player.ID] = player.Role
		if player.Role == RoleDoubleFace {
			alignments[player.ID] = player.Alignment
		}
	}
	stats := make(map[int]StatReport, len(game.Stats))
	for playerID, report := range game.Stats {
		stats[playerID] = report
	}
	return scoreInput{
		Roles:      roles,
		Alignments: alignments,
		Guesses:    flattenGuesses(game),
		Stats:      stats,
		Actions:    actionSummaries(game),
	}
}

// tryAdvanceFromStats moves to the debate the instant the last StatReport
// lands. There is no timeout for stats; this is the only way out.
func (s *Server) tryAdvanceFromStats(gameID string) (*Game, bool, error) {
	checked := false
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		checked = game.Status == statusPlaying && game.Phase == phaseStats && statsComplete(game)
		return nil
	})
	if err != nil || !checked {
		return game, false, err
	}
	return s.advancePhase(gameID, gameState{statusPlaying, phaseStats})
}

// tryFinishFromVotes ends the session once every player has a guess set in.
func (s *Server) tryFinishFromVotes(gameID string) (*Game, bool, error) {
	checked := false
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		checked = game.Status == statusVoting && game.Phase == phaseVote && guessesComplete(game)
		return nil
	})
	if err != nil || !checked {
		return game, false, err
	}
	return s.advancePhase(gameID, gameState{statusVoting, phaseVote})
}
