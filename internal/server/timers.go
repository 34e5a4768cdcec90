package server

import (
	"log"
	"time"
)

// Each game owns one timerSet: the active phase deadline plus any pending
// mission deliveries. Holding the handles per game (instead of a global
// registry keyed by join code) means teardown is a single cancel call and
// nothing can leak past the game's lifetime.

type timerSet struct {
	phase    *time.Timer
	missions []*time.Timer
}

func (t *timerSet) stopPhase() {
	if t.phase != nil {
		t.phase.Stop()
		t.phase = nil
	}
}

func (t *timerSet) stopAll() {
	t.stopPhase()
	for _, timer := range t.missions {
		timer.Stop()
	}
	t.missions = nil
}

func (s *Server) timersFor(gameID string) *timerSet {
	if existing, ok := s.timers[gameID]; ok {
		return existing
	}
	created := &timerSet{}
	s.timers[gameID] = created
	return created
}

// schedulePhaseTimer arms the deadline for the game's current phase. Phases
// without a deadline (lobby, stats) leave the timer unarmed.
func (s *Server) schedulePhaseTimer(game *Game) {
	duration := s.phaseDuration(game)
	from := gameState{game.Status, game.Phase}
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	set := s.timersFor(game.ID)
	set.stopPhase()
	if duration <= 0 {
		return
	}
	set.phase = time.AfterFunc(duration, func() {
		s.autoAdvancePhase(game.ID, from)
	})
}

func (s *Server) phaseDuration(game *Game) time.Duration {
	if game.Status == statusPlaying && game.Phase == phaseDebate {
		return s.cfg.DebateDuration()
	}
	if game.Status == statusVoting && game.Phase == phaseVote {
		return s.cfg.VoteDuration()
	}
	return 0
}

// scheduleMissionTimers arms the delayed mission deliveries that follow the
// one issued at game start.
func (s *Server) scheduleMissionTimers(gameID string) {
	interval := s.cfg.MissionInterval()
	if interval <= 0 {
		return
	}
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	set := s.timersFor(gameID)
	for i := 1; i < s.cfg.MissionsPerGame; i++ {
		delay := time.Duration(i) * interval
		set.missions = append(set.missions, time.AfterFunc(delay, func() {
			s.deliverScheduledMissions(gameID)
		}))
	}
}

// cancelTimers tears down every pending callback for a game. Called on
// finish and on deletion so no stale timer ever touches a dead game.
func (s *Server) cancelTimers(gameID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if set, ok := s.timers[gameID]; ok {
		set.stopAll()
		delete(s.timers, gameID)
	}
}

// autoAdvancePhase is the timer-driven trigger path. It funnels into the
// same compare-and-set advance as submission-driven triggers; losing the
// race is silent.
func (s *Server) autoAdvancePhase(gameID string, from gameState) {
	game, advanced, err := s.advancePhase(gameID, from)
	if err != nil {
		log.Printf("auto-advance failed game_id=%s error=%v", gameID, err)
		return
	}
	if !advanced {
		return
	}
	log.Printf("game auto-advanced game_id=%s status=%s phase=%s reason=timeout", game.ID, game.Status, game.Phase)
	s.afterPhaseAdvance(game, "timeout")
}

// deliverScheduledMissions issues the next wave of missions to every
// mission-bearing player, respecting the per-game cap. Finished games and
// exhausted catalogs simply stop deliveries.
func (s *Server) deliverScheduledMissions(gameID string) {
	now := timeNowUTC()
	delivered := make([]MissionAssignment, 0, 1)
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		if game.Status != statusPlaying {
			return nil
		}
		for _, playerID := range missionBearers(game) {
			if assignment, ok := issueMission(game, playerID, s.cfg.MissionsPerGame, now); ok {
				delivered = append(delivered, assignment)
			}
		}
		return nil
	})
	if err != nil {
		return
	}
	for _, assignment := range delivered {
		if err := s.persistMission(game, assignment); err != nil {
			log.Printf("mission persist failed game_id=%s player_id=%d error=%v", game.ID, assignment.PlayerID, err)
		}
		s.notifyMission(game, assignment)
		log.Printf("mission issued game_id=%s player_id=%d mission=%s", game.ID, assignment.PlayerID, assignment.MissionID)
	}
}
